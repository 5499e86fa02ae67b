package auth

import (
	"unicode"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterValidators installs the custom "password" rule on gin's binding
// engine so request structs can declare it in their binding tags.
func RegisterValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("password", passwordRule)
	}
}

func passwordRule(fl validator.FieldLevel) bool {
	return IsPasswordComplex(fl.Field().String())
}

// IsPasswordComplex reports whether the password has at least 8 characters
// with upper, lower, and numeric content.
func IsPasswordComplex(s string) bool {
	if len(s) < 8 {
		return false
	}
	var hasUpper, hasLower, hasNumber bool
	for _, char := range s {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsNumber(char):
			hasNumber = true
		}
	}
	return hasUpper && hasLower && hasNumber
}
