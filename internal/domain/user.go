package domain

import (
	"time"
)

// User represents an alumni account.
type User struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	Username       string    `json:"username"`
	DisplayName    string    `json:"display_name,omitempty"`
	GraduationYear int       `json:"graduation_year,omitempty"`
	Company        string    `json:"company,omitempty"`
	JobTitle       string    `json:"job_title,omitempty"`
	PasswordHash   string    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// UserModel is the GORM model for users.
type UserModel struct {
	ID             string `gorm:"primaryKey"`
	Email          string `gorm:"uniqueIndex;not null"`
	Username       string `gorm:"uniqueIndex;not null"`
	DisplayName    string
	GraduationYear int
	Company        string
	JobTitle       string
	PasswordHash   string `gorm:"not null"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TableName overrides the GORM table name.
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the model to a domain User.
func (m *UserModel) ToDomain() *User {
	return &User{
		ID:             m.ID,
		Email:          m.Email,
		Username:       m.Username,
		DisplayName:    m.DisplayName,
		GraduationYear: m.GraduationYear,
		Company:        m.Company,
		JobTitle:       m.JobTitle,
		PasswordHash:   m.PasswordHash,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

// UserToModel converts a domain User to its GORM model.
func UserToModel(u *User) *UserModel {
	return &UserModel{
		ID:             u.ID,
		Email:          u.Email,
		Username:       u.Username,
		DisplayName:    u.DisplayName,
		GraduationYear: u.GraduationYear,
		Company:        u.Company,
		JobTitle:       u.JobTitle,
		PasswordHash:   u.PasswordHash,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

// RegisterRequest is the registration payload.
type RegisterRequest struct {
	Email          string `json:"email" binding:"required,email"`
	Username       string `json:"username" binding:"required,min=3,max=32"`
	DisplayName    string `json:"display_name"`
	GraduationYear int    `json:"graduation_year"`
	Password       string `json:"password" binding:"required,password"`
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest is the profile update payload.
type UpdateProfileRequest struct {
	DisplayName    *string `json:"display_name"`
	GraduationYear *int    `json:"graduation_year"`
	Company        *string `json:"company"`
	JobTitle       *string `json:"job_title"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}
