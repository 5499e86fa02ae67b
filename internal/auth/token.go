package auth

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
	ErrRevokedToken = errors.New("token has been revoked")
)

// Claims represents the session claims embedded in a token.
type Claims struct {
	jwt.RegisteredClaims
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

// TokenManager issues and validates opaque bearer tokens. Tokens are
// HMAC-signed and time-bounded; logout revokes them server-side through
// the revocation store.
type TokenManager struct {
	secret  []byte
	ttl     time.Duration
	issuer  string
	revoked RevocationStore
}

// NewTokenManager creates a token manager. The revocation store may be nil,
// in which case revocation checks are skipped.
func NewTokenManager(secret string, ttl time.Duration, issuer string, revoked RevocationStore) *TokenManager {
	return &TokenManager{
		secret:  []byte(secret),
		ttl:     ttl,
		issuer:  issuer,
		revoked: revoked,
	}
}

// Issue creates a signed token bound to the given identity.
func (m *TokenManager) Issue(userID, email, username string) (string, error) {
	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Issuer:    m.issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
		UserID:   userID,
		Email:    email,
		Username: username,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Validate checks a token's signature, expiry, and revocation status, and
// returns its claims.
func (m *TokenManager) Validate(ctx context.Context, tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	if m.revoked != nil {
		revoked, err := m.revoked.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, err
		}
		if revoked {
			return nil, ErrRevokedToken
		}
	}

	return claims, nil
}

// Revoke invalidates a previously issued token until its natural expiry.
func (m *TokenManager) Revoke(ctx context.Context, tokenString string) error {
	claims, err := m.Validate(ctx, tokenString)
	if err != nil {
		return err
	}
	if m.revoked == nil {
		return nil
	}
	return m.revoked.Revoke(ctx, claims.ID, time.Until(claims.ExpiresAt.Time))
}
