package service

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/AyanAlikhan11/connext-Alumni/internal/auth"
	"github.com/AyanAlikhan11/connext-Alumni/internal/domain"
	"github.com/AyanAlikhan11/connext-Alumni/internal/repository"
	"github.com/AyanAlikhan11/connext-Alumni/pkg/log"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// authServiceImpl implements AuthService.
type authServiceImpl struct {
	repo   repository.UserRepository
	tokens *auth.TokenManager
}

// NewAuthService creates a new auth service.
func NewAuthService(repo repository.UserRepository, tokens *auth.TokenManager) AuthService {
	return &authServiceImpl{
		repo:   repo,
		tokens: tokens,
	}
}

// Register creates an account and issues its first token.
func (s *authServiceImpl) Register(ctx context.Context, req *domain.RegisterRequest) (*domain.AuthResponse, error) {
	l := log.Ctx(ctx)

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		l.Error().Err(err).Msg("failed to hash password")
		return nil, err
	}

	user := &domain.User{
		Email:          req.Email,
		Username:       req.Username,
		DisplayName:    req.DisplayName,
		GraduationYear: req.GraduationYear,
		PasswordHash:   string(hashedPassword),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		l.Warn().Err(err).Msg("failed to create user")
		return nil, err
	}

	token, err := s.tokens.Issue(user.ID, user.Email, user.Username)
	if err != nil {
		l.Error().Err(err).Msg("failed to issue token")
		return nil, err
	}

	l.Info().Str(log.FieldUserID, user.ID).Msg("user registered")
	return &domain.AuthResponse{Token: token, User: user}, nil
}

// Login verifies credentials and issues a fresh token.
func (s *authServiceImpl) Login(ctx context.Context, req *domain.LoginRequest) (*domain.AuthResponse, error) {
	l := log.Ctx(ctx)

	user, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID, user.Email, user.Username)
	if err != nil {
		l.Error().Err(err).Msg("failed to issue token")
		return nil, err
	}

	l.Info().Str(log.FieldUserID, user.ID).Msg("user logged in")
	return &domain.AuthResponse{Token: token, User: user}, nil
}

// Logout revokes the presented token server-side.
func (s *authServiceImpl) Logout(ctx context.Context, token string) error {
	return s.tokens.Revoke(ctx, token)
}

// Me returns the identity bound to the authenticated session.
func (s *authServiceImpl) Me(ctx context.Context, userID string) (*domain.User, error) {
	return s.repo.GetByID(ctx, userID)
}

// UpdateProfile applies the non-nil fields of the request.
func (s *authServiceImpl) UpdateProfile(ctx context.Context, userID string, req *domain.UpdateProfileRequest) (*domain.User, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.DisplayName != nil {
		user.DisplayName = *req.DisplayName
	}
	if req.GraduationYear != nil {
		user.GraduationYear = *req.GraduationYear
	}
	if req.Company != nil {
		user.Company = *req.Company
	}
	if req.JobTitle != nil {
		user.JobTitle = *req.JobTitle
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
