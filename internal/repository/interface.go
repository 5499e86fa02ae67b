package repository

import (
	"context"
	"errors"

	"github.com/AyanAlikhan11/connext-Alumni/internal/domain"
)

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrEmailExists          = errors.New("email already exists")
	ErrUsernameExists       = errors.New("username already exists")
	ErrConversationNotFound = errors.New("conversation not found")
)

// UserRepository persists alumni accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
}

// ConversationRepository persists conversations and their ordered message
// history.
type ConversationRepository interface {
	Create(ctx context.Context, participantIDs []string) (*domain.Conversation, error)
	GetByID(ctx context.Context, id string) (*domain.Conversation, error)
	ListByParticipant(ctx context.Context, userID string) ([]*domain.Conversation, error)
	AppendMessage(ctx context.Context, msg *domain.Message) error
	ListMessages(ctx context.Context, conversationID string) ([]*domain.Message, error)
	LastMessage(ctx context.Context, conversationID string) (*domain.Message, error)
}
