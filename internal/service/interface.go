package service

import (
	"context"

	"github.com/AyanAlikhan11/connext-Alumni/internal/domain"
)

// AuthService owns the token lifecycle and account identity.
type AuthService interface {
	Register(ctx context.Context, req *domain.RegisterRequest) (*domain.AuthResponse, error)
	Login(ctx context.Context, req *domain.LoginRequest) (*domain.AuthResponse, error)
	Logout(ctx context.Context, token string) error
	Me(ctx context.Context, userID string) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID string, req *domain.UpdateProfileRequest) (*domain.User, error)
}

// ConversationService owns durable conversation history.
type ConversationService interface {
	ListConversations(ctx context.Context, userID string) ([]*domain.ConversationSummary, error)
	CreateConversation(ctx context.Context, creatorID, participantID string) (*domain.Conversation, error)
	AppendMessage(ctx context.Context, conversationID, senderID, body string) (*domain.Message, error)
	ListMessages(ctx context.Context, conversationID, requesterID string) ([]*domain.Message, error)
}
