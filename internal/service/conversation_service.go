package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/AyanAlikhan11/connext-Alumni/internal/domain"
	"github.com/AyanAlikhan11/connext-Alumni/internal/repository"
	"github.com/AyanAlikhan11/connext-Alumni/pkg/log"
)

var (
	ErrEmptyBody      = errors.New("message body is empty")
	ErrNotParticipant = errors.New("not a participant of this conversation")
)

// conversationServiceImpl implements ConversationService.
type conversationServiceImpl struct {
	conversations repository.ConversationRepository
	users         repository.UserRepository
}

// NewConversationService creates a new conversation service.
func NewConversationService(conversations repository.ConversationRepository, users repository.UserRepository) ConversationService {
	return &conversationServiceImpl{
		conversations: conversations,
		users:         users,
	}
}

// ListConversations returns the user's conversation summaries, most recent
// activity first.
func (s *conversationServiceImpl) ListConversations(ctx context.Context, userID string) ([]*domain.ConversationSummary, error) {
	conversations, err := s.conversations.ListByParticipant(ctx, userID)
	if err != nil {
		return nil, err
	}

	summaries := make([]*domain.ConversationSummary, 0, len(conversations))
	for _, conv := range conversations {
		last, err := s.conversations.LastMessage(ctx, conv.ID)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, &domain.ConversationSummary{
			ID:             conv.ID,
			ParticipantIDs: conv.ParticipantIDs,
			LastMessage:    last,
			LastActivityAt: conv.LastActivityAt,
		})
	}
	return summaries, nil
}

// CreateConversation starts a conversation between the creator and one other
// participant. If one already exists between the pair it is returned instead
// of creating a duplicate.
func (s *conversationServiceImpl) CreateConversation(ctx context.Context, creatorID, participantID string) (*domain.Conversation, error) {
	l := log.Ctx(ctx)

	if participantID == creatorID {
		return nil, ErrNotParticipant
	}
	if _, err := s.users.GetByID(ctx, participantID); err != nil {
		return nil, err
	}

	existing, err := s.conversations.ListByParticipant(ctx, creatorID)
	if err != nil {
		return nil, err
	}
	if conv, ok := lo.Find(existing, func(c *domain.Conversation) bool {
		return len(c.ParticipantIDs) == 2 && lo.Contains(c.ParticipantIDs, participantID)
	}); ok {
		return conv, nil
	}

	conv, err := s.conversations.Create(ctx, []string{creatorID, participantID})
	if err != nil {
		return nil, err
	}

	l.Info().Str(log.FieldConversationID, conv.ID).Msg("conversation created")
	return conv, nil
}

// AppendMessage durably stores a message. The sender must be a participant
// and the body must be non-empty.
func (s *conversationServiceImpl) AppendMessage(ctx context.Context, conversationID, senderID, body string) (*domain.Message, error) {
	if strings.TrimSpace(body) == "" {
		return nil, ErrEmptyBody
	}

	conv, err := s.conversations.GetByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if !lo.Contains(conv.ParticipantIDs, senderID) {
		return nil, ErrNotParticipant
	}

	msg := &domain.Message{
		ID:             uuid.New().String(),
		ConversationID: conversationID,
		SenderID:       senderID,
		Body:           body,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.conversations.AppendMessage(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// ListMessages returns a conversation's messages in creation order. The
// requester must be a participant.
func (s *conversationServiceImpl) ListMessages(ctx context.Context, conversationID, requesterID string) ([]*domain.Message, error) {
	conv, err := s.conversations.GetByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if !lo.Contains(conv.ParticipantIDs, requesterID) {
		return nil, ErrNotParticipant
	}

	return s.conversations.ListMessages(ctx, conversationID)
}
