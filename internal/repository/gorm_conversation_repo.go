package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"gorm.io/gorm"

	"github.com/AyanAlikhan11/connext-Alumni/internal/domain"
)

// GormConversationRepository implements ConversationRepository using GORM.
type GormConversationRepository struct {
	db *gorm.DB
}

// NewGormConversationRepository creates a new GORM-based conversation repository.
func NewGormConversationRepository(db *gorm.DB) *GormConversationRepository {
	return &GormConversationRepository{db: db}
}

// Create creates a conversation with the given participants.
func (r *GormConversationRepository) Create(ctx context.Context, participantIDs []string) (*domain.Conversation, error) {
	now := time.Now().UTC()
	conv := &domain.Conversation{
		ID:             uuid.New().String(),
		ParticipantIDs: participantIDs,
		CreatedAt:      now,
		LastActivityAt: now,
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&domain.ConversationModel{
			ID:             conv.ID,
			CreatedAt:      now,
			LastActivityAt: now,
		}).Error; err != nil {
			return err
		}

		participants := lo.Map(participantIDs, func(userID string, _ int) domain.ParticipantModel {
			return domain.ParticipantModel{
				ConversationID: conv.ID,
				UserID:         userID,
				JoinedAt:       now,
			}
		})
		return tx.Create(&participants).Error
	})
	if err != nil {
		return nil, err
	}

	return conv, nil
}

// GetByID retrieves a conversation with its participant IDs.
func (r *GormConversationRepository) GetByID(ctx context.Context, id string) (*domain.Conversation, error) {
	var model domain.ConversationModel
	result := r.db.WithContext(ctx).First(&model, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrConversationNotFound
		}
		return nil, result.Error
	}

	participantIDs, err := r.participantIDs(ctx, id)
	if err != nil {
		return nil, err
	}

	return &domain.Conversation{
		ID:             model.ID,
		ParticipantIDs: participantIDs,
		CreatedAt:      model.CreatedAt,
		LastActivityAt: model.LastActivityAt,
	}, nil
}

// ListByParticipant returns the user's conversations, most recent activity first.
func (r *GormConversationRepository) ListByParticipant(ctx context.Context, userID string) ([]*domain.Conversation, error) {
	var models []domain.ConversationModel
	err := r.db.WithContext(ctx).
		Joins("JOIN conversation_participants ON conversation_participants.conversation_id = conversations.id").
		Where("conversation_participants.user_id = ?", userID).
		Order("conversations.last_activity_at DESC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	conversations := make([]*domain.Conversation, 0, len(models))
	for _, m := range models {
		participantIDs, err := r.participantIDs(ctx, m.ID)
		if err != nil {
			return nil, err
		}
		conversations = append(conversations, &domain.Conversation{
			ID:             m.ID,
			ParticipantIDs: participantIDs,
			CreatedAt:      m.CreatedAt,
			LastActivityAt: m.LastActivityAt,
		})
	}
	return conversations, nil
}

// AppendMessage stores a message and bumps the conversation's activity time.
func (r *GormConversationRepository) AppendMessage(ctx context.Context, msg *domain.Message) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&domain.MessageModel{
			ID:             msg.ID,
			ConversationID: msg.ConversationID,
			SenderID:       msg.SenderID,
			Body:           msg.Body,
			CreatedAt:      msg.CreatedAt,
		}).Error; err != nil {
			return err
		}

		return tx.Model(&domain.ConversationModel{}).
			Where("id = ?", msg.ConversationID).
			Update("last_activity_at", msg.CreatedAt).Error
	})
}

// ListMessages returns a conversation's messages in creation order.
func (r *GormConversationRepository) ListMessages(ctx context.Context, conversationID string) ([]*domain.Message, error) {
	var models []domain.MessageModel
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	return lo.Map(models, func(m domain.MessageModel, _ int) *domain.Message {
		return m.ToDomain()
	}), nil
}

// LastMessage returns the newest message of a conversation, or nil when empty.
func (r *GormConversationRepository) LastMessage(ctx context.Context, conversationID string) (*domain.Message, error) {
	var model domain.MessageModel
	result := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at DESC").
		First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return model.ToDomain(), nil
}

func (r *GormConversationRepository) participantIDs(ctx context.Context, conversationID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&domain.ParticipantModel{}).
		Where("conversation_id = ?", conversationID).
		Order("joined_at ASC").
		Pluck("user_id", &ids).Error
	return ids, err
}
