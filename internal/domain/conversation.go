package domain

import (
	"time"
)

// Conversation is the durable record of messages between a fixed set of
// participants. Created once, grows by message appension, never deleted.
type Conversation struct {
	ID             string    `json:"id"`
	ParticipantIDs []string  `json:"participant_ids"`
	CreatedAt      time.Time `json:"created_at"`
	LastActivityAt time.Time `json:"last_activity_at"`
}

// Message is one immutable entry in a conversation.
type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	SenderID       string    `json:"sender_id"`
	Body           string    `json:"body"`
	CreatedAt      time.Time `json:"created_at"`
}

// ConversationSummary is the list-view projection of a conversation.
type ConversationSummary struct {
	ID             string    `json:"id"`
	ParticipantIDs []string  `json:"participant_ids"`
	LastMessage    *Message  `json:"last_message,omitempty"`
	LastActivityAt time.Time `json:"last_activity_at"`
}

// ConversationModel is the GORM model for conversations.
type ConversationModel struct {
	ID             string `gorm:"primaryKey"`
	CreatedAt      time.Time
	LastActivityAt time.Time `gorm:"index"`
}

func (ConversationModel) TableName() string {
	return "conversations"
}

// ParticipantModel links a user to a conversation.
type ParticipantModel struct {
	ConversationID string `gorm:"primaryKey;index:idx_participant_user"`
	UserID         string `gorm:"primaryKey;index:idx_participant_user"`
	JoinedAt       time.Time
}

func (ParticipantModel) TableName() string {
	return "conversation_participants"
}

// MessageModel is the GORM model for messages.
type MessageModel struct {
	ID             string    `gorm:"primaryKey"`
	ConversationID string    `gorm:"index:idx_message_conversation"`
	SenderID       string    `gorm:"not null"`
	Body           string    `gorm:"not null"`
	CreatedAt      time.Time `gorm:"index:idx_message_conversation"`
}

func (MessageModel) TableName() string {
	return "messages"
}

// ToDomain converts the model to a domain Message.
func (m *MessageModel) ToDomain() *Message {
	return &Message{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		SenderID:       m.SenderID,
		Body:           m.Body,
		CreatedAt:      m.CreatedAt,
	}
}

// CreateConversationRequest starts a conversation explicitly.
type CreateConversationRequest struct {
	ParticipantID string `json:"participant_id" binding:"required"`
}

// SendMessageRequest appends a message over REST.
type SendMessageRequest struct {
	Message string `json:"message" binding:"required"`
}
