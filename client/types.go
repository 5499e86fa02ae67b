package client

import (
	"time"
)

// User is the alumni profile as the API returns it.
type User struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	Username       string    `json:"username"`
	DisplayName    string    `json:"display_name,omitempty"`
	GraduationYear int       `json:"graduation_year,omitempty"`
	Company        string    `json:"company,omitempty"`
	JobTitle       string    `json:"job_title,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// AuthResponse is returned by login and register.
type AuthResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// Message is one entry of a conversation's history.
type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	SenderID       string    `json:"sender_id"`
	Body           string    `json:"body"`
	CreatedAt      time.Time `json:"created_at"`
}

// Conversation is a durable conversation record.
type Conversation struct {
	ID             string    `json:"id"`
	ParticipantIDs []string  `json:"participant_ids"`
	CreatedAt      time.Time `json:"created_at"`
	LastActivityAt time.Time `json:"last_activity_at"`
}

// ConversationSummary is the list-view projection of a conversation.
type ConversationSummary struct {
	ID             string    `json:"id"`
	ParticipantIDs []string  `json:"participant_ids"`
	LastMessage    *Message  `json:"last_message,omitempty"`
	LastActivityAt time.Time `json:"last_activity_at"`
}

// RegisterParams is the payload for account creation.
type RegisterParams struct {
	Email          string `json:"email"`
	Username       string `json:"username"`
	DisplayName    string `json:"display_name,omitempty"`
	GraduationYear int    `json:"graduation_year,omitempty"`
	Password       string `json:"password"`
}

// ProfileUpdate carries the profile fields to change; nil fields are left
// untouched.
type ProfileUpdate struct {
	DisplayName    *string `json:"display_name,omitempty"`
	GraduationYear *int    `json:"graduation_year,omitempty"`
	Company        *string `json:"company,omitempty"`
	JobTitle       *string `json:"job_title,omitempty"`
}

// Event is a server-to-client channel event. Type discriminates which of the
// remaining fields are meaningful.
type Event struct {
	Type       string `json:"type"`
	Room       string `json:"room,omitempty"`
	SenderID   string `json:"sender_id,omitempty"`
	SenderName string `json:"sender_name,omitempty"`
	Text       string `json:"text,omitempty"`
	Timestamp  int64  `json:"timestamp,omitempty"`
	Code       string `json:"code,omitempty"`
	Message    string `json:"message,omitempty"`
}

// Channel event type names, shared with the server protocol.
const (
	EventJoinRoom       = "join-room"
	EventLeaveRoom      = "leave-room"
	EventSendMessage    = "send-message"
	EventRoomJoined     = "room-joined"
	EventRoomLeft       = "room-left"
	EventReceiveMessage = "receive-message"
	EventError          = "error"
)
