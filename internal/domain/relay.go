package domain

// Channel event types from client. The names match the original browser
// protocol so existing front-ends keep working.
const (
	EventJoinRoom    = "join-room"
	EventLeaveRoom   = "leave-room"
	EventSendMessage = "send-message"
)

// Channel event types to client.
const (
	EventRoomJoined     = "room-joined"
	EventRoomLeft       = "room-left"
	EventReceiveMessage = "receive-message"
	EventError          = "error"
)

// Relay error codes.
const (
	ErrCodeBadEvent  = "BAD_EVENT"
	ErrCodeNotInRoom = "NOT_IN_ROOM"
	ErrCodeInternal  = "INTERNAL_ERROR"
)

// BaseEvent carries the discriminator shared by every channel event.
type BaseEvent struct {
	Type string `json:"type"`
}

// Client -> Server events

type JoinRoomEvent struct {
	Type string `json:"type"`
	Room string `json:"room"`
}

type LeaveRoomEvent struct {
	Type string `json:"type"`
	Room string `json:"room"`
}

type SendMessageEvent struct {
	Type string `json:"type"`
	Room string `json:"room"`
	Text string `json:"text"`
}

// Server -> Client events

type RoomJoinedEvent struct {
	Type string `json:"type"`
	Room string `json:"room"`
}

type RoomLeftEvent struct {
	Type string `json:"type"`
	Room string `json:"room"`
}

type ReceiveMessageEvent struct {
	Type       string `json:"type"`
	Room       string `json:"room"`
	SenderID   string `json:"sender_id"`
	SenderName string `json:"sender_name"`
	Text       string `json:"text"`
	Timestamp  int64  `json:"timestamp"`
}

type ErrorEvent struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewErrorEvent builds an error event for the given code and message.
func NewErrorEvent(code, message string) *ErrorEvent {
	return &ErrorEvent{
		Type:    EventError,
		Code:    code,
		Message: message,
	}
}
