package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/AyanAlikhan11/connext-Alumni/internal/auth"
	"github.com/AyanAlikhan11/connext-Alumni/internal/config"
	"github.com/AyanAlikhan11/connext-Alumni/internal/domain"
	"github.com/AyanAlikhan11/connext-Alumni/internal/hub"
	"github.com/AyanAlikhan11/connext-Alumni/internal/middleware"
	"github.com/AyanAlikhan11/connext-Alumni/pkg/log"
	"github.com/AyanAlikhan11/connext-Alumni/pkg/response"
)

// WSHandler upgrades authenticated connections into relay endpoints and
// translates channel events into dispatcher calls.
type WSHandler struct {
	hub      *hub.Hub
	tokens   *auth.TokenManager
	wsCfg    config.WebSocketConfig
	upgrader websocket.Upgrader
}

// NewWSHandler creates a websocket handler. allowedOrigin is the front-end
// origin permitted to open channels; connections without an Origin header
// (non-browser clients) are always allowed.
func NewWSHandler(h *hub.Hub, tokens *auth.TokenManager, wsCfg config.WebSocketConfig, allowedOrigin string) *WSHandler {
	return &WSHandler{
		hub:    h,
		tokens: tokens,
		wsCfg:  wsCfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || origin == allowedOrigin
			},
		},
	}
}

// RegisterRoutes registers the channel endpoint.
func (h *WSHandler) RegisterRoutes(r *gin.Engine) {
	r.GET("/ws", h.HandleWebSocket)
}

// HandleWebSocket authenticates the request and upgrades it into a relay
// endpoint. An anonymous or stale token is refused before the upgrade with
// the same distinguished 401 the REST surface uses.
func (h *WSHandler) HandleWebSocket(c *gin.Context) {
	token := middleware.UpgradeToken(c.Request)
	if token == "" {
		response.Unauthorized(c, "missing token")
		return
	}

	claims, err := h.tokens.Validate(c.Request.Context(), token)
	if err != nil {
		response.Unauthorized(c, "invalid or expired token")
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		l := log.Ctx(c.Request.Context())
		l.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := hub.NewClient(uuid.New().String(), claims.UserID, claims.Username, h.hub, conn, h.wsCfg)

	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump(h.handleEvent)
}

func (h *WSHandler) handleEvent(client *hub.Client, message []byte) {
	var base domain.BaseEvent
	if err := json.Unmarshal(message, &base); err != nil {
		client.SendEvent(domain.NewErrorEvent(domain.ErrCodeBadEvent, "invalid event format"))
		return
	}

	switch base.Type {
	case domain.EventJoinRoom:
		var evt domain.JoinRoomEvent
		if err := json.Unmarshal(message, &evt); err != nil || evt.Room == "" {
			client.SendEvent(domain.NewErrorEvent(domain.ErrCodeBadEvent, "invalid join-room event"))
			return
		}
		if !h.hub.Join(client, evt.Room) {
			// Endpoint already dropped by the hub; the connection is on its
			// way down.
			return
		}
		client.SendEvent(&domain.RoomJoinedEvent{Type: domain.EventRoomJoined, Room: evt.Room})

	case domain.EventLeaveRoom:
		var evt domain.LeaveRoomEvent
		if err := json.Unmarshal(message, &evt); err != nil || evt.Room == "" {
			client.SendEvent(domain.NewErrorEvent(domain.ErrCodeBadEvent, "invalid leave-room event"))
			return
		}
		h.hub.Leave(client, evt.Room)
		client.SendEvent(&domain.RoomLeftEvent{Type: domain.EventRoomLeft, Room: evt.Room})

	case domain.EventSendMessage:
		var evt domain.SendMessageEvent
		if err := json.Unmarshal(message, &evt); err != nil || evt.Room == "" {
			client.SendEvent(domain.NewErrorEvent(domain.ErrCodeBadEvent, "invalid send-message event"))
			return
		}
		// Sending into a room the endpoint never joined is rejected rather
		// than silently relayed.
		if !h.hub.InRoom(client, evt.Room) {
			client.SendEvent(domain.NewErrorEvent(domain.ErrCodeNotInRoom, "join the room before sending"))
			return
		}
		out := &domain.ReceiveMessageEvent{
			Type:       domain.EventReceiveMessage,
			Room:       evt.Room,
			SenderID:   client.UserID,
			SenderName: client.Username,
			Text:       evt.Text,
			Timestamp:  time.Now().UTC().UnixMilli(),
		}
		if err := h.hub.Relay(evt.Room, out, client.ID); err != nil {
			l := log.L()
			l.Error().Err(err).
				Str(log.FieldEndpointID, client.ID).
				Str(log.FieldConversationID, evt.Room).
				Msg("relay failed")
			client.SendEvent(domain.NewErrorEvent(domain.ErrCodeInternal, "failed to relay message"))
		}

	default:
		client.SendEvent(domain.NewErrorEvent(domain.ErrCodeBadEvent, "unknown event type"))
	}
}
