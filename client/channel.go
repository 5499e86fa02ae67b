package client

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
)

// ErrChannelClosed is returned when writing to a closed channel.
var ErrChannelClosed = errors.New("channel closed")

// Channel is one persistent relay connection. Events fanned out by the server
// arrive on Events; the channel closes the stream when the connection drops.
type Channel struct {
	conn   *websocket.Conn
	events chan Event

	mu     sync.Mutex
	closed bool
}

// OpenChannel dials the relay with the held session token. It fails when the
// gateway is anonymous.
func (c *Client) OpenChannel(ctx context.Context) (*Channel, error) {
	token := c.Token()
	if token == "" {
		return nil, ErrAuthenticationRequired
	}

	wsURL, err := c.channelURL(token)
	if err != nil {
		return nil, &TransportError{Err: err}
	}

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		if resp != nil && resp.StatusCode == 401 {
			c.handleUnauthorized()
			return nil, ErrAuthenticationRequired
		}
		c.logger.Error().Err(err).Msg("channel dial failed")
		return nil, &TransportError{Err: err}
	}

	ch := &Channel{
		conn:   conn,
		events: make(chan Event, 64),
	}
	go ch.readLoop()
	return ch, nil
}

func (c *Client) channelURL(token string) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/ws"
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (ch *Channel) readLoop() {
	defer close(ch.events)
	for {
		var evt Event
		if err := ch.conn.ReadJSON(&evt); err != nil {
			return
		}
		select {
		case ch.events <- evt:
		default:
			// Consumer fell behind; drop rather than wedge the reader.
		}
	}
}

// Events streams server-to-client events until the channel closes.
func (ch *Channel) Events() <-chan Event {
	return ch.events
}

// Join subscribes this endpoint to a room.
func (ch *Channel) Join(room string) error {
	return ch.write(Event{Type: EventJoinRoom, Room: room})
}

// Leave unsubscribes this endpoint from a room.
func (ch *Channel) Leave(room string) error {
	return ch.write(Event{Type: EventLeaveRoom, Room: room})
}

// Send relays a message to the other members of a room. Delivery is live
// only; use Client.SendMessage for durable history.
func (ch *Channel) Send(room, text string) error {
	return ch.write(Event{Type: EventSendMessage, Room: room, Text: text})
}

func (ch *Channel) write(evt Event) error {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	if ch.closed {
		return ErrChannelClosed
	}
	return ch.conn.WriteJSON(evt)
}

// Close tears the connection down. The server purges this endpoint from every
// room it joined.
func (ch *Channel) Close() error {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	if ch.closed {
		return nil
	}
	ch.closed = true
	ch.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	return ch.conn.Close()
}
