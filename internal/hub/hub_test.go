package hub

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/AyanAlikhan11/connext-Alumni/internal/config"
)

func testConfig() config.WebSocketConfig {
	return config.WebSocketConfig{
		PingInterval:   30 * time.Second,
		PongWait:       60 * time.Second,
		WriteWait:      10 * time.Second,
		MaxMessageSize: 4096,
	}
}

// testClient builds an endpoint without a live websocket connection; fan-out
// only touches the Send buffer.
func testClient(id string) *Client {
	return &Client{
		ID:       id,
		UserID:   "user-" + id,
		Username: id,
		Send:     make(chan []byte, 16),
	}
}

func startHub(t *testing.T) *Hub {
	t.Helper()
	h := NewHub(testConfig())
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go h.Run(ctx)
	return h
}

func TestRooms_JoinIsIdempotent(t *testing.T) {
	req := require.New(t)
	r := newRooms()
	c := testClient("a")

	r.join(c, "conv-1")
	r.join(c, "conv-1")

	req.Len(r.members("conv-1"), 1)
	req.True(r.contains(c, "conv-1"))
}

func TestRooms_LeaveIsNoOpWhenAbsent(t *testing.T) {
	req := require.New(t)
	r := newRooms()
	c := testClient("a")

	r.leave(c, "conv-1")
	req.Empty(r.members("conv-1"))

	r.join(c, "conv-1")
	r.leave(c, "conv-1")
	req.Empty(r.members("conv-1"))
	req.False(r.contains(c, "conv-1"))
}

func TestRooms_RemoveAllPurgesEveryRoom(t *testing.T) {
	req := require.New(t)
	r := newRooms()
	a, b := testClient("a"), testClient("b")

	r.join(a, "conv-1")
	r.join(a, "conv-2")
	r.join(b, "conv-1")

	r.removeAll(a)

	req.False(r.contains(a, "conv-1"))
	req.False(r.contains(a, "conv-2"))
	req.True(r.contains(b, "conv-1"))
}

func TestHub_DisconnectPurgesMembership(t *testing.T) {
	req := require.New(t)
	h := startHub(t)
	a, b := testClient("a"), testClient("b")

	h.Register(a)
	h.Register(b)
	h.Join(a, "conv-1")
	h.Join(a, "conv-2")
	h.Join(b, "conv-1")

	h.Unregister(a)

	req.Eventually(func() bool {
		return !h.InRoom(a, "conv-1") && !h.InRoom(a, "conv-2")
	}, time.Second, 10*time.Millisecond)
	req.True(h.InRoom(b, "conv-1"))
}

func TestHub_FanOutExcludesSender(t *testing.T) {
	req := require.New(t)
	h := startHub(t)
	a, b, c := testClient("a"), testClient("b"), testClient("c")

	h.Register(a)
	h.Register(b)
	h.Register(c)
	h.Join(a, "conv-42")
	h.Join(b, "conv-42")
	h.Join(c, "conv-42")

	payload := map[string]string{"type": "receive-message", "text": "hi"}
	req.NoError(h.Relay("conv-42", payload, a.ID))

	for _, member := range []*Client{b, c} {
		select {
		case data := <-member.Send:
			var got map[string]string
			req.NoError(json.Unmarshal(data, &got))
			req.Equal("hi", got["text"])
		case <-time.After(time.Second):
			t.Fatalf("member %s never received the relayed event", member.ID)
		}
	}

	// Exactly once each, and never to the sender.
	select {
	case <-a.Send:
		t.Fatal("sender received its own event")
	case <-b.Send:
		t.Fatal("member b received the event twice")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_FanOutSkipsNonMembers(t *testing.T) {
	req := require.New(t)
	h := startHub(t)
	a, b, outsider := testClient("a"), testClient("b"), testClient("x")

	h.Register(a)
	h.Register(b)
	h.Register(outsider)
	h.Join(a, "conv-1")
	h.Join(b, "conv-1")

	req.NoError(h.Relay("conv-1", map[string]string{"text": "members only"}, a.ID))

	select {
	case <-b.Send:
	case <-time.After(time.Second):
		t.Fatal("room member never received the event")
	}

	select {
	case <-outsider.Send:
		t.Fatal("non-member received the event")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_MemberIDs(t *testing.T) {
	req := require.New(t)
	h := startHub(t)
	a, b := testClient("a"), testClient("b")

	h.Register(a)
	h.Register(b)
	req.True(h.Join(a, "conv-1"))
	req.True(h.Join(b, "conv-1"))

	ids := h.MemberIDs("conv-1")
	req.ElementsMatch([]string{"a", "b"}, ids)
	req.Empty(h.MemberIDs("conv-none"))
}

func TestHub_JoinRefusesUnregisteredEndpoint(t *testing.T) {
	req := require.New(t)
	h := startHub(t)
	a := testClient("a")

	req.False(h.Join(a, "conv-1"))
	req.Empty(h.MemberIDs("conv-1"))

	h.Register(a)
	req.True(h.Join(a, "conv-1"))

	h.Unregister(a)
	req.False(h.Join(a, "conv-1"))
	req.Empty(h.MemberIDs("conv-1"))
}

func TestHub_DroppedSlowMemberCannotPoisonRelay(t *testing.T) {
	req := require.New(t)
	h := startHub(t)
	healthy := testClient("healthy")
	slow := testClient("slow")
	// No buffer: the first delivery overflows and the hub drops the member.
	slow.Send = make(chan []byte)

	h.Register(healthy)
	h.Register(slow)
	req.True(h.Join(healthy, "conv-1"))
	req.True(h.Join(slow, "conv-1"))

	req.NoError(h.Relay("conv-1", map[string]string{"text": "first"}, "nobody"))

	req.Eventually(func() bool {
		return !h.InRoom(slow, "conv-1")
	}, time.Second, 10*time.Millisecond)

	// The dropped endpoint's read pump may still be running; its join must be
	// refused and a later event to it must be dropped, not panic the loop.
	req.False(h.Join(slow, "conv-1"))
	req.NoError(slow.SendEvent(map[string]string{"text": "stale"}))

	req.NoError(h.Relay("conv-1", map[string]string{"text": "second"}, "nobody"))

	for _, want := range []string{"first", "second"} {
		select {
		case data := <-healthy.Send:
			var got map[string]string
			req.NoError(json.Unmarshal(data, &got))
			req.Equal(want, got["text"])
		case <-time.After(time.Second):
			t.Fatalf("healthy member never received %q", want)
		}
	}
}
