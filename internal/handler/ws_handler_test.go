package handler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/AyanAlikhan11/connext-Alumni/client"
)

// openChannel registers a user, opens a relay channel, and returns both.
func openChannel(t *testing.T, serverURL, email, username string) (*client.Client, *client.Channel) {
	t.Helper()
	c := client.New(serverURL)
	registerUser(t, c, email, username)

	ch, err := c.OpenChannel(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { ch.Close() })
	return c, ch
}

// waitFor reads events until one of the wanted type arrives.
func waitFor(t *testing.T, ch *client.Channel, eventType string) client.Event {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case evt, ok := <-ch.Events():
			require.True(t, ok, "channel closed while waiting for %s", eventType)
			if evt.Type == eventType {
				return evt
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %s event", eventType)
		}
	}
}

// requireSilence asserts no event arrives within the window.
func requireSilence(t *testing.T, ch *client.Channel) {
	t.Helper()
	select {
	case evt, ok := <-ch.Events():
		if ok {
			t.Fatalf("expected no event, got %q", evt.Type)
		}
	case <-time.After(150 * time.Millisecond):
	}
}

func TestRelay_FanOutScenario(t *testing.T) {
	req := require.New(t)
	server := testServer(t)

	_, aliceCh := openChannel(t, server.URL, "alice@example.com", "alice")
	_, bobCh := openChannel(t, server.URL, "bob@example.com", "bob")

	req.NoError(aliceCh.Join("conv-42"))
	waitFor(t, aliceCh, client.EventRoomJoined)
	req.NoError(bobCh.Join("conv-42"))
	waitFor(t, bobCh, client.EventRoomJoined)

	req.NoError(aliceCh.Send("conv-42", "hi"))

	// Bob receives exactly one receive-message with the payload.
	evt := waitFor(t, bobCh, client.EventReceiveMessage)
	req.Equal("conv-42", evt.Room)
	req.Equal("hi", evt.Text)
	req.Equal("alice", evt.SenderName)
	req.NotZero(evt.Timestamp)

	// And nothing more: not a duplicate for Bob, nothing at all for Alice.
	requireSilence(t, bobCh)
	requireSilence(t, aliceCh)
}

func TestRelay_SendWithoutJoinRejected(t *testing.T) {
	req := require.New(t)
	server := testServer(t)

	_, aliceCh := openChannel(t, server.URL, "alice@example.com", "alice")
	_, bobCh := openChannel(t, server.URL, "bob@example.com", "bob")

	req.NoError(bobCh.Join("conv-42"))
	waitFor(t, bobCh, client.EventRoomJoined)

	// Alice never joined conv-42; her send bounces back as an error and is
	// not relayed.
	req.NoError(aliceCh.Send("conv-42", "sneaky"))

	evt := waitFor(t, aliceCh, client.EventError)
	req.Equal("NOT_IN_ROOM", evt.Code)
	requireSilence(t, bobCh)
}

func TestRelay_LeaveStopsDelivery(t *testing.T) {
	req := require.New(t)
	server := testServer(t)

	_, aliceCh := openChannel(t, server.URL, "alice@example.com", "alice")
	_, bobCh := openChannel(t, server.URL, "bob@example.com", "bob")

	req.NoError(aliceCh.Join("conv-7"))
	waitFor(t, aliceCh, client.EventRoomJoined)
	req.NoError(bobCh.Join("conv-7"))
	waitFor(t, bobCh, client.EventRoomJoined)

	req.NoError(bobCh.Leave("conv-7"))
	waitFor(t, bobCh, client.EventRoomLeft)

	req.NoError(aliceCh.Send("conv-7", "anyone there?"))
	requireSilence(t, bobCh)
}

func TestRelay_DisconnectPurgesMembership(t *testing.T) {
	req := require.New(t)
	server := testServer(t)

	_, aliceCh := openChannel(t, server.URL, "alice@example.com", "alice")
	_, bobCh := openChannel(t, server.URL, "bob@example.com", "bob")
	_, carolCh := openChannel(t, server.URL, "carol@example.com", "carol")

	for _, ch := range []*client.Channel{aliceCh, bobCh, carolCh} {
		req.NoError(ch.Join("conv-9"))
		waitFor(t, ch, client.EventRoomJoined)
	}

	req.NoError(bobCh.Close())
	// Give the hub a beat to process the disconnect.
	time.Sleep(100 * time.Millisecond)

	req.NoError(aliceCh.Send("conv-9", "still here?"))

	evt := waitFor(t, carolCh, client.EventReceiveMessage)
	req.Equal("still here?", evt.Text)
}

func TestRelay_MultipleRoomsIndependent(t *testing.T) {
	req := require.New(t)
	server := testServer(t)

	_, aliceCh := openChannel(t, server.URL, "alice@example.com", "alice")
	_, bobCh := openChannel(t, server.URL, "bob@example.com", "bob")

	// Alice subscribes to both rooms, Bob only to one.
	req.NoError(aliceCh.Join("conv-1"))
	waitFor(t, aliceCh, client.EventRoomJoined)
	req.NoError(aliceCh.Join("conv-2"))
	waitFor(t, aliceCh, client.EventRoomJoined)
	req.NoError(bobCh.Join("conv-1"))
	waitFor(t, bobCh, client.EventRoomJoined)

	req.NoError(aliceCh.Send("conv-2", "empty room"))
	requireSilence(t, bobCh)

	req.NoError(aliceCh.Send("conv-1", "shared room"))
	evt := waitFor(t, bobCh, client.EventReceiveMessage)
	req.Equal("conv-1", evt.Room)
	req.Equal("shared room", evt.Text)
}

func TestChannel_RejectsAnonymousDial(t *testing.T) {
	req := require.New(t)
	server := testServer(t)

	c := client.New(server.URL)
	_, err := c.OpenChannel(context.Background())
	req.ErrorIs(err, client.ErrAuthenticationRequired)
}

func TestChannel_RejectsStaleToken(t *testing.T) {
	req := require.New(t)
	server := testServer(t)
	ctx := context.Background()

	c := client.New(server.URL)
	registerUser(t, c, "alice@example.com", "alice")
	req.NoError(c.Logout(ctx))

	// Logout cleared the session; a channel cannot be opened anonymously,
	// and a fresh login is required first.
	_, err := c.OpenChannel(ctx)
	req.ErrorIs(err, client.ErrAuthenticationRequired)

	_, err = c.Login(ctx, "alice@example.com", "Str0ngpass")
	req.NoError(err)
	ch, err := c.OpenChannel(ctx)
	req.NoError(err)
	ch.Close()
}
