package hub

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_PublishReachesOnlyTargetUser(t *testing.T) {
	h := NewHub()
	alice := make(Client, 1)
	bob := make(Client, 1)
	h.Subscribe(1, alice)
	h.Subscribe(2, bob)

	h.Publish(1, Event{Type: EventFriendRequestReceived, Payload: map[string]string{"from_user": "bob"}})

	require.Len(t, alice, 1)
	assert.Len(t, bob, 0)

	var got Event
	require.NoError(t, json.Unmarshal(<-alice, &got))
	assert.Equal(t, EventFriendRequestReceived, got.Type)
}

func TestHub_PublishDoesNotBlockOnFullClient(t *testing.T) {
	h := NewHub()
	client := make(Client)
	h.Subscribe(1, client)

	h.Publish(1, Event{Type: EventFriendRequestAccepted})
	assert.Len(t, client, 0)
	assert.Equal(t, uint64(1), h.Dropped())
}

func TestHub_DroppedCountsOnlyFullClients(t *testing.T) {
	h := NewHub()
	fast := make(Client, 4)
	slow := make(Client, 1)
	h.Subscribe(1, fast)
	h.Subscribe(1, slow)

	for i := 0; i < 3; i++ {
		h.Publish(1, Event{Type: EventFriendRequestReceived})
	}

	assert.Len(t, fast, 3)
	assert.Len(t, slow, 1)
	assert.Equal(t, uint64(2), h.Dropped())
}

func TestHub_Unsubscribe(t *testing.T) {
	h := NewHub()
	client := make(Client, 1)
	h.Subscribe(1, client)
	assert.Equal(t, 1, h.Subscribers(1))

	h.Unsubscribe(1, client)
	assert.Equal(t, 0, h.Subscribers(1))

	_, open := <-client
	assert.False(t, open, "unsubscribe closes the client channel")

	// A second unsubscribe must not close the channel again.
	h.Unsubscribe(1, client)
	h.Publish(1, Event{Type: EventFriendRequestAccepted})
}

func TestHub_CloseEndsAllStreams(t *testing.T) {
	h := NewHub()
	a := make(Client, 1)
	b := make(Client, 1)
	c := make(Client, 1)
	h.Subscribe(1, a)
	h.Subscribe(1, b)
	h.Subscribe(2, c)

	h.Close()

	for _, client := range []Client{a, b, c} {
		_, open := <-client
		assert.False(t, open)
	}
	assert.Equal(t, 0, h.Subscribers(1))
	assert.Equal(t, 0, h.Subscribers(2))

	// Handlers still run their deferred unsubscribe after shutdown.
	h.Unsubscribe(1, a)
	h.Close()

	late := make(Client, 1)
	h.Subscribe(3, late)
	_, open := <-late
	assert.False(t, open, "subscribe after close ends the stream")
	assert.Equal(t, 0, h.Subscribers(3))
}
