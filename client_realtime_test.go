package realtime

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The full composed scenario: a trainer comments on a meal while offline, the
// message queues, then connecting flushes exactly that envelope in order.
func TestQueuedChatMessageFlushesOnConnect(t *testing.T) {
	dialer := newFakeDialer()
	client := NewClient(
		Config{URL: "wss://realtime.test/ws"},
		StaticTokenSource("tok"),
		WithDialer(dialer),
		WithLogger(newWriterLogger(io.Discard)),
	)
	chat := NewMealChat(client, WithChatLogger(newWriterLogger(io.Discard)))

	chat.SendMessage("athlete-42", "meal-7", ChatMessage{
		Content:  "looks good",
		SenderID: "trainer-1",
	})
	require.Equal(t, 1, client.QueuedCount())

	require.NoError(t, client.Connect(context.Background()))
	require.Eventually(t, func() bool {
		return client.State() == StateConnected
	}, time.Second, time.Millisecond)

	sock := dialer.current()
	require.Eventually(t, func() bool {
		return len(sock.envelopes()) == 1
	}, time.Second, time.Millisecond)

	env := sock.envelopes()[0]
	assert.Equal(t, EventMealMessage, env.Type)

	data, ok := env.Data.(map[string]any)
	require.True(t, ok)
	message, ok := data["message"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "looks good", message["content"])
	assert.Zero(t, client.QueuedCount())
}

func TestInboundChatMessageReachesSubscriber(t *testing.T) {
	dialer := newFakeDialer()
	client := NewClient(
		Config{URL: "wss://realtime.test/ws"},
		StaticTokenSource("tok"),
		WithDialer(dialer),
		WithLogger(newWriterLogger(io.Discard)),
	)

	received := make(chan *Envelope, 1)
	client.On(EventMealMessage, func(evt Event) {
		received <- evt.Envelope
	})

	require.NoError(t, client.Connect(context.Background()))
	require.Eventually(t, func() bool {
		return client.State() == StateConnected
	}, time.Second, time.Millisecond)

	dialer.current().serveEnvelope(newEnvelope("m-9", EventMealMessage, map[string]any{
		"athleteId": "athlete-42",
		"message":   map[string]any{"content": "nice macros"},
	}))

	select {
	case env := <-received:
		assert.Equal(t, "m-9", env.ID)
	case <-time.After(time.Second):
		t.Fatal("subscriber never received the inbound message")
	}
}
