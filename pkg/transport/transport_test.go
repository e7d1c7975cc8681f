package transport_test

import (
	"context"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joeydtaylor/steeze-worker/pkg/config"
	"github.com/joeydtaylor/steeze-worker/pkg/transport"
)

func TestChannelRoundTrip(t *testing.T) {
	tr := transport.NewChannel(watermill.NopLogger{})

	msgs, err := tr.Subscriber.Subscribe(context.Background(), "q")
	require.NoError(t, err)

	require.NoError(t, tr.Publisher.Publish("q", message.NewMessage("1", []byte("x"))))

	select {
	case m := <-msgs:
		assert.Equal(t, "x", string(m.Payload))
		m.Ack()
	case <-time.After(5 * time.Second):
		t.Fatal("message never delivered")
	}

	require.NoError(t, tr.Close())
}

func TestConnectChannelKind(t *testing.T) {
	tr, err := transport.Connect(context.Background(), config.TransportConfig{Kind: config.TransportChannel}, watermill.NopLogger{})
	require.NoError(t, err)
	assert.NotNil(t, tr.Publisher)
	assert.NotNil(t, tr.Subscriber)
	require.NoError(t, tr.Close())
}

func TestConnectRejectsUnknownKind(t *testing.T) {
	_, err := transport.Connect(context.Background(), config.TransportConfig{Kind: "pigeon"}, watermill.NopLogger{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown kind")
}

func TestNewWithoutCloser(t *testing.T) {
	base := transport.NewChannel(watermill.NopLogger{})
	tr := transport.New(base.Publisher, base.Subscriber, nil)
	assert.NoError(t, tr.Close())
	require.NoError(t, base.Close())
}
