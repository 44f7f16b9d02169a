package eventbus

import (
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilPublisherIsNoop(t *testing.T) {
	var p *Publisher

	assert.NoError(t, p.Publish(SubjectActivationChanged, map[string]bool{"active": true}))
	assert.Error(t, p.Ping())
	assert.NotPanics(t, p.Close)
}

func TestPublisherUnmarshalablePayload(t *testing.T) {
	p := &Publisher{conn: &nats.Conn{}}
	err := p.Publish(SubjectGenerationCompleted, make(chan int))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "marshal payload")
}

func TestConnectUnreachable(t *testing.T) {
	_, err := Connect("nats://127.0.0.1:1")
	assert.Error(t, err)
}

func TestPublishRoundTrip(t *testing.T) {
	url := os.Getenv("CODEMASTER_TEST_NATS_URL")
	if url == "" {
		t.Skip("CODEMASTER_TEST_NATS_URL not set")
	}

	p, err := Connect(url)
	require.NoError(t, err)
	defer p.Close()
	require.NoError(t, p.Ping())

	sub, err := p.conn.SubscribeSync(SubjectActivationChanged)
	require.NoError(t, err)
	defer sub.Unsubscribe()

	require.NoError(t, p.Publish(SubjectActivationChanged, map[string]bool{"active": true}))

	msg, err := sub.NextMsg(2 * time.Second)
	require.NoError(t, err)

	var ev Event
	require.NoError(t, json.Unmarshal(msg.Data, &ev))
	assert.Equal(t, SubjectActivationChanged, ev.Subject)
	assert.NotEmpty(t, ev.ID)
	assert.JSONEq(t, `{"active":true}`, string(ev.Data))
}
