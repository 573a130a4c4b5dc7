package event

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisPublisher_PublishDeleted(t *testing.T) {
	srv := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: srv.Addr()})
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	sub := client.Subscribe(ctx, "document.deleted")
	defer sub.Close()
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	pub := NewRedisPublisher(client, "document.deleted")

	sent := DocumentDeletedEvent{
		EventID:    "ev-1",
		Timestamp:  time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
		DocumentID: "doc-1",
		ObjectKey:  "u1/doc-1.pdf",
	}
	require.NoError(t, pub.PublishDeleted(ctx, sent))

	msg, err := sub.ReceiveMessage(ctx)
	require.NoError(t, err)

	var got DocumentDeletedEvent
	require.NoError(t, json.Unmarshal([]byte(msg.Payload), &got))
	assert.Equal(t, sent, got)
}

func TestNopPublisher(t *testing.T) {
	assert.NoError(t, NopPublisher{}.PublishDeleted(context.Background(), DocumentDeletedEvent{}))
}
