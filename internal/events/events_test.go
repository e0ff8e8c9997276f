package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"concours-workers/internal/common/logger"
)

func TestPublisher_Publish(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	sub := rdb.Subscribe(context.Background(), "concours:changes")
	defer sub.Close()
	_, err := sub.Receive(context.Background())
	require.NoError(t, err)

	pub := NewPublisher(rdb, "concours:changes", logger.NewNoOpLogger())
	pub.Publish(context.Background(), TypeStatusChanged, "app-001")

	select {
	case msg := <-sub.Channel():
		var ev Event
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &ev))
		assert.Equal(t, TypeStatusChanged, ev.Type)
		assert.Equal(t, "app-001", ev.ApplicantID)
		assert.NotEmpty(t, ev.OccurredAt)
	case <-time.After(2 * time.Second):
		t.Fatal("no change event received")
	}
}

func TestPublisher_LastChange(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	pub := NewPublisher(rdb, "concours:changes", logger.NewNoOpLogger())

	last, err := pub.LastChange(context.Background())
	require.NoError(t, err)
	assert.Empty(t, last)

	pub.Publish(context.Background(), TypeNotificationAdded, "app-001")

	last, err = pub.LastChange(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, last)
}

func TestPublisher_PublishSurvivesBrokerOutage(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()
	mr.Close()

	pub := NewPublisher(rdb, "concours:changes", logger.NewNoOpLogger())

	// Must not panic or block; the mutation it reports already happened.
	pub.Publish(context.Background(), TypeApplicantChanged, "app-001")
}
