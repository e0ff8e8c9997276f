// Package events broadcasts dataset change notices over Redis pub/sub.
// Portal sessions poll for fresh state; the broadcast only tells them
// that something changed, never what, so a missed message costs one
// polling interval at worst.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"concours-workers/internal/common/logger"
)

const lastChangeKey = "concours:last-change"

// Event types published on the change channel.
const (
	TypeApplicantChanged   = "applicant_changed"
	TypeStatusChanged      = "status_changed"
	TypeNotificationAdded  = "notification_added"
	TypeConfigurationSaved = "configuration_saved"
	TypeReferenceSaved     = "reference_saved"
)

type Event struct {
	Type        string `json:"type"`
	ApplicantID string `json:"applicantId,omitempty"`
	OccurredAt  string `json:"occurredAt"`
}

type Publisher struct {
	rdb     *redis.Client
	channel string
	logger  logger.Logger
}

func NewPublisher(rdb *redis.Client, channel string, log logger.Logger) *Publisher {
	return &Publisher{rdb: rdb, channel: channel, logger: log}
}

// Publish emits a change event and stamps the last-change marker that
// pollers compare against. Failures are logged, never propagated: the
// stored mutation already happened and must not be failed retroactively.
func (p *Publisher) Publish(ctx context.Context, eventType, applicantID string) {
	now := time.Now().UTC().Format(time.RFC3339Nano)

	payload, err := json.Marshal(Event{
		Type:        eventType,
		ApplicantID: applicantID,
		OccurredAt:  now,
	})
	if err != nil {
		p.logger.Error("failed to encode change event", map[string]interface{}{
			"type":  eventType,
			"error": err.Error(),
		})
		return
	}

	if err := p.rdb.Publish(ctx, p.channel, payload).Err(); err != nil {
		p.logger.Warn("failed to publish change event", map[string]interface{}{
			"type":    eventType,
			"channel": p.channel,
			"error":   err.Error(),
		})
	}
	if err := p.rdb.Set(ctx, lastChangeKey, now, 0).Err(); err != nil {
		p.logger.Warn("failed to stamp last-change marker", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

// LastChange returns the timestamp of the most recent published event,
// or the zero string when nothing was ever published.
func (p *Publisher) LastChange(ctx context.Context) (string, error) {
	v, err := p.rdb.Get(ctx, lastChangeKey).Result()
	if err == redis.Nil {
		return "", nil
	}
	return v, err
}
