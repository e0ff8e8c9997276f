// Package deadline is the single source of truth for "submissions and
// edits are closed".
package deadline

import (
	"time"

	"concours-workers/internal/models"
)

// IsExpired reports whether the configured deadline has passed at the
// given instant. An unset deadline never expires: the submission and
// editing windows stay open until an administrator sets one.
func IsExpired(cfg models.ScoreConfig, now time.Time) bool {
	if cfg.Deadline == nil {
		return false
	}
	return now.After(*cfg.Deadline)
}
