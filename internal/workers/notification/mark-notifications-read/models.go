package marknotificationsread

import (
	"concours-workers/internal/common/logger"
	"concours-workers/internal/events"
	"concours-workers/internal/store"
)

type Input struct {
	ApplicantID string `json:"applicantId"`
}

type Output struct {
	ApplicantID string `json:"applicantId"`
	MarkedCount int64  `json:"markedCount"`
	MarkedAt    string `json:"markedAt"`
}

type Dependencies struct {
	Notifications *store.NotificationStore
	Publisher     *events.Publisher
	Logger        logger.Logger
}
