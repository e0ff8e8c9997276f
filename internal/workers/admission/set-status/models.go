package setstatus

import (
	"concours-workers/internal/common/logger"
	"concours-workers/internal/events"
	"concours-workers/internal/store"
)

type Input struct {
	ApplicantID string `json:"applicantId"`
	NewStatus   string `json:"newStatus"`
}

// Output feeds the follow-up notification dispatch: Notifies tells the
// process whether to fan out, Severity and the endpoints tell it what
// to say.
type Output struct {
	ApplicantID    string `json:"applicantId"`
	PreviousStatus string `json:"previousStatus"`
	NewStatus      string `json:"newStatus"`
	Notifies       bool   `json:"notifies"`
	Severity       string `json:"severity"`
	OccurredAt     string `json:"occurredAt"`
}

type Dependencies struct {
	Applicants *store.ApplicantStore
	Publisher  *events.Publisher
	Logger     logger.Logger
}
