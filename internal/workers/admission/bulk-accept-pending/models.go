package bulkacceptpending

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/sns"

	"concours-workers/internal/common/logger"
	"concours-workers/internal/events"
	"concours-workers/internal/store"
)

type Input struct {
	RequestedBy string `json:"requestedBy,omitempty"`
}

// Transition describes one applicant moved by the sweep; the process
// fans these out to the notification dispatcher.
type Transition struct {
	ApplicantID    string `json:"applicantId"`
	PreviousStatus string `json:"previousStatus"`
	NewStatus      string `json:"newStatus"`
	Severity       string `json:"severity"`
}

type Output struct {
	AcceptedCount int          `json:"acceptedCount"`
	Transitions   []Transition `json:"transitions"`
	CompletedAt   string       `json:"completedAt"`
}

// AlertAPI is the slice of the SNS client used for the operations
// alert after a sweep.
type AlertAPI interface {
	Publish(ctx context.Context, input *sns.PublishInput) (*sns.PublishOutput, error)
}

type Dependencies struct {
	Applicants *store.ApplicantStore
	Alerts     AlertAPI
	Publisher  *events.Publisher
	Logger     logger.Logger
}
