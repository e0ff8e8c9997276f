package dispatchnotification

import (
	"concours-workers/internal/common/logger"
	"concours-workers/internal/events"
	"concours-workers/internal/notify"
	"concours-workers/internal/store"
)

// Input is one status transition to announce. Title and Message
// override the built-in wording when present.
type Input struct {
	ApplicantID    string `json:"applicantId"`
	PreviousStatus string `json:"previousStatus"`
	NewStatus      string `json:"newStatus"`
	Title          string `json:"title,omitempty"`
	Message        string `json:"message,omitempty"`
}

type Output struct {
	NotificationID string `json:"notificationId"`
	ApplicantID    string `json:"applicantId"`
	Severity       string `json:"severity"`
	EmailSent      bool   `json:"emailSent"`
	CreatedAt      string `json:"createdAt"`
}

type Dependencies struct {
	Applicants    *store.ApplicantStore
	Notifications *store.NotificationStore
	Mailer        *notify.Mailer
	Publisher     *events.Publisher
	Logger        logger.Logger
}
