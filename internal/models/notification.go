package models

// Notification severities, mapped from workflow transitions.
const (
	SeveritySuccess = "success"
	SeverityDanger  = "danger"
	SeverityInfo    = "info"
)

// Notification is a one-way, per-applicant record of a status-relevant
// event. Created only by the dispatcher; the only mutation afterwards
// is flipping IsRead.
type Notification struct {
	ID          string `json:"id"`
	ApplicantID string `json:"applicantId"`
	Title       string `json:"title"`
	Message     string `json:"message"`
	Severity    string `json:"severity"`
	IsRead      bool   `json:"isRead"`
	CreatedAt   string `json:"createdAt"`
}
