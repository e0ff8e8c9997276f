// Package workflow is the applicant status state machine. Status fields
// are only ever mutated through a Transition produced here, so the
// reachable edges stay exactly: pending->accepted, pending->rejected,
// accepted->pending, rejected->pending.
package workflow

import (
	"time"

	"concours-workers/internal/common/errors"
	"concours-workers/internal/models"
)

// Transition is one validated state change for one applicant.
type Transition struct {
	ApplicantID string                 `json:"applicantId"`
	From        models.ApplicantStatus `json:"fromStatus"`
	To          models.ApplicantStatus `json:"toStatus"`
	OccurredAt  string                 `json:"occurredAt"`
}

var edges = map[models.ApplicantStatus][]models.ApplicantStatus{
	models.StatusPending:  {models.StatusAccepted, models.StatusRejected},
	models.StatusAccepted: {models.StatusPending},
	models.StatusRejected: {models.StatusPending},
}

// CanTransition reports whether from->to is an edge of the workflow
// graph. No state is terminal: administrative mistakes must stay
// correctable, which is why accepted and rejected both reset to pending.
func CanTransition(from, to models.ApplicantStatus) bool {
	for _, next := range edges[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Apply validates and builds the transition for one applicant. It never
// consults the deadline: administrator decisions are allowed at any
// time, even after the submission window closes.
func Apply(a models.Applicant, to models.ApplicantStatus, now time.Time) (Transition, error) {
	if !to.Valid() {
		return Transition{}, &errors.StandardError{
			Code:      errors.ErrCodeInvalidStatus,
			Message:   "Unknown target status",
			Details:   string(to),
			Retryable: false,
			Timestamp: now.UTC(),
		}
	}
	if !CanTransition(a.Status, to) {
		return Transition{}, errors.NewInvalidTransitionError(string(a.Status), string(to))
	}
	return Transition{
		ApplicantID: a.ID,
		From:        a.Status,
		To:          to,
		OccurredAt:  now.UTC().Format(time.RFC3339),
	}, nil
}

// Notifies reports whether a transition produces a notification. Every
// decision does; the reset back to pending notifies too, telling the
// applicant the dossier is under review again.
func (t Transition) Notifies() bool {
	return t.From != t.To
}

// Severity maps the transition outcome to a notification severity tag.
func (t Transition) Severity() string {
	switch t.To {
	case models.StatusAccepted:
		return models.SeveritySuccess
	case models.StatusRejected:
		return models.SeverityDanger
	default:
		return models.SeverityInfo
	}
}
