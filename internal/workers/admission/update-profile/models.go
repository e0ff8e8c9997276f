package updateprofile

import (
	"concours-workers/internal/common/logger"
	"concours-workers/internal/events"
	"concours-workers/internal/models"
	"concours-workers/internal/search"
	"concours-workers/internal/store"
)

// Input carries the editable dossier sections as a ProfilePatch; a
// present section replaces the stored one entirely.
type Input struct {
	ApplicantID    string `json:"applicantId"`
	TargetPosition string `json:"targetPosition,omitempty"`
	models.ProfilePatch
}

type Output struct {
	ApplicantID string `json:"applicantId"`
	Status      string `json:"status"`
	UpdatedAt   string `json:"updatedAt"`
}

type Dependencies struct {
	Applicants  *store.ApplicantStore
	Positions   *store.PositionStore
	ScoreConfig *store.ScoreConfigStore
	Index       *search.Index
	Publisher   *events.Publisher
	Logger      logger.Logger
}
