package submitapplication

import (
	"concours-workers/internal/common/logger"
	"concours-workers/internal/events"
	"concours-workers/internal/models"
	"concours-workers/internal/notify"
	"concours-workers/internal/search"
	"concours-workers/internal/store"
)

type Input struct {
	Email          string               `json:"email"`
	TargetPosition string               `json:"targetPosition"`
	Personal       models.PersonalInfo  `json:"personal"`
	CivilStatus    models.CivilStatus   `json:"civilStatus"`
	Education      models.EducationInfo `json:"education"`
}

type Output struct {
	ApplicantID string `json:"applicantId"`
	Email       string `json:"email"`
	Status      string `json:"status"`
	CreatedAt   string `json:"createdAt"`
}

type Dependencies struct {
	Applicants  *store.ApplicantStore
	Positions   *store.PositionStore
	Lists       *store.ListStore
	ScoreConfig *store.ScoreConfigStore
	Mailer      *notify.Mailer
	Index       *search.Index
	Publisher   *events.Publisher
	Logger      logger.Logger
}
