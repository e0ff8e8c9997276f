package authenticatecandidate

import (
	"concours-workers/internal/common/logger"
	"concours-workers/internal/notify"
	"concours-workers/internal/store"
)

const (
	ActionLogin         = "login"
	ActionResetPassword = "resetPassword"
)

type Input struct {
	Action   string `json:"action"`
	Email    string `json:"email"`
	Password string `json:"password,omitempty"`
}

type Output struct {
	Action      string `json:"action"`
	ApplicantID string `json:"applicantId,omitempty"`
	Status      string `json:"status,omitempty"`
	EmailSent   bool   `json:"emailSent,omitempty"`
}

type Dependencies struct {
	Applicants *store.ApplicantStore
	Mailer     *notify.Mailer
	Logger     logger.Logger
}
