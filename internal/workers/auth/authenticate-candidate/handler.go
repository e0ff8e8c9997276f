// Package authenticatecandidate backs the candidate portal login. A
// login checks the submitted password against the stored one; a reset
// replaces the password with a fresh generated one and mails it. Both
// failure modes answer with the same error so the response never tells
// an attacker whether the email exists.
package authenticatecandidate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"concours-workers/internal/common/auth"
	apperrors "concours-workers/internal/common/errors"
	"concours-workers/internal/common/logger"
	"concours-workers/internal/common/validation"
)

const (
	TaskType = "authenticate-candidate"
)

type Handler struct {
	config *Config
	deps   Dependencies
	logger logger.Logger
}

func NewHandler(config *Config, deps Dependencies) *Handler {
	return &Handler{
		config: config,
		deps:   deps,
		logger: deps.Logger.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := validation.DecodeAndValidate([]byte(job.Variables), GetInputSchema(), &input); err != nil {
		h.failWithError(client, job, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.failWithError(client, job, err)
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return nil, apperrors.NewDossierValidationError("email is required")
	}

	switch input.Action {
	case ActionLogin:
		return h.login(ctx, email, input.Password)
	case ActionResetPassword:
		return h.resetPassword(ctx, email)
	default:
		return nil, apperrors.NewDossierValidationError(fmt.Sprintf("unknown action %q", input.Action))
	}
}

func (h *Handler) login(ctx context.Context, email, password string) (*Output, error) {
	applicant, err := h.deps.Applicants.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if applicant == nil || !auth.VerifyPassword(applicant.Password, password) {
		return nil, apperrors.NewAuthenticationError("unknown email or wrong password")
	}

	h.logger.Info("candidate authenticated", map[string]interface{}{
		"applicantId": applicant.ID,
	})

	return &Output{
		Action:      ActionLogin,
		ApplicantID: applicant.ID,
		Status:      string(applicant.Status),
	}, nil
}

func (h *Handler) resetPassword(ctx context.Context, email string) (*Output, error) {
	applicant, err := h.deps.Applicants.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if applicant == nil {
		return nil, apperrors.NewAuthenticationError("unknown email or wrong password")
	}

	password, err := auth.GeneratePassword()
	if err != nil {
		return nil, err
	}
	if err := h.deps.Applicants.UpdatePassword(ctx, applicant.ID, password); err != nil {
		return nil, err
	}

	emailSent := true
	if err := h.deps.Mailer.SendCredentials(ctx, applicant.Email, password); err != nil {
		emailSent = false
		h.logger.Error("credentials email not delivered", map[string]interface{}{
			"applicantId": applicant.ID,
			"error":       err.Error(),
		})
	}

	h.logger.Info("candidate password reset", map[string]interface{}{
		"applicantId": applicant.ID,
		"emailSent":   emailSent,
	})

	return &Output{
		Action:      ActionResetPassword,
		ApplicantID: applicant.ID,
		EmailSent:   emailSent,
	}, nil
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	_, err = cmd.Send(context.Background())
	if err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) failWithError(client worker.JobClient, job entities.Job, err error) {
	errorCode := "UNKNOWN_ERROR"
	retries := int32(0)
	var stdErr *apperrors.StandardError
	if errors.As(err, &stdErr) {
		errorCode = string(stdErr.Code)
		retries = int32(apperrors.GetRetryCount(stdErr.Code))
	}
	h.failJob(client, job, errorCode, err.Error(), retries)
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, errorCode, errorMessage string, retries int32) {
	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":       job.Key,
		"errorCode":    errorCode,
		"errorMessage": errorMessage,
		"retries":      retries,
	})

	_, err := client.NewThrowErrorCommand().
		JobKey(job.Key).
		ErrorCode(errorCode).
		ErrorMessage(errorMessage).
		Send(context.Background())
	if err != nil {
		h.logger.Error("failed to throw error", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
