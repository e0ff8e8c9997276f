// Package submitapplication registers a new dossier: it validates the
// sections, checks the target position, issues the login credentials
// and stores the applicant as pending.
package submitapplication

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"

	"concours-workers/internal/admission/deadline"
	"concours-workers/internal/common/auth"
	apperrors "concours-workers/internal/common/errors"
	"concours-workers/internal/common/logger"
	"concours-workers/internal/common/validation"
	"concours-workers/internal/events"
	"concours-workers/internal/models"
)

const (
	TaskType = "submit-application"
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
	cfg, err := h.deps.ScoreConfig.Get(ctx)
	if err != nil {
		return nil, err
	}
	if deadline.IsExpired(cfg, time.Now().UTC()) {
		return nil, apperrors.NewEditingClosedError(cfg.Deadline.UTC().Format(time.RFC3339))
	}

	if missing := missingDossierFields(input); len(missing) > 0 {
		return nil, apperrors.NewDossierValidationError(
			"missing required fields: " + strings.Join(missing, ", "))
	}

	if err := h.checkCatalogValues(ctx, input); err != nil {
		return nil, err
	}

	position, err := h.deps.Positions.GetByCode(ctx, input.TargetPosition)
	if err != nil {
		var stdErr *apperrors.StandardError
		if errors.As(err, &stdErr) && stdErr.Code == apperrors.ErrCodePositionNotFound {
			return nil, apperrors.NewInvalidPositionError(input.TargetPosition)
		}
		return nil, err
	}
	if position.Archived {
		return nil, apperrors.NewInvalidPositionError(input.TargetPosition)
	}

	password, err := auth.GeneratePassword()
	if err != nil {
		return nil, err
	}

	applicant := &models.Applicant{
		ID:                   uuid.New().String(),
		Email:                strings.TrimSpace(strings.ToLower(input.Email)),
		Password:             password,
		Status:               models.StatusPending,
		TargetPositionNumber: input.TargetPosition,
		Personal:             input.Personal,
		CivilStatus:          input.CivilStatus,
		Education:            input.Education,
	}

	if err := h.deps.Applicants.Insert(ctx, applicant); err != nil {
		return nil, err
	}

	createdAt := time.Now().UTC().Format(time.RFC3339)

	// The dossier is stored at this point. Email, indexing and the
	// change broadcast are mirrors that must not undo the submission.
	if err := h.deps.Mailer.SendCredentials(ctx, applicant.Email, password); err != nil {
		h.logger.Warn("credential email delivery failed", map[string]interface{}{
			"applicantId": applicant.ID,
			"error":       err.Error(),
		})
	}
	if h.deps.Index != nil {
		if err := h.deps.Index.IndexDossier(ctx, applicant); err != nil {
			h.logger.Warn("dossier indexing failed", map[string]interface{}{
				"applicantId": applicant.ID,
				"error":       err.Error(),
			})
		}
	}
	if h.deps.Publisher != nil {
		h.deps.Publisher.Publish(ctx, events.TypeApplicantChanged, applicant.ID)
	}

	h.logger.Info("application submitted", map[string]interface{}{
		"applicantId":    applicant.ID,
		"targetPosition": applicant.TargetPositionNumber,
	})

	return &Output{
		ApplicantID: applicant.ID,
		Email:       applicant.Email,
		Status:      string(models.StatusPending),
		CreatedAt:   createdAt,
	}, nil
}

func (h *Handler) checkCatalogValues(ctx context.Context, input *Input) error {
	item, err := h.deps.Lists.Get(ctx, models.CatalogDegrees, input.Education.Degree)
	if err != nil {
		var stdErr *apperrors.StandardError
		if errors.As(err, &stdErr) && stdErr.Code == apperrors.ErrCodeListItemNotFound {
			return apperrors.NewDossierValidationError(
				fmt.Sprintf("unknown degree %q", input.Education.Degree))
		}
		return err
	}
	if item.Archived {
		return apperrors.NewDossierValidationError(
			fmt.Sprintf("degree %q is no longer offered", input.Education.Degree))
	}

	if input.Education.BacSpecialty == "" {
		return nil
	}
	item, err = h.deps.Lists.Get(ctx, models.CatalogBacSpecialties, input.Education.BacSpecialty)
	if err != nil {
		var stdErr *apperrors.StandardError
		if errors.As(err, &stdErr) && stdErr.Code == apperrors.ErrCodeListItemNotFound {
			return apperrors.NewDossierValidationError(
				fmt.Sprintf("unknown bac specialty %q", input.Education.BacSpecialty))
		}
		return err
	}
	if item.Archived {
		return apperrors.NewDossierValidationError(
			fmt.Sprintf("bac specialty %q is no longer offered", input.Education.BacSpecialty))
	}
	return nil
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
	} else {
		h.logger.Info("job completed successfully", map[string]interface{}{
			"jobKey": job.Key,
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
