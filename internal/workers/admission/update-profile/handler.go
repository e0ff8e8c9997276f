// Package updateprofile applies an applicant's edits to their stored
// dossier. Edits are refused once the deadline has passed; decisions
// taken by administrators are not routed through here and stay
// unaffected by the clock.
package updateprofile

import (
	"context"
	"errors"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"concours-workers/internal/admission/deadline"
	apperrors "concours-workers/internal/common/errors"
	"concours-workers/internal/common/logger"
	"concours-workers/internal/common/validation"
	"concours-workers/internal/events"
)

const (
	TaskType = "update-profile"
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

	applicant, err := h.deps.Applicants.GetByID(ctx, input.ApplicantID)
	if err != nil {
		return nil, err
	}

	if input.Personal != nil {
		applicant.Personal = *input.Personal
	}
	if input.CivilStatus != nil {
		applicant.CivilStatus = *input.CivilStatus
	}
	if input.Education != nil {
		applicant.Education = *input.Education
	}
	if input.TargetPosition != "" && input.TargetPosition != applicant.TargetPositionNumber {
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
		applicant.TargetPositionNumber = input.TargetPosition
	}

	if err := h.deps.Applicants.UpdateProfile(ctx, applicant); err != nil {
		return nil, err
	}

	if h.deps.Index != nil {
		if err := h.deps.Index.IndexDossier(ctx, applicant); err != nil {
			h.logger.Warn("dossier reindexing failed", map[string]interface{}{
				"applicantId": applicant.ID,
				"error":       err.Error(),
			})
		}
	}
	if h.deps.Publisher != nil {
		h.deps.Publisher.Publish(ctx, events.TypeApplicantChanged, applicant.ID)
	}

	h.logger.Info("profile updated", map[string]interface{}{
		"applicantId": applicant.ID,
	})

	return &Output{
		ApplicantID: applicant.ID,
		Status:      string(applicant.Status),
		UpdatedAt:   time.Now().UTC().Format(time.RFC3339),
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
