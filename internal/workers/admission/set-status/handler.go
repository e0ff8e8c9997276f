// Package setstatus applies one administrator decision to one
// applicant. The transition graph is enforced here; the deadline is
// deliberately not consulted, decisions stay possible after closing.
package setstatus

import (
	"context"
	"errors"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"concours-workers/internal/admission/workflow"
	apperrors "concours-workers/internal/common/errors"
	"concours-workers/internal/common/logger"
	"concours-workers/internal/common/metrics"
	"concours-workers/internal/common/validation"
	"concours-workers/internal/events"
	"concours-workers/internal/models"
)

const (
	TaskType = "set-status"
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
	applicant, err := h.deps.Applicants.GetByID(ctx, input.ApplicantID)
	if err != nil {
		return nil, err
	}

	transition, err := workflow.Apply(*applicant, models.ApplicantStatus(input.NewStatus), time.Now().UTC())
	if err != nil {
		return nil, err
	}

	if err := h.deps.Applicants.SetStatus(ctx, applicant.ID, transition.To); err != nil {
		return nil, err
	}

	metrics.StatusTransitions.WithLabelValues(string(transition.From), string(transition.To)).Inc()

	if h.deps.Publisher != nil {
		h.deps.Publisher.Publish(ctx, events.TypeStatusChanged, applicant.ID)
	}

	h.logger.Info("status transition applied", map[string]interface{}{
		"applicantId": applicant.ID,
		"from":        transition.From,
		"to":          transition.To,
	})

	return &Output{
		ApplicantID:    applicant.ID,
		PreviousStatus: string(transition.From),
		NewStatus:      string(transition.To),
		Notifies:       transition.Notifies(),
		Severity:       transition.Severity(),
		OccurredAt:     transition.OccurredAt,
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
