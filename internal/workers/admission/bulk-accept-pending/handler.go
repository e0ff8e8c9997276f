// Package bulkacceptpending runs the administrator's accept-all sweep.
// The sweep is one database transaction: every pending applicant moves
// to accepted or none does. Applicants already decided are untouched.
package bulkacceptpending

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	apperrors "concours-workers/internal/common/errors"
	"concours-workers/internal/common/logger"
	"concours-workers/internal/common/metrics"
	"concours-workers/internal/common/validation"
	"concours-workers/internal/events"
	"concours-workers/internal/models"
)

const (
	TaskType = "bulk-accept-pending"
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
	moved, err := h.deps.Applicants.BulkAcceptPending(ctx)
	if err != nil {
		return nil, err
	}

	transitions := make([]Transition, 0, len(moved))
	for _, id := range moved {
		transitions = append(transitions, Transition{
			ApplicantID:    id,
			PreviousStatus: string(models.StatusPending),
			NewStatus:      string(models.StatusAccepted),
			Severity:       models.SeveritySuccess,
		})
		metrics.StatusTransitions.WithLabelValues(
			string(models.StatusPending), string(models.StatusAccepted)).Inc()
	}

	completedAt := time.Now().UTC().Format(time.RFC3339)

	if h.deps.Publisher != nil && len(moved) > 0 {
		h.deps.Publisher.Publish(ctx, events.TypeStatusChanged, "")
	}
	h.sendOpsAlert(ctx, input.RequestedBy, len(moved), completedAt)

	h.logger.Info("bulk accept sweep finished", map[string]interface{}{
		"acceptedCount": len(moved),
		"requestedBy":   input.RequestedBy,
	})

	return &Output{
		AcceptedCount: len(moved),
		Transitions:   transitions,
		CompletedAt:   completedAt,
	}, nil
}

// sendOpsAlert tells the operations channel a sweep ran. Best effort;
// the sweep already committed.
func (h *Handler) sendOpsAlert(ctx context.Context, requestedBy string, count int, completedAt string) {
	if h.deps.Alerts == nil || h.config.AlertTopicARN == "" {
		return
	}

	message := fmt.Sprintf("bulk accept sweep moved %d applicant(s) to accepted at %s (requested by %s)",
		count, completedAt, requestedBy)
	_, err := h.deps.Alerts.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(h.config.AlertTopicARN),
		Subject:  aws.String("Admission bulk accept sweep"),
		Message:  aws.String(message),
	})
	if err != nil {
		h.logger.Warn("operations alert failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
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
