// Package savescoreconfig writes the singleton scoring configuration:
// weighting, funnel capacities and the editing deadline. Every scoring
// and deadline check in the system reads what is saved here.
package savescoreconfig

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	apperrors "concours-workers/internal/common/errors"
	"concours-workers/internal/common/logger"
	"concours-workers/internal/common/validation"
	"concours-workers/internal/events"
	"concours-workers/internal/models"
)

const (
	TaskType = "save-score-config"
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
	if input.WrittenExamCount < 0 {
		return nil, apperrors.NewInvalidCapacityError("writtenExamCount", input.WrittenExamCount)
	}
	if input.OralExamCount < 0 {
		return nil, apperrors.NewInvalidCapacityError("oralExamCount", input.OralExamCount)
	}
	if input.BacWeight < 0 || input.BacWeight > 100 || input.GradWeight < 0 || input.GradWeight > 100 {
		return nil, apperrors.NewDossierValidationError("weights must be between 0 and 100")
	}

	cfg := models.ScoreConfig{
		BacWeight:        input.BacWeight,
		GradWeight:       input.GradWeight,
		WrittenExamCount: input.WrittenExamCount,
		OralExamCount:    input.OralExamCount,
	}
	if input.Deadline != nil && *input.Deadline != "" {
		deadline, err := time.Parse(time.RFC3339, *input.Deadline)
		if err != nil {
			return nil, apperrors.NewDossierValidationError(fmt.Sprintf("deadline is not RFC 3339: %v", err))
		}
		utc := deadline.UTC()
		cfg.Deadline = &utc
	}

	if err := h.deps.ScoreConfig.Save(ctx, cfg); err != nil {
		return nil, err
	}

	if h.deps.Publisher != nil {
		h.deps.Publisher.Publish(ctx, events.TypeConfigurationSaved, "")
	}

	h.logger.Info("score configuration saved", map[string]interface{}{
		"bacWeight":        cfg.BacWeight,
		"gradWeight":       cfg.GradWeight,
		"writtenExamCount": cfg.WrittenExamCount,
		"oralExamCount":    cfg.OralExamCount,
		"deadlineSet":      cfg.Deadline != nil,
	})

	return &Output{
		Config:  cfg,
		SavedAt: time.Now().UTC().Format(time.RFC3339),
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
