// Package managepositions maintains the position catalog. Removing a
// position only unpublishes it; dossiers already targeting the code
// keep resolving it.
package managepositions

import (
	"context"
	"errors"
	"fmt"
	"strings"
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
	TaskType = "manage-positions"
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
	now := time.Now().UTC().Format(time.RFC3339)
	output := &Output{Action: input.Action, UpdatedAt: now}

	switch input.Action {
	case ActionCreate:
		if strings.TrimSpace(input.Code) == "" || strings.TrimSpace(input.Title) == "" {
			return nil, apperrors.NewDossierValidationError("code and title are required")
		}
		if input.OpenPositions < 1 {
			return nil, apperrors.NewInvalidCapacityError("openPositions", input.OpenPositions)
		}
		position := &models.Position{
			Code:          input.Code,
			Title:         input.Title,
			OpenPositions: input.OpenPositions,
		}
		if err := h.deps.Positions.Insert(ctx, position); err != nil {
			return nil, err
		}
		output.Position = position

	case ActionUpdate:
		if input.OpenPositions < 1 {
			return nil, apperrors.NewInvalidCapacityError("openPositions", input.OpenPositions)
		}
		position := &models.Position{
			Code:          input.Code,
			Title:         input.Title,
			OpenPositions: input.OpenPositions,
		}
		if err := h.deps.Positions.Update(ctx, position); err != nil {
			return nil, err
		}
		output.Position = position

	case ActionArchive:
		if err := h.deps.Positions.Archive(ctx, input.Code); err != nil {
			return nil, err
		}

	case ActionList:
		positions, err := h.deps.Positions.List(ctx)
		if err != nil {
			return nil, err
		}
		output.Positions = positions
		return output, nil

	default:
		return nil, apperrors.NewDossierValidationError(fmt.Sprintf("unknown action %q", input.Action))
	}

	if h.deps.Publisher != nil {
		h.deps.Publisher.Publish(ctx, events.TypeReferenceSaved, "")
	}

	h.logger.Info("position catalog changed", map[string]interface{}{
		"action": input.Action,
		"code":   input.Code,
	})
	return output, nil
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
