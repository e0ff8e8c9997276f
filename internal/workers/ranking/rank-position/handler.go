// Package rankposition recomputes the written-exam ranking on demand.
// Nothing is cached between runs: the ranking is rebuilt from the full
// applicant set and the configuration as they stand at call time.
package rankposition

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"concours-workers/internal/admission/scoring"
	apperrors "concours-workers/internal/common/errors"
	"concours-workers/internal/common/logger"
	"concours-workers/internal/common/metrics"
	"concours-workers/internal/common/validation"
)

const (
	TaskType = "rank-position"
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
	if input.Scope == ScopePosition && input.PositionCode == "" {
		return nil, apperrors.NewDossierValidationError("positionCode is required for position scope")
	}
	if input.Scope != ScopePosition && input.Scope != ScopeGlobal {
		return nil, apperrors.NewDossierValidationError(fmt.Sprintf("unknown scope %q", input.Scope))
	}

	cfg, err := h.deps.ScoreConfig.Get(ctx)
	if err != nil {
		return nil, err
	}

	applicants, err := h.deps.Applicants.List(ctx)
	if err != nil {
		return nil, err
	}

	var entries []scoring.RankEntry
	if input.Scope == ScopeGlobal {
		entries = scoring.RankGlobal(applicants, cfg)
	} else {
		entries = scoring.Rank(input.PositionCode, applicants, cfg)
	}
	metrics.RankingComputations.WithLabelValues(input.Scope).Inc()

	h.logger.Info("ranking computed", map[string]interface{}{
		"scope":        input.Scope,
		"positionCode": input.PositionCode,
		"entries":      len(entries),
	})

	return &Output{
		Scope:        input.Scope,
		PositionCode: input.PositionCode,
		Capacity:     cfg.WrittenExamCount,
		Entries:      entries,
		ComputedAt:   time.Now().UTC().Format(time.RFC3339),
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
