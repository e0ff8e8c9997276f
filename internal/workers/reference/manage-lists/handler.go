// Package managelists maintains the two reference catalogs backing
// dossier validation: degrees and bac specialties. Entries archive
// instead of deleting so submitted dossiers keep resolving.
package managelists

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	apperrors "concours-workers/internal/common/errors"
	"concours-workers/internal/common/logger"
	"concours-workers/internal/common/validation"
	"concours-workers/internal/events"
	"concours-workers/internal/models"
)

const (
	TaskType = "manage-lists"
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
	catalog := models.ListCatalog(input.Catalog)
	if !catalog.Valid() {
		return nil, apperrors.NewDossierValidationError(fmt.Sprintf("unknown catalog %q", input.Catalog))
	}

	output := &Output{Action: input.Action, Catalog: input.Catalog}

	switch input.Action {
	case ActionCreate:
		if strings.TrimSpace(input.Value) == "" || strings.TrimSpace(input.Label) == "" {
			return nil, apperrors.NewDossierValidationError("value and label are required")
		}
		item := &models.ListItem{Value: input.Value, Label: input.Label}
		if err := h.deps.Lists.Insert(ctx, catalog, item); err != nil {
			return nil, err
		}
		output.Item = item

	case ActionUpdate:
		item := &models.ListItem{Value: input.Value, Label: input.Label}
		if err := h.deps.Lists.Update(ctx, catalog, item); err != nil {
			return nil, err
		}
		output.Item = item

	case ActionArchive:
		if err := h.deps.Lists.Archive(ctx, catalog, input.Value); err != nil {
			return nil, err
		}

	case ActionList:
		items, err := h.deps.Lists.List(ctx, catalog)
		if err != nil {
			return nil, err
		}
		output.Items = items
		return output, nil

	default:
		return nil, apperrors.NewDossierValidationError(fmt.Sprintf("unknown action %q", input.Action))
	}

	if h.deps.Publisher != nil {
		h.deps.Publisher.Publish(ctx, events.TypeReferenceSaved, "")
	}

	h.logger.Info("reference catalog changed", map[string]interface{}{
		"action":  input.Action,
		"catalog": input.Catalog,
		"value":   input.Value,
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
