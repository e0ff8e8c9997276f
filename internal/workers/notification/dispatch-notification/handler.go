// Package dispatchnotification turns one status transition into one
// feed entry for the applicant, mirrored to email for final decisions.
// The process invokes it once per distinct transition, which is what
// keeps the feed free of duplicates.
package dispatchnotification

import (
	"context"
	"errors"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"

	"concours-workers/internal/admission/workflow"
	apperrors "concours-workers/internal/common/errors"
	"concours-workers/internal/common/logger"
	"concours-workers/internal/common/metrics"
	"concours-workers/internal/common/validation"
	"concours-workers/internal/events"
	"concours-workers/internal/models"
)

const (
	TaskType = "dispatch-notification"
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
	from := models.ApplicantStatus(input.PreviousStatus)
	to := models.ApplicantStatus(input.NewStatus)
	if from == to {
		return nil, apperrors.NewDossierValidationError("transition does not change the status")
	}

	applicant, err := h.deps.Applicants.GetByID(ctx, input.ApplicantID)
	if err != nil {
		return nil, err
	}

	tr := workflow.Transition{ApplicantID: input.ApplicantID, From: from, To: to}
	severity := tr.Severity()
	title, message := wording(to)
	if input.Title != "" {
		title = input.Title
	}
	if input.Message != "" {
		message = input.Message
	}

	notification := &models.Notification{
		ID:          uuid.New().String(),
		ApplicantID: applicant.ID,
		Title:       title,
		Message:     message,
		Severity:    severity,
	}
	if err := h.deps.Notifications.Insert(ctx, notification); err != nil {
		return nil, err
	}
	metrics.NotificationsDispatched.WithLabelValues(severity).Inc()

	// Final decisions are mirrored to the applicant's inbox. The feed
	// entry above is the record; a failed email does not fail the job.
	emailSent := false
	if severity != models.SeverityInfo {
		if err := h.deps.Mailer.SendDecision(ctx, applicant.Email, title, message); err != nil {
			h.logger.Warn("decision email delivery failed", map[string]interface{}{
				"applicantId": applicant.ID,
				"error":       err.Error(),
			})
		} else {
			emailSent = true
		}
	}

	if h.deps.Publisher != nil {
		h.deps.Publisher.Publish(ctx, events.TypeNotificationAdded, applicant.ID)
	}

	h.logger.Info("notification dispatched", map[string]interface{}{
		"applicantId":    applicant.ID,
		"notificationId": notification.ID,
		"severity":       severity,
	})

	return &Output{
		NotificationID: notification.ID,
		ApplicantID:    applicant.ID,
		Severity:       severity,
		EmailSent:      emailSent,
		CreatedAt:      time.Now().UTC().Format(time.RFC3339),
	}, nil
}

func wording(to models.ApplicantStatus) (title, message string) {
	switch to {
	case models.StatusAccepted:
		return "Application accepted",
			"Congratulations, your application has been accepted for the written exam."
	case models.StatusRejected:
		return "Application rejected",
			"We are sorry, your application has not been retained."
	default:
		return "Application under review",
			"Your application has been placed back under review."
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
