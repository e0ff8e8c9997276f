package setstatus

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "concours-workers/internal/common/errors"
	"concours-workers/internal/common/logger"
	"concours-workers/internal/common/validation"
	"concours-workers/internal/store"
)

func setupHandler(t *testing.T) (*Handler, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	deps := Dependencies{
		Applicants: store.NewApplicantStore(db),
		Logger:     logger.NewNoOpLogger(),
	}
	return NewHandler(LoadConfig(), deps), mock
}

func expectApplicantWithStatus(mock sqlmock.Sqlmock, status string) {
	mock.ExpectQuery("SELECT (.+) FROM applicants WHERE id").
		WithArgs("app-001").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "email", "password", "status", "target_position",
			"personal", "civil_status", "education", "created_at", "updated_at",
		}).AddRow(
			"app-001", "candidate@example.tn", "pw", status, "P1",
			[]byte(`{}`), []byte(`{}`), []byte(`{}`),
			time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)))
}

func TestHandler_Execute_AcceptPending(t *testing.T) {
	handler, mock := setupHandler(t)

	expectApplicantWithStatus(mock, "pending")
	mock.ExpectExec("UPDATE applicants SET status").
		WillReturnResult(sqlmock.NewResult(0, 1))

	output, err := handler.Execute(context.Background(), &Input{
		ApplicantID: "app-001",
		NewStatus:   "accepted",
	})

	require.NoError(t, err)
	assert.Equal(t, "pending", output.PreviousStatus)
	assert.Equal(t, "accepted", output.NewStatus)
	assert.True(t, output.Notifies)
	assert.Equal(t, "success", output.Severity)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_ResetToPending(t *testing.T) {
	handler, mock := setupHandler(t)

	expectApplicantWithStatus(mock, "rejected")
	mock.ExpectExec("UPDATE applicants SET status").
		WillReturnResult(sqlmock.NewResult(0, 1))

	output, err := handler.Execute(context.Background(), &Input{
		ApplicantID: "app-001",
		NewStatus:   "pending",
	})

	require.NoError(t, err)
	assert.Equal(t, "info", output.Severity)
	assert.True(t, output.Notifies)
}

func TestHandler_Execute_InvalidTransition(t *testing.T) {
	handler, mock := setupHandler(t)

	expectApplicantWithStatus(mock, "accepted")

	_, err := handler.Execute(context.Background(), &Input{
		ApplicantID: "app-001",
		NewStatus:   "rejected",
	})

	require.Error(t, err)
	stdErr, ok := err.(*apperrors.StandardError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeInvalidTransition, stdErr.Code)
	// Nothing was written.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_UnknownApplicant(t *testing.T) {
	handler, mock := setupHandler(t)

	mock.ExpectQuery("SELECT (.+) FROM applicants WHERE id").
		WithArgs("app-001").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := handler.Execute(context.Background(), &Input{
		ApplicantID: "app-001",
		NewStatus:   "accepted",
	})

	require.Error(t, err)
	stdErr, ok := err.(*apperrors.StandardError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeApplicantNotFound, stdErr.Code)
}

func TestInputSchema_RejectsUnknownStatus(t *testing.T) {
	var input Input
	err := validation.DecodeAndValidate([]byte(`{"applicantId":"app-001","newStatus":"archived"}`), GetInputSchema(), &input)

	require.Error(t, err)
	stdErr, ok := err.(*apperrors.StandardError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeDossierInvalid, stdErr.Code)
}
