package authenticatecandidate

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "concours-workers/internal/common/errors"
	"concours-workers/internal/common/logger"
	"concours-workers/internal/common/validation"
	"concours-workers/internal/notify"
	"concours-workers/internal/store"
)

type fakeEmailAPI struct {
	sent []*ses.SendEmailInput
}

func (f *fakeEmailAPI) SendEmail(_ context.Context, input *ses.SendEmailInput) (*ses.SendEmailOutput, error) {
	f.sent = append(f.sent, input)
	return &ses.SendEmailOutput{}, nil
}

func setupHandler(t *testing.T) (*Handler, sqlmock.Sqlmock, *fakeEmailAPI) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	email := &fakeEmailAPI{}
	log := logger.NewNoOpLogger()

	deps := Dependencies{
		Applicants: store.NewApplicantStore(db),
		Mailer:     notify.NewMailer(email, "noreply@concours.tn", true, log),
		Logger:     log,
	}
	return NewHandler(LoadConfig(), deps), mock, email
}

func applicantRow(password string) *sqlmock.Rows {
	now := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	return sqlmock.NewRows([]string{
		"id", "email", "password", "status", "target_position",
		"personal", "civil_status", "education", "created_at", "updated_at",
	}).AddRow("app-1", "candidate@example.tn", password, "pending", "P1",
		[]byte(`{}`), []byte(`{}`), []byte(`{}`), now, now)
}

func TestHandler_Execute_LoginSuccess(t *testing.T) {
	handler, mock, _ := setupHandler(t)

	mock.ExpectQuery("SELECT (.+) FROM applicants WHERE email").
		WithArgs("candidate@example.tn").
		WillReturnRows(applicantRow("Secret42abcd"))

	output, err := handler.Execute(context.Background(), &Input{
		Action:   ActionLogin,
		Email:    " Candidate@Example.TN ",
		Password: "Secret42abcd",
	})

	require.NoError(t, err)
	assert.Equal(t, "app-1", output.ApplicantID)
	assert.Equal(t, "pending", output.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_LoginWrongPassword(t *testing.T) {
	handler, mock, _ := setupHandler(t)

	mock.ExpectQuery("SELECT (.+) FROM applicants WHERE email").
		WillReturnRows(applicantRow("Secret42abcd"))

	_, err := handler.Execute(context.Background(), &Input{
		Action:   ActionLogin,
		Email:    "candidate@example.tn",
		Password: "nope",
	})

	require.Error(t, err)
	stdErr, ok := err.(*apperrors.StandardError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeAuthenticationFailed, stdErr.Code)
}

func TestHandler_Execute_LoginUnknownEmail(t *testing.T) {
	handler, mock, _ := setupHandler(t)

	mock.ExpectQuery("SELECT (.+) FROM applicants WHERE email").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := handler.Execute(context.Background(), &Input{
		Action:   ActionLogin,
		Email:    "ghost@example.tn",
		Password: "whatever",
	})

	require.Error(t, err)
	stdErr, ok := err.(*apperrors.StandardError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeAuthenticationFailed, stdErr.Code)
}

func TestHandler_Execute_ResetPasswordMailsNewCredentials(t *testing.T) {
	handler, mock, email := setupHandler(t)

	mock.ExpectQuery("SELECT (.+) FROM applicants WHERE email").
		WillReturnRows(applicantRow("OldSecret99xy"))
	mock.ExpectExec("UPDATE applicants SET password").
		WillReturnResult(sqlmock.NewResult(0, 1))

	output, err := handler.Execute(context.Background(), &Input{
		Action: ActionResetPassword,
		Email:  "candidate@example.tn",
	})

	require.NoError(t, err)
	assert.True(t, output.EmailSent)
	require.Len(t, email.sent, 1)
	assert.Equal(t, "candidate@example.tn", email.sent[0].Destination.ToAddresses[0])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_ResetPasswordUnknownEmail(t *testing.T) {
	handler, mock, email := setupHandler(t)

	mock.ExpectQuery("SELECT (.+) FROM applicants WHERE email").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := handler.Execute(context.Background(), &Input{
		Action: ActionResetPassword,
		Email:  "ghost@example.tn",
	})

	require.Error(t, err)
	stdErr, ok := err.(*apperrors.StandardError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeAuthenticationFailed, stdErr.Code)
	assert.Empty(t, email.sent)
}

func TestInputSchema_RejectsUnknownAction(t *testing.T) {
	var input Input
	err := validation.DecodeAndValidate([]byte(`{"action":"impersonate","email":"candidate@example.tn"}`), GetInputSchema(), &input)

	require.Error(t, err)
	stdErr, ok := err.(*apperrors.StandardError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeDossierInvalid, stdErr.Code)
}
