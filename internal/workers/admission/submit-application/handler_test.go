package submitapplication

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "concours-workers/internal/common/errors"
	"concours-workers/internal/common/logger"
	"concours-workers/internal/common/validation"
	"concours-workers/internal/models"
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

func createTestInput() *Input {
	return &Input{
		Email:          "candidate@example.tn",
		TargetPosition: "P1",
		Personal: models.PersonalInfo{
			FullName: "Sami Ben Salah",
			CIN:      "09876543",
		},
		Education: models.EducationInfo{
			Degree:      "licence-info",
			BacAverage:  "15",
			GradAverage: "13",
		},
	}
}

func setupHandler(t *testing.T) (*Handler, sqlmock.Sqlmock, *fakeEmailAPI) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { cache.Close() })

	email := &fakeEmailAPI{}
	log := logger.NewNoOpLogger()

	deps := Dependencies{
		Applicants:  store.NewApplicantStore(db),
		Positions:   store.NewPositionStore(db),
		Lists:       store.NewListStore(db),
		ScoreConfig: store.NewScoreConfigStore(db, cache, log),
		Mailer:      notify.NewMailer(email, "noreply@concours.tn", true, log),
		Logger:      log,
	}
	return NewHandler(LoadConfig(), deps), mock, email
}

func expectDefaultScoreConfig(mock sqlmock.Sqlmock) {
	mock.ExpectQuery("SELECT (.+) FROM score_config").
		WillReturnRows(sqlmock.NewRows([]string{"bac_weight"}))
}

func expectDegreeLookup(mock sqlmock.Sqlmock, archived bool) {
	mock.ExpectQuery("SELECT value, label, archived FROM list_items").
		WithArgs(models.CatalogDegrees, "licence-info").
		WillReturnRows(sqlmock.NewRows([]string{"value", "label", "archived"}).
			AddRow("licence-info", "Licence Informatique", archived))
}

func expectPositionLookup(mock sqlmock.Sqlmock, archived bool) {
	mock.ExpectQuery("SELECT code, title, open_positions").
		WithArgs("P1").
		WillReturnRows(sqlmock.NewRows([]string{
			"code", "title", "open_positions", "archived", "created_at", "updated_at",
		}).AddRow("P1", "Technicien", 5, archived,
			time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)))
}

func TestHandler_Execute_Success(t *testing.T) {
	handler, mock, email := setupHandler(t)

	expectDefaultScoreConfig(mock)
	expectDegreeLookup(mock, false)
	expectPositionLookup(mock, false)
	mock.ExpectExec("INSERT INTO applicants").
		WillReturnResult(sqlmock.NewResult(0, 1))

	output, err := handler.Execute(context.Background(), createTestInput())

	require.NoError(t, err)
	assert.NotEmpty(t, output.ApplicantID)
	assert.Equal(t, "candidate@example.tn", output.Email)
	assert.Equal(t, "pending", output.Status)

	// Credentials are delivered to the applicant's inbox.
	require.Len(t, email.sent, 1)
	assert.Equal(t, []string{"candidate@example.tn"}, email.sent[0].Destination.ToAddresses)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_EditingClosed(t *testing.T) {
	handler, mock, email := setupHandler(t)

	past := time.Now().UTC().Add(-24 * time.Hour)
	mock.ExpectQuery("SELECT (.+) FROM score_config").
		WillReturnRows(sqlmock.NewRows([]string{
			"bac_weight", "grad_weight", "written_exam_count", "oral_exam_count", "deadline", "updated_at",
		}).AddRow(40.0, 60.0, 20, 10, past, past))

	_, err := handler.Execute(context.Background(), createTestInput())

	require.Error(t, err)
	stdErr, ok := err.(*apperrors.StandardError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeEditingClosed, stdErr.Code)
	assert.Empty(t, email.sent)
}

func TestHandler_Execute_MissingFields(t *testing.T) {
	handler, mock, _ := setupHandler(t)

	expectDefaultScoreConfig(mock)

	input := createTestInput()
	input.Personal.FullName = ""
	input.Education.GradAverage = "  "

	_, err := handler.Execute(context.Background(), input)

	require.Error(t, err)
	stdErr, ok := err.(*apperrors.StandardError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeDossierInvalid, stdErr.Code)
	assert.Contains(t, stdErr.Details, "personal.fullName")
	assert.Contains(t, stdErr.Details, "education.gradAverage")
}

func TestHandler_Execute_ArchivedDegreeRejected(t *testing.T) {
	handler, mock, _ := setupHandler(t)

	expectDefaultScoreConfig(mock)
	expectDegreeLookup(mock, true)

	_, err := handler.Execute(context.Background(), createTestInput())

	require.Error(t, err)
	stdErr, ok := err.(*apperrors.StandardError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeDossierInvalid, stdErr.Code)
}

func TestHandler_Execute_ArchivedPositionRejected(t *testing.T) {
	handler, mock, _ := setupHandler(t)

	expectDefaultScoreConfig(mock)
	expectDegreeLookup(mock, false)
	expectPositionLookup(mock, true)

	_, err := handler.Execute(context.Background(), createTestInput())

	require.Error(t, err)
	stdErr, ok := err.(*apperrors.StandardError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeInvalidPosition, stdErr.Code)
}

func TestHandler_Execute_DuplicateEmail(t *testing.T) {
	handler, mock, email := setupHandler(t)

	expectDefaultScoreConfig(mock)
	expectDegreeLookup(mock, false)
	expectPositionLookup(mock, false)
	mock.ExpectExec("INSERT INTO applicants").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "applicants_email_key"})

	_, err := handler.Execute(context.Background(), createTestInput())

	require.Error(t, err)
	stdErr, ok := err.(*apperrors.StandardError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeDuplicateEmail, stdErr.Code)
	assert.Empty(t, email.sent)
}

func TestInputSchema_RejectsMalformedEmail(t *testing.T) {
	var input Input
	err := validation.DecodeAndValidate([]byte(`{"email":"not-an-email","targetPosition":"P1","personal":{"fullName":"Sami","cin":"01234567"},"education":{"degree":"licence-info"}}`), GetInputSchema(), &input)

	require.Error(t, err)
	stdErr, ok := err.(*apperrors.StandardError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeDossierInvalid, stdErr.Code)
}
