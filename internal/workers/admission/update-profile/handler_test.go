package updateprofile

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "concours-workers/internal/common/errors"
	"concours-workers/internal/common/logger"
	"concours-workers/internal/common/validation"
	"concours-workers/internal/models"
	"concours-workers/internal/store"
)

func setupHandler(t *testing.T) (*Handler, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { cache.Close() })

	log := logger.NewNoOpLogger()
	deps := Dependencies{
		Applicants:  store.NewApplicantStore(db),
		Positions:   store.NewPositionStore(db),
		ScoreConfig: store.NewScoreConfigStore(db, cache, log),
		Logger:      log,
	}
	return NewHandler(LoadConfig(), deps), mock
}

func expectOpenScoreConfig(mock sqlmock.Sqlmock) {
	mock.ExpectQuery("SELECT (.+) FROM score_config").
		WillReturnRows(sqlmock.NewRows([]string{"bac_weight"}))
}

func expectApplicantLookup(mock sqlmock.Sqlmock) {
	mock.ExpectQuery("SELECT (.+) FROM applicants WHERE id").
		WithArgs("app-001").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "email", "password", "status", "target_position",
			"personal", "civil_status", "education", "created_at", "updated_at",
		}).AddRow(
			"app-001", "candidate@example.tn", "pw", "pending", "P1",
			[]byte(`{"fullName":"Sami Ben Salah"}`), []byte(`{}`),
			[]byte(`{"degree":"licence-info","gradAverage":"13"}`),
			time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)))
}

func TestHandler_Execute_ReplacesPresentSections(t *testing.T) {
	handler, mock := setupHandler(t)

	expectOpenScoreConfig(mock)
	expectApplicantLookup(mock)
	mock.ExpectExec("UPDATE applicants").
		WillReturnResult(sqlmock.NewResult(0, 1))

	output, err := handler.Execute(context.Background(), &Input{
		ApplicantID: "app-001",
		ProfilePatch: models.ProfilePatch{
			Education: &models.EducationInfo{Degree: "master-info", GradAverage: "15"},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, "app-001", output.ApplicantID)
	assert.Equal(t, "pending", output.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_DeadlinePassed(t *testing.T) {
	handler, mock := setupHandler(t)

	past := time.Now().UTC().Add(-time.Hour)
	mock.ExpectQuery("SELECT (.+) FROM score_config").
		WillReturnRows(sqlmock.NewRows([]string{
			"bac_weight", "grad_weight", "written_exam_count", "oral_exam_count", "deadline", "updated_at",
		}).AddRow(40.0, 60.0, 20, 10, past, past))

	_, err := handler.Execute(context.Background(), &Input{ApplicantID: "app-001"})

	require.Error(t, err)
	stdErr, ok := err.(*apperrors.StandardError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeEditingClosed, stdErr.Code)
}

func TestHandler_Execute_UnknownApplicant(t *testing.T) {
	handler, mock := setupHandler(t)

	expectOpenScoreConfig(mock)
	mock.ExpectQuery("SELECT (.+) FROM applicants WHERE id").
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := handler.Execute(context.Background(), &Input{ApplicantID: "ghost"})

	require.Error(t, err)
	stdErr, ok := err.(*apperrors.StandardError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeApplicantNotFound, stdErr.Code)
}

func TestHandler_Execute_RetargetToArchivedPosition(t *testing.T) {
	handler, mock := setupHandler(t)

	expectOpenScoreConfig(mock)
	expectApplicantLookup(mock)
	mock.ExpectQuery("SELECT code, title, open_positions").
		WithArgs("P2").
		WillReturnRows(sqlmock.NewRows([]string{
			"code", "title", "open_positions", "archived", "created_at", "updated_at",
		}).AddRow("P2", "Analyste", 3, true,
			time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)))

	_, err := handler.Execute(context.Background(), &Input{
		ApplicantID:    "app-001",
		TargetPosition: "P2",
	})

	require.Error(t, err)
	stdErr, ok := err.(*apperrors.StandardError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeInvalidPosition, stdErr.Code)
}

func TestInputSchema_RequiresApplicantID(t *testing.T) {
	var input Input
	err := validation.DecodeAndValidate([]byte(`{"personal":{"fullName":"Sami"}}`), GetInputSchema(), &input)

	require.Error(t, err)
	stdErr, ok := err.(*apperrors.StandardError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeDossierInvalid, stdErr.Code)
}
