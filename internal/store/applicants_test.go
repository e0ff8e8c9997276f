package store

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "concours-workers/internal/common/errors"
	"concours-workers/internal/models"
)

func testApplicant() *models.Applicant {
	return &models.Applicant{
		ID:                   "app-001",
		Email:                "candidate@example.tn",
		Password:             "s3cret",
		Status:               models.StatusPending,
		TargetPositionNumber: "P1",
		Personal:             models.PersonalInfo{FullName: "Sami Ben Salah"},
		Education:            models.EducationInfo{BacAverage: "15", GradAverage: "13"},
	}
}

func applicantRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "email", "password", "status", "target_position",
		"personal", "civil_status", "education", "created_at", "updated_at",
	}).AddRow(
		"app-001", "candidate@example.tn", "s3cret", "pending", "P1",
		[]byte(`{"fullName":"Sami Ben Salah"}`), []byte(`{}`),
		[]byte(`{"bacAverage":"15","gradAverage":"13"}`),
		time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC),
		time.Date(2025, 5, 2, 9, 0, 0, 0, time.UTC),
	)
}

func TestApplicantStore_Insert(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO applicants").
		WithArgs("app-001", "candidate@example.tn", "s3cret", models.StatusPending, "P1",
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	store := NewApplicantStore(db)
	err = store.Insert(context.Background(), testApplicant())

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicantStore_Insert_DuplicateEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO applicants").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "applicants_email_key"})

	store := NewApplicantStore(db)
	err = store.Insert(context.Background(), testApplicant())

	require.Error(t, err)
	stdErr, ok := err.(*apperrors.StandardError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeDuplicateEmail, stdErr.Code)
	assert.False(t, stdErr.Retryable)
}

func TestApplicantStore_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM applicants WHERE id").
		WithArgs("app-001").
		WillReturnRows(applicantRows())

	store := NewApplicantStore(db)
	a, err := store.GetByID(context.Background(), "app-001")

	require.NoError(t, err)
	assert.Equal(t, "candidate@example.tn", a.Email)
	assert.Equal(t, "Sami Ben Salah", a.Personal.FullName)
	assert.Equal(t, "15", a.Education.BacAverage)
	assert.Equal(t, "2025-05-01T09:00:00Z", a.CreatedAt)
}

func TestApplicantStore_GetByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM applicants WHERE id").
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	store := NewApplicantStore(db)
	_, err = store.GetByID(context.Background(), "ghost")

	require.Error(t, err)
	stdErr, ok := err.(*apperrors.StandardError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeApplicantNotFound, stdErr.Code)
}

func TestApplicantStore_GetByEmail_NoMatchIsNotAnError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM applicants WHERE email").
		WithArgs("nobody@example.tn").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	store := NewApplicantStore(db)
	a, err := store.GetByEmail(context.Background(), "nobody@example.tn")

	require.NoError(t, err)
	assert.Nil(t, a)
}

func TestApplicantStore_SetStatus_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("UPDATE applicants SET status").
		WithArgs("ghost", models.StatusAccepted).
		WillReturnResult(sqlmock.NewResult(0, 0))

	store := NewApplicantStore(db)
	err = store.SetStatus(context.Background(), "ghost", models.StatusAccepted)

	require.Error(t, err)
	stdErr, ok := err.(*apperrors.StandardError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeApplicantNotFound, stdErr.Code)
}

func TestApplicantStore_BulkAcceptPending(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE applicants").
		WithArgs(models.StatusAccepted, models.StatusPending).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).
			AddRow("app-001").AddRow("app-002").AddRow("app-003"))
	mock.ExpectCommit()

	store := NewApplicantStore(db)
	moved, err := store.BulkAcceptPending(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"app-001", "app-002", "app-003"}, moved)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicantStore_BulkAcceptPending_Empty(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE applicants").
		WithArgs(models.StatusAccepted, models.StatusPending).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectCommit()

	store := NewApplicantStore(db)
	moved, err := store.BulkAcceptPending(context.Background())

	require.NoError(t, err)
	assert.Empty(t, moved)
}

func TestApplicantStore_BulkAcceptPending_RollsBackOnFault(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE applicants").
		WithArgs(models.StatusAccepted, models.StatusPending).
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	store := NewApplicantStore(db)
	_, err = store.BulkAcceptPending(context.Background())

	require.Error(t, err)
	stdErr, ok := err.(*apperrors.StandardError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeBulkUpdateFailed, stdErr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
