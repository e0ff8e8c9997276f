package rankposition

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
		ScoreConfig: store.NewScoreConfigStore(db, cache, log),
		Logger:      log,
	}
	return NewHandler(LoadConfig(), deps), mock
}

func applicantRow(rows *sqlmock.Rows, id, status, position, bac, grad string) *sqlmock.Rows {
	return rows.AddRow(
		id, id+"@example.tn", "pw", status, position,
		[]byte(`{}`), []byte(`{}`),
		[]byte(`{"bacAverage":"`+bac+`","gradAverage":"`+grad+`"}`),
		time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC))
}

func expectApplicantSet(mock sqlmock.Sqlmock) {
	rows := sqlmock.NewRows([]string{
		"id", "email", "password", "status", "target_position",
		"personal", "civil_status", "education", "created_at", "updated_at",
	})
	applicantRow(rows, "app-low", "accepted", "P1", "8", "8")
	applicantRow(rows, "app-high", "accepted", "P1", "16", "16")
	applicantRow(rows, "app-pending", "pending", "P1", "19", "19")
	applicantRow(rows, "app-other", "accepted", "P2", "18", "18")

	mock.ExpectQuery("SELECT (.+) FROM applicants ORDER BY created_at").
		WillReturnRows(rows)
}

func TestHandler_Execute_PositionScope(t *testing.T) {
	handler, mock := setupHandler(t)

	mock.ExpectQuery("SELECT (.+) FROM score_config").
		WillReturnRows(sqlmock.NewRows([]string{"bac_weight"}))
	expectApplicantSet(mock)

	output, err := handler.Execute(context.Background(), &Input{
		Scope:        ScopePosition,
		PositionCode: "P1",
	})

	require.NoError(t, err)
	assert.Equal(t, 20, output.Capacity)
	require.Len(t, output.Entries, 2)
	assert.Equal(t, "app-high", output.Entries[0].ApplicantID)
	assert.Equal(t, 1, output.Entries[0].Rank)
	assert.Equal(t, "app-low", output.Entries[1].ApplicantID)
}

func TestHandler_Execute_GlobalScope(t *testing.T) {
	handler, mock := setupHandler(t)

	mock.ExpectQuery("SELECT (.+) FROM score_config").
		WillReturnRows(sqlmock.NewRows([]string{"bac_weight"}))
	expectApplicantSet(mock)

	output, err := handler.Execute(context.Background(), &Input{Scope: ScopeGlobal})

	require.NoError(t, err)
	require.Len(t, output.Entries, 3)
	assert.Equal(t, "app-other", output.Entries[0].ApplicantID)
}

func TestHandler_Execute_PositionScopeRequiresCode(t *testing.T) {
	handler, _ := setupHandler(t)

	_, err := handler.Execute(context.Background(), &Input{Scope: ScopePosition})

	require.Error(t, err)
	stdErr, ok := err.(*apperrors.StandardError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeDossierInvalid, stdErr.Code)
}

func TestHandler_Execute_UnknownScope(t *testing.T) {
	handler, _ := setupHandler(t)

	_, err := handler.Execute(context.Background(), &Input{Scope: "weekly"})

	require.Error(t, err)
}

func TestInputSchema_RejectsUnknownScope(t *testing.T) {
	var input Input
	err := validation.DecodeAndValidate([]byte(`{"scope":"department"}`), GetInputSchema(), &input)

	require.Error(t, err)
	stdErr, ok := err.(*apperrors.StandardError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeDossierInvalid, stdErr.Code)
}
