package savescoreconfig

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

	deps := Dependencies{
		ScoreConfig: store.NewScoreConfigStore(db, cache, logger.NewNoOpLogger()),
		Logger:      logger.NewNoOpLogger(),
	}
	return NewHandler(LoadConfig(), deps), mock
}

func TestHandler_Execute_SavesConfiguration(t *testing.T) {
	handler, mock := setupHandler(t)

	mock.ExpectExec("INSERT INTO score_config").
		WithArgs(45.0, 55.0, 30, 15, nil).
		WillReturnResult(sqlmock.NewResult(0, 1))

	output, err := handler.Execute(context.Background(), &Input{
		BacWeight:        45,
		GradWeight:       55,
		WrittenExamCount: 30,
		OralExamCount:    15,
	})

	require.NoError(t, err)
	assert.Equal(t, 45.0, output.Config.BacWeight)
	assert.Equal(t, 30, output.Config.WrittenExamCount)
	assert.Nil(t, output.Config.Deadline)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_SavesDeadline(t *testing.T) {
	handler, mock := setupHandler(t)

	deadline := "2026-07-01T00:00:00Z"
	mock.ExpectExec("INSERT INTO score_config").
		WillReturnResult(sqlmock.NewResult(0, 1))

	output, err := handler.Execute(context.Background(), &Input{
		BacWeight:        40,
		GradWeight:       60,
		WrittenExamCount: 20,
		OralExamCount:    10,
		Deadline:         &deadline,
	})

	require.NoError(t, err)
	require.NotNil(t, output.Config.Deadline)
	assert.True(t, output.Config.Deadline.Equal(time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)))
}

func TestHandler_Execute_NegativeCapacity(t *testing.T) {
	handler, _ := setupHandler(t)

	_, err := handler.Execute(context.Background(), &Input{
		BacWeight:        40,
		GradWeight:       60,
		WrittenExamCount: -1,
		OralExamCount:    10,
	})

	require.Error(t, err)
	stdErr, ok := err.(*apperrors.StandardError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeInvalidCapacity, stdErr.Code)
}

func TestHandler_Execute_WeightOutOfRange(t *testing.T) {
	handler, _ := setupHandler(t)

	_, err := handler.Execute(context.Background(), &Input{
		BacWeight:        140,
		GradWeight:       60,
		WrittenExamCount: 20,
		OralExamCount:    10,
	})

	require.Error(t, err)
	stdErr, ok := err.(*apperrors.StandardError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeDossierInvalid, stdErr.Code)
}

func TestHandler_Execute_UnparseableDeadline(t *testing.T) {
	handler, _ := setupHandler(t)

	deadline := "next tuesday"
	_, err := handler.Execute(context.Background(), &Input{
		BacWeight:        40,
		GradWeight:       60,
		WrittenExamCount: 20,
		OralExamCount:    10,
		Deadline:         &deadline,
	})

	require.Error(t, err)
	stdErr, ok := err.(*apperrors.StandardError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeDossierInvalid, stdErr.Code)
}

func TestInputSchema_RejectsWeightAboveHundred(t *testing.T) {
	var input Input
	err := validation.DecodeAndValidate([]byte(`{"bacWeight":140,"gradWeight":60,"writtenExamCount":20,"oralExamCount":10}`), GetInputSchema(), &input)

	require.Error(t, err)
	stdErr, ok := err.(*apperrors.StandardError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeDossierInvalid, stdErr.Code)
}
