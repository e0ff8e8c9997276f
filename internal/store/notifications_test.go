package store

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"concours-workers/internal/models"
)

func TestNotificationStore_Insert(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO notifications").
		WithArgs("ntf-001", "app-001", "Application accepted", "Congratulations", models.SeveritySuccess).
		WillReturnResult(sqlmock.NewResult(0, 1))

	store := NewNotificationStore(db)
	err = store.Insert(context.Background(), &models.Notification{
		ID:          "ntf-001",
		ApplicantID: "app-001",
		Title:       "Application accepted",
		Message:     "Congratulations",
		Severity:    models.SeveritySuccess,
	})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationStore_ListByApplicant_CreationOrder(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM notifications WHERE applicant_id").
		WithArgs("app-001").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "applicant_id", "title", "message", "severity", "is_read", "created_at",
		}).
			AddRow("ntf-001", "app-001", "Received", "Dossier received", models.SeverityInfo, true,
				time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)).
			AddRow("ntf-002", "app-001", "Accepted", "Congratulations", models.SeveritySuccess, false,
				time.Date(2025, 5, 3, 9, 0, 0, 0, time.UTC)))

	store := NewNotificationStore(db)
	feed, err := store.ListByApplicant(context.Background(), "app-001")

	require.NoError(t, err)
	require.Len(t, feed, 2)
	assert.Equal(t, "ntf-001", feed[0].ID)
	assert.True(t, feed[0].IsRead)
	assert.Equal(t, "ntf-002", feed[1].ID)
	assert.False(t, feed[1].IsRead)
}

func TestNotificationStore_MarkAllRead(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("UPDATE notifications SET is_read").
		WithArgs("app-001").
		WillReturnResult(sqlmock.NewResult(0, 4))

	store := NewNotificationStore(db)
	flipped, err := store.MarkAllRead(context.Background(), "app-001")

	require.NoError(t, err)
	assert.Equal(t, int64(4), flipped)
}

func TestNotificationStore_MarkAllRead_NothingUnread(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("UPDATE notifications SET is_read").
		WithArgs("app-001").
		WillReturnResult(sqlmock.NewResult(0, 0))

	store := NewNotificationStore(db)
	flipped, err := store.MarkAllRead(context.Background(), "app-001")

	require.NoError(t, err)
	assert.Zero(t, flipped)
}
