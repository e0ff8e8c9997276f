package store

import (
	"context"
	"database/sql"
	"time"

	apperrors "concours-workers/internal/common/errors"
	"concours-workers/internal/models"
)

type NotificationStore struct {
	db *sql.DB
}

func NewNotificationStore(db *sql.DB) *NotificationStore {
	return &NotificationStore{db: db}
}

// Insert appends one notification. The dispatcher calls this exactly
// once per status transition, so the feed carries no duplicates.
func (s *NotificationStore) Insert(ctx context.Context, n *models.Notification) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO notifications (id, applicant_id, title, message, severity, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, FALSE, NOW())`,
		n.ID, n.ApplicantID, n.Title, n.Message, n.Severity)
	if err != nil {
		return apperrors.NewQueryExecutionFailedError("notification_insert", err)
	}
	return nil
}

// ListByApplicant returns the applicant's feed in creation order.
func (s *NotificationStore) ListByApplicant(ctx context.Context, applicantID string) ([]models.Notification, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, applicant_id, title, message, severity, is_read, created_at
		FROM notifications WHERE applicant_id = $1 ORDER BY created_at ASC`,
		applicantID)
	if err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("notifications_by_applicant", err)
	}
	defer rows.Close()

	var out []models.Notification
	for rows.Next() {
		var (
			n         models.Notification
			createdAt time.Time
		)
		if err := rows.Scan(&n.ID, &n.ApplicantID, &n.Title, &n.Message, &n.Severity, &n.IsRead, &createdAt); err != nil {
			return nil, apperrors.NewQueryExecutionFailedError("notifications_by_applicant", err)
		}
		n.CreatedAt = createdAt.UTC().Format(time.RFC3339)
		out = append(out, n)
	}
	return out, rows.Err()
}

// CountUnread supports the portal's badge counter.
func (s *NotificationStore) CountUnread(ctx context.Context, applicantID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM notifications WHERE applicant_id = $1 AND is_read = FALSE`,
		applicantID).Scan(&count)
	if err != nil {
		return 0, apperrors.NewQueryExecutionFailedError("notifications_unread_count", err)
	}
	return count, nil
}

// MarkAllRead flips every unread notification of the applicant in one
// statement and reports how many changed. Concurrent inserts either
// land before the statement and are flipped, or after and stay unread.
func (s *NotificationStore) MarkAllRead(ctx context.Context, applicantID string) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE notifications SET is_read = TRUE WHERE applicant_id = $1 AND is_read = FALSE`,
		applicantID)
	if err != nil {
		return 0, apperrors.NewQueryExecutionFailedError("notifications_mark_all_read", err)
	}
	return res.RowsAffected()
}
