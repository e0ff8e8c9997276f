// Package store holds the PostgreSQL repositories for the five
// admission collections. Mutations are applied as complete, serializable
// operations; the bulk transition runs in a single transaction so no
// reader ever observes a partially updated set.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"

	apperrors "concours-workers/internal/common/errors"
	"concours-workers/internal/models"
)

const uniqueViolation = "23505"

type ApplicantStore struct {
	db *sql.DB
}

func NewApplicantStore(db *sql.DB) *ApplicantStore {
	return &ApplicantStore{db: db}
}

const applicantColumns = `id, email, password, status, target_position, personal, civil_status, education, created_at, updated_at`

func scanApplicant(row interface {
	Scan(dest ...interface{}) error
}) (*models.Applicant, error) {
	var (
		a                    models.Applicant
		personal, civil, edu []byte
		createdAt, updatedAt time.Time
	)
	err := row.Scan(&a.ID, &a.Email, &a.Password, &a.Status, &a.TargetPositionNumber,
		&personal, &civil, &edu, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(personal, &a.Personal); err != nil {
		return nil, fmt.Errorf("decode personal info: %w", err)
	}
	if err := json.Unmarshal(civil, &a.CivilStatus); err != nil {
		return nil, fmt.Errorf("decode civil status: %w", err)
	}
	if err := json.Unmarshal(edu, &a.Education); err != nil {
		return nil, fmt.Errorf("decode education info: %w", err)
	}
	a.CreatedAt = createdAt.UTC().Format(time.RFC3339)
	a.UpdatedAt = updatedAt.UTC().Format(time.RFC3339)
	return &a, nil
}

// Insert stores a newly submitted dossier. A colliding login email is
// reported as DUPLICATE_EMAIL with nothing written.
func (s *ApplicantStore) Insert(ctx context.Context, a *models.Applicant) error {
	personal, err := json.Marshal(a.Personal)
	if err != nil {
		return err
	}
	civil, err := json.Marshal(a.CivilStatus)
	if err != nil {
		return err
	}
	edu, err := json.Marshal(a.Education)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO applicants (id, email, password, status, target_position, personal, civil_status, education, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())`,
		a.ID, a.Email, a.Password, a.Status, a.TargetPositionNumber, personal, civil, edu)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == uniqueViolation {
			return apperrors.NewDuplicateEmailError(a.Email)
		}
		return apperrors.NewQueryExecutionFailedError("applicant_insert", err)
	}
	return nil
}

// GetByID returns the applicant or APPLICANT_NOT_FOUND.
func (s *ApplicantStore) GetByID(ctx context.Context, id string) (*models.Applicant, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+applicantColumns+` FROM applicants WHERE id = $1`, id)
	a, err := scanApplicant(row)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewApplicantNotFoundError(id)
	}
	if err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("applicant_by_id", err)
	}
	return a, nil
}

// GetByEmail returns the applicant record matching the login email, or
// nil without error when no applicant matches. This is the credential
// lookup contract: "given credentials, return the record or nothing".
func (s *ApplicantStore) GetByEmail(ctx context.Context, email string) (*models.Applicant, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+applicantColumns+` FROM applicants WHERE email = $1`, email)
	a, err := scanApplicant(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("applicant_by_email", err)
	}
	return a, nil
}

// List returns the full applicant set ordered by submission time.
// Ranking reads the whole set and recomputes from scratch every call.
func (s *ApplicantStore) List(ctx context.Context) ([]models.Applicant, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+applicantColumns+` FROM applicants ORDER BY created_at ASC`)
	if err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("applicants_all", err)
	}
	defer rows.Close()

	var out []models.Applicant
	for rows.Next() {
		a, err := scanApplicant(rows)
		if err != nil {
			return nil, apperrors.NewQueryExecutionFailedError("applicants_all", err)
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

// ListByPosition returns every applicant targeting the position code,
// in submission order (the stable tie-break order for equal scores).
func (s *ApplicantStore) ListByPosition(ctx context.Context, positionCode string) ([]models.Applicant, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+applicantColumns+` FROM applicants WHERE target_position = $1 ORDER BY created_at ASC`,
		positionCode)
	if err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("applicants_by_position", err)
	}
	defer rows.Close()

	var out []models.Applicant
	for rows.Next() {
		a, err := scanApplicant(rows)
		if err != nil {
			return nil, apperrors.NewQueryExecutionFailedError("applicants_by_position", err)
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

// UpdateProfile overwrites the editable dossier sections. Identity,
// email and status are never touched here.
func (s *ApplicantStore) UpdateProfile(ctx context.Context, a *models.Applicant) error {
	personal, err := json.Marshal(a.Personal)
	if err != nil {
		return err
	}
	civil, err := json.Marshal(a.CivilStatus)
	if err != nil {
		return err
	}
	edu, err := json.Marshal(a.Education)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE applicants
		SET target_position = $2, personal = $3, civil_status = $4, education = $5, updated_at = NOW()
		WHERE id = $1`,
		a.ID, a.TargetPositionNumber, personal, civil, edu)
	if err != nil {
		return apperrors.NewQueryExecutionFailedError("applicant_update_profile", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.NewApplicantNotFoundError(a.ID)
	}
	return nil
}

// UpdatePassword stores a regenerated credential (password recovery).
func (s *ApplicantStore) UpdatePassword(ctx context.Context, id, password string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE applicants SET password = $2, updated_at = NOW() WHERE id = $1`, id, password)
	if err != nil {
		return apperrors.NewQueryExecutionFailedError("applicant_update_password", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.NewApplicantNotFoundError(id)
	}
	return nil
}

// SetStatus persists a single validated workflow transition.
func (s *ApplicantStore) SetStatus(ctx context.Context, id string, status models.ApplicantStatus) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE applicants SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		return apperrors.NewQueryExecutionFailedError("applicant_set_status", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.NewApplicantNotFoundError(id)
	}
	return nil
}

// BulkAcceptPending moves every pending applicant to accepted in one
// transaction and returns the ids that moved. On any fault the
// transaction rolls back and the stored set is exactly as it was.
func (s *ApplicantStore) BulkAcceptPending(ctx context.Context) ([]string, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, apperrors.NewDatabaseConnectionFailedError(err)
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx, `
		UPDATE applicants
		SET status = $1, updated_at = NOW()
		WHERE status = $2
		RETURNING id`,
		models.StatusAccepted, models.StatusPending)
	if err != nil {
		return nil, apperrors.NewBulkUpdateFailedError(err)
	}

	var moved []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, apperrors.NewBulkUpdateFailedError(err)
		}
		moved = append(moved, id)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, apperrors.NewBulkUpdateFailedError(err)
	}
	rows.Close()

	if err := tx.Commit(); err != nil {
		return nil, apperrors.NewBulkUpdateFailedError(err)
	}
	return moved, nil
}
