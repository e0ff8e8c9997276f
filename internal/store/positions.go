package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/lib/pq"

	apperrors "concours-workers/internal/common/errors"
	"concours-workers/internal/models"
)

type PositionStore struct {
	db *sql.DB
}

func NewPositionStore(db *sql.DB) *PositionStore {
	return &PositionStore{db: db}
}

func scanPosition(row interface {
	Scan(dest ...interface{}) error
}) (*models.Position, error) {
	var (
		p                    models.Position
		createdAt, updatedAt time.Time
	)
	err := row.Scan(&p.Code, &p.Title, &p.OpenPositions, &p.Archived, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	p.CreatedAt = createdAt.UTC().Format(time.RFC3339)
	p.UpdatedAt = updatedAt.UTC().Format(time.RFC3339)
	return &p, nil
}

// Insert creates a position. Codes are unique across the whole set,
// archived entries included, so a retired code can never be reused.
func (s *PositionStore) Insert(ctx context.Context, p *models.Position) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO positions (code, title, open_positions, archived, created_at, updated_at)
		VALUES ($1, $2, $3, FALSE, NOW(), NOW())`,
		p.Code, p.Title, p.OpenPositions)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == uniqueViolation {
			return apperrors.NewDuplicateCodeError("position", p.Code)
		}
		return apperrors.NewQueryExecutionFailedError("position_insert", err)
	}
	return nil
}

func (s *PositionStore) GetByCode(ctx context.Context, code string) (*models.Position, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT code, title, open_positions, archived, created_at, updated_at
		FROM positions WHERE code = $1`, code)
	p, err := scanPosition(row)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewPositionNotFoundError(code)
	}
	if err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("position_by_code", err)
	}
	return p, nil
}

// List returns every position, archived ones included. Callers that
// only want the published set filter on Archived; existing dossiers
// referencing an archived code still resolve through here.
func (s *PositionStore) List(ctx context.Context) ([]models.Position, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT code, title, open_positions, archived, created_at, updated_at
		FROM positions ORDER BY code ASC`)
	if err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("positions_all", err)
	}
	defer rows.Close()

	var out []models.Position
	for rows.Next() {
		p, err := scanPosition(rows)
		if err != nil {
			return nil, apperrors.NewQueryExecutionFailedError("positions_all", err)
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// Update overwrites title and seat count. The code is the identity and
// is never rewritten.
func (s *PositionStore) Update(ctx context.Context, p *models.Position) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE positions SET title = $2, open_positions = $3, updated_at = NOW()
		WHERE code = $1`,
		p.Code, p.Title, p.OpenPositions)
	if err != nil {
		return apperrors.NewQueryExecutionFailedError("position_update", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.NewPositionNotFoundError(p.Code)
	}
	return nil
}

// Archive unpublishes a position. The row stays so that dossiers
// already targeting it keep resolving.
func (s *PositionStore) Archive(ctx context.Context, code string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE positions SET archived = TRUE, updated_at = NOW() WHERE code = $1`, code)
	if err != nil {
		return apperrors.NewQueryExecutionFailedError("position_archive", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.NewPositionNotFoundError(code)
	}
	return nil
}
