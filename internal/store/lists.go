package store

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	apperrors "concours-workers/internal/common/errors"
	"concours-workers/internal/models"
)

// ListStore manages the two reference catalogs (degrees and bac
// specialties) that dossier validation resolves values against.
type ListStore struct {
	db *sql.DB
}

func NewListStore(db *sql.DB) *ListStore {
	return &ListStore{db: db}
}

// Insert adds an entry to a catalog. Values are unique per catalog,
// archived entries included.
func (s *ListStore) Insert(ctx context.Context, catalog models.ListCatalog, item *models.ListItem) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO list_items (catalog, value, label, archived)
		VALUES ($1, $2, $3, FALSE)`,
		catalog, item.Value, item.Label)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == uniqueViolation {
			return apperrors.NewDuplicateCodeError(string(catalog), item.Value)
		}
		return apperrors.NewQueryExecutionFailedError("list_item_insert", err)
	}
	return nil
}

func (s *ListStore) Get(ctx context.Context, catalog models.ListCatalog, value string) (*models.ListItem, error) {
	var item models.ListItem
	err := s.db.QueryRowContext(ctx, `
		SELECT value, label, archived FROM list_items
		WHERE catalog = $1 AND value = $2`,
		catalog, value).Scan(&item.Value, &item.Label, &item.Archived)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewListItemNotFoundError(string(catalog), value)
	}
	if err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("list_item_get", err)
	}
	return &item, nil
}

// List returns the catalog entries, archived ones included; the
// submission form only offers entries with Archived false.
func (s *ListStore) List(ctx context.Context, catalog models.ListCatalog) ([]models.ListItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT value, label, archived FROM list_items
		WHERE catalog = $1 ORDER BY value ASC`, catalog)
	if err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("list_items", err)
	}
	defer rows.Close()

	var out []models.ListItem
	for rows.Next() {
		var item models.ListItem
		if err := rows.Scan(&item.Value, &item.Label, &item.Archived); err != nil {
			return nil, apperrors.NewQueryExecutionFailedError("list_items", err)
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func (s *ListStore) Update(ctx context.Context, catalog models.ListCatalog, item *models.ListItem) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE list_items SET label = $3 WHERE catalog = $1 AND value = $2`,
		catalog, item.Value, item.Label)
	if err != nil {
		return apperrors.NewQueryExecutionFailedError("list_item_update", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.NewListItemNotFoundError(string(catalog), item.Value)
	}
	return nil
}

// Archive retires a catalog entry without breaking dossiers that
// already carry its value.
func (s *ListStore) Archive(ctx context.Context, catalog models.ListCatalog, value string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE list_items SET archived = TRUE WHERE catalog = $1 AND value = $2`,
		catalog, value)
	if err != nil {
		return apperrors.NewQueryExecutionFailedError("list_item_archive", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.NewListItemNotFoundError(string(catalog), value)
	}
	return nil
}
