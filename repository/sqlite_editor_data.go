package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/akinalp/folio/database"
	"github.com/akinalp/folio/models"
	"github.com/akinalp/folio/pkg"
)

// sqliteEditorDataRepo, EditorDataRepository interface'inin SQLite implementasyonu.
type sqliteEditorDataRepo struct {
	db database.TxQuerier
}

// NewSQLiteEditorDataRepo, constructor — interface döner.
func NewSQLiteEditorDataRepo(db database.TxQuerier) EditorDataRepository {
	return &sqliteEditorDataRepo{db: db}
}

func (r *sqliteEditorDataRepo) Get(ctx context.Context, key string) (*models.ContentEntry, error) {
	var entry models.ContentEntry
	var value string

	err := r.db.QueryRowContext(ctx,
		`SELECT key, value, updated_at FROM editor_data WHERE key = ?`, key,
	).Scan(&entry.Key, &value, &entry.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, pkg.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get editor data %q: %w", key, err)
	}

	entry.Value = []byte(value)
	return &entry, nil
}

// Set, ON CONFLICT ile upsert yapar.
func (r *sqliteEditorDataRepo) Set(ctx context.Context, key string, value []byte) error {
	query := `
		INSERT INTO editor_data (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`

	if _, err := r.db.ExecContext(ctx, query, key, string(value), time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to set editor data %q: %w", key, err)
	}
	return nil
}

func (r *sqliteEditorDataRepo) Delete(ctx context.Context, key string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM editor_data WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("failed to delete editor data %q: %w", key, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if affected == 0 {
		return pkg.ErrNotFound
	}
	return nil
}

func (r *sqliteEditorDataRepo) List(ctx context.Context) ([]models.ContentEntry, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT key, value, updated_at FROM editor_data ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("failed to list editor data: %w", err)
	}
	defer rows.Close()

	entries := []models.ContentEntry{}
	for rows.Next() {
		var e models.ContentEntry
		var value string
		if err := rows.Scan(&e.Key, &value, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan editor data row: %w", err)
		}
		e.Value = []byte(value)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
