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
	"github.com/google/uuid"
)

type sqliteMediaRepo struct {
	db database.TxQuerier
}

// NewSQLiteMediaRepo, constructor — interface döner.
func NewSQLiteMediaRepo(db database.TxQuerier) MediaRepository {
	return &sqliteMediaRepo{db: db}
}

const mediaColumns = `id, path, kind, filename, size, mime_type, purpose, aspect, created_at`

// Create, ID ve CreatedAt boşsa doldurur.
func (r *sqliteMediaRepo) Create(ctx context.Context, m *models.Media) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO media (`+mediaColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.Path, string(m.Kind), m.Filename, m.Size, m.MimeType, m.Purpose, m.Aspect, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create media %s: %w", m.Path, err)
	}
	return nil
}

func (r *sqliteMediaRepo) GetByPath(ctx context.Context, path string) (*models.Media, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+mediaColumns+` FROM media WHERE path = ?`, path)

	m, err := scanMedia(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, pkg.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get media %s: %w", path, err)
	}
	return m, nil
}

func (r *sqliteMediaRepo) DeleteByPath(ctx context.Context, path string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM media WHERE path = ?`, path)
	if err != nil {
		return fmt.Errorf("failed to delete media %s: %w", path, err)
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

func (r *sqliteMediaRepo) SetAspect(ctx context.Context, path, aspect string) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE media SET aspect = ? WHERE path = ?`, aspect, path); err != nil {
		return fmt.Errorf("failed to set media aspect: %w", err)
	}
	return nil
}

// List, kind boşsa tüm kayıtları döner. En yeni üstte.
func (r *sqliteMediaRepo) List(ctx context.Context, kind models.MediaKind) ([]models.Media, error) {
	query := `SELECT ` + mediaColumns + ` FROM media`
	var args []any
	if kind != "" {
		query += ` WHERE kind = ?`
		args = append(args, string(kind))
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list media: %w", err)
	}
	defer rows.Close()

	items := []models.Media{}
	for rows.Next() {
		m, err := scanMedia(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan media row: %w", err)
		}
		items = append(items, *m)
	}
	return items, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMedia(s rowScanner) (*models.Media, error) {
	var m models.Media
	var kind string
	var aspect sql.NullString

	if err := s.Scan(&m.ID, &m.Path, &kind, &m.Filename, &m.Size, &m.MimeType, &m.Purpose, &aspect, &m.CreatedAt); err != nil {
		return nil, err
	}
	m.Kind = models.MediaKind(kind)
	if aspect.Valid {
		m.Aspect = &aspect.String
	}
	return &m, nil
}
