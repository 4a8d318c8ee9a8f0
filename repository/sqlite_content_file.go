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

// revisionHistoryLimit, doküman başına tutulan geçmiş satırı sayısı.
const revisionHistoryLimit = 20

// sqliteContentFileRepo, ContentFileRepository'nin SQLite implementasyonu.
//
// Save transaction gerektirdiği için TxQuerier yerine *sql.DB alır.
type sqliteContentFileRepo struct {
	db *sql.DB
}

// NewSQLiteContentFileRepo, constructor — interface döner.
func NewSQLiteContentFileRepo(db *sql.DB) ContentFileRepository {
	return &sqliteContentFileRepo{db: db}
}

// Save, revision kontrolü + upsert + geçmiş kaydını tek transaction'da yapar.
//
// Aynı dokümana üst üste gelen asenkron kayıtlar farklı sırada tamamlanabilir.
// Eski bir snapshot'ın yenisinin üzerine yazmaması için revision karşılaştırılır:
// gelen < kayıtlı ise yazma atlanır.
func (r *sqliteContentFileRepo) Save(ctx context.Context, section, suffix string, value []byte, revision int64) (*models.ContentFile, bool, error) {
	var saved *models.ContentFile
	superseded := false

	err := database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		var current int64
		err := tx.QueryRowContext(ctx,
			`SELECT revision FROM content_files WHERE section = ? AND suffix = ?`,
			section, suffix,
		).Scan(&current)
		exists := true
		if errors.Is(err, sql.ErrNoRows) {
			exists = false
		} else if err != nil {
			return fmt.Errorf("failed to read current revision: %w", err)
		}

		if revision <= 0 {
			revision = current + 1
		}
		if exists && revision < current {
			superseded = true
			return nil
		}

		now := time.Now().UTC()
		checksum := Checksum(value)

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO content_files (section, suffix, value, checksum, revision, updated_at)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(section, suffix) DO UPDATE SET
				value = excluded.value,
				checksum = excluded.checksum,
				revision = excluded.revision,
				updated_at = excluded.updated_at`,
			section, suffix, string(value), checksum, revision, now,
		); err != nil {
			return fmt.Errorf("failed to upsert content file: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO content_file_revisions (section, suffix, revision, checksum, value, created_at)
			VALUES (?, ?, ?, ?, ?, ?)`,
			section, suffix, revision, checksum, string(value), now,
		); err != nil {
			return fmt.Errorf("failed to insert content revision: %w", err)
		}

		// Eski geçmiş satırlarını buda
		if _, err := tx.ExecContext(ctx, `
			DELETE FROM content_file_revisions
			WHERE section = ? AND suffix = ? AND id NOT IN (
				SELECT id FROM content_file_revisions
				WHERE section = ? AND suffix = ?
				ORDER BY id DESC LIMIT ?
			)`,
			section, suffix, section, suffix, revisionHistoryLimit,
		); err != nil {
			return fmt.Errorf("failed to prune content revisions: %w", err)
		}

		saved = &models.ContentFile{
			Section:   section,
			Suffix:    suffix,
			Value:     value,
			Checksum:  checksum,
			Revision:  revision,
			UpdatedAt: now,
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return saved, superseded, nil
}

func (r *sqliteContentFileRepo) Get(ctx context.Context, section, suffix string) (*models.ContentFile, error) {
	var f models.ContentFile
	var value string

	err := r.db.QueryRowContext(ctx, `
		SELECT section, suffix, value, checksum, revision, updated_at
		FROM content_files WHERE section = ? AND suffix = ?`,
		section, suffix,
	).Scan(&f.Section, &f.Suffix, &value, &f.Checksum, &f.Revision, &f.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, pkg.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get content file %s/%s: %w", section, suffix, err)
	}

	f.Value = []byte(value)
	return &f, nil
}

// ListRevisions, en yeni revision üstte olacak şekilde geçmişi döner.
func (r *sqliteContentFileRepo) ListRevisions(ctx context.Context, section, suffix string, limit int) ([]models.ContentRevision, error) {
	if limit <= 0 || limit > revisionHistoryLimit {
		limit = revisionHistoryLimit
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT revision, checksum, created_at
		FROM content_file_revisions
		WHERE section = ? AND suffix = ?
		ORDER BY id DESC LIMIT ?`,
		section, suffix, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list content revisions: %w", err)
	}
	defer rows.Close()

	revisions := []models.ContentRevision{}
	for rows.Next() {
		var rev models.ContentRevision
		if err := rows.Scan(&rev.Revision, &rev.Checksum, &rev.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan content revision: %w", err)
		}
		revisions = append(revisions, rev)
	}
	return revisions, rows.Err()
}
