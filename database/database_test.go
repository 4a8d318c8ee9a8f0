package database

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSplitStatements(t *testing.T) {
	sql := `
-- comment; with a semicolon
CREATE TABLE a (x TEXT DEFAULT 'a;b');
INSERT INTO a VALUES ('it''s');
SELECT 1`

	got := splitStatements(sql)

	require.Len(t, got, 3)
	assert.Equal(t, "CREATE TABLE a (x TEXT DEFAULT 'a;b')", got[0])
	assert.Equal(t, "INSERT INTO a VALUES ('it''s')", got[1])
	assert.Equal(t, "SELECT 1", got[2])
}

func TestNew_AppliesEmbeddedMigrationsOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "folio.db")

	db, err := New(path, Migrations(), zap.NewNop())
	require.NoError(t, err)

	var count int
	require.NoError(t, db.Conn.QueryRow(
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name IN ('editor_data','content_files','media')",
	).Scan(&count))
	assert.Equal(t, 3, count)
	require.NoError(t, db.Close())

	// İkinci açılış migration'ları tekrar çalıştırmamalı.
	db, err = New(path, Migrations(), zap.NewNop())
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.Conn.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count))
	assert.Equal(t, 1, count)
}

func TestNew_RecoverableStatementSkipped(t *testing.T) {
	migrations := fstest.MapFS{
		"001_a.sql": {Data: []byte("CREATE TABLE editor_data (key TEXT); ALTER TABLE editor_data ADD COLUMN v TEXT; ALTER TABLE editor_data ADD COLUMN v TEXT;")},
	}

	db, err := New(":memory:", migrations, nil)
	require.NoError(t, err)
	defer db.Close()
}

func TestWithTx_RollsBackOnError(t *testing.T) {
	db, err := New(":memory:", Migrations(), nil)
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	boom := errors.New("boom")

	err = WithTx(ctx, db.Conn, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "INSERT INTO editor_data (key, value) VALUES ('k', '1')"); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	var count int
	require.NoError(t, db.Conn.QueryRow("SELECT COUNT(*) FROM editor_data").Scan(&count))
	assert.Zero(t, count)
}

func TestWithTx_Commits(t *testing.T) {
	db, err := New(":memory:", Migrations(), nil)
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	err = WithTx(ctx, db.Conn, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, "INSERT INTO editor_data (key, value) VALUES ('k', '1')")
		return err
	})
	require.NoError(t, err)

	var value string
	require.NoError(t, db.Conn.QueryRow("SELECT value FROM editor_data WHERE key = 'k'").Scan(&value))
	assert.Equal(t, "1", value)
}
