package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/voyagen/tvstreams/internal/models"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS favorites (
    id         TEXT PRIMARY KEY,
    name       TEXT NOT NULL,
    logo_url   TEXT NOT NULL DEFAULT '',
    stream_url TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);`

// SQLite implements Store on an embedded SQLite database file.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens (or creates) the database at path and applies the schema.
func NewSQLite(ctx context.Context, path string) (*SQLite, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(%d)&_pragma=synchronous(NORMAL)",
		path, (5 * time.Second).Milliseconds())
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite open: %w", err)
	}
	// Single writer; favorites traffic is tiny.
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite ping: %w", err)
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

// Close closes the database.
func (s *SQLite) Close() {
	_ = s.db.Close()
}

func (s *SQLite) UpsertFavorite(ctx context.Context, f models.Favorite) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO favorites (id, name, logo_url, stream_url) VALUES (?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET
		   name = excluded.name, logo_url = excluded.logo_url, stream_url = excluded.stream_url`,
		f.ID, f.Name, f.LogoURL, f.StreamURL,
	)
	if err != nil {
		return fmt.Errorf("UpsertFavorite: %w", err)
	}
	return nil
}

func (s *SQLite) DeleteFavorite(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM favorites WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("DeleteFavorite: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("DeleteFavorite: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLite) IsFavorite(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM favorites WHERE id = ?)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("IsFavorite: %w", err)
	}
	return exists, nil
}

func (s *SQLite) GetFavorite(ctx context.Context, id string) (*models.Favorite, error) {
	var f models.Favorite
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, logo_url, stream_url FROM favorites WHERE id = ?`, id,
	).Scan(&f.ID, &f.Name, &f.LogoURL, &f.StreamURL)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("GetFavorite: %w", err)
	}
	return &f, nil
}

func (s *SQLite) ListFavorites(ctx context.Context) ([]models.Favorite, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, logo_url, stream_url FROM favorites ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("ListFavorites: %w", err)
	}
	defer rows.Close()

	var out []models.Favorite
	for rows.Next() {
		var f models.Favorite
		if err := rows.Scan(&f.ID, &f.Name, &f.LogoURL, &f.StreamURL); err != nil {
			return nil, fmt.Errorf("ListFavorites scan: %w", err)
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListFavorites: %w", err)
	}
	return out, nil
}

func (s *SQLite) GetSetting(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("GetSetting: %w", err)
	}
	return value, true, nil
}

func (s *SQLite) SetSetting(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT (key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("SetSetting: %w", err)
	}
	return nil
}
