package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/voyagen/tvstreams/internal/models"
)

// Postgres implements Store using PostgreSQL.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres creates a Postgres store from a DSN. Caller must call Close when done.
func NewPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.New: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return &Postgres{pool: pool}, nil
}

// Close closes the connection pool.
func (p *Postgres) Close() {
	p.pool.Close()
}

func (p *Postgres) UpsertFavorite(ctx context.Context, f models.Favorite) error {
	_, err := p.pool.Exec(ctx,
		`INSERT INTO favorites (id, name, logo_url, stream_url)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (id) DO UPDATE SET
		   name = EXCLUDED.name, logo_url = EXCLUDED.logo_url, stream_url = EXCLUDED.stream_url`,
		f.ID, f.Name, f.LogoURL, f.StreamURL,
	)
	if err != nil {
		return fmt.Errorf("UpsertFavorite: %w", err)
	}
	return nil
}

func (p *Postgres) DeleteFavorite(ctx context.Context, id string) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM favorites WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("DeleteFavorite: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *Postgres) IsFavorite(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := p.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM favorites WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("IsFavorite: %w", err)
	}
	return exists, nil
}

func (p *Postgres) GetFavorite(ctx context.Context, id string) (*models.Favorite, error) {
	var f models.Favorite
	err := p.pool.QueryRow(ctx,
		`SELECT id, name, logo_url, stream_url FROM favorites WHERE id = $1`, id,
	).Scan(&f.ID, &f.Name, &f.LogoURL, &f.StreamURL)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("GetFavorite: %w", err)
	}
	return &f, nil
}

func (p *Postgres) ListFavorites(ctx context.Context) ([]models.Favorite, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT id, name, logo_url, stream_url FROM favorites ORDER BY created_at, id`)
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

func (p *Postgres) GetSetting(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := p.pool.QueryRow(ctx, `SELECT value FROM settings WHERE key = $1`, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("GetSetting: %w", err)
	}
	return value, true, nil
}

func (p *Postgres) SetSetting(ctx context.Context, key, value string) error {
	_, err := p.pool.Exec(ctx,
		`INSERT INTO settings (key, value) VALUES ($1, $2)
		 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("SetSetting: %w", err)
	}
	return nil
}
