package store

import (
	"context"
	"fmt"
	"strings"
)

// Open returns a Store for databaseURL. postgres:// and postgresql:// URLs
// select Postgres (migrations are applied first); anything else is a SQLite path.
func Open(ctx context.Context, databaseURL string) (Store, error) {
	if strings.HasPrefix(databaseURL, "postgres://") || strings.HasPrefix(databaseURL, "postgresql://") {
		if err := RunMigrations(databaseURL); err != nil {
			return nil, fmt.Errorf("migrate: %w", err)
		}
		pg, err := NewPostgres(ctx, databaseURL)
		if err != nil {
			return nil, err
		}
		return pg, nil
	}
	lite, err := NewSQLite(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	return lite, nil
}
