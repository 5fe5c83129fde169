// Package sqlstore keeps per-client navigation preferences in Postgres or SQLite.
package sqlstore

import (
	"context"
	"strings"

	"pspicdash/internal/errors"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Open connects to the preference database. driver is "postgres" or "sqlite".
func Open(ctx context.Context, driver, dsn string) (*sqlx.DB, error) {
	if driver == "sqlite" {
		dsn = strings.TrimPrefix(dsn, "sqlite://")
	}
	db, err := sqlx.ConnectContext(ctx, driver, dsn)
	if err != nil {
		return nil, errors.Storage("failed to connect to preference database", err)
	}
	if driver == "sqlite" {
		// SQLite allows a single writer; serialize through one connection.
		db.SetMaxOpenConns(1)
	}
	return db, nil
}
