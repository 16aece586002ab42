// Package relational stores accounts in a SQL database through sqlx. Postgres
// (pgx) and SQLite are supported; the schema is managed with embedded goose
// migrations.
package relational

import (
	"context"
	"fmt"
	"sync"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"

	"github.com/99minutos/accounts-api/internal/infrastructure/db/relational/migrations"
)

const defaultTimeout = 10 * time.Second

// Supported values for Config.Driver.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// dialect maps a Config.Driver to its database/sql driver name, goose dialect
// and migration directory.
type dialect struct {
	sqlDriver string
	goose     string
	dir       string
}

var dialects = map[string]dialect{
	DriverPostgres: {sqlDriver: "pgx", goose: "postgres", dir: "postgres"},
	DriverSQLite:   {sqlDriver: "sqlite3", goose: "sqlite3", dir: "sqlite"},
}

// goose keeps its dialect and base FS in package globals.
var gooseMu sync.Mutex

// Config captures the settings required to open a SQL connection pool.
type Config struct {
	Driver  string
	DSN     string
	Timeout time.Duration
}

// Open creates the connection pool and verifies connectivity with a ping.
// A default timeout is applied when none is provided.
func Open(ctx context.Context, cfg Config) (*sqlx.DB, error) {
	d, ok := dialects[cfg.Driver]
	if !ok {
		return nil, fmt.Errorf("relational: unsupported driver %q", cfg.Driver)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	db, err := sqlx.Open(d.sqlDriver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("relational open: %w", err)
	}
	if cfg.Driver == DriverSQLite {
		// SQLite allows one writer at a time.
		db.SetMaxOpenConns(1)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("relational ping: %w", err)
	}
	return db, nil
}

// Migrate applies every pending migration for the given driver.
func Migrate(ctx context.Context, db *sqlx.DB, driver string) error {
	d, ok := dialects[driver]
	if !ok {
		return fmt.Errorf("relational: unsupported driver %q", driver)
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrations.Migrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect(d.goose); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	if err := goose.UpContext(ctx, db.DB, d.dir); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
