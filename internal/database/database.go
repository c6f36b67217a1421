// Package database owns connection setup, the schema, and the bulk write
// primitives shared by the repositories. Everything above this package talks
// to *sqlx.DB or sqlx.ExtContext only, so the same repositories run on
// PostgreSQL in production and on SQLite locally and in tests.
package database

import (
	"context"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	pgxDriverName    = "pgx"
	sqliteDriverName = "sqlite"
)

func init() {
	// sqlx does not know modernc's driver name; without this Rebind is a no-op
	// by accident rather than by declaration.
	sqlx.BindDriver(sqliteDriverName, sqlx.QUESTION)
}

type Config struct {
	Driver string

	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration

	SQLitePath string
}

// Open connects to the configured driver and verifies the connection.
func Open(ctx context.Context, cfg *Config) (*sqlx.DB, error) {
	switch cfg.Driver {
	case DriverPostgres, "":
		return NewPostgres(ctx, cfg)
	case DriverSQLite:
		return NewSQLite(ctx, cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func NewPostgres(ctx context.Context, cfg *Config) (*sqlx.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode)

	db, err := sqlx.Open(pgxDriverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// NewSQLite opens a file database with foreign keys enforced. A single
// connection is used so an open import transaction never competes with
// another connection for the write lock.
func NewSQLite(ctx context.Context, path string) (*sqlx.DB, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", path)

	db, err := sqlx.Open(sqliteDriverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	return db, nil
}

// Dialect reports which schema flavour applies to db.
func Dialect(db *sqlx.DB) string {
	if db.DriverName() == sqliteDriverName {
		return DriverSQLite
	}
	return DriverPostgres
}
