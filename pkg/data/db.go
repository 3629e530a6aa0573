// Package data stores scored assessments in a local sqlite file or a
// postgres database.
package data

import (
	"context"
	"database/sql"
	"embed"
	"log/slog"
	"os"
	"strings"
	"time"

	_ "github.com/lib/pq"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

const (
	// DataFileName is the sqlite file kept in the config directory.
	DataFileName string = "data.db"

	// DriverSQLite and DriverPostgres are the supported database/sql drivers.
	DriverSQLite   string = "sqlite"
	DriverPostgres string = "postgres"
)

var (
	//go:embed sql/*
	f embed.FS

	errDBNotInitialized = errors.New("database not initialized")

	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("not found")

	sqlitePragmas = []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
	}
)

// Init creates the sqlite database file and its schema if they do not exist.
func Init(dbFilePath string) error {
	if dbFilePath == "" {
		return errors.New("dbFilePath not specified")
	}

	if _, err := os.Stat(dbFilePath); err == nil {
		return nil
	}

	db, err := GetDB(dbFilePath)
	if err != nil {
		return errors.Wrapf(err, "error opening database: %s", dbFilePath)
	}
	defer db.Close()

	slog.Debug("creating db schema", "path", dbFilePath)
	if err := Migrate(context.Background(), db, DriverSQLite); err != nil {
		return errors.Wrapf(err, "failed to create database schema in: %s", dbFilePath)
	}

	return nil
}

// GetDB opens the sqlite database at path.
func GetDB(path string) (*sql.DB, error) {
	conn, err := sql.Open(DriverSQLite, path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open database: %s", path)
	}
	tunePool(DriverSQLite, conn)
	return conn, nil
}

// Open connects to the database, verifies the connection and applies the
// schema. Driver is sqlite or postgres; for sqlite dsn is the file path.
func Open(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	driver = NormalizeDriver(driver)
	if driver != DriverSQLite && driver != DriverPostgres {
		return nil, errors.Errorf("unsupported driver %q, expected %s or %s", driver, DriverSQLite, DriverPostgres)
	}
	if strings.TrimSpace(dsn) == "" {
		return nil, errors.New("dsn required")
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s database", driver)
	}
	tunePool(driver, db)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.Wrapf(err, "failed to connect to %s database", driver)
	}

	if driver == DriverSQLite {
		for _, p := range sqlitePragmas {
			if _, err := db.ExecContext(ctx, p); err != nil {
				db.Close()
				return nil, errors.Wrapf(err, "failed to apply %s", p)
			}
		}
	}

	if err := Migrate(ctx, db, driver); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// Migrate applies the idempotent schema for driver.
func Migrate(ctx context.Context, db *sql.DB, driver string) error {
	if db == nil {
		return errDBNotInitialized
	}

	driver = NormalizeDriver(driver)
	b, err := f.ReadFile("sql/" + driver + ".sql")
	if err != nil {
		return errors.Wrapf(err, "no schema for driver %s", driver)
	}

	if _, err := db.ExecContext(ctx, string(b)); err != nil {
		return errors.Wrapf(err, "failed to apply %s schema", driver)
	}

	return nil
}

// NormalizeDriver maps driver aliases to the supported names.
func NormalizeDriver(d string) string {
	d = strings.ToLower(strings.TrimSpace(d))
	switch d {
	case "pg", "pgsql", "postgresql":
		return DriverPostgres
	case "sqlite3", "":
		return DriverSQLite
	default:
		return d
	}
}

func tunePool(driver string, db *sql.DB) {
	if driver == DriverSQLite {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		return
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)
	db.SetConnMaxIdleTime(10 * time.Minute)
}
