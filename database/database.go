// Package database opens the SQL backend of the durable client storage and
// keeps its schema current.
package database

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	mdb "github.com/golang-migrate/migrate/v4/database"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/irsalhamdi/playstation-store/config"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

const (
	SQLite   = "sqlite"
	Postgres = "postgres"
)

//go:embed migrations/*.sql
var migrations embed.FS

func init() {
	sqlx.BindDriver(SQLite, sqlx.QUESTION)
}

// Open migrates the configured database and returns a handle to it.
func Open(cfg config.Storage) (*sqlx.DB, error) {
	if err := Migrate(cfg); err != nil {
		return nil, err
	}

	db, err := sqlx.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("opening %s database: %w", cfg.Driver, err)
	}

	if cfg.Driver == SQLite {
		db.SetMaxOpenConns(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging %s database: %w", cfg.Driver, err)
	}

	return db, nil
}

// Migrate applies every pending migration using a dedicated connection.
func Migrate(cfg config.Storage) error {
	db, err := sql.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return fmt.Errorf("opening %s database: %w", cfg.Driver, err)
	}

	var drv mdb.Driver
	switch cfg.Driver {
	case SQLite:
		drv, err = migratesqlite.WithInstance(db, &migratesqlite.Config{})
	case Postgres:
		drv, err = migratepg.WithInstance(db, &migratepg.Config{})
	default:
		db.Close()
		return fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
	if err != nil {
		db.Close()
		return fmt.Errorf("preparing %s migrations: %w", cfg.Driver, err)
	}

	src, err := iofs.New(migrations, "migrations")
	if err != nil {
		drv.Close()
		return fmt.Errorf("reading migrations: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, cfg.Driver, drv)
	if err != nil {
		src.Close()
		drv.Close()
		return fmt.Errorf("creating migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("applying migrations: %w", err)
	}

	return nil
}
