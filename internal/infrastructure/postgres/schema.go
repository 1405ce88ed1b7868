package postgres

import (
	"database/sql"
	"embed"
	"errors"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	pgmigrate "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/sirupsen/logrus"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrate brings the schema up to date. Migrations are written with
// IF NOT EXISTS so running them against a pre-existing users table is safe.
// db is closed when Migrate returns.
func Migrate(db *sql.DB, logger *logrus.Logger) error {
	return migrateFrom(db, migrationsFS, "migrations", logger)
}

func migrateFrom(db *sql.DB, fsys fs.FS, dir string, logger *logrus.Logger) error {
	src, err := iofs.New(fsys, dir)
	if err != nil {
		_ = db.Close()
		return err
	}
	driver, err := pgmigrate.WithInstance(db, &pgmigrate.Config{})
	if err != nil {
		_ = src.Close()
		_ = db.Close()
		return err
	}
	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		_ = src.Close()
		_ = driver.Close()
		return err
	}
	defer func() { _, _ = m.Close() }()

	if logger != nil {
		logger.Info("running migrations...")
	}
	err = m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		if logger != nil {
			logger.Info("no migrations to run")
		}
		return nil
	}
	if err == nil && logger != nil {
		logger.Info("database schema initialized")
	}
	return err
}

// MigrateDSN runs Migrate on a dedicated connection so closing it leaves the
// application pool untouched.
func MigrateDSN(dsn string, logger *logrus.Logger) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	return Migrate(db, logger)
}
