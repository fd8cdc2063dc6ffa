package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/deppfellow/media-library/internal/config"
	"github.com/jackc/pgx/v5"
	tern "github.com/jackc/tern/v2/migrate"
	"github.com/rs/zerolog"
)

// PostgreSQL migrations are run by tern; the SQLite schema is a separate
// set of files because tern only speaks to pgx.
//
//go:embed migrations/*.sql
var migrations embed.FS

//go:embed sqlite/*.sql
var sqliteMigrations embed.FS

// Migrate brings the schema of the configured store up to date.
func (db *Database) Migrate(ctx context.Context, cfg *config.Config) error {
	if db.Driver == config.DriverSQLite {
		return migrateSQLite(ctx, db.log, db.SQL)
	}
	return Migrate(ctx, db.log, cfg)
}

// Migrate runs the PostgreSQL migrations for cfg.
func Migrate(ctx context.Context, logger *zerolog.Logger, cfg *config.Config) error {
	return MigratePostgres(ctx, logger, PostgresDSN(cfg))
}

// MigratePostgres runs the PostgreSQL migrations with jackc/tern over a
// dedicated connection. The applied version is stored in schema_version.
func MigratePostgres(ctx context.Context, logger *zerolog.Logger, dsn string) error {
	conn, err := pgx.Connect(ctx, dsn)
	if err != nil {
		return err
	}
	defer conn.Close(ctx)

	m, err := tern.NewMigrator(ctx, conn, "schema_version")
	if err != nil {
		return fmt.Errorf("constructing database migrator: %w", err)
	}

	subtree, err := fs.Sub(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("retrieving database migrations subtree: %w", err)
	}

	if err := m.LoadMigrations(subtree); err != nil {
		return fmt.Errorf("loading database migrations: %w", err)
	}

	from, err := m.GetCurrentVersion(ctx)
	if err != nil {
		return fmt.Errorf("retrieving current database migration version: %w", err)
	}

	if err := m.Migrate(ctx); err != nil {
		return err
	}

	if from == int32(len(m.Migrations)) {
		logger.Info().Msgf("database schema up to date, version %d", len(m.Migrations))
	} else {
		logger.Info().Msgf("migrated database schema, from %d to %d", from, len(m.Migrations))
	}
	return nil
}

type sqliteMigration struct {
	version int
	name    string
	sql     string
}

// loadSQLiteMigrations reads sqlite/NNN_name.sql files ordered by version.
func loadSQLiteMigrations() ([]sqliteMigration, error) {
	entries, err := sqliteMigrations.ReadDir("sqlite")
	if err != nil {
		return nil, fmt.Errorf("reading sqlite migrations: %w", err)
	}

	var out []sqliteMigration
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".sql") {
			continue
		}

		prefix, _, ok := strings.Cut(name, "_")
		if !ok {
			return nil, fmt.Errorf("migration %s has no version prefix", name)
		}
		version, err := strconv.Atoi(prefix)
		if err != nil {
			return nil, fmt.Errorf("migration %s has invalid version: %w", name, err)
		}

		content, err := sqliteMigrations.ReadFile(path.Join("sqlite", name))
		if err != nil {
			return nil, fmt.Errorf("reading migration %s: %w", name, err)
		}

		out = append(out, sqliteMigration{version: version, name: name, sql: string(content)})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].version < out[j].version })
	return out, nil
}

// migrateSQLite applies pending SQLite migrations, each in its own
// transaction, recording applied versions in schema_version.
func migrateSQLite(ctx context.Context, logger *zerolog.Logger, db *sql.DB) error {
	all, err := loadSQLiteMigrations()
	if err != nil {
		return err
	}

	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY,
		applied_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`); err != nil {
		return fmt.Errorf("creating schema_version table: %w", err)
	}

	var from int
	if err := db.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&from); err != nil {
		return fmt.Errorf("retrieving current database migration version: %w", err)
	}

	to := from
	for _, m := range all {
		if m.version <= from {
			continue
		}
		if err := applySQLiteMigration(ctx, db, m); err != nil {
			return err
		}
		to = m.version
	}

	if to == from {
		logger.Info().Msgf("database schema up to date, version %d", from)
	} else {
		logger.Info().Msgf("migrated database schema, from %d to %d", from, to)
	}
	return nil
}

func applySQLiteMigration(ctx context.Context, db *sql.DB, m sqliteMigration) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning migration %s: %w", m.name, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, m.sql); err != nil {
		return fmt.Errorf("applying migration %s: %w", m.name, err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", m.version); err != nil {
		return fmt.Errorf("recording migration %s: %w", m.name, err)
	}

	return tx.Commit()
}
