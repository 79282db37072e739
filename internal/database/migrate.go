package database

import (
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/pageza/recipebook/backend/internal/logging"
	"github.com/pageza/recipebook/backend/internal/models"
	"gorm.io/gorm"
)

const (
	ledgerTable     = "schema_migrations"
	rollbackSuffix  = "_rollback.sql"
	migrationSuffix = ".sql"
)

// ErrNothingToRollback is returned by RollbackLast on an empty ledger.
var ErrNothingToRollback = errors.New("no migrations to roll back")

// RunMigrations brings the schema up to date. SQLite databases are migrated
// from the models directly; everything else runs the SQL files in fsys.
func RunMigrations(db *gorm.DB, fsys fs.FS) error {
	if db.Dialector.Name() == "sqlite" {
		logging.Info().Msg("using GORM auto-migration for SQLite")
		return db.AutoMigrate(models.All()...)
	}
	_, err := ApplyMigrations(db, fsys)
	return err
}

// ApplyMigrations runs every migration in fsys not yet recorded in the ledger,
// each in its own transaction, and returns the names it applied.
func ApplyMigrations(db *gorm.DB, fsys fs.FS) ([]string, error) {
	if err := ensureLedger(db); err != nil {
		return nil, err
	}
	files, err := migrationFiles(fsys)
	if err != nil {
		return nil, err
	}

	var applied []string
	for _, name := range files {
		version := migrationVersion(name)

		var count int64
		if err := db.Table(ledgerTable).Where("version = ?", version).Count(&count).Error; err != nil {
			return applied, fmt.Errorf("failed to check migration status: %w", err)
		}
		if count > 0 {
			logging.Debug().Str("migration", name).Msg("skipping migration (already applied)")
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return applied, fmt.Errorf("failed to read migration file %s: %w", name, err)
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Exec(string(content)).Error; err != nil {
				return fmt.Errorf("failed to execute migration %s: %w", name, err)
			}
			if err := tx.Exec("INSERT INTO "+ledgerTable+" (version, name) VALUES (?, ?)", version, name).Error; err != nil {
				return fmt.Errorf("failed to record migration %s: %w", name, err)
			}
			return nil
		})
		if err != nil {
			return applied, err
		}

		logging.Info().Str("migration", name).Msg("applied migration")
		applied = append(applied, name)
	}
	return applied, nil
}

// RollbackLast reverts the most recently applied migration using its
// _rollback.sql counterpart and returns its name.
func RollbackLast(db *gorm.DB, fsys fs.FS) (string, error) {
	if err := ensureLedger(db); err != nil {
		return "", err
	}

	var last struct {
		Version string
		Name    string
	}
	res := db.Table(ledgerTable).Select("version, name").Order("version DESC").Limit(1).Scan(&last)
	if res.Error != nil {
		return "", fmt.Errorf("failed to get last migration: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return "", ErrNothingToRollback
	}

	rollbackFile := strings.TrimSuffix(last.Name, migrationSuffix) + rollbackSuffix
	content, err := fs.ReadFile(fsys, rollbackFile)
	if err != nil {
		return "", fmt.Errorf("rollback file not found: %s: %w", rollbackFile, err)
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(string(content)).Error; err != nil {
			return fmt.Errorf("failed to execute rollback %s: %w", rollbackFile, err)
		}
		if err := tx.Exec("DELETE FROM "+ledgerTable+" WHERE version = ?", last.Version).Error; err != nil {
			return fmt.Errorf("failed to remove migration record: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	logging.Info().Str("migration", last.Name).Msg("rolled back migration")
	return last.Name, nil
}

func ensureLedger(db *gorm.DB) error {
	err := db.Exec(`CREATE TABLE IF NOT EXISTS ` + ledgerTable + ` (
		version VARCHAR(64) PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`).Error
	if err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}
	return nil
}

// migrationFiles lists forward migrations sorted by name.
func migrationFiles(fsys fs.FS) ([]string, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}
	var files []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, migrationSuffix) || strings.HasSuffix(name, rollbackSuffix) {
			continue
		}
		files = append(files, name)
	}
	sort.Strings(files)
	return files, nil
}

// migrationVersion extracts the numeric prefix of NNN_name.sql.
func migrationVersion(name string) string {
	version, _, _ := strings.Cut(strings.TrimSuffix(name, migrationSuffix), "_")
	return version
}
