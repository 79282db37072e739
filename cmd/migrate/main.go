package main

import (
	"database/sql"
	"errors"
	"flag"

	_ "github.com/lib/pq"
	"github.com/pageza/recipebook/backend/config"
	"github.com/pageza/recipebook/backend/internal/database"
	"github.com/pageza/recipebook/backend/internal/logging"
	"github.com/pageza/recipebook/backend/migrations"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func main() {
	rollback := flag.Bool("rollback", false, "Rollback the last migration")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load configuration")
	}
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	sqlDB, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to open database")
	}
	defer sqlDB.Close()

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to connect to database")
	}

	if *rollback {
		name, err := database.RollbackLast(db, migrations.Files)
		if errors.Is(err, database.ErrNothingToRollback) {
			logging.Info().Msg("no migrations to roll back")
			return
		}
		if err != nil {
			logging.Fatal().Err(err).Msg("rollback failed")
		}
		logging.Info().Str("migration", name).Msg("rolled back migration")
		return
	}

	applied, err := database.ApplyMigrations(db, migrations.Files)
	if err != nil {
		logging.Fatal().Err(err).Msg("migration failed")
	}
	logging.Info().Strs("applied", applied).Msg("all migrations applied")
}
