package main

import (
	"flag"
	"os"

	"github.com/pageza/recipebook/backend/config"
	"github.com/pageza/recipebook/backend/internal/database"
	"github.com/pageza/recipebook/backend/internal/logging"
)

func main() {
	skipAdmin := flag.Bool("skip-admin", false, "Only seed genres")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load configuration")
	}
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	db, err := database.New(cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to connect to database")
	}

	created, err := database.SeedGenres(db, database.DefaultGenres)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to seed genres")
	}
	logging.Info().Int64("created", created).Msg("genres seeded")

	if *skipAdmin {
		return
	}
	name := os.Getenv("ADMIN_NAME")
	if name == "" {
		name = "Administrator"
	}
	if _, err := database.EnsureAdmin(db, name, os.Getenv("ADMIN_EMAIL"), os.Getenv("ADMIN_PASSWORD")); err != nil {
		logging.Fatal().Err(err).Msg("failed to seed admin (set ADMIN_EMAIL and ADMIN_PASSWORD)")
	}
}
