package main

import (
	"log"
	"os"

	"github.com/coralcms/coral-backend/internal/config"
	"github.com/coralcms/coral-backend/internal/repository"
	"github.com/coralcms/coral-backend/internal/service"
	pkglogger "github.com/coralcms/coral-backend/pkg/logger"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// Scheduled housekeeping job: prunes autosave revisions across every
// document down to the configured retention count. Intended to run from
// cron; exits non-zero only when the pass itself could not run.
func main() {
	config.LoadDotEnv()

	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "configs/config.local.yaml"
	}
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	pkglogger.InitStructured(cfg.App.Env)
	zlog := pkglogger.GetLogger()

	db, err := gorm.Open(mysql.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	pruner := service.NewPruneService(repository.NewRevisionRepository(db))
	deleted, err := pruner.PruneAll(cfg.Revisions.KeepAutosaves)
	if err != nil {
		zlog.Error().Err(err).Msg("retention pass failed")
		os.Exit(1)
	}

	zlog.Info().
		Int64("deleted", deleted).
		Int("keep_last", cfg.Revisions.KeepAutosaves).
		Msg("retention pass completed")
}
