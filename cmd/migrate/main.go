package main

import (
	"log"
	"os"

	"github.com/coralcms/coral-backend/internal/config"
	"github.com/coralcms/coral-backend/internal/migration"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

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

	db, err := gorm.Open(mysql.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := migration.Run(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	log.Println("Migration completed")
}
