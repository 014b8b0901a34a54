// Command migrate applies the database schema.
package main

import (
	"fmt"
	"log"

	"kuyou/internal/config"
	"kuyou/internal/database"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	if err := db.AutoMigrate(database.PersistentModels()...); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}

	log.Println("Schema is up to date.")
	return nil
}
