package main

import (
	"log"

	"mfportal/src/config"
	"mfportal/src/database"
)

func main() {
	cfg, err := config.LoadConfig("./settings", config.Env())
	if err != nil {
		log.Fatalf("Error loading config for environment: %v", err)
	}

	db, err := database.SetupGorm(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get SQL DB from GORM DB: %v", err)
	}
	defer sqlDB.Close()

	if err := database.Migrate(sqlDB); err != nil {
		log.Fatalf("Failed to apply migrations: %v", err)
	}

	log.Println("Database migration completed successfully")
}
