package db

import (
	"log"

	"aim-achiever/internal/config"
	"aim-achiever/internal/goal"
	"aim-achiever/internal/mood"
	"aim-achiever/internal/peer"
	"aim-achiever/internal/user"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) error {
	db, err := gorm.Open(postgres.Open(cfg.Postgres.DSN), &gorm.Config{})
	if err != nil {
		return err
	}

	if err := db.AutoMigrate(&user.User{}); err != nil {
		return err
	}
	if err := db.AutoMigrate(&goal.Goal{}, &goal.Microtask{}); err != nil {
		return err
	}
	if err := db.AutoMigrate(&mood.Entry{}); err != nil {
		return err
	}
	if err := db.AutoMigrate(&peer.Request{}, &peer.Comment{}); err != nil {
		return err
	}

	DB = db
	log.Printf("Database connected and migrated")
	return nil
}
