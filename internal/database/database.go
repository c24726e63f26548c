package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"instaclone/backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens the postgres connection. Driver unique violations are translated
// into gorm.ErrDuplicatedKey.
func Connect(dsn string, development bool) (*gorm.DB, error) {
	level := logger.Warn
	if development {
		level = logger.Info
	}

	// Configure GORM logger
	customLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
			Colorful:                  development,
		},
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         customLogger,
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	return db, nil
}

// AutoMigrate creates or updates the tables for every model.
func AutoMigrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.UserProfile{},
		&models.UserLink{},
		&models.FriendRequest{},
		&models.Friend{},
		&models.Post{},
		&models.PostLike{},
		&models.PostComment{},
		&models.Application{},
		&models.AccessToken{},
	)
	if err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}
	return nil
}
