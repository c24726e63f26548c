// Command oauthapp registers an OAuth client application and prints its
// credentials. The client secret is shown once and only its hash is stored.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"instaclone/backend/internal/config"
	"instaclone/backend/internal/database"
	"instaclone/backend/internal/service"
	"instaclone/backend/internal/store"
	"instaclone/backend/pkg/logger"
)

func main() {
	name := flag.String("name", "", "Application name")
	migrate := flag.Bool("migrate", true, "Run database migrations first")
	flag.Parse()

	if *name == "" {
		fmt.Fprintln(os.Stderr, "usage: oauthapp -name <application name>")
		os.Exit(2)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger.Init(cfg.LogLevel, cfg.IsDevelopment())
	defer logger.Sync()

	db, err := database.Connect(cfg.DatabaseURL, false)
	if err != nil {
		logger.Fatal("Failed to connect to database", err)
	}
	if *migrate {
		if err := database.AutoMigrate(db); err != nil {
			logger.Fatal("Failed to migrate database", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	st := store.NewGormStore(db)
	tokens := service.NewTokenService(st, st, cfg.JWTSecret, cfg.TokenTTL, 0)
	app, err := tokens.RegisterApplication(ctx, *name)
	if err != nil {
		logger.Fatal("Failed to register application", err)
	}

	fmt.Printf("Application:   %s (id %d)\n", app.Name, app.ID)
	fmt.Printf("Client ID:     %s\n", app.ClientID)
	fmt.Printf("Client secret: %s\n", app.ClientSecret)
}
