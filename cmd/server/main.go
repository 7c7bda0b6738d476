package main

import (
	"log"

	"github.com/Daniel-code69/Portfolio-hub/internal/bootstrap"
	"github.com/Daniel-code69/Portfolio-hub/internal/config"
	"github.com/Daniel-code69/Portfolio-hub/internal/model"
	"github.com/Daniel-code69/Portfolio-hub/internal/server"
	"github.com/Daniel-code69/Portfolio-hub/pkg/database"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db := database.Connect()
	if err := migrate(db); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	if cfg.AppEnv == "development" {
		if err := bootstrap.SeedDemoUser(db); err != nil {
			log.Fatalf("failed to seed demo user: %v", err)
		}
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("invalid REDIS_URL: %v", err)
		}
		redisClient = redis.NewClient(opt)
	}

	srv := server.NewServer(db, redisClient, cfg)

	if err := srv.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server exited with error: %v", err)
	}
}

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Portfolio{},
	)
}
