// cmd/api/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/foodie-backend/internal/config"
	"github.com/your-org/foodie-backend/internal/infrastructure/database/postgres"
	"github.com/your-org/foodie-backend/internal/infrastructure/database/redis"
	"github.com/your-org/foodie-backend/internal/infrastructure/messaging/kafka"
	"github.com/your-org/foodie-backend/internal/interfaces/http"
	"github.com/your-org/foodie-backend/internal/interfaces/http/routes"
	"github.com/your-org/foodie-backend/internal/pkg/apperror"
	"github.com/your-org/foodie-backend/internal/pkg/email"
	"github.com/your-org/foodie-backend/internal/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	log := logger.New(cfg)
	log.WithFields(logrus.Fields{
		"app":         cfg.App.Name,
		"version":     cfg.App.Version,
		"environment": cfg.App.Environment,
	}).Info("Starting")

	// Connect to database
	db, err := postgres.NewConnection(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Connect to Redis
	redisClient, err := redis.NewConnection(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	// Health check
	if err := db.Health(); err != nil {
		log.Fatalf("Database health check failed: %v", err)
	}

	if err := redisClient.Health(); err != nil {
		log.Fatalf("Redis health check failed: %v", err)
	}

	// Run database migrations
	migration := postgres.NewMigration(db.GetDB(), log)

	if err := migration.RunAutoMigrations(); err != nil {
		log.Fatalf("Database migration failed: %v", err)
	}

	if err := migration.CreateIndexes(); err != nil {
		log.Warnf("Index creation failed: %v", err)
	}

	if cfg.IsDevelopment() {
		if _, err := migration.GetTableInfo(); err != nil {
			log.Warnf("Table info failed: %v", err)
		}
	}

	deps := routes.Dependencies{
		Config:   cfg,
		DB:       db.GetDB(),
		Redis:    redisClient,
		Logger:   log,
		ErrorLog: apperror.NewLog(apperror.DefaultCapacity, log),
		Email:    email.NewEmailService(cfg, log),
	}

	// Order events are optional
	var publisher *kafka.Publisher
	if len(cfg.Kafka.Brokers) > 0 {
		publisher = kafka.NewPublisher(kafka.NewWriter(cfg), cfg.Kafka.OrdersTopic, log)
		deps.Publisher = publisher
		log.WithField("brokers", cfg.Kafka.Brokers).Info("Order events enabled")
	}

	log.Info("All systems operational")

	// Create and start HTTP server
	server := http.NewServer(deps)

	// Start server in a goroutine
	go func() {
		if err := server.Start(); err != nil {
			log.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down gracefully")

	// Give server 30 seconds to shutdown gracefully
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Stop(ctx); err != nil {
		log.Errorf("Failed to shutdown HTTP server gracefully: %v", err)
	}

	if publisher != nil {
		if err := publisher.Close(); err != nil {
			log.Errorf("Failed to close order event publisher: %v", err)
		}
	}

	log.Info("Server shutdown completed")
}
