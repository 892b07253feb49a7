// cmd/mailcheck/main.go
package main

import (
	"context"
	"flag"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/foodie-backend/internal/config"
	"github.com/your-org/foodie-backend/internal/pkg/email"
	"github.com/your-org/foodie-backend/internal/pkg/logger"
)

// mailcheck sends one acknowledgement through the configured provider so
// EMAIL_* settings can be checked without placing an order.
func main() {
	to := flag.String("to", "", "recipient address")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}
	log := logger.New(cfg)

	if *to == "" {
		log.Fatal("Usage: mailcheck -to <address>")
	}

	emailService := email.NewEmailService(cfg, log)
	if !emailService.Enabled() {
		log.Fatalf("EMAIL_PROVIDER is %q, nothing to check", cfg.Email.Provider)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := emailService.SendFeedbackAck(ctx, *to, "Mail check"); err != nil {
		log.Fatalf("Send failed: %v", err)
	}

	log.WithFields(logrus.Fields{
		"provider": cfg.Email.Provider,
		"to":       *to,
	}).Info("Email sent successfully")
}
