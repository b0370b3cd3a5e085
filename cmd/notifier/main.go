package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/example/sassynary-shop/internal/checkout"
	"github.com/example/sassynary-shop/internal/email"
	"github.com/example/sassynary-shop/internal/infrastructure/kafka"
	"github.com/example/sassynary-shop/internal/notification"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Configuration from environment variables
	kafkaBrokers := strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ",")
	kafkaTopic := getEnv("KAFKA_TOPIC", "sassynary-orders")
	consumerGroup := "email-notifier" // Dedicated consumer group for email notifications

	smtpHost := getEnv("SMTP_HOST", "localhost")
	smtpPort := getEnv("SMTP_PORT", "1025")
	smtpFrom := getEnv("SMTP_FROM", "hello@sassynary.in")
	dmLink := getEnv("DM_LINK", checkout.DefaultDMLink)

	log.Println("[Notifier] ========================================")
	log.Println("[Notifier] Sassynary - Order Confirmation Mailer")
	log.Println("[Notifier] ========================================")
	log.Printf("[Notifier] Kafka: %v", kafkaBrokers)
	log.Printf("[Notifier] Topic: %s", kafkaTopic)
	log.Printf("[Notifier] Group: %s", consumerGroup)
	log.Printf("[Notifier] SMTP: %s:%s", smtpHost, smtpPort)
	log.Printf("[Notifier] From: %s", smtpFrom)

	emailSvc := email.NewService(smtpHost, smtpPort, smtpFrom)
	handler := notification.NewHandler(emailSvc, dmLink)

	consumer := kafka.NewConsumer(kafkaBrokers, kafkaTopic, consumerGroup)
	defer consumer.Close()

	go func() {
		log.Println("[Notifier] Starting event consumer...")
		if err := consumer.Consume(ctx, handler.HandleEvent); err != nil && ctx.Err() == nil {
			log.Printf("[Notifier] Consumer error: %v", err)
		}
	}()

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[Notifier] Shutting down...")
	cancel()
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
