package config

import (
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("DB_DSN", "host=localhost user=app dbname=skillbridge sslmode=disable")
	t.Setenv("JWT_SECRET", "test-secret")
	for _, k := range []string{"MAIL_QUEUE", "KAFKA_BROKERS", "APP_PORT", "JWT_EXPIRES_MIN", "FRONTEND_URL", "MAIL_FROM", "SMTP_USERNAME"} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.AppPort != "8080" {
		t.Errorf("AppPort = %q, want 8080", cfg.AppPort)
	}
	if cfg.JWTExpiresMin != 10080 {
		t.Errorf("JWTExpiresMin = %d, want 10080", cfg.JWTExpiresMin)
	}
	if cfg.MailQueue != "redis" || cfg.MailQueueKey != "mail:outbox" {
		t.Errorf("mail queue = %q/%q, want redis/mail:outbox", cfg.MailQueue, cfg.MailQueueKey)
	}
	if cfg.SMTPHost != "smtp.gmail.com" || cfg.SMTPPort != 587 {
		t.Errorf("smtp = %s:%d", cfg.SMTPHost, cfg.SMTPPort)
	}
	if cfg.ConnMaxLifetime() != 30*time.Minute {
		t.Errorf("ConnMaxLifetime = %v", cfg.ConnMaxLifetime())
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	setRequired(t)
	t.Setenv("APP_PORT", "9090")
	t.Setenv("JWT_EXPIRES_MIN", "60")
	t.Setenv("FRONTEND_URL", "https://skillbridge.example/")
	t.Setenv("MAIL_QUEUE", "Kafka")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("SMTP_USERNAME", "noreply@skillbridge.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.AppPort != "9090" || cfg.JWTExpiresMin != 60 {
		t.Errorf("got port %q expires %d", cfg.AppPort, cfg.JWTExpiresMin)
	}
	if cfg.FrontendURL != "https://skillbridge.example" {
		t.Errorf("FrontendURL = %q, trailing slash not trimmed", cfg.FrontendURL)
	}
	if cfg.MailQueue != "kafka" {
		t.Errorf("MailQueue = %q", cfg.MailQueue)
	}
	if got := cfg.KafkaBrokerList(); len(got) != 2 || got[0] != "k1:9092" || got[1] != "k2:9092" {
		t.Errorf("KafkaBrokerList = %v", got)
	}
	if cfg.MailFrom != "noreply@skillbridge.example" {
		t.Errorf("MailFrom should fall back to SMTP_USERNAME, got %q", cfg.MailFrom)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing dsn", map[string]string{"DB_DSN": ""}},
		{"missing secret", map[string]string{"JWT_SECRET": ""}},
		{"unknown queue", map[string]string{"MAIL_QUEUE": "sqs"}},
		{"kafka without brokers", map[string]string{"MAIL_QUEUE": "kafka"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}
