package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	AppPort string `mapstructure:"APP_PORT"`
	AppEnv  string `mapstructure:"APP_ENV"`

	DBDSN             string `mapstructure:"DB_DSN"`
	DBMaxOpenConns    int    `mapstructure:"DB_MAX_OPEN_CONNS"`
	DBMaxIdleConns    int    `mapstructure:"DB_MAX_IDLE_CONNS"`
	DBConnMaxLifetime string `mapstructure:"DB_CONN_MAX_LIFETIME"`

	JWTSecret     string `mapstructure:"JWT_SECRET"`
	JWTExpiresMin int    `mapstructure:"JWT_EXPIRES_MIN"`
	CookieName    string `mapstructure:"COOKIE_NAME"`
	CORSOrigins   string `mapstructure:"CORS_ORIGINS"`

	GoogleClientID string `mapstructure:"GOOGLE_CLIENT_ID"`
	GoogleSecret   string `mapstructure:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirect string `mapstructure:"GOOGLE_REDIRECT_URL"`
	FrontendURL    string `mapstructure:"FRONTEND_URL"`

	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`

	// MailQueue selects the outbox transport: "redis" or "kafka".
	MailQueue        string `mapstructure:"MAIL_QUEUE"`
	MailQueueKey     string `mapstructure:"MAIL_QUEUE_KEY"`
	MailWorkerInline bool   `mapstructure:"MAIL_WORKER_INLINE"`
	KafkaBrokers     string `mapstructure:"KAFKA_BROKERS"`
	KafkaTopic       string `mapstructure:"KAFKA_TOPIC"`
	KafkaGroupID     string `mapstructure:"KAFKA_GROUP_ID"`
	KafkaUsername    string `mapstructure:"KAFKA_USERNAME"`
	KafkaPassword    string `mapstructure:"KAFKA_PASSWORD"`

	SMTPHost     string `mapstructure:"SMTP_HOST"`
	SMTPPort     int    `mapstructure:"SMTP_PORT"`
	SMTPUsername string `mapstructure:"SMTP_USERNAME"`
	SMTPPassword string `mapstructure:"SMTP_PASSWORD"`
	MailFrom     string `mapstructure:"MAIL_FROM"`
	MailFromName string `mapstructure:"MAIL_FROM_NAME"`

	LogLevel string `mapstructure:"LOG_LEVEL"`
	LogDev   bool   `mapstructure:"LOG_DEV"`
	LogDir   string `mapstructure:"LOG_DIR"`

	AdminName     string `mapstructure:"ADMIN_NAME"`
	AdminEmail    string `mapstructure:"ADMIN_EMAIL"`
	AdminPassword string `mapstructure:"ADMIN_PASSWORD"`
}

var defaults = map[string]interface{}{
	"APP_PORT":             "8080",
	"APP_ENV":              "development",
	"DB_DSN":               "",
	"DB_MAX_OPEN_CONNS":    25,
	"DB_MAX_IDLE_CONNS":    5,
	"DB_CONN_MAX_LIFETIME": "30m",
	"JWT_SECRET":           "",
	"JWT_EXPIRES_MIN":      10080,
	"COOKIE_NAME":          "sb_token",
	"CORS_ORIGINS":         "http://localhost:3000",
	"GOOGLE_CLIENT_ID":     "",
	"GOOGLE_CLIENT_SECRET": "",
	"GOOGLE_REDIRECT_URL":  "",
	"FRONTEND_URL":         "http://localhost:3000",
	"REDIS_ADDR":           "localhost:6379",
	"REDIS_PASSWORD":       "",
	"REDIS_DB":             0,
	"MAIL_QUEUE":           "redis",
	"MAIL_QUEUE_KEY":       "mail:outbox",
	"MAIL_WORKER_INLINE":   true,
	"KAFKA_BROKERS":        "",
	"KAFKA_TOPIC":          "mail.outbox",
	"KAFKA_GROUP_ID":       "skillbridge-mailer",
	"KAFKA_USERNAME":       "",
	"KAFKA_PASSWORD":       "",
	"SMTP_HOST":            "smtp.gmail.com",
	"SMTP_PORT":            587,
	"SMTP_USERNAME":        "",
	"SMTP_PASSWORD":        "",
	"MAIL_FROM":            "",
	"MAIL_FROM_NAME":       "SkillBridge",
	"LOG_LEVEL":            "info",
	"LOG_DEV":              false,
	"LOG_DIR":              "",
	"ADMIN_NAME":           "Admin",
	"ADMIN_EMAIL":          "",
	"ADMIN_PASSWORD":       "",
}

// Load reads .env when present and overlays the process environment.
// DB_DSN and JWT_SECRET are required.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	for k, def := range defaults {
		v.SetDefault(k, def)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if strings.TrimSpace(cfg.DBDSN) == "" {
		return nil, errors.New("config: DB_DSN must be set")
	}
	if strings.TrimSpace(cfg.JWTSecret) == "" {
		return nil, errors.New("config: JWT_SECRET must be set")
	}

	cfg.MailQueue = strings.ToLower(strings.TrimSpace(cfg.MailQueue))
	switch cfg.MailQueue {
	case "redis":
	case "kafka":
		if len(cfg.KafkaBrokerList()) == 0 {
			return nil, errors.New("config: KAFKA_BROKERS must be set when MAIL_QUEUE=kafka")
		}
	default:
		return nil, errors.New("config: MAIL_QUEUE must be redis or kafka")
	}

	if cfg.JWTExpiresMin <= 0 {
		cfg.JWTExpiresMin = 10080
	}
	if cfg.MailFrom == "" {
		cfg.MailFrom = cfg.SMTPUsername
	}
	cfg.FrontendURL = strings.TrimRight(cfg.FrontendURL, "/")

	return &cfg, nil
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

// ConnMaxLifetime returns 30m when DB_CONN_MAX_LIFETIME is unset or invalid.
func (c *Config) ConnMaxLifetime() time.Duration {
	d, err := time.ParseDuration(c.DBConnMaxLifetime)
	if err != nil || d <= 0 {
		return 30 * time.Minute
	}
	return d
}

func (c *Config) KafkaBrokerList() []string {
	return splitList(c.KafkaBrokers)
}

func (c *Config) CORSOriginList() []string {
	return splitList(c.CORSOrigins)
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
