package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	HTTP     ServerConfig
	MySQL    MySQLConfig
	Log      LogConfig
	Midtrans MidtransConfig
	Premium  PremiumConfig
	Notifier NotifierConfig
	Jobs     JobsConfig
}

type AppConfig struct {
	ServiceName string
	APIKey      string
}

type ServerConfig struct {
	Host string
	Port string
}

type MySQLConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type LogConfig struct {
	Level string
}

// MidtransConfig carries the Snap API endpoint and the server key used both
// for checkout authentication and for webhook signature verification.
type MidtransConfig struct {
	BaseURL        string
	ServerKey      string
	RequestTimeout time.Duration
	FinishURL      string
	ErrorURL       string
	PendingURL     string
}

type PremiumConfig struct {
	MinPrice int64
}

type NotifierConfig struct {
	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	Sender       string
	QueueSize    int
}

type JobsConfig struct {
	StalePendingAfter   time.Duration
	StaleReportInterval time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	mysqlDSN := os.Getenv("MYSQL_DSN")
	if mysqlDSN == "" {
		return nil, errors.New("MYSQL_DSN environment variable is required")
	}

	return &Config{
		App: AppConfig{
			ServiceName: getEnv("APP_SERVICE_NAME", "premium-service"),
			APIKey:      getEnv("APP_API_KEY", ""),
		},
		HTTP: ServerConfig{
			Host: getEnv("HTTP_HOST", "0.0.0.0"),
			Port: getEnv("HTTP_PORT", "8080"),
		},
		MySQL: MySQLConfig{
			DSN:             mysqlDSN,
			MaxOpenConns:    getIntEnv("MYSQL_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getIntEnv("MYSQL_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getDurationEnv("MYSQL_CONN_MAX_LIFETIME_MINUTES", 30*time.Minute),
		},
		Log: LogConfig{Level: getEnv("LOG_LEVEL", "info")},
		Midtrans: MidtransConfig{
			BaseURL:        getEnv("MIDTRANS_BASE_URL", "https://app.sandbox.midtrans.com"),
			ServerKey:      getEnv("MIDTRANS_SERVER_KEY", ""),
			RequestTimeout: getSecondsEnv("MIDTRANS_REQUEST_TIMEOUT_SECONDS", 15*time.Second),
			FinishURL:      getEnv("PAYMENT_FINISH_URL", ""),
			ErrorURL:       getEnv("PAYMENT_ERROR_URL", ""),
			PendingURL:     getEnv("PAYMENT_PENDING_URL", ""),
		},
		Premium: PremiumConfig{
			MinPrice: getInt64Env("PREMIUM_MIN_PRICE", 1000),
		},
		Notifier: NotifierConfig{
			SMTPHost:     getEnv("SMTP_HOST", ""),
			SMTPPort:     getEnv("SMTP_PORT", "587"),
			SMTPUsername: getEnv("SMTP_USERNAME", ""),
			SMTPPassword: getEnv("SMTP_PASSWORD", ""),
			Sender:       getEnv("SMTP_SENDER", ""),
			QueueSize:    getIntEnv("NOTIFIER_QUEUE_SIZE", 64),
		},
		Jobs: JobsConfig{
			StalePendingAfter:   getDurationEnv("STALE_PENDING_AFTER_MINUTES", 24*time.Hour),
			StaleReportInterval: getDurationEnv("STALE_REPORT_INTERVAL_MINUTES", time.Hour),
		},
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getInt64Env(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			return n
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if minutes, err := strconv.Atoi(value); err == nil {
			return time.Duration(minutes) * time.Minute
		}
	}
	return defaultValue
}

func getSecondsEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if seconds, err := strconv.Atoi(value); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return defaultValue
}
