package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type Config struct {
	Port        string
	DB          DBConfig
	RedisAddr   string
	KafkaBroker string
	Payroll     PayrollConfig
	RateLimit   RateLimitConfig
	Outbox      OutboxConfig
	// Location decides which calendar day "today" is for punches.
	Location *time.Location
}

type DBConfig struct {
	Host     string
	User     string
	Password string
	Name     string
	Port     string
	SSLMode  string
}

type PayrollConfig struct {
	ProrateBasic       bool
	OpenShiftAsPresent bool
	PreviewTTL         time.Duration
	SaveLockTTL        time.Duration
}

type RateLimitConfig struct {
	RPS   float64
	Burst int
}

type OutboxConfig struct {
	PollInterval time.Duration
	BatchSize    int
}

// Load reads .env when present and then the process environment.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		zap.L().Debug("no .env file found, using process environment")
	}

	loc, err := time.LoadLocation(getEnv("WORKDAY_LOCATION", "UTC"))
	if err != nil {
		zap.L().Warn("invalid WORKDAY_LOCATION, falling back to UTC", zap.Error(err))
		loc = time.UTC
	}

	return Config{
		Port: getEnv("PORT", "8080"),
		DB: DBConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			Name:     getEnv("DB_NAME", "hr_payroll"),
			Port:     getEnv("DB_PORT", "5432"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		RedisAddr:   getEnv("REDIS_ADDR", "localhost:6379"),
		KafkaBroker: getEnv("KAFKA_BROKER", "localhost:9092"),
		Payroll: PayrollConfig{
			ProrateBasic:       getBool("PAYROLL_PRORATE_BASIC", true),
			OpenShiftAsPresent: getBool("PAYROLL_OPEN_SHIFT_AS_PRESENT", true),
			PreviewTTL:         getDuration("PAYROLL_PREVIEW_TTL", 10*time.Minute),
			SaveLockTTL:        getDuration("PAYROLL_SAVE_LOCK_TTL", 30*time.Second),
		},
		RateLimit: RateLimitConfig{
			RPS:   getFloat("RATE_LIMIT_RPS", 10),
			Burst: getInt("RATE_LIMIT_BURST", 20),
		},
		Outbox: OutboxConfig{
			PollInterval: getDuration("OUTBOX_POLL_INTERVAL", 5*time.Second),
			BatchSize:    getInt("OUTBOX_BATCH_SIZE", 10),
		},
		Location: loc,
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

func getInt(key string, fallback int) int {
	v, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

func getFloat(key string, fallback float64) float64 {
	v, err := strconv.ParseFloat(getEnv(key, ""), 64)
	if err != nil {
		return fallback
	}
	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return v
}
