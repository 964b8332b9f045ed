package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database  DatabaseConfig
	Redis     RedisConfig
	Auth      AuthConfig
	CORS      CORSConfig
	Log       LogConfig
	Scheduler SchedulerConfig
	Summary   SummaryConfig
	Advisory  AdvisoryConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// AuthConfig holds the shared service token secret for mutating endpoints.
type AuthConfig struct {
	Secret string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// SchedulerConfig governs engine defaults and teacher hour policy.
// The hard ceiling is a deployment tunable, not an organizational constant.
type SchedulerConfig struct {
	MaxWeeklyHours      float64
	SoftWeeklyHours     float64
	TargetWeeklyHours   float64
	GapFillBatchSize    int
	NewTrainerMaxHours  float64
	NewTrainerFormats   []string
	DefaultDurationHrs  float64
	ClassesPerDayPerLoc int
}

// SummaryConfig controls the cached schedule summary endpoint.
type SummaryConfig struct {
	CacheTTL time.Duration
}

// AdvisoryConfig toggles the non-authoritative advisory refresh worker.
type AdvisoryConfig struct {
	Enabled    bool
	Workers    int
	MaxRetries int
	RetryDelay time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.Auth = AuthConfig{Secret: v.GetString("AUTH_TOKEN_SECRET")}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Scheduler = SchedulerConfig{
		MaxWeeklyHours:      v.GetFloat64("SCHEDULER_MAX_WEEKLY_HOURS"),
		SoftWeeklyHours:     v.GetFloat64("SCHEDULER_SOFT_WEEKLY_HOURS"),
		TargetWeeklyHours:   v.GetFloat64("SCHEDULER_TARGET_WEEKLY_HOURS"),
		GapFillBatchSize:    v.GetInt("SCHEDULER_GAP_FILL_BATCH_SIZE"),
		NewTrainerMaxHours:  v.GetFloat64("SCHEDULER_NEW_TRAINER_MAX_HOURS"),
		NewTrainerFormats:   splitAndTrim(v.GetString("SCHEDULER_NEW_TRAINER_FORMATS")),
		DefaultDurationHrs:  v.GetFloat64("SCHEDULER_DEFAULT_DURATION_HOURS"),
		ClassesPerDayPerLoc: v.GetInt("SCHEDULER_CLASSES_PER_DAY_PER_LOCATION"),
	}

	cfg.Summary = SummaryConfig{
		CacheTTL: parseDuration(v.GetString("SUMMARY_CACHE_TTL"), 5*time.Minute),
	}

	cfg.Advisory = AdvisoryConfig{
		Enabled:    v.GetBool("ENABLE_ADVISORY"),
		Workers:    v.GetInt("ADVISORY_WORKERS"),
		MaxRetries: v.GetInt("ADVISORY_MAX_RETRIES"),
		RetryDelay: parseDuration(v.GetString("ADVISORY_RETRY_DELAY"), time.Second),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "studio_scheduler")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("AUTH_TOKEN_SECRET", "dev_secret")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("SCHEDULER_MAX_WEEKLY_HOURS", 15.0)
	v.SetDefault("SCHEDULER_SOFT_WEEKLY_HOURS", 11.0)
	v.SetDefault("SCHEDULER_TARGET_WEEKLY_HOURS", 12.0)
	v.SetDefault("SCHEDULER_GAP_FILL_BATCH_SIZE", 5)
	v.SetDefault("SCHEDULER_NEW_TRAINER_MAX_HOURS", 10.0)
	v.SetDefault("SCHEDULER_NEW_TRAINER_FORMATS", "Foundations,Mat Pilates,Stretch & Recover")
	v.SetDefault("SCHEDULER_DEFAULT_DURATION_HOURS", 1.0)
	v.SetDefault("SCHEDULER_CLASSES_PER_DAY_PER_LOCATION", 12)

	v.SetDefault("SUMMARY_CACHE_TTL", "5m")

	v.SetDefault("ENABLE_ADVISORY", false)
	v.SetDefault("ADVISORY_WORKERS", 1)
	v.SetDefault("ADVISORY_MAX_RETRIES", 3)
	v.SetDefault("ADVISORY_RETRY_DELAY", "1s")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
