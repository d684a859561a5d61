package config

import (
	"errors"
	"io/fs"
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

	Database    DatabaseConfig
	Redis       RedisConfig
	JWT         JWTConfig
	CORS        CORSConfig
	Log         LogConfig
	Assignments AssignmentConfig
	Eligibility EligibilityCacheConfig
	Exports     ExportsConfig
	Tracing     TracingConfig
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
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret string
	Issuer string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// AssignmentConfig drives the manual assignment dialog.
type AssignmentConfig struct {
	StrictAvailability bool
	SessionTTL         time.Duration
	MorningToken       string
	AfternoonToken     string
	NightToken         string
}

// EligibilityCacheConfig tunes candidate memoization.
type EligibilityCacheConfig struct {
	MemoSize     int
	CacheEnabled bool
	CacheTTL     time.Duration
}

// ExportsConfig toggles timetable downloads.
type ExportsConfig struct {
	Enabled      bool
	CSVDelimiter string
}

// TracingConfig configures the OpenTelemetry tracer provider.
type TracingConfig struct {
	Enabled     bool
	ServiceName string
	SampleRatio float64
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
		if !errors.As(err, &notFound) && !isMissingFile(err) {
			return nil, err
		}
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
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
		Enabled:  v.GetBool("REDIS_ENABLED"),
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{
		Secret: v.GetString("JWT_SECRET"),
		Issuer: strings.TrimSpace(v.GetString("JWT_ISSUER")),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Assignments = AssignmentConfig{
		StrictAvailability: v.GetBool("STRICT_AVAILABILITY"),
		SessionTTL:         parseDuration(v.GetString("ASSIGNMENT_SESSION_TTL"), 30*time.Minute),
		MorningToken:       strings.TrimSpace(v.GetString("SHIFT_TOKEN_MORNING")),
		AfternoonToken:     strings.TrimSpace(v.GetString("SHIFT_TOKEN_AFTERNOON")),
		NightToken:         strings.TrimSpace(v.GetString("SHIFT_TOKEN_NIGHT")),
	}

	cfg.Eligibility = EligibilityCacheConfig{
		MemoSize:     v.GetInt("ELIGIBILITY_MEMO_SIZE"),
		CacheEnabled: v.GetBool("ELIGIBILITY_CACHE_ENABLED"),
		CacheTTL:     parseDuration(v.GetString("ELIGIBILITY_CACHE_TTL"), 2*time.Minute),
	}

	cfg.Exports = ExportsConfig{
		Enabled:      v.GetBool("ENABLE_EXPORTS"),
		CSVDelimiter: v.GetString("EXPORT_CSV_DELIMITER"),
	}

	ratio := v.GetFloat64("OTEL_SAMPLER_RATIO")
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}
	cfg.Tracing = TracingConfig{
		Enabled:     v.GetBool("OTEL_ENABLED"),
		ServiceName: v.GetString("OTEL_SERVICE_NAME"),
		SampleRatio: ratio,
	}

	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "horarios")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_ENABLED", false)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_ISSUER", "")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("STRICT_AVAILABILITY", true)
	v.SetDefault("ASSIGNMENT_SESSION_TTL", "30m")
	v.SetDefault("SHIFT_TOKEN_MORNING", "mañana")
	v.SetDefault("SHIFT_TOKEN_AFTERNOON", "tarde")
	v.SetDefault("SHIFT_TOKEN_NIGHT", "noche")

	v.SetDefault("ELIGIBILITY_MEMO_SIZE", 512)
	v.SetDefault("ELIGIBILITY_CACHE_ENABLED", false)
	v.SetDefault("ELIGIBILITY_CACHE_TTL", "2m")

	v.SetDefault("ENABLE_EXPORTS", true)
	v.SetDefault("EXPORT_CSV_DELIMITER", ",")

	v.SetDefault("OTEL_ENABLED", false)
	v.SetDefault("OTEL_SERVICE_NAME", "horario-admin-api")
	v.SetDefault("OTEL_SAMPLER_RATIO", 0.1)
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

// viper reports a missing explicit config file as a path error rather than ConfigFileNotFoundError.
func isMissingFile(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
