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

	Database    DatabaseConfig
	Redis       RedisConfig
	JWT         JWTConfig
	CORS        CORSConfig
	Log         LogConfig
	Mock        MockConfig
	Sap         SapConfig
	Invitations InvitationConfig
	Sanctions   SanctionsConfig
	Email       EmailConfig
	Storage     StorageConfig
	Cache       CacheConfig
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

type JWTConfig struct {
	Secret            string
	Expiration        time.Duration
	RefreshExpiration time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// MockConfig forces the seeded in-memory repositories regardless of database
// availability. A failed database connection at startup has the same effect.
type MockConfig struct {
	Enabled bool
}

// SapConfig points at the SAP integration gateway used for master data reads
// and connection tests.
type SapConfig struct {
	GatewayBaseURL string
	Timeout        time.Duration
}

// InvitationConfig governs vendor registration links.
type InvitationConfig struct {
	LinkBaseURL       string
	DefaultExpiration time.Duration
}

// SanctionsConfig configures the automated compliance screening worker.
type SanctionsConfig struct {
	DenyList   []string
	Workers    int
	MaxRetries int
	RetryDelay time.Duration
}

// EmailConfig locates the downstream email service for the advisory probe.
type EmailConfig struct {
	HealthURL string
	Timeout   time.Duration
}

// StorageConfig controls where uploaded SAP certificates are kept.
type StorageConfig struct {
	CertificateDir string
}

// CacheConfig tunes the vendor master data read cache.
type CacheConfig struct {
	Enabled   bool
	VendorTTL time.Duration
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

	cfg.JWT = JWTConfig{
		Secret:            v.GetString("JWT_SECRET"),
		Expiration:        parseDuration(v.GetString("JWT_EXPIRATION"), 24*time.Hour),
		RefreshExpiration: parseDuration(v.GetString("REFRESH_TOKEN_EXPIRATION"), 7*24*time.Hour),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Mock = MockConfig{Enabled: v.GetBool("MOCK_MODE")}

	cfg.Sap = SapConfig{
		GatewayBaseURL: v.GetString("SAP_GATEWAY_BASE_URL"),
		Timeout:        parseDuration(v.GetString("SAP_GATEWAY_TIMEOUT"), 10*time.Second),
	}

	cfg.Invitations = InvitationConfig{
		LinkBaseURL:       v.GetString("INVITATION_LINK_BASE_URL"),
		DefaultExpiration: parseDuration(v.GetString("INVITATION_EXPIRATION"), 14*24*time.Hour),
	}

	cfg.Sanctions = SanctionsConfig{
		DenyList:   splitAndTrim(v.GetString("SANCTIONS_DENY_LIST")),
		Workers:    v.GetInt("SANCTIONS_WORKERS"),
		MaxRetries: v.GetInt("SANCTIONS_MAX_RETRIES"),
		RetryDelay: parseDuration(v.GetString("SANCTIONS_RETRY_DELAY"), 5*time.Second),
	}

	cfg.Email = EmailConfig{
		HealthURL: v.GetString("EMAIL_SERVICE_HEALTH_URL"),
		Timeout:   parseDuration(v.GetString("EMAIL_SERVICE_TIMEOUT"), 2*time.Second),
	}

	cfg.Storage = StorageConfig{
		CertificateDir: v.GetString("CERTIFICATE_STORAGE_DIR"),
	}

	cfg.Cache = CacheConfig{
		Enabled:   v.GetBool("ENABLE_CACHE"),
		VendorTTL: parseDuration(v.GetString("VENDOR_CACHE_TTL"), 5*time.Minute),
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
	v.SetDefault("DB_NAME", "vendor_mdm")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "24h")
	v.SetDefault("REFRESH_TOKEN_EXPIRATION", "168h")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("MOCK_MODE", false)

	v.SetDefault("SAP_GATEWAY_BASE_URL", "http://localhost:5001/api")
	v.SetDefault("SAP_GATEWAY_TIMEOUT", "10s")

	v.SetDefault("INVITATION_LINK_BASE_URL", "http://localhost:5173/register/invitation")
	v.SetDefault("INVITATION_EXPIRATION", "336h")

	v.SetDefault("SANCTIONS_DENY_LIST", "")
	v.SetDefault("SANCTIONS_WORKERS", 1)
	v.SetDefault("SANCTIONS_MAX_RETRIES", 3)
	v.SetDefault("SANCTIONS_RETRY_DELAY", "5s")

	v.SetDefault("EMAIL_SERVICE_HEALTH_URL", "")
	v.SetDefault("EMAIL_SERVICE_TIMEOUT", "2s")

	v.SetDefault("CERTIFICATE_STORAGE_DIR", "./certificates")

	v.SetDefault("ENABLE_CACHE", false)
	v.SetDefault("VENDOR_CACHE_TTL", "5m")
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
