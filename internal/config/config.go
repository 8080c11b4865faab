package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"lead-intake-go/pkg/logger"
)

const envDevelopment = "development"

type Config struct {
	HTTP      HTTPConfig
	Env       string
	DB        DBConfig
	Redis     RedisConfig
	Auth      AuthConfig
	Dashboard DashboardConfig
}

type HTTPConfig struct {
	Port           string
	AllowedOrigins []string
	RequestTimeout time.Duration
	// StaticDir, when set, is served at the root for the form and admin pages.
	StaticDir string
}

type DBConfig struct {
	DSN             string
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	TimeZone        string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	AutoMigrate     bool
}

type RedisConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
}

type AuthConfig struct {
	JWTSecret              string
	TokenTTL               time.Duration
	AllowSignup            bool
	BootstrapAdminName     string
	BootstrapAdminEmail    string
	BootstrapAdminPassword string
}

type DashboardConfig struct {
	TimeZone string
}

func Load(log logger.Logger) (Config, error) {
	if err := loadDotEnv(log); err != nil {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Config{
		HTTP: HTTPConfig{
			Port:           getEnv("HTTP_PORT", getEnv("PORT", "3001")),
			AllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3001", "http://127.0.0.1:5500"}),
			RequestTimeout: getEnvDuration("HTTP_REQUEST_TIMEOUT", 30*time.Second),
			StaticDir:      getEnv("HTTP_STATIC_DIR", ""),
		},
		Env: getEnv("ENV", envDevelopment),
		DB: DBConfig{
			DSN:             getEnv("DB_DSN", ""),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "postgres"),
			Name:            getEnv("DB_NAME", "lead_intake"),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			TimeZone:        getEnv("DB_TIMEZONE", "UTC"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
			AutoMigrate:     getEnvBool("DB_AUTO_MIGRATE", true),
		},
		Redis: RedisConfig{
			Enabled:  getEnvBool("REDIS_ENABLED", false),
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Auth: AuthConfig{
			JWTSecret:              getEnv("JWT_SECRET", ""),
			TokenTTL:               getEnvDuration("JWT_TTL", 24*time.Hour),
			AllowSignup:            getEnvBool("AUTH_ALLOW_SIGNUP", false),
			BootstrapAdminName:     getEnv("AUTH_BOOTSTRAP_ADMIN_NAME", "Administrador"),
			BootstrapAdminEmail:    getEnv("AUTH_BOOTSTRAP_ADMIN_EMAIL", ""),
			BootstrapAdminPassword: getEnv("AUTH_BOOTSTRAP_ADMIN_PASSWORD", ""),
		},
		Dashboard: DashboardConfig{
			TimeZone: getEnv("DASHBOARD_TIMEZONE", "UTC"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be positive")
	}
	if c.HTTP.RequestTimeout <= 0 {
		return fmt.Errorf("HTTP_REQUEST_TIMEOUT must be positive")
	}
	if _, err := time.LoadLocation(c.Dashboard.TimeZone); err != nil {
		return fmt.Errorf("DASHBOARD_TIMEZONE: %w", err)
	}
	return nil
}

// IsDevelopment reports whether raw storage errors may be echoed to API callers.
func (c Config) IsDevelopment() bool {
	return strings.EqualFold(strings.TrimSpace(c.Env), envDevelopment)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvList(key string, fallback []string) []string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	var items []string
	for _, part := range strings.Split(value, ",") {
		if item := strings.TrimSpace(part); item != "" {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return fallback
	}
	return items
}

func (c DBConfig) GetDSN() string {
	if c.DSN != "" {
		return c.DSN
	}
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.TimeZone
}
