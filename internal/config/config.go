package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port          string
	AllowOrigins  string
	StorageDriver string

	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBSSLMode   string
	DatabaseURL string

	JWTSecret        string
	JWTExpirationSec int
	AdminUsername    string
	AdminPassword    string

	CurrencyAPIURL string
	ReqTimeoutSec  int
	UploadDir      string
	MaxUploadMB    int64

	LogLevel         string
	LogFormat        string
	LogIncludeCaller bool
	ShutdownTimeout  time.Duration
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoi(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func atob(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func duration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func Load() *Config {
	return &Config{
		Port:          getenv("PORT", "8080"),
		AllowOrigins:  getenv("ALLOW_ORIGINS", "*"),
		StorageDriver: getenv("STORAGE_DRIVER", "postgres"),

		DBHost:      getenv("DB_HOST", "localhost"),
		DBPort:      getenv("DB_PORT", "5432"),
		DBUser:      getenv("DB_USER", "postgres"),
		DBPassword:  getenv("DB_PASSWORD", ""),
		DBName:      getenv("DB_NAME", "vivesbank"),
		DBSSLMode:   getenv("DB_SSLMODE", "disable"),
		DatabaseURL: getenv("DATABASE_URL", ""),

		JWTSecret:        getenv("JWT_SECRET", ""),
		JWTExpirationSec: atoi("JWT_EXPIRATION_SECONDS", 3600),
		AdminUsername:    getenv("ADMIN_USERNAME", ""),
		AdminPassword:    getenv("ADMIN_PASSWORD", ""),

		CurrencyAPIURL: getenv("CURRENCY_API_URL", "https://api.frankfurter.app"),
		ReqTimeoutSec:  atoi("REQUEST_TIMEOUT_SECONDS", 10),
		UploadDir:      getenv("UPLOAD_DIR", "uploads"),
		MaxUploadMB:    int64(atoi("MAX_UPLOAD_MB", 5)),

		LogLevel:         getenv("LOG_LEVEL", "info"),
		LogFormat:        getenv("LOG_FORMAT", "text"),
		LogIncludeCaller: atob("LOG_INCLUDE_CALLER", false),
		ShutdownTimeout:  duration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

// DSN returns DATABASE_URL when set, otherwise a URL assembled from the DB_* keys.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     net.JoinHostPort(c.DBHost, c.DBPort),
		Path:     "/" + c.DBName,
		RawQuery: url.Values{"sslmode": {c.DBSSLMode}}.Encode(),
	}
	return u.String()
}

func (c *Config) JWTExpiration() time.Duration {
	return time.Duration(c.JWTExpirationSec) * time.Second
}

func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.ReqTimeoutSec) * time.Second
}

// Validate reports settings the server cannot start without.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	switch c.StorageDriver {
	case "postgres", "memory":
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}
	return nil
}
