package dbconfig

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
)

// Config holds Postgres connection settings.
type Config struct {
	Host            string
	Port            int
	User            string
	Password        string
	Database        string
	SSLMode         string
	ApplicationName string
	// MaxConns caps the pgx pool; zero keeps the pgx default
	MaxConns int
}

// NewConfigFromEnv reads DB_* environment variables (with defaults).
func NewConfigFromEnv() Config {
	return Config{
		Host:            getEnv("DB_HOST", "localhost"),
		Port:            getEnvAsInt("DB_PORT", 5432),
		User:            getEnv("DB_USER", "postgres"),
		Password:        getEnv("DB_PASSWORD", "postgres"),
		Database:        getEnv("DB_NAME", "matchday"),
		SSLMode:         getEnv("DB_SSLMODE", "disable"),
		ApplicationName: getEnv("DB_APPLICATION_NAME", "matchday"),
		MaxConns:        getEnvAsInt("DB_MAX_CONNS", 0),
	}
}

// DSN returns the Postgres connection URL understood by lib/pq and pgx.
func (c Config) DSN() string {
	q := url.Values{}
	q.Set("sslmode", c.SSLMode)
	if c.ApplicationName != "" {
		q.Set("application_name", c.ApplicationName)
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.Database,
		RawQuery: q.Encode(),
	}
	return u.String()
}

// PoolDSN is DSN plus pgxpool settings; lib/pq rejects these.
func (c Config) PoolDSN() string {
	if c.MaxConns <= 0 {
		return c.DSN()
	}
	return fmt.Sprintf("%s&pool_max_conns=%d", c.DSN(), c.MaxConns)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
