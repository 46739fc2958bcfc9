// Package config builds the process configuration once at startup.
// Components receive the values they need through their constructors;
// nothing reads the environment at call time.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	envAddr          = "AUTH_ADDR"
	envPGDSN         = "DATABASE_URL"
	envRedisAddr     = "REDIS_ADDR"
	envRedisPassword = "REDIS_PASSWORD"
	envRedisDB       = "REDIS_DB"
	envAccessSecret  = "JWT_ACCESS_SECRET"
	envRefreshSecret = "JWT_REFRESH_SECRET"
	envAccessTTL     = "JWT_ACCESS_TTL"
	envRefreshTTL    = "JWT_REFRESH_TTL"
	envIssuer        = "AUTH_ISSUER"
)

const (
	defaultAddr = ":8080"
	// Short-lived access tokens and a modest refresh window; both are
	// tunable through the environment.
	defaultAccessTTL  = 30 * time.Second
	defaultRefreshTTL = time.Minute
	defaultRedisAddr  = "localhost:6379"
	defaultIssuer     = "auth-service"
)

// Config carries every startup tunable. Read-only after Load.
type Config struct {
	Addr string

	PGDSN string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	Issuer        string
}

// Load reads the environment and validates the result. Both JWT secrets
// are required and must differ — the two token classes are signed with
// independent secrets so compromise of one does not affect the other.
func Load() (*Config, error) {
	cfg := &Config{
		Addr:          getenv(envAddr, defaultAddr),
		PGDSN:         strings.TrimSpace(os.Getenv(envPGDSN)),
		RedisAddr:     getenv(envRedisAddr, defaultRedisAddr),
		RedisPassword: os.Getenv(envRedisPassword),
		Issuer:        getenv(envIssuer, defaultIssuer),
	}

	access := strings.TrimSpace(os.Getenv(envAccessSecret))
	if access == "" {
		return nil, fmt.Errorf("%s must be set", envAccessSecret)
	}
	refresh := strings.TrimSpace(os.Getenv(envRefreshSecret))
	if refresh == "" {
		return nil, fmt.Errorf("%s must be set", envRefreshSecret)
	}
	if access == refresh {
		return nil, fmt.Errorf("%s and %s must be distinct", envAccessSecret, envRefreshSecret)
	}
	cfg.AccessSecret = []byte(access)
	cfg.RefreshSecret = []byte(refresh)

	var err error
	if cfg.AccessTTL, err = durationEnv(envAccessTTL, defaultAccessTTL); err != nil {
		return nil, err
	}
	if cfg.RefreshTTL, err = durationEnv(envRefreshTTL, defaultRefreshTTL); err != nil {
		return nil, err
	}
	if cfg.RefreshTTL <= cfg.AccessTTL {
		return nil, fmt.Errorf("%s must exceed %s", envRefreshTTL, envAccessTTL)
	}

	if raw := strings.TrimSpace(os.Getenv(envRedisDB)); raw != "" {
		db, convErr := strconv.Atoi(raw)
		if convErr != nil {
			return nil, fmt.Errorf("%s is not a number: %q", envRedisDB, raw)
		}
		cfg.RedisDB = db
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s is not a duration: %q", key, raw)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be greater than zero", key)
	}
	return d, nil
}
