package config

import (
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/questrider/auth-service/internal/domain"
)

type Config struct {
	// App
	Env string // dev / staging / prod
	// HTTP
	HTTPAddr string

	// Auth / Security
	SealKey         []byte // 32-byte symmetric key for token sealing
	TokenIssuer     string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	// Onboarding policy
	DefaultRole string
	OTPTTL      time.Duration
	OTPLength   int

	// Infrastructure
	DBAddr         string
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	RabbitURL      string
	RabbitExchange string

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
}

const sealKeyBytes = 32

func Load() (*Config, error) {
	cfg := &Config{}

	cfg.Env = getEnv("ENV", "dev")
	cfg.HTTPAddr = getEnv("HTTP_ADDR", ":8080")

	// The sealing key protects every issued token; refuse to start without it.
	rawKey := os.Getenv("SEAL_KEY")
	if rawKey == "" {
		return nil, fmt.Errorf("missing required env var: SEAL_KEY")
	}
	key, err := hex.DecodeString(rawKey)
	if err != nil {
		return nil, fmt.Errorf("SEAL_KEY must be hex-encoded: %w", err)
	}
	if len(key) != sealKeyBytes {
		return nil, fmt.Errorf("SEAL_KEY must decode to %d bytes, got %d", sealKeyBytes, len(key))
	}
	cfg.SealKey = key

	cfg.TokenIssuer = getEnv("TOKEN_ISSUER", "QuestRider")

	at, err := getDuration("ACCESS_TOKEN_TTL", 15*time.Minute)
	if err != nil {
		return nil, err
	}
	cfg.AccessTokenTTL = at

	rt, err := getDuration("REFRESH_TOKEN_TTL", 30*24*time.Hour)
	if err != nil {
		return nil, err
	}
	cfg.RefreshTokenTTL = rt

	cfg.DefaultRole = getEnv("DEFAULT_ROLE", domain.RoleStudent)
	if !domain.IsValidRole(cfg.DefaultRole) {
		return nil, fmt.Errorf("invalid DEFAULT_ROLE: %q", cfg.DefaultRole)
	}

	ot, err := getDuration("OTP_TTL", 10*time.Minute)
	if err != nil {
		return nil, err
	}
	cfg.OTPTTL = ot

	ol, err := getInt("OTP_LENGTH", 6)
	if err != nil {
		return nil, err
	}
	if ol < 4 || ol > 10 {
		return nil, fmt.Errorf("OTP_LENGTH must be between 4 and 10, got %d", ol)
	}
	cfg.OTPLength = ol

	// Infrastructure dependencies.
	// The engine cannot operate without its backing stores; fail fast here
	// instead of starting in a partially-initialized state.
	cfg.DBAddr = os.Getenv("DB_ADDR")
	if cfg.DBAddr == "" {
		return nil, fmt.Errorf("missing required env var: DB_ADDR")
	}

	cfg.RedisAddr = os.Getenv("REDIS_ADDR")
	if cfg.RedisAddr == "" {
		return nil, fmt.Errorf("missing required env var: REDIS_ADDR")
	}
	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")

	rdb, err := getInt("REDIS_DB", 0)
	if err != nil {
		return nil, err
	}
	cfg.RedisDB = rdb

	cfg.RabbitURL = os.Getenv("RABBIT_URL")
	if cfg.RabbitURL == "" {
		return nil, fmt.Errorf("missing required env var: RABBIT_URL")
	}
	cfg.RabbitExchange = getEnv("RABBIT_EXCHANGE", "questrider.auth")

	// Timeout values are optional and have defaults.
	hrt, err := getDuration("HTTP_READ_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	cfg.HTTPReadTimeout = hrt

	hwt, err := getDuration("HTTP_WRITE_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}
	cfg.HTTPWriteTimeout = hwt

	hit, err := getDuration("HTTP_IDLE_TIMEOUT", time.Minute)
	if err != nil {
		return nil, err
	}
	cfg.HTTPIdleTimeout = hit

	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid duration for %s: %q: %w", key, v, err)
	}
	return d, nil
}

func getInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid integer for %s: %q: %w", key, v, err)
	}
	return n, nil
}
