package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/streamforge/backend/internal/common/constants"
)

var (
	ErrMissingRequiredEnv = errors.New("missing required environment variable")
	ErrInvalidTokenSecret = errors.New("token secret must be at least 32 bytes")
)

type Config struct {
	HTTPPort    string
	DatabaseURL string

	AccessTokenSecret  string
	RefreshTokenSecret string
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration

	S3Region        string
	S3Endpoint      string
	S3Bucket        string
	S3AccessKey     string
	S3SecretKey     string
	S3PublicBaseURL string

	RequestTimeout time.Duration
	MaxUploadBytes int64
}

func Load() (Config, error) {
	accessSecret, err := mustEnv("ACCESS_TOKEN_SECRET")
	if err != nil {
		return Config{}, err
	}
	refreshSecret, err := mustEnv("REFRESH_TOKEN_SECRET")
	if err != nil {
		return Config{}, err
	}

	if err := validateTokenSecret("ACCESS_TOKEN_SECRET", accessSecret); err != nil {
		return Config{}, err
	}
	if err := validateTokenSecret("REFRESH_TOKEN_SECRET", refreshSecret); err != nil {
		return Config{}, err
	}

	databaseURL, err := mustEnv("DATABASE_URL")
	if err != nil {
		return Config{}, err
	}

	s3Bucket, err := mustEnv("S3_BUCKET")
	if err != nil {
		return Config{}, err
	}
	s3AccessKey, err := mustEnv("S3_ACCESS_KEY")
	if err != nil {
		return Config{}, err
	}
	s3SecretKey, err := mustEnv("S3_SECRET_KEY")
	if err != nil {
		return Config{}, err
	}

	return Config{
		HTTPPort:    getEnv("HTTP_PORT", constants.DefaultHTTPPort),
		DatabaseURL: databaseURL,

		AccessTokenSecret:  accessSecret,
		RefreshTokenSecret: refreshSecret,
		AccessTokenTTL:     getDurationEnv("ACCESS_TOKEN_TTL", constants.DefaultAccessTokenTTL),
		RefreshTokenTTL:    getDurationEnv("REFRESH_TOKEN_TTL", constants.DefaultRefreshTokenTTL),

		S3Region:        getEnv("S3_REGION", "us-east-1"),
		S3Endpoint:      getEnv("S3_ENDPOINT", ""),
		S3Bucket:        s3Bucket,
		S3AccessKey:     s3AccessKey,
		S3SecretKey:     s3SecretKey,
		S3PublicBaseURL: getEnv("S3_PUBLIC_BASE_URL", ""),

		RequestTimeout: getDurationEnv("REQUEST_TIMEOUT", constants.DefaultRequestTimeout),
		MaxUploadBytes: getInt64Env("MAX_UPLOAD_BYTES", constants.DefaultMaxUploadBytes),
	}, nil
}

func validateTokenSecret(name, secret string) error {
	if len(secret) < constants.TokenSecretMinLength {
		return fmt.Errorf("%w: %s is %d bytes", ErrInvalidTokenSecret, name, len(secret))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func mustEnv(key string) (string, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return "", fmt.Errorf("%w: %s", ErrMissingRequiredEnv, key)
	}
	return v, nil
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func getInt64Env(key string, fallback int64) int64 {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	i, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback
	}
	return i
}
