package constants

import "time"

const (
	TokenSecretMinLength = 32

	DefaultAccessTokenTTL  = 15 * time.Minute
	DefaultRefreshTokenTTL = 10 * 24 * time.Hour
	DefaultRequestTimeout  = 30 * time.Second

	// Multipart registration bodies carry two images; everything else is small JSON.
	DefaultMaxUploadBytes  = 50 * 1024 * 1024
	DefaultMaxRequestBytes = 1 << 20
	MultipartMemoryBytes   = 10 * 1024 * 1024

	DBPoolMaxConns          = 25
	DBPoolMinConns          = 5
	DBPoolConnMaxLifetime   = time.Hour
	DBPoolConnMaxIdleTime   = 30 * time.Minute
	DBPoolHealthCheckPeriod = time.Minute
	DBPoolConnectTimeout    = 5 * time.Second
	DBPoolMaxAttempts       = 10
	DBPoolRetryDelay        = time.Second

	ServerReadHeaderTimeout = 10 * time.Second
	ServerReadTimeout       = 30 * time.Second
	ServerWriteTimeout      = 30 * time.Second
	ServerIdleTimeout       = 120 * time.Second

	ShutdownTimeout = 30 * time.Second
	DrainTimeout    = 10 * time.Second

	DefaultHTTPPort = "8080"

	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"
)
