package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	authhttp "github.com/streamforge/backend/internal/auth/http"
	"github.com/streamforge/backend/internal/auth/service"
	"github.com/streamforge/backend/internal/common/clock"
	"github.com/streamforge/backend/internal/common/config"
	commoncrypto "github.com/streamforge/backend/internal/common/crypto"
	"github.com/streamforge/backend/internal/common/db"
	commonhttp "github.com/streamforge/backend/internal/common/http"
	"github.com/streamforge/backend/internal/common/logger"
	srv "github.com/streamforge/backend/internal/common/server"
	"github.com/streamforge/backend/internal/media"
	userrepo "github.com/streamforge/backend/internal/user/repository"
)

func main() {
	log, err := logger.New(os.Getenv("LOG_DIR"), "api", os.Getenv("LOG_LEVEL"))
	if err != nil {
		os.Stderr.WriteString(fmt.Sprintf("failed to initialize logger: %v\n", err))
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	pool := db.NewPool(log, cfg.DatabaseURL)
	defer pool.Close()

	repo := userrepo.NewPgRepository(pool)
	hasher := &commoncrypto.BcryptHasher{}
	idGenerator := commoncrypto.NewUUIDGenerator()
	ck := clock.NewRealClock()

	codec := service.NewTokenCodec(
		cfg.AccessTokenSecret,
		cfg.RefreshTokenSecret,
		cfg.AccessTokenTTL,
		cfg.RefreshTokenTTL,
		ck,
	)
	sessions := service.NewSessionIssuer(repo, codec, log)

	uploader := media.NewS3Uploader(media.Config{
		Region:        cfg.S3Region,
		Endpoint:      cfg.S3Endpoint,
		Bucket:        cfg.S3Bucket,
		AccessKey:     cfg.S3AccessKey,
		SecretKey:     cfg.S3SecretKey,
		PublicBaseURL: cfg.S3PublicBaseURL,
	}, log)

	authService := service.NewAuthService(service.AuthServiceDeps{
		Repo:        repo,
		Hasher:      hasher,
		IDGenerator: idGenerator,
		Uploader:    uploader,
		Sessions:    sessions,
		Codec:       codec,
		Clock:       ck,
		Log:         log,
	})

	requireAuth := authhttp.RequireAuth(codec, repo, log)
	handler := authhttp.NewHandler(authService, requireAuth, cfg, log)

	mux := http.NewServeMux()
	mux.Handle("/", handler)
	mux.Handle("/metrics", promhttp.Handler())

	finalHandler := commonhttp.BuildBaseHandler(log, cfg.MaxUploadBytes, mux)

	serverConfig := srv.DefaultServerConfig(cfg.HTTPPort)
	server := srv.NewServer(serverConfig, finalHandler)

	srv.StartWithGracefulShutdown(server, log, "api")
}
