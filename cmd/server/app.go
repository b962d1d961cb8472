package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vnitin08/youtube-backend/internal/db"
	"github.com/vnitin08/youtube-backend/internal/handlers"
	"github.com/vnitin08/youtube-backend/internal/logger"
	"github.com/vnitin08/youtube-backend/internal/media"
	"github.com/vnitin08/youtube-backend/internal/repository/postgres"
	"github.com/vnitin08/youtube-backend/internal/service/account"
	"github.com/vnitin08/youtube-backend/internal/service/auth"
	"github.com/vnitin08/youtube-backend/internal/service/auth/tokenmanager"
)

const shutdownTimeout = 5 * time.Second

type mediaStore interface {
	Upload(ctx context.Context, localPath string) (string, error)
	Remove(ctx context.Context, url string) error
}

type ServerApp struct {
	ListenAddr string
	Handler    http.Handler

	logger logger.Logger
	pool   *pgxpool.Pool
}

func NewServerApp(ctx context.Context, c *Config) (app *ServerApp, err error) {
	// Initialize logger
	log, err := logger.New(c.Environment, c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("error while initializing logger: %w", err)
	}

	// Connect to the database and run migrations; server never starts without healthy db
	pool, err := db.ConnectAndMigrate(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("error while connecting to db. Err: %w", err)
	}
	defer func() {
		if err != nil {
			pool.Close()
		}
	}()

	// Initialize repositories
	storage := postgres.NewStorage(pool)

	// Initialize services
	tokenManager, err := tokenmanager.New(tokenmanager.Config{
		AccessSecret:  c.AccessTokenSecret,
		RefreshSecret: c.RefreshTokenSecret,
		AccessTTL:     c.AccessTokenTTL,
		RefreshTTL:    c.RefreshTokenTTL,
	}, storage.Account())
	if err != nil {
		return nil, fmt.Errorf("error while creating token manager. Err: %w", err)
	}

	authService, err := auth.NewService(auth.Config{}, tokenManager, storage.Account())
	if err != nil {
		return nil, fmt.Errorf("error while creating auth service. Err: %w", err)
	}

	store, err := newMediaStore(ctx, c)
	if err != nil {
		return nil, err
	}
	accountService := account.NewService(auth.DefaultHasher, storage, store, log)

	if err := os.MkdirAll(c.UploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("error while creating upload dir. Err: %w", err)
	}

	mux := handlers.NewRouter(
		handlers.Config{
			UploadDir:   c.UploadDir,
			PublicDir:   c.PublicDir,
			CORSOrigins: c.CORSOrigins,
		},
		authService,
		accountService,
		pool,
		log,
	)

	return &ServerApp{
		ListenAddr: c.ListenAddr,
		Handler:    mux,
		logger:     log,
		pool:       pool,
	}, nil
}

// S3 if bucket configured, public dir otherwise
func newMediaStore(ctx context.Context, c *Config) (mediaStore, error) {
	if c.S3Bucket != "" {
		store, err := media.NewS3Store(ctx, media.S3Config{
			Bucket:    c.S3Bucket,
			Region:    c.S3Region,
			Endpoint:  c.S3Endpoint,
			AccessKey: c.S3AccessKey,
			SecretKey: c.S3SecretKey,
			PublicURL: c.MediaBaseURL,
		})
		if err != nil {
			return nil, fmt.Errorf("error while creating s3 media store. Err: %w", err)
		}
		return store, nil
	}

	store, err := media.NewDiskStore(c.PublicDir, c.mediaBaseURL())
	if err != nil {
		return nil, fmt.Errorf("error while creating disk media store. Err: %w", err)
	}
	return store, nil
}

// Run starts http server and closes gracefully on context cancellation
func (s *ServerApp) Run(ctx context.Context) error {
	defer s.pool.Close()

	httpServer := &http.Server{
		Addr:              s.ListenAddr,
		Handler:           s.Handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	idleConnsClosed := make(chan struct{})
	srvCtx, srvCtxCancel := context.WithCancel(ctx)
	defer srvCtxCancel()

	go func() {
		<-srvCtx.Done()

		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := httpServer.Shutdown(timeoutCtx); errors.Is(err, context.DeadlineExceeded) {
			s.logger.Error("HTTP server shutdown timeout exceeded, forcing shutdown...")
		}
		s.logger.Info("HTTP server stopped")
		close(idleConnsClosed)
	}()

	// Listen and serve until context is cancelled; then close gracefully connections
	s.logger.Info("Starting server", "address", s.ListenAddr)
	err := httpServer.ListenAndServe()
	srvCtxCancel()
	<-idleConnsClosed

	return err
}
