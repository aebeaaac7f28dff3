package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ayush/worklog/internal/auth"
	"github.com/ayush/worklog/internal/config"
	"github.com/ayush/worklog/internal/journal"
	"github.com/ayush/worklog/internal/logging"
	"github.com/ayush/worklog/internal/middleware"
	"github.com/ayush/worklog/internal/store"
	"github.com/ayush/worklog/internal/summary"
)

func main() {
	logger := logging.NewLogger(os.Stderr, "info")

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("config", "err", err)
	}
	logging.SetLevel(logger, cfg.LogLevel)
	ctx := context.Background()

	memory := store.NewMemoryStore()

	// ── PostgreSQL ────────────────────────────────────────────
	var users auth.UserStore = memory
	if cfg.PostgresDSN != "" {
		pgPool, err := pgxpool.New(ctx, cfg.PostgresDSN)
		if err != nil {
			logger.Fatal("postgres connect", "err", err)
		}
		defer pgPool.Close()
		pgStore := store.NewPostgresStore(pgPool)
		if err := pgStore.Migrate(ctx); err != nil {
			logger.Fatal("postgres migrate", "err", err)
		}
		users = pgStore
	} else {
		logger.Warn("POSTGRES_DSN not set, users are kept in memory")
	}

	// ── MongoDB ──────────────────────────────────────────────
	var items journal.ItemStore = memory
	var series journal.SeriesStore = memory
	if cfg.MongoURI != "" {
		mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			logger.Fatal("mongo connect", "err", err)
		}
		defer mongoClient.Disconnect(ctx)
		mongoStore := store.NewMongoStore(mongoClient.Database(cfg.MongoDB))
		if err := mongoStore.EnsureIndexes(ctx); err != nil {
			logger.Fatal("mongo indexes", "err", err)
		}
		items, series = mongoStore, mongoStore
	} else {
		logger.Warn("MONGO_URI not set, items and series are kept in memory")
	}

	// ── Redis ────────────────────────────────────────────────
	var sessions auth.Sessions
	if cfg.RedisAddr != "" {
		rdb, err := store.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			logger.Fatal("redis connect", "err", err)
		}
		defer rdb.Close()
		sessions = auth.NewSessionStore(rdb)
	} else {
		logger.Warn("REDIS_ADDR not set, logout will not revoke tokens")
	}

	// ── MinIO ────────────────────────────────────────────────
	var reports summary.FileStore
	if cfg.MinioEndpoint != "" {
		minioStore, err := store.NewMinioStore(ctx, store.MinioConfig{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			Bucket:    cfg.MinioBucket,
			UseSSL:    cfg.MinioUseSSL,
		})
		if err != nil {
			logger.Fatal("minio connect", "err", err)
		}
		reports = minioStore
	} else {
		logger.Warn("MINIO_ENDPOINT not set, report archive disabled")
	}

	// ── Gemini ───────────────────────────────────────────────
	if cfg.GeminiAPIKey == "" {
		logger.Warn("GEMINI_API_KEY not set, /api/generate will answer 503")
	}
	gemini := summary.NewGeminiClient(cfg.GeminiBaseURL, cfg.GeminiAPIKey, cfg.UpstreamTimeout.Duration)

	// ── Handlers ─────────────────────────────────────────────
	authSvc := auth.NewService(users, sessions, cfg.TokenSecret, cfg.TokenTTL.Duration, cfg.UserCacheTTL.Duration,
		logger.WithPrefix("auth"))

	r := newRouter(routes{
		authSvc:        authSvc,
		authHandler:    auth.NewHandler(authSvc, logger.WithPrefix("auth")),
		journalHandler: journal.NewHandler(items, series, logger.WithPrefix("journal")),
		summaryHandler: summary.NewHandler(gemini, reports, cfg.DefaultModel, logger.WithPrefix("summary")),
		limiter:        middleware.NewUserRateLimiter(cfg.GenerateRPM),
		allowedOrigins: cfg.AllowedOrigins,
		logger:         logger.WithPrefix("http"),
	})

	// ── Server ───────────────────────────────────────────────
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  time.Minute,
		WriteTimeout: cfg.UpstreamTimeout.Duration + time.Minute,
	}

	go func() {
		logger.Info("backend listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", "err", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	shutCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutCtx); err != nil {
		logger.Error("shutdown", "err", err)
	}
}
