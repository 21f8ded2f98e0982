package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/go-redis/redis/v8"

	"github.com/dukerupert/tourmate/internal/auth"
	"github.com/dukerupert/tourmate/internal/calendar"
	"github.com/dukerupert/tourmate/internal/config"
	"github.com/dukerupert/tourmate/internal/database"
	"github.com/dukerupert/tourmate/internal/logging"
	"github.com/dukerupert/tourmate/internal/middleware"
	"github.com/dukerupert/tourmate/internal/notify"
	"github.com/dukerupert/tourmate/internal/push"
	"github.com/dukerupert/tourmate/internal/recommend"
	"github.com/dukerupert/tourmate/internal/server"
	"github.com/dukerupert/tourmate/internal/store"
	ws "github.com/dukerupert/tourmate/internal/websocket"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "gen-vapid" {
		pub, priv, err := push.GenerateVAPIDKeys()
		if err != nil {
			fmt.Fprintf(os.Stderr, "generate VAPID keys: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("TOURMATE_PUSH_VAPID_PUBLIC_KEY=%s\nTOURMATE_PUSH_VAPID_PRIVATE_KEY=%s\n", pub, priv)
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logger := logging.Setup(cfg.Log.Level, cfg.Log.Format)

	if len(os.Args) > 1 && os.Args[1] == "import-places" {
		if len(os.Args) != 3 {
			fmt.Fprintln(os.Stderr, "usage: tourmate import-places <places.json>")
			os.Exit(2)
		}
		res, err := importPlaces(context.Background(), cfg.Database.Path, os.Args[2], logger)
		if err != nil {
			logger.Error("import places", "error", err)
			os.Exit(1)
		}
		fmt.Printf("imported %d places, skipped %d\n", res.Imported, res.Skipped)
		return
	}

	if err := run(cfg, logger); err != nil {
		logger.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	policy, err := calendar.ParseTargetPolicy(cfg.Calendar.TargetPolicy)
	if err != nil {
		return err
	}

	cache, closeCache, err := newTopNCache(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeCache()

	hub := ws.NewHub(logger.With("component", "websocket"))

	var pushSvc *push.Service
	var pusher notify.Pusher
	pushCfg := push.Config{
		VAPIDPublicKey:  cfg.Push.VAPIDPublicKey,
		VAPIDPrivateKey: cfg.Push.VAPIDPrivateKey,
		Subscriber:      cfg.Push.Subscriber,
	}
	if pushCfg.Enabled() {
		pushSvc = push.NewService(pushCfg)
		pusher = pushSvc
	} else {
		logger.Info("web push disabled, no VAPID keys configured")
	}

	// Notifications travel through an in-process outbox so emitting never
	// blocks or fails the request that caused them.
	pubsub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 256},
		watermill.NewSlogLogger(logger.With("component", "watermill")),
	)
	defer pubsub.Close()

	consumer := notify.NewConsumer(pubsub, store.NewNotificationStore(db), store.NewPushStore(db), hub, pusher, logger.With("component", "notify"))
	// The consumer outlives the signal context so notifications emitted by
	// requests still in flight during shutdown are delivered.
	consumerCtx, cancelConsumer := context.WithCancel(context.Background())
	defer cancelConsumer()
	consumerDone, err := consumer.Start(consumerCtx)
	if err != nil {
		return err
	}
	sink := notify.NewDispatcher(pubsub, logger.With("component", "notify"))

	limiter := middleware.NewRateLimiter(cfg.RateLimit.LoginAttempts, cfg.RateLimit.LoginWindow)
	go limiter.RunCleanup(ctx, cfg.RateLimit.LoginWindow)

	srv := server.New(server.Options{
		DB:             db,
		Hub:            hub,
		Sink:           sink,
		Cache:          cache,
		TopN:           cfg.Recommend.TopN,
		TargetPolicy:   policy,
		Tokens:         auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTL),
		Push:           pushSvc,
		LoginLimiter:   limiter,
		AllowedOrigins: cfg.Server.Origins(),
		Logger:         logger,
	})

	httpServer := &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.Server.Port),
		Handler:      srv.Router(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("tourmate listening", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	pubsub.Close()
	select {
	case <-consumerDone:
	case <-shutdownCtx.Done():
		logger.Warn("notification consumer did not stop in time")
	}
	return nil
}

func newTopNCache(ctx context.Context, cfg *config.Config, logger *slog.Logger) (recommend.TopNCache, func(), error) {
	if cfg.Recommend.CacheBackend == "redis" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("connect redis %s: %w", cfg.Redis.Addr, err)
		}
		logger.Info("top-n cache", "backend", "redis", "addr", cfg.Redis.Addr)
		return recommend.NewRedisCache(client), func() { client.Close() }, nil
	}

	cache, err := recommend.NewMemoryCache(cfg.Recommend.CacheSize)
	if err != nil {
		return nil, nil, fmt.Errorf("top-n cache: %w", err)
	}
	logger.Info("top-n cache", "backend", "memory", "size", cfg.Recommend.CacheSize)
	return cache, func() {}, nil
}
