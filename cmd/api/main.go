package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pet-telehealth/internal/adapters/auth/jwtauth"
	"pet-telehealth/internal/adapters/storage/postgres"
	"pet-telehealth/internal/config"
	"pet-telehealth/internal/platform/lock"
	"pet-telehealth/internal/platform/logger"
	"pet-telehealth/internal/router"
)

func main() {
	log := logger.NewFromEnv()

	cfg, err := config.Load()
	if err != nil {
		log.Error("config inválida", map[string]any{"error": err.Error()})
		os.Exit(1)
	}

	opts := router.Options{
		ReplyDelay: cfg.ReplyDelay,
		Logger:     log,
	}

	provider := jwtauth.NewProvider(cfg.JWTSecret, cfg.TokenTTL)
	opts.AuthVerifier = provider
	opts.TokenIssuer = provider

	if cfg.DBDSN != "" {
		db, err := postgres.Open(cfg.DBDSN)
		if err != nil {
			log.Error("no se pudo conectar a postgres", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
		defer db.Close()
		opts.DB = db
		log.Info("storage: postgres", nil)
	} else {
		log.Info("storage: in-memory (DB_DSN vacío)", nil)
	}

	if cfg.RedisAddr != "" {
		rdb, err := lock.NewRedisClient(cfg.RedisAddr, cfg.RedisUsername, cfg.RedisPassword)
		if err != nil {
			log.Error("no se pudo conectar a redis", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
		defer rdb.Close()
		opts.Locker = lock.NewRedisLocker(rdb, 0)
		log.Info("locks: redis", map[string]any{"addr": cfg.RedisAddr})
	}

	handler, stopResponder := router.NewRouter(opts)
	defer stopResponder()

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("API escuchando", map[string]any{"port": cfg.HTTPPort, "env": cfg.Env})
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("el servidor terminó con error", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
	case <-ctx.Done():
		log.Info("señal recibida, apagando", nil)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("shutdown forzado", map[string]any{"error": err.Error()})
		}
	}

	log.Info("apagado limpio", nil)
}
