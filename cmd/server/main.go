// Command server runs the investigation API: graph assembly, fraud pattern
// queries, and investigation management over the identity and insurance
// stores.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	fraudhandler "lynx/internal/fraud/handler"
	fraudservice "lynx/internal/fraud/service"
	graphhandler "lynx/internal/graph/handler"
	graphservice "lynx/internal/graph/service"
	idstore "lynx/internal/identity/store"
	insstore "lynx/internal/insurance/store"
	invhandler "lynx/internal/investigation/handler"
	invservice "lynx/internal/investigation/service"
	invstore "lynx/internal/investigation/store"
	"lynx/internal/platform/config"
	"lynx/internal/platform/logger"
	"lynx/internal/platform/metrics"
	"lynx/internal/platform/postgres"
	"lynx/internal/platform/redis"
	transport "lynx/internal/transport/http"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "server:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.FromEnv()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg.Logging)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	redisClient, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	defer redisClient.Close()

	pool, err := postgres.New(ctx, cfg.Postgres)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pool.Close()

	m := metrics.New()

	identityStore := idstore.NewRedis(redisClient.Client)
	insuranceStore := insstore.NewPostgres(pool)
	investigationStore := invstore.NewRedis(redisClient.Client)

	router := transport.NewRouter(transport.Deps{
		Graph:         graphhandler.New(graphservice.New(identityStore, insuranceStore, log), log),
		Fraud:         fraudhandler.New(fraudservice.New(identityStore, m, log), log),
		Investigation: invhandler.New(invservice.New(investigationStore, log), log),
		Metrics:       m,
		Logger:        log,
		Health: func() error {
			hctx, cancel := context.WithTimeout(context.Background(), cfg.Redis.DialTimeout)
			defer cancel()
			if err := redisClient.Health(hctx); err != nil {
				return err
			}
			return pool.Ping(hctx)
		},
	})

	srv := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("server listening", "addr", cfg.HTTP.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down", "timeout", cfg.HTTP.ShutdownTimeout)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info("server stopped")
	return nil
}
