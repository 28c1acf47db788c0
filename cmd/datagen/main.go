// Command datagen populates the document, relational, and search stores
// with a synthetic identity and insurance dataset. It generates identity
// users first, then derives one insurance customer bundle per user.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	idgen "lynx/internal/identity/generator"
	idstore "lynx/internal/identity/store"
	insgen "lynx/internal/insurance/generator"
	insstore "lynx/internal/insurance/store"
	"lynx/internal/ingest"
	"lynx/internal/platform/config"
	"lynx/internal/platform/events"
	"lynx/internal/platform/logger"
	"lynx/internal/platform/metrics"
	"lynx/internal/platform/postgres"
	"lynx/internal/platform/redis"
	"lynx/internal/platform/search"
)

func main() {
	users := flag.Int("users", 100, "number of identity users to generate")
	seed := flag.Int64("seed", 0, "random seed; 0 derives one from the clock")
	truncate := flag.Bool("truncate", false, "clear existing identity and insurance data first")
	skipSearch := flag.Bool("skip-search", false, "do not mirror verifications into the search index")
	flag.Parse()

	if err := run(*users, *seed, *truncate, *skipSearch); err != nil {
		fmt.Fprintln(os.Stderr, "datagen:", err)
		os.Exit(1)
	}
}

func run(users int, seed int64, truncate, skipSearch bool) error {
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

	var indexer ingest.SearchIndexer
	if cfg.Search.Enabled && !skipSearch {
		searchClient, err := search.New(ctx, cfg.Search, log)
		if err != nil {
			return fmt.Errorf("connect search: %w", err)
		}
		indexer = searchClient
	} else {
		log.Info("search mirroring disabled")
	}

	publisher, err := events.New(ctx, cfg.Events, log)
	if err != nil {
		return fmt.Errorf("connect event broker: %w", err)
	}
	defer publisher.Close()

	identityStore := idstore.NewRedis(redisClient.Client)
	insuranceStore := insstore.NewPostgres(pool)

	if truncate {
		log.Info("truncating existing data")
		if err := identityStore.Truncate(ctx); err != nil {
			return fmt.Errorf("truncate identity data: %w", err)
		}
		if err := insuranceStore.TruncateAll(ctx); err != nil {
			return fmt.Errorf("truncate insurance data: %w", err)
		}
	}

	m := metrics.New()

	idIngestor := ingest.NewIdentityIngestor(
		idgen.New(idgen.Config{Seed: seed}),
		identityStore,
		indexer,
		m,
		log,
	)
	idResult, err := idIngestor.Run(ctx, users)
	if err != nil {
		return fmt.Errorf("generate identity data: %w", err)
	}
	log.Info("identity data generated",
		"users", idResult.Users,
		"verifications", idResult.Verifications,
		"attempts", idResult.Attempts,
		"login_sessions", idResult.LoginSessions,
		"indexed", idResult.Indexed,
	)
	if err := publisher.Publish(ctx, events.Event{
		Type: events.TypeIdentityGenerated,
		Counts: map[string]int{
			"users":         idResult.Users,
			"verifications": idResult.Verifications,
			"attempts":      idResult.Attempts,
			"loginSessions": idResult.LoginSessions,
		},
	}); err != nil {
		log.Warn("publish identity event failed", "error", err)
	}

	insIngestor := ingest.NewInsuranceIngestor(
		insgen.New(seed),
		identityStore,
		insuranceStore,
		m,
		log,
	)
	insResult, err := insIngestor.Run(ctx)
	if err != nil {
		return fmt.Errorf("generate insurance data: %w", err)
	}
	log.Info("insurance data generated",
		"customers", insResult.Customers,
		"policies", insResult.Policies,
		"claims", insResult.Claims,
		"payments", insResult.Payments,
		"dependents", insResult.Dependents,
		"failed", insResult.Failed,
	)
	if err := publisher.Publish(ctx, events.Event{
		Type: events.TypeInsuranceGenerated,
		Counts: map[string]int{
			"customers":  insResult.Customers,
			"policies":   insResult.Policies,
			"claims":     insResult.Claims,
			"payments":   insResult.Payments,
			"dependents": insResult.Dependents,
			"failed":     insResult.Failed,
		},
	}); err != nil {
		log.Warn("publish insurance event failed", "error", err)
	}

	return nil
}
