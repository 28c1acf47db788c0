// Package ingest orchestrates generation and persistence: identity batches
// into the document store (optionally mirrored into the search index) and
// insurance bundles into the relational store.
package ingest

import (
	"context"
	"log/slog"

	dErrors "lynx/pkg/domain-errors"

	"lynx/internal/identity/models"
	idstore "lynx/internal/identity/store"
	"lynx/internal/platform/metrics"
)

// IdentityGenerator produces identity batches.
type IdentityGenerator interface {
	GenerateBatch(ctx context.Context, count int) (models.Batch, error)
}

// SearchIndexer mirrors verification documents into the search index.
// Implemented by the search client; nil disables mirroring.
type SearchIndexer interface {
	EnsureIndex(ctx context.Context) error
	IndexDocument(ctx context.Context, id string, doc any) error
}

// IdentityResult reports what one run produced.
type IdentityResult struct {
	Users         int
	Verifications int
	Attempts      int
	LoginSessions int
	Indexed       int
}

// IdentityIngestor generates identity batches and writes them out.
type IdentityIngestor struct {
	generator IdentityGenerator
	store     idstore.Store
	indexer   SearchIndexer
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

// NewIdentityIngestor wires an ingestor. indexer may be nil to skip the
// search mirror.
func NewIdentityIngestor(
	gen IdentityGenerator,
	store idstore.Store,
	indexer SearchIndexer,
	m *metrics.Metrics,
	logger *slog.Logger,
) *IdentityIngestor {
	return &IdentityIngestor{
		generator: gen,
		store:     store,
		indexer:   indexer,
		metrics:   m,
		logger:    logger,
	}
}

// Run generates count users with their dependent records and bulk-inserts
// everything into the document store. When a search indexer is configured,
// each verification is also indexed under its verification id.
func (i *IdentityIngestor) Run(ctx context.Context, count int) (IdentityResult, error) {
	batch, err := i.generator.GenerateBatch(ctx, count)
	if err != nil {
		return IdentityResult{}, dErrors.Wrap(err, dErrors.CodeInternal, "generate identity batch")
	}

	if err := i.store.InsertUserProfiles(ctx, batch.UserProfiles); err != nil {
		i.metrics.IngestFailures.WithLabelValues("user_profiles").Inc()
		return IdentityResult{}, err
	}
	if err := i.store.InsertVerifications(ctx, batch.Verifications); err != nil {
		i.metrics.IngestFailures.WithLabelValues("verifications").Inc()
		return IdentityResult{}, err
	}
	if err := i.store.InsertAttempts(ctx, batch.Attempts); err != nil {
		i.metrics.IngestFailures.WithLabelValues("attempts").Inc()
		return IdentityResult{}, err
	}
	if err := i.store.InsertLoginSessions(ctx, batch.LoginSessions); err != nil {
		i.metrics.IngestFailures.WithLabelValues("login_sessions").Inc()
		return IdentityResult{}, err
	}

	i.metrics.RecordsGenerated.WithLabelValues("user_profiles").Add(float64(len(batch.UserProfiles)))
	i.metrics.RecordsGenerated.WithLabelValues("verifications").Add(float64(len(batch.Verifications)))
	i.metrics.RecordsGenerated.WithLabelValues("attempts").Add(float64(len(batch.Attempts)))
	i.metrics.RecordsGenerated.WithLabelValues("login_sessions").Add(float64(len(batch.LoginSessions)))

	result := IdentityResult{
		Users:         len(batch.UserProfiles),
		Verifications: len(batch.Verifications),
		Attempts:      len(batch.Attempts),
		LoginSessions: len(batch.LoginSessions),
	}

	if i.indexer != nil {
		indexed, err := i.mirrorVerifications(ctx, batch.Verifications)
		if err != nil {
			return result, err
		}
		result.Indexed = indexed
	}

	i.logger.Info("identity batch ingested",
		"users", result.Users,
		"verifications", result.Verifications,
		"attempts", result.Attempts,
		"loginSessions", result.LoginSessions,
		"indexed", result.Indexed,
	)
	return result, nil
}

func (i *IdentityIngestor) mirrorVerifications(ctx context.Context, verifications []models.Verification) (int, error) {
	if err := i.indexer.EnsureIndex(ctx); err != nil {
		return 0, err
	}
	indexed := 0
	for _, v := range verifications {
		if err := i.indexer.IndexDocument(ctx, v.VerificationID, v); err != nil {
			i.metrics.IngestFailures.WithLabelValues("search_index").Inc()
			i.logger.Error("failed to index verification",
				"verificationId", v.VerificationID, "error", err)
			continue
		}
		indexed++
	}
	return indexed, nil
}
