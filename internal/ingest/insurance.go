package ingest

import (
	"context"
	"log/slog"

	dErrors "lynx/pkg/domain-errors"

	idmodels "lynx/internal/identity/models"
	idstore "lynx/internal/identity/store"
	"lynx/internal/insurance/models"
	insstore "lynx/internal/insurance/store"
	"lynx/internal/platform/metrics"
)

// BundleGenerator derives an insurance bundle from an identity user.
type BundleGenerator interface {
	GenerateBundle(user idmodels.UserProfile, productIDs []int64) models.Bundle
}

// InsuranceResult reports what one run produced.
type InsuranceResult struct {
	Customers  int
	Policies   int
	Claims     int
	Payments   int
	Dependents int
	Failed     int
}

// InsuranceIngestor derives insurance records for every identity user and
// writes each customer bundle in its own transaction.
type InsuranceIngestor struct {
	generator BundleGenerator
	users     idstore.Store
	store     insstore.Store
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

// NewInsuranceIngestor wires an ingestor.
func NewInsuranceIngestor(
	gen BundleGenerator,
	users idstore.Store,
	store insstore.Store,
	m *metrics.Metrics,
	logger *slog.Logger,
) *InsuranceIngestor {
	return &InsuranceIngestor{
		generator: gen,
		users:     users,
		store:     store,
		metrics:   m,
		logger:    logger,
	}
}

// Run reads every identity user and inserts one customer bundle per user.
// It aborts before any write when there are no users or no active products.
// A failed customer is logged and skipped; the run continues.
func (i *InsuranceIngestor) Run(ctx context.Context) (InsuranceResult, error) {
	users, err := i.users.ListUserProfiles(ctx, 0)
	if err != nil {
		return InsuranceResult{}, err
	}
	if len(users) == 0 {
		return InsuranceResult{}, dErrors.New(dErrors.CodeInvalidInput,
			"no identity users found; generate identity data first")
	}

	productIDs, err := i.store.ActiveProductIDs(ctx)
	if err != nil {
		return InsuranceResult{}, err
	}
	if len(productIDs) == 0 {
		return InsuranceResult{}, dErrors.New(dErrors.CodeInvalidInput,
			"no active products found; seed the product catalog first")
	}

	i.logger.Info("deriving insurance records",
		"users", len(users), "activeProducts", len(productIDs))

	var result InsuranceResult
	for n, user := range users {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		bundle := i.generator.GenerateBundle(user, productIDs)
		if err := i.store.InsertCustomerBundle(ctx, bundle); err != nil {
			result.Failed++
			i.metrics.IngestFailures.WithLabelValues("customer_bundle").Inc()
			i.logger.Error("failed to ingest customer bundle",
				"userId", user.UserID, "error", err)
			continue
		}

		result.Customers++
		result.Policies += len(bundle.Policies)
		result.Claims += len(bundle.Claims)
		result.Payments += len(bundle.Payments)
		result.Dependents += len(bundle.Dependents)

		if (n+1)%10 == 0 {
			i.logger.Info("insurance ingest progress",
				"processed", n+1, "total", len(users))
		}
	}

	i.metrics.RecordsGenerated.WithLabelValues("customers").Add(float64(result.Customers))
	i.metrics.RecordsGenerated.WithLabelValues("policies").Add(float64(result.Policies))
	i.metrics.RecordsGenerated.WithLabelValues("claims").Add(float64(result.Claims))
	i.metrics.RecordsGenerated.WithLabelValues("payments").Add(float64(result.Payments))
	i.metrics.RecordsGenerated.WithLabelValues("dependents").Add(float64(result.Dependents))

	i.logger.Info("insurance ingest complete",
		"customers", result.Customers,
		"policies", result.Policies,
		"claims", result.Claims,
		"payments", result.Payments,
		"dependents", result.Dependents,
		"failed", result.Failed,
	)
	return result, nil
}
