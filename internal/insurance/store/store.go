// Package store persists insurance records in the relational database.
package store

import (
	"context"

	dErrors "lynx/pkg/domain-errors"

	"lynx/internal/insurance/models"
)

// ErrCustomerNotFound is returned when no customer is enrolled for a user.
var ErrCustomerNotFound = dErrors.New(dErrors.CodeNotFound, "customer not found")

// Counts summarises the relational tables for the stats endpoint.
type Counts struct {
	Customers      int64 `json:"customers"`
	ActivePolicies int64 `json:"activePolicies"`
	TotalClaims    int64 `json:"totalClaims"`
	ApprovedClaims int64 `json:"approvedClaims"`
}

// Store is the relational persistence interface consumed by ingestion and
// the graph service.
type Store interface {
	// InsertCustomerBundle writes a customer with all dependent records in
	// one transaction. Policy ids assigned by the database are fixed up on
	// claims and payments via the bundle's policy index slices.
	InsertCustomerBundle(ctx context.Context, bundle models.Bundle) error

	ActiveProductIDs(ctx context.Context) ([]int64, error)

	GetCustomerByUserID(ctx context.Context, userID string) (*models.Customer, error)
	ListPoliciesByCustomer(ctx context.Context, customerID int64) ([]models.Policy, error)
	ListClaimsByCustomer(ctx context.Context, customerID int64) ([]models.Claim, error)
	ListRecentPayments(ctx context.Context, customerID int64, limit int) ([]models.Payment, error)
	ListDependents(ctx context.Context, customerID int64) ([]models.Dependent, error)

	Counts(ctx context.Context) (Counts, error)

	// TruncateAll clears every generated table, children first. The product
	// catalog is left untouched.
	TruncateAll(ctx context.Context) error
}
