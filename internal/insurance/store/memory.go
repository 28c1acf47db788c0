package store

import (
	"context"
	"sort"
	"sync"

	"lynx/internal/insurance/models"
)

// MemoryStore is an in-memory Store used in tests. It assigns ids the way
// the database would and mirrors the join fields the SQL queries populate.
type MemoryStore struct {
	mu         sync.RWMutex
	nextID     int64
	products   map[int64]models.Product
	customers  []models.Customer
	policies   []models.Policy
	claims     []models.Claim
	payments   []models.Payment
	dependents []models.Dependent
}

// NewMemory creates a store seeded with the given product catalog entries.
func NewMemory(products []models.Product) *MemoryStore {
	s := &MemoryStore{nextID: 1, products: make(map[int64]models.Product)}
	for _, p := range products {
		s.products[p.ProductID] = p
	}
	return s
}

func (s *MemoryStore) nextIDLocked() int64 {
	id := s.nextID
	s.nextID++
	return id
}

func (s *MemoryStore) InsertCustomerBundle(ctx context.Context, bundle models.Bundle) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	customer := bundle.Customer
	customer.CustomerID = s.nextIDLocked()
	s.customers = append(s.customers, customer)

	policyIDs := make([]int64, len(bundle.Policies))
	for i, p := range bundle.Policies {
		p.PolicyID = s.nextIDLocked()
		p.CustomerID = customer.CustomerID
		policyIDs[i] = p.PolicyID
		s.policies = append(s.policies, p)
	}
	for i, c := range bundle.Claims {
		c.ClaimID = s.nextIDLocked()
		c.CustomerID = customer.CustomerID
		c.PolicyID = policyIDs[bundle.ClaimPolicyIndex[i]]
		s.claims = append(s.claims, c)
	}
	for i, p := range bundle.Payments {
		p.PaymentID = s.nextIDLocked()
		p.CustomerID = customer.CustomerID
		p.PolicyID = policyIDs[bundle.PaymentPolicyIndex[i]]
		s.payments = append(s.payments, p)
	}
	for _, d := range bundle.Dependents {
		d.DependentID = s.nextIDLocked()
		d.CustomerID = customer.CustomerID
		s.dependents = append(s.dependents, d)
	}
	return nil
}

func (s *MemoryStore) ActiveProductIDs(ctx context.Context) ([]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var ids []int64
	for id, p := range s.products {
		if p.IsActive {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (s *MemoryStore) GetCustomerByUserID(ctx context.Context, userID string) (*models.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.customers {
		if c.UserID == userID {
			out := c
			return &out, nil
		}
	}
	return nil, ErrCustomerNotFound
}

func (s *MemoryStore) ListPoliciesByCustomer(ctx context.Context, customerID int64) ([]models.Policy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Policy
	for _, p := range s.policies {
		if p.CustomerID == customerID {
			if product, ok := s.products[p.ProductID]; ok {
				p.ProductName = product.ProductName
				p.ProductCategory = product.ProductCategory
			}
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].EffectiveDate.After(out[j].EffectiveDate)
	})
	return out, nil
}

func (s *MemoryStore) ListClaimsByCustomer(ctx context.Context, customerID int64) ([]models.Claim, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Claim
	for _, c := range s.claims {
		if c.CustomerID == customerID {
			for _, p := range s.policies {
				if p.PolicyID == c.PolicyID {
					c.PolicyNumber = p.PolicyNumber
					if product, ok := s.products[p.ProductID]; ok {
						c.ProductName = product.ProductName
					}
					break
				}
			}
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ClaimDate.After(out[j].ClaimDate)
	})
	return out, nil
}

func (s *MemoryStore) ListRecentPayments(ctx context.Context, customerID int64, limit int) ([]models.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Payment
	for _, p := range s.payments {
		if p.CustomerID == customerID {
			for _, policy := range s.policies {
				if policy.PolicyID == p.PolicyID {
					p.PolicyNumber = policy.PolicyNumber
					break
				}
			}
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PaymentDate.After(out[j].PaymentDate)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryStore) ListDependents(ctx context.Context, customerID int64) ([]models.Dependent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Dependent
	for _, d := range s.dependents {
		if d.CustomerID == customerID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (s *MemoryStore) Counts(ctx context.Context) (Counts, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	counts := Counts{
		Customers:   int64(len(s.customers)),
		TotalClaims: int64(len(s.claims)),
	}
	for _, p := range s.policies {
		if p.Status == models.PolicyActive {
			counts.ActivePolicies++
		}
	}
	for _, c := range s.claims {
		if c.Status.IsApproved() {
			counts.ApprovedClaims++
		}
	}
	return counts, nil
}

func (s *MemoryStore) TruncateAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.customers = nil
	s.policies = nil
	s.claims = nil
	s.payments = nil
	s.dependents = nil
	s.nextID = 1
	return nil
}
