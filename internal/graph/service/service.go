// Package service assembles the graph projection of identity data and joins
// it with insurance records for the node detail view.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	dErrors "lynx/pkg/domain-errors"

	idmodels "lynx/internal/identity/models"
	idstore "lynx/internal/identity/store"
	insmodels "lynx/internal/insurance/models"
	insstore "lynx/internal/insurance/store"
)

const (
	userNodeLimit         = 100
	verificationNodeLimit = 500
	attemptNodeLimit      = 1000
	recentPaymentLimit    = 10

	// DefaultMaxAttemptsPerVerification caps attempt nodes per verification
	// in the graph view. Presentation policy, not a data constraint.
	DefaultMaxAttemptsPerVerification = 3
)

var statusColors = map[idmodels.VerificationStatus]string{
	idmodels.StatusApproved:      "green",
	idmodels.StatusRejected:      "red",
	idmodels.StatusPending:       "yellow",
	idmodels.StatusUnderReview:   "orange",
	idmodels.StatusNeedsMoreInfo: "blue",
	idmodels.StatusExpired:       "gray",
	idmodels.StatusCancelled:     "gray",
}

// Node is one graph vertex.
type Node struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Type        string `json:"type"`
	Group       string `json:"group"`
	Status      string `json:"status,omitempty"`
	StatusColor string `json:"statusColor,omitempty"`
	Data        any    `json:"data"`
}

// Edge is one graph relationship.
type Edge struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
	Label  string `json:"label"`
	Type   string `json:"type"`
}

// GraphStats accompanies the graph payload.
type GraphStats struct {
	TotalUsers         int `json:"totalUsers"`
	TotalVerifications int `json:"totalVerifications"`
	TotalAttempts      int `json:"totalAttempts"`
}

// Graph is the full graph-data response.
type Graph struct {
	Nodes []Node     `json:"nodes"`
	Edges []Edge     `json:"edges"`
	Stats GraphStats `json:"stats"`
}

// InsuranceSummary aggregates a customer's portfolio.
type InsuranceSummary struct {
	TotalMonthlyPremium  float64 `json:"totalMonthlyPremium"`
	ActivePolicies       int     `json:"activePolicies"`
	TotalPolicies        int     `json:"totalPolicies"`
	TotalClaimsSubmitted int     `json:"totalClaimsSubmitted"`
	TotalClaimsApproved  int     `json:"totalClaimsApproved"`
	TotalClaimsAmount    float64 `json:"totalClaimsAmount"`
	TotalPaidAmount      float64 `json:"totalPaidAmount"`
	ClaimApprovalRate    float64 `json:"claimApprovalRate"`
}

// InsuranceData is the node insurance detail response. When the user has no
// customer record only HasInsurance and Message are populated.
type InsuranceData struct {
	HasInsurance bool                  `json:"hasInsurance"`
	Message      string                `json:"message,omitempty"`
	Customer     *insmodels.Customer   `json:"customer,omitempty"`
	Policies     []insmodels.Policy    `json:"policies,omitempty"`
	Claims       []insmodels.Claim     `json:"claims,omitempty"`
	Payments     []insmodels.Payment   `json:"payments,omitempty"`
	Dependents   []insmodels.Dependent `json:"dependents,omitempty"`
	Summary      *InsuranceSummary     `json:"summary,omitempty"`
}

// Stats is the combined stats response.
type Stats struct {
	IDV       idstore.Counts  `json:"idv"`
	Insurance insstore.Counts `json:"insurance"`
}

// Service reads from both stores to build graph views.
type Service struct {
	identity    idstore.Store
	insurance   insstore.Store
	maxAttempts int
	logger      *slog.Logger
	tracer      trace.Tracer
}

// Option configures a Service.
type Option func(*Service)

// WithMaxAttemptsPerVerification overrides the attempt display cap.
func WithMaxAttemptsPerVerification(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxAttempts = n
		}
	}
}

// New creates the graph service.
func New(identity idstore.Store, insurance insstore.Store, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		identity:    identity,
		insurance:   insurance,
		maxAttempts: DefaultMaxAttemptsPerVerification,
		logger:      logger,
		tracer:      otel.Tracer("lynx/graph"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GraphData projects users, verifications and attempts into nodes and edges.
// Attempt nodes are capped per verification, so the projection is lossy on
// purpose.
func (s *Service) GraphData(ctx context.Context) (*Graph, error) {
	ctx, span := s.tracer.Start(ctx, "graph.GraphData")
	defer span.End()

	users, err := s.identity.ListUserProfiles(ctx, userNodeLimit)
	if err != nil {
		return nil, err
	}
	verifications, err := s.identity.ListVerifications(ctx, verificationNodeLimit)
	if err != nil {
		return nil, err
	}
	attempts, err := s.identity.ListAttempts(ctx, attemptNodeLimit)
	if err != nil {
		return nil, err
	}

	g := &Graph{
		Nodes: make([]Node, 0, len(users)+len(verifications)),
		Edges: make([]Edge, 0, len(verifications)),
		Stats: GraphStats{
			TotalUsers:         len(users),
			TotalVerifications: len(verifications),
			TotalAttempts:      len(attempts),
		},
	}

	for _, u := range users {
		g.Nodes = append(g.Nodes, Node{
			ID:    u.UserID,
			Label: u.FirstName + " " + u.LastName,
			Type:  "user",
			Group: "user",
			Data:  u,
		})
	}

	for _, v := range verifications {
		color, ok := statusColors[v.Status]
		if !ok {
			color = "gray"
		}
		g.Nodes = append(g.Nodes, Node{
			ID:          v.VerificationID,
			Label:       fmt.Sprintf("Verification\n%s", v.Status),
			Type:        "verification",
			Group:       "verification",
			Status:      string(v.Status),
			StatusColor: color,
			Data:        v,
		})
		g.Edges = append(g.Edges, Edge{
			ID:     "user-ver-" + v.VerificationID,
			Source: v.UserID,
			Target: v.VerificationID,
			Label:  "initiated",
			Type:   "user-verification",
		})
	}

	attemptCount := make(map[string]int)
	for _, a := range attempts {
		if attemptCount[a.VerificationID] >= s.maxAttempts {
			continue
		}
		attemptCount[a.VerificationID]++

		g.Nodes = append(g.Nodes, Node{
			ID:    a.AttemptID,
			Label: fmt.Sprintf("Attempt #%d", a.AttemptNumber),
			Type:  "attempt",
			Group: "attempt",
			Data:  a,
		})
		g.Edges = append(g.Edges, Edge{
			ID:     "ver-att-" + a.AttemptID,
			Source: a.VerificationID,
			Target: a.AttemptID,
			Label:  fmt.Sprintf("attempt #%d", a.AttemptNumber),
			Type:   "verification-attempt",
		})
	}

	span.SetAttributes(
		attribute.Int("graph.nodes", len(g.Nodes)),
		attribute.Int("graph.edges", len(g.Edges)),
	)
	return g, nil
}

// InsuranceData joins the relational records for one user node. A user with
// no customer record is a valid answer, not an error.
func (s *Service) InsuranceData(ctx context.Context, userID string) (*InsuranceData, error) {
	ctx, span := s.tracer.Start(ctx, "graph.InsuranceData",
		trace.WithAttributes(attribute.String("user.id", userID)))
	defer span.End()

	if _, err := s.identity.GetUserProfile(ctx, userID); err != nil {
		return nil, err
	}

	customer, err := s.insurance.GetCustomerByUserID(ctx, userID)
	if err != nil {
		if dErrors.Is(err, dErrors.CodeNotFound) {
			return &InsuranceData{
				HasInsurance: false,
				Message:      "No insurance data found for this user",
			}, nil
		}
		return nil, err
	}

	policies, err := s.insurance.ListPoliciesByCustomer(ctx, customer.CustomerID)
	if err != nil {
		return nil, err
	}
	claims, err := s.insurance.ListClaimsByCustomer(ctx, customer.CustomerID)
	if err != nil {
		return nil, err
	}
	payments, err := s.insurance.ListRecentPayments(ctx, customer.CustomerID, recentPaymentLimit)
	if err != nil {
		return nil, err
	}
	dependents, err := s.insurance.ListDependents(ctx, customer.CustomerID)
	if err != nil {
		return nil, err
	}

	return &InsuranceData{
		HasInsurance: true,
		Customer:     customer,
		Policies:     policies,
		Claims:       claims,
		Payments:     payments,
		Dependents:   dependents,
		Summary:      summarize(policies, claims),
	}, nil
}

// Stats returns counts from both stores.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	ctx, span := s.tracer.Start(ctx, "graph.Stats")
	defer span.End()

	idv, err := s.identity.Counts(ctx)
	if err != nil {
		return nil, err
	}
	ins, err := s.insurance.Counts(ctx)
	if err != nil {
		return nil, err
	}
	return &Stats{IDV: idv, Insurance: ins}, nil
}

func summarize(policies []insmodels.Policy, claims []insmodels.Claim) *InsuranceSummary {
	summary := &InsuranceSummary{
		TotalPolicies:        len(policies),
		TotalClaimsSubmitted: len(claims),
	}
	for _, p := range policies {
		if p.Status == insmodels.PolicyActive {
			summary.ActivePolicies++
			summary.TotalMonthlyPremium += p.PremiumAmount
		}
	}
	for _, c := range claims {
		summary.TotalClaimsAmount += c.ClaimAmount
		if c.Status.IsApproved() {
			summary.TotalClaimsApproved++
		}
		if c.ApprovedAmount != nil {
			summary.TotalPaidAmount += *c.ApprovedAmount
		}
	}
	if summary.TotalClaimsSubmitted > 0 {
		summary.ClaimApprovalRate = float64(summary.TotalClaimsApproved) / float64(summary.TotalClaimsSubmitted) * 100
	}
	return summary
}
