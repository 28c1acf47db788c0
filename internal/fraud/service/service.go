// Package service surfaces velocity and risk signals from login sessions:
// IPs shared by multiple users, user-level risk filters and per-user session
// histories.
package service

import (
	"context"
	"log/slog"
	"sort"

	"github.com/mssola/useragent"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"lynx/internal/identity/models"
	idstore "lynx/internal/identity/store"
	"lynx/internal/platform/metrics"
)

const (
	sessionSampleLimit = 0 // unbounded; heuristics need the full population
	ipPatternCap       = 100

	highVelocitySessionThreshold = 3
	highRiskScoreThreshold       = 0.7
)

// Filter is the closed set of user filters.
type Filter string

const (
	FilterHighIPVelocity Filter = "high_ip_velocity"
	FilterHighRisk       Filter = "high_risk"
)

// IPPattern is one shared IP with its aggregate session statistics.
type IPPattern struct {
	IPAddress    string   `json:"ipAddress"`
	UserCount    int      `json:"userCount"`
	SessionCount int      `json:"sessionCount"`
	AvgRiskScore float64  `json:"avgRiskScore"`
	UserIDs      []string `json:"userIds"`
	HighVelocity bool     `json:"highVelocity"`
}

// FlaggedUser is a user matched by a filter.
type FlaggedUser struct {
	UserID       string  `json:"userId"`
	SessionCount int     `json:"sessionCount"`
	AvgRiskScore float64 `json:"avgRiskScore"`
	FlaggedCount int     `json:"flaggedSessions"`
}

// UsersResult wraps a filter answer; an unknown filter yields Count 0.
type UsersResult struct {
	Filter Filter        `json:"filter"`
	Count  int           `json:"count"`
	Users  []FlaggedUser `json:"users"`
}

// IPNode is one shared-IP vertex in the bipartite view.
type IPNode struct {
	ID           string `json:"id"`
	Label        string `json:"label"`
	Type         string `json:"type"`
	UserCount    int    `json:"userCount"`
	HighVelocity bool   `json:"highVelocity"`
}

// IPEdge links a user to a shared IP.
type IPEdge struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
	Type   string `json:"type"`
}

// IPGraph is the bipartite user/IP projection.
type IPGraph struct {
	Nodes []IPNode `json:"nodes"`
	Edges []IPEdge `json:"edges"`
}

// SessionView is one login session annotated with a parsed user agent.
type SessionView struct {
	models.LoginSession
	Browser        string `json:"browser"`
	BrowserVersion string `json:"browserVersion"`
	OS             string `json:"os"`
	Mobile         bool   `json:"mobile"`
}

// Service computes fraud patterns from the document store.
type Service struct {
	identity idstore.Store
	metrics  *metrics.Metrics
	logger   *slog.Logger
	tracer   trace.Tracer
}

// New creates the fraud service.
func New(identity idstore.Store, m *metrics.Metrics, logger *slog.Logger) *Service {
	return &Service{
		identity: identity,
		metrics:  m,
		logger:   logger,
		tracer:   otel.Tracer("lynx/fraud"),
	}
}

type ipAggregate struct {
	users    map[string]bool
	sessions int
	riskSum  float64
	flagged  bool
}

func (s *Service) aggregateByIP(ctx context.Context) (map[string]*ipAggregate, error) {
	sessions, err := s.identity.ListLoginSessions(ctx, sessionSampleLimit)
	if err != nil {
		return nil, err
	}
	byIP := make(map[string]*ipAggregate)
	for _, session := range sessions {
		agg, ok := byIP[session.IPAddress]
		if !ok {
			agg = &ipAggregate{users: make(map[string]bool)}
			byIP[session.IPAddress] = agg
		}
		agg.users[session.UserID] = true
		agg.sessions++
		agg.riskSum += session.RiskScore
		agg.flagged = agg.flagged || session.HighVelocityIP
	}
	return byIP, nil
}

// IPVelocityPatterns finds IPs used by more than one distinct user, sorted by
// user count descending and capped at 100.
func (s *Service) IPVelocityPatterns(ctx context.Context) ([]IPPattern, error) {
	ctx, span := s.tracer.Start(ctx, "fraud.IPVelocityPatterns")
	defer span.End()
	s.metrics.FraudQueries.WithLabelValues("ip_velocity").Inc()

	byIP, err := s.aggregateByIP(ctx)
	if err != nil {
		return nil, err
	}

	patterns := make([]IPPattern, 0, len(byIP))
	for ip, agg := range byIP {
		if len(agg.users) <= 1 {
			continue
		}
		userIDs := make([]string, 0, len(agg.users))
		for id := range agg.users {
			userIDs = append(userIDs, id)
		}
		sort.Strings(userIDs)
		patterns = append(patterns, IPPattern{
			IPAddress:    ip,
			UserCount:    len(agg.users),
			SessionCount: agg.sessions,
			AvgRiskScore: agg.riskSum / float64(agg.sessions),
			UserIDs:      userIDs,
			HighVelocity: agg.flagged,
		})
	}

	sort.SliceStable(patterns, func(i, j int) bool {
		if patterns[i].UserCount != patterns[j].UserCount {
			return patterns[i].UserCount > patterns[j].UserCount
		}
		return patterns[i].IPAddress < patterns[j].IPAddress
	})
	if len(patterns) > ipPatternCap {
		patterns = patterns[:ipPatternCap]
	}

	span.SetAttributes(attribute.Int("fraud.patterns", len(patterns)))
	return patterns, nil
}

// UsersByFilter evaluates one of the closed filters. Unknown filters return
// an empty result, not an error.
func (s *Service) UsersByFilter(ctx context.Context, filter Filter) (*UsersResult, error) {
	ctx, span := s.tracer.Start(ctx, "fraud.UsersByFilter",
		trace.WithAttributes(attribute.String("fraud.filter", string(filter))))
	defer span.End()
	s.metrics.FraudQueries.WithLabelValues("users_by_filter").Inc()

	result := &UsersResult{Filter: filter, Users: []FlaggedUser{}}
	if filter != FilterHighIPVelocity && filter != FilterHighRisk {
		return result, nil
	}

	sessions, err := s.identity.ListLoginSessions(ctx, sessionSampleLimit)
	if err != nil {
		return nil, err
	}

	type userAggregate struct {
		sessions int
		riskSum  float64
		flagged  int
	}
	byUser := make(map[string]*userAggregate)
	for _, session := range sessions {
		agg, ok := byUser[session.UserID]
		if !ok {
			agg = &userAggregate{}
			byUser[session.UserID] = agg
		}
		agg.sessions++
		agg.riskSum += session.RiskScore
		if session.HighVelocityIP {
			agg.flagged++
		}
	}

	for userID, agg := range byUser {
		avg := agg.riskSum / float64(agg.sessions)
		matched := false
		switch filter {
		case FilterHighIPVelocity:
			matched = agg.flagged >= highVelocitySessionThreshold
		case FilterHighRisk:
			matched = avg >= highRiskScoreThreshold
		}
		if matched {
			result.Users = append(result.Users, FlaggedUser{
				UserID:       userID,
				SessionCount: agg.sessions,
				AvgRiskScore: avg,
				FlaggedCount: agg.flagged,
			})
		}
	}

	sort.SliceStable(result.Users, func(i, j int) bool {
		return result.Users[i].UserID < result.Users[j].UserID
	})
	result.Count = len(result.Users)
	return result, nil
}

// IPNodes reshapes the shared-IP grouping as a bipartite graph for the
// visualization layer.
func (s *Service) IPNodes(ctx context.Context) (*IPGraph, error) {
	ctx, span := s.tracer.Start(ctx, "fraud.IPNodes")
	defer span.End()
	s.metrics.FraudQueries.WithLabelValues("ip_nodes").Inc()

	patterns, err := s.IPVelocityPatterns(ctx)
	if err != nil {
		return nil, err
	}

	graph := &IPGraph{Nodes: []IPNode{}, Edges: []IPEdge{}}
	for _, p := range patterns {
		graph.Nodes = append(graph.Nodes, IPNode{
			ID:           "ip-" + p.IPAddress,
			Label:        p.IPAddress,
			Type:         "ip",
			UserCount:    p.UserCount,
			HighVelocity: p.HighVelocity,
		})
		for _, userID := range p.UserIDs {
			graph.Edges = append(graph.Edges, IPEdge{
				ID:     "user-ip-" + userID + "-" + p.IPAddress,
				Source: userID,
				Target: "ip-" + p.IPAddress,
				Type:   "user-ip",
			})
		}
	}
	return graph, nil
}

// UserSessions returns a user's sessions newest first, each annotated with a
// parsed user-agent summary.
func (s *Service) UserSessions(ctx context.Context, userID string) ([]SessionView, error) {
	ctx, span := s.tracer.Start(ctx, "fraud.UserSessions",
		trace.WithAttributes(attribute.String("user.id", userID)))
	defer span.End()
	s.metrics.FraudQueries.WithLabelValues("user_sessions").Inc()

	sessions, err := s.identity.ListLoginSessionsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].Timestamp.After(sessions[j].Timestamp)
	})

	views := make([]SessionView, 0, len(sessions))
	for _, session := range sessions {
		ua := useragent.New(session.UserAgent)
		browser, version := ua.Browser()
		views = append(views, SessionView{
			LoginSession:   session,
			Browser:        browser,
			BrowserVersion: version,
			OS:             ua.OS(),
			Mobile:         ua.Mobile(),
		})
	}
	return views, nil
}
