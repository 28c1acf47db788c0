// Package generator produces synthetic identity-verification data: user
// profiles, login sessions, verifications and verification attempts, with a
// simulated IP-sharing pattern that the fraud services later rediscover.
package generator

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"

	"lynx/internal/identity/models"
)

// Config controls batch shapes and the velocity simulation. All randomness
// flows from Seed so a fixed seed reproduces a run exactly.
type Config struct {
	Seed int64

	// SharedIPPoolSize is the number of IPs drawn once per generator
	// instance and reused across users to create clusters.
	SharedIPPoolSize int
	// HighVelocityFraction of the shared pool is flagged as high-velocity.
	HighVelocityFraction float64
	// VelocityProneProbability is the per-user chance of being prone to
	// shared-IP usage.
	VelocityProneProbability float64
	// SharedIPChanceProne and SharedIPChanceNormal are the per-session (and
	// per-attempt) probabilities of drawing from the shared pool.
	SharedIPChanceProne  float64
	SharedIPChanceNormal float64

	MinSessionsPerUser          int
	MaxSessionsPerUser          int
	MinVerificationsPerUser     int
	MaxVerificationsPerUser     int
	MinAttemptsPerVerification  int
	MaxAttemptsPerVerification  int
}

// DefaultConfig returns the generation defaults.
func DefaultConfig() Config {
	return Config{
		Seed:                        time.Now().UnixNano(),
		SharedIPPoolSize:            20,
		HighVelocityFraction:        0.4,
		VelocityProneProbability:    0.2,
		SharedIPChanceProne:         0.8,
		SharedIPChanceNormal:        0.1,
		MinSessionsPerUser:          5,
		MaxSessionsPerUser:          30,
		MinVerificationsPerUser:     1,
		MaxVerificationsPerUser:     3,
		MinAttemptsPerVerification:  1,
		MaxAttemptsPerVerification:  5,
	}
}

var verificationMethods = []string{"manual_review", "automated", "hybrid", "video_call"}

var rejectionReasons = []string{
	"document_expired", "poor_image_quality", "document_mismatch",
	"fraudulent_document", "underage", "sanctions_list_match",
	"incomplete_information",
}

// ruleVocabulary is the fixed set of rules a verification can trigger.
var ruleVocabulary = []string{
	"ip_velocity", "device_reuse", "geo_mismatch", "age_mismatch",
	"address_mismatch", "name_mismatch", "disposable_email",
	"proxy_detected", "multiple_attempts", "sanctions_hit",
	"watchlist_hit", "synthetic_identity_signal",
}

// ruleCountRange maps a risk level to the [min,max] number of triggered
// rules sampled from the vocabulary without replacement.
var ruleCountRange = map[models.RiskLevel][2]int{
	models.RiskLow:      {0, 1},
	models.RiskMedium:   {1, 3},
	models.RiskHigh:     {2, 5},
	models.RiskCritical: {4, 8},
}

// Generator produces identity batches. The shared IP pool is fixed at
// construction so every batch from one instance clusters on the same IPs.
type Generator struct {
	cfg           Config
	rand          *rand.Rand
	faker         *gofakeit.Faker
	sharedIPs     []string
	highVelocity  map[string]bool
}

// New returns a Generator with its shared-IP pool drawn.
func New(cfg Config) *Generator {
	def := DefaultConfig()
	if cfg.Seed == 0 {
		cfg.Seed = def.Seed
	}
	if cfg.SharedIPPoolSize <= 0 {
		cfg.SharedIPPoolSize = def.SharedIPPoolSize
	}
	if cfg.HighVelocityFraction <= 0 {
		cfg.HighVelocityFraction = def.HighVelocityFraction
	}
	if cfg.VelocityProneProbability <= 0 {
		cfg.VelocityProneProbability = def.VelocityProneProbability
	}
	if cfg.SharedIPChanceProne <= 0 {
		cfg.SharedIPChanceProne = def.SharedIPChanceProne
	}
	if cfg.SharedIPChanceNormal <= 0 {
		cfg.SharedIPChanceNormal = def.SharedIPChanceNormal
	}
	if cfg.MinSessionsPerUser <= 0 {
		cfg.MinSessionsPerUser = def.MinSessionsPerUser
	}
	if cfg.MaxSessionsPerUser < cfg.MinSessionsPerUser {
		cfg.MaxSessionsPerUser = def.MaxSessionsPerUser
	}
	if cfg.MinVerificationsPerUser <= 0 {
		cfg.MinVerificationsPerUser = def.MinVerificationsPerUser
	}
	if cfg.MaxVerificationsPerUser < cfg.MinVerificationsPerUser {
		cfg.MaxVerificationsPerUser = def.MaxVerificationsPerUser
	}
	if cfg.MinAttemptsPerVerification <= 0 {
		cfg.MinAttemptsPerVerification = def.MinAttemptsPerVerification
	}
	if cfg.MaxAttemptsPerVerification < cfg.MinAttemptsPerVerification {
		cfg.MaxAttemptsPerVerification = def.MaxAttemptsPerVerification
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	faker := gofakeit.New(cfg.Seed)

	g := &Generator{
		cfg:          cfg,
		rand:         rng,
		faker:        faker,
		highVelocity: make(map[string]bool),
	}

	g.sharedIPs = make([]string, cfg.SharedIPPoolSize)
	for i := range g.sharedIPs {
		g.sharedIPs[i] = g.randomIP()
	}
	for _, ip := range g.sharedIPs {
		if g.rand.Float64() < cfg.HighVelocityFraction {
			g.highVelocity[ip] = true
		}
	}

	return g
}

// GenerateBatch synthesises count users together with their sessions,
// verifications and attempts. It respects context cancellation between
// users.
func (g *Generator) GenerateBatch(ctx context.Context, count int) (models.Batch, error) {
	var batch models.Batch

	for i := 0; i < count; i++ {
		if err := ctx.Err(); err != nil {
			return models.Batch{}, err
		}

		user := g.userProfile()
		batch.UserProfiles = append(batch.UserProfiles, user)

		prone := g.rand.Float64() < g.cfg.VelocityProneProbability

		numSessions := g.intBetween(g.cfg.MinSessionsPerUser, g.cfg.MaxSessionsPerUser)
		for s := 0; s < numSessions; s++ {
			batch.LoginSessions = append(batch.LoginSessions, g.loginSession(user.UserID, prone))
		}

		numVerifications := g.intBetween(g.cfg.MinVerificationsPerUser, g.cfg.MaxVerificationsPerUser)
		for v := 0; v < numVerifications; v++ {
			verification := g.verification(user.UserID)
			batch.Verifications = append(batch.Verifications, verification)

			numAttempts := g.intBetween(g.cfg.MinAttemptsPerVerification, g.cfg.MaxAttemptsPerVerification)
			for a := 1; a <= numAttempts; a++ {
				batch.Attempts = append(batch.Attempts, g.attempt(verification.VerificationID, a, prone))
			}
		}
	}

	return batch, nil
}

func (g *Generator) userProfile() models.UserProfile {
	now := time.Now().UTC()
	createdAt := now.Add(-time.Duration(g.rand.Intn(2*365*24)) * time.Hour)
	age := 18 + g.rand.Intn(63) // 18-80
	dob := now.AddDate(-age, 0, -g.rand.Intn(365))

	first := g.faker.FirstName()
	last := g.faker.LastName()

	return models.UserProfile{
		UserID:      uuid.NewString(),
		Email:       g.faker.Email(),
		FirstName:   first,
		LastName:    last,
		DateOfBirth: dob.Truncate(24 * time.Hour),
		Phone:       g.faker.Phone(),
		Address: models.Address{
			Street:  g.faker.Street(),
			City:    g.faker.City(),
			State:   g.faker.State(),
			ZipCode: g.faker.Zip(),
			Country: g.faker.CountryAbr(),
		},
		CreatedAt:   createdAt,
		LastUpdated: now,
	}
}

func (g *Generator) verification(userID string) models.Verification {
	now := time.Now().UTC()
	status := models.AllStatuses[g.rand.Intn(len(models.AllStatuses))]
	riskLevel := models.AllRiskLevels[g.rand.Intn(len(models.AllRiskLevels))]

	v := models.Verification{
		VerificationID:     uuid.NewString(),
		UserID:             userID,
		Status:             status,
		RiskLevel:          riskLevel,
		RiskScore:          round3(g.rand.Float64()),
		TriggeredRules:     g.triggeredRules(riskLevel),
		VerificationMethod: verificationMethods[g.rand.Intn(len(verificationMethods))],
		SubmittedAt:        now.Add(-time.Duration(g.rand.Intn(60*24*60)) * time.Minute),
	}

	if status.IsTerminal() {
		reviewedAt := v.SubmittedAt.Add(time.Duration(5+g.rand.Intn(4316)) * time.Minute)
		processing := int64(reviewedAt.Sub(v.SubmittedAt).Seconds())
		v.ReviewedAt = &reviewedAt
		v.ReviewedBy = fmt.Sprintf("reviewer_%d", 1+g.rand.Intn(50))
		v.ProcessingTime = &processing
	}
	if status == models.StatusRejected {
		v.RejectionReason = rejectionReasons[g.rand.Intn(len(rejectionReasons))]
	}

	return v
}

// triggeredRules samples without replacement from the rule vocabulary, with
// the sample size keyed by risk level.
func (g *Generator) triggeredRules(level models.RiskLevel) []string {
	bounds := ruleCountRange[level]
	n := g.intBetween(bounds[0], bounds[1])
	if n == 0 {
		return nil
	}
	perm := g.rand.Perm(len(ruleVocabulary))
	rules := make([]string, 0, n)
	for _, idx := range perm[:n] {
		rules = append(rules, ruleVocabulary[idx])
	}
	return rules
}

func (g *Generator) attempt(verificationID string, number int, prone bool) models.VerificationAttempt {
	ip := g.pickIP(prone)
	return models.VerificationAttempt{
		AttemptID:         uuid.NewString(),
		VerificationID:    verificationID,
		AttemptNumber:     number,
		Timestamp:         time.Now().UTC().Add(-time.Duration(g.rand.Intn(30*24*60)) * time.Minute),
		IPAddress:         ip,
		UserAgent:         g.faker.UserAgent(),
		DeviceFingerprint: g.fingerprint(),
		Location:          g.location(),
		Duration:          30 + g.rand.Intn(571),
		HighVelocityIP:    g.highVelocity[ip],
	}
}

func (g *Generator) loginSession(userID string, prone bool) models.LoginSession {
	ip := g.pickIP(prone)
	risk := round3(g.rand.Float64())
	// Sessions on high-velocity IPs skew risky so the heuristics have
	// signal to find.
	if g.highVelocity[ip] {
		risk = round3(0.5 + g.rand.Float64()*0.5)
	}
	return models.LoginSession{
		SessionID:      uuid.NewString(),
		UserID:         userID,
		Timestamp:      time.Now().UTC().Add(-time.Duration(g.rand.Intn(90*24*60)) * time.Minute),
		IPAddress:      ip,
		UserAgent:      g.faker.UserAgent(),
		Location:       g.location(),
		Duration:       30 + g.rand.Intn(3571),
		ActionCount:    1 + g.rand.Intn(50),
		RiskScore:      risk,
		HighVelocityIP: g.highVelocity[ip],
	}
}

// pickIP draws from the shared pool with the configured probability,
// otherwise mints a fresh IP.
func (g *Generator) pickIP(prone bool) string {
	chance := g.cfg.SharedIPChanceNormal
	if prone {
		chance = g.cfg.SharedIPChanceProne
	}
	if g.rand.Float64() < chance {
		return g.sharedIPs[g.rand.Intn(len(g.sharedIPs))]
	}
	return g.randomIP()
}

func (g *Generator) randomIP() string {
	return fmt.Sprintf("%d.%d.%d.%d",
		1+g.rand.Intn(223), g.rand.Intn(256), g.rand.Intn(256), 1+g.rand.Intn(254))
}

func (g *Generator) fingerprint() string {
	const hex = "0123456789abcdef"
	buf := make([]byte, 64)
	for i := range buf {
		buf[i] = hex[g.rand.Intn(len(hex))]
	}
	return string(buf)
}

func (g *Generator) location() models.Geolocation {
	return models.Geolocation{
		Latitude:  round3(g.rand.Float64()*180 - 90),
		Longitude: round3(g.rand.Float64()*360 - 180),
		City:      g.faker.City(),
		Country:   g.faker.CountryAbr(),
	}
}

// intBetween returns a uniform value in [min, max].
func (g *Generator) intBetween(min, max int) int {
	if max <= min {
		return min
	}
	return min + g.rand.Intn(max-min+1)
}

func round3(f float64) float64 {
	return float64(int(f*1000)) / 1000
}
