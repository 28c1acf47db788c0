// Package generator derives insurance records from identity users: a customer
// per user, then policies against the fixed product catalog, plus claims,
// premium payments and dependents hanging off those policies.
package generator

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"lynx/internal/identity/models"
	"lynx/internal/insurance/catalog"
	insmodels "lynx/internal/insurance/models"
)

var claimTypes = []string{"accident", "illness", "hospitalization", "disability", "routine_care"}

var treatmentTypes = []string{
	"emergency_room", "inpatient", "outpatient",
	"surgery", "physical_therapy", "diagnostic_test",
}

var paymentMethods = []string{"credit_card", "bank_draft", "check", "payroll_deduction"}

var paymentFrequencies = []string{"monthly", "quarterly", "annually"}

var relationships = []string{"spouse", "child", "parent"}

var providerSuffixes = []string{"Medical Center", "Hospital", "Clinic", "Associates"}

// Generator derives insurance bundles. All randomness flows from the seed so
// a fixed seed reproduces a run exactly.
type Generator struct {
	rand  *rand.Rand
	faker *gofakeit.Faker
	now   time.Time
}

// New returns a Generator seeded from seed. Payments are truncated at the
// current time captured here.
func New(seed int64) *Generator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Generator{
		rand:  rand.New(rand.NewSource(seed)),
		faker: gofakeit.New(seed),
		now:   time.Now().UTC(),
	}
}

// GenerateBundle produces a complete customer bundle for one identity user.
func (g *Generator) GenerateBundle(user models.UserProfile, productIDs []int64) insmodels.Bundle {
	customer := g.CustomerFromUser(user)
	policies := g.Policies(productIDs, customer.EnrollmentDate)

	bundle := insmodels.Bundle{
		Customer:   customer,
		Policies:   policies,
		Dependents: g.Dependents(customer.DateOfBirth),
	}
	bundle.Claims, bundle.ClaimPolicyIndex = g.Claims(policies)
	bundle.Payments, bundle.PaymentPolicyIndex = g.Payments(policies)
	return bundle
}

// CustomerFromUser maps an identity profile to an insurance enrollment.
// Identity fields carry over 1:1; enrollment follows account creation by up
// to 30 days.
func (g *Generator) CustomerFromUser(user models.UserProfile) insmodels.Customer {
	c := insmodels.Customer{
		UserID:         user.UserID,
		CustomerNumber: fmt.Sprintf("CUST%06d", 100000+g.rand.Intn(900000)),
		FirstName:      user.FirstName,
		LastName:       user.LastName,
		DateOfBirth:    user.DateOfBirth,
		SSNLastFour:    fmt.Sprintf("%04d", 1000+g.rand.Intn(9000)),
		Email:          user.Email,
		Phone:          user.Phone,
		AddressLine1:   user.Address.Street,
		City:           user.Address.City,
		State:          user.Address.State,
		ZipCode:        user.Address.ZipCode,
		EnrollmentDate: user.CreatedAt.AddDate(0, 0, g.rand.Intn(31)).Truncate(24 * time.Hour),
		Status:         g.customerStatus(),
	}
	if g.rand.Float64() > 0.7 {
		line2 := fmt.Sprintf("Apt. %d", 1+g.rand.Intn(999))
		c.AddressLine2 = &line2
	}
	return c
}

// Policies selects 1-4 distinct products without replacement and prices each
// at the catalog base premium with a uniform ±10% jitter.
func (g *Generator) Policies(productIDs []int64, enrollmentDate time.Time) []insmodels.Policy {
	if len(productIDs) == 0 {
		return nil
	}
	count := 1 + g.rand.Intn(4)
	if count > len(productIDs) {
		count = len(productIDs)
	}

	perm := g.rand.Perm(len(productIDs))
	policies := make([]insmodels.Policy, 0, count)
	for _, idx := range perm[:count] {
		productID := productIDs[idx]
		effective := enrollmentDate.AddDate(0, 0, g.rand.Intn(91))

		p := insmodels.Policy{
			PolicyNumber:     fmt.Sprintf("POL%07d", 1000000+g.rand.Intn(9000000)),
			ProductID:        productID,
			EffectiveDate:    effective,
			PremiumAmount:    round2(catalog.BasePremium(productID) * g.uniform(0.9, 1.1)),
			PaymentFrequency: paymentFrequencies[g.rand.Intn(len(paymentFrequencies))],
			Status:           g.policyStatus(),
			CoverageAmount:   catalog.Coverage(productID),
		}
		if g.rand.Float64() < 0.1 {
			exp := effective.AddDate(1+g.rand.Intn(3), 0, 0)
			p.ExpirationDate = &exp
		}
		if g.rand.Float64() > 0.3 {
			name := g.faker.Name()
			rel := []string{"spouse", "child", "parent", "sibling"}[g.rand.Intn(4)]
			p.BeneficiaryName = &name
			p.BeneficiaryRelationship = &rel
		}
		policies = append(policies, p)
	}
	return policies
}

// Claims produces claims against random policies. 60% of customers have none.
// The returned index slice maps each claim to its policy's position since
// database ids are assigned at insert time.
func (g *Generator) Claims(policies []insmodels.Policy) ([]insmodels.Claim, []int) {
	if len(policies) == 0 || g.rand.Float64() > 0.4 {
		return nil, nil
	}

	count := 1 + g.rand.Intn(5)
	claims := make([]insmodels.Claim, 0, count)
	policyIdx := make([]int, 0, count)

	for i := 0; i < count; i++ {
		idx := g.rand.Intn(len(policies))
		policy := policies[idx]

		incident := policy.EffectiveDate.AddDate(0, 0, 30+g.rand.Intn(671))
		claimDate := incident.AddDate(0, 0, 1+g.rand.Intn(14))
		amount := round2(g.uniform(500, 50000))
		status := insmodels.AllClaimStatuses[g.rand.Intn(len(insmodels.AllClaimStatuses))]

		c := insmodels.Claim{
			ClaimNumber:          fmt.Sprintf("CLM%07d", 1000000+g.rand.Intn(9000000)),
			ClaimDate:            claimDate,
			IncidentDate:         incident,
			ClaimType:            claimTypes[g.rand.Intn(len(claimTypes))],
			ClaimAmount:          amount,
			Status:               status,
			DiagnosisCode:        g.diagnosisCode(),
			DiagnosisDescription: g.faker.Sentence(6),
			TreatmentType:        treatmentTypes[g.rand.Intn(len(treatmentTypes))],
			ProviderName:         fmt.Sprintf("Dr. %s %s", g.faker.LastName(), providerSuffixes[g.rand.Intn(len(providerSuffixes))]),
			ProviderNPI:          fmt.Sprintf("%d", 1000000000+g.rand.Int63n(9000000000)),
			SubmittedDate:        claimDate,
		}
		if status.IsApproved() {
			approved := round2(amount * g.uniform(0.7, 1.0))
			c.ApprovedAmount = &approved
		}
		if status == insmodels.ClaimDenied {
			reason := g.faker.Sentence(8)
			c.DenialReason = &reason
		}
		if status != insmodels.ClaimSubmitted {
			processed := claimDate.AddDate(0, 0, 5+g.rand.Intn(41))
			c.ProcessedDate = &processed
		}
		if status == insmodels.ClaimPaid {
			paid := claimDate.AddDate(0, 0, 30+g.rand.Intn(61))
			c.PaidDate = &paid
		}
		if g.rand.Float64() > 0.5 {
			notes := g.faker.Sentence(12)
			c.Notes = &notes
		}

		claims = append(claims, c)
		policyIdx = append(policyIdx, idx)
	}
	return claims, policyIdx
}

// Payments synthesises 3-12 monthly installments per active policy starting
// at its effective date, truncated at now so nothing is future-dated.
func (g *Generator) Payments(policies []insmodels.Policy) ([]insmodels.Payment, []int) {
	var payments []insmodels.Payment
	var policyIdx []int

	for idx, policy := range policies {
		if policy.Status != insmodels.PolicyActive {
			continue
		}
		count := 3 + g.rand.Intn(10)
		for i := 0; i < count; i++ {
			paymentDate := policy.EffectiveDate.AddDate(0, 0, 30*i)
			if paymentDate.After(g.now) {
				break
			}
			payments = append(payments, insmodels.Payment{
				PaymentDate:     paymentDate,
				PaymentAmount:   policy.PremiumAmount,
				PaymentMethod:   paymentMethods[g.rand.Intn(len(paymentMethods))],
				PaymentStatus:   g.paymentStatus(),
				TransactionID:   fmt.Sprintf("TXN%08d", 10000000+g.rand.Intn(90000000)),
				PeriodStartDate: paymentDate,
				PeriodEndDate:   paymentDate.AddDate(0, 0, 30),
			})
			policyIdx = append(policyIdx, idx)
		}
	}
	return payments, policyIdx
}

// Dependents produces 0-3 dependents with date-of-birth offsets constrained
// by relationship: spouse ±5y, child 18-30y younger, parent 25-40y older.
func (g *Generator) Dependents(customerDOB time.Time) []insmodels.Dependent {
	if g.rand.Float64() > 0.5 {
		return nil
	}

	count := 1 + g.rand.Intn(3)
	dependents := make([]insmodels.Dependent, 0, count)
	for i := 0; i < count; i++ {
		relationship := relationships[g.rand.Intn(len(relationships))]

		var dob time.Time
		switch relationship {
		case "spouse":
			dob = customerDOB.AddDate(0, 0, g.rand.Intn(3651)-1825)
		case "child":
			dob = customerDOB.AddDate(0, 0, 6570+g.rand.Intn(4381))
		default: // parent
			dob = customerDOB.AddDate(0, 0, -(9125 + g.rand.Intn(5476)))
		}

		dependents = append(dependents, insmodels.Dependent{
			FirstName:    g.faker.FirstName(),
			LastName:     g.faker.LastName(),
			DateOfBirth:  dob,
			Relationship: relationship,
			SSNLastFour:  fmt.Sprintf("%04d", 1000+g.rand.Intn(9000)),
			IsCovered:    g.rand.Intn(2) == 0,
		})
	}
	return dependents
}

func (g *Generator) customerStatus() insmodels.CustomerStatus {
	switch r := g.rand.Float64() * 100; {
	case r < 85:
		return insmodels.CustomerActive
	case r < 95:
		return insmodels.CustomerInactive
	default:
		return insmodels.CustomerSuspended
	}
}

func (g *Generator) policyStatus() insmodels.PolicyStatus {
	switch r := g.rand.Float64() * 100; {
	case r < 80:
		return insmodels.PolicyActive
	case r < 90:
		return insmodels.PolicyLapsed
	case r < 95:
		return insmodels.PolicyCancelled
	default:
		return insmodels.PolicyExpired
	}
}

func (g *Generator) paymentStatus() string {
	switch r := g.rand.Float64() * 100; {
	case r < 95:
		return "completed"
	case r < 98:
		return "failed"
	default:
		return "pending"
	}
}

func (g *Generator) diagnosisCode() string {
	letters := []byte{'A', 'B', 'C', 'D', 'S', 'T'}
	return fmt.Sprintf("%c%d.%d", letters[g.rand.Intn(len(letters))], 10+g.rand.Intn(90), g.rand.Intn(10))
}

func (g *Generator) uniform(min, max float64) float64 {
	return min + g.rand.Float64()*(max-min)
}

func round2(f float64) float64 {
	return float64(int(f*100+0.5)) / 100
}
