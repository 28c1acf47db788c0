package generator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lynx/internal/identity/models"
	"lynx/internal/insurance/catalog"
	insmodels "lynx/internal/insurance/models"
)

var productIDs = []int64{1, 2, 3, 4, 5, 6, 7, 8}

func testUser() models.UserProfile {
	now := time.Now().UTC()
	return models.UserProfile{
		UserID:      "user-1",
		Email:       "jane@example.com",
		FirstName:   "Jane",
		LastName:    "Doe",
		DateOfBirth: now.AddDate(-35, 0, 0),
		Phone:       "555-0100",
		Address: models.Address{
			Street:  "1 Main St",
			City:    "Springfield",
			State:   "IL",
			ZipCode: "62701",
		},
		CreatedAt: now.AddDate(0, -6, 0),
	}
}

func TestCustomerFromUser(t *testing.T) {
	g := New(42)
	user := testUser()

	c := g.CustomerFromUser(user)

	assert.Equal(t, user.UserID, c.UserID)
	assert.Equal(t, user.Email, c.Email)
	assert.Equal(t, user.FirstName, c.FirstName)
	assert.Equal(t, user.Address.Street, c.AddressLine1)
	assert.Regexp(t, `^CUST\d{6}$`, c.CustomerNumber)
	assert.Regexp(t, `^\d{4}$`, c.SSNLastFour)

	assert.False(t, c.EnrollmentDate.Before(user.CreatedAt.Truncate(24*time.Hour)))
	assert.False(t, c.EnrollmentDate.After(user.CreatedAt.AddDate(0, 0, 30)))
	assert.Contains(t, []insmodels.CustomerStatus{
		insmodels.CustomerActive, insmodels.CustomerInactive, insmodels.CustomerSuspended,
	}, c.Status)
}

func TestPolicies(t *testing.T) {
	g := New(7)
	enrollment := time.Now().UTC().AddDate(-1, 0, 0).Truncate(24 * time.Hour)

	for i := 0; i < 50; i++ {
		policies := g.Policies(productIDs, enrollment)
		require.GreaterOrEqual(t, len(policies), 1)
		require.LessOrEqual(t, len(policies), 4)

		seen := make(map[int64]bool)
		for _, p := range policies {
			assert.False(t, seen[p.ProductID], "products must be distinct within a customer")
			seen[p.ProductID] = true

			base := catalog.BasePremium(p.ProductID)
			assert.GreaterOrEqual(t, p.PremiumAmount, round2(base*0.9))
			assert.LessOrEqual(t, p.PremiumAmount, round2(base*1.1))
			assert.Equal(t, catalog.Coverage(p.ProductID), p.CoverageAmount)

			assert.False(t, p.EffectiveDate.Before(enrollment))
			assert.False(t, p.EffectiveDate.After(enrollment.AddDate(0, 0, 90)))
			assert.Regexp(t, `^POL\d{7}$`, p.PolicyNumber)
		}
	}
}

func TestClaims_ApprovedAmountBounds(t *testing.T) {
	g := New(11)
	enrollment := time.Now().UTC().AddDate(-3, 0, 0)

	sawApproved, sawOther := false, false
	for i := 0; i < 100; i++ {
		policies := g.Policies(productIDs, enrollment)
		claims, idx := g.Claims(policies)
		require.Len(t, idx, len(claims))

		for j, c := range claims {
			policy := policies[idx[j]]
			assert.False(t, c.IncidentDate.Before(policy.EffectiveDate.AddDate(0, 0, 30)))
			assert.False(t, c.IncidentDate.After(policy.EffectiveDate.AddDate(0, 0, 700)))
			assert.True(t, c.ClaimDate.After(c.IncidentDate))

			if c.Status.IsApproved() {
				sawApproved = true
				require.NotNil(t, c.ApprovedAmount, "approved/paid claims carry an approved amount")
				assert.GreaterOrEqual(t, *c.ApprovedAmount, round2(c.ClaimAmount*0.7))
				assert.LessOrEqual(t, *c.ApprovedAmount, c.ClaimAmount)
			} else {
				sawOther = true
				assert.Nil(t, c.ApprovedAmount)
			}
			if c.Status == insmodels.ClaimDenied {
				assert.NotNil(t, c.DenialReason)
			}
			if c.Status == insmodels.ClaimPaid {
				assert.NotNil(t, c.PaidDate)
			}
		}
	}
	assert.True(t, sawApproved, "expected at least one approved claim across 100 customers")
	assert.True(t, sawOther)
}

func TestPayments_ActivePoliciesOnlyAndNotFutureDated(t *testing.T) {
	g := New(13)
	now := time.Now().UTC()
	enrollment := now.AddDate(-2, 0, 0)

	for i := 0; i < 50; i++ {
		policies := g.Policies(productIDs, enrollment)
		payments, idx := g.Payments(policies)
		require.Len(t, idx, len(payments))

		for j, p := range payments {
			policy := policies[idx[j]]
			assert.Equal(t, insmodels.PolicyActive, policy.Status)
			assert.Equal(t, policy.PremiumAmount, p.PaymentAmount)
			assert.False(t, p.PaymentDate.After(now), "payments must not be future-dated")
			assert.Regexp(t, `^TXN\d{8}$`, p.TransactionID)
		}
	}
}

func TestDependents_DOBWindows(t *testing.T) {
	g := New(17)
	dob := time.Date(1980, 6, 15, 0, 0, 0, 0, time.UTC)

	sawChild := false
	for i := 0; i < 100; i++ {
		deps := g.Dependents(dob)
		require.LessOrEqual(t, len(deps), 3)

		for _, d := range deps {
			switch d.Relationship {
			case "spouse":
				assert.False(t, d.DateOfBirth.Before(dob.AddDate(0, 0, -1825)))
				assert.False(t, d.DateOfBirth.After(dob.AddDate(0, 0, 1825)))
			case "child":
				sawChild = true
				assert.False(t, d.DateOfBirth.Before(dob.AddDate(0, 0, 6570)))
				assert.False(t, d.DateOfBirth.After(dob.AddDate(0, 0, 10950)))
			case "parent":
				assert.False(t, d.DateOfBirth.After(dob.AddDate(0, 0, -9125)))
				assert.False(t, d.DateOfBirth.Before(dob.AddDate(0, 0, -14600)))
			default:
				t.Fatalf("unexpected relationship %q", d.Relationship)
			}
		}
	}
	assert.True(t, sawChild, "expected at least one child dependent across 100 customers")
}

func TestGenerateBundle_EndToEnd(t *testing.T) {
	g := New(23)
	bundle := g.GenerateBundle(testUser(), productIDs)

	assert.Equal(t, "user-1", bundle.Customer.UserID)
	assert.GreaterOrEqual(t, len(bundle.Policies), 1)
	assert.LessOrEqual(t, len(bundle.Policies), 4)
	assert.Len(t, bundle.ClaimPolicyIndex, len(bundle.Claims))
	assert.Len(t, bundle.PaymentPolicyIndex, len(bundle.Payments))
	for _, idx := range bundle.ClaimPolicyIndex {
		assert.Less(t, idx, len(bundle.Policies))
	}
	for _, idx := range bundle.PaymentPolicyIndex {
		assert.Less(t, idx, len(bundle.Policies))
	}
}

func TestSeededReproducibility(t *testing.T) {
	a := New(99).GenerateBundle(testUser(), productIDs)
	b := New(99).GenerateBundle(testUser(), productIDs)

	assert.Equal(t, a.Customer.CustomerNumber, b.Customer.CustomerNumber)
	require.Equal(t, len(a.Policies), len(b.Policies))
	for i := range a.Policies {
		assert.Equal(t, a.Policies[i].PolicyNumber, b.Policies[i].PolicyNumber)
		assert.Equal(t, a.Policies[i].PremiumAmount, b.Policies[i].PremiumAmount)
	}
}
