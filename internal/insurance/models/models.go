// Package models defines the insurance records held in the relational store.
// JSON tags use snake_case to match the column names the API exposes; the
// summary block keeps its own camelCase shape.
package models

import "time"

// CustomerStatus enumerates enrollment states.
type CustomerStatus string

const (
	CustomerActive    CustomerStatus = "active"
	CustomerInactive  CustomerStatus = "inactive"
	CustomerSuspended CustomerStatus = "suspended"
)

// PolicyStatus enumerates policy lifecycle states.
type PolicyStatus string

const (
	PolicyActive    PolicyStatus = "active"
	PolicyLapsed    PolicyStatus = "lapsed"
	PolicyCancelled PolicyStatus = "cancelled"
	PolicyExpired   PolicyStatus = "expired"
)

// ClaimStatus enumerates claim processing states.
type ClaimStatus string

const (
	ClaimSubmitted   ClaimStatus = "submitted"
	ClaimUnderReview ClaimStatus = "under_review"
	ClaimApproved    ClaimStatus = "approved"
	ClaimDenied      ClaimStatus = "denied"
	ClaimPaid        ClaimStatus = "paid"
)

// AllClaimStatuses lists every claim status.
var AllClaimStatuses = []ClaimStatus{
	ClaimSubmitted, ClaimUnderReview, ClaimApproved, ClaimDenied, ClaimPaid,
}

// IsApproved reports whether the claim resulted in an approved amount.
func (s ClaimStatus) IsApproved() bool {
	return s == ClaimApproved || s == ClaimPaid
}

// Customer is the insurance enrollment record derived from an identity user.
type Customer struct {
	CustomerID     int64          `json:"customer_id"`
	UserID         string         `json:"user_id"`
	CustomerNumber string         `json:"customer_number"`
	FirstName      string         `json:"first_name"`
	LastName       string         `json:"last_name"`
	DateOfBirth    time.Time      `json:"date_of_birth"`
	SSNLastFour    string         `json:"ssn_last_four"`
	Email          string         `json:"email"`
	Phone          string         `json:"phone"`
	AddressLine1   string         `json:"address_line1"`
	AddressLine2   *string        `json:"address_line2"`
	City           string         `json:"city"`
	State          string         `json:"state"`
	ZipCode        string         `json:"zip_code"`
	EnrollmentDate time.Time      `json:"enrollment_date"`
	Status         CustomerStatus `json:"status"`
}

// Product is a catalog entry; the table is seeded, never generated.
type Product struct {
	ProductID       int64  `json:"product_id"`
	ProductName     string `json:"product_name"`
	ProductCategory string `json:"product_category"`
	IsActive        bool   `json:"is_active"`
}

// Policy binds a customer to a product.
type Policy struct {
	PolicyID                int64        `json:"policy_id"`
	PolicyNumber            string       `json:"policy_number"`
	CustomerID              int64        `json:"customer_id"`
	ProductID               int64        `json:"product_id"`
	EffectiveDate           time.Time    `json:"effective_date"`
	ExpirationDate          *time.Time   `json:"expiration_date"`
	PremiumAmount           float64      `json:"premium_amount"`
	PaymentFrequency        string       `json:"payment_frequency"`
	Status                  PolicyStatus `json:"status"`
	CoverageAmount          float64      `json:"coverage_amount"`
	BeneficiaryName         *string      `json:"beneficiary_name"`
	BeneficiaryRelationship *string      `json:"beneficiary_relationship"`

	// Populated by joins when listing.
	ProductName     string `json:"product_name,omitempty"`
	ProductCategory string `json:"product_category,omitempty"`
}

// Claim records a loss event against a policy.
// ApprovedAmount is set iff Status is approved or paid.
type Claim struct {
	ClaimID              int64       `json:"claim_id"`
	ClaimNumber          string      `json:"claim_number"`
	PolicyID             int64       `json:"policy_id"`
	CustomerID           int64       `json:"customer_id"`
	ClaimDate            time.Time   `json:"claim_date"`
	IncidentDate         time.Time   `json:"incident_date"`
	ClaimType            string      `json:"claim_type"`
	ClaimAmount          float64     `json:"claim_amount"`
	ApprovedAmount       *float64    `json:"approved_amount"`
	Status               ClaimStatus `json:"status"`
	DenialReason         *string     `json:"denial_reason"`
	DiagnosisCode        string      `json:"diagnosis_code"`
	DiagnosisDescription string      `json:"diagnosis_description"`
	TreatmentType        string      `json:"treatment_type"`
	ProviderName         string      `json:"provider_name"`
	ProviderNPI          string      `json:"provider_npi"`
	SubmittedDate        time.Time   `json:"submitted_date"`
	ProcessedDate        *time.Time  `json:"processed_date"`
	PaidDate             *time.Time  `json:"paid_date"`
	Notes                *string     `json:"notes"`

	// Populated by joins when listing.
	PolicyNumber string `json:"policy_number,omitempty"`
	ProductName  string `json:"product_name,omitempty"`
}

// Payment is one premium installment against a policy.
type Payment struct {
	PaymentID       int64     `json:"payment_id"`
	PolicyID        int64     `json:"policy_id"`
	CustomerID      int64     `json:"customer_id"`
	PaymentDate     time.Time `json:"payment_date"`
	PaymentAmount   float64   `json:"payment_amount"`
	PaymentMethod   string    `json:"payment_method"`
	PaymentStatus   string    `json:"payment_status"`
	TransactionID   string    `json:"transaction_id"`
	PeriodStartDate time.Time `json:"period_start_date"`
	PeriodEndDate   time.Time `json:"period_end_date"`

	// Populated by joins when listing.
	PolicyNumber string `json:"policy_number,omitempty"`
}

// Dependent is a covered (or uncovered) family member of a customer.
type Dependent struct {
	DependentID  int64     `json:"dependent_id"`
	CustomerID   int64     `json:"customer_id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	DateOfBirth  time.Time `json:"date_of_birth"`
	Relationship string    `json:"relationship"`
	SSNLastFour  string    `json:"ssn_last_four"`
	IsCovered    bool      `json:"is_covered"`
}

// Bundle holds everything generated for one customer before insertion.
// Claim and Payment PolicyIndex fields reference positions in Policies since
// database ids do not exist until the bundle is inserted.
type Bundle struct {
	Customer   Customer
	Policies   []Policy
	Claims     []Claim
	Payments   []Payment
	Dependents []Dependent

	// Parallel to Claims and Payments: index into Policies for the policy
	// each record belongs to.
	ClaimPolicyIndex   []int
	PaymentPolicyIndex []int
}
