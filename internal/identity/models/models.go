// Package models defines the identity-verification records held in the
// document store. Field names follow the persisted JSON document shape.
package models

import "time"

// VerificationStatus enumerates the lifecycle states of a verification.
type VerificationStatus string

const (
	StatusPending        VerificationStatus = "pending"
	StatusApproved       VerificationStatus = "approved"
	StatusRejected       VerificationStatus = "rejected"
	StatusUnderReview    VerificationStatus = "under_review"
	StatusNeedsMoreInfo  VerificationStatus = "needs_additional_info"
	StatusExpired        VerificationStatus = "expired"
	StatusCancelled      VerificationStatus = "cancelled"
)

// AllStatuses lists every valid verification status.
var AllStatuses = []VerificationStatus{
	StatusPending, StatusApproved, StatusRejected, StatusUnderReview,
	StatusNeedsMoreInfo, StatusExpired, StatusCancelled,
}

// IsTerminal reports whether no further transition is expected from the
// status. Review fields are populated if and only if the status is terminal.
func (s VerificationStatus) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected || s == StatusExpired
}

// RiskLevel buckets a verification's assessed risk.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// AllRiskLevels lists every risk level in ascending severity.
var AllRiskLevels = []RiskLevel{RiskLow, RiskMedium, RiskHigh, RiskCritical}

// Address is a postal address embedded in a user profile.
type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
	Country string `json:"country"`
}

// Geolocation is an approximate location attached to sessions and attempts.
type Geolocation struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	City      string  `json:"city"`
	Country   string  `json:"country"`
}

// UserProfile is an immutable synthetic identity.
type UserProfile struct {
	UserID      string    `json:"userId"`
	Email       string    `json:"email"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	DateOfBirth time.Time `json:"dateOfBirth"`
	Phone       string    `json:"phone"`
	Address     Address   `json:"address"`
	CreatedAt   time.Time `json:"createdAt"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// Verification is an identity verification belonging to one user.
// ReviewedAt, ReviewedBy and ProcessingTime are set iff the status is
// terminal; ProcessingTime is ReviewedAt minus SubmittedAt in seconds.
type Verification struct {
	VerificationID     string             `json:"verificationId"`
	UserID             string             `json:"userId"`
	Status             VerificationStatus `json:"status"`
	RiskLevel          RiskLevel          `json:"riskLevel"`
	RiskScore          float64            `json:"riskScore"`
	TriggeredRules     []string           `json:"triggeredRules"`
	VerificationMethod string             `json:"verificationMethod"`
	SubmittedAt        time.Time          `json:"submittedAt"`
	ReviewedAt         *time.Time         `json:"reviewedAt,omitempty"`
	ReviewedBy         string             `json:"reviewedBy,omitempty"`
	ProcessingTime     *int64             `json:"processingTime,omitempty"`
	RejectionReason    string             `json:"rejectionReason,omitempty"`
}

// VerificationAttempt is a single submission attempt against a verification.
type VerificationAttempt struct {
	AttemptID         string      `json:"attemptId"`
	VerificationID    string      `json:"verificationId"`
	AttemptNumber     int         `json:"attemptNumber"`
	Timestamp         time.Time   `json:"timestamp"`
	IPAddress         string      `json:"ipAddress"`
	UserAgent         string      `json:"userAgent"`
	DeviceFingerprint string      `json:"deviceFingerprint"`
	Location          Geolocation `json:"location"`
	Duration          int         `json:"duration"`
	HighVelocityIP    bool        `json:"highVelocityIp"`
}

// LoginSession is an authentication session independent of any verification.
type LoginSession struct {
	SessionID      string      `json:"sessionId"`
	UserID         string      `json:"userId"`
	Timestamp      time.Time   `json:"timestamp"`
	IPAddress      string      `json:"ipAddress"`
	UserAgent      string      `json:"userAgent"`
	Location       Geolocation `json:"location"`
	Duration       int         `json:"duration"`
	ActionCount    int         `json:"actionCount"`
	RiskScore      float64     `json:"riskScore"`
	HighVelocityIP bool        `json:"highVelocityIp"`
}

// Batch groups the records produced by one generator run.
type Batch struct {
	UserProfiles  []UserProfile
	Verifications []Verification
	Attempts      []VerificationAttempt
	LoginSessions []LoginSession
}
