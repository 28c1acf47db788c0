package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	dErrors "lynx/pkg/domain-errors"

	"lynx/internal/insurance/models"
)

// PostgresStore implements Store on a pgx connection pool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgres wraps the pool.
func NewPostgres(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) InsertCustomerBundle(ctx context.Context, bundle models.Bundle) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "begin transaction")
	}
	defer tx.Rollback(ctx)

	c := bundle.Customer
	var customerID int64
	err = tx.QueryRow(ctx, `
		INSERT INTO customers (
			user_id, customer_number, first_name, last_name, date_of_birth,
			ssn_last_four, email, phone, address_line1, address_line2,
			city, state, zip_code, enrollment_date, status
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
		RETURNING customer_id`,
		c.UserID, c.CustomerNumber, c.FirstName, c.LastName, c.DateOfBirth,
		c.SSNLastFour, c.Email, c.Phone, c.AddressLine1, c.AddressLine2,
		c.City, c.State, c.ZipCode, c.EnrollmentDate, c.Status,
	).Scan(&customerID)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "insert customer")
	}

	policyIDs := make([]int64, len(bundle.Policies))
	for i, p := range bundle.Policies {
		err = tx.QueryRow(ctx, `
			INSERT INTO policies (
				policy_number, customer_id, product_id, effective_date,
				expiration_date, premium_amount, payment_frequency, status,
				coverage_amount, beneficiary_name, beneficiary_relationship
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
			RETURNING policy_id`,
			p.PolicyNumber, customerID, p.ProductID, p.EffectiveDate,
			p.ExpirationDate, p.PremiumAmount, p.PaymentFrequency, p.Status,
			p.CoverageAmount, p.BeneficiaryName, p.BeneficiaryRelationship,
		).Scan(&policyIDs[i])
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "insert policy")
		}
	}

	for i, cl := range bundle.Claims {
		policyID := policyIDs[bundle.ClaimPolicyIndex[i]]
		_, err = tx.Exec(ctx, `
			INSERT INTO claims (
				claim_number, policy_id, customer_id, claim_date, incident_date,
				claim_type, claim_amount, approved_amount, status, denial_reason,
				diagnosis_code, diagnosis_description, treatment_type,
				provider_name, provider_npi, submitted_date, processed_date,
				paid_date, notes
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)`,
			cl.ClaimNumber, policyID, customerID, cl.ClaimDate, cl.IncidentDate,
			cl.ClaimType, cl.ClaimAmount, cl.ApprovedAmount, cl.Status, cl.DenialReason,
			cl.DiagnosisCode, cl.DiagnosisDescription, cl.TreatmentType,
			cl.ProviderName, cl.ProviderNPI, cl.SubmittedDate, cl.ProcessedDate,
			cl.PaidDate, cl.Notes,
		)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "insert claim")
		}
	}

	for i, p := range bundle.Payments {
		policyID := policyIDs[bundle.PaymentPolicyIndex[i]]
		_, err = tx.Exec(ctx, `
			INSERT INTO payments (
				policy_id, customer_id, payment_date, payment_amount,
				payment_method, payment_status, transaction_id,
				period_start_date, period_end_date
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
			policyID, customerID, p.PaymentDate, p.PaymentAmount,
			p.PaymentMethod, p.PaymentStatus, p.TransactionID,
			p.PeriodStartDate, p.PeriodEndDate,
		)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "insert payment")
		}
	}

	for _, d := range bundle.Dependents {
		_, err = tx.Exec(ctx, `
			INSERT INTO dependents (
				customer_id, first_name, last_name, date_of_birth,
				relationship, ssn_last_four, is_covered
			) VALUES ($1,$2,$3,$4,$5,$6,$7)`,
			customerID, d.FirstName, d.LastName, d.DateOfBirth,
			d.Relationship, d.SSNLastFour, d.IsCovered,
		)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "insert dependent")
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "commit customer bundle")
	}
	return nil
}

func (s *PostgresStore) ActiveProductIDs(ctx context.Context) ([]int64, error) {
	rows, err := s.pool.Query(ctx, `SELECT product_id FROM products WHERE is_active = true`)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "query active products")
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "scan product id")
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "read active products")
	}
	return ids, nil
}

func (s *PostgresStore) GetCustomerByUserID(ctx context.Context, userID string) (*models.Customer, error) {
	var c models.Customer
	err := s.pool.QueryRow(ctx, `
		SELECT customer_id, user_id, customer_number, first_name, last_name,
		       date_of_birth, ssn_last_four, email, phone, address_line1,
		       address_line2, city, state, zip_code, enrollment_date, status
		FROM customers WHERE user_id = $1`, userID,
	).Scan(
		&c.CustomerID, &c.UserID, &c.CustomerNumber, &c.FirstName, &c.LastName,
		&c.DateOfBirth, &c.SSNLastFour, &c.Email, &c.Phone, &c.AddressLine1,
		&c.AddressLine2, &c.City, &c.State, &c.ZipCode, &c.EnrollmentDate, &c.Status,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrCustomerNotFound
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "get customer")
	}
	return &c, nil
}

func (s *PostgresStore) ListPoliciesByCustomer(ctx context.Context, customerID int64) ([]models.Policy, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT p.policy_id, p.policy_number, p.customer_id, p.product_id,
		       p.effective_date, p.expiration_date, p.premium_amount,
		       p.payment_frequency, p.status, p.coverage_amount,
		       p.beneficiary_name, p.beneficiary_relationship,
		       pr.product_name, pr.product_category
		FROM policies p
		JOIN products pr ON p.product_id = pr.product_id
		WHERE p.customer_id = $1
		ORDER BY p.effective_date DESC`, customerID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "query policies")
	}
	defer rows.Close()

	var policies []models.Policy
	for rows.Next() {
		var p models.Policy
		if err := rows.Scan(
			&p.PolicyID, &p.PolicyNumber, &p.CustomerID, &p.ProductID,
			&p.EffectiveDate, &p.ExpirationDate, &p.PremiumAmount,
			&p.PaymentFrequency, &p.Status, &p.CoverageAmount,
			&p.BeneficiaryName, &p.BeneficiaryRelationship,
			&p.ProductName, &p.ProductCategory,
		); err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "scan policy")
		}
		policies = append(policies, p)
	}
	if err := rows.Err(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "read policies")
	}
	return policies, nil
}

func (s *PostgresStore) ListClaimsByCustomer(ctx context.Context, customerID int64) ([]models.Claim, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT c.claim_id, c.claim_number, c.policy_id, c.customer_id,
		       c.claim_date, c.incident_date, c.claim_type, c.claim_amount,
		       c.approved_amount, c.status, c.denial_reason, c.diagnosis_code,
		       c.diagnosis_description, c.treatment_type, c.provider_name,
		       c.provider_npi, c.submitted_date, c.processed_date, c.paid_date,
		       c.notes, p.policy_number, pr.product_name
		FROM claims c
		JOIN policies p ON c.policy_id = p.policy_id
		JOIN products pr ON p.product_id = pr.product_id
		WHERE c.customer_id = $1
		ORDER BY c.claim_date DESC`, customerID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "query claims")
	}
	defer rows.Close()

	var claims []models.Claim
	for rows.Next() {
		var c models.Claim
		if err := rows.Scan(
			&c.ClaimID, &c.ClaimNumber, &c.PolicyID, &c.CustomerID,
			&c.ClaimDate, &c.IncidentDate, &c.ClaimType, &c.ClaimAmount,
			&c.ApprovedAmount, &c.Status, &c.DenialReason, &c.DiagnosisCode,
			&c.DiagnosisDescription, &c.TreatmentType, &c.ProviderName,
			&c.ProviderNPI, &c.SubmittedDate, &c.ProcessedDate, &c.PaidDate,
			&c.Notes, &c.PolicyNumber, &c.ProductName,
		); err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "scan claim")
		}
		claims = append(claims, c)
	}
	if err := rows.Err(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "read claims")
	}
	return claims, nil
}

func (s *PostgresStore) ListRecentPayments(ctx context.Context, customerID int64, limit int) ([]models.Payment, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT py.payment_id, py.policy_id, py.customer_id, py.payment_date,
		       py.payment_amount, py.payment_method, py.payment_status,
		       py.transaction_id, py.period_start_date, py.period_end_date,
		       p.policy_number
		FROM payments py
		JOIN policies p ON py.policy_id = p.policy_id
		WHERE py.customer_id = $1
		ORDER BY py.payment_date DESC
		LIMIT $2`, customerID, limit)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "query payments")
	}
	defer rows.Close()

	var payments []models.Payment
	for rows.Next() {
		var p models.Payment
		if err := rows.Scan(
			&p.PaymentID, &p.PolicyID, &p.CustomerID, &p.PaymentDate,
			&p.PaymentAmount, &p.PaymentMethod, &p.PaymentStatus,
			&p.TransactionID, &p.PeriodStartDate, &p.PeriodEndDate,
			&p.PolicyNumber,
		); err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "scan payment")
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "read payments")
	}
	return payments, nil
}

func (s *PostgresStore) ListDependents(ctx context.Context, customerID int64) ([]models.Dependent, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT dependent_id, customer_id, first_name, last_name, date_of_birth,
		       relationship, ssn_last_four, is_covered
		FROM dependents WHERE customer_id = $1`, customerID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "query dependents")
	}
	defer rows.Close()

	var dependents []models.Dependent
	for rows.Next() {
		var d models.Dependent
		if err := rows.Scan(
			&d.DependentID, &d.CustomerID, &d.FirstName, &d.LastName,
			&d.DateOfBirth, &d.Relationship, &d.SSNLastFour, &d.IsCovered,
		); err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "scan dependent")
		}
		dependents = append(dependents, d)
	}
	if err := rows.Err(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "read dependents")
	}
	return dependents, nil
}

func (s *PostgresStore) Counts(ctx context.Context) (Counts, error) {
	var counts Counts
	err := s.pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM customers),
			(SELECT COUNT(*) FROM policies WHERE status = 'active'),
			(SELECT COUNT(*) FROM claims),
			(SELECT COUNT(*) FROM claims WHERE status IN ('approved', 'paid'))`,
	).Scan(&counts.Customers, &counts.ActivePolicies, &counts.TotalClaims, &counts.ApprovedClaims)
	if err != nil {
		return Counts{}, dErrors.Wrap(err, dErrors.CodeUnavailable, "count insurance records")
	}
	return counts, nil
}

func (s *PostgresStore) TruncateAll(ctx context.Context) error {
	// Children first; products are seeded data and stay.
	tables := []string{"payments", "claims", "dependents", "policies", "customers"}
	for _, table := range tables {
		if _, err := s.pool.Exec(ctx, "DELETE FROM "+table); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "truncate "+table)
		}
	}
	return nil
}
