// Package catalog holds the fixed per-product premium and coverage tables.
package catalog

const (
	// DefaultBasePremium is used for product ids outside the table.
	DefaultBasePremium = 50.00
	// DefaultCoverage is used for product ids outside the table.
	DefaultCoverage = 50000.0
)

var basePremiums = map[int64]float64{
	1: 45.00, 2: 75.00, 3: 85.00, 4: 125.00, 5: 55.00, 6: 95.00,
	7: 125.00, 8: 185.00, 9: 65.00, 10: 115.00, 11: 45.00,
	12: 35.00, 13: 65.00, 14: 15.00, 15: 25.00, 16: 95.00, 17: 145.00,
}

var coverageAmounts = map[int64]float64{
	1: 50000, 2: 100000, 3: 75000, 4: 150000, 5: 1500, 6: 3000,
	7: 60000, 8: 120000, 9: 50000, 10: 100000, 11: 250000,
	12: 1500, 13: 3000, 14: 500, 15: 750, 16: 25000, 17: 50000,
}

// BasePremium returns the monthly base premium for a product.
func BasePremium(productID int64) float64 {
	if p, ok := basePremiums[productID]; ok {
		return p
	}
	return DefaultBasePremium
}

// Coverage returns the coverage amount for a product.
func Coverage(productID int64) float64 {
	if c, ok := coverageAmounts[productID]; ok {
		return c
	}
	return DefaultCoverage
}
