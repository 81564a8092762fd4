package calculator

import "math"

// MonthlyPayment returns the fixed monthly annuity payment for a loan
func MonthlyPayment(loan, annualRate float64, years int) float64 {
	n := float64(years * 12)
	if n <= 0 {
		return 0
	}
	r := annualRate / 12
	if r == 0 {
		return loan / n
	}
	f := math.Pow(1+r, n)
	return loan * (r * f) / (f - 1)
}

// MaxLoanForPayment inverts MonthlyPayment: the principal whose monthly
// payment equals payment
func MaxLoanForPayment(payment, annualRate float64, years int) float64 {
	n := float64(years * 12)
	if n <= 0 || payment <= 0 {
		return 0
	}
	r := annualRate / 12
	if r == 0 {
		return payment * n
	}
	f := math.Pow(1+r, n)
	return payment * (f - 1) / (r * f)
}
