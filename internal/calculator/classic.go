package calculator

import (
	"math"

	"github.com/Dan9191/hypo-service/internal/market"
)

// ClassicMinTermYears is the shortest term tried for a desired loan
const ClassicMinTermYears = 20

// DefaultVariantYears are the terms shown in the repayment overview
var DefaultVariantYears = []int{15, 20, 25, 30}

// ClassicResult answers "can I get this loan amount"
type ClassicResult struct {
	Possible       bool    `json:"isPossible"`
	MaxPossible    float64 `json:"maxPossible"`
	MonthlyPayment float64 `json:"monthlyPayment"`
	Years          int     `json:"years"`
}

// RepaymentVariant is the payment for one term
type RepaymentVariant struct {
	Years          int     `json:"years"`
	MonthlyPayment float64 `json:"monthlyPayment"`
	Feasible       bool    `json:"feasible"`
}

// Classic finds the shortest term between ClassicMinTermYears and the bank
// term whose payment fits the income limit. When none fits, the result
// carries the full-term payment and Possible is false. MaxPossible is the
// full-term maximum loan either way.
func Classic(bank market.BankConstants, income, desiredLoan float64) ClassicResult {
	maxPayment := income * bank.MaxDSTI

	res := ClassicResult{Years: bank.TermYears}
	for y := ClassicMinTermYears; y <= bank.TermYears; y++ {
		p := MonthlyPayment(desiredLoan, bank.InterestRate, y)
		if p <= maxPayment {
			res.Possible = true
			res.Years = y
			res.MonthlyPayment = math.Round(p)
			break
		}
	}
	if !res.Possible {
		res.MonthlyPayment = math.Round(MonthlyPayment(desiredLoan, bank.InterestRate, bank.TermYears))
	}

	res.MaxPossible = math.Floor(MaxLoanForPayment(maxPayment, bank.InterestRate, bank.TermYears))
	return res
}

// RepaymentVariants lists the payment for each term. A variant is feasible
// when the payment stays within the DSTI limit.
func RepaymentVariants(bank market.BankConstants, income, loan float64, years ...int) []RepaymentVariant {
	if len(years) == 0 {
		years = DefaultVariantYears
	}
	out := make([]RepaymentVariant, 0, len(years))
	for _, y := range years {
		p := math.Round(MonthlyPayment(loan, bank.InterestRate, y))
		out = append(out, RepaymentVariant{
			Years:          y,
			MonthlyPayment: p,
			Feasible:       income > 0 && p/income <= bank.MaxDSTI,
		})
	}
	return out
}
