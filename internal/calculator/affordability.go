package calculator

import (
	"math"

	"github.com/Dan9191/hypo-service/internal/market"
)

// Status is the affordability verdict
type Status string

const (
	StatusYes   Status = "YES"
	StatusMaybe Status = "MAYBE"
	StatusNo    Status = "NO"
)

// FailReason explains a non-YES verdict
type FailReason string

const (
	ReasonLTV    FailReason = "LTV"    // not enough own funds for the down payment
	ReasonDSTI   FailReason = "DSTI"   // income cannot service the remaining balance
	ReasonBudget FailReason = "BUDGET" // generic shortfall
)

// maybeShare is the share of the market price a budget must reach to be MAYBE
const maybeShare = 0.90

// MaxAmount bounds money and area inputs. Beyond it the annuity math and the
// area estimate stop being finite.
const MaxAmount = 1e12

// InRange reports whether v is a usable money or area input
func InRange(v float64) bool {
	return v >= 0 && v <= MaxAmount
}

// Input describes the household and the property it wants to buy
type Input struct {
	Income   float64         // net monthly household income
	Cash     float64         // available own funds
	Category market.Category // property category
	AreaM2   float64         // 0 means the category default
}

// Result is the outcome of one affordability calculation
type Result struct {
	Status          Status     `json:"status"`
	MaxLoan         float64    `json:"maxLoan"`
	LoanNeeded      float64    `json:"loanNeeded"`
	MarketPrice     float64    `json:"marketPrice"`
	TotalBudget     float64    `json:"totalBudget"`
	FailReason      FailReason `json:"failReason,omitempty"`
	MaxAffordableM2 *int       `json:"maxAffordableM2,omitempty"`
	AreaM2          float64    `json:"areaM2"`
	PricePerM2      float64    `json:"pricePerM2"`
	MaxLoanDSTI     float64    `json:"maxLoanDsti"`
}

// Affordability decides whether the household can finance the property.
// price must be the town's entry from the price table; resolving the town
// is the caller's job.
func Affordability(bank market.BankConstants, price market.MarketPrice, renovationCostPerM2 float64, in Input) Result {
	maxLoanDSTI := math.Floor(MaxLoanForPayment(in.Income*bank.MaxDSTI, bank.InterestRate, bank.TermYears))

	area := in.AreaM2
	if area == 0 {
		area = in.Category.DefaultAreaM2()
	}
	perM2 := in.Category.PricePerM2(price, renovationCostPerM2)
	marketPrice := area * perM2

	maxLoanLTV := marketPrice * bank.MaxLTV
	maxLoan := math.Min(maxLoanDSTI, maxLoanLTV)
	totalBudget := maxLoan + in.Cash

	res := Result{
		MaxLoan:     maxLoan,
		LoanNeeded:  math.Max(0, marketPrice-in.Cash),
		MarketPrice: marketPrice,
		TotalBudget: totalBudget,
		AreaM2:      area,
		PricePerM2:  perM2,
		MaxLoanDSTI: maxLoanDSTI,
	}

	// Inverse sizing uses the budget at the requested size; it does not
	// re-apply LTV at the smaller size, so it is an estimate only.
	if perM2 > 0 {
		if est := math.Floor(totalBudget / perM2); est < math.MaxInt {
			m2 := int(est)
			res.MaxAffordableM2 = &m2
		}
	}

	if totalBudget >= marketPrice {
		res.Status = StatusYes
		return res
	}

	res.Status = StatusNo
	switch {
	case in.Cash < marketPrice*(1-bank.MaxLTV):
		res.FailReason = ReasonLTV
	case maxLoanDSTI < marketPrice-in.Cash:
		res.FailReason = ReasonDSTI
	default:
		res.FailReason = ReasonBudget
	}

	if totalBudget >= marketPrice*maybeShare && res.FailReason != ReasonLTV {
		res.Status = StatusMaybe
	}
	return res
}
