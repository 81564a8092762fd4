package service

import (
	"fmt"
	"math"

	"github.com/Dan9191/hypo-service/internal/calculator"
	"github.com/Dan9191/hypo-service/internal/market"
	"github.com/Dan9191/hypo-service/internal/wizard"
)

// AffordabilityRequest holds the wizard inputs for one calculation
type AffordabilityRequest struct {
	Income       float64 `json:"income"`
	Cash         float64 `json:"cash"`
	Location     string  `json:"location"`
	PropertyType string  `json:"propertyType"`
	AreaSize     float64 `json:"areaSize"`
}

// ClassicRequest holds the inputs of the desired-loan calculator
type ClassicRequest struct {
	Income      float64 `json:"income"`
	DesiredLoan float64 `json:"desiredLoan"`
}

// ClassicResponse is the classic verdict with the repayment overview
type ClassicResponse struct {
	calculator.ClassicResult
	Variants []calculator.RepaymentVariant `json:"variants"`
}

// CategoryView describes a property category for clients
type CategoryView struct {
	ID            market.Category `json:"id"`
	Label         string          `json:"label"`
	DefaultAreaM2 float64         `json:"defaultAreaM2"`
}

// Catalog lists what a client may choose from
type Catalog struct {
	Regions    []market.Region      `json:"regions"`
	Categories []CategoryView       `json:"categories"`
	Bank       market.BankConstants `json:"bank"`
}

// Calculate validates identifiers against the market table and runs the
// affordability calculation
func (s *Service) Calculate(req AffordabilityRequest) (calculator.Result, error) {
	return affordability(s.store.Current(), req)
}

func affordability(snap *market.Snapshot, req AffordabilityRequest) (calculator.Result, error) {
	if !calculator.InRange(req.Income) || !calculator.InRange(req.Cash) || !calculator.InRange(req.AreaSize) {
		return calculator.Result{}, fmt.Errorf("%w: income, cash and area must be between 0 and %.0f", ErrInvalidInput, calculator.MaxAmount)
	}
	price, ok := snap.Price(market.TownID(req.Location))
	if !ok {
		return calculator.Result{}, fmt.Errorf("%w: %q", ErrUnknownTown, req.Location)
	}
	cat, err := market.ParseCategory(req.PropertyType)
	if err != nil {
		return calculator.Result{}, fmt.Errorf("%w: %q", ErrUnknownCategory, req.PropertyType)
	}

	res := calculator.Affordability(snap.Bank, price, snap.RenovationCostPerM2, calculator.Input{
		Income:   req.Income,
		Cash:     req.Cash,
		Category: cat,
		AreaM2:   req.AreaSize,
	})
	if !finite(res.MaxLoanDSTI, res.MarketPrice, res.TotalBudget) {
		return calculator.Result{}, fmt.Errorf("%w: result out of range", ErrInvalidInput)
	}
	return res, nil
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return false
		}
	}
	return true
}

// Classic runs the desired-loan calculator
func (s *Service) Classic(req ClassicRequest) (ClassicResponse, error) {
	if !calculator.InRange(req.Income) {
		return ClassicResponse{}, fmt.Errorf("%w: income must be between 0 and %.0f", ErrInvalidInput, calculator.MaxAmount)
	}
	if req.DesiredLoan <= 0 || !calculator.InRange(req.DesiredLoan) {
		return ClassicResponse{}, fmt.Errorf("%w: desired loan must be positive and at most %.0f", ErrInvalidInput, calculator.MaxAmount)
	}

	bank := s.store.Current().Bank
	return ClassicResponse{
		ClassicResult: calculator.Classic(bank, req.Income, req.DesiredLoan),
		Variants:      calculator.RepaymentVariants(bank, req.Income, req.DesiredLoan),
	}, nil
}

// Catalog returns regions, towns and categories of the current snapshot
func (s *Service) Catalog() Catalog {
	snap := s.store.Current()
	cats := make([]CategoryView, 0, len(market.Categories))
	for _, c := range market.Categories {
		cats = append(cats, CategoryView{ID: c, Label: c.Label(), DefaultAreaM2: c.DefaultAreaM2()})
	}
	return Catalog{Regions: snap.Regions, Categories: cats, Bank: snap.Bank}
}

// AdvanceWizard applies one wizard event
func (s *Service) AdvanceWizard(state wizard.State, ev wizard.Event) (wizard.State, error) {
	return wizard.Apply(s.store.Current(), state, ev)
}
