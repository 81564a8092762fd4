// Package wizard models the mortgage lead wizard as a state record and
// pure transition functions. The server keeps no wizard state; the client
// sends the current State with each Event and stores the returned State.
package wizard

import (
	"errors"
	"fmt"

	"github.com/Dan9191/hypo-service/internal/calculator"
	"github.com/Dan9191/hypo-service/internal/market"
)

// Step is a wizard screen
type Step string

const (
	StepRegion   Step = "region"
	StepTown     Step = "town"
	StepProperty Step = "property"
	StepFinance  Step = "finance"
	StepResult   Step = "result"
)

// EventKind is a user action
type EventKind string

const (
	SelectRegion   EventKind = "select_region"
	SelectTown     EventKind = "select_town"
	SelectProperty EventKind = "select_property"
	SubmitFinance  EventKind = "submit_finance"
	Back           EventKind = "back"
	Reset          EventKind = "reset"
)

// Pre-filled finance values
const (
	DefaultIncome = 45000
	DefaultCash   = 500000
)

var (
	ErrInvalidTransition = errors.New("invalid wizard transition")
	ErrInvalidValue      = errors.New("invalid wizard value")
)

// State is everything the wizard has collected so far
type State struct {
	Step     Step               `json:"step"`
	Region   string             `json:"region,omitempty"`
	Town     market.TownID      `json:"town,omitempty"`
	Category market.Category    `json:"category,omitempty"`
	AreaM2   float64            `json:"areaM2"`
	Income   float64            `json:"income"`
	Cash     float64            `json:"cash"`
	Result   *calculator.Result `json:"result,omitempty"`
}

// Event carries a user action and the values it sets
type Event struct {
	Kind     EventKind     `json:"kind"`
	Region   string        `json:"region,omitempty"`
	Town     market.TownID `json:"town,omitempty"`
	Category string        `json:"category,omitempty"`
	AreaM2   float64       `json:"areaM2,omitempty"`
	Income   float64       `json:"income,omitempty"`
	Cash     float64       `json:"cash,omitempty"`
}

// Initial returns the state of a fresh wizard
func Initial() State {
	return State{
		Step:   StepRegion,
		Income: DefaultIncome,
		Cash:   DefaultCash,
	}
}

var previous = map[Step]Step{
	StepTown:     StepRegion,
	StepProperty: StepTown,
	StepFinance:  StepProperty,
	StepResult:   StepFinance,
}

// Apply returns the state after ev. On error the input state is returned
// unchanged.
func Apply(snap *market.Snapshot, s State, ev Event) (State, error) {
	switch ev.Kind {
	case Reset:
		return Initial(), nil
	case Back:
		return back(s)
	case SelectRegion:
		return selectRegion(snap, s, ev)
	case SelectTown:
		return selectTown(snap, s, ev)
	case SelectProperty:
		return selectProperty(s, ev)
	case SubmitFinance:
		return submitFinance(snap, s, ev)
	}
	return s, fmt.Errorf("%w: unknown event %q", ErrInvalidTransition, ev.Kind)
}

func expect(s State, ev Event, step Step) error {
	if s.Step != step {
		return fmt.Errorf("%w: %s not allowed at step %s", ErrInvalidTransition, ev.Kind, s.Step)
	}
	return nil
}

func back(s State) (State, error) {
	prev, ok := previous[s.Step]
	if !ok {
		return s, fmt.Errorf("%w: nothing before step %s", ErrInvalidTransition, s.Step)
	}
	next := s
	next.Step = prev
	next.Result = nil
	return next, nil
}

func selectRegion(snap *market.Snapshot, s State, ev Event) (State, error) {
	if err := expect(s, ev, StepRegion); err != nil {
		return s, err
	}
	region, ok := snap.Region(ev.Region)
	if !ok {
		return s, fmt.Errorf("%w: unknown region %q", ErrInvalidValue, ev.Region)
	}

	next := s
	next.Region = region.Name
	if r, ok := snap.RegionOf(next.Town); !ok || r != region.Name {
		next.Town = ""
	}
	next.Step = StepTown
	return next, nil
}

func selectTown(snap *market.Snapshot, s State, ev Event) (State, error) {
	if err := expect(s, ev, StepTown); err != nil {
		return s, err
	}
	region, ok := snap.RegionOf(ev.Town)
	if !ok || region != s.Region {
		return s, fmt.Errorf("%w: town %q is not in region %q", ErrInvalidValue, ev.Town, s.Region)
	}

	next := s
	next.Town = ev.Town
	next.Step = StepProperty
	return next, nil
}

func selectProperty(s State, ev Event) (State, error) {
	if err := expect(s, ev, StepProperty); err != nil {
		return s, err
	}
	cat, err := market.ParseCategory(ev.Category)
	if err != nil {
		return s, fmt.Errorf("%w: %v", ErrInvalidValue, err)
	}
	if !calculator.InRange(ev.AreaM2) {
		return s, fmt.Errorf("%w: area out of range", ErrInvalidValue)
	}

	next := s
	next.Category = cat
	next.AreaM2 = ev.AreaM2
	next.Step = StepFinance
	return next, nil
}

func submitFinance(snap *market.Snapshot, s State, ev Event) (State, error) {
	if err := expect(s, ev, StepFinance); err != nil {
		return s, err
	}
	if !calculator.InRange(ev.Income) || !calculator.InRange(ev.Cash) {
		return s, fmt.Errorf("%w: income and cash out of range", ErrInvalidValue)
	}
	// The state comes back from the client, so earlier selections are
	// checked again.
	if !calculator.InRange(s.AreaM2) {
		return s, fmt.Errorf("%w: area out of range", ErrInvalidValue)
	}
	price, ok := snap.Price(s.Town)
	if !ok {
		return s, fmt.Errorf("%w: unknown town %q", ErrInvalidValue, s.Town)
	}
	if region, _ := snap.RegionOf(s.Town); region != s.Region {
		return s, fmt.Errorf("%w: town %q is not in region %q", ErrInvalidValue, s.Town, s.Region)
	}
	cat, err := market.ParseCategory(string(s.Category))
	if err != nil {
		return s, fmt.Errorf("%w: %v", ErrInvalidValue, err)
	}

	res := calculator.Affordability(snap.Bank, price, snap.RenovationCostPerM2, calculator.Input{
		Income:   ev.Income,
		Cash:     ev.Cash,
		Category: cat,
		AreaM2:   s.AreaM2,
	})

	next := s
	next.Income = ev.Income
	next.Cash = ev.Cash
	next.Result = &res
	next.Step = StepResult
	return next, nil
}
