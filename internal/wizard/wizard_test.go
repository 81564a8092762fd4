package wizard

import (
	"testing"

	"github.com/Dan9191/hypo-service/internal/calculator"
	"github.com/Dan9191/hypo-service/internal/market"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapshot(t *testing.T) *market.Snapshot {
	t.Helper()
	snap, err := market.Default()
	require.NoError(t, err)
	return snap
}

func run(t *testing.T, snap *market.Snapshot, events ...Event) State {
	t.Helper()
	s := Initial()
	for _, ev := range events {
		var err error
		s, err = Apply(snap, s, ev)
		require.NoError(t, err, "event %s", ev.Kind)
	}
	return s
}

func TestHappyPath(t *testing.T) {
	snap := snapshot(t)

	s := run(t, snap,
		Event{Kind: SelectRegion, Region: "Rožnovsko"},
		Event{Kind: SelectTown, Town: "Rožnov p.R."},
		Event{Kind: SelectProperty, Category: "Byt (rekonstruovaný)", AreaM2: 70},
		Event{Kind: SubmitFinance, Income: 45000, Cash: 500000},
	)

	assert.Equal(t, StepResult, s.Step)
	assert.Equal(t, market.FlatRenovated, s.Category)
	require.NotNil(t, s.Result)

	price, _ := snap.Price("Rožnov p.R.")
	want := calculator.Affordability(snap.Bank, price, snap.RenovationCostPerM2, calculator.Input{
		Income: 45000, Cash: 500000, Category: market.FlatRenovated, AreaM2: 70,
	})
	assert.Equal(t, want, *s.Result)
}

func TestInitial(t *testing.T) {
	s := Initial()
	assert.Equal(t, StepRegion, s.Step)
	assert.Equal(t, 45000.0, s.Income)
	assert.Equal(t, 500000.0, s.Cash)
	assert.Zero(t, s.AreaM2)
}

func TestOutOfOrderRejected(t *testing.T) {
	snap := snapshot(t)
	s := Initial()

	for _, ev := range []Event{
		{Kind: SelectTown, Town: "Vsetín"},
		{Kind: SelectProperty, Category: "land"},
		{Kind: SubmitFinance, Income: 1, Cash: 1},
		{Kind: Back},
		{Kind: "jump"},
	} {
		got, err := Apply(snap, s, ev)
		assert.ErrorIs(t, err, ErrInvalidTransition, ev.Kind)
		assert.Equal(t, s, got)
	}
}

func TestInvalidValues(t *testing.T) {
	snap := snapshot(t)

	_, err := Apply(snap, Initial(), Event{Kind: SelectRegion, Region: "Praha"})
	assert.ErrorIs(t, err, ErrInvalidValue)

	s := run(t, snap, Event{Kind: SelectRegion, Region: "Vsetínsko"})
	_, err = Apply(snap, s, Event{Kind: SelectTown, Town: "Zubří"})
	assert.ErrorIs(t, err, ErrInvalidValue)

	s = run(t, snap, Event{Kind: SelectRegion, Region: "Vsetínsko"}, Event{Kind: SelectTown, Town: "Vsetín"})
	_, err = Apply(snap, s, Event{Kind: SelectProperty, Category: "castle"})
	assert.ErrorIs(t, err, ErrInvalidValue)
	_, err = Apply(snap, s, Event{Kind: SelectProperty, Category: "land", AreaM2: -5})
	assert.ErrorIs(t, err, ErrInvalidValue)

	s, err = Apply(snap, s, Event{Kind: SelectProperty, Category: "land"})
	require.NoError(t, err)
	_, err = Apply(snap, s, Event{Kind: SubmitFinance, Income: -1, Cash: 0})
	assert.ErrorIs(t, err, ErrInvalidValue)

	tampered := s
	tampered.Town = "Atlantis"
	_, err = Apply(snap, tampered, Event{Kind: SubmitFinance, Income: 40000, Cash: 100000})
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestSubmitFinanceRechecksClientState(t *testing.T) {
	snap := snapshot(t)
	valid := State{
		Step:     StepFinance,
		Region:   "Rožnovsko",
		Town:     "Rožnov p.R.",
		Category: market.FlatRenovated,
		AreaM2:   70,
	}
	finance := Event{Kind: SubmitFinance, Income: 45000, Cash: 0}

	_, err := Apply(snap, valid, finance)
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(s *State)
	}{
		{"negative area", func(s *State) { s.AreaM2 = -70 }},
		{"huge area", func(s *State) { s.AreaM2 = 1e308 }},
		{"town outside region", func(s *State) { s.Region = "Vsetínsko" }},
		{"no region", func(s *State) { s.Region = "" }},
		{"bad category", func(s *State) { s.Category = "castle" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid
			tt.mutate(&s)
			got, err := Apply(snap, s, finance)
			assert.ErrorIs(t, err, ErrInvalidValue)
			assert.Equal(t, s, got)
			assert.Nil(t, got.Result)
		})
	}

	_, err = Apply(snap, valid, Event{Kind: SubmitFinance, Income: 1e308})
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestBackKeepsData(t *testing.T) {
	snap := snapshot(t)
	s := run(t, snap,
		Event{Kind: SelectRegion, Region: "Frenštátsko"},
		Event{Kind: SelectTown, Town: "Trojanovice"},
		Event{Kind: SelectProperty, Category: "house_old", AreaM2: 150},
		Event{Kind: SubmitFinance, Income: 60000, Cash: 900000},
	)

	s, err := Apply(snap, s, Event{Kind: Back})
	require.NoError(t, err)
	assert.Equal(t, StepFinance, s.Step)
	assert.Nil(t, s.Result)
	assert.Equal(t, 60000.0, s.Income)

	s, err = Apply(snap, s, Event{Kind: Back})
	require.NoError(t, err)
	s, err = Apply(snap, s, Event{Kind: Back})
	require.NoError(t, err)
	s, err = Apply(snap, s, Event{Kind: Back})
	require.NoError(t, err)
	assert.Equal(t, StepRegion, s.Step)
	assert.Equal(t, market.TownID("Trojanovice"), s.Town)
	assert.Equal(t, market.HouseOld, s.Category)
	assert.Equal(t, 150.0, s.AreaM2)

	s, err = Apply(snap, s, Event{Kind: SelectRegion, Region: "Frenštátsko"})
	require.NoError(t, err)
	assert.Equal(t, market.TownID("Trojanovice"), s.Town)

	s, err = Apply(snap, s, Event{Kind: Back})
	require.NoError(t, err)
	s, err = Apply(snap, s, Event{Kind: SelectRegion, Region: "Vsetínsko"})
	require.NoError(t, err)
	assert.Empty(t, s.Town)
}

func TestReset(t *testing.T) {
	snap := snapshot(t)
	s := run(t, snap,
		Event{Kind: SelectRegion, Region: "Rožnovsko"},
		Event{Kind: SelectTown, Town: "Zubří"},
		Event{Kind: Reset},
	)
	assert.Equal(t, Initial(), s)
}
