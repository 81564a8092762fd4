package market

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed default_market.yaml
var defaultMarket []byte

type fileTown struct {
	ID          TownID `yaml:"id"`
	MarketPrice `yaml:",inline"`
}

type fileRegion struct {
	Name  string     `yaml:"name"`
	Towns []fileTown `yaml:"towns"`
}

type marketFile struct {
	Bank                BankConstants `yaml:"bank"`
	RenovationCostPerM2 float64       `yaml:"renovation_cost_per_m2"`
	Regions             []fileRegion  `yaml:"regions"`
}

// Default returns the snapshot built from the embedded market file
func Default() (*Snapshot, error) {
	return Parse(defaultMarket)
}

// LoadFile reads a market snapshot from a YAML file
func LoadFile(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading market file: %w", err)
	}
	return Parse(data)
}

// Parse builds a validated snapshot from market YAML
func Parse(data []byte) (*Snapshot, error) {
	var f marketFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing market YAML: %w", err)
	}

	snap := &Snapshot{
		Bank:                f.Bank,
		RenovationCostPerM2: f.RenovationCostPerM2,
		Prices:              make(map[TownID]MarketPrice),
		LoadedAt:            time.Now(),
	}
	for _, r := range f.Regions {
		region := Region{Name: r.Name}
		for _, t := range r.Towns {
			if _, dup := snap.Prices[t.ID]; dup {
				return nil, fmt.Errorf("town %q listed twice", t.ID)
			}
			snap.Prices[t.ID] = t.MarketPrice
			region.Towns = append(region.Towns, t.ID)
		}
		snap.Regions = append(snap.Regions, region)
	}

	if err := Validate(snap); err != nil {
		return nil, err
	}
	return snap, nil
}

// Validate checks bank limits and that every town has a price entry
func Validate(s *Snapshot) error {
	b := s.Bank
	if b.InterestRate < 0 {
		return fmt.Errorf("interest rate must not be negative, got %v", b.InterestRate)
	}
	if b.MaxDSTI <= 0 || b.MaxDSTI > 1 {
		return fmt.Errorf("max DSTI must be in (0, 1], got %v", b.MaxDSTI)
	}
	if b.MaxLTV <= 0 || b.MaxLTV > 1 {
		return fmt.Errorf("max LTV must be in (0, 1], got %v", b.MaxLTV)
	}
	if b.TermYears <= 0 {
		return fmt.Errorf("term must be positive, got %d years", b.TermYears)
	}
	if s.RenovationCostPerM2 < 0 {
		return fmt.Errorf("renovation cost must not be negative")
	}
	if len(s.Regions) == 0 {
		return fmt.Errorf("no regions defined")
	}
	for _, r := range s.Regions {
		if len(r.Towns) == 0 {
			return fmt.Errorf("region %q has no towns", r.Name)
		}
		for _, t := range r.Towns {
			if _, ok := s.Prices[t]; !ok {
				return fmt.Errorf("town %q in region %q has no prices", t, r.Name)
			}
		}
	}
	return nil
}
