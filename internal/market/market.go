package market

import "time"

// BankConstants holds the lending limits applied to every calculation
type BankConstants struct {
	InterestRate float64 `yaml:"interest_rate" json:"interestRate"` // annual, e.g. 0.048
	MaxDSTI      float64 `yaml:"max_dsti" json:"maxDsti"`           // monthly payment / net income
	MaxLTV       float64 `yaml:"max_ltv" json:"maxLtv"`             // loan / market value
	TermYears    int     `yaml:"term_years" json:"termYears"`
}

// TownID identifies a town in the price table
type TownID string

// MarketPrice holds price per m2 for each property category in one town
type MarketPrice struct {
	FlatRenovated float64 `yaml:"flat_renovated" json:"flatRenovated"`
	FlatOld       float64 `yaml:"flat_old" json:"flatOld"`
	HouseOld      float64 `yaml:"house_old" json:"houseOld"`
	HouseBuild    float64 `yaml:"house_build" json:"houseBuild"` // construction only, without land
	Land          float64 `yaml:"land" json:"land"`
}

// Region groups towns for the region/town selection
type Region struct {
	Name  string   `json:"name"`
	Towns []TownID `json:"towns"`
}

// Snapshot is an immutable view of the market configuration.
// A reload produces a new Snapshot instead of mutating the current one.
type Snapshot struct {
	Bank                BankConstants
	RenovationCostPerM2 float64
	Regions             []Region
	Prices              map[TownID]MarketPrice
	LoadedAt            time.Time
}

// Price returns the price table entry for a town
func (s *Snapshot) Price(town TownID) (MarketPrice, bool) {
	p, ok := s.Prices[town]
	return p, ok
}

// Region returns a region by name
func (s *Snapshot) Region(name string) (Region, bool) {
	for _, r := range s.Regions {
		if r.Name == name {
			return r, true
		}
	}
	return Region{}, false
}

// RegionOf returns the name of the region containing town
func (s *Snapshot) RegionOf(town TownID) (string, bool) {
	for _, r := range s.Regions {
		for _, t := range r.Towns {
			if t == town {
				return r.Name, true
			}
		}
	}
	return "", false
}
