package market

import (
	"fmt"
	"strings"
)

// Category is the kind of property being financed
type Category string

const (
	FlatRenovated Category = "flat_renovated"
	FlatOld       Category = "flat_old"
	HouseOld      Category = "house_old"
	HouseBuild    Category = "house_build"
	Renovation    Category = "renovation"
	Land          Category = "land"
)

// Default areas used when the caller leaves the area at 0
const (
	DefaultFlatAreaM2  = 70
	DefaultHouseAreaM2 = 120
	DefaultLandAreaM2  = 1000
)

// Categories lists all categories in display order
var Categories = []Category{FlatRenovated, FlatOld, HouseOld, HouseBuild, Renovation, Land}

var categoryLabels = map[Category]string{
	FlatRenovated: "Byt (rekonstruovaný)",
	FlatOld:       "Byt (původní stav)",
	HouseOld:      "Starší dům",
	HouseBuild:    "Stavba domu",
	Renovation:    "Rekonstrukce",
	Land:          "Pozemek",
}

// ParseCategory accepts either the category id or its display label
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	for _, c := range Categories {
		if string(c) == s || categoryLabels[c] == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown property category %q", s)
}

// Label returns the Czech display label
func (c Category) Label() string {
	if l, ok := categoryLabels[c]; ok {
		return l
	}
	return string(c)
}

// IsFlat reports whether the category is an apartment
func (c Category) IsFlat() bool {
	return c == FlatRenovated || c == FlatOld
}

// DefaultAreaM2 is the area assumed when the user did not enter one
func (c Category) DefaultAreaM2() float64 {
	switch {
	case c.IsFlat():
		return DefaultFlatAreaM2
	case c == Land:
		return DefaultLandAreaM2
	default:
		return DefaultHouseAreaM2
	}
}

// PricePerM2 resolves the per-m2 price of the category in the given town.
// Renovation is priced as an older house plus the renovation cost.
func (c Category) PricePerM2(p MarketPrice, renovationCostPerM2 float64) float64 {
	switch c {
	case FlatRenovated:
		return p.FlatRenovated
	case FlatOld:
		return p.FlatOld
	case HouseOld:
		return p.HouseOld
	case HouseBuild:
		return p.HouseBuild
	case Renovation:
		return p.HouseOld + renovationCostPerM2
	case Land:
		return p.Land
	}
	return 0
}
