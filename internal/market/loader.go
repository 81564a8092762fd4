package market

import (
	"context"
	"fmt"
	"time"
)

// PriceSource provides per-town prices from outside the market file
type PriceSource interface {
	LoadPrices(ctx context.Context) ([]Region, map[TownID]MarketPrice, error)
}

// RateSource provides the current annual interest rate as a fraction
type RateSource interface {
	GetRate(ctx context.Context) (float64, error)
}

// Loader assembles a snapshot from the market file and the optional sources
type Loader struct {
	MarketFile string // empty means the embedded default
	Prices     PriceSource
	Rates      RateSource
}

// Load builds a fresh snapshot
func (l *Loader) Load(ctx context.Context) (*Snapshot, error) {
	var (
		snap *Snapshot
		err  error
	)
	if l.MarketFile != "" {
		snap, err = LoadFile(l.MarketFile)
	} else {
		snap, err = Default()
	}
	if err != nil {
		return nil, err
	}

	if l.Prices != nil {
		regions, prices, err := l.Prices.LoadPrices(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load prices: %w", err)
		}
		snap.Regions = regions
		snap.Prices = prices
	}

	if l.Rates != nil {
		rate, err := l.Rates.GetRate(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load interest rate: %w", err)
		}
		snap.Bank.InterestRate = rate
	}

	if err := Validate(snap); err != nil {
		return nil, err
	}
	snap.LoadedAt = time.Now()
	return snap, nil
}
