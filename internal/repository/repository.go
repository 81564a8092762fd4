package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Dan9191/hypo-service/internal/market"
)

// Repository provides database operations
type Repository struct {
	db *sql.DB
}

// NewRepository initializes a new repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// LoadPrices reads the per-town price table, grouping towns by region in
// the configured display order
func (r *Repository) LoadPrices(ctx context.Context) ([]market.Region, map[market.TownID]market.MarketPrice, error) {
	query := `
		SELECT region, town, flat_renovated, flat_old, house_old, house_build, land
		FROM market.town_prices
		ORDER BY region_position, region, town_position, town`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query town prices: %w", err)
	}
	defer rows.Close()

	var regions []market.Region
	prices := make(map[market.TownID]market.MarketPrice)
	for rows.Next() {
		var (
			region string
			town   market.TownID
			p      market.MarketPrice
		)
		if err := rows.Scan(&region, &town, &p.FlatRenovated, &p.FlatOld, &p.HouseOld, &p.HouseBuild, &p.Land); err != nil {
			return nil, nil, fmt.Errorf("failed to scan town prices: %w", err)
		}
		if n := len(regions); n == 0 || regions[n-1].Name != region {
			regions = append(regions, market.Region{Name: region})
		}
		regions[len(regions)-1].Towns = append(regions[len(regions)-1].Towns, town)
		prices[town] = p
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to read town prices: %w", err)
	}
	if len(prices) == 0 {
		return nil, nil, fmt.Errorf("town price table is empty")
	}
	return regions, prices, nil
}

// SavePrice inserts or updates one town's prices
func (r *Repository) SavePrice(ctx context.Context, region string, regionPos, townPos int, town market.TownID, p market.MarketPrice) error {
	query := `
		INSERT INTO market.town_prices
			(town, region, region_position, town_position, flat_renovated, flat_old, house_old, house_build, land, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, CURRENT_TIMESTAMP)
		ON CONFLICT (town) DO UPDATE SET
			region = EXCLUDED.region,
			region_position = EXCLUDED.region_position,
			town_position = EXCLUDED.town_position,
			flat_renovated = EXCLUDED.flat_renovated,
			flat_old = EXCLUDED.flat_old,
			house_old = EXCLUDED.house_old,
			house_build = EXCLUDED.house_build,
			land = EXCLUDED.land,
			updated_at = CURRENT_TIMESTAMP`
	_, err := r.db.ExecContext(ctx, query, town, region, regionPos, townPos,
		p.FlatRenovated, p.FlatOld, p.HouseOld, p.HouseBuild, p.Land)
	if err != nil {
		return fmt.Errorf("failed to save prices for %s: %w", town, err)
	}
	return nil
}

// SeedFromSnapshot writes every town of a snapshot into the price table
func (r *Repository) SeedFromSnapshot(ctx context.Context, snap *market.Snapshot) error {
	for ri, region := range snap.Regions {
		for ti, town := range region.Towns {
			if err := r.SavePrice(ctx, region.Name, ri, ti, town, snap.Prices[town]); err != nil {
				return err
			}
		}
	}
	return nil
}
