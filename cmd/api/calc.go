package main

import (
	"context"
	"fmt"
	"os"

	"github.com/Dan9191/hypo-service/internal/market"
	"github.com/Dan9191/hypo-service/internal/repository"
	"github.com/Dan9191/hypo-service/internal/service"
	"github.com/Dan9191/hypo-service/internal/utils"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func calcCmd() *cobra.Command {
	var (
		income, cash, area string
		town, category     string
		marketFile         string
	)
	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Check whether a household can afford a property",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			svc, err := offlineService(marketFile)
			if err != nil {
				return err
			}
			req := service.AffordabilityRequest{Location: town, PropertyType: category}
			if req.Income, err = utils.ParseThousand(income); err != nil {
				return err
			}
			if req.Cash, err = utils.ParseThousand(cash); err != nil {
				return err
			}
			if req.AreaSize, err = utils.ParseThousand(area); err != nil {
				return err
			}

			res, err := svc.Calculate(req)
			if err != nil {
				return err
			}
			printAffordability(os.Stdout, town, res)
			return nil
		},
	}
	cmd.Flags().StringVar(&income, "income", "45000", "net monthly household income")
	cmd.Flags().StringVar(&cash, "cash", "500000", "available own funds")
	cmd.Flags().StringVar(&area, "area", "0", "area in m2, 0 for the category default")
	cmd.Flags().StringVar(&town, "town", "", "town identifier (see towns)")
	cmd.Flags().StringVar(&category, "type", string(market.FlatRenovated), "property category")
	cmd.Flags().StringVar(&marketFile, "market-file", os.Getenv("MARKET_FILE"), "market YAML, default embedded")
	cobra.CheckErr(cmd.MarkFlagRequired("town"))
	return cmd
}

func classicCmd() *cobra.Command {
	var income, loan, marketFile string
	cmd := &cobra.Command{
		Use:   "classic",
		Short: "Find the shortest term for a desired loan amount",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			svc, err := offlineService(marketFile)
			if err != nil {
				return err
			}
			req := service.ClassicRequest{}
			if req.Income, err = utils.ParseThousand(income); err != nil {
				return err
			}
			if req.DesiredLoan, err = utils.ParseThousand(loan); err != nil {
				return err
			}

			res, err := svc.Classic(req)
			if err != nil {
				return err
			}
			printClassic(os.Stdout, req, res)
			return nil
		},
	}
	cmd.Flags().StringVar(&income, "income", "35000", "net monthly household income")
	cmd.Flags().StringVar(&loan, "loan", "2000000", "desired loan amount")
	cmd.Flags().StringVar(&marketFile, "market-file", os.Getenv("MARKET_FILE"), "market YAML, default embedded")
	return cmd
}

func townsCmd() *cobra.Command {
	var marketFile string
	cmd := &cobra.Command{
		Use:   "towns",
		Short: "List regions, towns and property categories",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			svc, err := offlineService(marketFile)
			if err != nil {
				return err
			}
			printCatalog(os.Stdout, svc.Snapshot())
			return nil
		},
	}
	cmd.Flags().StringVar(&marketFile, "market-file", os.Getenv("MARKET_FILE"), "market YAML, default embedded")
	return cmd
}

func seedCmd() *cobra.Command {
	var marketFile, dbConn string
	cmd := &cobra.Command{
		Use:   "seed-prices",
		Short: "Write the market file's town prices into Postgres",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if dbConn == "" {
				return fmt.Errorf("--db or DB_CONN is required")
			}
			snap, err := (&market.Loader{MarketFile: marketFile}).Load(context.Background())
			if err != nil {
				return err
			}
			db, err := openDB(dbConn)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := repository.NewRepository(db).SeedFromSnapshot(context.Background(), snap); err != nil {
				return err
			}
			fmt.Printf("Seeded %d towns\n", len(snap.Prices))
			return nil
		},
	}
	cmd.Flags().StringVar(&marketFile, "market-file", os.Getenv("MARKET_FILE"), "market YAML, default embedded")
	cmd.Flags().StringVar(&dbConn, "db", os.Getenv("DB_CONN"), "Postgres connection string")
	return cmd
}

// offlineService builds a service over local market data with no notifier
func offlineService(marketFile string) (*service.Service, error) {
	snap, err := (&market.Loader{MarketFile: marketFile}).Load(context.Background())
	if err != nil {
		return nil, err
	}
	logger := newLogger()
	logger.SetLevel(logrus.WarnLevel)
	return service.NewService(market.NewStore(snap), nil, logger), nil
}
