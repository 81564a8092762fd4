package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/Dan9191/hypo-service/internal/calculator"
	"github.com/Dan9191/hypo-service/internal/market"
	"github.com/Dan9191/hypo-service/internal/service"
	"github.com/Dan9191/hypo-service/internal/utils"
)

var verdicts = map[calculator.Status]string{
	calculator.StatusYes:   "SCHVÁLENO",
	calculator.StatusMaybe: "K ŘEŠENÍ",
	calculator.StatusNo:    "ZAMÍTNUTO",
}

var reasons = map[calculator.FailReason]string{
	calculator.ReasonLTV:    "nedostatek vlastních zdrojů",
	calculator.ReasonDSTI:   "nízký příjem",
	calculator.ReasonBudget: "rozpočet nestačí",
}

func printAffordability(out io.Writer, town string, res calculator.Result) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Lokalita:\t%s\n", town)
	fmt.Fprintf(w, "Výsledek:\t%s\n", verdicts[res.Status])
	if res.FailReason != "" {
		fmt.Fprintf(w, "Důvod:\t%s (%s)\n", reasons[res.FailReason], res.FailReason)
	}
	fmt.Fprintf(w, "Plocha:\t%s m²\n", utils.FormatThousand(res.AreaM2))
	fmt.Fprintf(w, "Cena za m²:\t%s\n", utils.FormatCZK(res.PricePerM2))
	fmt.Fprintf(w, "Tržní cena:\t%s\n", utils.FormatCZK(res.MarketPrice))
	fmt.Fprintf(w, "Potřebný úvěr:\t%s\n", utils.FormatCZK(res.LoanNeeded))
	fmt.Fprintf(w, "Max. úvěr (DSTI):\t%s\n", utils.FormatCZK(res.MaxLoanDSTI))
	fmt.Fprintf(w, "Max. úvěr:\t%s\n", utils.FormatCZK(res.MaxLoan))
	fmt.Fprintf(w, "Celkový rozpočet:\t%s\n", utils.FormatCZK(res.TotalBudget))
	if res.MaxAffordableM2 != nil {
		fmt.Fprintf(w, "Dostupná plocha:\t~%d m²\n", *res.MaxAffordableM2)
	}
	w.Flush()
}

func printClassic(out io.Writer, req service.ClassicRequest, res service.ClassicResponse) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Požadovaný úvěr:\t%s\n", utils.FormatCZK(req.DesiredLoan))
	if res.Possible {
		fmt.Fprintf(w, "Výsledek:\t%s\n", verdicts[calculator.StatusYes])
		fmt.Fprintf(w, "Splatnost:\t%d let\n", res.Years)
		fmt.Fprintf(w, "Měsíční splátka:\t%s\n", utils.FormatCZK(res.MonthlyPayment))
	} else {
		fmt.Fprintf(w, "Výsledek:\t%s\n", verdicts[calculator.StatusNo])
		fmt.Fprintf(w, "Max. možný úvěr:\t%s\n", utils.FormatCZK(res.MaxPossible))
	}
	w.Flush()

	fmt.Fprintln(out)
	w = tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "Let\tSplátka\t\t")
	for _, v := range res.Variants {
		mark := ""
		if !v.Feasible {
			mark = "nad limit DSTI"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t\n", v.Years, utils.FormatCZK(v.MonthlyPayment), mark)
	}
	w.Flush()
}

func printCatalog(out io.Writer, snap *market.Snapshot) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, r := range snap.Regions {
		fmt.Fprintf(w, "%s\n", r.Name)
		for _, town := range r.Towns {
			p := snap.Prices[town]
			fmt.Fprintf(w, "  %s\t%s\t%s\t%s\n", town,
				utils.FormatCZK(p.FlatRenovated), utils.FormatCZK(p.HouseOld), utils.FormatCZK(p.Land))
		}
	}
	w.Flush()

	fmt.Fprintln(out)
	for _, c := range market.Categories {
		fmt.Fprintf(out, "%-14s %s (%s m²)\n", c, c.Label(), utils.FormatThousand(c.DefaultAreaM2()))
	}
	fmt.Fprintf(out, "\nÚrok %.2f %%, DSTI %.0f %%, LTV %.0f %%, splatnost %d let\n",
		snap.Bank.InterestRate*100, snap.Bank.MaxDSTI*100, snap.Bank.MaxLTV*100, snap.Bank.TermYears)
}
