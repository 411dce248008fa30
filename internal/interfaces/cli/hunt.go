package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/DemirSacirovic/serbian-estate-intelligence/internal/application/hunt"
	"github.com/DemirSacirovic/serbian-estate-intelligence/internal/domain/scoring"
)

// NewHuntCmd creates the hunt command: one full pipeline pass over the
// configured cities.
func NewHuntCmd() *cobra.Command {
	var cities []string

	cmd := &cobra.Command{
		Use:   "hunt",
		Short: "Run the opportunity-detection pipeline once",
		Long: "Hunt values every active listing in the focus cities against its\n" +
			"comparables, ranks the undervalued ones, updates price histories and\n" +
			"reports duplicates, suspicious listings and desperate sellers.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			if len(cities) > 0 {
				cliCtx.Config.Engine.FocusCities = cities
			}

			stack, err := BuildStack(cmd.Context(), cliCtx.Config, cliCtx.Logger)
			if err != nil {
				return err
			}
			defer stack.Close()

			report, err := stack.Hunt.Run(cmd.Context(), time.Now())
			if err != nil {
				return err
			}

			if cliCtx.wantsJSON() {
				return printJSON(cmd, report)
			}
			printHuntReport(cmd, report)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&cities, "city", nil, "override the configured focus cities (repeatable)")
	return cmd
}

// printHuntReport renders the run summary and the ranked opportunity table.
func printHuntReport(cmd *cobra.Command, report *hunt.Report) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Scanned %d listings in %s (%d skipped, %d without estimate)\n\n",
		report.Scanned,
		report.FinishedAt.Sub(report.StartedAt).Round(time.Millisecond),
		report.Skipped,
		report.Unavailable,
	)

	if len(report.Opportunities) == 0 {
		fmt.Fprintln(out, "No opportunities matched the criteria.")
	} else {
		w := tableWriter(cmd)
		fmt.Fprintln(w, "RANK\tID\tCITY\tMUNICIPALITY\tPRICE\tESTIMATE\tDISCOUNT\tSCORE\tRATING\tALERTS")
		for _, o := range report.Opportunities {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%.0f\t%.0f\t%.1f%%\t%.1f\t%s\t%s\n",
				o.Rank,
				o.Listing.ID,
				o.Listing.City,
				o.Listing.Municipality,
				o.Listing.Price.Amount,
				o.Valuation.EstimatedValue,
				o.Valuation.DiscountOrZero()*100,
				o.Breakdown.Total,
				o.Valuation.Rating,
				joinAlerts(o.Alerts),
			)
		}
		w.Flush()
	}

	fmt.Fprintf(out, "\nDesperate sellers: %d  Duplicate groups: %d  Fraud alerts: %d\n",
		len(report.DesperateSellers), len(report.DuplicateGroups), len(report.FraudAlerts))

	for _, g := range report.DuplicateGroups {
		if !g.PriceDiscrepancy {
			continue
		}
		fmt.Fprintf(out, "  price discrepancy %s: %.0f-%.0f across %d listings\n",
			g.Identity, g.MinPrice, g.MaxPrice, len(g.Listings))
	}
	for _, a := range report.FraudAlerts {
		fmt.Fprintf(out, "  suspicious %s: %s (%s)\n", a.ListingID, a.Type, a.Detail)
	}
}

// joinAlerts renders opportunity alerts as a comma-separated cell.
func joinAlerts(alerts []scoring.Alert) string {
	if len(alerts) == 0 {
		return "-"
	}
	parts := make([]string, len(alerts))
	for i, a := range alerts {
		parts[i] = string(a)
	}
	return strings.Join(parts, ",")
}

//Personal.AI order the ending
