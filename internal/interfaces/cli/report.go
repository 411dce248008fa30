package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/DemirSacirovic/serbian-estate-intelligence/internal/application/hunt"
	"github.com/DemirSacirovic/serbian-estate-intelligence/internal/domain/tracking"
)

// NewReportCmd creates the report command group.
func NewReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Market reports built from stored listings and price histories",
	}
	cmd.AddCommand(newDesperateCmd(), newMarketCmd())
	return cmd
}

// newDesperateCmd lists the open price histories whose desperation score
// clears the threshold.
func newDesperateCmd() *cobra.Command {
	var threshold int

	cmd := &cobra.Command{
		Use:   "desperate",
		Short: "Rank open histories by seller desperation",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}

			stack, err := BuildStack(cmd.Context(), cliCtx.Config, cliCtx.Logger)
			if err != nil {
				return err
			}
			defer stack.Close()

			open, err := stack.Histories.ListOpen(cmd.Context())
			if err != nil {
				return err
			}
			sellers := tracking.DesperateSellers(open, threshold, time.Now())

			if cliCtx.wantsJSON() {
				return printJSON(cmd, sellers)
			}
			printDesperateSellers(cmd, sellers)
			return nil
		},
	}

	cmd.Flags().IntVar(&threshold, "threshold", 0,
		fmt.Sprintf("minimum desperation score (default %d)", tracking.DefaultDesperateThreshold))
	return cmd
}

// newMarketCmd prints the per-city market insights.
func newMarketCmd() *cobra.Command {
	var city string

	cmd := &cobra.Command{
		Use:   "market",
		Short: "Per-city market statistics and condition",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			if city == "" {
				return fmt.Errorf("--city is required")
			}

			stack, err := BuildStack(cmd.Context(), cliCtx.Config, cliCtx.Logger)
			if err != nil {
				return err
			}
			defer stack.Close()

			insights, err := stack.Hunt.Insights(cmd.Context(), city, time.Now())
			if err != nil {
				return err
			}

			if cliCtx.wantsJSON() {
				return printJSON(cmd, insights)
			}
			printInsights(cmd, insights)
			return nil
		},
	}

	cmd.Flags().StringVar(&city, "city", "", "city to report on")
	return cmd
}

func printDesperateSellers(cmd *cobra.Command, sellers []*tracking.DesperateSeller) {
	if len(sellers) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No sellers above the threshold.")
		return
	}
	w := tableWriter(cmd)
	fmt.Fprintln(w, "IDENTITY\tSCORE\tDAYS\tLAST PRICE\tSTANCE\tOFFER")
	for _, s := range sellers {
		fmt.Fprintf(w, "%s\t%d\t%d\t%.0f\t%s\t%.0f\n",
			s.Identity, s.Desperation, s.DaysOnMarket, s.LastPrice,
			s.Recommendation.Stance, s.Recommendation.SuggestedOffer)
	}
	w.Flush()
}

func printInsights(cmd *cobra.Command, in *hunt.MarketInsights) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s: %d active listings, %s (drop share %.0f%%)\n\n",
		in.City, in.TotalListings, in.Condition, in.DropShare*100)

	w := tableWriter(cmd)
	fmt.Fprintln(w, "MUNICIPALITY\tLISTINGS\tAVG EUR/M2")
	for _, m := range in.ByMunicipality {
		fmt.Fprintf(w, "%s\t%d\t%.0f\n", m.Municipality, m.Listings, m.AvgUnitPrice)
	}
	w.Flush()

	if len(in.BestValue) > 0 {
		fmt.Fprintf(out, "\nBest value: %v\n", in.BestValue)
	}
}

//Personal.AI order the ending
