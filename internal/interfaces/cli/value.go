package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/DemirSacirovic/serbian-estate-intelligence/internal/domain/valuation"
	ltypes "github.com/DemirSacirovic/serbian-estate-intelligence/pkg/types/listing"
)

// NewValueCmd creates the value command: a single-listing valuation.
func NewValueCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "value <listing-id>",
		Short: "Value one listing against its comparables",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}

			stack, err := BuildStack(cmd.Context(), cliCtx.Config, cliCtx.Logger)
			if err != nil {
				return err
			}
			defer stack.Close()

			ctx := cmd.Context()
			now := time.Now()
			eng := cliCtx.Config.Engine

			subject, err := stack.Listings.GetByID(ctx, ltypes.ID(args[0]))
			if err != nil {
				return err
			}

			comps, err := stack.Selector.Select(ctx, subject, valuation.SelectOptions{
				WindowDays:              eng.WindowDays,
				AreaTolerance:           eng.AreaTolerance,
				RequireSameMunicipality: eng.RequireSameMunicipality,
			}, now)
			if err != nil {
				return err
			}
			if len(comps) < stack.Engine.MinComparables() && eng.SparseAreaTolerance > eng.AreaTolerance {
				comps, err = stack.Selector.Select(ctx, subject, valuation.SelectOptions{
					WindowDays:    eng.WindowDays,
					AreaTolerance: eng.SparseAreaTolerance,
				}, now)
				if err != nil {
					return err
				}
			}

			result, err := stack.Engine.Estimate(valuation.EstimateInput{
				Subject:     subject,
				Comparables: comps,
				SourceCount: distinctSources(comps, subject),
				Now:         now,
			})
			if err != nil {
				return err
			}

			if cliCtx.wantsJSON() {
				return printJSON(cmd, result)
			}
			printValuation(cmd, subject, result)
			return nil
		},
	}
	return cmd
}

// distinctSources counts the scrape sources represented in the comparable
// set plus the subject's own.
func distinctSources(comps []*ltypes.Listing, subject *ltypes.Listing) int {
	seen := map[ltypes.Source]struct{}{}
	if subject.Source != "" {
		seen[subject.Source] = struct{}{}
	}
	for _, c := range comps {
		if c.Source != "" {
			seen[c.Source] = struct{}{}
		}
	}
	return len(seen)
}

func printValuation(cmd *cobra.Command, l *ltypes.Listing, r *valuation.Result) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s  %s, %s  %.0fm²\n", l.ID, l.City, l.Municipality, l.Area)
	fmt.Fprintf(out, "Asking:     %.0f %s\n", l.Price.Amount, l.Price.Currency)
	fmt.Fprintf(out, "Estimate:   %.0f (%s, %d comparables, confidence %d)\n",
		r.EstimatedValue, r.Basis, r.ComparableSize, r.Confidence)
	fmt.Fprintf(out, "Unit price: %.0f base, %.0f adjusted\n", r.BaseUnitPrice, r.AdjustedUnitPrice)
	for _, f := range r.Factors {
		fmt.Fprintf(out, "  factor %-12s %.2f\n", f.Name, f.Value)
	}
	if r.Discount != nil {
		fmt.Fprintf(out, "Discount:   %.1f%%\n", *r.Discount*100)
	}
	fmt.Fprintf(out, "Rating:     %s", r.Rating)
	if r.GoodDeal {
		fmt.Fprint(out, "  (good deal)")
	}
	fmt.Fprintln(out)
}

//Personal.AI order the ending
