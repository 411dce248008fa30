package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	domlisting "github.com/DemirSacirovic/serbian-estate-intelligence/internal/domain/listing"
	"github.com/DemirSacirovic/serbian-estate-intelligence/internal/domain/tracking"
	ltypes "github.com/DemirSacirovic/serbian-estate-intelligence/pkg/types/listing"
)

// NewTrackCmd creates the track command: a single property's price history
// with the negotiation read derived from it.
func NewTrackCmd() *cobra.Command {
	var rawIdentity string

	cmd := &cobra.Command{
		Use:   "track [listing-id]",
		Short: "Show a property's price history and negotiation read",
		Long: "Track resolves the listing to its cross-source property identity and\n" +
			"prints the recorded price trajectory, the desperation breakdown and the\n" +
			"suggested opening offer.  Pass --identity to look a history up directly.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			if rawIdentity == "" && len(args) == 0 {
				return fmt.Errorf("either a listing ID or --identity is required")
			}

			stack, err := BuildStack(cmd.Context(), cliCtx.Config, cliCtx.Logger)
			if err != nil {
				return err
			}
			defer stack.Close()

			ctx := cmd.Context()
			identity := domlisting.PropertyIdentity(rawIdentity)
			if identity == "" {
				l, err := stack.Listings.GetByID(ctx, ltypes.ID(args[0]))
				if err != nil {
					return err
				}
				identity = stack.Identifier.Identity(l)
			}

			h, err := stack.Histories.Get(ctx, identity)
			if err != nil {
				return err
			}
			rec := tracking.Recommend(h, time.Now())

			if cliCtx.wantsJSON() {
				return printJSON(cmd, struct {
					History        *tracking.PriceHistory  `json:"history"`
					Recommendation tracking.Recommendation `json:"recommendation"`
				}{h, rec})
			}
			printHistory(cmd, h, rec)
			return nil
		},
	}

	cmd.Flags().StringVar(&rawIdentity, "identity", "", "property identity (bypasses listing lookup)")
	return cmd
}

func printHistory(cmd *cobra.Command, h *tracking.PriceHistory, rec tracking.Recommendation) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Identity: %s (%s)\n", h.Identity, h.Status)
	fmt.Fprintf(out, "On market %d days, %d drops, %d increases, range %.0f-%.0f\n\n",
		h.DaysOnMarket(), h.Drops, h.Increases, h.MinPrice, h.MaxPrice)

	w := tableWriter(cmd)
	fmt.Fprintln(w, "OBSERVED\tPRICE\tCHANGE\tSOURCE")
	for _, obs := range h.Observations {
		change := "-"
		if obs.ChangeAmount != 0 {
			change = fmt.Sprintf("%+.0f (%+.1f%%)", obs.ChangeAmount, obs.ChangePercent*100)
		}
		fmt.Fprintf(w, "%s\t%.0f\t%s\t%s\n",
			obs.ObservedAt.Format("2006-01-02"), obs.Price, change, obs.Source)
	}
	w.Flush()

	fmt.Fprintf(out, "\nDesperation: %d/100  Stance: %s  Suggested offer: %.0f\n",
		rec.Desperation.Total, rec.Stance, rec.SuggestedOffer)
	for _, p := range rec.TalkingPoints {
		fmt.Fprintf(out, "  - %s\n", p)
	}
}

//Personal.AI order the ending
