package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"repair-insights-go/internal/actionable"
	"repair-insights-go/internal/analytics"
	"repair-insights-go/internal/types"
)

var segmentOrder = []types.Segment{
	types.SegmentVIP, types.SegmentHighPotential, types.SegmentRegular,
	types.SegmentNew, types.SegmentRisk, types.SegmentLost,
}

func newSummaryCmd(load loader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Prints revenue totals, goal progress and the CRM overview",
	}
	cmd.Flags().Int("year", 0, "restrict totals to a year")
	cmd.Flags().Int("month", 0, "restrict totals to a month (1-12)")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		a, err := load(cmd)
		if err != nil {
			return err
		}
		v := bindLocal(cmd)
		f := analytics.Filter{Year: v.GetInt("year"), Month: v.GetInt("month")}
		t := analytics.Summarize(f.Apply(a.snap.Records))
		out := cmd.OutOrStdout()

		green.Fprintf(out, "Source:      %s\n", a.snap.Source)
		fmt.Fprintf(out, "Records:     %d kept of %d rows\n", a.snap.Stats.Kept, a.snap.Stats.Rows)
		fmt.Fprintf(out, "Revenue:     %d\n", t.Revenue)
		fmt.Fprintf(out, "Cost:        %d\n", t.Cost)
		fmt.Fprintf(out, "Net profit:  %d (%.1f%%)\n", t.NetProfit, t.MarginPct)
		fmt.Fprintf(out, "Avg ticket:  %d over %d jobs\n", t.AvgTicket, t.Count)

		if a.snap.Reference != "" {
			asOf, _ := time.Parse(time.DateOnly, a.snap.Reference)
			g := analytics.Goal(a.snap.Records, analytics.GoalPeriod{Year: asOf.Year()},
				analytics.Targets{Monthly: a.cfg.MonthlyTarget, Yearly: a.cfg.YearlyTarget}, asOf)
			fmt.Fprintf(out, "Goal %s:   %d / %d (%.1f%%), projected %d, on track %t\n",
				g.Period, g.Achieved, g.Target, g.AttainmentPct, g.Projection, g.OnTrack)
		}

		ov := a.snap.Overview
		fmt.Fprintf(out, "Customers:   %d, returning %d (%.1f%%)\n", ov.TotalCustomers, ov.ReturningCustomers, ov.ReturnRate)
		for _, s := range segmentOrder {
			fmt.Fprintf(out, "  %-14s %d\n", s, ov.Segments[s])
		}
		riskColor(ov.ValueAtRisk).Fprintf(out, "Value at risk: %d\n", ov.ValueAtRisk)

		card := actionable.Generate(ov)
		yellow.Fprintf(out, "Next action: %s. %s (%s)\n", card.Insight, card.Action, card.Impact)
		return nil
	}
	return cmd
}
