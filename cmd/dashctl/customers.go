package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"repair-insights-go/internal/actionable"
	"repair-insights-go/internal/aggregator"
	"repair-insights-go/internal/retention"
	"repair-insights-go/internal/types"
)

func newCustomersCmd(load loader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "customers",
		Short: "Profiles every identifiable customer and prints the top of the list",
	}
	cmd.Flags().Int("limit", 20, "rows to print; 0 prints all")
	cmd.Flags().String("segment", "", "only print one segment (VIP, HighPotential, Regular, New, Risk, Lost)")
	cmd.Flags().Bool("outreach", false, "print the drafted outreach message under each row")
	cmd.Flags().Bool("progress", true, "show a progress bar while profiling")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		a, err := load(cmd)
		if err != nil {
			return err
		}
		v := bindLocal(cmd)

		groups := aggregator.GroupByCustomer(a.snap.Records)
		ref, _ := aggregator.ReferenceDate(a.snap.Records)
		engine := a.store.Engine()

		var bar *progressbar.ProgressBar
		if v.GetBool("progress") {
			bar = progressbar.NewOptions(len(groups),
				progressbar.OptionSetWriter(cmd.ErrOrStderr()),
				progressbar.OptionSetDescription("profiling customers"),
				progressbar.OptionClearOnFinish(),
			)
		}
		profiles := make([]types.CustomerProfile, 0, len(groups))
		for _, key := range aggregator.Keys(groups) {
			if p, ok := engine.Analyze(groups[key], ref); ok {
				profiles = append(profiles, p)
			}
			if bar != nil {
				_ = bar.Add(1)
			}
		}
		if bar != nil {
			_ = bar.Finish()
		}
		retention.SortProfiles(profiles)

		segment := types.Segment(v.GetString("segment"))
		limit := v.GetInt("limit")
		out := cmd.OutOrStdout()
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "NAME\tPHONE\tSEGMENT\tSCORE\tVISITS\tSPEND\tLAST VISIT\tCHURN\tNEXT WINDOW")
		shown := 0
		for _, p := range profiles {
			if segment != "" && p.Segment != segment {
				continue
			}
			if limit > 0 && shown == limit {
				break
			}
			shown++
			window := "-"
			if p.NextVisitWindow != nil {
				window = p.NextVisitWindow.Start + ".." + p.NextVisitWindow.End
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%d\t%s\t%.2f\t%s\n",
				p.DisplayName, p.Phone, p.Segment, p.VIPScore, p.VisitCount,
				p.TotalSpend, p.LastVisitDate, p.ChurnProbability, window)
			if v.GetBool("outreach") {
				fmt.Fprintf(tw, "\t%s\n", actionable.ForCustomer(p, a.cfg.ShopName).Message)
			}
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		fmt.Fprintf(out, "%d of %d customers (reference date %s)\n", shown, len(profiles), a.snap.Reference)
		return nil
	}
	return cmd
}
