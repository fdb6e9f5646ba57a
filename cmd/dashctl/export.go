package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"repair-insights-go/internal/analytics"
	"repair-insights-go/internal/export"
)

func newExportCmd(load loader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Writes the canonical records to a .csv or .xlsx file",
	}
	cmd.Flags().String("out", "", "output file; the extension picks the format")
	cmd.Flags().Int("year", 0, "only export this year")
	cmd.Flags().Int("month", 0, "only export this month (1-12)")
	cmd.Flags().String("brand", "", "only export this brand")
	_ = cmd.MarkFlagRequired("out")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		v := bindLocal(cmd)
		out := v.GetString("out")
		ext := strings.ToLower(filepath.Ext(out))
		if ext != ".csv" && ext != ".xlsx" {
			return fmt.Errorf("unsupported export format %q: use .csv or .xlsx", ext)
		}
		a, err := load(cmd)
		if err != nil {
			return err
		}
		records := analytics.Filter{
			Year:  v.GetInt("year"),
			Month: v.GetInt("month"),
			Brand: v.GetString("brand"),
		}.Apply(a.snap.Records)

		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("create %s: %w", out, err)
		}
		if ext == ".xlsx" {
			err = export.WriteXLSX(f, records)
		} else {
			err = export.WriteCSV(f, records)
		}
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return fmt.Errorf("write %s: %w", out, err)
		}
		green.Fprintf(cmd.OutOrStdout(), "wrote %d records to %s\n", len(records), out)
		return nil
	}
	return cmd
}
