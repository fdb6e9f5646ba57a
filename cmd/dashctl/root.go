package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"repair-insights-go/internal/catalog"
	"repair-insights-go/internal/config"
	"repair-insights-go/internal/dataset"
	"repair-insights-go/internal/logger"
	"repair-insights-go/internal/processor"
)

// app is what every subcommand needs after flags and config are resolved.
type app struct {
	cfg     config.Config
	store   *processor.Store
	catalog *catalog.Catalog
	snap    *processor.Snapshot
}

func newRootCmd() *cobra.Command {
	var cfgFile string
	v := config.New()

	root := &cobra.Command{
		Use:   "dashctl",
		Short: "Inspects a repair shop sales ledger from the command line",
		Long: `dashctl loads the shop's sales ledger (CSV, XLSX or a published sheet URL),
profiles customers and prints or exports the same aggregates the dashboard API serves.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (yaml)")
	root.PersistentFlags().String("source", "", "ledger location: CSV/XLSX path or http(s) URL")
	root.PersistentFlags().Bool("strict-phone", false, "drop rows without phone digits")
	root.PersistentFlags().String("log-level", "info", "log level written to stderr")
	root.PersistentFlags().String("shop-name", "", "shop name used in outreach messages")
	root.PersistentFlags().BoolVar(&color.NoColor, "no-color", color.NoColor, "disable colored output")

	_ = v.BindPFlag("strict_phone", root.PersistentFlags().Lookup("strict-phone"))
	_ = v.BindPFlag("log_level", root.PersistentFlags().Lookup("log-level"))
	_ = v.BindPFlag("shop_name", root.PersistentFlags().Lookup("shop-name"))
	_ = v.BindPFlag("source", root.PersistentFlags().Lookup("source"))

	load := func(cmd *cobra.Command) (*app, error) {
		cfg, err := config.Load(v, cfgFile)
		if err != nil {
			return nil, err
		}
		if src := v.GetString("source"); src != "" {
			cfg.SheetCSVURL = ""
			cfg.DatasetPath = src
		}
		if cfg.Source() == "" {
			return nil, errors.New("no ledger: pass --source or set SHEET_CSV_URL / DATASET_PATH")
		}
		log := logger.NewWith(cfg.Environment, cfg.LogLevel, cmd.ErrOrStderr())
		store, cat, err := processor.Setup(cfg, log)
		if err != nil {
			return nil, err
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), 2*cfg.FetchTimeout())
		defer cancel()
		if err := store.Load(ctx); err != nil && !errors.Is(err, dataset.ErrNoRecords) {
			return nil, fmt.Errorf("load %s: %w", cfg.Source(), err)
		}
		snap, _ := store.Snapshot()
		return &app{cfg: cfg, store: store, catalog: cat, snap: snap}, nil
	}

	root.AddCommand(newCustomersCmd(load), newExportCmd(load), newSummaryCmd(load))
	return root
}

type loader func(cmd *cobra.Command) (*app, error)

// bindLocal exposes a subcommand's flags through a fresh viper so "limit"
// and friends can also come from the environment.
func bindLocal(cmd *cobra.Command) *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()
	_ = v.BindPFlags(cmd.Flags())
	return v
}
