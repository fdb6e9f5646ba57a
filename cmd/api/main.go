package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"repair-insights-go/internal/analytics"
	"repair-insights-go/internal/config"
	"repair-insights-go/internal/handlers"
	"repair-insights-go/internal/logger"
	"repair-insights-go/internal/processor"
)

func main() {
	cfg, err := config.Load(config.New(), os.Getenv("CONFIG_FILE"))
	if err != nil {
		logger.New().WithError(err).Fatal("invalid configuration")
	}

	log := logger.NewWith(cfg.Environment, cfg.LogLevel, os.Stdout)
	log.WithField("service", "repair-insights-go").Info("starting service")

	store, cat, err := processor.Setup(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("failed to build data store")
	}

	// The server comes up even when the first load fails; /api/status
	// reports the error and /api/refresh or /api/upload can recover.
	log.WithField("source", cfg.Source()).Info("loading dataset")
	ctx, cancel := context.WithTimeout(context.Background(), 2*cfg.FetchTimeout())
	if err := store.Load(ctx); err != nil {
		log.WithError(err).Warn("initial dataset load failed")
	} else {
		st := store.State()
		log.WithField("records", st.Records).WithField("customers", st.Customers).Info("dataset loaded")
	}
	cancel()

	h := handlers.New(store, handlers.Options{
		Catalog:      cat,
		Targets:      analytics.Targets{Monthly: cfg.MonthlyTarget, Yearly: cfg.YearlyTarget},
		CohortMonths: cfg.CohortMonths,
		ShopName:     cfg.ShopName,
	}, log)

	addr := fmt.Sprintf(":%s", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      h.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	log.WithField("addr", addr).Info("listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.WithError(err).Fatal("server terminated")
	}
}
