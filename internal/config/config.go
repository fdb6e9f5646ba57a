// Package config resolves runtime settings from .env, an optional config
// file and the process environment, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port            string `mapstructure:"port"`
	Environment     string `mapstructure:"environment"`
	LogLevel        string `mapstructure:"log_level"`
	SheetCSVURL     string `mapstructure:"sheet_csv_url"`
	DatasetPath     string `mapstructure:"dataset_path"`
	CatalogPath     string `mapstructure:"catalog_path"`
	StrictPhone     bool   `mapstructure:"strict_phone"`
	FetchTimeoutSec int    `mapstructure:"fetch_timeout_sec"`
	MonthlyTarget   int64  `mapstructure:"monthly_target"`
	YearlyTarget    int64  `mapstructure:"yearly_target"`
	CohortMonths    int    `mapstructure:"cohort_months"`
	ShopName        string `mapstructure:"shop_name"`
}

var defaults = map[string]interface{}{
	"port":              "8080",
	"environment":       "local",
	"log_level":         "info",
	"sheet_csv_url":     "",
	"dataset_path":      "",
	"catalog_path":      "",
	"strict_phone":      false,
	"fetch_timeout_sec": 12,
	"monthly_target":    37_500_000,
	"yearly_target":     450_000_000,
	"cohort_months":     6,
	"shop_name":         "Atelier",
}

// New returns a viper instance with defaults and environment lookup set
// up. Callers may bind flags to it before calling Load.
func New() *viper.Viper {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads .env (if present) into the environment, then the config file
// when one is named, and decodes everything into a Config.
func Load(v *viper.Viper, cfgFile string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unable to decode config: %w", err)
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if c.FetchTimeoutSec <= 0 {
		return fmt.Errorf("fetch_timeout_sec must be positive, got %d", c.FetchTimeoutSec)
	}
	if c.MonthlyTarget <= 0 || c.YearlyTarget <= 0 {
		return fmt.Errorf("revenue targets must be positive")
	}
	if c.CohortMonths < 0 || c.CohortMonths > 36 {
		return fmt.Errorf("cohort_months must be between 0 and 36, got %d", c.CohortMonths)
	}
	return nil
}

// Source is the feed location: the published sheet wins over a local file.
func (c Config) Source() string {
	if c.SheetCSVURL != "" {
		return c.SheetCSVURL
	}
	return c.DatasetPath
}

func (c Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutSec) * time.Second
}
