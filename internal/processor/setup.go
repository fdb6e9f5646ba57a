package processor

import (
	"repair-insights-go/internal/catalog"
	"repair-insights-go/internal/config"
	"repair-insights-go/internal/dataset"
	"repair-insights-go/internal/logger"
	"repair-insights-go/internal/normalize"
	"repair-insights-go/internal/retention"
	"repair-insights-go/internal/source"
)

// Setup wires a Store for cfg: catalog (embedded unless CATALOG_PATH is
// set), parser, engine and fetcher.
func Setup(cfg config.Config, log *logger.Logger) (*Store, *catalog.Catalog, error) {
	cat := catalog.Default()
	if cfg.CatalogPath != "" {
		c, err := catalog.LoadFile(cfg.CatalogPath)
		if err != nil {
			return nil, nil, err
		}
		cat = c
	}
	parser := dataset.NewParser(normalize.NewBrands(cat.Brands), dataset.Options{RequirePhone: cfg.StrictPhone})

	rc := retention.DefaultConfig()
	rc.Durability = cat.Durability
	engine := retention.NewEngine(rc)

	fetcher := source.NewFetcher(source.Options{
		Timeout:    cfg.FetchTimeout(),
		MaxElapsed: cfg.FetchTimeout(),
	}, log.Component("source"))

	return NewStore(fetcher, parser, engine, cfg.Source(), log.Component("processor")), cat, nil
}
