package app

import (
	"log/slog"

	"orderbook_go/internal/domain"
	"orderbook_go/internal/infra"
	"orderbook_go/internal/infra/storage"
	"orderbook_go/internal/service"
)

// Bootstrap orchestrates the application startup sequence
type Bootstrap struct {
	Config  *infra.Config
	Storage *storage.Storage
	Catalog *service.CatalogService
}

// NewBootstrap creates a new Bootstrap instance
func NewBootstrap() *Bootstrap {
	return &Bootstrap{}
}

// Initialize performs core system initialization (config, logger, DB, catalog)
func (b *Bootstrap) Initialize() error {
	slog.Info("🚀 Bootstrapping Orderbook Go...")

	// 1. Load Config
	cfg, err := infra.LoadConfig("configs/config.yaml")
	if err != nil {
		return err // Let main handle the error
	}
	b.Config = cfg

	// 2. Setup Logger
	logger := infra.NewLogger(cfg)
	slog.SetDefault(logger)

	// 3. Initialize Storage (DB)
	store, err := storage.NewStorage(cfg.Storage.Path)
	if err != nil {
		return err
	}
	b.Storage = store
	slog.Info("✅ Database initialized")

	// 4. Seed the token catalog from config
	b.Catalog = service.NewCatalogService(store)
	seeds := make([]domain.TokenInfo, 0, len(cfg.Tokens))
	for _, t := range cfg.Tokens {
		seeds = append(seeds, domain.TokenInfo{
			Address:  t.Address,
			Symbol:   t.Symbol,
			Name:     t.Name,
			Decimals: t.Decimals,
		})
	}
	if err := b.Catalog.Seed(seeds); err != nil {
		return err
	}
	slog.Info("✅ Token catalog ready", slog.Int("tokens", len(seeds)))

	return nil
}
