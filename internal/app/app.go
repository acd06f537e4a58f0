package app

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bobmcallan/cryptofolio/internal/clients/coingecko"
	"github.com/bobmcallan/cryptofolio/internal/clients/telegram"
	"github.com/bobmcallan/cryptofolio/internal/common"
	"github.com/bobmcallan/cryptofolio/internal/interfaces"
	"github.com/bobmcallan/cryptofolio/internal/services/activation"
	"github.com/bobmcallan/cryptofolio/internal/services/catalog"
	"github.com/bobmcallan/cryptofolio/internal/services/portfolio"
	"github.com/bobmcallan/cryptofolio/internal/services/quote"
	"github.com/bobmcallan/cryptofolio/internal/services/report"
	"github.com/bobmcallan/cryptofolio/internal/services/resolver"
	"github.com/bobmcallan/cryptofolio/internal/storage/statefs"
)

// App holds all initialized services, clients and storage.
// It is the shared core used by cmd/cryptofolio and cmd/cryptofolio-server.
type App struct {
	Config           *common.Config
	Logger           *common.Logger
	Storage          interfaces.StorageManager
	CoinGeckoClient  interfaces.CoinGeckoClient
	Notifier         interfaces.Notifier
	CatalogService   interfaces.CatalogService
	Resolver         interfaces.TokenResolver
	QuoteService     interfaces.QuoteService
	PortfolioService interfaces.PortfolioService
	ReportService    interfaces.ReportService
	StartupTime      time.Time

	watcher *watcher
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp initializes storage, clients and services from configuration.
// configPath may be empty, in which case the default resolution logic is used.
func NewApp(configPath string) (*App, error) {
	startupStart := time.Now()

	// Get binary directory for self-contained operation
	binDir := getBinaryDir()

	// Load configuration - check provided path, CRYPTOFOLIO_CONFIG, then binary dir, then fallback
	if configPath == "" {
		configPath = os.Getenv("CRYPTOFOLIO_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "cryptofolio.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/cryptofolio.toml" // fallback for development
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Resolve relative storage path to binary directory
	if config.Storage.Path != "" && !filepath.IsAbs(config.Storage.Path) {
		config.Storage.Path = filepath.Join(binDir, config.Storage.Path)
	}

	logger := common.NewLogger(config.Logging.Level)

	store, err := statefs.NewStore(logger, config.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	cgClient := coingecko.NewClient(
		coingecko.WithBaseURL(config.Clients.CoinGecko.BaseURL),
		coingecko.WithLogger(logger),
		coingecko.WithRateLimit(config.Clients.CoinGecko.RateLimit),
		coingecko.WithTimeout(config.Clients.CoinGecko.GetTimeout()),
	)

	notifier := telegram.NewClient(
		config.Clients.Telegram.BotToken,
		config.Clients.Telegram.ChatID,
		telegram.WithBaseURL(config.Clients.Telegram.BaseURL),
		telegram.WithLogger(logger),
		telegram.WithTimeout(config.Clients.Telegram.GetTimeout()),
	)
	if !notifier.Enabled() {
		logger.Warn().Msg("Telegram credentials not configured - activation alerts disabled")
	}

	catalogService := catalog.NewService(cgClient, store.CatalogStorage(), config.Catalog.GetTTL(), logger)
	tokenResolver := resolver.New()
	quoteService := quote.NewService(cgClient, logger)
	tracker := activation.NewTracker(store.StateStorage(), notifier, logger)
	stables := activation.NewStables(config.Activation.StableTokens)
	portfolioService := portfolio.NewService(catalogService, tokenResolver, quoteService, tracker, store, stables, logger)
	reportService := report.NewService(logger)

	a := &App{
		Config:           config,
		Logger:           logger,
		Storage:          store,
		CoinGeckoClient:  cgClient,
		Notifier:         notifier,
		CatalogService:   catalogService,
		Resolver:         tokenResolver,
		QuoteService:     quoteService,
		PortfolioService: portfolioService,
		ReportService:    reportService,
		StartupTime:      startupStart,
	}

	logger.Info().Dur("startup", time.Since(startupStart)).Msg("App initialized")

	return a, nil
}

// Close releases all resources held by the App.
// Shutdown order: stop the watcher, then close storage.
func (a *App) Close() {
	if a.watcher != nil {
		a.watcher.Stop()
		a.watcher = nil
	}
	if a.Storage != nil {
		a.Storage.Close()
		a.Storage = nil
	}
}
