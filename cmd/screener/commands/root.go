package commands

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"SepaScreener/internal/collector"
	"SepaScreener/internal/config"
	"SepaScreener/internal/logging"
	"SepaScreener/internal/scan"
	"SepaScreener/internal/store"
)

var (
	configFile string
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "screener",
	Short: "Minervini SEPA stock screener",
	Long: `Minervini SEPA stock screener

Scans a watchlist of stocks against the five SEPA criteria
(trend & structure, base quality, relative strength, volume
signature, breakout rules) and grades each stock A+ to F.

Examples:
  screener fetch
  screener scan
  screener scan --ticker ASML.AS
  screener validate
  screener watch`,
}

// Execute runs the root command. Called once from main.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "configs/config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// app bundles the collaborators every command starts from.
type app struct {
	cfg       *config.Config
	log       zerolog.Logger
	store     *store.SQLiteStore
	collector *collector.Collector
	scanner   *scan.Scanner
}

// loadApp loads config and wires the data layer. The returned close
// func releases the store.
func loadApp() (*app, func(), error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, nil, err
	}
	if verbose {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid config: %w", err)
	}

	log := logging.New(cfg.Log.Level, cfg.Log.Format, cfg.Log.File)

	st, err := store.NewSQLiteStore(cfg.Database.SQLitePath, log)
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}

	var live collector.Fetcher
	switch cfg.DataSource.Provider {
	case "mock":
		live = &collector.MockFetcher{}
	default:
		live = collector.NewYahooFetcher(cfg.Proxy, log)
	}

	maxAge, err := time.ParseDuration(cfg.DataSource.CacheMaxAge)
	if err != nil {
		maxAge = 24 * time.Hour
	}
	fetcher := collector.NewCachedFetcher(st, live, maxAge, log)

	a := &app{
		cfg:       cfg,
		log:       log,
		store:     st,
		collector: collector.NewCollector(fetcher, log),
		scanner:   scan.NewScanner(log),
	}
	a.scanner.Workers = cfg.Scan.Workers

	closeFn := func() {
		if err := st.Close(); err != nil {
			log.Error().Err(err).Msg("close store")
		}
	}
	return a, closeFn, nil
}
