package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"SepaScreener/internal/watchlist"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch and cache daily bars for the watchlist",
	Long: `Fetches daily history for every watchlist ticker plus the
benchmark and stores it in the local database, so repeated scans
run off the cache instead of the network.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, closeFn, err := loadApp()
		if err != nil {
			return err
		}
		defer closeFn()
		ctx := context.Background()

		tickers, err := watchlist.Load(app.cfg.Watchlist.Path)
		if err != nil {
			return fmt.Errorf("load watchlist: %w", err)
		}

		symbols := append([]string{app.cfg.Scan.Benchmark}, tickers...)
		fmt.Printf("Fetching %d symbols (%d bars each)...\n", len(symbols), app.cfg.Scan.HistoryDays)

		ok := 0
		for i, sym := range symbols {
			s, err := app.collector.CollectSeries(ctx, sym, app.cfg.Scan.HistoryDays)
			if err != nil {
				fmt.Printf("[%d/%d] %-12s ✗ %v\n", i+1, len(symbols), sym, err)
				continue
			}
			ok++
			fmt.Printf("[%d/%d] %-12s ✓ %d bars\n", i+1, len(symbols), sym, s.Len())
		}
		fmt.Printf("\nDone: %d/%d symbols cached\n", ok, len(symbols))
		if ok == 0 {
			return fmt.Errorf("no symbols fetched")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(fetchCmd)
}
