package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"SepaScreener/internal/model"
	"SepaScreener/internal/report"
	"SepaScreener/internal/scheduler"
	"SepaScreener/internal/ticker"
	"SepaScreener/internal/watchlist"
)

var (
	scanTicker   string
	summaryOnly  bool
	detailedOnly bool
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Run the SEPA scan and generate reports",
	Long: `Scans the watchlist (or a single ticker) against the five SEPA
criteria, persists the results, and writes summary and detailed
reports to the reports directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, closeFn, err := loadApp()
		if err != nil {
			return err
		}
		defer closeFn()
		ctx := context.Background()

		var tickers []string
		if scanTicker != "" {
			clean, err := ticker.Validate(scanTicker)
			if err != nil {
				return err
			}
			tickers = []string{clean}
		} else {
			tickers, err = watchlist.Load(app.cfg.Watchlist.Path)
			if err != nil {
				return fmt.Errorf("load watchlist: %w", err)
			}
		}

		bench, err := app.collector.CollectSeries(ctx, app.cfg.Scan.Benchmark, app.cfg.Scan.HistoryDays)
		if err != nil {
			return fmt.Errorf("collect benchmark %s: %w", app.cfg.Scan.Benchmark, err)
		}

		series, infos, err := app.collector.CollectAll(ctx, tickers, app.cfg.Scan.HistoryDays)
		if err != nil {
			return err
		}

		results := app.scanner.ScanMultiple(series, bench)
		for i := range results {
			if info, ok := infos[results[i].Ticker]; ok {
				results[i].CompanyName = info.CompanyName
			}
		}

		if err := app.store.SaveScanResults(ctx, results); err != nil {
			app.log.Error().Err(err).Msg("persist scan results")
		}

		now := time.Now()
		printReports(results, now)

		if err := scheduler.WriteReports(app.cfg.Reports.Dir, results, now); err != nil {
			return err
		}
		fmt.Printf("\nReports saved to: %s\n", app.cfg.Reports.Dir)
		return nil
	},
}

func printReports(results []model.ScanResult, now time.Time) {
	if !detailedOnly {
		fmt.Println(report.Summary(results, now))
	}
	if !summaryOnly {
		text := report.Detailed(results, now)
		if len(text) > 50000 {
			fmt.Println(text[:50000])
			fmt.Println("\n... (report truncated in console, full version saved to file)")
		} else {
			fmt.Println(text)
		}
	}
}

func init() {
	scanCmd.Flags().StringVar(&scanTicker, "ticker", "", "scan a single ticker only")
	scanCmd.Flags().BoolVar(&summaryOnly, "summary-only", false, "print only the summary report")
	scanCmd.Flags().BoolVar(&detailedOnly, "detailed-only", false, "print only the detailed report")
	rootCmd.AddCommand(scanCmd)
}
