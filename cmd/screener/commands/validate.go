package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"SepaScreener/internal/validate"
	"SepaScreener/internal/watchlist"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Get an AI second opinion on A+ and A grade stocks",
	Long: `Runs the SEPA scan, then sends the A+ and A grade results to an
OpenAI-compatible analyst model for validation. The combined report
is saved to the reports directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, closeFn, err := loadApp()
		if err != nil {
			return err
		}
		defer closeFn()
		if app.cfg.OpenAI.APIKey == "" {
			return fmt.Errorf("openai.api_key is required (set OPENAI_API_KEY)")
		}
		ctx := context.Background()

		tickers, err := watchlist.Load(app.cfg.Watchlist.Path)
		if err != nil {
			return fmt.Errorf("load watchlist: %w", err)
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

		candidates := validate.Candidates(results)
		if len(candidates) == 0 {
			return fmt.Errorf("no A+ or A grade stocks found")
		}
		fmt.Printf("Found %d stocks to validate\n", len(candidates))

		client := validate.NewClient(&validate.ClientConfig{
			APIKey:      app.cfg.OpenAI.APIKey,
			BaseURL:     app.cfg.OpenAI.BaseURL,
			Model:       app.cfg.OpenAI.Model,
			MaxTokens:   16000,
			Temperature: 0.3,
			Timeout:     5 * time.Minute,
		})
		validator := validate.NewValidator(client, app.log)

		now := time.Now()
		reportText, err := validator.Run(ctx, results, now)
		if err != nil {
			return err
		}

		if err := os.MkdirAll(app.cfg.Reports.Dir, 0o755); err != nil {
			return fmt.Errorf("create reports dir: %w", err)
		}
		out := filepath.Join(app.cfg.Reports.Dir,
			fmt.Sprintf("validation_report_%s.txt", now.Format("20060102_150405")))
		if err := os.WriteFile(out, []byte(reportText), 0o644); err != nil {
			return fmt.Errorf("write validation report: %w", err)
		}
		fmt.Printf("Validation report saved to: %s\n", out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
