package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"SepaScreener/internal/notify"
	"SepaScreener/internal/scheduler"
)

var runOnStart bool

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run the scan pipeline on a cron schedule",
	Long: `Starts the scheduler and runs the full fetch-scan-report pipeline
on the configured cron expression, sending a Telegram digest after
each run when telegram is configured.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, closeFn, err := loadApp()
		if err != nil {
			return err
		}
		defer closeFn()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		var notifier *notify.TelegramNotifier
		if app.cfg.Telegram.BotToken != "" && app.cfg.Telegram.ChatID != "" {
			notifier = notify.NewTelegramNotifier(
				app.cfg.Telegram.BotToken, app.cfg.Telegram.ChatID, app.cfg.Proxy, app.log)
		} else {
			app.log.Warn().Msg("telegram not configured, digests disabled")
		}

		sched := scheduler.NewScheduler(ctx, scheduler.Deps{
			Collector:     app.collector,
			Scanner:       app.scanner,
			Store:         app.store,
			Notifier:      notifier,
			WatchlistPath: app.cfg.Watchlist.Path,
			Benchmark:     app.cfg.Scan.Benchmark,
			HistoryDays:   app.cfg.Scan.HistoryDays,
			ReportsDir:    app.cfg.Reports.Dir,
		}, app.log)

		if err := sched.Register(app.cfg.Schedule.ScanCron); err != nil {
			return err
		}
		sched.Start()
		defer sched.Stop()

		if runOnStart {
			if _, err := sched.RunScanNow(); err != nil {
				app.log.Error().Err(err).Msg("initial scan failed")
			}
		}

		fmt.Printf("Watching on schedule %q, press Ctrl-C to stop\n", app.cfg.Schedule.ScanCron)
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		fmt.Println("\nShutting down")
		return nil
	},
}

func init() {
	watchCmd.Flags().BoolVar(&runOnStart, "run-on-start", false, "run a scan immediately on startup")
	rootCmd.AddCommand(watchCmd)
}
