package scheduler

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"SepaScreener/internal/collector"
	"SepaScreener/internal/model"
	"SepaScreener/internal/notify"
	"SepaScreener/internal/report"
	"SepaScreener/internal/scan"
	"SepaScreener/internal/store"
	"SepaScreener/internal/watchlist"
)

// ResultStore is the slice of persistence the pipeline needs.
type ResultStore interface {
	SaveScanResults(ctx context.Context, results []model.ScanResult) error
}

// Scheduler runs the fetch-scan-report-notify pipeline on a cron
// schedule and on demand.
type Scheduler struct {
	Cron          *cron.Cron
	Collector     *collector.Collector
	Scanner       *scan.Scanner
	Store         ResultStore
	Notifier      *notify.TelegramNotifier
	WatchlistPath string
	Benchmark     string
	HistoryDays   int
	ReportsDir    string
	Ctx           context.Context
	log           zerolog.Logger
}

// Deps bundles the pipeline collaborators.
type Deps struct {
	Collector     *collector.Collector
	Scanner       *scan.Scanner
	Store         ResultStore
	Notifier      *notify.TelegramNotifier
	WatchlistPath string
	Benchmark     string
	HistoryDays   int
	ReportsDir    string
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, deps Deps, log zerolog.Logger) *Scheduler {
	if deps.Store == nil {
		deps.Store = store.NewNoopStore()
	}
	if deps.HistoryDays <= 0 {
		deps.HistoryDays = collector.HistoryDays
	}
	return &Scheduler{
		Cron:          cron.New(cron.WithSeconds()),
		Collector:     deps.Collector,
		Scanner:       deps.Scanner,
		Store:         deps.Store,
		Notifier:      deps.Notifier,
		WatchlistPath: deps.WatchlistPath,
		Benchmark:     deps.Benchmark,
		HistoryDays:   deps.HistoryDays,
		ReportsDir:    deps.ReportsDir,
		Ctx:           ctx,
		log:           log,
	}
}

// Register adds the scan task on the given cron expression (with
// seconds field).
func (s *Scheduler) Register(scanCron string) error {
	if _, err := s.Cron.AddFunc(scanCron, s.scanTask); err != nil {
		return fmt.Errorf("register scan task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.log.Info().Msg("scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	s.log.Info().Msg("scheduler stopped")
}

// RunScanNow executes the scan pipeline immediately (manual trigger)
// and returns the results.
func (s *Scheduler) RunScanNow() ([]model.ScanResult, error) {
	return s.runScan()
}

func (s *Scheduler) scanTask() {
	if _, err := s.runScan(); err != nil {
		s.log.Error().Err(err).Msg("scheduled scan failed")
	}
}

func (s *Scheduler) runScan() ([]model.ScanResult, error) {
	s.log.Info().Msg("running scan pipeline")

	tickers, err := watchlist.Load(s.WatchlistPath)
	if err != nil {
		s.tryNotify(notify.FormatFailure("watchlist", err))
		return nil, fmt.Errorf("load watchlist: %w", err)
	}

	bench, err := s.Collector.CollectSeries(s.Ctx, s.Benchmark, s.HistoryDays)
	if err != nil {
		s.tryNotify(notify.FormatFailure("benchmark", err))
		return nil, fmt.Errorf("collect benchmark %s: %w", s.Benchmark, err)
	}

	series, infos, err := s.Collector.CollectAll(s.Ctx, tickers, s.HistoryDays)
	if err != nil {
		s.tryNotify(notify.FormatFailure("collect", err))
		return nil, fmt.Errorf("collect watchlist: %w", err)
	}

	results := s.Scanner.ScanMultiple(series, bench)
	for i := range results {
		if info, ok := infos[results[i].Ticker]; ok {
			results[i].CompanyName = info.CompanyName
		}
	}

	if err := s.Store.SaveScanResults(s.Ctx, results); err != nil {
		s.log.Error().Err(err).Msg("persist scan results")
	}

	now := time.Now()
	if s.ReportsDir != "" {
		if err := WriteReports(s.ReportsDir, results, now); err != nil {
			s.log.Error().Err(err).Msg("write reports")
		}
	}

	s.tryNotify(notify.FormatScanDigest(results, now))
	s.log.Info().Int("stocks", len(results)).Msg("scan pipeline finished")
	return results, nil
}

// WriteReports writes the timestamped summary and detailed reports.
func WriteReports(dir string, results []model.ScanResult, now time.Time) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create reports dir: %w", err)
	}
	stamp := now.Format("20060102_150405")

	summary := filepath.Join(dir, fmt.Sprintf("summary_report_%s.txt", stamp))
	if err := os.WriteFile(summary, []byte(report.Summary(results, now)), 0o644); err != nil {
		return fmt.Errorf("write summary report: %w", err)
	}
	detailed := filepath.Join(dir, fmt.Sprintf("detailed_report_%s.txt", stamp))
	if err := os.WriteFile(detailed, []byte(report.Detailed(results, now)), 0o644); err != nil {
		return fmt.Errorf("write detailed report: %w", err)
	}
	return nil
}

func (s *Scheduler) tryNotify(text string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		s.log.Error().Err(err).Msg("send notification")
	}
}
