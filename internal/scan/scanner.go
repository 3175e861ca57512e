package scan

import (
	"fmt"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"SepaScreener/internal/base"
	"SepaScreener/internal/indicator"
	"SepaScreener/internal/model"
)

// Scanner runs the full SEPA checklist for one or many tickers. A scan
// is a pure computation over immutable series snapshots: no I/O, no
// shared state between tickers.
type Scanner struct {
	Detector *base.Detector
	Workers  int
	log      zerolog.Logger
}

// NewScanner returns a scanner with the default detection policy.
func NewScanner(log zerolog.Logger) *Scanner {
	return &Scanner{
		Detector: base.NewDetector(),
		Workers:  runtime.NumCPU(),
		log:      log,
	}
}

// Scan evaluates one stock against all five criteria and grades the
// outcome. Series with fewer than 200 bars short-circuit to a minimal
// grade-F result. Scan never panics: evaluator faults are contained and
// reported as failed criteria.
func (sc *Scanner) Scan(s model.Series, bench model.Series) model.ScanResult {
	sc.log.Debug().Str("ticker", s.Symbol).Int("bars", s.Len()).Msg("scanning")

	if s.Len() < model.MinAnalyzableBars {
		return model.ScanResult{
			Ticker:        s.Symbol,
			OverallGrade:  model.GradeF,
			MeetsCriteria: false,
			PositionSize:  model.PositionNone,
			Err:           "Insufficient historical data",
			ScannedAt:     time.Now(),
		}
	}

	// The base is detected once and shared, so the three base-dependent
	// criteria all see an identical window.
	var win *model.ConsolidationWindow
	if w, ok := sc.Detector.Detect(s); ok {
		win = &w
	}

	checklist := &model.Checklist{
		TrendStructure:   sc.safeEval("trend_structure", func() model.ChecklistEntry { return evalTrendStructure(s) }),
		BaseQuality:      sc.safeEval("base_quality", func() model.ChecklistEntry { return evalBaseQuality(s, win) }),
		RelativeStrength: sc.safeEval("relative_strength", func() model.ChecklistEntry { return evalRelativeStrength(s, bench) }),
		VolumeSignature:  sc.safeEval("volume_signature", func() model.ChecklistEntry { return evalVolumeSignature(s, win) }),
		BreakoutRules:    sc.safeEval("breakout_rules", func() model.ChecklistEntry { return evalBreakoutRules(s, win) }),
	}

	grade := gradeChecklist(checklist)

	current := s.Last().Close
	high52, low52 := s.HighLow(252)

	result := model.ScanResult{
		Ticker:        s.Symbol,
		OverallGrade:  grade.Grade,
		MeetsCriteria: grade.MeetsCriteria,
		PositionSize:  grade.PositionSize,
		Checklist:     checklist,
		Analysis: model.PriceSummary{
			CurrentPrice:   current,
			High52w:        high52,
			Low52w:         low52,
			PctFromHighPct: indicator.PctBelowHigh(current, high52),
			PctFromLowPct:  indicator.PctAboveLow(current, low52),
		},
		ScannedAt: time.Now(),
	}

	sc.log.Info().
		Str("ticker", s.Symbol).
		Str("grade", string(result.OverallGrade)).
		Bool("meets_criteria", result.MeetsCriteria).
		Msg("scan complete")
	return result
}

// ScanMultiple scans each series independently across a worker pool and
// returns the results sorted by grade rank, ties broken by descending
// distance below the 52-week high.
func (sc *Scanner) ScanMultiple(series []model.Series, bench model.Series) []model.ScanResult {
	results := make([]model.ScanResult, len(series))

	workers := sc.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(series) {
		workers = len(series)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = sc.Scan(series[i], bench)
			}
		}()
	}
	for i := range series {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	sort.SliceStable(results, func(i, j int) bool {
		ri, rj := results[i].OverallGrade.Rank(), results[j].OverallGrade.Rank()
		if ri != rj {
			return ri < rj
		}
		return results[i].Analysis.PctFromHighPct > results[j].Analysis.PctFromHighPct
	})
	return results
}

// safeEval contains evaluator faults: a panic becomes a failed entry so
// the remaining criteria still run and the orchestrator always receives
// a structured checklist.
func (sc *Scanner) safeEval(name string, fn func() model.ChecklistEntry) (entry model.ChecklistEntry) {
	defer func() {
		if r := recover(); r != nil {
			sc.log.Error().Str("criterion", name).Interface("panic", r).Msg("evaluator fault")
			entry = model.NewEntry([]model.Finding{
				{Severity: model.Blocking, Message: fmt.Sprintf("Error: %v", r)},
			}, model.Details{})
		}
	}()
	return fn()
}
