package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"SepaScreener/internal/collector"
	"SepaScreener/internal/model"
)

// SQLiteStore persists daily bars, company metadata, and scan snapshots
// to a SQLite database.
type SQLiteStore struct {
	db  *sql.DB
	mu  sync.Mutex
	log zerolog.Logger
}

// NewSQLiteStore opens (or creates) the SQLite database and runs migrations.
func NewSQLiteStore(dbPath string, log zerolog.Logger) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db, log: log}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Info().Str("path", dbPath).Msg("sqlite store opened")
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS daily_bars (
			symbol     TEXT NOT NULL,
			date       TEXT NOT NULL,
			open       REAL NOT NULL,
			high       REAL NOT NULL,
			low        REAL NOT NULL,
			close      REAL NOT NULL,
			volume     REAL NOT NULL,
			fetched_at INTEGER NOT NULL,
			PRIMARY KEY (symbol, date)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_bars_symbol ON daily_bars(symbol)`,

		`CREATE TABLE IF NOT EXISTS company_info (
			symbol       TEXT PRIMARY KEY,
			company_name TEXT,
			exchange     TEXT,
			currency     TEXT,
			updated_at   INTEGER NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS scan_snapshots (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			scanned_at     INTEGER NOT NULL,
			ticker         TEXT NOT NULL,
			company_name   TEXT,
			grade          TEXT NOT NULL,
			meets_criteria INTEGER NOT NULL,
			position_size  TEXT NOT NULL,
			error          TEXT,
			checklist      TEXT,
			analysis       TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_snap_ts ON scan_snapshots(scanned_at)`,
		`CREATE INDEX IF NOT EXISTS idx_snap_ticker ON scan_snapshots(ticker)`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}
	return nil
}

const dateLayout = "2006-01-02"

// SaveBars replaces the stored history for a symbol.
func (s *SQLiteStore) SaveBars(ctx context.Context, symbol string, bars []model.Bar) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM daily_bars WHERE symbol = ?`, symbol); err != nil {
		return fmt.Errorf("clear bars: %w", err)
	}

	now := time.Now().Unix()
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO daily_bars
		(symbol, date, open, high, low, close, volume, fetched_at)
		VALUES (?,?,?,?,?,?,?,?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, b := range bars {
		if _, err := stmt.ExecContext(ctx, symbol, b.Date.Format(dateLayout),
			b.Open, b.High, b.Low, b.Close, b.Volume, now); err != nil {
			return fmt.Errorf("insert bar %s %s: %w", symbol, b.Date.Format(dateLayout), err)
		}
	}
	return tx.Commit()
}

// LoadBars returns the stored history for a symbol, oldest first, along
// with the time it was fetched.
func (s *SQLiteStore) LoadBars(ctx context.Context, symbol string) ([]model.Bar, time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx, `SELECT date, open, high, low, close, volume, fetched_at
		FROM daily_bars WHERE symbol = ? ORDER BY date ASC`, symbol)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("query bars: %w", err)
	}
	defer rows.Close()

	var bars []model.Bar
	var fetchedAt int64
	for rows.Next() {
		var dateStr string
		var b model.Bar
		if err := rows.Scan(&dateStr, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume, &fetchedAt); err != nil {
			return nil, time.Time{}, fmt.Errorf("scan bar: %w", err)
		}
		d, err := time.Parse(dateLayout, dateStr)
		if err != nil {
			return nil, time.Time{}, fmt.Errorf("parse date %q: %w", dateStr, err)
		}
		b.Date = d
		bars = append(bars, b)
	}
	if err := rows.Err(); err != nil {
		return nil, time.Time{}, err
	}
	if len(bars) == 0 {
		return nil, time.Time{}, sql.ErrNoRows
	}
	return bars, time.Unix(fetchedAt, 0), nil
}

// SaveInfo upserts company metadata.
func (s *SQLiteStore) SaveInfo(ctx context.Context, info collector.Info) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `INSERT INTO company_info
		(symbol, company_name, exchange, currency, updated_at)
		VALUES (?,?,?,?,?)
		ON CONFLICT(symbol) DO UPDATE SET
			company_name = excluded.company_name,
			exchange     = excluded.exchange,
			currency     = excluded.currency,
			updated_at   = excluded.updated_at`,
		info.Symbol, info.CompanyName, info.Exchange, info.Currency, time.Now().Unix())
	return err
}

// LoadInfo returns stored company metadata for a symbol.
func (s *SQLiteStore) LoadInfo(ctx context.Context, symbol string) (collector.Info, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var info collector.Info
	err := s.db.QueryRowContext(ctx, `SELECT symbol, company_name, exchange, currency
		FROM company_info WHERE symbol = ?`, symbol).
		Scan(&info.Symbol, &info.CompanyName, &info.Exchange, &info.Currency)
	if err != nil {
		return collector.Info{}, err
	}
	return info, nil
}

// SaveScanResults records one row per scanned ticker. The checklist and
// analysis are stored as JSON so later runs can be compared in full.
func (s *SQLiteStore) SaveScanResults(ctx context.Context, results []model.ScanResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO scan_snapshots
		(scanned_at, ticker, company_name, grade, meets_criteria, position_size, error, checklist, analysis)
		VALUES (?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range results {
		var checklist []byte
		if r.Checklist != nil {
			if checklist, err = json.Marshal(r.Checklist); err != nil {
				return fmt.Errorf("marshal checklist for %s: %w", r.Ticker, err)
			}
		}
		analysis, err := json.Marshal(r.Analysis)
		if err != nil {
			return fmt.Errorf("marshal analysis for %s: %w", r.Ticker, err)
		}
		meets := 0
		if r.MeetsCriteria {
			meets = 1
		}
		if _, err := stmt.ExecContext(ctx, r.ScannedAt.Unix(), r.Ticker, r.CompanyName,
			string(r.OverallGrade), meets, string(r.PositionSize), r.Err,
			string(checklist), string(analysis)); err != nil {
			return fmt.Errorf("insert snapshot for %s: %w", r.Ticker, err)
		}
	}
	return tx.Commit()
}

// GradeHistory returns the recorded (time, grade) sequence for one
// ticker, oldest first.
func (s *SQLiteStore) GradeHistory(ctx context.Context, ticker string, limit int) ([]GradePoint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `SELECT scanned_at, grade FROM scan_snapshots
		WHERE ticker = ? ORDER BY scanned_at DESC LIMIT ?`, ticker, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var points []GradePoint
	for rows.Next() {
		var ts int64
		var grade string
		if err := rows.Scan(&ts, &grade); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		points = append(points, GradePoint{
			ScannedAt: time.Unix(ts, 0),
			Grade:     model.Grade(grade),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	// Reverse to oldest-first.
	for i, j := 0, len(points)-1; i < j; i, j = i+1, j-1 {
		points[i], points[j] = points[j], points[i]
	}
	return points, nil
}

// GradePoint is one recorded grade for a ticker.
type GradePoint struct {
	ScannedAt time.Time
	Grade     model.Grade
}

func (s *SQLiteStore) Close() error {
	s.log.Info().Msg("closing sqlite store")
	return s.db.Close()
}
