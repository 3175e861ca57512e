package store

import (
	"context"
	"database/sql"
	"time"

	"SepaScreener/internal/collector"
	"SepaScreener/internal/model"
)

// NoopStore is used when no database is configured. Loads miss, saves
// are discarded.
type NoopStore struct{}

func NewNoopStore() *NoopStore { return &NoopStore{} }

func (n *NoopStore) LoadBars(_ context.Context, _ string) ([]model.Bar, time.Time, error) {
	return nil, time.Time{}, sql.ErrNoRows
}
func (n *NoopStore) SaveBars(_ context.Context, _ string, _ []model.Bar) error { return nil }
func (n *NoopStore) LoadInfo(_ context.Context, _ string) (collector.Info, error) {
	return collector.Info{}, sql.ErrNoRows
}
func (n *NoopStore) SaveInfo(_ context.Context, _ collector.Info) error               { return nil }
func (n *NoopStore) SaveScanResults(_ context.Context, _ []model.ScanResult) error    { return nil }
func (n *NoopStore) Close() error                                                     { return nil }
