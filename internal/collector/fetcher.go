package collector

import (
	"context"

	"SepaScreener/internal/model"
)

// Info is the company metadata attached to scan results for display. It
// is never consulted for grading.
type Info struct {
	Symbol      string `json:"symbol"`
	CompanyName string `json:"company_name"`
	Exchange    string `json:"exchange,omitempty"`
	Currency    string `json:"currency,omitempty"`
}

// Fetcher defines the interface for fetching market data.
type Fetcher interface {
	FetchDailyBars(ctx context.Context, symbol string, days int) ([]model.Bar, error)
	FetchInfo(ctx context.Context, symbol string) (Info, error)
	Name() string
}
