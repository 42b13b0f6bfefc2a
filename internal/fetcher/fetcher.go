package fetcher

import "context"

// GoldRate is one fetched snapshot of the treasury gold rate. Rates are
// integer rupiah; UpdatedAt is the upstream's own update timestamp and may be
// empty when the payload is incomplete.
type GoldRate struct {
	Buying    int64
	Selling   int64
	UpdatedAt string
}

// GoldRateFetcher retrieves the current treasury gold rate.
type GoldRateFetcher interface {
	FetchGoldRate(ctx context.Context) (GoldRate, error)
}

// QuoteFetcher retrieves the current USD/IDR quote as the upstream formats it.
type QuoteFetcher interface {
	FetchQuote(ctx context.Context) (string, error)
}
