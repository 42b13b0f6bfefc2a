package poller

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/ahmadzendi/monitor-emas7/internal/fetcher"
	"github.com/ahmadzendi/monitor-emas7/internal/state"
)

// Currency polls the USD/IDR quote page and stores every price change.
type Currency struct {
	fetcher fetcher.QuoteFetcher
	st      *state.State
	opts    Options
	logger  zerolog.Logger
}

// NewCurrency constructs the USD/IDR poller.
func NewCurrency(f fetcher.QuoteFetcher, st *state.State, opts Options, logger zerolog.Logger) *Currency {
	return &Currency{
		fetcher: f,
		st:      st,
		opts:    opts.withDefaults(time.Second, 2*time.Second, 2*time.Second),
		logger:  logger.With().Str("component", "usdidr_poller").Logger(),
	}
}

// Run blocks until ctx is cancelled.
func (p *Currency) Run(ctx context.Context) error {
	return run(ctx, p.opts, p.logger, p.tick)
}

func (p *Currency) tick(ctx context.Context) error {
	price, err := p.fetcher.FetchQuote(ctx)
	if err != nil {
		return err
	}

	if p.st.RecordQuote(price) {
		p.logger.Debug().Str("price", price).Msg("usd/idr quote recorded")
	}
	return nil
}
