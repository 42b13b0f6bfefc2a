package poller

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/ahmadzendi/monitor-emas7/internal/fetcher"
	"github.com/ahmadzendi/monitor-emas7/internal/state"
)

// Gold polls the treasury gold rate and feeds accepted samples into the state
// container.
type Gold struct {
	fetcher fetcher.GoldRateFetcher
	st      *state.State
	opts    Options
	logger  zerolog.Logger
}

// NewGold constructs the gold poller.
func NewGold(f fetcher.GoldRateFetcher, st *state.State, opts Options, logger zerolog.Logger) *Gold {
	return &Gold{
		fetcher: f,
		st:      st,
		opts:    opts.withDefaults(100*time.Millisecond, time.Second, time.Second),
		logger:  logger.With().Str("component", "gold_poller").Logger(),
	}
}

// Run blocks until ctx is cancelled.
func (p *Gold) Run(ctx context.Context) error {
	return run(ctx, p.opts, p.logger, p.tick)
}

func (p *Gold) tick(ctx context.Context) error {
	rate, err := p.fetcher.FetchGoldRate(ctx)
	if err != nil {
		return err
	}

	// Samples with a missing update timestamp or an already-seen one are
	// dropped silently; that is a semantic rejection, not a fetch failure,
	// so the normal interval applies.
	if p.st.RecordGoldRate(rate.Buying, rate.Selling, rate.UpdatedAt) {
		p.logger.Debug().
			Int64("buying_rate", rate.Buying).
			Int64("selling_rate", rate.Selling).
			Str("updated_at", rate.UpdatedAt).
			Msg("gold observation recorded")
	}
	return nil
}
