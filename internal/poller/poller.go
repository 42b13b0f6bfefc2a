package poller

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Options tune one polling loop.
type Options struct {
	// Interval between attempts after a successful fetch.
	Interval time.Duration
	// RetryInterval between attempts after a failed fetch.
	RetryInterval time.Duration
	// StartupDelay before the first attempt, so the loops do not contend
	// for the network at process start.
	StartupDelay time.Duration
}

func (o Options) withDefaults(interval, retry, startup time.Duration) Options {
	if o.Interval <= 0 {
		o.Interval = interval
	}
	if o.RetryInterval <= 0 {
		o.RetryInterval = retry
	}
	if o.StartupDelay < 0 {
		o.StartupDelay = startup
	}
	return o
}

// run drives one fetch loop until ctx is cancelled. attempt performs a single
// fetch-and-record pass; a returned error selects the retry interval. Errors
// are never propagated: upstream flakiness is expected and must not halt
// monitoring.
func run(ctx context.Context, opts Options, logger zerolog.Logger, attempt func(context.Context) error) error {
	if opts.StartupDelay > 0 {
		if err := sleep(ctx, opts.StartupDelay); err != nil {
			return err
		}
	}

	for {
		delay := opts.Interval
		if err := attempt(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			logger.Debug().Err(err).Msg("fetch attempt failed")
			delay = opts.RetryInterval
		}

		if err := sleep(ctx, delay); err != nil {
			return err
		}
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
