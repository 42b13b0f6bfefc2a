package app

import (
	"context"
	"errors"
	"os/signal"
	"sync"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/ahmadzendi/monitor-emas7/internal/config"
	"github.com/ahmadzendi/monitor-emas7/internal/fetcher"
	"github.com/ahmadzendi/monitor-emas7/internal/poller"
	"github.com/ahmadzendi/monitor-emas7/internal/server"
	"github.com/ahmadzendi/monitor-emas7/internal/state"
	"github.com/ahmadzendi/monitor-emas7/internal/telegram"
)

// App aggregates configuration and shared dependencies for the CLI commands.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
}

// NewApp constructs a new application handle.
func NewApp(cfg *config.Config, logger zerolog.Logger) *App {
	return &App{Config: cfg, Logger: logger.With().Str("component", "app").Logger()}
}

func (a *App) newFetchers() (fetcher.GoldRateFetcher, fetcher.QuoteFetcher) {
	gold := fetcher.NewTreasury(fetcher.TreasuryOptions{
		BaseURL:   a.Config.Gold.BaseURL,
		Timeout:   a.Config.Gold.RequestTimeout,
		UserAgent: a.Config.Gold.UserAgent,
	}, a.Logger)

	usd := fetcher.NewGoogleFinance(fetcher.GoogleFinanceOptions{
		QuoteURL:  a.Config.UsdIdr.QuoteURL,
		Timeout:   a.Config.UsdIdr.RequestTimeout,
		UserAgent: a.Config.UsdIdr.UserAgent,
	}, a.Logger)

	return gold, usd
}

// Run starts the pollers, the admin listener, and the live-view server, and
// blocks until the context is cancelled or the server fails. Shutdown order:
// pollers first, then the admin listener, the HTTP server last so sessions
// drain against a quiesced state.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	st := state.New(state.Options{
		GoldHistorySize:  a.Config.Gold.HistorySize,
		QuoteHistorySize: a.Config.UsdIdr.HistorySize,
		LedgerCap:        a.Config.Gold.LedgerCap,
	})

	goldFetcher, usdFetcher := a.newFetchers()

	goldPoller := poller.NewGold(goldFetcher, st, poller.Options{
		Interval:      a.Config.Gold.PollInterval,
		RetryInterval: a.Config.Gold.RetryInterval,
		StartupDelay:  a.Config.Gold.StartupDelay,
	}, a.Logger)

	usdPoller := poller.NewCurrency(usdFetcher, st, poller.Options{
		Interval:      a.Config.UsdIdr.PollInterval,
		RetryInterval: a.Config.UsdIdr.RetryInterval,
		StartupDelay:  a.Config.UsdIdr.StartupDelay,
	}, a.Logger)

	var pollers sync.WaitGroup
	pollers.Add(2)
	go func() {
		defer pollers.Done()
		_ = goldPoller.Run(ctx)
	}()
	go func() {
		defer pollers.Done()
		_ = usdPoller.Run(ctx)
	}()

	var admin sync.WaitGroup
	if a.Config.Telegram.Enabled {
		bot := telegram.New(telegram.Options{
			BotToken:    a.Config.Telegram.BotToken,
			APIBase:     a.Config.Telegram.APIBase,
			PollTimeout: a.Config.Telegram.PollTimeout,
		}, st, a.Logger)
		admin.Add(1)
		go func() {
			defer admin.Done()
			_ = bot.Run(ctx)
		}()
	} else {
		a.Logger.Info().Msg("telegram.bot_token not configured; admin channel disabled")
	}

	srv := server.New(st, server.Options{
		Addr:            a.Config.Server.Addr,
		Heartbeat:       a.Config.Server.Heartbeat,
		MaxExportPoints: a.Config.Export.MaxDataPoints,
	}, a.Logger)

	srvErr := make(chan error, 1)
	go func() {
		srvErr <- srv.Run(ctx)
	}()

	a.Logger.Info().Msg("monitor started")

	var runErr error
	select {
	case runErr = <-srvErr:
		// Listener failed; bring everything else down too.
		cancel()
	case <-ctx.Done():
	}

	pollers.Wait()
	admin.Wait()
	if runErr == nil {
		runErr = <-srvErr
	}

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		a.Logger.Error().Err(runErr).Msg("monitor terminated with error")
		return runErr
	}

	a.Logger.Info().Msg("monitor stopped")
	return nil
}
