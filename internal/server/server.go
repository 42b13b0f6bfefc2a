package server

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/ahmadzendi/monitor-emas7/internal/state"
)

//go:embed index.html
var indexHTML []byte

// Options parameterise the live-view server.
type Options struct {
	Addr string
	// Heartbeat is the maximum quiet period before a session sends a ping.
	Heartbeat time.Duration
	// MaxExportPoints caps chart/CSV export size before downsampling.
	MaxExportPoints int
}

// Server serves the live view: the HTML client, the websocket push channel,
// the status endpoint and the history exports.
type Server struct {
	st       *state.State
	opts     Options
	logger   zerolog.Logger
	upgrader websocket.Upgrader
}

// New constructs a Server.
func New(st *state.State, opts Options, logger zerolog.Logger) *Server {
	if opts.Addr == "" {
		opts.Addr = ":8000"
	}
	if opts.Heartbeat <= 0 {
		opts.Heartbeat = 30 * time.Second
	}
	if opts.MaxExportPoints <= 0 {
		opts.MaxExportPoints = state.DefaultGoldHistorySize
	}

	return &Server{
		st:     st,
		opts:   opts,
		logger: logger.With().Str("component", "server").Logger(),
		upgrader: websocket.Upgrader{
			CheckOrigin:       func(*http.Request) bool { return true },
			EnableCompression: true,
		},
	}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /ws", s.handleWS)
	mux.HandleFunc("GET /export/chart.png", s.handleChartPNG)
	mux.HandleFunc("GET /export/history.csv", s.handleHistoryCSV)
	return mux
}

// Run serves until ctx is cancelled, then shuts down gracefully. Request
// contexts derive from ctx, so cancelling it also ends every live session.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:        s.opts.Addr,
		Handler:     s.Handler(),
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	s.logger.Info().Str("addr", s.opts.Addr).Msg("live view listening")

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(indexHTML)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	gold, usd := s.st.Counts()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]any{
		"status":  "ok",
		"history": gold,
		"usd":     usd,
	}); err != nil {
		s.logger.Error().Err(err).Msg("failed to encode health response")
	}
}
