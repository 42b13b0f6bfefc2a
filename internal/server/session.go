package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/ahmadzendi/monitor-emas7/internal/state"
	"github.com/ahmadzendi/monitor-emas7/internal/wire"
)

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Debug().Err(err).Msg("websocket upgrade failed")
		return
	}

	sess := &session{
		conn:      conn,
		st:        s.st,
		heartbeat: s.opts.Heartbeat,
		logger:    s.logger.With().Str("remote", conn.RemoteAddr().String()).Logger(),
	}
	sess.run(r.Context())
}

// session is one connected live-view client. It pushes a full snapshot on
// connect and thereafter whenever the state fingerprint moves, with a
// heartbeat on every quiet period. A send failure ends only this session.
type session struct {
	conn      *websocket.Conn
	st        *state.State
	heartbeat time.Duration
	logger    zerolog.Logger
}

func (s *session) run(ctx context.Context) {
	defer s.conn.Close()

	// Clients never send application data; the read pump only detects close.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := s.conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	last := s.st.Fingerprint()
	if err := s.sendSnapshot(); err != nil {
		return
	}

	for {
		// Re-fetch the signal channels every round; Clear replaces them.
		gold := s.st.GoldChanged()
		quote := s.st.QuoteChanged()
		info := s.st.InfoChanged()

		timer := time.NewTimer(s.heartbeat)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-closed:
			timer.Stop()
			return
		case <-gold.Done():
		case <-quote.Done():
		case <-info.Done():
		case <-timer.C:
		}
		timer.Stop()

		// Clear whatever fired; Clear is a no-op on signals still down, and
		// racing with other sessions is fine because the fingerprint below
		// decides whether anything actually changed.
		gold.Clear()
		quote.Clear()
		info.Clear()

		curr := s.st.Fingerprint()
		if curr != last {
			last = curr
			if err := s.sendSnapshot(); err != nil {
				return
			}
			continue
		}

		if err := s.conn.WriteMessage(websocket.TextMessage, wire.Heartbeat); err != nil {
			return
		}
	}
}

func (s *session) sendSnapshot() error {
	snap := wire.BuildSnapshot(s.st.GoldHistory(), s.st.QuoteHistory(), s.st.Info())
	return s.conn.WriteJSON(snap)
}
