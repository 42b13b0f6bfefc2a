package state

import (
	"sync"
	"time"

	"github.com/ahmadzendi/monitor-emas7/internal/event"
)

// Trend glyphs carried on each gold observation, as rendered by the client.
const (
	StatusUp   = "🚀"
	StatusDown = "🔻"
	StatusFlat = "➖"
)

// Default capacities matching the sizes the view is built around.
const (
	DefaultGoldHistorySize  = 1441
	DefaultQuoteHistorySize = 11
	DefaultLedgerCap        = 5000
)

// DefaultInfo is the treasury info placeholder shown before any admin update.
const DefaultInfo = "Belum ada info treasury."

// Quote timestamps use Jakarta wall-clock time.
var wib = time.FixedZone("WIB", 7*60*60)

// GoldObservation is one accepted gold rate sample. CreatedAt is the
// upstream's own update timestamp and doubles as the dedup identifier.
type GoldObservation struct {
	BuyingRate  int64
	SellingRate int64
	Status      string
	CreatedAt   string
}

// Quote is one accepted USD/IDR price sample. Price keeps the upstream's
// formatting verbatim; Time is the local WIB wall clock at capture.
type Quote struct {
	Price string
	Time  string
}

// Fingerprint identifies a point-in-time view of all broadcastable state.
// Sessions compare fingerprints, not signal levels, to decide whether
// anything actually changed.
type Fingerprint struct {
	GoldAt     string
	QuotePrice string
	Info       string
}

// Options size the container.
type Options struct {
	GoldHistorySize  int
	QuoteHistorySize int
	LedgerCap        int
}

// State is the process-wide container shared by the pollers, the admin
// listener, and every live-view session. Pollers are the sole writers of
// their own history; sessions only read.
type State struct {
	mu      sync.RWMutex
	gold    *History[GoldObservation]
	quotes  *History[Quote]
	seen    map[string]struct{}
	seenCap int
	lastBuy int64
	hasBuy  bool
	info    string

	goldChanged  *event.Signal
	quoteChanged *event.Signal
	infoChanged  *event.Signal

	now func() time.Time
}

// New constructs a State. Zero or negative option values fall back to the
// defaults.
func New(opts Options) *State {
	if opts.GoldHistorySize <= 0 {
		opts.GoldHistorySize = DefaultGoldHistorySize
	}
	if opts.QuoteHistorySize <= 0 {
		opts.QuoteHistorySize = DefaultQuoteHistorySize
	}
	if opts.LedgerCap <= 0 {
		opts.LedgerCap = DefaultLedgerCap
	}

	return &State{
		gold:         NewHistory[GoldObservation](opts.GoldHistorySize),
		quotes:       NewHistory[Quote](opts.QuoteHistorySize),
		seen:         make(map[string]struct{}),
		seenCap:      opts.LedgerCap,
		info:         DefaultInfo,
		goldChanged:  event.New(),
		quoteChanged: event.New(),
		infoChanged:  event.New(),
		now:          time.Now,
	}
}

// RecordGoldRate appends one gold observation if its update timestamp has not
// been seen before. The trend status is classified against the previously
// accepted buying rate. Returns whether the sample was accepted; only
// acceptance raises the gold signal.
func (s *State) RecordGoldRate(buying, selling int64, updatedAt string) bool {
	if updatedAt == "" || buying <= 0 || selling <= 0 {
		return false
	}

	s.mu.Lock()
	if _, dup := s.seen[updatedAt]; dup {
		s.mu.Unlock()
		return false
	}

	status := StatusFlat
	if s.hasBuy {
		switch {
		case buying > s.lastBuy:
			status = StatusUp
		case buying < s.lastBuy:
			status = StatusDown
		}
	}

	s.gold.Append(GoldObservation{
		BuyingRate:  buying,
		SellingRate: selling,
		Status:      status,
		CreatedAt:   updatedAt,
	})
	s.lastBuy = buying
	s.hasBuy = true

	s.seen[updatedAt] = struct{}{}
	if len(s.seen) > s.seenCap {
		// Total reset, keeping only the triggering id. Crude but bounded;
		// an LRU would change the semantics the view was tuned against.
		s.seen = map[string]struct{}{updatedAt: {}}
	}
	s.mu.Unlock()

	s.goldChanged.Raise()
	return true
}

// RecordQuote appends one USD/IDR sample unless it repeats the most recent
// stored price verbatim. The upstream has no update identifier, so only
// consecutive duplicates are suppressed.
func (s *State) RecordQuote(price string) bool {
	if price == "" {
		return false
	}

	s.mu.Lock()
	if last, ok := s.quotes.Newest(); ok && last.Price == price {
		s.mu.Unlock()
		return false
	}
	s.quotes.Append(Quote{
		Price: price,
		Time:  s.now().In(wib).Format("15:04:05"),
	})
	s.mu.Unlock()

	s.quoteChanged.Raise()
	return true
}

// SetInfo replaces the treasury info text and raises the info signal.
// Last write wins; no history is kept.
func (s *State) SetInfo(text string) {
	s.mu.Lock()
	s.info = text
	s.mu.Unlock()

	s.infoChanged.Raise()
}

// Info returns the current treasury info text.
func (s *State) Info() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.info
}

// GoldHistory copies out the gold observations, oldest to newest.
func (s *State) GoldHistory() []GoldObservation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gold.Items()
}

// QuoteHistory copies out the USD/IDR samples, oldest to newest.
func (s *State) QuoteHistory() []Quote {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.quotes.Items()
}

// Counts reports the current history sizes for the status endpoint.
func (s *State) Counts() (gold, quotes int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gold.Len(), s.quotes.Len()
}

// Fingerprint captures the identities of the newest entries plus the info
// text.
func (s *State) Fingerprint() Fingerprint {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var fp Fingerprint
	if g, ok := s.gold.Newest(); ok {
		fp.GoldAt = g.CreatedAt
	}
	if q, ok := s.quotes.Newest(); ok {
		fp.QuotePrice = q.Price
	}
	fp.Info = s.info
	return fp
}

// GoldChanged returns the gold history change signal.
func (s *State) GoldChanged() *event.Signal { return s.goldChanged }

// QuoteChanged returns the USD/IDR history change signal.
func (s *State) QuoteChanged() *event.Signal { return s.quoteChanged }

// InfoChanged returns the treasury info change signal.
func (s *State) InfoChanged() *event.Signal { return s.infoChanged }

// LedgerSize reports how many update ids the dedup ledger currently holds.
func (s *State) LedgerSize() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.seen)
}
