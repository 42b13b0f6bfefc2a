// Package wire maps stored observations to the JSON payloads pushed to
// live-view clients.
package wire

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ahmadzendi/monitor-emas7/internal/state"
)

// Fixed capital amounts and their historical cost bases for the two
// profitability-estimate columns.
const (
	capital20M = 20_000_000
	basis20M   = 19_315_000
	capital30M = 30_000_000
	basis30M   = 28_980_000
)

// unavailable marks a row whose profit estimate cannot be derived.
const unavailable = "-"

// Heartbeat is the keep-alive message sent when nothing changed.
var Heartbeat = []byte(`{"ping":true}`)

// GoldRow is one presented gold observation.
type GoldRow struct {
	BuyingRate  string `json:"buying_rate"`
	SellingRate string `json:"selling_rate"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at"`
	JT20        string `json:"jt20"`
	JT30        string `json:"jt30"`
}

// QuoteRow is one presented USD/IDR sample.
type QuoteRow struct {
	Price string `json:"price"`
	Time  string `json:"time"`
}

// Snapshot is the full-state message sent on connect and on every change.
// The protocol always carries complete current state, never a delta, so a
// client needs no prior state to resynchronise.
type Snapshot struct {
	History       []GoldRow  `json:"history"`
	UsdIdrHistory []QuoteRow `json:"usd_idr_history"`
	TreasuryInfo  string     `json:"treasury_info"`
}

// BuildSnapshot derives the wire payload from point-in-time copies of the
// stores. The profit columns are recomputed every time; they are pure
// functions of the stored observation.
func BuildSnapshot(gold []state.GoldObservation, quotes []state.Quote, info string) Snapshot {
	history := make([]GoldRow, 0, len(gold))
	for _, obs := range gold {
		history = append(history, GoldRow{
			BuyingRate:  FormatRupiah(obs.BuyingRate),
			SellingRate: FormatRupiah(obs.SellingRate),
			Status:      obs.Status,
			CreatedAt:   obs.CreatedAt,
			JT20:        ProfitEstimate(obs, capital20M, basis20M),
			JT30:        ProfitEstimate(obs, capital30M, basis30M),
		})
	}

	usd := make([]QuoteRow, 0, len(quotes))
	for _, q := range quotes {
		usd = append(usd, QuoteRow{Price: q.Price, Time: q.Time})
	}

	return Snapshot{History: history, UsdIdrHistory: usd, TreasuryInfo: info}
}

// ProfitEstimate renders the net result of buying gram of gold with the given
// capital at the observation's buying rate and selling it back at the selling
// rate, against a fixed historical cost basis:
//
//	gram = capital / buying_rate
//	net  = trunc(gram * selling_rate - basis)
//
// rendered as a signed dot-grouped rupiah amount, a direction glyph and the
// gram quantity to four decimals. An underivable estimate yields "-".
func ProfitEstimate(obs state.GoldObservation, capital, basis int64) string {
	if obs.BuyingRate <= 0 {
		return unavailable
	}

	gram := decimal.NewFromInt(capital).Div(decimal.NewFromInt(obs.BuyingRate))
	net := gram.Mul(decimal.NewFromInt(obs.SellingRate)).Sub(decimal.NewFromInt(basis)).IntPart()
	gramStr := formatGram(gram)

	switch {
	case net > 0:
		return "+" + FormatRupiah(net) + "🟢➺" + gramStr + "gr"
	case net < 0:
		return "-" + FormatRupiah(-net) + "🔴➺" + gramStr + "gr"
	default:
		return "0➖➺" + gramStr + "gr"
	}
}

// InfoMarkup collapses plain-text whitespace into the markup the client
// renders: double spaces become hard spaces and newlines become breaks.
func InfoMarkup(text string) string {
	text = strings.ReplaceAll(text, "  ", "&nbsp;&nbsp;")
	return strings.ReplaceAll(text, "\n", "<br>")
}

// FormatRupiah groups an integer amount with dots: 1931500 -> "1.931.500".
func FormatRupiah(n int64) string {
	s := decimal.NewFromInt(n).String()
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	if neg {
		return "-" + groupDots(s)
	}
	return groupDots(s)
}

// formatGram renders a gram quantity to four decimals with dot-grouped
// integer digits, e.g. 1034.55224 -> "1.034.5522".
func formatGram(g decimal.Decimal) string {
	fixed := g.StringFixed(4)
	intPart, fracPart, _ := strings.Cut(fixed, ".")
	return groupDots(intPart) + "." + fracPart
}

func groupDots(digits string) string {
	n := len(digits)
	if n <= 3 {
		return digits
	}

	var b strings.Builder
	head := n % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
