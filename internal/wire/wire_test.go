package wire

import (
	"encoding/json"
	"testing"

	"github.com/ahmadzendi/monitor-emas7/internal/state"
)

func TestFormatRupiah(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1.000"},
		{685000, "685.000"},
		{1931500, "1.931.500"},
		{20000000, "20.000.000"},
		{-5000, "-5.000"},
	}
	for _, tc := range cases {
		if got := FormatRupiah(tc.in); got != tc.want {
			t.Errorf("FormatRupiah(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestProfitEstimateGain(t *testing.T) {
	obs := state.GoldObservation{BuyingRate: 1_000_000, SellingRate: 1_000_500}

	// 20,000,000 / 1,000,000 = 20 gram; 20 * 1,000,500 - 19,315,000 = 695,000.
	if got := ProfitEstimate(obs, 20_000_000, 19_315_000); got != "+695.000🟢➺20.0000gr" {
		t.Fatalf("unexpected estimate %q", got)
	}
}

func TestProfitEstimateLoss(t *testing.T) {
	obs := state.GoldObservation{BuyingRate: 1_000_000, SellingRate: 950_000}

	// 20 gram * 950,000 = 19,000,000; minus basis = -315,000.
	if got := ProfitEstimate(obs, 20_000_000, 19_315_000); got != "-315.000🔴➺20.0000gr" {
		t.Fatalf("unexpected estimate %q", got)
	}
}

func TestProfitEstimateBreakEven(t *testing.T) {
	obs := state.GoldObservation{BuyingRate: 1_000_000, SellingRate: 965_750}

	// 20 gram * 965,750 = 19,315,000 exactly.
	if got := ProfitEstimate(obs, 20_000_000, 19_315_000); got != "0➖➺20.0000gr" {
		t.Fatalf("unexpected estimate %q", got)
	}
}

func TestProfitEstimateZeroRate(t *testing.T) {
	obs := state.GoldObservation{BuyingRate: 0, SellingRate: 1_000_500}
	if got := ProfitEstimate(obs, 20_000_000, 19_315_000); got != "-" {
		t.Fatalf("zero rate should yield the unavailable marker, got %q", got)
	}
}

func TestProfitEstimateGramGrouping(t *testing.T) {
	// 20,000,000 / 16,000 = 1250 gram; the integer digits are dot-grouped
	// just like rupiah amounts.
	obs := state.GoldObservation{BuyingRate: 16_000, SellingRate: 16_000}
	got := ProfitEstimate(obs, 20_000_000, 19_315_000)
	if want := "+685.000🟢➺1.250.0000gr"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestProfitEstimateDeterministic(t *testing.T) {
	obs := state.GoldObservation{BuyingRate: 1_931_500, SellingRate: 1_871_000}
	first := ProfitEstimate(obs, 30_000_000, 28_980_000)
	for i := 0; i < 10; i++ {
		if got := ProfitEstimate(obs, 30_000_000, 28_980_000); got != first {
			t.Fatalf("estimate not deterministic: %q vs %q", got, first)
		}
	}
}

func TestBuildSnapshotShape(t *testing.T) {
	gold := []state.GoldObservation{
		{BuyingRate: 1_000_000, SellingRate: 1_000_500, Status: state.StatusFlat, CreatedAt: "2025-01-01 10:00:00"},
	}
	quotes := []state.Quote{{Price: "16.250,00", Time: "10:00:01"}}

	snap := BuildSnapshot(gold, quotes, "halo")
	raw, err := json.Marshal(snap)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded map[string]json.RawMessage
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"history", "usd_idr_history", "treasury_info"} {
		if _, ok := decoded[key]; !ok {
			t.Fatalf("payload missing %q: %s", key, raw)
		}
	}

	if snap.History[0].BuyingRate != "1.000.000" {
		t.Fatalf("buying rate not formatted: %q", snap.History[0].BuyingRate)
	}
	if snap.History[0].JT20 != "+695.000🟢➺20.0000gr" {
		t.Fatalf("unexpected jt20 %q", snap.History[0].JT20)
	}
}

func TestBuildSnapshotEmpty(t *testing.T) {
	snap := BuildSnapshot(nil, nil, state.DefaultInfo)
	raw, err := json.Marshal(snap)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	// Empty histories must serialise as [] not null; the client iterates them.
	var decoded struct {
		History       []GoldRow  `json:"history"`
		UsdIdrHistory []QuoteRow `json:"usd_idr_history"`
	}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if string(raw) == "" || decoded.History == nil || decoded.UsdIdrHistory == nil {
		t.Fatalf("empty histories should round-trip as arrays: %s", raw)
	}
}

func TestInfoMarkup(t *testing.T) {
	got := InfoMarkup("baris satu\nbaris  dua")
	if got != "baris satu<br>baris&nbsp;&nbsp;dua" {
		t.Fatalf("unexpected markup %q", got)
	}
}

func TestHeartbeatIsValidJSON(t *testing.T) {
	var m map[string]bool
	if err := json.Unmarshal(Heartbeat, &m); err != nil {
		t.Fatalf("heartbeat is not valid JSON: %v", err)
	}
	if !m["ping"] {
		t.Fatalf("heartbeat should carry ping=true: %s", Heartbeat)
	}
}
