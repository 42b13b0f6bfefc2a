package fetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func noopLogger() zerolog.Logger {
	return zerolog.Nop()
}

func TestTreasuryFetchSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("expected POST, got %s", r.Method)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"buying_rate":"1931500.50","selling_rate":"1871000","updated_at":"2025-01-01 10:00:00"}}`))
	}))
	defer srv.Close()

	f := NewTreasury(TreasuryOptions{BaseURL: srv.URL, Timeout: time.Second}, noopLogger())
	rate, err := f.FetchGoldRate(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rate.Buying != 1931500 {
		t.Fatalf("buying rate should truncate to 1931500, got %d", rate.Buying)
	}
	if rate.Selling != 1871000 {
		t.Fatalf("unexpected selling rate %d", rate.Selling)
	}
	if rate.UpdatedAt != "2025-01-01 10:00:00" {
		t.Fatalf("unexpected updated_at %q", rate.UpdatedAt)
	}
}

func TestTreasuryFetchNumericRates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"buying_rate":1931500.75,"selling_rate":1871000,"updated_at":"2025-01-01 10:00:00"}}`))
	}))
	defer srv.Close()

	f := NewTreasury(TreasuryOptions{BaseURL: srv.URL, Timeout: time.Second}, noopLogger())
	rate, err := f.FetchGoldRate(context.Background())
	if err != nil {
		t.Fatalf("unquoted rates should parse: %v", err)
	}
	if rate.Buying != 1931500 {
		t.Fatalf("unexpected buying rate %d", rate.Buying)
	}
}

func TestTreasuryFetchHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	f := NewTreasury(TreasuryOptions{BaseURL: srv.URL, Timeout: time.Second}, noopLogger())
	if _, err := f.FetchGoldRate(context.Background()); err == nil {
		t.Fatal("non-200 status should be an error")
	}
}

func TestTreasuryFetchZeroRate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"buying_rate":"0","selling_rate":"1871000","updated_at":"2025-01-01 10:00:00"}}`))
	}))
	defer srv.Close()

	f := NewTreasury(TreasuryOptions{BaseURL: srv.URL, Timeout: time.Second}, noopLogger())
	if _, err := f.FetchGoldRate(context.Background()); err == nil {
		t.Fatal("zero rate should be treated as fetch failure")
	}
}

func TestTreasuryFetchMissingUpdatedAt(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"buying_rate":"1931500","selling_rate":"1871000"}}`))
	}))
	defer srv.Close()

	f := NewTreasury(TreasuryOptions{BaseURL: srv.URL, Timeout: time.Second}, noopLogger())
	rate, err := f.FetchGoldRate(context.Background())
	if err != nil {
		t.Fatalf("missing updated_at is for the caller to reject, got error: %v", err)
	}
	if rate.UpdatedAt != "" {
		t.Fatalf("expected empty UpdatedAt, got %q", rate.UpdatedAt)
	}
}

func TestTreasuryFetchMalformedRate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"buying_rate":"not-a-number","selling_rate":"1871000","updated_at":"x"}}`))
	}))
	defer srv.Close()

	f := NewTreasury(TreasuryOptions{BaseURL: srv.URL, Timeout: time.Second}, noopLogger())
	if _, err := f.FetchGoldRate(context.Background()); err == nil {
		t.Fatal("malformed rate should be an error")
	}
}
