package fetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const quotePage = `<!DOCTYPE html>
<html><body>
<main>
  <div class="rPF6Lc">
    <div class="YMlKec fxKbKc">16.250,0000</div>
  </div>
</main>
</body></html>`

func TestGoogleFinanceFetchSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie("CONSENT"); err != nil || c.Value == "" {
			t.Fatal("consent cookie missing")
		}
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(quotePage))
	}))
	defer srv.Close()

	g := NewGoogleFinance(GoogleFinanceOptions{QuoteURL: srv.URL, Timeout: time.Second}, noopLogger())
	price, err := g.FetchQuote(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if price != "16.250,0000" {
		t.Fatalf("unexpected price %q", price)
	}
}

func TestGoogleFinanceFetchMissingElement(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><body><div class="other">x</div></body></html>`))
	}))
	defer srv.Close()

	g := NewGoogleFinance(GoogleFinanceOptions{QuoteURL: srv.URL, Timeout: time.Second}, noopLogger())
	if _, err := g.FetchQuote(context.Background()); err == nil {
		t.Fatal("missing quote element should be an error")
	}
}

func TestGoogleFinanceFetchHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	g := NewGoogleFinance(GoogleFinanceOptions{QuoteURL: srv.URL, Timeout: time.Second}, noopLogger())
	if _, err := g.FetchQuote(context.Background()); err == nil {
		t.Fatal("non-200 status should be an error")
	}
}
