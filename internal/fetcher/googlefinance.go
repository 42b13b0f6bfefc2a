package fetcher

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"
)

// priceSelector matches the quote figure on the Google Finance page.
const priceSelector = "div.YMlKec.fxKbKc"

// GoogleFinanceOptions parameterise the USD/IDR quote scraper.
type GoogleFinanceOptions struct {
	QuoteURL  string
	Timeout   time.Duration
	UserAgent string
}

// GoogleFinance scrapes the USD/IDR quote from the Google Finance page.
type GoogleFinance struct {
	opts     GoogleFinanceOptions
	logger   zerolog.Logger
	client   *http.Client
	quoteURL string
}

// NewGoogleFinance constructs a quote scraper.
func NewGoogleFinance(opts GoogleFinanceOptions, logger zerolog.Logger) *GoogleFinance {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	quoteURL := opts.QuoteURL
	if quoteURL == "" {
		quoteURL = "https://www.google.com/finance/quote/USD-IDR"
	}

	return &GoogleFinance{
		opts:     opts,
		logger:   logger.With().Str("component", "usdidr_fetcher").Logger(),
		client:   &http.Client{Timeout: timeout},
		quoteURL: quoteURL,
	}
}

// FetchQuote retrieves the formatted USD/IDR price string.
func (g *GoogleFinance) FetchQuote(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.quoteURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", g.userAgent())
	req.Header.Set("Accept", "text/html")
	req.Header.Set("Cache-Control", "no-cache")
	// Without these Google serves the EU consent interstitial instead of the
	// quote page.
	req.AddCookie(&http.Cookie{Name: "CONSENT", Value: "YES+cb.20231208-04-p0.en+FX+410"})
	req.AddCookie(&http.Cookie{Name: "SOCS", Value: "CAISHAgCEhJnd3NfMjAyMzEyMDgtMF9SQzEaAmVuIAEaBgiA_LmqBg"})

	resp, err := g.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("google finance status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("parse quote page: %w", err)
	}

	price := strings.TrimSpace(doc.Find(priceSelector).First().Text())
	if price == "" {
		return "", errors.New("quote element not found")
	}

	return price, nil
}

func (g *GoogleFinance) userAgent() string {
	if ua := strings.TrimSpace(g.opts.UserAgent); ua != "" {
		return ua
	}
	return defaultUserAgent
}

var _ QuoteFetcher = (*GoogleFinance)(nil)
