package fetcher

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const goldRatePath = "/antigrvty/gold/rate"

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

// TreasuryOptions parameterise the treasury gold-rate fetcher.
type TreasuryOptions struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
}

// Treasury fetches the gold buy/sell rate from the treasury API.
type Treasury struct {
	opts    TreasuryOptions
	logger  zerolog.Logger
	client  *http.Client
	baseURL string
}

// NewTreasury constructs a treasury fetcher.
func NewTreasury(opts TreasuryOptions, logger zerolog.Logger) *Treasury {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.treasury.id/api/v1"
	}

	return &Treasury{
		opts:    opts,
		logger:  logger.With().Str("component", "treasury_fetcher").Logger(),
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

// FetchGoldRate retrieves the current gold rate. A non-positive or malformed
// rate is an error; a missing update timestamp is not, and is left to the
// caller's acceptance policy.
func (t *Treasury) FetchGoldRate(ctx context.Context) (GoldRate, error) {
	endpoint := t.baseURL + goldRatePath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(nil))
	if err != nil {
		return GoldRate{}, err
	}
	req.Header.Set("User-Agent", t.userAgent())
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Origin", "https://treasury.id")
	req.Header.Set("Referer", "https://treasury.id/")

	resp, err := t.client.Do(req)
	if err != nil {
		return GoldRate{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return GoldRate{}, fmt.Errorf("treasury api status %d", resp.StatusCode)
	}

	var payload goldRateResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return GoldRate{}, fmt.Errorf("decode treasury payload: %w", err)
	}

	buying := payload.Data.BuyingRate.IntPart()
	selling := payload.Data.SellingRate.IntPart()
	if buying <= 0 || selling <= 0 {
		return GoldRate{}, errors.New("treasury returned non-positive rate")
	}

	return GoldRate{
		Buying:    buying,
		Selling:   selling,
		UpdatedAt: payload.Data.UpdatedAt,
	}, nil
}

func (t *Treasury) userAgent() string {
	if ua := strings.TrimSpace(t.opts.UserAgent); ua != "" {
		return ua
	}
	return defaultUserAgent
}

type goldRateResponse struct {
	Data struct {
		BuyingRate  flexDecimal `json:"buying_rate"`
		SellingRate flexDecimal `json:"selling_rate"`
		UpdatedAt   string      `json:"updated_at"`
	} `json:"data"`
}

// flexDecimal accepts the rate either as a JSON number or as a quoted string;
// the upstream has shipped both over time.
type flexDecimal struct {
	decimal.Decimal
}

func (f *flexDecimal) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if s == "" || s == "null" {
		f.Decimal = decimal.Zero
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("parse rate %q: %w", s, err)
	}
	f.Decimal = d
	return nil
}

var _ GoldRateFetcher = (*Treasury)(nil)
