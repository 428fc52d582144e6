package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/jewelstack/jewelpos-backend/pkg/config"
	"github.com/jewelstack/jewelpos-backend/pkg/enums"
	"github.com/jewelstack/jewelpos-backend/pkg/errors"
)

// SpotQuote is one upstream price observation. The feed quotes per troy
// ounce; conversion to grams happens in the cache layer.
type SpotQuote struct {
	GoldPerOunce   float64
	SilverPerOunce float64
	Currency       string
	FetchedAt      time.Time
}

// Feed fetches live spot prices.
type Feed interface {
	FetchSpot(ctx context.Context) (SpotQuote, error)
}

// HTTPFeed talks to a metals.dev-compatible spot price API.
type HTTPFeed struct {
	baseURL  string
	apiKey   string
	currency string
	client   *http.Client
}

func NewHTTPFeed(cfg config.RateFeedConfig) (*HTTPFeed, error) {
	if cfg.APIKey == "" {
		return nil, errors.New(errors.CodeInternal, "rate feed api key is required")
	}
	currency, err := enums.ParseCurrency(cfg.Currency)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "unsupported rate feed currency")
	}
	return &HTTPFeed{
		baseURL:  cfg.BaseURL,
		apiKey:   cfg.APIKey,
		currency: currency.String(),
		client:   &http.Client{Timeout: cfg.Timeout},
	}, nil
}

type spotResponse struct {
	Status string `json:"status"`
	Error  struct {
		Message string `json:"message"`
	} `json:"error"`
	Currency string             `json:"currency"`
	Unit     string             `json:"unit"`
	Metals   map[string]float64 `json:"metals"`
}

func (f *HTTPFeed) FetchSpot(ctx context.Context) (SpotQuote, error) {
	endpoint := fmt.Sprintf("%s/latest?%s", f.baseURL, url.Values{
		"api_key":  {f.apiKey},
		"currency": {f.currency},
		"unit":     {"toz"},
	}.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return SpotQuote{}, errors.Wrap(errors.CodeRateFeed, err, "failed to build rate feed request")
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return SpotQuote{}, errors.Wrap(errors.CodeRateFeed, err, "rate feed request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return SpotQuote{}, errors.New(errors.CodeRateFeed, fmt.Sprintf("rate feed returned status %d", resp.StatusCode))
	}

	var body spotResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return SpotQuote{}, errors.Wrap(errors.CodeRateFeed, err, "failed to decode rate feed response")
	}
	if body.Status != "" && body.Status != "success" {
		msg := body.Error.Message
		if msg == "" {
			msg = "rate feed reported failure"
		}
		return SpotQuote{}, errors.New(errors.CodeRateFeed, msg)
	}

	gold, ok := body.Metals["gold"]
	if !ok {
		return SpotQuote{}, errors.New(errors.CodeRateFeed, "rate feed response missing gold price")
	}
	silver, ok := body.Metals["silver"]
	if !ok {
		return SpotQuote{}, errors.New(errors.CodeRateFeed, "rate feed response missing silver price")
	}

	return SpotQuote{
		GoldPerOunce:   gold,
		SilverPerOunce: silver,
		Currency:       body.Currency,
		FetchedAt:      time.Now(),
	}, nil
}
