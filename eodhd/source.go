// Package eodhd implements an equalweight.QuoteSource backed by the EODHD API
// (https://eodhd.com).
//
// The price is the last trade of the real-time endpoint, and the market
// capitalization is read from the Highlights section of the fundamentals
// endpoint.
package eodhd

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/etnz/equalweight"
	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"
)

// APIKeyEnv is the environment variable holding the EODHD API key.
const APIKeyEnv = "EODHD_API_KEY"

const (
	DefaultBaseURL       = "https://eodhd.com/api"
	DefaultExchange      = "US"
	DefaultTimeout       = 10 * time.Second
	DefaultPricePath     = "$.close"
	DefaultMarketCapPath = "$.MarketCapitalization"
)

// Config holds the settings of a Source.
type Config struct {
	APIKey            string
	BaseURL           string
	Exchange          string        // exchange code appended to symbols without one, e.g. "US" for AAPL.US
	Timeout           time.Duration // per HTTP request
	RequestsPerSecond float64       // 0 disables client side pacing
	Burst             int
	PricePath         string // jsonpath of the price in the real-time response
	MarketCapPath     string // jsonpath of the market capitalization in the Highlights response
}

// DefaultConfig returns the configuration for US tickers, without an API key.
func DefaultConfig() Config {
	return Config{
		BaseURL:       DefaultBaseURL,
		Exchange:      DefaultExchange,
		Timeout:       DefaultTimeout,
		Burst:         1,
		PricePath:     DefaultPricePath,
		MarketCapPath: DefaultMarketCapPath,
	}
}

// Source retrieves quotes from EODHD.
type Source struct {
	cfg     Config
	client  *resty.Client
	limiter *rate.Limiter // nil when pacing is disabled
}

// New returns a Source for cfg. Zero values in cfg are replaced by their default,
// except the API key that is required and the exchange: symbols are used as is
// when it is empty.
func New(cfg Config) (*Source, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("EODHD API key is not set, use the %s environment variable. You can get one at https://eodhd.com/", APIKeyEnv)
	}
	def := DefaultConfig()
	if cfg.BaseURL == "" {
		cfg.BaseURL = def.BaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.Burst <= 0 {
		cfg.Burst = def.Burst
	}
	if cfg.PricePath == "" {
		cfg.PricePath = def.PricePath
	}
	if cfg.MarketCapPath == "" {
		cfg.MarketCapPath = def.MarketCapPath
	}
	cfg.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")

	s := &Source{cfg: cfg, client: newClient(cfg)}
	if cfg.RequestsPerSecond > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst)
	}
	return s, nil
}

// Ticker returns the EODHD ticker of symbol: the symbol itself if it already
// names an exchange (e.g. "MC.PA"), otherwise the symbol with the default exchange.
func (s *Source) Ticker(symbol equalweight.Symbol) string {
	t := string(symbol)
	if strings.Contains(t, ".") || s.cfg.Exchange == "" {
		return t
	}
	return t + "." + s.cfg.Exchange
}

// Quote implements equalweight.QuoteSource.
//
// Any transport or decoding failure is returned as an error. Fields that are
// absent or not numeric are left nil in the returned Quote.
func (s *Source) Quote(ctx context.Context, symbol equalweight.Symbol) (equalweight.Quote, error) {
	ticker := url.PathEscape(s.Ticker(symbol))

	// https://eodhd.com/api/real-time/AAPL.US?api_token=demo&fmt=json
	// {"code":"AAPL.US","timestamp":1727467200,"gmtoffset":0,"open":228.46,"high":229.52,"low":227.3,
	//  "close":227.79,"volume":34026000,"previousClose":227.52,"change":0.27,"change_p":0.1187}
	realtime, err := s.getJSON(ctx, "/real-time/"+ticker, nil)
	if err != nil {
		return equalweight.Quote{}, err
	}

	// https://eodhd.com/api/fundamentals/AAPL.US?api_token=demo&fmt=json&filter=Highlights
	// {"MarketCapitalization":3461355274240,"MarketCapitalizationMln":3461355.2742,"EBITDA":131781001216, ...}
	highlights, err := s.getJSON(ctx, "/fundamentals/"+ticker, map[string]string{"filter": "Highlights"})
	if err != nil {
		return equalweight.Quote{}, err
	}

	return equalweight.Quote{
		Price:     lookupDecimal(s.cfg.PricePath, realtime),
		MarketCap: lookupInt(s.cfg.MarketCapPath, highlights),
	}, nil
}
