package equalweight

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// Quote is the raw answer of a QuoteSource for a single symbol.
// A nil field means the source did not provide it.
type Quote struct {
	Price     *decimal.Decimal
	MarketCap *int64
}

// QuoteSource retrieves the current price and market capitalization of a security.
//
// Implementations must honour ctx: the Fetcher bounds every attempt with a
// timeout and relies on the source to give up when it expires.
type QuoteSource interface {
	Quote(ctx context.Context, symbol Symbol) (Quote, error)
}

// QuoteSourceFunc adapts a function to the QuoteSource interface.
type QuoteSourceFunc func(ctx context.Context, symbol Symbol) (Quote, error)

func (f QuoteSourceFunc) Quote(ctx context.Context, symbol Symbol) (Quote, error) {
	return f(ctx, symbol)
}

// QuoteRecord is a complete and valid quote: the price is strictly positive
// and the market capitalization is known.
type QuoteRecord struct {
	Symbol    Symbol
	Price     decimal.Decimal
	MarketCap int64
}

// Record validates q and turns it into a QuoteRecord for symbol.
// It returns an error wrapping ErrMissingData if q is incomplete or unusable.
func (q Quote) Record(symbol Symbol) (QuoteRecord, error) {
	switch {
	case q.Price == nil:
		return QuoteRecord{}, fmt.Errorf("%w: no price for %s", ErrMissingData, symbol)
	case q.MarketCap == nil:
		return QuoteRecord{}, fmt.Errorf("%w: no market capitalization for %s", ErrMissingData, symbol)
	case !q.Price.IsPositive():
		return QuoteRecord{}, fmt.Errorf("%w: invalid price %s for %s", ErrMissingData, q.Price, symbol)
	case *q.MarketCap < 0:
		return QuoteRecord{}, fmt.Errorf("%w: invalid market capitalization %d for %s", ErrMissingData, *q.MarketCap, symbol)
	}
	return QuoteRecord{Symbol: symbol, Price: *q.Price, MarketCap: *q.MarketCap}, nil
}

// NewQuote is a helper to build a complete Quote.
func NewQuote(price decimal.Decimal, marketCap int64) Quote {
	return Quote{Price: &price, MarketCap: &marketCap}
}
