package equalweight

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// ErrMissingData reports a quote that was retrieved but lacks a usable price or market capitalization.
	ErrMissingData = errors.New("missing quote data")
	// ErrEmptyUniverse reports that no position is left to allocate.
	ErrEmptyUniverse = errors.New("empty universe")
	// ErrInvalidBudget reports a budget that is not strictly positive.
	ErrInvalidBudget = errors.New("invalid budget")
)

// TransientFetchError is returned for a symbol whose every attempt failed.
type TransientFetchError struct {
	Symbol   Symbol
	Attempts int
	Err      error // last attempt error
}

func (e *TransientFetchError) Error() string {
	return fmt.Sprintf("cannot retrieve %s after %d attempt(s): %v", e.Symbol, e.Attempts, e.Err)
}

func (e *TransientFetchError) Unwrap() error { return e.Err }

// EmptyUniverseError is returned by the Engine when there is nothing to allocate.
type EmptyUniverseError struct {
	Records  int // number of records received
	Excluded int // number of records excluded for an invalid price
}

func (e *EmptyUniverseError) Error() string {
	if e.Records == 0 {
		return "empty universe: no security could be retrieved"
	}
	return fmt.Sprintf("empty universe: all %d record(s) have an invalid price", e.Excluded)
}

func (e *EmptyUniverseError) Is(target error) bool { return target == ErrEmptyUniverse }

// InvalidPriceError describes a record excluded from the allocation because
// its price is not strictly positive.
type InvalidPriceError struct {
	Symbol Symbol
	Price  decimal.Decimal
}

func (e InvalidPriceError) Error() string {
	return fmt.Sprintf("invalid price %s for %s: excluded from allocation", e.Price, e.Symbol)
}
