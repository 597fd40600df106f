package equalweight

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// DefaultPrecision is the number of fractional digits kept by the divisions
// of the allocation.
const DefaultPrecision int32 = 16

// AllocationConfig holds the settings of an Engine.
type AllocationConfig struct {
	Currency  string // currency of the budget and of the prices, e.g. "USD"
	Precision int32  // fractional digits of the position target and of the shares
}

// DefaultAllocationConfig returns an USD configuration.
func DefaultAllocationConfig() AllocationConfig {
	return AllocationConfig{Currency: "USD", Precision: DefaultPrecision}
}

// AllocationRow is one position of the plan.
type AllocationRow struct {
	Symbol      Symbol
	Price       Money // unrounded, as retrieved
	MarketCap   int64
	SharesToBuy Quantity
}

// Value returns the amount invested in the position.
func (r AllocationRow) Value() Money { return r.Price.Mul(r.SharesToBuy) }

// AllocationTable is an equal-weight allocation plan.
//
// Rows keep the order of the records they were computed from.
type AllocationTable struct {
	Budget         Money
	PositionTarget Money // Budget / len(Rows), the same for every row
	Rows           []AllocationRow
	Excluded       []InvalidPriceError
}

// Len returns the number of positions.
func (t *AllocationTable) Len() int { return len(t.Rows) }

// Invested returns the sum of the positions values.
func (t *AllocationTable) Invested() Money {
	total := M(0, t.Budget.Currency())
	for _, r := range t.Rows {
		total = total.Add(r.Value())
	}
	return total
}

// Engine computes equal-weight allocations.
type Engine struct {
	cfg AllocationConfig
	log logrus.FieldLogger
}

// NewEngine returns an Engine with cfg. Zero values in cfg are replaced by their default.
func NewEngine(cfg AllocationConfig, log logrus.FieldLogger) *Engine {
	if cfg.Currency == "" {
		cfg.Currency = DefaultAllocationConfig().Currency
	}
	if cfg.Precision <= 0 {
		cfg.Precision = DefaultPrecision
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Engine{cfg: cfg, log: log}
}

// Allocate splits budget equally among records and computes the shares to buy
// for each of them.
//
// Records with a price that is not strictly positive are excluded before the
// split, and listed in the table's Excluded field. If no record is left,
// Allocate returns an *EmptyUniverseError.
func (e *Engine) Allocate(records []QuoteRecord, budget decimal.Decimal) (*AllocationTable, error) {
	if !budget.IsPositive() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidBudget, budget)
	}

	valid := make([]QuoteRecord, 0, len(records))
	var excluded []InvalidPriceError
	for _, r := range records {
		if !r.Price.IsPositive() {
			err := InvalidPriceError{Symbol: r.Symbol, Price: r.Price}
			e.log.WithField("symbol", r.Symbol).Warn(err.Error())
			excluded = append(excluded, err)
			continue
		}
		valid = append(valid, r)
	}
	if len(valid) == 0 {
		return nil, &EmptyUniverseError{Records: len(records), Excluded: len(excluded)}
	}

	total := M(budget, e.cfg.Currency)
	target := total.DivRound(Q(len(valid)), e.cfg.Precision)

	table := &AllocationTable{
		Budget:         total,
		PositionTarget: target,
		Rows:           make([]AllocationRow, 0, len(valid)),
		Excluded:       excluded,
	}
	for _, r := range valid {
		price := M(r.Price, e.cfg.Currency)
		table.Rows = append(table.Rows, AllocationRow{
			Symbol:      r.Symbol,
			Price:       price,
			MarketCap:   r.MarketCap,
			SharesToBuy: target.DivPrice(price, e.cfg.Precision),
		})
	}
	e.log.WithFields(logrus.Fields{
		"positions": table.Len(),
		"target":    target.String(),
	}).Info("allocation computed")
	return table, nil
}
