package renderer

import (
	"github.com/etnz/equalweight"
)

// SharesPlaces is the number of fractional digits displayed for shares.
const SharesPlaces = 3

// Allocation is the view of an equalweight.AllocationTable used by the
// markdown templates. Every value is already formatted.
type Allocation struct {
	Budget         string
	PositionTarget string
	Positions      int
	Rows           []AllocationLine
	Excluded       []string
}

// AllocationLine is one row of the trade table.
type AllocationLine struct {
	Ticker    string
	Price     string
	MarketCap string
	Shares    string
}

// NewAllocation builds the view of t.
func NewAllocation(t *equalweight.AllocationTable) *Allocation {
	a := &Allocation{
		Budget:         t.Budget.String(),
		PositionTarget: t.PositionTarget.String(),
		Positions:      t.Len(),
	}
	for _, r := range t.Rows {
		a.Rows = append(a.Rows, AllocationLine{
			Ticker:    r.Symbol.String(),
			Price:     r.Price.String(),
			MarketCap: equalweight.FormatMarketCap(r.MarketCap),
			Shares:    r.SharesToBuy.StringFixed(SharesPlaces),
		})
	}
	for _, e := range t.Excluded {
		a.Excluded = append(a.Excluded, e.Symbol.String())
	}
	return a
}
