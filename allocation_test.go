package equalweight

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var tolerance = decimal.New(1, -9)

func record(symbol Symbol, price string, marketCap int64) QuoteRecord {
	return QuoteRecord{Symbol: symbol, Price: decimal.RequireFromString(price), MarketCap: marketCap}
}

func TestEngine_Allocate(t *testing.T) {
	records := []QuoteRecord{
		record("A", "10", 1_000),
		record("B", "20", 2_000),
		record("C", "50", 3_000),
		record("D", "100", 4_000),
	}
	e := NewEngine(DefaultAllocationConfig(), logrus.New())

	table, err := e.Allocate(records, decimal.NewFromInt(1000))
	require.NoError(t, err)

	assert.True(t, table.PositionTarget.Equal(M(250, "USD")), "target = %v", table.PositionTarget)
	want := []string{"25", "12.5", "5", "2.5"}
	require.Len(t, table.Rows, len(want))
	for i, row := range table.Rows {
		assert.Equal(t, records[i].Symbol, row.Symbol)
		assert.Equal(t, records[i].MarketCap, row.MarketCap)
		assert.True(t, row.SharesToBuy.Equal(Q(decimal.RequireFromString(want[i]))), "%s: got %v shares, want %s", row.Symbol, row.SharesToBuy, want[i])
	}
	assert.True(t, table.Invested().Equal(M(1000, "USD")))
	assert.Empty(t, table.Excluded)
}

func TestEngine_EqualWeight(t *testing.T) {
	testCases := []struct {
		name   string
		budget string
		prices []string
	}{
		{"single", "1000", []string{"3"}},
		{"thirds", "1000", []string{"3", "7", "13.37"}},
		{"penny stocks", "12345.67", []string{"0.01", "0.0003", "1.99"}},
		{"expensive", "500", []string{"612345.789", "4200.1", "98.6", "1"}},
		{"odd budget", "0.01", []string{"17", "23", "29", "31", "37"}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			records := make([]QuoteRecord, len(tc.prices))
			for i, p := range tc.prices {
				records[i] = record(Symbol(rune('A'+i)), p, 0)
			}
			budget := decimal.RequireFromString(tc.budget)

			table, err := NewEngine(AllocationConfig{}, logrus.New()).Allocate(records, budget)
			require.NoError(t, err)
			require.Len(t, table.Rows, len(records))

			// every position is worth the same target.
			target := table.PositionTarget.Decimal()
			for _, row := range table.Rows {
				diff := row.Value().Decimal().Sub(target).Abs()
				assert.True(t, diff.LessThan(tolerance), "%s is worth %v, want %v", row.Symbol, row.Value(), target)
			}
			// and together they are worth the budget.
			diff := table.Invested().Decimal().Sub(budget).Abs()
			assert.True(t, diff.LessThan(tolerance), "invested %v, want %v", table.Invested(), budget)
		})
	}
}

func TestEngine_UsesUnroundedPrice(t *testing.T) {
	table, err := NewEngine(AllocationConfig{}, logrus.New()).Allocate([]QuoteRecord{record("A", "3.14159", 1)}, decimal.NewFromInt(100))
	require.NoError(t, err)

	want := decimal.NewFromInt(100).DivRound(decimal.RequireFromString("3.14159"), DefaultPrecision)
	assert.True(t, want.Equal(table.Rows[0].SharesToBuy.Decimal()))
	assert.Equal(t, "$3.14", table.Rows[0].Price.String())
}

func TestEngine_EmptyUniverse(t *testing.T) {
	e := NewEngine(AllocationConfig{}, logrus.New())

	for _, records := range [][]QuoteRecord{nil, {record("A", "0", 1)}} {
		table, err := e.Allocate(records, decimal.NewFromInt(1000))
		assert.Nil(t, table)
		assert.ErrorIs(t, err, ErrEmptyUniverse)
		var empty *EmptyUniverseError
		assert.True(t, errors.As(err, &empty))
		assert.Equal(t, len(records), empty.Records)
	}
}

func TestEngine_ExcludesInvalidPrices(t *testing.T) {
	logger, hook := test.NewNullLogger()
	e := NewEngine(AllocationConfig{}, logger)

	table, err := e.Allocate([]QuoteRecord{
		record("A", "10", 1),
		record("ZERO", "0", 1),
		record("B", "40", 1),
		record("NEG", "-5", 1),
	}, decimal.NewFromInt(100))
	require.NoError(t, err)

	require.Len(t, table.Rows, 2)
	assert.Equal(t, Symbol("A"), table.Rows[0].Symbol)
	assert.Equal(t, Symbol("B"), table.Rows[1].Symbol)
	assert.True(t, table.PositionTarget.Equal(M(50, "USD")))

	require.Len(t, table.Excluded, 2)
	assert.Equal(t, Symbol("ZERO"), table.Excluded[0].Symbol)
	assert.Equal(t, Symbol("NEG"), table.Excluded[1].Symbol)

	var warned int
	for _, entry := range hook.AllEntries() {
		if entry.Level == logrus.WarnLevel {
			warned++
		}
	}
	assert.Equal(t, 2, warned)
}

func TestEngine_InvalidBudget(t *testing.T) {
	e := NewEngine(AllocationConfig{}, logrus.New())
	for _, budget := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-1)} {
		_, err := e.Allocate([]QuoteRecord{record("A", "10", 1)}, budget)
		assert.ErrorIs(t, err, ErrInvalidBudget)
	}
}

func TestEngine_Currency(t *testing.T) {
	table, err := NewEngine(AllocationConfig{Currency: "EUR"}, logrus.New()).Allocate([]QuoteRecord{record("MC.PA", "612.3", 1)}, decimal.NewFromInt(1000))
	require.NoError(t, err)
	assert.Equal(t, "EUR", table.Budget.Currency())
	assert.Equal(t, "EUR", table.Rows[0].Price.Currency())
}
