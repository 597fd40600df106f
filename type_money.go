package equalweight

import (
	"math"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// Money represents a monetary value.
type Money struct {
	value decimal.Decimal // as major unit value
	cur   string
}

func M[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](value T, currency string) Money {
	return Money{value: newDecimal(value), cur: currency}
}

// currency returns the money's currency
func (m Money) currency() money.Currency {
	// to get a never nil currency I need to call the Money constructor
	return *money.New(0, m.cur).Currency()
}

// maxMinorUnits is the largest amount, in minor units, go-money can format.
var maxMinorUnits = decimal.NewFromInt(math.MaxInt64)

// String returns the value rounded to the currency's fraction, e.g. "$12.35".
func (m Money) String() string {
	cur := m.currency()
	rounded := m.value.Round(int32(cur.Fraction))
	minor := rounded.Shift(int32(cur.Fraction))
	if minor.Abs().LessThanOrEqual(maxMinorUnits) {
		return cur.Formatter().Format(minor.IntPart())
	}

	// Same layout as go-money, for amounts beyond int64 minor units.
	amount := strings.ReplaceAll(humanize.BigComma(rounded.Abs().Truncate(0).BigInt()), ",", cur.Thousand)
	if cur.Fraction > 0 {
		fixed := rounded.Abs().StringFixed(int32(cur.Fraction))
		amount += cur.Decimal + fixed[len(fixed)-cur.Fraction:]
	}
	sa := strings.Replace(cur.Template, "1", amount, 1)
	sa = strings.Replace(sa, "$", cur.Grapheme, 1)
	if rounded.IsNegative() {
		sa = "-" + sa
	}
	return sa
}

func (m Money) Currency() string                { return m.cur }
func (m Money) Decimal() decimal.Decimal        { return m.value }
func (m Money) Equal(n Money) bool              { return m.value.Equal(n.value) && m.cur == n.cur }
func (m Money) IsZero() bool                    { return m.value.IsZero() }
func (m Money) IsPositive() bool                { return m.value.IsPositive() }
func (m Money) LessThan(n Money) bool           { return m.value.LessThan(n.value) }
func (m Money) Mul(n Quantity) Money            { return Money{value: m.value.Mul(n.value), cur: m.cur} }
func (m Money) Add(n Money) Money               { return Money{value: m.value.Add(n.value), cur: cur(m, n)} }
func (m Money) Sub(n Money) Money               { return Money{value: m.value.Sub(n.value), cur: cur(m, n)} }
func (m Money) InexactFloat64() float64         { return m.value.InexactFloat64() }
func (m Money) Round(places int32) Money        { return Money{value: m.value.Round(places), cur: m.cur} }
func (m Money) StringFixed(places int32) string { return m.value.StringFixed(places) }

// DivRound splits m into n equal parts, rounded to precision fractional digits.
func (m Money) DivRound(n Quantity, precision int32) Money {
	return Money{value: m.value.DivRound(n.value, precision), cur: m.cur}
}

// DivPrice returns how many units priced p can be bought with m, rounded to
// precision fractional digits.
func (m Money) DivPrice(p Money, precision int32) Quantity {
	return Quantity{value: m.value.DivRound(p.value, precision)}
}

// makes the "" currency totally weak.
func cur(A, B Money) string {
	if A.cur == "" {
		return B.cur
	}
	if B.cur == "" {
		return A.cur
	}
	if A.cur != B.cur {
		panic("currency mismatch" + A.cur + "!=" + B.cur)
	}
	return A.cur
}
