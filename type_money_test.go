package equalweight

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestMoney_String(t *testing.T) {
	testCases := []struct {
		money Money
		want  string
	}{
		{M(10, "USD"), "$10.00"},
		{M(3.14159, "USD"), "$3.14"},
		{M(2.005, "USD"), "$2.01"},
		{M(1234567.891, "USD"), "$1,234,567.89"},
		{M(decimal.RequireFromString("0.004"), "USD"), "$0.00"},
		{M(decimal.RequireFromString("92233720368547758.07"), "USD"), "$92,233,720,368,547,758.07"},
		{M(decimal.New(1, 17), "USD"), "$100,000,000,000,000,000.00"},
		{M(decimal.RequireFromString("-123456789012345678.905"), "USD"), "-$123,456,789,012,345,678.91"},
		{M(decimal.New(1, 20), "JPY"), "¥100,000,000,000,000,000,000"},
	}
	for _, tc := range testCases {
		if got := tc.money.String(); got != tc.want {
			t.Errorf("%v.String() = %q, want %q", tc.money.Decimal(), got, tc.want)
		}
	}
}

func TestMoney_DivPrice(t *testing.T) {
	target := M(250, "USD")
	if got := target.DivPrice(M(20, "USD"), DefaultPrecision); !got.Equal(Q(12.5)) {
		t.Errorf("DivPrice() = %v, want 12.5", got)
	}
	if got := M(1000, "USD").DivRound(Q(3), 2); !got.Equal(M(333.33, "USD")) {
		t.Errorf("DivRound() = %v, want 333.33", got.Decimal())
	}
}
