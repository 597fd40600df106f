package equalweight

import "strings"

// Symbol is a ticker symbol as used by the quote source, e.g. "AAPL" or "MC.PA".
type Symbol string

// NormalizeSymbol trims the spaces around s and upper-cases it.
func NormalizeSymbol(s string) Symbol {
	return Symbol(strings.ToUpper(strings.TrimSpace(s)))
}

// Symbols normalizes a list of raw tickers. Empty entries are skipped,
// duplicates are kept.
func Symbols(raw ...string) []Symbol {
	symbols := make([]Symbol, 0, len(raw))
	for _, r := range raw {
		if s := NormalizeSymbol(r); s != "" {
			symbols = append(symbols, s)
		}
	}
	return symbols
}

func (s Symbol) String() string { return string(s) }
