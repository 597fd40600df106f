package renderer

import (
	"github.com/etnz/equalweight"
)

// QuoteLine is the view of one equalweight.FetchResult.
type QuoteLine struct {
	Ticker    string
	Status    string
	Attempts  int
	Price     string // raw decimal, empty unless fetched
	MarketCap string
}

// NewQuoteLines builds the view of results.
func NewQuoteLines(results []equalweight.FetchResult) []QuoteLine {
	lines := make([]QuoteLine, 0, len(results))
	for _, r := range results {
		l := QuoteLine{Ticker: r.Symbol.String(), Status: r.Status.String(), Attempts: r.Attempts}
		if r.Status == equalweight.Fetched {
			l.Price = r.Record.Price.String()
			l.MarketCap = equalweight.FormatMarketCap(r.Record.MarketCap)
		}
		lines = append(lines, l)
	}
	return lines
}

// Quotes renders the outcome of the retrieval of quotes to a markdown table.
func Quotes(results []equalweight.FetchResult) string {
	return renderTemplate("quotes", "quotes.md", nil, NewQuoteLines(results))
}
