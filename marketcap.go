package equalweight

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

var marketCapUnits = []struct {
	threshold int64
	suffix    string
}{
	{1_000_000_000_000, "T"},
	{1_000_000_000, "B"},
	{1_000_000, "M"},
}

// FormatMarketCap renders a market capitalization as the full number followed
// by its abbreviation, e.g. "2,500,000,000,000 ($2.50T)".
// Values below a million have no abbreviation. The abbreviation is rounded
// from its binary floating point value, so 2,505,000,000 reads $2.50B.
func FormatMarketCap(value int64) string {
	full := humanize.Comma(value)
	for _, u := range marketCapUnits {
		if value >= u.threshold {
			return fmt.Sprintf("%s ($%.2f%s)", full, float64(value)/float64(u.threshold), u.suffix)
		}
	}
	return full
}
