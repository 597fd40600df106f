package renderer

// Config holds the layout of the xlsx report.
type Config struct {
	SheetName   string
	FileName    string
	ColumnWidth float64
	FontColor   string // RGB hex, e.g. "149414"
	Background  string // RGB hex
	Border      int    // excelize border style, 1 is a thin line
	Currency    string // ISO code used for the price number format
}

// DefaultConfig returns the green on black layout of the trade sheet.
func DefaultConfig() Config {
	return Config{
		SheetName:   "Equal Weight Trades",
		FileName:    "Equal_Weight_Trades.xlsx",
		ColumnWidth: 24,
		FontColor:   "149414",
		Background:  "000000",
		Border:      1,
		Currency:    "USD",
	}
}

// withDefaults returns c where zero values are replaced by their default.
func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.SheetName == "" {
		c.SheetName = def.SheetName
	}
	if c.FileName == "" {
		c.FileName = def.FileName
	}
	if c.ColumnWidth <= 0 {
		c.ColumnWidth = def.ColumnWidth
	}
	if c.FontColor == "" {
		c.FontColor = def.FontColor
	}
	if c.Background == "" {
		c.Background = def.Background
	}
	if c.Currency == "" {
		c.Currency = def.Currency
	}
	return c
}
