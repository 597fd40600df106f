package renderer

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/etnz/equalweight"
	"github.com/xuri/excelize/v2"
)

// SharesFormat is the number format of the shares column.
const SharesFormat = "0.000"

// Formatter renders allocation tables into xlsx reports.
type Formatter struct {
	cfg Config
}

// NewFormatter returns a Formatter for cfg. Zero values in cfg are replaced by their default.
func NewFormatter(cfg Config) *Formatter {
	return &Formatter{cfg: cfg.withDefaults()}
}

// Config returns the effective configuration of f.
func (f *Formatter) Config() Config { return f.cfg }

// column describes one column of the trade sheet.
type column struct {
	header string
	format string // number format, empty for text
	value  func(r equalweight.AllocationRow) any
}

func (f *Formatter) columns() []column {
	return []column{
		{"Ticker", "", func(r equalweight.AllocationRow) any { return r.Symbol.String() }},
		{"Stock Price", PriceFormat(f.cfg.Currency), func(r equalweight.AllocationRow) any { return r.Price.InexactFloat64() }},
		{"Market Capitalization", "", func(r equalweight.AllocationRow) any { return equalweight.FormatMarketCap(r.MarketCap) }},
		{"Number of Shares to Buy", SharesFormat, func(r equalweight.AllocationRow) any { return r.SharesToBuy.InexactFloat64() }},
	}
}

// PriceFormat returns the number format of prices in currency, e.g. "$0.00" for USD.
func PriceFormat(currency string) string {
	c := money.GetCurrency(currency)
	if c == nil {
		return "0.00"
	}
	format := c.Grapheme + "0"
	if c.Fraction > 0 {
		format += "." + strings.Repeat("0", c.Fraction)
	}
	return format
}

// style returns the cell style of a column with the number format numFmt.
func (f *Formatter) style(numFmt string) *excelize.Style {
	s := &excelize.Style{
		Font: &excelize.Font{Color: f.cfg.FontColor},
		Fill: excelize.Fill{Type: "pattern", Color: []string{f.cfg.Background}, Pattern: 1},
	}
	if f.cfg.Border > 0 {
		for _, side := range []string{"left", "top", "right", "bottom"} {
			s.Border = append(s.Border, excelize.Border{Type: side, Color: "000000", Style: f.cfg.Border})
		}
	}
	if numFmt == "" {
		s.Alignment = &excelize.Alignment{Horizontal: "right"}
	} else {
		s.CustomNumFmt = &numFmt
	}
	return s
}

// Render encodes t into an xlsx report.
//
// The workbook carries no timestamp so that the same table always produces
// the same bytes.
func (f *Formatter) Render(t *equalweight.AllocationTable) (*Report, error) {
	xl := excelize.NewFile()
	defer xl.Close()

	sheet := f.cfg.SheetName
	if err := xl.SetSheetName(xl.GetSheetName(0), sheet); err != nil {
		return nil, fmt.Errorf("cannot name sheet %q: %w", sheet, err)
	}

	text, err := xl.NewStyle(f.style(""))
	if err != nil {
		return nil, fmt.Errorf("cannot create text style: %w", err)
	}

	cols := f.columns()
	for i, col := range cols {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		styleID := text
		if col.format != "" {
			if styleID, err = xl.NewStyle(f.style(col.format)); err != nil {
				return nil, fmt.Errorf("cannot create style for %q: %w", col.header, err)
			}
		}
		if err := xl.SetColWidth(sheet, name, name, f.cfg.ColumnWidth); err != nil {
			return nil, err
		}
		if err := xl.SetColStyle(sheet, name, styleID); err != nil {
			return nil, err
		}

		// Header cells are all text.
		if err := f.setCell(xl, i+1, 1, col.header, text); err != nil {
			return nil, err
		}
		for j, row := range t.Rows {
			if err := f.setCell(xl, i+1, j+2, col.value(row), styleID); err != nil {
				return nil, err
			}
		}
	}

	buf, err := xl.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("cannot encode %s: %w", f.cfg.FileName, err)
	}
	return &Report{Name: f.cfg.FileName, Sheet: sheet, Rows: t.Len(), data: buf.Bytes()}, nil
}

func (f *Formatter) setCell(xl *excelize.File, col, row int, value any, style int) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	if err := xl.SetCellValue(f.cfg.SheetName, cell, value); err != nil {
		return fmt.Errorf("cannot set %s: %w", cell, err)
	}
	return xl.SetCellStyle(f.cfg.SheetName, cell, cell, style)
}

// Report is an encoded xlsx workbook.
type Report struct {
	Name  string // file name
	Sheet string
	Rows  int // number of allocation rows, the header excluded
	data  []byte
}

// Bytes returns a copy of the encoded workbook.
func (r *Report) Bytes() []byte { return bytes.Clone(r.data) }

// WriteTo implements io.WriterTo.
func (r *Report) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(r.data)
	return int64(n), err
}

// WriteFile writes the report in dir and returns its path.
//
// The content is written in a temporary file of dir first, and renamed once
// complete, so that the report is never seen partially written.
func (r *Report) WriteFile(dir string) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("cannot create output directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+r.Name+".*")
	if err != nil {
		return "", fmt.Errorf("cannot create temporary file: %w", err)
	}
	defer os.Remove(tmp.Name()) // no-op once renamed

	if _, err := r.WriteTo(tmp); err != nil {
		tmp.Close()
		return "", fmt.Errorf("cannot write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return "", fmt.Errorf("cannot write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("cannot write %s: %w", tmp.Name(), err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return "", err
	}

	path := filepath.Join(dir, r.Name)
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("cannot write report: %w", err)
	}
	return path, nil
}
