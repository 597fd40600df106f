package equalweight

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// TickerColumn is the header of the column listing the symbols of a universe file.
const TickerColumn = "Ticker"

// ErrNoTickerColumn reports a universe file without a Ticker column.
var ErrNoTickerColumn = errors.New("no " + TickerColumn + " column")

// ReadUniverse reads the symbols listed in the Ticker column of a file.
//
// Files with the .xlsx extension are read from their first sheet, any other
// file is read as comma separated values. Symbols are normalized and empty
// cells skipped. Duplicates are kept.
func ReadUniverse(path string) ([]Symbol, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return readUniverseXLSX(path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open universe file %q: %w", path, err)
	}
	defer f.Close()

	symbols, err := DecodeUniverse(f)
	if err != nil {
		return nil, fmt.Errorf("could not decode universe file %q: %w", path, err)
	}
	return symbols, nil
}

// DecodeUniverse reads a csv stream whose header contains a Ticker column.
func DecodeUniverse(r io.Reader) ([]Symbol, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // ragged rows are fine, only one column matters.
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	return universeFromRows(rows)
}

func readUniverseXLSX(path string) ([]Symbol, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not open universe file %q: %w", path, err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0), excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("could not read universe file %q: %w", path, err)
	}
	symbols, err := universeFromRows(rows)
	if err != nil {
		return nil, fmt.Errorf("could not decode universe file %q: %w", path, err)
	}
	return symbols, nil
}

// universeFromRows extracts the Ticker column, the first row being the header.
func universeFromRows(rows [][]string) ([]Symbol, error) {
	if len(rows) == 0 {
		return nil, ErrNoTickerColumn
	}
	col := -1
	for i, h := range rows[0] {
		h = strings.TrimPrefix(h, "\ufeff") // excel's utf-8 BOM
		if strings.TrimSpace(h) == TickerColumn {
			col = i
			break
		}
	}
	if col < 0 {
		return nil, ErrNoTickerColumn
	}

	symbols := make([]Symbol, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if col >= len(row) {
			continue
		}
		if s := NormalizeSymbol(row[col]); s != "" {
			symbols = append(symbols, s)
		}
	}
	return symbols, nil
}
