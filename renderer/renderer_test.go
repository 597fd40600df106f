package renderer

import (
	"archive/zip"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/etnz/equalweight"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// allocate returns the plan of $1000 over four stocks priced 10, 20, 50 and 100.
func allocate(t *testing.T) *equalweight.AllocationTable {
	t.Helper()
	records := []equalweight.QuoteRecord{
		{Symbol: "A", Price: decimal.NewFromInt(10), MarketCap: 1_000},
		{Symbol: "B", Price: decimal.NewFromInt(20), MarketCap: 2_500_000},
		{Symbol: "C", Price: decimal.NewFromInt(50), MarketCap: 3_400_000_000},
		{Symbol: "D", Price: decimal.NewFromInt(100), MarketCap: 1_234_000_000_000},
	}
	table, err := equalweight.NewEngine(equalweight.DefaultAllocationConfig(), nil).Allocate(records, decimal.NewFromInt(1000))
	require.NoError(t, err)
	return table
}

func TestMarkdown(t *testing.T) {
	md := Markdown(allocate(t))

	assert.Contains(t, md, "**$1,000.00**")
	assert.Contains(t, md, "**$250.00** per position")
	assert.Contains(t, md, "| B | $20.00 | 2,500,000 ($2.50M) | 12.500 |")
	assert.Contains(t, md, "| D | $100.00 | 1,234,000,000,000 ($1.23T) | 2.500 |")
	assert.NotContains(t, md, "Excluded")

	// The table must be understood as such by a markdown parser.
	src := []byte(md)
	doc := goldmark.New(goldmark.WithExtensions(extension.Table)).Parser().Parse(text.NewReader(src))
	var tables, rows int
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n.Kind() {
		case extast.KindTable:
			tables++
		case extast.KindTableRow:
			rows++
		}
		return ast.WalkContinue, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, tables)
	assert.Equal(t, 4, rows)
}

func TestMarkdown_Excluded(t *testing.T) {
	records := []equalweight.QuoteRecord{
		{Symbol: "A", Price: decimal.NewFromInt(10)},
		{Symbol: "Z", Price: decimal.Zero},
	}
	table, err := equalweight.NewEngine(equalweight.DefaultAllocationConfig(), nil).Allocate(records, decimal.NewFromInt(100))
	require.NoError(t, err)

	md := Markdown(table)
	assert.Contains(t, md, "Excluded: Z")
	assert.NotContains(t, md, "| Z |")
}

func TestPriceFormat(t *testing.T) {
	assert.Equal(t, "$0.00", PriceFormat("USD"))
	assert.Equal(t, "¥0", PriceFormat("JPY"))
	assert.Equal(t, "0.00", PriceFormat("???"))
}

func TestFormatter_Render(t *testing.T) {
	f := NewFormatter(Config{})
	report, err := f.Render(allocate(t))
	require.NoError(t, err)
	assert.Equal(t, "Equal_Weight_Trades.xlsx", report.Name)
	assert.Equal(t, 4, report.Rows)

	xl, err := excelize.OpenReader(bytes.NewReader(report.Bytes()))
	require.NoError(t, err)
	defer xl.Close()

	assert.Equal(t, []string{"Equal Weight Trades"}, xl.GetSheetList())
	rows, err := xl.GetRows(report.Sheet, excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Ticker", "Stock Price", "Market Capitalization", "Number of Shares to Buy"},
		{"A", "10", "1,000", "25"},
		{"B", "20", "2,500,000 ($2.50M)", "12.5"},
		{"C", "50", "3,400,000,000 ($3.40B)", "5"},
		{"D", "100", "1,234,000,000,000 ($1.23T)", "2.5"},
	}, rows)

	for _, col := range []string{"A", "B", "C", "D"} {
		width, err := xl.GetColWidth(report.Sheet, col)
		require.NoError(t, err)
		assert.Equal(t, 24.0, width, "width of column %s", col)
	}

	style := func(cell string) int {
		id, err := xl.GetCellStyle(report.Sheet, cell)
		require.NoError(t, err)
		return id
	}
	// Headers share the text style, data cells use the column style.
	assert.Equal(t, style("A1"), style("B1"))
	assert.Equal(t, style("A1"), style("D1"))
	assert.Equal(t, style("A1"), style("A2"))
	assert.Equal(t, style("A1"), style("C2"))
	assert.NotEqual(t, style("B1"), style("B2"))

	price, err := xl.GetStyle(style("B2"))
	require.NoError(t, err)
	require.NotNil(t, price.CustomNumFmt)
	assert.Equal(t, "$0.00", *price.CustomNumFmt)

	shares, err := xl.GetStyle(style("D3"))
	require.NoError(t, err)
	require.NotNil(t, shares.CustomNumFmt)
	assert.Equal(t, SharesFormat, *shares.CustomNumFmt)

	header, err := xl.GetStyle(style("A1"))
	require.NoError(t, err)
	require.NotNil(t, header.Alignment)
	assert.Equal(t, "right", header.Alignment.Horizontal)
}

func TestFormatter_Borders(t *testing.T) {
	f := NewFormatter(DefaultConfig())
	for _, numFmt := range []string{"", PriceFormat("USD"), SharesFormat} {
		s := f.style(numFmt)
		require.Len(t, s.Border, 4, "borders of style %q", numFmt)
		for _, b := range s.Border {
			assert.Equal(t, 1, b.Style, "border %s of style %q", b.Type, numFmt)
		}
	}
	assert.Empty(t, NewFormatter(Config{Border: -1}).style("").Border)

	// The workbook itself declares a thin border on every side.
	report, err := f.Render(allocate(t))
	require.NoError(t, err)
	zr, err := zip.NewReader(bytes.NewReader(report.Bytes()), int64(len(report.Bytes())))
	require.NoError(t, err)
	rc, err := zr.Open("xl/styles.xml")
	require.NoError(t, err)
	defer rc.Close()
	styles, err := io.ReadAll(rc)
	require.NoError(t, err)
	for _, side := range []string{"left", "right", "top", "bottom"} {
		assert.Contains(t, string(styles), "<"+side+` style="thin"`)
	}
}

func TestFormatter_RenderIsDeterministic(t *testing.T) {
	f := NewFormatter(DefaultConfig())
	first, err := f.Render(allocate(t))
	require.NoError(t, err)
	second, err := f.Render(allocate(t))
	require.NoError(t, err)
	assert.True(t, bytes.Equal(first.Bytes(), second.Bytes()), "rendering twice must produce the same bytes")
}

func TestFormatter_RenderEmptyTable(t *testing.T) {
	report, err := NewFormatter(DefaultConfig()).Render(&equalweight.AllocationTable{})
	require.NoError(t, err)

	xl, err := excelize.OpenReader(bytes.NewReader(report.Bytes()))
	require.NoError(t, err)
	defer xl.Close()
	rows, err := xl.GetRows(report.Sheet)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestReport_WriteFile(t *testing.T) {
	report, err := NewFormatter(Config{FileName: "trades.xlsx"}).Render(allocate(t))
	require.NoError(t, err)

	dir := filepath.Join(t.TempDir(), "out")
	path, err := report.WriteFile(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "trades.xlsx"), path)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, report.Bytes(), got)

	// No temporary file is left behind.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.False(t, strings.HasPrefix(entries[0].Name(), "."))

	// Writing again replaces the file.
	_, err = report.WriteFile(dir)
	require.NoError(t, err)
	entries, err = os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestQuotes(t *testing.T) {
	results := []equalweight.FetchResult{
		{Symbol: "AAPL", Status: equalweight.Fetched, Attempts: 2, Record: equalweight.QuoteRecord{Symbol: "AAPL", Price: decimal.RequireFromString("227.79"), MarketCap: 3_461_355_274_240}},
		{Symbol: "NA", Status: equalweight.MissingData, Attempts: 1},
	}
	md := Quotes(results)
	assert.Contains(t, md, "| AAPL | fetched | 2 | 227.79 | 3,461,355,274,240 ($3.46T) |")
	assert.Contains(t, md, "| NA | missing data | 1 |  |  |")
}
