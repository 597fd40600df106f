package cmd

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/etnz/equalweight"
	"github.com/etnz/equalweight/config"
	"github.com/etnz/equalweight/eodhd"
	"github.com/etnz/equalweight/renderer"
	"github.com/google/subcommands"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// allocateCmd implements the "allocate" command.
type allocateCmd struct {
	tickers string
	budget  string
	out     string
	backoff bool
}

func (*allocateCmd) Name() string { return "allocate" }
func (*allocateCmd) Synopsis() string {
	return "computes the shares to buy to invest a budget equally in a list of stocks"
}
func (*allocateCmd) Usage() string {
	return `ewt allocate [-tickers <file>] [-budget <amount>] [-out <dir>] [-backoff]

Retrieves the current price and market capitalization of every stock listed in
the Ticker column of a CSV or XLSX file, splits the budget equally among them,
and writes the number of shares to buy in an xlsx trade sheet.

Without -tickers or -budget, the values are asked interactively.
Requires the EODHD_API_KEY environment variable to be set.
`
}
func (c *allocateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.tickers, "tickers", "", "CSV or XLSX file listing the stocks in a \"Ticker\" column")
	f.StringVar(&c.budget, "budget", "", "Total amount to invest, e.g. 10000")
	f.StringVar(&c.out, "out", "", "Directory where the trade sheet is written (default from the configuration)")
	f.BoolVar(&c.backoff, "backoff", false, "Wait with an exponential delay between two attempts on the same stock")
}

func (c *allocateCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, log, closer, err := setup()
	if err != nil {
		return fail("%v", err)
	}
	defer closer.Close()

	if c.out != "" {
		cfg.OutputDir = c.out
	}
	if c.backoff {
		cfg.Fetch.Backoff = true
	}

	src, err := eodhd.New(cfg.EODHDConfig())
	if err != nil {
		return fail("%v", err)
	}

	a := &allocation{
		cfg:   cfg,
		log:   log.WithField("run", uuid.NewString()),
		src:   src,
		in:    bufio.NewScanner(os.Stdin),
		out:   os.Stdout,
		print: printMarkdown,
	}
	path, err := a.run(ctx, c.tickers, c.budget)
	switch {
	case errors.Is(err, equalweight.ErrEmptyUniverse):
		return fail("none of the stocks could be retrieved, no trade sheet was written: %v", err)
	case errors.Is(err, context.Canceled):
		return fail("interrupted, no trade sheet was written")
	case err != nil:
		return fail("%v", err)
	}
	fmt.Fprintf(os.Stderr, "✅ Successfully written trades to %s\n", path)
	return subcommands.ExitSuccess
}

// allocation runs one allocation from the inputs to the trade sheet.
type allocation struct {
	cfg   *config.Config
	log   logrus.FieldLogger
	src   equalweight.QuoteSource
	in    *bufio.Scanner
	out   io.Writer
	print func(w io.Writer, md string)
}

const intro = `This program uses live EODHD stock prices to calculate how many shares (fractional included)
to purchase of each stock to create an equal weight index of the S&P500 stocks.

If you would like to use your own updated list of stocks, please use a CSV with just the stock tickers in one column under the header "Ticker".
`

// run asks for the missing inputs, computes the allocation and writes the
// trade sheet. It returns the path of the trade sheet.
//
// tickersFile and budget are used as is when set, and asked for otherwise.
func (a *allocation) run(ctx context.Context, tickersFile, budget string) (string, error) {
	if tickersFile == "" || budget == "" {
		fmt.Fprint(a.out, intro)
	}

	symbols, err := a.universe(tickersFile)
	if err != nil {
		return "", err
	}
	amount, err := a.budget(budget)
	if err != nil {
		return "", err
	}
	a.log.WithField("symbols", len(symbols)).Debugf("allocating %s", amount)

	fmt.Fprintln(a.out, "This may take up to a couple of minutes.")
	fmt.Fprintln(a.out, "Calculating...")

	records := equalweight.NewFetcher(a.src, a.cfg.FetchConfig(), a.log).Fetch(ctx, symbols)
	if err := ctx.Err(); err != nil {
		return "", err
	}

	table, err := equalweight.NewEngine(a.cfg.AllocationConfig(), a.log).Allocate(records, amount)
	if err != nil {
		return "", err
	}
	a.print(a.out, renderer.Markdown(table))

	report, err := renderer.NewFormatter(a.cfg.ReportConfig()).Render(table)
	if err != nil {
		return "", err
	}
	return report.WriteFile(a.cfg.OutputDir)
}

// universe reads the stocks in file, or in the file given by the user.
func (a *allocation) universe(file string) ([]equalweight.Symbol, error) {
	if file != "" {
		return equalweight.ReadUniverse(file)
	}
	for {
		answer, err := a.ask("If you have your own CSV, please enter the file name here (Press enter to use default stocks): ")
		if err != nil {
			return nil, err
		}
		if answer == "" {
			return equalweight.ReadUniverse(a.cfg.Universe)
		}
		symbols, err := equalweight.ReadUniverse(answer)
		if err == nil {
			return symbols, nil
		}
		a.log.WithError(err).Debugf("cannot read %s", answer)
		fmt.Fprintln(a.out, "There was an error accessing your file. Please try again or use the default list of stocks.")
	}
}

// budget parses amount, or the amount given by the user.
func (a *allocation) budget(amount string) (decimal.Decimal, error) {
	if amount != "" {
		return parseBudget(amount)
	}
	for {
		answer, err := a.ask("Please enter your portfolio size: $")
		if err != nil {
			return decimal.Zero, err
		}
		budget, err := parseBudget(answer)
		if err == nil {
			return budget, nil
		}
		if errors.Is(err, equalweight.ErrInvalidBudget) {
			fmt.Fprintln(a.out, "The portfolio size must be positive.")
			continue
		}
		fmt.Fprintln(a.out, "Not a valid number! Please enter a number.")
	}
}

// ask prints prompt and returns the next line of input, trimmed.
func (a *allocation) ask(prompt string) (string, error) {
	fmt.Fprint(a.out, prompt)
	if !a.in.Scan() {
		if err := a.in.Err(); err != nil {
			return "", err
		}
		return "", fmt.Errorf("no answer to %q: %w", strings.TrimSpace(prompt), io.ErrUnexpectedEOF)
	}
	return strings.TrimSpace(a.in.Text()), nil
}

// parseBudget parses a positive amount like "10000", "$10,000.50".
func parseBudget(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid budget %q: %w", s, err)
	}
	if !d.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: %s", equalweight.ErrInvalidBudget, d)
	}
	return d, nil
}
