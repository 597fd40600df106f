package cmd

import (
	"context"
	"flag"
	"os"

	"github.com/etnz/equalweight"
	"github.com/etnz/equalweight/eodhd"
	"github.com/etnz/equalweight/renderer"
	"github.com/google/subcommands"
)

// quoteCmd implements the "quote" command.
type quoteCmd struct {
	exchange string
}

func (*quoteCmd) Name() string     { return "quote" }
func (*quoteCmd) Synopsis() string { return "prints the quotes retrieved for some stocks" }
func (*quoteCmd) Usage() string {
	return `ewt quote [-exchange <code>] <symbol>...

Retrieves the price and market capitalization of each symbol, with the same
retry policy as the allocate command, and prints the outcome.
`
}
func (c *quoteCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.exchange, "exchange", "", "EODHD exchange code appended to symbols without one (default from the configuration)")
}

func (c *quoteCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	symbols := equalweight.Symbols(f.Args()...)
	if len(symbols) == 0 {
		return fail("at least one symbol is required")
	}

	cfg, log, closer, err := setup()
	if err != nil {
		return fail("%v", err)
	}
	defer closer.Close()

	if c.exchange != "" {
		cfg.EODHD.Exchange = c.exchange
	}
	src, err := eodhd.New(cfg.EODHDConfig())
	if err != nil {
		return fail("%v", err)
	}

	results := equalweight.NewFetcher(src, cfg.FetchConfig(), log).FetchAll(ctx, symbols)
	printMarkdown(os.Stdout, renderer.Quotes(results))
	if len(equalweight.Records(results)) == 0 {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
