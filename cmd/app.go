// Package cmd implements the ewt command line application.
package cmd

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/equalweight/config"
	"github.com/etnz/equalweight/logging"
	"github.com/google/subcommands"
	"github.com/sirupsen/logrus"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&allocateCmd{}, "")
	c.Register(&quoteCmd{}, "")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var configFile = flag.String("config", "", "Path to a YAML configuration file")
var dotenvFile = flag.String("env-file", ".env", "Path to a .env file loaded into the environment, ignored if missing")
var verbose = flag.Bool("v", false, "Log debug diagnostics")

// setup loads the configuration and builds the logger of a command.
// The returned Closer releases the log file.
func setup() (*config.Config, *logrus.Logger, io.Closer, error) {
	cfg, err := config.Load(*configFile, *dotenvFile)
	if err != nil {
		return nil, nil, nil, err
	}
	if *verbose {
		cfg.Logging.Level = "debug"
	}
	log, closer, err := logging.New(cfg.LoggingOptions(), os.Stderr)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, log, closer, nil
}

// printMarkdown renders md for the terminal, or prints it as is when it cannot.
func printMarkdown(w io.Writer, md string) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
	if err == nil {
		var out string
		if out, err = r.Render(md); err == nil {
			fmt.Fprint(w, out)
			return
		}
	}
	fmt.Fprint(w, md)
}

// fail prints an error message on stderr and returns the failure status.
func fail(format string, args ...any) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	return subcommands.ExitFailure
}
