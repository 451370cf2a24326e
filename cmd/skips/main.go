package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/Makepad-fr/skips/internal/cli"
	"github.com/Makepad-fr/skips/internal/config"
)

func main() {
	// Root flags (apply to every subcommand)
	fs := pflag.NewFlagSet("skips", pflag.ContinueOnError)
	config.Flags(fs)
	fs.Usage = func() { cli.PrintHelp(os.Stdout) }
	if err := fs.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			os.Exit(0)
		}
		os.Exit(2)
	}

	cfg, err := config.Load(fs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Hand the remaining args to the CLI runner.
	code := cli.Run(fs.Args(), cli.Options{Config: cfg})
	if code != 0 {
		fmt.Fprintln(os.Stderr)
	}
	os.Exit(code)
}
