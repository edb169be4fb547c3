// Command rdfconv converts between Turtle and N-Triples.
//
//	rdfconv -i data.ttl -o data.nt
//	rdfconv -i data.nt -t turtle --inline -o data.ttl
//	cat data.ttl | rdfconv -f turtle
//
// Settings can also come from rdfconv.toml or RDFCONV_* environment
// variables; flags win.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/aleksaelezovic/rdfgraph/internal/config"
	"github.com/aleksaelezovic/rdfgraph/internal/logging"
)

func main() {
	flags := pflag.NewFlagSet("rdfconv", pflag.ExitOnError)
	config.RegisterFlags(flags)
	flags.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: rdfconv [flags]")
		fmt.Fprintln(os.Stderr)
		flags.PrintDefaults()
	}
	_ = flags.Parse(os.Args[1:])

	cfg, err := config.Load(flags)
	if err != nil {
		logging.Fatal("failed to load config", "error", err)
	}

	level := logging.ParseLevel(cfg.Verbosity)
	if cfg.JSONLogs {
		logging.SetJSONOutput(level)
	} else {
		logging.SetLevel(level)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Watch {
		err = watch(ctx, cfg)
	} else {
		err = convert(ctx, cfg, os.Stdin, os.Stdout)
	}
	if err != nil {
		logging.Error("conversion failed", "error", err)
		os.Exit(1)
	}
}
