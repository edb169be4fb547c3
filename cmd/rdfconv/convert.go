package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/aleksaelezovic/rdfgraph/internal/config"
	"github.com/aleksaelezovic/rdfgraph/internal/logging"
	"github.com/aleksaelezovic/rdfgraph/internal/watcher"
	"github.com/aleksaelezovic/rdfgraph/pkg/rdf"
)

// convert reads cfg.Input (or stdin), and writes it to cfg.Output (or
// stdout) in the configured format.
func convert(ctx context.Context, cfg *config.Config, stdin io.Reader, stdout io.Writer) error {
	ctx = logging.WithRunID(ctx, uuid.NewString())
	start := time.Now()

	inFormat, err := cfg.InputFormat()
	if err != nil {
		return err
	}
	outFormat, err := cfg.OutputFormat()
	if err != nil {
		return err
	}

	in := stdin
	name := "<stdin>"
	if cfg.Input != "" && cfg.Input != "-" {
		f, err := os.Open(cfg.Input)
		if err != nil {
			return fmt.Errorf("failed to open input: %w", err)
		}
		defer f.Close()
		in, name = f, cfg.Input
	}

	var opts []rdf.ParserOption
	if base := cfg.BaseURI(); base != nil {
		opts = append(opts, rdf.WithBaseURI(*base))
	}
	dec, err := rdf.NewDecoder(inFormat, in, opts...)
	if err != nil {
		return err
	}
	logging.DebugContext(ctx, "parsing", "input", name, "format", inFormat)

	g, err := dec.Decode()
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", name, err)
	}

	var writerOpts []rdf.TurtleWriterOption
	if cfg.Inline {
		writerOpts = append(writerOpts, rdf.WithInlineBlankNodes())
	}
	w, err := rdf.NewWriter(outFormat, writerOpts...)
	if err != nil {
		return err
	}

	if err := writeOutput(cfg.Output, stdout, func(out io.Writer) error {
		return w.Write(out, g)
	}); err != nil {
		return err
	}

	logging.InfoContext(ctx, "converted graph",
		"input", name,
		"triples", g.Count(),
		"from", inFormat,
		"to", outFormat,
		"durationMs", time.Since(start).Milliseconds())
	return nil
}

// writeOutput writes to a temporary file next to path and renames it into
// place, so a failed run never leaves a truncated output behind.
func writeOutput(path string, stdout io.Writer, write func(io.Writer) error) error {
	if path == "" || path == "-" {
		bw := bufio.NewWriter(stdout)
		if err := write(bw); err != nil {
			return err
		}
		return bw.Flush()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".rdfconv-*")
	if err != nil {
		return fmt.Errorf("failed to create output: %w", err)
	}
	defer os.Remove(tmp.Name())

	bw := bufio.NewWriter(tmp)
	if err := write(bw); err != nil {
		tmp.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace output: %w", err)
	}
	return nil
}

// watch converts once and then again every time the input changes, until
// ctx is cancelled. Conversion errors are logged, not returned.
func watch(ctx context.Context, cfg *config.Config) error {
	if cfg.Input == "" || cfg.Input == "-" {
		return errors.New("--watch needs an input file")
	}
	if cfg.Output == "" || cfg.Output == "-" {
		return errors.New("--watch needs an output file")
	}

	fw, err := watcher.NewFileWatcher([]string{cfg.Input}, watcher.DefaultQuietPeriod)
	if err != nil {
		return err
	}
	fw.Start(ctx)

	if err := convert(ctx, cfg, nil, nil); err != nil {
		logging.Error("conversion failed", "error", err)
	}
	for ev := range fw.Events() {
		logging.Debug("input changed", "paths", len(ev.Paths))
		if err := convert(ctx, cfg, nil, nil); err != nil {
			logging.Error("conversion failed", "error", err)
		}
	}
	return nil
}
