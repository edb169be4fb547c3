package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"

	"github.com/aleksaelezovic/rdfgraph/internal/logging"
	"github.com/aleksaelezovic/rdfgraph/internal/testsuite"
)

func main() {
	roundTrip := pflag.Bool("round-trip", false, "also check that eval results survive every writer")
	verbosity := pflag.StringP("verbosity", "v", "warn", "log level: debug, info, warn, error")
	pflag.Usage = func() {
		fmt.Println("Usage: test-runner [flags] <manifest-file-or-directory>...")
		fmt.Println()
		fmt.Println("Examples:")
		fmt.Println("  test-runner testdata/rdf-tests/rdf/rdf11/rdf-turtle/manifest.ttl")
		fmt.Println("  test-runner --round-trip testdata/rdf-tests/rdf/rdf11/rdf-n-triples")
		fmt.Println()
		pflag.PrintDefaults()
	}
	pflag.Parse()

	if pflag.NArg() < 1 {
		pflag.Usage()
		os.Exit(1)
	}
	logging.SetLevel(logging.ParseLevel(*verbosity))

	runner := testsuite.NewTestRunner(os.Stdout)
	runner.RoundTrip = *roundTrip

	for _, path := range pflag.Args() {
		info, err := os.Stat(path)
		if err != nil {
			log.Fatalf("Failed to access path: %v", err)
		}

		manifestPath := path
		if info.IsDir() {
			manifestPath = filepath.Join(path, "manifest.ttl")
			if _, err := os.Stat(manifestPath); err != nil {
				log.Fatalf("No manifest.ttl found in directory: %s", path)
			}
		}
		if err := runner.RunManifest(manifestPath); err != nil {
			log.Fatalf("Failed to run manifest: %v", err)
		}
	}

	if runner.GetStats().Failed > 0 {
		os.Exit(1)
	}
}
