package config

import "github.com/spf13/pflag"

// RegisterFlags defines the rdfconv flags on f. Flag names match the koanf
// keys so that posflag can overlay them.
func RegisterFlags(f *pflag.FlagSet) {
	f.StringP("input", "i", "", "input file (- for stdin)")
	f.StringP("output", "o", "", "output file (- for stdout)")
	f.StringP("from", "f", "", "input format: turtle or ntriples (default: from file extension)")
	f.StringP("to", "t", "ntriples", "output format: turtle or ntriples")
	f.StringP("base", "b", "", "base IRI for resolving relative IRIs")
	f.Bool("inline", false, "write single-use blank nodes as [ ... ] (turtle output)")
	f.BoolP("watch", "w", false, "re-convert whenever the input file changes")
	f.StringP("verbosity", "v", "info", "log level: debug, info, warn, error")
	f.Bool("json-logs", false, "emit logs as JSON")
}
