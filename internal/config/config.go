// Package config loads rdfconv settings from defaults, rdfconv.toml,
// RDFCONV_* environment variables and command-line flags.
package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/aleksaelezovic/rdfgraph/pkg/rdf"
)

// DefaultFile is read from the working directory when present.
const DefaultFile = "rdfconv.toml"

const envPrefix = "RDFCONV_"

// Config holds all configuration for rdfconv
type Config struct {
	Input     string `koanf:"input"`
	Output    string `koanf:"output"`
	From      string `koanf:"from"`
	To        string `koanf:"to"`
	Base      string `koanf:"base"`
	Inline    bool   `koanf:"inline"`
	Watch     bool   `koanf:"watch"`
	Verbosity string `koanf:"verbosity"`
	JSONLogs  bool   `koanf:"json-logs"`
}

// Load loads configuration from defaults, config file, environment variables, and flags.
// Priority: Flags > Env > Config File > Defaults
func Load(f *pflag.FlagSet) (*Config, error) {
	return load(f, DefaultFile)
}

func load(f *pflag.FlagSet, configFile string) (*Config, error) {
	k := koanf.New(".")

	defaults := map[string]interface{}{
		"input":     "",
		"output":    "",
		"from":      "",
		"to":        "ntriples",
		"base":      "",
		"inline":    false,
		"watch":     false,
		"verbosity": "info",
		"json-logs": false,
	}
	if err := k.Load(makeMapProvider(defaults), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// The file is optional; a missing file is not an error.
	_ = k.Load(file.Provider(configFile), toml.Parser())

	// RDFCONV_JSON_LOGS=true -> json-logs
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(
			strings.TrimPrefix(s, envPrefix)), "_", "-")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if f != nil {
		if err := k.Load(posflag.Provider(f, ".", k), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// InputFormat returns the content type to parse with. An explicit "from"
// wins; otherwise it is derived from the input file extension.
func (c *Config) InputFormat() (string, error) {
	if c.From != "" {
		return formatByName(c.From)
	}
	if c.Input == "" || c.Input == "-" {
		return rdf.ContentTypeTurtle, nil
	}
	return rdf.FormatForPath(c.Input)
}

// OutputFormat returns the content type to write.
func (c *Config) OutputFormat() (string, error) {
	if c.To != "" {
		return formatByName(c.To)
	}
	if c.Output == "" || c.Output == "-" {
		return rdf.ContentTypeNTriples, nil
	}
	return rdf.FormatForPath(c.Output)
}

// BaseURI returns the configured base, or nil when none is set.
func (c *Config) BaseURI() *rdf.URI {
	if c.Base == "" {
		return nil
	}
	base := rdf.NewURI(c.Base)
	return &base
}

// formatByName accepts short names (turtle, ttl, ntriples, nt) as well as
// content types.
func formatByName(name string) (string, error) {
	switch strings.ToLower(name) {
	case "turtle", "ttl":
		return rdf.ContentTypeTurtle, nil
	case "ntriples", "n-triples", "nt":
		return rdf.ContentTypeNTriples, nil
	}
	for _, ct := range rdf.GetSupportedContentTypes() {
		if strings.EqualFold(ct, name) {
			return ct, nil
		}
	}
	return "", fmt.Errorf("%w: %s", rdf.ErrUnsupportedFormat, name)
}

// Helper to use map as a provider
type mapProvider struct {
	m map[string]interface{}
}

func makeMapProvider(m map[string]interface{}) *mapProvider {
	return &mapProvider{m: m}
}

func (p *mapProvider) Read() (map[string]interface{}, error) {
	return p.m, nil
}

func (p *mapProvider) ReadBytes() ([]byte, error) {
	return nil, fmt.Errorf("not implemented")
}
