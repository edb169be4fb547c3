package rdf

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Supported content types
const (
	ContentTypeTurtle   = "text/turtle"
	ContentTypeNTriples = "application/n-triples"
)

// Decoder produces a Graph from its input.
type Decoder interface {
	Decode() (*Graph, error)
}

// normalizeContentType lower-cases and strips parameters like charset.
func normalizeContentType(contentType string) string {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if idx := strings.Index(ct, ";"); idx != -1 {
		ct = strings.TrimSpace(ct[:idx])
	}
	return ct
}

// NewDecoder creates a decoder for the content type reading from r.
func NewDecoder(contentType string, r io.Reader, opts ...ParserOption) (Decoder, error) {
	switch normalizeContentType(contentType) {
	case "text/turtle", "application/x-turtle":
		return NewTurtleParserFromReader(r, opts...), nil
	case "application/n-triples", "text/plain":
		return NewTurtleParserFromReader(r, append(opts, WithStrictNTriples())...), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, contentType)
	}
}

// NewWriter creates a writer for the content type.
func NewWriter(contentType string, opts ...TurtleWriterOption) (Writer, error) {
	switch normalizeContentType(contentType) {
	case "text/turtle", "application/x-turtle":
		return NewTurtleWriter(opts...), nil
	case "application/n-triples", "text/plain":
		return NewNTriplesWriter(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, contentType)
	}
}

// FormatForPath maps a file extension to its content type.
func FormatForPath(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ttl":
		return ContentTypeTurtle, nil
	case ".nt":
		return ContentTypeNTriples, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// GetSupportedContentTypes returns a list of all supported content types
func GetSupportedContentTypes() []string {
	return []string{
		"text/turtle",
		"application/x-turtle",
		"application/n-triples",
		"text/plain", // alias for N-Triples
	}
}
