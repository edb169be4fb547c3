package rdf

import (
	"errors"
	"strings"
	"testing"
)

func TestNTriplesParser_Valid(t *testing.T) {
	input := `<http://example.org/s> <http://example.org/p> <http://example.org/o> .
_:b0 <http://example.org/p> "plain" .
_:b0 <http://example.org/p> "tagged"@en .
_:b0 <http://example.org/p> "1"^^<http://www.w3.org/2001/XMLSchema#integer> . # comment
<http://example.org/s> <http://example.org/p> "escé\t" .
`
	g, err := NewNTriplesParser(input).Decode()
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if g.Count() != 5 {
		t.Fatalf("Expected 5 triples, got %d", g.Count())
	}
	if len(g.Namespaces()) != 0 || g.BaseURI() != nil {
		t.Error("N-Triples should produce no namespaces and no base")
	}
}

func TestNTriplesParser_RejectsTurtleSyntax(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"prefix directive", `@prefix ex: <http://example.org/> .`},
		{"sparql base", `BASE <http://example.org/>`},
		{"prefixed name", `<http://a/s> ex:p <http://a/o> .`},
		{"a keyword", `<http://a/s> a <http://a/o> .`},
		{"semicolon", `<http://a/s> <http://a/p> <http://a/o> ; <http://a/q> <http://a/o> .`},
		{"comma", `<http://a/s> <http://a/p> <http://a/o> , <http://a/o2> .`},
		{"anonymous blank node", `[] <http://a/p> <http://a/o> .`},
		{"collection", `<http://a/s> <http://a/p> ( <http://a/o> ) .`},
		{"numeric shorthand", `<http://a/s> <http://a/p> 42 .`},
		{"single quotes", `<http://a/s> <http://a/p> 'x' .`},
		{"long string", `<http://a/s> <http://a/p> """x""" .`},
		{"relative IRI", `<s> <http://a/p> <http://a/o> .`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewNTriplesParser(tt.input).Decode()
			if err == nil {
				t.Fatal("Expected an error")
			}
			var synErr *SyntaxError
			var resErr *ResolutionError
			if !errors.As(err, &synErr) && !errors.As(err, &resErr) {
				t.Errorf("Expected SyntaxError or ResolutionError, got %T: %v", err, err)
			}
		})
	}
}

func TestNTriplesParserFromReader(t *testing.T) {
	r := strings.NewReader("<http://a/s> <http://a/p> <http://a/o> .\n")
	g, err := NewNTriplesParserFromReader(r).Decode()
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if g.Count() != 1 {
		t.Errorf("Expected 1 triple, got %d", g.Count())
	}
}
