package rdf

import "io"

// NewNTriplesParser returns a parser that accepts only N-Triples: absolute
// IRIREFs, blank node labels and double-quoted literals, one triple per
// statement.
func NewNTriplesParser(input string) *TurtleParser {
	return NewTurtleParser(input, WithStrictNTriples())
}

// NewNTriplesParserFromReader reads all of r and parses it as N-Triples.
func NewNTriplesParserFromReader(r io.Reader) *TurtleParser {
	return NewTurtleParserFromReader(r, WithStrictNTriples())
}
