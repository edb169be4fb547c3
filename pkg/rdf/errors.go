package rdf

import (
	"errors"
	"fmt"
)

// ErrUnsupportedFormat is returned when no parser or writer exists for a content type.
var ErrUnsupportedFormat = errors.New("unsupported RDF format")

// Position locates a token in the input. Line and Column are 1-based; Column
// counts runes.
type Position struct {
	Offset int
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// LexicalError reports a malformed token.
type LexicalError struct {
	Pos Position
	Msg string
}

func (e *LexicalError) Error() string {
	return fmt.Sprintf("lexical error at %s: %s", e.Pos, e.Msg)
}

// SyntaxError reports a well-formed token in a place the grammar does not allow.
type SyntaxError struct {
	Pos      Position
	Found    string
	Expected string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at %s: unexpected %s, expected %s", e.Pos, e.Found, e.Expected)
}

// ResolutionError reports an undefined prefix or a relative IRI that cannot be
// resolved because no base is in scope.
type ResolutionError struct {
	Pos    Position
	Prefix string
	IRI    string
	Msg    string
}

func (e *ResolutionError) Error() string {
	switch {
	case e.Msg != "":
		return fmt.Sprintf("resolution error at %s: %s", e.Pos, e.Msg)
	case e.IRI != "":
		return fmt.Sprintf("resolution error at %s: relative IRI <%s> with no base", e.Pos, e.IRI)
	default:
		return fmt.Sprintf("resolution error at %s: undefined prefix: '%s'", e.Pos, e.Prefix)
	}
}

// WriterError reports a triple that cannot be serialized.
type WriterError struct {
	Triple *Triple
	Msg    string
}

func (e *WriterError) Error() string {
	if e.Triple == nil {
		return "write error: " + e.Msg
	}
	return fmt.Sprintf("write error: %s in %s", e.Msg, e.Triple)
}
