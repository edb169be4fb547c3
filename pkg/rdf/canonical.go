package rdf

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Writer serializes a Graph to a concrete syntax.
type Writer interface {
	Write(w io.Writer, g *Graph) error
	WriteToString(g *Graph) (string, error)
}

// NTriplesWriter writes one canonical N-Triples line per triple, in
// insertion order.
type NTriplesWriter struct{}

// NewNTriplesWriter returns a writer for canonical N-Triples.
func NewNTriplesWriter() *NTriplesWriter {
	return &NTriplesWriter{}
}

// WriteToString renders g as N-Triples.
func (w *NTriplesWriter) WriteToString(g *Graph) (string, error) {
	var b strings.Builder
	if err := w.Write(&b, g); err != nil {
		return "", err
	}
	return b.String(), nil
}

// Write streams g as N-Triples to out. Nothing past the first invalid triple is written.
func (w *NTriplesWriter) Write(out io.Writer, g *Graph) error {
	bw := bufio.NewWriter(out)
	for t := range g.Triples() {
		line, err := serializeTripleCanonical(t)
		if err != nil {
			return err
		}
		if _, err := bw.WriteString(line); err != nil {
			return fmt.Errorf("failed to write triple: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write triples: %w", err)
	}
	return nil
}

// SerializeTriplesCanonical serializes triples to canonical N-Triples.
// Input order is preserved.
func SerializeTriplesCanonical(triples []*Triple) (string, error) {
	var builder strings.Builder
	for _, triple := range triples {
		line, err := serializeTripleCanonical(triple)
		if err != nil {
			return "", err
		}
		builder.WriteString(line)
	}
	return builder.String(), nil
}

func serializeTripleCanonical(t *Triple) (string, error) {
	if err := checkWritable(t); err != nil {
		return "", err
	}
	var builder strings.Builder
	builder.WriteString(serializeTermCanonical(t.Subject))
	builder.WriteString(" ")
	builder.WriteString(serializeTermCanonical(t.Predicate))
	builder.WriteString(" ")
	builder.WriteString(serializeTermCanonical(t.Object))
	builder.WriteString(" .\n")
	return builder.String(), nil
}

// checkWritable validates t and rejects terms that neither syntax can carry
// so that re-parsing yields the same triple: relative IRIs, blank labels
// outside BLANK_NODE_LABEL and malformed language tags.
func checkWritable(t *Triple) error {
	if err := t.Validate(); err != nil {
		return &WriterError{Triple: t, Msg: err.Error()}
	}
	for _, n := range []Node{t.Subject, t.Predicate, t.Object} {
		var msg string
		switch n := n.(type) {
		case *URINode:
			if !n.URI.IsAbsolute() {
				msg = fmt.Sprintf("relative IRI <%s>", n.URI)
			}
		case *BlankNode:
			if !isValidBlankLabel(n.ID) {
				msg = fmt.Sprintf("invalid blank node label %q", n.ID)
			}
		case *LiteralNode:
			if n.Language != "" && !isValidLangTag(n.Language) {
				msg = fmt.Sprintf("invalid language tag %q", n.Language)
			} else if n.Datatype != nil && !n.Datatype.IsAbsolute() {
				msg = fmt.Sprintf("relative datatype IRI <%s>", *n.Datatype)
			}
		}
		if msg != "" {
			return &WriterError{Triple: t, Msg: msg}
		}
	}
	return nil
}

// serializeTermCanonical serializes a single validated node in canonical format
func serializeTermCanonical(n Node) string {
	switch t := n.(type) {
	case *URINode:
		return "<" + escapeIRI(string(t.URI)) + ">"
	case *BlankNode:
		return "_:" + t.ID
	case *LiteralNode:
		return serializeLiteralCanonical(t)
	default:
		return ""
	}
}

func serializeLiteralCanonical(lit *LiteralNode) string {
	escaped := escapeStringCanonical(lit.Value)
	if lit.Language != "" {
		return fmt.Sprintf(`"%s"@%s`, escaped, lit.Language)
	}
	if lit.Datatype != nil {
		return fmt.Sprintf(`"%s"^^<%s>`, escaped, escapeIRI(string(*lit.Datatype)))
	}
	return fmt.Sprintf(`"%s"`, escaped)
}

// escapeStringCanonical escapes a string value for canonical N-Triples output:
// - Special named escapes: \t \b \n \r \f \" \\
// - \uXXXX for the remaining C0 controls, DEL, U+FFFE and U+FFFF
func escapeStringCanonical(s string) string {
	var builder strings.Builder
	builder.Grow(len(s))

	for _, r := range s {
		switch r {
		case '\t':
			builder.WriteString(`\t`)
		case '\b':
			builder.WriteString(`\b`)
		case '\n':
			builder.WriteString(`\n`)
		case '\r':
			builder.WriteString(`\r`)
		case '\f':
			builder.WriteString(`\f`)
		case '"':
			builder.WriteString(`\"`)
		case '\\':
			builder.WriteString(`\\`)
		default:
			if r < 0x20 || r == 0x7F || r == 0xFFFE || r == 0xFFFF {
				fmt.Fprintf(&builder, `\u%04X`, r)
			} else {
				builder.WriteRune(r)
			}
		}
	}

	return builder.String()
}

// escapeIRI escapes the characters IRIREF cannot carry literally, so that any
// stored URI string survives a write and re-parse.
func escapeIRI(iri string) string {
	if !strings.ContainsFunc(iri, needsIRIEscape) {
		return iri
	}
	var builder strings.Builder
	for _, r := range iri {
		if needsIRIEscape(r) {
			fmt.Fprintf(&builder, `\u%04X`, r)
		} else {
			builder.WriteRune(r)
		}
	}
	return builder.String()
}

func needsIRIEscape(r rune) bool {
	return r <= 0x20 || strings.ContainsRune("<>\"{}|^`\\", r)
}
