package rdf

import (
	"fmt"
	"io"
)

// TurtleParser parses Turtle (and, in strict mode, N-Triples) into a Graph.
type TurtleParser struct {
	input          string
	readErr        error
	initialBase    *URI
	strictNTriples bool

	// per-Decode state
	lexer  *Lexer
	tok    Token
	graph  *Graph
	base   *URI
	labels map[string]*BlankNode
}

// ParserOption configures a TurtleParser.
type ParserOption func(*TurtleParser)

// WithBaseURI sets the base URI in effect before any @base directive.
func WithBaseURI(base URI) ParserOption {
	return func(p *TurtleParser) {
		p.initialBase = &base
	}
}

// WithStrictNTriples restricts the accepted grammar to N-Triples.
func WithStrictNTriples() ParserOption {
	return func(p *TurtleParser) {
		p.strictNTriples = true
	}
}

// NewTurtleParser returns a parser over input.
func NewTurtleParser(input string, opts ...ParserOption) *TurtleParser {
	p := &TurtleParser{input: input}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// NewTurtleParserFromReader reads r fully; a read error is reported by Decode.
func NewTurtleParserFromReader(r io.Reader, opts ...ParserOption) *TurtleParser {
	data, err := io.ReadAll(r)
	p := NewTurtleParser(string(data), opts...)
	if err != nil {
		p.readErr = fmt.Errorf("failed to read input: %w", err)
	}
	return p
}

// Decode parses the whole document. On error no graph is returned.
func (p *TurtleParser) Decode() (*Graph, error) {
	if p.readErr != nil {
		return nil, p.readErr
	}
	p.lexer = NewLexer(p.input)
	p.graph = NewGraph(p.initialBase)
	p.base = p.initialBase
	p.labels = make(map[string]*BlankNode)

	if err := p.advance(); err != nil {
		return nil, err
	}
	for p.tok.Kind != TokenEOF {
		if err := p.parseStatement(); err != nil {
			return nil, err
		}
	}
	g := p.graph
	p.graph, p.lexer, p.labels = nil, nil, nil
	return g, nil
}

func (p *TurtleParser) advance() error {
	tok, err := p.lexer.Next()
	if err != nil {
		return err
	}
	p.tok = tok
	return nil
}

func (p *TurtleParser) unexpected(expected string) error {
	return &SyntaxError{Pos: p.tok.Pos, Found: p.tok.String(), Expected: expected}
}

// expect consumes a token of the given kind.
func (p *TurtleParser) expect(kind TokenKind) error {
	if p.tok.Kind != kind {
		return p.unexpected(kind.String())
	}
	return p.advance()
}

func (p *TurtleParser) parseStatement() error {
	switch p.tok.Kind {
	case TokenPrefix, TokenSPARQLPrefix, TokenBase, TokenSPARQLBase:
		if p.strictNTriples {
			return p.unexpected("triple")
		}
		turtleStyle := p.tok.Kind == TokenPrefix || p.tok.Kind == TokenBase
		if p.tok.Kind == TokenPrefix || p.tok.Kind == TokenSPARQLPrefix {
			return p.parsePrefix(turtleStyle)
		}
		return p.parseBase(turtleStyle)
	}
	if err := p.parseTriples(); err != nil {
		return err
	}
	return p.expect(TokenDot)
}

// parsePrefix handles "@prefix p: <iri> ." and "PREFIX p: <iri>".
func (p *TurtleParser) parsePrefix(turtleStyle bool) error {
	if err := p.advance(); err != nil {
		return err
	}
	if p.tok.Kind != TokenPrefixedName || p.tok.Value != "" {
		return p.unexpected("prefix name ending in ':'")
	}
	prefix := p.tok.Prefix
	if err := p.advance(); err != nil {
		return err
	}
	if p.tok.Kind != TokenIRIRef {
		return p.unexpected("IRI")
	}
	iri, err := p.resolveIRI(p.tok)
	if err != nil {
		return err
	}
	p.graph.AddNamespace(prefix, iri)
	if err := p.advance(); err != nil {
		return err
	}
	if turtleStyle {
		return p.expect(TokenDot)
	}
	return nil
}

// parseBase handles "@base <iri> ." and "BASE <iri>".
func (p *TurtleParser) parseBase(turtleStyle bool) error {
	if err := p.advance(); err != nil {
		return err
	}
	if p.tok.Kind != TokenIRIRef {
		return p.unexpected("IRI")
	}
	iri, err := p.resolveIRI(p.tok)
	if err != nil {
		return err
	}
	p.base = &iri
	p.graph.SetBaseURI(iri)
	if err := p.advance(); err != nil {
		return err
	}
	if turtleStyle {
		return p.expect(TokenDot)
	}
	return nil
}

// parseTriples handles "subject predicateObjectList" and the standalone
// "[ predicateObjectList ]" form.
func (p *TurtleParser) parseTriples() error {
	if p.tok.Kind == TokenLBracket && !p.strictNTriples {
		subject, hasProperties, err := p.parseBlankNodePropertyList()
		if err != nil {
			return err
		}
		if hasProperties && p.tok.Kind == TokenDot {
			return nil
		}
		return p.parsePredicateObjectList(subject)
	}

	subject, err := p.parseSubject()
	if err != nil {
		return err
	}
	return p.parsePredicateObjectList(subject)
}

func (p *TurtleParser) parseSubject() (Node, error) {
	switch p.tok.Kind {
	case TokenIRIRef, TokenPrefixedName:
		return p.parseIRINode()
	case TokenBlankNodeLabel:
		return p.parseBlankNode()
	case TokenLParen:
		if !p.strictNTriples {
			return p.parseCollection()
		}
	}
	return nil, p.unexpected("subject")
}

func (p *TurtleParser) parsePredicateObjectList(subject Node) error {
	for {
		predicate, err := p.parseVerb()
		if err != nil {
			return err
		}
		if err := p.parseObjectList(subject, predicate); err != nil {
			return err
		}

		if p.tok.Kind != TokenSemicolon || p.strictNTriples {
			return nil
		}
		for p.tok.Kind == TokenSemicolon {
			if err := p.advance(); err != nil {
				return err
			}
		}
		// trailing ';' before the end of the list
		if p.tok.Kind == TokenDot || p.tok.Kind == TokenRBracket {
			return nil
		}
	}
}

func (p *TurtleParser) parseVerb() (Node, error) {
	switch p.tok.Kind {
	case TokenA:
		if p.strictNTriples {
			break
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return NewURINode(RDFType), nil
	case TokenIRIRef, TokenPrefixedName:
		return p.parseIRINode()
	}
	return nil, p.unexpected("predicate")
}

func (p *TurtleParser) parseObjectList(subject, predicate Node) error {
	for {
		object, err := p.parseObject()
		if err != nil {
			return err
		}
		p.graph.AddTriple(NewTriple(subject, predicate, object))

		if p.tok.Kind != TokenComma || p.strictNTriples {
			return nil
		}
		if err := p.advance(); err != nil {
			return err
		}
	}
}

func (p *TurtleParser) parseObject() (Node, error) {
	switch p.tok.Kind {
	case TokenIRIRef, TokenPrefixedName:
		return p.parseIRINode()
	case TokenBlankNodeLabel:
		return p.parseBlankNode()
	case TokenString:
		return p.parseLiteral()
	case TokenLBracket:
		if p.strictNTriples {
			break
		}
		node, _, err := p.parseBlankNodePropertyList()
		return node, err
	case TokenLParen:
		if p.strictNTriples {
			break
		}
		return p.parseCollection()
	case TokenInteger, TokenDecimal, TokenDouble, TokenBoolean:
		if p.strictNTriples {
			break
		}
		return p.parseNumericOrBoolean()
	}
	return nil, p.unexpected("object")
}

// parseIRINode consumes an IRIREF or prefixed name.
func (p *TurtleParser) parseIRINode() (Node, error) {
	iri, err := p.parseIRI()
	if err != nil {
		return nil, err
	}
	return p.graph.CreateURINode(iri), nil
}

func (p *TurtleParser) parseIRI() (URI, error) {
	var iri URI
	var err error
	switch p.tok.Kind {
	case TokenIRIRef:
		iri, err = p.resolveIRI(p.tok)
	case TokenPrefixedName:
		if p.strictNTriples {
			return "", p.unexpected("IRI")
		}
		iri, err = p.expandPrefixedName(p.tok)
	default:
		return "", p.unexpected("IRI")
	}
	if err != nil {
		return "", err
	}
	return iri, p.advance()
}

// resolveIRI resolves an IRIREF token against the current base.
func (p *TurtleParser) resolveIRI(tok Token) (URI, error) {
	iri := URI(tok.Value)
	if iri.IsAbsolute() {
		return iri, nil
	}
	if p.strictNTriples {
		return "", &ResolutionError{Pos: tok.Pos, IRI: tok.Value, Msg: fmt.Sprintf("relative IRI <%s> not allowed in N-Triples", tok.Value)}
	}
	if p.base == nil {
		return "", &ResolutionError{Pos: tok.Pos, IRI: tok.Value}
	}
	return iri.Resolve(*p.base), nil
}

func (p *TurtleParser) expandPrefixedName(tok Token) (URI, error) {
	ns, err := p.graph.NamespaceURI(tok.Prefix)
	if err != nil {
		return "", &ResolutionError{Pos: tok.Pos, Prefix: tok.Prefix}
	}
	return URI(string(ns) + tok.Value), nil
}

// parseBlankNode maps a document label to a graph blank node. A label that
// collides with an auto-minted label is remapped to a fresh one.
func (p *TurtleParser) parseBlankNode() (Node, error) {
	label := p.tok.Value
	node, ok := p.labels[label]
	if !ok {
		if p.graph.isAutoID(label) {
			node = p.graph.CreateBlankNode()
		} else {
			node = p.graph.CreateBlankNodeWithID(label)
		}
		p.labels[label] = node
	}
	return node, p.advance()
}

// parseBlankNodePropertyList handles "[]" and "[ predicateObjectList ]".
// The node is always freshly minted.
func (p *TurtleParser) parseBlankNodePropertyList() (Node, bool, error) {
	node := p.graph.CreateBlankNode()
	if err := p.advance(); err != nil {
		return nil, false, err
	}
	if p.tok.Kind == TokenRBracket {
		return node, false, p.advance()
	}
	if err := p.parsePredicateObjectList(node); err != nil {
		return nil, false, err
	}
	if err := p.expect(TokenRBracket); err != nil {
		return nil, false, err
	}
	return node, true, nil
}

// parseCollection desugars "( o1 o2 ... )" into an rdf:first/rdf:rest chain.
func (p *TurtleParser) parseCollection() (Node, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	var items []Node
	for p.tok.Kind != TokenRParen {
		if p.tok.Kind == TokenEOF {
			return nil, p.unexpected("')'")
		}
		item, err := p.parseObject()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := p.advance(); err != nil {
		return nil, err
	}

	if len(items) == 0 {
		return NewURINode(RDFNil), nil
	}
	first := NewURINode(RDFFirst)
	rest := NewURINode(RDFRest)
	head := p.graph.CreateBlankNode()
	cell := head
	for i, item := range items {
		p.graph.AddTriple(NewTriple(cell, first, item))
		if i == len(items)-1 {
			p.graph.AddTriple(NewTriple(cell, rest, NewURINode(RDFNil)))
			break
		}
		next := p.graph.CreateBlankNode()
		p.graph.AddTriple(NewTriple(cell, rest, next))
		cell = next
	}
	return head, nil
}

// parseLiteral handles a string with an optional language tag or datatype.
func (p *TurtleParser) parseLiteral() (Node, error) {
	tok := p.tok
	if p.strictNTriples && tok.Quote != `"` {
		return nil, p.unexpected("double-quoted string")
	}
	if err := p.advance(); err != nil {
		return nil, err
	}

	switch p.tok.Kind {
	case TokenLangTag:
		lang := p.tok.Value
		if err := p.advance(); err != nil {
			return nil, err
		}
		return p.graph.CreateLiteralNodeWithLanguage(tok.Value, lang), nil
	case TokenDatatypeMarker:
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.tok.Kind != TokenIRIRef && p.tok.Kind != TokenPrefixedName {
			return nil, p.unexpected("datatype IRI")
		}
		datatype, err := p.parseIRI()
		if err != nil {
			return nil, err
		}
		return p.graph.CreateLiteralNodeWithDatatype(tok.Value, datatype), nil
	}
	return p.graph.CreateLiteralNode(tok.Value), nil
}

// parseNumericOrBoolean maps the shorthand forms to typed literals, keeping
// the lexical form verbatim.
func (p *TurtleParser) parseNumericOrBoolean() (Node, error) {
	var datatype URI
	switch p.tok.Kind {
	case TokenInteger:
		datatype = XSDInteger
	case TokenDecimal:
		datatype = XSDDecimal
	case TokenDouble:
		datatype = XSDDouble
	case TokenBoolean:
		datatype = XSDBoolean
	}
	node := p.graph.CreateLiteralNodeWithDatatype(p.tok.Value, datatype)
	return node, p.advance()
}
