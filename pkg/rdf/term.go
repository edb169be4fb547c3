package rdf

import (
	"math"
	"strconv"
	"strings"
)

// NodeKind represents the kind of an RDF node
type NodeKind byte

const (
	NodeKindURI NodeKind = iota + 1
	NodeKindBlank
	NodeKindLiteral
)

func (k NodeKind) String() string {
	switch k {
	case NodeKindURI:
		return "URI"
	case NodeKindBlank:
		return "blank node"
	case NodeKindLiteral:
		return "literal"
	default:
		return "unknown"
	}
}

// Node is an RDF term: a *URINode, *BlankNode or *LiteralNode.
// The set is closed; no type outside this package implements Node.
type Node interface {
	Kind() NodeKind
	// String returns the N-Triples form of the node.
	String() string
	Equals(other Node) bool
	isNode()
}

// Common namespaces
const (
	RDFNamespace = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	XSDNamespace = "http://www.w3.org/2001/XMLSchema#"
)

// Vocabulary used by the Turtle syntax
const (
	RDFType  URI = RDFNamespace + "type"
	RDFFirst URI = RDFNamespace + "first"
	RDFRest  URI = RDFNamespace + "rest"
	RDFNil   URI = RDFNamespace + "nil"

	XSDString  URI = XSDNamespace + "string"
	XSDInteger URI = XSDNamespace + "integer"
	XSDDecimal URI = XSDNamespace + "decimal"
	XSDDouble  URI = XSDNamespace + "double"
	XSDBoolean URI = XSDNamespace + "boolean"
	XSDLong    URI = XSDNamespace + "long"
)

// URINode identifies a resource by URI
type URINode struct {
	URI URI
}

// NewURINode returns a node for uri.
func NewURINode(uri URI) *URINode {
	return &URINode{URI: uri}
}

func (n *URINode) Kind() NodeKind { return NodeKindURI }

func (n *URINode) String() string {
	return "<" + escapeIRI(string(n.URI)) + ">"
}

func (n *URINode) Equals(other Node) bool {
	if on, ok := other.(*URINode); ok {
		return n.URI == on.URI
	}
	return false
}

func (*URINode) isNode() {}

// BlankNode is a node whose identity is scoped to one graph
type BlankNode struct {
	ID string
}

// NewBlankNode returns a blank node with label id. Prefer Graph.CreateBlankNode for fresh nodes.
func NewBlankNode(id string) *BlankNode {
	return &BlankNode{ID: id}
}

func (b *BlankNode) Kind() NodeKind { return NodeKindBlank }

func (b *BlankNode) String() string {
	return "_:" + b.ID
}

func (b *BlankNode) Equals(other Node) bool {
	if ob, ok := other.(*BlankNode); ok {
		return b.ID == ob.ID
	}
	return false
}

func (*BlankNode) isNode() {}

// LiteralNode is a lexical value with either a language tag or a datatype.
// When both are absent the literal is a plain string.
type LiteralNode struct {
	Value    string
	Language string
	Datatype *URI
}

// NewLiteral returns a plain string literal.
func NewLiteral(value string) *LiteralNode {
	return &LiteralNode{Value: value}
}

// NewLiteralWithLanguage returns a literal tagged with language.
func NewLiteralWithLanguage(value, language string) *LiteralNode {
	return &LiteralNode{Value: value, Language: language}
}

// NewLiteralWithDatatype returns a literal typed with datatype.
func NewLiteralWithDatatype(value string, datatype URI) *LiteralNode {
	return &LiteralNode{Value: value, Datatype: &datatype}
}

// NewIntegerLiteral returns an xsd:integer literal in canonical form.
func NewIntegerLiteral(value int64) *LiteralNode {
	return NewLiteralWithDatatype(strconv.FormatInt(value, 10), XSDInteger)
}

// NewBooleanLiteral returns an xsd:boolean literal.
func NewBooleanLiteral(value bool) *LiteralNode {
	return NewLiteralWithDatatype(strconv.FormatBool(value), XSDBoolean)
}

// NewDoubleLiteral formats value in the xsd:double lexical space, always with an exponent.
func NewDoubleLiteral(value float64) *LiteralNode {
	var s string
	switch {
	case math.IsInf(value, 1):
		s = "INF"
	case math.IsInf(value, -1):
		s = "-INF"
	default:
		s = strconv.FormatFloat(value, 'E', -1, 64)
	}
	return NewLiteralWithDatatype(s, XSDDouble)
}

func (l *LiteralNode) Kind() NodeKind { return NodeKindLiteral }

func (l *LiteralNode) String() string {
	var b strings.Builder
	b.WriteByte('"')
	b.WriteString(escapeStringCanonical(l.Value))
	b.WriteByte('"')
	if l.Language != "" {
		b.WriteByte('@')
		b.WriteString(l.Language)
	} else if l.Datatype != nil {
		b.WriteString("^^<")
		b.WriteString(escapeIRI(string(*l.Datatype)))
		b.WriteByte('>')
	}
	return b.String()
}

func (l *LiteralNode) Equals(other Node) bool {
	ol, ok := other.(*LiteralNode)
	if !ok {
		return false
	}
	if l.Value != ol.Value || l.Language != ol.Language {
		return false
	}
	if l.Datatype == nil || ol.Datatype == nil {
		return l.Datatype == nil && ol.Datatype == nil
	}
	return *l.Datatype == *ol.Datatype
}

func (*LiteralNode) isNode() {}

// isNilNode reports whether n is nil or a typed nil pointer.
func isNilNode(n Node) bool {
	switch v := n.(type) {
	case nil:
		return true
	case *URINode:
		return v == nil
	case *BlankNode:
		return v == nil
	case *LiteralNode:
		return v == nil
	}
	return false
}

func nodeString(n Node) string {
	if isNilNode(n) {
		return "<nil>"
	}
	return n.String()
}
