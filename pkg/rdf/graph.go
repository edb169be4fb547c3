package rdf

import (
	"iter"
	"slices"
	"strconv"
	"strings"
)

const autoBlankPrefix = "auto"

// Graph is an in-memory set of triples with a namespace table and an optional
// base URI. Triples keep their insertion order. A Graph is not safe for
// concurrent mutation.
type Graph struct {
	baseURI    *URI
	namespaces map[string]URI
	triples    []*Triple
	index      map[tripleKey][]int

	// blankIDs holds every blank label the graph knows about; autoIDs the
	// subset minted by CreateBlankNode.
	blankIDs map[string]struct{}
	autoIDs  map[string]struct{}
	nextID   uint64
}

// NewGraph returns an empty graph. base may be nil.
func NewGraph(base *URI) *Graph {
	g := &Graph{
		namespaces: make(map[string]URI),
		index:      make(map[tripleKey][]int),
		blankIDs:   make(map[string]struct{}),
		autoIDs:    make(map[string]struct{}),
	}
	if base != nil {
		b := *base
		g.baseURI = &b
	}
	return g
}

// CreateBlankNode mints a fresh blank node labelled autoN. Labels already
// known to the graph are skipped.
func (g *Graph) CreateBlankNode() *BlankNode {
	for {
		id := autoBlankPrefix + strconv.FormatUint(g.nextID, 10)
		g.nextID++
		if _, taken := g.blankIDs[id]; taken {
			continue
		}
		g.blankIDs[id] = struct{}{}
		g.autoIDs[id] = struct{}{}
		return &BlankNode{ID: id}
	}
}

// CreateBlankNodeWithID returns a blank node with the given label. The label
// is registered so that later calls to CreateBlankNode avoid it.
func (g *Graph) CreateBlankNodeWithID(id string) *BlankNode {
	g.blankIDs[id] = struct{}{}
	return &BlankNode{ID: id}
}

// isAutoID reports whether id was minted by CreateBlankNode.
func (g *Graph) isAutoID(id string) bool {
	_, ok := g.autoIDs[id]
	return ok
}

// CreateURINode returns a node for uri as given.
func (g *Graph) CreateURINode(uri URI) *URINode {
	return NewURINode(uri)
}

// CreateURINodeStr creates a URI node from a string. A fragment-only string
// such as "#me" is appended to the base URI when one is set.
func (g *Graph) CreateURINodeStr(s string) *URINode {
	if strings.HasPrefix(s, "#") && g.baseURI != nil {
		return NewURINode(URI(string(*g.baseURI) + s))
	}
	return NewURINode(URI(s))
}

// CreateLiteralNode returns a plain string literal.
func (g *Graph) CreateLiteralNode(value string) *LiteralNode {
	return NewLiteral(value)
}

// CreateLiteralNodeWithLanguage returns a language-tagged literal.
func (g *Graph) CreateLiteralNodeWithLanguage(value, language string) *LiteralNode {
	return NewLiteralWithLanguage(value, language)
}

// CreateLiteralNodeWithDatatype returns a typed literal.
func (g *Graph) CreateLiteralNodeWithDatatype(value string, datatype URI) *LiteralNode {
	return NewLiteralWithDatatype(value, datatype)
}

// CreateIntegerNode returns an xsd:integer literal.
func (g *Graph) CreateIntegerNode(value int64) *LiteralNode {
	return NewIntegerLiteral(value)
}

// CreateBooleanNode returns an xsd:boolean literal.
func (g *Graph) CreateBooleanNode(value bool) *LiteralNode {
	return NewBooleanLiteral(value)
}

// CreateDoubleNode returns an xsd:double literal.
func (g *Graph) CreateDoubleNode(value float64) *LiteralNode {
	return NewDoubleLiteral(value)
}

// AddTriple inserts t unless an equal triple is already present.
func (g *Graph) AddTriple(t *Triple) {
	if t == nil {
		return
	}
	key := keyOf(t)
	if g.find(key, t) >= 0 {
		return
	}
	g.index[key] = append(g.index[key], len(g.triples))
	g.triples = append(g.triples, t)
	g.registerBlank(t.Subject)
	g.registerBlank(t.Object)
}

// AddTriples adds each triple in order, skipping duplicates.
func (g *Graph) AddTriples(triples ...*Triple) {
	for _, t := range triples {
		g.AddTriple(t)
	}
}

// RemoveTriple deletes the triple equal to t and reports whether one was present.
func (g *Graph) RemoveTriple(t *Triple) bool {
	if t == nil {
		return false
	}
	pos := g.find(keyOf(t), t)
	if pos < 0 {
		return false
	}
	g.triples = slices.Delete(g.triples, pos, pos+1)
	g.reindex()
	return true
}

// Contains reports whether a triple equal to t is in the graph.
func (g *Graph) Contains(t *Triple) bool {
	if t == nil {
		return false
	}
	return g.find(keyOf(t), t) >= 0
}

func (g *Graph) find(key tripleKey, t *Triple) int {
	for _, pos := range g.index[key] {
		if g.triples[pos].Equals(t) {
			return pos
		}
	}
	return -1
}

func (g *Graph) reindex() {
	g.index = make(map[tripleKey][]int, len(g.triples))
	for i, t := range g.triples {
		key := keyOf(t)
		g.index[key] = append(g.index[key], i)
	}
}

func (g *Graph) registerBlank(n Node) {
	if b, ok := n.(*BlankNode); ok && b != nil {
		g.blankIDs[b.ID] = struct{}{}
	}
}

// AddNamespace binds prefix to uri, replacing any previous binding. The empty
// prefix is the default namespace.
func (g *Graph) AddNamespace(prefix string, uri URI) {
	g.namespaces[prefix] = uri
}

// NamespaceURI returns the URI bound to prefix.
func (g *Graph) NamespaceURI(prefix string) (URI, error) {
	uri, ok := g.namespaces[prefix]
	if !ok {
		return "", &ResolutionError{Prefix: prefix}
	}
	return uri, nil
}

// Namespaces returns a copy of the namespace table.
func (g *Graph) Namespaces() map[string]URI {
	out := make(map[string]URI, len(g.namespaces))
	for p, u := range g.namespaces {
		out[p] = u
	}
	return out
}

// Prefixes returns the bound prefixes in sorted order.
func (g *Graph) Prefixes() []string {
	prefixes := make([]string, 0, len(g.namespaces))
	for p := range g.namespaces {
		prefixes = append(prefixes, p)
	}
	slices.Sort(prefixes)
	return prefixes
}

// BaseURI returns a copy of the base URI, or nil when none is set.
func (g *Graph) BaseURI() *URI {
	if g.baseURI == nil {
		return nil
	}
	b := *g.baseURI
	return &b
}

// SetBaseURI replaces the base URI.
func (g *Graph) SetBaseURI(base URI) {
	g.baseURI = &base
}

// Count returns the number of triples.
func (g *Graph) Count() int {
	return len(g.triples)
}

// IsEmpty reports whether the graph holds no triples.
func (g *Graph) IsEmpty() bool {
	return len(g.triples) == 0
}

// Triples returns the triples in insertion order. The sequence may be
// iterated any number of times; mutating the graph during iteration is not
// supported.
func (g *Graph) Triples() iter.Seq[*Triple] {
	return func(yield func(*Triple) bool) {
		for _, t := range g.triples {
			if !yield(t) {
				return
			}
		}
	}
}

// TriplesWithSubject returns the triples whose subject equals subject, in insertion order.
func (g *Graph) TriplesWithSubject(subject Node) []*Triple {
	return g.match(subject, nil, nil)
}

func (g *Graph) TriplesWithPredicate(predicate Node) []*Triple {
	return g.match(nil, predicate, nil)
}

func (g *Graph) TriplesWithObject(object Node) []*Triple {
	return g.match(nil, nil, object)
}

func (g *Graph) TriplesWithSubjectAndPredicate(subject, predicate Node) []*Triple {
	return g.match(subject, predicate, nil)
}

func (g *Graph) TriplesWithSubjectAndObject(subject, object Node) []*Triple {
	return g.match(subject, nil, object)
}

func (g *Graph) TriplesWithPredicateAndObject(predicate, object Node) []*Triple {
	return g.match(nil, predicate, object)
}

// match returns the triples matching the pattern; a nil position is a wildcard.
func (g *Graph) match(subject, predicate, object Node) []*Triple {
	var out []*Triple
	for _, t := range g.triples {
		if subject != nil && !nodeEquals(subject, t.Subject) {
			continue
		}
		if predicate != nil && !nodeEquals(predicate, t.Predicate) {
			continue
		}
		if object != nil && !nodeEquals(object, t.Object) {
			continue
		}
		out = append(out, t)
	}
	return out
}
