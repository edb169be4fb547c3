package rdf

import (
	"strings"

	"github.com/google/uuid"
)

// skolemPath is the well-known path segment for Skolem IRIs (RDF 1.1 Concepts 3.5).
const skolemPath = "/.well-known/genid/"

// Skolemize returns a copy of g in which every blank node is replaced by a
// fresh IRI under authority. The returned map records label -> IRI.
// Namespaces and base are copied.
func Skolemize(g *Graph, authority URI) (*Graph, map[string]URI) {
	out := NewGraph(g.baseURI)
	for p, ns := range g.namespaces {
		out.AddNamespace(p, ns)
	}

	genid := authority.Append(skolemPath)
	mapping := make(map[string]URI)
	replace := func(n Node) Node {
		b, ok := n.(*BlankNode)
		if !ok {
			return n
		}
		iri, ok := mapping[b.ID]
		if !ok {
			iri = genid.Append(uuid.NewString())
			mapping[b.ID] = iri
		}
		return NewURINode(iri)
	}

	for t := range g.Triples() {
		out.AddTriple(NewTriple(replace(t.Subject), t.Predicate, replace(t.Object)))
	}
	return out, mapping
}

// IsSkolemIRI reports whether uri has the well-known genid path.
func IsSkolemIRI(uri URI) bool {
	return strings.Contains(string(uri), skolemPath)
}

// Deskolemize returns a copy of g in which every Skolem IRI is replaced by a
// fresh blank node. Blank nodes already in g keep their labels, and the fresh
// nodes never reuse one of them.
func Deskolemize(g *Graph) *Graph {
	out := NewGraph(g.baseURI)
	for p, ns := range g.namespaces {
		out.AddNamespace(p, ns)
	}
	for id := range g.blankIDs {
		out.CreateBlankNodeWithID(id)
	}

	nodes := make(map[URI]*BlankNode)
	replace := func(n Node) Node {
		u, ok := n.(*URINode)
		if !ok || !IsSkolemIRI(u.URI) {
			return n
		}
		b, ok := nodes[u.URI]
		if !ok {
			b = out.CreateBlankNode()
			nodes[u.URI] = b
		}
		return b
	}

	for t := range g.Triples() {
		out.AddTriple(NewTriple(replace(t.Subject), t.Predicate, replace(t.Object)))
	}
	return out
}
