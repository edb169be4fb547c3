package rdf

import "fmt"

// Triple is an RDF statement. Treat it as immutable once added to a Graph.
type Triple struct {
	Subject   Node
	Predicate Node
	Object    Node
}

// NewTriple builds a triple without validating it. See Validate.
func NewTriple(subject, predicate, object Node) *Triple {
	return &Triple{
		Subject:   subject,
		Predicate: predicate,
		Object:    object,
	}
}

func (t *Triple) String() string {
	return fmt.Sprintf("%s %s %s .", nodeString(t.Subject), nodeString(t.Predicate), nodeString(t.Object))
}

func (t *Triple) Equals(other *Triple) bool {
	if other == nil {
		return false
	}
	return nodeEquals(t.Subject, other.Subject) &&
		nodeEquals(t.Predicate, other.Predicate) &&
		nodeEquals(t.Object, other.Object)
}

// Validate checks the position constraints of the RDF data model: the
// subject is a URI or blank node, the predicate is a URI, and a literal
// carries at most one of language and datatype.
func (t *Triple) Validate() error {
	if isNilNode(t.Subject) || isNilNode(t.Predicate) || isNilNode(t.Object) {
		return fmt.Errorf("triple has a nil component")
	}
	switch t.Subject.(type) {
	case *URINode, *BlankNode:
	default:
		return fmt.Errorf("subject must be a URI or blank node, got %s", t.Subject.Kind())
	}
	if _, ok := t.Predicate.(*URINode); !ok {
		return fmt.Errorf("predicate must be a URI, got %s", t.Predicate.Kind())
	}
	switch o := t.Object.(type) {
	case *LiteralNode:
		if o.Language != "" && o.Datatype != nil {
			return fmt.Errorf("literal has both language %q and datatype <%s>", o.Language, *o.Datatype)
		}
	case *BlankNode:
		if o.ID == "" {
			return fmt.Errorf("blank node with empty label")
		}
	}
	if b, ok := t.Subject.(*BlankNode); ok && b.ID == "" {
		return fmt.Errorf("blank node with empty label")
	}
	return nil
}

func nodeEquals(a, b Node) bool {
	if isNilNode(a) || isNilNode(b) {
		return isNilNode(a) && isNilNode(b)
	}
	return a.Equals(b)
}
