package rdf

import (
	"io"
	"regexp"
	"strings"
	"unicode/utf8"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// TurtleWriter writes a Graph as Turtle: directives first, then one
// statement per subject in first-appearance order.
type TurtleWriter struct {
	// InlineBlankNodes nests blank nodes that are referenced exactly once,
	// and are not part of a blank node cycle, as [ ... ] property lists.
	InlineBlankNodes bool
	Indent           string
}

// TurtleWriterOption configures a TurtleWriter.
type TurtleWriterOption func(*TurtleWriter)

// WithInlineBlankNodes nests blank nodes referenced once, outside any cycle, as [ ... ].
func WithInlineBlankNodes() TurtleWriterOption {
	return func(w *TurtleWriter) {
		w.InlineBlankNodes = true
	}
}

// WithIndent sets the continuation indent. The default is four spaces.
func WithIndent(indent string) TurtleWriterOption {
	return func(w *TurtleWriter) {
		w.Indent = indent
	}
}

// NewTurtleWriter returns a Turtle writer configured by opts.
func NewTurtleWriter(opts ...TurtleWriterOption) *TurtleWriter {
	w := &TurtleWriter{Indent: "    "}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write renders g and writes it to out.
func (w *TurtleWriter) Write(out io.Writer, g *Graph) error {
	s, err := w.WriteToString(g)
	if err != nil {
		return err
	}
	_, err = io.WriteString(out, s)
	return err
}

func (w *TurtleWriter) WriteToString(g *Graph) (string, error) {
	s := &turtleState{
		writer:     w,
		namespaces: g.Namespaces(),
		bySubject:  make(map[string][]*Triple),
		inline:     make(map[string]bool),
	}
	for _, p := range g.Prefixes() {
		if isValidPrefix(p) {
			s.prefixes = append(s.prefixes, p)
		}
	}

	var triples []*Triple
	for t := range g.Triples() {
		if err := checkWritable(t); err != nil {
			return "", err
		}
		key := t.Subject.String()
		if _, seen := s.bySubject[key]; !seen {
			s.subjects = append(s.subjects, t.Subject)
		}
		s.bySubject[key] = append(s.bySubject[key], t)
		triples = append(triples, t)
	}
	if w.InlineBlankNodes {
		s.computeInline(triples)
	}

	var b strings.Builder
	if base := g.BaseURI(); base != nil {
		b.WriteString("@base <" + escapeIRI(string(*base)) + "> .\n")
	}
	for _, p := range s.prefixes {
		b.WriteString("@prefix " + p + ": <" + escapeIRI(string(s.namespaces[p])) + "> .\n")
	}

	for _, subject := range s.subjects {
		if bn, ok := subject.(*BlankNode); ok && s.inline[bn.ID] {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(s.term(subject))
		b.WriteString(" ")
		s.writePredicateObjects(&b, s.bySubject[subject.String()], " ;\n"+w.Indent)
		b.WriteString(" .\n")
	}
	return b.String(), nil
}

type turtleState struct {
	writer     *TurtleWriter
	namespaces map[string]URI
	prefixes   []string
	subjects   []Node
	bySubject  map[string][]*Triple
	inline     map[string]bool
}

// writePredicateObjects writes the triples of one subject grouped by
// predicate, separating predicate groups with sep.
func (s *turtleState) writePredicateObjects(b *strings.Builder, triples []*Triple, sep string) {
	var predicates []Node
	objects := make(map[string][]Node)
	for _, t := range triples {
		key := t.Predicate.String()
		if _, seen := objects[key]; !seen {
			predicates = append(predicates, t.Predicate)
		}
		objects[key] = append(objects[key], t.Object)
	}

	for i, predicate := range predicates {
		if i > 0 {
			b.WriteString(sep)
		}
		if u, ok := predicate.(*URINode); ok && u.URI == RDFType {
			b.WriteString("a")
		} else {
			b.WriteString(s.term(predicate))
		}
		b.WriteString(" ")
		for j, object := range objects[predicate.String()] {
			if j > 0 {
				b.WriteString(", ")
			}
			s.writeObject(b, object)
		}
	}
}

func (s *turtleState) writeObject(b *strings.Builder, object Node) {
	bn, ok := object.(*BlankNode)
	if !ok || !s.inline[bn.ID] {
		b.WriteString(s.term(object))
		return
	}
	nested := s.bySubject[bn.String()]
	if len(nested) == 0 {
		b.WriteString("[]")
		return
	}
	b.WriteString("[ ")
	s.writePredicateObjects(b, nested, " ; ")
	b.WriteString(" ]")
}

// computeInline marks the blank nodes that can be written as nested property
// lists: referenced once as an object and not on a blank node cycle.
func (s *turtleState) computeInline(triples []*Triple) {
	refs := make(map[string]int)
	ids := make(map[string]int64)
	selfLoops := make(map[string]bool)
	refGraph := simple.NewDirectedGraph()
	node := func(label string) graph.Node {
		id, ok := ids[label]
		if !ok {
			id = int64(len(ids))
			ids[label] = id
			refGraph.AddNode(simple.Node(id))
		}
		return simple.Node(id)
	}

	for _, t := range triples {
		ob, ok := t.Object.(*BlankNode)
		if !ok {
			continue
		}
		refs[ob.ID]++
		sb, ok := t.Subject.(*BlankNode)
		if !ok {
			continue
		}
		if sb.ID == ob.ID {
			selfLoops[sb.ID] = true
			continue
		}
		refGraph.SetEdge(refGraph.NewEdge(node(sb.ID), node(ob.ID)))
	}

	cyclic := make(map[int64]bool)
	for _, scc := range topo.TarjanSCC(refGraph) {
		if len(scc) < 2 {
			continue
		}
		for _, n := range scc {
			cyclic[n.ID()] = true
		}
	}

	for label, count := range refs {
		if count != 1 || selfLoops[label] {
			continue
		}
		if id, ok := ids[label]; ok && cyclic[id] {
			continue
		}
		s.inline[label] = true
	}
}

func (s *turtleState) term(n Node) string {
	switch t := n.(type) {
	case *URINode:
		if pname, ok := s.abbreviate(t.URI); ok {
			return pname
		}
		return "<" + escapeIRI(string(t.URI)) + ">"
	case *LiteralNode:
		return s.literal(t)
	default:
		return serializeTermCanonical(n)
	}
}

// abbreviate returns the prefixed name for uri using the longest matching
// namespace whose remainder is a valid local name.
func (s *turtleState) abbreviate(uri URI) (string, bool) {
	best, bestLen := "", -1
	for _, p := range s.prefixes {
		ns := string(s.namespaces[p])
		if ns == "" || len(ns) <= bestLen || !strings.HasPrefix(string(uri), ns) {
			continue
		}
		local := string(uri)[len(ns):]
		if !isValidLocalName(local) {
			continue
		}
		best, bestLen = p+":"+local, len(ns)
	}
	return best, bestLen >= 0
}

var (
	integerLexical = regexp.MustCompile(`^[+-]?[0-9]+$`)
	decimalLexical = regexp.MustCompile(`^[+-]?[0-9]*\.[0-9]+$`)
	doubleLexical  = regexp.MustCompile(`^[+-]?([0-9]+\.[0-9]*|\.[0-9]+|[0-9]+)[eE][+-]?[0-9]+$`)
)

func (s *turtleState) literal(l *LiteralNode) string {
	if l.Datatype != nil && l.Language == "" {
		switch *l.Datatype {
		case XSDInteger:
			if integerLexical.MatchString(l.Value) {
				return l.Value
			}
		case XSDDecimal:
			if decimalLexical.MatchString(l.Value) {
				return l.Value
			}
		case XSDDouble:
			if doubleLexical.MatchString(l.Value) {
				return l.Value
			}
		case XSDBoolean:
			if l.Value == "true" || l.Value == "false" {
				return l.Value
			}
		}
	}

	quoted := `"` + escapeStringCanonical(l.Value) + `"`
	switch {
	case l.Language != "":
		return quoted + "@" + l.Language
	case l.Datatype != nil:
		return quoted + "^^" + s.term(NewURINode(*l.Datatype))
	default:
		return quoted
	}
}

// isValidPrefix checks PN_PREFIX, allowing the empty prefix.
func isValidPrefix(p string) bool {
	if p == "" {
		return true
	}
	for i, r := range p {
		switch {
		case i == 0:
			if !isPN_CHARS_BASE(r) {
				return false
			}
		case r == '.':
		case !isPN_CHARS(r):
			return false
		}
	}
	return !strings.HasSuffix(p, ".")
}

// isValidLocalName checks that local can be written after "prefix:" without
// escapes and read back unchanged.
func isValidLocalName(local string) bool {
	if local == "" {
		return true
	}
	first, _ := utf8.DecodeRuneInString(local)
	if !isPN_CHARS_U(first) && first != ':' && !(first >= '0' && first <= '9') {
		return false
	}
	for _, r := range local {
		if !isPN_CHARS(r) && r != '.' && r != ':' {
			return false
		}
	}
	return !strings.HasSuffix(local, ".")
}
