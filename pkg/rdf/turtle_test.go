package rdf

import (
	"errors"
	"slices"
	"strings"
	"testing"
)

// Helper function to get the URI of a node
func getURI(n Node) URI {
	if u, ok := n.(*URINode); ok {
		return u.URI
	}
	return ""
}

func mustDecode(t *testing.T, input string, opts ...ParserOption) *Graph {
	t.Helper()
	g, err := NewTurtleParser(input, opts...).Decode()
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	return g
}

func TestTurtleParser_CanonicalExample(t *testing.T) {
	input := `@base <http://example.org/> .
@prefix rdf: <http://www.w3.org/1999/02/22-rdf-syntax-ns#> .
@prefix foaf: <http://xmlns.com/foaf/0.1/> .
<http://www.w3.org/2001/sw/RDFCore/ntriples/> rdf:type foaf:Document ;
        <http://purl.org/dc/terms/title> "N-Triples"@en-US ;
        foaf:maker _:art .`

	g := mustDecode(t, input)
	if g.Count() != 3 {
		t.Fatalf("Expected 3 triples, got %d", g.Count())
	}
	if len(g.Namespaces()) != 2 {
		t.Errorf("Expected 2 namespaces, got %d", len(g.Namespaces()))
	}
	if base := g.BaseURI(); base == nil || *base != "http://example.org/" {
		t.Errorf("Expected base http://example.org/, got %v", base)
	}

	triples := slices.Collect(g.Triples())
	if getURI(triples[0].Predicate) != RDFType {
		t.Errorf("Expected rdf:type predicate, got %s", triples[0].Predicate)
	}
	title, ok := triples[1].Object.(*LiteralNode)
	if !ok || title.Value != "N-Triples" || title.Language != "en-US" {
		t.Errorf("Expected \"N-Triples\"@en-US, got %s", triples[1].Object)
	}
	if b, ok := triples[2].Object.(*BlankNode); !ok || b.ID != "art" {
		t.Errorf("Expected _:art, got %s", triples[2].Object)
	}
}

func TestTurtleParser_PropertyListWithComma(t *testing.T) {
	input := `@prefix : <http://www.example.org/> .
:s :p :o1, :o2, :o3 .`

	g := mustDecode(t, input)
	if g.Count() != 3 {
		t.Fatalf("Expected 3 triples, got %d", g.Count())
	}

	expectedObjects := []URI{
		"http://www.example.org/o1",
		"http://www.example.org/o2",
		"http://www.example.org/o3",
	}
	i := 0
	for triple := range g.Triples() {
		if getURI(triple.Subject) != "http://www.example.org/s" {
			t.Errorf("Wrong subject: %s", triple.Subject)
		}
		if getURI(triple.Object) != expectedObjects[i] {
			t.Errorf("Triple %d: expected object %s, got %s", i, expectedObjects[i], triple.Object)
		}
		i++
	}
}

func TestTurtleParser_PropertyListWithSemicolon(t *testing.T) {
	input := `@prefix : <http://www.example.org/> .
:s :p1 :o1 ; :p2 :o2 ;; ; .`

	g := mustDecode(t, input)
	if g.Count() != 2 {
		t.Fatalf("Expected 2 triples, got %d", g.Count())
	}
	triples := slices.Collect(g.Triples())
	if getURI(triples[0].Predicate) != "http://www.example.org/p1" {
		t.Errorf("Triple 0: wrong predicate: %s", triples[0].Predicate)
	}
	if getURI(triples[1].Predicate) != "http://www.example.org/p2" {
		t.Errorf("Triple 1: wrong predicate: %s", triples[1].Predicate)
	}
}

func TestTurtleParser_PrefixExpansion(t *testing.T) {
	g := mustDecode(t, `@prefix ex: <http://example.org/> .
ex:Foo ex:bar ex:baz .`)

	triple := slices.Collect(g.Triples())[0]
	if getURI(triple.Subject) != "http://example.org/Foo" {
		t.Errorf("Expected http://example.org/Foo, got %s", triple.Subject)
	}
}

func TestTurtleParser_BaseResolution(t *testing.T) {
	g := mustDecode(t, `@base <http://example.org/> .
<show> <p> <#frag> .`)

	triple := slices.Collect(g.Triples())[0]
	if getURI(triple.Subject) != "http://example.org/show" {
		t.Errorf("Expected http://example.org/show, got %s", triple.Subject)
	}
	if getURI(triple.Object) != "http://example.org/#frag" {
		t.Errorf("Expected http://example.org/#frag, got %s", triple.Object)
	}
}

func TestTurtleParser_BaseIsRelativeToPreviousBase(t *testing.T) {
	g := mustDecode(t, `BASE <http://example.org/a/>
@base <b/> .
<c> <p> <o> .`)

	if got := *g.BaseURI(); got != "http://example.org/a/b/" {
		t.Errorf("Expected chained base http://example.org/a/b/, got %s", got)
	}
	triple := slices.Collect(g.Triples())[0]
	if getURI(triple.Subject) != "http://example.org/a/b/c" {
		t.Errorf("Expected http://example.org/a/b/c, got %s", triple.Subject)
	}
}

func TestTurtleParser_WithBaseURI(t *testing.T) {
	g := mustDecode(t, `<s> <p> <o> .`, WithBaseURI("http://example.org/dir/doc"))

	triple := slices.Collect(g.Triples())[0]
	if getURI(triple.Subject) != "http://example.org/dir/s" {
		t.Errorf("Expected http://example.org/dir/s, got %s", triple.Subject)
	}
}

func TestTurtleParser_SPARQLStyleDirectives(t *testing.T) {
	g := mustDecode(t, `prefix ex: <http://example.org/>
Base <http://example.org/base/>
ex:s ex:p <o> .`)

	if g.Count() != 1 {
		t.Fatalf("Expected 1 triple, got %d", g.Count())
	}
	triple := slices.Collect(g.Triples())[0]
	if getURI(triple.Object) != "http://example.org/base/o" {
		t.Errorf("Expected http://example.org/base/o, got %s", triple.Object)
	}
}

func TestTurtleParser_UndefinedPrefix(t *testing.T) {
	_, err := NewTurtleParser(`foo:bar <http://example.org/p> "x" .`).Decode()

	var resErr *ResolutionError
	if !errors.As(err, &resErr) {
		t.Fatalf("Expected ResolutionError, got %v", err)
	}
	if resErr.Prefix != "foo" {
		t.Errorf("Expected prefix foo, got %s", resErr.Prefix)
	}
	if !strings.Contains(err.Error(), "undefined prefix") {
		t.Errorf("Unexpected message: %v", err)
	}
}

func TestTurtleParser_RelativeIRIWithoutBase(t *testing.T) {
	_, err := NewTurtleParser(`<s> <http://example.org/p> "x" .`).Decode()

	var resErr *ResolutionError
	if !errors.As(err, &resErr) {
		t.Fatalf("Expected ResolutionError, got %v", err)
	}
	if resErr.IRI != "s" {
		t.Errorf("Expected IRI s, got %s", resErr.IRI)
	}
}

func TestTurtleParser_Literals(t *testing.T) {
	input := `@prefix ex: <http://example.org/> .
@prefix xsd: <http://www.w3.org/2001/XMLSchema#> .
ex:s ex:p "plain", "chat"@fr, "5"^^xsd:long, "x"^^<http://example.org/dt>,
    42, -1.5, 1.0e3, true, false, '''long
text''' .`

	g := mustDecode(t, input)
	want := []string{
		`"plain"`,
		`"chat"@fr`,
		`"5"^^<http://www.w3.org/2001/XMLSchema#long>`,
		`"x"^^<http://example.org/dt>`,
		`"42"^^<http://www.w3.org/2001/XMLSchema#integer>`,
		`"-1.5"^^<http://www.w3.org/2001/XMLSchema#decimal>`,
		`"1.0e3"^^<http://www.w3.org/2001/XMLSchema#double>`,
		`"true"^^<http://www.w3.org/2001/XMLSchema#boolean>`,
		`"false"^^<http://www.w3.org/2001/XMLSchema#boolean>`,
		`"long\ntext"`,
	}

	var got []string
	for triple := range g.Triples() {
		got = append(got, triple.Object.String())
	}
	if !slices.Equal(want, got) {
		t.Errorf("Literal objects mismatch:\nwant %v\ngot  %v", want, got)
	}
}

func TestTurtleParser_AnonymousBlankNodes(t *testing.T) {
	input := `@prefix : <http://example.org/> .
:s :knows [ :name "Bob" ; :age 30 ] .
[] :p :o .
[ :q :r ] .`

	g := mustDecode(t, input)
	if g.Count() != 5 {
		t.Fatalf("Expected 5 triples, got %d", g.Count())
	}

	knows := g.TriplesWithPredicate(NewURINode("http://example.org/knows"))
	if len(knows) != 1 {
		t.Fatalf("Expected 1 knows triple, got %d", len(knows))
	}
	bob, ok := knows[0].Object.(*BlankNode)
	if !ok {
		t.Fatalf("Expected blank node object, got %s", knows[0].Object)
	}
	if n := len(g.TriplesWithSubject(bob)); n != 2 {
		t.Errorf("Expected 2 triples about the blank node, got %d", n)
	}
}

func TestTurtleParser_Collection(t *testing.T) {
	input := `@prefix : <http://example.org/> .
:s :list ( :a "b" 3 ) ; :empty () .`

	g := mustDecode(t, input)
	// 1 list triple + 3 first + 3 rest + 1 empty
	if g.Count() != 8 {
		t.Fatalf("Expected 8 triples, got %d", g.Count())
	}

	empty := g.TriplesWithPredicate(NewURINode("http://example.org/empty"))
	if len(empty) != 1 || getURI(empty[0].Object) != RDFNil {
		t.Errorf("Expected () to be rdf:nil, got %v", empty)
	}

	head := g.TriplesWithPredicate(NewURINode("http://example.org/list"))[0].Object
	var items []string
	for cell := head; getURI(cell) != RDFNil; {
		first := g.TriplesWithSubjectAndPredicate(cell, NewURINode(RDFFirst))
		rest := g.TriplesWithSubjectAndPredicate(cell, NewURINode(RDFRest))
		if len(first) != 1 || len(rest) != 1 {
			t.Fatalf("List cell %s must have exactly one rdf:first and rdf:rest", cell)
		}
		items = append(items, first[0].Object.String())
		cell = rest[0].Object
	}
	want := []string{
		"<http://example.org/a>",
		`"b"`,
		`"3"^^<http://www.w3.org/2001/XMLSchema#integer>`,
	}
	if !slices.Equal(want, items) {
		t.Errorf("List items mismatch: want %v, got %v", want, items)
	}
}

func TestTurtleParser_CollectionAsSubject(t *testing.T) {
	g := mustDecode(t, `@prefix : <http://example.org/> .
( :a ) :p :o .`)

	if g.Count() != 3 {
		t.Fatalf("Expected 3 triples, got %d", g.Count())
	}
}

func TestTurtleParser_BlankNodeLabelsAreConsistent(t *testing.T) {
	g := mustDecode(t, `@prefix : <http://example.org/> .
_:x :p _:y .
_:y :p _:x .`)

	triples := slices.Collect(g.Triples())
	if !triples[0].Subject.Equals(triples[1].Object) || !triples[0].Object.Equals(triples[1].Subject) {
		t.Error("Expected the same label to map to the same blank node")
	}
}

func TestTurtleParser_ExplicitLabelCollidingWithAutoLabel(t *testing.T) {
	g := mustDecode(t, `@prefix : <http://example.org/> .
:s :p [] .
:s :q _:auto0 .
:t :q _:auto0 .`)

	triples := slices.Collect(g.Triples())
	anon := triples[0].Object.(*BlankNode)
	labelled := triples[1].Object.(*BlankNode)
	if anon.ID != "auto0" {
		t.Fatalf("Expected [] to mint auto0, got %s", anon.ID)
	}
	if labelled.ID == "auto0" {
		t.Error("Explicit _:auto0 must not merge with the minted auto0")
	}
	if !labelled.Equals(triples[2].Object) {
		t.Error("Remapped label must be used consistently")
	}
}

func TestTurtleParser_ExplicitLabelKeptWhenNoCollision(t *testing.T) {
	g := mustDecode(t, `@prefix : <http://example.org/> .
:s :q _:auto0 .
:s :p [] .`)

	triples := slices.Collect(g.Triples())
	if id := triples[0].Object.(*BlankNode).ID; id != "auto0" {
		t.Errorf("Expected explicit label auto0 to be kept, got %s", id)
	}
	if id := triples[1].Object.(*BlankNode).ID; id == "auto0" {
		t.Error("Minted blank node must skip the explicit label")
	}
}

func TestTurtleParser_SyntaxErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"missing dot", `<http://a/s> <http://a/p> <http://a/o>`},
		{"literal subject", `"s" <http://a/p> <http://a/o> .`},
		{"literal predicate", `<http://a/s> "p" <http://a/o> .`},
		{"missing object", `<http://a/s> <http://a/p> .`},
		{"prefix without colon name", `@prefix <http://a/> .`},
		{"turtle prefix without dot", `@prefix a: <http://a/> <http://a/s> <http://a/p> <http://a/o> .`},
		{"unclosed bracket", `<http://a/s> <http://a/p> [ <http://a/q> <http://a/o> .`},
		{"unclosed collection", `<http://a/s> <http://a/p> ( <http://a/o>`},
		{"empty brackets alone", `[] .`},
		{"datatype not an IRI", `<http://a/s> <http://a/p> "x"^^"y" .`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := NewTurtleParser(tt.input).Decode()
			if g != nil {
				t.Error("Expected no graph on error")
			}
			var synErr *SyntaxError
			if !errors.As(err, &synErr) {
				t.Fatalf("Expected SyntaxError, got %v", err)
			}
			if synErr.Expected == "" {
				t.Error("Expected the error to name the expected construct")
			}
		})
	}
}

func TestTurtleParser_SyntaxErrorPosition(t *testing.T) {
	_, err := NewTurtleParser("<http://a/s> <http://a/p> <http://a/o> .\n<http://a/s> <http://a/p> ;").Decode()

	var synErr *SyntaxError
	if !errors.As(err, &synErr) {
		t.Fatalf("Expected SyntaxError, got %v", err)
	}
	if synErr.Pos.Line != 2 || synErr.Pos.Column != 27 {
		t.Errorf("Expected error at 2:27, got %s", synErr.Pos)
	}
}

func TestTurtleParser_LexicalErrorPropagates(t *testing.T) {
	_, err := NewTurtleParser(`<http://a/s> <http://a/p> "unterminated .`).Decode()

	var lexErr *LexicalError
	if !errors.As(err, &lexErr) {
		t.Fatalf("Expected LexicalError, got %v", err)
	}
}

func TestTurtleParser_FromReaderMatchesString(t *testing.T) {
	input := `@prefix ex: <http://example.org/> .
ex:s ex:p [ ex:q ( 1 2 ) ] .`

	fromString := mustDecode(t, input)
	fromReader, err := NewTurtleParserFromReader(strings.NewReader(input)).Decode()
	if err != nil {
		t.Fatalf("Decode from reader failed: %v", err)
	}

	a := slices.Collect(fromString.Triples())
	b := slices.Collect(fromReader.Triples())
	if len(a) != len(b) {
		t.Fatalf("Expected %d triples, got %d", len(a), len(b))
	}
	for i := range a {
		if !a[i].Equals(b[i]) {
			t.Errorf("Triple %d differs: %s vs %s", i, a[i], b[i])
		}
	}
}

func TestTurtleParser_DecodeIsRepeatable(t *testing.T) {
	parser := NewTurtleParser(`<http://a/s> <http://a/p> [] .`)
	g1, err := parser.Decode()
	if err != nil {
		t.Fatalf("First decode failed: %v", err)
	}
	g2, err := parser.Decode()
	if err != nil {
		t.Fatalf("Second decode failed: %v", err)
	}
	if g1 == g2 || g1.Count() != g2.Count() {
		t.Error("Expected two independent, equal graphs")
	}
}
