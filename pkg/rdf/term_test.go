package rdf

import (
	"strings"
	"testing"
)

func TestURINode_Kind(t *testing.T) {
	node := NewURINode("http://example.org/resource")
	if node.Kind() != NodeKindURI {
		t.Errorf("Expected NodeKindURI, got %v", node.Kind())
	}
}

func TestURINode_String(t *testing.T) {
	node := NewURINode("http://example.org/resource")
	expected := "<http://example.org/resource>"
	if node.String() != expected {
		t.Errorf("Expected %s, got %s", expected, node.String())
	}
}

func TestURINode_StringEscapesIllegalCharacters(t *testing.T) {
	node := NewURINode("http://example.org/a b>")
	expected := `<http://example.org/a\u0020b\u003E>`
	if node.String() != expected {
		t.Errorf("Expected %s, got %s", expected, node.String())
	}
}

func TestURINode_Equals(t *testing.T) {
	node1 := NewURINode("http://example.org/resource")
	node2 := NewURINode("http://example.org/resource")
	node3 := NewURINode("http://example.org/other")

	if !node1.Equals(node2) {
		t.Error("Expected equal URI nodes to be equal")
	}
	if node1.Equals(node3) {
		t.Error("Expected different URI nodes to not be equal")
	}
	if node1.Equals(NewBlankNode("b1")) {
		t.Error("Expected URI node to not equal blank node")
	}
}

func TestBlankNode_String(t *testing.T) {
	node := NewBlankNode("b1")
	if node.String() != "_:b1" {
		t.Errorf("Expected _:b1, got %s", node.String())
	}
	if node.Kind() != NodeKindBlank {
		t.Errorf("Expected NodeKindBlank, got %v", node.Kind())
	}
}

func TestBlankNode_Equals(t *testing.T) {
	if !NewBlankNode("b1").Equals(NewBlankNode("b1")) {
		t.Error("Expected blank nodes with the same ID to be equal")
	}
	if NewBlankNode("b1").Equals(NewBlankNode("b2")) {
		t.Error("Expected blank nodes with different IDs to not be equal")
	}
}

func TestLiteral_String(t *testing.T) {
	tests := []struct {
		name     string
		literal  *LiteralNode
		expected string
	}{
		{"simple", NewLiteral("hello"), `"hello"`},
		{"language", NewLiteralWithLanguage("hello", "en"), `"hello"@en`},
		{"datatype", NewLiteralWithDatatype("42", XSDInteger), `"42"^^<http://www.w3.org/2001/XMLSchema#integer>`},
		{"escaped", NewLiteral("a\"b\nc"), `"a\"b\nc"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.literal.String() != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, tt.literal.String())
			}
		})
	}
}

func TestLiteral_Equals(t *testing.T) {
	tests := []struct {
		name string
		a, b *LiteralNode
		want bool
	}{
		{"same plain", NewLiteral("x"), NewLiteral("x"), true},
		{"different value", NewLiteral("x"), NewLiteral("y"), false},
		{"plain vs language", NewLiteral("x"), NewLiteralWithLanguage("x", "en"), false},
		{"plain vs typed", NewLiteral("x"), NewLiteralWithDatatype("x", XSDString), false},
		{"same typed", NewLiteralWithDatatype("1", XSDInteger), NewLiteralWithDatatype("1", XSDInteger), true},
		{"different datatype", NewLiteralWithDatatype("1", XSDInteger), NewLiteralWithDatatype("1", XSDDecimal), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equals(tt.b); got != tt.want {
				t.Errorf("Equals() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewIntegerLiteral(t *testing.T) {
	lit := NewIntegerLiteral(-42)
	if lit.Value != "-42" {
		t.Errorf("Expected value -42, got %s", lit.Value)
	}
	if lit.Datatype == nil || *lit.Datatype != XSDInteger {
		t.Errorf("Expected xsd:integer datatype, got %v", lit.Datatype)
	}
}

func TestNewBooleanLiteral(t *testing.T) {
	if lit := NewBooleanLiteral(true); lit.Value != "true" || *lit.Datatype != XSDBoolean {
		t.Errorf("Unexpected boolean literal %s", lit)
	}
}

func TestNewDoubleLiteral(t *testing.T) {
	lit := NewDoubleLiteral(1.5)
	if !strings.ContainsAny(lit.Value, "eE") {
		t.Errorf("Expected exponent in double lexical form, got %s", lit.Value)
	}
	if *lit.Datatype != XSDDouble {
		t.Errorf("Expected xsd:double, got %s", *lit.Datatype)
	}
}

func TestTriple_String(t *testing.T) {
	triple := NewTriple(
		NewURINode("http://example.org/s"),
		NewURINode("http://example.org/p"),
		NewLiteral("o"),
	)
	expected := `<http://example.org/s> <http://example.org/p> "o" .`
	if triple.String() != expected {
		t.Errorf("Expected %s, got %s", expected, triple.String())
	}
}

func TestTriple_Validate(t *testing.T) {
	s := NewURINode("http://example.org/s")
	p := NewURINode("http://example.org/p")
	dt := XSDString

	tests := []struct {
		name    string
		triple  *Triple
		wantErr bool
	}{
		{"valid", NewTriple(s, p, NewLiteral("o")), false},
		{"blank subject", NewTriple(NewBlankNode("b"), p, s), false},
		{"literal subject", NewTriple(NewLiteral("x"), p, s), true},
		{"blank predicate", NewTriple(s, NewBlankNode("b"), s), true},
		{"nil object", NewTriple(s, p, nil), true},
		{"language and datatype", NewTriple(s, p, &LiteralNode{Value: "x", Language: "en", Datatype: &dt}), true},
		{"empty blank label", NewTriple(s, p, NewBlankNode("")), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.triple.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
