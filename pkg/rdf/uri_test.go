package rdf

import "testing"

const rfc3986Base = URI("http://a/b/c/d;p?q")

func TestURI_Resolve_NormalExamples(t *testing.T) {
	tests := []struct {
		ref  string
		want string
	}{
		{"g:h", "g:h"},
		{"g", "http://a/b/c/g"},
		{"./g", "http://a/b/c/g"},
		{"g/", "http://a/b/c/g/"},
		{"/g", "http://a/g"},
		{"//g", "http://g"},
		{"?y", "http://a/b/c/d;p?y"},
		{"g?y", "http://a/b/c/g?y"},
		{"#s", "http://a/b/c/d;p?q#s"},
		{"g#s", "http://a/b/c/g#s"},
		{"g?y#s", "http://a/b/c/g?y#s"},
		{";x", "http://a/b/c/;x"},
		{"g;x", "http://a/b/c/g;x"},
		{"g;x?y#s", "http://a/b/c/g;x?y#s"},
		{"", "http://a/b/c/d;p?q"},
		{".", "http://a/b/c/"},
		{"./", "http://a/b/c/"},
		{"..", "http://a/b/"},
		{"../", "http://a/b/"},
		{"../g", "http://a/b/g"},
		{"../..", "http://a/"},
		{"../../", "http://a/"},
		{"../../g", "http://a/g"},
	}

	for _, tt := range tests {
		if got := URI(tt.ref).Resolve(rfc3986Base); string(got) != tt.want {
			t.Errorf("Resolve(%q) = %q, want %q", tt.ref, got, tt.want)
		}
	}
}

func TestURI_Resolve_AbnormalExamples(t *testing.T) {
	tests := []struct {
		ref  string
		want string
	}{
		{"../../../g", "http://a/g"},
		{"../../../../g", "http://a/g"},
		{"/./g", "http://a/g"},
		{"/../g", "http://a/g"},
		{"g.", "http://a/b/c/g."},
		{".g", "http://a/b/c/.g"},
		{"g..", "http://a/b/c/g.."},
		{"..g", "http://a/b/c/..g"},
		{"./../g", "http://a/b/g"},
		{"./g/.", "http://a/b/c/g/"},
		{"g/./h", "http://a/b/c/g/h"},
		{"g/../h", "http://a/b/c/h"},
		{"g;x=1/./y", "http://a/b/c/g;x=1/y"},
		{"g;x=1/../y", "http://a/b/c/y"},
		{"g?y/./x", "http://a/b/c/g?y/./x"},
		{"g?y/../x", "http://a/b/c/g?y/../x"},
		{"g#s/./x", "http://a/b/c/g#s/./x"},
		{"g#s/../x", "http://a/b/c/g#s/../x"},
		{"http:g", "http:g"},
	}

	for _, tt := range tests {
		if got := URI(tt.ref).Resolve(rfc3986Base); string(got) != tt.want {
			t.Errorf("Resolve(%q) = %q, want %q", tt.ref, got, tt.want)
		}
	}
}

func TestURI_Resolve_BaseWithoutPath(t *testing.T) {
	got := URI("show").Resolve("http://example.org")
	if got != "http://example.org/show" {
		t.Errorf("Expected http://example.org/show, got %s", got)
	}
}

func TestURI_IsAbsolute(t *testing.T) {
	tests := []struct {
		uri  string
		want bool
	}{
		{"http://example.org/", true},
		{"urn:isbn:0451450523", true},
		{"a+b-c.d:x", true},
		{"show", false},
		{"#frag", false},
		{"//host/path", false},
		{"1abc:x", false},
		{":x", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := URI(tt.uri).IsAbsolute(); got != tt.want {
			t.Errorf("IsAbsolute(%q) = %v, want %v", tt.uri, got, tt.want)
		}
	}
}

func TestURI_Scheme(t *testing.T) {
	if s := URI("https://example.org/").Scheme(); s != "https" {
		t.Errorf("Expected scheme https, got %q", s)
	}
	if s := URI("relative/path").Scheme(); s != "" {
		t.Errorf("Expected empty scheme, got %q", s)
	}
}

func TestURI_NoNormalization(t *testing.T) {
	a := NewURI("http://example.org/a%20b")
	b := NewURI("http://example.org/a b")
	if a == b {
		t.Error("URIs with different strings should not be equal")
	}
	if got := URI("http://EXAMPLE.org/./x").Resolve(rfc3986Base); got != "http://EXAMPLE.org/./x" {
		t.Errorf("Absolute URI should be returned unchanged, got %s", got)
	}
}

func TestURI_Append(t *testing.T) {
	tests := []struct {
		uri  URI
		path string
		want URI
	}{
		{"http://example.org/data", "people", "http://example.org/data/people"},
		{"http://example.org/data/", "people", "http://example.org/data/people"},
		{"http://example.org/data/", "/people", "http://example.org/data/people"},
		{"http://example.org", "a/b", "http://example.org/a/b"},
		{"http://example.org/data", "", "http://example.org/data"},
		{"", "people", "people"},
	}

	for _, tt := range tests {
		if got := tt.uri.Append(tt.path); got != tt.want {
			t.Errorf("URI(%q).Append(%q) = %q, want %q", tt.uri, tt.path, got, tt.want)
		}
	}
}
