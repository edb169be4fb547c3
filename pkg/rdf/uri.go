package rdf

import "strings"

// URI is an absolute or relative URI reference. Two URIs are equal iff their
// strings are equal; no normalization is applied.
type URI string

// NewURI wraps value without validating it.
func NewURI(value string) URI {
	return URI(value)
}

func (u URI) String() string {
	return string(u)
}

// Append returns u with path added as a trailing resource path, joined by
// exactly one '/'. An empty path returns u unchanged.
func (u URI) Append(path string) URI {
	if path == "" {
		return u
	}
	if u == "" {
		return URI(path)
	}
	return URI(strings.TrimSuffix(string(u), "/") + "/" + strings.TrimPrefix(path, "/"))
}

// IsZero reports whether the URI is the empty string.
func (u URI) IsZero() bool {
	return u == ""
}

// Scheme returns the scheme without the trailing ':' or "" for a relative reference.
func (u URI) Scheme() string {
	s := string(u)
	i := schemeEnd(s)
	if i < 0 {
		return ""
	}
	return s[:i]
}

// IsAbsolute reports whether the URI carries a scheme.
func (u URI) IsAbsolute() bool {
	return schemeEnd(string(u)) > 0
}

// schemeEnd returns the index of the ':' terminating a scheme, or -1.
// scheme = ALPHA *( ALPHA / DIGIT / "+" / "-" / "." )
func schemeEnd(s string) int {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == ':':
			if i == 0 {
				return -1
			}
			return i
		case isAlpha(c):
		case i > 0 && (isDigit(c) || c == '+' || c == '-' || c == '.'):
		default:
			return -1
		}
	}
	return -1
}

// Resolve resolves u against base following RFC 3986 section 5.2.
// An absolute u is returned unchanged.
func (u URI) Resolve(base URI) URI {
	if u.IsAbsolute() {
		return u
	}
	r := splitURI(string(u))
	b := splitURI(string(base))

	var t uriParts
	if r.hasAuthority {
		t.authority, t.hasAuthority = r.authority, true
		t.path = removeDotSegments(r.path)
		t.query, t.hasQuery = r.query, r.hasQuery
	} else {
		if r.path == "" {
			t.path = b.path
			if r.hasQuery {
				t.query, t.hasQuery = r.query, true
			} else {
				t.query, t.hasQuery = b.query, b.hasQuery
			}
		} else {
			if strings.HasPrefix(r.path, "/") {
				t.path = removeDotSegments(r.path)
			} else {
				t.path = removeDotSegments(mergePaths(b, r.path))
			}
			t.query, t.hasQuery = r.query, r.hasQuery
		}
		t.authority, t.hasAuthority = b.authority, b.hasAuthority
	}
	t.scheme, t.hasScheme = b.scheme, b.hasScheme
	t.fragment, t.hasFragment = r.fragment, r.hasFragment

	return URI(t.String())
}

type uriParts struct {
	scheme, authority, path, query, fragment        string
	hasScheme, hasAuthority, hasQuery, hasFragment bool
}

// splitURI breaks a reference into its five components (RFC 3986 appendix B).
func splitURI(s string) uriParts {
	var p uriParts
	if i := strings.IndexByte(s, '#'); i >= 0 {
		p.fragment, p.hasFragment = s[i+1:], true
		s = s[:i]
	}
	if i := strings.IndexByte(s, '?'); i >= 0 {
		p.query, p.hasQuery = s[i+1:], true
		s = s[:i]
	}
	if i := schemeEnd(s); i > 0 {
		p.scheme, p.hasScheme = s[:i], true
		s = s[i+1:]
	}
	if strings.HasPrefix(s, "//") {
		s = s[2:]
		i := strings.IndexByte(s, '/')
		if i < 0 {
			i = len(s)
		}
		p.authority, p.hasAuthority = s[:i], true
		s = s[i:]
	}
	p.path = s
	return p
}

func (p uriParts) String() string {
	var b strings.Builder
	if p.hasScheme {
		b.WriteString(p.scheme)
		b.WriteByte(':')
	}
	if p.hasAuthority {
		b.WriteString("//")
		b.WriteString(p.authority)
	}
	b.WriteString(p.path)
	if p.hasQuery {
		b.WriteByte('?')
		b.WriteString(p.query)
	}
	if p.hasFragment {
		b.WriteByte('#')
		b.WriteString(p.fragment)
	}
	return b.String()
}

// mergePaths implements RFC 3986 section 5.2.3.
func mergePaths(base uriParts, ref string) string {
	if base.hasAuthority && base.path == "" {
		return "/" + ref
	}
	i := strings.LastIndexByte(base.path, '/')
	if i < 0 {
		return ref
	}
	return base.path[:i+1] + ref
}

// removeDotSegments implements RFC 3986 section 5.2.4. Each element of out
// holds one output segment together with its leading '/'.
func removeDotSegments(path string) string {
	if !strings.Contains(path, ".") {
		return path
	}
	var out []string
	pop := func() {
		if len(out) > 0 {
			out = out[:len(out)-1]
		}
	}
	in := path
	for in != "" {
		switch {
		case strings.HasPrefix(in, "../"):
			in = in[3:]
		case strings.HasPrefix(in, "./"):
			in = in[2:]
		case strings.HasPrefix(in, "/./"):
			in = in[2:]
		case in == "/.":
			in = "/"
		case strings.HasPrefix(in, "/../"):
			in = in[3:]
			pop()
		case in == "/..":
			in = "/"
			pop()
		case in == "." || in == "..":
			in = ""
		default:
			start := 0
			if in[0] == '/' {
				start = 1
			}
			i := strings.IndexByte(in[start:], '/')
			if i < 0 {
				out = append(out, in)
				in = ""
			} else {
				out = append(out, in[:start+i])
				in = in[start+i:]
			}
		}
	}
	return strings.Join(out, "")
}

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
