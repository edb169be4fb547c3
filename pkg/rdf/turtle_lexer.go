package rdf

import (
	"fmt"
	"iter"
	"strconv"
	"strings"
	"unicode/utf8"
)

// TokenKind identifies the lexical class of a Turtle token
type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenPrefix
	TokenBase
	TokenSPARQLPrefix
	TokenSPARQLBase
	TokenIRIRef
	TokenPrefixedName
	TokenBlankNodeLabel
	TokenString
	TokenLangTag
	TokenDatatypeMarker
	TokenInteger
	TokenDecimal
	TokenDouble
	TokenBoolean
	TokenA
	TokenDot
	TokenSemicolon
	TokenComma
	TokenLBracket
	TokenRBracket
	TokenLParen
	TokenRParen
)

var tokenKindNames = map[TokenKind]string{
	TokenEOF:            "end of input",
	TokenPrefix:         "@prefix",
	TokenBase:           "@base",
	TokenSPARQLPrefix:   "PREFIX",
	TokenSPARQLBase:     "BASE",
	TokenIRIRef:         "IRI",
	TokenPrefixedName:   "prefixed name",
	TokenBlankNodeLabel: "blank node label",
	TokenString:         "string",
	TokenLangTag:        "language tag",
	TokenDatatypeMarker: "'^^'",
	TokenInteger:        "integer",
	TokenDecimal:        "decimal",
	TokenDouble:         "double",
	TokenBoolean:        "boolean",
	TokenA:              "'a'",
	TokenDot:            "'.'",
	TokenSemicolon:      "';'",
	TokenComma:          "','",
	TokenLBracket:       "'['",
	TokenRBracket:       "']'",
	TokenLParen:         "'('",
	TokenRParen:         "')'",
}

func (k TokenKind) String() string {
	if name, ok := tokenKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("TokenKind(%d)", int(k))
}

// Token is one lexical unit of a Turtle document.
//
// Value holds the decoded payload: the IRI for IRIREF, the local part of a
// prefixed name, the label of a blank node, the unescaped text of a string,
// the tag of a LANGTAG, and the lexical form of numbers and booleans.
type Token struct {
	Kind   TokenKind
	Value  string
	Prefix string // prefixed names only
	Quote  string // strings only: the opening delimiter
	Pos    Position
}

func (t Token) String() string {
	switch t.Kind {
	case TokenIRIRef:
		return "IRI <" + t.Value + ">"
	case TokenPrefixedName:
		return "prefixed name " + t.Prefix + ":" + t.Value
	case TokenBlankNodeLabel:
		return "blank node _:" + t.Value
	case TokenString:
		return "string " + strconv.Quote(t.Value)
	case TokenLangTag:
		return "language tag @" + t.Value
	case TokenInteger, TokenDecimal, TokenDouble, TokenBoolean:
		return t.Kind.String() + " " + t.Value
	default:
		return t.Kind.String()
	}
}

// Lexer splits a Turtle document into tokens. It holds only cursor state.
type Lexer struct {
	input       string
	pos         int
	afterString bool

	// incremental line tracking for Position
	scanOff   int
	line      int
	lineStart int
}

// NewLexer returns a lexer positioned at the start of input.
func NewLexer(input string) *Lexer {
	return &Lexer{input: input, line: 1}
}

// Tokens returns the remaining tokens as a lazy sequence. The sequence ends
// after EOF or the first error.
func (l *Lexer) Tokens() iter.Seq2[Token, error] {
	return func(yield func(Token, error) bool) {
		for {
			tok, err := l.Next()
			if !yield(tok, err) || err != nil || tok.Kind == TokenEOF {
				return
			}
		}
	}
}

// Next returns the next token. At the end of input it returns a TokenEOF
// token, repeatedly.
func (l *Lexer) Next() (Token, error) {
	l.skipWhitespaceAndComments()
	if l.pos >= len(l.input) {
		return l.token(TokenEOF, l.pos, ""), nil
	}

	start := l.pos
	c := l.input[l.pos]

	var tok Token
	var err error
	switch {
	case c == '<':
		tok, err = l.lexIRIRef()
	case c == '"' || c == '\'':
		tok, err = l.lexString()
	case c == '@':
		tok, err = l.lexAt()
	case c == '^':
		if !strings.HasPrefix(l.input[l.pos:], "^^") {
			return Token{}, l.errorf(start, "expected '^^'")
		}
		l.pos += 2
		tok = l.token(TokenDatatypeMarker, start, "^^")
	case c == '_' && l.peekByte(1) == ':':
		tok, err = l.lexBlankNodeLabel()
	case c == '.' && isDigit(l.peekByte(1)):
		tok, err = l.lexNumber()
	case isDigit(c) || c == '+' || c == '-':
		tok, err = l.lexNumber()
	case c == ':':
		tok, err = l.lexPrefixedName("", start)
	case strings.IndexByte(".;,[]()", c) >= 0:
		l.pos++
		tok = l.token(punctuation[c], start, string(c))
	default:
		tok, err = l.lexName()
	}
	if err != nil {
		return Token{}, err
	}
	l.afterString = tok.Kind == TokenString
	return tok, nil
}

var punctuation = map[byte]TokenKind{
	'.': TokenDot,
	';': TokenSemicolon,
	',': TokenComma,
	'[': TokenLBracket,
	']': TokenRBracket,
	'(': TokenLParen,
	')': TokenRParen,
}

func (l *Lexer) token(kind TokenKind, start int, value string) Token {
	return Token{Kind: kind, Value: value, Pos: l.position(start)}
}

func (l *Lexer) errorf(offset int, format string, args ...any) *LexicalError {
	return &LexicalError{Pos: l.position(offset), Msg: fmt.Sprintf(format, args...)}
}

// position converts a byte offset to a Position. Offsets are normally
// requested in increasing order, so the scan resumes where it stopped.
func (l *Lexer) position(offset int) Position {
	if offset < l.scanOff {
		l.scanOff, l.line, l.lineStart = 0, 1, 0
	}
	for l.scanOff < offset && l.scanOff < len(l.input) {
		if l.input[l.scanOff] == '\n' {
			l.line++
			l.lineStart = l.scanOff + 1
		}
		l.scanOff++
	}
	return Position{
		Offset: offset,
		Line:   l.line,
		Column: utf8.RuneCountInString(l.input[l.lineStart:offset]) + 1,
	}
}

func (l *Lexer) peekByte(ahead int) byte {
	if l.pos+ahead < len(l.input) {
		return l.input[l.pos+ahead]
	}
	return 0
}

func (l *Lexer) peekRune() (rune, int) {
	if l.pos >= len(l.input) {
		return utf8.RuneError, 0
	}
	return utf8.DecodeRuneInString(l.input[l.pos:])
}

func (l *Lexer) skipWhitespaceAndComments() {
	for l.pos < len(l.input) {
		switch l.input[l.pos] {
		case ' ', '\t', '\n', '\r':
			l.pos++
		case '#':
			for l.pos < len(l.input) && l.input[l.pos] != '\n' && l.input[l.pos] != '\r' {
				l.pos++
			}
		default:
			return
		}
	}
}

// lexIRIRef reads '<' ... '>' decoding UCHAR escapes.
func (l *Lexer) lexIRIRef() (Token, error) {
	start := l.pos
	l.pos++ // skip '<'

	var b strings.Builder
	for {
		if l.pos >= len(l.input) {
			return Token{}, l.errorf(start, "unclosed IRI")
		}
		c := l.input[l.pos]
		switch {
		case c == '>':
			l.pos++
			return l.token(TokenIRIRef, start, b.String()), nil
		case c == '\\':
			r, err := l.lexUnicodeEscape()
			if err != nil {
				return Token{}, err
			}
			b.WriteRune(r)
		case c == '\n' || c == '\r':
			return Token{}, l.errorf(start, "unclosed IRI")
		case c <= 0x20 || strings.IndexByte("<\"{}|^`", c) >= 0:
			return Token{}, l.errorf(l.pos, "illegal character %q in IRI", c)
		default:
			r, size := l.peekRune()
			if r == utf8.RuneError && size == 1 {
				return Token{}, l.errorf(l.pos, "invalid UTF-8 in IRI")
			}
			b.WriteRune(r)
			l.pos += size
		}
	}
}

// lexUnicodeEscape reads \uXXXX or \UXXXXXXXX with the cursor on the backslash.
func (l *Lexer) lexUnicodeEscape() (rune, error) {
	start := l.pos
	var n int
	switch l.peekByte(1) {
	case 'u':
		n = 4
	case 'U':
		n = 8
	default:
		return 0, l.errorf(start, "invalid escape sequence")
	}
	l.pos += 2
	if l.pos+n > len(l.input) {
		return 0, l.errorf(start, "incomplete Unicode escape sequence")
	}
	hex := l.input[l.pos : l.pos+n]
	for i := 0; i < n; i++ {
		if !isHexDigit(hex[i]) {
			return 0, l.errorf(start, "invalid hex digits in Unicode escape: %s", hex)
		}
	}
	cp, _ := strconv.ParseUint(hex, 16, 32)
	if cp >= 0xD800 && cp <= 0xDFFF {
		return 0, l.errorf(start, "invalid Unicode escape: surrogate code point U+%04X not allowed", cp)
	}
	if cp > utf8.MaxRune {
		return 0, l.errorf(start, "invalid Unicode escape: code point U+%X exceeds maximum U+10FFFF", cp)
	}
	l.pos += n
	return rune(cp), nil
}

// lexString reads a short or long string in either quote style.
func (l *Lexer) lexString() (Token, error) {
	start := l.pos
	quote := l.input[l.pos : l.pos+1]
	delim := quote
	if strings.HasPrefix(l.input[l.pos:], strings.Repeat(quote, 3)) {
		delim = strings.Repeat(quote, 3)
	}
	long := len(delim) == 3
	l.pos += len(delim)

	var b strings.Builder
	for {
		if l.pos >= len(l.input) {
			return Token{}, l.errorf(start, "unterminated string")
		}
		if strings.HasPrefix(l.input[l.pos:], delim) {
			l.pos += len(delim)
			break
		}
		c := l.input[l.pos]
		switch {
		case !long && (c == '\n' || c == '\r'):
			return Token{}, l.errorf(start, "unterminated string")
		case c == '\\':
			r, err := l.lexStringEscape()
			if err != nil {
				return Token{}, err
			}
			b.WriteRune(r)
		default:
			r, size := l.peekRune()
			if r == utf8.RuneError && size == 1 {
				return Token{}, l.errorf(l.pos, "invalid UTF-8 in string")
			}
			b.WriteRune(r)
			l.pos += size
		}
	}

	tok := l.token(TokenString, start, b.String())
	tok.Quote = delim
	return tok, nil
}

// lexStringEscape decodes ECHAR and UCHAR with the cursor on the backslash.
func (l *Lexer) lexStringEscape() (rune, error) {
	var r rune
	switch l.peekByte(1) {
	case 't':
		r = '\t'
	case 'b':
		r = '\b'
	case 'n':
		r = '\n'
	case 'r':
		r = '\r'
	case 'f':
		r = '\f'
	case '"':
		r = '"'
	case '\'':
		r = '\''
	case '\\':
		r = '\\'
	case 'u', 'U':
		return l.lexUnicodeEscape()
	default:
		return 0, l.errorf(l.pos, "invalid escape sequence \\%c", l.peekByte(1))
	}
	l.pos += 2
	return r, nil
}

// lexAt reads a directive keyword or a language tag.
func (l *Lexer) lexAt() (Token, error) {
	start := l.pos
	l.pos++ // skip '@'
	for l.pos < len(l.input) && isAlpha(l.input[l.pos]) {
		l.pos++
	}
	word := l.input[start+1 : l.pos]
	if word == "" {
		return Token{}, l.errorf(start, "invalid language tag")
	}
	if !l.afterString {
		switch word {
		case "prefix":
			return l.token(TokenPrefix, start, "@prefix"), nil
		case "base":
			return l.token(TokenBase, start, "@base"), nil
		}
	}
	for l.pos < len(l.input) && l.input[l.pos] == '-' {
		subStart := l.pos + 1
		end := subStart
		for end < len(l.input) && (isAlpha(l.input[end]) || isDigit(l.input[end])) {
			end++
		}
		if end == subStart {
			return Token{}, l.errorf(l.pos, "invalid language tag")
		}
		l.pos = end
	}
	return l.token(TokenLangTag, start, l.input[start+1:l.pos]), nil
}

// lexBlankNodeLabel reads _:label.
func (l *Lexer) lexBlankNodeLabel() (Token, error) {
	start := l.pos
	l.pos += 2 // skip "_:"

	r, size := l.peekRune()
	if !isPN_CHARS_U(r) && !(r >= '0' && r <= '9') {
		return Token{}, l.errorf(start, "invalid blank node label")
	}
	l.pos += size
	for l.pos < len(l.input) {
		r, size := l.peekRune()
		if !isPN_CHARS(r) && r != '.' {
			break
		}
		l.pos += size
	}
	// a label cannot end with '.'
	for l.input[l.pos-1] == '.' {
		l.pos--
	}
	return l.token(TokenBlankNodeLabel, start, l.input[start+2:l.pos]), nil
}

// lexNumber reads INTEGER, DECIMAL or DOUBLE.
func (l *Lexer) lexNumber() (Token, error) {
	start := l.pos
	if c := l.input[l.pos]; c == '+' || c == '-' {
		l.pos++
	}
	intDigits := l.skipDigits()

	fracDigits := 0
	hasDot := false
	if l.peekByte(0) == '.' {
		switch {
		case isDigit(l.peekByte(1)):
			hasDot = true
			l.pos++
			fracDigits = l.skipDigits()
		case intDigits > 0 && l.exponentAt(l.pos+1):
			hasDot = true
			l.pos++
		}
	}
	if intDigits == 0 && fracDigits == 0 {
		return Token{}, l.errorf(start, "invalid number")
	}

	kind := TokenInteger
	if hasDot {
		kind = TokenDecimal
	}
	if c := l.peekByte(0); c == 'e' || c == 'E' {
		if !l.exponentAt(l.pos) {
			return Token{}, l.errorf(start, "malformed exponent")
		}
		l.pos++
		if c := l.peekByte(0); c == '+' || c == '-' {
			l.pos++
		}
		l.skipDigits()
		kind = TokenDouble
	}
	return l.token(kind, start, l.input[start:l.pos]), nil
}

func (l *Lexer) skipDigits() int {
	n := 0
	for l.pos < len(l.input) && isDigit(l.input[l.pos]) {
		l.pos++
		n++
	}
	return n
}

// exponentAt reports whether a complete EXPONENT starts at offset i.
func (l *Lexer) exponentAt(i int) bool {
	if i >= len(l.input) || (l.input[i] != 'e' && l.input[i] != 'E') {
		return false
	}
	i++
	if i < len(l.input) && (l.input[i] == '+' || l.input[i] == '-') {
		i++
	}
	return i < len(l.input) && isDigit(l.input[i])
}

// lexName reads a prefixed name or one of the bare keywords a, true, false,
// PREFIX and BASE.
func (l *Lexer) lexName() (Token, error) {
	start := l.pos
	r, size := l.peekRune()
	if !isPN_CHARS_BASE(r) {
		return Token{}, l.errorf(start, "unexpected character %q", r)
	}
	l.pos += size
	for l.pos < len(l.input) {
		r, size := l.peekRune()
		if !isPN_CHARS(r) && r != '.' {
			break
		}
		l.pos += size
	}
	for l.input[l.pos-1] == '.' {
		l.pos--
	}
	word := l.input[start:l.pos]

	if l.peekByte(0) == ':' {
		return l.lexPrefixedName(word, start)
	}

	switch {
	case word == "a":
		return l.token(TokenA, start, word), nil
	case word == "true" || word == "false":
		return l.token(TokenBoolean, start, word), nil
	case strings.EqualFold(word, "PREFIX"):
		return l.token(TokenSPARQLPrefix, start, word), nil
	case strings.EqualFold(word, "BASE"):
		return l.token(TokenSPARQLBase, start, word), nil
	}
	return Token{}, l.errorf(start, "unexpected name %q", word)
}

// localEscapes are the characters allowed after '\' in PN_LOCAL_ESC.
const localEscapes = "_~.-!$&'()*+,;=/?#@%"

// lexPrefixedName reads the local part of a prefixed name with the cursor on
// the ':'. PN_LOCAL_ESC escapes are decoded; %HH is kept verbatim.
func (l *Lexer) lexPrefixedName(prefix string, start int) (Token, error) {
	l.pos++ // skip ':'

	var b strings.Builder
	end, endLen := l.pos, 0
	first := true
scan:
	for l.pos < len(l.input) {
		c := l.input[l.pos]
		switch {
		case c == '\\':
			next := l.peekByte(1)
			if next == 0 || strings.IndexByte(localEscapes, next) < 0 {
				return Token{}, l.errorf(l.pos, "invalid escape in local name")
			}
			b.WriteByte(next)
			l.pos += 2
		case c == '%':
			if !isHexDigit(l.peekByte(1)) || !isHexDigit(l.peekByte(2)) {
				return Token{}, l.errorf(l.pos, "invalid percent escape in local name")
			}
			b.WriteString(l.input[l.pos : l.pos+3])
			l.pos += 3
		case c == ':':
			b.WriteByte(c)
			l.pos++
		case c == '.' && !first:
			b.WriteByte(c)
			l.pos++
			first = false
			continue
		default:
			r, size := l.peekRune()
			ok := isPN_CHARS(r)
			if first {
				ok = isPN_CHARS_U(r) || (r >= '0' && r <= '9')
			}
			if !ok {
				break scan
			}
			b.WriteRune(r)
			l.pos += size
		}
		first = false
		end, endLen = l.pos, b.Len()
	}
	// a local name cannot end with an unescaped '.'
	l.pos = end

	tok := l.token(TokenPrefixedName, start, b.String()[:endLen])
	tok.Prefix = prefix
	return tok, nil
}

// isValidBlankLabel reports whether id can follow "_:" in BLANK_NODE_LABEL.
func isValidBlankLabel(id string) bool {
	if id == "" || strings.HasSuffix(id, ".") {
		return false
	}
	for i, r := range id {
		switch {
		case i == 0:
			if !isPN_CHARS_U(r) && !(r >= '0' && r <= '9') {
				return false
			}
		case !isPN_CHARS(r) && r != '.':
			return false
		}
	}
	return true
}

// isValidLangTag reports whether tag matches [a-zA-Z]+ ('-' [a-zA-Z0-9]+)*.
func isValidLangTag(tag string) bool {
	for i, sub := range strings.Split(tag, "-") {
		if sub == "" {
			return false
		}
		for j := 0; j < len(sub); j++ {
			if !isAlpha(sub[j]) && (i == 0 || !isDigit(sub[j])) {
				return false
			}
		}
	}
	return true
}

// isPN_CHARS_BASE checks if a rune is a PN_CHARS_BASE character per the Turtle grammar
func isPN_CHARS_BASE(r rune) bool {
	return (r >= 'A' && r <= 'Z') ||
		(r >= 'a' && r <= 'z') ||
		(r >= 0x00C0 && r <= 0x00D6) ||
		(r >= 0x00D8 && r <= 0x00F6) ||
		(r >= 0x00F8 && r <= 0x02FF) ||
		(r >= 0x0370 && r <= 0x037D) ||
		(r >= 0x037F && r <= 0x1FFF) ||
		(r >= 0x200C && r <= 0x200D) ||
		(r >= 0x2070 && r <= 0x218F) ||
		(r >= 0x2C00 && r <= 0x2FEF) ||
		(r >= 0x3001 && r <= 0xD7FF) ||
		(r >= 0xF900 && r <= 0xFDCF) ||
		(r >= 0xFDF0 && r <= 0xFFFD) ||
		(r >= 0x10000 && r <= 0xEFFFF)
}

// isPN_CHARS_U checks if a rune is a PN_CHARS_U character
// PN_CHARS_U ::= PN_CHARS_BASE | '_'
func isPN_CHARS_U(r rune) bool {
	return isPN_CHARS_BASE(r) || r == '_'
}

// isPN_CHARS checks if a rune is a PN_CHARS character
// PN_CHARS ::= PN_CHARS_U | '-' | [0-9] | #x00B7 | [#x0300-#x036F] | [#x203F-#x2040]
func isPN_CHARS(r rune) bool {
	return isPN_CHARS_U(r) ||
		r == '-' ||
		(r >= '0' && r <= '9') ||
		r == 0x00B7 ||
		(r >= 0x0300 && r <= 0x036F) ||
		(r >= 0x203F && r <= 0x2040)
}

func isHexDigit(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}
