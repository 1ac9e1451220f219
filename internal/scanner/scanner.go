package scanner

import (
	"bufio"
	"bytes"
	"io"
	"strings"
	"unicode/utf16"
)

// Scanner represents a lexical scanner for tagged JSON.
// It accepts single and double quoted strings and bare identifiers.
type Scanner struct {
	r *reader
}

// NewScanner returns a new instance of Scanner.
func NewScanner(r io.Reader) *Scanner {
	rs, ok := r.(io.RuneScanner)
	if !ok {
		rs = bufio.NewReaderSize(r, 128)
	}
	return &Scanner{r: &reader{r: rs}}
}

// Scan returns the next token and position from the underlying reader.
// Also returns the literal text read for strings, numbers and identifiers.
func (s *Scanner) Scan() TokenInfo {
	ch0, pos := s.r.read()

	if isWhitespace(ch0) {
		return s.scanWhitespace()
	} else if IsIdentFirstChar(ch0) {
		s.r.unread()
		return s.scanIdent()
	} else if isDigit(ch0) || ch0 == '-' {
		s.r.unread()
		return s.scanNumber()
	}

	switch ch0 {
	case eof:
		return TokenInfo{EOF, pos, ""}
	case '"', '\'':
		return s.scanString()
	case '{':
		return TokenInfo{LBRACE, pos, ""}
	case '}':
		return TokenInfo{RBRACE, pos, ""}
	case '[':
		return TokenInfo{LBRACKET, pos, ""}
	case ']':
		return TokenInfo{RBRACKET, pos, ""}
	case ':':
		return TokenInfo{COLON, pos, ""}
	case ',':
		return TokenInfo{COMMA, pos, ""}
	}

	return TokenInfo{ILLEGAL, pos, string(ch0)}
}

// IsNumber reports whether s holds a single number literal and nothing else.
func IsNumber(s string) bool {
	sc := NewScanner(strings.NewReader(s))
	if ti := sc.Scan(); ti.Tok != NUMBER {
		return false
	}
	return sc.Scan().Tok == EOF
}

// scanWhitespace consumes the current rune and all contiguous whitespace.
func (s *Scanner) scanWhitespace() TokenInfo {
	var buf bytes.Buffer
	ch, pos := s.r.curr()
	_, _ = buf.WriteRune(ch)

	for {
		ch, _ = s.r.read()
		if ch == eof {
			break
		} else if !isWhitespace(ch) {
			s.r.unread()
			break
		} else {
			_, _ = buf.WriteRune(ch)
		}
	}

	return TokenInfo{WS, pos, buf.String()}
}

func (s *Scanner) scanIdent() TokenInfo {
	_, pos := s.r.read()
	s.r.unread()

	var buf bytes.Buffer
	for {
		ch, _ := s.r.read()
		if ch == eof {
			break
		}
		if !isIdentChar(ch) {
			s.r.unread()
			break
		}
		_, _ = buf.WriteRune(ch)
	}
	lit := buf.String()

	if tok := Lookup(lit); tok != IDENT {
		return TokenInfo{tok, pos, lit}
	}
	return TokenInfo{IDENT, pos, lit}
}

// scanString consumes a quoted string. The opening quote decides
// which quote closes it.
func (s *Scanner) scanString() TokenInfo {
	quote, pos := s.r.curr()

	var buf bytes.Buffer
	for {
		ch0, epos := s.r.read()
		switch {
		case ch0 == quote:
			return TokenInfo{STRING, pos, buf.String()}
		case ch0 == eof || ch0 == '\n':
			return TokenInfo{BADSTRING, pos, buf.String()}
		case ch0 == '\\':
			ch1, _ := s.r.read()
			switch ch1 {
			case '"', '\'', '\\', '/':
				_, _ = buf.WriteRune(ch1)
			case 'b':
				_ = buf.WriteByte('\b')
			case 'f':
				_ = buf.WriteByte('\f')
			case 'n':
				_ = buf.WriteByte('\n')
			case 'r':
				_ = buf.WriteByte('\r')
			case 't':
				_ = buf.WriteByte('\t')
			case 'u':
				r, ok := s.scanUnicodeEscape()
				if !ok {
					return TokenInfo{BADESCAPE, epos, `\u`}
				}
				_, _ = buf.WriteRune(r)
			case eof:
				return TokenInfo{BADSTRING, pos, buf.String()}
			default:
				return TokenInfo{BADESCAPE, epos, string(ch0) + string(ch1)}
			}
		default:
			_, _ = buf.WriteRune(ch0)
		}
	}
}

// scanUnicodeEscape reads the four hex digits following \u.
// Surrogate pairs written as two escapes are combined.
func (s *Scanner) scanUnicodeEscape() (rune, bool) {
	r, ok := s.scanHex4()
	if !ok {
		return 0, false
	}
	if !utf16.IsSurrogate(r) {
		return r, true
	}

	ch0, _ := s.r.read()
	if ch0 != '\\' {
		s.r.unread()
		return 0xFFFD, true
	}
	ch1, _ := s.r.read()
	if ch1 != 'u' {
		// only two runes can be unread, the escape will be read as is
		s.r.unread()
		s.r.unread()
		return 0xFFFD, true
	}
	r2, ok := s.scanHex4()
	if !ok {
		return 0, false
	}
	return utf16.DecodeRune(r, r2), true
}

func (s *Scanner) scanHex4() (rune, bool) {
	var r rune
	for i := 0; i < 4; i++ {
		ch, _ := s.r.read()
		switch {
		case ch >= '0' && ch <= '9':
			r = r<<4 | (ch - '0')
		case ch >= 'a' && ch <= 'f':
			r = r<<4 | (ch - 'a' + 10)
		case ch >= 'A' && ch <= 'F':
			r = r<<4 | (ch - 'A' + 10)
		default:
			return 0, false
		}
	}
	return r, true
}

// scanNumber consumes a number following the JSON grammar.
// The literal is returned untouched.
func (s *Scanner) scanNumber() TokenInfo {
	var buf bytes.Buffer

	ch, pos := s.r.read()
	if ch == '-' {
		_, _ = buf.WriteRune(ch)
		ch, _ = s.r.read()
	}

	switch {
	case ch == '0':
		_, _ = buf.WriteRune(ch)
	case isDigit(ch):
		_, _ = buf.WriteRune(ch)
		_, _ = buf.WriteString(s.scanDigits())
	default:
		s.r.unread()
		return TokenInfo{BADNUMBER, pos, buf.String()}
	}

	// fraction
	if ch0, _ := s.r.read(); ch0 == '.' {
		_, _ = buf.WriteRune(ch0)
		digits := s.scanDigits()
		if digits == "" {
			return s.badNumber(&buf, pos)
		}
		_, _ = buf.WriteString(digits)
	} else {
		s.r.unread()
	}

	// exponent
	if ch0, _ := s.r.read(); ch0 == 'e' || ch0 == 'E' {
		_, _ = buf.WriteRune(ch0)
		if ch1, _ := s.r.read(); ch1 == '+' || ch1 == '-' {
			_, _ = buf.WriteRune(ch1)
		} else {
			s.r.unread()
		}
		digits := s.scanDigits()
		if digits == "" {
			return s.badNumber(&buf, pos)
		}
		_, _ = buf.WriteString(digits)
	} else {
		s.r.unread()
	}

	// a number must not be glued to other identifier characters, e.g. 01 or 12abc
	if ch0, _ := s.r.read(); isIdentChar(ch0) {
		_, _ = buf.WriteRune(ch0)
		return s.badNumber(&buf, pos)
	}
	s.r.unread()

	return TokenInfo{NUMBER, pos, buf.String()}
}

// badNumber consumes the rest of a malformed number.
func (s *Scanner) badNumber(buf *bytes.Buffer, pos Pos) TokenInfo {
	for {
		ch, _ := s.r.read()
		if !isIdentChar(ch) && ch != '.' && ch != '+' && ch != '-' {
			s.r.unread()
			break
		}
		_, _ = buf.WriteRune(ch)
	}
	return TokenInfo{BADNUMBER, pos, buf.String()}
}

// scanDigits consumes a contiguous series of digits.
func (s *Scanner) scanDigits() string {
	var buf bytes.Buffer
	for {
		ch, _ := s.r.read()
		if !isDigit(ch) {
			s.r.unread()
			break
		}
		_, _ = buf.WriteRune(ch)
	}
	return buf.String()
}

// isWhitespace returns true if the rune is a space, tab, or newline.
func isWhitespace(ch rune) bool { return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' }

// isLetter returns true if the rune is an ASCII letter.
func isLetter(ch rune) bool { return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') }

// isDigit returns true if the rune is a digit.
func isDigit(ch rune) bool { return (ch >= '0' && ch <= '9') }

// IsIdentFirstChar returns true if the rune can start a bare identifier.
func IsIdentFirstChar(ch rune) bool {
	return isLetter(ch) || ch == '_' || ch == '$' || ch == '#'
}

// isIdentChar returns true if the rune can be used in a bare identifier.
func isIdentChar(ch rune) bool {
	return IsIdentFirstChar(ch) || isDigit(ch) || ch == '.'
}

// IsBareIdent reports whether s can be written as an object key without quotes
// and be read back as the same key.
func IsBareIdent(s string) bool {
	if s == "" || Lookup(s) != IDENT {
		return false
	}

	for i, ch := range s {
		if i == 0 {
			if !IsIdentFirstChar(ch) {
				return false
			}
			continue
		}
		if !isIdentChar(ch) {
			return false
		}
	}

	return true
}

// ScanString scans a single quoted or double quoted string from s and
// returns its unescaped content.
func ScanString(s string) (string, bool) {
	ti := NewScanner(strings.NewReader(s)).Scan()
	return ti.Lit, ti.Tok == STRING
}

// BufScanner represents a wrapper for scanner to add a buffer.
// It provides a fixed-length circular buffer that can be unread.
type BufScanner struct {
	s   *Scanner
	i   int // buffer index
	n   int // buffer size
	buf [3]TokenInfo
}

// NewBufScanner returns a new buffered scanner for a reader.
func NewBufScanner(r io.Reader) *BufScanner {
	return &BufScanner{s: NewScanner(r)}
}

// Scan reads the next token from the scanner.
func (s *BufScanner) Scan() TokenInfo {
	if s.n > 0 {
		s.n--
		return s.curr()
	}

	s.i = (s.i + 1) % len(s.buf)
	s.buf[s.i] = s.s.Scan()

	return s.curr()
}

// Unscan pushes the previously read token back onto the buffer.
func (s *BufScanner) Unscan() { s.n++ }

// curr returns the last read token.
func (s *BufScanner) curr() TokenInfo {
	return s.buf[(s.i-s.n+len(s.buf))%len(s.buf)]
}

// reader represents a buffered rune reader used by the scanner.
// It provides a fixed-length circular buffer that can be unread.
type reader struct {
	r   io.RuneScanner
	i   int // buffer index
	n   int // buffer char count
	pos Pos // last read rune position
	buf [3]struct {
		ch  rune
		pos Pos
	}
	eof bool // true if reader has ever seen eof.
}

// read reads the next rune from the reader.
func (r *reader) read() (ch rune, pos Pos) {
	// If we have unread characters then read them off the buffer first.
	if r.n > 0 {
		r.n--
		return r.curr()
	}

	// Any error (including io.EOF) should return as EOF.
	ch, size, err := r.r.ReadRune()
	if err != nil {
		ch = eof
		size = 0
	}

	r.i = (r.i + 1) % len(r.buf)
	buf := &r.buf[r.i]
	buf.ch, buf.pos = ch, r.pos

	// Only count EOF once.
	r.pos.Offset += size
	if ch == '\n' {
		r.pos.Line++
		r.pos.Char = 0
	} else if !r.eof {
		r.pos.Char++
	}

	if ch == eof {
		r.eof = true
	}

	return r.curr()
}

// unread pushes the previously read rune back onto the buffer.
func (r *reader) unread() {
	r.n++
}

// curr returns the last read character and position.
func (r *reader) curr() (ch rune, pos Pos) {
	i := (r.i - r.n + len(r.buf)) % len(r.buf)
	buf := &r.buf[i]
	return buf.ch, buf.pos
}

// eof is a marker code point to signify that the reader can't read any more.
const eof = rune(-1)
