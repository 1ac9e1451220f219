// Package parser turns tagged JSON text into a value tree.
//
// The accepted syntax is a superset of JSON: strings may be delimited by
// single or double quotes and object keys may be bare identifiers,
// like {#class:'Date',#value:'2020-01-01 10:00:00'}.
package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/chaisql/typedjson/errors"
	"github.com/chaisql/typedjson/internal/scanner"
	"github.com/chaisql/typedjson/internal/types"
)

// Parser represents a tagged JSON parser.
type Parser struct {
	s *scanner.BufScanner
}

// NewParser returns a new instance of Parser.
func NewParser(r io.Reader) *Parser {
	return &Parser{s: scanner.NewBufScanner(r)}
}

// Parse parses exactly one value from s.
func Parse(s string) (types.Value, error) {
	return NewParser(strings.NewReader(s)).Parse()
}

// MustParse calls Parse and panics if it returns an error.
func MustParse(s string) types.Value {
	v, err := Parse(s)
	if err != nil {
		panic(fmt.Sprintf("%+v", err))
	}

	return v
}

// Parse reads one value and makes sure nothing but whitespace follows it.
func (p *Parser) Parse() (types.Value, error) {
	v, err := p.ParseValue()
	if err != nil {
		return nil, err
	}

	if ti := p.ScanIgnoreWhitespace(); ti.Tok != scanner.EOF {
		return nil, newParseError(scanner.Tokstr(ti.Tok, ti.Lit), []string{"EOF"}, ti.Pos)
	}

	return v, nil
}

// ParseValue parses the next value from the underlying scanner.
func (p *Parser) ParseValue() (types.Value, error) {
	ti := p.ScanIgnoreWhitespace()
	switch ti.Tok {
	case scanner.LBRACE:
		p.Unscan()
		return p.parseObject()
	case scanner.LBRACKET:
		p.Unscan()
		return p.parseArray()
	case scanner.STRING:
		return types.NewTextValue(ti.Lit), nil
	case scanner.NUMBER:
		return types.NumberValue(ti.Lit), nil
	case scanner.TRUE:
		return types.NewBooleanValue(true), nil
	case scanner.FALSE:
		return types.NewBooleanValue(false), nil
	case scanner.NULL:
		return types.NewNullValue(), nil
	}

	return nil, badTokenError(ti, "{", "[", "STRING", "NUMBER", "true", "false", "null")
}

// parseObject parses an object in the form {key: value, ...}.
// When a key appears twice, the last value wins.
func (p *Parser) parseObject() (*types.ObjectValue, error) {
	if err := p.ParseTokens(scanner.LBRACE); err != nil {
		return nil, err
	}

	var fb types.FieldBuffer

	// empty object
	if ok, err := p.parseOptional(scanner.RBRACE); ok || err != nil {
		return types.NewObjectValue(&fb), err
	}

	for {
		key, err := p.parseKey()
		if err != nil {
			return nil, err
		}

		if err := p.ParseTokens(scanner.COLON); err != nil {
			return nil, err
		}

		v, err := p.ParseValue()
		if err != nil {
			return nil, err
		}
		fb.Add(key, v)

		ti := p.ScanIgnoreWhitespace()
		switch ti.Tok {
		case scanner.COMMA:
			continue
		case scanner.RBRACE:
			return types.NewObjectValue(&fb), nil
		}
		return nil, badTokenError(ti, ",", "}")
	}
}

// parseKey parses an object key: a quoted string or a bare identifier.
// Keywords are accepted as bare keys.
func (p *Parser) parseKey() (string, error) {
	ti := p.ScanIgnoreWhitespace()
	switch ti.Tok {
	case scanner.STRING, scanner.IDENT, scanner.TRUE, scanner.FALSE, scanner.NULL:
		return ti.Lit, nil
	}

	return "", badTokenError(ti, "STRING", "IDENT")
}

// parseArray parses an array in the form [value, ...].
func (p *Parser) parseArray() (*types.ArrayValue, error) {
	if err := p.ParseTokens(scanner.LBRACKET); err != nil {
		return nil, err
	}

	var values []types.Value

	// empty array
	if ok, err := p.parseOptional(scanner.RBRACKET); ok || err != nil {
		return types.NewArrayValue(), err
	}

	for {
		v, err := p.ParseValue()
		if err != nil {
			return nil, err
		}
		values = append(values, v)

		ti := p.ScanIgnoreWhitespace()
		switch ti.Tok {
		case scanner.COMMA:
			continue
		case scanner.RBRACKET:
			return types.NewArrayValue(values...), nil
		}
		return nil, badTokenError(ti, ",", "]")
	}
}

// Scan returns the next token from the underlying scanner.
func (p *Parser) Scan() scanner.TokenInfo { return p.s.Scan() }

// ScanIgnoreWhitespace scans the next non-whitespace token.
func (p *Parser) ScanIgnoreWhitespace() scanner.TokenInfo {
	for {
		ti := p.Scan()
		if ti.Tok == scanner.WS {
			continue
		}
		return ti
	}
}

// Unscan pushes the previously read token back onto the buffer.
func (p *Parser) Unscan() {
	p.s.Unscan()
}

// ParseTokens parses all the given tokens one after the other.
// It returns an error if one of the token is missing.
func (p *Parser) ParseTokens(tokens ...scanner.Token) error {
	for _, t := range tokens {
		if ti := p.ScanIgnoreWhitespace(); ti.Tok != t {
			return badTokenError(ti, t.String())
		}
	}

	return nil
}

// parseOptional parses a token. If it is not present, it unscans and return false.
func (p *Parser) parseOptional(tok scanner.Token) (bool, error) {
	if ti := p.ScanIgnoreWhitespace(); ti.Tok != tok {
		if ti.Tok == scanner.BADSTRING || ti.Tok == scanner.BADESCAPE || ti.Tok == scanner.BADNUMBER {
			return false, badTokenError(ti)
		}
		p.Unscan()
		return false, nil
	}

	return true, nil
}

// badTokenError builds the error returned when an unexpected token is read.
// Malformed literals get a dedicated message.
func badTokenError(ti scanner.TokenInfo, expected ...string) error {
	switch ti.Tok {
	case scanner.BADSTRING:
		return errors.WithStack(&ParseError{Message: "unterminated string", Found: ti.Lit, Pos: ti.Pos})
	case scanner.BADESCAPE:
		return errors.WithStack(&ParseError{Message: fmt.Sprintf("bad escape sequence %s", ti.Lit), Found: ti.Lit, Pos: ti.Pos})
	case scanner.BADNUMBER:
		return errors.WithStack(&ParseError{Message: fmt.Sprintf("invalid number %q", ti.Lit), Found: ti.Lit, Pos: ti.Pos})
	case scanner.EOF:
		return errors.WithStack(&ParseError{Message: "unexpected end of input", Found: "EOF", Expected: expected, Pos: ti.Pos})
	}

	return newParseError(scanner.Tokstr(ti.Tok, ti.Lit), expected, ti.Pos)
}

// ParseError represents an error that occurred during parsing.
type ParseError struct {
	Message  string
	Found    string
	Expected []string
	Pos      scanner.Pos
}

// newParseError returns a new instance of ParseError.
func newParseError(found string, expected []string, pos scanner.Pos) error {
	return errors.WithStack(&ParseError{Found: found, Expected: expected, Pos: pos})
}

// Error returns the string representation of the error.
func (e *ParseError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s at line %d, char %d", e.Message, e.Pos.Line+1, e.Pos.Char+1)
	}
	return fmt.Sprintf("found %s, expected %s at line %d, char %d", e.Found, strings.Join(e.Expected, ", "), e.Pos.Line+1, e.Pos.Char+1)
}

// Offset returns the byte offset of the offending token.
func (e *ParseError) Offset() int {
	return e.Pos.Offset
}
