package scanner

import (
	"strconv"
)

// Token is a lexical token of the tagged JSON dialect.
type Token int

// These are a comprehensive list of tokens.
const (
	// ILLEGAL Token, EOF, WS are special tokens.
	ILLEGAL Token = iota
	EOF
	WS

	literalBeg
	IDENT     // main
	NUMBER    // -12.5e3
	STRING    // "abc" or 'abc'
	BADSTRING // "abc
	BADESCAPE // \q
	BADNUMBER // 01, 1., -
	TRUE      // true
	FALSE     // false
	NULL      // null
	literalEnd

	LBRACE   // {
	RBRACE   // }
	LBRACKET // [
	RBRACKET // ]
	COLON    // :
	COMMA    // ,
)

var tokens = [...]string{
	ILLEGAL: "ILLEGAL",
	EOF:     "EOF",
	WS:      "WS",

	IDENT:     "IDENT",
	NUMBER:    "NUMBER",
	STRING:    "STRING",
	BADSTRING: "BADSTRING",
	BADESCAPE: "BADESCAPE",
	BADNUMBER: "BADNUMBER",
	TRUE:      "true",
	FALSE:     "false",
	NULL:      "null",

	LBRACE:   "{",
	RBRACE:   "}",
	LBRACKET: "[",
	RBRACKET: "]",
	COLON:    ":",
	COMMA:    ",",
}

var keywords = map[string]Token{
	"true":  TRUE,
	"false": FALSE,
	"null":  NULL,
}

// String returns the string representation of the token.
func (tok Token) String() string {
	if tok >= 0 && tok < Token(len(tokens)) {
		return tokens[tok]
	}
	return "token(" + strconv.Itoa(int(tok)) + ")"
}

// IsLiteral returns true for literal tokens.
func (tok Token) IsLiteral() bool { return tok > literalBeg && tok < literalEnd }

// Tokstr returns a literal if provided, otherwise returns the token string.
func Tokstr(tok Token, lit string) string {
	if lit != "" {
		return lit
	}
	return tok.String()
}

// Lookup returns the token associated with a given identifier.
// Keywords are case sensitive.
func Lookup(ident string) Token {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// Pos specifies the position of a token.
// Line and Char are zero-based, Offset is the byte offset in the input.
type Pos struct {
	Offset int
	Line   int
	Char   int
}

// TokenInfo holds information about a token.
type TokenInfo struct {
	Tok Token
	Pos Pos
	Lit string
}
