package types

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/chaisql/typedjson/internal/scanner"
)

// Marshal renders v as compact text.
// If singleQuote is true, strings are wrapped in single quotes and object
// keys that are valid identifiers are written bare.
// Otherwise the output is standard JSON.
func Marshal(v Value, singleQuote bool) string {
	var sb strings.Builder
	q := byte('"')
	if singleQuote {
		q = '\''
	}
	writeValue(&sb, v, q)
	return sb.String()
}

func writeValue(sb *strings.Builder, v Value, q byte) {
	switch x := v.(type) {
	case nil, NullValue:
		sb.WriteString("null")
	case BooleanValue:
		sb.WriteString(strconv.FormatBool(bool(x)))
	case NumberValue:
		sb.WriteString(string(x))
	case TextValue:
		writeQuoted(sb, string(x), q)
	case *ArrayValue:
		sb.WriteByte('[')
		for i, e := range x.values {
			if i > 0 {
				sb.WriteByte(',')
			}
			writeValue(sb, e, q)
		}
		sb.WriteByte(']')
	case *ObjectValue:
		sb.WriteByte('{')
		for i, f := range x.fields {
			if i > 0 {
				sb.WriteByte(',')
			}
			writeKey(sb, f.Name, q)
			sb.WriteByte(':')
			writeValue(sb, f.Value, q)
		}
		sb.WriteByte('}')
	}
}

func writeKey(sb *strings.Builder, k string, q byte) {
	if q == '\'' && scanner.IsBareIdent(k) {
		sb.WriteString(k)
		return
	}
	writeQuoted(sb, k, q)
}

const hex = "0123456789abcdef"

// writeQuoted writes s between q quotes. Only q is escaped among the quotes.
func writeQuoted(sb *strings.Builder, s string, q byte) {
	sb.WriteByte(q)
	for i := 0; i < len(s); {
		c := s[i]
		if c < utf8.RuneSelf {
			switch {
			case c == q || c == '\\':
				sb.WriteByte('\\')
				sb.WriteByte(c)
			case c == '\n':
				sb.WriteString(`\n`)
			case c == '\r':
				sb.WriteString(`\r`)
			case c == '\t':
				sb.WriteString(`\t`)
			case c == '\b':
				sb.WriteString(`\b`)
			case c == '\f':
				sb.WriteString(`\f`)
			case c < 0x20 || c == 0x7f:
				sb.WriteString(`\u00`)
				sb.WriteByte(hex[c>>4])
				sb.WriteByte(hex[c&0xf])
			default:
				sb.WriteByte(c)
			}
			i++
			continue
		}

		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			sb.WriteString("\ufffd")
		} else {
			sb.WriteString(s[i : i+size])
		}
		i += size
	}
	sb.WriteByte(q)
}
