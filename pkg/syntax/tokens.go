package syntax

import (
	"strings"

	"github.com/srclight/srclight/pkg/text"
)

// QuoteOffsets locates the quote glyphs of a string-like literal token.
// All ranges are absolute document coordinates. Open covers everything up
// to and including the opening quote (prefixes like `r#` included), Close
// covers the closing quote and any trailing hashes, Contents is the text
// between the quotes.
type QuoteOffsets struct {
	Open     text.Range
	Close    text.Range
	Contents text.Range
}

func quoteOffsetsIn(literal string) (QuoteOffsets, bool) {
	left := strings.IndexByte(literal, '"')
	right := strings.LastIndexByte(literal, '"')
	if left < 0 || right < 0 || left == right {
		// fewer than two quotes, the literal is malformed
		return QuoteOffsets{}, false
	}
	return QuoteOffsets{
		Open:     text.Range{Start: 0, End: left + 1},
		Close:    text.Range{Start: right, End: len(literal)},
		Contents: text.Range{Start: left + 1, End: right},
	}, true
}

// QuoteOffsetsOf computes quote offsets for a string-like token element.
func QuoteOffsetsOf(token Element) (QuoteOffsets, bool) {
	if !token.IsToken() {
		return QuoteOffsets{}, false
	}
	offsets, ok := quoteOffsetsIn(token.TokenText())
	if !ok {
		return QuoteOffsets{}, false
	}
	start := token.Range().Start
	offsets.Open = offsets.Open.Add(start)
	offsets.Close = offsets.Close.Add(start)
	offsets.Contents = offsets.Contents.Add(start)
	return offsets, true
}

// StringValue decodes the value of an escaped string literal token. The
// second result is false when the token has no quoted contents or contains
// a malformed escape sequence.
func StringValue(token Element) (string, bool) {
	offsets, ok := QuoteOffsetsOf(token)
	if !ok {
		return "", false
	}
	local := offsets.Contents.Sub(token.Range().Start)
	return DecodeEscaped(token.TokenText()[local.Start:local.End])
}

// RawStringValue returns the verbatim contents of a raw string literal
// token. Raw literals carry no escapes, so this is an identity slice.
func RawStringValue(token Element) (string, bool) {
	offsets, ok := QuoteOffsetsOf(token)
	if !ok {
		return "", false
	}
	local := offsets.Contents.Sub(token.Range().Start)
	return token.TokenText()[local.Start:local.End], true
}

// MapRangeUp translates a range produced over the literal's decoded
// contents into the coordinate space of the document containing the
// literal. Ranges that do not fit inside the contents are rejected.
func MapRangeUp(token Element, rng text.Range) (text.Range, bool) {
	offsets, ok := QuoteOffsetsOf(token)
	if !ok {
		return text.Range{}, false
	}
	up := rng.Add(offsets.Contents.Start)
	if !offsets.Contents.ContainsRange(up) {
		return text.Range{}, false
	}
	return up, true
}

func isHexDigit(b byte) bool {
	return b >= '0' && b <= '9' || b >= 'a' && b <= 'f' || b >= 'A' && b <= 'F'
}

// DecodeEscaped processes standard escape sequences (\n \r \t \0 \\ \' \"
// \xNN \u{...}). It returns false on the first malformed escape.
func DecodeEscaped(s string) (string, bool) {
	var buf strings.Builder
	buf.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' {
			buf.WriteByte(c)
			continue
		}
		i++
		if i >= len(s) {
			return "", false
		}
		switch s[i] {
		case 'n':
			buf.WriteByte('\n')
		case 'r':
			buf.WriteByte('\r')
		case 't':
			buf.WriteByte('\t')
		case '0':
			buf.WriteByte(0)
		case '\\':
			buf.WriteByte('\\')
		case '\'':
			buf.WriteByte('\'')
		case '"':
			buf.WriteByte('"')
		case 'x':
			if i+2 >= len(s) || !isHexDigit(s[i+1]) || !isHexDigit(s[i+2]) {
				return "", false
			}
			buf.WriteByte(hexByte(s[i+1])<<4 | hexByte(s[i+2]))
			i += 2
		case 'u':
			if i+1 >= len(s) || s[i+1] != '{' {
				return "", false
			}
			end := strings.IndexByte(s[i+2:], '}')
			if end < 0 || end == 0 || end > 6 {
				return "", false
			}
			var r rune
			for _, d := range []byte(s[i+2 : i+2+end]) {
				if !isHexDigit(d) {
					return "", false
				}
				r = r<<4 | rune(hexByte(d))
			}
			if r > 0x10FFFF || (r >= 0xD800 && r <= 0xDFFF) {
				// out of range or a surrogate, which WriteRune would
				// silently turn into U+FFFD
				return "", false
			}
			buf.WriteRune(r)
			i += 2 + end
		default:
			return "", false
		}
	}
	return buf.String(), true
}

func hexByte(b byte) byte {
	switch {
	case b >= '0' && b <= '9':
		return b - '0'
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10
	default:
		return b - 'A' + 10
	}
}
