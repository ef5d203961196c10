/*
Package rustlite is a small reference front end for a Rust-like language:
a full-fidelity lexer, an error-tolerant parser producing syntax.Tree, and
a lexical resolution oracle. It exists so the highlighting engine, its
tests and the CLI have a working producer for the external-collaborator
interfaces (parsing and name resolution are not part of the engine).
*/
package rustlite

import "github.com/srclight/srclight/pkg/syntax"

// token is one lexed token. Trivia (whitespace, comments) is kept: the
// tree must account for every input byte.
type token struct {
	kind syntax.Kind
	text string
	off  int
}

func isIdentStart(b byte) bool {
	return b == '_' || b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z'
}

func isIdentCont(b byte) bool {
	return isIdentStart(b) || b >= '0' && b <= '9'
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// multi-byte punctuation lexed as single tokens, longest first
var punct2 = []string{"::", "->", "=>", "==", "!=", "<=", ">=", "&&", "||", "+=", "-=", "*=", "/=", ".."}

func lex(src string) []token {
	var toks []token
	i := 0
	emit := func(kind syntax.Kind, end int) {
		toks = append(toks, token{kind: kind, text: src[i:end], off: i})
		i = end
	}

	for i < len(src) {
		c := src[i]

		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			j := i
			for j < len(src) && (src[j] == ' ' || src[j] == '\t' || src[j] == '\n' || src[j] == '\r') {
				j++
			}
			emit(syntax.KindWhitespace, j)

		case c == '/' && i+1 < len(src) && src[i+1] == '/':
			j := i
			for j < len(src) && src[j] != '\n' {
				j++
			}
			emit(syntax.KindComment, j)

		case c == 'r' && i+1 < len(src) && (src[i+1] == '"' || src[i+1] == '#'):
			if end, ok := scanRawString(src, i+1); ok {
				emit(syntax.KindRawString, end)
			} else {
				emit(syntax.KindIdent, i+1)
			}

		case c == 'b' && i+2 < len(src) && src[i+1] == 'r' && (src[i+2] == '"' || src[i+2] == '#'):
			if end, ok := scanRawString(src, i+2); ok {
				emit(syntax.KindRawByteString, end)
			} else {
				emit(syntax.KindIdent, i+1)
			}

		case c == 'b' && i+1 < len(src) && src[i+1] == '"':
			emit(syntax.KindByteString, scanQuoted(src, i+1, '"'))

		case c == 'b' && i+1 < len(src) && src[i+1] == '\'':
			emit(syntax.KindByte, scanQuoted(src, i+1, '\''))

		case c == '"':
			emit(syntax.KindString, scanQuoted(src, i, '"'))

		case c == '\'':
			if end, isLifetime := scanLifetimeOrChar(src, i); isLifetime {
				emit(syntax.KindLifetime, end)
			} else {
				emit(syntax.KindChar, end)
			}

		case isIdentStart(c):
			j := i
			for j < len(src) && isIdentCont(src[j]) {
				j++
			}
			word := src[i:j]
			if kw, ok := syntax.Keywords[word]; ok {
				emit(kw, j)
			} else {
				emit(syntax.KindIdent, j)
			}

		case isDigit(c):
			emit(scanNumber(src, i))

		default:
			if p2 := matchPunct2(src, i); p2 != "" {
				emit(syntax.KindPunct, i+len(p2))
			} else if c == '!' {
				emit(syntax.KindBang, i+1)
			} else {
				emit(syntax.KindPunct, i+1)
			}
		}
	}
	return toks
}

func matchPunct2(src string, i int) string {
	for _, p := range punct2 {
		if i+len(p) <= len(src) && src[i:i+len(p)] == p {
			return p
		}
	}
	return ""
}

// scanQuoted scans from the opening quote to past the closing quote,
// honoring backslash escapes. Unterminated literals run to end of input.
func scanQuoted(src string, start int, quote byte) int {
	j := start + 1
	for j < len(src) {
		switch src[j] {
		case '\\':
			j += 2
			continue
		case quote:
			return j + 1
		}
		j++
	}
	return len(src)
}

// scanRawString scans r"..." / r#"..."# starting at the character after
// the r prefix. start points at '"' or the first '#'.
func scanRawString(src string, start int) (int, bool) {
	hashes := 0
	j := start
	for j < len(src) && src[j] == '#' {
		hashes++
		j++
	}
	if j >= len(src) || src[j] != '"' {
		return 0, false
	}
	j++
	closer := `"` + repeatHash(hashes)
	for j < len(src) {
		if src[j] == '"' && j+len(closer) <= len(src) && src[j:j+len(closer)] == closer {
			return j + len(closer), true
		}
		j++
	}
	return len(src), true
}

func repeatHash(n int) string {
	out := make([]byte, n)
	for i := range out {
		out[i] = '#'
	}
	return string(out)
}

// scanLifetimeOrChar disambiguates 'a (lifetime) from 'a' (char literal)
// at an opening single quote.
func scanLifetimeOrChar(src string, start int) (end int, isLifetime bool) {
	j := start + 1
	if j < len(src) && isIdentStart(src[j]) {
		k := j
		for k < len(src) && isIdentCont(src[k]) {
			k++
		}
		if k < len(src) && src[k] == '\'' {
			return k + 1, false
		}
		return k, true
	}
	return scanQuoted(src, start, '\''), false
}

// scanNumber scans integers and floats, swallowing type suffixes
// (1_000u32, 2.5f64).
func scanNumber(src string, start int) (syntax.Kind, int) {
	j := start
	for j < len(src) && (isDigit(src[j]) || src[j] == '_') {
		j++
	}
	kind := syntax.KindIntNumber
	if j+1 < len(src) && src[j] == '.' && isDigit(src[j+1]) {
		kind = syntax.KindFloatNumber
		j++
		for j < len(src) && (isDigit(src[j]) || src[j] == '_') {
			j++
		}
	}
	for j < len(src) && isIdentCont(src[j]) {
		j++
	}
	return kind, j
}
