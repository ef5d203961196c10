package highlight

import (
	"fmt"
	"strings"
)

// RenderOptions controls HTML rendering.
type RenderOptions struct {
	// Rainbow colors local-variable spans by binding hash, so every
	// occurrence of one binding shares a hue.
	Rainbow bool
}

// RenderHTML wraps highlighted ranges of source in <pre>/<span> markup.
// Span classes are tag and modifier names; no colors are emitted unless
// Rainbow is set, keeping the theme a client concern. When ranges nest
// (a macro call range containing its expanded contents), the innermost
// range wins for each byte.
func RenderHTML(source string, ranges []HighlightedRange, opts RenderOptions) string {
	// Ranges arrive in encounter order: containers before their contents.
	// Later writes therefore override outer ranges byte by byte.
	owner := make([]int, len(source))
	for i := range owner {
		owner[i] = -1
	}
	for i, r := range ranges {
		start := max(r.Range.Start, 0)
		end := min(r.Range.End, len(source))
		for b := start; b < end; b++ {
			owner[b] = i
		}
	}

	var buf strings.Builder
	buf.WriteString("<pre><code>")
	for i := 0; i < len(source); {
		j := i
		for j < len(source) && owner[j] == owner[i] {
			j++
		}
		chunk := escapeHTML(source[i:j])
		if owner[i] < 0 {
			buf.WriteString(chunk)
		} else {
			r := ranges[owner[i]]
			buf.WriteString(`<span class="`)
			buf.WriteString(cssClass(r.Highlight))
			buf.WriteString(`"`)
			if opts.Rainbow && r.BindingHash != 0 {
				fmt.Fprintf(&buf, ` data-binding-hash="%d" style="color: hsl(%d,%d%%,%d%%);"`,
					r.BindingHash, rainbowHue(r.BindingHash), 85, 75)
			}
			buf.WriteString(">")
			buf.WriteString(chunk)
			buf.WriteString("</span>")
		}
		i = j
	}
	buf.WriteString("</code></pre>")
	return buf.String()
}

func cssClass(h Highlight) string {
	if h.Mods == 0 {
		return h.Tag.String()
	}
	return h.Tag.String() + " " + strings.ReplaceAll(h.Mods.String(), ".", " ")
}

func rainbowHue(hash uint64) int {
	return int(hash % 360)
}

func escapeHTML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}
