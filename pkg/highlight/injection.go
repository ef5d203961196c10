package highlight

import (
	"context"
	"strings"

	"github.com/srclight/srclight/pkg/resolve"
	"github.com/srclight/srclight/pkg/syntax"
)

// tryInjection detects a raw string literal holding embedded fixture source
// and highlights its contents with a fresh, independent pass. literal is
// the raw string token in this document; expanded is its macro-expanded
// counterpart (the same token outside macro context).
//
// Every failure is silent: the caller falls through to ordinary
// string-literal classification. The returned error is only ever a broken
// traversal invariant inside the nested pass.
func (hl *Highlighter) tryInjection(ctx context.Context, acc *[]HighlightedRange, sess resolve.Session, literal, expanded syntax.Element, depth int) (bool, error) {
	if depth >= hl.MaxInjectionDepth {
		logger(ctx).Debug().
			Int("depth", depth).
			Str("range", literal.Range().String()).
			Msg("injection depth limit reached, treating literal as plain string")
		return false, nil
	}

	callInfo := sess.Oracle().CallInfoForToken(expanded)
	if callInfo == nil {
		return false, nil
	}
	idx := callInfo.ActiveParameter
	if idx < 0 || idx >= len(callInfo.ParameterNames) {
		return false, nil
	}
	if !strings.HasPrefix(callInfo.ParameterNames[idx], hl.FixturePrefix) {
		return false, nil
	}

	value, ok := syntax.RawStringValue(literal)
	if !ok {
		return false, nil
	}

	nested, err := sess.FromSingleText(value)
	if err != nil {
		logger(ctx).Debug().Err(err).Msg("fixture text did not produce a session")
		return false, nil
	}

	offsets, hasQuotes := syntax.QuoteOffsetsOf(literal)
	if hasQuotes {
		*acc = append(*acc, HighlightedRange{
			Range:     offsets.Open,
			Highlight: NewHighlight(TagStringLiteral),
		})
	}

	var nestedRanges []HighlightedRange
	if err := hl.run(ctx, nested, nil, depth+1, &nestedRanges); err != nil {
		return false, err
	}
	for _, h := range nestedRanges {
		if mapped, ok := syntax.MapRangeUp(literal, h.Range); ok {
			h.Range = mapped
			*acc = append(*acc, h)
		}
	}

	if hasQuotes {
		*acc = append(*acc, HighlightedRange{
			Range:     offsets.Close,
			Highlight: NewHighlight(TagStringLiteral),
		})
	}
	return true, nil
}
