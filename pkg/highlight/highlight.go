/*
Package highlight is the semantic highlighting engine.

One pass is a single enter/leave preorder walk over a syntax tree:

	      Input
	        |
	        v
	 +-------------+
	 | Tree walk   |---- viewport pruning (byte range)
	 +-------------+
	        |
	  macro context?
	        |
	        v
	 +-------------+     +-------------+
	 | Classifier  |     | Injection   |
	 | (oracle)    |     | (recursive) |
	 +-------------+     +-------------+
	        |                   |
	        +---------+---------+
	                  v
	        []HighlightedRange

The engine owns no resolution logic: names are classified through the
resolve.Oracle the session provides. Local bindings get per-pass identity
hashes from the shadow tracker, and raw string literals holding fixture
source are recursively highlighted by a fresh, independent pass.
*/
package highlight

import (
	"context"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/srclight/srclight/pkg/resolve"
	"github.com/srclight/srclight/pkg/syntax"
	"github.com/srclight/srclight/pkg/text"
)

const (
	// DefaultFixturePrefix is the formal-parameter name prefix that marks
	// a raw string argument as embedded fixture source.
	DefaultFixturePrefix = "ra_fixture"

	// DefaultMaxInjectionDepth bounds recursive fixture highlighting.
	DefaultMaxInjectionDepth = 16
)

// Highlighter runs highlighting passes. The zero value is not usable; call
// New.
type Highlighter struct {
	// FixturePrefix marks fixture parameters for injection.
	FixturePrefix string

	// MaxInjectionDepth caps nested fixture passes. At the limit an
	// injection candidate degrades to a plain string literal.
	MaxInjectionDepth int
}

func New() *Highlighter {
	return &Highlighter{
		FixturePrefix:     DefaultFixturePrefix,
		MaxInjectionDepth: DefaultMaxInjectionDepth,
	}
}

// Run runs one pass with default settings. See Highlighter.Highlight.
func Run(ctx context.Context, sess resolve.Session, rng *text.Range) ([]HighlightedRange, error) {
	return New().Highlight(ctx, sess, rng)
}

// Highlight walks the session's tree and returns tagged ranges in encounter
// order. When rng is non-nil, elements outside it are skipped entirely,
// bounding cost for viewport highlighting. The only error is a broken
// macro-context invariant; every other failure mode degrades to "no
// highlight" for the element concerned.
func (hl *Highlighter) Highlight(ctx context.Context, sess resolve.Session, rng *text.Range) ([]HighlightedRange, error) {
	var res []HighlightedRange
	if err := hl.run(ctx, sess, rng, 0, &res); err != nil {
		return nil, err
	}
	return res, nil
}

func (hl *Highlighter) run(ctx context.Context, sess resolve.Session, rng *text.Range, depth int, acc *[]HighlightedRange) error {
	oracle := sess.Oracle()

	// Determine the root based on the given range.
	root := sess.Root()
	restrict := root.Range()
	if rng != nil {
		restrict = *rng
		covering := root.Tree().CoveringElement(restrict)
		if covering.IsToken() {
			if parent, ok := covering.Parent(); ok {
				covering = parent
			}
		}
		root = covering
	}

	shadow := NewShadowTracker()

	// Single-level macro tracking: one invocation at a time, hard failure
	// on a mismatched leave.
	var currentMacroCall syntax.Element
	inMacroCall := false

	return syntax.Walk(root, func(ev syntax.WalkEvent) error {
		element := ev.Element

		// Element outside of the viewport, no need to highlight.
		if !restrict.Intersects(element.Range()) {
			return nil
		}

		// Track "inside macro" state. While inside, tokens are resolved
		// through the macro's expansion before classification.
		if !element.IsToken() && element.Kind() == syntax.KindMacroCall {
			if ev.Enter {
				currentMacroCall = element
				inMacroCall = true
				if r, ok := macroCallRange(element); ok {
					*acc = append(*acc, HighlightedRange{
						Range:     r,
						Highlight: NewHighlight(TagMacro),
					})
				}
				return nil
			}
			if !inMacroCall || currentMacroCall != element {
				return errors.Errorf(
					"macro-context mismatch: leaving %s at %s while not tracking it",
					element.Kind(), element.Range(),
				)
			}
			inMacroCall = false
			currentMacroCall = syntax.Element{}
			return nil
		}

		if !ev.Enter {
			return nil
		}

		rangeToReport := element.Range()

		elementToHighlight := element
		if inMacroCall {
			// Inside a macro -- expand the token first. Only tokens that
			// are part of the invocation's argument token tree take part.
			if !element.IsToken() {
				return nil
			}
			parent, ok := element.Parent()
			if !ok || parent.Kind() != syntax.KindTokenTree {
				return nil
			}
			expanded := oracle.DescendIntoMacros(element)
			// Identifiers produced through expansion get full semantic
			// classification via their Name/NameRef parent.
			if p, ok := expanded.Parent(); ok && expanded.Kind() == syntax.KindIdent &&
				(p.Kind() == syntax.KindName || p.Kind() == syntax.KindNameRef) {
				elementToHighlight = p
			} else {
				elementToHighlight = expanded
			}
		}

		if element.IsToken() && element.Kind() == syntax.KindRawString {
			expanded := elementToHighlight
			if !expanded.IsToken() {
				expanded = element
			}
			injected, err := hl.tryInjection(ctx, acc, sess, element, expanded, depth)
			if err != nil {
				return err
			}
			if injected {
				return nil
			}
		}

		if h, hash, ok := classifyElement(oracle, shadow, elementToHighlight); ok {
			// Always report the original element's range: classification
			// may have happened on macro-expanded code, the coordinates
			// belong to this document.
			*acc = append(*acc, HighlightedRange{
				Range:       rangeToReport,
				Highlight:   h,
				BindingHash: hash,
			})
		}
		return nil
	})
}

// macroCallRange spans from the invocation path's final segment through the
// trailing `!` token.
func macroCallRange(macroCall syntax.Element) (text.Range, bool) {
	path, ok := macroCall.ChildOfKind(syntax.KindPath)
	if !ok {
		return text.Range{}, false
	}
	segment, ok := path.LastChildOfKind(syntax.KindPathSegment)
	if !ok {
		return text.Range{}, false
	}
	nameRef, ok := segment.ChildOfKind(syntax.KindNameRef)
	if !ok {
		return text.Range{}, false
	}

	start := nameRef.Range().Start
	end := nameRef.Range().End
	for sibling, ok := path.NextSibling(); ok; sibling, ok = sibling.NextSibling() {
		switch sibling.Kind() {
		case syntax.KindBang, syntax.KindIdent:
			end = sibling.Range().End
		}
	}
	return text.Range{Start: start, End: end}, true
}

// classifyElement maps one element plus oracle output to a highlight, or
// decides the element carries none.
func classifyElement(oracle resolve.Oracle, shadow *ShadowTracker, element syntax.Element) (Highlight, uint64, bool) {
	kind := element.Kind()

	switch {
	case !element.IsToken() && kind == syntax.KindFnDef:
		// Function granularity approximates lexical scoping for shadow
		// tracking.
		shadow.Clear()
		return Highlight{}, 0, false

	// Highlight definitions depending on the "type" of the definition.
	case !element.IsToken() && kind == syntax.KindName:
		nameClass := oracle.ClassifyName(element)

		var bindingHash uint64
		if nameClass != nil && nameClass.Kind == resolve.NameDefinition &&
			nameClass.Def.Kind == resolve.DefLocal && nameClass.Def.Local != nil {
			generation := shadow.Advance(nameClass.Def.Local.Name)
			bindingHash = BindingHash(nameClass.Def.Local.Name, generation)
		}

		switch {
		case nameClass == nil:
			// An unresolvable name in definition position is still being
			// defined syntactically.
			return highlightNameBySyntax(element).With(ModDefinition), bindingHash, true
		case nameClass.Kind == resolve.NameDefinition:
			return tagForDefinition(nameClass.Def).With(ModDefinition), bindingHash, true
		default: // ConstReference
			return tagForDefinition(nameClass.Def), bindingHash, true
		}

	// Highlight references like the definitions they resolve to.
	case !element.IsToken() && kind == syntax.KindNameRef:
		if insideAttribute(element) {
			// Names inside attributes are unsupported; the attribute is
			// highlighted as a whole.
			return Highlight{}, 0, false
		}
		refClass := oracle.ClassifyNameRef(element)
		if refClass == nil {
			return Highlight{}, 0, false
		}
		if refClass.Kind == resolve.RefFieldShorthand {
			return NewHighlight(TagField), 0, true
		}

		var bindingHash uint64
		if refClass.Def.Kind == resolve.DefLocal && refClass.Def.Local != nil {
			generation, _ := shadow.Current(refClass.Def.Local.Name)
			bindingHash = BindingHash(refClass.Def.Local.Name, generation)
		}
		return tagForDefinition(refClass.Def), bindingHash, true

	// Simple token-based highlighting.
	case kind == syntax.KindComment:
		return NewHighlight(TagComment), 0, true
	case kind == syntax.KindString || kind == syntax.KindRawString ||
		kind == syntax.KindByteString || kind == syntax.KindRawByteString:
		return NewHighlight(TagStringLiteral), 0, true
	case !element.IsToken() && kind == syntax.KindAttr:
		return NewHighlight(TagAttribute), 0, true
	case kind == syntax.KindIntNumber || kind == syntax.KindFloatNumber:
		return NewHighlight(TagNumericLiteral), 0, true
	case kind == syntax.KindByte:
		return NewHighlight(TagByteLiteral), 0, true
	case kind == syntax.KindChar:
		return NewHighlight(TagCharLiteral), 0, true
	case kind == syntax.KindLifetime:
		h := NewHighlight(TagLifetime)
		if parent, ok := element.Parent(); ok {
			switch parent.Kind() {
			case syntax.KindLifetimeParam, syntax.KindLabel:
				h = h.With(ModDefinition)
			}
		}
		return h, 0, true

	case kind.IsKeyword():
		h := NewHighlight(TagKeyword)
		switch kind {
		case syntax.KwBreak, syntax.KwContinue, syntax.KwElse, syntax.KwFor,
			syntax.KwIf, syntax.KwLoop, syntax.KwMatch, syntax.KwReturn,
			syntax.KwWhile:
			h = h.With(ModControlFlow)
		case syntax.KwUnsafe:
			h = h.With(ModUnsafe)
		}
		return h, 0, true

	default:
		return Highlight{}, 0, false
	}
}

// highlightNameBySyntax falls back to the structural parent when the
// oracle cannot classify a name.
func highlightNameBySyntax(name syntax.Element) Highlight {
	parent, ok := name.Parent()
	if !ok {
		return NewHighlight(TagFunction)
	}
	switch parent.Kind() {
	case syntax.KindStructDef:
		return NewHighlight(TagStruct)
	case syntax.KindEnumDef:
		return NewHighlight(TagEnum)
	case syntax.KindUnionDef:
		return NewHighlight(TagUnion)
	case syntax.KindTraitDef:
		return NewHighlight(TagTrait)
	case syntax.KindTypeAliasDef:
		return NewHighlight(TagTypeAlias)
	case syntax.KindTypeParam:
		return NewHighlight(TagTypeParam)
	case syntax.KindRecordFieldDef:
		return NewHighlight(TagField)
	default:
		return NewHighlight(TagFunction)
	}
}

func insideAttribute(element syntax.Element) bool {
	for _, ancestor := range element.Ancestors() {
		if ancestor.Kind() == syntax.KindAttr {
			return true
		}
	}
	return false
}

func logger(ctx context.Context) *zerolog.Logger {
	return zerolog.Ctx(ctx)
}
