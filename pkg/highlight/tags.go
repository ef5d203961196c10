package highlight

import (
	"strings"

	"github.com/srclight/srclight/pkg/resolve"
	"github.com/srclight/srclight/pkg/text"
)

// Tag is the closed set of semantic categories a highlighted element can
// carry. Clients map tags to colors; the engine never emits a color.
type Tag uint8

const (
	TagKeyword Tag = iota
	TagComment
	TagStringLiteral
	TagNumericLiteral
	TagByteLiteral
	TagCharLiteral
	TagAttribute
	TagLifetime
	TagMacro
	TagField
	TagModule
	TagFunction
	TagStruct
	TagEnum
	TagUnion
	TagEnumVariant
	TagConstant
	TagStatic
	TagTrait
	TagTypeAlias
	TagBuiltinType
	TagSelfType
	TagTypeParam
	TagLocal
)

var tagNames = [...]string{
	TagKeyword:        "keyword",
	TagComment:        "comment",
	TagStringLiteral:  "string_literal",
	TagNumericLiteral: "numeric_literal",
	TagByteLiteral:    "byte_literal",
	TagCharLiteral:    "char_literal",
	TagAttribute:      "attribute",
	TagLifetime:       "lifetime",
	TagMacro:          "macro",
	TagField:          "field",
	TagModule:         "module",
	TagFunction:       "function",
	TagStruct:         "struct",
	TagEnum:           "enum",
	TagUnion:          "union",
	TagEnumVariant:    "enum_variant",
	TagConstant:       "constant",
	TagStatic:         "static",
	TagTrait:          "trait",
	TagTypeAlias:      "type_alias",
	TagBuiltinType:    "builtin_type",
	TagSelfType:       "self_type",
	TagTypeParam:      "type_param",
	TagLocal:          "variable",
}

func (t Tag) String() string {
	if int(t) < len(tagNames) {
		return tagNames[t]
	}
	return "unknown"
}

// Modifier is an orthogonal boolean trait of a highlighted element.
// Modifiers combine as a bitset.
type Modifier uint8

const (
	ModDefinition Modifier = 1 << iota
	ModMutable
	ModControlFlow
	ModUnsafe
)

func (m Modifier) Has(flag Modifier) bool {
	return m&flag != 0
}

func (m Modifier) String() string {
	var parts []string
	if m.Has(ModDefinition) {
		parts = append(parts, "definition")
	}
	if m.Has(ModMutable) {
		parts = append(parts, "mutable")
	}
	if m.Has(ModControlFlow) {
		parts = append(parts, "control")
	}
	if m.Has(ModUnsafe) {
		parts = append(parts, "unsafe")
	}
	return strings.Join(parts, ".")
}

// Highlight is a tag plus a modifier set. Tag and modifiers combine
// independently: Local+Mutable, Keyword+ControlFlow and so on.
type Highlight struct {
	Tag  Tag
	Mods Modifier
}

// NewHighlight wraps a bare tag with no modifiers.
func NewHighlight(tag Tag) Highlight {
	return Highlight{Tag: tag}
}

// With returns a copy of the highlight with the modifier added.
func (h Highlight) With(m Modifier) Highlight {
	h.Mods |= m
	return h
}

func (h Highlight) String() string {
	if h.Mods == 0 {
		return h.Tag.String()
	}
	return h.Tag.String() + "." + h.Mods.String()
}

// HighlightedRange tags one byte range of the source. BindingHash is
// non-zero only for local-variable name occurrences; every occurrence of
// one conceptual binding shares the same hash within one pass.
type HighlightedRange struct {
	Range       text.Range
	Highlight   Highlight
	BindingHash uint64
}

// tagForDefinition maps a resolved entity kind to its highlight. Local
// bindings additionally pick up the Mutable modifier.
func tagForDefinition(def resolve.Definition) Highlight {
	switch def.Kind {
	case resolve.DefMacro:
		return NewHighlight(TagMacro)
	case resolve.DefField:
		return NewHighlight(TagField)
	case resolve.DefModule:
		return NewHighlight(TagModule)
	case resolve.DefFunction:
		return NewHighlight(TagFunction)
	case resolve.DefStruct:
		return NewHighlight(TagStruct)
	case resolve.DefEnum:
		return NewHighlight(TagEnum)
	case resolve.DefUnion:
		return NewHighlight(TagUnion)
	case resolve.DefEnumVariant:
		return NewHighlight(TagEnumVariant)
	case resolve.DefConst:
		return NewHighlight(TagConstant)
	case resolve.DefStatic:
		return NewHighlight(TagStatic)
	case resolve.DefTrait:
		return NewHighlight(TagTrait)
	case resolve.DefTypeAlias:
		return NewHighlight(TagTypeAlias)
	case resolve.DefBuiltinType:
		return NewHighlight(TagBuiltinType)
	case resolve.DefSelfType:
		return NewHighlight(TagSelfType)
	case resolve.DefTypeParam:
		return NewHighlight(TagTypeParam)
	case resolve.DefLocal:
		h := NewHighlight(TagLocal)
		if loc := def.Local; loc != nil && (loc.Mutable || loc.RefMutable) {
			h = h.With(ModMutable)
		}
		return h
	default:
		return NewHighlight(TagFunction)
	}
}
