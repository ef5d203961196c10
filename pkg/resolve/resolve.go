// Package resolve defines the contract between the highlighting engine and
// the name-resolution subsystem. The engine consumes these interfaces; it
// never implements resolution itself.
package resolve

import (
	"github.com/srclight/srclight/pkg/syntax"
)

// DefKind is the closed set of semantic entity kinds a name can resolve to.
type DefKind int

const (
	DefMacro DefKind = iota
	DefField
	DefModule
	DefFunction
	DefStruct
	DefEnum
	DefUnion
	DefEnumVariant
	DefConst
	DefStatic
	DefTrait
	DefTypeAlias
	DefBuiltinType
	DefSelfType
	DefTypeParam
	DefLocal
)

func (k DefKind) String() string {
	switch k {
	case DefMacro:
		return "macro"
	case DefField:
		return "field"
	case DefModule:
		return "module"
	case DefFunction:
		return "function"
	case DefStruct:
		return "struct"
	case DefEnum:
		return "enum"
	case DefUnion:
		return "union"
	case DefEnumVariant:
		return "enum variant"
	case DefConst:
		return "const"
	case DefStatic:
		return "static"
	case DefTrait:
		return "trait"
	case DefTypeAlias:
		return "type alias"
	case DefBuiltinType:
		return "builtin type"
	case DefSelfType:
		return "self type"
	case DefTypeParam:
		return "type param"
	case DefLocal:
		return "local"
	default:
		return "unknown"
	}
}

// Local describes a local-variable binding. The resolver carries enough
// type information to answer mutability questions; the engine only reads.
type Local struct {
	Name string
	// Mutable is true for `let mut` style bindings.
	Mutable bool
	// RefMutable is true when the binding's type is a mutable reference.
	RefMutable bool
}

// Definition is a resolved semantic entity. Local is set exactly when Kind
// is DefLocal.
type Definition struct {
	Kind  DefKind
	Local *Local
}

type NameClassKind int

const (
	// NameDefinition: the name introduces the entity.
	NameDefinition NameClassKind = iota
	// ConstReference: the name occurs in definition position syntactically
	// but refers to an existing constant-like entity (e.g. a pattern
	// matching a constant).
	ConstReference
)

// NameClass is the resolver's verdict on a name-introducing node.
type NameClass struct {
	Kind NameClassKind
	Def  Definition
}

type NameRefClassKind int

const (
	RefDefinition NameRefClassKind = iota
	RefFieldShorthand
)

// NameRefClass is the resolver's verdict on a name-reference node.
type NameRefClass struct {
	Kind NameRefClassKind
	Def  Definition
}

// CallInfo describes the call enclosing a token. ActiveParameter is the
// zero-based index of the argument the token belongs to, or -1 when it
// cannot be determined.
type CallInfo struct {
	ActiveParameter int
	ParameterNames  []string
}

// Oracle is the external name-resolution capability the engine consumes.
// Every method may return nil (or the identity element) when the oracle
// has no answer; the engine degrades gracefully.
type Oracle interface {
	// ClassifyName classifies a name-introducing node.
	ClassifyName(name syntax.Element) *NameClass

	// ClassifyNameRef classifies a name-reference node.
	ClassifyNameRef(ref syntax.Element) *NameRefClass

	// CallInfoForToken resolves signature information for the call
	// enclosing the token.
	CallInfoForToken(token syntax.Element) *CallInfo

	// DescendIntoMacros maps a token inside a macro-argument token tree to
	// its macro-expanded counterpart. It is the identity mapping for
	// tokens outside macro context or when no expansion exists.
	DescendIntoMacros(token syntax.Element) syntax.Element
}

// Session is one isolated analysis over one immutable document snapshot.
// FromSingleText builds a fresh, fully independent session over arbitrary
// text; the engine uses it to highlight fixture source embedded in string
// literals.
type Session interface {
	Root() syntax.Element
	Oracle() Oracle
	FromSingleText(content string) (Session, error)
}
