package rustlite

import (
	"github.com/srclight/srclight/pkg/resolve"
	"github.com/srclight/srclight/pkg/syntax"
)

// oracle resolves names lexically over one rustlite tree. Resolution is a
// deliberately shallow approximation: nearest preceding binding in
// enclosing blocks, then file-level items. Good enough to drive the
// highlighting engine; not a type checker.
type oracle struct {
	tree *syntax.Tree
}

var builtinTypes = map[string]bool{
	"u8": true, "u16": true, "u32": true, "u64": true, "u128": true,
	"i8": true, "i16": true, "i32": true, "i64": true, "i128": true,
	"usize": true, "isize": true, "f32": true, "f64": true,
	"bool": true, "char": true, "str": true,
}

var itemDefKinds = map[syntax.Kind]resolve.DefKind{
	syntax.KindFnDef:          resolve.DefFunction,
	syntax.KindStructDef:      resolve.DefStruct,
	syntax.KindEnumDef:        resolve.DefEnum,
	syntax.KindEnumVariantDef: resolve.DefEnumVariant,
	syntax.KindUnionDef:       resolve.DefUnion,
	syntax.KindTraitDef:       resolve.DefTrait,
	syntax.KindTypeAliasDef:   resolve.DefTypeAlias,
	syntax.KindConstDef:       resolve.DefConst,
	syntax.KindStaticDef:      resolve.DefStatic,
	syntax.KindModule:         resolve.DefModule,
	syntax.KindRecordFieldDef: resolve.DefField,
	syntax.KindTypeParam:      resolve.DefTypeParam,
}

// identText returns the identifier text of a Name or NameRef node.
func identText(el syntax.Element) string {
	for _, c := range el.Children() {
		if c.IsToken() && (c.Kind() == syntax.KindIdent || c.Kind() == syntax.KwSelfValue) {
			return c.TokenText()
		}
	}
	return ""
}

func hasTokenChild(el syntax.Element, kind syntax.Kind) bool {
	for _, c := range el.Children() {
		if c.IsToken() && c.Kind() == kind {
			return true
		}
	}
	return false
}

func (o *oracle) ClassifyName(name syntax.Element) *resolve.NameClass {
	parent, ok := name.Parent()
	if !ok || name.Kind() != syntax.KindName {
		return nil
	}

	if parent.Kind() == syntax.KindBindPat {
		// A pattern name that matches a constant-like item refers to it
		// instead of binding.
		if gp, ok := parent.Parent(); ok && gp.Kind() == syntax.KindMatchArm {
			if def := o.fileItemDef(identText(name)); def != nil && isConstLike(def.Kind) {
				return &resolve.NameClass{Kind: resolve.ConstReference, Def: *def}
			}
		}
		return &resolve.NameClass{
			Kind: resolve.NameDefinition,
			Def:  localDefinition(parent, identText(name)),
		}
	}

	if kind, ok := itemDefKinds[parent.Kind()]; ok {
		return &resolve.NameClass{Kind: resolve.NameDefinition, Def: resolve.Definition{Kind: kind}}
	}
	return nil
}

func (o *oracle) ClassifyNameRef(ref syntax.Element) *resolve.NameRefClass {
	if ref.Kind() != syntax.KindNameRef {
		return nil
	}
	text := identText(ref)
	if text == "" {
		return nil
	}

	if parent, ok := ref.Parent(); ok && parent.Kind() == syntax.KindRecordFieldLit {
		if first, ok := parent.ChildOfKind(syntax.KindNameRef); ok && first == ref {
			if !hasPunctChild(parent, ":") {
				return &resolve.NameRefClass{
					Kind: resolve.RefFieldShorthand,
					Def:  resolve.Definition{Kind: resolve.DefField},
				}
			}
			return &resolve.NameRefClass{
				Kind: resolve.RefDefinition,
				Def:  resolve.Definition{Kind: resolve.DefField},
			}
		}
	}

	if def := o.resolveLocal(ref, text); def != nil {
		return &resolve.NameRefClass{Kind: resolve.RefDefinition, Def: *def}
	}

	if text == "Self" {
		return &resolve.NameRefClass{
			Kind: resolve.RefDefinition,
			Def:  resolve.Definition{Kind: resolve.DefSelfType},
		}
	}
	if builtinTypes[text] {
		return &resolve.NameRefClass{
			Kind: resolve.RefDefinition,
			Def:  resolve.Definition{Kind: resolve.DefBuiltinType},
		}
	}
	if def := o.typeParamDef(ref, text); def != nil {
		return &resolve.NameRefClass{Kind: resolve.RefDefinition, Def: *def}
	}
	if def := o.fileItemDef(text); def != nil {
		return &resolve.NameRefClass{Kind: resolve.RefDefinition, Def: *def}
	}
	return nil
}

func (o *oracle) CallInfoForToken(token syntax.Element) *resolve.CallInfo {
	var argList syntax.Element
	found := false
	for _, a := range token.Ancestors() {
		if a.Kind() == syntax.KindArgList {
			argList = a
			found = true
			break
		}
	}
	if !found {
		return nil
	}
	callExpr, ok := argList.Parent()
	if !ok || callExpr.Kind() != syntax.KindCallExpr {
		return nil
	}

	active := 0
	for _, c := range argList.Children() {
		if c.IsToken() && c.Kind() == syntax.KindPunct && c.TokenText() == "," &&
			c.Range().End <= token.Range().Start {
			active++
		}
	}

	pathExpr, ok := callExpr.ChildOfKind(syntax.KindPathExpr)
	if !ok {
		return nil
	}
	callee := lastSegmentText(pathExpr)
	if callee == "" {
		return nil
	}

	fn, ok := o.findItem(syntax.KindFnDef, callee)
	if !ok {
		return nil
	}
	paramList, ok := fn.ChildOfKind(syntax.KindParamList)
	if !ok {
		return nil
	}
	var names []string
	for _, param := range paramList.Children() {
		if param.Kind() != syntax.KindParam {
			continue
		}
		if bp, ok := param.ChildOfKind(syntax.KindBindPat); ok {
			if nm, ok := bp.ChildOfKind(syntax.KindName); ok {
				names = append(names, identText(nm))
			}
		}
	}
	return &resolve.CallInfo{ActiveParameter: active, ParameterNames: names}
}

// DescendIntoMacros is the identity mapping: rustlite performs no macro
// expansion, so tokens inside invocation argument trees classify at token
// level only.
func (o *oracle) DescendIntoMacros(token syntax.Element) syntax.Element {
	return token
}

// ---- helpers ----

func isConstLike(kind resolve.DefKind) bool {
	switch kind {
	case resolve.DefConst, resolve.DefStatic, resolve.DefEnumVariant:
		return true
	}
	return false
}

func hasPunctChild(el syntax.Element, text string) bool {
	for _, c := range el.Children() {
		if c.IsToken() && c.Kind() == syntax.KindPunct && c.TokenText() == text {
			return true
		}
	}
	return false
}

func lastSegmentText(pathExpr syntax.Element) string {
	path, ok := pathExpr.ChildOfKind(syntax.KindPath)
	if !ok {
		return ""
	}
	seg, ok := path.LastChildOfKind(syntax.KindPathSegment)
	if !ok {
		return ""
	}
	nr, ok := seg.ChildOfKind(syntax.KindNameRef)
	if !ok {
		return ""
	}
	return identText(nr)
}

// localDefinition builds the Local for a binding pattern, reading `mut`
// off the pattern and mutable-reference-ness off the declared type or
// initializer.
func localDefinition(bindPat syntax.Element, name string) resolve.Definition {
	loc := &resolve.Local{
		Name:    name,
		Mutable: hasTokenChild(bindPat, syntax.KwMut),
	}
	if parent, ok := bindPat.Parent(); ok {
		for _, sibling := range parent.Children() {
			switch sibling.Kind() {
			case syntax.KindRefType, syntax.KindRefExpr:
				if hasTokenChild(sibling, syntax.KwMut) {
					loc.RefMutable = true
				}
			}
		}
	}
	return resolve.Definition{Kind: resolve.DefLocal, Local: loc}
}

// resolveLocal finds the binding a reference resolves to: the nearest
// preceding let in enclosing blocks, then for/match bindings, then
// function parameters. Resolution never crosses a function boundary.
func (o *oracle) resolveLocal(ref syntax.Element, text string) *resolve.Definition {
	refRange := ref.Range()
	for _, ancestor := range ref.Ancestors() {
		switch ancestor.Kind() {
		case syntax.KindBlockExpr:
			var best syntax.Element
			bestOK := false
			for _, stmt := range ancestor.Children() {
				if stmt.Kind() != syntax.KindLetStmt {
					continue
				}
				if stmt.Range().ContainsRange(refRange) {
					// the let currently being initialized does not see
					// its own binding
					continue
				}
				if stmt.Range().Start >= refRange.Start {
					break
				}
				if bp, ok := stmt.ChildOfKind(syntax.KindBindPat); ok {
					if nm, ok := bp.ChildOfKind(syntax.KindName); ok && identText(nm) == text {
						best, bestOK = bp, true
					}
				}
			}
			if bestOK {
				def := localDefinition(best, text)
				return &def
			}

		case syntax.KindForExpr, syntax.KindMatchArm:
			if bp, ok := ancestor.ChildOfKind(syntax.KindBindPat); ok {
				if nm, ok := bp.ChildOfKind(syntax.KindName); ok && identText(nm) == text {
					def := localDefinition(bp, text)
					return &def
				}
			}

		case syntax.KindFnDef:
			if paramList, ok := ancestor.ChildOfKind(syntax.KindParamList); ok {
				for _, param := range paramList.Children() {
					if param.Kind() != syntax.KindParam {
						continue
					}
					if bp, ok := param.ChildOfKind(syntax.KindBindPat); ok {
						if nm, ok := bp.ChildOfKind(syntax.KindName); ok && identText(nm) == text {
							def := localDefinition(bp, text)
							return &def
						}
					}
				}
			}
			return nil
		}
	}
	return nil
}

// typeParamDef resolves a reference against generic parameter lists of
// enclosing items.
func (o *oracle) typeParamDef(ref syntax.Element, text string) *resolve.Definition {
	for _, ancestor := range ref.Ancestors() {
		tpl, ok := ancestor.ChildOfKind(syntax.KindTypeParamList)
		if !ok {
			continue
		}
		for _, tp := range tpl.Children() {
			if tp.Kind() != syntax.KindTypeParam {
				continue
			}
			if nm, ok := tp.ChildOfKind(syntax.KindName); ok && identText(nm) == text {
				return &resolve.Definition{Kind: resolve.DefTypeParam}
			}
		}
	}
	return nil
}

// fileItemDef resolves a name against file-level items, module contents
// and enum variants.
func (o *oracle) fileItemDef(text string) *resolve.Definition {
	if text == "" {
		return nil
	}
	var found *resolve.Definition
	var scan func(el syntax.Element)
	scan = func(el syntax.Element) {
		for _, item := range el.Children() {
			if found != nil {
				return
			}
			kind, ok := itemDefKinds[item.Kind()]
			if !ok {
				continue
			}
			if nm, ok := item.ChildOfKind(syntax.KindName); ok && identText(nm) == text {
				found = &resolve.Definition{Kind: kind}
				return
			}
			switch item.Kind() {
			case syntax.KindModule:
				scan(item)
			case syntax.KindEnumDef:
				scan(item)
			}
		}
	}
	scan(o.tree.Root())
	return found
}

// findItem locates a file-level item of the given kind by name.
func (o *oracle) findItem(kind syntax.Kind, name string) (syntax.Element, bool) {
	var found syntax.Element
	ok := false
	var scan func(el syntax.Element)
	scan = func(el syntax.Element) {
		for _, item := range el.Children() {
			if ok {
				return
			}
			if item.Kind() == kind {
				if nm, nmOK := item.ChildOfKind(syntax.KindName); nmOK && identText(nm) == name {
					found, ok = item, true
					return
				}
			}
			if item.Kind() == syntax.KindModule {
				scan(item)
			}
		}
	}
	scan(o.tree.Root())
	return found, ok
}
