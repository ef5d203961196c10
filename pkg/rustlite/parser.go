package rustlite

import (
	multierror "github.com/hashicorp/go-multierror"
	"gitlab.com/tozd/go/errors"

	"github.com/srclight/srclight/pkg/syntax"
)

// kindEOF is a sentinel, never present in trees.
const kindEOF = syntax.Kind(0xFFFF)

// Parse builds a lossless tree for the source. A tree is always produced;
// the returned error aggregates advisory parse diagnostics.
func Parse(src string) (*syntax.Tree, error) {
	p := &parser{toks: lex(src), b: syntax.NewBuilder()}
	p.b.StartNode(syntax.KindSourceFile)
	for !p.atEOF() {
		before := p.pos
		p.item()
		if p.pos == before {
			p.errorBump("unexpected token")
		}
	}
	p.b.FinishNode()
	tree, err := p.b.Finish()
	if err != nil {
		// Builder misuse is a parser bug, not a source problem.
		return nil, errors.Errorf("building syntax tree: %w", err)
	}
	return tree, p.diags.ErrorOrNil()
}

type parser struct {
	toks  []token
	pos   int
	b     *syntax.Builder
	diags *multierror.Error
}

func (p *parser) atEOF() bool {
	return p.cur() == kindEOF
}

func isTrivia(k syntax.Kind) bool {
	return k == syntax.KindWhitespace || k == syntax.KindComment
}

// eatTrivia flushes whitespace and comments into the currently open node.
func (p *parser) eatTrivia() {
	for p.pos < len(p.toks) && isTrivia(p.toks[p.pos].kind) {
		p.b.Token(p.toks[p.pos].kind, p.toks[p.pos].text)
		p.pos++
	}
}

// cur returns the kind of the next significant token, flushing trivia.
func (p *parser) cur() syntax.Kind {
	p.eatTrivia()
	if p.pos >= len(p.toks) {
		return kindEOF
	}
	return p.toks[p.pos].kind
}

// curText returns the text of the next significant token.
func (p *parser) curText() string {
	if p.cur() == kindEOF {
		return ""
	}
	return p.toks[p.pos].text
}

// bump emits the next significant token into the open node.
func (p *parser) bump() {
	if p.cur() == kindEOF {
		return
	}
	p.b.Token(p.toks[p.pos].kind, p.toks[p.pos].text)
	p.pos++
}

func (p *parser) at(k syntax.Kind) bool {
	return p.cur() == k
}

func (p *parser) atPunct(s string) bool {
	return p.cur() == syntax.KindPunct && p.curText() == s
}

func (p *parser) accept(k syntax.Kind) bool {
	if p.at(k) {
		p.bump()
		return true
	}
	return false
}

func (p *parser) acceptPunct(s string) bool {
	if p.atPunct(s) {
		p.bump()
		return true
	}
	return false
}

func (p *parser) expectPunct(s string) {
	if !p.acceptPunct(s) {
		p.errorf("expected %q", s)
	}
}

func (p *parser) errorf(format string, args ...any) {
	off := 0
	if p.pos < len(p.toks) {
		off = p.toks[p.pos].off
	} else if len(p.toks) > 0 {
		last := p.toks[len(p.toks)-1]
		off = last.off + len(last.text)
	}
	p.diags = multierror.Append(p.diags, errors.Errorf(format+" at offset %d", append(args, off)...))
}

// errorBump wraps one stray token in an Error node so parsing always
// advances.
func (p *parser) errorBump(msg string) {
	p.errorf("%s", msg)
	if p.cur() == kindEOF {
		return
	}
	p.b.StartNode(syntax.KindError)
	p.bump()
	p.b.FinishNode()
}

// nextSignificantIs reports whether the token after the current one, trivia
// skipped, is the given punctuation.
func (p *parser) nextSignificantIs(punct string) bool {
	i := p.pos + 1
	for i < len(p.toks) && isTrivia(p.toks[i].kind) {
		i++
	}
	return i < len(p.toks) && p.toks[i].kind == syntax.KindPunct && p.toks[i].text == punct
}

// peekPastPath returns kind and text of the first significant token after
// a leading `ident(::ident)*` path, without consuming anything.
func (p *parser) peekPastPath() (syntax.Kind, string) {
	i := p.pos
	skip := func() {
		for i < len(p.toks) && isTrivia(p.toks[i].kind) {
			i++
		}
	}
	for {
		skip()
		if i >= len(p.toks) || p.toks[i].kind != syntax.KindIdent {
			break
		}
		i++
		skip()
		if i < len(p.toks) && p.toks[i].kind == syntax.KindPunct && p.toks[i].text == "::" {
			i++
			continue
		}
		break
	}
	skip()
	if i >= len(p.toks) {
		return kindEOF, ""
	}
	return p.toks[i].kind, p.toks[i].text
}

// ---- items ----

func (p *parser) item() {
	p.eatTrivia()
	for p.atPunct("#") {
		p.attr()
	}
	p.accept(syntax.KwPub)

	switch p.cur() {
	case syntax.KwFn:
		p.fnDef()
	case syntax.KwStruct:
		p.structLikeDef(syntax.KindStructDef, syntax.KwStruct)
	case syntax.KwUnion:
		p.structLikeDef(syntax.KindUnionDef, syntax.KwUnion)
	case syntax.KwEnum:
		p.enumDef()
	case syntax.KwTrait:
		p.traitDef()
	case syntax.KwType:
		p.typeAliasDef()
	case syntax.KwConst:
		p.constLikeDef(syntax.KindConstDef, syntax.KwConst)
	case syntax.KwStatic:
		p.constLikeDef(syntax.KindStaticDef, syntax.KwStatic)
	case syntax.KwMod:
		p.modDef()
	case syntax.KwUse, syntax.KwImpl:
		p.skippedItem()
	case kindEOF:
	default:
		p.errorBump("expected an item")
	}
}

func (p *parser) fnDef() {
	p.b.StartNode(syntax.KindFnDef)
	p.bump() // fn
	p.name()
	if p.atPunct("<") {
		p.typeParamList()
	}
	if p.atPunct("(") {
		p.paramList()
	}
	if p.acceptPunct("->") {
		p.typ()
	}
	if p.atPunct("{") {
		p.block()
	} else {
		p.acceptPunct(";")
	}
	p.b.FinishNode()
}

func (p *parser) structLikeDef(kind syntax.Kind, kw syntax.Kind) {
	p.b.StartNode(kind)
	p.bump() // struct / union
	p.name()
	if p.atPunct("<") {
		p.typeParamList()
	}
	if p.atPunct("{") {
		p.recordFieldList()
	} else {
		p.acceptPunct(";")
	}
	p.b.FinishNode()
}

func (p *parser) recordFieldList() {
	p.b.StartNode(syntax.KindRecordFieldList)
	p.bump() // {
	for !p.atPunct("}") && !p.atEOF() {
		before := p.pos
		for p.atPunct("#") {
			p.attr()
		}
		p.accept(syntax.KwPub)
		p.b.StartNode(syntax.KindRecordFieldDef)
		p.name()
		p.expectPunct(":")
		p.typ()
		p.b.FinishNode()
		p.acceptPunct(",")
		if p.pos == before {
			p.errorBump("expected a record field")
		}
	}
	p.acceptPunct("}")
	p.b.FinishNode()
}

func (p *parser) enumDef() {
	p.b.StartNode(syntax.KindEnumDef)
	p.bump() // enum
	p.name()
	if p.atPunct("<") {
		p.typeParamList()
	}
	p.expectPunct("{")
	for !p.atPunct("}") && !p.atEOF() {
		before := p.pos
		p.b.StartNode(syntax.KindEnumVariantDef)
		p.name()
		if p.atPunct("(") {
			p.tokenTree("(", ")")
		} else if p.atPunct("{") {
			p.recordFieldList()
		}
		p.b.FinishNode()
		p.acceptPunct(",")
		if p.pos == before {
			p.errorBump("expected an enum variant")
		}
	}
	p.acceptPunct("}")
	p.b.FinishNode()
}

func (p *parser) traitDef() {
	p.b.StartNode(syntax.KindTraitDef)
	p.bump() // trait
	p.name()
	if p.atPunct("<") {
		p.typeParamList()
	}
	p.expectPunct("{")
	for !p.atPunct("}") && !p.atEOF() {
		before := p.pos
		p.item()
		if p.pos == before {
			p.errorBump("expected a trait item")
		}
	}
	p.acceptPunct("}")
	p.b.FinishNode()
}

func (p *parser) typeAliasDef() {
	p.b.StartNode(syntax.KindTypeAliasDef)
	p.bump() // type
	p.name()
	if p.atPunct("<") {
		p.typeParamList()
	}
	p.expectPunct("=")
	p.typ()
	p.acceptPunct(";")
	p.b.FinishNode()
}

func (p *parser) constLikeDef(kind syntax.Kind, kw syntax.Kind) {
	p.b.StartNode(kind)
	p.bump() // const / static
	p.accept(syntax.KwMut)
	p.name()
	p.expectPunct(":")
	p.typ()
	if p.acceptPunct("=") {
		p.expr(true)
	}
	p.acceptPunct(";")
	p.b.FinishNode()
}

func (p *parser) modDef() {
	p.b.StartNode(syntax.KindModule)
	p.bump() // mod
	p.name()
	if p.acceptPunct("{") {
		for !p.atPunct("}") && !p.atEOF() {
			before := p.pos
			p.item()
			if p.pos == before {
				p.errorBump("expected an item")
			}
		}
		p.acceptPunct("}")
	} else {
		p.acceptPunct(";")
	}
	p.b.FinishNode()
}

// skippedItem swallows use/impl items the front end does not model.
// TODO(@rustlite): parse impl blocks so inherent methods resolve.
func (p *parser) skippedItem() {
	p.b.StartNode(syntax.KindError)
	p.bump() // use / impl
	for !p.atEOF() {
		if p.acceptPunct(";") {
			break
		}
		if p.atPunct("{") {
			p.tokenTree("{", "}")
			break
		}
		p.bump()
	}
	p.b.FinishNode()
}

func (p *parser) attr() {
	p.b.StartNode(syntax.KindAttr)
	p.bump() // #
	p.accept(syntax.KindBang)
	if p.acceptPunct("[") {
		if p.at(syntax.KindIdent) {
			p.path()
		}
		for !p.atPunct("]") && !p.atEOF() {
			if p.at(syntax.KindIdent) {
				p.nameRef()
				continue
			}
			p.bump()
		}
		p.acceptPunct("]")
	}
	p.b.FinishNode()
}

// ---- shared pieces ----

func (p *parser) name() {
	p.eatTrivia()
	p.b.StartNode(syntax.KindName)
	if p.at(syntax.KindIdent) {
		p.bump()
	} else {
		p.errorf("expected a name")
	}
	p.b.FinishNode()
}

func (p *parser) nameRef() {
	p.eatTrivia()
	p.b.StartNode(syntax.KindNameRef)
	if p.at(syntax.KindIdent) || p.at(syntax.KwSelfValue) {
		p.bump()
	} else {
		p.errorf("expected a name reference")
	}
	p.b.FinishNode()
}

func (p *parser) path() {
	p.eatTrivia()
	p.b.StartNode(syntax.KindPath)
	for {
		p.b.StartNode(syntax.KindPathSegment)
		p.nameRef()
		p.b.FinishNode()
		if !p.acceptPunct("::") {
			break
		}
	}
	p.b.FinishNode()
}

func (p *parser) typeParamList() {
	p.b.StartNode(syntax.KindTypeParamList)
	p.bump() // <
	for !p.atPunct(">") && !p.atEOF() {
		before := p.pos
		switch p.cur() {
		case syntax.KindLifetime:
			p.b.StartNode(syntax.KindLifetimeParam)
			p.bump()
			p.b.FinishNode()
		case syntax.KindIdent:
			p.b.StartNode(syntax.KindTypeParam)
			p.name()
			p.b.FinishNode()
		}
		p.acceptPunct(",")
		if p.pos == before {
			p.errorBump("expected a generic parameter")
		}
	}
	p.acceptPunct(">")
	p.b.FinishNode()
}

func (p *parser) paramList() {
	p.b.StartNode(syntax.KindParamList)
	p.bump() // (
	for !p.atPunct(")") && !p.atEOF() {
		before := p.pos
		p.b.StartNode(syntax.KindParam)
		p.bindPat()
		p.expectPunct(":")
		p.typ()
		p.b.FinishNode()
		p.acceptPunct(",")
		if p.pos == before {
			p.errorBump("expected a parameter")
		}
	}
	p.acceptPunct(")")
	p.b.FinishNode()
}

func (p *parser) bindPat() {
	p.eatTrivia()
	p.b.StartNode(syntax.KindBindPat)
	p.accept(syntax.KwRef)
	p.accept(syntax.KwMut)
	p.name()
	p.b.FinishNode()
}

func (p *parser) typ() {
	p.eatTrivia()
	switch {
	case p.atPunct("&"):
		p.b.StartNode(syntax.KindRefType)
		p.bump()
		p.accept(syntax.KindLifetime)
		p.accept(syntax.KwMut)
		p.typ()
		p.b.FinishNode()
	case p.at(syntax.KindIdent) || p.at(syntax.KwSelfValue):
		p.path()
		if p.atPunct("<") {
			p.tokenTree("<", ">")
		}
	case p.atPunct("("):
		p.tokenTree("(", ")")
	default:
		p.errorBump("expected a type")
	}
}

// ---- statements and expressions ----

func (p *parser) block() {
	p.b.StartNode(syntax.KindBlockExpr)
	p.expectPunct("{")
	for !p.atPunct("}") && !p.atEOF() {
		before := p.pos
		p.stmt()
		if p.pos == before {
			p.errorBump("expected a statement")
		}
	}
	p.acceptPunct("}")
	p.b.FinishNode()
}

func (p *parser) stmt() {
	p.eatTrivia()
	for p.atPunct("#") {
		p.attr()
	}
	switch p.cur() {
	case syntax.KwLet:
		p.letStmt()
	case syntax.KwFn, syntax.KwStruct, syntax.KwEnum, syntax.KwUnion,
		syntax.KwTrait, syntax.KwType, syntax.KwConst, syntax.KwStatic,
		syntax.KwMod, syntax.KwUse, syntax.KwImpl:
		p.item()
	case kindEOF:
	default:
		p.b.StartNode(syntax.KindExprStmt)
		p.expr(true)
		p.acceptPunct(";")
		p.b.FinishNode()
	}
}

func (p *parser) letStmt() {
	p.b.StartNode(syntax.KindLetStmt)
	p.bump() // let
	p.bindPat()
	if p.acceptPunct(":") {
		p.typ()
	}
	if p.acceptPunct("=") {
		p.expr(true)
	}
	p.acceptPunct(";")
	p.b.FinishNode()
}

// binary operator tokens joined flat into the enclosing node; operator
// precedence is irrelevant to highlighting
var binaryOps = map[string]bool{
	"=": true, "==": true, "!=": true, "<": true, ">": true, "<=": true,
	">=": true, "+": true, "-": true, "*": true, "/": true, "%": true,
	"&&": true, "||": true, "+=": true, "-=": true, "*=": true, "/=": true,
	"..": true, ".": true, "&": true,
}

func (p *parser) expr(allowStruct bool) {
	p.primary(allowStruct)
	for p.cur() == syntax.KindPunct && binaryOps[p.curText()] {
		p.bump()
		p.primary(allowStruct)
	}
}

func (p *parser) primary(allowStruct bool) {
	p.eatTrivia()
	switch {
	case p.cur().IsLiteralToken():
		p.bump()

	case p.atPunct("("):
		p.b.StartNode(syntax.KindParenExpr)
		p.bump()
		if !p.atPunct(")") {
			p.expr(true)
		}
		p.acceptPunct(")")
		p.b.FinishNode()

	case p.atPunct("&"):
		p.b.StartNode(syntax.KindRefExpr)
		p.bump()
		p.accept(syntax.KwMut)
		p.primary(allowStruct)
		p.b.FinishNode()

	case p.at(syntax.KwIf):
		p.ifExpr()

	case p.at(syntax.KwWhile):
		p.b.StartNode(syntax.KindWhileExpr)
		p.bump()
		p.condition()
		p.block()
		p.b.FinishNode()

	case p.at(syntax.KwLoop):
		p.b.StartNode(syntax.KindLoopExpr)
		p.bump()
		p.block()
		p.b.FinishNode()

	case p.at(syntax.KwFor):
		p.b.StartNode(syntax.KindForExpr)
		p.bump()
		p.bindPat()
		if p.accept(syntax.KwIn) {
			p.condition()
		}
		p.block()
		p.b.FinishNode()

	case p.at(syntax.KwMatch):
		p.matchExpr()

	case p.at(syntax.KwReturn):
		p.b.StartNode(syntax.KindReturnExpr)
		p.bump()
		if !p.atPunct(";") && !p.atPunct("}") && !p.atEOF() {
			p.expr(true)
		}
		p.b.FinishNode()

	case p.at(syntax.KwBreak):
		p.b.StartNode(syntax.KindBreakExpr)
		p.bump()
		p.accept(syntax.KindLifetime)
		p.b.FinishNode()

	case p.at(syntax.KwContinue):
		p.b.StartNode(syntax.KindContinueExpr)
		p.bump()
		p.accept(syntax.KindLifetime)
		p.b.FinishNode()

	case p.at(syntax.KwUnsafe):
		p.b.StartNode(syntax.KindUnsafeBlockExpr)
		p.bump()
		p.block()
		p.b.FinishNode()

	case p.at(syntax.KwMove):
		p.bump()

	case p.at(syntax.KindLifetime):
		// 'label: loop { ... }
		p.b.StartNode(syntax.KindLabel)
		p.bump()
		p.b.FinishNode()
		p.acceptPunct(":")

	case p.atPunct("{"):
		p.block()

	case p.at(syntax.KwSelfValue):
		p.path()

	case p.at(syntax.KindIdent):
		p.pathExpr(allowStruct)

	case p.at(syntax.KindBang):
		p.bump()
		p.primary(allowStruct)

	default:
		p.errorBump("expected an expression")
	}
}

func (p *parser) condition() {
	p.b.StartNode(syntax.KindCondition)
	p.expr(false)
	p.b.FinishNode()
}

func (p *parser) ifExpr() {
	p.b.StartNode(syntax.KindIfExpr)
	p.bump() // if
	p.condition()
	p.block()
	if p.accept(syntax.KwElse) {
		if p.at(syntax.KwIf) {
			p.ifExpr()
		} else {
			p.block()
		}
	}
	p.b.FinishNode()
}

func (p *parser) matchExpr() {
	p.b.StartNode(syntax.KindMatchExpr)
	p.bump() // match
	p.expr(false)
	p.b.StartNode(syntax.KindMatchArmList)
	p.expectPunct("{")
	for !p.atPunct("}") && !p.atEOF() {
		before := p.pos
		p.b.StartNode(syntax.KindMatchArm)
		p.matchPat()
		p.expectPunct("=>")
		p.expr(true)
		p.b.FinishNode()
		p.acceptPunct(",")
		if p.pos == before {
			p.errorBump("expected a match arm")
		}
	}
	p.acceptPunct("}")
	p.b.FinishNode()
	p.b.FinishNode()
}

func (p *parser) matchPat() {
	p.eatTrivia()
	switch {
	case p.cur().IsLiteralToken():
		p.bump()
	case p.atPunct("_"):
		p.bump()
	case p.at(syntax.KindIdent):
		// qualified paths stay plain paths; a bare identifier binds
		if p.nextSignificantIs("::") || p.nextSignificantIs("(") {
			p.path()
			if p.atPunct("(") {
				p.tokenTree("(", ")")
			}
			return
		}
		p.bindPat()
	default:
		p.errorBump("expected a pattern")
	}
}

// pathExpr parses an identifier path and whatever trails it: a call, a
// macro invocation, or a record literal.
func (p *parser) pathExpr(allowStruct bool) {
	next, nextText := p.peekPastPath()
	switch {
	case next == syntax.KindBang:
		p.macroCall()
	case next == syntax.KindPunct && nextText == "(":
		p.b.StartNode(syntax.KindCallExpr)
		p.b.StartNode(syntax.KindPathExpr)
		p.path()
		p.b.FinishNode()
		p.argList()
		p.b.FinishNode()
	case allowStruct && next == syntax.KindPunct && nextText == "{":
		p.recordLit()
	default:
		p.b.StartNode(syntax.KindPathExpr)
		p.path()
		p.b.FinishNode()
	}
}

func (p *parser) macroCall() {
	p.b.StartNode(syntax.KindMacroCall)
	p.path()
	p.accept(syntax.KindBang)
	switch {
	case p.atPunct("("):
		p.tokenTree("(", ")")
	case p.atPunct("["):
		p.tokenTree("[", "]")
	case p.atPunct("{"):
		p.tokenTree("{", "}")
	}
	p.acceptPunct(";")
	p.b.FinishNode()
}

func (p *parser) argList() {
	p.b.StartNode(syntax.KindArgList)
	p.bump() // (
	for !p.atPunct(")") && !p.atEOF() {
		before := p.pos
		p.expr(true)
		p.acceptPunct(",")
		if p.pos == before {
			p.errorBump("expected an argument")
		}
	}
	p.acceptPunct(")")
	p.b.FinishNode()
}

func (p *parser) recordLit() {
	p.b.StartNode(syntax.KindRecordLit)
	p.path()
	p.b.StartNode(syntax.KindRecordFieldLitList)
	p.expectPunct("{")
	for !p.atPunct("}") && !p.atEOF() {
		before := p.pos
		p.b.StartNode(syntax.KindRecordFieldLit)
		p.nameRef()
		if p.acceptPunct(":") {
			p.expr(true)
		}
		p.b.FinishNode()
		p.acceptPunct(",")
		if p.pos == before {
			p.errorBump("expected a record field")
		}
	}
	p.acceptPunct("}")
	p.b.FinishNode()
	p.b.FinishNode()
}

// tokenTree swallows a balanced delimiter run. Nested delimiters of any
// shape stay inside the same TokenTree node; the walker only cares that
// macro-argument tokens have a TokenTree parent.
func (p *parser) tokenTree(open, close string) {
	p.b.StartNode(syntax.KindTokenTree)
	p.expectPunct(open)
	depth := 1
	for depth > 0 && !p.atEOF() {
		switch {
		case p.atPunct(open) && open != close:
			depth++
		case p.atPunct(close):
			depth--
		}
		p.bump()
	}
	p.b.FinishNode()
}
