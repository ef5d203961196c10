/*
Package syntax models the lossless syntax tree the highlighting engine walks.

The tree is produced by an external parser and consumed read-only here:

	Builder                  Tree
	-------                  ----
	StartNode(kind)          arena of elements
	  Token(kind, text)  ->  parent / child / sibling links
	FinishNode               absolute byte ranges
	Finish()                 enter/leave preorder walk

Elements are cheap index handles into the arena, so range queries and
viewport pruning never copy or rebuild the tree.
*/
package syntax

import (
	"gitlab.com/tozd/go/errors"

	"github.com/srclight/srclight/pkg/text"
)

type elemData struct {
	kind       Kind
	parent     int32
	firstChild int32
	next       int32
	rng        text.Range
	text       string
	token      bool
}

// Tree is an arena-backed syntax tree over one document.
type Tree struct {
	elems []elemData
	root  int32
}

// Element is a handle to one node or token of a Tree. Elements of the same
// tree compare equal exactly when they refer to the same arena slot.
type Element struct {
	tree *Tree
	idx  int32
}

// Root returns the root element of the tree.
func (t *Tree) Root() Element {
	return Element{tree: t, idx: t.root}
}

func (e Element) Valid() bool {
	return e.tree != nil
}

func (e Element) Kind() Kind {
	return e.tree.elems[e.idx].kind
}

func (e Element) Range() text.Range {
	return e.tree.elems[e.idx].rng
}

func (e Element) IsToken() bool {
	return e.tree.elems[e.idx].token
}

// TokenText returns the source text of a token element, and "" for nodes.
func (e Element) TokenText() string {
	return e.tree.elems[e.idx].text
}

func (e Element) Tree() *Tree {
	return e.tree
}

func (e Element) Parent() (Element, bool) {
	p := e.tree.elems[e.idx].parent
	if p < 0 {
		return Element{}, false
	}
	return Element{tree: e.tree, idx: p}, true
}

func (e Element) NextSibling() (Element, bool) {
	n := e.tree.elems[e.idx].next
	if n < 0 {
		return Element{}, false
	}
	return Element{tree: e.tree, idx: n}, true
}

func (e Element) FirstChild() (Element, bool) {
	c := e.tree.elems[e.idx].firstChild
	if c < 0 {
		return Element{}, false
	}
	return Element{tree: e.tree, idx: c}, true
}

// Children returns the direct children, tokens included, in source order.
func (e Element) Children() []Element {
	var out []Element
	for c, ok := e.FirstChild(); ok; c, ok = c.NextSibling() {
		out = append(out, c)
	}
	return out
}

// Ancestors returns the chain of parents, innermost first.
func (e Element) Ancestors() []Element {
	var out []Element
	for p, ok := e.Parent(); ok; p, ok = p.Parent() {
		out = append(out, p)
	}
	return out
}

// ChildOfKind returns the first direct child with the given kind.
func (e Element) ChildOfKind(kind Kind) (Element, bool) {
	for c, ok := e.FirstChild(); ok; c, ok = c.NextSibling() {
		if c.Kind() == kind {
			return c, true
		}
	}
	return Element{}, false
}

// LastChildOfKind returns the last direct child with the given kind.
func (e Element) LastChildOfKind(kind Kind) (Element, bool) {
	var found Element
	ok := false
	for c, cok := e.FirstChild(); cok; c, cok = c.NextSibling() {
		if c.Kind() == kind {
			found, ok = c, true
		}
	}
	return found, ok
}

// FirstToken returns the leftmost token under the element (the element
// itself when it is a token).
func (e Element) FirstToken() (Element, bool) {
	if e.IsToken() {
		return e, true
	}
	for c, ok := e.FirstChild(); ok; c, ok = c.NextSibling() {
		if t, tok := c.FirstToken(); tok {
			return t, true
		}
	}
	return Element{}, false
}

// CoveringElement returns the smallest element whose range contains rng.
func (t *Tree) CoveringElement(rng text.Range) Element {
	cur := t.Root()
	for {
		descended := false
		for c, ok := cur.FirstChild(); ok; c, ok = c.NextSibling() {
			if c.Range().ContainsRange(rng) {
				cur = c
				descended = true
				break
			}
		}
		if !descended {
			return cur
		}
	}
}

// WalkEvent is one step of an enter/leave preorder traversal.
type WalkEvent struct {
	Enter   bool
	Element Element
}

// Walk performs an enter/leave preorder traversal over nodes and tokens,
// invoking visit for every event. A non-nil error aborts the walk.
func Walk(root Element, visit func(WalkEvent) error) error {
	if err := visit(WalkEvent{Enter: true, Element: root}); err != nil {
		return err
	}
	for c, ok := root.FirstChild(); ok; c, ok = c.NextSibling() {
		if err := Walk(c, visit); err != nil {
			return err
		}
	}
	return visit(WalkEvent{Enter: false, Element: root})
}

// Builder assembles a Tree in document order. Token offsets accumulate from
// token text lengths, so the built tree's ranges always tile the input.
type Builder struct {
	elems     []elemData
	stack     []int32
	lastChild []int32
	pos       int
	err       error
}

func NewBuilder() *Builder {
	return &Builder{}
}

func (b *Builder) attach(idx int32) {
	if len(b.stack) == 0 {
		return
	}
	parent := b.stack[len(b.stack)-1]
	if b.lastChild[parent] < 0 {
		b.elems[parent].firstChild = idx
	} else {
		b.elems[b.lastChild[parent]].next = idx
	}
	b.lastChild[parent] = idx
}

// StartNode opens a new node of the given kind at the current position.
func (b *Builder) StartNode(kind Kind) {
	idx := int32(len(b.elems))
	parent := int32(-1)
	if len(b.stack) > 0 {
		parent = b.stack[len(b.stack)-1]
	}
	b.elems = append(b.elems, elemData{
		kind:       kind,
		parent:     parent,
		firstChild: -1,
		next:       -1,
		rng:        text.Range{Start: b.pos, End: b.pos},
	})
	b.lastChild = append(b.lastChild, -1)
	b.attach(idx)
	b.stack = append(b.stack, idx)
}

// Token appends a token to the currently open node.
func (b *Builder) Token(kind Kind, tokenText string) {
	if len(b.stack) == 0 {
		b.err = errors.New("token emitted outside of any node")
		return
	}
	idx := int32(len(b.elems))
	b.elems = append(b.elems, elemData{
		kind:       kind,
		parent:     b.stack[len(b.stack)-1],
		firstChild: -1,
		next:       -1,
		rng:        text.At(b.pos, len(tokenText)),
		text:       tokenText,
		token:      true,
	})
	b.lastChild = append(b.lastChild, -1)
	b.attach(idx)
	b.pos += len(tokenText)
}

// FinishNode closes the most recently started node.
func (b *Builder) FinishNode() {
	if len(b.stack) == 0 {
		b.err = errors.New("FinishNode without matching StartNode")
		return
	}
	idx := b.stack[len(b.stack)-1]
	b.stack = b.stack[:len(b.stack)-1]
	b.elems[idx].rng.End = b.pos
}

// Finish returns the built tree. It fails if the builder was misused or if
// no root node was produced.
func (b *Builder) Finish() (*Tree, error) {
	if b.err != nil {
		return nil, b.err
	}
	if len(b.stack) != 0 {
		return nil, errors.Errorf("unbalanced builder: %d node(s) left open", len(b.stack))
	}
	if len(b.elems) == 0 {
		return nil, errors.New("empty tree")
	}
	return &Tree{elems: b.elems, root: 0}, nil
}
