package syntax_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srclight/srclight/pkg/syntax"
	"github.com/srclight/srclight/pkg/text"
)

// buildLet assembles the tree for `let x = 1;` by hand.
func buildLet(t *testing.T) *syntax.Tree {
	t.Helper()

	b := syntax.NewBuilder()
	b.StartNode(syntax.KindSourceFile)
	b.StartNode(syntax.KindLetStmt)
	b.Token(syntax.KwLet, "let")
	b.Token(syntax.KindWhitespace, " ")
	b.StartNode(syntax.KindBindPat)
	b.StartNode(syntax.KindName)
	b.Token(syntax.KindIdent, "x")
	b.FinishNode()
	b.FinishNode()
	b.Token(syntax.KindWhitespace, " ")
	b.Token(syntax.KindPunct, "=")
	b.Token(syntax.KindWhitespace, " ")
	b.Token(syntax.KindIntNumber, "1")
	b.Token(syntax.KindPunct, ";")
	b.FinishNode()
	b.FinishNode()

	tree, err := b.Finish()
	require.NoError(t, err)
	return tree
}

func TestBuilderRangesTileInput(t *testing.T) {
	tree := buildLet(t)
	src := "let x = 1;"

	root := tree.Root()
	assert.Equal(t, syntax.KindSourceFile, root.Kind())
	assert.Equal(t, text.NewRange(0, len(src)), root.Range())

	letStmt, ok := root.ChildOfKind(syntax.KindLetStmt)
	require.True(t, ok)
	assert.Equal(t, text.NewRange(0, len(src)), letStmt.Range())

	bindPat, ok := letStmt.ChildOfKind(syntax.KindBindPat)
	require.True(t, ok)
	assert.Equal(t, text.NewRange(4, 5), bindPat.Range())

	tok, ok := bindPat.FirstToken()
	require.True(t, ok)
	assert.Equal(t, "x", tok.TokenText())
	assert.True(t, tok.IsToken())

	// every token range concatenates back to the source
	var rebuilt string
	err := syntax.Walk(root, func(ev syntax.WalkEvent) error {
		if ev.Enter && ev.Element.IsToken() {
			assert.Equal(t, len(ev.Element.TokenText()), ev.Element.Range().Len())
			rebuilt += ev.Element.TokenText()
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, src, rebuilt)
}

func TestWalkEnterLeaveBalance(t *testing.T) {
	tree := buildLet(t)

	depth := 0
	maxDepth := 0
	enters := 0
	err := syntax.Walk(tree.Root(), func(ev syntax.WalkEvent) error {
		if ev.Enter {
			enters++
			depth++
			if depth > maxDepth {
				maxDepth = depth
			}
		} else {
			depth--
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 0, depth, "every enter has a matching leave")
	assert.Equal(t, 4+8, enters, "4 nodes and 8 tokens")
	assert.Equal(t, 5, maxDepth)
}

func TestWalkAbortsOnError(t *testing.T) {
	tree := buildLet(t)

	visited := 0
	err := syntax.Walk(tree.Root(), func(ev syntax.WalkEvent) error {
		visited++
		if ev.Enter && ev.Element.Kind() == syntax.KindName {
			return assert.AnError
		}
		return nil
	})
	require.ErrorIs(t, err, assert.AnError)
	assert.Less(t, visited, 24, "walk stops early")
}

func TestCoveringElement(t *testing.T) {
	tree := buildLet(t)

	tests := []struct {
		name string
		rng  text.Range
		want syntax.Kind
	}{
		{name: "inside the binding", rng: text.NewRange(4, 5), want: syntax.KindIdent},
		{name: "spanning binding and init", rng: text.NewRange(4, 9), want: syntax.KindLetStmt},
		{name: "whole file", rng: text.NewRange(0, 10), want: syntax.KindSourceFile},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tree.CoveringElement(tt.rng)
			assert.Equal(t, tt.want, got.Kind())
		})
	}
}

func TestElementIdentity(t *testing.T) {
	tree := buildLet(t)

	a, ok := tree.Root().ChildOfKind(syntax.KindLetStmt)
	require.True(t, ok)
	b, ok := tree.Root().ChildOfKind(syntax.KindLetStmt)
	require.True(t, ok)
	assert.True(t, a == b, "handles to one element compare equal")

	parent, ok := a.Parent()
	require.True(t, ok)
	assert.True(t, parent == tree.Root())
}

func TestBuilderMisuse(t *testing.T) {
	t.Run("unbalanced nodes", func(t *testing.T) {
		b := syntax.NewBuilder()
		b.StartNode(syntax.KindSourceFile)
		_, err := b.Finish()
		require.Error(t, err)
	})

	t.Run("token outside any node", func(t *testing.T) {
		b := syntax.NewBuilder()
		b.Token(syntax.KindIdent, "x")
		_, err := b.Finish()
		require.Error(t, err)
	})

	t.Run("empty tree", func(t *testing.T) {
		b := syntax.NewBuilder()
		_, err := b.Finish()
		require.Error(t, err)
	})
}
