package textedit_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/srclight/srclight/pkg/text"
	"github.com/srclight/srclight/pkg/textedit"
)

func TestAtomApply(t *testing.T) {
	tests := []struct {
		name    string
		atom    textedit.Atom
		content string
		want    string
	}{
		{
			name:    "replace",
			atom:    textedit.Replace(text.NewRange(6, 11), "there"),
			content: "hello world",
			want:    "hello there",
		},
		{
			name:    "delete",
			atom:    textedit.Delete(text.NewRange(5, 11)),
			content: "hello world",
			want:    "hello",
		},
		{
			name:    "insert",
			atom:    textedit.Insert(5, ","),
			content: "hello world",
			want:    "hello, world",
		},
		{
			name:    "insert at start",
			atom:    textedit.Insert(0, ">> "),
			content: "hello",
			want:    ">> hello",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.atom.Apply(tt.content))
		})
	}
}

func TestEditAppliesAllAtomsInOnePass(t *testing.T) {
	b := textedit.NewBuilder()
	b.Replace(text.NewRange(0, 3), "qux")
	b.Delete(text.NewRange(3, 4))
	b.Insert(7, "!")

	edit, err := b.Finish()
	require.NoError(t, err)

	assert.Equal(t, "quxbar!", edit.Apply("foo bar"))
}

func TestBuilderSortsAtoms(t *testing.T) {
	b := textedit.NewBuilder()
	b.Insert(7, "!")
	b.Replace(text.NewRange(0, 3), "qux")

	edit, err := b.Finish()
	require.NoError(t, err)

	atoms := edit.Atoms()
	require.Len(t, atoms, 2)
	assert.Equal(t, 0, atoms[0].Delete.Start)
	assert.Equal(t, "quxbar!", edit.Apply("foo bar"))
}

func TestBuilderReportsEveryOverlap(t *testing.T) {
	b := textedit.NewBuilder()
	b.Replace(text.NewRange(0, 5), "a")
	b.Replace(text.NewRange(3, 8), "b")
	b.Replace(text.NewRange(7, 12), "c")

	_, err := b.Finish()
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 2, "both overlapping pairs are reported")
}

func TestTouchingAtomsDoNotOverlap(t *testing.T) {
	b := textedit.NewBuilder()
	b.Replace(text.NewRange(0, 3), "x")
	b.Replace(text.NewRange(3, 6), "y")

	_, err := b.Finish()
	assert.NoError(t, err)
}
