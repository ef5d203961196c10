package lineindex_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/srclight/srclight/pkg/lineindex"
	"github.com/srclight/srclight/pkg/text"
)

func TestLineColASCII(t *testing.T) {
	li := lineindex.New("hello\nworld")

	tests := []struct {
		name   string
		offset int
		want   lineindex.LineCol
	}{
		{name: "start of file", offset: 0, want: lineindex.LineCol{Line: 0, ColUTF16: 0}},
		{name: "middle of first line", offset: 1, want: lineindex.LineCol{Line: 0, ColUTF16: 1}},
		{name: "end of first line", offset: 5, want: lineindex.LineCol{Line: 0, ColUTF16: 5}},
		{name: "start of second line", offset: 6, want: lineindex.LineCol{Line: 1, ColUTF16: 0}},
		{name: "end of file", offset: 11, want: lineindex.LineCol{Line: 1, ColUTF16: 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := li.LineCol(tt.offset)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.offset, li.Offset(got), "round trip")
		})
	}
}

func TestLineColWideChars(t *testing.T) {
	// "メ" is three bytes of UTF-8 but one UTF-16 unit
	li := lineindex.New("a メ b")

	assert.Equal(t, lineindex.LineCol{Line: 0, ColUTF16: 0}, li.LineCol(0))
	assert.Equal(t, lineindex.LineCol{Line: 0, ColUTF16: 2}, li.LineCol(2), "before the wide char")
	assert.Equal(t, lineindex.LineCol{Line: 0, ColUTF16: 3}, li.LineCol(5), "one unit past the wide char")
	assert.Equal(t, lineindex.LineCol{Line: 0, ColUTF16: 4}, li.LineCol(6))

	assert.Equal(t, 5, li.Offset(lineindex.LineCol{Line: 0, ColUTF16: 3}))
}

func TestLineColWideCharsMultiline(t *testing.T) {
	li := lineindex.New("メ\nb")

	assert.Equal(t, lineindex.LineCol{Line: 0, ColUTF16: 1}, li.LineCol(3), "after the wide char")
	assert.Equal(t, lineindex.LineCol{Line: 1, ColUTF16: 0}, li.LineCol(4), "next line needs no correction")
	assert.Equal(t, lineindex.LineCol{Line: 1, ColUTF16: 1}, li.LineCol(5))
}

func TestLineColSupplementaryPlane(t *testing.T) {
	// "𐐷" is four bytes of UTF-8 and two UTF-16 units
	li := lineindex.New("a𐐷b")

	assert.Equal(t, lineindex.LineCol{Line: 0, ColUTF16: 1}, li.LineCol(1))
	assert.Equal(t, lineindex.LineCol{Line: 0, ColUTF16: 3}, li.LineCol(5), "surrogate pair counts two units")
}

func TestLines(t *testing.T) {
	li := lineindex.New("aaaa\nbbb\ncc\n")

	got := li.Lines(text.NewRange(2, 10))
	assert.Equal(t, []text.Range{
		text.NewRange(2, 5),
		text.NewRange(5, 9),
		text.NewRange(9, 10),
	}, got)

	t.Run("single line stays whole", func(t *testing.T) {
		got := li.Lines(text.NewRange(0, 3))
		assert.Equal(t, []text.Range{text.NewRange(0, 3)}, got)
	})

	t.Run("empty range yields nothing", func(t *testing.T) {
		assert.Empty(t, li.Lines(text.NewRange(3, 3)))
	})
}
