package text_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/srclight/srclight/pkg/text"
)

func TestRangeIntersect(t *testing.T) {
	tests := []struct {
		name    string
		a       text.Range
		b       text.Range
		want    text.Range
		wantOK  bool
	}{
		{
			name:   "overlapping",
			a:      text.NewRange(0, 10),
			b:      text.NewRange(5, 15),
			want:   text.NewRange(5, 10),
			wantOK: true,
		},
		{
			name:   "contained",
			a:      text.NewRange(0, 10),
			b:      text.NewRange(2, 4),
			want:   text.NewRange(2, 4),
			wantOK: true,
		},
		{
			name:   "touching intersects in an empty range",
			a:      text.NewRange(0, 5),
			b:      text.NewRange(5, 10),
			want:   text.NewRange(5, 5),
			wantOK: true,
		},
		{
			name:   "disjoint",
			a:      text.NewRange(0, 3),
			b:      text.NewRange(7, 9),
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.a.Intersect(tt.b)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
			// intersection commutes
			gotRev, okRev := tt.b.Intersect(tt.a)
			assert.Equal(t, ok, okRev)
			assert.Equal(t, got, gotRev)
		})
	}
}

func TestRangeContains(t *testing.T) {
	r := text.NewRange(2, 6)

	assert.True(t, r.Contains(2))
	assert.True(t, r.Contains(5))
	assert.False(t, r.Contains(6), "end offset is exclusive")
	assert.False(t, r.Contains(1))

	assert.True(t, r.ContainsRange(text.NewRange(2, 6)))
	assert.True(t, r.ContainsRange(text.NewRange(3, 3)))
	assert.False(t, r.ContainsRange(text.NewRange(1, 6)))
	assert.False(t, r.ContainsRange(text.NewRange(2, 7)))
}

func TestRangeArithmetic(t *testing.T) {
	r := text.At(4, 3)
	assert.Equal(t, text.NewRange(4, 7), r)
	assert.Equal(t, 3, r.Len())
	assert.False(t, r.IsEmpty())
	assert.True(t, text.At(4, 0).IsEmpty())

	assert.Equal(t, text.NewRange(14, 17), r.Add(10))
	assert.Equal(t, r, r.Add(10).Sub(10))
	assert.Equal(t, "[4, 7)", r.String())
}
