// Package text provides byte-offset ranges over source text.
package text

import "fmt"

// Range is a half-open byte range [Start, End) over some source text.
type Range struct {
	Start int
	End   int
}

func NewRange(start, end int) Range {
	return Range{Start: start, End: end}
}

// At returns a range of the given length starting at offset.
func At(offset, length int) Range {
	return Range{Start: offset, End: offset + length}
}

func (r Range) Len() int {
	return r.End - r.Start
}

func (r Range) IsEmpty() bool {
	return r.Start >= r.End
}

// Contains reports whether the offset falls inside the range.
func (r Range) Contains(offset int) bool {
	return r.Start <= offset && offset < r.End
}

// ContainsRange reports whether other lies entirely within r.
func (r Range) ContainsRange(other Range) bool {
	return r.Start <= other.Start && other.End <= r.End
}

// Intersect returns the overlap of two ranges. The second result is false
// when the ranges are disjoint. Touching ranges intersect in an empty range.
func (r Range) Intersect(other Range) (Range, bool) {
	start := max(r.Start, other.Start)
	end := min(r.End, other.End)
	if start > end {
		return Range{}, false
	}
	return Range{Start: start, End: end}, true
}

// Intersects reports whether the two ranges share at least one boundary.
func (r Range) Intersects(other Range) bool {
	_, ok := r.Intersect(other)
	return ok
}

// Add shifts the range by the given offset.
func (r Range) Add(offset int) Range {
	return Range{Start: r.Start + offset, End: r.End + offset}
}

// Sub shifts the range back by the given offset.
func (r Range) Sub(offset int) Range {
	return Range{Start: r.Start - offset, End: r.End - offset}
}

func (r Range) String() string {
	return fmt.Sprintf("[%d, %d)", r.Start, r.End)
}
