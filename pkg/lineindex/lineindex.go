// Package lineindex maps flat byte offsets into line/column positions,
// with UTF-16 column translation for protocol clients.
package lineindex

import (
	"sort"
	"unicode/utf8"

	"github.com/srclight/srclight/pkg/text"
)

// LineCol is a zero-based line and UTF-16 column position.
type LineCol struct {
	Line     uint32
	ColUTF16 uint32
}

// wideChar records a character wider than one byte, by its UTF-8 column
// bounds within its line. Only lines containing such characters need
// column correction.
type wideChar struct {
	start int
	end   int
}

func (w wideChar) len() int {
	return w.end - w.start
}

// lenUTF16 is the number of UTF-16 code units the character occupies:
// two for supplementary-plane characters, one otherwise.
func (w wideChar) lenUTF16() int {
	if w.len() == 4 {
		return 2
	}
	return 1
}

// LineIndex is an immutable offset/line/column translation table for one
// text snapshot.
type LineIndex struct {
	// newlines holds the starting byte offset of each line.
	newlines  []int
	wideLines map[uint32][]wideChar
	textLen   int
}

func New(content string) *LineIndex {
	wideLines := make(map[uint32][]wideChar)
	var wideChars []wideChar

	newlines := []int{0}
	currRow := 0
	currCol := 0
	line := uint32(0)
	for _, c := range content {
		charLen := utf8.RuneLen(c)
		currRow += charLen
		if c == '\n' {
			newlines = append(newlines, currRow)

			// Save any wide characters seen on the previous line.
			if len(wideChars) > 0 {
				wideLines[line] = wideChars
				wideChars = nil
			}

			currCol = 0
			line++
			continue
		}

		if charLen > 1 {
			wideChars = append(wideChars, wideChar{start: currCol, end: currCol + charLen})
		}
		currCol += charLen
	}
	if len(wideChars) > 0 {
		wideLines[line] = wideChars
	}

	return &LineIndex{newlines: newlines, wideLines: wideLines, textLen: len(content)}
}

// LineCol converts a byte offset into a line and UTF-16 column.
func (li *LineIndex) LineCol(offset int) LineCol {
	line := sort.Search(len(li.newlines), func(i int) bool {
		return li.newlines[i] > offset
	}) - 1
	col := offset - li.newlines[line]
	return LineCol{
		Line:     uint32(line),
		ColUTF16: uint32(li.utf8ToUTF16Col(uint32(line), col)),
	}
}

// Offset converts a line and UTF-16 column back into a byte offset.
func (li *LineIndex) Offset(lc LineCol) int {
	col := li.utf16ToUTF8Col(lc.Line, int(lc.ColUTF16))
	return li.newlines[lc.Line] + col
}

// Lines splits a range at line boundaries, yielding one non-empty range
// per covered line.
func (li *LineIndex) Lines(r text.Range) []text.Range {
	lo := sort.Search(len(li.newlines), func(i int) bool {
		return li.newlines[i] >= r.Start
	})
	hi := sort.Search(len(li.newlines), func(i int) bool {
		return li.newlines[i] > r.End
	})

	bounds := make([]int, 0, hi-lo+2)
	bounds = append(bounds, r.Start)
	bounds = append(bounds, li.newlines[lo:hi]...)
	bounds = append(bounds, r.End)

	var out []text.Range
	for i := 0; i+1 < len(bounds); i++ {
		lr := text.Range{Start: bounds[i], End: bounds[i+1]}
		if !lr.IsEmpty() {
			out = append(out, lr)
		}
	}
	return out
}

func (li *LineIndex) utf8ToUTF16Col(line uint32, col int) int {
	correction := 0
	for _, c := range li.wideLines[line] {
		if col >= c.end {
			correction += c.len() - c.lenUTF16()
		} else {
			// All further wide characters come after the column we are
			// mapping.
			break
		}
	}
	return col - correction
}

func (li *LineIndex) utf16ToUTF8Col(line uint32, col int) int {
	for _, c := range li.wideLines[line] {
		if col > c.start {
			col += c.len() - c.lenUTF16()
		} else {
			break
		}
	}
	return col
}
