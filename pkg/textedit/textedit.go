// Package textedit applies ordered, non-overlapping splice edits to text.
package textedit

import (
	"sort"
	"strings"

	"gitlab.com/tozd/go/errors"
	"go.uber.org/multierr"

	"github.com/srclight/srclight/pkg/text"
)

// Atom is one splice: delete a range of the original text and insert a
// replacement. Atoms of one Edit must not overlap.
type Atom struct {
	// Delete refers to offsets in the original text.
	Delete text.Range
	Insert string
}

func Replace(rng text.Range, replaceWith string) Atom {
	return Atom{Delete: rng, Insert: replaceWith}
}

func Delete(rng text.Range) Atom {
	return Replace(rng, "")
}

func Insert(offset int, content string) Atom {
	return Replace(text.At(offset, 0), content)
}

// Apply splices the atom into the text.
func (a Atom) Apply(content string) string {
	return content[:a.Delete.Start] + a.Insert + content[a.Delete.End:]
}

// Edit is an ordered list of non-overlapping atoms.
type Edit struct {
	atoms []Atom
}

func (e *Edit) Atoms() []Atom {
	return e.atoms
}

// Apply splices every atom into the text in one pass.
func (e *Edit) Apply(content string) string {
	var buf strings.Builder
	last := 0
	for _, a := range e.atoms {
		buf.WriteString(content[last:a.Delete.Start])
		buf.WriteString(a.Insert)
		last = a.Delete.End
	}
	buf.WriteString(content[last:])
	return buf.String()
}

// Builder accumulates atoms and validates them on Finish.
type Builder struct {
	atoms []Atom
}

func NewBuilder() *Builder {
	return &Builder{}
}

func (b *Builder) Replace(rng text.Range, replaceWith string) {
	b.atoms = append(b.atoms, Replace(rng, replaceWith))
}

func (b *Builder) Delete(rng text.Range) {
	b.atoms = append(b.atoms, Delete(rng))
}

func (b *Builder) Insert(offset int, content string) {
	b.atoms = append(b.atoms, Insert(offset, content))
}

// Finish sorts the atoms and reports every overlapping pair found, not
// just the first.
func (b *Builder) Finish() (*Edit, error) {
	atoms := make([]Atom, len(b.atoms))
	copy(atoms, b.atoms)
	sort.SliceStable(atoms, func(i, j int) bool {
		return atoms[i].Delete.Start < atoms[j].Delete.Start
	})

	var err error
	for i := 1; i < len(atoms); i++ {
		prev, cur := atoms[i-1], atoms[i]
		if cur.Delete.Start < prev.Delete.End {
			err = multierr.Append(err, errors.Errorf(
				"overlapping edits: %s and %s", prev.Delete, cur.Delete,
			))
		}
	}
	if err != nil {
		return nil, err
	}
	return &Edit{atoms: atoms}, nil
}
