package rustlite

import (
	"github.com/google/uuid"
	"gitlab.com/tozd/go/errors"

	"github.com/srclight/srclight/pkg/resolve"
	"github.com/srclight/srclight/pkg/syntax"
)

// Analysis is one parsed document snapshot: tree, resolver and identity.
// It implements resolve.Session.
type Analysis struct {
	id     uuid.UUID
	source string
	tree   *syntax.Tree
	oracle *oracle
	// diags holds advisory parse diagnostics; the tree is usable regardless.
	diags error
}

// NewAnalysis parses the source into a fresh session. Parse diagnostics do
// not fail construction; read them off Diagnostics.
func NewAnalysis(source string) (*Analysis, error) {
	tree, diags := Parse(source)
	if tree == nil {
		return nil, errors.Errorf("parsing document: %w", diags)
	}
	return &Analysis{
		id:     uuid.New(),
		source: source,
		tree:   tree,
		oracle: &oracle{tree: tree},
		diags:  diags,
	}, nil
}

// ID is the unique identity of this snapshot.
func (a *Analysis) ID() uuid.UUID {
	return a.id
}

// Source returns the exact text this analysis was built from.
func (a *Analysis) Source() string {
	return a.source
}

// Diagnostics returns the aggregated parse diagnostics, nil when the
// source parsed cleanly.
func (a *Analysis) Diagnostics() error {
	return a.diags
}

func (a *Analysis) Tree() *syntax.Tree {
	return a.tree
}

func (a *Analysis) Root() syntax.Element {
	return a.tree.Root()
}

func (a *Analysis) Oracle() resolve.Oracle {
	return a.oracle
}

// FromSingleText builds an independent session over arbitrary text, used
// for fixture source embedded in string literals.
func (a *Analysis) FromSingleText(content string) (resolve.Session, error) {
	return NewAnalysis(content)
}
