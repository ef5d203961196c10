package rustlite_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srclight/srclight/pkg/resolve"
	"github.com/srclight/srclight/pkg/rustlite"
	"github.com/srclight/srclight/pkg/syntax"
)

func mustAnalyze(t *testing.T, src string) *rustlite.Analysis {
	t.Helper()
	a, err := rustlite.NewAnalysis(src)
	require.NoError(t, err)
	require.NoError(t, a.Diagnostics())
	return a
}

// nodeWithText finds the nth element of the given kind whose first token
// matches the text.
func nodeWithText(t *testing.T, root syntax.Element, kind syntax.Kind, text string, n int) syntax.Element {
	t.Helper()
	var found syntax.Element
	count := 0
	err := syntax.Walk(root, func(ev syntax.WalkEvent) error {
		if !ev.Enter || ev.Element.Kind() != kind {
			return nil
		}
		tok, ok := ev.Element.FirstToken()
		if !ok || tok.TokenText() != text {
			return nil
		}
		count++
		if count == n {
			found = ev.Element
		}
		return nil
	})
	require.NoError(t, err)
	require.GreaterOrEqual(t, count, n, "occurrence %d of %s %q", n, kind, text)
	return found
}

func TestClassifyNameKinds(t *testing.T) {
	src := `struct Point { x: u32 }
enum Shape { Circle }
trait Draw {}
type Alias = Point;
const LIMIT: u32 = 8;
static TOTAL: u32 = 0;
mod geometry {}
fn origin() {}`

	a := mustAnalyze(t, src)
	o := a.Oracle()

	tests := []struct {
		name string
		want resolve.DefKind
	}{
		{name: "Point", want: resolve.DefStruct},
		{name: "Shape", want: resolve.DefEnum},
		{name: "Circle", want: resolve.DefEnumVariant},
		{name: "Draw", want: resolve.DefTrait},
		{name: "Alias", want: resolve.DefTypeAlias},
		{name: "LIMIT", want: resolve.DefConst},
		{name: "TOTAL", want: resolve.DefStatic},
		{name: "geometry", want: resolve.DefModule},
		{name: "origin", want: resolve.DefFunction},
		{name: "x", want: resolve.DefField},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nm := nodeWithText(t, a.Root(), syntax.KindName, tt.name, 1)
			got := o.ClassifyName(nm)
			require.NotNil(t, got)
			assert.Equal(t, resolve.NameDefinition, got.Kind)
			assert.Equal(t, tt.want, got.Def.Kind)
		})
	}
}

func TestClassifyNameLocals(t *testing.T) {
	src := `fn f() {
    let a = 1;
    let mut b = 2;
}`
	a := mustAnalyze(t, src)
	o := a.Oracle()

	plain := o.ClassifyName(nodeWithText(t, a.Root(), syntax.KindName, "a", 1))
	require.NotNil(t, plain)
	require.Equal(t, resolve.DefLocal, plain.Def.Kind)
	require.NotNil(t, plain.Def.Local)
	assert.False(t, plain.Def.Local.Mutable)

	mut := o.ClassifyName(nodeWithText(t, a.Root(), syntax.KindName, "b", 1))
	require.NotNil(t, mut)
	require.NotNil(t, mut.Def.Local)
	assert.True(t, mut.Def.Local.Mutable)
}

func TestClassifyNameRefResolution(t *testing.T) {
	src := `struct Point { x: u32 }

fn f(p: u32) {
    let a = p;
    let b = a;
    let c = Point { x: b };
    let d = undefined_name;
}`
	a := mustAnalyze(t, src)
	o := a.Oracle()

	pRef := o.ClassifyNameRef(nodeWithText(t, a.Root(), syntax.KindNameRef, "p", 1))
	require.NotNil(t, pRef)
	assert.Equal(t, resolve.DefLocal, pRef.Def.Kind)

	aRef := o.ClassifyNameRef(nodeWithText(t, a.Root(), syntax.KindNameRef, "a", 1))
	require.NotNil(t, aRef)
	assert.Equal(t, resolve.DefLocal, aRef.Def.Kind)

	structRef := o.ClassifyNameRef(nodeWithText(t, a.Root(), syntax.KindNameRef, "Point", 1))
	require.NotNil(t, structRef)
	assert.Equal(t, resolve.DefStruct, structRef.Def.Kind)

	fieldRef := o.ClassifyNameRef(nodeWithText(t, a.Root(), syntax.KindNameRef, "x", 1))
	require.NotNil(t, fieldRef)
	assert.Equal(t, resolve.RefDefinition, fieldRef.Kind)
	assert.Equal(t, resolve.DefField, fieldRef.Def.Kind)

	assert.Nil(t, o.ClassifyNameRef(nodeWithText(t, a.Root(), syntax.KindNameRef, "undefined_name", 1)))

	u32Ref := o.ClassifyNameRef(nodeWithText(t, a.Root(), syntax.KindNameRef, "u32", 1))
	require.NotNil(t, u32Ref)
	assert.Equal(t, resolve.DefBuiltinType, u32Ref.Def.Kind)
}

func TestClassifyNameRefFieldShorthand(t *testing.T) {
	src := `struct Point { x: u32 }

fn f(x: u32) {
    let p = Point { x };
}`
	a := mustAnalyze(t, src)
	o := a.Oracle()

	shorthand := o.ClassifyNameRef(nodeWithText(t, a.Root(), syntax.KindNameRef, "x", 1))
	require.NotNil(t, shorthand)
	assert.Equal(t, resolve.RefFieldShorthand, shorthand.Kind)
}

func TestResolutionRespectsShadowingOrder(t *testing.T) {
	src := `fn f() {
    let x = 1;
    let x = 2;
    let y = x;
}`
	a := mustAnalyze(t, src)
	o := a.Oracle()

	// x resolves to a binding; nearest-preceding-let wins, which the engine
	// then pairs with the latest shadow generation
	ref := o.ClassifyNameRef(nodeWithText(t, a.Root(), syntax.KindNameRef, "x", 1))
	require.NotNil(t, ref)
	assert.Equal(t, resolve.DefLocal, ref.Def.Kind)
}

func TestCallInfoForToken(t *testing.T) {
	src := `fn draw(shape: u32, color: u32) {}

fn main() {
    draw(1, 2);
}`
	a := mustAnalyze(t, src)
	o := a.Oracle()

	first := nodeWithText(t, a.Root(), syntax.KindIntNumber, "1", 1)
	info := o.CallInfoForToken(first)
	require.NotNil(t, info)
	assert.Equal(t, 0, info.ActiveParameter)
	assert.Equal(t, []string{"shape", "color"}, info.ParameterNames)

	second := nodeWithText(t, a.Root(), syntax.KindIntNumber, "2", 1)
	info = o.CallInfoForToken(second)
	require.NotNil(t, info)
	assert.Equal(t, 1, info.ActiveParameter)

	// a token outside any call has no call info
	fnName := nodeWithText(t, a.Root(), syntax.KindName, "draw", 1)
	tok, ok := fnName.FirstToken()
	require.True(t, ok)
	assert.Nil(t, o.CallInfoForToken(tok))
}

func TestDescendIntoMacrosIsIdentity(t *testing.T) {
	a := mustAnalyze(t, `fn f() { m!(x); }`)

	tok := nodeWithText(t, a.Root(), syntax.KindTokenTree, "(", 1)
	inner, ok := tok.FirstToken()
	require.True(t, ok)
	assert.Equal(t, inner, a.Oracle().DescendIntoMacros(inner))
}

func TestAnalysisSessions(t *testing.T) {
	a := mustAnalyze(t, "fn f() {}")
	b, err := a.FromSingleText("fn g() {}")
	require.NoError(t, err)

	nested, ok := b.(*rustlite.Analysis)
	require.True(t, ok)
	assert.NotEqual(t, a.ID(), nested.ID(), "each snapshot has its own identity")
	assert.Equal(t, "fn g() {}", nested.Source())
	assert.NotEqual(t, a.Root(), b.Root())
}
