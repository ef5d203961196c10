package highlight_cmd

import (
	"context"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srclight/srclight/pkg/text"
)

func TestParseRange(t *testing.T) {
	tests := []struct {
		name    string
		spec    string
		want    *text.Range
		wantErr bool
	}{
		{name: "empty means full document", spec: "", want: nil},
		{name: "valid", spec: "4:10", want: &text.Range{Start: 4, End: 10}},
		{name: "empty range", spec: "7:7", want: &text.Range{Start: 7, End: 7}},
		{name: "missing separator", spec: "4", wantErr: true},
		{name: "end before start", spec: "10:4", wantErr: true},
		{name: "negative start", spec: "-1:4", wantErr: true},
		{name: "not numbers", spec: "a:b", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseRange(tt.spec)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "srclight.hcl", []byte(`
fixture_prefix      = "sample"
max_injection_depth = 4
rainbow             = true
`), 0o644))

	cfg, err := loadConfig(fsys, "srclight.hcl")
	require.NoError(t, err)
	require.NotNil(t, cfg.FixturePrefix)
	assert.Equal(t, "sample", *cfg.FixturePrefix)
	require.NotNil(t, cfg.MaxInjectionDepth)
	assert.Equal(t, 4, *cfg.MaxInjectionDepth)
	require.NotNil(t, cfg.Rainbow)
	assert.True(t, *cfg.Rainbow)
}

func TestLoadConfigPartial(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "srclight.hcl", []byte(`rainbow = true`), 0o644))

	cfg, err := loadConfig(fsys, "srclight.hcl")
	require.NoError(t, err)
	assert.Nil(t, cfg.FixturePrefix)
	assert.Nil(t, cfg.MaxInjectionDepth)
}

func TestExpandGlobs(t *testing.T) {
	fsys := afero.NewMemMapFs()
	for _, p := range []string{"src/a.rs", "src/b.rs", "src/deep/c.rs", "other.txt"} {
		require.NoError(t, afero.WriteFile(fsys, p, []byte("fn f() {}"), 0o644))
	}

	paths, err := expandGlobs(fsys, []string{"src/**/*.rs"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"src/a.rs", "src/b.rs", "src/deep/c.rs"}, paths)

	// a non-matching argument passes through untouched
	paths, err = expandGlobs(fsys, []string{"missing.rs"})
	require.NoError(t, err)
	assert.Equal(t, []string{"missing.rs"}, paths)
}

func TestRunTextFormat(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "main.rs", []byte("fn f() {\n    let x = 1;\n}\n"), 0o644))

	var out strings.Builder
	me := &Handler{format: "text"}
	require.NoError(t, me.Run(context.Background(), fsys, &out, []string{"main.rs"}))

	got := out.String()
	assert.Contains(t, got, "main.rs:1:1")
	assert.Contains(t, got, "keyword")
	assert.Contains(t, got, "variable.definition")
	assert.Contains(t, got, "hash=")
}

func TestRunHTMLFormat(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "main.rs", []byte("fn f() {}"), 0o644))

	var out strings.Builder
	me := &Handler{format: "html"}
	require.NoError(t, me.Run(context.Background(), fsys, &out, []string{"main.rs"}))

	assert.Contains(t, out.String(), `<span class="keyword">fn</span>`)
}

func TestRunUnknownFormat(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "main.rs", []byte("fn f() {}"), 0o644))

	var out strings.Builder
	me := &Handler{format: "yaml"}
	assert.Error(t, me.Run(context.Background(), fsys, &out, []string{"main.rs"}))
}
