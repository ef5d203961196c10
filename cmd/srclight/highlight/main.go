package highlight_cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/hashicorp/hcl/v2/hclsimple"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/srclight/srclight/pkg/highlight"
	"github.com/srclight/srclight/pkg/lineindex"
	"github.com/srclight/srclight/pkg/rustlite"
	"github.com/srclight/srclight/pkg/text"
)

type Handler struct {
	format     string
	rangeSpec  string
	configPath string
	rainbow    bool
	debug      bool
}

// fileConfig is the optional HCL configuration file.
type fileConfig struct {
	FixturePrefix     *string `hcl:"fixture_prefix,optional"`
	MaxInjectionDepth *int    `hcl:"max_injection_depth,optional"`
	Rainbow           *bool   `hcl:"rainbow,optional"`
}

func NewHighlightCommand() *cobra.Command {
	me := &Handler{}

	cmd := &cobra.Command{
		Use:   "highlight [globs...]",
		Short: "emit semantic highlights for source files",
		Args:  cobra.MinimumNArgs(1),
	}

	cmd.Flags().StringVar(&me.format, "format", "text", "output format: text, html or ansi")
	cmd.Flags().StringVar(&me.rangeSpec, "range", "", "restrict to a byte range, start:end")
	cmd.Flags().StringVar(&me.configPath, "config", "", "HCL configuration file")
	cmd.Flags().BoolVar(&me.rainbow, "rainbow", false, "color variables by binding identity (html only)")
	cmd.Flags().BoolVar(&me.debug, "debug", false, "enable debug logging")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return me.Run(cmd.Context(), afero.NewOsFs(), cmd.OutOrStdout(), args)
	}

	return cmd
}

func (me *Handler) Run(ctx context.Context, fsys afero.Fs, out io.Writer, args []string) error {
	level := zerolog.InfoLevel
	if me.debug {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()
	ctx = log.WithContext(ctx)

	hl := highlight.New()
	if me.configPath != "" {
		cfg, err := loadConfig(fsys, me.configPath)
		if err != nil {
			return err
		}
		if cfg.FixturePrefix != nil {
			hl.FixturePrefix = *cfg.FixturePrefix
		}
		if cfg.MaxInjectionDepth != nil {
			hl.MaxInjectionDepth = *cfg.MaxInjectionDepth
		}
		if cfg.Rainbow != nil {
			me.rainbow = *cfg.Rainbow
		}
	}

	rng, err := parseRange(me.rangeSpec)
	if err != nil {
		return err
	}

	paths, err := expandGlobs(fsys, args)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return errors.Errorf("no files matched %v", args)
	}

	for _, path := range paths {
		if err := me.highlightFile(ctx, fsys, out, hl, path, rng, len(paths) > 1); err != nil {
			return errors.Errorf("highlighting %s: %w", path, err)
		}
	}
	return nil
}

func (me *Handler) highlightFile(ctx context.Context, fsys afero.Fs, out io.Writer, hl *highlight.Highlighter, path string, rng *text.Range, header bool) error {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return errors.Errorf("reading file: %w", err)
	}
	source := string(data)

	sess, err := rustlite.NewAnalysis(source)
	if err != nil {
		return errors.Errorf("parsing file: %w", err)
	}
	if diags := sess.Diagnostics(); diags != nil {
		zerolog.Ctx(ctx).Warn().Str("path", path).Err(diags).Msg("source has parse errors; highlighting best effort")
	}

	ranges, err := hl.Highlight(ctx, sess, rng)
	if err != nil {
		return err
	}

	if header {
		fmt.Fprintf(out, "== %s ==\n", path)
	}

	switch me.format {
	case "text":
		li := lineindex.New(source)
		for _, r := range ranges {
			lc := li.LineCol(r.Range.Start)
			fmt.Fprintf(out, "%s:%d:%d %s %s", path, lc.Line+1, lc.ColUTF16+1, r.Range, r.Highlight)
			if r.BindingHash != 0 {
				fmt.Fprintf(out, " hash=%d", r.BindingHash)
			}
			fmt.Fprintln(out)
		}
	case "html":
		fmt.Fprintln(out, highlight.RenderHTML(source, ranges, highlight.RenderOptions{Rainbow: me.rainbow}))
	case "ansi":
		if err := renderANSI(out, source, ranges); err != nil {
			return errors.Errorf("rendering terminal output: %w", err)
		}
	default:
		return errors.Errorf("unknown format %q", me.format)
	}
	return nil
}

func loadConfig(fsys afero.Fs, path string) (*fileConfig, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, errors.Errorf("reading config: %w", err)
	}
	var cfg fileConfig
	if err := hclsimple.Decode(filepath.Base(path), data, nil, &cfg); err != nil {
		return nil, errors.Errorf("decoding config: %w", err)
	}
	return &cfg, nil
}

func parseRange(spec string) (*text.Range, error) {
	if spec == "" {
		return nil, nil
	}
	startStr, endStr, ok := strings.Cut(spec, ":")
	if !ok {
		return nil, errors.Errorf("range must be start:end, got %q", spec)
	}
	start, err := strconv.Atoi(startStr)
	if err != nil {
		return nil, errors.Errorf("parsing range start: %w", err)
	}
	end, err := strconv.Atoi(endStr)
	if err != nil {
		return nil, errors.Errorf("parsing range end: %w", err)
	}
	if start < 0 || end < start {
		return nil, errors.Errorf("invalid range %d:%d", start, end)
	}
	return &text.Range{Start: start, End: end}, nil
}

// expandGlobs resolves each argument as a doublestar glob; arguments with
// no matches pass through as literal paths.
func expandGlobs(fsys afero.Fs, args []string) ([]string, error) {
	iofs := afero.NewIOFS(fsys)
	var paths []string
	for _, arg := range args {
		pattern := filepath.ToSlash(arg)
		if !doublestar.ValidatePattern(pattern) {
			return nil, errors.Errorf("invalid glob %q", arg)
		}
		matches, err := doublestar.Glob(iofs, pattern)
		if err != nil {
			return nil, errors.Errorf("expanding glob %q: %w", arg, err)
		}
		if len(matches) == 0 {
			paths = append(paths, arg)
			continue
		}
		paths = append(paths, matches...)
	}
	return paths, nil
}

// renderANSI maps semantic tags onto chroma token types and renders with
// chroma's true-color terminal formatter.
func renderANSI(out io.Writer, source string, ranges []highlight.HighlightedRange) error {
	tokens := flattenTokens(source, ranges)
	style := styles.Get("monokai")
	if style == nil {
		style = styles.Fallback
	}
	return formatters.TTY16m.Format(out, style, chroma.Literator(tokens...))
}

// flattenTokens splits the source into chroma tokens, innermost range
// winning per byte when ranges nest.
func flattenTokens(source string, ranges []highlight.HighlightedRange) []chroma.Token {
	owner := make([]int, len(source))
	for i := range owner {
		owner[i] = -1
	}
	for i, r := range ranges {
		start := max(r.Range.Start, 0)
		end := min(r.Range.End, len(source))
		for b := start; b < end; b++ {
			owner[b] = i
		}
	}

	var tokens []chroma.Token
	for i := 0; i < len(source); {
		j := i
		for j < len(source) && owner[j] == owner[i] {
			j++
		}
		typ := chroma.Text
		if owner[i] >= 0 {
			typ = chromaTokenType(ranges[owner[i]].Highlight)
		}
		tokens = append(tokens, chroma.Token{Type: typ, Value: source[i:j]})
		i = j
	}
	return tokens
}

func chromaTokenType(h highlight.Highlight) chroma.TokenType {
	switch h.Tag {
	case highlight.TagKeyword:
		return chroma.Keyword
	case highlight.TagComment:
		return chroma.Comment
	case highlight.TagStringLiteral:
		return chroma.LiteralString
	case highlight.TagNumericLiteral:
		return chroma.LiteralNumber
	case highlight.TagByteLiteral:
		return chroma.LiteralStringOther
	case highlight.TagCharLiteral:
		return chroma.LiteralStringChar
	case highlight.TagAttribute:
		return chroma.NameAttribute
	case highlight.TagLifetime:
		return chroma.NameLabel
	case highlight.TagMacro:
		return chroma.NameFunctionMagic
	case highlight.TagField:
		return chroma.NameProperty
	case highlight.TagModule:
		return chroma.NameNamespace
	case highlight.TagFunction:
		return chroma.NameFunction
	case highlight.TagStruct, highlight.TagEnum, highlight.TagUnion,
		highlight.TagTrait, highlight.TagTypeAlias, highlight.TagSelfType,
		highlight.TagTypeParam:
		return chroma.NameClass
	case highlight.TagEnumVariant:
		return chroma.NameConstant
	case highlight.TagConstant, highlight.TagStatic:
		return chroma.NameConstant
	case highlight.TagBuiltinType:
		return chroma.KeywordType
	case highlight.TagLocal:
		return chroma.NameVariable
	default:
		return chroma.Text
	}
}
