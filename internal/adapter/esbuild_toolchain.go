package adapter

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/evanw/esbuild/pkg/api"

	m "conform.dev/pkg/conform/internal/model"
)

const strictTsconfig = `{"compilerOptions":{"alwaysStrict":true}}`

// EsbuildToolchain drives esbuild's transform API as the toolchain under test.
type EsbuildToolchain struct{}

// NewEsbuildToolchain constructs an EsbuildToolchain.
func NewEsbuildToolchain() *EsbuildToolchain {
	return &EsbuildToolchain{}
}

// Parse implements Toolchain.
func (t *EsbuildToolchain) Parse(ctx context.Context, source string, st m.SourceType) Diagnostics {
	_, diagnostics := t.transform(ctx, source, t.options(st))
	return diagnostics
}

// Analyze implements Toolchain.
func (t *EsbuildToolchain) Analyze(ctx context.Context, source string, st m.SourceType) Diagnostics {
	opts := t.options(st)
	if st.Strict {
		opts.TsconfigRaw = strictTsconfig
	}

	_, diagnostics := t.transform(ctx, source, opts)

	return diagnostics
}

// Generate implements Toolchain.
func (t *EsbuildToolchain) Generate(ctx context.Context, source string, st m.SourceType) (string, Diagnostics) {
	return t.transform(ctx, source, t.options(st))
}

// Transform implements Toolchain.
func (t *EsbuildToolchain) Transform(ctx context.Context, source string, st m.SourceType, opts TransformOptions) (string, Diagnostics) {
	options := t.options(st)

	target, err := parseTarget(opts.Target)
	if err != nil {
		return "", Diagnostics{err.Error()}
	}

	options.Target = target

	return t.transform(ctx, source, options)
}

// Minify implements Toolchain.
func (t *EsbuildToolchain) Minify(ctx context.Context, source string, st m.SourceType) (string, Diagnostics) {
	options := t.options(st)
	options.MinifyWhitespace = true
	options.MinifyIdentifiers = true
	options.MinifySyntax = true

	return t.transform(ctx, source, options)
}

// PrettyPrint implements Toolchain.
func (t *EsbuildToolchain) PrettyPrint(ctx context.Context, source string, st m.SourceType) (string, Diagnostics) {
	options := t.options(st)
	options.LegalComments = api.LegalCommentsInline
	options.Charset = api.CharsetUTF8

	return t.transform(ctx, source, options)
}

func (t *EsbuildToolchain) options(st m.SourceType) api.TransformOptions {
	options := api.TransformOptions{
		Loader:     loaderFor(st.Dialect),
		Sourcefile: "input." + string(st.Dialect),
		Target:     api.ESNext,
		LogLevel:   api.LogLevelSilent,
	}

	if st.IsModule() {
		options.Format = api.FormatESModule
	}

	return options
}

func (t *EsbuildToolchain) transform(ctx context.Context, source string, options api.TransformOptions) (string, Diagnostics) {
	if err := ctx.Err(); err != nil {
		return "", Diagnostics{err.Error()}
	}

	result := api.Transform(source, options)
	if len(result.Errors) > 0 {
		slog.Debug("Toolchain reported errors", "file", options.Sourcefile, "count", len(result.Errors))
		return "", formatMessages(result.Errors)
	}

	return string(result.Code), nil
}

func loaderFor(dialect m.Dialect) api.Loader {
	switch dialect {
	case m.DialectJSX:
		return api.LoaderJSX
	case m.DialectTS:
		return api.LoaderTS
	case m.DialectTSX:
		return api.LoaderTSX
	default:
		return api.LoaderJS
	}
}

func parseTarget(target string) (api.Target, error) {
	switch strings.ToLower(strings.TrimSpace(target)) {
	case "", "esnext":
		return api.ESNext, nil
	case "es5":
		return api.ES5, nil
	case "es2015", "es6":
		return api.ES2015, nil
	case "es2016":
		return api.ES2016, nil
	case "es2017":
		return api.ES2017, nil
	case "es2018":
		return api.ES2018, nil
	case "es2019":
		return api.ES2019, nil
	case "es2020":
		return api.ES2020, nil
	case "es2021":
		return api.ES2021, nil
	case "es2022":
		return api.ES2022, nil
	}

	return api.DefaultTarget, fmt.Errorf("unsupported transform target %q", target)
}

func formatMessages(messages []api.Message) Diagnostics {
	diagnostics := make(Diagnostics, 0, len(messages))

	for _, msg := range messages {
		if msg.Location == nil {
			diagnostics = append(diagnostics, msg.Text)
			continue
		}

		diagnostics = append(diagnostics, fmt.Sprintf("%d:%d: %s", msg.Location.Line, msg.Location.Column, msg.Text))
	}

	return diagnostics
}
