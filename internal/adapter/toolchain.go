package adapter

import (
	"context"

	m "conform.dev/pkg/conform/internal/model"
)

// Diagnostics are the messages a toolchain entry point reported. Empty means clean.
type Diagnostics []string

// TransformOptions configures the transform entry point.
type TransformOptions struct {
	// Target is the language level to lower syntax to, e.g. "es2015" or "esnext".
	Target string
}

// Toolchain is the compiler under test. The syntax tree stays internal to the
// toolchain: every entry point starts from source text and a source type.
type Toolchain interface {
	// Parse reports syntax errors.
	Parse(ctx context.Context, source string, st m.SourceType) Diagnostics
	// Analyze reports syntax and semantic errors.
	Analyze(ctx context.Context, source string, st m.SourceType) Diagnostics
	// Generate prints the parsed program back to source text.
	Generate(ctx context.Context, source string, st m.SourceType) (string, Diagnostics)
	// Transform lowers the program according to opts.
	Transform(ctx context.Context, source string, st m.SourceType, opts TransformOptions) (string, Diagnostics)
	// Minify compresses the program.
	Minify(ctx context.Context, source string, st m.SourceType) (string, Diagnostics)
	// PrettyPrint formats the program.
	PrettyPrint(ctx context.Context, source string, st m.SourceType) (string, Diagnostics)
}
