package tools

import (
	"context"

	"conform.dev/pkg/conform/internal/adapter"
	m "conform.dev/pkg/conform/internal/model"
)

// Minifier checks that minified output parses and that minifying is idempotent.
type Minifier struct {
	roundTrip

	toolchain adapter.Toolchain
}

// NewMinifier constructs the minifier stage.
func NewMinifier(toolchain adapter.Toolchain) *Minifier {
	return &Minifier{toolchain: toolchain}
}

// Name implements domain.Tool.
func (mn *Minifier) Name() string {
	return StageMinifier
}

// Execute implements domain.Tool.
func (mn *Minifier) Execute(ctx context.Context, unit m.TestUnit) m.TestResult {
	if result, ok := checkParse(ctx, mn.toolchain, unit); !ok {
		return result
	}

	first, diagnostics := mn.toolchain.Minify(ctx, unit.Content, unit.SourceType)
	if len(diagnostics) > 0 {
		return m.NewMismatch(true, diagnostics)
	}

	second, diagnostics := mn.toolchain.Minify(ctx, first, asJavaScript(unit.SourceType))
	if len(diagnostics) > 0 {
		return m.NewMismatch(true, diagnostics)
	}

	if first != second {
		return m.NewOutputMismatch("minified output is not stable", splitLines(first), splitLines(second))
	}

	return m.Pass()
}
