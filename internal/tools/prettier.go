package tools

import (
	"context"

	"conform.dev/pkg/conform/internal/adapter"
	m "conform.dev/pkg/conform/internal/model"
)

// Prettier checks that pretty printing is idempotent.
type Prettier struct {
	roundTrip

	toolchain adapter.Toolchain
}

// NewPrettier constructs the pretty-print stage.
func NewPrettier(toolchain adapter.Toolchain) *Prettier {
	return &Prettier{toolchain: toolchain}
}

// Name implements domain.Tool.
func (p *Prettier) Name() string {
	return StagePrettier
}

// Execute implements domain.Tool.
func (p *Prettier) Execute(ctx context.Context, unit m.TestUnit) m.TestResult {
	first, diagnostics := p.toolchain.PrettyPrint(ctx, unit.Content, unit.SourceType)
	if len(diagnostics) > 0 {
		return m.NewParseError(diagnostics)
	}

	second, diagnostics := p.toolchain.PrettyPrint(ctx, first, asJavaScript(unit.SourceType))
	if len(diagnostics) > 0 {
		return m.NewMismatch(true, diagnostics)
	}

	if first != second {
		return m.NewOutputMismatch("pretty printed output is not stable", splitLines(first), splitLines(second))
	}

	return m.Pass()
}
