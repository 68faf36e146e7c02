package tools

import (
	"context"

	"conform.dev/pkg/conform/internal/adapter"
	m "conform.dev/pkg/conform/internal/model"
)

// Codegen checks that printing a program and printing the reparsed output agree.
type Codegen struct {
	roundTrip

	toolchain adapter.Toolchain
}

// NewCodegen constructs the codegen stage.
func NewCodegen(toolchain adapter.Toolchain) *Codegen {
	return &Codegen{toolchain: toolchain}
}

// Name implements domain.Tool.
func (c *Codegen) Name() string {
	return StageCodegen
}

// Execute implements domain.Tool.
func (c *Codegen) Execute(ctx context.Context, unit m.TestUnit) m.TestResult {
	first, diagnostics := c.toolchain.Generate(ctx, unit.Content, unit.SourceType)
	if len(diagnostics) > 0 {
		return m.NewParseError(diagnostics)
	}

	second, diagnostics := c.toolchain.Generate(ctx, first, asJavaScript(unit.SourceType))
	if len(diagnostics) > 0 {
		return m.NewMismatch(true, diagnostics)
	}

	if first != second {
		return m.NewOutputMismatch("generated code changed after reparse", splitLines(first), splitLines(second))
	}

	return m.Pass()
}
