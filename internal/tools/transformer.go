package tools

import (
	"context"

	"conform.dev/pkg/conform/internal/adapter"
	m "conform.dev/pkg/conform/internal/model"
)

// Transformer checks that lowering succeeds on valid input and yields parseable output.
type Transformer struct {
	roundTrip

	toolchain adapter.Toolchain
	options   adapter.TransformOptions
}

// NewTransformer constructs the transformer stage.
func NewTransformer(toolchain adapter.Toolchain, options adapter.TransformOptions) *Transformer {
	return &Transformer{toolchain: toolchain, options: options}
}

// Name implements domain.Tool.
func (t *Transformer) Name() string {
	return StageTransformer
}

// Execute implements domain.Tool.
func (t *Transformer) Execute(ctx context.Context, unit m.TestUnit) m.TestResult {
	if result, ok := checkParse(ctx, t.toolchain, unit); !ok {
		return result
	}

	output, diagnostics := t.toolchain.Transform(ctx, unit.Content, unit.SourceType, t.options)
	if len(diagnostics) > 0 {
		return m.NewMismatch(true, diagnostics)
	}

	if diagnostics := t.toolchain.Parse(ctx, output, asJavaScript(unit.SourceType)); len(diagnostics) > 0 {
		return m.NewMismatch(true, diagnostics)
	}

	return m.Pass()
}
