package tools

import (
	"context"

	"conform.dev/pkg/conform/internal/adapter"
	m "conform.dev/pkg/conform/internal/model"
)

// esnext only strips the type syntax; nothing is lowered.
var stripTypes = adapter.TransformOptions{Target: "esnext"}

// Transpiler checks that TypeScript input turns into plain JavaScript that parses, and
// that transpiling that JavaScript again leaves it unchanged.
type Transpiler struct {
	roundTrip

	toolchain adapter.Toolchain
}

// NewTranspiler constructs the transpile stage.
func NewTranspiler(toolchain adapter.Toolchain) *Transpiler {
	return &Transpiler{toolchain: toolchain}
}

// Name implements domain.Tool.
func (t *Transpiler) Name() string {
	return StageTranspile
}

// Execute implements domain.Tool.
func (t *Transpiler) Execute(ctx context.Context, unit m.TestUnit) m.TestResult {
	if result, ok := checkParse(ctx, t.toolchain, unit); !ok {
		return result
	}

	first, diagnostics := t.toolchain.Transform(ctx, unit.Content, unit.SourceType, stripTypes)
	if len(diagnostics) > 0 {
		return m.NewMismatch(true, diagnostics)
	}

	js := asJavaScript(unit.SourceType)
	if diagnostics := t.toolchain.Parse(ctx, first, js); len(diagnostics) > 0 {
		return m.NewMismatch(true, diagnostics)
	}

	second, diagnostics := t.toolchain.Transform(ctx, first, js, stripTypes)
	if len(diagnostics) > 0 {
		return m.NewMismatch(true, diagnostics)
	}

	if first != second {
		return m.NewOutputMismatch("transpiled output is not stable", splitLines(first), splitLines(second))
	}

	return m.Pass()
}
