package tools

import (
	"context"
	"log/slog"

	"conform.dev/pkg/conform/internal/adapter"
	m "conform.dev/pkg/conform/internal/model"
)

// Runtime executes generated code in the external runtime process. A program that
// throws is a Mismatch; a runtime that cannot answer is a RuntimeError.
type Runtime struct {
	roundTrip

	toolchain adapter.Toolchain
	client    adapter.RuntimeClient
}

// NewRuntime constructs the runtime stage.
func NewRuntime(toolchain adapter.Toolchain, client adapter.RuntimeClient) *Runtime {
	return &Runtime{toolchain: toolchain, client: client}
}

// Name implements domain.Tool.
func (r *Runtime) Name() string {
	return StageRuntime
}

// Execute implements domain.Tool.
func (r *Runtime) Execute(ctx context.Context, unit m.TestUnit) m.TestResult {
	code, diagnostics := r.toolchain.Generate(ctx, unit.Content, unit.SourceType)
	if len(diagnostics) > 0 {
		return m.NewParseError(diagnostics)
	}

	failure, err := r.client.Execute(ctx, adapter.RuntimeExecution{Code: code, IsModule: unit.SourceType.IsModule()})
	if err != nil {
		slog.Error("Runtime execution failed", "unit", unit.Name, "error", err)
		return m.NewRuntimeError(err.Error())
	}

	if failure != "" {
		return m.NewMismatch(true, []string{failure})
	}

	return m.Pass()
}
