package tools

import (
	"context"

	"conform.dev/pkg/conform/internal/adapter"
	m "conform.dev/pkg/conform/internal/model"
)

// Semantic adds semantic analysis on top of parsing. Early errors surface here.
type Semantic struct {
	toolchain adapter.Toolchain
}

// NewSemantic constructs the semantic stage.
func NewSemantic(toolchain adapter.Toolchain) *Semantic {
	return &Semantic{toolchain: toolchain}
}

// Name implements domain.Tool.
func (s *Semantic) Name() string {
	return StageSemantic
}

// Execute implements domain.Tool.
func (s *Semantic) Execute(ctx context.Context, unit m.TestUnit) m.TestResult {
	if result, ok := checkParse(ctx, s.toolchain, unit); !ok {
		return result
	}

	if diagnostics := s.toolchain.Analyze(ctx, unit.Content, unit.SourceType); len(diagnostics) > 0 {
		return m.NewParseError(diagnostics)
	}

	return m.Pass()
}
