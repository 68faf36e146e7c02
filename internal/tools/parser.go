package tools

import (
	"context"

	"conform.dev/pkg/conform/internal/adapter"
	m "conform.dev/pkg/conform/internal/model"
)

// Parser checks that the toolchain accepts exactly the valid programs.
type Parser struct {
	toolchain adapter.Toolchain
}

// NewParser constructs the parser stage.
func NewParser(toolchain adapter.Toolchain) *Parser {
	return &Parser{toolchain: toolchain}
}

// Name implements domain.Tool.
func (p *Parser) Name() string {
	return StageParser
}

// Execute implements domain.Tool.
func (p *Parser) Execute(ctx context.Context, unit m.TestUnit) m.TestResult {
	result, _ := checkParse(ctx, p.toolchain, unit)
	return result
}
