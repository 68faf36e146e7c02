// Package tools implements one Tool Adapter per pipeline stage of the toolchain
// under test. Each adapter decides what executing a single unit means for its stage
// and classifies the outcome; expectation handling is left to the case.
package tools

import (
	"context"
	"strings"

	"conform.dev/pkg/conform/internal/adapter"
	m "conform.dev/pkg/conform/internal/model"
)

// Stage names, used as the prefix of suite names.
const (
	StageParser      = "parser"
	StageSemantic    = "semantic"
	StageCodegen     = "codegen"
	StageTransformer = "transformer"
	StageTranspile   = "transpile"
	StageMinifier    = "minifier"
	StagePrettier    = "prettier"
	StageRuntime     = "runtime"
)

// roundTrip is embedded by stages that compare printed output. Input that is expected
// to be rejected has no output to compare, so those cases are left out.
type roundTrip struct{}

// SkipCase reports whether the case is excluded from this stage.
func (roundTrip) SkipCase(_ m.Path, shouldFail bool) bool {
	return shouldFail
}

func splitLines(s string) []string {
	return strings.Split(strings.TrimRight(s, "\n"), "\n")
}

// checkParse classifies the input itself: a unit that does not parse cannot be judged
// by any later stage.
func checkParse(ctx context.Context, tc adapter.Toolchain, unit m.TestUnit) (m.TestResult, bool) {
	if diagnostics := tc.Parse(ctx, unit.Content, unit.SourceType); len(diagnostics) > 0 {
		return m.NewParseError(diagnostics), false
	}

	return m.Pass(), true
}

// asJavaScript returns the source type printed output is reparsed with. Every
// printing entry point emits plain JavaScript.
func asJavaScript(st m.SourceType) m.SourceType {
	st.Dialect = m.DialectJS
	return st
}
