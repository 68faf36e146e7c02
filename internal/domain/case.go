package domain

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"runtime/debug"

	m "conform.dev/pkg/conform/internal/model"
)

// Tool specializes what executing one unit means for one pipeline stage.
type Tool interface {
	// Name is the stage name used as the suite name prefix.
	Name() string
	// Execute runs one unit through the stage and classifies the raw outcome.
	Execute(ctx context.Context, unit m.TestUnit) m.TestResult
}

// CaseSkipper is implemented by tools that cannot score some cases, e.g. round-trip
// stages that have nothing to compare for input that is expected to be rejected.
type CaseSkipper interface {
	SkipCase(path m.Path, shouldFail bool) bool
}

// Case is one discovered fixture together with its last computed outcome.
type Case struct {
	Path       m.Path
	Code       string
	ShouldFail bool
	Result     m.TestResult

	units []m.TestUnit
}

// NewCase builds a case from a discovered fixture. The fixture units are copied.
func NewCase(fixture m.Fixture) *Case {
	units := make([]m.TestUnit, len(fixture.Units))
	copy(units, fixture.Units)

	return &Case{
		Path:       fixture.Path,
		Code:       fixture.Code,
		ShouldFail: fixture.ShouldFail,
		units:      units,
	}
}

// Units yields the case units in order. The sequence can be ranged over any number of times.
func (c *Case) Units() iter.Seq[m.TestUnit] {
	return func(yield func(m.TestUnit) bool) {
		for _, unit := range c.units {
			if !yield(unit) {
				return
			}
		}
	}
}

// Run executes every unit with tool, stopping at the first non-Passed result, and stores
// the reconciled outcome. A panic inside the tool becomes a RuntimeError.
func (c *Case) Run(ctx context.Context, tool Tool) {
	c.Result = Reconcile(c.ShouldFail, c.execute(ctx, tool))
}

func (c *Case) execute(ctx context.Context, tool Tool) (result m.TestResult) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Tool panicked", "tool", tool.Name(), "path", c.Path, "panic", r, "stack", string(debug.Stack()))
			result = m.NewRuntimeError(fmt.Sprintf("panic: %v", r))
		}
	}()

	for unit := range c.Units() {
		if err := ctx.Err(); err != nil {
			return m.NewRuntimeError(err.Error())
		}

		c.Code = unit.Content

		result = tool.Execute(ctx, unit)
		if result.Kind != m.Passed {
			return result
		}
	}

	return m.Pass()
}

// Reconcile maps a raw outcome onto the declared expectation of a case.
func Reconcile(shouldFail bool, raw m.TestResult) m.TestResult {
	if !shouldFail {
		return raw
	}

	switch {
	case raw.Kind == m.Passed:
		return m.TestResult{Kind: m.IncorrectlyPassed}
	case raw.Kind.IsFailure():
		return m.TestResult{Kind: m.CorrectError, Diagnostics: raw.Diagnostics}
	default:
		return raw
	}
}
