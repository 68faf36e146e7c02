package model

import (
	"fmt"
	"strings"
)

// ResultKind is the closed set of outcomes a single case execution can produce.
// The declaration order is the aggregation order: a larger kind is a worse outcome.
type ResultKind int

const (
	// Passed indicates every unit of the case behaved correctly.
	Passed ResultKind = iota
	// CorrectError indicates a case expected to fail did fail.
	CorrectError
	// Mismatch indicates the tool produced output that differs from what was expected.
	Mismatch
	// ParseError indicates the tool rejected input it should have accepted.
	ParseError
	// RuntimeError indicates the tool crashed, panicked or could not be reached.
	RuntimeError
	// IncorrectlyPassed indicates a case expected to fail was accepted.
	IncorrectlyPassed
)

// ResultKinds lists every kind in aggregation order.
var ResultKinds = []ResultKind{Passed, CorrectError, Mismatch, ParseError, RuntimeError, IncorrectlyPassed}

func (k ResultKind) String() string {
	switch k {
	case Passed:
		return "passed"
	case CorrectError:
		return "correct_error"
	case Mismatch:
		return "mismatch"
	case ParseError:
		return "parse_error"
	case RuntimeError:
		return "runtime_error"
	case IncorrectlyPassed:
		return "incorrectly_passed"
	default:
		return "unknown"
	}
}

// ParseResultKind is the inverse of ResultKind.String.
func ParseResultKind(s string) (ResultKind, error) {
	for _, kind := range ResultKinds {
		if kind.String() == s {
			return kind, nil
		}
	}

	return Passed, fmt.Errorf("unknown result kind %q", s)
}

// IsPassing reports whether the kind counts towards the pass rate.
func (k ResultKind) IsPassing() bool {
	return k == Passed || k == CorrectError
}

// IsFailure reports whether the kind is a raw failure that an expected-to-fail
// case turns into CorrectError.
func (k ResultKind) IsFailure() bool {
	return k == Mismatch || k == ParseError
}

// TestResult is the outcome of one case execution. Only the fields relevant to Kind are set.
type TestResult struct {
	Kind ResultKind
	// Expected is set for Mismatch: true when the unit was expected to come out clean.
	Expected bool
	// Diagnostics holds the actual diagnostics (or output lines) for Mismatch, ParseError
	// and CorrectError.
	Diagnostics []string
	// Baseline and Actual hold the output lines a round-trip Mismatch compared.
	Baseline []string
	Actual   []string
	// Message is set for RuntimeError.
	Message string
}

// Pass returns the Passed result.
func Pass() TestResult {
	return TestResult{Kind: Passed}
}

// NewMismatch builds a Mismatch result from the diagnostics the tool produced.
func NewMismatch(expected bool, diagnostics []string) TestResult {
	return TestResult{Kind: Mismatch, Expected: expected, Diagnostics: diagnostics}
}

// NewOutputMismatch builds a Mismatch for output that differs from a baseline output.
func NewOutputMismatch(summary string, baseline, actual []string) TestResult {
	return TestResult{
		Kind:        Mismatch,
		Expected:    true,
		Diagnostics: []string{summary},
		Baseline:    baseline,
		Actual:      actual,
	}
}

// NewParseError builds a ParseError result.
func NewParseError(diagnostics []string) TestResult {
	return TestResult{Kind: ParseError, Diagnostics: diagnostics}
}

// NewRuntimeError builds a RuntimeError result.
func NewRuntimeError(message string) TestResult {
	return TestResult{Kind: RuntimeError, Message: message}
}

// Detail returns the lines rendered under a failing case in a report.
func (r TestResult) Detail() []string {
	switch r.Kind {
	case Mismatch:
		expectation := "expected clean output"
		if !r.Expected {
			expectation = "expected diagnostics"
		}

		return append([]string{expectation}, r.Diagnostics...)
	case CorrectError, ParseError:
		return r.Diagnostics
	case RuntimeError:
		return strings.Split(r.Message, "\n")
	default:
		return nil
	}
}

func (r TestResult) String() string {
	detail := r.Detail()
	if len(detail) == 0 {
		return r.Kind.String()
	}

	return r.Kind.String() + ": " + strings.Join(detail, "; ")
}
