package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResultKind_Names(t *testing.T) {
	want := []string{"passed", "correct_error", "mismatch", "parse_error", "runtime_error", "incorrectly_passed"}

	for i, kind := range ResultKinds {
		assert.Equal(t, want[i], kind.String())

		parsed, err := ParseResultKind(want[i])
		require.NoError(t, err)
		assert.Equal(t, kind, parsed)
	}

	_, err := ParseResultKind("skipped")
	assert.Error(t, err)
	assert.Equal(t, "unknown", ResultKind(42).String())
}

func TestResultKind_Order(t *testing.T) {
	for i := 1; i < len(ResultKinds); i++ {
		assert.Less(t, ResultKinds[i-1], ResultKinds[i])
	}
}

func TestResultKind_Classes(t *testing.T) {
	passing := map[ResultKind]bool{Passed: true, CorrectError: true}
	failure := map[ResultKind]bool{Mismatch: true, ParseError: true}

	for _, kind := range ResultKinds {
		assert.Equal(t, passing[kind], kind.IsPassing(), kind.String())
		assert.Equal(t, failure[kind], kind.IsFailure(), kind.String())
	}
}

func TestTestResult_Detail(t *testing.T) {
	tests := []struct {
		name   string
		result TestResult
		want   []string
	}{
		{"passed", Pass(), nil},
		{"parse error", NewParseError([]string{"1:1: bad"}), []string{"1:1: bad"}},
		{"mismatch expected clean", NewMismatch(true, []string{"1:1: bad"}), []string{"expected clean output", "1:1: bad"}},
		{"mismatch expected diagnostics", NewMismatch(false, nil), []string{"expected diagnostics"}},
		{"runtime error", NewRuntimeError("boom\nat f"), []string{"boom", "at f"}},
		{"incorrectly passed", TestResult{Kind: IncorrectlyPassed}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.result.Detail())
		})
	}
}

func TestTestResult_String(t *testing.T) {
	assert.Equal(t, "passed", Pass().String())
	assert.Equal(t, "parse_error: a; b", NewParseError([]string{"a", "b"}).String())
}

func TestNewOutputMismatch(t *testing.T) {
	result := NewOutputMismatch("output changed", []string{"a"}, []string{"b"})

	assert.Equal(t, Mismatch, result.Kind)
	assert.True(t, result.Expected)
	assert.Equal(t, []string{"expected clean output", "output changed"}, result.Detail())
	assert.Equal(t, []string{"a"}, result.Baseline)
	assert.Equal(t, []string{"b"}, result.Actual)
}
