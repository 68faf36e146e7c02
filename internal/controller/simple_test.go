package controller

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "conform.dev/pkg/conform/internal/model"
)

func newTestUI(t *testing.T) (*SimpleUI, *bytes.Buffer) {
	t.Helper()

	var out bytes.Buffer

	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})

	return NewSimpleUI(cmd, false), &out
}

func TestSimpleUI_DisplayDelta(t *testing.T) {
	ui, out := newTestUI(t)

	ui.DisplayDelta(context.Background(), m.Delta{
		Suite:        "parser_misc",
		NewFailures:  []m.PathChange{{Path: "fail/a.js", From: m.Passed, To: m.ParseError}},
		Worsened:     []m.PathChange{{Path: "pass/b.js", From: m.Mismatch, To: m.RuntimeError}},
		Improved:     []m.PathChange{{Path: "pass/c.js", From: m.RuntimeError, To: m.Mismatch}},
		Fixed:        []m.PathChange{{Path: "pass/d.js", From: m.ParseError, To: m.Passed}},
		CountChanges: []m.CountChange{{Name: "parse_error", From: 1, To: 2}},
		Unified:      "--- snapshot\n+++ run\n-a\n+b\n",
	})

	got := out.String()
	assert.Contains(t, got, "  new failure fail/a.js (passed -> parse_error)\n")
	assert.Contains(t, got, "  worsened pass/b.js (mismatch -> runtime_error)\n")
	assert.Contains(t, got, "  improved pass/c.js (runtime_error -> mismatch)\n")
	assert.Contains(t, got, "  fixed pass/d.js (parse_error -> passed)\n")
	assert.Contains(t, got, "  parse_error: 1 -> 2\n")
	assert.True(t, strings.HasSuffix(got, "--- snapshot\n+++ run\n-a\n+b\n"))
	assert.NotContains(t, got, "no snapshot stored yet")
	assert.NotContains(t, got, "\x1b[")
}

func TestSimpleUI_DisplayDeltaNewBaseline(t *testing.T) {
	ui, out := newTestUI(t)

	ui.DisplayDelta(context.Background(), m.Delta{
		Suite:       "parser_misc",
		NewBaseline: true,
		Unified:     "+parser_misc\n",
	})

	assert.Equal(t, "parser_misc: no snapshot stored yet\n", out.String())
}

func TestSimpleUI_DisplaySummary(t *testing.T) {
	ui, out := newTestUI(t)

	report := func(suite string) m.Report {
		return m.Report{
			Suite:  suite,
			Total:  4,
			Counts: map[m.ResultKind]int{m.Passed: 2, m.CorrectError: 1, m.ParseError: 1},
		}
	}

	ui.DisplaySummary(context.Background(), []m.Outcome{
		{Report: report("parser_test262"), Delta: m.Delta{NewFailures: []m.PathChange{{Path: "x.js", To: m.ParseError}}, Unified: "+x\n"}},
		{Report: report("parser_babel"), Delta: m.Delta{NewBaseline: true, Unified: "+x\n"}},
		{Report: report("parser_misc"), Delta: m.Delta{Unified: "-x\n"}},
		{Report: report("codegen_misc")},
	})

	got := out.String()
	require.True(t, strings.HasPrefix(got, "\n"))

	rows := map[string]string{
		"parser_test262": "regressed",
		"parser_babel":   "new",
		"parser_misc":    "changed",
		"codegen_misc":   "ok",
	}

	for suite, status := range rows {
		line := lineContaining(got, suite)
		require.NotEmpty(t, line, suite)
		assert.Contains(t, line, "75.00%")
		assert.True(t, strings.HasSuffix(strings.TrimSpace(line), status), line)
	}

	assert.Contains(t, got, "Suites 4")
	assert.Contains(t, got, "1 regressed")
	assert.NotContains(t, got, "\x1b[")
}

func TestSimpleUI_DisplayReportDetail(t *testing.T) {
	ui, out := newTestUI(t)

	ui.DisplayReport(context.Background(), m.Report{
		Suite:    "parser_misc",
		Total:    2,
		Counts:   map[m.ResultKind]int{m.Passed: 1, m.ParseError: 1},
		Failures: []m.Failure{{Path: "pass/a.js", Kind: m.ParseError, Detail: []string{"Unexpected end of file"}}},
	}, true)

	assert.Equal(t,
		"parser_misc: 1/2 passed (50.00%)\n[parse_error] pass/a.js\n    Unexpected end of file\n",
		out.String())
}

func TestSimpleUI_CaseLogWithoutTerminal(t *testing.T) {
	ui, out := newTestUI(t)
	ctx := context.Background()

	ui.StartSuite(ctx, "parser_misc", WithTotal(1), WithWorkers(1), WithProgress(), WithCaseLog())
	ui.CaseStarted(ctx, "pass/a.js")
	ui.CaseCompleted(ctx, "pass/a.js", m.TestResult{Kind: m.Passed})
	ui.FinishSuite(ctx)

	assert.Equal(t,
		"Running parser_misc: 1 case(s) with 1 worker(s)\npass/a.js\n  [passed] pass/a.js\n",
		out.String())
}

func TestSimpleUI_DisplayWarning(t *testing.T) {
	ui, out := newTestUI(t)

	ui.DisplayWarning(context.Background(), "%s ignored", "--accept")

	assert.Equal(t, "warning: --accept ignored\n", out.String())
}

func TestSimpleUI_DisplaySnapshotsEmpty(t *testing.T) {
	ui, out := newTestUI(t)

	ui.DisplaySnapshots(context.Background(), nil)

	assert.Equal(t, "No snapshots found\n", out.String())
}

func TestSimpleUI_CanceledContextPrintsNothing(t *testing.T) {
	ui, out := newTestUI(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ui.DisplayWarning(ctx, "ignored")
	ui.DisplayDelta(ctx, m.Delta{Suite: "parser_misc", NewBaseline: true})
	ui.DisplaySnapshots(ctx, nil)

	assert.Empty(t, out.String())
}

func lineContaining(text, needle string) string {
	for _, line := range strings.Split(text, "\n") {
		if strings.Contains(line, needle) {
			return line
		}
	}

	return ""
}
