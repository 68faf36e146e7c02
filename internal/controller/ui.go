// Package controller provides output adapters for displaying conformance results.
package controller

import (
	"context"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	m "conform.dev/pkg/conform/internal/model"
)

// StartOption is a functional option for StartSuite.
type StartOption func(*StartConfig)

// StartConfig holds configuration for displaying one suite run.
type StartConfig struct {
	total    int
	workers  int
	progress bool
	caseLog  bool
}

// WithTotal sets the number of cases the suite will run.
func WithTotal(total int) StartOption {
	return func(c *StartConfig) {
		c.total = total
	}
}

// WithWorkers sets the number of workers executing the suite.
func WithWorkers(workers int) StartOption {
	return func(c *StartConfig) {
		c.workers = workers
	}
}

// WithProgress shows a progress bar while cases complete.
func WithProgress() StartOption {
	return func(c *StartConfig) {
		c.progress = true
	}
}

// WithCaseLog prints the outcome of every case as soon as it completes.
func WithCaseLog() StartOption {
	return func(c *StartConfig) {
		c.caseLog = true
	}
}

// UI defines the interface for displaying conformance runs.
// CaseCompleted may be called from several workers at once.
type UI interface {
	StartSuite(ctx context.Context, suite string, options ...StartOption)
	CaseStarted(ctx context.Context, path m.Path)
	CaseCompleted(ctx context.Context, path m.Path, result m.TestResult)
	FinishSuite(ctx context.Context)
	DisplayReport(ctx context.Context, report m.Report, detail bool)
	DisplayMismatchDiff(ctx context.Context, path m.Path, diff string)
	DisplayDelta(ctx context.Context, delta m.Delta)
	DisplayWarning(ctx context.Context, format string, args ...any)
	DisplaySummary(ctx context.Context, outcomes []m.Outcome)
	DisplayCorpora(ctx context.Context, summaries []m.CorpusSummary)
	DisplaySnapshots(ctx context.Context, reports []m.Report)
}

// NewUI creates the UI for cmd. Colors and progress bars are only used on a terminal.
func NewUI(cmd *cobra.Command, tty bool) UI {
	return NewSimpleUI(cmd, tty)
}

// IsTTY reports whether w is an interactive terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
