package controller

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	m "conform.dev/pkg/conform/internal/model"
)

// SimpleUI implements UI by writing plain text to the cobra command output.
type SimpleUI struct {
	cmd *cobra.Command
	tty bool

	mu     sync.Mutex
	suite  string
	config StartConfig
	bar    *progressbar.ProgressBar

	red    *color.Color
	green  *color.Color
	yellow *color.Color
	bold   *color.Color
}

// NewSimpleUI creates a new SimpleUI. Without a terminal the output carries no escape codes.
func NewSimpleUI(cmd *cobra.Command, tty bool) *SimpleUI {
	s := &SimpleUI{
		cmd:    cmd,
		tty:    tty,
		red:    color.New(color.FgRed),
		green:  color.New(color.FgGreen),
		yellow: color.New(color.FgYellow),
		bold:   color.New(color.Bold),
	}

	if !tty {
		for _, c := range []*color.Color{s.red, s.green, s.yellow, s.bold} {
			c.DisableColor()
		}
	}

	return s
}

// StartSuite announces a suite run.
func (s *SimpleUI) StartSuite(ctx context.Context, suite string, options ...StartOption) {
	if err := ctx.Err(); err != nil {
		return
	}

	config := StartConfig{workers: 1}
	for _, option := range options {
		option(&config)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.suite = suite
	s.config = config
	s.bar = nil

	s.printf("Running %s: %d case(s) with %d worker(s)\n", s.bold.Sprint(suite), config.total, config.workers)

	if config.progress && s.tty && config.total > 0 {
		s.bar = progressbar.NewOptions(config.total,
			progressbar.OptionSetWriter(s.cmd.ErrOrStderr()),
			progressbar.OptionSetDescription(suite),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}
}

// CaseStarted prints the path of the case about to run.
func (s *SimpleUI) CaseStarted(ctx context.Context, path m.Path) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.printf("%s\n", path)
}

// CaseCompleted advances the progress bar or logs the outcome of the case.
func (s *SimpleUI) CaseCompleted(ctx context.Context, path m.Path, result m.TestResult) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.bar != nil {
		_ = s.bar.Add(1)
	}

	if s.config.caseLog {
		s.printf("  %s %s\n", s.kindLabel(result.Kind), path)
	}
}

// FinishSuite closes the progress bar of the current suite.
func (s *SimpleUI) FinishSuite(_ context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.bar != nil {
		_ = s.bar.Finish()
		s.bar = nil
	}
}

// DisplayReport prints the pass rate of a suite and, with detail, every failure.
func (s *SimpleUI) DisplayReport(ctx context.Context, report m.Report, detail bool) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.printf("%s: %d/%d passed (%.2f%%)\n", report.Suite, report.Passed(), report.Total, report.PassRate())

	if !detail {
		return
	}

	for _, failure := range report.Failures {
		s.printf("%s %s\n", s.kindLabel(failure.Kind), failure.Path)

		for _, line := range failure.Detail {
			s.printf("    %s\n", line)
		}
	}
}

// DisplayMismatchDiff prints the expected/actual diff of one mismatching case.
func (s *SimpleUI) DisplayMismatchDiff(ctx context.Context, path m.Path, diff string) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.printf("%s %s\n", s.yellow.Sprint("diff"), path)
	s.printf("%s", s.colorDiff(diff))
}

// DisplayDelta prints how the run differs from the stored snapshot.
func (s *SimpleUI) DisplayDelta(ctx context.Context, delta m.Delta) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if delta.NewBaseline {
		s.printf("%s: no snapshot stored yet\n", delta.Suite)
	}

	for _, change := range delta.NewFailures {
		s.printf("  %s %s (%s -> %s)\n", s.red.Sprint("new failure"), change.Path, change.From, change.To)
	}

	for _, change := range delta.Worsened {
		s.printf("  %s %s (%s -> %s)\n", s.red.Sprint("worsened"), change.Path, change.From, change.To)
	}

	for _, change := range delta.Improved {
		s.printf("  %s %s (%s -> %s)\n", s.yellow.Sprint("improved"), change.Path, change.From, change.To)
	}

	for _, change := range delta.Fixed {
		s.printf("  %s %s (%s -> %s)\n", s.green.Sprint("fixed"), change.Path, change.From, change.To)
	}

	for _, change := range delta.CountChanges {
		s.printf("  %s: %d -> %d\n", change.Name, change.From, change.To)
	}

	if delta.Unified != "" && !delta.NewBaseline {
		s.printf("%s", s.colorDiff(delta.Unified))
	}
}

// DisplayWarning prints a warning line.
func (s *SimpleUI) DisplayWarning(ctx context.Context, format string, args ...any) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.printf("%s %s\n", s.yellow.Sprint("warning:"), fmt.Sprintf(format, args...))
}

// DisplaySummary prints one row per suite run.
func (s *SimpleUI) DisplaySummary(ctx context.Context, outcomes []m.Outcome) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var tableBuffer bytes.Buffer

	table := newTable(&tableBuffer, []string{"Suite", "Total", "Passed", "Rate", "Status"})

	regressed := 0

	for _, outcome := range outcomes {
		status := "ok"

		switch {
		case outcome.Delta.Regressed():
			status = "regressed"
			regressed++
		case outcome.Delta.NewBaseline:
			status = "new"
		case outcome.Delta.Changed():
			status = "changed"
		}

		table.Append([]string{
			outcome.Report.Suite,
			fmt.Sprintf("%d", outcome.Report.Total),
			fmt.Sprintf("%d", outcome.Report.Passed()),
			fmt.Sprintf("%.2f%%", outcome.Report.PassRate()),
			status,
		})
	}

	table.SetFooter([]string{fmt.Sprintf("Suites %d", len(outcomes)), "", "", "", fmt.Sprintf("%d regressed", regressed)})
	table.Render()

	s.printf("\n%s", tableBuffer.String())
}

// DisplayCorpora prints what discovery found in every corpus.
func (s *SimpleUI) DisplayCorpora(ctx context.Context, summaries []m.CorpusSummary) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var tableBuffer bytes.Buffer

	table := newTable(&tableBuffer, []string{"Corpus", "Fixtures", "Units", "Should fail", "Skipped"})

	fixtures := 0

	for _, summary := range summaries {
		table.Append([]string{
			summary.Corpus,
			fmt.Sprintf("%d", summary.Fixtures),
			fmt.Sprintf("%d", summary.Units),
			fmt.Sprintf("%d", summary.ShouldFail),
			fmt.Sprintf("%d", summary.Skipped),
		})

		fixtures += summary.Fixtures
	}

	table.SetFooter([]string{fmt.Sprintf("Corpora %d", len(summaries)), fmt.Sprintf("%d", fixtures), "", "", ""})
	table.Render()

	s.printf("\n%s", tableBuffer.String())
}

// DisplaySnapshots prints the stored snapshot of every suite.
func (s *SimpleUI) DisplaySnapshots(ctx context.Context, reports []m.Report) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(reports) == 0 {
		s.printf("No snapshots found\n")
		return
	}

	var tableBuffer bytes.Buffer

	table := newTable(&tableBuffer, []string{"Suite", "Total", "Passed", "Rate", "Failures"})

	for _, report := range reports {
		table.Append([]string{
			report.Suite,
			fmt.Sprintf("%d", report.Total),
			fmt.Sprintf("%d", report.Passed()),
			fmt.Sprintf("%.2f%%", report.PassRate()),
			fmt.Sprintf("%d", len(report.Failures)),
		})
	}

	table.Render()

	s.printf("\n%s", tableBuffer.String())
}

func newTable(buffer *bytes.Buffer, header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(buffer)
	table.SetHeader(header)
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoFormatHeaders(false)

	alignment := make([]int, len(header))
	for i := range alignment {
		alignment[i] = tablewriter.ALIGN_RIGHT
	}

	alignment[0] = tablewriter.ALIGN_LEFT
	table.SetColumnAlignment(alignment)

	return table
}

func (s *SimpleUI) kindLabel(kind m.ResultKind) string {
	label := "[" + kind.String() + "]"

	switch {
	case kind == m.Passed:
		return s.green.Sprint(label)
	case kind.IsPassing():
		return s.yellow.Sprint(label)
	default:
		return s.red.Sprint(label)
	}
}

func (s *SimpleUI) colorDiff(diff string) string {
	if !s.tty {
		return diff
	}

	lines := strings.SplitAfter(diff, "\n")
	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			lines[i] = s.bold.Sprint(line)
		case strings.HasPrefix(line, "+"):
			lines[i] = s.green.Sprint(line)
		case strings.HasPrefix(line, "-"):
			lines[i] = s.red.Sprint(line)
		}
	}

	return strings.Join(lines, "")
}

func (s *SimpleUI) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}
