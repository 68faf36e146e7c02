package domain

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"conform.dev/pkg/conform/internal/adapter"
	"conform.dev/pkg/conform/internal/controller"
	m "conform.dev/pkg/conform/internal/model"
)

const (
	snapshotHeader = "# conform snapshot v1"
	detailPrefix   = "  | "
)

// Reporter aggregates case outcomes, compares them with the stored snapshot and
// optionally accepts the new report as the snapshot.
type Reporter struct {
	store adapter.SnapshotStore
	ui    controller.UI
}

// NewReporter constructs a Reporter.
func NewReporter(store adapter.SnapshotStore, ui controller.UI) *Reporter {
	return &Reporter{store: store, ui: ui}
}

// Report builds, displays and compares the report of a finished suite.
func (r *Reporter) Report(ctx context.Context, suite string, cases []*Case, opts Options) (m.Outcome, error) {
	report := BuildReport(suite, cases)
	text := RenderReport(report)

	previous, found, err := r.store.Load(ctx, suite)
	if err != nil {
		return m.Outcome{}, fmt.Errorf("load snapshot %s: %w", suite, err)
	}

	var baseline *m.Report

	if found {
		parsed, err := ParseSnapshot(previous)
		if err != nil {
			slog.Error("Failed to parse snapshot", "suite", suite, "error", err)
			return m.Outcome{}, fmt.Errorf("snapshot %s: %w", suite, err)
		}

		baseline = &parsed
	}

	present := make(map[m.Path]struct{}, len(cases))
	for _, c := range cases {
		present[c.Path] = struct{}{}
	}

	delta := CompareReports(baseline, report, present)

	// A filtered run only covers part of the suite; aggregate comparisons would be noise.
	if opts.Filter != "" {
		delta.CountChanges = nil
	} else {
		delta.Unified = UnifiedDiff(previous, text)
	}

	r.ui.DisplayReport(ctx, report, opts.PrintDetail())

	if opts.Diff {
		for _, c := range cases {
			if c.Result.Kind == m.Mismatch {
				r.ui.DisplayMismatchDiff(ctx, c.Path, MismatchDiff(c.Result))
			}
		}
	}

	r.ui.DisplayDelta(ctx, delta)

	if opts.Accept {
		if err := r.accept(ctx, suite, text, found && previous == text, opts); err != nil {
			return m.Outcome{}, err
		}
	}

	return m.Outcome{Report: report, Delta: delta}, nil
}

func (r *Reporter) accept(ctx context.Context, suite, text string, unchanged bool, opts Options) error {
	if opts.Filter != "" {
		slog.Warn("Refusing to accept a filtered report", "suite", suite, "filter", opts.Filter)
		r.ui.DisplayWarning(ctx, "not accepting %s: the run was filtered by %q", suite, opts.Filter)

		return nil
	}

	if unchanged {
		return nil
	}

	if err := r.store.Save(ctx, suite, text); err != nil {
		return fmt.Errorf("save snapshot %s: %w", suite, err)
	}

	return nil
}

// BuildReport aggregates the final results of cases.
func BuildReport(suite string, cases []*Case) m.Report {
	report := m.Report{
		Suite:  suite,
		Total:  len(cases),
		Counts: make(map[m.ResultKind]int, len(m.ResultKinds)),
	}

	for _, kind := range m.ResultKinds {
		report.Counts[kind] = 0
	}

	for _, c := range cases {
		report.Counts[c.Result.Kind]++

		if c.Result.Kind == m.Passed {
			continue
		}

		report.Failures = append(report.Failures, m.Failure{
			Path:   c.Path,
			Kind:   c.Result.Kind,
			Detail: c.Result.Detail(),
		})
	}

	sort.SliceStable(report.Failures, func(i, j int) bool {
		return report.Failures[i].Path < report.Failures[j].Path
	})

	return report
}

// RenderReport renders the deterministic snapshot text of a report.
func RenderReport(report m.Report) string {
	var b strings.Builder

	fmt.Fprintln(&b, snapshotHeader)
	fmt.Fprintf(&b, "suite: %s\n", report.Suite)
	fmt.Fprintf(&b, "total: %d\n", report.Total)
	fmt.Fprintf(&b, "passed: %d (%.2f%%)\n", report.Passed(), report.PassRate())

	for _, kind := range m.ResultKinds {
		fmt.Fprintf(&b, "count %s: %d\n", kind, report.Counts[kind])
	}

	if len(report.Failures) == 0 {
		return b.String()
	}

	b.WriteString("\n")

	for _, failure := range report.Failures {
		fmt.Fprintf(&b, "[%s] %s\n", failure.Kind, failure.Path)

		for _, detail := range failure.Detail {
			for _, line := range strings.Split(detail, "\n") {
				b.WriteString(strings.TrimRight(detailPrefix+line, " "))
				b.WriteString("\n")
			}
		}
	}

	return b.String()
}

// ParseSnapshot reads back the text produced by RenderReport.
func ParseSnapshot(text string) (m.Report, error) {
	report := m.Report{Counts: make(map[m.ResultKind]int, len(m.ResultKinds))}
	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	lineNo := 0
	inHeader := true

	corrupt := func(format string, args ...any) error {
		return fmt.Errorf("%w: line %d: %s", ErrSnapshotCorrupt, lineNo, fmt.Sprintf(format, args...))
	}

	for scanner.Scan() {
		line := scanner.Text()
		lineNo++

		if lineNo == 1 {
			if line != snapshotHeader {
				return report, corrupt("unexpected header %q", line)
			}

			continue
		}

		if inHeader {
			if line == "" {
				inHeader = false
				continue
			}

			if err := parseHeaderLine(&report, line); err != nil {
				return report, corrupt("%v", err)
			}

			continue
		}

		switch {
		case strings.HasPrefix(line, strings.TrimRight(detailPrefix, " ")):
			if len(report.Failures) == 0 {
				return report, corrupt("detail line before any entry")
			}

			last := &report.Failures[len(report.Failures)-1]
			last.Detail = append(last.Detail, strings.TrimPrefix(strings.TrimPrefix(line, "  |"), " "))
		case strings.HasPrefix(line, "["):
			end := strings.Index(line, "] ")
			if end < 0 {
				return report, corrupt("malformed entry %q", line)
			}

			kind, err := m.ParseResultKind(line[1:end])
			if err != nil {
				return report, corrupt("%v", err)
			}

			report.Failures = append(report.Failures, m.Failure{Path: m.Path(line[end+2:]), Kind: kind})
		default:
			return report, corrupt("unexpected line %q", line)
		}
	}

	if err := scanner.Err(); err != nil {
		return report, fmt.Errorf("%w: %w", ErrSnapshotCorrupt, err)
	}

	if lineNo == 0 {
		return report, fmt.Errorf("%w: empty snapshot", ErrSnapshotCorrupt)
	}

	return report, nil
}

func parseHeaderLine(report *m.Report, line string) error {
	key, value, ok := strings.Cut(line, ": ")
	if !ok {
		return fmt.Errorf("malformed header %q", line)
	}

	switch {
	case key == "suite":
		report.Suite = value
	case key == "total":
		total, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("total: %w", err)
		}

		report.Total = total
	case key == "passed":
		// Derived from the counts.
	case strings.HasPrefix(key, "count "):
		kind, err := m.ParseResultKind(strings.TrimPrefix(key, "count "))
		if err != nil {
			return err
		}

		count, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("count %s: %w", kind, err)
		}

		report.Counts[kind] = count
	default:
		return fmt.Errorf("unknown header %q", key)
	}

	return nil
}

// CompareReports computes the structured delta of current against baseline. A nil
// baseline is an empty one. Paths missing from present did not run and are ignored.
func CompareReports(baseline *m.Report, current m.Report, present map[m.Path]struct{}) m.Delta {
	delta := m.Delta{Suite: current.Suite, NewBaseline: baseline == nil}

	base := m.Report{Suite: current.Suite, Counts: map[m.ResultKind]int{}}
	if baseline != nil {
		base = *baseline
	}

	baseKinds := base.Kinds()
	currentKinds := current.Kinds()

	for _, failure := range current.Failures {
		from, ok := baseKinds[failure.Path]
		if !ok {
			from = m.Passed
		}

		change := m.PathChange{Path: failure.Path, From: from, To: failure.Kind}

		switch {
		case failure.Kind.IsPassing():
			// Still listed, but a baseline failure now counts as passed.
			if !from.IsPassing() {
				delta.Fixed = append(delta.Fixed, change)
			}
		case from.IsPassing():
			delta.NewFailures = append(delta.NewFailures, change)
		case failure.Kind > from:
			delta.Worsened = append(delta.Worsened, change)
		case failure.Kind < from:
			delta.Improved = append(delta.Improved, change)
		}
	}

	for _, failure := range base.Failures {
		if _, ok := currentKinds[failure.Path]; ok {
			continue
		}

		if _, ok := present[failure.Path]; !ok || failure.Kind.IsPassing() {
			continue
		}

		delta.Fixed = append(delta.Fixed, m.PathChange{Path: failure.Path, From: failure.Kind, To: m.Passed})
	}

	sort.SliceStable(delta.Fixed, func(i, j int) bool {
		return delta.Fixed[i].Path < delta.Fixed[j].Path
	})

	delta.CountChanges = compareCounts(base, current)

	return delta
}

func compareCounts(base, current m.Report) []m.CountChange {
	var changes []m.CountChange

	add := func(name string, from, to int) {
		if from != to {
			changes = append(changes, m.CountChange{Name: name, From: from, To: to})
		}
	}

	add("total", base.Total, current.Total)
	add("passed", base.Passed(), current.Passed())

	for _, kind := range m.ResultKinds {
		add(kind.String(), base.Counts[kind], current.Counts[kind])
	}

	return changes
}

// UnifiedDiff returns the line diff between two rendered reports, empty when equal.
func UnifiedDiff(previous, current string) string {
	if previous == current {
		return ""
	}

	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(previous),
		B:        difflib.SplitLines(current),
		FromFile: "snapshot",
		ToFile:   "current",
		Context:  1,
	})
	if err != nil {
		slog.Error("Failed to diff reports", "error", err)
		return ""
	}

	return diff
}

// MismatchDiff renders the diff between the expected and the actual lines of a Mismatch.
// Without a baseline output the expectation is a clean run, so the diagnostics are all added.
func MismatchDiff(result m.TestResult) string {
	expected, actual := result.Baseline, result.Actual
	if expected == nil && actual == nil {
		actual = result.Diagnostics
	}

	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        linesWithNewline(expected),
		B:        linesWithNewline(actual),
		FromFile: "expected",
		ToFile:   "actual",
		Context:  3,
	})
	if err != nil {
		slog.Error("Failed to diff mismatch", "error", err)
		return ""
	}

	return diff
}

func linesWithNewline(lines []string) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = line + "\n"
	}

	return out
}
