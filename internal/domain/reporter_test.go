package domain_test

import (
	"context"
	"errors"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	adaptermocks "conform.dev/pkg/conform/internal/adapter/mocks"
	controllermocks "conform.dev/pkg/conform/internal/controller/mocks"
	"conform.dev/pkg/conform/internal/domain"
	m "conform.dev/pkg/conform/internal/model"
)

func newGoldie(t *testing.T) *goldie.Goldie {
	t.Helper()

	return goldie.New(t, goldie.WithFixtureDir("testdata/golden"), goldie.WithNameSuffix(".golden"))
}

// runScenario executes the three fixture corpus with the parser tool.
func runScenario(t *testing.T) []*domain.Case {
	t.Helper()

	ui, _ := newTestUI()
	suite := domain.NewSuite(scenarioCorpus(), syntaxTool(), domain.CorpusConfig{})

	require.NoError(t, suite.ReadTestCases(context.Background(), domain.Options{}))
	require.NoError(t, domain.NewRunner(domain.NewPool(2), ui).Run(context.Background(), suite.Name(), suite.Cases(), syntaxTool(), domain.Options{}))

	return suite.Cases()
}

func TestBuildReport_Scenario(t *testing.T) {
	report := domain.BuildReport("parser_misc", runScenario(t))

	assert.Equal(t, 3, report.Total)
	assert.Equal(t, 2, report.Passed())
	assert.Equal(t, 1, report.Counts[m.Passed])
	assert.Equal(t, 1, report.Counts[m.CorrectError])
	assert.Equal(t, 1, report.Counts[m.ParseError])
	assert.InDelta(t, 66.67, report.PassRate(), 0.01)

	newGoldie(t).Assert(t, "parser_misc", []byte(domain.RenderReport(report)))
}

func TestRenderReport_Golden(t *testing.T) {
	g := newGoldie(t)

	empty := domain.BuildReport("parser_empty", nil)
	g.Assert(t, "parser_empty", []byte(domain.RenderReport(empty)))

	loop := domain.NewCase(jsFixture("loop.js", "for(;;);", false))
	loop.Result = m.NewOutputMismatch("generated code changed after reparse", []string{"for (;;) ;"}, []string{"for (;;);"})

	crash := domain.NewCase(jsFixture("throw.js", "throw 1", false))
	crash.Result = m.NewRuntimeError("panic: boom\n\nat line 2")

	report := domain.BuildReport("codegen_misc", []*domain.Case{crash, loop})
	g.Assert(t, "codegen_misc", []byte(domain.RenderReport(report)))
}

func TestParseSnapshot_ReadsRenderedReport(t *testing.T) {
	report := domain.BuildReport("parser_misc", runScenario(t))

	parsed, err := domain.ParseSnapshot(domain.RenderReport(report))
	require.NoError(t, err)
	assert.Equal(t, report, parsed)
}

func TestParseSnapshot_Corrupt(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"wrong header", "# something else\n"},
		{"bad total", "# conform snapshot v1\ntotal: many\n"},
		{"unknown kind", "# conform snapshot v1\ntotal: 1\n\n[exploded] a.js\n"},
		{"orphan detail", "# conform snapshot v1\ntotal: 1\n\n  | detail\n"},
		{"garbage entry", "# conform snapshot v1\ntotal: 1\n\nnot an entry\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := domain.ParseSnapshot(tt.text)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrSnapshotCorrupt))
		})
	}
}

func report(suite string, total int, failures ...m.Failure) m.Report {
	r := m.Report{Suite: suite, Total: total, Counts: map[m.ResultKind]int{}, Failures: failures}
	for _, failure := range failures {
		r.Counts[failure.Kind]++
	}

	r.Counts[m.Passed] = total - len(failures)

	return r
}

func present(paths ...m.Path) map[m.Path]struct{} {
	set := make(map[m.Path]struct{}, len(paths))
	for _, p := range paths {
		set[p] = struct{}{}
	}

	return set
}

func TestCompareReports_EmptyBaseline(t *testing.T) {
	current := domain.BuildReport("parser_misc", runScenario(t))

	delta := domain.CompareReports(nil, current, present("a.js", "b.js", "c.js"))

	assert.True(t, delta.NewBaseline)
	assert.True(t, delta.Regressed())
	assert.Equal(t, []m.PathChange{{Path: "c.js", From: m.Passed, To: m.ParseError}}, delta.NewFailures)
	assert.Empty(t, delta.Fixed)
}

func TestCompareReports(t *testing.T) {
	baseline := report("parser_misc", 5,
		m.Failure{Path: "a.js", Kind: m.ParseError},
		m.Failure{Path: "b.js", Kind: m.Mismatch},
		m.Failure{Path: "c.js", Kind: m.RuntimeError},
		m.Failure{Path: "d.js", Kind: m.CorrectError},
		m.Failure{Path: "gone.js", Kind: m.ParseError},
	)
	current := report("parser_misc", 5,
		m.Failure{Path: "b.js", Kind: m.ParseError},
		m.Failure{Path: "c.js", Kind: m.Mismatch},
		m.Failure{Path: "d.js", Kind: m.IncorrectlyPassed},
		m.Failure{Path: "e.js", Kind: m.Mismatch},
	)

	delta := domain.CompareReports(&baseline, current, present("a.js", "b.js", "c.js", "d.js", "e.js"))

	assert.False(t, delta.NewBaseline)
	assert.Equal(t, []m.PathChange{
		{Path: "d.js", From: m.CorrectError, To: m.IncorrectlyPassed},
		{Path: "e.js", From: m.Passed, To: m.Mismatch},
	}, delta.NewFailures)
	assert.Equal(t, []m.PathChange{{Path: "b.js", From: m.Mismatch, To: m.ParseError}}, delta.Worsened)
	assert.Equal(t, []m.PathChange{{Path: "c.js", From: m.RuntimeError, To: m.Mismatch}}, delta.Improved)
	assert.Equal(t, []m.PathChange{{Path: "a.js", From: m.ParseError, To: m.Passed}}, delta.Fixed, "paths that did not run are not fixed")
	assert.True(t, delta.Regressed())
	assert.Contains(t, delta.CountChanges, m.CountChange{Name: "mismatch", From: 1, To: 2})
	assert.NotContains(t, delta.CountChanges, m.CountChange{Name: "passed", From: 1, To: 1})
}

func TestCompareReports_ListedFailureNowPassing(t *testing.T) {
	baseline := report("parser_misc", 3,
		m.Failure{Path: "b.js", Kind: m.ParseError},
		m.Failure{Path: "c.js", Kind: m.CorrectError},
	)
	current := report("parser_misc", 3,
		m.Failure{Path: "b.js", Kind: m.CorrectError},
		m.Failure{Path: "c.js", Kind: m.CorrectError},
	)

	delta := domain.CompareReports(&baseline, current, present("a.js", "b.js", "c.js"))

	assert.Equal(t, []m.PathChange{{Path: "b.js", From: m.ParseError, To: m.CorrectError}}, delta.Fixed)
	assert.Empty(t, delta.Improved)
	assert.Empty(t, delta.NewFailures)
	assert.False(t, delta.Regressed())
}

func TestCompareReports_Unchanged(t *testing.T) {
	baseline := report("parser_misc", 2, m.Failure{Path: "a.js", Kind: m.ParseError})

	delta := domain.CompareReports(&baseline, baseline, present("a.js", "b.js"))

	assert.False(t, delta.Regressed())
	assert.Empty(t, delta.CountChanges)
	assert.Empty(t, delta.Fixed)
}

func TestUnifiedDiff(t *testing.T) {
	assert.Empty(t, domain.UnifiedDiff("same\n", "same\n"))

	diff := domain.UnifiedDiff("total: 2\n[parse_error] a.js\n", "total: 2\n[parse_error] a.js\n[parse_error] c.js\n")
	assert.Contains(t, diff, "--- snapshot")
	assert.Contains(t, diff, "+++ current")
	assert.Contains(t, diff, "+[parse_error] c.js")
}

func TestMismatchDiff(t *testing.T) {
	diff := domain.MismatchDiff(m.NewOutputMismatch("changed", []string{"a;", "b;"}, []string{"a;", "c;"}))
	assert.Contains(t, diff, "-b;")
	assert.Contains(t, diff, "+c;")

	diff = domain.MismatchDiff(m.NewMismatch(true, []string{"1:1: unexpected"}))
	assert.Contains(t, diff, "+1:1: unexpected")
}

func TestReporter_ReportNewBaseline(t *testing.T) {
	store := adaptermocks.NewMockSnapshotStore(t)
	store.On("Load", mock.Anything, "parser_misc").Return("", false, nil).Once()

	ui, out := newTestUI()
	reporter := domain.NewReporter(store, ui)

	outcome, err := reporter.Report(context.Background(), "parser_misc", runScenario(t), domain.Options{})
	require.NoError(t, err)

	assert.Equal(t, 2, outcome.Report.Passed())
	assert.True(t, outcome.Delta.NewBaseline)
	assert.Equal(t, []m.PathChange{{Path: "c.js", From: m.Passed, To: m.ParseError}}, outcome.Delta.NewFailures)
	assert.Contains(t, out.String(), "parser_misc: 2/3 passed (66.67%)")
	assert.Contains(t, out.String(), "new failure c.js (passed -> parse_error)")
}

func TestReporter_ReportAcceptSaves(t *testing.T) {
	cases := runScenario(t)
	text := domain.RenderReport(domain.BuildReport("parser_misc", cases))

	store := adaptermocks.NewMockSnapshotStore(t)
	store.On("Load", mock.Anything, "parser_misc").Return("", false, nil).Once()
	store.On("Save", mock.Anything, "parser_misc", text).Return(nil).Once()

	ui, _ := newTestUI()

	_, err := domain.NewReporter(store, ui).Report(context.Background(), "parser_misc", cases, domain.Options{Accept: true})
	require.NoError(t, err)
}

func TestReporter_ReportAcceptUnchangedSkipsSave(t *testing.T) {
	cases := runScenario(t)
	text := domain.RenderReport(domain.BuildReport("parser_misc", cases))

	store := adaptermocks.NewMockSnapshotStore(t)
	store.On("Load", mock.Anything, "parser_misc").Return(text, true, nil).Once()

	ui, _ := newTestUI()

	outcome, err := domain.NewReporter(store, ui).Report(context.Background(), "parser_misc", cases, domain.Options{Accept: true})
	require.NoError(t, err)
	assert.False(t, outcome.Delta.Changed())
	assert.False(t, outcome.Delta.Regressed())
	store.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)
}

func TestReporter_ReportFilteredAcceptRefused(t *testing.T) {
	store := adaptermocks.NewMockSnapshotStore(t)
	store.On("Load", mock.Anything, "parser_misc").Return("", false, nil).Once()

	ui := controllermocks.NewMockUI(t)
	ui.On("DisplayReport", mock.Anything, mock.Anything, true).Once()
	ui.On("DisplayDelta", mock.Anything, mock.Anything).Once()
	ui.On("DisplayWarning", mock.Anything, mock.Anything, mock.Anything).Once()

	cases := []*domain.Case{domain.NewCase(jsFixture("c.js", "@@", false))}
	cases[0].Run(context.Background(), syntaxTool())

	opts := domain.Options{Accept: true, Filter: "c.js"}

	outcome, err := domain.NewReporter(store, ui).Report(context.Background(), "parser_misc", cases, opts)
	require.NoError(t, err)
	assert.Empty(t, outcome.Delta.CountChanges)
	store.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)
}

func TestReporter_ReportDiff(t *testing.T) {
	store := adaptermocks.NewMockSnapshotStore(t)
	store.On("Load", mock.Anything, "codegen_misc").Return("", false, nil).Once()

	c := domain.NewCase(jsFixture("loop.js", "for(;;);", false))
	c.Result = m.NewOutputMismatch("generated code changed after reparse", []string{"for (;;) ;"}, []string{"for (;;);"})

	ui, out := newTestUI()

	_, err := domain.NewReporter(store, ui).Report(context.Background(), "codegen_misc", []*domain.Case{c}, domain.Options{Diff: true})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "diff loop.js")
	assert.Contains(t, out.String(), "+for (;;);")
}

func TestReporter_ReportCorruptSnapshot(t *testing.T) {
	store := adaptermocks.NewMockSnapshotStore(t)
	store.On("Load", mock.Anything, "parser_misc").Return("garbage\n", true, nil).Once()

	ui, _ := newTestUI()

	_, err := domain.NewReporter(store, ui).Report(context.Background(), "parser_misc", runScenario(t), domain.Options{})
	require.ErrorIs(t, err, domain.ErrSnapshotCorrupt)
}

func TestReporter_ReportLoadError(t *testing.T) {
	store := adaptermocks.NewMockSnapshotStore(t)
	store.On("Load", mock.Anything, "parser_misc").Return("", false, errors.New("disk on fire")).Once()

	ui, _ := newTestUI()

	_, err := domain.NewReporter(store, ui).Report(context.Background(), "parser_misc", runScenario(t), domain.Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load snapshot parser_misc")
}
