package domain

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	m "conform.dev/pkg/conform/internal/model"
)

// Corpus discovers the fixtures of one external test collection.
type Corpus interface {
	Name() string
	Discover(ctx context.Context) ([]m.Fixture, error)
}

// CorpusConfig is the static per-corpus data maintained outside the corpus itself.
type CorpusConfig struct {
	// Skip lists known-bad fixture paths that are excluded from scoring.
	Skip []string `mapstructure:"skip"`
	// ExpectFail lists fixture paths declared expected-to-fail in addition to corpus metadata.
	ExpectFail []string `mapstructure:"expect_fail"`
}

// Suite is the ordered set of cases one tool runs over one corpus.
type Suite struct {
	name       string
	corpus     Corpus
	tool       Tool
	skipped    map[m.Path]struct{}
	expectFail map[m.Path]struct{}
	cases      []*Case
}

// NewSuite pairs a corpus with a tool. The suite is named <tool>_<corpus>.
func NewSuite(corpus Corpus, tool Tool, cfg CorpusConfig) *Suite {
	return &Suite{
		name:       tool.Name() + "_" + corpus.Name(),
		corpus:     corpus,
		tool:       tool,
		skipped:    pathSet(cfg.Skip),
		expectFail: pathSet(cfg.ExpectFail),
	}
}

func pathSet(paths []string) map[m.Path]struct{} {
	set := make(map[m.Path]struct{}, len(paths))
	for _, p := range paths {
		set[m.Path(p)] = struct{}{}
	}

	return set
}

// Name returns the suite name.
func (s *Suite) Name() string {
	return s.name
}

// Cases returns the cases of the last ReadTestCases call, sorted by path.
func (s *Suite) Cases() []*Case {
	return s.cases
}

// ReadTestCases discovers the corpus and replaces the stored cases. Skipped paths,
// cases the tool cannot score and cases outside the filter are left out entirely.
func (s *Suite) ReadTestCases(ctx context.Context, opts Options) error {
	fixtures, err := s.corpus.Discover(ctx)
	if err != nil {
		slog.Error("Failed to discover corpus", "suite", s.name, "corpus", s.corpus.Name(), "error", err)
		return fmt.Errorf("discover %s: %w", s.corpus.Name(), err)
	}

	skipper, _ := s.tool.(CaseSkipper)
	cases := make([]*Case, 0, len(fixtures))

	for _, fixture := range fixtures {
		if _, ok := s.skipped[fixture.Path]; ok {
			continue
		}

		if opts.Filter != "" && !fixture.Path.Contains(opts.Filter) {
			continue
		}

		if _, ok := s.expectFail[fixture.Path]; ok {
			fixture.ShouldFail = true
		}

		if skipper != nil && skipper.SkipCase(fixture.Path, fixture.ShouldFail) {
			continue
		}

		cases = append(cases, NewCase(fixture))
	}

	sort.SliceStable(cases, func(i, j int) bool {
		return cases[i].Path < cases[j].Path
	})

	s.cases = cases

	slog.Info("Read test cases", "suite", s.name, "discovered", len(fixtures), "selected", len(cases), "filter", opts.Filter)

	return nil
}

// Run reads, executes and reports the suite.
func (s *Suite) Run(ctx context.Context, runner *Runner, reporter *Reporter, opts Options) (m.Outcome, error) {
	if err := s.ReadTestCases(ctx, opts); err != nil {
		return m.Outcome{}, err
	}

	if err := runner.Run(ctx, s.name, s.cases, s.tool, opts); err != nil {
		return m.Outcome{}, fmt.Errorf("execute %s: %w", s.name, err)
	}

	return reporter.Report(ctx, s.name, s.cases, opts)
}
