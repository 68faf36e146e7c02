package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"conform.dev/pkg/conform/internal/adapter"
	"conform.dev/pkg/conform/internal/controller"
	m "conform.dev/pkg/conform/internal/model"
)

// RuntimeStage is the stage that needs the external runtime process.
const RuntimeStage = "runtime"

// Stage binds a tool to the corpora it runs over.
type Stage struct {
	Name string
	// Default stages run when no stage is named explicitly.
	Default bool
	Corpora []string
	Tool    Tool
}

// RunArgs contains the arguments for a conformance run.
type RunArgs struct {
	Options
	// Stages restricts the run to the named stages; empty means every default stage.
	Stages   []string
	Parallel int
	Corpora  map[string]CorpusConfig
}

// RuntimeArgs contains the arguments for a run against the external runtime.
type RuntimeArgs struct {
	RunArgs
	Process adapter.ProcessSpec
}

// ListArgs contains the arguments for listing the discovered corpora.
type ListArgs struct {
	// Names restricts the listing to the named corpora; empty means all.
	Names   []string
	Corpora map[string]CorpusConfig
}

// ViewArgs contains the arguments for viewing stored snapshots.
type ViewArgs struct {
	// Suites restricts the view to the named suites; empty means all.
	Suites []string
	Detail bool
}

// Workflow defines the operations exposed to the command line.
type Workflow interface {
	Run(ctx context.Context, args RunArgs) error
	RunRuntime(ctx context.Context, args RuntimeArgs) error
	List(ctx context.Context, args ListArgs) error
	View(ctx context.Context, args ViewArgs) error
}

type workflow struct {
	corpora   map[string]Corpus
	stages    []Stage
	store     adapter.SnapshotStore
	ui        controller.UI
	processes adapter.RuntimeProcessAdapter
}

// NewWorkflow creates a new Workflow instance with the provided dependencies.
func NewWorkflow(
	corpora []Corpus,
	stages []Stage,
	store adapter.SnapshotStore,
	ui controller.UI,
	processes adapter.RuntimeProcessAdapter,
) Workflow {
	byName := make(map[string]Corpus, len(corpora))
	for _, corpus := range corpora {
		byName[corpus.Name()] = corpus
	}

	return &workflow{
		corpora:   byName,
		stages:    stages,
		store:     store,
		ui:        ui,
		processes: processes,
	}
}

// Run executes the selected stages and fails with ErrRegression when any suite regressed
// and the run did not accept its reports.
func (w *workflow) Run(ctx context.Context, args RunArgs) error {
	return w.run(ctx, args, false)
}

func (w *workflow) run(ctx context.Context, args RunArgs, withRuntime bool) error {
	stages, err := w.selectStages(args.Stages, withRuntime)
	if err != nil {
		return err
	}

	runner := NewRunner(PoolFor(args.Options, args.Parallel), w.ui)
	reporter := NewReporter(w.store, w.ui)

	var (
		outcomes  []m.Outcome
		regressed []string
	)

	for _, stage := range stages {
		for _, name := range stage.Corpora {
			corpus, ok := w.corpora[name]
			if !ok {
				return fmt.Errorf("%w: %s (stage %s)", ErrUnknownCorpus, name, stage.Name)
			}

			suite := NewSuite(corpus, stage.Tool, args.Corpora[name])

			outcome, err := suite.Run(ctx, runner, reporter, args.Options)
			if err != nil {
				slog.Error("Suite failed", "suite", suite.Name(), "error", err)
				return fmt.Errorf("run %s: %w", suite.Name(), err)
			}

			outcomes = append(outcomes, outcome)

			if outcome.Delta.Regressed() {
				regressed = append(regressed, suite.Name())
			}
		}
	}

	w.ui.DisplaySummary(ctx, outcomes)

	// An accepted run records the regressions as the new baseline.
	if len(regressed) > 0 && (!args.Accept || args.Filter != "") {
		return fmt.Errorf("%w: %s", ErrRegression, strings.Join(regressed, ", "))
	}

	return nil
}

// RunRuntime spawns the runtime process, runs the runtime stage against it and
// terminates the process on every exit path.
func (w *workflow) RunRuntime(ctx context.Context, args RuntimeArgs) (err error) {
	process, err := w.processes.Start(ctx, args.Process)
	if err != nil {
		return fmt.Errorf("start runtime: %w", err)
	}

	defer func() {
		if killErr := process.Kill(); killErr != nil {
			err = errors.Join(err, killErr)
		}
	}()

	if err := process.WaitReady(ctx); err != nil {
		return fmt.Errorf("wait for runtime: %w", err)
	}

	args.Stages = []string{RuntimeStage}

	return w.run(ctx, args.RunArgs, true)
}

// List discovers every corpus and prints what it contains.
func (w *workflow) List(ctx context.Context, args ListArgs) error {
	names := args.Names
	if len(names) == 0 {
		names = make([]string, 0, len(w.corpora))
		for name := range w.corpora {
			names = append(names, name)
		}

		slices.Sort(names)
	}

	summaries := make([]m.CorpusSummary, 0, len(names))

	for _, name := range names {
		corpus, ok := w.corpora[name]
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownCorpus, name)
		}

		fixtures, err := corpus.Discover(ctx)
		if err != nil {
			slog.Error("Failed to discover corpus", "corpus", name, "error", err)
			return fmt.Errorf("discover %s: %w", name, err)
		}

		summaries = append(summaries, summarize(name, fixtures, args.Corpora[name]))
	}

	w.ui.DisplayCorpora(ctx, summaries)

	return nil
}

func summarize(name string, fixtures []m.Fixture, cfg CorpusConfig) m.CorpusSummary {
	skipped := pathSet(cfg.Skip)
	expectFail := pathSet(cfg.ExpectFail)
	summary := m.CorpusSummary{Corpus: name}

	for _, fixture := range fixtures {
		if _, ok := skipped[fixture.Path]; ok {
			summary.Skipped++
			continue
		}

		summary.Fixtures++
		summary.Units += len(fixture.Units)

		if _, ok := expectFail[fixture.Path]; ok || fixture.ShouldFail {
			summary.ShouldFail++
		}
	}

	return summary
}

// View loads stored snapshots and prints them.
func (w *workflow) View(ctx context.Context, args ViewArgs) error {
	names := args.Suites
	if len(names) == 0 {
		stored, err := w.store.List(ctx)
		if err != nil {
			return fmt.Errorf("list snapshots: %w", err)
		}

		names = stored
	}

	reports := make([]m.Report, 0, len(names))

	for _, name := range names {
		text, found, err := w.store.Load(ctx, name)
		if err != nil {
			return fmt.Errorf("load snapshot %s: %w", name, err)
		}

		if !found {
			w.ui.DisplayWarning(ctx, "no snapshot stored for %s", name)
			continue
		}

		report, err := ParseSnapshot(text)
		if err != nil {
			slog.Error("Failed to parse snapshot", "suite", name, "error", err)
			return fmt.Errorf("snapshot %s: %w", name, err)
		}

		reports = append(reports, report)
	}

	w.ui.DisplaySnapshots(ctx, reports)

	if args.Detail {
		for _, report := range reports {
			w.ui.DisplayReport(ctx, report, true)
		}
	}

	return nil
}

func (w *workflow) selectStages(names []string, withRuntime bool) ([]Stage, error) {
	if len(names) == 0 {
		var stages []Stage

		for _, stage := range w.stages {
			if stage.Default {
				stages = append(stages, stage)
			}
		}

		return stages, nil
	}

	stages := make([]Stage, 0, len(names))

	for _, name := range names {
		if name == RuntimeStage && !withRuntime {
			return nil, ErrRuntimeNotStarted
		}

		idx := slices.IndexFunc(w.stages, func(stage Stage) bool { return stage.Name == name })
		if idx < 0 {
			return nil, fmt.Errorf("%w: %s", ErrUnknownStage, name)
		}

		stages = append(stages, w.stages[idx])
	}

	return stages, nil
}
