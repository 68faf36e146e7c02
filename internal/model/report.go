package model

// Failure is one non-Passed case as it appears in a report.
type Failure struct {
	Path   Path
	Kind   ResultKind
	Detail []string
}

// Report is the aggregated outcome of one suite run.
type Report struct {
	Suite    string
	Total    int
	Counts   map[ResultKind]int
	Failures []Failure
}

// Passed returns the number of passed-equivalent cases (Passed and CorrectError).
func (r Report) Passed() int {
	return r.Counts[Passed] + r.Counts[CorrectError]
}

// PassRate returns the passed-equivalent share in percent. An empty report scores 100.
func (r Report) PassRate() float64 {
	if r.Total == 0 {
		return 100.0
	}

	return float64(r.Passed()) / float64(r.Total) * 100
}

// Kinds maps every listed path to its kind. Paths absent from the map passed.
func (r Report) Kinds() map[Path]ResultKind {
	kinds := make(map[Path]ResultKind, len(r.Failures))
	for _, failure := range r.Failures {
		kinds[failure.Path] = failure.Kind
	}

	return kinds
}

// PathChange records a case whose outcome kind moved between two reports.
type PathChange struct {
	Path Path
	From ResultKind
	To   ResultKind
}

// CountChange records an aggregate count that differs from the baseline.
type CountChange struct {
	Name string
	From int
	To   int
}

// Delta is the structured difference between a baseline snapshot and a fresh report.
type Delta struct {
	Suite string
	// NewBaseline is set when no snapshot existed before this run.
	NewBaseline  bool
	NewFailures  []PathChange
	Fixed        []PathChange
	Worsened     []PathChange
	Improved     []PathChange
	CountChanges []CountChange
	// Unified is the line-by-line diff of the rendered reports.
	Unified string
}

// Regressed reports whether any case got worse relative to the baseline.
func (d Delta) Regressed() bool {
	return len(d.NewFailures) > 0 || len(d.Worsened) > 0
}

// Changed reports whether anything differs from the baseline.
func (d Delta) Changed() bool {
	return d.Unified != ""
}

// Outcome pairs the report of a suite run with its delta against the snapshot.
type Outcome struct {
	Report Report
	Delta  Delta
}

// CorpusSummary describes what discovery found in one corpus.
type CorpusSummary struct {
	Corpus     string
	Fixtures   int
	Units      int
	ShouldFail int
	Skipped    int
}
