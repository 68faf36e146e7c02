package domain

// Options is the configuration surface of a run.
type Options struct {
	// Debug forces single-threaded execution and prints each case path before it runs.
	Debug bool
	// Filter restricts execution to cases whose path contains it.
	Filter string
	// Detail prints case paths and failure details even without a filter.
	Detail bool
	// Diff renders the diagnostic diff of every mismatch.
	Diff bool
	// Accept overwrites the stored snapshot with the new report.
	Accept bool
}

// Sequential reports whether the run must use the single-worker policy.
func (o Options) Sequential() bool {
	return o.Debug || o.Detail || o.Filter != ""
}

// PrintPaths reports whether each case path is printed before it runs.
func (o Options) PrintPaths() bool {
	return o.Debug || o.Detail || o.Filter != ""
}

// PrintDetail reports whether failure details are printed to the console.
func (o Options) PrintDetail() bool {
	return o.Debug || o.Detail || o.Filter != ""
}
