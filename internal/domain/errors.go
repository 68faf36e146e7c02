package domain

import "errors"

var (
	// ErrRegression is returned when at least one suite got worse than its snapshot.
	ErrRegression = errors.New("conformance regression")
	// ErrCorpusMissing is returned when a corpus directory does not exist.
	ErrCorpusMissing = errors.New("corpus directory not found")
	// ErrSnapshotCorrupt is returned when a stored snapshot cannot be parsed.
	ErrSnapshotCorrupt = errors.New("snapshot is corrupt")
	// ErrUnknownStage is returned when a requested stage is not registered.
	ErrUnknownStage = errors.New("unknown stage")
	// ErrRuntimeNotStarted is returned when the runtime stage is requested outside a runtime run.
	ErrRuntimeNotStarted = errors.New("runtime stage needs the runtime process, use the runtime command")
	// ErrUnknownCorpus is returned when a requested corpus is not registered.
	ErrUnknownCorpus = errors.New("unknown corpus")
)
