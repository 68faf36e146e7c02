package adapter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// SnapshotExt is the file extension of stored snapshots.
const SnapshotExt = ".snap"

// SnapshotStore persists the committed report of each suite, keyed by suite name.
type SnapshotStore interface {
	// Load returns the stored snapshot text. The boolean is false when no snapshot exists.
	Load(ctx context.Context, suite string) (string, bool, error)
	// Save replaces the stored snapshot of suite.
	Save(ctx context.Context, suite string, content string) error
	// List returns the names of all stored suites, sorted.
	List(ctx context.Context) ([]string, error)
}

// FSSnapshotStore stores one <suite>.snap file per suite inside a directory.
type FSSnapshotStore struct {
	dir string
}

// NewFSSnapshotStore constructs a store rooted at dir. The directory is created on first save.
func NewFSSnapshotStore(dir string) *FSSnapshotStore {
	return &FSSnapshotStore{dir: dir}
}

// Dir returns the directory snapshots are stored in.
func (s *FSSnapshotStore) Dir() string {
	return s.dir
}

func (s *FSSnapshotStore) path(suite string) string {
	return filepath.Join(s.dir, suite+SnapshotExt)
}

// Load implements SnapshotStore.
func (s *FSSnapshotStore) Load(ctx context.Context, suite string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	path := s.path(suite)

	// #nosec G304 - suite names come from the stage and corpus registry
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			slog.Debug("No snapshot found", "suite", suite, "path", path)
			return "", false, nil
		}

		slog.Error("Failed to read snapshot", "suite", suite, "path", path, "error", err)

		return "", false, fmt.Errorf("read snapshot %s: %w", path, err)
	}

	return string(content), true, nil
}

// Save implements SnapshotStore.
func (s *FSSnapshotStore) Save(ctx context.Context, suite string, content string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.MkdirAll(s.dir, 0o750); err != nil {
		slog.Error("Failed to create snapshot dir", "dir", s.dir, "error", err)
		return fmt.Errorf("create snapshot dir: %w", err)
	}

	path := s.path(suite)
	tmp := path + ".tmp"

	if err := os.WriteFile(tmp, []byte(content), 0o600); err != nil {
		slog.Error("Failed to write snapshot", "suite", suite, "path", tmp, "error", err)
		return fmt.Errorf("write snapshot %s: %w", tmp, err)
	}

	if err := os.Rename(tmp, path); err != nil {
		slog.Error("Failed to replace snapshot", "suite", suite, "path", path, "error", err)
		return fmt.Errorf("replace snapshot %s: %w", path, err)
	}

	slog.Info("Snapshot saved", "suite", suite, "path", path)

	return nil
}

// List implements SnapshotStore.
func (s *FSSnapshotStore) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}

		slog.Error("Failed to list snapshots", "dir", s.dir, "error", err)

		return nil, fmt.Errorf("list snapshots: %w", err)
	}

	suites := make([]string, 0, len(entries))

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), SnapshotExt) {
			continue
		}

		suites = append(suites, strings.TrimSuffix(entry.Name(), SnapshotExt))
	}

	sort.Strings(suites)

	return suites, nil
}
