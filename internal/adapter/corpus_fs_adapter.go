// Package adapter contains the infrastructure adapters for the conformance harness:
// corpus filesystem access, snapshot persistence, the toolchain under test and the
// external runtime process.
package adapter

import (
	"os"
	"path/filepath"
	"strings"

	m "conform.dev/pkg/conform/internal/model"
)

// CorpusFSAdapter abstracts the filesystem operations corpus discovery relies on,
// so that corpus parsing can be tested without a checkout of each corpus.
type CorpusFSAdapter interface {
	// Walk traverses root recursively in lexical order, skipping VCS and
	// dependency directories.
	Walk(root string, fn FilepathWalkFunc) error

	// ReadFile loads a file from disk and returns its contents.
	ReadFile(path string) ([]byte, error)

	// FileInfo returns metadata for a path so callers can check existence.
	FileInfo(path string) (os.FileInfo, error)

	// Exists reports whether path exists. Errors other than "not found" count as existing.
	Exists(path string) bool

	// RelPath returns the slash separated path of target relative to base.
	RelPath(base, target string) (m.Path, error)

	// JoinPath joins path elements into a single path.
	JoinPath(elem ...string) string
}

// FilepathWalkFunc mirrors the callback shape used by filepath.Walk.
type FilepathWalkFunc func(path string, info os.FileInfo, err error) error

// LocalCorpusFSAdapter is the os-backed CorpusFSAdapter.
type LocalCorpusFSAdapter struct{}

// NewLocalCorpusFSAdapter constructs a LocalCorpusFSAdapter.
func NewLocalCorpusFSAdapter() *LocalCorpusFSAdapter {
	return &LocalCorpusFSAdapter{}
}

// Walk iterates over every file and directory under root.
func (a *LocalCorpusFSAdapter) Walk(root string, fn FilepathWalkFunc) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return fn(path, info, err)
		}

		if info.IsDir() && path != root {
			baseName := filepath.Base(path)
			if baseName == ".git" || baseName == "node_modules" {
				return filepath.SkipDir
			}
		}

		return fn(path, info, nil)
	})
}

// ReadFile loads file contents from disk.
func (a *LocalCorpusFSAdapter) ReadFile(path string) ([]byte, error) {
	// #nosec G304 - corpus paths come from walking the configured corpus root
	return os.ReadFile(path)
}

// FileInfo returns os.FileInfo metadata for the given path.
func (a *LocalCorpusFSAdapter) FileInfo(path string) (os.FileInfo, error) {
	return os.Stat(path)
}

// Exists reports whether path exists.
func (a *LocalCorpusFSAdapter) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil || !os.IsNotExist(err)
}

// RelPath returns the relative path from base to target using forward slashes.
func (a *LocalCorpusFSAdapter) RelPath(base, target string) (m.Path, error) {
	rel, err := filepath.Rel(base, target)
	if err != nil {
		return "", err
	}

	return m.Path(strings.TrimPrefix(filepath.ToSlash(rel), "./")), nil
}

// JoinPath joins path elements into a single path.
func (a *LocalCorpusFSAdapter) JoinPath(elem ...string) string {
	return filepath.Join(elem...)
}
