// Package corpus discovers fixtures in the third-party test corpora and turns each
// source file into one or more executable units plus its declared expectation.
package corpus

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"conform.dev/pkg/conform/internal/adapter"
	"conform.dev/pkg/conform/internal/domain"
	m "conform.dev/pkg/conform/internal/model"
)

const byteOrderMark = "\ufeff"

// base holds what every corpus shares: the filesystem and the directory all
// fixture paths are made relative to.
type base struct {
	fs   adapter.CorpusFSAdapter
	root string
}

// dir resolves a directory below the corpus root and fails when it is absent.
func (b base) dir(elem ...string) (string, error) {
	dir := b.fs.JoinPath(append([]string{b.root}, elem...)...)
	if !b.fs.Exists(dir) {
		slog.Error("Corpus directory missing", "dir", dir)
		return "", fmt.Errorf("%w: %s", domain.ErrCorpusMissing, dir)
	}

	return dir, nil
}

// walk visits every regular file below dir that accept selects, in lexical order.
func (b base) walk(ctx context.Context, dir string, accept func(path string) bool, visit func(path string) error) error {
	err := b.fs.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if err := ctx.Err(); err != nil {
			return err
		}

		if info.IsDir() || !accept(path) {
			return nil
		}

		return visit(path)
	})
	if err != nil {
		return fmt.Errorf("walk %s: %w", dir, err)
	}

	return nil
}

// read loads a fixture and returns its corpus-relative path and its text without BOM.
func (b base) read(path string) (m.Path, string, error) {
	rel, err := b.fs.RelPath(b.root, path)
	if err != nil {
		return "", "", fmt.Errorf("relative path of %s: %w", path, err)
	}

	content, err := b.fs.ReadFile(path)
	if err != nil {
		slog.Error("Failed to read fixture", "path", path, "error", err)
		return "", "", fmt.Errorf("read fixture %s: %w", path, err)
	}

	return rel, strings.TrimPrefix(string(content), byteOrderMark), nil
}

func hasExt(path string, exts ...string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}

	return false
}

func moduleKindFromPath(path string) m.ModuleKind {
	if hasExt(path, ".mjs", ".mts") {
		return m.Module
	}

	return m.Script
}
