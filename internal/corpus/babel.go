package corpus

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"conform.dev/pkg/conform/internal/adapter"
	m "conform.dev/pkg/conform/internal/model"
)

// BabelName is the corpus name of the Babel parser fixtures.
const BabelName = "babel"

const babelOptionsFile = "options.json"

var babelInputExts = []string{".js", ".mjs", ".cjs", ".jsx", ".ts", ".mts", ".cts", ".tsx"}

// BabelOptions is the merged options.json that applies to one fixture.
type BabelOptions map[string]any

// Throws returns the error message the fixture is declared to throw, if any.
func (o BabelOptions) Throws() string {
	if throws, ok := o["throws"].(string); ok {
		return throws
	}

	return ""
}

// SourceType returns the declared source type, "script" by default.
func (o BabelOptions) SourceType() string {
	if sourceType, ok := o["sourceType"].(string); ok && sourceType != "" {
		return sourceType
	}

	return "script"
}

// HasPlugin reports whether plugin is enabled. Plugins are listed either by name
// or as a [name, options] pair.
func (o BabelOptions) HasPlugin(plugin string) bool {
	plugins, ok := o["plugins"].([]any)
	if !ok {
		return false
	}

	for _, p := range plugins {
		switch v := p.(type) {
		case string:
			if v == plugin {
				return true
			}
		case []any:
			if len(v) > 0 && v[0] == plugin {
				return true
			}
		}
	}

	return false
}

// Merge overlays child options on top of o.
func (o BabelOptions) Merge(child BabelOptions) BabelOptions {
	merged := make(BabelOptions, len(o)+len(child))
	for k, v := range o {
		merged[k] = v
	}

	for k, v := range child {
		merged[k] = v
	}

	return merged
}

// BabelSourceType derives the unit source type of a fixture from its extension and options.
func BabelSourceType(path string, opts BabelOptions) m.SourceType {
	dialect := m.DialectFromPath(path)

	if dialect == m.DialectJS {
		ts := opts.HasPlugin("typescript")
		jsx := opts.HasPlugin("jsx")

		switch {
		case ts && jsx:
			dialect = m.DialectTSX
		case ts:
			dialect = m.DialectTS
		case jsx:
			dialect = m.DialectJSX
		}
	}

	kind := moduleKindFromPath(path)
	if opts.SourceType() == "module" {
		kind = m.Module
	}

	return m.SourceType{Dialect: dialect, Kind: kind, Strict: kind == m.Module}
}

// Babel discovers <root>/babel/packages/babel-parser/test/fixtures/**/input.*.
type Babel struct {
	base

	options map[string]BabelOptions
}

// NewBabel constructs the Babel corpus rooted at root.
func NewBabel(fs adapter.CorpusFSAdapter, root string) *Babel {
	return &Babel{base: base{fs: fs, root: root}}
}

// Name implements domain.Corpus.
func (b *Babel) Name() string {
	return BabelName
}

// Discover implements domain.Corpus.
func (b *Babel) Discover(ctx context.Context) ([]m.Fixture, error) {
	dir, err := b.dir("babel", "packages", "babel-parser", "test", "fixtures")
	if err != nil {
		return nil, err
	}

	b.options = map[string]BabelOptions{}

	var fixtures []m.Fixture

	accept := func(path string) bool {
		name := filepath.Base(path)
		return strings.TrimSuffix(name, filepath.Ext(name)) == "input" && hasExt(path, babelInputExts...)
	}

	err = b.walk(ctx, dir, accept, func(path string) error {
		rel, code, err := b.read(path)
		if err != nil {
			return err
		}

		opts, err := b.optionsFor(dir, filepath.Dir(path))
		if err != nil {
			return err
		}

		shouldFail := opts.Throws() != "" || b.hasRecoverableErrors(filepath.Dir(path))

		fixtures = append(fixtures, m.Fixture{
			Path: rel,
			Code: code,
			Units: []m.TestUnit{{
				Name:       "input",
				Content:    code,
				SourceType: BabelSourceType(path, opts),
			}},
			ShouldFail: shouldFail,
		})

		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Debug("Discovered corpus", "corpus", BabelName, "fixtures", len(fixtures))

	return fixtures, nil
}

// optionsFor merges every options.json from the fixtures root down to dir.
func (b *Babel) optionsFor(root, dir string) (BabelOptions, error) {
	if opts, ok := b.options[dir]; ok {
		return opts, nil
	}

	parent := BabelOptions{}

	if dir != root && strings.HasPrefix(dir, root) {
		var err error

		parent, err = b.optionsFor(root, filepath.Dir(dir))
		if err != nil {
			return nil, err
		}
	}

	own, err := b.readOptions(b.fs.JoinPath(dir, babelOptionsFile))
	if err != nil {
		return nil, err
	}

	opts := parent.Merge(own)
	b.options[dir] = opts

	return opts, nil
}

func (b *Babel) readOptions(path string) (BabelOptions, error) {
	if !b.fs.Exists(path) {
		return BabelOptions{}, nil
	}

	content, err := b.fs.ReadFile(path)
	if err != nil {
		slog.Error("Failed to read babel options", "path", path, "error", err)
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	// JSON is a subset of YAML, so options.json decodes with the YAML parser.
	var opts BabelOptions
	if err := yaml.Unmarshal(content, &opts); err != nil {
		slog.Error("Failed to parse babel options", "path", path, "error", err)
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if opts == nil {
		opts = BabelOptions{}
	}

	return opts, nil
}

// hasRecoverableErrors reports whether the expected output lists parser errors that
// babel recovers from. Those fixtures are invalid programs too.
func (b *Babel) hasRecoverableErrors(dir string) bool {
	path := b.fs.JoinPath(dir, "output.json")
	if !b.fs.Exists(path) {
		return false
	}

	content, err := b.fs.ReadFile(path)
	if err != nil || !strings.Contains(string(content), `"errors"`) {
		return false
	}

	var output struct {
		Errors []any `yaml:"errors"`
	}

	if err := yaml.Unmarshal(content, &output); err != nil {
		slog.Warn("Failed to parse babel output", "path", path, "error", err)
		return false
	}

	return len(output.Errors) > 0
}
