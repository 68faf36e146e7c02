package corpus

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"conform.dev/pkg/conform/internal/adapter"
	m "conform.dev/pkg/conform/internal/model"
)

// Test262Name is the corpus name of the ECMAScript conformance suite.
const Test262Name = "test262"

const useStrictPrefix = "\"use strict\";\n"

var test262Frontmatter = regexp.MustCompile(`(?s)/\*---(.*?)---\*/`)

// Test262Meta is the YAML frontmatter of a test262 file.
type Test262Meta struct {
	Description string           `yaml:"description"`
	Flags       []string         `yaml:"flags"`
	Features    []string         `yaml:"features"`
	Includes    []string         `yaml:"includes"`
	Negative    *Test262Negative `yaml:"negative"`
}

// Test262Negative declares that a test must fail in the given phase.
type Test262Negative struct {
	Phase string `yaml:"phase"`
	Type  string `yaml:"type"`
}

// HasFlag reports whether the metadata carries flag.
func (t Test262Meta) HasFlag(flag string) bool {
	for _, f := range t.Flags {
		if f == flag {
			return true
		}
	}

	return false
}

// ShouldFail reports whether the program must be rejected before evaluation.
func (t Test262Meta) ShouldFail() bool {
	return t.Negative != nil && (t.Negative.Phase == "parse" || t.Negative.Phase == "early")
}

// ParseTest262Meta extracts the frontmatter. A file without frontmatter has empty metadata.
func ParseTest262Meta(code string) (Test262Meta, error) {
	var meta Test262Meta

	match := test262Frontmatter.FindStringSubmatch(code)
	if match == nil {
		return meta, nil
	}

	if err := yaml.Unmarshal([]byte(match[1]), &meta); err != nil {
		return meta, err
	}

	return meta, nil
}

// Test262Units derives the units of a test262 file from its flags.
func Test262Units(code string, meta Test262Meta) []m.TestUnit {
	sloppy := m.TestUnit{Name: "sloppy", Content: code, SourceType: m.SourceType{Dialect: m.DialectJS, Kind: m.Script}}
	strict := m.TestUnit{
		Name:       "strict",
		Content:    useStrictPrefix + code,
		SourceType: m.SourceType{Dialect: m.DialectJS, Kind: m.Script, Strict: true},
	}

	switch {
	case meta.HasFlag("module"):
		return []m.TestUnit{{
			Name:       "module",
			Content:    code,
			SourceType: m.SourceType{Dialect: m.DialectJS, Kind: m.Module, Strict: true},
		}}
	case meta.HasFlag("raw"):
		sloppy.Name = "raw"
		return []m.TestUnit{sloppy}
	case meta.HasFlag("onlyStrict"):
		return []m.TestUnit{strict}
	case meta.HasFlag("noStrict"):
		return []m.TestUnit{sloppy}
	default:
		return []m.TestUnit{sloppy, strict}
	}
}

// Test262 discovers <root>/test262/test/**/*.js.
type Test262 struct {
	base
}

// NewTest262 constructs the test262 corpus rooted at root.
func NewTest262(fs adapter.CorpusFSAdapter, root string) *Test262 {
	return &Test262{base: base{fs: fs, root: root}}
}

// Name implements domain.Corpus.
func (t *Test262) Name() string {
	return Test262Name
}

// Discover implements domain.Corpus.
func (t *Test262) Discover(ctx context.Context) ([]m.Fixture, error) {
	dir, err := t.dir("test262", "test")
	if err != nil {
		return nil, err
	}

	var fixtures []m.Fixture

	accept := func(path string) bool {
		return hasExt(path, ".js") && !strings.HasSuffix(path, "_FIXTURE.js")
	}

	err = t.walk(ctx, dir, accept, func(path string) error {
		rel, code, err := t.read(path)
		if err != nil {
			return err
		}

		meta, err := ParseTest262Meta(code)
		if err != nil {
			slog.Warn("Invalid test262 frontmatter, using defaults", "path", rel, "error", err)
		}

		fixtures = append(fixtures, m.Fixture{
			Path:       rel,
			Code:       code,
			Units:      Test262Units(code, meta),
			ShouldFail: meta.ShouldFail(),
		})

		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Debug("Discovered corpus", "corpus", Test262Name, "fixtures", len(fixtures))

	return fixtures, nil
}
