package corpus

import (
	"context"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"

	"conform.dev/pkg/conform/internal/adapter"
	m "conform.dev/pkg/conform/internal/model"
)

// TypeScriptName is the corpus name of the TypeScript compiler test cases.
const TypeScriptName = "typescript"

var (
	typeScriptCaseDirs  = []string{"compiler", "conformance"}
	typeScriptExts      = []string{".ts", ".tsx", ".mts", ".cts"}
	typeScriptDirective = regexp.MustCompile(`^\s*//\s*@(\w+)\s*:\s*(.*?)\s*$`)
	// Syntax errors are the TS1xxx range; semantic checker errors are out of reach of a parser.
	typeScriptSyntaxError = regexp.MustCompile(`error TS1\d{3}:`)
)

// TypeScriptSettings are the lower-cased compiler directives of a test file.
type TypeScriptSettings map[string]string

// IsTrue reports whether a boolean directive is enabled.
func (s TypeScriptSettings) IsTrue(key string) bool {
	return strings.EqualFold(s[key], "true")
}

// SplitTypeScriptCase splits a test file into units at each @filename directive.
// A file without @filename directives is a single unit named after the file itself.
func SplitTypeScriptCase(name, code string) ([]m.TestUnit, TypeScriptSettings) {
	settings := TypeScriptSettings{}

	type section struct {
		name  string
		lines []string
	}

	var (
		sections []section
		preamble []string
	)

	for _, line := range strings.Split(code, "\n") {
		match := typeScriptDirective.FindStringSubmatch(line)
		if match == nil {
			if len(sections) == 0 {
				preamble = append(preamble, line)
			} else {
				last := &sections[len(sections)-1]
				last.lines = append(last.lines, line)
			}

			continue
		}

		key := strings.ToLower(match[1])
		if key == "filename" {
			sections = append(sections, section{name: match[2]})
			continue
		}

		settings[key] = match[2]
	}

	if len(sections) == 0 {
		sections = []section{{name: name, lines: preamble}}
	}

	units := make([]m.TestUnit, 0, len(sections))

	for _, s := range sections {
		if !hasExt(s.name, typeScriptExts...) && !hasExt(s.name, ".js", ".jsx", ".mjs", ".cjs") {
			continue
		}

		units = append(units, m.TestUnit{
			Name:       s.name,
			Content:    strings.Join(s.lines, "\n"),
			SourceType: typeScriptSourceType(s.name, settings),
		})
	}

	return units, settings
}

func typeScriptSourceType(name string, settings TypeScriptSettings) m.SourceType {
	kind := moduleKindFromPath(name)

	if module := strings.ToLower(settings["module"]); module != "" && module != "none" {
		kind = m.Module
	}

	return m.SourceType{
		Dialect: m.DialectFromPath(name),
		Kind:    kind,
		Strict:  kind == m.Module || settings.IsTrue("alwaysstrict") || settings.IsTrue("strict"),
	}
}

// TypeScript discovers <root>/typescript/tests/cases/{compiler,conformance}.
type TypeScript struct {
	base
}

// NewTypeScript constructs the TypeScript corpus rooted at root.
func NewTypeScript(fs adapter.CorpusFSAdapter, root string) *TypeScript {
	return &TypeScript{base: base{fs: fs, root: root}}
}

// Name implements domain.Corpus.
func (t *TypeScript) Name() string {
	return TypeScriptName
}

// Discover implements domain.Corpus.
func (t *TypeScript) Discover(ctx context.Context) ([]m.Fixture, error) {
	casesDir, err := t.dir("typescript", "tests", "cases")
	if err != nil {
		return nil, err
	}

	baselines := t.fs.JoinPath(t.root, "typescript", "tests", "baselines", "reference")

	var fixtures []m.Fixture

	accept := func(path string) bool {
		return hasExt(path, typeScriptExts...)
	}

	for _, sub := range typeScriptCaseDirs {
		dir := t.fs.JoinPath(casesDir, sub)
		if !t.fs.Exists(dir) {
			continue
		}

		err := t.walk(ctx, dir, accept, func(path string) error {
			rel, code, err := t.read(path)
			if err != nil {
				return err
			}

			units, _ := SplitTypeScriptCase(filepath.Base(path), code)
			if len(units) == 0 {
				return nil
			}

			fixtures = append(fixtures, m.Fixture{
				Path:       rel,
				Code:       code,
				Units:      units,
				ShouldFail: t.expectsSyntaxError(baselines, path),
			})

			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	slog.Debug("Discovered corpus", "corpus", TypeScriptName, "fixtures", len(fixtures))

	return fixtures, nil
}

func (t *TypeScript) expectsSyntaxError(baselines, path string) bool {
	name := filepath.Base(path)
	name = strings.TrimSuffix(name, filepath.Ext(name))

	errorsPath := t.fs.JoinPath(baselines, name+".errors.txt")
	if !t.fs.Exists(errorsPath) {
		return false
	}

	content, err := t.fs.ReadFile(errorsPath)
	if err != nil {
		slog.Warn("Failed to read error baseline", "path", errorsPath, "error", err)
		return false
	}

	return typeScriptSyntaxError.Match(content)
}
