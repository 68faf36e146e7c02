package domain_test

import (
	"bytes"
	"context"
	"strings"

	"github.com/spf13/cobra"

	"conform.dev/pkg/conform/internal/controller"
	m "conform.dev/pkg/conform/internal/model"
)

var scriptJS = m.SourceType{Dialect: m.DialectJS, Kind: m.Script}

type fakeTool struct {
	name    string
	execute func(unit m.TestUnit) m.TestResult
}

func (f fakeTool) Name() string {
	return f.name
}

func (f fakeTool) Execute(_ context.Context, unit m.TestUnit) m.TestResult {
	return f.execute(unit)
}

// syntaxTool rejects every unit containing "@@".
func syntaxTool() fakeTool {
	return fakeTool{name: "parser", execute: func(unit m.TestUnit) m.TestResult {
		if strings.Contains(unit.Content, "@@") {
			return m.NewParseError([]string{"1:1: unexpected token"})
		}

		return m.Pass()
	}}
}

type skippingTool struct {
	fakeTool
}

func (skippingTool) SkipCase(_ m.Path, shouldFail bool) bool {
	return shouldFail
}

type staticCorpus struct {
	name     string
	fixtures []m.Fixture
	err      error
}

func (c *staticCorpus) Name() string {
	return c.name
}

func (c *staticCorpus) Discover(_ context.Context) ([]m.Fixture, error) {
	if c.err != nil {
		return nil, c.err
	}

	fixtures := make([]m.Fixture, len(c.fixtures))
	copy(fixtures, c.fixtures)

	return fixtures, nil
}

func jsFixture(path, code string, shouldFail bool) m.Fixture {
	return m.Fixture{
		Path:       m.Path(path),
		Code:       code,
		ShouldFail: shouldFail,
		Units:      []m.TestUnit{{Name: path, Content: code, SourceType: scriptJS}},
	}
}

// scenarioCorpus is the three fixture corpus: a valid file, an invalid file that is
// expected to fail and an invalid file that is expected to parse.
func scenarioCorpus() *staticCorpus {
	return &staticCorpus{name: "misc", fixtures: []m.Fixture{
		jsFixture("c.js", "let c = @@;", false),
		jsFixture("a.js", "let a = 1;", false),
		jsFixture("b.js", "let b = @@;", true),
	}}
}

func newTestUI() (controller.UI, *bytes.Buffer) {
	var out bytes.Buffer

	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	cmd.SetErr(&out)

	return controller.NewUI(cmd, false), &out
}
