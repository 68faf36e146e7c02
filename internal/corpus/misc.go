package corpus

import (
	"context"
	"log/slog"

	"conform.dev/pkg/conform/internal/adapter"
	m "conform.dev/pkg/conform/internal/model"
)

// MiscName is the corpus name of the hand-collected fixtures.
const MiscName = "misc"

var miscExts = []string{".js", ".mjs", ".cjs", ".jsx", ".ts", ".mts", ".cts", ".tsx"}

// Misc discovers <root>/misc/pass (valid programs) and <root>/misc/fail (invalid programs).
type Misc struct {
	base
}

// NewMisc constructs the misc corpus rooted at root.
func NewMisc(fs adapter.CorpusFSAdapter, root string) *Misc {
	return &Misc{base: base{fs: fs, root: root}}
}

// Name implements domain.Corpus.
func (c *Misc) Name() string {
	return MiscName
}

// Discover implements domain.Corpus.
func (c *Misc) Discover(ctx context.Context) ([]m.Fixture, error) {
	if _, err := c.dir("misc"); err != nil {
		return nil, err
	}

	var fixtures []m.Fixture

	accept := func(path string) bool {
		return hasExt(path, miscExts...)
	}

	for _, group := range []struct {
		dir        string
		shouldFail bool
	}{{"pass", false}, {"fail", true}} {
		dir := c.fs.JoinPath(c.root, "misc", group.dir)
		if !c.fs.Exists(dir) {
			continue
		}

		err := c.walk(ctx, dir, accept, func(path string) error {
			rel, code, err := c.read(path)
			if err != nil {
				return err
			}

			kind := moduleKindFromPath(path)

			fixtures = append(fixtures, m.Fixture{
				Path: rel,
				Code: code,
				Units: []m.TestUnit{{
					Name:    "source",
					Content: code,
					SourceType: m.SourceType{
						Dialect: m.DialectFromPath(path),
						Kind:    kind,
						Strict:  kind == m.Module,
					},
				}},
				ShouldFail: group.shouldFail,
			})

			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	slog.Debug("Discovered corpus", "corpus", MiscName, "fixtures", len(fixtures))

	return fixtures, nil
}
