package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vanderheijden86/mind/pkg/tree"
)

// TB is the part of testing.TB the tree assertions need. *testing.T and
// *rapid.T both satisfy it.
type TB interface {
	Helper()
	Errorf(format string, args ...any)
}

// AssertInvariants checks every node reachable from the root: each child
// points back at its parent and the prev/next chain matches the children
// order.
func AssertInvariants(t TB, tr *tree.Tree) {
	t.Helper()
	checkNode(t, tr.Root())
}

func checkNode(t TB, n tree.Node) {
	t.Helper()
	children := n.Children()
	seen := make(map[tree.Node]bool, len(children))
	for i, c := range children {
		if seen[c] {
			t.Errorf("%s: child %q listed twice", n.Path(), c.Name())
		}
		seen[c] = true

		p, err := c.Parent()
		if err != nil || p != n {
			t.Errorf("%s: child %q has parent %v (err %v)", n.Path(), c.Name(), p.Name(), err)
		}

		prev, hasPrev := c.Prev()
		if i == 0 {
			if hasPrev {
				t.Errorf("%s: first child %q has prev %q", n.Path(), c.Name(), prev.Name())
			}
		} else if !hasPrev || prev != children[i-1] {
			t.Errorf("%s: child %q prev mismatch", n.Path(), c.Name())
		}

		next, hasNext := c.Next()
		if i == len(children)-1 {
			if hasNext {
				t.Errorf("%s: last child %q has next %q", n.Path(), c.Name(), next.Name())
			}
		} else if !hasNext || next != children[i+1] {
			t.Errorf("%s: child %q next mismatch", n.Path(), c.Name())
		}

		checkNode(t, c)
	}
}

// AssertChildNames verifies the names of n's children, in order.
func AssertChildNames(t TB, n tree.Node, expected ...string) {
	t.Helper()
	var got []string
	for _, c := range n.Children() {
		got = append(got, c.Name())
	}
	if strings.Join(got, ",") != strings.Join(expected, ",") {
		t.Errorf("%s children = %v, want %v", n.Path(), got, expected)
	}
}

// AssertPaths verifies a path listing.
func AssertPaths(t TB, got []string, expected ...string) {
	t.Helper()
	if len(got) != len(expected) {
		t.Errorf("paths = %q, want %q", got, expected)
		return
	}
	for i := range got {
		if got[i] != expected[i] {
			t.Errorf("paths[%d] = %q, want %q (all: %q)", i, got[i], expected[i], got)
			return
		}
	}
}

// Golden file helpers

// GoldenFile handles golden file comparisons.
type GoldenFile struct {
	t      *testing.T
	dir    string
	name   string
	update bool
}

// NewGoldenFile creates a golden file helper.
// If GENERATE_GOLDEN env var is set, golden files will be updated.
func NewGoldenFile(t *testing.T, dir, name string) *GoldenFile {
	t.Helper()
	return &GoldenFile{
		t:      t,
		dir:    dir,
		name:   name,
		update: os.Getenv("GENERATE_GOLDEN") != "",
	}
}

// Path returns the full path to the golden file.
func (g *GoldenFile) Path() string {
	return filepath.Join(g.dir, g.name)
}

// Assert compares actual content against the golden file, or rewrites the
// file when GENERATE_GOLDEN is set.
func (g *GoldenFile) Assert(actual string) {
	g.t.Helper()
	path := g.Path()

	if g.update {
		if err := os.MkdirAll(g.dir, 0o755); err != nil {
			g.t.Fatalf("failed to create golden dir: %v", err)
		}
		if err := os.WriteFile(path, []byte(actual), 0o644); err != nil {
			g.t.Fatalf("failed to write golden file: %v", err)
		}
		g.t.Logf("updated golden file: %s", path)
		return
	}

	expected, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			g.t.Skipf("golden file does not exist: %s (run with GENERATE_GOLDEN=1 to create it)", path)
		}
		g.t.Fatalf("failed to read golden file: %v", err)
	}

	if string(expected) == actual {
		return
	}
	expectedLines := strings.Split(string(expected), "\n")
	actualLines := strings.Split(actual, "\n")
	for i := 0; i < len(expectedLines) || i < len(actualLines); i++ {
		var expLine, actLine string
		if i < len(expectedLines) {
			expLine = expectedLines[i]
		}
		if i < len(actualLines) {
			actLine = actualLines[i]
		}
		if expLine != actLine {
			g.t.Errorf("golden file mismatch at line %d:\nexpected: %s\nactual:   %s", i+1, expLine, actLine)
			return
		}
	}
}

// TempStateFile returns a path for a forest state file inside a fresh
// temporary directory. The file itself is not created.
func TempStateFile(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "mind", "state.json")
}
