// Package testutil provides tree fixtures and assertions shared by tests.
// All generators produce deterministic output for reproducible tests.
package testutil

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/vanderheijden86/mind/pkg/tree"
)

// GeneratorConfig controls tree generation.
type GeneratorConfig struct {
	Seed       int64   // Random seed for determinism (0 = 42)
	NamePrefix string  // Prefix for node names (default: "n")
	DataRatio  float64 // Share of nodes given file or link data
	Expanded   bool    // Expand every generated node
}

// DefaultConfig returns a config suitable for most tests.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Seed:       42,
		NamePrefix: "n",
		Expanded:   true,
	}
}

// Generator creates trees of various shapes.
type Generator struct {
	cfg   GeneratorConfig
	rng   *rand.Rand
	count int
}

// New creates a Generator with the given config.
func New(cfg GeneratorConfig) *Generator {
	if cfg.Seed == 0 {
		cfg.Seed = 42
	}
	if cfg.NamePrefix == "" {
		cfg.NamePrefix = "n"
	}
	return &Generator{
		cfg: cfg,
		rng: rand.New(rand.NewSource(cfg.Seed)),
	}
}

// NewDefault creates a Generator with default config.
func NewDefault() *Generator {
	return New(DefaultConfig())
}

func (g *Generator) node(t *tree.Tree) tree.Node {
	n := t.NewNode(fmt.Sprintf("%s%d", g.cfg.NamePrefix, g.count), "")
	g.count++
	n.SetExpanded(g.cfg.Expanded)
	if g.cfg.DataRatio > 0 && g.rng.Float64() < g.cfg.DataRatio {
		if g.rng.Intn(2) == 0 {
			_ = n.SetData(tree.File(fmt.Sprintf("/data/%s.md", n.Name())))
		} else {
			_ = n.SetData(tree.Link(fmt.Sprintf("https://example.com/%s", n.Name())))
		}
	}
	return n
}

func (g *Generator) newTree() *tree.Tree {
	g.count = 0
	t := tree.NewTree("root", "")
	t.Root().SetExpanded(g.cfg.Expanded)
	return t
}

// Chain creates root -> n0 -> n1 -> ... -> n{size-1}, one child per level.
func (g *Generator) Chain(size int) *tree.Tree {
	t := g.newTree()
	parent := t.Root()
	for i := 0; i < size; i++ {
		n := g.node(t)
		mustInsert(parent.InsertBottom(n))
		parent = n
	}
	return t
}

// Wide creates a root with size direct children.
func (g *Generator) Wide(size int) *tree.Tree {
	t := g.newTree()
	for i := 0; i < size; i++ {
		mustInsert(t.Root().InsertBottom(g.node(t)))
	}
	return t
}

// Balanced creates a tree where every non-leaf node has breadth children,
// depth levels below the root.
func (g *Generator) Balanced(depth, breadth int) *tree.Tree {
	t := g.newTree()
	level := []tree.Node{t.Root()}
	for d := 0; d < depth; d++ {
		var next []tree.Node
		for _, parent := range level {
			for b := 0; b < breadth; b++ {
				n := g.node(t)
				mustInsert(parent.InsertBottom(n))
				next = append(next, n)
			}
		}
		level = next
	}
	return t
}

// Random creates a tree of size nodes, each attached under a random earlier
// node at a random end of its children.
func (g *Generator) Random(size int) *tree.Tree {
	t := g.newTree()
	nodes := []tree.Node{t.Root()}
	for i := 0; i < size; i++ {
		parent := nodes[g.rng.Intn(len(nodes))]
		n := g.node(t)
		if g.rng.Intn(2) == 0 {
			mustInsert(parent.InsertTop(n))
		} else {
			mustInsert(parent.InsertBottom(n))
		}
		nodes = append(nodes, n)
	}
	return t
}

func mustInsert(err error) {
	if err != nil {
		panic(err)
	}
}

// Build creates a tree from an indented outline. Each line is a node name,
// indented two spaces per level below the root:
//
//	x
//	  a
//	  b
//	y
//
// Every node is expanded.
func Build(outline string) *tree.Tree {
	t := tree.NewTree("root", "")
	t.Root().SetExpanded(true)
	stack := []tree.Node{t.Root()}
	for _, line := range strings.Split(outline, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		depth := (len(line) - len(strings.TrimLeft(line, " "))) / 2
		if depth+1 > len(stack) {
			panic(fmt.Sprintf("outline line %q skips a level", line))
		}
		stack = stack[:depth+1]
		n := t.NewNode(line, "")
		n.SetExpanded(true)
		mustInsert(stack[depth].InsertBottom(n))
		stack = append(stack, n)
	}
	return t
}

// Find returns the node at the slash-separated path, panicking if absent.
func Find(t *tree.Tree, path string) tree.Node {
	n, ok := t.GetNodeByPath(tree.PathSegments(path), false)
	if !ok {
		panic(fmt.Sprintf("no node at %q", path))
	}
	return n
}
