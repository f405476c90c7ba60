package forest

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/vanderheijden86/mind/pkg/tree"
)

// Summary describes one tree of the forest.
type Summary struct {
	Dir      string // empty for the main tree
	Name     string
	Type     tree.Type
	Nodes    int
	Files    int
	Links    int
	MaxDepth int
}

// Summarize computes the summary of a single tree.
func Summarize(dir string, t *tree.Tree) Summary {
	s := Summary{Dir: dir, Type: t.Type()}
	t.Walk(func(info tree.NodeInfo) bool {
		if info.Depth == 0 {
			s.Name = info.Name
		}
		s.Nodes++
		s.MaxDepth = max(s.MaxDepth, info.Depth)
		if info.Data != nil {
			switch info.Data.Kind {
			case tree.KindFile:
				s.Files++
			case tree.KindLink:
				s.Links++
			}
		}
		return true
	})
	return s
}

// Summaries summarizes the main tree followed by every project tree in
// directory order. Trees are walked concurrently.
func (f *Forest) Summaries(ctx context.Context) ([]Summary, error) {
	projects := f.CWDTrees()
	results := make([]Summary, len(projects)+1)

	g, ctx := errgroup.WithContext(ctx)
	// Trees are small; a handful of workers is plenty.
	g.SetLimit(8)

	g.Go(func() error {
		results[0] = Summarize("", f.MainTree())
		return nil
	})
	for i, p := range projects {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i+1] = Summarize(p.Dir, p.Tree)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
