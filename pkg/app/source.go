package app

import (
	"errors"
	"path/filepath"

	"github.com/vanderheijden86/mind/pkg/forest"
	"github.com/vanderheijden86/mind/pkg/tree"
)

// Source loads and stores the one tree an App edits.
type Source interface {
	// Title is shown in the header.
	Title() string
	// Path is the file the tree lives in; the app watches it.
	Path() string
	Load() (*tree.Tree, error)
	Save(*tree.Tree) error
}

// ForestSource is a tree inside the forest state file: the main tree when
// Dir is empty, the tree registered for Dir otherwise.
type ForestSource struct {
	StatePath string
	Dir       string
}

func (s ForestSource) Title() string {
	if s.Dir == "" {
		return forest.DefaultTreeName
	}
	return s.Dir
}

func (s ForestSource) Path() string { return s.StatePath }

// Load returns a fresh tree when the forest has none for Dir yet.
func (s ForestSource) Load() (*tree.Tree, error) {
	f, err := forest.LoadOrNew(s.StatePath)
	if err != nil {
		return nil, err
	}
	if s.Dir == "" {
		return f.MainTree(), nil
	}
	if t, ok := f.CWDTree(s.Dir); ok {
		return t, nil
	}
	return tree.NewTree(filepath.Base(s.Dir), ""), nil
}

// Save re-reads the state file and swaps in t, so other trees of the forest
// changed on disk in the meantime are kept.
func (s ForestSource) Save(t *tree.Tree) error {
	f, err := forest.LoadOrNew(s.StatePath)
	if err != nil {
		return err
	}
	if s.Dir == "" {
		f.SetMainTree(t)
	} else if err := f.AddCWDTree(s.Dir, t); err != nil {
		return err
	}
	return f.Persist(s.StatePath)
}

// FileSource is a tree stored alone in a file, such as a project's
// .mind.json.
type FileSource struct {
	FilePath string
}

func (s FileSource) Title() string { return s.FilePath }

func (s FileSource) Path() string { return s.FilePath }

// Load returns a fresh local tree named after the directory when the file
// does not exist yet.
func (s FileSource) Load() (*tree.Tree, error) {
	t, err := forest.LoadTree(s.FilePath)
	if errors.Is(err, forest.ErrNotPersisted) {
		abs, _ := filepath.Abs(s.FilePath)
		return tree.NewLocalTree(filepath.Base(filepath.Dir(abs)), ""), nil
	}
	return t, err
}

func (s FileSource) Save(t *tree.Tree) error {
	return forest.PersistTree(s.FilePath, t)
}
