// Package forest stores mind trees on disk: one main tree plus one tree per
// project directory, all in a single state file.
//
// State file layout:
//
//	{
//	  "tree": { ...main tree... },
//	  "projects": {
//	    "/home/me/src/app": { ...tree... }
//	  }
//	}
package forest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	json "github.com/goccy/go-json"

	"github.com/vanderheijden86/mind/pkg/tree"
)

// Persistence errors.
var (
	ErrNotPersisted   = errors.New("no persisted state")
	ErrCannotRead     = errors.New("cannot read state")
	ErrCannotWrite    = errors.New("cannot write state")
	ErrCannotDecode   = errors.New("cannot deserialize state")
	ErrCannotEncode   = errors.New("cannot serialize state")
	ErrUnknownProject = errors.New("no tree for directory")
)

// DefaultTreeName names the main tree of a fresh forest.
const DefaultTreeName = "mind"

// LocalFileName is the file a project-local tree is stored in.
const LocalFileName = ".mind.json"

// Forest is the main tree plus project trees keyed by absolute directory.
type Forest struct {
	mu       sync.RWMutex
	main     *tree.Tree
	projects map[string]*tree.Tree
}

// New returns a forest around main and no project trees.
func New(main *tree.Tree) *Forest {
	return &Forest{
		main:     main,
		projects: make(map[string]*tree.Tree),
	}
}

// MainTree returns the main tree.
func (f *Forest) MainTree() *tree.Tree {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.main
}

// SetMainTree replaces the main tree.
func (f *Forest) SetMainTree(t *tree.Tree) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.main = t
}

// CWDTree returns the tree registered for dir.
func (f *Forest) CWDTree(dir string) (*tree.Tree, bool) {
	key, err := projectKey(dir)
	if err != nil {
		return nil, false
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	t, ok := f.projects[key]
	return t, ok
}

// AddCWDTree registers t for dir, replacing any tree already there.
func (f *Forest) AddCWDTree(dir string, t *tree.Tree) error {
	key, err := projectKey(dir)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.projects[key] = t
	return nil
}

// RemoveCWDTree drops the tree registered for dir.
func (f *Forest) RemoveCWDTree(dir string) error {
	key, err := projectKey(dir)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.projects[key]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownProject, key)
	}
	delete(f.projects, key)
	return nil
}

// Project is a directory and its tree.
type Project struct {
	Dir  string
	Tree *tree.Tree
}

// CWDTrees returns the project trees sorted by directory.
func (f *Forest) CWDTrees() []Project {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]Project, 0, len(f.projects))
	for dir, t := range f.projects {
		out = append(out, Project{Dir: dir, Tree: t})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Dir < out[j].Dir })
	return out
}

func projectKey(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", dir, err)
	}
	return filepath.Clean(abs), nil
}

type document struct {
	Tree     *tree.Tree            `json:"tree"`
	Projects map[string]*tree.Tree `json:"projects"`
}

// MarshalJSON encodes the whole forest.
func (f *Forest) MarshalJSON() ([]byte, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return json.Marshal(document{Tree: f.main, Projects: f.projects})
}

// UnmarshalJSON replaces the forest content with the decoded document.
func (f *Forest) UnmarshalJSON(data []byte) error {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	if doc.Tree == nil {
		return errors.New("state has no main tree")
	}
	if doc.Projects == nil {
		doc.Projects = make(map[string]*tree.Tree)
	}
	for dir, t := range doc.Projects {
		if t == nil {
			return fmt.Errorf("project %q has no tree", dir)
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.main = doc.Tree
	f.projects = doc.Projects
	return nil
}

// Load reads a forest from path. A missing file yields ErrNotPersisted.
func Load(path string) (*Forest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotPersisted, path)
		}
		return nil, fmt.Errorf("%w: %w", ErrCannotRead, err)
	}

	f := &Forest{}
	if err := json.Unmarshal(data, f); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCannotDecode, path, err)
	}
	return f, nil
}

// LoadOrNew is Load that starts a fresh forest when nothing is persisted yet.
func LoadOrNew(path string) (*Forest, error) {
	f, err := Load(path)
	if errors.Is(err, ErrNotPersisted) {
		return New(tree.NewTree(DefaultTreeName, "")), nil
	}
	return f, err
}

// Persist writes the forest to path, creating parent directories. The whole
// document is serialized before the file is touched.
func (f *Forest) Persist(path string) error {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCannotEncode, err)
	}
	return writeAtomic(path, data)
}

// LoadTree reads a single-tree document such as a project-local tree file.
func LoadTree(path string) (*tree.Tree, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotPersisted, path)
		}
		return nil, fmt.Errorf("%w: %w", ErrCannotRead, err)
	}
	t := &tree.Tree{}
	if err := json.Unmarshal(data, t); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCannotDecode, path, err)
	}
	return t, nil
}

// PersistTree writes a single-tree document.
func PersistTree(path string, t *tree.Tree) error {
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCannotEncode, err)
	}
	return writeAtomic(path, data)
}

// writeAtomic replaces path with data through a temp file and a rename so
// readers and file watchers never see a partial document.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: %w", ErrCannotWrite, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCannotWrite, err)
	}
	tmpName := tmp.Name()

	// CreateTemp opens with 0600; state files are plain user files.
	if err := tmp.Chmod(stateFileMode(path)); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: %w", ErrCannotWrite, err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: %w", ErrCannotWrite, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: %w", ErrCannotWrite, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: %w", ErrCannotWrite, err)
	}
	return nil
}

// stateFileMode keeps the mode of an existing file and is 0644 otherwise.
func stateFileMode(path string) os.FileMode {
	if fi, err := os.Stat(path); err == nil {
		return fi.Mode().Perm()
	}
	return 0o644
}
