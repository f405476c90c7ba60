// Package app is the logic side of the mind TUI. An App owns the edited tree,
// the cursor, the move mark and the dirty flag. The UI sends it Events and
// draws the Requests it sends back; the UI never touches the tree itself.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/vanderheijden86/mind/internal/opener"
	"github.com/vanderheijden86/mind/pkg/config"
	"github.com/vanderheijden86/mind/pkg/datafile"
	"github.com/vanderheijden86/mind/pkg/debug"
	"github.com/vanderheijden86/mind/pkg/tree"
	"github.com/vanderheijden86/mind/pkg/watcher"
)

// ignoreOwnSave is how long file change notifications are dropped after the
// app writes the tree itself.
const ignoreOwnSave = time.Second

var errRootDelete = errors.New("cannot delete the root node")

// Option configures an App.
type Option func(*App)

// WithDataFiles sets where CreateDataFile puts new files. The default is the
// configured data directory.
func WithDataFiles(s *datafile.Store) Option {
	return func(a *App) { a.store = s }
}

// WithURLOpener replaces the function links are opened with.
func WithURLOpener(fn func(url string) error) Option {
	return func(a *App) { a.openURL = fn }
}

// WithWatcher makes Run reload the tree when w reports a change.
func WithWatcher(w *watcher.Watcher) Option {
	return func(a *App) { a.watcher = w }
}

// App is the TUI logic loop.
type App struct {
	src     Source
	cfg     config.Config
	store   *datafile.Store
	openURL func(string) error
	watcher *watcher.Watcher

	tree   *tree.Tree
	cursor *tree.Cursor
	mark   tree.Node
	dirty  bool

	events   chan Event
	requests chan Request
	pending  []Request
}

// New loads the tree from src.
func New(src Source, cfg config.Config, opts ...Option) (*App, error) {
	t, err := src.Load()
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", src.Title(), err)
	}
	a := &App{
		src:      src,
		cfg:      cfg,
		openURL:  opener.OpenURL,
		events:   make(chan Event, 16),
		requests: make(chan Request, 16),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.store == nil {
		a.store = datafile.New(cfg.Persistence.DataDir)
	}
	a.reset(t)
	return a, nil
}

func (a *App) reset(t *tree.Tree) {
	if a.cfg.UI.ExpandAll {
		expandAll(t)
	}
	a.tree = t
	a.cursor = tree.NewCursor(t.Root())
	a.mark = tree.Node{}
}

func expandAll(t *tree.Tree) {
	var nodes []tree.Node
	t.Walk(func(info tree.NodeInfo) bool {
		if info.ChildCount > 0 {
			nodes = append(nodes, info.Node)
		}
		return true
	})
	for _, n := range nodes {
		n.SetExpanded(true)
	}
}

// Events is where the UI sends events.
func (a *App) Events() chan<- Event { return a.events }

// Requests is where the app sends requests. It is never closed.
func (a *App) Requests() <-chan Request { return a.requests }

// Tree returns the edited tree.
func (a *App) Tree() *tree.Tree { return a.tree }

// Current returns the node under the cursor.
func (a *App) Current() tree.Node { return a.cursor.Node() }

// Dirty reports unsaved changes.
func (a *App) Dirty() bool { return a.dirty }

// Run handles events until ctx is done or a Quit request went out. It sends
// an initial Snapshot before reading the first event.
func (a *App) Run(ctx context.Context) error {
	var changed <-chan struct{}
	if a.watcher != nil {
		if err := a.watcher.Start(); err != nil {
			debug.Warn("state watcher not started", "path", a.watcher.Path(), "error", err)
		} else {
			defer a.watcher.Stop()
			changed = a.watcher.Changed()
			debug.Info("watching state", "path", a.watcher.Path(), "polling", a.watcher.IsPolling())
		}
	}

	if !a.send(ctx, a.snapshot()) {
		return ctx.Err()
	}
	for {
		var ev Event
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev = <-a.events:
		case <-changed:
			ev = ExternalChange{}
		}
		for _, req := range a.Handle(ev) {
			if !a.send(ctx, req) {
				return ctx.Err()
			}
			if _, ok := req.(Quit); ok {
				return nil
			}
		}
	}
}

func (a *App) send(ctx context.Context, req Request) bool {
	select {
	case a.requests <- req:
		return true
	case <-ctx.Done():
		return false
	}
}

// Handle applies one event and returns the requests it produced. Unless the
// event quits, the last request is a fresh Snapshot.
func (a *App) Handle(ev Event) []Request {
	a.pending = nil
	debug.Log("event %T %+v", ev, ev)

	switch ev := ev.(type) {
	case Command:
		if a.onCommand(ev.Cmd) {
			return append(a.pending, Quit{})
		}
	case Navigate:
		a.onNavigate(ev.Dir)
	case Select:
		a.onSelect(ev.Line)
	case ToggleNode:
		a.cursor.Node().ToggleExpand()
	case InsertNode:
		a.onInsert(ev.Mode, ev.Name)
	case DeleteNode:
		a.onDelete()
	case RenameNode:
		if err := a.cursor.Node().SetName(ev.Name); err != nil {
			a.fail(err)
		} else {
			a.dirty = true
		}
	case SetIcon:
		a.cursor.Node().SetIcon(ev.Icon)
		a.dirty = true
	case OpenNodeData:
		a.onOpen()
	case SetNodeLink:
		a.onSetLink(ev.URL)
	case CreateDataFile:
		a.onCreateDataFile(ev.Ext)
	case MarkNode:
		a.onMark()
	case MoveMarked:
		a.onMove(ev.Mode)
	case ExternalChange:
		a.onExternalChange()
	default:
		debug.Warn("unhandled event", "type", fmt.Sprintf("%T", ev))
	}

	a.pending = append(a.pending, a.snapshot())
	return a.pending
}

func (a *App) sticky(level Level, format string, args ...any) {
	a.pending = append(a.pending, StickyMsg{
		Text:    fmt.Sprintf(format, args...),
		Level:   level,
		Timeout: a.cfg.StickyDuration(),
	})
}

func (a *App) info(format string, args ...any) { a.sticky(LevelInfo, format, args...) }
func (a *App) warn(format string, args ...any) { a.sticky(LevelWarn, format, args...) }

func (a *App) fail(err error) {
	debug.Error("tui operation failed", err, "node", a.cursor.Node().Path())
	a.sticky(LevelError, "%s", err)
}

// onCommand reports whether the app should quit.
func (a *App) onCommand(cmd UserCmd) bool {
	switch cmd {
	case CmdQuit:
		if a.dirty {
			a.warn("modified tree; save or force quit (:w then :q, or :q!)")
			return false
		}
		return true
	case CmdForceQuit:
		return true
	case CmdSave, CmdSaveQuit:
		if err := a.save(); err != nil {
			a.fail(err)
			return false
		}
		if cmd == CmdSaveQuit {
			return true
		}
		a.info("state saved")
	}
	return false
}

func (a *App) save() error {
	if a.watcher != nil {
		a.watcher.IgnoreFor(ignoreOwnSave)
	}
	if err := a.src.Save(a.tree); err != nil {
		return err
	}
	a.dirty = false
	debug.Info("tree saved", "path", a.src.Path())
	return nil
}

func (a *App) onNavigate(dir Direction) {
	c := a.cursor
	switch dir {
	case DirDown:
		c.VisualNext()
	case DirUp:
		c.VisualPrev()
	case DirParent:
		c.Parent()
	case DirChild:
		n := c.Node()
		if n.ChildCount() > 0 {
			n.SetExpanded(true)
			c.FirstChild()
		}
	case DirPrevSibling:
		c.PrevSibling()
	case DirNextSibling:
		c.NextSibling()
	case DirTop:
		c.Set(a.tree.Root())
	case DirBottom:
		a.onSelect(a.tree.VisibleLen() - 1)
	}
}

func (a *App) onSelect(line int) {
	last := a.tree.VisibleLen() - 1
	line = max(0, min(line, last))
	if n, ok := a.tree.GetNodeByLine(line); ok {
		a.cursor.Set(n)
	}
}

func (a *App) onInsert(mode tree.InsertMode, name string) {
	if strings.TrimSpace(name) == "" {
		a.fail(tree.ErrEmptyName)
		return
	}
	anchor := a.cursor.Node()
	n := a.tree.NewNode(name, "")
	if err := anchor.Insert(mode, n); err != nil {
		_ = a.tree.Release(n)
		a.fail(err)
		return
	}
	if !mode.Sibling() {
		anchor.SetExpanded(true)
	}
	a.cursor.Set(n)
	a.dirty = true
}

func (a *App) onDelete() {
	n := a.cursor.Node()
	parent, err := n.Parent()
	if err != nil {
		a.fail(errRootDelete)
		return
	}

	next, ok := n.Next()
	if !ok {
		if next, ok = n.Prev(); !ok {
			next = parent
		}
	}
	if a.mark.Valid() && n.Contains(a.mark) {
		a.mark = tree.Node{}
	}
	if err := parent.Delete(n); err != nil {
		a.fail(err)
		return
	}
	a.cursor.Set(next)
	a.dirty = true
}

func (a *App) onOpen() {
	d, ok := a.cursor.Node().Data()
	if !ok {
		a.info("no data; attach a link with a or create a file with f")
		return
	}
	switch d.Kind {
	case tree.KindFile:
		a.pending = append(a.pending, OpenFile{Editor: a.cfg.Editor(), Path: d.Value})
	case tree.KindLink:
		if err := a.openURL(d.Value); err != nil {
			a.fail(err)
			return
		}
		a.info("opened %s", d.Value)
	}
}

func (a *App) onSetLink(url string) {
	url = strings.TrimSpace(url)
	if url == "" {
		a.fail(tree.ErrNoData)
		return
	}
	if err := a.cursor.Node().SetData(tree.Link(url)); err != nil {
		a.fail(err)
		return
	}
	a.dirty = true
}

func (a *App) onCreateDataFile(ext string) {
	n := a.cursor.Node()
	if d, ok := n.Data(); ok {
		if d.Kind == tree.KindFile {
			a.fail(tree.ErrFileDataAlreadyExists)
		} else {
			a.fail(tree.ErrMismatchDataType)
		}
		return
	}

	ext = strings.TrimSpace(ext)
	if ext == "" {
		ext = ".md"
	} else if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	path, err := a.store.Create(n.Name(), ext, nil)
	if err != nil {
		a.fail(err)
		return
	}
	if err := n.SetData(tree.File(path)); err != nil {
		_ = os.Remove(path)
		a.fail(err)
		return
	}
	a.dirty = true
	a.pending = append(a.pending, OpenFile{Editor: a.cfg.Editor(), Path: path})
}

func (a *App) onMark() {
	n := a.cursor.Node()
	if a.mark == n {
		a.mark = tree.Node{}
		a.info("mark cleared")
		return
	}
	if n.IsRoot() {
		a.fail(fmt.Errorf("cannot mark the root node: %w", tree.ErrNoParent))
		return
	}
	a.mark = n
	a.info("marked %s", n.Path())
}

func (a *App) onMove(mode tree.InsertMode) {
	if !a.mark.Valid() {
		a.warn("no marked node; mark one with m first")
		return
	}
	anchor := a.cursor.Node()
	if err := anchor.Move(mode, a.mark); err != nil {
		a.fail(err)
		return
	}
	if !mode.Sibling() {
		anchor.SetExpanded(true)
	}
	a.cursor.Set(a.mark)
	a.mark = tree.Node{}
	a.dirty = true
}

func (a *App) onExternalChange() {
	if a.dirty {
		a.warn("%s changed on disk; :w overwrites it, :q! drops your changes", a.src.Path())
		return
	}
	t, err := a.src.Load()
	if err != nil {
		a.fail(fmt.Errorf("reloading: %w", err))
		return
	}
	path := a.cursor.Node().Path()
	a.reset(t)
	if n, ok := t.GetNodeByPath(tree.PathSegments(path), false); ok {
		a.cursor.Set(n)
	}
	a.info("reloaded %s", a.src.Title())
}

// snapshot builds the rows to draw. A cursor left under a collapsed node (after
// a reload, say) climbs to its nearest visible ancestor first.
func (a *App) snapshot() Snapshot {
	for {
		if _, ok := a.tree.LineOf(a.cursor.Node()); ok || !a.cursor.Parent() {
			break
		}
	}
	if !a.cursor.Node().Valid() {
		a.cursor.Set(a.tree.Root())
	}

	rows := a.tree.VisibleNodes()
	s := Snapshot{Title: a.src.Title(), Rows: rows, Marked: -1, Dirty: a.dirty}
	for i, r := range rows {
		if r.Node == a.cursor.Node() {
			s.Selected = i
		}
		if a.mark.Valid() && r.Node == a.mark {
			s.Marked = i
		}
	}
	return s
}
