package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/vanderheijden86/mind/pkg/app"
	"github.com/vanderheijden86/mind/pkg/config"
	"github.com/vanderheijden86/mind/pkg/forest"
	"github.com/vanderheijden86/mind/pkg/tree"
)

// fakePrompter answers from queues and records what it was asked.
type fakePrompter struct {
	inputs   []string
	confirms []bool
	selects  []string
	asked    []string
}

func (p *fakePrompter) Input(title, initial string) (string, error) {
	p.asked = append(p.asked, "input:"+title+":"+initial)
	if len(p.inputs) == 0 {
		return "", errors.New("unexpected input prompt")
	}
	v := p.inputs[0]
	p.inputs = p.inputs[1:]
	return v, nil
}

func (p *fakePrompter) Confirm(title string) (bool, error) {
	p.asked = append(p.asked, "confirm:"+title)
	if len(p.confirms) == 0 {
		return false, errors.New("unexpected confirm prompt")
	}
	v := p.confirms[0]
	p.confirms = p.confirms[1:]
	return v, nil
}

func (p *fakePrompter) Select(title string, options []string) (string, error) {
	p.asked = append(p.asked, "select:"+title+":"+strings.Join(options, ","))
	if len(p.selects) == 0 {
		return "", ErrNoSelection
	}
	v := p.selects[0]
	p.selects = p.selects[1:]
	return v, nil
}

type harness struct {
	t        *testing.T
	cfg      config.Config
	cwd      string
	terminal bool
	prompter *fakePrompter

	opened []string
	edited []string
	tui    []*app.App
}

var fixedNow = time.Date(2024, 3, 5, 7, 8, 9, 0, time.UTC)

func newHarness(t *testing.T) *harness {
	t.Helper()
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.Persistence.StatePath = filepath.Join(dir, "state", "state.json")
	cfg.Persistence.DataDir = filepath.Join(dir, "data")
	cfg.Edit.Editor = "myeditor"
	cfg.Interactive = config.InteractiveConfig{}
	cwd := filepath.Join(dir, "project")
	if err := os.MkdirAll(cwd, 0o755); err != nil {
		t.Fatal(err)
	}
	return &harness{t: t, cfg: cfg, cwd: cwd, prompter: &fakePrompter{}}
}

func (h *harness) env(out, errOut *bytes.Buffer) Env {
	return Env{
		In:         strings.NewReader(""),
		Out:        out,
		Err:        errOut,
		Getwd:      func() (string, error) { return h.cwd, nil },
		LoadConfig: func() (config.Config, error) { return h.cfg, nil },
		Prompter:   h.prompter,
		IsTerminal: func() bool { return h.terminal },
		OpenURL: func(url string) error {
			h.opened = append(h.opened, url)
			return nil
		},
		RunEditor: func(editor, path string) error {
			h.edited = append(h.edited, editor+" "+path)
			return nil
		},
		RunTUI: func(_ context.Context, a *app.App) error {
			h.tui = append(h.tui, a)
			return nil
		},
		Now: func() time.Time { return fixedNow },
	}
}

// run executes one command line and returns its stdout.
func (h *harness) run(args ...string) (string, error) {
	h.t.Helper()
	var out, errOut bytes.Buffer
	root := NewRootCommand(h.env(&out, &errOut))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

// mustRun fails the test when the command fails.
func (h *harness) mustRun(args ...string) string {
	h.t.Helper()
	out, err := h.run(args...)
	if err != nil {
		h.t.Fatalf("mind %s: %v", strings.Join(args, " "), err)
	}
	return out
}

// paths lists the main tree.
func (h *harness) paths(extra ...string) []string {
	h.t.Helper()
	out := h.mustRun(append([]string{"paths"}, extra...)...)
	return strings.Split(strings.TrimSuffix(out, "\n"), "\n")
}

func (h *harness) mainTree() *tree.Tree {
	h.t.Helper()
	f, err := forest.Load(h.cfg.Persistence.StatePath)
	if err != nil {
		h.t.Fatal(err)
	}
	return f.MainTree()
}

func assertLines(t *testing.T, got []string, want ...string) {
	t.Helper()
	if strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Errorf("got\n  %q\nwant\n  %q", got, want)
	}
}

func TestInitMainTree(t *testing.T) {
	h := newHarness(t)
	out := h.mustRun("init")
	if !strings.Contains(out, `"mind"`) {
		t.Errorf("init output = %q", out)
	}
	if _, err := h.run("init"); !errors.Is(err, ErrTreeExists) {
		t.Errorf("second init err = %v, want ErrTreeExists", err)
	}
}

func TestInitNamedTrees(t *testing.T) {
	h := newHarness(t)
	h.mustRun("init", "ideas")
	if got := h.mainTree().Root().Name(); got != "ideas" {
		t.Errorf("main root = %q", got)
	}

	h.mustRun("--cwd", "init")
	f, err := forest.Load(h.cfg.Persistence.StatePath)
	if err != nil {
		t.Fatal(err)
	}
	ct, ok := f.CWDTree(h.cwd)
	if !ok || ct.Root().Name() != "project" {
		t.Errorf("cwd tree missing or misnamed")
	}

	h.mustRun("--local", "init", "scratch")
	lt, err := forest.LoadTree(filepath.Join(h.cwd, forest.LocalFileName))
	if err != nil {
		t.Fatal(err)
	}
	if lt.Root().Name() != "scratch" || lt.Type().String() != "local" {
		t.Errorf("local tree = %q %s", lt.Root().Name(), lt.Type())
	}
	if _, err := h.run("--local", "init"); !errors.Is(err, ErrTreeExists) {
		t.Errorf("second local init err = %v", err)
	}
}

func TestInsertModesAndPaths(t *testing.T) {
	h := newHarness(t)
	h.mustRun("insert", "-s", "/", "-n", "work")
	h.mustRun("ins", "-s", "/", "-n", "home")
	h.mustRun("insert", "-s", "/work", "-n", "report")
	h.mustRun("insert", "-s", "/work", "-n", "inbox", "-m", "top")
	h.mustRun("insert", "-s", "/home", "-n", "garden", "-m", "before")
	out := h.mustRun("insert", "-s", "/work/report", "-n", "draft", "-m", "after")
	if out != "/work/draft\n" {
		t.Errorf("insert printed %q", out)
	}

	assertLines(t, h.paths(),
		"", "/work", "/work/inbox", "/work/report", "/work/draft", "/garden", "/home")
	assertLines(t, h.paths("-s", "/work"),
		"/work", "/work/inbox", "/work/report", "/work/draft")
}

func TestInsertErrors(t *testing.T) {
	h := newHarness(t)
	h.mustRun("insert", "-s", "/", "-n", "a")

	tests := []struct {
		name string
		args []string
		want error
	}{
		{"no source", []string{"insert", "-n", "x"}, ErrMissingSelection},
		{"unknown source", []string{"insert", "-s", "/nope", "-n", "x"}, ErrUnknownNode},
		{"no name", []string{"insert", "-s", "/a"}, ErrMissingName},
		{"sibling of root", []string{"insert", "-s", "/", "-n", "x", "-m", "after"}, tree.ErrNoParent},
		{"bad mode", []string{"insert", "-s", "/a", "-n", "x", "-m", "sideways"}, tree.ErrUnknownInsertMode},
		{"link without value", []string{"insert", "-s", "/a", "-n", "x", "-u"}, ErrMissingLink},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := h.run(tt.args...); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
	// Failed inserts are not saved.
	assertLines(t, h.paths(), "", "/a")
}

func TestInsertWithLink(t *testing.T) {
	h := newHarness(t)
	h.mustRun("insert", "-s", "/", "-n", "site", "-u=https://example.com")
	h.mustRun("insert", "-s", "/", "-n", "docs", "-u", "https://go.dev")

	if out := h.mustRun("get", "-s", "/site"); out != "https://example.com\n" {
		t.Errorf("get = %q", out)
	}
	if out := h.mustRun("get", "-s", "/docs", "-u", "-o"); out != "https://go.dev\n" {
		t.Errorf("get = %q", out)
	}
	if len(h.opened) != 1 || h.opened[0] != "https://go.dev" {
		t.Errorf("opened = %q", h.opened)
	}
	if _, err := h.run("get", "-s", "/site", "-f"); !errors.Is(err, tree.ErrMismatchDataType) {
		t.Errorf("get -f on a link: %v", err)
	}
	assertLines(t, h.paths("-u"), "/site", "/docs")
}

func TestInsertWithFile(t *testing.T) {
	h := newHarness(t)
	h.mustRun("insert", "-s", "/", "-n", "weekly report", "-f", "-o")

	want := filepath.Join(h.cfg.Persistence.DataDir, "20240305070809-weekly-report.md")
	if _, err := os.Stat(want); err != nil {
		t.Fatalf("data file not created: %v", err)
	}
	if out := h.mustRun("get", "-s", "/weekly report", "-f"); out != want+"\n" {
		t.Errorf("get -f = %q, want %q", out, want)
	}
	if len(h.edited) != 1 || h.edited[0] != "myeditor "+want {
		t.Errorf("edited = %q", h.edited)
	}
	assertLines(t, h.paths("-f"), "/weekly report")
}

func TestGetWithoutData(t *testing.T) {
	h := newHarness(t)
	h.mustRun("insert", "-s", "/", "-n", "plain")
	if _, err := h.run("get", "-s", "/plain"); !errors.Is(err, tree.ErrNoData) {
		t.Errorf("err = %v, want ErrNoData", err)
	}
}

func TestSetData(t *testing.T) {
	h := newHarness(t)
	h.mustRun("insert", "-s", "/", "-n", "site")
	h.mustRun("insert", "-s", "/", "-n", "notes")

	h.mustRun("set", "-s", "/site", "-u=https://a.example")
	if out := h.mustRun("set", "-s", "/site", "-u", "https://b.example"); out != "https://b.example\n" {
		t.Errorf("replacing a link printed %q", out)
	}
	if _, err := h.run("set", "-s", "/site", "-f"); !errors.Is(err, tree.ErrMismatchDataType) {
		t.Errorf("file over link: %v", err)
	}

	h.mustRun("set", "-s", "/notes", "-f")
	if _, err := h.run("set", "-s", "/notes", "-f"); !errors.Is(err, tree.ErrFileDataAlreadyExists) {
		t.Errorf("second file: %v", err)
	}
	if _, err := h.run("set", "-s", "/notes", "-u=https://x"); !errors.Is(err, tree.ErrMismatchDataType) {
		t.Errorf("link over file: %v", err)
	}
	if _, err := h.run("set", "-s", "/notes"); err == nil {
		t.Error("set without --file or --uri succeeded")
	}

	entries, err := os.ReadDir(h.cfg.Persistence.DataDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("refused sets left %d data files", len(entries))
	}
}

func TestRemove(t *testing.T) {
	h := newHarness(t)
	h.mustRun("insert", "-s", "/", "-n", "a")
	h.mustRun("insert", "-s", "/a", "-n", "b")
	h.mustRun("insert", "-s", "/", "-n", "c")

	if _, err := h.run("rm", "-s", "/"); !errors.Is(err, ErrRootRemoval) {
		t.Errorf("removing root: %v", err)
	}
	if out := h.mustRun("remove", "-s", "/a"); out != "Removed /a\n" {
		t.Errorf("remove printed %q", out)
	}
	assertLines(t, h.paths(), "", "/c")
}

func TestRemoveInteractive(t *testing.T) {
	h := newHarness(t)
	h.mustRun("insert", "-s", "/", "-n", "a")
	h.mustRun("insert", "-s", "/a", "-n", "b")
	h.terminal = true

	h.prompter.selects = []string{"/a"}
	h.prompter.confirms = []bool{false}
	h.mustRun("-i", "rm")
	assertLines(t, h.paths(), "", "/a", "/a/b")

	want := []string{"select:Remove:/,/a,/a/b", "confirm:Remove /a and its 1 children?"}
	assertLines(t, h.prompter.asked, want...)

	h.prompter.selects = []string{"/a/b"}
	h.prompter.confirms = []bool{true}
	h.mustRun("-i", "rm")
	assertLines(t, h.paths(), "", "/a")
}

func TestInteractiveNeedsTerminal(t *testing.T) {
	h := newHarness(t)
	h.mustRun("insert", "-s", "/", "-n", "a")
	if _, err := h.run("-i", "rm"); !errors.Is(err, ErrMissingSelection) {
		t.Errorf("err = %v, want ErrMissingSelection", err)
	}
	if _, err := h.run("-i", "insert", "-s", "/a"); !errors.Is(err, ErrMissingName) {
		t.Errorf("err = %v, want ErrMissingName", err)
	}
}

func TestInteractiveGetOffersOnlyDataNodes(t *testing.T) {
	h := newHarness(t)
	h.mustRun("insert", "-s", "/", "-n", "plain")
	h.mustRun("insert", "-s", "/", "-n", "site", "-u=https://example.com")
	h.terminal = true
	h.prompter.selects = []string{"/site"}

	if out := h.mustRun("-i", "get"); out != "https://example.com\n" {
		t.Errorf("get = %q", out)
	}
	assertLines(t, h.prompter.asked, "select:Get data of:/site")
}

func TestRenameAndIcon(t *testing.T) {
	h := newHarness(t)
	h.mustRun("insert", "-s", "/", "-n", "old")
	if out := h.mustRun("rename", "-s", "/old", "-n", "new"); out != "/new\n" {
		t.Errorf("rename printed %q", out)
	}
	if _, err := h.run("rename", "-s", "/new", "-n", "   "); !errors.Is(err, tree.ErrEmptyName) {
		t.Errorf("blank rename: %v", err)
	}

	h.mustRun("icon", "-s", "/new", "-t", "🔥")
	n, _ := h.mainTree().GetNodeByPath([]string{"new"}, false)
	if n.Icon() != "🔥" {
		t.Errorf("icon = %q", n.Icon())
	}
	h.mustRun("icon", "-s", "/new", "-t", "")
	n, _ = h.mainTree().GetNodeByPath([]string{"new"}, false)
	if n.Icon() != "" {
		t.Errorf("icon not cleared: %q", n.Icon())
	}
}

func TestRenamePromptsWithCurrentName(t *testing.T) {
	h := newHarness(t)
	h.mustRun("insert", "-s", "/", "-n", "old")
	h.terminal = true
	h.prompter.inputs = []string{"renamed"}
	h.mustRun("-i", "rename", "-s", "/old")
	assertLines(t, h.prompter.asked, "input:New name:old")
	assertLines(t, h.paths(), "", "/renamed")
}

func TestMove(t *testing.T) {
	h := newHarness(t)
	for _, args := range [][]string{
		{"-s", "/", "-n", "a"},
		{"-s", "/a", "-n", "x"},
		{"-s", "/a/x", "-n", "y"},
		{"-s", "/", "-n", "b"},
	} {
		h.mustRun(append([]string{"insert"}, args...)...)
	}

	if out := h.mustRun("mv", "-s", "/a/x", "-d", "/b", "-m", "after"); out != "/x\n" {
		t.Errorf("move printed %q", out)
	}
	assertLines(t, h.paths(), "", "/a", "/b", "/x", "/x/y")

	h.mustRun("move", "-s", "/b", "-d", "/x/y", "-m", "top")
	assertLines(t, h.paths(), "", "/a", "/x", "/x/y", "/x/y/b")

	tests := []struct {
		name string
		args []string
		want error
	}{
		{"into own subtree", []string{"move", "-s", "/x", "-d", "/x/y/b"}, tree.ErrCycle},
		{"next to root", []string{"move", "-s", "/a", "-d", "/", "-m", "before"}, tree.ErrNoParent},
		{"the root", []string{"move", "-s", "/", "-d", "/a"}, tree.ErrNoParent},
		{"no dest", []string{"move", "-s", "/a"}, ErrMissingSelection},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := h.run(tt.args...); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
	assertLines(t, h.paths(), "", "/a", "/x", "/x/y", "/x/y/b")
}

func TestCWDAndLocalTreesAreSeparate(t *testing.T) {
	h := newHarness(t)
	h.mustRun("insert", "-s", "/", "-n", "main-node")
	h.mustRun("-C", "insert", "-s", "/", "-n", "cwd-node")
	h.mustRun("-l", "insert", "-s", "/", "-n", "local-node")
	file := filepath.Join(t.TempDir(), "tree.json")
	h.mustRun("-p", file, "insert", "-s", "/", "-n", "file-node")

	assertLines(t, h.paths(), "", "/main-node")
	assertLines(t, h.paths("-C"), "", "/cwd-node")
	assertLines(t, h.paths("-l"), "", "/local-node")
	assertLines(t, h.paths("-p", file), "", "/file-node")

	if _, err := h.run("-C", "-l", "paths"); err == nil {
		t.Error("--cwd and --local together were accepted")
	}
}

func TestList(t *testing.T) {
	h := newHarness(t)
	h.mustRun("insert", "-s", "/", "-n", "site", "-u=https://example.com")
	h.mustRun("-C", "insert", "-s", "/", "-n", "todo")

	out := h.mustRun("ls")
	for _, want := range []string{"TREE", "(main)", "mind", h.cwd, "project", "root"} {
		if !strings.Contains(out, want) {
			t.Errorf("ls output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Error("ls wrote colors to a non-terminal")
	}

	out = h.mustRun("-l", "ls")
	if !strings.Contains(out, "local") || strings.Contains(out, "(main)") {
		t.Errorf("ls --local:\n%s", out)
	}
}

func TestExport(t *testing.T) {
	h := newHarness(t)
	h.mustRun("insert", "-s", "/", "-n", "work")
	h.mustRun("insert", "-s", "/work", "-n", "report", "-f")

	dir := t.TempDir()
	db := filepath.Join(dir, "mind.sqlite3")
	svg := filepath.Join(dir, "outline.svg")
	out := h.mustRun("export", "--sqlite", db, "--snapshot", svg, "--title", "weekly")
	if !strings.Contains(out, db) || !strings.Contains(out, svg) {
		t.Errorf("export output = %q", out)
	}
	for _, p := range []string{db, svg} {
		if info, err := os.Stat(p); err != nil || info.Size() == 0 {
			t.Errorf("%s not written: %v", p, err)
		}
	}
	if _, err := h.run("export"); err == nil {
		t.Error("export without a target succeeded")
	}
}

func TestTUI(t *testing.T) {
	h := newHarness(t)
	h.mustRun("insert", "-s", "/", "-n", "work")
	h.cfg.UI.ExpandAll = true
	h.mustRun("tui", "--no-watch")

	if len(h.tui) != 1 {
		t.Fatalf("RunTUI called %d times", len(h.tui))
	}
	a := h.tui[0]
	if a.Tree().Root().Name() != forest.DefaultTreeName || a.Tree().Len() != 2 {
		t.Errorf("tui got tree %q with %d nodes", a.Tree().Root().Name(), a.Tree().Len())
	}
}

func TestExecuteReportsErrors(t *testing.T) {
	h := newHarness(t)
	var out, errOut bytes.Buffer
	code := Execute(context.Background(), h.env(&out, &errOut), []string{"rm", "-s", "/missing"})
	if code != 1 {
		t.Errorf("exit code = %d", code)
	}
	if !strings.HasPrefix(errOut.String(), "Error: ") || !strings.Contains(errOut.String(), "/missing") {
		t.Errorf("stderr = %q", errOut.String())
	}
	if code := Execute(context.Background(), h.env(&out, &errOut), []string{"--version"}); code != 0 {
		t.Errorf("--version exit code = %d", code)
	}
}

func TestLinkFlag(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		args []string
		want string
	}{
		{"bound value", "https://a", nil, "https://a"},
		{"bare with argument", askLink, []string{"https://b"}, "https://b"},
		{"bare alone", askLink, nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := linkFlag{raw: tt.raw, set: true}
			if got := l.value(tt.args); got != tt.want {
				t.Errorf("value = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDisplayPaths(t *testing.T) {
	assertLines(t, displayPaths([]string{"", "/a", "/a/b"}), "/", "/a", "/a/b")
}

func TestFuzzyPicker(t *testing.T) {
	if _, err := os.Stat("/bin/cat"); err != nil {
		t.Skip("cat not available")
	}
	p := fuzzyPicker{program: "/bin/cat"}
	got, err := p.Pick("", []string{"/only"})
	if err != nil || got != "/only" {
		t.Errorf("Pick = %q, %v", got, err)
	}
	if _, err := p.Pick("", nil); !errors.Is(err, ErrNoSelection) {
		t.Errorf("empty pick err = %v", err)
	}
}
