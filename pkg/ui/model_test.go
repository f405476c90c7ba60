package ui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/vanderheijden86/mind/pkg/app"
	"github.com/vanderheijden86/mind/pkg/tree"
)

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "pgdown":
		return tea.KeyMsg{Type: tea.KeyPgDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func sampleRows() []tree.NodeInfo {
	file := tree.File("/tmp/notes.md")
	link := tree.Link("https://example.com")
	return []tree.NodeInfo{
		{Name: "root", Depth: 0, Expanded: true, ChildCount: 2, Line: 0, Path: ""},
		{Name: "work", Icon: "💼", Depth: 1, Expanded: true, ChildCount: 2, Line: 1, Path: "/work"},
		{Name: "report", Depth: 2, Data: &file, Line: 2, Path: "/work/report"},
		{Name: "site", Depth: 2, Data: &link, Line: 3, Path: "/work/site"},
		{Name: "home", Depth: 1, ChildCount: 3, Line: 4, Path: "/home"},
	}
}

type harness struct {
	t      *testing.T
	m      Model
	events chan app.Event
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	events := make(chan app.Event, 16)
	requests := make(chan app.Request, 16)
	h := &harness{t: t, m: NewModel(events, requests), events: events}
	h.update(tea.WindowSizeMsg{Width: 60, Height: 10})
	h.update(requestMsg{req: app.Snapshot{Title: "mind", Rows: sampleRows(), Selected: 1, Marked: -1}})
	return h
}

func (h *harness) update(msg tea.Msg) tea.Cmd {
	h.t.Helper()
	next, cmd := h.m.Update(msg)
	h.m = next.(Model)
	return cmd
}

func (h *harness) press(keys ...string) {
	h.t.Helper()
	for _, k := range keys {
		h.update(keyPress(k))
	}
}

func (h *harness) typeText(s string) {
	h.t.Helper()
	for _, r := range s {
		h.update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func (h *harness) event() app.Event {
	h.t.Helper()
	select {
	case ev := <-h.events:
		return ev
	default:
		h.t.Fatal("no event sent")
		return nil
	}
}

func (h *harness) noEvent() {
	h.t.Helper()
	select {
	case ev := <-h.events:
		h.t.Fatalf("unexpected event %#v", ev)
	default:
	}
}

func TestNormalKeysSendEvents(t *testing.T) {
	tests := []struct {
		key  string
		want app.Event
	}{
		{"j", app.Navigate{Dir: app.DirDown}},
		{"k", app.Navigate{Dir: app.DirUp}},
		{"h", app.Navigate{Dir: app.DirParent}},
		{"l", app.Navigate{Dir: app.DirChild}},
		{"[", app.Navigate{Dir: app.DirPrevSibling}},
		{"]", app.Navigate{Dir: app.DirNextSibling}},
		{"g", app.Navigate{Dir: app.DirTop}},
		{"G", app.Navigate{Dir: app.DirBottom}},
		{"tab", app.ToggleNode{}},
		{"enter", app.OpenNodeData{}},
		{"m", app.MarkNode{}},
		{"p", app.MoveMarked{Mode: tree.InsertAfter}},
		{"P", app.MoveMarked{Mode: tree.InsertBefore}},
		{"M", app.MoveMarked{Mode: tree.InsertBottom}},
		{"q", app.Command{Cmd: app.CmdQuit}},
		{"ctrl+c", app.Command{Cmd: app.CmdQuit}},
		{"pgdown", app.Select{Line: 1 + 8}},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			h := newHarness(t)
			h.press(tt.key)
			if got := h.event(); got != tt.want {
				t.Errorf("key %q sent %#v, want %#v", tt.key, got, tt.want)
			}
		})
	}
}

func TestInsertPrompt(t *testing.T) {
	tests := []struct {
		key  string
		mode tree.InsertMode
	}{
		{"o", tree.InsertAfter},
		{"O", tree.InsertBefore},
		{"i", tree.InsertBottom},
		{"I", tree.InsertTop},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			h := newHarness(t)
			h.press(tt.key)
			if h.m.mode != modePrompt {
				t.Fatalf("mode = %v, want prompt", h.m.mode)
			}
			if !strings.Contains(h.m.View(), "New node ("+tt.mode.String()+")") {
				t.Errorf("prompt label missing:\n%s", h.m.View())
			}
			h.typeText("groceries")
			h.press("enter")
			want := app.InsertNode{Mode: tt.mode, Name: "groceries"}
			if got := h.event(); got != want {
				t.Errorf("got %#v, want %#v", got, want)
			}
			if h.m.mode != modeNormal {
				t.Error("prompt still open after enter")
			}
		})
	}
}

func TestInsertPromptEmptyOrCancelled(t *testing.T) {
	h := newHarness(t)
	h.press("o", "enter")
	h.noEvent()

	h.press("o")
	h.typeText("abc")
	h.press("esc")
	h.noEvent()
	if h.m.mode != modeNormal {
		t.Error("esc did not close the prompt")
	}
}

func TestRenamePromptIsPrefilled(t *testing.T) {
	h := newHarness(t)
	h.press("r")
	h.typeText("!")
	h.press("enter")
	want := app.RenameNode{Name: "work!"}
	if got := h.event(); got != want {
		t.Errorf("got %#v, want %#v", got, want)
	}
}

func TestIconLinkAndFilePrompts(t *testing.T) {
	h := newHarness(t)
	h.press("c")
	h.typeText("x")
	h.press("enter")
	if got, want := h.event(), (app.SetIcon{Icon: "💼x"}); got != want {
		t.Errorf("icon: got %#v, want %#v", got, want)
	}

	h.press("a")
	h.typeText(" https://go.dev ")
	h.press("enter")
	if got, want := h.event(), (app.SetNodeLink{URL: "https://go.dev"}); got != want {
		t.Errorf("link: got %#v, want %#v", got, want)
	}

	h.press("f", "enter")
	if got, want := h.event(), (app.CreateDataFile{Ext: "md"}); got != want {
		t.Errorf("file: got %#v, want %#v", got, want)
	}
}

func TestLinkPromptPrefillsExistingLink(t *testing.T) {
	h := newHarness(t)
	h.update(requestMsg{req: app.Snapshot{Rows: sampleRows(), Selected: 3, Marked: -1}})
	h.press("a", "enter")
	if got, want := h.event(), (app.SetNodeLink{URL: "https://example.com"}); got != want {
		t.Errorf("got %#v, want %#v", got, want)
	}
}

func TestDeleteNeedsConfirmation(t *testing.T) {
	h := newHarness(t)
	h.press("d")
	if !strings.Contains(h.m.View(), `Delete "work"`) {
		t.Errorf("confirmation missing:\n%s", h.m.View())
	}
	h.press("n")
	h.noEvent()
	if h.m.mode != modeNormal {
		t.Error("still confirming")
	}

	h.press("d", "y")
	if got := h.event(); got != (app.DeleteNode{}) {
		t.Errorf("got %#v, want DeleteNode", got)
	}
}

func TestCommandPrompt(t *testing.T) {
	tests := []struct {
		input string
		want  app.UserCmd
	}{
		{"q", app.CmdQuit},
		{"q!", app.CmdForceQuit},
		{"w", app.CmdSave},
		{"wq", app.CmdSaveQuit},
		{"x", app.CmdSaveQuit},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			h := newHarness(t)
			h.press(":")
			h.typeText(tt.input)
			h.press("enter")
			if got := h.event(); got != (app.Command{Cmd: tt.want}) {
				t.Errorf("got %#v, want %v", got, tt.want)
			}
		})
	}
}

func TestUnknownCommandShowsError(t *testing.T) {
	h := newHarness(t)
	h.press(":")
	h.typeText("frobnicate")
	h.press("enter")
	h.noEvent()
	if h.m.sticky == nil || h.m.sticky.level != app.LevelError {
		t.Fatalf("sticky = %+v, want error", h.m.sticky)
	}
	if !strings.Contains(h.m.View(), "unknown command") {
		t.Errorf("error not shown:\n%s", h.m.View())
	}
}

func TestViewRendersSnapshot(t *testing.T) {
	h := newHarness(t)
	h.update(requestMsg{req: app.Snapshot{Title: "mind", Rows: sampleRows(), Selected: 0, Marked: 4, Dirty: true}})
	view := h.m.View()
	for _, want := range []string{"mind [+]", "root", "💼 work", "report", badgeFile, badgeLink, "home", glyphMark, glyphCollapsed, glyphLeaf} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestStickyMessageExpires(t *testing.T) {
	h := newHarness(t)
	h.update(requestMsg{req: app.StickyMsg{Text: "saved", Level: app.LevelInfo}})
	if !strings.Contains(h.m.View(), "saved") {
		t.Fatal("sticky not shown")
	}
	first := h.m.stickyID

	h.update(requestMsg{req: app.StickyMsg{Text: "second", Level: app.LevelWarn}})
	// An older timer must not clear a newer message.
	h.update(stickyExpiredMsg{id: first})
	if h.m.sticky == nil {
		t.Fatal("stale expiry cleared the newer message")
	}
	h.update(stickyExpiredMsg{id: h.m.stickyID})
	if h.m.sticky != nil {
		t.Error("sticky not cleared")
	}
}

func TestQuitRequest(t *testing.T) {
	h := newHarness(t)
	cmd := h.update(requestMsg{req: app.Quit{}})
	if !h.m.quitting {
		t.Fatal("not quitting")
	}
	if cmd == nil {
		t.Fatal("no quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("command is not tea.Quit")
	}
	if h.m.View() != "" {
		t.Error("view not empty after quit")
	}
}

func TestRequestsClosedQuits(t *testing.T) {
	h := newHarness(t)
	h.update(requestsClosedMsg{})
	if !h.m.quitting {
		t.Error("closed request channel did not quit")
	}
}

func TestOpenFileWithoutEditor(t *testing.T) {
	h := newHarness(t)
	h.update(requestMsg{req: app.OpenFile{Editor: "", Path: "/tmp/x.md"}})
	if h.m.sticky == nil || h.m.sticky.level != app.LevelError {
		t.Errorf("sticky = %+v, want error", h.m.sticky)
	}
}

func TestYankCopiesPath(t *testing.T) {
	h := newHarness(t)
	var copied string
	h.m.copyText = func(s string) error {
		copied = s
		return nil
	}
	h.press("y")
	// Run the copy command the way bubbletea would.
	h.update(yankedMsg{path: "/work", err: h.m.copyText("/work")})
	if copied != "/work" {
		t.Errorf("copied %q", copied)
	}
	if !strings.Contains(h.m.View(), "Copied /work") {
		t.Errorf("confirmation missing:\n%s", h.m.View())
	}

	h.update(yankedMsg{path: "/work", err: errors.New("no clipboard")})
	if h.m.sticky.level != app.LevelError {
		t.Error("copy failure not reported as error")
	}
}

func TestYankCommand(t *testing.T) {
	h := newHarness(t)
	h.update(requestMsg{req: app.Snapshot{Rows: sampleRows(), Selected: 0, Marked: -1}})
	var copied string
	h.m.copyText = func(s string) error {
		copied = s
		return nil
	}
	next, cmd := h.m.Update(keyPress("y"))
	h.m = next.(Model)
	if cmd == nil {
		t.Fatal("no copy command")
	}
	msg, ok := cmd().(yankedMsg)
	if !ok {
		t.Fatal("copy command returned the wrong message")
	}
	if copied != "/" || msg.path != "/" {
		t.Errorf("root yanked as %q", copied)
	}
}

func TestScrollKeepsSelectionVisible(t *testing.T) {
	h := newHarness(t)
	var rows []tree.NodeInfo
	rows = append(rows, tree.NodeInfo{Name: "root", Expanded: true, ChildCount: 30})
	for i := 0; i < 30; i++ {
		rows = append(rows, tree.NodeInfo{Name: "n" + string(rune('a'+i%26)), Depth: 1, Line: i + 1})
	}
	h.update(requestMsg{req: app.Snapshot{Rows: rows, Selected: 25, Marked: -1}})
	height := h.m.treeHeight()
	if h.m.offset > 25 || h.m.offset+height <= 25 {
		t.Errorf("offset %d does not show row 25 (height %d)", h.m.offset, height)
	}
	if !strings.Contains(h.m.View(), "of 31)") {
		t.Errorf("position indicator missing:\n%s", h.m.View())
	}

	h.update(requestMsg{req: app.Snapshot{Rows: rows, Selected: 0, Marked: -1}})
	if h.m.offset != 0 {
		t.Errorf("offset = %d after moving to top", h.m.offset)
	}
}

func TestHelpMode(t *testing.T) {
	h := newHarness(t)
	h.press("?")
	if h.m.mode != modeHelp {
		t.Fatal("help not opened")
	}
	if !strings.Contains(ansi.Strip(h.m.View()), "mind") {
		t.Errorf("help content missing:\n%s", h.m.View())
	}
	h.press("j")
	h.noEvent()
	h.press("esc")
	if h.m.mode != modeNormal {
		t.Error("help not closed")
	}
}

func TestSendDoesNotBlockWhenFull(t *testing.T) {
	events := make(chan app.Event, 1)
	m := NewModel(events, make(chan app.Request))
	if cmd := m.send(app.ToggleNode{}); cmd != nil {
		t.Fatal("first send should go straight through")
	}
	cmd := m.send(app.MarkNode{})
	if cmd == nil {
		t.Fatal("full channel should defer the send")
	}
	<-events
	cmd()
	if got := <-events; got != (app.MarkNode{}) {
		t.Errorf("deferred send delivered %#v", got)
	}
}
