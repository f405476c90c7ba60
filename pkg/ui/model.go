package ui

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/mind/internal/opener"
	"github.com/vanderheijden86/mind/pkg/app"
	"github.com/vanderheijden86/mind/pkg/debug"
	"github.com/vanderheijden86/mind/pkg/tree"
)

const defaultStickyTimeout = 3 * time.Second

type mode int

const (
	modeNormal mode = iota
	modePrompt
	modeConfirmDelete
	modeHelp
)

// promptKind says what the text typed at the prompt is for.
type promptKind int

const (
	promptInsert promptKind = iota
	promptRename
	promptIcon
	promptLink
	promptDataFile
	promptCommand
)

// Messages

type requestMsg struct{ req app.Request }

type requestsClosedMsg struct{}

type stickyExpiredMsg struct{ id int }

type editorDoneMsg struct{ err error }

type yankedMsg struct {
	path string
	err  error
}

type sticky struct {
	text  string
	level app.Level
}

// Model is the bubbletea model drawing an app.App. It never touches the tree
// directly: it renders the snapshots the app sends and turns keys into
// events.
type Model struct {
	events   chan<- app.Event
	requests <-chan app.Request

	theme    Theme
	keys     KeyMap
	help     help.Model
	helpView viewport.Model
	input    textinput.Model
	copyText func(string) error

	snap   app.Snapshot
	offset int
	width  int
	height int

	mode       mode
	prompt     promptKind
	insertMode tree.InsertMode

	sticky   *sticky
	stickyID int

	quitting bool
}

// NewModel creates a model talking to a running app through its channels.
func NewModel(events chan<- app.Event, requests <-chan app.Request) Model {
	theme := DefaultTheme(lipgloss.NewRenderer(os.Stdout))

	ti := textinput.New()
	ti.CharLimit = 256
	ti.Prompt = ""

	h := help.New()
	h.Styles.ShortKey = theme.Prompt
	h.Styles.ShortDesc = theme.MutedText

	return Model{
		events:   events,
		requests: requests,
		theme:    theme,
		keys:     DefaultKeyMap(),
		help:     h,
		helpView: viewport.New(80, 20),
		input:    ti,
		copyText: clipboard.WriteAll,
		snap:     app.Snapshot{Marked: -1},
		width:    80,
		height:   24,
	}
}

func (m Model) Init() tea.Cmd {
	return m.waitForRequest()
}

func (m Model) waitForRequest() tea.Cmd {
	ch := m.requests
	return func() tea.Msg {
		req, ok := <-ch
		if !ok {
			return requestsClosedMsg{}
		}
		return requestMsg{req: req}
	}
}

// send hands ev to the app. When the events buffer is full the send moves
// into a command so Update keeps draining requests.
func (m Model) send(ev app.Event) tea.Cmd {
	select {
	case m.events <- ev:
		return nil
	default:
	}
	ch := m.events
	return func() tea.Msg {
		ch <- ev
		return nil
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.input.Width = msg.Width - 4
		m.helpView.Width = msg.Width
		m.helpView.Height = m.treeHeight()
		m.ensureVisible()
		if m.mode == modeHelp {
			m.refreshHelp()
		}
		return m, nil

	case requestMsg:
		cmd := m.handleRequest(msg.req)
		if m.quitting {
			return m, cmd
		}
		return m, tea.Batch(cmd, m.waitForRequest())

	case requestsClosedMsg:
		m.quitting = true
		return m, tea.Quit

	case stickyExpiredMsg:
		if msg.id == m.stickyID {
			m.sticky = nil
		}
		return m, nil

	case editorDoneMsg:
		if msg.err != nil {
			cmd := m.setSticky(fmt.Sprintf("editor: %v", msg.err), app.LevelError, 0)
			return m, cmd
		}
		return m, nil

	case yankedMsg:
		if msg.err != nil {
			cmd := m.setSticky(fmt.Sprintf("copy failed: %v", msg.err), app.LevelError, 0)
			return m, cmd
		}
		cmd := m.setSticky("Copied "+msg.path, app.LevelInfo, 0)
		return m, cmd

	case tea.KeyMsg:
		switch m.mode {
		case modePrompt:
			return m.updatePrompt(msg)
		case modeConfirmDelete:
			return m.updateConfirmDelete(msg)
		case modeHelp:
			return m.updateHelp(msg)
		}
		return m.updateNormal(msg)
	}
	return m, nil
}

func (m *Model) handleRequest(req app.Request) tea.Cmd {
	switch req := req.(type) {
	case app.Snapshot:
		m.snap = req
		m.ensureVisible()
	case app.StickyMsg:
		return m.setSticky(req.Text, req.Level, req.Timeout)
	case app.OpenFile:
		cmd, err := opener.EditorCommand(req.Editor, req.Path)
		if err != nil {
			return m.setSticky(err.Error(), app.LevelError, 0)
		}
		debug.Info("opening editor", "editor", req.Editor, "path", req.Path)
		return tea.ExecProcess(cmd, func(err error) tea.Msg {
			return editorDoneMsg{err: err}
		})
	case app.Quit:
		m.quitting = true
		return tea.Quit
	}
	return nil
}

func (m *Model) setSticky(text string, level app.Level, timeout time.Duration) tea.Cmd {
	if timeout <= 0 {
		timeout = defaultStickyTimeout
	}
	m.stickyID++
	id := m.stickyID
	m.sticky = &sticky{text: text, level: level}
	return tea.Tick(timeout, func(time.Time) tea.Msg {
		return stickyExpiredMsg{id: id}
	})
}

func (m Model) current() (tree.NodeInfo, bool) {
	if m.snap.Selected < 0 || m.snap.Selected >= len(m.snap.Rows) {
		return tree.NodeInfo{}, false
	}
	return m.snap.Rows[m.snap.Selected], true
}

func (m Model) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.keys
	switch {
	case key.Matches(msg, k.Down):
		return m, m.send(app.Navigate{Dir: app.DirDown})
	case key.Matches(msg, k.Up):
		return m, m.send(app.Navigate{Dir: app.DirUp})
	case key.Matches(msg, k.Parent):
		return m, m.send(app.Navigate{Dir: app.DirParent})
	case key.Matches(msg, k.Child):
		return m, m.send(app.Navigate{Dir: app.DirChild})
	case key.Matches(msg, k.PrevSibling):
		return m, m.send(app.Navigate{Dir: app.DirPrevSibling})
	case key.Matches(msg, k.NextSibling):
		return m, m.send(app.Navigate{Dir: app.DirNextSibling})
	case key.Matches(msg, k.Top):
		return m, m.send(app.Navigate{Dir: app.DirTop})
	case key.Matches(msg, k.Bottom):
		return m, m.send(app.Navigate{Dir: app.DirBottom})
	case key.Matches(msg, k.PageDown):
		return m, m.send(app.Select{Line: m.snap.Selected + m.treeHeight()})
	case key.Matches(msg, k.PageUp):
		line := m.snap.Selected - m.treeHeight()
		if line < 0 {
			line = 0
		}
		return m, m.send(app.Select{Line: line})
	case key.Matches(msg, k.Toggle):
		return m, m.send(app.ToggleNode{})

	case key.Matches(msg, k.InsertAfter):
		return m.startInsert(tree.InsertAfter)
	case key.Matches(msg, k.InsertBefore):
		return m.startInsert(tree.InsertBefore)
	case key.Matches(msg, k.InsertBottom):
		return m.startInsert(tree.InsertBottom)
	case key.Matches(msg, k.InsertTop):
		return m.startInsert(tree.InsertTop)
	case key.Matches(msg, k.Delete):
		m.mode = modeConfirmDelete
		return m, nil
	case key.Matches(msg, k.Rename):
		cur, _ := m.current()
		return m.startPrompt(promptRename, cur.Name)
	case key.Matches(msg, k.Icon):
		cur, _ := m.current()
		return m.startPrompt(promptIcon, cur.Icon)

	case key.Matches(msg, k.Open):
		return m, m.send(app.OpenNodeData{})
	case key.Matches(msg, k.Link):
		value := ""
		if cur, ok := m.current(); ok && cur.Data != nil && cur.Data.Kind == tree.KindLink {
			value = cur.Data.Value
		}
		return m.startPrompt(promptLink, value)
	case key.Matches(msg, k.DataFile):
		return m.startPrompt(promptDataFile, "md")
	case key.Matches(msg, k.Yank):
		cur, ok := m.current()
		if !ok {
			return m, nil
		}
		path, copyText := rowPath(cur), m.copyText
		return m, func() tea.Msg {
			return yankedMsg{path: path, err: copyText(path)}
		}

	case key.Matches(msg, k.Mark):
		return m, m.send(app.MarkNode{})
	case key.Matches(msg, k.MoveAfter):
		return m, m.send(app.MoveMarked{Mode: tree.InsertAfter})
	case key.Matches(msg, k.MoveBefore):
		return m, m.send(app.MoveMarked{Mode: tree.InsertBefore})
	case key.Matches(msg, k.MoveInside):
		return m, m.send(app.MoveMarked{Mode: tree.InsertBottom})

	case key.Matches(msg, k.Command):
		return m.startPrompt(promptCommand, "")
	case key.Matches(msg, k.Help):
		m.mode = modeHelp
		m.helpView.Width = m.width
		m.helpView.Height = m.treeHeight()
		m.refreshHelp()
		m.helpView.GotoTop()
		return m, nil
	case key.Matches(msg, k.Quit):
		return m, m.send(app.Command{Cmd: app.CmdQuit})
	}
	return m, nil
}

func (m Model) startInsert(mode tree.InsertMode) (tea.Model, tea.Cmd) {
	m.insertMode = mode
	return m.startPrompt(promptInsert, "")
}

func (m Model) startPrompt(kind promptKind, value string) (tea.Model, tea.Cmd) {
	m.mode = modePrompt
	m.prompt = kind
	m.input.Reset()
	m.input.SetValue(value)
	m.input.CursorEnd()
	cmd := m.input.Focus()
	return m, cmd
}

func (m Model) promptLabel() string {
	switch m.prompt {
	case promptInsert:
		return fmt.Sprintf("New node (%s): ", m.insertMode)
	case promptRename:
		return "Rename: "
	case promptIcon:
		return "Icon: "
	case promptLink:
		return "Link: "
	case promptDataFile:
		return "File extension: "
	case promptCommand:
		return ":"
	}
	return "> "
}

func (m Model) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc, tea.KeyCtrlC:
		m.mode = modeNormal
		m.input.Blur()
		return m, nil
	case tea.KeyEnter:
		value := m.input.Value()
		m.mode = modeNormal
		m.input.Blur()
		return m.submitPrompt(value)
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) submitPrompt(value string) (tea.Model, tea.Cmd) {
	switch m.prompt {
	case promptInsert:
		if strings.TrimSpace(value) == "" {
			return m, nil
		}
		return m, m.send(app.InsertNode{Mode: m.insertMode, Name: value})
	case promptRename:
		return m, m.send(app.RenameNode{Name: value})
	case promptIcon:
		return m, m.send(app.SetIcon{Icon: value})
	case promptLink:
		return m, m.send(app.SetNodeLink{URL: strings.TrimSpace(value)})
	case promptDataFile:
		return m, m.send(app.CreateDataFile{Ext: strings.TrimSpace(value)})
	case promptCommand:
		if strings.TrimSpace(value) == "" {
			return m, nil
		}
		uc, err := app.ParseUserCmd(value)
		if err != nil {
			cmd := m.setSticky(err.Error(), app.LevelError, 0)
			return m, cmd
		}
		return m, m.send(app.Command{Cmd: uc})
	}
	return m, nil
}

func (m Model) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.mode = modeNormal
	switch msg.String() {
	case "y", "Y":
		return m, m.send(app.DeleteNode{})
	}
	return m, nil
}

func (m Model) updateHelp(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc", "?", "ctrl+c":
		m.mode = modeNormal
		return m, nil
	case "j", "down":
		m.helpView.LineDown(1)
	case "k", "up":
		m.helpView.LineUp(1)
	case "pgdown", " ":
		m.helpView.PageDown()
	case "pgup":
		m.helpView.PageUp()
	case "g":
		m.helpView.GotoTop()
	}
	return m, nil
}

func (m *Model) refreshHelp() {
	content, err := renderHelp(m.keys, m.width, m.theme.Renderer.HasDarkBackground())
	if err != nil {
		content = helpMarkdown(m.keys)
	}
	m.helpView.SetContent(content)
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	title := m.snap.Title
	if m.snap.Dirty {
		title += " [+]"
	}
	header := m.theme.Header.Render(truncateRunesHelper(title, max(m.width-2, 1), "…"))

	var body string
	if m.mode == modeHelp {
		body = m.helpView.View()
	} else {
		body = m.renderTree()
		if lines := strings.Count(body, "\n") + 1; lines < m.treeHeight() {
			body += strings.Repeat("\n", m.treeHeight()-lines)
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, body, m.statusLine())
}

func (m Model) statusLine() string {
	t := m.theme
	switch m.mode {
	case modePrompt:
		return t.Prompt.Render(m.promptLabel()) + m.input.View()
	case modeConfirmDelete:
		cur, _ := m.current()
		return t.WarnMsg.Render(fmt.Sprintf("Delete %q and its children? [y/N]", cur.Name))
	case modeHelp:
		return t.MutedText.Render("j/k scroll  q/esc close")
	}
	if m.sticky != nil {
		style := t.InfoMsg
		switch m.sticky.level {
		case app.LevelWarn:
			style = t.WarnMsg
		case app.LevelError:
			style = t.ErrorMsg
		}
		return style.Render(truncateRunesHelper(m.sticky.text, max(m.width, 1), "…"))
	}
	return m.help.ShortHelpView(m.keys.ShortHelp()) + t.MutedText.Render(m.renderPositionIndicator())
}
