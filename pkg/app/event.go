package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vanderheijden86/mind/pkg/tree"
)

// Event is sent by the UI to the app. Events act on the node under the
// app's cursor.
type Event interface{ isEvent() }

// Command is a line typed on the ':' prompt.
type Command struct{ Cmd UserCmd }

// Navigate moves the cursor.
type Navigate struct{ Dir Direction }

// Select moves the cursor to a visible line, clamped to the tree.
type Select struct{ Line int }

// ToggleNode expands or collapses the current node.
type ToggleNode struct{}

// InsertNode creates a node named Name relative to the current node.
type InsertNode struct {
	Mode tree.InsertMode
	Name string
}

// DeleteNode deletes the current node and its subtree. The UI confirms first.
type DeleteNode struct{}

// RenameNode renames the current node.
type RenameNode struct{ Name string }

// SetIcon changes the current node's icon.
type SetIcon struct{ Icon string }

// OpenNodeData opens the current node's file or link.
type OpenNodeData struct{}

// SetNodeLink attaches or replaces a link.
type SetNodeLink struct{ URL string }

// CreateDataFile creates a data file for the current node and opens it.
type CreateDataFile struct{ Ext string }

// MarkNode marks the current node as the source of the next move, or clears
// the mark when the current node already carries it.
type MarkNode struct{}

// MoveMarked moves the marked node relative to the current node.
type MoveMarked struct{ Mode tree.InsertMode }

// ExternalChange reports that the tree's file was changed by someone else.
type ExternalChange struct{}

func (Command) isEvent()        {}
func (Navigate) isEvent()       {}
func (Select) isEvent()         {}
func (ToggleNode) isEvent()     {}
func (InsertNode) isEvent()     {}
func (DeleteNode) isEvent()     {}
func (RenameNode) isEvent()     {}
func (SetIcon) isEvent()        {}
func (OpenNodeData) isEvent()   {}
func (SetNodeLink) isEvent()    {}
func (CreateDataFile) isEvent() {}
func (MarkNode) isEvent()       {}
func (MoveMarked) isEvent()     {}
func (ExternalChange) isEvent() {}

// Direction is a cursor movement.
type Direction int

const (
	DirDown        Direction = iota // line below
	DirUp                           // line above
	DirParent                       // parent node
	DirChild                        // first child, expanding the node
	DirPrevSibling                  // previous sibling
	DirNextSibling                  // next sibling
	DirTop                          // root
	DirBottom                       // last visible line
)

// ErrUnknownCommand is returned by ParseUserCmd.
var ErrUnknownCommand = errors.New("unknown command")

// UserCmd is a ':' command.
type UserCmd int

const (
	CmdQuit UserCmd = iota
	CmdForceQuit
	CmdSave
	CmdSaveQuit
)

// ParseUserCmd parses the text typed after ':'.
func ParseUserCmd(s string) (UserCmd, error) {
	switch strings.TrimSpace(s) {
	case "q", "quit":
		return CmdQuit, nil
	case "q!", "quit!":
		return CmdForceQuit, nil
	case "w", "write":
		return CmdSave, nil
	case "wq", "x":
		return CmdSaveQuit, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrUnknownCommand, s)
}

// Request is sent by the app to the UI.
type Request interface{ isRequest() }

// Snapshot is everything the UI needs to draw the tree.
type Snapshot struct {
	Title    string
	Rows     []tree.NodeInfo
	Selected int // row of the cursor
	Marked   int // row of the marked node, -1 when none is visible
	Dirty    bool
}

// Level is the severity of a sticky message.
type Level int

const (
	LevelInfo Level = iota
	LevelWarn
	LevelError
)

// StickyMsg is a message shown until Timeout elapses.
type StickyMsg struct {
	Text    string
	Level   Level
	Timeout time.Duration
}

// OpenFile asks the UI to suspend itself and run Editor on Path.
type OpenFile struct {
	Editor string
	Path   string
}

// Quit asks the UI to exit.
type Quit struct{}

func (Snapshot) isRequest()  {}
func (StickyMsg) isRequest() {}
func (OpenFile) isRequest()  {}
func (Quit) isRequest()      {}
