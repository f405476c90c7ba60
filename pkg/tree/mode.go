package tree

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownInsertMode is returned by ParseInsertMode.
var ErrUnknownInsertMode = errors.New("unknown insert mode")

// InsertMode says where a node goes relative to an anchor node.
type InsertMode uint8

const (
	InsertBottom InsertMode = iota // last child of the anchor
	InsertTop                      // first child of the anchor
	InsertBefore                   // sibling right before the anchor
	InsertAfter                    // sibling right after the anchor
)

func (m InsertMode) String() string {
	switch m {
	case InsertBottom:
		return "bottom"
	case InsertTop:
		return "top"
	case InsertBefore:
		return "before"
	case InsertAfter:
		return "after"
	default:
		return fmt.Sprintf("InsertMode(%d)", uint8(m))
	}
}

// Sibling reports whether the mode places the node next to the anchor rather
// than inside it.
func (m InsertMode) Sibling() bool {
	return m == InsertBefore || m == InsertAfter
}

// ParseInsertMode accepts the names printed by String plus the short forms
// t, b, B and a.
func ParseInsertMode(s string) (InsertMode, error) {
	switch strings.TrimSpace(s) {
	case "bottom", "b", "":
		return InsertBottom, nil
	case "top", "t":
		return InsertTop, nil
	case "before", "B":
		return InsertBefore, nil
	case "after", "a":
		return InsertAfter, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownInsertMode, s)
}

// Insert attaches child relative to n according to mode.
func (n Node) Insert(mode InsertMode, child Node) error {
	switch mode {
	case InsertTop:
		return n.InsertTop(child)
	case InsertBefore:
		return n.InsertBefore(child)
	case InsertAfter:
		return n.InsertAfter(child)
	default:
		return n.InsertBottom(child)
	}
}

// CheckMove reports the error a move of m relative to anchor would run into,
// without touching the tree. A nil result means Move will not leave m
// detached.
func CheckMove(anchor, m Node, mode InsertMode) error {
	if !anchor.Valid() || !m.Valid() {
		return ErrStaleNode
	}
	if anchor.t != m.t {
		return ErrForeignNode
	}
	if _, err := m.Parent(); err != nil {
		return err
	}
	if m.Contains(anchor) {
		return ErrCycle
	}
	if mode.Sibling() {
		if _, err := anchor.Parent(); err != nil {
			return err
		}
	}
	return nil
}

// Move checks the move with CheckMove and then performs it. Unlike the
// Move* methods it never leaves m detached on a precondition failure.
func (n Node) Move(mode InsertMode, m Node) error {
	if err := CheckMove(n, m, mode); err != nil {
		return err
	}
	switch mode {
	case InsertTop:
		return n.MoveTop(m)
	case InsertBefore:
		return n.MoveBefore(m)
	case InsertAfter:
		return n.MoveAfter(m)
	default:
		return n.MoveBottom(m)
	}
}
