package ui

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/vanderheijden86/mind/pkg/tree"
)

// ensureVisible scrolls the window so the selected row is on screen.
func (m *Model) ensureVisible() {
	h := m.treeHeight()
	n := len(m.snap.Rows)
	sel := m.snap.Selected
	if sel < m.offset {
		m.offset = sel
	}
	if sel >= m.offset+h {
		m.offset = sel - h + 1
	}
	if maxOff := n - h; m.offset > maxOff {
		m.offset = maxOff
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

// treeHeight is the number of rows available for nodes: the header and the
// status line take one line each.
func (m Model) treeHeight() int {
	h := m.height - 2
	if h < 1 {
		h = 1
	}
	return h
}

// renderTree renders the visible window of the snapshot.
func (m Model) renderTree() string {
	rows := m.snap.Rows
	if len(rows) == 0 {
		return m.theme.MutedText.Render("  (empty)")
	}
	prefixes := treePrefixes(rows)
	h := m.treeHeight()
	end := m.offset + h
	if end > len(rows) {
		end = len(rows)
	}

	var b strings.Builder
	for i := m.offset; i < end; i++ {
		if i > m.offset {
			b.WriteByte('\n')
		}
		b.WriteString(m.renderRow(i, rows[i], prefixes[i]))
	}
	return b.String()
}

func (m Model) renderRow(i int, r tree.NodeInfo, prefix string) string {
	t := m.theme
	selected := i == m.snap.Selected
	marked := i == m.snap.Marked

	indicator := expandIndicator(r)
	icon := ""
	if r.Icon != "" {
		icon = r.Icon + " "
	}
	badge := ""
	if r.Data != nil {
		switch r.Data.Kind {
		case tree.KindFile:
			badge = " " + badgeFile
		case tree.KindLink:
			badge = " " + badgeLink
		}
	}
	mark := ""
	if marked {
		mark = " " + glyphMark
	}

	width := m.width
	if width <= 0 {
		width = 80
	}
	// Selected rows carry a one-cell left border.
	avail := width - 1
	fixed := runewidth.StringWidth(prefix) + runewidth.StringWidth(indicator) + 1 +
		runewidth.StringWidth(icon) + runewidth.StringWidth(badge) + runewidth.StringWidth(mark)
	name := truncateRunesHelper(r.Name, avail-fixed, "…")

	if selected {
		line := prefix + indicator + " " + icon + name + badge + mark
		return t.Selected.Render(padRight(line, avail))
	}

	var b strings.Builder
	b.WriteString(" ")
	b.WriteString(t.MutedText.Render(prefix + indicator))
	b.WriteString(" ")
	if icon != "" {
		b.WriteString(t.IconText.Render(icon))
	}
	if marked {
		b.WriteString(t.MarkedText.Render(name))
	} else {
		b.WriteString(t.NameText.Render(name))
	}
	if badge != "" {
		if r.Data.Kind == tree.KindLink {
			b.WriteString(" " + t.LinkBadge.Render(badgeLink))
		} else {
			b.WriteString(" " + t.FileBadge.Render(badgeFile))
		}
	}
	if mark != "" {
		b.WriteString(t.MarkedText.Render(mark))
	}
	return b.String()
}

// renderPositionIndicator returns " Page X/Y (a-b of n)" when the tree does
// not fit on screen, "" otherwise.
func (m Model) renderPositionIndicator() string {
	n := len(m.snap.Rows)
	h := m.treeHeight()
	if n <= h {
		return ""
	}
	end := m.offset + h
	if end > n {
		end = n
	}
	pages := (n + h - 1) / h
	page := m.snap.Selected/h + 1
	return fmt.Sprintf(" Page %d/%d (%d-%d of %d)", page, pages, m.offset+1, end, n)
}
