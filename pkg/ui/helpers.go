package ui

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/vanderheijden86/mind/pkg/tree"
)

// truncateRunesHelper truncates a string to max visual width (cells), adding suffix if needed.
// Uses go-runewidth to handle wide characters correctly.
func truncateRunesHelper(s string, maxWidth int, suffix string) string {
	if maxWidth <= 0 {
		return ""
	}

	width := runewidth.StringWidth(s)
	if width <= maxWidth {
		return s
	}

	suffixWidth := runewidth.StringWidth(suffix)
	if suffixWidth > maxWidth {
		return runewidth.Truncate(suffix, maxWidth, "")
	}

	targetWidth := maxWidth - suffixWidth
	return runewidth.Truncate(s, targetWidth, "") + suffix
}

// padRight pads s with spaces up to width cells.
func padRight(s string, width int) string {
	if w := runewidth.StringWidth(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

// treePrefixes returns the branch drawing ("│   ├── ") for each row of a
// pre-order listing. A row is the last child of its parent when no later
// row at the same depth appears before the listing climbs above it.
func treePrefixes(rows []tree.NodeInfo) []string {
	last := make([]bool, len(rows))
	// nextAtDepth[d] is true when a later sibling at depth d is still pending.
	var pending []bool
	for i := len(rows) - 1; i >= 0; i-- {
		d := rows[i].Depth
		for len(pending) <= d {
			pending = append(pending, false)
		}
		last[i] = !pending[d]
		pending[d] = true
		// Rows below this one at deeper levels belong to other parents.
		for k := d + 1; k < len(pending); k++ {
			pending[k] = false
		}
	}

	out := make([]string, len(rows))
	open := []bool{}
	for i, r := range rows {
		d := r.Depth
		for len(open) <= d {
			open = append(open, false)
		}
		open[d] = !last[i]
		if d == 0 {
			continue
		}
		var b strings.Builder
		for k := 1; k < d; k++ {
			if open[k] {
				b.WriteString(glyphPipe)
			} else {
				b.WriteString(glyphSpace)
			}
		}
		if last[i] {
			b.WriteString(glyphLast)
		} else {
			b.WriteString(glyphBranch)
		}
		out[i] = b.String()
	}
	return out
}

// expandIndicator returns the expand/collapse glyph for a row.
func expandIndicator(r tree.NodeInfo) string {
	switch {
	case r.ChildCount == 0:
		return glyphLeaf
	case r.Expanded:
		return glyphExpanded
	default:
		return glyphCollapsed
	}
}

// rowPath is the path yanked for a row; the root's is "/".
func rowPath(r tree.NodeInfo) string {
	if r.Path == "" {
		return "/"
	}
	return r.Path
}
