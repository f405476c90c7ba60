package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"
)

const helpIntro = `# mind

A tree of everything on your mind. Every node has a name, an optional icon
and optionally a file or a link attached to it.

Marked nodes (◆) are moved with **p**, **P** and **M** relative to the
node under the cursor.

## Commands

| Command | Action |
|---------|--------|
| ` + "`:w`" + ` | save |
| ` + "`:q`" + ` | quit, refused with unsaved changes |
| ` + "`:q!`" + ` | quit without saving |
| ` + "`:wq`" + `, ` + "`:x`" + ` | save and quit |
`

// helpMarkdown renders the key map as a markdown document.
func helpMarkdown(keys KeyMap) string {
	var b strings.Builder
	b.WriteString(helpIntro)
	sections := []string{"Navigation", "Editing", "Data and moves", "General"}
	for i, group := range keys.FullHelp() {
		b.WriteString("\n## " + sections[i] + "\n\n| Key | Action |\n|-----|--------|\n")
		for _, kb := range group {
			writeHelpRow(&b, kb)
		}
	}
	return b.String()
}

func writeHelpRow(b *strings.Builder, kb key.Binding) {
	h := kb.Help()
	k := strings.ReplaceAll(h.Key, "|", `\|`)
	b.WriteString("| `" + k + "` | " + h.Desc + " |\n")
}

// renderHelp renders the help page for the given width. A fixed style is
// used instead of glamour's auto detection, which queries the terminal.
func renderHelp(keys KeyMap, width int, dark bool) (string, error) {
	style := styles.LightStyle
	if dark {
		style = styles.DarkStyle
	}
	if width < 20 {
		width = 20
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", err
	}
	return r.Render(helpMarkdown(keys))
}
