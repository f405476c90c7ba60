package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/vanderheijden86/mind/pkg/app"
	"github.com/vanderheijden86/mind/pkg/forest"
	"github.com/vanderheijden86/mind/pkg/ui"
)

func (r *runner) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List the trees with their sizes",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := r.source()
			if err != nil {
				return err
			}

			var summaries []forest.Summary
			if fs, ok := src.(app.FileSource); ok {
				t, err := fs.Load()
				if err != nil {
					return err
				}
				summaries = []forest.Summary{forest.Summarize(fs.FilePath, t)}
			} else {
				f, err := forest.LoadOrNew(r.cfg.Persistence.StatePath)
				if err != nil {
					return err
				}
				if summaries, err = f.Summaries(cmd.Context()); err != nil {
					return err
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), summaryTable(cmd.OutOrStdout(), summaries))
			return nil
		},
	}
}

// summaryTable renders one row per tree in the TUI palette. Colors follow
// what w supports.
func summaryTable(w io.Writer, summaries []forest.Summary) string {
	re := lipgloss.NewRenderer(w)
	header := re.NewStyle().Bold(true).Foreground(ui.ColorPrimary).Padding(0, 1)
	cell := re.NewStyle().Padding(0, 1)
	number := cell.Align(lipgloss.Right)
	muted := cell.Foreground(ui.ColorMuted)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(re.NewStyle().Foreground(ui.ColorMuted)).
		Headers("TREE", "NAME", "TYPE", "NODES", "FILES", "LINKS", "DEPTH").
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return header
			case col == 0 && summaries[row].Dir == "":
				return muted
			case col >= 3:
				return number
			default:
				return cell
			}
		})

	for _, s := range summaries {
		dir := s.Dir
		if dir == "" {
			dir = "(main)"
		}
		t.Row(
			dir,
			s.Name,
			s.Type.String(),
			strconv.Itoa(s.Nodes),
			strconv.Itoa(s.Files),
			strconv.Itoa(s.Links),
			strconv.Itoa(s.MaxDepth),
		)
	}
	return t.String()
}
