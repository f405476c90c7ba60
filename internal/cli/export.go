package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vanderheijden86/mind/pkg/app"
	"github.com/vanderheijden86/mind/pkg/debug"
	"github.com/vanderheijden86/mind/pkg/export"
	"github.com/vanderheijden86/mind/pkg/forest"
	"github.com/vanderheijden86/mind/pkg/watcher"
)

func (r *runner) exportCmd() *cobra.Command {
	var (
		sqlitePath, snapshotPath, title string
		visible                         bool
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export trees to SQLite or an outline image",
		Long: `--sqlite writes every tree of the forest (or the tree selected with
--path/--local) to a SQLite database with a full-text index over node names.
--snapshot renders the selected tree as an outline, SVG or PNG after the
file extension.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if sqlitePath == "" && snapshotPath == "" {
				return errors.New("one of --sqlite or --snapshot is required")
			}
			src, t, err := r.load()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if sqlitePath != "" {
				f, err := r.exportForest(src)
				if err != nil {
					return err
				}
				exp := export.NewSQLiteExporter(f)
				exp.Title = title
				if err := exp.Export(sqlitePath); err != nil {
					return fmt.Errorf("export %s: %w", sqlitePath, err)
				}
				debug.Info("exported sqlite", "path", sqlitePath)
				fmt.Fprintf(out, "Wrote %s\n", sqlitePath)
			}

			if snapshotPath != "" {
				err := export.SaveSnapshot(export.SnapshotOptions{
					Path:        snapshotPath,
					Title:       title,
					Tree:        t,
					VisibleOnly: visible,
				})
				if err != nil {
					return fmt.Errorf("snapshot %s: %w", snapshotPath, err)
				}
				debug.Info("saved snapshot", "path", snapshotPath, "visible_only", visible)
				fmt.Fprintf(out, "Wrote %s\n", snapshotPath)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&sqlitePath, "sqlite", "", "Write a SQLite database to this file")
	cmd.Flags().StringVar(&snapshotPath, "snapshot", "", "Render an outline image (.svg or .png) to this file")
	cmd.Flags().StringVar(&title, "title", "", "Title recorded in the export")
	cmd.Flags().BoolVar(&visible, "visible", false, "Only render nodes whose parents are expanded")
	return cmd
}

// exportForest is the whole forest, or a forest around a lone tree file.
func (r *runner) exportForest(src app.Source) (*forest.Forest, error) {
	if fs, ok := src.(app.FileSource); ok {
		t, err := fs.Load()
		if err != nil {
			return nil, err
		}
		return forest.New(t), nil
	}
	return forest.LoadOrNew(r.cfg.Persistence.StatePath)
}

func (r *runner) tuiCmd() *cobra.Command {
	var noWatch bool
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Browse and edit the selected tree in the terminal UI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := r.source()
			if err != nil {
				return err
			}
			opts := []app.Option{
				app.WithDataFiles(r.dataFiles()),
				app.WithURLOpener(r.env.OpenURL),
			}
			if !noWatch && !r.cfg.UI.NoWatch {
				w, err := watcher.New(src.Path())
				if err != nil {
					debug.Warn("not watching state", "path", src.Path(), "error", err)
				} else {
					opts = append(opts, app.WithWatcher(w))
				}
			}
			a, err := app.New(src, r.cfg, opts...)
			if err != nil {
				return err
			}
			return r.env.RunTUI(cmd.Context(), a)
		},
	}
	cmd.Flags().BoolVar(&noWatch, "no-watch", false, "Do not reload when the tree changes on disk")
	return cmd
}
