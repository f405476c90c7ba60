package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vanderheijden86/mind/pkg/app"
	"github.com/vanderheijden86/mind/pkg/debug"
	"github.com/vanderheijden86/mind/pkg/forest"
	"github.com/vanderheijden86/mind/pkg/tree"
)

func (r *runner) initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init [name]",
		Short: "Create the selected tree",
		Long: `Create the selected tree with a root named after the argument. The main
tree defaults to "` + forest.DefaultTreeName + `", directory trees to the directory name.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := r.source()
			if err != nil {
				return err
			}
			exists, err := treeExists(src)
			if err != nil {
				return err
			}
			if exists {
				return fmt.Errorf("%w: %s", ErrTreeExists, src.Title())
			}

			// Load hands out a fresh tree for a missing one; only its root
			// name needs replacing.
			t, err := src.Load()
			if err != nil {
				return err
			}
			if len(args) == 1 {
				if err := t.Root().SetName(args[0]); err != nil {
					return err
				}
			}
			if err := src.Save(t); err != nil {
				return fmt.Errorf("save %s: %w", src.Title(), err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s tree %q in %s\n", t.Type(), t.Root().Name(), src.Path())
			return nil
		},
	}
}

// treeExists reports whether src was saved before.
func treeExists(src app.Source) (bool, error) {
	switch s := src.(type) {
	case app.ForestSource:
		f, err := forest.Load(s.StatePath)
		if errors.Is(err, forest.ErrNotPersisted) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		if s.Dir == "" {
			return true, nil
		}
		_, ok := f.CWDTree(s.Dir)
		return ok, nil
	default:
		_, err := os.Stat(src.Path())
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return err == nil, err
	}
}

func (r *runner) insertCmd() *cobra.Command {
	var (
		source, name, modeName string
		file, open             bool
		link                   linkFlag
	)
	cmd := &cobra.Command{
		Use:     "insert [-u [URI]]",
		Aliases: []string{"ins"},
		Short:   "Insert a new node relative to a selected one",
		Long: `Insert a node named --name relative to --source. --mode is one of
top, bottom (default), before or after. --file creates a data file for the
new node, --uri attaches a link.`,
		Args: link.args,
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := tree.ParseInsertMode(modeName)
			if err != nil {
				return err
			}
			var created tree.Node
			err = r.edit(func(t *tree.Tree) error {
				base, err := r.resolve(t, source, "Insert relative to", tree.FilterAlways)
				if err != nil {
					return err
				}
				nodeName, err := r.name(name, "Name of the new node", "")
				if err != nil {
					return err
				}

				n := t.NewNode(nodeName, "")
				if err := base.Insert(mode, n); err != nil {
					_ = t.Release(n)
					return fmt.Errorf("insert %s %s: %w", mode, base.Path(), err)
				}
				debug.Log("inserted %q %s %s", nodeName, mode, base.Path())

				switch {
				case file:
					if err := r.attachFile(n); err != nil {
						return err
					}
				case link.set:
					if err := r.attachLink(n, link.value(args)); err != nil {
						return err
					}
				}
				created = n
				return nil
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), created.Path())
			if open {
				return r.open(created)
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVarP(&source, "source", "s", "", "Path of the base node")
	f.StringVarP(&name, "name", "n", "", "Name of the new node")
	f.StringVarP(&modeName, "mode", "m", "bottom", "Where to insert: top, bottom, before or after")
	f.BoolVarP(&file, "file", "f", false, "Create a data file for the new node")
	f.BoolVarP(&open, "open", "o", false, "Open the node data afterwards")
	link.register(cmd)
	cmd.MarkFlagsMutuallyExclusive("file", "uri")
	return cmd
}

func (r *runner) removeCmd() *cobra.Command {
	var source string
	cmd := &cobra.Command{
		Use:     "remove",
		Aliases: []string{"rm"},
		Short:   "Remove a node and everything below it",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var removed string
			err := r.edit(func(t *tree.Tree) error {
				n, err := r.resolve(t, source, "Remove", tree.FilterAlways)
				if err != nil {
					return err
				}
				if n.IsRoot() {
					return ErrRootRemoval
				}
				removed = n.Path()
				if r.prompting() {
					title := fmt.Sprintf("Remove %s?", removed)
					if c := n.ChildCount(); c > 0 {
						title = fmt.Sprintf("Remove %s and its %d children?", removed, c)
					}
					ok, err := r.env.Prompter.Confirm(title)
					if err != nil {
						return err
					}
					if !ok {
						return errAborted
					}
				}
				parent, err := n.Parent()
				if err != nil {
					return err
				}
				return parent.Delete(n)
			})
			if errors.Is(err, errAborted) {
				fmt.Fprintln(cmd.ErrOrStderr(), "Aborted.")
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", removed)
			return nil
		},
	}
	cmd.Flags().StringVarP(&source, "source", "s", "", "Path of the node to remove")
	return cmd
}

// errAborted ends an edit without saving.
var errAborted = errors.New("aborted")

func (r *runner) renameCmd() *cobra.Command {
	var source, name string
	cmd := &cobra.Command{
		Use:   "rename",
		Short: "Rename a node",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var renamed string
			err := r.edit(func(t *tree.Tree) error {
				n, err := r.resolve(t, source, "Rename", tree.FilterAlways)
				if err != nil {
					return err
				}
				newName, err := r.name(name, "New name", n.Name())
				if err != nil {
					return err
				}
				if err := n.SetName(newName); err != nil {
					return err
				}
				renamed = n.Path()
				return nil
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renamed)
			return nil
		},
	}
	cmd.Flags().StringVarP(&source, "source", "s", "", "Path of the node to rename")
	cmd.Flags().StringVarP(&name, "name", "n", "", "New name")
	return cmd
}

func (r *runner) iconCmd() *cobra.Command {
	var source, icon string
	cmd := &cobra.Command{
		Use:   "icon",
		Short: "Change the icon of a node",
		Long:  `Change the icon of a node. An empty --icon removes it.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.edit(func(t *tree.Tree) error {
				n, err := r.resolve(t, source, "Change icon of", tree.FilterAlways)
				if err != nil {
					return err
				}
				if !cmd.Flags().Changed("icon") && r.prompting() {
					if icon, err = r.env.Prompter.Input("Icon", n.Icon()); err != nil {
						return err
					}
				}
				n.SetIcon(icon)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&icon, "icon", "t", "", "New icon")
	cmd.Flags().StringVarP(&source, "source", "s", "", "Path of the node")
	return cmd
}

func (r *runner) moveCmd() *cobra.Command {
	var source, dest, modeName string
	cmd := &cobra.Command{
		Use:     "move",
		Aliases: []string{"mv"},
		Short:   "Move a node relative to another one",
		Long: `Move --source relative to --dest. --mode is one of top, bottom (default),
before or after. A node cannot be moved into its own subtree, and before or
after need a destination that has a parent.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := tree.ParseInsertMode(modeName)
			if err != nil {
				return err
			}
			var moved tree.Node
			err = r.edit(func(t *tree.Tree) error {
				src, err := r.resolve(t, source, "Move", tree.FilterAlways)
				if err != nil {
					return err
				}
				dst, err := r.resolve(t, dest, "Move "+mode.String()+" of", tree.FilterAlways)
				if err != nil {
					return err
				}
				if err := dst.Move(mode, src); err != nil {
					return fmt.Errorf("move %s %s %s: %w", src.Path(), mode, dst.Path(), err)
				}
				moved = src
				return nil
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), moved.Path())
			return nil
		},
	}
	cmd.Flags().StringVarP(&source, "source", "s", "", "Path of the node to move")
	cmd.Flags().StringVarP(&dest, "dest", "d", "", "Path of the destination node")
	cmd.Flags().StringVarP(&modeName, "mode", "m", "bottom", "Where to move: top, bottom, before or after")
	return cmd
}

func (r *runner) pathsCmd() *cobra.Command {
	var (
		source    string
		file, uri bool
	)
	cmd := &cobra.Command{
		Use:   "paths",
		Short: "Print the paths of a node and its descendants",
		Long: `Print the path of --source (the root by default) and of every node below
it, one per line. --file and --uri keep only nodes carrying that data.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, t, err := r.load()
			if err != nil {
				return err
			}
			base := t.Root()
			if source != "" {
				if base, err = r.resolve(t, source, "", tree.FilterAlways); err != nil {
					return err
				}
			}
			return base.WritePaths(cmd.OutOrStdout(), pathPrefix(base), tree.NewNodeFilter(file, uri))
		},
	}
	cmd.Flags().StringVarP(&source, "source", "s", "", "Path of the node to start from")
	cmd.Flags().BoolVarP(&file, "file", "f", false, "Only nodes with a data file")
	cmd.Flags().BoolVarP(&uri, "uri", "u", false, "Only nodes with a link")
	return cmd
}
