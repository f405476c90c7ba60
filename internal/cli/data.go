package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vanderheijden86/mind/pkg/datafile"
	"github.com/vanderheijden86/mind/pkg/debug"
	"github.com/vanderheijden86/mind/pkg/tree"
)

// dataFileExt is the extension of data files created for nodes.
const dataFileExt = ".md"

// askLink is what a bare --uri parses to: the link comes from the single
// positional argument or a prompt.
const askLink = "\x00ask"

// ErrMissingLink is returned when --uri has no value and cannot prompt.
var ErrMissingLink = errors.New("missing a link")

// linkFlag is the optional-value --uri/-u flag. "-u" alone is allowed, so
// "-u https://x" leaves the URI as an argument; "-u=https://x" binds it.
type linkFlag struct {
	raw string
	set bool
}

func (l *linkFlag) String() string {
	if l.raw == askLink {
		return ""
	}
	return l.raw
}

func (l *linkFlag) Set(v string) error {
	l.raw, l.set = v, true
	return nil
}

func (l *linkFlag) Type() string { return "uri" }

func (l *linkFlag) register(cmd *cobra.Command) {
	cmd.Flags().VarP(l, "uri", "u", "Attach a link (prompted for when no URI is given)")
	cmd.Flags().Lookup("uri").NoOptDefVal = askLink
}

// args accepts the URI as an argument after a bare -u and nothing otherwise.
func (l *linkFlag) args(cmd *cobra.Command, args []string) error {
	if l.set && l.raw == askLink {
		return cobra.MaximumNArgs(1)(cmd, args)
	}
	return cobra.NoArgs(cmd, args)
}

// value returns the given URI, "" when it must be asked for.
func (l *linkFlag) value(args []string) string {
	switch {
	case l.raw != askLink:
		return l.raw
	case len(args) == 1:
		return args[0]
	default:
		return ""
	}
}

func (r *runner) dataFiles() *datafile.Store {
	var opts []datafile.Option
	if r.env.Now != nil {
		opts = append(opts, datafile.WithClock(r.env.Now))
	}
	return datafile.New(r.cfg.Persistence.DataDir, opts...)
}

// attachFile creates an empty data file named after n and attaches it.
func (r *runner) attachFile(n tree.Node) error {
	if d, ok := n.Data(); ok {
		if d.Kind == tree.KindFile {
			return tree.ErrFileDataAlreadyExists
		}
		return tree.ErrMismatchDataType
	}
	path, err := r.dataFiles().Create(n.Name(), dataFileExt, nil)
	if err != nil {
		return err
	}
	debug.Log("created data file %s for %s", path, n.Path())
	return n.SetData(tree.File(path))
}

// attachLink sets uri on n, asking for it when empty.
func (r *runner) attachLink(n tree.Node, uri string) error {
	if uri == "" {
		if !r.prompting() {
			return ErrMissingLink
		}
		initial := ""
		if d, ok := n.Data(); ok && d.Kind == tree.KindLink {
			initial = d.Value
		}
		var err error
		if uri, err = r.env.Prompter.Input("Link", initial); err != nil {
			return err
		}
	}
	return n.SetData(tree.Link(uri))
}

// open hands the node data to the editor or the URL opener.
func (r *runner) open(n tree.Node) error {
	d, ok := n.Data()
	if !ok {
		return fmt.Errorf("%s: %w", n.Path(), tree.ErrNoData)
	}
	switch d.Kind {
	case tree.KindFile:
		debug.Log("editing %s with %s", d.Value, r.cfg.Editor())
		return r.env.RunEditor(r.cfg.Editor(), d.Value)
	default:
		debug.Log("opening %s", d.Value)
		return r.env.OpenURL(d.Value)
	}
}

// dataFilter is the filter of get and set: both flags off means any data.
func dataFilter(file, uri bool) tree.NodeFilter {
	if !file && !uri {
		return tree.FilterFileOrLink
	}
	return tree.NewNodeFilter(file, uri)
}

func (r *runner) getCmd() *cobra.Command {
	var (
		source          string
		file, uri, open bool
	)
	cmd := &cobra.Command{
		Use:   "get",
		Short: "Print the data of a node",
		Long: `Print the data file path or the link of a node. --file and --uri require
that kind of data. --open opens it: files in the editor, links with the
system URL handler.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, t, err := r.load()
			if err != nil {
				return err
			}
			filter := dataFilter(file, uri)
			n, err := r.resolve(t, source, "Get data of", filter)
			if err != nil {
				return err
			}
			d, ok := n.Data()
			if !ok {
				return fmt.Errorf("%s: %w", n.Path(), tree.ErrNoData)
			}
			if !filter.Accepts(n) {
				return fmt.Errorf("%s has %s data: %w", n.Path(), d.Kind, tree.ErrMismatchDataType)
			}
			fmt.Fprintln(cmd.OutOrStdout(), d.Value)
			if open {
				return r.open(n)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&source, "source", "s", "", "Path of the node")
	cmd.Flags().BoolVarP(&file, "file", "f", false, "Require a data file")
	cmd.Flags().BoolVarP(&uri, "uri", "u", false, "Require a link")
	cmd.Flags().BoolVarP(&open, "open", "o", false, "Open the data")
	return cmd
}

func (r *runner) setCmd() *cobra.Command {
	var (
		source     string
		file, open bool
		link       linkFlag
	)
	cmd := &cobra.Command{
		Use:   "set [-u [URI]]",
		Short: "Attach data to a node",
		Long: `Attach data to a node: --file creates a data file named after the node,
--uri sets a link. A data file is never replaced and the kind of data
never changes; a link can be replaced by another link.`,
		Args: link.args,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !file && !link.set {
				return errors.New("one of --file or --uri is required")
			}
			var target tree.Node
			err := r.edit(func(t *tree.Tree) error {
				n, err := r.resolve(t, source, "Set data of", tree.FilterAlways)
				if err != nil {
					return err
				}
				if file {
					err = r.attachFile(n)
				} else {
					err = r.attachLink(n, link.value(args))
				}
				if err != nil {
					return fmt.Errorf("%s: %w", n.Path(), err)
				}
				target = n
				return nil
			})
			if err != nil {
				return err
			}
			d, _ := target.Data()
			fmt.Fprintln(cmd.OutOrStdout(), d.Value)
			if open {
				return r.open(target)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&source, "source", "s", "", "Path of the node")
	cmd.Flags().BoolVarP(&file, "file", "f", false, "Create and attach a data file")
	cmd.Flags().BoolVarP(&open, "open", "o", false, "Open the data afterwards")
	link.register(cmd)
	cmd.MarkFlagsMutuallyExclusive("file", "uri")
	return cmd
}
