// Package cli implements the mind command line: one cobra command per tree
// operation, working on the main tree, the tree of the current directory or
// a tree file.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/vanderheijden86/mind/internal/opener"
	"github.com/vanderheijden86/mind/pkg/app"
	"github.com/vanderheijden86/mind/pkg/config"
	"github.com/vanderheijden86/mind/pkg/debug"
	"github.com/vanderheijden86/mind/pkg/forest"
	"github.com/vanderheijden86/mind/pkg/tree"
	"github.com/vanderheijden86/mind/pkg/ui"
	"github.com/vanderheijden86/mind/pkg/version"
)

// Selection errors.
var (
	ErrMissingSelection = errors.New("missing a node selection")
	ErrMissingName      = errors.New("missing a node name")
	ErrUnknownNode      = errors.New("no node at path")
	ErrTreeExists       = errors.New("tree already exists")
	ErrRootRemoval      = errors.New("cannot remove the root node")
)

// Env is everything a command touches outside the tree: streams, the
// working directory, configuration and the programs it starts.
type Env struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer

	Getwd      func() (string, error)
	LoadConfig func() (config.Config, error)
	Prompter   Prompter
	IsTerminal func() bool
	OpenURL    func(url string) error
	RunEditor  func(editor, path string) error
	RunTUI     func(ctx context.Context, a *app.App) error
	Now        func() time.Time
}

// DefaultEnv wires the process streams, huh prompts and the real openers.
func DefaultEnv() Env {
	return Env{
		In:         os.Stdin,
		Out:        os.Stdout,
		Err:        os.Stderr,
		Getwd:      os.Getwd,
		LoadConfig: config.Load,
		Prompter:   huhPrompter{},
		IsTerminal: isTerminal,
		OpenURL:    opener.OpenURL,
		RunEditor:  runEditor,
		RunTUI:     ui.Run,
		Now:        time.Now,
	}
}

func runEditor(editor, path string) error {
	cmd, err := opener.EditorCommand(editor, path)
	if err != nil {
		return err
	}
	cmd.Stdin, cmd.Stdout, cmd.Stderr = os.Stdin, os.Stdout, os.Stderr
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return fmt.Errorf("editor exited with status %d", exitErr.ExitCode())
		}
		return err
	}
	return nil
}

// globalFlags are shared by every subcommand.
type globalFlags struct {
	path        string
	cwd         bool
	local       bool
	interactive bool
	logFile     string
	verbosity   int
}

// runner carries the parsed flags and loaded configuration into the
// subcommands.
type runner struct {
	env   Env
	flags globalFlags
	cfg   config.Config
}

// NewRootCommand builds the mind command tree.
func NewRootCommand(env Env) *cobra.Command {
	r := &runner{env: env, cfg: config.DefaultConfig()}

	root := &cobra.Command{
		Use:   "mind",
		Short: "Organize thoughts and tasks in a tree",
		Long: `mind keeps a tree of named nodes. Nodes can carry an icon and data: a
file created for them or a link. There is one main tree, one tree per
project directory, and optional standalone tree files.

Nodes are selected by path, e.g. "/work/reports". With --interactive a
missing selection is picked with the configured fuzzy finder.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return r.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = debug.Sync()
		},
	}
	root.SetIn(env.In)
	root.SetOut(env.Out)
	root.SetErr(env.Err)

	pf := root.PersistentFlags()
	pf.StringVarP(&r.flags.path, "path", "p", "", "Work on the tree stored in this file")
	pf.BoolVarP(&r.flags.cwd, "cwd", "C", false, "Work on the tree of the current directory")
	pf.BoolVarP(&r.flags.local, "local", "l", false, "Work on the local tree file ("+forest.LocalFileName+") of the current directory")
	pf.BoolVarP(&r.flags.interactive, "interactive", "i", false, "Prompt for missing selections and names")
	pf.StringVar(&r.flags.logFile, "log-file", "", "Write debug logs to this file")
	pf.CountVarP(&r.flags.verbosity, "verbose", "v", "Increase log verbosity (-v, -vv, -vvv)")
	root.MarkFlagsMutuallyExclusive("path", "cwd", "local")

	root.AddCommand(
		r.initCmd(),
		r.insertCmd(),
		r.removeCmd(),
		r.renameCmd(),
		r.iconCmd(),
		r.moveCmd(),
		r.pathsCmd(),
		r.getCmd(),
		r.setCmd(),
		r.listCmd(),
		r.exportCmd(),
		r.tuiCmd(),
	)
	return root
}

// Execute runs the command line and returns the process exit code.
func Execute(ctx context.Context, env Env, args []string) int {
	root := NewRootCommand(env)
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(env.Err, "Error: %v\n", err)
		return 1
	}
	return 0
}

func (r *runner) setup() error {
	if r.flags.verbosity > 0 || r.flags.logFile != "" {
		if err := debug.Init(debug.Options{Verbosity: r.flags.verbosity, LogFile: r.flags.logFile}); err != nil {
			return fmt.Errorf("init logging: %w", err)
		}
	}
	cfg, err := r.env.LoadConfig()
	if err != nil {
		return err
	}
	r.cfg = cfg
	debug.Log("config loaded: state=%s data=%s", cfg.Persistence.StatePath, cfg.Persistence.DataDir)
	return nil
}

// source picks the tree the command works on from the flags.
func (r *runner) source() (app.Source, error) {
	switch {
	case r.flags.path != "":
		return app.FileSource{FilePath: r.flags.path}, nil
	case r.flags.local:
		dir, err := r.env.Getwd()
		if err != nil {
			return nil, fmt.Errorf("current directory: %w", err)
		}
		return app.FileSource{FilePath: filepath.Join(dir, forest.LocalFileName)}, nil
	case r.flags.cwd:
		dir, err := r.env.Getwd()
		if err != nil {
			return nil, fmt.Errorf("current directory: %w", err)
		}
		return app.ForestSource{StatePath: r.cfg.Persistence.StatePath, Dir: dir}, nil
	default:
		return app.ForestSource{StatePath: r.cfg.Persistence.StatePath}, nil
	}
}

// load opens the selected tree. A tree that was never saved starts empty.
func (r *runner) load() (app.Source, *tree.Tree, error) {
	src, err := r.source()
	if err != nil {
		return nil, nil, err
	}
	t, err := src.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load %s: %w", src.Title(), err)
	}
	debug.Log("loaded %s (%d nodes)", src.Title(), t.Len())
	return src, t, nil
}

// edit loads the selected tree, applies fn and saves the result.
func (r *runner) edit(fn func(t *tree.Tree) error) error {
	src, t, err := r.load()
	if err != nil {
		return err
	}
	if err := fn(t); err != nil {
		return err
	}
	if err := src.Save(t); err != nil {
		return fmt.Errorf("save %s: %w", src.Title(), err)
	}
	return nil
}

// prompting reports whether missing input may be asked for.
func (r *runner) prompting() bool {
	return r.flags.interactive && r.env.IsTerminal()
}

// picker returns the configured fuzzy finder, or a huh select when stdin is
// a terminal. ok is false when neither can be used.
func (r *runner) picker(prompt string) (Picker, bool) {
	if program, args, ok := r.cfg.FuzzyCommand(prompt); ok {
		return fuzzyPicker{program: program, args: args, stderr: r.env.Err}, true
	}
	if r.env.IsTerminal() {
		return promptPicker{prompter: r.env.Prompter}, true
	}
	return nil, false
}

// resolve finds the node at sel. An empty selection is picked interactively
// among the nodes accepted by filter when --interactive is set.
func (r *runner) resolve(t *tree.Tree, sel, prompt string, filter tree.NodeFilter) (tree.Node, error) {
	if sel == "" {
		if !r.flags.interactive {
			return tree.Node{}, ErrMissingSelection
		}
		p, ok := r.picker(prompt)
		if !ok {
			return tree.Node{}, ErrMissingSelection
		}
		paths := displayPaths(t.Root().Paths("", filter))
		picked, err := p.Pick(prompt, paths)
		if err != nil {
			return tree.Node{}, err
		}
		sel = picked
	}
	n, ok := t.GetNodeByPath(tree.PathSegments(sel), false)
	if !ok {
		return tree.Node{}, fmt.Errorf("%w %q", ErrUnknownNode, sel)
	}
	return n, nil
}

// name returns value, or asks for it when prompting is possible.
func (r *runner) name(value, title, initial string) (string, error) {
	if value != "" {
		return value, nil
	}
	if !r.prompting() {
		return "", ErrMissingName
	}
	return r.env.Prompter.Input(title, initial)
}

// displayPaths shows the root as "/" so it can be picked.
func displayPaths(paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		if p == "" {
			p = "/"
		}
		out[i] = p
	}
	return out
}

// pathPrefix is the prefix Paths expects for n: empty for the root.
func pathPrefix(n tree.Node) string {
	if n.IsRoot() {
		return ""
	}
	return n.Path()
}
