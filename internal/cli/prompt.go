package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"
)

// ErrNoSelection is returned when a picker was closed without choosing.
var ErrNoSelection = errors.New("nothing selected")

// Prompter asks the user for missing input.
type Prompter interface {
	Input(title, initial string) (string, error)
	Confirm(title string) (bool, error)
	Select(title string, options []string) (string, error)
}

// isTerminal checks if stdin is connected to a terminal
func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// huhPrompter prompts with huh forms.
type huhPrompter struct{}

// newForm creates a form with appropriate settings based on TTY detection
func newForm(groups ...*huh.Group) *huh.Form {
	form := huh.NewForm(groups...).WithTheme(huh.ThemeDracula())
	if !isTerminal() {
		form = form.WithAccessible(true)
	}
	return form
}

func (huhPrompter) Input(title, initial string) (string, error) {
	value := initial
	form := newForm(
		huh.NewGroup(
			huh.NewInput().
				Title(title).
				Value(&value).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("cannot be empty")
					}
					return nil
				}),
		),
	)
	if err := form.Run(); err != nil {
		return "", err
	}
	return value, nil
}

func (huhPrompter) Confirm(title string) (bool, error) {
	var ok bool
	form := newForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Yes").
				Negative("No").
				Value(&ok),
		),
	)
	if err := form.Run(); err != nil {
		return false, err
	}
	return ok, nil
}

func (huhPrompter) Select(title string, options []string) (string, error) {
	if len(options) == 0 {
		return "", ErrNoSelection
	}
	var choice string
	form := newForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title(title).
				Options(huh.NewOptions(options...)...).
				Filtering(true).
				Value(&choice),
		),
	)
	if err := form.Run(); err != nil {
		return "", err
	}
	return choice, nil
}

// Picker chooses one of a list of node paths.
type Picker interface {
	Pick(prompt string, paths []string) (string, error)
}

// fuzzyPicker pipes the paths into an external fuzzy finder (fzf, skim...)
// and reads the chosen line back.
type fuzzyPicker struct {
	program string
	args    []string
	stderr  io.Writer
}

func (p fuzzyPicker) Pick(_ string, paths []string) (string, error) {
	cmd := exec.Command(p.program, p.args...)
	cmd.Stdin = strings.NewReader(strings.Join(paths, "\n") + "\n")
	cmd.Stderr = p.stderr
	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("running %s: %w", p.program, err)
	}
	choice := strings.TrimRight(out.String(), "\r\n")
	if choice == "" {
		return "", ErrNoSelection
	}
	return choice, nil
}

// promptPicker falls back to a filterable huh select.
type promptPicker struct {
	prompter Prompter
}

func (p promptPicker) Pick(prompt string, paths []string) (string, error) {
	return p.prompter.Select(prompt, paths)
}
