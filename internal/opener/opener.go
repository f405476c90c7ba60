// Package opener starts the programs node data is opened with: an editor for
// data files and the desktop's URL handler for links.
package opener

import (
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// ErrNoEditor is returned when the editor setting is blank.
var ErrNoEditor = errors.New("no editor configured")

// EditorCommand builds the command that opens path in editor. The editor
// setting may carry arguments ("code --wait").
func EditorCommand(editor, path string) (*exec.Cmd, error) {
	args, err := ParseCommandLine(editor)
	if err != nil {
		return nil, fmt.Errorf("invalid editor %q: %w", editor, err)
	}
	if len(args) == 0 {
		return nil, ErrNoEditor
	}
	args = append(args, path)
	return exec.Command(args[0], args[1:]...), nil
}

// URLCommand returns the platform command that hands url to the default
// handler.
func URLCommand(url string) (*exec.Cmd, error) {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", url), nil
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url), nil
	case "linux", "freebsd", "openbsd", "netbsd":
		return exec.Command("xdg-open", url), nil
	default:
		return nil, fmt.Errorf("opening links is not supported on %s", runtime.GOOS)
	}
}

// OpenURL starts the URL handler without waiting for it.
func OpenURL(url string) error {
	cmd, err := URLCommand(url)
	if err != nil {
		return err
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("open %s: %w", url, err)
	}
	go cmd.Wait() //nolint:errcheck
	return nil
}

// ParseCommandLine splits a command line into arguments, honouring single
// quotes, double quotes and backslash escapes.
func ParseCommandLine(input string) ([]string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, nil
	}

	var args []string
	var current strings.Builder
	inSingle, inDouble := false, false

	flush := func() {
		if current.Len() == 0 {
			return
		}
		args = append(args, current.String())
		current.Reset()
	}

	for i := 0; i < len(input); i++ {
		ch := input[i]
		switch {
		case inSingle:
			if ch == '\'' {
				inSingle = false
			} else {
				current.WriteByte(ch)
			}
		case inDouble:
			switch ch {
			case '"':
				inDouble = false
			case '\\':
				if i+1 >= len(input) {
					return nil, errors.New("unterminated escape")
				}
				// Only \" and \\ are escapes inside double quotes.
				if next := input[i+1]; next == '"' || next == '\\' {
					current.WriteByte(next)
					i++
				} else {
					current.WriteByte('\\')
				}
			default:
				current.WriteByte(ch)
			}
		default:
			switch ch {
			case ' ', '\t', '\n', '\r':
				flush()
			case '\'':
				inSingle = true
			case '"':
				inDouble = true
			case '\\':
				if i+1 >= len(input) {
					return nil, errors.New("unterminated escape")
				}
				i++
				current.WriteByte(input[i])
			default:
				current.WriteByte(ch)
			}
		}
	}

	if inSingle {
		return nil, errors.New("unterminated single quote")
	}
	if inDouble {
		return nil, errors.New("unterminated double quote")
	}
	flush()
	return args, nil
}
