// Package datafile creates the files that back file-data nodes.
//
// Files live flat in one directory and are named after the node plus a
// creation timestamp, e.g. 20261019153000-groceries-list.md.
package datafile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const timestampLayout = "20060102150405"

// Store creates data files under a root directory.
type Store struct {
	root string
	now  func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the clock used for file name timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// New returns a store rooted at root. The directory is created lazily.
func New(root string, opts ...Option) *Store {
	s := &Store{root: root, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Root returns the store directory.
func (s *Store) Root() string { return s.root }

// Create writes contents to a new file named after name and returns its
// path. ext is appended as-is, so pass it with its leading dot.
func (s *Store) Create(name, ext string, contents []byte) (string, error) {
	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return "", fmt.Errorf("creating data dir: %w", err)
	}

	base := s.now().Format(timestampLayout)
	if sanitized := Sanitize(name); sanitized != "" {
		base += "-" + sanitized
	}
	path := filepath.Join(s.root, base+ext)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("creating data file: %w", err)
	}
	if _, err := f.Write(contents); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("writing data file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("writing data file: %w", err)
	}
	return path, nil
}

// Sanitize turns a node name into a file name fragment: separators and
// whitespace become dashes, ASCII letters, digits, '-' and '_' are kept and
// everything else is dropped.
func Sanitize(name string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(name) {
		switch {
		case r == ' ' || r == '.' || r == '/' || r == '\\':
			b.WriteByte('-')
		case r == '-' || r == '_',
			r >= 'a' && r <= 'z',
			r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9':
			b.WriteRune(r)
		}
	}
	return b.String()
}
