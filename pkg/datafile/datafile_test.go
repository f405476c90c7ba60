package datafile_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vanderheijden86/mind/pkg/datafile"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"groceries", "groceries"},
		{"  padded  ", "padded"},
		{"two words", "two-words"},
		{"a.b/c\\d", "a-b-c-d"},
		{"keep_me-too", "keep_me-too"},
		{"émoji 🎉 drop!", "moji--drop"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := datafile.Sanitize(tt.in); got != tt.want {
			t.Errorf("Sanitize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCreate(t *testing.T) {
	root := filepath.Join(t.TempDir(), "data")
	clock := func() time.Time { return time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC) }
	store := datafile.New(root, datafile.WithClock(clock))

	path, err := store.Create("My notes.v2", ".md", []byte("# hello\n"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if want := filepath.Join(root, "20260304050607-My-notes-v2.md"); path != want {
		t.Errorf("path = %q, want %q", path, want)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "# hello\n" {
		t.Errorf("contents = %q", got)
	}

	// Same name within the same second must not clobber the first file.
	if _, err := store.Create("My notes.v2", ".md", nil); err == nil {
		t.Error("expected an error when the file already exists")
	}
}

func TestCreateWithUnprintableName(t *testing.T) {
	clock := func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	store := datafile.New(t.TempDir(), datafile.WithClock(clock))
	path, err := store.Create("🎉", ".txt", nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := filepath.Base(path); got != "20260102030405.txt" {
		t.Errorf("base = %q", got)
	}
}
