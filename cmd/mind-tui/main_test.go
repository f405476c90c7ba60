package main

import (
	"reflect"
	"testing"
)

func TestTUIArgs(t *testing.T) {
	tests := []struct {
		name      string
		path      string
		cwd       bool
		local     bool
		noWatch   bool
		logFile   string
		verbosity int
		want      []string
	}{
		{name: "main tree", want: []string{"tui"}},
		{name: "file", path: "t.json", want: []string{"tui", "--path", "t.json"}},
		{name: "path wins over local", path: "t.json", local: true, want: []string{"tui", "--path", "t.json"}},
		{name: "local", local: true, cwd: true, want: []string{"tui", "--local"}},
		{name: "cwd", cwd: true, want: []string{"tui", "--cwd"}},
		{
			name: "logging", noWatch: true, logFile: "mind.log", verbosity: 3,
			want: []string{"tui", "--no-watch", "--log-file", "mind.log", "--verbose=3"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tuiArgs(tt.path, tt.cwd, tt.local, tt.noWatch, tt.logFile, tt.verbosity)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("tuiArgs = %q, want %q", got, tt.want)
			}
		})
	}
}
