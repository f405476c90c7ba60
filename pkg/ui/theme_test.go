package ui

import (
	"testing"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/lipgloss"
)

func TestDefaultTheme(t *testing.T) {
	renderer := lipgloss.NewRenderer(nil)
	theme := DefaultTheme(renderer)

	if theme.Renderer != renderer {
		t.Error("DefaultTheme renderer mismatch")
	}
	for name, c := range map[string]lipgloss.AdaptiveColor{
		"Primary":   theme.Primary,
		"File":      theme.File,
		"Link":      theme.Link,
		"Highlight": theme.Highlight,
	} {
		if c.Light == "" && c.Dark == "" {
			t.Errorf("DefaultTheme %s color is empty", name)
		}
	}
}

func TestTermProfileDetected(t *testing.T) {
	// TermProfile is set at init(); just verify it's a valid value
	valid := map[colorprofile.Profile]bool{
		colorprofile.Unknown:   true,
		colorprofile.NoTTY:     true,
		colorprofile.ASCII:     true,
		colorprofile.ANSI:      true,
		colorprofile.ANSI256:   true,
		colorprofile.TrueColor: true,
	}
	if !valid[TermProfile] {
		t.Errorf("TermProfile has unexpected value: %d", TermProfile)
	}
}

func TestThemeBg(t *testing.T) {
	tests := []struct {
		profile colorprofile.Profile
		noColor bool
	}{
		{colorprofile.TrueColor, false},
		{colorprofile.ANSI256, true},
		{colorprofile.ANSI, true},
	}
	saved := TermProfile
	defer func() { TermProfile = saved }()

	for _, tt := range tests {
		TermProfile = tt.profile
		_, isNoColor := ThemeBg("#282A36").(lipgloss.NoColor)
		if isNoColor != tt.noColor {
			t.Errorf("profile %v: ThemeBg NoColor = %v, want %v", tt.profile, isNoColor, tt.noColor)
		}
	}
}

func TestThemeFg(t *testing.T) {
	saved := TermProfile
	defer func() { TermProfile = saved }()

	TermProfile = colorprofile.TrueColor
	if _, ok := ThemeFg("#FF6B6B").(lipgloss.ANSIColor); ok {
		t.Error("ThemeFg should return hex color in TrueColor mode, got ANSIColor")
	}

	TermProfile = colorprofile.ANSI
	if got, ok := ThemeFg("#FF6B6B").(lipgloss.ANSIColor); !ok || got != 7 {
		t.Errorf("ThemeFg in ANSI mode = %v, want ANSIColor(7)", got)
	}
}
