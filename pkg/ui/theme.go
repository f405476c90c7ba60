package ui

import (
	"os"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/lipgloss"
)

// TermProfile holds the detected terminal color profile. Computed once at
// package init so every style helper can branch without re-detecting.
var TermProfile colorprofile.Profile

func init() {
	TermProfile = colorprofile.Detect(os.Stdout, os.Environ())
}

// ThemeBg returns the given hex color for TrueColor terminals and
// lipgloss.NoColor{} otherwise, so 16/256-color terminals keep their own
// background.
func ThemeBg(hex string) lipgloss.TerminalColor {
	if TermProfile < colorprofile.TrueColor {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(hex)
}

// ThemeFg returns the given hex color for ANSI256+ terminals and a safe
// ANSI white (color 7) for 16-color or lower terminals.
func ThemeFg(hex string) lipgloss.TerminalColor {
	if TermProfile < colorprofile.ANSI256 {
		return lipgloss.ANSIColor(7)
	}
	return lipgloss.Color(hex)
}

type Theme struct {
	Renderer *lipgloss.Renderer

	// Colors
	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Subtext   lipgloss.AdaptiveColor

	// Data badges
	File lipgloss.AdaptiveColor
	Link lipgloss.AdaptiveColor

	// UI Elements
	Border    lipgloss.AdaptiveColor
	Highlight lipgloss.AdaptiveColor
	Muted     lipgloss.AdaptiveColor

	// Styles
	Base     lipgloss.Style
	Selected lipgloss.Style
	Header   lipgloss.Style

	// Pre-computed row styles, created once instead of per frame.
	MutedText  lipgloss.Style // branches, position indicator
	NameText   lipgloss.Style
	NameBold   lipgloss.Style // selected row name
	IconText   lipgloss.Style
	FileBadge  lipgloss.Style
	LinkBadge  lipgloss.Style
	MarkedText lipgloss.Style
	Prompt     lipgloss.Style

	// Sticky message levels
	InfoMsg  lipgloss.Style
	WarnMsg  lipgloss.Style
	ErrorMsg lipgloss.Style
}

// DefaultTheme returns the standard Dracula-inspired theme (adaptive)
func DefaultTheme(r *lipgloss.Renderer) Theme {
	t := Theme{
		Renderer: r,

		Primary:   ColorPrimary,
		Secondary: ColorSecondary,
		Subtext:   ColorSubtext,

		File: ColorInfo,
		Link: ColorSuccess,

		Border:    lipgloss.AdaptiveColor{Light: "#AAAAAA", Dark: "#44475A"},
		Highlight: lipgloss.AdaptiveColor{Light: "#E0E0E0", Dark: "#44475A"},
		Muted:     ColorMuted,
	}

	t.Base = r.NewStyle().Foreground(ColorText)

	t.Selected = r.NewStyle().
		Background(t.Highlight).
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(t.Primary).
		Bold(true)

	t.Header = r.NewStyle().
		Background(t.Primary).
		Foreground(lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#282A36"}).
		Bold(true).
		Padding(0, 1)

	t.MutedText = r.NewStyle().Foreground(t.Muted)
	t.NameText = r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#333333", Dark: "#E8E8E8"})
	t.NameBold = r.NewStyle().Foreground(t.Primary).Bold(true)
	t.IconText = r.NewStyle().Foreground(ThemeFg("#FFB86C"))
	t.FileBadge = r.NewStyle().Foreground(t.File)
	t.LinkBadge = r.NewStyle().Foreground(t.Link).Underline(true)
	t.MarkedText = r.NewStyle().Foreground(ColorWarning).Bold(true)
	t.Prompt = r.NewStyle().Foreground(t.Primary).Bold(true)

	t.InfoMsg = r.NewStyle().Foreground(ColorInfo)
	t.WarnMsg = r.NewStyle().Foreground(ColorWarning).Bold(true)
	t.ErrorMsg = r.NewStyle().Foreground(ColorDanger).Bold(true)

	return t
}
