package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/SoiletsAce/ContentSync/internal/config"
)

// Catppuccin Mocha palette, mutable so config can override.
var (
	ColorGreen  = lipgloss.Color("#a6e3a1")
	ColorYellow = lipgloss.Color("#f9e2af")
	ColorRed    = lipgloss.Color("#f38ba8")
	ColorBlue   = lipgloss.Color("#89b4fa")
	ColorMuted  = lipgloss.Color("#5a6278")
	ColorBright = lipgloss.Color("#cdd6f4")
)

var (
	styleOK        lipgloss.Style
	styleFailed    lipgloss.Style
	styleWarn      lipgloss.Style
	styleLang      lipgloss.Style
	styleDir       lipgloss.Style
	styleDetail    lipgloss.Style
	styleSparkline lipgloss.Style
	styleBar       lipgloss.Style
)

func init() {
	rebuildStyles()
}

func rebuildStyles() {
	styleOK = lipgloss.NewStyle().Foreground(ColorGreen)
	styleFailed = lipgloss.NewStyle().Foreground(ColorRed).Bold(true)
	styleWarn = lipgloss.NewStyle().Foreground(ColorYellow)
	styleLang = lipgloss.NewStyle().Foreground(ColorBright).Bold(true)
	styleDir = lipgloss.NewStyle().Foreground(ColorMuted)
	styleDetail = lipgloss.NewStyle().Foreground(ColorMuted)
	styleSparkline = lipgloss.NewStyle().Foreground(ColorBlue)
	styleBar = lipgloss.NewStyle().Foreground(ColorGreen)
}

// ApplyTheme overrides colors from a config ThemeConfig and rebuilds all styles.
func ApplyTheme(tc config.ThemeConfig) {
	for _, o := range []struct {
		dst *lipgloss.Color
		src *string
	}{
		{&ColorGreen, tc.Green},
		{&ColorYellow, tc.Yellow},
		{&ColorRed, tc.Red},
		{&ColorBlue, tc.Blue},
		{&ColorMuted, tc.Muted},
		{&ColorBright, tc.Bright},
	} {
		if o.src != nil {
			*o.dst = lipgloss.Color(*o.src)
		}
	}
	rebuildStyles()
}

// Status icons.
const (
	iconOK     = "\u2713"
	iconFailed = "\u2717"
	iconWarn   = "\u26a0"
	iconSame   = "="
	iconArrow  = "\u2192"
	iconBackup = "\u25a3"
)
