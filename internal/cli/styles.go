package cli

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	PrimaryColor = lipgloss.Color("#4ECDC4")
	WarningColor = lipgloss.Color("#FFE66D")
	ErrorColor   = lipgloss.Color("#FF6B6B")
	SubtleColor  = lipgloss.Color("#666666")

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor)

	WarningStyle = lipgloss.NewStyle().
			Foreground(WarningColor)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor)

	SubtleStyle = lipgloss.NewStyle().
			Foreground(SubtleColor)
)

// FormatTitle formats a section title.
func FormatTitle(s string) string {
	return TitleStyle.Render(s)
}

// FormatSuccess formats a success message.
func FormatSuccess(s string) string {
	return SuccessStyle.Render(s)
}

// FormatWarning formats a warning message.
func FormatWarning(s string) string {
	return WarningStyle.Render(s)
}

// FormatError formats an error message.
func FormatError(s string) string {
	return ErrorStyle.Render(s)
}
