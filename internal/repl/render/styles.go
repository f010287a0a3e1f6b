// Package render provides the styled pieces of ghostsh's terminal output:
// colors, the default prompt and the welcome banner.
package render

import (
	"github.com/charmbracelet/lipgloss"
)

// ANSI palette colors.
const (
	ColorBlue    = lipgloss.Color("12")
	ColorYellow  = lipgloss.Color("11")
	ColorGreen   = lipgloss.Color("10")
	ColorRed     = lipgloss.Color("9")
	ColorMagenta = lipgloss.Color("13")
	ColorCyan    = lipgloss.Color("14")
	ColorGray    = lipgloss.Color("8")
)

const (
	SymbolSuccess = "✓"
	SymbolError   = "✗"
)

var (
	// PromptDirStyle is used for the directory name in the default prompt
	PromptDirStyle = lipgloss.NewStyle().Foreground(ColorBlue).Bold(true)

	// PromptArrowStyle is used for the prompt arrow
	PromptArrowStyle = lipgloss.NewStyle().Foreground(ColorGreen)

	// PromptArrowErrorStyle colors the arrow after a failed command
	PromptArrowErrorStyle = lipgloss.NewStyle().Foreground(ColorRed)

	// GhostStyle renders the inline suggestion
	GhostStyle = lipgloss.NewStyle().Foreground(ColorGray)

	// SearchStyle is used for the reverse search label
	SearchStyle = lipgloss.NewStyle().Foreground(ColorYellow)

	SuccessStyle = lipgloss.NewStyle().Foreground(ColorGreen)
	ErrorStyle   = lipgloss.NewStyle().Foreground(ColorRed)

	// DimStyle is used for secondary information like timing
	DimStyle = lipgloss.NewStyle().Foreground(ColorGray)
)

// StyledSymbol returns a symbol with appropriate styling applied
func StyledSymbol(symbol string) string {
	switch symbol {
	case SymbolSuccess:
		return SuccessStyle.Render(symbol)
	case SymbolError:
		return ErrorStyle.Render(symbol)
	default:
		return symbol
	}
}
