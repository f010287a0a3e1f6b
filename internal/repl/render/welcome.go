package render

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// WelcomeInfo contains information to display in the welcome screen.
type WelcomeInfo struct {
	// Version is the ghostsh version string
	Version string
	// HistoryEntries is how many history entries were loaded at startup
	HistoryEntries int
	// Executor names how command lines are run ("sh" or "bash")
	Executor string
}

// tips is the list of tips to display in the welcome screen.
// A "tip of the day" is selected based on the current date.
var tips = []string{
	// Suggestions and completion
	"press Right to accept the gray suggestion",
	"press Tab to complete commands, directories and files",
	"Tab accepts the suggestion when there is nothing to complete",
	"press Esc to dismiss a suggestion",

	// History
	"press Up/Down to navigate command history",
	"press Ctrl+R to search history",
	"!! repeats the last command, !$ reuses its last argument",
	"!git runs the newest command starting with git",
	"!?status? runs the newest command containing status",
	"type history to list numbered entries, then !n to rerun one",
	"type journal to see recent exit codes and durations",

	// Editing
	"press Ctrl+A to jump to start of line",
	"press Ctrl+E to jump to end of line",
	"press Ctrl+W to delete the previous word",
	"type keys to list every key binding",

	// Navigation
	"z <name> jumps to a frequently used directory via zoxide",

	// Configuration
	"settings live in ~/.ghostsh/config.yaml",
	"set log_level: debug in config.yaml for troubleshooting",

	// General tips
	"press Ctrl+D on an empty line to exit",
}

// ASCII art logo for ghostsh - compact version that fits well in terminals
var ghostLogo = []string{
	"   .-.   ",
	"  (o o)  ",
	"  | O |  ",
	"  |   |  ",
	"  '~~~'  ",
}

// getTipOfTheDay returns a tip based on the given date.
// The same tip is shown for the entire day, changing at midnight.
func getTipOfTheDay(now time.Time) string {
	if len(tips) == 0 {
		return ""
	}
	return tips[now.YearDay()%len(tips)]
}

// RenderWelcome renders the welcome screen to the given writer.
// The welcome screen displays the logo on the left and session info on the right.
func RenderWelcome(w io.Writer, info WelcomeInfo, termWidth int) {
	titleStyle := lipgloss.NewStyle().Foreground(ColorCyan).Bold(true)
	logoStyle := lipgloss.NewStyle().Foreground(ColorCyan)
	labelStyle := lipgloss.NewStyle().Foreground(ColorGray)
	valueStyle := lipgloss.NewStyle().Foreground(ColorCyan)
	dimStyle := lipgloss.NewStyle().Foreground(ColorGray).Italic(true)

	logoWidth := lipgloss.Width(ghostLogo[0])
	minGap := 4
	maxInfoWidth := 40

	var infoLines []string
	infoLines = append(infoLines, titleStyle.Render("ghostsh"))
	infoLines = append(infoLines, "")

	if info.Version == "" || info.Version == "dev" {
		infoLines = append(infoLines, labelStyle.Render("version:  ")+dimStyle.Render("development"))
	} else {
		infoLines = append(infoLines, labelStyle.Render("version:  ")+valueStyle.Render(info.Version))
	}

	infoLines = append(infoLines, labelStyle.Render("history:  ")+valueStyle.Render(fmt.Sprintf("%d entries", info.HistoryEntries)))

	if info.Executor != "" {
		infoLines = append(infoLines, labelStyle.Render("executor: ")+valueStyle.Render(info.Executor))
	}

	numLines := max(len(ghostLogo), len(infoLines))
	infoWidth := min(termWidth-logoWidth-minGap, maxInfoWidth)
	tip := getTipOfTheDay(time.Now())

	if infoWidth < 20 {
		// Terminal too narrow, just show info without logo
		for _, line := range infoLines {
			fmt.Fprintln(w, line)
		}
		fmt.Fprintln(w)
		if tip != "" {
			fmt.Fprintln(w, dimStyle.Render("tip: "+tip))
		}
		fmt.Fprintln(w)
		return
	}

	var output strings.Builder
	output.WriteString("\n")

	gap := strings.Repeat(" ", minGap)
	for i := 0; i < numLines; i++ {
		logoLine := strings.Repeat(" ", logoWidth)
		if i < len(ghostLogo) {
			logoLine = logoStyle.Render(ghostLogo[i])
		}

		var infoLine string
		if i < len(infoLines) {
			infoLine = infoLines[i]
		}

		output.WriteString(logoLine + gap + infoLine + "\n")
	}

	output.WriteString("\n")
	if tip != "" {
		output.WriteString(dimStyle.Render("tip: "+tip) + "\n")
	}
	output.WriteString("\n")

	fmt.Fprint(w, output.String())
}
