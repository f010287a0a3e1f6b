package render

import (
	"path/filepath"
	"strings"
)

// PromptInfo is the state the default prompt is rendered from.
type PromptInfo struct {
	Cwd          string
	HomeDir      string
	Arrow        string
	LastExitCode int
}

// Prompt renders "<dir> ❱ ", where dir is the base name of the working
// directory ("~" for the home directory itself). The arrow turns red after a
// failed command.
func Prompt(info PromptInfo) string {
	arrow := info.Arrow
	if arrow == "" {
		arrow = "❱"
	}

	arrowStyle := PromptArrowStyle
	if info.LastExitCode != 0 {
		arrowStyle = PromptArrowErrorStyle
	}

	return PromptDirStyle.Render(promptDir(info.Cwd, info.HomeDir)) + " " + arrowStyle.Render(arrow) + " "
}

func promptDir(cwd, home string) string {
	if cwd == "" {
		return "?"
	}
	cleaned := filepath.Clean(cwd)
	if home != "" && cleaned == filepath.Clean(home) {
		return "~"
	}
	base := filepath.Base(cleaned)
	if base == string(filepath.Separator) || strings.TrimSpace(base) == "" {
		return string(filepath.Separator)
	}
	return base
}
