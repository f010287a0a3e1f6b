package input

import (
	"fmt"
	"strings"

	"github.com/atinylittleshell/ghostsh/internal/repl/render"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/ansi"
	"github.com/muesli/reflow/truncate"
	"github.com/rivo/uniseg"
)

// RenderConfig holds styling configuration for the input line.
type RenderConfig struct {
	PromptStyle lipgloss.Style
	CursorStyle lipgloss.Style
	GhostStyle  lipgloss.Style
	SearchStyle lipgloss.Style
}

// DefaultRenderConfig returns the default input line styles.
func DefaultRenderConfig() RenderConfig {
	return RenderConfig{
		PromptStyle: lipgloss.NewStyle(),
		CursorStyle: lipgloss.NewStyle().Reverse(true),
		GhostStyle:  render.GhostStyle,
		SearchStyle: render.SearchStyle,
	}
}

// Renderer draws the prompt, the highlighted buffer, the cursor and the
// ghost text.
type Renderer struct {
	config      RenderConfig
	width       int
	highlighter *Highlighter
}

// NewRenderer creates a new Renderer. A nil highlighter renders plain text.
func NewRenderer(config RenderConfig, h *Highlighter) *Renderer {
	return &Renderer{
		config:      config,
		width:       80,
		highlighter: h,
	}
}

// SetWidth sets the terminal width for rendering.
func (r *Renderer) SetWidth(width int) {
	if width > 0 {
		r.width = width
	}
}

func (r *Renderer) Width() int {
	return r.width
}

func (r *Renderer) spans(text string) []StyledSpan {
	if r.highlighter == nil {
		if text == "" {
			return nil
		}
		return []StyledSpan{{Text: text, Style: lipgloss.NewStyle()}}
	}
	return r.highlighter.Spans(text)
}

// RenderLine renders the prompt followed by text with the cursor at pos and
// ghost after the text. The ghost is cut so it never wraps past the current
// terminal row.
func (r *Renderer) RenderLine(prompt, text string, pos int, ghost string, showCursor bool) string {
	var b strings.Builder
	b.WriteString(r.config.PromptStyle.Render(prompt))

	runes := []rune(text)
	pos = max(0, min(pos, len(runes)))

	for _, span := range r.spans(text) {
		spanRunes := []rune(span.Text)
		end := span.Start + len(spanRunes)
		if !showCursor || pos < span.Start || pos >= end {
			b.WriteString(span.Render())
			continue
		}

		i := pos - span.Start
		b.WriteString(renderPart(span, string(spanRunes[:i])))
		b.WriteString(r.config.CursorStyle.Render(string(spanRunes[i])))
		b.WriteString(renderPart(span, string(spanRunes[i+1:])))
	}

	ghost = r.fitGhost(prompt, text, ghost)
	ghostRunes := []rune(ghost)
	cursorAtEnd := showCursor && pos == len(runes)

	switch {
	case cursorAtEnd && len(ghostRunes) > 0:
		b.WriteString(r.config.CursorStyle.Foreground(r.config.GhostStyle.GetForeground()).Render(string(ghostRunes[0])))
		b.WriteString(r.config.GhostStyle.Render(string(ghostRunes[1:])))
	case cursorAtEnd:
		b.WriteString(r.config.CursorStyle.Render(" "))
	case len(ghostRunes) > 0:
		b.WriteString(r.config.GhostStyle.Render(ghost))
	}

	return b.String()
}

func renderPart(span StyledSpan, text string) string {
	if text == "" {
		return ""
	}
	return StyledSpan{Start: span.Start, Text: text, Style: span.Style}.Render()
}

// fitGhost truncates ghost to the columns left on the row the text ends on.
func (r *Renderer) fitGhost(prompt, text, ghost string) string {
	if ghost == "" {
		return ""
	}

	promptLastLine := prompt
	if i := strings.LastIndex(prompt, "\n"); i >= 0 {
		promptLastLine = prompt[i+1:]
	}
	used := (ansi.PrintableRuneWidth(promptLastLine) + uniseg.StringWidth(text)) % r.width
	available := r.width - used - 1
	if available <= 0 {
		return ""
	}
	return truncate.String(ghost, uint(available))
}

// RenderSearch renders the reverse history search line.
func (r *Renderer) RenderSearch(s *HistorySearchState) string {
	label := "(reverse-i-search)"
	if s.Query() != "" && s.MatchCount() == 0 {
		label = "(failing reverse-i-search)"
	}
	header := r.config.SearchStyle.Render(fmt.Sprintf("%s`%s': ", label, s.Query()))
	return r.RenderLine(header, s.CurrentMatch(), 0, "", false)
}

// RenderFinal renders a line that has been submitted or discarded. Only the
// typed text is shown; the cursor and any ghost text are dropped.
func (r *Renderer) RenderFinal(prompt, text, suffix string) string {
	return r.RenderLine(prompt, text, 0, "", false) + suffix
}
