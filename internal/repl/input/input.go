// Package input provides the line editor of the ghostsh REPL: a rune buffer,
// key bindings, inline suggestions, tab completion, history navigation and
// search, and syntax highlighting, wrapped in a Bubble Tea component.
package input

import (
	"context"
	"fmt"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

// ResultType indicates the type of result from the input component.
type ResultType int

const (
	// ResultNone indicates no result yet (still editing).
	ResultNone ResultType = iota
	// ResultSubmit indicates the user submitted the input (Enter).
	ResultSubmit
	// ResultInterrupt indicates the user discarded the line (Ctrl+C).
	ResultInterrupt
	// ResultEOF indicates end of input (Ctrl+D on empty line).
	ResultEOF
)

// Result contains the outcome of an input session.
type Result struct {
	Type ResultType
	// Value is the submitted text, or the discarded text on interrupt.
	Value string
}

// Model is the Bubble Tea model for one line of input. The Editor holds all
// editing state; the model maps key messages onto it and draws it.
type Model struct {
	editor   *Editor
	keymap   *KeyMap
	renderer *Renderer
	prompt   string
	result   Result
	logger   *zap.Logger
}

// Config holds configuration for creating a new Model.
type Config struct {
	Prompt string

	// Editor is required. It is reset when the model is created.
	Editor *Editor

	// KeyMap provides key bindings. If nil, DefaultKeyMap is used.
	KeyMap *KeyMap

	// Highlighter colors the buffer. If nil, text is rendered plain.
	Highlighter *Highlighter

	// RenderConfig provides styling. If nil, DefaultRenderConfig is used.
	RenderConfig *RenderConfig

	// Width is the initial terminal width.
	Width int

	Logger *zap.Logger
}

// New creates a new input Model with the given configuration.
func New(cfg Config) Model {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	keymap := cfg.KeyMap
	if keymap == nil {
		keymap = DefaultKeyMap()
	}

	renderConfig := DefaultRenderConfig()
	if cfg.RenderConfig != nil {
		renderConfig = *cfg.RenderConfig
	}

	editor := cfg.Editor
	if editor == nil {
		editor = NewEditor(EditorConfig{Logger: logger})
	}
	editor.Reset()

	renderer := NewRenderer(renderConfig, cfg.Highlighter)
	renderer.SetWidth(cfg.Width)

	return Model{
		editor:   editor,
		keymap:   keymap,
		renderer: renderer,
		prompt:   cfg.Prompt,
		result:   Result{Type: ResultNone},
		logger:   logger,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.result.Type != ResultNone {
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.renderer.SetWidth(msg.Width)
		return m, nil

	case tea.KeyMsg:
		action := m.keymap.Lookup(msg)
		if action.Kind == ActionNone {
			return m, nil
		}
		return m.apply(action)

	case pasteMsg:
		return m.apply(Insert(string(msg)))
	}

	return m, nil
}

func (m Model) apply(action Action) (tea.Model, tea.Cmd) {
	outcome := m.editor.Apply(action)

	switch outcome.Kind {
	case OutcomeSubmit:
		m.result = Result{Type: ResultSubmit, Value: outcome.Line}
		return m, tea.Quit
	case OutcomeCancel:
		m.result = Result{Type: ResultInterrupt, Value: outcome.Line}
		return m, tea.Quit
	case OutcomeEOF:
		m.result = Result{Type: ResultEOF}
		return m, tea.Quit
	case OutcomeClearScreen:
		return m, tea.ClearScreen
	case OutcomePaste:
		return m, Paste
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	switch m.result.Type {
	case ResultSubmit:
		return m.renderer.RenderFinal(m.prompt, m.result.Value, "")
	case ResultInterrupt:
		return m.renderer.RenderFinal(m.prompt, m.result.Value, "^C")
	case ResultEOF:
		return m.renderer.RenderFinal(m.prompt, "", "")
	}

	if search := m.editor.Search(); search.IsActive() {
		return m.renderer.RenderSearch(search)
	}

	return m.renderer.RenderLine(m.prompt, m.editor.Text(), m.editor.Cursor(), m.editor.Ghost(), true)
}

// Result returns the current result. Check Type != ResultNone to see if complete.
func (m Model) Result() Result {
	return m.result
}

// Value returns the current input text.
func (m Model) Value() string {
	return m.editor.Text()
}

// pasteMsg is sent when paste content is available.
type pasteMsg string

// Paste returns a command that reads from the clipboard.
func Paste() tea.Msg {
	str, err := clipboard.ReadAll()
	if err != nil {
		return nil
	}
	return pasteMsg(str)
}

// ReadLine runs a Bubble Tea program for one line of input and returns how it
// ended.
func ReadLine(ctx context.Context, cfg Config, opts ...tea.ProgramOption) (Result, error) {
	opts = append([]tea.ProgramOption{tea.WithContext(ctx)}, opts...)
	p := tea.NewProgram(New(cfg), opts...)

	final, err := p.Run()
	if err != nil {
		return Result{}, fmt.Errorf("input program: %w", err)
	}

	model, ok := final.(Model)
	if !ok {
		return Result{}, fmt.Errorf("unexpected model type %T", final)
	}
	return model.Result(), nil
}
