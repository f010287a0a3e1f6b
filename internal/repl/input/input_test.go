package input

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sendKeys(m Model, msgs ...tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	var next tea.Model = m
	for _, msg := range msgs {
		next, cmd = next.(Model).Update(msg)
	}
	return next.(Model), cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNew(t *testing.T) {
	m := New(Config{Prompt: "> ", Width: 120})

	assert.NotNil(t, m.editor)
	assert.NotNil(t, m.keymap)
	assert.Equal(t, 120, m.renderer.Width())
	assert.Equal(t, ResultNone, m.Result().Type)
}

func TestNewResetsEditor(t *testing.T) {
	editor := NewEditor(EditorConfig{})
	editor.SetText("left over")

	m := New(Config{Editor: editor})
	assert.Equal(t, "", m.Value())
	assert.Equal(t, StateIdle, editor.State())
}

func TestModelSubmit(t *testing.T) {
	m := New(Config{Prompt: "> "})
	m, _ = sendKeys(m, runes("l"), runes("s"))
	assert.Equal(t, "ls", m.Value())

	m, cmd := sendKeys(m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
	assert.Equal(t, Result{Type: ResultSubmit, Value: "ls"}, m.Result())
	assert.Equal(t, "> ls", ansi.Strip(m.View()))
}

func TestModelInterrupt(t *testing.T) {
	m := New(Config{Prompt: "> "})
	m, cmd := sendKeys(m, runes("sleep"), tea.KeyMsg{Type: tea.KeyCtrlC})

	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
	assert.Equal(t, Result{Type: ResultInterrupt, Value: "sleep"}, m.Result())
	assert.Equal(t, "> sleep^C", ansi.Strip(m.View()))
}

func TestModelEOF(t *testing.T) {
	m := New(Config{})

	m, cmd := sendKeys(m, runes("x"), tea.KeyMsg{Type: tea.KeyCtrlD})
	assert.Nil(t, cmd, "ctrl+d is ignored on a non-empty line")
	assert.Equal(t, ResultNone, m.Result().Type)

	m, cmd = sendKeys(m, tea.KeyMsg{Type: tea.KeyBackspace}, tea.KeyMsg{Type: tea.KeyCtrlD})
	require.NotNil(t, cmd)
	assert.Equal(t, ResultEOF, m.Result().Type)
}

func TestModelIgnoresInputAfterResult(t *testing.T) {
	m := New(Config{})
	m, _ = sendKeys(m, runes("ls"), tea.KeyMsg{Type: tea.KeyEnter})
	m, cmd := sendKeys(m, runes("x"))

	assert.Nil(t, cmd)
	assert.Equal(t, "ls", m.Result().Value)
}

func TestModelClearScreenAndPaste(t *testing.T) {
	m := New(Config{})

	_, cmd := sendKeys(m, tea.KeyMsg{Type: tea.KeyCtrlL})
	assert.NotNil(t, cmd)

	_, cmd = sendKeys(m, tea.KeyMsg{Type: tea.KeyCtrlV})
	assert.NotNil(t, cmd)

	m, _ = sendKeys(m, pasteMsg("echo a\nb"))
	assert.Equal(t, "echo a b", m.Value())
}

func TestModelWindowSize(t *testing.T) {
	m := New(Config{})
	m, _ = sendKeys(m, tea.WindowSizeMsg{Width: 42, Height: 10})
	assert.Equal(t, 42, m.renderer.Width())
}

func TestModelViewShowsGhost(t *testing.T) {
	history := fakeHistory{"git commit -m fix"}
	editor := newTestEditor(history, nil)
	m := New(Config{Prompt: "> ", Editor: editor})

	m, _ = sendKeys(m, runes("g"), runes("i"))
	assert.Equal(t, "> git commit -m fix", ansi.Strip(m.View()))

	m, _ = sendKeys(m, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, "git commit -m fix", m.Value())
}

func TestModelViewSearch(t *testing.T) {
	editor := newTestEditor(fakeHistory{"make test"}, nil)
	m := New(Config{Prompt: "> ", Editor: editor})

	m, _ = sendKeys(m, tea.KeyMsg{Type: tea.KeyCtrlR}, runes("mk"))
	assert.Equal(t, "(reverse-i-search)`mk': make test", ansi.Strip(m.View()))
}
