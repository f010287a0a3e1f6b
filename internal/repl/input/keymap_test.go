package input

import (
	"testing"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

func TestActionKindString(t *testing.T) {
	tests := []struct {
		kind     ActionKind
		expected string
	}{
		{ActionNone, "None"},
		{ActionInsert, "Insert"},
		{ActionCharacterForward, "CharacterForward"},
		{ActionHistorySearch, "HistorySearch"},
		{ActionAcceptSuggestion, "AcceptSuggestion"},
		{ActionPaste, "Paste"},
		{ActionKind(999), "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.kind.String())
		})
	}
}

func TestDefaultKeyMapLookup(t *testing.T) {
	km := DefaultKeyMap()

	tests := []struct {
		name     string
		msg      tea.KeyMsg
		expected Action
	}{
		{"right arrow", tea.KeyMsg{Type: tea.KeyRight}, Do(ActionCharacterForward)},
		{"ctrl+f", tea.KeyMsg{Type: tea.KeyCtrlF}, Do(ActionCharacterForward)},
		{"ctrl+a", tea.KeyMsg{Type: tea.KeyCtrlA}, Do(ActionLineStart)},
		{"backspace", tea.KeyMsg{Type: tea.KeyBackspace}, Do(ActionDeleteCharacterBackward)},
		{"ctrl+w", tea.KeyMsg{Type: tea.KeyCtrlW}, Do(ActionDeleteWordBackward)},
		{"alt+b", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("b"), Alt: true}, Do(ActionWordBackward)},
		{"up", tea.KeyMsg{Type: tea.KeyUp}, Do(ActionHistoryPrevious)},
		{"ctrl+r", tea.KeyMsg{Type: tea.KeyCtrlR}, Do(ActionHistorySearch)},
		{"tab", tea.KeyMsg{Type: tea.KeyTab}, Do(ActionComplete)},
		{"enter", tea.KeyMsg{Type: tea.KeyEnter}, Do(ActionSubmit)},
		{"esc", tea.KeyMsg{Type: tea.KeyEsc}, Do(ActionCancel)},
		{"ctrl+c", tea.KeyMsg{Type: tea.KeyCtrlC}, Do(ActionInterrupt)},
		{"ctrl+d", tea.KeyMsg{Type: tea.KeyCtrlD}, Do(ActionEOF)},
		{"ctrl+l", tea.KeyMsg{Type: tea.KeyCtrlL}, Do(ActionClearScreen)},
		{"printable rune", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")}, Insert("x")},
		{"multiple runes", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("日本")}, Insert("日本")},
		{"space", tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")}, Insert(" ")},
		{"unbound alt rune", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("z"), Alt: true}, Do(ActionNone)},
		{"unbound control key", tea.KeyMsg{Type: tea.KeyCtrlG}, Do(ActionNone)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, km.Lookup(tt.msg))
		})
	}
}

func TestKeyMapHelp(t *testing.T) {
	km := DefaultKeyMap()

	columns := km.FullHelp()
	assert.Len(t, columns, 3)
	assert.Len(t, columns[0], 6)
	assert.Len(t, columns[1], 6)

	h := help.New()
	h.ShowAll = true
	view := h.View(km)
	assert.Contains(t, view, "ctrl+r")
	assert.Contains(t, view, "search history")

	assert.Len(t, km.ShortHelp(), 4)
}

func TestKeyMapBindingsIsCopy(t *testing.T) {
	km := DefaultKeyMap()
	bindings := km.Bindings()
	bindings[0].Kind = ActionPaste

	assert.Equal(t, Do(ActionCharacterForward), km.Lookup(tea.KeyMsg{Type: tea.KeyRight}))
}
