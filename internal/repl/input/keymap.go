package input

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// ActionKind identifies an editing action.
type ActionKind int

const (
	// ActionNone is returned when a key doesn't map to anything.
	ActionNone ActionKind = iota

	// ActionInsert inserts Action.Text at the cursor.
	ActionInsert

	// Navigation
	ActionCharacterForward  // Right, Ctrl+F; accepts the suggestion when there is one
	ActionCharacterBackward // Left, Ctrl+B
	ActionWordForward       // Alt+F, Alt+Right
	ActionWordBackward      // Alt+B, Alt+Left
	ActionLineStart         // Home, Ctrl+A
	ActionLineEnd           // End, Ctrl+E

	// Deletion
	ActionDeleteCharacterBackward // Backspace, Ctrl+H
	ActionDeleteCharacterForward  // Delete
	ActionDeleteWordBackward      // Ctrl+W, Alt+Backspace
	ActionDeleteWordForward       // Alt+D
	ActionDeleteBeforeCursor      // Ctrl+U
	ActionDeleteAfterCursor       // Ctrl+K

	// History
	ActionHistoryPrevious // Up, Ctrl+P
	ActionHistoryNext     // Down, Ctrl+N
	ActionHistorySearch   // Ctrl+R

	ActionComplete         // Tab
	ActionAcceptSuggestion // unbound by default; Right covers it

	ActionSubmit      // Enter
	ActionCancel      // Esc
	ActionInterrupt   // Ctrl+C
	ActionEOF         // Ctrl+D
	ActionClearScreen // Ctrl+L
	ActionPaste       // Ctrl+V
)

var actionNames = map[ActionKind]string{
	ActionNone:                    "None",
	ActionInsert:                  "Insert",
	ActionCharacterForward:        "CharacterForward",
	ActionCharacterBackward:       "CharacterBackward",
	ActionWordForward:             "WordForward",
	ActionWordBackward:            "WordBackward",
	ActionLineStart:               "LineStart",
	ActionLineEnd:                 "LineEnd",
	ActionDeleteCharacterBackward: "DeleteCharacterBackward",
	ActionDeleteCharacterForward:  "DeleteCharacterForward",
	ActionDeleteWordBackward:      "DeleteWordBackward",
	ActionDeleteWordForward:       "DeleteWordForward",
	ActionDeleteBeforeCursor:      "DeleteBeforeCursor",
	ActionDeleteAfterCursor:       "DeleteAfterCursor",
	ActionHistoryPrevious:         "HistoryPrevious",
	ActionHistoryNext:             "HistoryNext",
	ActionHistorySearch:           "HistorySearch",
	ActionComplete:                "Complete",
	ActionAcceptSuggestion:        "AcceptSuggestion",
	ActionSubmit:                  "Submit",
	ActionCancel:                  "Cancel",
	ActionInterrupt:               "Interrupt",
	ActionEOF:                     "EOF",
	ActionClearScreen:             "ClearScreen",
	ActionPaste:                   "Paste",
}

func (k ActionKind) String() string {
	if name, ok := actionNames[k]; ok {
		return name
	}
	return "Unknown"
}

// Action is a single editing request. Text is only meaningful for
// ActionInsert.
type Action struct {
	Kind ActionKind
	Text string
}

// Insert returns an action that inserts text at the cursor.
func Insert(text string) Action {
	return Action{Kind: ActionInsert, Text: text}
}

// Do returns an action of the given kind with no payload.
func Do(kind ActionKind) Action {
	return Action{Kind: kind}
}

// Binding ties a bubbles key binding to the action it triggers.
type Binding struct {
	Kind ActionKind
	key.Binding
}

// KeyMap maps key presses to actions. Keys that match no binding and carry
// printable runes become ActionInsert.
type KeyMap struct {
	bindings []Binding
	lookup   map[string]ActionKind
}

// NewKeyMap creates a KeyMap from bindings. When two bindings claim the same
// key, the later one wins.
func NewKeyMap(bindings []Binding) *KeyMap {
	km := &KeyMap{bindings: bindings}
	km.rebuildLookup()
	return km
}

func (km *KeyMap) rebuildLookup() {
	km.lookup = make(map[string]ActionKind)
	for _, b := range km.bindings {
		if !b.Enabled() {
			continue
		}
		for _, k := range b.Keys() {
			km.lookup[k] = b.Kind
		}
	}
}

func bind(kind ActionKind, helpKey, helpDesc string, keys ...string) Binding {
	return Binding{
		Kind:    kind,
		Binding: key.NewBinding(key.WithKeys(keys...), key.WithHelp(helpKey, helpDesc)),
	}
}

// DefaultKeyMap returns the default Emacs-style bindings.
func DefaultKeyMap() *KeyMap {
	return NewKeyMap([]Binding{
		bind(ActionCharacterForward, "→/ctrl+f", "forward a character or accept suggestion", "right", "ctrl+f"),
		bind(ActionCharacterBackward, "←/ctrl+b", "back a character", "left", "ctrl+b"),
		bind(ActionWordForward, "alt+f", "forward a word", "alt+right", "ctrl+right", "alt+f"),
		bind(ActionWordBackward, "alt+b", "back a word", "alt+left", "ctrl+left", "alt+b"),
		bind(ActionLineStart, "ctrl+a", "start of line", "home", "ctrl+a"),
		bind(ActionLineEnd, "ctrl+e", "end of line", "end", "ctrl+e"),

		bind(ActionDeleteCharacterBackward, "backspace", "delete previous character", "backspace", "ctrl+h"),
		bind(ActionDeleteCharacterForward, "delete", "delete next character", "delete"),
		bind(ActionDeleteWordBackward, "ctrl+w", "delete previous word", "ctrl+w", "alt+backspace"),
		bind(ActionDeleteWordForward, "alt+d", "delete next word", "alt+d", "alt+delete"),
		bind(ActionDeleteBeforeCursor, "ctrl+u", "delete to start of line", "ctrl+u"),
		bind(ActionDeleteAfterCursor, "ctrl+k", "delete to end of line", "ctrl+k"),

		bind(ActionHistoryPrevious, "↑/ctrl+p", "previous history entry", "up", "ctrl+p"),
		bind(ActionHistoryNext, "↓/ctrl+n", "next history entry", "down", "ctrl+n"),
		bind(ActionHistorySearch, "ctrl+r", "search history", "ctrl+r"),

		bind(ActionComplete, "tab", "complete word", "tab"),

		bind(ActionSubmit, "enter", "run the line", "enter"),
		bind(ActionCancel, "esc", "dismiss suggestion", "esc"),
		bind(ActionInterrupt, "ctrl+c", "discard the line", "ctrl+c"),
		bind(ActionEOF, "ctrl+d", "exit on an empty line", "ctrl+d"),
		bind(ActionClearScreen, "ctrl+l", "clear the screen", "ctrl+l"),
		bind(ActionPaste, "ctrl+v", "paste from clipboard", "ctrl+v"),
	})
}

// Lookup finds the action for the given key message.
func (km *KeyMap) Lookup(msg tea.KeyMsg) Action {
	if kind, ok := km.lookup[msg.String()]; ok {
		return Do(kind)
	}

	switch msg.Type {
	case tea.KeyRunes:
		if msg.Alt {
			return Do(ActionNone)
		}
		return Insert(string(msg.Runes))
	case tea.KeySpace:
		return Insert(" ")
	}
	return Do(ActionNone)
}

// Bindings returns a copy of all bindings in the keymap.
func (km *KeyMap) Bindings() []Binding {
	result := make([]Binding, len(km.bindings))
	copy(result, km.bindings)
	return result
}

// ShortHelp implements help.KeyMap.
func (km *KeyMap) ShortHelp() []key.Binding {
	var short []key.Binding
	for _, b := range km.bindings {
		switch b.Kind {
		case ActionCharacterForward, ActionComplete, ActionHistorySearch, ActionEOF:
			short = append(short, b.Binding)
		}
	}
	return short
}

// FullHelp implements help.KeyMap, grouping bindings into columns for
// movement, deletion and everything else.
func (km *KeyMap) FullHelp() [][]key.Binding {
	var movement, deletion, other []key.Binding
	for _, b := range km.bindings {
		switch {
		case b.Kind >= ActionCharacterForward && b.Kind <= ActionLineEnd:
			movement = append(movement, b.Binding)
		case b.Kind >= ActionDeleteCharacterBackward && b.Kind <= ActionDeleteAfterCursor:
			deletion = append(deletion, b.Binding)
		default:
			other = append(other, b.Binding)
		}
	}
	return [][]key.Binding{movement, deletion, other}
}
