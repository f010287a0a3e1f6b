package input

import (
	"strings"

	"github.com/atinylittleshell/ghostsh/internal/repl/completion"
	"github.com/atinylittleshell/ghostsh/internal/repl/predict"
	"go.uber.org/zap"
)

// State is the lifecycle state of an edit session.
type State int

const (
	StateIdle State = iota
	StateEditing
	StateCommitted
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateEditing:
		return "editing"
	case StateCommitted:
		return "committed"
	case StateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// OutcomeKind tells the caller what an applied action requires of it.
type OutcomeKind int

const (
	// OutcomeNone means the action was handled inside the editor.
	OutcomeNone OutcomeKind = iota
	// OutcomeSubmit carries the committed line.
	OutcomeSubmit
	// OutcomeCancel carries the discarded line.
	OutcomeCancel
	// OutcomeEOF asks the caller to end the session.
	OutcomeEOF
	// OutcomeClearScreen asks the caller to clear the display.
	OutcomeClearScreen
	// OutcomePaste asks the caller to read the clipboard and insert it.
	OutcomePaste
)

// Outcome is the result of applying an action.
type Outcome struct {
	Kind OutcomeKind
	Line string
}

// Completer produces a completion for the token under the cursor.
type Completer interface {
	Complete(line string, cursor int) (completion.Result, bool)
}

// HistoryEntries lists history entries, oldest first.
type HistoryEntries interface {
	Entries() []string
}

// EditorConfig holds the collaborators of an Editor. Every field is optional.
type EditorConfig struct {
	Predictor predict.Predictor
	Completer Completer
	History   HistoryEntries
	Logger    *zap.Logger
}

// Editor is the line editing state machine. It owns the buffer and the
// current suggestion and applies one Action at a time. It never touches the
// terminal.
type Editor struct {
	buffer     *Buffer
	state      State
	suggestion string

	predictor predict.Predictor
	completer Completer
	history   HistoryEntries
	logger    *zap.Logger

	// historyIndex is 0 while editing a fresh line, n while showing the n-th
	// newest entry.
	historyIndex     int
	historyEntries   []string
	savedInput       string
	historySearching *HistorySearchState
}

// NewEditor creates an idle editor.
func NewEditor(cfg EditorConfig) *Editor {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Editor{
		buffer:           NewBuffer(),
		predictor:        cfg.Predictor,
		completer:        cfg.Completer,
		history:          cfg.History,
		logger:           logger,
		historySearching: NewHistorySearchState(),
	}
}

func (e *Editor) State() State {
	return e.state
}

func (e *Editor) Text() string {
	return e.buffer.Text()
}

// Cursor returns the cursor position in runes.
func (e *Editor) Cursor() int {
	return e.buffer.Pos()
}

// Suggestion returns the full suggested line, or "".
func (e *Editor) Suggestion() string {
	return e.suggestion
}

// Ghost returns the part of the suggestion not yet typed.
func (e *Editor) Ghost() string {
	return predict.Remainder(e.buffer.Text(), e.suggestion)
}

// Search returns the history search state. It is active while Ctrl+R search
// is in progress.
func (e *Editor) Search() *HistorySearchState {
	return e.historySearching
}

// Reset returns the editor to Idle with an empty buffer.
func (e *Editor) Reset() {
	e.buffer.Clear()
	e.suggestion = ""
	e.state = StateIdle
	e.resetHistoryNavigation()
	e.historySearching.Reset()
}

// SetText replaces the buffer content as if the user had typed it.
func (e *Editor) SetText(text string) {
	e.begin()
	if e.buffer.SetText(text) {
		e.contentChanged()
	}
}

// Apply applies one action and reports what the caller must do.
func (e *Editor) Apply(action Action) Outcome {
	e.begin()

	if e.historySearching.IsActive() {
		if outcome, handled := e.applySearch(action); handled {
			return outcome
		}
	}

	switch action.Kind {
	case ActionInsert:
		if e.buffer.Insert(sanitizeInput(action.Text)) {
			e.contentChanged()
		}

	case ActionCharacterForward:
		if e.suggestion != "" {
			e.acceptSuggestion()
		} else {
			e.buffer.MoveRight()
		}
	case ActionCharacterBackward:
		e.buffer.MoveLeft()
	case ActionWordForward:
		e.buffer.WordForward()
	case ActionWordBackward:
		e.buffer.WordBackward()
	case ActionLineStart:
		e.buffer.CursorStart()
	case ActionLineEnd:
		e.buffer.CursorEnd()

	case ActionDeleteCharacterBackward:
		e.edit(e.buffer.DeleteCharBackward)
	case ActionDeleteCharacterForward:
		e.edit(e.buffer.DeleteCharForward)
	case ActionDeleteWordBackward:
		e.edit(e.buffer.DeleteWordBackward)
	case ActionDeleteWordForward:
		e.edit(e.buffer.DeleteWordForward)
	case ActionDeleteBeforeCursor:
		e.edit(e.buffer.DeleteBeforeCursor)
	case ActionDeleteAfterCursor:
		e.edit(e.buffer.DeleteAfterCursor)

	case ActionHistoryPrevious:
		e.navigateHistory(1)
	case ActionHistoryNext:
		e.navigateHistory(-1)
	case ActionHistorySearch:
		e.startSearch()

	case ActionComplete:
		e.complete()
	case ActionAcceptSuggestion:
		e.acceptSuggestion()

	case ActionSubmit:
		line := e.buffer.Text()
		e.finish(StateCommitted)
		return Outcome{Kind: OutcomeSubmit, Line: line}
	case ActionCancel:
		e.suggestion = ""
	case ActionInterrupt:
		line := e.buffer.Text()
		e.finish(StateCancelled)
		return Outcome{Kind: OutcomeCancel, Line: line}
	case ActionEOF:
		if e.buffer.IsEmpty() {
			return Outcome{Kind: OutcomeEOF}
		}
	case ActionClearScreen:
		return Outcome{Kind: OutcomeClearScreen}
	case ActionPaste:
		return Outcome{Kind: OutcomePaste}
	}

	return Outcome{Kind: OutcomeNone}
}

// begin moves the session out of Idle, starting a fresh line when the
// previous one was committed or cancelled.
func (e *Editor) begin() {
	switch e.state {
	case StateCommitted, StateCancelled:
		e.Reset()
		e.state = StateEditing
	case StateIdle:
		e.state = StateEditing
	}
}

func (e *Editor) finish(state State) {
	e.buffer.Clear()
	e.suggestion = ""
	e.resetHistoryNavigation()
	e.state = state
}

func (e *Editor) edit(op func() bool) {
	if op() {
		e.contentChanged()
	}
}

// contentChanged recomputes the suggestion after the buffer text changed.
func (e *Editor) contentChanged() {
	e.resetHistoryNavigation()
	e.updateSuggestion()
}

func (e *Editor) updateSuggestion() {
	e.suggestion = ""
	if e.predictor == nil || e.buffer.IsEmpty() {
		return
	}
	e.suggestion = e.predictor.Predict(e.buffer.Text())
}

func (e *Editor) acceptSuggestion() {
	if e.suggestion == "" {
		return
	}
	e.buffer.SetText(e.suggestion)
	e.suggestion = ""
	e.resetHistoryNavigation()
}

func (e *Editor) complete() {
	if e.completer != nil {
		if result, ok := e.completer.Complete(e.buffer.Text(), e.buffer.Pos()); ok {
			e.logger.Debug("completed token", zap.String("candidate", result.Candidate.Text))
			changed := e.buffer.SetText(result.Line)
			e.buffer.SetPos(result.Cursor)
			if changed {
				e.contentChanged()
			}
			return
		}
	}
	e.acceptSuggestion()
}

func (e *Editor) resetHistoryNavigation() {
	e.historyIndex = 0
	e.historyEntries = nil
	e.savedInput = ""
}

// navigateHistory moves delta entries back in time (negative moves forward).
// Leaving the newest entry restores the line that was being typed.
func (e *Editor) navigateHistory(delta int) {
	if e.history == nil {
		return
	}
	if e.historyIndex == 0 {
		e.historyEntries = e.history.Entries()
		e.savedInput = e.buffer.Text()
	}

	next := e.historyIndex + delta
	if next < 0 || next > len(e.historyEntries) {
		return
	}

	e.historyIndex = next
	if next == 0 {
		e.buffer.SetText(e.savedInput)
	} else {
		e.buffer.SetText(e.historyEntries[len(e.historyEntries)-next])
	}
	e.updateSuggestion()
}

func (e *Editor) startSearch() {
	var entries []string
	if e.history != nil {
		entries = e.history.Entries()
	}
	e.suggestion = ""
	e.historySearching.Start(entries, e.buffer.Text(), e.buffer.Pos())
}

// applySearch handles actions while Ctrl+R search is active. Actions it
// doesn't consume accept the current match and are then applied normally.
func (e *Editor) applySearch(action Action) (Outcome, bool) {
	s := e.historySearching

	switch action.Kind {
	case ActionInsert:
		s.AddText(sanitizeInput(action.Text))
		return Outcome{}, true
	case ActionDeleteCharacterBackward:
		s.DeleteChar()
		return Outcome{}, true
	case ActionHistorySearch, ActionHistoryPrevious:
		s.NextMatch()
		return Outcome{}, true
	case ActionHistoryNext:
		s.PrevMatch()
		return Outcome{}, true
	case ActionCancel, ActionInterrupt:
		input, pos := s.Cancel()
		e.buffer.SetText(input)
		e.buffer.SetPos(pos)
		e.updateSuggestion()
		return Outcome{}, true
	case ActionSubmit:
		e.buffer.SetText(s.Accept())
		e.contentChanged()
		return Outcome{}, true
	case ActionClearScreen:
		return Outcome{Kind: OutcomeClearScreen}, true
	}

	e.buffer.SetText(s.Accept())
	e.contentChanged()
	return Outcome{}, false
}

// sanitizeInput flattens pasted text onto a single line.
func sanitizeInput(text string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '\t', '\n', '\r':
			return ' '
		}
		return r
	}, text)
}
