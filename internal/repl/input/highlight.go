package input

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"

	"github.com/atinylittleshell/ghostsh/internal/environment"
	"github.com/atinylittleshell/ghostsh/internal/repl/render"
	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"
)

// TokenClass represents the kind of a token for highlighting.
type TokenClass int

const (
	ClassWhitespace TokenClass = iota
	ClassDefault
	ClassCommand
	ClassFlag
	ClassVariable
	ClassString
	ClassPath
	ClassNumber
	ClassOperator
)

func (c TokenClass) String() string {
	switch c {
	case ClassWhitespace:
		return "whitespace"
	case ClassDefault:
		return "default"
	case ClassCommand:
		return "command"
	case ClassFlag:
		return "flag"
	case ClassVariable:
		return "variable"
	case ClassString:
		return "string"
	case ClassPath:
		return "path"
	case ClassNumber:
		return "number"
	case ClassOperator:
		return "operator"
	default:
		return "unknown"
	}
}

// Token is a span of the input line. Start is a rune offset. Whitespace runs
// are kept as their own tokens so that concatenating every Text reproduces
// the line exactly.
type Token struct {
	Start int
	Text  string
	Class TokenClass
	// Valid is set for commands that resolve, paths that exist and
	// variables that have a value.
	Valid bool
}

var operators = []string{"|", "||", "&&", ">", ">>", "<", "<<", "&", ";", "(", ")", "{", "}", "="}

// Tokenize splits line into whitespace and word tokens. A single or double
// quote opens a quoted region that runs to the matching quote (or the end of
// the line) and whitespace inside it doesn't split the word. Backslash
// escapes are not interpreted. Returned tokens are unclassified.
func Tokenize(line string) []Token {
	runes := []rune(line)
	var tokens []Token

	i := 0
	for i < len(runes) {
		start := i
		if unicode.IsSpace(runes[i]) {
			for i < len(runes) && unicode.IsSpace(runes[i]) {
				i++
			}
			tokens = append(tokens, Token{Start: start, Text: string(runes[start:i]), Class: ClassWhitespace})
			continue
		}

		var quote rune
		for i < len(runes) {
			r := runes[i]
			if quote != 0 {
				if r == quote {
					quote = 0
				}
			} else if r == '\'' || r == '"' {
				quote = r
			} else if unicode.IsSpace(r) {
				break
			}
			i++
		}
		tokens = append(tokens, Token{Start: start, Text: string(runes[start:i]), Class: ClassDefault})
	}

	return tokens
}

// CommandChecker reports whether a name can be run.
type CommandChecker interface {
	IsCommand(name string) bool
}

// Classifier assigns a class to each token of a line.
type Classifier struct {
	commands CommandChecker
	env      environment.Provider
}

// NewClassifier creates a classifier. commands may be nil, in which case no
// command is considered valid.
func NewClassifier(commands CommandChecker, env environment.Provider) *Classifier {
	if env == nil {
		env = environment.OS{}
	}
	return &Classifier{commands: commands, env: env}
}

// Classify tokenizes line and classifies every word. The first word is
// always the command; the remaining words are classified by their leading
// character, then as numbers, then as operators.
func (c *Classifier) Classify(line string) []Token {
	tokens := Tokenize(line)

	wordIndex := 0
	for i := range tokens {
		if tokens[i].Class == ClassWhitespace {
			continue
		}
		c.classifyWord(&tokens[i], wordIndex)
		wordIndex++
	}

	return tokens
}

func (c *Classifier) classifyWord(tok *Token, index int) {
	text := tok.Text

	if index == 0 {
		tok.Class = ClassCommand
		tok.Valid = c.commands != nil && c.commands.IsCommand(text)
		return
	}

	switch text[0] {
	case '-':
		tok.Class = ClassFlag
		return
	case '$':
		tok.Class = ClassVariable
		tok.Valid = c.variableHasValue(extractVariableName(text))
		return
	case '"', '\'':
		tok.Class = ClassString
		return
	case '~', '/', '.':
		tok.Class = ClassPath
		tok.Valid = c.pathExists(text)
		return
	}

	switch {
	case isNumber(text):
		tok.Class = ClassNumber
	case lo.Contains(operators, text):
		tok.Class = ClassOperator
	default:
		tok.Class = ClassDefault
	}
}

func isNumber(text string) bool {
	if _, err := strconv.ParseInt(text, 10, 64); err == nil {
		return true
	}
	if _, err := strconv.ParseFloat(text, 64); err != nil {
		return false
	}
	// ParseFloat also accepts inf, nan and hex forms
	return strings.IndexFunc(text, func(r rune) bool {
		return unicode.IsLetter(r) && r != 'e' && r != 'E'
	}) < 0
}

func (c *Classifier) pathExists(text string) bool {
	path := text
	if path == "~" || strings.HasPrefix(path, "~/") {
		home := c.env.HomeDir()
		if home == "" {
			return false
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	} else if !filepath.IsAbs(path) {
		wd, err := c.env.Getwd()
		if err != nil {
			return false
		}
		path = filepath.Join(wd, path)
	}

	_, err := os.Stat(path)
	return err == nil
}

func (c *Classifier) variableHasValue(name string) bool {
	switch name {
	case "":
		return false
	case "?", "$", "!", "#", "*", "@", "0", "1", "2", "3", "4", "5", "6", "7", "8", "9":
		return true
	}
	return c.env.Getenv(name) != ""
}

// extractVariableName extracts the name from $VAR or ${VAR}.
func extractVariableName(text string) string {
	if len(text) < 2 {
		return ""
	}
	rest := text[1:]

	if rest[0] == '{' {
		end := strings.IndexByte(rest, '}')
		if end <= 1 {
			return ""
		}
		name := rest[1:end]
		if i := strings.IndexAny(name, ":-+=?#%"); i >= 0 {
			return name[:i]
		}
		return name
	}

	if strings.ContainsRune("?$!#*@", rune(rest[0])) {
		return rest[:1]
	}

	end := strings.IndexFunc(rest, func(r rune) bool {
		return !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_')
	})
	if end < 0 {
		return rest
	}
	return rest[:end]
}

// Highlighter renders classified tokens with lipgloss styles.
type Highlighter struct {
	classifier *Classifier
	styles     map[TokenClass]lipgloss.Style
	invalid    map[TokenClass]lipgloss.Style
}

// NewHighlighter creates a new syntax highlighter.
func NewHighlighter(classifier *Classifier) *Highlighter {
	return &Highlighter{
		classifier: classifier,
		styles: map[TokenClass]lipgloss.Style{
			ClassWhitespace: lipgloss.NewStyle(),
			ClassDefault:    lipgloss.NewStyle(),
			ClassCommand:    lipgloss.NewStyle().Foreground(render.ColorGreen),
			ClassFlag:       lipgloss.NewStyle().Foreground(render.ColorBlue),
			ClassVariable:   lipgloss.NewStyle().Foreground(render.ColorGreen),
			ClassString:     lipgloss.NewStyle().Foreground(render.ColorMagenta),
			ClassPath:       lipgloss.NewStyle().Underline(true),
			ClassNumber:     lipgloss.NewStyle().Foreground(render.ColorCyan),
			ClassOperator:   lipgloss.NewStyle().Foreground(render.ColorYellow),
		},
		invalid: map[TokenClass]lipgloss.Style{
			ClassCommand:  lipgloss.NewStyle().Foreground(render.ColorRed),
			ClassVariable: lipgloss.NewStyle().Foreground(render.ColorRed),
			ClassPath:     lipgloss.NewStyle(),
		},
	}
}

// StyledSpan represents a portion of text with a specific style.
type StyledSpan struct {
	Start int
	Text  string
	Style lipgloss.Style
}

// Render styles the span. Whitespace is written as is since lipgloss
// expands tabs.
func (s StyledSpan) Render() string {
	if strings.TrimSpace(s.Text) == "" {
		return s.Text
	}
	return s.Style.Render(s.Text)
}

// Spans classifies line and pairs every token with its style.
func (h *Highlighter) Spans(line string) []StyledSpan {
	tokens := h.classifier.Classify(line)
	spans := make([]StyledSpan, len(tokens))
	for i, tok := range tokens {
		spans[i] = StyledSpan{Start: tok.Start, Text: tok.Text, Style: h.styleFor(tok)}
	}
	return spans
}

func (h *Highlighter) styleFor(tok Token) lipgloss.Style {
	if !tok.Valid {
		if style, ok := h.invalid[tok.Class]; ok {
			return style
		}
	}
	return h.styles[tok.Class]
}

// Highlight returns line with syntax highlighting applied.
func (h *Highlighter) Highlight(line string) string {
	var b strings.Builder
	for _, span := range h.Spans(line) {
		b.WriteString(span.Render())
	}
	return b.String()
}
