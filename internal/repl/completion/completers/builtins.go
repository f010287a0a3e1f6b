package completers

import (
	"sort"
)

// BuiltinCommand represents a built-in command with its help text.
type BuiltinCommand struct {
	Name        string
	Description string
}

// BuiltinCompleter provides completions for the commands the REPL handles itself.
type BuiltinCompleter struct {
	commands []BuiltinCommand
}

// NewBuiltinCompleter creates a new BuiltinCompleter with default commands.
func NewBuiltinCompleter() *BuiltinCompleter {
	return &BuiltinCompleter{
		commands: []BuiltinCommand{
			{Name: "cd", Description: "Change directory (no argument: home)"},
			{Name: "clear", Description: "Clear the screen"},
			{Name: "exit", Description: "Leave ghostsh"},
			{Name: "history", Description: "List command history"},
			{Name: "journal", Description: "Show recently executed commands with exit codes"},
			{Name: "keys", Description: "Show key bindings"},
			{Name: "quit", Description: "Leave ghostsh"},
			{Name: "z", Description: "Jump to a frequently used directory"},
		},
	}
}

// Names returns every builtin name, sorted.
func (c *BuiltinCompleter) Names() []string {
	names := make([]string, 0, len(c.commands))
	for _, cmd := range c.commands {
		names = append(names, cmd.Name)
	}
	sort.Strings(names)
	return names
}

// IsBuiltin reports whether name is a builtin.
func (c *BuiltinCompleter) IsBuiltin(name string) bool {
	for _, cmd := range c.commands {
		if cmd.Name == name {
			return true
		}
	}
	return false
}

// Commands returns the builtin definitions in display order.
func (c *BuiltinCompleter) Commands() []BuiltinCommand {
	out := make([]BuiltinCommand, len(c.commands))
	copy(out, c.commands)
	return out
}
