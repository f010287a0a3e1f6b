package render

import (
	"testing"

	"github.com/muesli/ansi"
	"github.com/stretchr/testify/assert"
)

func TestPromptDir(t *testing.T) {
	tests := []struct {
		name     string
		cwd      string
		home     string
		expected string
	}{
		{"base name", "/home/alice/src/ghostsh", "/home/alice", "ghostsh"},
		{"home", "/home/alice", "/home/alice", "~"},
		{"home with trailing slash", "/home/alice/", "/home/alice", "~"},
		{"root", "/", "/home/alice", "/"},
		{"unknown", "", "/home/alice", "?"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, promptDir(tt.cwd, tt.home))
		})
	}
}

func TestPrompt(t *testing.T) {
	prompt := Prompt(PromptInfo{Cwd: "/tmp/work", HomeDir: "/home/alice", Arrow: ">"})

	assert.Contains(t, prompt, "work")
	assert.Contains(t, prompt, ">")
	assert.Equal(t, len("work > "), ansi.PrintableRuneWidth(prompt))
}

func TestPrompt_DefaultArrow(t *testing.T) {
	prompt := Prompt(PromptInfo{Cwd: "/tmp/work", LastExitCode: 1})
	assert.Contains(t, prompt, "❱")
}
