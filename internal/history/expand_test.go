package history

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStore_Expand(t *testing.T) {
	s := newTestStore(t, 10, "ls -la", "git status", "git commit -m fix")

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"bang bang", "!!", "git commit -m fix"},
		{"bang bang trimmed", "  !!  ", "git commit -m fix"},
		{"last word", "echo !$", "echo fix"},
		{"first argument", "echo !^", "echo commit"},
		{"all arguments", "echo !*", "echo commit -m fix"},
		{"absolute index", "!2", "git status"},
		{"first index", "!1", "ls -la"},
		{"relative index", "!-1", "git commit -m fix"},
		{"relative index deeper", "!-3", "ls -la"},
		{"prefix", "!git", "git commit -m fix"},
		{"prefix older", "!ls", "ls -la"},
		{"substring", "!?status?", "git status"},
		{"substring without closing", "!?-la", "ls -la"},
		{"out of range index", "!9", "!9"},
		{"out of range relative", "!-9", "!-9"},
		{"zero index", "!0", "!0"},
		{"unknown prefix", "!docker", "!docker"},
		{"unknown substring", "!?zzz?", "!?zzz?"},
		{"lone bang", "!", "!"},
		{"plain command", "make build", "make build"},
		{"plain command keeps spacing", " make  build ", " make  build "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, s.Expand(tt.input))
		})
	}
}

func TestStore_ExpandEmptyHistory(t *testing.T) {
	s := NewStore(10, nil)

	assert.Equal(t, "", s.Expand("!!"))
	assert.Equal(t, "echo !$", s.Expand("echo !$"))
	assert.Equal(t, "!1", s.Expand("!1"))
	assert.Equal(t, "!git", s.Expand("!git"))
}

func TestStore_ExpandArgumentsNeedArguments(t *testing.T) {
	s := newTestStore(t, 10, "pwd")

	assert.Equal(t, "echo pwd", s.Expand("echo !$"))
	assert.Equal(t, "echo !^", s.Expand("echo !^"))
	assert.Equal(t, "echo !*", s.Expand("echo !*"))
}

func TestStore_ExpandMultibyte(t *testing.T) {
	s := newTestStore(t, 10, "echo héllo wörld")

	assert.Equal(t, "cat wörld", s.Expand("cat !$"))
	assert.Equal(t, "echo héllo wörld", s.Expand("!ech"))
}
