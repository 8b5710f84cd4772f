package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		a, b     string
		expected int
	}{
		{"", "", 0},
		{"diff", "", 4},
		{"", "diff", 4},
		{"diff", "diff", 0},
		{"dif", "diff", 1},
		{"serv", "serve", 1},
		{"vershun", "version", 2},
		{"walk", "diff", 4},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, levenshteinDistance(tt.a, tt.b), "distance(%q, %q)", tt.a, tt.b)
	}
}

func TestSuggestCommand(t *testing.T) {
	assert.Equal(t, "diff", suggestCommand("dif"))
	assert.Equal(t, "serve", suggestCommand("srve"))
	assert.Equal(t, "version", suggestCommand("verson"))
	assert.Equal(t, "", suggestCommand("completely-unrelated"))
}
