package term

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfirm(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"yes", "yes\n", true},
		{"y", "y\n", true},
		{"uppercase", "Y\n", true},
		{"no", "no\n", false},
		{"empty defaults to no", "\n", false},
		{"garbage", "maybe\n", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			term := NewWith(strings.NewReader(tt.input), &out)

			got, err := term.Confirm("Proceed?")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Contains(t, out.String(), "Proceed? [y/N]:")
		})
	}
}

func TestConfirm_ClosedInput(t *testing.T) {
	var out bytes.Buffer
	term := NewWith(strings.NewReader(""), &out)

	_, err := term.Confirm("Proceed?")
	assert.Error(t, err)
}

func TestPrompt(t *testing.T) {
	var out bytes.Buffer
	term := NewWith(strings.NewReader("  git status to check the tree \n"), &out)

	got, err := term.Prompt("Enter the command to process")
	require.NoError(t, err)
	assert.Equal(t, "git status to check the tree", got)
	assert.Contains(t, out.String(), "Enter the command to process:")
}
