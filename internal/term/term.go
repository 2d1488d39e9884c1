// Package term provides blocking interactive prompts on the controlling
// terminal. The workflow depends on the Confirm/Prompt behavior through its
// own port interfaces, so this package is only wired in at the CLI edge.
package term

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Terminal reads answers from an input stream, stdin by default.
type Terminal struct {
	in  *bufio.Reader
	out io.Writer
}

// New returns a terminal bound to stdin/stdout.
func New() *Terminal {
	return &Terminal{
		in:  bufio.NewReader(os.Stdin),
		out: os.Stdout,
	}
}

// NewWith returns a terminal bound to the given streams, for tests.
func NewWith(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{
		in:  bufio.NewReader(in),
		out: out,
	}
}

// Confirm asks a yes/no question and blocks until answered. Only "y" and
// "yes" (case-insensitive) count as approval.
func (t *Terminal) Confirm(prompt string) (bool, error) {
	fmt.Fprintf(t.out, "%s [y/N]: ", prompt)

	line, err := t.in.ReadString('\n')
	if err != nil && line == "" {
		return false, fmt.Errorf("read confirmation: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// Prompt asks for a free-form line of input.
func (t *Terminal) Prompt(label string) (string, error) {
	fmt.Fprintf(t.out, "%s: ", label)

	line, err := t.in.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}
