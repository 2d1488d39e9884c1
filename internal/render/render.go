// Package render produces the short colored terminal output. Full detail
// always goes to the durable log; this layer is presentation only.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	labelStyle   = lipgloss.NewStyle().Bold(true)

	keyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
)

// Console writes styled summaries to a terminal stream.
type Console struct {
	out io.Writer
}

// NewConsole returns a console bound to stdout.
func NewConsole() *Console {
	return &Console{out: os.Stdout}
}

// NewConsoleWith returns a console bound to the given writer, for tests.
func NewConsoleWith(out io.Writer) *Console {
	return &Console{out: out}
}

// Info prints a neutral status line.
func (c *Console) Info(msg string) {
	fmt.Fprintln(c.out, infoStyle.Render(msg))
}

// Success prints a check-marked success line.
func (c *Console) Success(msg string) {
	fmt.Fprintln(c.out, successStyle.Render("✓ "+msg))
}

// Warn prints a warning line.
func (c *Console) Warn(msg string) {
	fmt.Fprintln(c.out, warnStyle.Render(msg))
}

// Error prints a cross-marked error line.
func (c *Console) Error(msg string) {
	fmt.Fprintln(c.out, errorStyle.Render("✗ "+msg))
}

// JSON prints a labeled, colorized JSON rendering of v.
func (c *Console) JSON(label string, v any) {
	fmt.Fprintln(c.out, labelStyle.Render(label+":"))

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(c.out, "%v\n", v)
		return
	}
	fmt.Fprintln(c.out, Colorize(string(data)))
}

// Colorize applies key/value coloring to an indented JSON document. It
// works line by line: structural lines pass through untouched.
func Colorize(doc string) string {
	lines := strings.Split(doc, "\n")
	for i, line := range lines {
		lines[i] = colorizeLine(line)
	}
	return strings.Join(lines, "\n")
}

func colorizeLine(line string) string {
	trimmed := strings.TrimLeft(line, " ")
	if !strings.HasPrefix(trimmed, `"`) {
		return line
	}
	indent := line[:len(line)-len(trimmed)]

	// Key-value line: color the key and the value separately.
	if key, rest, found := splitKey(trimmed); found {
		return indent + keyStyle.Render(key) + ": " + valueStyle.Render(rest)
	}

	// Bare string value, e.g. inside an array.
	return indent + valueStyle.Render(trimmed)
}

// splitKey splits `"key": rest` at the colon following the closing quote.
func splitKey(s string) (key, rest string, found bool) {
	if len(s) < 2 || s[0] != '"' {
		return "", "", false
	}
	for i := 1; i < len(s); i++ {
		if s[i] == '\\' {
			i++
			continue
		}
		if s[i] == '"' {
			if strings.HasPrefix(s[i+1:], ": ") {
				return s[:i+1], s[i+3:], true
			}
			return "", "", false
		}
	}
	return "", "", false
}
