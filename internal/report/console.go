package report

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"
)

// Console is the single serialized sink for user-facing progress output.
// Every line is written under one lock, so output from concurrent fetch
// workers never interleaves. Color only marks repeats, errors and
// successes.
type Console struct {
	mu  sync.Mutex
	out io.Writer

	warn      *color.Color
	err       *color.Color
	success   *color.Color
	highlight *color.Color
}

// ConsoleOption configures a Console.
type ConsoleOption func(*Console)

// WithColor forces color on or off. By default color follows
// color.NoColor, which is off when the output is not a terminal.
func WithColor(enabled bool) ConsoleOption {
	return func(c *Console) {
		for _, col := range c.colors() {
			if enabled {
				col.EnableColor()
			} else {
				col.DisableColor()
			}
		}
	}
}

// NewConsole creates a Console writing to out.
func NewConsole(out io.Writer, opts ...ConsoleOption) *Console {
	c := &Console{
		out:       out,
		warn:      color.New(color.FgYellow),
		err:       color.New(color.FgRed),
		success:   color.New(color.FgGreen),
		highlight: color.New(color.FgYellow),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Console) colors() []*color.Color {
	return []*color.Color{c.warn, c.err, c.success, c.highlight}
}

// Writer returns the underlying output.
func (c *Console) Writer() io.Writer {
	return c.out
}

// Infof writes an uncolored line.
func (c *Console) Infof(format string, args ...any) {
	c.line(nil, format, args...)
}

// Warnf writes a warning line.
func (c *Console) Warnf(format string, args ...any) {
	c.line(c.warn, format, args...)
}

// Errorf writes an error line.
func (c *Console) Errorf(format string, args ...any) {
	c.line(c.err, format, args...)
}

// Successf writes a success line.
func (c *Console) Successf(format string, args ...any) {
	c.line(c.success, format, args...)
}

// Highlight marks s as a repeated entity.
func (c *Console) Highlight(s string) string {
	return c.highlight.Sprint(s)
}

// Write writes p as is under the console lock. It lets reports share the
// sink with progress lines.
func (c *Console) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.out.Write(p)
}

func (c *Console) line(col *color.Color, format string, args ...any) {
	msg := strings.TrimRight(fmt.Sprintf(format, args...), "\n")
	if col != nil {
		msg = col.Sprint(msg)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = fmt.Fprintln(c.out, msg) //nolint:errcheck // progress output is best effort
}
