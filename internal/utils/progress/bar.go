// Package progress renders per-table batch progress on the console.
package progress

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"
)

const defaultWidth = 40

// Bar draws one progress line per table. On a terminal the line is redrawn in place;
// otherwise a line is written only when a table completes.
type Bar struct {
	mu          sync.Mutex
	out         io.Writer
	interactive bool
	width       int
	table       string
}

// New creates a bar writing to out.
func New(out io.Writer, interactive bool) *Bar {
	return &Bar{out: out, interactive: interactive, width: defaultWidth}
}

// ForFile creates a bar for f, detecting whether it is a terminal and sizing the bar to it.
func ForFile(f *os.File) *Bar {
	fd := int(f.Fd())
	b := New(f, term.IsTerminal(fd))
	if b.interactive {
		if cols, _, err := term.GetSize(fd); err == nil && cols > 0 {
			b.width = min(defaultWidth, max(10, cols-50))
		}
	}
	return b
}

// IsInteractive reports whether stdin is attached to a terminal.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// Update records that done of total rows of table have been processed.
func (b *Bar) Update(table string, done, total int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if total <= 0 {
		return
	}
	if b.interactive {
		if b.table != "" && b.table != table {
			fmt.Fprintln(b.out)
		}
		b.table = table
		fmt.Fprintf(b.out, "\r  %s", render(table, done, total, b.width))
		if done >= total {
			fmt.Fprintln(b.out)
			b.table = ""
		}
		return
	}
	if done >= total {
		fmt.Fprintf(b.out, "  %s\n", render(table, done, total, b.width))
	}
}

func render(table string, done, total, width int) string {
	percent := float64(done) / float64(total)
	filled := min(int(percent*float64(width)), width)
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return fmt.Sprintf("%-18s [%s] %3.0f%% (%d/%d)", table, bar, percent*100, done, total)
}
