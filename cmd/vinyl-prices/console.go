package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/handiism/vinyl-prices/internal/updater"
	"github.com/mattn/go-isatty"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F8B500"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#95E1A3"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFE66D"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#A8DADC"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C757D"))
)

// console prints progress events, one line each.
type console struct {
	w        io.Writer
	verbose  bool
	colorize bool
}

func newConsole(w io.Writer, verbose bool) *console {
	return &console{w: w, verbose: verbose, colorize: shouldColorize(w)}
}

func (c *console) banner() {
	c.println(titleStyle, "Vinyl Prices")
	c.println(dimStyle, strings.Repeat("━", 40))
}

func (c *console) event(event updater.ProgressEvent) {
	if event.Level == updater.LevelVerbose && !c.verbose {
		return
	}
	c.line(event.Level, event.Message)
}

func (c *console) line(level updater.ProgressLevel, msg string) {
	var style lipgloss.Style
	prefix := "  "
	switch level {
	case updater.LevelError:
		style, prefix = errorStyle, "✗ "
	case updater.LevelWarning:
		style, prefix = warningStyle, "! "
	case updater.LevelSuccess:
		style, prefix = successStyle, "✓ "
	case updater.LevelInfo:
		style, prefix = infoStyle, "› "
	default:
		style = dimStyle
	}
	c.println(style, prefix+msg)
}

func (c *console) summary(p updater.Progress) {
	c.println(dimStyle, strings.Repeat("━", 40))
	c.println(titleStyle, fmt.Sprintf("Rows: %d | Priced: %d | No release: %d | No price: %d | Skipped: %d | Up to date: %d",
		p.Total, p.Priced, p.NotFound, p.NoPrice, p.Skipped, p.Fresh))
}

func (c *console) println(style lipgloss.Style, s string) {
	if c.colorize {
		s = style.Render(s)
	}
	fmt.Fprintln(c.w, s)
}

func shouldColorize(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
