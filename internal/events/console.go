package events

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Console renders events as styled lines. It is meant to run on the
// draining goroutine and is not safe for concurrent use.
type Console struct {
	w             io.Writer
	MinImportance Importance

	info, warn, fail, progress, key, dim lipgloss.Style
}

// NewConsole returns a console sink writing to w. Colors are enabled only
// when w is a color-capable terminal.
func NewConsole(w io.Writer) *Console {
	r := lipgloss.NewRenderer(w)
	return &Console{
		w:             w,
		MinImportance: Low,
		info:          r.NewStyle().Foreground(lipgloss.Color("12")),
		warn:          r.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
		fail:          r.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		progress:      r.NewStyle().Foreground(lipgloss.Color("14")),
		key:           r.NewStyle().Foreground(lipgloss.Color("13")),
		dim:           r.NewStyle().Faint(true),
	}
}

// Handle writes e unless it is below MinImportance.
func (c *Console) Handle(e Event) error {
	if e.Importance < c.MinImportance {
		return nil
	}
	_, err := fmt.Fprintf(c.w, "%s %s %s\n", c.dim.Render(e.Timestamp.Format(time.TimeOnly)), c.label(e), c.body(e))
	return err
}

func (c *Console) label(e Event) string {
	switch e.Kind {
	case KindWarning:
		return c.warn.Render("WARN ")
	case KindError:
		return c.fail.Render("ERROR")
	case KindProgress:
		return c.progress.Render("PROG ")
	case KindKey:
		return c.key.Render("KEY  ")
	default:
		return c.info.Render("INFO ")
	}
}

func (c *Console) body(e Event) string {
	switch {
	case e.Kind == KindKey:
		return e.Message + " " + c.dim.Render(Redact(e.Material))
	case e.IsTick():
		return fmt.Sprintf("%s %3d%%", e.Message, e.Percent)
	default:
		return e.Message
	}
}

// Redact masks key material for display.
func Redact(material string) string {
	if material == "" {
		return ""
	}
	return "[" + strings.Repeat("*", 8) + "]"
}
