// Package display renders chat and relay events on a terminal.
package display

import (
	"fmt"
	"io"
	"os"
	"sync"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/colorprofile"

	"pqchat/internal/domain"
)

const defaultWidth = 80

var (
	successStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true) // Bright green
	noticeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true) // Bright yellow
	incomingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))            // Bright cyan
	outgoingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Align(lipgloss.Right)
)

var _ domain.Display = (*Console)(nil)

// Console writes one line per event. Incoming messages sit on the left and
// our own messages are pushed to the right.
type Console struct {
	mu    sync.Mutex
	w     io.Writer
	width int
}

// New returns a console writing to w, width columns wide.
func New(w io.Writer, width int) *Console {
	if width <= 0 {
		width = defaultWidth
	}
	return &Console{w: w, width: width}
}

// Stdout returns a console on standard output, downsampling colours to what
// the terminal supports.
func Stdout() *Console {
	return New(colorprofile.NewWriter(os.Stdout, os.Environ()), defaultWidth)
}

// Success implements domain.Display.
func (c *Console) Success(msg string) { c.println(successStyle.Render(msg)) }

// Notice implements domain.Display.
func (c *Console) Notice(msg string) { c.println(noticeStyle.Render(msg)) }

// Incoming implements domain.Display.
func (c *Console) Incoming(msg string) { c.println(incomingStyle.Render(msg)) }

// Outgoing implements domain.Display.
func (c *Console) Outgoing(msg string) {
	c.println(outgoingStyle.Width(c.width).Render(msg))
}

func (c *Console) println(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = fmt.Fprintln(c.w, s)
}
