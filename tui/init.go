// Package tui provides the primary terminal user interface implementation.
package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Init initializes the terminal user interface, starting the channel pumps
// that deliver worker results and playback events into the update loop.
func (b *statefulBubble) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		b.waitForJob(),
		b.waitForPlayerEvent(),
	)
}
