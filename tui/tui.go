// Package tui provides the primary terminal user interface implementation.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Options encapsulates the runtime configuration for the terminal user interface.
type Options struct {
	// Query, when set, skips the search prompt and searches immediately.
	Query string
}

// Run initializes and executes the primary Bubble Tea application loop.
func Run(options *Options) error {
	bubble := newBubble(options)

	if options.Query != "" {
		bubble.inputC.SetValue(options.Query)
	}

	bubble.setState(searchState)

	_, err := tea.NewProgram(bubble, tea.WithAltScreen()).Run()
	return err
}
