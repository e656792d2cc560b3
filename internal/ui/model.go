// Package ui provides internal state management and rendering utilities for ephemeral terminal notifications.
package ui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ytap-cli/ytap/session"
	"github.com/ytap-cli/ytap/style"
)

// Model encapsulates the state for displaying non-blocking terminal alerts.
type Model struct {
	notification session.StatusMessage
	active       bool
}

// ClearNotificationMsg is a Bubbletea message used to reset the visual notification state.
type ClearNotificationMsg struct{}

// ClearNotification returns a delayed tea.Cmd that clears the current notification after a fixed duration.
func ClearNotification() tea.Cmd {
	return tea.Tick(4*time.Second, func(t time.Time) tea.Msg {
		return ClearNotificationMsg{}
	})
}

// Update processes incoming messages to modify the notification state.
func (m *Model) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case session.StatusMessage:
		m.notification = msg
		m.active = true
		return ClearNotification()
	case ClearNotificationMsg:
		m.active = false
		return nil
	}
	return nil
}

// View injects the current notification message into the terminal view buffer.
func (m *Model) View(mainContent string) string {
	if !m.active || m.notification.Text == "" {
		return mainContent
	}

	var render func(string) string
	switch m.notification.Severity {
	case session.Error:
		render = style.Fg(style.ErrorColor)
	case session.Warning:
		render = style.Fg(style.WarningColor)
	default:
		render = style.Fg(style.FaintColor)
	}

	lines := strings.Split(mainContent, "\n")
	notifier := render(m.notification.Text)

	if len(lines) > 0 {
		last := len(lines) - 1
		lines[last] = lines[last] + "  " + notifier
	}
	return strings.Join(lines, "\n")
}
