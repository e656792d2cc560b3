// Package tui provides the primary terminal user interface implementation.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/ytap-cli/ytap/internal/cache"
	"github.com/ytap-cli/ytap/platform"
	"github.com/ytap-cli/ytap/style"
	"github.com/ytap-cli/ytap/util"
)

// listItem implements the list.Item interface for a single search result.
type listItem struct {
	video  platform.Video
	bubble *statefulBubble
}

// Title retrieves the primary display text for the list item.
func (t *listItem) Title() string {
	return t.video.Title
}

// Description renders channel, duration and thumbnail readiness on one line.
func (t *listItem) Description() string {
	var parts []string

	if t.video.Channel != "" {
		parts = append(parts, lipgloss.NewStyle().Foreground(style.Subtext).Render(t.video.Channel))
	}

	if t.video.DurationSeconds > 0 {
		duration := util.FormatDuration(float64(t.video.DurationSeconds))
		parts = append(parts, lipgloss.NewStyle().Foreground(style.FaintColor).Render(duration))
	} else {
		parts = append(parts, lipgloss.NewStyle().Foreground(style.Red).Render("live"))
	}

	if t.bubble != nil {
		switch _, state := t.bubble.session.Thumbnails.Get(t.video.ThumbnailURL()); state {
		case cache.Failed:
			parts = append(parts, lipgloss.NewStyle().Foreground(style.FaintColor).Render("no thumbnail"))
		case cache.Pending:
			parts = append(parts, lipgloss.NewStyle().Foreground(style.FaintColor).Render("…"))
		}
	}

	return strings.Join(parts, " • ")
}

// FilterValue returns the string used for real-time list filtering and searching.
func (t *listItem) FilterValue() string {
	if t.video.Channel != "" {
		return fmt.Sprintf("%s %s", t.video.Title, t.video.Channel)
	}
	return t.video.Title
}
