// Package tui provides the primary terminal user interface implementation.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wrap"
	"github.com/samber/mo"
	"github.com/spf13/viper"
	"github.com/ytap-cli/ytap/color"
	"github.com/ytap-cli/ytap/icon"
	"github.com/ytap-cli/ytap/internal/cache"
	"github.com/ytap-cli/ytap/key"
	"github.com/ytap-cli/ytap/player"
	"github.com/ytap-cli/ytap/style"
	"github.com/ytap-cli/ytap/util"
)

var (
	listExtraPaddingStyle = lipgloss.NewStyle().Padding(1, 2, 1, 0)
	paddingStyle          = lipgloss.NewStyle().Padding(1, 2)
)

// playerBarHeight is the number of rows reserved under the result list for
// the transport bar.
const playerBarHeight = 3

func (b *statefulBubble) View() string {
	var output string

	switch b.state {
	case searchState:
		output = b.viewSearch()
	case loadingState:
		output = b.viewLoading()
	case resultsState:
		output = b.viewResults()
	case errorState:
		output = b.viewError()
	default:
		output = "Unknown state"
	}

	return b.notifier.View(output)
}

func (b *statefulBubble) viewSearch() string {
	lines := []string{
		style.Title("Search"),
		"",
		b.inputC.View(),
	}

	if suggestion, ok := b.searchSuggestion.Get(); ok {
		lines = append(lines, "", style.Faint("tab: "+suggestion))
	}

	return b.renderLines(true, lines)
}

func (b *statefulBubble) viewLoading() string {
	return b.renderLines(
		true,
		[]string{
			style.Title("Searching"),
			"",
			b.spinnerC.View() + " " + style.Faint(b.session.Query()),
		},
	)
}

func (b *statefulBubble) viewResults() string {
	listView := listExtraPaddingStyle.Render(b.resultsC.View())

	if viper.GetBool(key.TUIThumbnails) {
		if thumb, ok := b.selectedThumbnail().Get(); ok {
			listView = lipgloss.JoinHorizontal(lipgloss.Top, listView,
				lipgloss.NewStyle().Padding(1, 0, 0, thumbnailGap).Render(thumb))
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, listView, b.viewPlayerBar())
}

// viewPlayerBar renders the transport line: status icon, title, progress and volume.
func (b *statefulBubble) viewPlayerBar() string {
	state := b.controller.State()

	var statusIcon string
	switch state.Status {
	case player.Playing:
		statusIcon = icon.Get(icon.Play)
	case player.Paused:
		statusIcon = icon.Get(icon.Pause)
	case player.Resolving:
		statusIcon = b.spinnerC.View()
	case player.Failed:
		statusIcon = icon.Get(icon.Fail)
	default:
		statusIcon = icon.Get(icon.Stop)
	}

	var title string
	switch state.Status {
	case player.Idle:
		title = style.Faint("nothing playing")
	case player.Stopped:
		title = style.Faint("stopped")
	case player.Failed:
		if state.Err != nil {
			title = style.Fg(style.ErrorColor)(state.Err.Error())
		} else {
			title = style.Fg(style.ErrorColor)("playback failed")
		}
	default:
		title = style.Fg(color.Purple)(state.Title)
	}

	timing := fmt.Sprintf("%s / %s",
		util.FormatDuration(b.elapsed),
		util.FormatDuration(b.total),
	)

	var bar string
	if b.total > 0 {
		bar = b.progressC.ViewAs(b.elapsed / b.total)
	} else {
		bar = b.progressC.ViewAs(0)
	}

	volume := style.Faint(fmt.Sprintf("%s %d%%", icon.Get(icon.Volume), state.Volume))

	return paddingStyle.Render(strings.Join([]string{
		fmt.Sprintf("%s %s", statusIcon, style.Truncate(b.width-4)(title)),
		bar,
		fmt.Sprintf("%s  %s", style.Faint(timing), volume),
	}, "\n"))
}

func (b *statefulBubble) viewError() string {
	errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	errorBody := errorStyle.Render(fmt.Sprintf("Critical Failure: %v", b.lastError))
	errorMsg := wrap.String(errorBody, b.width)
	return b.renderLines(
		true,
		append([]string{
			style.ErrorTitle("Error"),
			"",
			icon.Get(icon.Fail) + " An error occurred:",
			"",
		},
			errorMsg,
		),
	)
}

// selectedThumbnail renders the selected result's thumbnail if its bytes are cached.
func (b *statefulBubble) selectedThumbnail() mo.Option[string] {
	video, ok := b.session.Selected().Get()
	if !ok {
		return mo.None[string]()
	}

	data, state := b.session.Thumbnails.Get(video.ThumbnailURL())
	if state != cache.Ready {
		return mo.None[string]()
	}

	rendered, err := renderThumbnail(data, thumbnailWidth)
	if err != nil {
		return mo.None[string]()
	}
	return mo.Some(rendered)
}

func (b *statefulBubble) renderLines(addHelp bool, lines []string) string {
	h := len(lines)
	l := strings.Join(lines, "\n")
	if addHelp {
		if b.height > h {
			l += strings.Repeat("\n", b.height-h)
		}
		l += b.helpC.View(b.keymap)
	}

	return paddingStyle.Render(l)
}
