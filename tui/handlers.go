// Package tui provides the primary terminal user interface implementation.
package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/bubbles/list"
	"github.com/spf13/viper"
	"github.com/ytap-cli/ytap/internal/cache"
	"github.com/ytap-cli/ytap/key"
	"github.com/ytap-cli/ytap/log"
	"github.com/ytap-cli/ytap/platform"
	"github.com/ytap-cli/ytap/player"
	"github.com/ytap-cli/ytap/query"
	"github.com/ytap-cli/ytap/session"
	"github.com/ytap-cli/ytap/worker"
)

// Messages delivered into the update loop by the channel pumps below.
type (
	jobResultMsg    struct{ result worker.Result }
	playerEventMsg  struct{ event player.Event }
	playbackStarted struct{ videoID string }
	playbackFailed  struct {
		videoID string
		err     error
	}
)

// waitForJob pumps the dispatcher's single ordered result channel into the
// update loop. Re-issued after every delivery so exactly one reader exists.
func (b *statefulBubble) waitForJob() tea.Cmd {
	return func() tea.Msg {
		result, ok := <-b.dispatcher.Results()
		if !ok {
			return nil
		}
		return jobResultMsg{result: result}
	}
}

// waitForPlayerEvent pumps playback controller events into the update loop.
func (b *statefulBubble) waitForPlayerEvent() tea.Cmd {
	return func() tea.Msg {
		event, ok := <-b.controller.Events()
		if !ok {
			return nil
		}
		return playerEventMsg{event: event}
	}
}

// searchVideos submits a generation-tagged search job.
func (b *statefulBubble) searchVideos(searchQuery string) tea.Cmd {
	generation := b.session.BeginSearch(searchQuery)
	limit := viper.GetInt(key.SearchLimit)

	if err := query.Remember(searchQuery, 1); err != nil {
		log.Warnf("remember query: %v", err)
	}

	return func() tea.Msg {
		b.dispatcher.Submit(worker.Job{
			Kind:       worker.Search,
			Generation: generation,
			TargetID:   searchQuery,
			Run: func(ctx context.Context) (any, error) {
				return platform.Search(ctx, searchQuery, limit)
			},
		})
		return nil
	}
}

// fetchThumbnails begins a coalesced fetch for every result's thumbnail.
// Keys that are already Pending or Ready submit no new work.
func (b *statefulBubble) fetchThumbnails(generation int, videos []platform.Video) tea.Cmd {
	if !viper.GetBool(key.TUIThumbnails) {
		return nil
	}

	return func() tea.Msg {
		for _, video := range videos {
			url := video.ThumbnailURL()
			if !b.session.Thumbnails.BeginFetch(url) {
				continue
			}

			b.dispatcher.Submit(worker.Job{
				Kind:       worker.ThumbnailFetch,
				Generation: generation,
				TargetID:   url,
				Run: func(ctx context.Context) (any, error) {
					return platform.FetchThumbnail(ctx, url)
				},
			})
		}
		return nil
	}
}

// playSelected starts playback of the currently selected result. The stream
// URL comes from the coalesced cache: Ready plays immediately, Absent/Failed
// submits one resolve job, Pending attaches to the in-flight one.
func (b *statefulBubble) playSelected() tea.Cmd {
	video, ok := b.session.Selected().Get()
	if !ok {
		b.session.SetStatus("nothing selected", session.Warning)
		return b.notifier.Update(b.session.Status().MustGet())
	}

	b.controller.StartResolving(video.ID, video.Title)

	if url, state := b.session.Streams.Get(video.ID); state == cache.Ready {
		return b.startPlayback(video.ID, url)
	}

	if !b.session.Streams.BeginFetch(video.ID) {
		// Already resolving; the job result will start playback.
		return nil
	}

	generation := b.session.Generation()
	return func() tea.Msg {
		b.dispatcher.Submit(worker.Job{
			Kind:       worker.StreamResolve,
			Generation: generation,
			TargetID:   video.ID,
			Run: func(ctx context.Context) (any, error) {
				stream, err := platform.ResolveStream(ctx, video.ID)
				if err != nil {
					return nil, err
				}
				return stream.URL, nil
			},
		})
		return nil
	}
}

// startPlayback hands a resolved URL to the controller off the update loop;
// spawning mpv waits for its IPC socket and must not block rendering.
func (b *statefulBubble) startPlayback(videoID, streamURL string) tea.Cmd {
	return func() tea.Msg {
		if err := b.controller.Resolved(videoID, streamURL); err != nil {
			return playbackFailed{videoID: videoID, err: fmt.Errorf("%w: %v", platform.ErrProcess, err)}
		}
		return playbackStarted{videoID: videoID}
	}
}

// statusCmd records a status message on the session and shows it as a toast.
func (b *statefulBubble) statusCmd(severity session.Severity, format string, args ...any) tea.Cmd {
	b.session.SetStatus(fmt.Sprintf(format, args...), severity)
	return b.notifier.Update(b.session.Status().MustGet())
}

// statusForError maps a classified failure onto a user-facing toast.
func (b *statefulBubble) statusForError(context string, err error) tea.Cmd {
	classified := platform.Classify(err)

	severity := session.Error
	var text string
	switch {
	case errors.Is(classified, platform.ErrNetwork):
		text = fmt.Sprintf("%s: network failure", context)
	case errors.Is(classified, platform.ErrTimeout):
		text = fmt.Sprintf("%s: timed out", context)
	case errors.Is(classified, platform.ErrNotFound):
		severity = session.Warning
		text = fmt.Sprintf("%s: nothing found", context)
	case errors.Is(classified, platform.ErrUnplayable):
		text = fmt.Sprintf("%s: unplayable", context)
	default:
		text = fmt.Sprintf("%s: %v", context, err)
	}

	return b.statusCmd(severity, "%s", text)
}

// setResultItems swaps the list contents for a fresh result set.
func (b *statefulBubble) setResultItems(videos []platform.Video) tea.Cmd {
	items := make([]list.Item, len(videos))
	for i, video := range videos {
		items[i] = &listItem{video: video, bubble: b}
	}
	cmd := b.resultsC.SetItems(items)
	b.resultsC.ResetSelected()
	return cmd
}

// syncListSelection mirrors the session's selection onto the list component.
func (b *statefulBubble) syncListSelection() {
	if idx := b.session.SelectionIndex(); idx >= 0 {
		b.resultsC.Select(idx)
	}
}
