// Package tui provides the primary terminal user interface implementation.
package tui

import (
	"errors"
	"strings"

	bubblesKey "github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/viper"
	"github.com/ytap-cli/ytap/key"
	"github.com/ytap-cli/ytap/log"
	"github.com/ytap-cli/ytap/open"
	"github.com/ytap-cli/ytap/platform"
	"github.com/ytap-cli/ytap/player"
	"github.com/ytap-cli/ytap/query"
	"github.com/ytap-cli/ytap/session"
	"github.com/ytap-cli/ytap/worker"
)

// Update is the single serialized reducer: keyboard commands, worker results
// and playback events all pass through here in arrival order, so shared state
// is never mutated concurrently.
func (b *statefulBubble) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		b.resize(msg.Width, msg.Height)
		return b, nil

	case tea.KeyMsg:
		if bubblesKey.Matches(msg, b.keymap.forceQuit) {
			return b, b.shutdown()
		}

	case jobResultMsg:
		cmd := b.onJobResult(msg.result)
		return b, tea.Batch(cmd, b.waitForJob())

	case playerEventMsg:
		cmd := b.onPlayerEvent(msg.event)
		return b, tea.Batch(cmd, b.waitForPlayerEvent())

	case playbackStarted:
		return b, nil

	case playbackFailed:
		// A broken player process is unrecoverable from the results view.
		if errors.Is(platform.Classify(msg.err), platform.ErrProcess) {
			b.raiseError(msg.err)
			return b, nil
		}
		return b, b.statusForError("playback", msg.err)
	}

	if cmd := b.notifier.Update(msg); cmd != nil {
		return b, cmd
	}

	switch b.state {
	case searchState:
		return b.updateSearch(msg)
	case loadingState:
		return b.updateLoading(msg)
	case resultsState:
		return b.updateResults(msg)
	case errorState:
		return b.updateError(msg)
	default:
		return b, nil
	}
}

// updateSearch handles the query input view.
func (b *statefulBubble) updateSearch(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case bubblesKey.Matches(msg, b.keymap.confirm):
			searchQuery := strings.TrimSpace(b.inputC.Value())
			if searchQuery == "" {
				return b, nil
			}

			// The Init-started pumps keep consuming results; only the
			// search job itself is issued here.
			b.newState(loadingState)
			return b, tea.Batch(
				b.startLoading(),
				b.searchVideos(searchQuery),
			)

		case bubblesKey.Matches(msg, b.keymap.acceptSearchSuggestion):
			if suggestion, ok := b.searchSuggestion.Get(); ok {
				b.inputC.SetValue(suggestion)
				b.inputC.CursorEnd()
			}
			return b, nil

		case bubblesKey.Matches(msg, b.keymap.back):
			if b.statesHistory.Len() > 0 {
				b.previousState()
			}
			return b, nil
		}
	}

	var cmd tea.Cmd
	b.inputC, cmd = b.inputC.Update(msg)

	b.searchSuggestion = query.Suggest(b.inputC.Value())

	return b, cmd
}

// updateLoading handles the search-in-flight view.
func (b *statefulBubble) updateLoading(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if bubblesKey.Matches(msg, b.keymap.back) {
			// The job result, when it lands, is discarded by generation.
			b.session.BeginSearch(b.session.Query())
			b.stopLoading()
			b.setState(searchState)
			return b, nil
		}
		return b, nil
	}

	var cmd tea.Cmd
	b.spinnerC, cmd = b.spinnerC.Update(msg)
	return b, cmd
}

// updateResults handles the result list and all transport commands.
func (b *statefulBubble) updateResults(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case bubblesKey.Matches(msg, b.keymap.play):
			b.session.Select(b.resultsC.Index())
			return b, b.playSelected()

		case bubblesKey.Matches(msg, b.keymap.playPause):
			if err := b.controller.TogglePause(); err != nil {
				return b, b.statusCmd(session.Warning, "%v", err)
			}
			b.paused = b.controller.State().Status == player.Paused
			return b, nil

		case bubblesKey.Matches(msg, b.keymap.seekBack):
			return b, b.seekBy(-b.seekStep())

		case bubblesKey.Matches(msg, b.keymap.seekForward):
			return b, b.seekBy(b.seekStep())

		case bubblesKey.Matches(msg, b.keymap.nextTrack):
			if b.session.SelectNext() {
				b.syncListSelection()
				return b, b.playSelected()
			}
			return b, b.statusCmd(session.Info, "already at the last result")

		case bubblesKey.Matches(msg, b.keymap.prevTrack):
			if b.session.SelectPrev() {
				b.syncListSelection()
				return b, b.playSelected()
			}
			return b, b.statusCmd(session.Info, "already at the first result")

		case bubblesKey.Matches(msg, b.keymap.stop):
			b.controller.Stop()
			b.elapsed, b.total, b.paused = 0, 0, false
			return b, b.statusCmd(session.Info, "stopped")

		case bubblesKey.Matches(msg, b.keymap.volumeUp):
			return b, b.changeVolume(b.volumeStep())

		case bubblesKey.Matches(msg, b.keymap.volumeDown):
			return b, b.changeVolume(-b.volumeStep())

		case bubblesKey.Matches(msg, b.keymap.openURL):
			if video, ok := b.session.Selected().Get(); ok {
				if err := open.Start(video.URL()); err != nil {
					return b, b.statusCmd(session.Warning, "open url: %v", err)
				}
			}
			return b, nil

		case bubblesKey.Matches(msg, b.keymap.newSearch):
			b.inputC.SetValue("")
			b.inputC.Focus()
			b.newState(searchState)
			return b, textinput.Blink

		case bubblesKey.Matches(msg, b.keymap.back):
			b.previousState()
			return b, nil
		}
	}

	var cmd tea.Cmd
	b.resultsC, cmd = b.resultsC.Update(msg)

	// Keep the session selection in lockstep with cursor movement.
	b.session.Select(b.resultsC.Index())

	return b, cmd
}

// updateError handles the failure view.
func (b *statefulBubble) updateError(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case bubblesKey.Matches(msg, b.keymap.back):
			b.previousState()
			return b, nil
		case bubblesKey.Matches(msg, b.keymap.quit):
			return b, b.shutdown()
		}
	}
	return b, nil
}

// onJobResult merges one worker completion into state. Stale generations are
// discarded here, which is the only cancellation mechanism for in-flight work.
func (b *statefulBubble) onJobResult(result worker.Result) tea.Cmd {
	switch result.Kind {
	case worker.Search:
		if b.session.IsStale(result.Generation) {
			log.Debugf("discarding stale search result for %q", result.TargetID)
			return nil
		}

		b.stopLoading()

		if result.Err != nil {
			b.setState(searchState)
			return b.statusForError("search", result.Err)
		}

		videos := result.Value.([]platform.Video)
		b.session.ApplyResults(result.Generation, videos)
		b.newState(resultsState)

		return tea.Batch(
			b.setResultItems(videos),
			b.fetchThumbnails(result.Generation, videos),
		)

	case worker.ThumbnailFetch:
		// The cache is keyed by a stable URL: record the outcome regardless
		// of generation so a later search for the same video reuses it.
		if result.Err != nil {
			b.session.Thumbnails.Fail(result.TargetID, result.Err)
			if b.session.IsStale(result.Generation) {
				return nil
			}
			// A failed thumbnail degrades to a placeholder, never blocks results.
			return b.statusCmd(session.Warning, "thumbnail unavailable")
		}

		b.session.Thumbnails.Complete(result.TargetID, result.Value.([]byte))
		return nil

	case worker.StreamResolve:
		videoID := result.TargetID

		if result.Err != nil {
			b.session.Streams.Fail(videoID, result.Err)
			b.controller.ResolveFailed(videoID, result.Err)
			return b.statusForError("resolve stream", result.Err)
		}

		streamURL := result.Value.(string)
		b.session.Streams.Complete(videoID, streamURL)

		// Only start playback if the user still wants this video.
		state := b.controller.State()
		if state.Status == player.Resolving && state.VideoID == videoID {
			return b.startPlayback(videoID, streamURL)
		}
		return nil

	default:
		return nil
	}
}

// onPlayerEvent merges one playback controller event into state.
func (b *statefulBubble) onPlayerEvent(event player.Event) tea.Cmd {
	switch event := event.(type) {
	case player.ProgressEvent:
		b.elapsed = event.Elapsed
		b.total = event.Total
		b.paused = event.Paused
		return nil

	case player.EndOfStreamEvent:
		b.elapsed, b.total, b.paused = 0, 0, false

		// Auto-advance to the next result; saturate quietly at the end.
		if b.session.SelectNext() {
			b.syncListSelection()
			return b.playSelected()
		}
		return b.statusCmd(session.Info, "end of results")

	case player.ProcessErrorEvent:
		b.elapsed, b.total, b.paused = 0, 0, false
		return b.statusForError("player", event.Err)

	default:
		return nil
	}
}

// seekStep returns the configured per-keypress seek distance in seconds.
func (b *statefulBubble) seekStep() float64 {
	step := viper.GetInt(key.PlayerSeekStep)
	if step <= 0 {
		step = 10
	}
	return float64(step)
}

// volumeStep returns the configured per-keypress volume change.
func (b *statefulBubble) volumeStep() int {
	step := viper.GetInt(key.PlayerVolumeStep)
	if step <= 0 {
		step = 5
	}
	return step
}

// seekBy forwards a relative seek to the controller.
func (b *statefulBubble) seekBy(seconds float64) tea.Cmd {
	if err := b.controller.SeekBy(seconds); err != nil {
		return b.statusCmd(session.Warning, "%v", err)
	}
	return nil
}

// changeVolume adjusts the volume and reports the new value as a toast.
func (b *statefulBubble) changeVolume(delta int) tea.Cmd {
	volume, err := b.controller.VolumeDelta(delta)
	if err != nil {
		return b.statusCmd(session.Warning, "volume: %v", err)
	}
	return b.statusCmd(session.Info, "volume %d%%", volume)
}

// shutdown releases the player process and the worker pool before quitting.
// Both waits happen inside the command so the update loop stays responsive
// while the player process terminates.
func (b *statefulBubble) shutdown() tea.Cmd {
	return func() tea.Msg {
		b.controller.Close()
		b.dispatcher.Close()
		return tea.Quit()
	}
}
