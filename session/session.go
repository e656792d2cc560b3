// Package session holds the central coordinator state: the current result
// list, selection, per-session caches and the active status message.
//
// A Session is plain state with no goroutines of its own. All mutations are
// applied by a single consumer (the TUI update loop), which serializes
// keyboard commands and worker completions; the generation tag discards any
// completion that belongs to a superseded search.
package session

import (
	"time"

	"github.com/samber/mo"
	"github.com/ytap-cli/ytap/internal/cache"
	"github.com/ytap-cli/ytap/platform"
)

// Severity grades a status message.
type Severity int

const (
	Info Severity = iota
	Warning
	Error
)

// StatusMessage is a transient toast shown by the presentation layer.
// Most recent wins; nothing is persisted.
type StatusMessage struct {
	Text      string
	Severity  Severity
	CreatedAt time.Time
}

// none marks the empty selection.
const none = -1

// Session is the authoritative UI-facing state for one application run.
type Session struct {
	generation int
	query      string
	results    []platform.Video
	selection  int
	status     mo.Option[StatusMessage]

	// Thumbnails maps a thumbnail URL to raw image bytes.
	Thumbnails *cache.Store[[]byte]
	// Streams maps a video identifier to its resolved audio stream URL.
	Streams *cache.Store[string]
}

// New returns an empty Session with fresh caches.
func New() *Session {
	return &Session{
		selection:  none,
		Thumbnails: cache.New[[]byte](),
		Streams:    cache.New[string](),
	}
}

// BeginSearch enters a new search epoch: the generation advances so every
// completion of the previous epoch becomes stale, and the status clears.
// It returns the new generation for tagging the search job.
func (s *Session) BeginSearch(query string) int {
	s.generation++
	s.query = query
	s.status = mo.None[StatusMessage]()
	return s.generation
}

// Generation returns the current search epoch.
func (s *Session) Generation() int {
	return s.generation
}

// Query returns the most recently submitted search query.
func (s *Session) Query() string {
	return s.query
}

// IsStale reports whether a completion tagged with generation belongs to a
// superseded epoch and must be discarded.
func (s *Session) IsStale(generation int) bool {
	return generation != s.generation
}

// ApplyResults replaces the result set wholesale if the generation is still
// current. Selection resets to the first element, or to none when the set is
// empty. It reports whether the results were applied.
func (s *Session) ApplyResults(generation int, results []platform.Video) bool {
	if s.IsStale(generation) {
		return false
	}

	s.results = results
	if len(results) == 0 {
		s.selection = none
	} else {
		s.selection = 0
	}
	return true
}

// Results returns the current result set.
func (s *Session) Results() []platform.Video {
	return s.results
}

// SelectionIndex returns the selected index, or -1 when nothing is selected.
func (s *Session) SelectionIndex() int {
	return s.selection
}

// Selected returns the currently selected video, if any.
func (s *Session) Selected() mo.Option[platform.Video] {
	if s.selection == none || s.selection >= len(s.results) {
		return mo.None[platform.Video]()
	}
	return mo.Some(s.results[s.selection])
}

// Select moves the selection to index if it is valid and reports whether the
// selection changed.
func (s *Session) Select(index int) bool {
	if index < 0 || index >= len(s.results) || index == s.selection {
		return false
	}
	s.selection = index
	return true
}

// SelectNext advances the selection, saturating at the last result.
// No wraparound: pressing next at the end keeps the selection in place.
func (s *Session) SelectNext() bool {
	if s.selection == none || s.selection+1 >= len(s.results) {
		return false
	}
	s.selection++
	return true
}

// SelectPrev moves the selection back, saturating at the first result.
func (s *Session) SelectPrev() bool {
	if s.selection <= 0 {
		return false
	}
	s.selection--
	return true
}

// SetStatus replaces the active status message.
func (s *Session) SetStatus(text string, severity Severity) {
	s.status = mo.Some(StatusMessage{
		Text:      text,
		Severity:  severity,
		CreatedAt: time.Now(),
	})
}

// Status returns the active status message, if any.
func (s *Session) Status() mo.Option[StatusMessage] {
	return s.status
}

// ClearStatus removes the active status message.
func (s *Session) ClearStatus() {
	s.status = mo.None[StatusMessage]()
}
