// Package platform implements the YouTube search and stream-resolution collaborators on top of yt-dlp.
package platform

import (
	"fmt"
	"time"
)

// Video is a single immutable search result.
type Video struct {
	ID              string
	Title           string
	Channel         string
	DurationSeconds int
}

// URL returns the canonical watch page address for the video.
func (v Video) URL() string {
	return fmt.Sprintf("https://www.youtube.com/watch?v=%s", v.ID)
}

// ThumbnailURL returns the address of the medium-quality thumbnail for the video.
// YouTube serves hqdefault.jpg for every public video, so no extra metadata round-trip is needed.
func (v Video) ThumbnailURL() string {
	return fmt.Sprintf("https://i.ytimg.com/vi/%s/hqdefault.jpg", v.ID)
}

// Duration returns the video length as a time.Duration.
func (v Video) Duration() time.Duration {
	return time.Duration(v.DurationSeconds) * time.Second
}

// Stream is a resolved, directly playable audio stream for a video.
type Stream struct {
	VideoID string
	URL     string
}
