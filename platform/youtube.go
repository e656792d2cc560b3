package platform

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/lrstanley/go-ytdlp"
	"github.com/ytap-cli/ytap/log"
)

// audioFormat selects the best audio-only stream, preferring free codecs.
const audioFormat = "bestaudio[ext=webm]/bestaudio[ext=m4a]/bestaudio/best"

// newCommand returns a yt-dlp command pre-configured for quiet, config-independent runs.
func newCommand() *ytdlp.Command {
	return ytdlp.New().
		Quiet().
		NoWarnings().
		IgnoreConfig()
}

// Search issues a YouTube search and returns up to limit results.
// It uses yt-dlp's flat-playlist mode so no per-video extraction happens,
// keeping a search to a single request regardless of result count.
func Search(ctx context.Context, query string, limit int) ([]Video, error) {
	if limit <= 0 {
		limit = 1
	}

	res, err := newCommand().
		FlatPlaylist().
		Print("%(id)s\t%(title)s\t%(channel)s\t%(duration)s").
		Run(ctx, fmt.Sprintf("ytsearch%d:%s", limit, query))
	if err != nil {
		if res != nil {
			log.Errorf("yt-dlp search failed: %v, stderr: %s", err, res.Stderr)
		}
		return nil, Classify(err)
	}

	videos := parseSearchOutput(res.Stdout)
	if len(videos) == 0 {
		return nil, fmt.Errorf("%w for %q", ErrNotFound, query)
	}

	return videos, nil
}

// parseSearchOutput parses the tab-separated print output of a flat-playlist search.
// Malformed lines are skipped rather than failing the whole result set.
func parseSearchOutput(stdout string) []Video {
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	videos := make([]Video, 0, len(lines))

	for _, line := range lines {
		fields := strings.Split(line, "\t")
		if len(fields) < 4 || fields[0] == "" || fields[0] == "NA" {
			continue
		}

		// Live streams report NA for duration; keep them with zero length.
		duration := 0
		if d, err := strconv.ParseFloat(fields[3], 64); err == nil {
			duration = int(d)
		}

		channel := fields[2]
		if channel == "NA" {
			channel = ""
		}

		videos = append(videos, Video{
			ID:              fields[0],
			Title:           fields[1],
			Channel:         channel,
			DurationSeconds: duration,
		})
	}

	return videos
}

// ResolveStream translates a video identifier into a directly playable audio stream URL.
func ResolveStream(ctx context.Context, videoID string) (Stream, error) {
	watchURL := fmt.Sprintf("https://www.youtube.com/watch?v=%s", videoID)

	res, err := newCommand().
		Format(audioFormat).
		Print("%(url)s").
		Run(ctx, "--skip-download", watchURL)
	if err != nil {
		if res != nil {
			log.Errorf("yt-dlp resolve failed for %s: %v, stderr: %s", videoID, err, res.Stderr)
		}
		return Stream{}, Classify(err)
	}

	url := strings.TrimSpace(res.Stdout)
	if url == "" || !strings.Contains(url, "://") {
		return Stream{}, fmt.Errorf("%w: no audio stream for %s", ErrUnplayable, videoID)
	}

	// Multiple formats can print multiple lines; the first is the selected one.
	if idx := strings.IndexByte(url, '\n'); idx != -1 {
		url = strings.TrimSpace(url[:idx])
	}

	return Stream{VideoID: videoID, URL: url}, nil
}
