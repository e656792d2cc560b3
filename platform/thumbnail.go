package platform

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/ytap-cli/ytap/constant"
	"github.com/ytap-cli/ytap/network"
)

// maxThumbnailBytes bounds a single thumbnail download; hqdefault.jpg is ~20KB.
const maxThumbnailBytes = 2 << 20

// FetchThumbnail downloads the thumbnail image at the given URL and returns its raw bytes.
func FetchThumbnail(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", constant.UserAgent)

	resp, err := network.Client.Do(req)
	if err != nil {
		return nil, Classify(err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: thumbnail %s", ErrNotFound, url)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: thumbnail status %d", ErrNetwork, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxThumbnailBytes))
	if err != nil {
		return nil, Classify(err)
	}

	return data, nil
}
