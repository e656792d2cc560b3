// Package tui provides the primary terminal user interface implementation.
package tui

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/nfnt/resize"
)

const (
	// thumbnailWidth is the rendered thumbnail width in terminal cells.
	thumbnailWidth = 28
	// thumbnailGap separates the thumbnail from the result list.
	thumbnailGap = 2
)

// renderThumbnail converts raw image bytes into half-block ANSI art.
// Each terminal cell carries two vertically stacked pixels: the upper one as
// the foreground of "▀", the lower one as its background.
func renderThumbnail(data []byte, width int) (string, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("decode thumbnail: %w", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return "", fmt.Errorf("empty thumbnail")
	}

	// Terminal cells are roughly twice as tall as wide; with two pixels per
	// cell the pixel grid comes out square again.
	height := width * bounds.Dy() / bounds.Dx()
	if height%2 != 0 {
		height++
	}
	if height == 0 {
		height = 2
	}

	scaled := resize.Resize(uint(width), uint(height), img, resize.Bilinear)

	var sb strings.Builder
	for y := 0; y < height; y += 2 {
		for x := 0; x < width; x++ {
			upper := hexColor(scaled.At(x, y))
			lower := hexColor(scaled.At(x, y+1))

			sb.WriteString(lipgloss.NewStyle().
				Foreground(lipgloss.Color(upper)).
				Background(lipgloss.Color(lower)).
				Render("▀"))
		}
		if y+2 < height {
			sb.WriteByte('\n')
		}
	}

	return sb.String(), nil
}

// hexColor formats a pixel as a #rrggbb string for lipgloss.
func hexColor(c interface{ RGBA() (r, g, b, a uint32) }) string {
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("#%02x%02x%02x", uint8(r>>8), uint8(g>>8), uint8(b>>8))
}
