package platform

import (
	"context"
	"errors"
	"net"
	"strings"
)

// Sentinel errors classifying every failure the collaborators can produce.
// Callers match with errors.Is and translate into status messages.
var (
	ErrNetwork    = errors.New("network failure")
	ErrNotFound   = errors.New("nothing found")
	ErrUnplayable = errors.New("video is unplayable")
	ErrTimeout    = errors.New("operation timed out")
	ErrProcess    = errors.New("external process failure")
)

// Classify maps an arbitrary error onto the platform error taxonomy.
// Unrecognized errors pass through unchanged so their message is preserved.
func Classify(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, ErrNetwork),
		errors.Is(err, ErrNotFound),
		errors.Is(err, ErrUnplayable),
		errors.Is(err, ErrTimeout),
		errors.Is(err, ErrProcess):
		return err
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return ErrTimeout
		}
		return ErrNetwork
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "no such host"),
		strings.Contains(msg, "connection refused"),
		strings.Contains(msg, "network is unreachable"):
		return ErrNetwork
	case strings.Contains(msg, "timed out"),
		strings.Contains(msg, "deadline exceeded"):
		return ErrTimeout
	case strings.Contains(msg, "video unavailable"),
		strings.Contains(msg, "drm"),
		strings.Contains(msg, "members-only"),
		strings.Contains(msg, "private video"):
		return ErrUnplayable
	}

	return err
}
