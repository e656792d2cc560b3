// Package player owns the external mpv process and the authoritative playback
// state machine. The primary engine implementation targets mpv's JSON-IPC
// interface; the Controller on top of it is engine-agnostic.
package player

// Engine encapsulates the required capabilities of an external audio playback process.
type Engine interface {
	// Play spawns the process for the given stream URL with a display title.
	// It blocks until the control channel is ready or spawning failed.
	Play(url string, title string) error

	// TogglePause inverts the current playback suspension state.
	TogglePause() error

	// GetPausedStatus retrieves the current suspension state of the engine.
	GetPausedStatus() (bool, error)

	// GetTimePos retrieves the current absolute playback position in seconds.
	GetTimePos() (float64, error)

	// GetDuration retrieves the total temporal length of the active stream in seconds.
	GetDuration() (float64, error)

	// SeekBy moves the playback position by a relative amount of seconds,
	// clamping at the stream start so elapsed time never goes negative.
	SeekBy(seconds float64) error

	// SetVolume sets the output volume, 0-150.
	SetVolume(volume int) error

	// IsRunning validates the liveness of the underlying process.
	IsRunning() bool

	// Close terminates the process and releases all associated resources.
	// It waits for termination with a bounded grace period, then force-kills.
	Close() error

	// Wait returns a channel that is closed when the process exits.
	Wait() <-chan struct{}

	// ExitError reports how the process exited. It is only meaningful after
	// the Wait channel is closed; nil means a clean end-of-stream exit.
	ExitError() error
}
