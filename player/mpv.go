package player

import (
	"crypto/rand"
	"fmt"
	"net"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/ytap-cli/ytap/constant"
	"github.com/ytap-cli/ytap/log"
)

const (
	socketWaitRetries = 10
	socketWaitDelay   = 300 * time.Millisecond
	closeGracePeriod  = 3 * time.Second
)

// MPV implements the Engine interface using mpv's JSON-IPC protocol.
//
// The process is started without --idle, so it exits on its own when the
// stream ends; the Wait channel closing with a nil ExitError is the
// end-of-stream signal.
type MPV struct {
	socketPath string
	cmd        *exec.Cmd
	exited     chan struct{}
	exitErr    error
	mu         sync.Mutex // Protects socket writes
}

// NewMPV creates a new MPV engine instance (does not start playback).
func NewMPV() *MPV {
	return &MPV{
		exited: make(chan struct{}),
	}
}

// Play spawns mpv for the given audio stream URL.
func (m *MPV) Play(rawURL string, title string) error {
	safeURL, err := sanitizeStreamTarget(rawURL)
	if err != nil {
		return fmt.Errorf("invalid stream target: %w", err)
	}

	safeTitle := sanitizeTitle(title)

	// Random socket path under os.TempDir() for cross-platform support
	// (macOS $TMPDIR is /var/folders/... not /tmp/).
	if m.socketPath == "" {
		randomBytes := make([]byte, 4)
		if _, err := rand.Read(randomBytes); err != nil {
			return fmt.Errorf("generate socket name: %w", err)
		}
		m.socketPath = filepath.Join(os.TempDir(), fmt.Sprintf("%s-%x.sock", constant.Ytap, randomBytes))
	}

	// Audio only: no video track decode, no window. The process exits at
	// natural end-of-stream because --idle is deliberately absent.
	args := []string{
		"--no-terminal",
		"--really-quiet",
		"--no-video",
		"--force-window=no",
		fmt.Sprintf("--input-ipc-server=%s", m.socketPath),
		fmt.Sprintf("--force-media-title=%s", safeTitle),
		safeURL,
	}

	m.cmd = exec.Command("mpv", args...)

	// Detach from parent process group to prevent cascading shell signals.
	m.cmd.SysProcAttr = sysProcAttr()

	m.cmd.Stdout = nil
	m.cmd.Stderr = nil
	m.cmd.Stdin = nil

	if err := m.cmd.Start(); err != nil {
		return fmt.Errorf("start mpv: %w", err)
	}

	// Reap the process to prevent zombies and record how it exited.
	m.exited = make(chan struct{})
	go func() {
		m.exitErr = m.cmd.Wait()
		close(m.exited)
	}()

	if err := m.waitForSocket(); err != nil {
		// Socket never became ready; kill the orphaned process.
		select {
		case <-m.exited:
		default:
			log.Warnf("killing mpv: socket never became ready")
			_ = m.cmd.Process.Kill()
		}
		return fmt.Errorf("mpv socket not ready: %w", err)
	}

	return nil
}

// Wait returns a channel that is closed when the mpv process exits.
func (m *MPV) Wait() <-chan struct{} {
	return m.exited
}

// ExitError reports the process exit status recorded by the reaper goroutine.
func (m *MPV) ExitError() error {
	select {
	case <-m.exited:
		return m.exitErr
	default:
		return nil
	}
}

// waitForSocket polls until the mpv IPC socket is accepting connections.
func (m *MPV) waitForSocket() error {
	for i := 0; i < socketWaitRetries; i++ {
		time.Sleep(socketWaitDelay)

		select {
		case <-m.exited:
			return fmt.Errorf("mpv exited before socket was ready")
		default:
		}

		conn, err := net.Dial("unix", m.socketPath)
		if err == nil {
			conn.Close()
			return nil
		}
	}
	return fmt.Errorf("socket %s not ready after %d attempts", m.socketPath, socketWaitRetries)
}

// GetTimePos returns the current playback position in seconds.
func (m *MPV) GetTimePos() (float64, error) {
	return m.getFloatProperty("time-pos")
}

// GetDuration returns the total duration of the current stream in seconds.
func (m *MPV) GetDuration() (float64, error) {
	return m.getFloatProperty("duration")
}

// GetPausedStatus returns whether playback is currently paused.
func (m *MPV) GetPausedStatus() (bool, error) {
	data, err := m.sendCommand([]interface{}{"get_property", "pause"})
	if err != nil {
		return false, err
	}
	paused, ok := data.(bool)
	if !ok {
		return false, nil
	}
	return paused, nil
}

// TogglePause inverts the pause property.
func (m *MPV) TogglePause() error {
	_, err := m.sendCommand([]interface{}{"cycle", "pause"})
	return err
}

// SeekBy issues a relative seek, clamping at the stream start. Seeking past
// the end is left to mpv, which reports natural end-of-stream by exiting.
func (m *MPV) SeekBy(seconds float64) error {
	if seconds < 0 {
		pos, err := m.GetTimePos()
		if err == nil && pos+seconds < 0 {
			_, err = m.sendCommand([]interface{}{"seek", 0, "absolute"})
			return err
		}
	}

	_, err := m.sendCommand([]interface{}{"seek", seconds, "relative"})
	return err
}

// SetVolume sets the output volume.
func (m *MPV) SetVolume(volume int) error {
	_, err := m.sendCommand([]interface{}{"set_property", "volume", volume})
	return err
}

// IsRunning reports whether mpv is responding to IPC commands.
func (m *MPV) IsRunning() bool {
	if m.socketPath == "" {
		return false
	}

	select {
	case <-m.exited:
		return false
	default:
	}

	_, err := m.sendCommand([]interface{}{"get_property", "pid"})
	return err == nil
}

// Close shuts down the mpv process and cleans up resources.
func (m *MPV) Close() error {
	if m.socketPath == "" {
		return nil
	}

	// Try graceful quit via IPC first.
	_, _ = m.sendCommand([]interface{}{"quit"})

	select {
	case <-m.exited:
	case <-time.After(closeGracePeriod):
		_ = killProcess(m.cmd)
	}

	_ = os.Remove(m.socketPath)

	return nil
}

// getFloatProperty is a helper to retrieve a float64 mpv property via IPC.
func (m *MPV) getFloatProperty(name string) (float64, error) {
	data, err := m.sendCommand([]interface{}{"get_property", name})
	if err != nil {
		return 0, err
	}

	if data == nil {
		return 0, fmt.Errorf("property %s: nil response", name)
	}

	val, ok := data.(float64)
	if !ok {
		return 0, fmt.Errorf("property %s: expected float64, got %T", name, data)
	}

	return val, nil
}

// sanitizeStreamTarget validates that a URL is safe to pass to mpv as a
// positional argument. Prevents flag injection.
func sanitizeStreamTarget(link string) (string, error) {
	l := strings.TrimSpace(link)
	if l == "" {
		return "", fmt.Errorf("empty URL")
	}

	if strings.ContainsAny(l, "\x00\n\r") {
		return "", fmt.Errorf("invalid control characters in URL")
	}

	if strings.HasPrefix(l, "-") {
		return "", fmt.Errorf("url must not start with '-' (looks like a flag)")
	}

	if strings.Contains(l, "://") {
		u, err := url.Parse(l)
		if err != nil {
			return "", fmt.Errorf("invalid URL: %w", err)
		}
		switch strings.ToLower(u.Scheme) {
		case "http", "https":
			return l, nil
		default:
			return "", fmt.Errorf("unsupported URL scheme: %s", u.Scheme)
		}
	}

	// Treat as local file path.
	return filepath.Clean(l), nil
}

// sanitizeTitle cleans up the title before it is handed to mpv.
func sanitizeTitle(title string) string {
	t := strings.ReplaceAll(title, "\n", " ")
	t = strings.ReplaceAll(t, "\r", " ")
	t = strings.ReplaceAll(t, "\t", " ")
	t = strings.ReplaceAll(t, "\x00", "")
	return strings.TrimSpace(t)
}
