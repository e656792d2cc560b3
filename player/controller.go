package player

import (
	"fmt"
	"sync"
	"time"

	"github.com/spf13/viper"
	"github.com/ytap-cli/ytap/key"
	"github.com/ytap-cli/ytap/log"
)

// Status enumerates the playback state machine positions.
type Status int

const (
	Idle Status = iota
	Resolving
	Playing
	Paused
	Stopped
	Failed
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Resolving:
		return "resolving"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	case Stopped:
		return "stopped"
	case Failed:
		return "error"
	default:
		return "unknown"
	}
}

// State is an immutable snapshot of the playback state machine.
type State struct {
	Status  Status
	VideoID string
	Title   string
	Volume  int
	Err     error
}

// Active reports whether the state refers to a live playback session.
func (s State) Active() bool {
	return s.Status == Playing || s.Status == Paused
}

// Event is one of ProgressEvent, EndOfStreamEvent or ProcessErrorEvent,
// delivered on the Controller's event channel.
type Event any

// ProgressEvent carries a polled playback position.
type ProgressEvent struct {
	VideoID string
	Elapsed float64
	Total   float64
	Paused  bool
}

// EndOfStreamEvent signals a natural end-of-stream exit of the engine.
type EndOfStreamEvent struct {
	VideoID string
}

// ProcessErrorEvent signals that the engine crashed or failed mid-playback.
type ProcessErrorEvent struct {
	VideoID string
	Err     error
}

const (
	minVolume = 0
	maxVolume = 150

	eventBufSize = 32
)

// Controller owns the single external engine process handle and the
// authoritative playback state. All transitions go through its methods;
// the engine handle is never touched by anyone else, so concurrent start
// requests serialize on the internal mutex and a new start always fully
// supersedes the previous process before spawning the next.
type Controller struct {
	mu     sync.Mutex
	state  State
	engine Engine

	newEngine    func() Engine
	pollInterval time.Duration

	events   chan Event
	pollStop chan struct{}

	// stopping is closed once every previously started engine process has
	// fully terminated. The next spawn waits on it off the caller's thread.
	stopping chan struct{}
}

// NewController creates a Controller that spawns engines through the given
// factory. A nil factory defaults to mpv.
func NewController(newEngine func() Engine) *Controller {
	if newEngine == nil {
		newEngine = func() Engine { return NewMPV() }
	}

	interval := time.Duration(viper.GetInt(key.PlayerPollIntervalMS)) * time.Millisecond
	if interval <= 0 {
		interval = 400 * time.Millisecond
	}

	volume := viper.GetInt(key.PlayerVolumeDefault)
	if volume == 0 {
		volume = 80
	}

	return &Controller{
		state:        State{Status: Idle, Volume: clampVolume(volume)},
		newEngine:    newEngine,
		pollInterval: interval,
		events:       make(chan Event, eventBufSize),
	}
}

// State returns a snapshot of the current playback state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Events returns the channel carrying progress and termination events.
func (c *Controller) Events() <-chan Event {
	return c.events
}

// StartResolving supersedes any active session and enters Resolving for the
// given video. Termination of the previous engine process begins immediately
// but is awaited by the next spawn, not by the caller, so this never blocks
// on process I/O and is safe to call from the update loop.
func (c *Controller) StartResolving(videoID, title string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.beginStopLocked()
	c.state = State{Status: Resolving, VideoID: videoID, Title: title, Volume: c.state.Volume}
}

// Resolved transitions Resolving to Playing by spawning the engine with the
// resolved stream URL. It blocks until the superseded process (if any) has
// fully terminated and the new one is ready, so it must run off the update
// loop. A resolution for a video the controller is no longer resolving is
// discarded.
func (c *Controller) Resolved(videoID, streamURL string) error {
	c.mu.Lock()
	if c.state.Status != Resolving || c.state.VideoID != videoID {
		// Superseded while the URL was being resolved.
		c.mu.Unlock()
		return nil
	}
	stopping := c.stopping
	title := c.state.Title
	volume := c.state.Volume
	c.mu.Unlock()

	// At most one process alive: the previous one must be gone first.
	if stopping != nil {
		<-stopping
	}

	engine := c.newEngine()
	if err := engine.Play(streamURL, title); err != nil {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.state.Status == Resolving && c.state.VideoID == videoID {
			c.state.Status = Failed
			c.state.Err = err
		}
		return err
	}

	if err := engine.SetVolume(volume); err != nil {
		log.Warnf("set initial volume: %v", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Status != Resolving || c.state.VideoID != videoID {
		// Superseded while spawning; chain the orphan into the stop sequence
		// so the next spawn waits for it too.
		prev := c.stopping
		done := make(chan struct{})
		c.stopping = done
		go func() {
			if prev != nil {
				<-prev
			}
			if err := engine.Close(); err != nil {
				log.Warnf("close engine: %v", err)
			}
			<-engine.Wait()
			close(done)
		}()
		return nil
	}

	if c.stopping == stopping {
		c.stopping = nil
	}

	c.engine = engine
	c.state.Status = Playing
	c.state.Err = nil

	c.pollStop = make(chan struct{})
	go c.poll(engine, c.state.VideoID, c.pollStop)

	return nil
}

// ResolveFailed transitions Resolving to the error state.
func (c *Controller) ResolveFailed(videoID string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Status != Resolving || c.state.VideoID != videoID {
		return
	}

	c.state.Status = Failed
	c.state.Err = err
}

// TogglePause flips between Playing and Paused.
func (c *Controller) TogglePause() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.state.Active() || c.engine == nil {
		return fmt.Errorf("nothing is playing")
	}

	if err := c.engine.TogglePause(); err != nil {
		return err
	}

	if c.state.Status == Playing {
		c.state.Status = Paused
	} else {
		c.state.Status = Playing
	}
	return nil
}

// SeekBy issues a relative seek, clamped so the resulting position stays
// within [0, duration]. Valid only while Playing or Paused.
func (c *Controller) SeekBy(seconds float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.state.Active() || c.engine == nil {
		return fmt.Errorf("nothing is playing")
	}

	pos, err := c.engine.GetTimePos()
	if err != nil {
		return err
	}

	if total, err := c.engine.GetDuration(); err == nil && total > 0 && pos+seconds > total {
		seconds = total - pos
	}
	if pos+seconds < 0 {
		seconds = -pos
	}

	return c.engine.SeekBy(seconds)
}

// VolumeDelta adjusts the volume by delta, clamped to [0, 150], and returns
// the new value. Without an active process the stored volume still changes
// and is applied when the next session starts.
func (c *Controller) VolumeDelta(delta int) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.Volume = clampVolume(c.state.Volume + delta)

	if c.engine != nil && c.engine.IsRunning() {
		if err := c.engine.SetVolume(c.state.Volume); err != nil {
			return c.state.Volume, err
		}
	}

	return c.state.Volume, nil
}

// Stop terminates any active session and enters Stopped. Like StartResolving
// it only initiates termination and never blocks on process I/O.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.beginStopLocked()
	c.state = State{Status: Stopped, Volume: c.state.Volume}
}

// Close releases the engine process, waiting for its termination so no
// orphan survives the application. The controller is unusable afterwards.
func (c *Controller) Close() {
	c.Stop()

	c.mu.Lock()
	stopping := c.stopping
	c.mu.Unlock()

	if stopping != nil {
		<-stopping
	}
}

// beginStopLocked stops the poll loop and initiates termination of the
// current engine process. The actual close-and-wait runs on a background
// goroutine, chained behind any earlier still-running termination; the
// stopping channel closes once the whole chain has drained. Callers must
// hold the mutex.
func (c *Controller) beginStopLocked() {
	if c.pollStop != nil {
		close(c.pollStop)
		c.pollStop = nil
	}

	if c.engine == nil {
		return
	}

	engine := c.engine
	c.engine = nil

	prev := c.stopping
	done := make(chan struct{})
	c.stopping = done

	go func() {
		if prev != nil {
			<-prev
		}
		if err := engine.Close(); err != nil {
			log.Warnf("close engine: %v", err)
		}
		<-engine.Wait()
		close(done)
	}()
}

// poll periodically queries the engine for elapsed/total time and watches for
// process exit. It runs per session and ends when the session is superseded.
func (c *Controller) poll(engine Engine, videoID string, stop <-chan struct{}) {
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return

		case <-engine.Wait():
			c.onEngineExit(engine, videoID, stop)
			return

		case <-ticker.C:
			elapsed, err := engine.GetTimePos()
			if err != nil {
				continue
			}
			total, err := engine.GetDuration()
			if err != nil {
				total = 0
			}
			paused, _ := engine.GetPausedStatus()

			c.emit(ProgressEvent{VideoID: videoID, Elapsed: elapsed, Total: total, Paused: paused})
		}
	}
}

// onEngineExit distinguishes natural end-of-stream from a crash and moves the
// state machine accordingly. A deliberate stop (stop channel closed) is not a
// transition; beginStopLocked already set the new state.
func (c *Controller) onEngineExit(engine Engine, videoID string, stop <-chan struct{}) {
	c.mu.Lock()
	defer c.mu.Unlock()

	select {
	case <-stop:
		return
	default:
	}

	c.pollStop = nil
	c.engine = nil

	if exitErr := engine.ExitError(); exitErr != nil {
		c.state = State{Status: Failed, VideoID: videoID, Volume: c.state.Volume, Err: exitErr}
		c.emit(ProcessErrorEvent{VideoID: videoID, Err: exitErr})
		return
	}

	c.state = State{Status: Stopped, Volume: c.state.Volume}
	c.emit(EndOfStreamEvent{VideoID: videoID})
}

// emit delivers an event without ever blocking the poll loop; if the consumer
// lags behind and the buffer is full, the new event is dropped.
func (c *Controller) emit(event Event) {
	select {
	case c.events <- event:
	default:
	}
}

func clampVolume(v int) int {
	if v < minVolume {
		return minVolume
	}
	if v > maxVolume {
		return maxVolume
	}
	return v
}
