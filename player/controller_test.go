package player

import (
	"errors"
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

// fakeEngine is a controllable in-memory Engine used to drive the state machine.
type fakeEngine struct {
	mu         sync.Mutex
	playURL    string
	title      string
	paused     bool
	pos        float64
	duration   float64
	volume     int
	playErr    error
	exitErr    error
	exited     chan struct{}
	closed     bool
	closeDelay time.Duration
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{exited: make(chan struct{}), duration: 200}
}

func (f *fakeEngine) Play(url, title string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.playErr != nil {
		return f.playErr
	}
	f.playURL = url
	f.title = title
	return nil
}

func (f *fakeEngine) TogglePause() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.paused = !f.paused
	return nil
}

func (f *fakeEngine) GetPausedStatus() (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.paused, nil
}

func (f *fakeEngine) GetTimePos() (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pos, nil
}

func (f *fakeEngine) GetDuration() (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.duration, nil
}

func (f *fakeEngine) SeekBy(seconds float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	// No clamping here: the controller is responsible for keeping the
	// position within bounds, and the raw result makes that observable.
	f.pos += seconds
	return nil
}

func (f *fakeEngine) SetVolume(volume int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.volume = volume
	return nil
}

func (f *fakeEngine) IsRunning() bool {
	select {
	case <-f.exited:
		return false
	default:
		return true
	}
}

func (f *fakeEngine) Close() error {
	f.mu.Lock()
	delay := f.closeDelay
	f.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.closed {
		f.closed = true
		close(f.exited)
	}
	return nil
}

func (f *fakeEngine) Wait() <-chan struct{} { return f.exited }

func (f *fakeEngine) ExitError() error {
	select {
	case <-f.exited:
		return f.exitErr
	default:
		return nil
	}
}

// exit simulates the process ending on its own.
func (f *fakeEngine) exit(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.closed {
		f.closed = true
		f.exitErr = err
		close(f.exited)
	}
}

// waitFor polls a condition until it holds or the timeout expires.
func waitFor(cond func() bool, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return cond()
}

// waitForEvent returns the next non-progress event, skipping progress ticks.
func waitForEvent(c *Controller, timeout time.Duration) Event {
	deadline := time.After(timeout)
	for {
		select {
		case e := <-c.Events():
			if _, ok := e.(ProgressEvent); ok {
				continue
			}
			return e
		case <-deadline:
			return nil
		}
	}
}

func TestControllerStateMachine(t *testing.T) {
	Convey("Given a controller over a fake engine", t, func() {
		var engines []*fakeEngine
		var enginesMu sync.Mutex

		controller := NewController(func() Engine {
			enginesMu.Lock()
			defer enginesMu.Unlock()
			engine := newFakeEngine()
			engines = append(engines, engine)
			return engine
		})

		lastEngine := func() *fakeEngine {
			enginesMu.Lock()
			defer enginesMu.Unlock()
			return engines[len(engines)-1]
		}

		Convey("It starts Idle", func() {
			So(controller.State().Status, ShouldEqual, Idle)
		})

		Convey("StartResolving enters Resolving", func() {
			controller.StartResolving("vid1", "Track One")

			state := controller.State()
			So(state.Status, ShouldEqual, Resolving)
			So(state.VideoID, ShouldEqual, "vid1")

			Convey("Resolved spawns the engine and enters Playing", func() {
				So(controller.Resolved("vid1", "https://stream/1"), ShouldBeNil)

				state := controller.State()
				So(state.Status, ShouldEqual, Playing)
				So(lastEngine().playURL, ShouldEqual, "https://stream/1")
				So(lastEngine().title, ShouldEqual, "Track One")

				Convey("TogglePause flips Playing and Paused", func() {
					So(controller.TogglePause(), ShouldBeNil)
					So(controller.State().Status, ShouldEqual, Paused)
					So(controller.TogglePause(), ShouldBeNil)
					So(controller.State().Status, ShouldEqual, Playing)
				})

				Convey("SeekBy forwards to the engine and clamps at start", func() {
					lastEngine().pos = 5
					So(controller.SeekBy(-10), ShouldBeNil)
					pos, _ := lastEngine().GetTimePos()
					So(pos, ShouldEqual, 0)
				})

				Convey("SeekBy clamps at the stream end", func() {
					lastEngine().pos = 195
					So(controller.SeekBy(10), ShouldBeNil)
					pos, _ := lastEngine().GetTimePos()
					So(pos, ShouldEqual, 200)
				})

				Convey("Stop terminates the engine and enters Stopped", func() {
					controller.Stop()
					So(controller.State().Status, ShouldEqual, Stopped)
					So(waitFor(func() bool { return !lastEngine().IsRunning() }, time.Second), ShouldBeTrue)
				})

				Convey("Natural end-of-stream emits an event and enters Stopped", func() {
					lastEngine().exit(nil)

					event := waitForEvent(controller, 2*time.Second)
					So(event, ShouldHaveSameTypeAs, EndOfStreamEvent{})
					So(event.(EndOfStreamEvent).VideoID, ShouldEqual, "vid1")
					So(controller.State().Status, ShouldEqual, Stopped)
				})

				Convey("A crash emits a process error and enters the error state", func() {
					lastEngine().exit(errors.New("exit status 2"))

					event := waitForEvent(controller, 2*time.Second)
					So(event, ShouldHaveSameTypeAs, ProcessErrorEvent{})
					So(controller.State().Status, ShouldEqual, Failed)
					So(controller.State().Err, ShouldNotBeNil)
				})

				Convey("A new StartResolving fully supersedes the live process", func() {
					first := lastEngine()
					controller.StartResolving("vid2", "Track Two")
					So(controller.State().Status, ShouldEqual, Resolving)

					// Resolved waits out the old process before spawning.
					So(controller.Resolved("vid2", "https://stream/2"), ShouldBeNil)
					So(first.IsRunning(), ShouldBeFalse)
					So(controller.State().Status, ShouldEqual, Playing)
					So(controller.State().VideoID, ShouldEqual, "vid2")

					enginesMu.Lock()
					count := len(engines)
					enginesMu.Unlock()
					So(count, ShouldEqual, 2)
				})

				Convey("Superseding a slow-closing engine never blocks the caller", func() {
					first := lastEngine()
					first.mu.Lock()
					first.closeDelay = 300 * time.Millisecond
					first.mu.Unlock()

					started := time.Now()
					controller.StartResolving("vid2", "Track Two")
					So(time.Since(started), ShouldBeLessThan, 150*time.Millisecond)
					So(controller.State().Status, ShouldEqual, Resolving)

					started = time.Now()
					controller.Stop()
					So(time.Since(started), ShouldBeLessThan, 150*time.Millisecond)

					Convey("and the next spawn still waits for full termination", func() {
						controller.StartResolving("vid3", "Track Three")
						So(controller.Resolved("vid3", "https://stream/3"), ShouldBeNil)
						So(first.IsRunning(), ShouldBeFalse)
						So(controller.State().Status, ShouldEqual, Playing)
					})
				})
			})

			Convey("A stale Resolved for a superseded video is discarded", func() {
				controller.StartResolving("vid2", "Track Two")
				So(controller.Resolved("vid1", "https://stream/1"), ShouldBeNil)
				So(controller.State().Status, ShouldEqual, Resolving)
				So(controller.State().VideoID, ShouldEqual, "vid2")
			})

			Convey("ResolveFailed enters the error state", func() {
				controller.ResolveFailed("vid1", errors.New("unplayable"))

				state := controller.State()
				So(state.Status, ShouldEqual, Failed)
				So(state.Err, ShouldNotBeNil)

				Convey("A fresh StartResolving recovers", func() {
					controller.StartResolving("vid3", "Track Three")
					So(controller.State().Status, ShouldEqual, Resolving)
					So(controller.Resolved("vid3", "https://stream/3"), ShouldBeNil)
					So(controller.State().Status, ShouldEqual, Playing)
				})
			})
		})

		Convey("Transport commands without a session are rejected, not fatal", func() {
			So(controller.TogglePause(), ShouldNotBeNil)
			So(controller.SeekBy(10), ShouldNotBeNil)
		})

		Convey("VolumeDelta clamps and persists across sessions", func() {
			initial := controller.State().Volume
			v, err := controller.VolumeDelta(1000)
			So(err, ShouldBeNil)
			So(v, ShouldEqual, 150)

			v, _ = controller.VolumeDelta(-1000)
			So(v, ShouldEqual, 0)

			_, _ = controller.VolumeDelta(initial)

			controller.StartResolving("vid1", "Track")
			So(controller.Resolved("vid1", "https://stream/1"), ShouldBeNil)
			So(lastEngine().volume, ShouldEqual, controller.State().Volume)
		})
	})
}

func TestStatusString(t *testing.T) {
	Convey("Status renders a readable name", t, func() {
		So(Idle.String(), ShouldEqual, "idle")
		So(Resolving.String(), ShouldEqual, "resolving")
		So(Playing.String(), ShouldEqual, "playing")
		So(Paused.String(), ShouldEqual, "paused")
		So(Stopped.String(), ShouldEqual, "stopped")
		So(Failed.String(), ShouldEqual, "error")
	})
}

func TestSanitizeStreamTarget(t *testing.T) {
	Convey("sanitizeStreamTarget", t, func() {
		Convey("Accepts http and https URLs", func() {
			u, err := sanitizeStreamTarget("https://example.com/audio.webm")
			So(err, ShouldBeNil)
			So(u, ShouldEqual, "https://example.com/audio.webm")
		})

		Convey("Rejects flag-like arguments", func() {
			_, err := sanitizeStreamTarget("--vo=null")
			So(err, ShouldNotBeNil)
		})

		Convey("Rejects control characters", func() {
			_, err := sanitizeStreamTarget("https://a\nb")
			So(err, ShouldNotBeNil)
		})

		Convey("Rejects unsupported schemes", func() {
			_, err := sanitizeStreamTarget("ftp://example.com/a")
			So(err, ShouldNotBeNil)
		})

		Convey("Cleans local paths", func() {
			p, err := sanitizeStreamTarget("./some//file.mp3")
			So(err, ShouldBeNil)
			So(p, ShouldEqual, "some/file.mp3")
		})
	})
}
