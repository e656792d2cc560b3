package cache

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestStore(t *testing.T) {
	Convey("Given an empty store", t, func() {
		store := New[string]()

		Convey("Unknown keys are Absent", func() {
			_, state := store.Get("missing")
			So(state, ShouldEqual, Absent)
		})

		Convey("BeginFetch on an absent key claims the fetch", func() {
			So(store.BeginFetch("k"), ShouldBeTrue)

			_, state := store.Get("k")
			So(state, ShouldEqual, Pending)

			Convey("A second BeginFetch coalesces", func() {
				So(store.BeginFetch("k"), ShouldBeFalse)
			})

			Convey("Complete transitions to Ready", func() {
				store.Complete("k", "payload")

				v, state := store.Get("k")
				So(state, ShouldEqual, Ready)
				So(v, ShouldEqual, "payload")

				Convey("Ready is terminal: BeginFetch does not restart", func() {
					So(store.BeginFetch("k"), ShouldBeFalse)
				})

				Convey("Complete on a Ready key is ignored", func() {
					store.Complete("k", "other")
					v, _ := store.Get("k")
					So(v, ShouldEqual, "payload")
				})
			})

			Convey("Fail transitions to Failed and records the error", func() {
				cause := errors.New("boom")
				store.Fail("k", cause)

				_, state := store.Get("k")
				So(state, ShouldEqual, Failed)
				So(store.Err("k"), ShouldEqual, cause)

				Convey("Failed keys are retryable", func() {
					So(store.BeginFetch("k"), ShouldBeTrue)

					_, state := store.Get("k")
					So(state, ShouldEqual, Pending)
					So(store.Err("k"), ShouldBeNil)
				})
			})
		})

		Convey("Complete on an absent key is ignored", func() {
			store.Complete("ghost", "x")
			_, state := store.Get("ghost")
			So(state, ShouldEqual, Absent)
		})

		Convey("Concurrent BeginFetch for one key yields exactly one owner", func() {
			var owners int32
			var wg sync.WaitGroup

			for i := 0; i < 32; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					if store.BeginFetch("contended") {
						atomic.AddInt32(&owners, 1)
					}
				}()
			}
			wg.Wait()

			So(atomic.LoadInt32(&owners), ShouldEqual, 1)
		})

		Convey("Len counts keys in any state", func() {
			store.BeginFetch("a")
			store.BeginFetch("b")
			store.Complete("a", "v")
			So(store.Len(), ShouldEqual, 2)
		})
	})
}

func TestStateString(t *testing.T) {
	Convey("State renders a readable name", t, func() {
		So(Absent.String(), ShouldEqual, "absent")
		So(Pending.String(), ShouldEqual, "pending")
		So(Ready.String(), ShouldEqual, "ready")
		So(Failed.String(), ShouldEqual, "failed")
	})
}
