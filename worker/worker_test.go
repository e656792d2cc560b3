package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func collect(d *Dispatcher, n int) []Result {
	results := make([]Result, 0, n)
	timeout := time.After(5 * time.Second)
	for len(results) < n {
		select {
		case r := <-d.Results():
			results = append(results, r)
		case <-timeout:
			return results
		}
	}
	return results
}

func TestDispatcher(t *testing.T) {
	Convey("Given a dispatcher", t, func() {
		d := New(2)
		defer d.Close()

		Convey("A successful job delivers its value", func() {
			id := d.Submit(Job{
				Kind:       Search,
				Generation: 1,
				TargetID:   "lofi",
				Run: func(ctx context.Context) (any, error) {
					return "ok", nil
				},
			})

			results := collect(d, 1)
			So(results, ShouldHaveLength, 1)
			So(results[0].RequestID, ShouldEqual, id)
			So(results[0].Kind, ShouldEqual, Search)
			So(results[0].Generation, ShouldEqual, 1)
			So(results[0].TargetID, ShouldEqual, "lofi")
			So(results[0].Value, ShouldEqual, "ok")
			So(results[0].Err, ShouldBeNil)
		})

		Convey("A failing job delivers its error without affecting others", func() {
			cause := errors.New("boom")
			d.Submit(Job{Kind: ThumbnailFetch, TargetID: "a", Run: func(ctx context.Context) (any, error) {
				return nil, cause
			}})
			d.Submit(Job{Kind: ThumbnailFetch, TargetID: "b", Run: func(ctx context.Context) (any, error) {
				return []byte{1}, nil
			}})

			results := collect(d, 2)
			So(results, ShouldHaveLength, 2)

			var failed, succeeded int
			for _, r := range results {
				if r.Err != nil {
					failed++
					So(r.Err, ShouldEqual, cause)
				} else {
					succeeded++
				}
			}
			So(failed, ShouldEqual, 1)
			So(succeeded, ShouldEqual, 1)
		})

		Convey("A panicking job becomes an error result, not a crash", func() {
			d.Submit(Job{Kind: StreamResolve, TargetID: "bad", Run: func(ctx context.Context) (any, error) {
				panic("job exploded")
			}})
			d.Submit(Job{Kind: Search, TargetID: "after", Run: func(ctx context.Context) (any, error) {
				return "still alive", nil
			}})

			results := collect(d, 2)
			So(results, ShouldHaveLength, 2)

			var sawPanic, sawAlive bool
			for _, r := range results {
				if r.Err != nil {
					sawPanic = true
					So(r.Err.Error(), ShouldContainSubstring, "panicked")
				}
				if r.Value == "still alive" {
					sawAlive = true
				}
			}
			So(sawPanic, ShouldBeTrue)
			So(sawAlive, ShouldBeTrue)
		})

		Convey("Request IDs are monotonically increasing", func() {
			noop := func(ctx context.Context) (any, error) { return nil, nil }
			first := d.Submit(Job{Kind: Search, Run: noop})
			second := d.Submit(Job{Kind: Search, Run: noop})
			So(second, ShouldBeGreaterThan, first)
			collect(d, 2)
		})

		Convey("Jobs carry a context with a deadline", func() {
			d.Submit(Job{Kind: Search, Run: func(ctx context.Context) (any, error) {
				_, ok := ctx.Deadline()
				return ok, nil
			}})

			results := collect(d, 1)
			So(results[0].Value, ShouldEqual, true)
		})
	})

	Convey("Close drains in-flight jobs and closes the results channel", t, func() {
		d := New(1)
		d.Submit(Job{Kind: Search, Run: func(ctx context.Context) (any, error) {
			return "done", nil
		}})
		d.Close()

		var values []any
		for r := range d.Results() {
			values = append(values, r.Value)
		}
		So(values, ShouldResemble, []any{"done"})
	})
}

func TestKindString(t *testing.T) {
	Convey("Kind renders a readable name", t, func() {
		So(Search.String(), ShouldEqual, "search")
		So(ThumbnailFetch.String(), ShouldEqual, "thumbnail-fetch")
		So(StreamResolve.String(), ShouldEqual, "stream-resolve")
	})
}
