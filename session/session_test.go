package session

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/ytap-cli/ytap/internal/cache"
	"github.com/ytap-cli/ytap/platform"
)

func videos(ids ...string) []platform.Video {
	vs := make([]platform.Video, len(ids))
	for i, id := range ids {
		vs[i] = platform.Video{ID: id, Title: "Title " + id}
	}
	return vs
}

func TestGenerations(t *testing.T) {
	Convey("Given a session", t, func() {
		s := New()

		Convey("BeginSearch advances the generation", func() {
			g1 := s.BeginSearch("lofi")
			g2 := s.BeginSearch("jazz")
			So(g2, ShouldBeGreaterThan, g1)
			So(s.Query(), ShouldEqual, "jazz")
		})

		Convey("Stale completions never mutate visible state", func() {
			g1 := s.BeginSearch("lofi")
			g2 := s.BeginSearch("jazz")

			So(s.ApplyResults(g1, videos("a", "b")), ShouldBeFalse)
			So(s.Results(), ShouldBeEmpty)
			So(s.SelectionIndex(), ShouldEqual, -1)

			So(s.ApplyResults(g2, videos("c")), ShouldBeTrue)
			So(s.Results(), ShouldHaveLength, 1)

			Convey("Even out-of-order delivery after the current epoch applied", func() {
				So(s.ApplyResults(g1, videos("x", "y", "z")), ShouldBeFalse)
				So(s.Results(), ShouldHaveLength, 1)
				So(s.Results()[0].ID, ShouldEqual, "c")
			})
		})

		Convey("BeginSearch clears the status", func() {
			s.SetStatus("previous failure", Error)
			s.BeginSearch("new query")
			So(s.Status().IsAbsent(), ShouldBeTrue)
		})
	})
}

func TestSelection(t *testing.T) {
	Convey("Given a session with three results", t, func() {
		s := New()
		g := s.BeginSearch("lofi")
		So(s.ApplyResults(g, videos("a", "b", "c")), ShouldBeTrue)

		Convey("Selection resets to the first result", func() {
			So(s.SelectionIndex(), ShouldEqual, 0)
			So(s.Selected().MustGet().ID, ShouldEqual, "a")
		})

		Convey("SelectNext advances and saturates at the end", func() {
			So(s.SelectNext(), ShouldBeTrue)
			So(s.SelectNext(), ShouldBeTrue)
			So(s.SelectionIndex(), ShouldEqual, 2)

			// No wraparound past the last result.
			So(s.SelectNext(), ShouldBeFalse)
			So(s.SelectionIndex(), ShouldEqual, 2)
		})

		Convey("SelectPrev moves back and saturates at the start", func() {
			So(s.SelectPrev(), ShouldBeFalse)
			So(s.SelectionIndex(), ShouldEqual, 0)

			s.SelectNext()
			So(s.SelectPrev(), ShouldBeTrue)
			So(s.SelectionIndex(), ShouldEqual, 0)
		})

		Convey("Select jumps to a valid index only", func() {
			So(s.Select(2), ShouldBeTrue)
			So(s.Select(2), ShouldBeFalse) // unchanged
			So(s.Select(5), ShouldBeFalse)
			So(s.Select(-1), ShouldBeFalse)
			So(s.SelectionIndex(), ShouldEqual, 2)
		})

		Convey("An empty follow-up search clears the selection", func() {
			g2 := s.BeginSearch("nothing")
			So(s.ApplyResults(g2, nil), ShouldBeTrue)

			So(s.SelectionIndex(), ShouldEqual, -1)
			So(s.Selected().IsAbsent(), ShouldBeTrue)
			So(s.SelectNext(), ShouldBeFalse)
			So(s.SelectPrev(), ShouldBeFalse)
		})

		Convey("Selection stays in bounds across arbitrary command sequences", func() {
			ops := []func() bool{s.SelectNext, s.SelectPrev, s.SelectNext, s.SelectNext,
				s.SelectNext, s.SelectPrev, s.SelectPrev, s.SelectPrev, s.SelectPrev}
			for _, op := range ops {
				op()
				idx := s.SelectionIndex()
				So(idx, ShouldBeGreaterThanOrEqualTo, 0)
				So(idx, ShouldBeLessThan, len(s.Results()))
			}
		})
	})
}

func TestStatus(t *testing.T) {
	Convey("Status messages", t, func() {
		s := New()

		So(s.Status().IsAbsent(), ShouldBeTrue)

		s.SetStatus("thumbnail fetch failed", Warning)
		msg := s.Status().MustGet()
		So(msg.Text, ShouldEqual, "thumbnail fetch failed")
		So(msg.Severity, ShouldEqual, Warning)
		So(msg.CreatedAt.IsZero(), ShouldBeFalse)

		Convey("Most recent wins", func() {
			s.SetStatus("stream unplayable", Error)
			So(s.Status().MustGet().Text, ShouldEqual, "stream unplayable")
		})

		Convey("ClearStatus removes it", func() {
			s.ClearStatus()
			So(s.Status().IsAbsent(), ShouldBeTrue)
		})
	})
}

func TestSessionCaches(t *testing.T) {
	Convey("A fresh session carries empty coalescing caches", t, func() {
		s := New()

		So(s.Thumbnails.Len(), ShouldEqual, 0)
		So(s.Streams.Len(), ShouldEqual, 0)

		Convey("Stream cache coalesces duplicate resolutions", func() {
			So(s.Streams.BeginFetch("vid1"), ShouldBeTrue)
			So(s.Streams.BeginFetch("vid1"), ShouldBeFalse)

			s.Streams.Complete("vid1", "https://stream/1")
			url, state := s.Streams.Get("vid1")
			So(state, ShouldEqual, cache.Ready)
			So(url, ShouldEqual, "https://stream/1")
		})
	})
}
