package platform

import (
	"context"
	"errors"
	"net"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestVideo(t *testing.T) {
	Convey("Video", t, func() {
		v := Video{ID: "dQw4w9WgXcQ", Title: "Test", DurationSeconds: 212}

		Convey("URL points at the watch page", func() {
			So(v.URL(), ShouldEqual, "https://www.youtube.com/watch?v=dQw4w9WgXcQ")
		})

		Convey("ThumbnailURL points at hqdefault", func() {
			So(v.ThumbnailURL(), ShouldEqual, "https://i.ytimg.com/vi/dQw4w9WgXcQ/hqdefault.jpg")
		})

		Convey("Duration converts to time.Duration", func() {
			So(v.Duration().Seconds(), ShouldEqual, 212)
		})
	})
}

func TestParseSearchOutput(t *testing.T) {
	Convey("parseSearchOutput", t, func() {
		Convey("Parses well-formed lines", func() {
			out := "abc123\tSome Title\tSome Channel\t185.0\n" +
				"def456\tAnother\tChannel Two\t62"

			videos := parseSearchOutput(out)
			So(videos, ShouldHaveLength, 2)
			So(videos[0].ID, ShouldEqual, "abc123")
			So(videos[0].Title, ShouldEqual, "Some Title")
			So(videos[0].Channel, ShouldEqual, "Some Channel")
			So(videos[0].DurationSeconds, ShouldEqual, 185)
			So(videos[1].DurationSeconds, ShouldEqual, 62)
		})

		Convey("Skips malformed lines", func() {
			out := "abc123\tTitle\tChannel\t10\nbroken line\n\t\t\t"
			videos := parseSearchOutput(out)
			So(videos, ShouldHaveLength, 1)
		})

		Convey("Keeps live streams with NA duration as zero length", func() {
			out := "live01\tLive Radio\tChannel\tNA"
			videos := parseSearchOutput(out)
			So(videos, ShouldHaveLength, 1)
			So(videos[0].DurationSeconds, ShouldEqual, 0)
		})

		Convey("Empty output yields no videos", func() {
			So(parseSearchOutput(""), ShouldBeEmpty)
		})
	})
}

type fakeNetErr struct{ timeout bool }

func (e fakeNetErr) Error() string   { return "fake net error" }
func (e fakeNetErr) Timeout() bool   { return e.timeout }
func (e fakeNetErr) Temporary() bool { return false }

var _ net.Error = fakeNetErr{}

func TestClassify(t *testing.T) {
	Convey("Classify", t, func() {
		Convey("nil stays nil", func() {
			So(Classify(nil), ShouldBeNil)
		})

		Convey("Taxonomy errors pass through", func() {
			wrapped := errors.Join(ErrUnplayable, errors.New("detail"))
			So(errors.Is(Classify(wrapped), ErrUnplayable), ShouldBeTrue)
		})

		Convey("Context deadline becomes Timeout", func() {
			So(Classify(context.DeadlineExceeded), ShouldEqual, ErrTimeout)
		})

		Convey("net.Error timeout becomes Timeout", func() {
			So(Classify(fakeNetErr{timeout: true}), ShouldEqual, ErrTimeout)
		})

		Convey("net.Error becomes Network", func() {
			So(Classify(fakeNetErr{}), ShouldEqual, ErrNetwork)
		})

		Convey("DNS failure text becomes Network", func() {
			So(Classify(errors.New("dial tcp: lookup youtube.com: no such host")), ShouldEqual, ErrNetwork)
		})

		Convey("Unavailable video text becomes Unplayable", func() {
			So(Classify(errors.New("ERROR: Video unavailable")), ShouldEqual, ErrUnplayable)
		})

		Convey("Unknown errors pass through unchanged", func() {
			err := errors.New("something else")
			So(Classify(err), ShouldEqual, err)
		})
	})
}
