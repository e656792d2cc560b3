package tui

import (
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/ytap-cli/ytap/internal/cache"
	"github.com/ytap-cli/ytap/platform"
	"github.com/ytap-cli/ytap/session"
	"github.com/ytap-cli/ytap/worker"
)

func TestThumbnailFailureDegradation(t *testing.T) {
	Convey("Given a result set with thumbnail fetches in flight", t, func() {
		b := newBubble(&Options{})
		Reset(func() {
			b.dispatcher.Close()
			b.controller.Close()
		})

		videos := []platform.Video{
			{ID: "aaa", Title: "First", Channel: "someone"},
			{ID: "bbb", Title: "Second", Channel: "someone"},
		}
		generation := b.session.BeginSearch("query")
		So(b.session.ApplyResults(generation, videos), ShouldBeTrue)

		failedURL := videos[0].ThumbnailURL()
		readyURL := videos[1].ThumbnailURL()
		So(b.session.Thumbnails.BeginFetch(failedURL), ShouldBeTrue)
		So(b.session.Thumbnails.BeginFetch(readyURL), ShouldBeTrue)
		b.session.Thumbnails.Complete(readyURL, []byte("image-bytes"))

		Convey("A failed fetch degrades only its own entry and warns", func() {
			cmd := b.onJobResult(worker.Result{
				Kind:       worker.ThumbnailFetch,
				Generation: generation,
				TargetID:   failedURL,
				Err:        errors.New("unexpected status 500"),
			})

			_, state := b.session.Thumbnails.Get(failedURL)
			So(state, ShouldEqual, cache.Failed)

			data, state := b.session.Thumbnails.Get(readyURL)
			So(state, ShouldEqual, cache.Ready)
			So(data, ShouldResemble, []byte("image-bytes"))

			status, ok := b.session.Status().Get()
			So(ok, ShouldBeTrue)
			So(status.Severity, ShouldEqual, session.Warning)
			So(cmd, ShouldNotBeNil)

			Convey("and the list renders a placeholder for it", func() {
				item := &listItem{video: videos[0], bubble: b}
				So(item.Description(), ShouldContainSubstring, "no thumbnail")
			})
		})

		Convey("A stale failure is recorded without a toast", func() {
			b.session.BeginSearch("newer query")

			cmd := b.onJobResult(worker.Result{
				Kind:       worker.ThumbnailFetch,
				Generation: generation,
				TargetID:   failedURL,
				Err:        errors.New("unexpected status 500"),
			})

			_, state := b.session.Thumbnails.Get(failedURL)
			So(state, ShouldEqual, cache.Failed)
			So(cmd, ShouldBeNil)
			So(b.session.Status().IsAbsent(), ShouldBeTrue)
		})
	})
}
