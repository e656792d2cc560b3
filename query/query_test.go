package query

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
	"github.com/ytap-cli/ytap/filesystem"
	"github.com/ytap-cli/ytap/key"
)

func init() {
	filesystem.SetMemMapFs()
	viper.Set(key.SearchShowQuerySuggestions, true)
}

func TestQuery(t *testing.T) {
	Convey("Given query history", t, func() {
		q1 := "lofi hip hop"
		q2 := "lofi beats to study"

		Convey("When remembering queries", func() {
			err := Remember(q1, 1)
			So(err, ShouldBeNil)
			err = Remember(q2, 10) // Higher weight
			So(err, ShouldBeNil)

			Convey("Then suggestions should be sorted by rank", func() {
				// Clear memory cache to force read from file
				suggestionCache = make(map[string][]*queryRecord)
				viper.Set(key.SearchShowQuerySuggestions, true)

				s := SuggestMany("lofi")
				So(len(s), ShouldBeGreaterThanOrEqualTo, 2)
				So(s[0], ShouldEqual, "lofi beats to study")
			})

			Convey("Then the top suggestion is available as an option", func() {
				suggestionCache = make(map[string][]*queryRecord)

				top := Suggest("lofi")
				So(top.IsPresent(), ShouldBeTrue)
				So(top.MustGet(), ShouldEqual, "lofi beats to study")
			})

			Convey("It sanitizes input", func() {
				So(sanitize("  LOFI  "), ShouldEqual, "lofi")
			})
		})

		Convey("When suggestions are disabled", func() {
			viper.Set(key.SearchShowQuerySuggestions, false)
			So(SuggestMany("lofi"), ShouldBeEmpty)
			viper.Set(key.SearchShowQuerySuggestions, true)
		})
	})
}
