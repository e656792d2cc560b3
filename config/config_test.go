package config

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
	"github.com/ytap-cli/ytap/filesystem"
	"github.com/ytap-cli/ytap/key"
)

func init() {
	// Use in-memory filesystem for tests to avoid creating real directories
	filesystem.SetMemMapFs()
}

func TestSetup(t *testing.T) {
	Convey("Config Setup", t, func() {
		Convey("Should initialize without error", func() {
			err := Setup()
			So(err, ShouldBeNil)
		})

		Convey("Should have default values populated", func() {
			_ = Setup()
			for name := range Default {
				val := viper.Get(name)
				So(val, ShouldNotBeNil)
			}
		})

		Convey("Should expose sane player defaults", func() {
			_ = Setup()
			So(viper.GetInt(key.PlayerVolumeDefault), ShouldBeBetweenOrEqual, 0, 150)
			So(viper.GetInt(key.WorkersPoolSize), ShouldBeGreaterThan, 0)
			So(viper.GetInt(key.SearchLimit), ShouldBeGreaterThan, 0)
		})

		Convey("EnvKeyReplacer should convert dots to underscores", func() {
			result := EnvKeyReplacer.Replace("player.volume_default")
			So(result, ShouldEqual, "player_volume_default")
		})
	})
}

func TestField(t *testing.T) {
	Convey("Field", t, func() {
		field := Default[key.SearchLimit]

		Convey("Env() should be prefixed and uppercased", func() {
			So(field.Env(), ShouldEqual, "YTAP_SEARCH_LIMIT")
		})

		Convey("Pretty() should include the key", func() {
			_ = Setup()
			So(field.Pretty(), ShouldContainSubstring, key.SearchLimit)
		})
	})
}
