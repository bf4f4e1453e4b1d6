package config_test

import (
	"runtime"
	"testing"

	"github.com/okian/formguide/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.EventQueueSize, convey.ShouldEqual, 100_000)
			convey.So(cfg.WorkerCount, convey.ShouldEqual, runtime.NumCPU()*2)
			convey.So(cfg.DedupeSize, convey.ShouldEqual, 50_000)
			convey.So(cfg.HistoryWindow, convey.ShouldEqual, 50)
			convey.So(cfg.MaxRankingsLimit, convey.ShouldEqual, 100)
		})

		convey.Convey("Then the engine tunables match their package defaults", func() {
			convey.So(cfg.KFactor, convey.ShouldEqual, 32)
			convey.So(cfg.InitialRating, convey.ShouldEqual, 1500)
			convey.So(cfg.FilterInitialEstimate, convey.ShouldEqual, 75)
			convey.So(cfg.FilterInitialCovariance, convey.ShouldEqual, 10)
			convey.So(cfg.ProcessNoise, convey.ShouldEqual, 0.1)
			convey.So(cfg.MeasurementNoise, convey.ShouldEqual, 0.1)
			convey.So(cfg.RankWeight, convey.ShouldEqual, 0.4)
			convey.So(cfg.WinRateWeight, convey.ShouldEqual, 0.4)
			convey.So(cfg.TrendWeight, convey.ShouldEqual, 0.2)
		})
	})
}
