package config_test

import (
	"context"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/concal/internal/config"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		ctx := context.Background()
		cfg := config.New(ctx)

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
			convey.So(cfg.DataFormat, convey.ShouldEqual, "auto")
			convey.So(cfg.Timezone, convey.ShouldEqual, "America/Indiana/Indianapolis")
			convey.So(cfg.SkipMalformed, convey.ShouldBeTrue)
			convey.So(cfg.ReloadSchedule, convey.ShouldBeEmpty)
			convey.So(cfg.MaxPageSize, convey.ShouldEqual, 500)
			convey.So(cfg.ShutdownTimeout(), convey.ShouldEqual, 10*time.Second)
			convey.So(cfg.Validate(ctx), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given a default config", t, func() {
		ctx := context.Background()
		cfg := config.New(ctx)

		cases := []struct {
			name   string
			mutate func(*config.Config)
		}{
			{"empty addr", func(c *config.Config) { c.Addr = " " }},
			{"unknown log format", func(c *config.Config) { c.LogFormat = "xml" }},
			{"unknown data format", func(c *config.Config) { c.DataFormat = "xlsx" }},
			{"unknown timezone", func(c *config.Config) { c.Timezone = "Mars/Olympus" }},
			{"bad cron spec", func(c *config.Config) { c.ReloadSchedule = "every now and then" }},
			{"zero queue", func(c *config.Config) { c.ReloadQueueSize = 0 }},
			{"zero workers", func(c *config.Config) { c.ReloadWorkers = 0 }},
			{"zero page size", func(c *config.Config) { c.MaxPageSize = 0 }},
			{"negative rate", func(c *config.Config) { c.RateLimitRPS = -1 }},
			{"rate without burst", func(c *config.Config) { c.RateLimitRPS = 5; c.RateLimitBurst = 0 }},
		}
		for _, tc := range cases {
			convey.Convey("When it has "+tc.name, func() {
				tc.mutate(cfg)
				convey.So(cfg.Validate(ctx), convey.ShouldWrap, config.ErrInvalidConfig)
			})
		}

		convey.Convey("When it has a valid schedule and explicit format", func() {
			cfg.ReloadSchedule = "@every 15m"
			cfg.DataFormat = "csv"
			convey.So(cfg.Validate(ctx), convey.ShouldBeNil)

			cfg.ReloadSchedule = "*/5 * * * *"
			convey.So(cfg.Validate(ctx), convey.ShouldBeNil)
		})
	})
}
