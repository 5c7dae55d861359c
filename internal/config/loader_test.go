package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/spinwheel/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

var configEnvVars = []string{
	"SPINWHEEL_CONFIG",
	"SPINWHEEL_ADDR",
	"SPINWHEEL_QUEUE_SIZE",
	"SPINWHEEL_WORKER_COUNT",
	"SPINWHEEL_STORE_DRIVER",
	"SPINWHEEL_SQLITE_DSN",
	"SPINWHEEL_SPIN_MAX_SPEED",
	"SPINWHEEL_TUI_WHEEL_KEY",
}

func clearConfigEnvVars() {
	for _, k := range configEnvVars {
		_ = os.Unsetenv(k)
	}
}

func writeConfigFile(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "spinwheel.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()
		defer clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.So(err, convey.ShouldBeNil)
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.QueueSize, convey.ShouldEqual, 10_000)
			convey.So(cfg.StoreDriver, convey.ShouldEqual, config.DriverFile)
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("SPINWHEEL_ADDR", ":8080")
			_ = os.Setenv("SPINWHEEL_QUEUE_SIZE", "64")
			_ = os.Setenv("SPINWHEEL_SPIN_MAX_SPEED", "3.5")
			_ = os.Setenv("SPINWHEEL_TUI_WHEEL_KEY", "lunch")

			cfg, err := config.Load(ctx)

			convey.So(err, convey.ShouldBeNil)
			convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
			convey.So(cfg.QueueSize, convey.ShouldEqual, 64)
			convey.So(cfg.SpinMaxSpeed, convey.ShouldEqual, 3.5)
			convey.So(cfg.TUIWheelKey, convey.ShouldEqual, "lunch")
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			path := writeConfigFile(t, `
addr: ":9090"
queue_size: 300
worker_count: 3
store_driver: sqlite
sqlite_dsn: "file::memory:"
`)
			_ = os.Setenv("SPINWHEEL_CONFIG", path)
			_ = os.Setenv("SPINWHEEL_WORKER_COUNT", "7")

			cfg, err := config.Load(ctx)

			convey.So(err, convey.ShouldBeNil)
			convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
			convey.So(cfg.QueueSize, convey.ShouldEqual, 300)
			convey.So(cfg.WorkerCount, convey.ShouldEqual, 7)
			convey.So(cfg.StoreDriver, convey.ShouldEqual, config.DriverSQLite)
			convey.So(cfg.SQLiteDSN, convey.ShouldEqual, "file::memory:")
			convey.So(cfg.HistorySize, convey.ShouldEqual, 100)
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			_ = os.Setenv("SPINWHEEL_CONFIG", writeConfigFile(t, `invalid: yaml: content: [`))

			cfg, err := config.Load(ctx)

			convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			convey.So(cfg, convey.ShouldBeNil)
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("SPINWHEEL_CONFIG", "/non/existent/file.yaml")

			cfg, err := config.Load(ctx)

			convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			convey.So(cfg, convey.ShouldBeNil)
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("SPINWHEEL_QUEUE_SIZE", "invalid")

			cfg, err := config.Load(ctx)

			convey.So(err, convey.ShouldNotBeNil)
			convey.So(cfg, convey.ShouldBeNil)
		})

		convey.Convey("When loading config with empty addr", func() {
			_ = os.Setenv("SPINWHEEL_ADDR", "")

			cfg, err := config.Load(ctx)

			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
			convey.So(cfg, convey.ShouldBeNil)
		})

		convey.Convey("When loading config with an unknown store driver", func() {
			_ = os.Setenv("SPINWHEEL_STORE_DRIVER", "redis")

			_, err := config.Load(ctx)

			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
		})
	})
}
