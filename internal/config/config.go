// Package config defines process configuration and its loading.
//
// Defaults come from New; Load layers an optional YAML file and
// SPINWHEEL_-prefixed environment variables on top.
package config

import (
	"runtime"
	"time"

	"github.com/okian/spinwheel/internal/adapters/repository"
	"github.com/okian/spinwheel/internal/domain/spin"
)

// Store drivers.
const (
	DriverFile   = repository.DriverFile
	DriverSQLite = repository.DriverSQLite
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// StoreDriver selects the wheel store: file or sqlite.
	StoreDriver string `koanf:"store_driver"`

	// DataFile is the JSON document used by the file store.
	DataFile string `koanf:"data_file"`

	// SQLiteDSN is the database used by the sqlite store.
	SQLiteDSN string `koanf:"sqlite_dsn"`

	// QueueSize bounds the in-memory spin outcome queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of outcome workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize bounds the idempotency key cache.
	DedupeSize int `koanf:"dedupe_size"`

	// HistorySize caps the outcomes kept per wheel.
	HistorySize int `koanf:"history_size"`

	SpinBaseDurationMS   int     `koanf:"spin_base_duration_ms"`
	SpinMinDurationMS    int     `koanf:"spin_min_duration_ms"`
	SpinMinSpeed         float64 `koanf:"spin_min_speed"`
	SpinMaxSpeed         float64 `koanf:"spin_max_speed"`
	SpinMinExtraTurns    int     `koanf:"spin_min_extra_turns"`
	SpinExtraTurnsSpread int     `koanf:"spin_extra_turns_spread"`

	// TUIWheelKey is the wheel the terminal host loads and saves.
	TUIWheelKey string `koanf:"tui_wheel_key"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:             "info",
		Addr:                 ":9080",
		StoreDriver:          DriverFile,
		DataFile:             "wheels.json",
		SQLiteDSN:            "file:wheels.db?_pragma=busy_timeout(5000)",
		QueueSize:            10_000,
		WorkerCount:          runtime.NumCPU(),
		DedupeSize:           100_000,
		HistorySize:          100,
		SpinBaseDurationMS:   int(spin.DefaultBaseDuration / time.Millisecond),
		SpinMinDurationMS:    int(spin.DefaultMinDuration / time.Millisecond),
		SpinMinSpeed:         spin.DefaultMinSpeed,
		SpinMaxSpeed:         spin.DefaultMaxSpeed,
		SpinMinExtraTurns:    spin.DefaultMinExtraTurns,
		SpinExtraTurnsSpread: spin.DefaultExtraTurnsSpread,
		TUIWheelKey:          "default-wheel",
	}
}

// SpinSettings converts the spin_* fields into engine tuning.
func (c *Config) SpinSettings() spin.Settings {
	s := spin.DefaultSettings()
	s.BaseDuration = time.Duration(c.SpinBaseDurationMS) * time.Millisecond
	s.MinDuration = time.Duration(c.SpinMinDurationMS) * time.Millisecond
	s.MinSpeed = c.SpinMinSpeed
	s.MaxSpeed = c.SpinMaxSpeed
	s.MinExtraTurns = c.SpinMinExtraTurns
	s.ExtraTurnsSpread = c.SpinExtraTurnsSpread
	return s
}
