// Package config handles the ev3dc.toml client configuration.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap/zapcore"

	"github.com/wippyai/ev3dc/command"
	"github.com/wippyai/ev3dc/errors"
	"github.com/wippyai/ev3dc/packet"
	"github.com/wippyai/ev3dc/transport"
)

// FileName is the conventional configuration file name.
const FileName = "ev3dc.toml"

// Config is the client configuration.
type Config struct {
	Device  Device  `toml:"device"`
	Command Command `toml:"command"`
	Log     Log     `toml:"log"`
}

// Device selects the brick.
type Device struct {
	Path      string `toml:"path"`
	VendorID  uint16 `toml:"vendor_id"`
	ProductID uint16 `toml:"product_id"`
}

// Command sets framing defaults.
type Command struct {
	ID        uint16 `toml:"id"`
	MaxPacket int    `toml:"max_packet"`
}

// Log configures logging.
type Log struct {
	Level string `toml:"level"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Device: Device{
			Path:      "/dev/hidraw0",
			VendorID:  transport.VendorID,
			ProductID: transport.ProductID,
		},
		Command: Command{
			ID:        command.DefaultID,
			MaxPacket: packet.DefaultMaxSize,
		},
		Log: Log{Level: "info"},
	}
}

// Load reads path over the defaults. Keys missing from the file keep their
// default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	c := Default()
	if err := toml.Unmarshal(data, c); err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidValue, err, "parse "+path)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Command.MaxPacket < 1 || c.Command.MaxPacket > command.MaxBytecode {
		return errors.InvalidRange(errors.PhaseConfig, []string{"command", "max_packet"},
			c.Command.MaxPacket, 1, command.MaxBytecode)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses the configured log level.
func (c *Config) Level() (zapcore.Level, error) {
	lvl, err := zapcore.ParseLevel(c.Log.Level)
	if err != nil {
		return lvl, errors.New(errors.PhaseConfig, errors.KindInvalidValue).
			Path("log", "level").
			Value(c.Log.Level).
			Cause(err).
			Detail("unknown log level %q", c.Log.Level).
			Build()
	}
	return lvl, nil
}
