// Package config loads server settings from the environment, optionally
// overlaid with a YAML file
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joeshaw/envdecode"
	"gopkg.in/yaml.v3"

	"github.com/minaorangina/napoleon/game"
)

// FileEnv names the environment variable holding the path of an optional YAML file
const FileEnv = "NAPOLEON_CONFIG"

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Addr string `env:"NAPOLEON_ADDR,default=:8000" yaml:"addr"`

	AllyCount  int `env:"NAPOLEON_ALLY_COUNT,default=1" yaml:"ally_count"`
	HandSize   int `env:"NAPOLEON_HAND_SIZE,default=5" yaml:"hand_size"`
	MinPlayers int `env:"NAPOLEON_MIN_PLAYERS,default=2" yaml:"min_players"`

	// TrickDelay is how long a finished trick stays on the table
	TrickDelay    time.Duration `env:"NAPOLEON_TRICK_DELAY,default=5s" yaml:"trick_delay"`
	MailboxSize   int           `env:"NAPOLEON_MAILBOX_SIZE,default=64" yaml:"mailbox_size"`
	RoomKeyLength int           `env:"NAPOLEON_ROOM_KEY_LENGTH,default=5" yaml:"room_key_length"`
	TimerTick     time.Duration `env:"NAPOLEON_TIMER_TICK,default=100ms" yaml:"timer_tick"`

	Log Log `yaml:"log"`
}

type Log struct {
	Level      string `env:"NAPOLEON_LOG_LEVEL,default=info" yaml:"level"`
	Directory  string `env:"NAPOLEON_LOG_DIR" yaml:"directory"`
	JSON       bool   `env:"NAPOLEON_LOG_JSON,default=false" yaml:"json"`
	MaxSizeMB  int    `env:"NAPOLEON_LOG_MAX_SIZE_MB,default=100" yaml:"max_size_mb"`
	MaxBackups int    `env:"NAPOLEON_LOG_MAX_BACKUPS,default=5" yaml:"max_backups"`
	MaxAgeDays int    `env:"NAPOLEON_LOG_MAX_AGE_DAYS,default=7" yaml:"max_age_days"`
}

// Load reads the environment, then the YAML file named by NAPOLEON_CONFIG if set
func Load() (Config, error) {
	var c Config
	if err := envdecode.Decode(&c); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return Config{}, fmt.Errorf("decoding environment: %w", err)
	}

	if path := os.Getenv(FileEnv); path != "" {
		if err := c.overlay(path); err != nil {
			return Config{}, err
		}
	}

	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c *Config) overlay(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, c); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

// Validate rejects settings no room could run with
func (c Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: empty listen address", ErrInvalidConfig)
	case c.HandSize < 1:
		return fmt.Errorf("%w: hand size %d", ErrInvalidConfig, c.HandSize)
	case c.AllyCount < 0:
		return fmt.Errorf("%w: ally count %d", ErrInvalidConfig, c.AllyCount)
	case c.MinPlayers < 1:
		return fmt.Errorf("%w: minimum players %d", ErrInvalidConfig, c.MinPlayers)
	case c.TrickDelay < 0:
		return fmt.Errorf("%w: trick delay %s", ErrInvalidConfig, c.TrickDelay)
	case c.MailboxSize < 1:
		return fmt.Errorf("%w: mailbox size %d", ErrInvalidConfig, c.MailboxSize)
	case c.RoomKeyLength < 1:
		return fmt.Errorf("%w: room key length %d", ErrInvalidConfig, c.RoomKeyLength)
	case c.TimerTick <= 0:
		return fmt.Errorf("%w: timer tick %s", ErrInvalidConfig, c.TimerTick)
	}
	return nil
}

// GameSettings are the settings every new game in a room is dealt with
func (c Config) GameSettings() game.Settings {
	return game.Settings{AllyCount: c.AllyCount, HandSize: c.HandSize}
}
