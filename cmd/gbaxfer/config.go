package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/moffa90/go-gbaxfer/bootloader"
	"github.com/moffa90/go-gbaxfer/link"
	"github.com/moffa90/go-gbaxfer/protocol"
)

// Config is the resolved command configuration.
type Config struct {
	Baud         int
	Mode         protocol.Mode
	ByteOrder    string
	ReadTimeout  time.Duration
	LogLevel     string
	Loader       string
	StrictVerify bool
	AckAttempts  int
	AckInterval  time.Duration
}

func defaultConfig() Config {
	return Config{
		Baud:        115200,
		Mode:        protocol.ModeNormal,
		ByteOrder:   "big",
		ReadTimeout: 2 * time.Second,
		LogLevel:    "info",
		AckAttempts: bootloader.DefaultAckAttempts,
		AckInterval: bootloader.DefaultAckInterval,
	}
}

type fileConfig struct {
	Baud         int    `toml:"baud" yaml:"baud"`
	Mode         string `toml:"mode" yaml:"mode"`
	ByteOrder    string `toml:"byte_order" yaml:"byte_order"`
	ReadTimeout  string `toml:"read_timeout" yaml:"read_timeout"`
	LogLevel     string `toml:"log_level" yaml:"log_level"`
	Loader       string `toml:"loader" yaml:"loader"`
	StrictVerify bool   `toml:"strict_verify" yaml:"strict_verify"`
	AckAttempts  int    `toml:"ack_attempts" yaml:"ack_attempts"`
	AckInterval  string `toml:"ack_interval" yaml:"ack_interval"`
}

// loadConfig reads a TOML or YAML file, chosen by extension, over the
// defaults. Keys absent from the file keep their default values.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}

	var (
		raw     fileConfig
		defined func(key string) bool
	)

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		meta, err := toml.DecodeFile(path, &raw)
		if err != nil {
			return Config{}, fmt.Errorf("load config: %w", err)
		}
		defined = func(key string) bool { return meta.IsDefined(key) }

	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("load config: %w", err)
		}
		var keys map[string]yaml.Node
		if err := yaml.Unmarshal(data, &keys); err != nil {
			return Config{}, fmt.Errorf("load config: %w", err)
		}
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return Config{}, fmt.Errorf("load config: %w", err)
		}
		defined = func(key string) bool {
			_, ok := keys[key]
			return ok
		}

	default:
		return Config{}, fmt.Errorf("load config: unsupported config format %q", ext)
	}

	if err := cfg.apply(raw, defined); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) apply(raw fileConfig, defined func(string) bool) error {
	if defined("baud") {
		if raw.Baud <= 0 {
			return fmt.Errorf("parse baud: must be positive, got %d", raw.Baud)
		}
		c.Baud = raw.Baud
	}

	if defined("mode") {
		mode, err := protocol.ParseMode(raw.Mode)
		if err != nil {
			return fmt.Errorf("parse mode: %w", err)
		}
		c.Mode = mode
	}

	if defined("byte_order") {
		if _, err := link.ParseByteOrder(raw.ByteOrder); err != nil {
			return fmt.Errorf("parse byte_order: %w", err)
		}
		c.ByteOrder = strings.TrimSpace(raw.ByteOrder)
	}

	if defined("read_timeout") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.ReadTimeout))
		if err != nil {
			return fmt.Errorf("parse read_timeout: %w", err)
		}
		c.ReadTimeout = d
	}

	if defined("log_level") {
		c.LogLevel = strings.TrimSpace(raw.LogLevel)
	}

	if defined("loader") {
		c.Loader = strings.TrimSpace(raw.Loader)
	}

	if defined("strict_verify") {
		c.StrictVerify = raw.StrictVerify
	}

	if defined("ack_attempts") {
		c.AckAttempts = raw.AckAttempts
	}

	if defined("ack_interval") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.AckInterval))
		if err != nil {
			return fmt.Errorf("parse ack_interval: %w", err)
		}
		c.AckInterval = d
	}

	return nil
}
