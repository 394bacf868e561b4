package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/otsaloma/gaupol-sub002/internal/charset"
	"github.com/otsaloma/gaupol-sub002/internal/position"
)

const DefaultPath = "subed.yaml"

// line terminators applied when saving
const (
	NewlineUnix    = "unix"
	NewlineWindows = "windows"
	NewlineMac     = "mac"
)

// settings for an editing session
type Config struct {
	Framerate          position.Framerate `yaml:"framerate"`
	Encoding           string             `yaml:"encoding"`
	FallbackEncodings  []string           `yaml:"fallback_encodings"`
	AutoDetectEncoding bool               `yaml:"auto_detect_encoding"`
	UndoLimit          int                `yaml:"undo_limit"`
	Newline            string             `yaml:"newline"`

	Search struct {
		Wrap       bool `yaml:"wrap"`
		IgnoreCase bool `yaml:"ignore_case"`
		Regex      bool `yaml:"regex"`
	} `yaml:"search"`

	Translate struct {
		Provider    string `yaml:"provider"`
		Model       string `yaml:"model"`
		Concurrency int    `yaml:"concurrency"`
		BatchSize   int    `yaml:"batch_size"`
	} `yaml:"translate"`
}

func Default() *Config {
	c := &Config{}
	c.Framerate = position.FPS23976
	c.Encoding = "utf-8"
	c.FallbackEncodings = []string{"windows-1252"}
	c.AutoDetectEncoding = true
	c.UndoLimit = 0
	c.Newline = NewlineUnix

	c.Search.Wrap = true
	c.Search.IgnoreCase = false
	c.Search.Regex = false

	c.Translate.Provider = "gemini"
	c.Translate.Concurrency = 4
	c.Translate.BatchSize = 50
	return c
}

// reads the yaml file at path over the defaults; a missing file yields the
// defaults
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath
	}
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) normalize() {
	c.Encoding = strings.TrimSpace(c.Encoding)
	if c.Encoding == "" {
		c.Encoding = "utf-8"
	}
	c.Newline = strings.ToLower(strings.TrimSpace(c.Newline))
	if c.Newline == "" {
		c.Newline = NewlineUnix
	}
	c.Translate.Provider = strings.ToLower(strings.TrimSpace(c.Translate.Provider))
	if c.Translate.Concurrency <= 0 {
		c.Translate.Concurrency = 4
	}
	if c.Translate.BatchSize <= 0 {
		c.Translate.BatchSize = 50
	}
}

func (c *Config) Validate() error {
	if c.Framerate <= 0 {
		return fmt.Errorf("framerate must be positive, got %v", float64(c.Framerate))
	}
	if c.UndoLimit < 0 {
		return fmt.Errorf("undo_limit must not be negative, got %d", c.UndoLimit)
	}
	if _, err := c.NewlineSequence(); err != nil {
		return err
	}
	if _, err := charset.Canonical(c.Encoding); err != nil {
		return err
	}
	return nil
}

// the terminator the newline setting names
func (c *Config) NewlineSequence() (string, error) {
	switch c.Newline {
	case NewlineUnix:
		return "\n", nil
	case NewlineWindows:
		return "\r\n", nil
	case NewlineMac:
		return "\r", nil
	default:
		return "", fmt.Errorf("unknown newline %q (want unix, windows or mac)", c.Newline)
	}
}

// candidate encodings for opening files: the preferred one, then the
// fallbacks, then auto-detection when enabled
func (c *Config) Encodings(preferred string) []string {
	var out []string
	seen := map[string]bool{}
	add := func(name string) {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" || seen[key] {
			return
		}
		seen[key] = true
		out = append(out, name)
	}
	if preferred != "" {
		add(preferred)
	}
	add(c.Encoding)
	for _, name := range c.FallbackEncodings {
		add(name)
	}
	if c.AutoDetectEncoding {
		add(charset.Auto)
	}
	return out
}
