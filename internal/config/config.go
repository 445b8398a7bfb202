package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config captures everything perch needs to reach a site's settings.
type Config struct {
	APIBase           string
	Site              string
	Token             string
	PollInterval      time.Duration
	JetpackMinVersion string
	Features          Features
	LogPath           string
}

// Features is the set of feature flags that gate optional form sections.
type Features map[string]bool

// Enabled reports whether the named feature is switched on.
func (f Features) Enabled(name string) bool {
	return f[name]
}

const (
	defaultConfigPath        = "~/.config/perch/config.toml"
	defaultLogPath           = "~/.local/state/perch/perch.log"
	defaultAPIBase           = "https://public-api.wordpress.com"
	defaultPollInterval      = 10 * time.Second
	defaultJetpackMinVersion = "3.4"

	// TokenEnv overrides the token from the config file.
	TokenEnv = "PERCH_TOKEN"
)

// fileConfig mirrors config.toml.
type fileConfig struct {
	APIBase           string          `toml:"api_base"`
	Site              string          `toml:"site"`
	Token             string          `toml:"token"`
	PollSeconds       int             `toml:"poll_seconds"`
	JetpackMinVersion string          `toml:"jetpack_min_version"`
	LogFile           string          `toml:"log_file"`
	Features          map[string]bool `toml:"features"`
}

// Load reads the perch config at path (or the default location). A missing
// file yields the defaults; PERCH_TOKEN wins over the file's token either way.
func Load(path string) (Config, error) {
	location, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := defaults()
	data, err := os.ReadFile(location)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return Config{}, fmt.Errorf("read config: %w", err)
	default:
		var fc fileConfig
		if err := toml.Unmarshal(data, &fc); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
		if err := cfg.merge(fc); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	}

	if token := strings.TrimSpace(os.Getenv(TokenEnv)); token != "" {
		cfg.Token = token
	}
	return cfg, nil
}

// merge overlays the non-empty values of fc onto c.
func (c *Config) merge(fc fileConfig) error {
	if fc.PollSeconds < 0 {
		return fmt.Errorf("poll_seconds must not be negative (got %d)", fc.PollSeconds)
	}
	if fc.PollSeconds > 0 {
		c.PollInterval = time.Duration(fc.PollSeconds) * time.Second
	}

	setIf := func(dst *string, v string) {
		if v = strings.TrimSpace(v); v != "" {
			*dst = v
		}
	}
	setIf(&c.APIBase, fc.APIBase)
	setIf(&c.JetpackMinVersion, fc.JetpackMinVersion)
	setIf(&c.LogPath, fc.LogFile)
	c.Site = strings.TrimSpace(fc.Site)
	c.Token = strings.TrimSpace(fc.Token)
	if c.LogPath != "-" {
		c.LogPath = mustExpand(c.LogPath)
	}

	for name, on := range fc.Features {
		c.Features[strings.TrimSpace(name)] = on
	}
	return nil
}

func defaults() Config {
	return Config{
		APIBase:           defaultAPIBase,
		PollInterval:      defaultPollInterval,
		JetpackMinVersion: defaultJetpackMinVersion,
		Features:          Features{},
		LogPath:           mustExpand(defaultLogPath),
	}
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) != "" {
		return expandPath(path)
	}
	return expandPath(defaultConfigPath)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	p := strings.TrimSpace(path)
	if p == "" {
		return "", errors.New("empty path")
	}
	if rest, ok := strings.CutPrefix(p, "~"); ok {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("home dir: %w", err)
		}
		p = filepath.Join(home, rest)
	}
	return filepath.Abs(p)
}

// ExpandPath resolves a leading tilde and returns an absolute path.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}
