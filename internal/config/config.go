// Package config loads the shaderbg settings file.
package config

import (
	"bytes"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

const (
	configFile = "config.toml"
	appDir     = "shaderbg"

	// EnvAPIURL overrides the description service URL from the file.
	EnvAPIURL = "SHADERBG_API_URL"
)

// Duration is a time.Duration written as a Go duration string ("100ms").
type Duration struct {
	time.Duration
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

type Config struct {
	// APIURL is the base URL of the shader description service.
	APIURL string `toml:"api_url"`
	// SurfaceID names the background surface.
	SurfaceID string `toml:"surface_id"`
	// Width and Height fix the surface size; zero uses the primary monitor.
	Width  int `toml:"width"`
	Height int `toml:"height"`

	SettleDelay    Duration `toml:"settle_delay"`
	RequestTimeout Duration `toml:"request_timeout"`
	Retries        int      `toml:"retries"`

	LogLevel    string `toml:"log_level"`
	Environment string `toml:"environment"`

	SnapshotWidth int `toml:"snapshot_width"`
}

func Default() Config {
	return Config{
		APIURL:         "http://localhost:4000",
		SurfaceID:      "webgl-canvas",
		SettleDelay:    Duration{100 * time.Millisecond},
		RequestTimeout: Duration{60 * time.Second},
		Retries:        2,
		LogLevel:       "info",
		Environment:    "production",
		SnapshotWidth:  512,
	}
}

// Dir returns $XDG_CONFIG_HOME/shaderbg, falling back to ~/.config/shaderbg.
func Dir() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		base = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(base, appDir)
}

// Path is the default settings file location.
func Path() string {
	return filepath.Join(Dir(), configFile)
}

// Load reads path over the defaults. A missing file is not an error.
// Unknown keys are rejected so typos do not go unnoticed.
func Load(path string) (Config, error) {
	cfg := Default()

	md, err := toml.DecodeFile(path, &cfg)
	switch {
	case errors.Is(err, os.ErrNotExist):
		cfg = Default()
	case err != nil:
		return Config{}, errors.Wrapf(err, "read config %s", path)
	default:
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return Config{}, errors.Errorf("config %s: unknown keys %s", path, strings.Join(keys, ", "))
		}
	}

	if v := os.Getenv(EnvAPIURL); v != "" {
		cfg.APIURL = v
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

// Write stores cfg at path, creating the directory if needed.
func Write(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return errors.Wrap(err, "create config directory")
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return errors.Wrap(err, "encode config")
	}
	return errors.Wrap(os.WriteFile(path, buf.Bytes(), 0o644), "write config")
}

func (c Config) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil {
		return errors.Wrap(err, "api_url")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.Errorf("api_url %q: scheme must be http or https", c.APIURL)
	}
	if strings.TrimSpace(c.SurfaceID) == "" {
		return errors.New("surface_id is empty")
	}
	if c.Width < 0 || c.Height < 0 {
		return errors.Errorf("negative surface size %dx%d", c.Width, c.Height)
	}
	if (c.Width == 0) != (c.Height == 0) {
		return errors.New("width and height must be set together")
	}
	if c.SettleDelay.Duration < 0 {
		return errors.New("settle_delay is negative")
	}
	if c.RequestTimeout.Duration <= 0 {
		return errors.New("request_timeout must be positive")
	}
	if c.Retries < 0 {
		return errors.New("retries is negative")
	}
	if c.SnapshotWidth <= 0 {
		return errors.New("snapshot_width must be positive")
	}
	return nil
}
