package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv(EnvAPIURL, "")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverlaysDefaults(t *testing.T) {
	t.Setenv(EnvAPIURL, "")
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
api_url = "https://shaders.example.com"
settle_delay = "250ms"
width = 1280
height = 720
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://shaders.example.com", cfg.APIURL)
	assert.Equal(t, 250*time.Millisecond, cfg.SettleDelay.Duration)
	assert.Equal(t, 1280, cfg.Width)
	assert.Equal(t, 720, cfg.Height)
	assert.Equal(t, "webgl-canvas", cfg.SurfaceID)
	assert.Equal(t, 60*time.Second, cfg.RequestTimeout.Duration)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv(EnvAPIURL, "http://10.0.0.2:4000")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, "http://10.0.0.2:4000", cfg.APIURL)
}

func TestLoadRejects(t *testing.T) {
	t.Setenv(EnvAPIURL, "")
	cases := map[string]string{
		"unknown key":   `colour = "red"`,
		"bad duration":  `settle_delay = "soon"`,
		"bad scheme":    `api_url = "ftp://example.com"`,
		"half size":     `width = 100`,
		"syntax":        `api_url = `,
		"zero timeout":  `request_timeout = "0s"`,
		"negative wait": `settle_delay = "-1s"`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			require.NoError(t, os.WriteFile(path, []byte(body+"\n"), 0o644))

			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestWriteRoundTrip(t *testing.T) {
	t.Setenv(EnvAPIURL, "")
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	want := Default()
	want.Retries = 5
	want.SettleDelay = Duration{time.Second}
	require.NoError(t, Write(path, want))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `settle_delay = "1s"`)

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	assert.Equal(t, "/tmp/xdg/shaderbg", Dir())
	assert.Equal(t, "/tmp/xdg/shaderbg/config.toml", Path())

	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("HOME", "/home/someone")
	assert.Equal(t, "/home/someone/.config/shaderbg", Dir())
}
