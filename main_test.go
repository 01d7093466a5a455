package main

import (
	"bytes"
	"context"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"shaderbg/internal/config"
	"shaderbg/internal/gfx/gfxtest"
	"shaderbg/internal/render"
)

func TestDetectCommand(t *testing.T) {
	tests := []struct {
		args []string
		cmd  Command
		rest []string
	}{
		{nil, CommandGen, nil},
		{[]string{"gen", "a", "plasma"}, CommandGen, []string{"a", "plasma"}},
		{[]string{"VIEW", "x.frag", "-watch"}, CommandView, []string{"x.frag", "-watch"}},
		{[]string{"calc"}, CommandCalc, []string{}},
		{[]string{"about"}, CommandAbout, []string{}},
		{[]string{"init-config"}, CommandInitConfig, []string{}},
		{[]string{"--help"}, CommandHelp, nil},
		{[]string{"swirling", "ocean"}, CommandGen, []string{"swirling", "ocean"}},
	}
	for _, tt := range tests {
		cmd, rest := detectCommand(tt.args)
		assert.Equal(t, tt.cmd, cmd, "%v", tt.args)
		assert.Equal(t, tt.rest, rest, "%v", tt.args)
	}
}

func TestParseViewFlags(t *testing.T) {
	vf, err := parseViewFlags([]string{"wave.frag", "-watch", "-snapshot", "out.png", "-snapshot-frame", "5"})
	require.NoError(t, err)
	assert.Equal(t, viewFlags{file: "wave.frag", watch: true, snapshot: "out.png", snapshotFrame: 5}, vf)

	vf, err = parseViewFlags([]string{"-watch", "wave.frag"})
	require.NoError(t, err)
	assert.Equal(t, "wave.frag", vf.file)
	assert.Equal(t, defaultSnapshotFrame, vf.snapshotFrame)

	_, err = parseViewFlags(nil)
	assert.Error(t, err)
	_, err = parseViewFlags([]string{"wave.frag", "-snapshot-frame", "-2"})
	assert.Error(t, err)
	_, err = parseViewFlags([]string{"wave.frag", "-bogus"})
	assert.Error(t, err)
}

func TestRenderOptions(t *testing.T) {
	cfg := config.Default()
	assert.Len(t, renderOptions(cfg, zap.NewNop(), nil), 2)

	cfg.Width, cfg.Height = 640, 480
	assert.Len(t, renderOptions(cfg, zap.NewNop(), func(render.Frame) {}), 4)
}

func TestSnapshotObserver(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frame.png")
	var calls int
	var got error
	observer := snapshotObserver(path, 2, 64, zap.NewNop(), func(err error) {
		calls++
		got = err
	})

	host := gfxtest.NewHost(128, 64)
	cfg := config.Default()
	cfg.SettleDelay = config.Duration{Duration: time.Millisecond}
	manager := render.NewManager(host, renderOptions(cfg, zap.NewNop(), observer)...)

	source := "precision mediump float;\nvoid main() { gl_FragColor = vec4(1.0); }"
	require.NoError(t, manager.Render(context.Background(), source, cfg.SurfaceID))

	surface := host.Surface(cfg.SurfaceID)
	for i := 0; i < 5; i++ {
		surface.Tick()
	}
	assert.Equal(t, 1, calls)
	require.NoError(t, got)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 64, img.Bounds().Dx())
	assert.Equal(t, 32, img.Bounds().Dy())
}

func TestSnapshotObserverCreateError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "frame.png")
	var got error
	observer := snapshotObserver(path, 0, 64, zap.NewNop(), func(err error) { got = err })

	observer(render.Frame{Index: 0, Context: &gfxtest.Context{}, Width: 4, Height: 4})
	assert.Error(t, got)
}

func TestRunInitConfig(t *testing.T) {
	t.Setenv(config.EnvAPIURL, "")
	path := filepath.Join(t.TempDir(), "shaderbg", "config.toml")
	var stdout, stderr bytes.Buffer
	require.NoError(t, run([]string{"-config", path, "init-config"}, nil, &stdout, &stderr))
	assert.Contains(t, stdout.String(), path)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestRunHelp(t *testing.T) {
	var stdout, stderr bytes.Buffer
	require.NoError(t, run([]string{"help"}, nil, &stdout, &stderr))
	assert.Contains(t, stdout.String(), "usage: shaderbg")
	assert.Contains(t, stdout.String(), "init-config")
}

func TestRunRejectsBadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("width = \"wide\"\n"), 0o644))
	var stdout, stderr bytes.Buffer
	assert.Error(t, run([]string{"-config", path, "about"}, nil, &stdout, &stderr))
}
