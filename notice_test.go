package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"shaderbg/internal/gfx"
	"shaderbg/internal/render"
	"shaderbg/internal/shader"
)

func newTestNotifier(t *testing.T) (*notifier, *bytes.Buffer) {
	t.Helper()
	noColor := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = noColor })

	var buf bytes.Buffer
	return newNotifier(&buf), &buf
}

func TestNoticeCompileFailure(t *testing.T) {
	n, buf := newTestNotifier(t)
	failure := &render.Failure{Kind: render.CompileError, Stage: gfx.FragmentStage, Message: "ERROR: 0:2: syntax error"}

	n.Report(failure, shader.Sanitize("void main() {\n  gl_FragColor = vec4(1.0)\n}"))

	out := buf.String()
	assert.Contains(t, out, "Shader preview failed")
	assert.Contains(t, out, "ERROR: 0:2: syntax error")
	assert.Contains(t, out, "2    gl_FragColor = vec4(1.0)")
	assert.Same(t, failure, n.Current())
}

func TestNoticeUnsupportedIsDistinct(t *testing.T) {
	n, buf := newTestNotifier(t)

	n.Report(render.ErrContextUnsupported, shader.Sanitize("void main() {}"))

	out := buf.String()
	assert.Contains(t, out, "Graphics context not supported")
	assert.NotContains(t, out, "Shader preview failed")
	assert.NotContains(t, out, "void main")
	assert.Equal(t, render.ContextUnsupported, n.Current().Kind)
}

func TestNoticeDismissOnlyClearsNotice(t *testing.T) {
	n, buf := newTestNotifier(t)
	assert.False(t, n.Dismiss())

	n.Report(&render.Failure{Kind: render.LinkError, Message: "bad link"}, "")
	assert.True(t, n.Dismiss())
	assert.Nil(t, n.Current())
	assert.Contains(t, buf.String(), "Notice dismissed.")
}

func TestNoticeSuccessClears(t *testing.T) {
	n, _ := newTestNotifier(t)
	n.Report(&render.Failure{Kind: render.LinkError}, "")
	n.Report(nil, "")
	assert.Nil(t, n.Current())
}

func TestNoticeIgnoresCancellation(t *testing.T) {
	n, buf := newTestNotifier(t)
	n.Report(errors.Wrap(context.Canceled, "settle"), "")
	assert.Empty(t, buf.String())
	assert.Nil(t, n.Current())
}

func TestNoticeUnavailable(t *testing.T) {
	n, buf := newTestNotifier(t)
	n.Unavailable(errors.New("failed to generate shader: 502 Bad Gateway"))
	assert.Contains(t, buf.String(), "502 Bad Gateway")
	assert.Nil(t, n.Current())
}
