package render

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shaderbg/internal/gfx/gfxtest"
	"shaderbg/internal/shader"
)

type fakeClock struct{ t time.Time }

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

type schedulerFixture struct {
	surface  *gfxtest.Surface
	glc      *gfxtest.Context
	program  *Program
	uniforms Uniforms
}

func newSchedulerFixture(t *testing.T, fragment string) schedulerFixture {
	t.Helper()
	host := gfxtest.NewHost(320, 200)
	glc := newContext(t, host)
	p, err := BuildProgram(glc, 320, 200, shader.Sanitize(fragment))
	require.NoError(t, err)
	BindQuad(glc, p)
	return schedulerFixture{
		surface:  host.Surface("canvas"),
		glc:      glc,
		program:  p,
		uniforms: BindUniforms(glc, p, 320, 200),
	}
}

func TestSchedulerLoop(t *testing.T) {
	fx := newSchedulerFixture(t, fullFragment)
	clock := newFakeClock()
	s := NewScheduler(clock.Now, nil, nil)
	assert.Equal(t, Idle, s.State())

	tok := s.Start(fx.surface, fx.glc, fx.uniforms)
	assert.Equal(t, Running, s.State())
	assert.True(t, s.Active(tok))
	assert.Equal(t, 1, fx.surface.Pending())

	clock.Advance(1500 * time.Millisecond)
	assert.Equal(t, 1, fx.surface.Tick())
	assert.Equal(t, []float32{1.5}, fx.glc.Uniforms[TimeUniform])
	assert.Equal(t, 1, fx.glc.Clears)
	require.Len(t, fx.glc.Draws, 1)
	assert.Equal(t, gfxtest.Draw{Program: fx.program.ID, First: 0, Count: 4}, fx.glc.Draws[0])

	clock.Advance(500 * time.Millisecond)
	fx.surface.Tick()
	assert.Equal(t, []float32{2}, fx.glc.Uniforms[TimeUniform])
	assert.Equal(t, 2, fx.glc.DrawsWith(fx.program.ID))
	assert.Equal(t, 1, fx.surface.Pending())
}

func TestSchedulerSkipsAbsentTime(t *testing.T) {
	fx := newSchedulerFixture(t, plainFragment)
	s := NewScheduler(nil, nil, nil)

	s.Start(fx.surface, fx.glc, fx.uniforms)
	fx.surface.Tick()
	fx.surface.Tick()

	assert.Zero(t, fx.glc.UniformSets[TimeUniform])
	assert.Len(t, fx.glc.Draws, 2)
}

func TestSchedulerInvalidate(t *testing.T) {
	fx := newSchedulerFixture(t, plainFragment)
	s := NewScheduler(nil, nil, nil)

	tok := s.Start(fx.surface, fx.glc, fx.uniforms)
	fx.surface.Tick()
	require.Len(t, fx.glc.Draws, 1)

	assert.Equal(t, tok, s.Invalidate())
	assert.Equal(t, Superseded, s.State())
	assert.False(t, s.Active(tok))
	assert.Zero(t, s.Current())

	// The in-flight tick sees a stale token: no draw, no reschedule.
	assert.Equal(t, 1, fx.surface.Tick())
	assert.Len(t, fx.glc.Draws, 1)
	assert.Zero(t, fx.surface.Pending())

	assert.Zero(t, s.Invalidate())
}

func TestSchedulerSupersede(t *testing.T) {
	fx := newSchedulerFixture(t, plainFragment)
	var frames []Frame
	s := NewScheduler(nil, func(f Frame) { frames = append(frames, f) }, nil)

	first := s.Start(fx.surface, fx.glc, fx.uniforms)
	fx.surface.Tick()
	second := s.Start(fx.surface, fx.glc, fx.uniforms)
	assert.NotEqual(t, first, second)
	assert.False(t, s.Active(first))

	// Both loops have one queued frame; only the second draws.
	assert.Equal(t, 2, fx.surface.Tick())
	assert.Equal(t, 1, fx.surface.Pending())

	require.Len(t, frames, 2)
	assert.Equal(t, first, frames[0].Token)
	assert.Equal(t, second, frames[1].Token)
	assert.Equal(t, 0, frames[1].Index)
	assert.Equal(t, 320, frames[1].Width)
	assert.Equal(t, 200, frames[1].Height)
}

func TestSchedulerObserverStops(t *testing.T) {
	fx := newSchedulerFixture(t, plainFragment)
	var s *Scheduler
	s = NewScheduler(nil, func(f Frame) {
		if f.Index == 2 {
			s.Invalidate()
		}
	}, nil)

	s.Start(fx.surface, fx.glc, fx.uniforms)
	for i := 0; i < 5; i++ {
		fx.surface.Tick()
	}

	assert.Len(t, fx.glc.Draws, 3)
	assert.Zero(t, fx.surface.Pending())
	assert.Equal(t, Superseded, s.State())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "running", Running.String())
	assert.Equal(t, "superseded", Superseded.String())
}
