package render

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"shaderbg/internal/gfx"
	"shaderbg/internal/shader"
)

// DefaultSettleDelay is how long a fresh surface is given to finish layout
// before size-dependent setup runs.
const DefaultSettleDelay = 100 * time.Millisecond

// Option configures a Coordinator.
type Option func(*Coordinator)

func WithLogger(log *zap.Logger) Option {
	return func(c *Coordinator) {
		if log != nil {
			c.log = log
		}
	}
}

// WithContextOptions replaces the ranked list of context option sets.
func WithContextOptions(options ...gfx.ContextOptions) Option {
	return func(c *Coordinator) { c.options = options }
}

func WithSettleDelay(d time.Duration) Option {
	return func(c *Coordinator) { c.settle = d }
}

// WithSize fixes the surface size. Zero dimensions fall back to the host viewport.
func WithSize(width, height int) Option {
	return func(c *Coordinator) { c.width, c.height = width, height }
}

// WithClock sets the time source used for the time uniform.
func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) { c.now = now }
}

func WithFrameObserver(fn FrameObserver) Option {
	return func(c *Coordinator) { c.observer = fn }
}

// Coordinator owns the render lifecycle of one surface identifier: the
// surface, its context, the program and buffer built on it and the frame
// loop drawing them. It is not safe for concurrent use; every method must be
// called on the host's thread.
type Coordinator struct {
	host gfx.Host
	id   string
	log  *zap.Logger

	options       []gfx.ContextOptions
	settle        time.Duration
	width, height int
	now           func() time.Time
	observer      FrameObserver

	scheduler *Scheduler
	surface   gfx.Surface
	glc       gfx.Context
	program   *Program
	quad      *Quad
	failure   *Failure
}

// NewCoordinator returns an idle coordinator for the surface id on host.
func NewCoordinator(host gfx.Host, id string, opts ...Option) *Coordinator {
	c := &Coordinator{
		host:    host,
		id:      id,
		log:     zap.NewNop(),
		options: gfx.DefaultContextOptions,
		settle:  DefaultSettleDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.With(zap.String("surface", id))
	c.scheduler = NewScheduler(c.now, c.observer, c.log)
	return c
}

// ID returns the surface identifier this coordinator owns.
func (c *Coordinator) ID() string { return c.id }

// Render turns raw generated text into a running frame loop.
//
// Source that sanitizes to nothing is a no-op: the running loop, if any, is
// left alone and the failure state is cleared. Otherwise the running loop is
// stopped and its resources released before the surface is replaced, so no
// frame is ever drawn with a superseded program. A nil error means the new
// loop is running; render failures are returned as *Failure.
func (c *Coordinator) Render(ctx context.Context, raw string) error {
	src := shader.Sanitize(raw)
	c.log.Debug("sanitized shader source", zap.Int("length", len(src)))
	if src.Empty() {
		c.failure = nil
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	c.stop()

	if !c.host.Supported() {
		c.removeSurface()
		return c.fail(unsupported(""))
	}

	width, height := c.size()
	surface, glc, err := Acquire(c.host, c.id, width, height, c.options, c.log)
	c.surface, c.glc = surface, glc
	if err != nil {
		return c.fail(err)
	}

	if err := surface.Settle(ctx, c.settle); err != nil {
		return err
	}
	width, height = surface.Size()

	program, err := BuildProgram(glc, width, height, src)
	if err != nil {
		c.log.Warn("shader program rejected", zap.Error(err))
		return c.fail(err)
	}
	quad := BindQuad(glc, program)
	uniforms := BindUniforms(glc, program, width, height)
	glc.Viewport(width, height)

	c.program, c.quad = program, quad
	c.failure = nil
	c.scheduler.Start(surface, glc, uniforms)
	c.log.Info("shader running", zap.Int("width", width), zap.Int("height", height))
	return nil
}

// Teardown stops the frame loop and removes the surface. No frame callback
// fires afterwards.
func (c *Coordinator) Teardown() {
	c.stop()
	c.removeSurface()
	c.log.Debug("surface torn down")
}

// Stop supersedes the running loop without touching the surface. The last
// drawn frame stays on screen.
func (c *Coordinator) Stop() {
	c.scheduler.Invalidate()
}

// Failure returns the failure of the last render attempt, or nil.
func (c *Coordinator) Failure() *Failure { return c.failure }

// State reports the state of the most recent frame loop.
func (c *Coordinator) State() State { return c.scheduler.State() }

// Token returns the active frame loop token, or zero.
func (c *Coordinator) Token() Token { return c.scheduler.Current() }

func (c *Coordinator) size() (int, int) {
	if c.width > 0 && c.height > 0 {
		return c.width, c.height
	}
	return c.host.Viewport()
}

// stop invalidates the active token and releases the GPU objects of the
// previous generation while its context is still alive.
func (c *Coordinator) stop() {
	c.scheduler.Invalidate()
	if c.glc != nil {
		c.quad.Release(c.glc)
		c.program.Release(c.glc)
	}
	c.program, c.quad = nil, nil
}

func (c *Coordinator) removeSurface() {
	if c.surface != nil {
		c.surface.Destroy()
	} else if s, ok := c.host.Lookup(c.id); ok {
		s.Destroy()
	}
	c.surface, c.glc = nil, nil
}

func (c *Coordinator) fail(err error) error {
	var f *Failure
	if errors.As(err, &f) {
		c.failure = f
	}
	return err
}
