package render

import (
	"time"

	"go.uber.org/atomic"
	"go.uber.org/zap"

	"shaderbg/internal/gfx"
)

// Token identifies one frame loop generation. The zero Token is never active.
type Token uint64

// State of the scheduler's most recent generation.
type State int

const (
	Idle State = iota
	Running
	Superseded
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Superseded:
		return "superseded"
	default:
		return "unknown"
	}
}

// Frame describes one drawn frame.
type Frame struct {
	Token         Token
	Index         int
	Elapsed       time.Duration
	Context       gfx.Context
	Width, Height int
}

// FrameObserver is called after every drawn frame, before the next one is
// requested.
type FrameObserver func(Frame)

// Scheduler drives the per-frame animation loop.
//
// Each loop captures the token minted when it started and checks it against
// the active token before doing any work. Invalidating the active token is
// the only way to stop a loop: the next tick of a stale loop draws nothing
// and requests nothing further.
type Scheduler struct {
	minted   atomic.Uint64
	active   atomic.Uint64
	now      func() time.Time
	observer FrameObserver
	log      *zap.Logger
}

// NewScheduler returns an idle scheduler. A nil clock means time.Now.
func NewScheduler(now func() time.Time, observer FrameObserver, log *zap.Logger) *Scheduler {
	if now == nil {
		now = time.Now
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Scheduler{now: now, observer: observer, log: log}
}

// Active reports whether t is the current generation.
func (s *Scheduler) Active(t Token) bool {
	return t != 0 && uint64(t) == s.active.Load()
}

// Current returns the active token, or zero when no loop is running.
func (s *Scheduler) Current() Token {
	return Token(s.active.Load())
}

// State reports the state of the most recently started loop.
func (s *Scheduler) State() State {
	switch last := s.minted.Load(); {
	case last == 0:
		return Idle
	case s.active.Load() == last:
		return Running
	default:
		return Superseded
	}
}

// Invalidate supersedes the active loop, if any, and returns its token.
func (s *Scheduler) Invalidate() Token {
	prev := Token(s.active.Swap(0))
	if prev != 0 {
		s.log.Debug("frame loop superseded", zap.Uint64("token", uint64(prev)))
	}
	return prev
}

// Start mints a new token, superseding any running loop, and requests the
// first frame of a loop that draws the bound quad on surface.
func (s *Scheduler) Start(surface gfx.Surface, glc gfx.Context, u Uniforms) Token {
	t := Token(s.minted.Inc())
	s.active.Store(uint64(t))

	start := s.now()
	width, height := surface.Size()
	index := 0

	var frame func()
	frame = func() {
		if !s.Active(t) {
			return
		}
		elapsed := s.now().Sub(start)
		if u.Time.Valid() {
			glc.Uniform1f(u.Time, float32(elapsed.Seconds()))
		}
		glc.Clear()
		glc.DrawTriangleStrip(0, quadVertexCount)

		if s.observer != nil {
			s.observer(Frame{
				Token:   t,
				Index:   index,
				Elapsed: elapsed,
				Context: glc,
				Width:   width,
				Height:  height,
			})
		}
		index++
		// The observer may have stopped the loop.
		if s.Active(t) {
			surface.RequestFrame(frame)
		}
	}

	s.log.Debug("frame loop started", zap.Uint64("token", uint64(t)), zap.String("surface", surface.ID()))
	surface.RequestFrame(frame)
	return t
}
