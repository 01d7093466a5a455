package desktop

import (
	"context"
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"shaderbg/internal/gfx"
)

// Surface is a borderless window at the origin of the primary monitor. The
// window, and with it the context, only exists once Context succeeds.
type Surface struct {
	host          *Host
	id            string
	width, height int

	window    *glfw.Window
	glc       *glContext
	pending   []func()
	destroyed bool
}

var _ gfx.Surface = (*Surface)(nil)

func (s *Surface) ID() string { return s.id }

// Size returns the framebuffer size once the window exists, which may differ
// from the requested size on high density displays.
func (s *Surface) Size() (int, int) {
	if s.window != nil {
		return s.window.GetFramebufferSize()
	}
	return s.width, s.height
}

func (s *Surface) Context(opts gfx.ContextOptions) (gfx.Context, error) {
	if s.destroyed {
		return nil, errors.New("surface destroyed")
	}
	if s.glc != nil {
		return s.glc, nil
	}

	var lastErr error
	for _, api := range creationAPIs {
		surfaceHints(api, opts)
		window, err := createWindow(s.width, s.height, s.id)
		if err != nil || window == nil {
			lastErr = err
			s.host.log.Debug("window creation failed",
				zap.String("surface", s.id),
				zap.String("api", apiName(api)),
				zap.Error(err))
			continue
		}

		window.SetPos(0, 0)
		if !sendToBack(window) {
			s.host.log.Debug("surface left in default stacking order", zap.String("surface", s.id))
		}
		window.MakeContextCurrent()
		if err := initGL(); err != nil {
			window.Destroy()
			return nil, errors.Wrap(err, "initialize gles2")
		}
		glfw.SwapInterval(1)

		s.window = window
		s.glc = &glContext{window: window}
		return s.glc, nil
	}
	if lastErr == nil {
		lastErr = errors.New("no context")
	}
	return nil, errors.Wrapf(lastErr, "options %s", opts)
}

// Settle keeps pumping window events for d so the new window is mapped and
// laid out before its size is read.
func (s *Surface) Settle(ctx context.Context, d time.Duration) error {
	deadline := time.Now().Add(d)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil
		}
		if remaining > 10*time.Millisecond {
			remaining = 10 * time.Millisecond
		}
		glfw.WaitEventsTimeout(remaining.Seconds())
	}
}

func (s *Surface) RequestFrame(fn func()) {
	if s.destroyed {
		return
	}
	s.pending = append(s.pending, fn)
}

// frame runs the callbacks queued before the call and presents the result.
// Callbacks they queue run on the next frame.
func (s *Surface) frame() int {
	frames := s.pending
	s.pending = nil
	for _, fn := range frames {
		if s.destroyed {
			break
		}
		s.run(fn)
	}
	if len(frames) > 0 && !s.destroyed && s.window != nil {
		s.window.SwapBuffers()
	}
	return len(frames)
}

func (s *Surface) run(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			s.host.log.Error("frame callback panicked", zap.String("surface", s.id), zap.Any("panic", r))
		}
	}()
	fn()
}

func (s *Surface) Destroy() {
	if s.destroyed {
		return
	}
	s.destroyed = true
	s.pending = nil
	if s.glc != nil {
		s.glc.release()
		s.glc = nil
	}
	if s.window != nil {
		s.window.Destroy()
		s.window = nil
	}
	s.host.remove(s)
	s.host.log.Debug("surface destroyed", zap.String("surface", s.id))
}
