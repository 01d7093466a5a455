// Package desktop implements the gfx host with GLFW windows and OpenGL ES 2.0
// contexts. Everything except Post must be called on the main thread, which
// the caller locks with runtime.LockOSThread before NewHost.
package desktop

import (
	"context"
	"sync"
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"shaderbg/internal/gfx"
)

const (
	fallbackWidth  = 800
	fallbackHeight = 600

	// idleWait bounds how long the loop sleeps when no frame is queued.
	idleWait = 100 * time.Millisecond
)

// Host owns the GLFW library state and the surfaces created through it.
type Host struct {
	log      *zap.Logger
	surfaces map[string]*Surface

	mu         sync.Mutex
	tasks      []func()
	terminated bool

	probed    bool
	supported bool
}

var _ gfx.Host = (*Host)(nil)

// NewHost initializes GLFW.
func NewHost(log *zap.Logger) (*Host, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := glfw.Init(); err != nil {
		return nil, errors.Wrap(err, "initialize glfw")
	}
	return &Host{log: log, surfaces: make(map[string]*Surface)}, nil
}

// Terminate destroys every surface and shuts GLFW down. Tasks posted
// afterwards are dropped.
func (h *Host) Terminate() {
	h.mu.Lock()
	if h.terminated {
		h.mu.Unlock()
		return
	}
	h.terminated = true
	h.tasks = nil
	h.mu.Unlock()

	for _, s := range h.surfaces {
		s.Destroy()
	}
	glfw.Terminate()
}

func (h *Host) Lookup(id string) (gfx.Surface, bool) {
	s, ok := h.surfaces[id]
	if !ok {
		return nil, false
	}
	return s, true
}

func (h *Host) CreateSurface(id string, width, height int) (gfx.Surface, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.Errorf("invalid surface size %dx%d", width, height)
	}
	if old, ok := h.surfaces[id]; ok {
		old.Destroy()
	}
	s := &Surface{host: h, id: id, width: width, height: height}
	h.surfaces[id] = s
	return s, nil
}

func (h *Host) remove(s *Surface) {
	if cur, ok := h.surfaces[s.id]; ok && cur == s {
		delete(h.surfaces, s.id)
	}
}

// Viewport returns the primary monitor's current video mode size.
func (h *Host) Viewport() (int, int) {
	monitor := glfw.GetPrimaryMonitor()
	if monitor == nil {
		return fallbackWidth, fallbackHeight
	}
	mode := monitor.GetVideoMode()
	if mode == nil {
		return fallbackWidth, fallbackHeight
	}
	return mode.Width, mode.Height
}

// Supported probes once for any GLES2 context using a hidden 1x1 window.
func (h *Host) Supported() bool {
	if h.probed {
		return h.supported
	}
	h.probed = true
	for _, api := range creationAPIs {
		esHints(api)
		glfw.WindowHint(glfw.Visible, glfw.False)
		window, err := createWindow(1, 1, "probe")
		if err != nil || window == nil {
			h.log.Debug("context probe failed", zap.String("api", apiName(api)), zap.Error(err))
			continue
		}
		window.Destroy()
		h.supported = true
		break
	}
	if !h.supported {
		h.log.Warn("no OpenGL ES 2.0 context available")
	}
	return h.supported
}

// Post queues fn to run on the main thread during Run. It is safe to call
// from any goroutine, and reports false once the host has terminated.
func (h *Host) Post(fn func()) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.terminated {
		return false
	}
	h.tasks = append(h.tasks, fn)
	// Under the lock so Terminate cannot run between the check and the wake-up.
	glfw.PostEmptyEvent()
	return true
}

func (h *Host) drain() {
	h.mu.Lock()
	tasks := h.tasks
	h.tasks = nil
	h.mu.Unlock()
	for _, fn := range tasks {
		fn()
	}
}

// Run is the main-thread loop: it runs posted tasks, then the queued frame
// callbacks of every surface, then processes window events. Swaps are paced
// by the display; with nothing queued the loop waits for events. Run returns
// when ctx is done.
func (h *Host) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		h.drain()

		busy := false
		for _, s := range h.surfaces {
			if s.frame() > 0 {
				busy = true
			}
		}

		if busy {
			glfw.PollEvents()
		} else {
			glfw.WaitEventsTimeout(idleWait.Seconds())
		}
	}
}
