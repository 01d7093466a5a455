package render

import (
	"go.uber.org/zap"

	"shaderbg/internal/gfx"
)

// Acquire replaces the surface identified by id and negotiates a context on it.
//
// Any existing surface with the same id is destroyed first, so repeated calls
// never leak surfaces. The option sets are tried in order and the first one
// that yields a context wins; later sets are not attempted. When every set
// fails the new surface is destroyed as well and a ContextUnsupported
// failure is returned.
func Acquire(host gfx.Host, id string, width, height int, options []gfx.ContextOptions, log *zap.Logger) (gfx.Surface, gfx.Context, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if old, ok := host.Lookup(id); ok {
		log.Debug("removing stale surface")
		old.Destroy()
	}

	surface, err := host.CreateSurface(id, width, height)
	if err != nil {
		return nil, nil, unsupported(err.Error())
	}

	for i, opts := range options {
		glc, err := surface.Context(opts)
		if err != nil || glc == nil {
			log.Debug("context option set rejected",
				zap.Int("attempt", i+1),
				zap.Stringer("options", opts),
				zap.Error(err))
			continue
		}
		log.Info("graphics context created",
			zap.Int("attempt", i+1),
			zap.Stringer("options", opts))
		return surface, glc, nil
	}

	surface.Destroy()
	log.Warn("graphics context not supported", zap.Int("attempts", len(options)))
	return nil, nil, unsupported("")
}
