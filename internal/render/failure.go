package render

import (
	"fmt"

	"shaderbg/internal/gfx"
)

// Kind classifies a render failure.
type Kind int

const (
	// ContextUnsupported: no option set produced a context. Terminal for the attempt.
	ContextUnsupported Kind = iota + 1
	// CompileError: a stage failed to compile. A different source may succeed.
	CompileError
	// LinkError: both stages compiled but the program failed to link.
	LinkError
)

func (k Kind) String() string {
	switch k {
	case ContextUnsupported:
		return "context unsupported"
	case CompileError:
		return "compile error"
	case LinkError:
		return "link error"
	default:
		return "unknown"
	}
}

// Failure is the outcome of a render attempt that did not reach the
// running state. Message carries the driver's diagnostic log.
type Failure struct {
	Kind    Kind
	Stage   gfx.Stage // only meaningful for CompileError
	Message string
}

// Sentinels for errors.Is. A *Failure matches the sentinel of its Kind.
var (
	ErrContextUnsupported = &Failure{Kind: ContextUnsupported}
	ErrCompile            = &Failure{Kind: CompileError}
	ErrLink               = &Failure{Kind: LinkError}
)

func (f *Failure) Error() string {
	switch f.Kind {
	case ContextUnsupported:
		if f.Message == "" {
			return "graphics context not supported"
		}
		return "graphics context not supported: " + f.Message
	case CompileError:
		return fmt.Sprintf("%s shader compile error: %s", f.Stage, f.Message)
	case LinkError:
		return "program link error: " + f.Message
	default:
		return "render failure: " + f.Message
	}
}

func (f *Failure) Is(target error) bool {
	t, ok := target.(*Failure)
	return ok && t.Kind == f.Kind
}

func unsupported(msg string) *Failure {
	return &Failure{Kind: ContextUnsupported, Message: msg}
}
