package main

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/pkg/errors"

	"shaderbg/internal/render"
	"shaderbg/internal/shader"
)

var (
	titleColor  = color.New(color.FgRed, color.Bold)
	detailColor = color.New(color.FgYellow)
	sourceColor = color.New(color.Faint)
	infoColor   = color.New(color.FgCyan)
)

// notifier prints render outcomes to the terminal. A failure notice stays
// current until it is dismissed or a later render succeeds; dismissing only
// forgets the notice and leaves the surface alone.
type notifier struct {
	w       io.Writer
	current *render.Failure
}

func newNotifier(w io.Writer) *notifier {
	return &notifier{w: w}
}

// Report shows the result of rendering source.
func (n *notifier) Report(err error, source shader.Source) {
	if err == nil {
		n.current = nil
		return
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return
	}

	var f *render.Failure
	if !errors.As(err, &f) {
		titleColor.Fprintln(n.w, "Shader preview failed")
		detailColor.Fprintln(n.w, err)
		return
	}
	n.current = f

	if f.Kind == render.ContextUnsupported {
		titleColor.Fprintln(n.w, "Graphics context not supported on this system.")
		if f.Message != "" {
			detailColor.Fprintln(n.w, f.Message)
		}
		infoColor.Fprintln(n.w, "Shaders cannot be previewed here. Type :dismiss to hide this notice.")
		return
	}

	titleColor.Fprintln(n.w, "Shader preview failed")
	detailColor.Fprintln(n.w, f.Error())
	lines := source.Lines()
	width := len(fmt.Sprint(len(lines)))
	for i, line := range lines {
		sourceColor.Fprintf(n.w, "%*d  %s\n", width, i+1, line)
	}
}

// Unavailable reports a failed request to the description service.
func (n *notifier) Unavailable(err error) {
	titleColor.Fprintln(n.w, err)
	infoColor.Fprintln(n.w, "Try again or enter a different description.")
}

// Dismiss forgets the current notice and reports whether there was one.
func (n *notifier) Dismiss() bool {
	if n.current == nil {
		return false
	}
	n.current = nil
	infoColor.Fprintln(n.w, "Notice dismissed.")
	return true
}

// Current is the failure on display, if any.
func (n *notifier) Current() *render.Failure { return n.current }
