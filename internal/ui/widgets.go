// Package ui holds the fyne windows of shaderbg: the calculator and the
// about window.
package ui

import (
	"image/color"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

// Colors and styling constants
const (
	TitleTextColor     = "#E6E6F0"
	InfoTextColor      = "#8AB4F8"
	KeyTextColor       = "#FFFFFF"
	KeyBackgroundColor = "#3C3C46"
	OperatorBackground = "#0078D4"
	WindowBackground   = "#1E1E24"
	DisabledKeyColor   = "#6E6E78"
	InfoTextSize       = 12
)

// parseColor parses "#RGB", "#RRGGBB" or "#RRGGBBAA". Anything else is
// opaque black.
func parseColor(hex string) color.NRGBA {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if len(hex) != 8 || err != nil {
		return color.NRGBA{A: 255}
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}
}

// shade scales the color channels of c by f, keeping alpha.
func shade(c color.NRGBA, f float32) color.NRGBA {
	scale := func(v uint8) uint8 {
		x := float32(v) * f
		if x > 255 {
			x = 255
		}
		return uint8(x)
	}
	return color.NRGBA{R: scale(c.R), G: scale(c.G), B: scale(c.B), A: c.A}
}

// keyButton is one flat keypad key. It darkens while held and dims when
// disabled; a disabled key ignores taps.
type keyButton struct {
	widget.DisableableWidget
	label string
	text  color.NRGBA
	fill  color.NRGBA

	pressed  bool
	onTapped func()
}

var (
	_ fyne.Tappable     = (*keyButton)(nil)
	_ desktop.Mouseable = (*keyButton)(nil)
)

func newKeyButton(label string, text, fill color.NRGBA, onTapped func()) *keyButton {
	b := &keyButton{label: label, text: text, fill: fill, onTapped: onTapped}
	b.ExtendBaseWidget(b)
	return b
}

// colors returns the label and fill for the current state.
func (b *keyButton) colors() (color.NRGBA, color.NRGBA) {
	switch {
	case b.Disabled():
		return parseColor(DisabledKeyColor), shade(b.fill, 0.6)
	case b.pressed:
		return b.text, shade(b.fill, 0.75)
	default:
		return b.text, b.fill
	}
}

func (b *keyButton) Tapped(*fyne.PointEvent) {
	if b.Disabled() || b.onTapped == nil {
		return
	}
	b.onTapped()
}

func (b *keyButton) MouseDown(*desktop.MouseEvent) {
	if b.Disabled() {
		return
	}
	b.pressed = true
	b.Refresh()
}

func (b *keyButton) MouseUp(*desktop.MouseEvent) {
	if !b.pressed {
		return
	}
	b.pressed = false
	b.Refresh()
}

func (b *keyButton) CreateRenderer() fyne.WidgetRenderer {
	text, fill := b.colors()
	bg := canvas.NewRectangle(fill)
	bg.SetMinSize(fyne.NewSize(56, 44))
	bg.CornerRadius = 4

	label := canvas.NewText(b.label, text)
	label.Alignment = fyne.TextAlignCenter
	label.TextSize = 18

	r := &keyButtonRenderer{button: b, bg: bg, label: label}
	r.content = container.NewStack(bg, container.NewCenter(label))
	return r
}

type keyButtonRenderer struct {
	button  *keyButton
	bg      *canvas.Rectangle
	label   *canvas.Text
	content *fyne.Container
}

func (r *keyButtonRenderer) Layout(size fyne.Size) { r.content.Resize(size) }

func (r *keyButtonRenderer) MinSize() fyne.Size { return r.content.MinSize() }

func (r *keyButtonRenderer) Refresh() {
	text, fill := r.button.colors()
	r.bg.FillColor = fill
	r.label.Color = text
	r.label.Text = r.button.label
	canvas.Refresh(r.bg)
	canvas.Refresh(r.label)
}

func (r *keyButtonRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.content}
}

func (r *keyButtonRenderer) Destroy() {}

// columnLayout stacks objects top to bottom, each centered at its minimum
// size, inside a fixed-width column.
type columnLayout struct {
	width         float32
	topPadding    float32
	bottomPadding float32
	spacing       float32
	// minButtonHeight applies to the last object.
	minButtonHeight float32
}

func (l *columnLayout) Layout(objects []fyne.CanvasObject, containerSize fyne.Size) {
	currentY := l.topPadding
	for i, obj := range objects {
		size := obj.MinSize()
		if size.Width > l.width-40 {
			size.Width = l.width - 40
		}
		if i == len(objects)-1 && size.Height < l.minButtonHeight {
			size.Height = l.minButtonHeight
		}
		obj.Resize(size)
		obj.Move(fyne.NewPos((containerSize.Width-size.Width)/2, currentY))
		currentY += size.Height + l.spacing
	}
}

func (l *columnLayout) MinSize(objects []fyne.CanvasObject) fyne.Size {
	height := l.topPadding + l.bottomPadding
	for i, obj := range objects {
		h := obj.MinSize().Height
		if i == len(objects)-1 && h < l.minButtonHeight {
			h = l.minButtonHeight
		}
		height += h
		if i > 0 {
			height += l.spacing
		}
	}
	return fyne.NewSize(l.width, height)
}
