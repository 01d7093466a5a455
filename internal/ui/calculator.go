package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"

	"shaderbg/internal/calc"
)

const (
	calculatorTitle  = "Calculator"
	inputPlaceholder = "Enter expression (e.g., 2+2, 3*4, (5+7)/2)"
	calculatorWidth  = 320
)

// Calculator binds a calc.Keypad to an expression entry, a result display
// and the keypad buttons.
type Calculator struct {
	keypad *calc.Keypad
	log    *zap.Logger

	entry     *widget.Entry
	result    *canvas.Text
	calculate *widget.Button
	keys      map[string]*keyButton
	content   fyne.CanvasObject

	// syncing suppresses entry callbacks while the entry mirrors the keypad.
	syncing bool
}

func NewCalculator(log *zap.Logger) *Calculator {
	if log == nil {
		log = zap.NewNop()
	}
	c := &Calculator{
		keypad: calc.NewKeypad(),
		log:    log,
		keys:   make(map[string]*keyButton),
	}

	c.entry = widget.NewEntry()
	c.entry.SetPlaceHolder(inputPlaceholder)
	c.entry.OnChanged = func(text string) {
		if c.syncing {
			return
		}
		c.keypad.Input = text
		c.refreshButtons()
	}
	c.entry.OnSubmitted = func(string) { c.onCalculate() }

	c.calculate = widget.NewButton("Calculate", c.onCalculate)

	c.result = canvas.NewText(c.keypad.Status(), parseColor(TitleTextColor))
	c.result.TextSize = 20
	c.result.Alignment = fyne.TextAlignTrailing
	resultLabel := widget.NewLabel("Result:")
	resultLabel.TextStyle = fyne.TextStyle{Bold: true}
	display := container.NewGridWrap(fyne.NewSize(calculatorWidth-20, 32), c.result)

	grid := container.NewGridWithColumns(len(calc.Keys[0]))
	for _, row := range calc.Keys {
		for _, key := range row {
			key := key
			bg := KeyBackgroundColor
			if calc.IsOperator(key) || key == "AC" || key == "C" || key == "=" {
				bg = OperatorBackground
			}
			btn := newKeyButton(key, parseColor(KeyTextColor), parseColor(bg), func() { c.press(key) })
			c.keys[key] = btn
			grid.Add(btn)
		}
	}

	c.refreshButtons()

	input := container.NewBorder(nil, nil, nil, c.calculate, c.entry)
	c.content = container.NewStack(
		canvas.NewRectangle(parseColor(WindowBackground)),
		container.NewPadded(container.NewVBox(input, resultLabel, display, grid)),
	)
	return c
}

// Content is the window content.
func (c *Calculator) Content() fyne.CanvasObject { return c.content }

// Keypad exposes the underlying state.
func (c *Calculator) Keypad() *calc.Keypad { return c.keypad }

// Status is the text currently shown in the result display.
func (c *Calculator) Status() string { return c.result.Text }

func (c *Calculator) press(key string) {
	c.keypad.Press(key)
	if key == "=" {
		c.log.Debug("expression evaluated", zap.String("result", c.keypad.Result))
	}
	c.refresh()
}

func (c *Calculator) onCalculate() {
	c.keypad.Calculate()
	c.refresh()
}

func (c *Calculator) refresh() {
	c.syncing = true
	c.entry.SetText(c.keypad.Input)
	c.syncing = false

	c.result.Text = c.keypad.Status()
	c.result.Refresh()
	c.refreshButtons()
}

// refreshButtons disables the actions that have no input to work on.
func (c *Calculator) refreshButtons() {
	empty := c.keypad.Input == ""
	for _, d := range []fyne.Disableable{c.calculate, c.keys["="], c.keys["C"]} {
		if empty {
			d.Disable()
		} else {
			d.Enable()
		}
	}
}

// ShowCalculator opens the calculator window.
func ShowCalculator(a fyne.App, log *zap.Logger) fyne.Window {
	w := a.NewWindow(calculatorTitle)
	w.SetContent(NewCalculator(log).Content())
	w.Resize(fyne.NewSize(calculatorWidth, 420))
	w.SetFixedSize(true)
	w.CenterOnScreen()
	w.Show()
	return w
}
