package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"
)

const (
	aboutWidth  = 400
	aboutHeight = 260
)

// AboutInfo is the text of the about window.
type AboutInfo struct {
	Name       string
	Version    string
	Lines      []string
	URL        string
	ButtonText string
}

// NewAbout builds the about window content. The button passes the URL to open.
func NewAbout(info AboutInfo, open func(url string) error, log *zap.Logger) fyne.CanvasObject {
	if log == nil {
		log = zap.NewNop()
	}

	title := canvas.NewText(info.Name, parseColor(TitleTextColor))
	title.Alignment = fyne.TextAlignCenter
	title.TextSize = 20
	title.TextStyle = fyne.TextStyle{Bold: true}

	elements := []fyne.CanvasObject{title}
	if info.Version != "" {
		version := canvas.NewText("version "+info.Version, parseColor(InfoTextColor))
		version.TextSize = InfoTextSize
		elements = append(elements, version)
	}
	for _, line := range info.Lines {
		text := canvas.NewText(line, parseColor(InfoTextColor))
		text.Alignment = fyne.TextAlignCenter
		text.TextSize = InfoTextSize
		elements = append(elements, text)
	}

	if info.URL != "" {
		label := info.ButtonText
		if label == "" {
			label = info.URL
		}
		elements = append(elements, widget.NewButton(label, func() {
			if err := open(info.URL); err != nil {
				log.Warn("failed to open URL", zap.String("url", info.URL), zap.Error(err))
			}
		}))
	}

	content := container.New(&columnLayout{
		width:           aboutWidth,
		topPadding:      15,
		bottomPadding:   15,
		spacing:         10,
		minButtonHeight: 35,
	}, elements...)

	return container.NewStack(canvas.NewRectangle(parseColor(WindowBackground)), content)
}

// ShowAbout opens the about window.
func ShowAbout(a fyne.App, info AboutInfo, open func(url string) error, log *zap.Logger) fyne.Window {
	w := a.NewWindow("About")
	w.SetContent(NewAbout(info, open, log))
	w.Resize(fyne.NewSize(aboutWidth, aboutHeight))
	w.SetFixedSize(true)
	w.CenterOnScreen()
	w.Show()
	return w
}
