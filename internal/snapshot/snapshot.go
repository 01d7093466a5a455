// Package snapshot turns a read-back color buffer into a PNG thumbnail.
package snapshot

import (
	"image"
	"image/color"
	"image/png"
	"io"

	"github.com/pkg/errors"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// FromPixels builds an image from tightly packed RGBA rows stored bottom row
// first, the order GL reads them back in.
func FromPixels(pix []byte, width, height int) (*image.RGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.Errorf("invalid size %dx%d", width, height)
	}
	stride := width * 4
	if len(pix) != stride*height {
		return nil, errors.Errorf("got %d bytes for %dx%d pixels", len(pix), width, height)
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		src := pix[(height-1-y)*stride : (height-y)*stride]
		copy(img.Pix[y*img.Stride:y*img.Stride+stride], src)
	}
	return img, nil
}

// Thumbnail scales img down to at most maxWidth pixels wide, keeping the
// aspect ratio. Smaller images are returned unchanged.
func Thumbnail(img image.Image, maxWidth int) image.Image {
	b := img.Bounds()
	if maxWidth <= 0 || b.Dx() <= maxWidth {
		return img
	}
	height := b.Dy() * maxWidth / b.Dx()
	if height < 1 {
		height = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, height))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	return dst
}

// Caption draws text in the top left corner on a dark band.
func Caption(img *image.RGBA, text string) {
	if text == "" {
		return
	}
	face := basicfont.Face7x13
	band := image.Rect(0, 0, img.Bounds().Dx(), face.Height+4)
	xdraw.Draw(img, band, image.NewUniform(color.RGBA{0, 0, 0, 160}), image.Point{}, xdraw.Over)

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.RGBA{255, 255, 255, 255}),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.I(3), Y: fixed.I(face.Ascent + 2)},
	}
	d.DrawString(text)
}

// Encode writes the pixels as a PNG no wider than maxWidth, with an optional caption.
func Encode(w io.Writer, pix []byte, width, height, maxWidth int, caption string) error {
	img, err := FromPixels(pix, width, height)
	if err != nil {
		return err
	}
	thumb := Thumbnail(img, maxWidth)

	rgba, ok := thumb.(*image.RGBA)
	if !ok {
		rgba = image.NewRGBA(thumb.Bounds())
		xdraw.Draw(rgba, rgba.Bounds(), thumb, thumb.Bounds().Min, xdraw.Src)
	}
	Caption(rgba, caption)

	return errors.Wrap(png.Encode(w, rgba), "encode png")
}
