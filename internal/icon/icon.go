// Package icon turns an uploaded image into the square PNG icons a PWA manifest lists.
package icon

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"

	"golang.org/x/image/draw"
)

// Sizes are the icon edges the fan app manifest references.
var Sizes = []int{192, 512}

const maxSourcePixels = 40_000_000

var (
	ErrUnsupportedImage = errors.New("unsupported image: upload a PNG, JPEG or GIF")
	ErrImageTooLarge    = errors.New("image too large")
)

// Rendition is one generated icon.
type Rendition struct {
	Size int
	Name string
	PNG  []byte
}

// Render decodes src and produces one PNG per size. Non-square sources are centered
// on a transparent square canvas before scaling.
func Render(src []byte, sizes []int) ([]Rendition, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(src))
	if err != nil {
		return nil, ErrUnsupportedImage
	}
	if cfg.Width*cfg.Height > maxSourcePixels {
		return nil, fmt.Errorf("%w: %dx%d", ErrImageTooLarge, cfg.Width, cfg.Height)
	}
	img, _, err := image.Decode(bytes.NewReader(src))
	if err != nil {
		return nil, ErrUnsupportedImage
	}

	square := squareCanvas(img)
	out := make([]Rendition, 0, len(sizes))
	for _, size := range sizes {
		if size <= 0 {
			return nil, fmt.Errorf("invalid icon size %d", size)
		}
		dst := image.NewNRGBA(image.Rect(0, 0, size, size))
		draw.CatmullRom.Scale(dst, dst.Bounds(), square, square.Bounds(), draw.Over, nil)

		var buf bytes.Buffer
		if err := png.Encode(&buf, dst); err != nil {
			return nil, fmt.Errorf("encode icon %d: %w", size, err)
		}
		out = append(out, Rendition{Size: size, Name: FileName(size), PNG: buf.Bytes()})
	}
	return out, nil
}

// FileName is the repository file name for an icon of the given size.
func FileName(size int) string {
	return fmt.Sprintf("icon-%d.png", size)
}

func squareCanvas(img image.Image) image.Image {
	b := img.Bounds()
	if b.Dx() == b.Dy() {
		return img
	}
	edge := max(b.Dx(), b.Dy())
	canvas := image.NewNRGBA(image.Rect(0, 0, edge, edge))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.Transparent), image.Point{}, draw.Src)
	offset := image.Pt((edge-b.Dx())/2, (edge-b.Dy())/2)
	draw.Draw(canvas, image.Rectangle{Min: offset, Max: offset.Add(b.Size())}, img, b.Min, draw.Over)
	return canvas
}
