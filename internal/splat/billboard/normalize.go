// Package billboard prepares per-biome billboard imagery for packing into a
// texture array: every image must share the dimensions of the first one.
package billboard

import (
	"errors"
	"fmt"
	"image"

	"go.uber.org/zap"
	"golang.org/x/image/draw"

	"github.com/Faultbox/splatearth/internal/logger"
)

// ErrNoImage is returned when a billboard has no image data.
var ErrNoImage = errors.New("billboard: missing image")

// Source is one billboard image, tagged with its position in the layer.
type Source struct {
	Biome int // biome index within the layer
	Index int // billboard index within the biome
	Image image.Image
}

// Result is a uniformly sized image sequence in slot order.
type Result struct {
	Width   int
	Height  int
	Images  []image.Image
	Resized int // number of images that had to be rescaled
}

// Len returns the number of slots.
func (r *Result) Len() int { return len(r.Images) }

// Normalize returns the source images in order, all sized like the first.
// Images that already match are passed through without copying; the rest
// are stretched (not cropped) into new images. Sources are never modified.
func Normalize(sources []Source) (*Result, error) {
	res := &Result{Images: make([]image.Image, 0, len(sources))}

	for i, src := range sources {
		if src.Image == nil {
			return nil, fmt.Errorf("biome %d billboard %d: %w", src.Biome, src.Index, ErrNoImage)
		}
		b := src.Image.Bounds()

		if i == 0 {
			res.Width, res.Height = b.Dx(), b.Dy()
			res.Images = append(res.Images, src.Image)
			continue
		}

		if b.Dx() == res.Width && b.Dy() == res.Height {
			res.Images = append(res.Images, src.Image)
			continue
		}

		logger.Debug("resizing billboard",
			zap.Int("biome", src.Biome),
			zap.Int("index", src.Index),
			zap.Int("fromWidth", b.Dx()),
			zap.Int("fromHeight", b.Dy()),
			zap.Int("toWidth", res.Width),
			zap.Int("toHeight", res.Height),
		)
		res.Images = append(res.Images, Resize(src.Image, res.Width, res.Height))
		res.Resized++
	}

	return res, nil
}

// Resize stretches img into a new width×height RGBA image using bilinear filtering.
func Resize(img image.Image, width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.BiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}
