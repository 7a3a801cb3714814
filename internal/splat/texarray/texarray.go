// Package texarray packs a uniformly sized image sequence into a 2D array
// texture with the fixed sampling policy used for land-cover billboards.
package texarray

import (
	"errors"
	"fmt"
	"image"
	"image/draw"

	"github.com/Faultbox/splatearth/internal/splat/state"
)

// ErrEmpty is returned when asked to build an array with no layers.
var ErrEmpty = errors.New("texarray: no images")

// ErrSizeMismatch is returned when an image does not match the array size.
var ErrSizeMismatch = errors.New("texarray: image size mismatch")

// Policy is the sampling policy every billboard array uses.
var Policy = state.Sampling{
	MinFilter:           state.FilterNearestMipmapLinear,
	MagFilter:           state.FilterLinear,
	WrapS:               state.WrapClampToEdge,
	WrapT:               state.WrapClampToEdge,
	MaxAnisotropy:       4.0,
	ResizeNonPowerOfTwo: false,
	ReleaseAfterUpload:  true,
}

// Array is a 2D array texture: Depth layers of Width×Height RGBA pixels.
type Array struct {
	Width  int
	Height int
	Depth  int

	layers []*image.RGBA
}

// Size implements state.Texture.
func (a *Array) Size() (int, int, int) { return a.Width, a.Height, a.Depth }

// Sampling implements state.Texture.
func (a *Array) Sampling() state.Sampling { return Policy }

// Layer returns the image at index i, or nil if the data has been released.
func (a *Array) Layer(i int) *image.RGBA {
	if a.layers == nil || i < 0 || i >= len(a.layers) {
		return nil
	}
	return a.layers[i]
}

// Released reports whether the CPU-side image data has been dropped.
func (a *Array) Released() bool { return a.layers == nil }

// Pixels returns the layers packed back to back, ready for a 3D upload.
func (a *Array) Pixels() []byte {
	if a.layers == nil {
		return nil
	}
	stride := a.Width * a.Height * 4
	out := make([]byte, 0, stride*a.Depth)
	for _, l := range a.layers {
		out = append(out, l.Pix[:stride]...)
	}
	return out
}

// Release drops CPU-side image data after upload.
func (a *Array) Release() {
	a.layers = nil
}

// Build allocates an array of len(images) layers and writes each image at
// its index. All images must share the first image's dimensions.
func Build(images []image.Image) (*Array, error) {
	if len(images) == 0 {
		return nil, ErrEmpty
	}

	b0 := images[0].Bounds()
	arr := &Array{
		Width:  b0.Dx(),
		Height: b0.Dy(),
		Depth:  len(images),
		layers: make([]*image.RGBA, len(images)),
	}

	for i, img := range images {
		b := img.Bounds()
		if b.Dx() != arr.Width || b.Dy() != arr.Height {
			return nil, fmt.Errorf("layer %d is %dx%d, want %dx%d: %w",
				i, b.Dx(), b.Dy(), arr.Width, arr.Height, ErrSizeMismatch)
		}
		arr.layers[i] = toRGBA(img)
	}
	return arr, nil
}

// toRGBA returns img as a tightly packed RGBA image with a zero origin.
// Images that already qualify are used as-is.
func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) && rgba.Stride == rgba.Rect.Dx()*4 {
		return rgba
	}
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}
