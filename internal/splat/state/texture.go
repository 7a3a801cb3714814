package state

// Filter is a texture sampling filter.
type Filter int

const (
	FilterNearest Filter = iota
	FilterLinear
	FilterNearestMipmapLinear
	FilterLinearMipmapLinear
)

// Wrap is a texture coordinate wrap mode.
type Wrap int

const (
	WrapRepeat Wrap = iota
	WrapClampToEdge
)

// Sampling describes how a texture is filtered and retained.
type Sampling struct {
	MinFilter     Filter
	MagFilter     Filter
	WrapS         Wrap
	WrapT         Wrap
	MaxAnisotropy float32

	// ResizeNonPowerOfTwo lets the uploader rescale NPOT images.
	ResizeNonPowerOfTwo bool
	// ReleaseAfterUpload drops CPU image data once the GPU copy exists.
	ReleaseAfterUpload bool
}

// Texture is a CPU-side texture object waiting for GPU upload.
type Texture interface {
	// Size returns width, height and layer count (1 for 2D textures).
	Size() (width, height, depth int)
	Sampling() Sampling
}
