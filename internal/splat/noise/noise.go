// Package noise generates the shared tileable noise texture sampled by the
// land-cover shaders (placement jitter, billboard selection, clumping).
package noise

import (
	"fmt"
	"image"
	"math"

	"github.com/ojrac/opensimplex-go"
	"go.uber.org/zap"

	"github.com/Faultbox/splatearth/internal/logger"
	"github.com/Faultbox/splatearth/internal/splat/state"
)

const (
	// UniformName is the sampler uniform pointing at the noise unit.
	UniformName = "oe_splat_noiseTex"
	// UnitLabel is the purpose label used when reserving the noise unit.
	UnitLabel = "Splat Noise"

	// DefaultSize is the edge length of the generated texture.
	DefaultSize = 256
	// Channels is the number of independent noise channels (RGBA).
	Channels = 4
)

// channelParams configures one channel of the texture. Each channel carries
// noise at a different scale so shaders can pick the character they need.
type channelParams struct {
	period      float64 // feature cycles across the texture
	octaves     int
	persistence float64
}

var channels = [Channels]channelParams{
	{period: 4, octaves: 8, persistence: 0.5},   // R: smooth, large features
	{period: 16, octaves: 3, persistence: 0.8},  // G: medium detail
	{period: 4, octaves: 2, persistence: 0.95},  // B: clumpy
	{period: 128, octaves: 1, persistence: 1.0}, // A: near-white
}

// Texture is the generated noise image plus its sampling policy.
type Texture struct {
	Image *image.RGBA
}

// Size implements state.Texture.
func (t *Texture) Size() (int, int, int) {
	b := t.Image.Bounds()
	return b.Dx(), b.Dy(), 1
}

// Sampling implements state.Texture.
func (t *Texture) Sampling() state.Sampling {
	return state.Sampling{
		MinFilter:     state.FilterLinearMipmapLinear,
		MagFilter:     state.FilterLinear,
		WrapS:         state.WrapRepeat,
		WrapT:         state.WrapRepeat,
		MaxAnisotropy: 4.0,
	}
}

// Generate builds a size×size four-channel tileable noise image.
// Every channel is stretched to cover the full 0..255 range.
func Generate(size int, seed int64) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	values := make([]float64, size*size)

	for c, params := range channels {
		gen := opensimplex.New(seed + int64(c))
		lo, hi := math.Inf(1), math.Inf(-1)
		for y := 0; y < size; y++ {
			for x := 0; x < size; x++ {
				u := float64(x) / float64(size)
				v := float64(y) / float64(size)
				n := fractal(gen, u, v, params)
				values[y*size+x] = n
				lo = math.Min(lo, n)
				hi = math.Max(hi, n)
			}
		}

		span := hi - lo
		for i, n := range values {
			norm := 0.0
			if span > 0 {
				norm = (n - lo) / span
			}
			img.Pix[i*4+c] = uint8(math.Round(norm * 255))
		}
	}
	return img
}

// fractal sums octaves of gen at texture coordinate (u, v). Both axes are
// mapped onto circles in 4D so the result wraps at u=1 and v=1.
func fractal(gen opensimplex.Noise, u, v float64, p channelParams) float64 {
	su, cu := math.Sincos(2 * math.Pi * u)
	sv, cv := math.Sincos(2 * math.Pi * v)

	sum, amp, norm := 0.0, 1.0, 0.0
	radius := p.period / (2 * math.Pi)
	for o := 0; o < p.octaves; o++ {
		off := float64(o) * 31.7
		sum += amp * gen.Eval4(radius*cu+off, radius*su+off, radius*cv+off, radius*sv+off)
		norm += amp
		amp *= p.persistence
		radius *= 2
	}
	return sum / norm
}

// Reserver hands out texture image units.
type Reserver interface {
	Reserve(label string) (int, error)
}

// Provider generates the noise image once and installs it on state sets.
type Provider struct {
	Size int
	Seed int64

	image *image.RGBA
}

// NewProvider creates a provider for DefaultSize textures.
func NewProvider(seed int64) *Provider {
	return &Provider{Size: DefaultSize, Seed: seed}
}

// Texture returns a texture wrapping the cached noise image, generating it
// on first use. Each call returns a new texture object; the pixels are shared.
func (p *Provider) Texture() *Texture {
	if p.image == nil {
		size := p.Size
		if size <= 0 {
			size = DefaultSize
		}
		p.image = Generate(size, p.Seed)
		logger.Debug("generated noise texture", zap.Int("size", size), zap.Int64("seed", p.Seed))
	}
	return &Texture{Image: p.image}
}

// EnsureInstalled binds the noise texture and its sampler uniform on ss unless
// the uniform is already present (another effect may have installed it).
// It returns the unit in use and whether this call installed it.
func (p *Provider) EnsureInstalled(ss *state.StateSet, units Reserver) (unit int, installed bool, err error) {
	if u, ok := ss.Uniform(UniformName); ok {
		existing, _ := u.Int()
		return int(existing), false, nil
	}

	unit, err = units.Reserve(UnitLabel)
	if err != nil {
		return -1, false, fmt.Errorf("installing noise texture: %w", err)
	}

	ss.SetTextureAttribute(unit, p.Texture())
	ss.AddUniform(UniformName, int32(unit))
	return unit, true, nil
}
