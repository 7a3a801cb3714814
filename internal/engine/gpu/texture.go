package gpu

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/splatearth/internal/logger"
	"github.com/Faultbox/splatearth/internal/splat/noise"
	"github.com/Faultbox/splatearth/internal/splat/state"
	"github.com/Faultbox/splatearth/internal/splat/texarray"
)

// GL_TEXTURE_MAX_ANISOTROPY (core in 4.6, EXT before that).
const textureMaxAnisotropy = 0x84FE

// glTexture is an uploaded texture object.
type glTexture struct {
	id     uint32
	target uint32
}

func glFilter(f state.Filter) int32 {
	switch f {
	case state.FilterNearest:
		return gl.NEAREST
	case state.FilterNearestMipmapLinear:
		return gl.NEAREST_MIPMAP_LINEAR
	case state.FilterLinearMipmapLinear:
		return gl.LINEAR_MIPMAP_LINEAR
	default:
		return gl.LINEAR
	}
}

func glWrap(w state.Wrap) int32 {
	if w == state.WrapClampToEdge {
		return gl.CLAMP_TO_EDGE
	}
	return gl.REPEAT
}

func usesMipmaps(f state.Filter) bool {
	return f == state.FilterNearestMipmapLinear || f == state.FilterLinearMipmapLinear
}

// uploadTexture copies a CPU texture to the GPU and applies its sampling policy.
func uploadTexture(tex state.Texture) (glTexture, error) {
	var t glTexture
	w, h, d := tex.Size()

	switch src := tex.(type) {
	case *noise.Texture:
		t.target = gl.TEXTURE_2D
		gl.GenTextures(1, &t.id)
		gl.BindTexture(t.target, t.id)
		gl.TexImage2D(t.target, 0, gl.RGBA8, int32(w), int32(h), 0,
			gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(src.Image.Pix))

	case *texarray.Array:
		if src.Released() {
			return t, fmt.Errorf("texture array already released")
		}
		t.target = gl.TEXTURE_2D_ARRAY
		gl.GenTextures(1, &t.id)
		gl.BindTexture(t.target, t.id)
		gl.TexImage3D(t.target, 0, gl.RGBA8, int32(w), int32(h), int32(d), 0,
			gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(src.Pixels()))

	default:
		return t, fmt.Errorf("unsupported texture type %T", tex)
	}

	s := tex.Sampling()
	gl.TexParameteri(t.target, gl.TEXTURE_MIN_FILTER, glFilter(s.MinFilter))
	gl.TexParameteri(t.target, gl.TEXTURE_MAG_FILTER, glFilter(s.MagFilter))
	gl.TexParameteri(t.target, gl.TEXTURE_WRAP_S, glWrap(s.WrapS))
	gl.TexParameteri(t.target, gl.TEXTURE_WRAP_T, glWrap(s.WrapT))
	if s.MaxAnisotropy > 1 {
		gl.TexParameterf(t.target, textureMaxAnisotropy, s.MaxAnisotropy)
	}
	if usesMipmaps(s.MinFilter) {
		gl.GenerateMipmap(t.target)
	}
	gl.BindTexture(t.target, 0)

	if arr, ok := tex.(*texarray.Array); ok && s.ReleaseAfterUpload {
		arr.Release()
	}

	logger.Debug("texture uploaded",
		zap.Uint32("id", t.id),
		zap.Int("width", w),
		zap.Int("height", h),
		zap.Int("depth", d),
	)
	return t, nil
}
