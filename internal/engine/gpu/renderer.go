// Package gpu uploads terrain state sets to OpenGL and draws the
// land-cover bins over a flat terrain tile.
package gpu

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/splatearth/internal/engine/shader"
	"github.com/Faultbox/splatearth/internal/logger"
	"github.com/Faultbox/splatearth/internal/splat/state"
	"github.com/Faultbox/splatearth/internal/terrain"
)

// Config holds renderer configuration.
type Config struct {
	Width       int
	Height      int
	Multisample bool // billboard alpha resolves through alpha-to-coverage
}

// Frame carries the per-frame built-in uniforms.
type Frame struct {
	ViewProj  mgl32.Mat4
	CameraPos mgl32.Vec3
	Time      float32
}

// binDraw is one render bin ready to draw.
type binDraw struct {
	name     string
	program  uint32
	uniforms []state.Uniform
	textures map[int]glTexture
}

// Renderer handles all OpenGL rendering.
type Renderer struct {
	config Config

	terrainVAO   uint32
	terrainVBO   uint32
	vertexCount  int32
	rootTextures map[int]glTexture
	rootUniforms []state.Uniform
	bins         []binDraw

	uploaded map[state.Texture]glTexture
}

// New creates a new renderer.
// IMPORTANT: Must be called AFTER OpenGL context is created!
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		config:       cfg,
		rootTextures: make(map[int]glTexture),
		uploaded:     make(map[state.Texture]glTexture),
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	version := gl.GoStr(gl.GetString(gl.VERSION))
	rendererName := gl.GoStr(gl.GetString(gl.RENDERER))
	logger.Info("OpenGL initialized",
		zap.String("version", version),
		zap.String("renderer", rendererName),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.ClearColor(0.45, 0.6, 0.8, 1.0) // sky
	gl.Viewport(0, 0, int32(cfg.Width), int32(cfg.Height))
	if cfg.Multisample {
		gl.Enable(gl.MULTISAMPLE)
		gl.Enable(gl.SAMPLE_ALPHA_TO_COVERAGE)
	}

	return r, nil
}

// Upload copies the terrain mesh, the root state set and every bin's
// state set to the GPU. A bin that fails to compile is logged and skipped.
func (r *Renderer) Upload(root *state.StateSet, bins []*state.RenderBin, mesh []float32) error {
	if err := r.uploadMesh(mesh); err != nil {
		return err
	}

	var err error
	r.rootTextures, err = r.uploadTextures(root)
	if err != nil {
		return fmt.Errorf("root state set: %w", err)
	}
	r.rootUniforms = root.Uniforms()

	for _, bin := range bins {
		bd, err := r.uploadBin(bin)
		if err != nil {
			logger.Warn("skipping render bin", zap.String("bin", bin.Name), zap.Error(err))
			continue
		}
		r.bins = append(r.bins, bd)
	}
	logger.Info("state uploaded", zap.Int("bins", len(r.bins)), zap.Int32("vertices", r.vertexCount))
	return nil
}

func (r *Renderer) uploadBin(bin *state.RenderBin) (binDraw, error) {
	ss := bin.StateSet()
	if ss == nil {
		return binDraw{}, fmt.Errorf("bin has no state set")
	}
	program, err := shader.CompileProgram(ss.Program())
	if err != nil {
		return binDraw{}, err
	}
	textures, err := r.uploadTextures(ss)
	if err != nil {
		gl.DeleteProgram(program)
		return binDraw{}, err
	}
	return binDraw{name: bin.Name, program: program, uniforms: ss.Uniforms(), textures: textures}, nil
}

func (r *Renderer) uploadTextures(ss *state.StateSet) (map[int]glTexture, error) {
	out := make(map[int]glTexture)
	for _, unit := range ss.TextureUnits() {
		tex := ss.TextureAttribute(unit)
		t, ok := r.uploaded[tex]
		if !ok {
			var err error
			t, err = uploadTexture(tex)
			if err != nil {
				return nil, fmt.Errorf("unit %d: %w", unit, err)
			}
			r.uploaded[tex] = t
		}
		out[unit] = t
	}
	return out, nil
}

// uploadMesh creates the terrain VAO. Attribute locations match the
// land-cover vertex stage.
func (r *Renderer) uploadMesh(mesh []float32) error {
	if len(mesh) == 0 || len(mesh)%terrain.VertexStride != 0 {
		return fmt.Errorf("invalid terrain mesh (%d floats)", len(mesh))
	}
	r.vertexCount = int32(len(mesh) / terrain.VertexStride)

	gl.GenVertexArrays(1, &r.terrainVAO)
	gl.BindVertexArray(r.terrainVAO)

	gl.GenBuffers(1, &r.terrainVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.terrainVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(mesh)*4, unsafe.Pointer(&mesh[0]), gl.STATIC_DRAW)

	stride := int32(terrain.VertexStride * 4)
	attribs := []struct {
		loc, size, offset uint32
	}{
		{0, 3, 0}, // position
		{1, 3, 3}, // normal
		{2, 2, 6}, // uv
		{3, 1, 8}, // coverage
	}
	for _, a := range attribs {
		gl.VertexAttribPointerWithOffset(a.loc, int32(a.size), gl.FLOAT, false, stride, uintptr(a.offset*4))
		gl.EnableVertexAttribArray(a.loc)
	}

	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
	return nil
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	logger.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// AspectRatio returns the current viewport aspect ratio.
func (r *Renderer) AspectRatio() float32 {
	if r.config.Height == 0 {
		return 1
	}
	return float32(r.config.Width) / float32(r.config.Height)
}

// Draw renders every uploaded bin as three-vertex patches.
func (r *Renderer) Draw(f Frame) {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	if r.vertexCount == 0 {
		return
	}

	gl.BindVertexArray(r.terrainVAO)
	gl.PatchParameteri(gl.PATCH_VERTICES, 3)

	for _, bd := range r.bins {
		gl.UseProgram(bd.program)

		bindTextures(r.rootTextures)
		bindTextures(bd.textures)
		setUniforms(bd.program, r.rootUniforms)
		setUniforms(bd.program, bd.uniforms)

		gl.UniformMatrix4fv(shader.GetUniform(bd.program, "oe_ViewProj"), 1, false, &f.ViewProj[0])
		gl.Uniform3f(shader.GetUniform(bd.program, "oe_CameraPos"), f.CameraPos.X(), f.CameraPos.Y(), f.CameraPos.Z())
		gl.Uniform1f(shader.GetUniform(bd.program, "osg_FrameTime"), f.Time)

		gl.DrawArrays(gl.PATCHES, 0, r.vertexCount)
	}

	gl.BindVertexArray(0)
}

func bindTextures(textures map[int]glTexture) {
	for unit, t := range textures {
		gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
		gl.BindTexture(t.target, t.id)
	}
}

func setUniforms(program uint32, uniforms []state.Uniform) {
	for _, u := range uniforms {
		loc := shader.GetUniform(program, u.Name)
		if loc < 0 {
			continue
		}
		if v, ok := u.Int(); ok {
			gl.Uniform1i(loc, v)
		} else if v, ok := u.Float(); ok {
			gl.Uniform1f(loc, v)
		}
	}
}

// ReadPixels returns the current framebuffer as bottom-up RGBA rows.
func (r *Renderer) ReadPixels() (pixels []byte, width, height int) {
	width, height = r.config.Width, r.config.Height
	pixels = make([]byte, width*height*4)
	if len(pixels) == 0 {
		return pixels, width, height
	}
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels, width, height
}

// Close cleans up renderer resources.
func (r *Renderer) Close() {
	logger.Info("closing renderer")
	for _, bd := range r.bins {
		gl.DeleteProgram(bd.program)
	}
	for _, t := range r.uploaded {
		gl.DeleteTextures(1, &t.id)
	}
	if r.terrainVAO != 0 {
		gl.DeleteVertexArrays(1, &r.terrainVAO)
	}
	if r.terrainVBO != 0 {
		gl.DeleteBuffers(1, &r.terrainVBO)
	}
}
