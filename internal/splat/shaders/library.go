// Package shaders provides the land-cover GLSL library: named, versioned
// sources embedded in the binary that can be overridden from disk.
package shaders

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/splatearth/internal/logger"
	"github.com/Faultbox/splatearth/internal/splat/state"
)

//go:embed glsl/*.glsl
var embedded embed.FS

// GLSLVersion is the directive the GPU layer prepends to every stage.
const GLSLVersion = "#version 410 core"

// Source is one file of a library bound to a pipeline stage.
type Source struct {
	Name  string // shader name in the program
	File  string // file name under the library root
	Stage state.Stage
}

// Library is a named, versioned set of shader sources.
type Library struct {
	Name    string
	Version int

	// Common is a file prepended to every stage source.
	Common  string
	Sources []Source

	fsys     fs.FS
	override fs.FS
}

// LandCover returns the land-cover shader library.
func LandCover() *Library {
	root, _ := fs.Sub(embedded, "glsl")
	return &Library{
		Name:    "LandCover",
		Version: 1,
		Common:  "landcover_common.glsl",
		Sources: []Source{
			{Name: "LandCover VS", File: "landcover.vert.glsl", Stage: state.StageVertex},
			{Name: "LandCover TCS", File: "landcover.tcs.glsl", Stage: state.StageTessControl},
			{Name: "LandCover TES", File: "landcover.tes.glsl", Stage: state.StageTessEvaluation},
			{Name: "LandCover GS", File: "landcover.geom.glsl", Stage: state.StageGeometry},
			{Name: "LandCover FS", File: "landcover.frag.glsl", Stage: state.StageFragment},
		},
		fsys: root,
	}
}

// WithOverrideDir makes files found under dir take precedence over the
// embedded sources. An empty dir clears the override.
func (l *Library) WithOverrideDir(dir string) *Library {
	if dir == "" {
		l.override = nil
		return l
	}
	l.override = os.DirFS(dir)
	return l
}

// WithOverrideFS is WithOverrideDir for an arbitrary filesystem.
func (l *Library) WithOverrideFS(fsys fs.FS) *Library {
	l.override = fsys
	return l
}

// Load returns the text of one library file, preferring the override.
func (l *Library) Load(file string) (string, error) {
	if l.override != nil {
		data, err := fs.ReadFile(l.override, file)
		if err == nil {
			logger.Debug("shader override",
				zap.String("library", l.Name),
				zap.String("file", file),
			)
			return string(data), nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("reading override %s: %w", file, err)
		}
	}
	data, err := fs.ReadFile(l.fsys, file)
	if err != nil {
		return "", fmt.Errorf("%s v%d: %w", l.Name, l.Version, err)
	}
	return string(data), nil
}

// LoadAll installs every library source into p, each prefixed with the
// common declarations. Shaders replace earlier ones of the same name.
func (l *Library) LoadAll(p *state.Program) error {
	common := ""
	if l.Common != "" {
		c, err := l.Load(l.Common)
		if err != nil {
			return err
		}
		common = c
	}

	for _, src := range l.Sources {
		text, err := l.Load(src.File)
		if err != nil {
			return err
		}
		p.SetShader(state.Shader{
			Name:   src.Name,
			Stage:  src.Stage,
			Source: joinSources(common, text),
		})
	}
	return nil
}

func joinSources(parts ...string) string {
	var b strings.Builder
	for _, p := range parts {
		if p == "" {
			continue
		}
		b.WriteString(p)
		if !strings.HasSuffix(p, "\n") {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// StripVersion removes #version directives so sources can be concatenated
// under a single header.
func StripVersion(src string) string {
	lines := strings.Split(src, "\n")
	out := lines[:0]
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "#version") {
			continue
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

// StageSource assembles the final text for one stage of p: the version
// header followed by every shader of that stage in program order.
func StageSource(p *state.Program, stage state.Stage) string {
	shaders := p.StageShaders(stage)
	if len(shaders) == 0 {
		return ""
	}
	parts := []string{GLSLVersion}
	for _, sh := range shaders {
		parts = append(parts, StripVersion(sh.Source))
	}
	return joinSources(parts...)
}
