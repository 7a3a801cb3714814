package landcover

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Faultbox/splatearth/internal/splat/state"
)

// Names of the generated per-layer shaders inside a bin's program.
const (
	CoverageAcceptorName = "LandCover TC Coverage Acceptor"
	GeometryName         = "LandCover GS Billboards"
)

// PredicateShader generates the tessellation-control function deciding
// whether this layer may render at a surface point with the given coverage
// value. A nil coverage accepts everything.
func (l *Layer) PredicateShader(cov *Coverage) state.Shader {
	var b strings.Builder
	b.WriteString("#pragma vp_name " + CoverageAcceptorName + "\n")
	b.WriteString("#pragma vp_entryPoint oe_landcover_acceptCoverage\n\n")
	fmt.Fprintf(&b, "// layer: %s\n", l.Name)
	b.WriteString("bool oe_landcover_acceptCoverage(in float value)\n{\n")

	values := cov.ValuesFor(l.Classes())
	switch {
	case cov == nil:
		b.WriteString("    return true;\n")
	case len(values) == 0:
		b.WriteString("    return false;\n")
	default:
		b.WriteString("    return\n")
		for i, v := range values {
			sep := " ||"
			if i == len(values)-1 {
				sep = ";"
			}
			fmt.Fprintf(&b, "        value == %d.0%s\n", v, sep)
		}
	}
	b.WriteString("}\n")

	return state.Shader{Name: CoverageAcceptorName, Stage: state.StageTessControl, Source: b.String()}
}

// GeometryShader generates the geometry-stage function that turns one
// surface point into a camera-facing billboard quad. Tables index the
// texture array in the same biome-major order the array is built in.
func (l *Layer) GeometryShader() state.Shader {
	type biomeRange struct{ first, count int }

	var ranges []biomeRange
	var sizes []string
	index := 0
	for _, bio := range l.Biomes {
		if bio == nil || len(bio.Billboards) == 0 {
			continue
		}
		ranges = append(ranges, biomeRange{first: index, count: len(bio.Billboards)})
		for _, bb := range bio.Billboards {
			sizes = append(sizes, fmt.Sprintf("vec2(%s, %s)", glslFloat(bb.Width), glslFloat(bb.Height)))
		}
		index += len(bio.Billboards)
	}

	rangeLits := make([]string, len(ranges))
	for i, r := range ranges {
		rangeLits[i] = fmt.Sprintf("ivec2(%d, %d)", r.first, r.count)
	}

	var b strings.Builder
	b.WriteString("#pragma vp_name " + GeometryName + "\n")
	b.WriteString("#pragma vp_entryPoint oe_landcover_geom\n\n")
	fmt.Fprintf(&b, "// layer: %s, lod %d\n", l.Name, l.LOD)
	fmt.Fprintf(&b, "const int oe_landcover_numBiomes = %d;\n", len(ranges))
	fmt.Fprintf(&b, "const int oe_landcover_numBillboards = %d;\n", len(sizes))
	fmt.Fprintf(&b, "const ivec2 oe_landcover_biomes[%d] = ivec2[](%s);\n", len(ranges), strings.Join(rangeLits, ", "))
	fmt.Fprintf(&b, "const vec2 oe_landcover_sizes[%d] = vec2[](%s);\n\n", len(sizes), strings.Join(sizes, ", "))
	b.WriteString(geometryBody)

	return state.Shader{Name: GeometryName, Stage: state.StageGeometry, Source: b.String()}
}

const geometryBody = `void oe_landcover_geom(in vec3 position, in vec3 normal, in vec4 noise)
{
    if (noise.r > oe_landcover_fill)
        return;

    int biome = min(int(noise.g * float(oe_landcover_numBiomes)), oe_landcover_numBiomes - 1);
    ivec2 range = oe_landcover_biomes[biome];
    int index = range.x + min(int(noise.b * float(range.y)), range.y - 1);

    vec2 size = oe_landcover_sizes[index] * (0.75 + 0.5 * noise.a);
    vec3 toEye = normalize(oe_CameraPos - position);
    vec3 right = normalize(cross(normal, toEye)) * (0.5 * size.x);
    vec3 up = normal * size.y;

    float sway = sin(osg_FrameTime + noise.r * 6.2831853) * oe_landcover_windFactor;
    vec3 lean = right * sway;

    vec3 corners[4] = vec3[](
        position - right,
        position + right,
        position - right + up + lean,
        position + right + up + lean);
    vec2 uvs[4] = vec2[](vec2(0, 0), vec2(1, 0), vec2(0, 1), vec2(1, 1));

    for (int i = 0; i < 4; ++i)
    {
        gs_UVW = vec3(uvs[i], float(index));
        gs_Shade = uvs[i].t;
        gl_Position = oe_ViewProj * vec4(corners[i], 1.0);
        EmitVertex();
    }
    EndPrimitive();
}
`

// glslFloat formats f as a GLSL float literal.
func glslFloat(f float32) string {
	s := strconv.FormatFloat(float64(f), 'f', -1, 32)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}
