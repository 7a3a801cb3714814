package terrain

// VertexStride is the number of float32s per mesh vertex:
// position (3), normal (3), uv (2), coverage (1).
const VertexStride = 9

// CoverageFunc returns the raw coverage raster value at normalized (u, v).
type CoverageFunc func(u, v float32) float32

// Grid is a flat square terrain tile centred on the origin in the XZ plane.
type Grid struct {
	Size  float32
	Cells int
}

// Triangles returns the number of triangles Vertices emits.
func (g Grid) Triangles() int {
	if g.Cells <= 0 {
		return 0
	}
	return g.Cells * g.Cells * 2
}

// Vertices builds an unindexed triangle list suitable for drawing as
// three-vertex patches. Every vertex of a triangle carries the coverage
// sampled at the centre of its cell.
func (g Grid) Vertices(coverage CoverageFunc) []float32 {
	if g.Cells <= 0 {
		return nil
	}
	out := make([]float32, 0, g.Triangles()*3*VertexStride)
	n := float32(g.Cells)
	half := g.Size / 2

	vertex := func(i, j int, cov float32) {
		u, v := float32(i)/n, float32(j)/n
		out = append(out,
			u*g.Size-half, 0, v*g.Size-half,
			0, 1, 0,
			u, v,
			cov,
		)
	}

	for j := 0; j < g.Cells; j++ {
		for i := 0; i < g.Cells; i++ {
			var cov float32
			if coverage != nil {
				cov = coverage((float32(i)+0.5)/n, (float32(j)+0.5)/n)
			}
			vertex(i, j, cov)
			vertex(i, j+1, cov)
			vertex(i+1, j, cov)

			vertex(i+1, j, cov)
			vertex(i, j+1, cov)
			vertex(i+1, j+1, cov)
		}
	}
	return out
}
