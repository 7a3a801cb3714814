package landcover

// CoverageValue maps one raw coverage raster value to a land-cover class.
type CoverageValue struct {
	Value int
	Class string
}

// Coverage is the legend of the coverage raster the terrain samples.
type Coverage struct {
	Name   string
	Legend []CoverageValue
}

// ValuesFor returns the legend values whose class is in classes, in legend
// order and without duplicates.
func (c *Coverage) ValuesFor(classes []string) []int {
	if c == nil || len(classes) == 0 {
		return nil
	}
	want := make(map[string]bool, len(classes))
	for _, cl := range classes {
		want[cl] = true
	}

	var out []int
	seen := make(map[int]bool)
	for _, v := range c.Legend {
		if want[v.Class] && !seen[v.Value] {
			seen[v.Value] = true
			out = append(out, v.Value)
		}
	}
	return out
}

// Classes returns every class named by the layer's biomes, in biome order.
func (l *Layer) Classes() []string {
	var out []string
	seen := make(map[string]bool)
	for _, b := range l.Biomes {
		if b == nil {
			continue
		}
		for _, c := range b.Classes {
			if !seen[c] {
				seen[c] = true
				out = append(out, c)
			}
		}
	}
	return out
}
