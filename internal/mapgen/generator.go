// Package mapgen generates random octile maps for benchmarks.
package mapgen

import (
	"math/rand"

	"github.com/mitchelldurbincs/GridFastMap/internal/grid"
	"github.com/mitchelldurbincs/GridFastMap/internal/mapfile"
)

// Terrain is one cell character and its relative sampling weight
type Terrain struct {
	Symbol byte
	Weight float64
}

// MapConfig holds configuration for map generation
type MapConfig struct {
	Width   int
	Height  int
	Terrain []Terrain
	// Veins are random walks of VeinSymbol painted over the terrain
	NumVeins      int
	MinVeinLength int
	MaxVeinLength int
	VeinSymbol    byte
}

// DefaultTerrain is mostly open ground with scattered rocks and trees.
// Rocks block movement, trees do not.
func DefaultTerrain() []Terrain {
	return []Terrain{
		{Symbol: '.', Weight: 0.60},
		{Symbol: '@', Weight: 0.20},
		{Symbol: 'T', Weight: 0.20},
	}
}

// DefaultMapConfig returns a sensible default configuration
func DefaultMapConfig(w, h int) MapConfig {
	return MapConfig{
		Width:         w,
		Height:        h,
		Terrain:       DefaultTerrain(),
		NumVeins:      (w * h) / 50,
		MinVeinLength: 3,
		MaxVeinLength: max(3, w/4),
		VeinSymbol:    '@',
	}
}

// Generator handles map generation with deterministic RNG
type Generator struct {
	config MapConfig
	rng    *rand.Rand
}

// NewGenerator creates a new map generator
func NewGenerator(config MapConfig, rng *rand.Rand) *Generator {
	return &Generator{
		config: config,
		rng:    rng,
	}
}

// GenerateMap samples the terrain then paints the obstacle veins
func (g *Generator) GenerateMap() *mapfile.Map {
	cells := make([][]byte, g.config.Height)
	for r := range cells {
		cells[r] = make([]byte, g.config.Width)
	}

	g.fillTerrain(cells)
	g.placeVeins(cells)

	m := &mapfile.Map{
		Type:   "octile",
		Height: g.config.Height,
		Width:  g.config.Width,
		Rows:   make([]string, g.config.Height),
	}
	for r, row := range cells {
		m.Rows[r] = string(row)
	}
	return m
}

func (g *Generator) fillTerrain(cells [][]byte) {
	terrain := g.config.Terrain
	if len(terrain) == 0 {
		terrain = DefaultTerrain()
	}
	total := 0.0
	for _, t := range terrain {
		total += max(t.Weight, 0)
	}

	for _, row := range cells {
		for c := range row {
			row[c] = g.sample(terrain, total)
		}
	}
}

// sample draws a symbol with probability proportional to its weight
func (g *Generator) sample(terrain []Terrain, total float64) byte {
	if total <= 0 {
		return '.'
	}
	x := g.rng.Float64() * total
	for _, t := range terrain {
		x -= max(t.Weight, 0)
		if x < 0 {
			return t.Symbol
		}
	}
	return terrain[len(terrain)-1].Symbol
}

func (g *Generator) placeVeins(cells [][]byte) {
	if g.config.NumVeins <= 0 || g.config.Width == 0 || g.config.Height == 0 {
		return
	}
	symbol := g.config.VeinSymbol
	if symbol == 0 {
		symbol = '@'
	}
	minLen := max(g.config.MinVeinLength, 1)
	maxLen := max(g.config.MaxVeinLength, minLen)

	for v := 0; v < g.config.NumVeins; v++ {
		length := minLen + g.rng.Intn(maxLen-minLen+1)
		cur := grid.Node{Row: g.rng.Intn(g.config.Height), Col: g.rng.Intn(g.config.Width)}
		visited := map[grid.Node]bool{cur: true}
		cells[cur.Row][cur.Col] = symbol

		for placed := 1; placed < length; placed++ {
			next, ok := g.step(cur, visited)
			if !ok {
				break
			}
			cells[next.Row][next.Col] = symbol
			visited[next] = true
			cur = next
		}
	}
}

// step picks a random orthogonal neighbor of cur that the vein has not
// visited yet
func (g *Generator) step(cur grid.Node, visited map[grid.Node]bool) (grid.Node, bool) {
	var options [4]grid.Node
	n := 0
	for _, off := range grid.Offsets[:4] {
		next := cur.Add(off)
		if next.Row < 0 || next.Row >= g.config.Height || next.Col < 0 || next.Col >= g.config.Width {
			continue
		}
		if visited[next] {
			continue
		}
		options[n] = next
		n++
	}
	if n == 0 {
		return grid.Node{}, false
	}
	return options[g.rng.Intn(n)], true
}
