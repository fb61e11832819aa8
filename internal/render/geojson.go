package render

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/mitchelldurbincs/GridFastMap/internal/grid"
)

// cellPoint places a node at its cell center with x = column and y = row
func cellPoint(n grid.Node) orb.Point {
	return orb.Point{float64(n.Col), float64(n.Row)}
}

// GeoJSON returns a FeatureCollection with the path as a LineString, the
// endpoints as Points and the expanded cells as a MultiPoint. Coordinates are
// grid units, not geographic.
func GeoJSON(s Scene) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	if len(s.Result.Path) > 0 {
		line := make(orb.LineString, 0, len(s.Result.Path))
		for _, n := range s.Result.Path {
			line = append(line, cellPoint(n))
		}
		f := geojson.NewFeature(line)
		f.Properties["kind"] = "path"
		f.Properties["cost"] = s.Result.Cost
		f.Properties["expanded"] = s.Result.Expanded
		fc.Append(f)
	}

	if s.HasQuery {
		for _, p := range []struct {
			kind string
			node grid.Node
		}{{"start", s.Start}, {"goal", s.Goal}} {
			f := geojson.NewFeature(cellPoint(p.node))
			f.Properties["kind"] = p.kind
			f.Properties["row"] = p.node.Row
			f.Properties["col"] = p.node.Col
			fc.Append(f)
		}
	}

	if len(s.Expanded) > 0 {
		mp := make(orb.MultiPoint, 0, len(s.Expanded))
		for _, n := range s.Expanded {
			mp = append(mp, cellPoint(n))
		}
		f := geojson.NewFeature(mp)
		f.Properties["kind"] = "expanded"
		fc.Append(f)
	}

	return fc
}
