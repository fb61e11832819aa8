package render

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// ErrBadScale is returned for a non-positive PNG scale
var ErrBadScale = errors.New("render: scale must be positive")

// Cell colors
var (
	OpenColor     = color.RGBA{235, 235, 235, 255}
	BlockedColor  = color.RGBA{40, 40, 40, 255}
	ExpandedColor = color.RGBA{240, 200, 80, 255}
	PathColor     = color.RGBA{50, 170, 80, 255}
	StartColor    = color.RGBA{50, 100, 200, 255}
	GoalColor     = color.RGBA{200, 50, 50, 255}
	LabelColor    = color.White
)

var cellColors = map[Cell]color.RGBA{
	CellOpen:     OpenColor,
	CellBlocked:  BlockedColor,
	CellExpanded: ExpandedColor,
	CellPath:     PathColor,
	CellStart:    StartColor,
	CellGoal:     GoalColor,
}

// labelScale is the smallest cell size that fits a basicfont glyph
const labelScale = 13

// Image rasterizes the scene at one pixel per cell, then scales every cell to
// scale×scale pixels. Start and goal get letter labels when cells are large
// enough to hold them.
func Image(s Scene, scale int) (*image.RGBA, error) {
	if scale <= 0 {
		return nil, ErrBadScale
	}
	g := s.Grid
	cells := s.cells()

	src := image.NewRGBA(image.Rect(0, 0, g.Cols(), g.Rows()))
	for i, c := range cells {
		src.SetRGBA(i%g.Cols(), i/g.Cols(), cellColors[c])
	}
	if scale == 1 {
		return src, nil
	}

	dst := image.NewRGBA(image.Rect(0, 0, g.Cols()*scale, g.Rows()*scale))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	if s.HasQuery && scale >= labelScale {
		label(dst, s.Start.Col, s.Start.Row, scale, StartSymbol)
		label(dst, s.Goal.Col, s.Goal.Row, scale, GoalSymbol)
	}
	return dst, nil
}

func label(dst *image.RGBA, x, y, scale int, text string) {
	face := basicfont.Face7x13
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(LabelColor),
		Face: face,
	}
	w := d.MeasureString(text).Ceil()
	d.Dot = fixed.P(x*scale+(scale-w)/2, y*scale+(scale+face.Ascent)/2)
	d.DrawString(text)
}

// PNG encodes Image(s, scale) to w
func PNG(w io.Writer, s Scene, scale int) error {
	img, err := Image(s, scale)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}
