package render

import (
	"fmt"
	"strings"
)

// ANSI color codes
const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorCyan   = "\033[36m"
	ColorWhite  = "\033[37m"
	ColorGray   = "\033[90m"
)

const (
	OpenSymbol     = "·"
	BlockedSymbol  = "#"
	ExpandedSymbol = "x"
	PathSymbol     = "*"
	StartSymbol    = "S"
	GoalSymbol     = "G"
)

var cellStyle = map[Cell]struct{ color, symbol string }{
	CellOpen:     {ColorGray, OpenSymbol},
	CellBlocked:  {ColorWhite, BlockedSymbol},
	CellExpanded: {ColorYellow, ExpandedSymbol},
	CellPath:     {ColorGreen, PathSymbol},
	CellStart:    {ColorCyan, StartSymbol},
	CellGoal:     {ColorRed, GoalSymbol},
}

// ASCIIOptions controls the text renderer
type ASCIIOptions struct {
	Color  bool
	Header bool
	Legend bool
}

// ASCII returns a text picture of the scene, one two-character column per cell
func ASCII(s Scene, opts ASCIIOptions) string {
	g := s.Grid
	cells := s.cells()

	// Each cell takes 2 chars plus ~10 for ANSI codes when colored
	perCell := 2
	if opts.Color {
		perCell += 10
	}
	var sb strings.Builder
	sb.Grow((g.Cols()*perCell+4)*(g.Rows()+1) + 80)

	if opts.Header {
		sb.WriteString("   ")
		for c := 0; c < g.Cols(); c++ {
			fmt.Fprintf(&sb, "%2d", c%100)
		}
		sb.WriteString("\n")
	}

	for r := 0; r < g.Rows(); r++ {
		if opts.Header {
			fmt.Fprintf(&sb, "%2d ", r%100)
		}
		for c := 0; c < g.Cols(); c++ {
			style := cellStyle[cells[r*g.Cols()+c]]
			if opts.Color {
				sb.WriteString(style.color)
			}
			sb.WriteString(" ")
			sb.WriteString(style.symbol)
			if opts.Color {
				sb.WriteString(ColorReset)
			}
		}
		sb.WriteString("\n")
	}

	if opts.Legend {
		sb.WriteString("\n")
		sb.WriteString(OpenSymbol + "=open " + BlockedSymbol + "=blocked " + ExpandedSymbol + "=expanded " +
			PathSymbol + "=path " + StartSymbol + "=start " + GoalSymbol + "=goal\n")
		if s.HasQuery {
			if s.Result.Found {
				fmt.Fprintf(&sb, "cost=%.4f length=%d expanded=%d\n", s.Result.Cost, len(s.Result.Path), s.Result.Expanded)
			} else {
				fmt.Fprintf(&sb, "no path expanded=%d\n", s.Result.Expanded)
			}
		}
	}

	return sb.String()
}
