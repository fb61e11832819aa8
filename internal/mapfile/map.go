// Package mapfile reads and writes grid maps and scenario files in the
// MovingAI benchmark text format.
package mapfile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mitchelldurbincs/GridFastMap/internal/grid"
)

// DefaultObstacles are the cell characters treated as blocked unless the
// caller overrides them. Trees and every other terrain character are open.
const DefaultObstacles = "@#"

// Map is the parsed content of a .map file
type Map struct {
	Type   string
	Height int
	Width  int
	Rows   []string
}

// Grid builds the grid graph of m, blocking every character in obstacles
func (m *Map) Grid(obstacles string, conn grid.Connectivity) (*grid.Grid, error) {
	if obstacles == "" {
		obstacles = DefaultObstacles
	}
	return grid.FromRows(m.Rows, obstacles, conn)
}

// Read parses a map:
//
//	type octile
//	height H
//	width W
//	map
//	<H rows of W characters>
//
// Header lines may come in any order before "map".
func Read(r io.Reader) (*Map, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)

	m := &Map{}
	haveHeight, haveWidth, haveMap := false, false, false
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if line == "map" {
			haveMap = true
			break
		}
		key, value, _ := strings.Cut(line, " ")
		value = strings.TrimSpace(value)
		switch key {
		case "type":
			m.Type = value
		case "height":
			n, err := parseDimension(key, value)
			if err != nil {
				return nil, err
			}
			m.Height, haveHeight = n, true
		case "width":
			n, err := parseDimension(key, value)
			if err != nil {
				return nil, err
			}
			m.Width, haveWidth = n, true
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("mapfile: reading header: %w", err)
	}
	switch {
	case !haveHeight:
		return nil, fmt.Errorf("%w: height", ErrMissingHeader)
	case !haveWidth:
		return nil, fmt.Errorf("%w: width", ErrMissingHeader)
	case !haveMap:
		return nil, fmt.Errorf("%w: map", ErrMissingHeader)
	}

	m.Rows = make([]string, 0, m.Height)
	for len(m.Rows) < m.Height && sc.Scan() {
		row := strings.TrimRight(sc.Text(), "\r")
		if len(row) != m.Width {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrRowLength, len(m.Rows), len(row), m.Width)
		}
		m.Rows = append(m.Rows, row)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("mapfile: reading rows: %w", err)
	}
	if len(m.Rows) != m.Height {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrRowCount, len(m.Rows), m.Height)
	}
	return m, nil
}

func parseDimension(key, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: %s %q", ErrBadDimension, key, value)
	}
	return n, nil
}

// ReadFile opens and parses the map at path
func ReadFile(path string) (*Map, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("mapfile: %w", err)
	}
	defer f.Close()

	m, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Write emits m in the format Read accepts
func Write(w io.Writer, m *Map) error {
	typ := m.Type
	if typ == "" {
		typ = "octile"
	}
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "type %s\nheight %d\nwidth %d\nmap\n", typ, m.Height, m.Width)
	for _, row := range m.Rows {
		bw.WriteString(row)
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// WriteFile writes m to path, replacing any existing file
func WriteFile(path string, m *Map) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("mapfile: %w", err)
	}
	if err := Write(f, m); err != nil {
		f.Close()
		return fmt.Errorf("mapfile: writing %s: %w", path, err)
	}
	return f.Close()
}
