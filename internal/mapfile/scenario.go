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

// Scenario is one query of a .scen file. The file stores x (column) before
// y (row); Start and Goal are already converted to grid nodes.
type Scenario struct {
	Bucket  int
	Map     string
	Width   int
	Height  int
	Start   grid.Node
	Goal    grid.Node
	Optimal float64
}

// ReadScenarios parses a "version 1" scenario file. Blank lines are skipped.
func ReadScenarios(r io.Reader) ([]Scenario, error) {
	sc := bufio.NewScanner(r)
	var out []Scenario
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "version") {
			continue
		}
		s, err := parseScenario(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		out = append(out, s)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("mapfile: reading scenarios: %w", err)
	}
	return out, nil
}

func parseScenario(line string) (Scenario, error) {
	f := strings.Fields(line)
	if len(f) != 9 {
		return Scenario{}, fmt.Errorf("%w: want 9 fields, got %d", ErrBadScenario, len(f))
	}
	ints := make([]int, 0, 7)
	for _, i := range []int{0, 2, 3, 4, 5, 6, 7} {
		n, err := strconv.Atoi(f[i])
		if err != nil {
			return Scenario{}, fmt.Errorf("%w: field %d: %v", ErrBadScenario, i+1, err)
		}
		ints = append(ints, n)
	}
	cost, err := strconv.ParseFloat(f[8], 64)
	if err != nil {
		return Scenario{}, fmt.Errorf("%w: optimal cost: %v", ErrBadScenario, err)
	}
	return Scenario{
		Bucket:  ints[0],
		Map:     f[1],
		Width:   ints[1],
		Height:  ints[2],
		Start:   grid.Node{Row: ints[4], Col: ints[3]},
		Goal:    grid.Node{Row: ints[6], Col: ints[5]},
		Optimal: cost,
	}, nil
}

// ReadScenarioFile opens and parses the scenario file at path
func ReadScenarioFile(path string) ([]Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("mapfile: %w", err)
	}
	defer f.Close()

	out, err := ReadScenarios(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return out, nil
}

// WriteScenarios emits scenarios in the format ReadScenarios accepts
func WriteScenarios(w io.Writer, scenarios []Scenario) error {
	bw := bufio.NewWriter(w)
	bw.WriteString("version 1\n")
	for _, s := range scenarios {
		fmt.Fprintf(bw, "%d\t%s\t%d\t%d\t%d\t%d\t%d\t%d\t%.8f\n",
			s.Bucket, s.Map, s.Width, s.Height,
			s.Start.Col, s.Start.Row, s.Goal.Col, s.Goal.Row, s.Optimal)
	}
	return bw.Flush()
}
