package benchmark

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"
)

// HeuristicStats aggregates one heuristic over all queries of a run
type HeuristicStats struct {
	Heuristic     string        `json:"heuristic"`
	Solved        int           `json:"solved"`
	Unreachable   int           `json:"unreachable"`
	Failed        int           `json:"failed"`
	Suboptimal    int           `json:"suboptimal"`
	TotalExpanded int           `json:"total_expanded"`
	TotalCost     float64       `json:"total_cost"`
	Duration      time.Duration `json:"duration"`
}

// Searches is the number of searches that ran to completion
func (s HeuristicStats) Searches() int {
	return s.Solved + s.Unreachable
}

// MeanExpanded is the average expansions over completed searches
func (s HeuristicStats) MeanExpanded() float64 {
	n := s.Searches()
	if n == 0 {
		return 0
	}
	return float64(s.TotalExpanded) / float64(n)
}

// Report is the outcome of one Runner.Run
type Report struct {
	RunID         string           `json:"run_id"`
	Map           string           `json:"map"`
	Queries       int              `json:"queries"`
	EmbeddingDims int              `json:"embedding_dims"`
	Started       time.Time        `json:"started"`
	Duration      time.Duration    `json:"duration"`
	Stats         []HeuristicStats `json:"stats"`
}

// Stat returns the stats of the named heuristic
func (r *Report) Stat(name string) (HeuristicStats, bool) {
	for _, s := range r.Stats {
		if s.Heuristic == name {
			return s, true
		}
	}
	return HeuristicStats{}, false
}

// WriteTable prints one aligned row per heuristic
func (r *Report) WriteTable(w io.Writer) error {
	fmt.Fprintf(w, "run %s map=%q queries=%d dims=%d duration=%s\n",
		r.RunID, r.Map, r.Queries, r.EmbeddingDims, r.Duration.Round(time.Millisecond))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "heuristic\tsolved\tunreachable\tfailed\tsuboptimal\texpanded\tmean expanded\ttotal cost\ttime\t")
	for _, s := range r.Stats {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%d\t%.1f\t%.4f\t%s\t\n",
			s.Heuristic, s.Solved, s.Unreachable, s.Failed, s.Suboptimal,
			s.TotalExpanded, s.MeanExpanded(), s.TotalCost, s.Duration.Round(time.Microsecond))
	}
	return tw.Flush()
}
