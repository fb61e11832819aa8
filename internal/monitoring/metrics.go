package monitoring

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mitchelldurbincs/GridFastMap/internal/astar"
)

// Search outcomes used as the outcome label
const (
	OutcomeFound       = "found"
	OutcomeUnreachable = "unreachable"
	OutcomeInvalid     = "invalid"
	OutcomeBudget      = "budget_exceeded"
	OutcomeError       = "error"
)

var (
	// searchesTotal counts A* searches by heuristic and outcome
	searchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gridfastmap_searches_total",
		Help: "Total A* searches by heuristic and outcome",
	}, []string{"heuristic", "outcome"})

	// searchExpansions tracks nodes expanded per search
	searchExpansions = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gridfastmap_search_expansions",
		Help:    "Nodes expanded per A* search",
		Buckets: prometheus.ExponentialBuckets(1, 2, 20), // 1 to ~500k
	}, []string{"heuristic"})

	// searchDuration tracks A* latency
	searchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gridfastmap_search_duration_seconds",
		Help:    "A* search duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.00001, 2, 18), // 10µs to ~1.3s
	}, []string{"heuristic"})

	// embeddingDims reports the dimensionality of the last embedding built
	embeddingDims = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "gridfastmap_embedding_dims",
		Help: "Number of axes in the most recent FastMap embedding",
	})

	// embeddingDuration tracks FastMap build latency
	embeddingDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "gridfastmap_embedding_build_duration_seconds",
		Help:    "FastMap embedding build duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 14), // 1ms to ~16s
	})

	// goroutines mirrors the goroutine monitor's last sample
	goroutines = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "gridfastmap_goroutines",
		Help: "Goroutine count at the last monitor check",
	})
)

// Outcome classifies a search result for the outcome label
func Outcome(res astar.Result, err error) string {
	switch {
	case err == nil && res.Found:
		return OutcomeFound
	case err == nil:
		return OutcomeUnreachable
	case errors.Is(err, astar.ErrInvalidQuery):
		return OutcomeInvalid
	case errors.Is(err, astar.ErrBudgetExceeded):
		return OutcomeBudget
	default:
		return OutcomeError
	}
}

// ObserveSearch records one A* search. Expansions and latency are only
// observed for searches that ran.
func ObserveSearch(heuristic string, res astar.Result, err error, d time.Duration) {
	outcome := Outcome(res, err)
	searchesTotal.WithLabelValues(heuristic, outcome).Inc()
	if outcome == OutcomeInvalid || outcome == OutcomeError {
		return
	}
	searchExpansions.WithLabelValues(heuristic).Observe(float64(res.Expanded))
	searchDuration.WithLabelValues(heuristic).Observe(d.Seconds())
}

// ObserveEmbedding records one FastMap build
func ObserveEmbedding(dims int, d time.Duration) {
	embeddingDims.Set(float64(dims))
	embeddingDuration.Observe(d.Seconds())
}

// Handler serves the default registry in the Prometheus text format
func Handler() http.Handler {
	return promhttp.Handler()
}
