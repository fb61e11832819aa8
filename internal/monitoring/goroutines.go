package monitoring

import (
	"runtime"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// GoroutineMonitor samples the goroutine count of a long-running process and
// warns when it crosses a threshold
type GoroutineMonitor struct {
	mu             sync.RWMutex
	baseline       int
	current        int
	peak           int
	checkInterval  time.Duration
	alertThreshold int
	lastAlert      time.Time
	alertCooldown  time.Duration
	stopOnce       sync.Once
	stopChan       chan struct{}
	logger         zerolog.Logger
}

// MonitorOption configures a GoroutineMonitor
type MonitorOption func(*GoroutineMonitor)

// WithCheckInterval sets how often the goroutine count is sampled
func WithCheckInterval(d time.Duration) MonitorOption {
	return func(gm *GoroutineMonitor) {
		if d > 0 {
			gm.checkInterval = d
		}
	}
}

// WithAlertThreshold sets the count above which a warning is logged
func WithAlertThreshold(n int) MonitorOption {
	return func(gm *GoroutineMonitor) {
		gm.alertThreshold = n
	}
}

// WithMonitorLogger sets the logger used for samples and alerts
func WithMonitorLogger(logger zerolog.Logger) MonitorOption {
	return func(gm *GoroutineMonitor) {
		gm.logger = logger
	}
}

// NewGoroutineMonitor creates a monitor whose baseline is the current count
func NewGoroutineMonitor(opts ...MonitorOption) *GoroutineMonitor {
	baseline := runtime.NumGoroutine()
	gm := &GoroutineMonitor{
		baseline:       baseline,
		current:        baseline,
		peak:           baseline,
		checkInterval:  30 * time.Second,
		alertThreshold: 1000,
		alertCooldown:  5 * time.Minute,
		stopChan:       make(chan struct{}),
		logger:         log.With().Str("component", "goroutine_monitor").Logger(),
	}
	for _, opt := range opts {
		opt(gm)
	}
	goroutines.Set(float64(baseline))
	return gm
}

// Start begins monitoring goroutines
func (gm *GoroutineMonitor) Start() {
	go gm.monitor()
	gm.logger.Info().
		Int("baseline", gm.baseline).
		Dur("interval", gm.checkInterval).
		Msg("Started goroutine monitoring")
}

// Stop stops the monitor. It is safe to call more than once.
func (gm *GoroutineMonitor) Stop() {
	gm.stopOnce.Do(func() { close(gm.stopChan) })
}

func (gm *GoroutineMonitor) monitor() {
	ticker := time.NewTicker(gm.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			gm.checkGoroutines()
		case <-gm.stopChan:
			return
		}
	}
}

// checkGoroutines samples the count, updates the gauge and alerts if needed
func (gm *GoroutineMonitor) checkGoroutines() {
	current := runtime.NumGoroutine()
	goroutines.Set(float64(current))

	gm.mu.Lock()
	gm.current = current
	if current > gm.peak {
		gm.peak = current
	}
	peak := gm.peak

	growth := current - gm.baseline
	growthRate := 0.0
	if gm.baseline > 0 {
		growthRate = float64(growth) / float64(gm.baseline) * 100
	}

	shouldAlert := current > gm.alertThreshold &&
		time.Since(gm.lastAlert) > gm.alertCooldown
	if shouldAlert {
		gm.lastAlert = time.Now()
	}
	gm.mu.Unlock()

	gm.logger.Debug().
		Int("current", current).
		Int("baseline", gm.baseline).
		Int("peak", peak).
		Float64("growth_rate", growthRate).
		Msg("Goroutine metrics")

	if shouldAlert {
		gm.logger.Warn().
			Int("current", current).
			Int("threshold", gm.alertThreshold).
			Float64("growth_rate", growthRate).
			Msg("High goroutine count detected - possible leak")
	}
}

// GetMetrics returns current goroutine metrics
func (gm *GoroutineMonitor) GetMetrics() GoroutineMetrics {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	return GoroutineMetrics{
		Current:  gm.current,
		Baseline: gm.baseline,
		Peak:     gm.peak,
		Growth:   gm.current - gm.baseline,
	}
}

// GoroutineMetrics contains goroutine statistics
type GoroutineMetrics struct {
	Current  int `json:"current"`
	Baseline int `json:"baseline"`
	Peak     int `json:"peak"`
	Growth   int `json:"growth"`
}
