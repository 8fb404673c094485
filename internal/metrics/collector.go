// Package metrics records how much work the CLI asks of the disk model.
// The model stays side-effect free; callers time and count their own calls.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	OpObservables = "observables"
	OpField       = "field"
	OpCurve       = "curve"
)

type Collector struct {
	gatherer prometheus.Gatherer

	Stars     prometheus.Counter
	GridCells prometheus.Counter
	Durations *prometheus.HistogramVec
}

// NewCollector registers the diskrot metrics against reg, or the default
// Prometheus registry when reg is nil.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	stars, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "diskrot_stars_evaluated_total",
		Help: "Stars converted to observables.",
	}), "diskrot_stars_evaluated_total")
	if err != nil {
		return nil, err
	}
	cells, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "diskrot_grid_cells_evaluated_total",
		Help: "Grid cells evaluated by the differential velocity field.",
	}), "diskrot_grid_cells_evaluated_total")
	if err != nil {
		return nil, err
	}
	durations, err := registerHistogramVec(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "diskrot_evaluation_duration_seconds",
		Help:    "Wall time of model evaluations, by operation.",
		Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
	}, []string{"operation"}), "diskrot_evaluation_duration_seconds")
	if err != nil {
		return nil, err
	}

	return &Collector{
		gatherer:  gatherer,
		Stars:     stars,
		GridCells: cells,
		Durations: durations,
	}, nil
}

func (c *Collector) ObserveStars(n int, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.Stars.Add(float64(n))
	c.Durations.WithLabelValues(OpObservables).Observe(elapsed.Seconds())
}

func (c *Collector) ObserveGrid(cells int, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.GridCells.Add(float64(cells))
	c.Durations.WithLabelValues(OpField).Observe(elapsed.Seconds())
}

func (c *Collector) ObserveCurve(elapsed time.Duration) {
	if c == nil {
		return
	}
	c.Durations.WithLabelValues(OpCurve).Observe(elapsed.Seconds())
}

// WriteTextfile dumps everything the collector's gatherer knows in the text
// exposition format, for node_exporter's textfile collector or inspection.
func (c *Collector) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, c.gatherer)
}

func registerCounter(reg prometheus.Registerer, counter prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(counter); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return counter, nil
}

func registerHistogramVec(reg prometheus.Registerer, vec *prometheus.HistogramVec, name string) (*prometheus.HistogramVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}
