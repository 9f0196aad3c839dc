// Package metrics exports cascade activity to Prometheus.
package metrics

import (
	"context"
	"errors"
	"io/fs"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/specialistvlad/rawgridgo/internal/engine"
	"github.com/specialistvlad/rawgridgo/internal/node"
	"github.com/specialistvlad/rawgridgo/internal/pixel"
	"github.com/specialistvlad/rawgridgo/internal/rawio"
	"github.com/specialistvlad/rawgridgo/internal/registry"
)

// Collector is an engine observer that counts processed and skipped blocks.
type Collector struct {
	processed *prometheus.CounterVec
	skipped   *prometheus.CounterVec
	duration  *prometheus.HistogramVec
}

var _ engine.Observer = (*Collector)(nil)

// New registers the collector's metrics with reg.
func New(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)
	return &Collector{
		// Labels: kind
		processed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rawgrid",
			Subsystem: "cascade",
			Name:      "blocks_processed_total",
			Help:      "Blocks that produced a new image",
		}, []string{"kind"}),
		// Labels: kind, reason (not_ready, shape_mismatch, invalid_params, too_deep, io, error)
		skipped: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rawgrid",
			Subsystem: "cascade",
			Name:      "blocks_skipped_total",
			Help:      "Blocks at which a cascade stopped",
		}, []string{"kind", "reason"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "rawgrid",
			Subsystem: "cascade",
			Name:      "block_duration_seconds",
			Help:      "Time spent computing a block's image",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}, []string{"kind"}),
	}
}

// BlockProcessed implements engine.Observer.
func (c *Collector) BlockProcessed(_ context.Context, b *node.Block, elapsed time.Duration) {
	c.processed.WithLabelValues(b.Kind).Inc()
	c.duration.WithLabelValues(b.Kind).Observe(elapsed.Seconds())
}

// BlockSkipped implements engine.Observer.
func (c *Collector) BlockSkipped(_ context.Context, b *node.Block, reason error) {
	c.skipped.WithLabelValues(b.Kind, Reason(reason)).Inc()
}

// Reason maps a cascade failure to a low-cardinality label value.
func Reason(err error) string {
	switch {
	case errors.Is(err, registry.ErrInputNotReady):
		return "not_ready"
	case errors.Is(err, pixel.ErrShapeMismatch):
		return "shape_mismatch"
	case errors.Is(err, registry.ErrInvalidParams), errors.Is(err, pixel.ErrInvalidKernel):
		return "invalid_params"
	case errors.Is(err, engine.ErrCascadeTooDeep):
		return "too_deep"
	case errors.Is(err, rawio.ErrUnknownShape), errors.As(err, new(*fs.PathError)):
		return "io"
	default:
		return "error"
	}
}
