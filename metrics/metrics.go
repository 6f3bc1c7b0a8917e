// Package metrics exposes Prometheus collectors for codec failures, framed
// units and arena memory.
package metrics

import (
	stderrors "errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	asn1runtime "github.com/wippyai/asn1-runtime"
	"github.com/wippyai/asn1-runtime/arena"
	"github.com/wippyai/asn1-runtime/errors"
	"github.com/wippyai/asn1-runtime/frame"
)

// Codec collects runtime metrics. It implements codec.Observer.
type Codec struct {
	errors     *prometheus.CounterVec
	units      *prometheus.CounterVec
	rejects    *prometheus.CounterVec
	unitBytes  prometheus.Histogram
	arenaBytes prometheus.Gauge
}

// New registers the collectors with r.
func New(r prometheus.Registerer) *Codec {
	m := &Codec{
		errors: promauto.With(r).NewCounterVec(prometheus.CounterOpts{
			Name: "asn1rt_codec_errors_total",
			Help: "Total number of failed codec runs.",
		}, []string{"phase", "kind"}),
		units: promauto.With(r).NewCounterVec(prometheus.CounterOpts{
			Name: "asn1rt_frame_units_total",
			Help: "Total number of complete units detected.",
		}, []string{"framing"}),
		rejects: promauto.With(r).NewCounterVec(prometheus.CounterOpts{
			Name: "asn1rt_frame_rejects_total",
			Help: "Total number of buffers a detector rejected.",
		}, []string{"framing", "reason"}),
		unitBytes: promauto.With(r).NewHistogram(prometheus.HistogramOpts{
			Name:    "asn1rt_frame_unit_bytes",
			Help:    "Size of detected units.",
			Buckets: prometheus.ExponentialBuckets(16, 4, 10),
		}),
		arenaBytes: promauto.With(r).NewGauge(prometheus.GaugeOpts{
			Name: "asn1rt_arena_bytes",
			Help: "Bytes reserved by the most recently observed arena.",
		}),
	}
	promauto.With(r).NewGaugeFunc(prometheus.GaugeOpts{
		Name: "asn1rt_arenas_outstanding",
		Help: "Arenas created and not yet destroyed.",
	}, func() float64 {
		return float64(arena.Outstanding())
	})
	return m
}

// CodecError counts one failed codec run.
func (m *Codec) CodecError(phase errors.Phase, kind errors.Kind) {
	m.errors.WithLabelValues(string(phase), string(kind)).Inc()
}

// Framing wraps fn so detected units and rejections are counted under name.
func (m *Codec) Framing(name string, fn asn1runtime.CompleteFunc) asn1runtime.CompleteFunc {
	units := m.units.WithLabelValues(name)
	return func(buf []byte) (int, error) {
		n, err := fn(buf)
		switch {
		case err != nil:
			m.rejects.WithLabelValues(name, rejectReason(err)).Inc()
		case n > 0:
			units.Inc()
			m.unitBytes.Observe(float64(n))
		}
		return n, err
	}
}

func rejectReason(err error) string {
	switch {
	case stderrors.Is(err, frame.ErrNotFramed):
		return "not_framed"
	case stderrors.Is(err, frame.ErrTooLarge):
		return "too_large"
	}
	return "other"
}

// ObserveArena records the capacity held by a.
func (m *Codec) ObserveArena(a *arena.Arena) {
	m.arenaBytes.Set(float64(a.Stats().Capacity))
}
