// Package metrics provides Prometheus metrics collection for paramset.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/artpar/paramset/core/param"
	"github.com/artpar/paramset/core/registry"
	"github.com/artpar/paramset/ports"
)

// Decode results.
const (
	ResultOK       = "ok"
	ResultRejected = "rejected"
)

// Collector holds all Prometheus metrics for paramset.
type Collector struct {
	// Codec metrics
	EncodesTotal      *prometheus.CounterVec
	DecodesTotal      *prometheus.CounterVec
	DecodeErrorsTotal *prometheus.CounterVec

	// Values file reload metrics
	Reloads      prometheus.Counter
	ReloadErrors prometheus.Counter
	LastReload   prometheus.Gauge
}

var (
	_ ports.CodecObserver  = (*Collector)(nil)
	_ ports.ReloadObserver = (*Collector)(nil)
)

// New creates a collector registered with the default Prometheus registerer.
func New() *Collector {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry creates a collector with a custom registry.
// Useful for testing to avoid global state.
func NewWithRegistry(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)

	return &Collector{
		EncodesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "paramset",
				Name:      "encode_total",
				Help:      "Total number of registry serializations",
			},
			[]string{"format"},
		),
		DecodesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "paramset",
				Name:      "decode_total",
				Help:      "Total number of bulk decodes by result",
			},
			[]string{"format", "result"},
		),
		DecodeErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "paramset",
				Name:      "decode_errors_total",
				Help:      "Total number of rejected decodes by reason",
			},
			[]string{"format", "reason"},
		),
		Reloads: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: "paramset",
				Name:      "reloads_total",
				Help:      "Total number of successful values file reloads",
			},
		),
		ReloadErrors: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: "paramset",
				Name:      "reload_errors_total",
				Help:      "Total number of values file reload errors",
			},
		),
		LastReload: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "paramset",
				Name:      "last_reload_timestamp",
				Help:      "Unix timestamp of last successful values file reload",
			},
		),
	}
}

// ObserveEncode implements ports.CodecObserver.
func (c *Collector) ObserveEncode(format string) {
	c.EncodesTotal.WithLabelValues(format).Inc()
}

// ObserveDecode implements ports.CodecObserver.
func (c *Collector) ObserveDecode(format string, err error) {
	if err == nil {
		c.DecodesTotal.WithLabelValues(format, ResultOK).Inc()
		return
	}
	c.DecodesTotal.WithLabelValues(format, ResultRejected).Inc()
	c.DecodeErrorsTotal.WithLabelValues(format, Reason(err)).Inc()
}

// ObserveReload implements ports.ReloadObserver.
func (c *Collector) ObserveReload(err error) {
	if err != nil {
		c.ReloadErrors.Inc()
		return
	}
	c.Reloads.Inc()
	c.LastReload.Set(float64(time.Now().Unix()))
}

// Reason maps a decode error to a bounded label value.
func Reason(err error) string {
	switch {
	case errors.Is(err, param.ErrUnknownParameter):
		return "unknown_parameter"
	case errors.Is(err, param.ErrConstraintViolation):
		return "constraint"
	case errors.Is(err, param.ErrParse):
		return "parse"
	case errors.Is(err, param.ErrTypeMismatch):
		return "type_mismatch"
	case errors.Is(err, registry.ErrMissingEquals):
		return "missing_equals"
	case errors.Is(err, registry.ErrTrailingEscape):
		return "trailing_escape"
	case errors.Is(err, registry.ErrInvalidJSONType):
		return "invalid_json_type"
	case errors.Is(err, registry.ErrNotAnObject):
		return "not_an_object"
	case errors.Is(err, registry.ErrMalformedJSON):
		return "malformed_json"
	default:
		return "other"
	}
}
