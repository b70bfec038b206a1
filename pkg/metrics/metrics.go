// Package metrics exports codec and conversion activity as Prometheus
// metrics.
//
// A [Recorder] implements the observability hook interfaces and keeps its
// metrics on a private registry, so several recorders (one per test, say)
// never collide. The CLI installs one and writes it out with
// [Recorder.WriteTextfile] for node_exporter's textfile collector.
package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/matzehuels/graphpack/pkg/observability"
)

const namespace = "graphpack"

// Recorder collects metrics from codec and pipeline hooks.
type Recorder struct {
	registry *prometheus.Registry

	headers        *prometheus.CounterVec
	records        *prometheus.CounterVec
	edges          *prometheus.CounterVec
	conversions    *prometheus.CounterVec
	convertedEdges prometheus.Counter
	duration       prometheus.Histogram
}

var (
	_ observability.CodecHooks    = (*Recorder)(nil)
	_ observability.PipelineHooks = (*Recorder)(nil)
)

// NewRecorder creates a Recorder with its own registry.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,

		// Headers seen, labeled by direction (written or read).
		headers: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "headers_total",
				Help:      "Graph file headers written or read",
			},
			[]string{"direction"},
		),
		records: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "records_total",
				Help:      "Edge records written or read, by record kind",
			},
			[]string{"direction", "kind"},
		),
		edges: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "edges_total",
				Help:      "Edges written or read, by the kind of record carrying them",
			},
			[]string{"direction", "kind"},
		),
		conversions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "conversions_total",
				Help:      "Edge list conversions, by result",
			},
			[]string{"result"},
		),
		convertedEdges: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "converted_edges_total",
				Help:      "Edges written by successful conversions",
			},
		),
		// From small test graphs to multi-gigabyte edge lists.
		duration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "conversion_duration_seconds",
				Help:      "Wall time of edge list conversions",
				Buckets:   []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 15, 60, 300, 1800},
			},
		),
	}
}

// Registry returns the registry holding the recorder's metrics.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// Install registers r as the global codec and pipeline hooks.
func (r *Recorder) Install() {
	observability.SetCodecHooks(r)
	observability.SetPipelineHooks(r)
}

// WriteTextfile writes the current metric values to path in the Prometheus
// text format. The file is replaced atomically.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}

func (r *Recorder) OnHeaderWritten(string, uint32, uint64) {
	r.headers.WithLabelValues("written").Inc()
}

func (r *Recorder) OnRecordWritten(kind string, edges int) {
	r.records.WithLabelValues("written", kind).Inc()
	r.edges.WithLabelValues("written", kind).Add(float64(edges))
}

func (r *Recorder) OnHeaderRead(string, uint32, uint64) {
	r.headers.WithLabelValues("read").Inc()
}

func (r *Recorder) OnRecordRead(kind string, edges int) {
	r.records.WithLabelValues("read", kind).Inc()
	r.edges.WithLabelValues("read", kind).Add(float64(edges))
}

func (r *Recorder) OnConvertStart(context.Context, string, bool) {}

func (r *Recorder) OnConvertComplete(_ context.Context, _ string, edges uint64, d time.Duration, err error) {
	r.duration.Observe(d.Seconds())
	if err != nil {
		r.conversions.WithLabelValues("error").Inc()
		return
	}
	r.conversions.WithLabelValues("ok").Inc()
	r.convertedEdges.Add(float64(edges))
}
