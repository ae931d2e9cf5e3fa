package metrics

import (
	"os"
	"path/filepath"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
//
// apimark is a batch tool, so instead of serving /metrics the registry is
// dumped to a textfile at the end of the run (node_exporter textfile
// collector format) when the user asks for it.
type PrometheusRecorder struct {
	registry   *prom.Registry
	pages      *prom.CounterVec
	skipped    *prom.CounterVec
	unresolved prom.Counter
	duration   prom.Gauge
}

// NewPrometheusRecorder creates a recorder backed by its own registry.
func NewPrometheusRecorder() *PrometheusRecorder {
	reg := prom.NewRegistry()
	r := &PrometheusRecorder{
		registry: reg,
		pages: prom.NewCounterVec(prom.CounterOpts{
			Name: "apimark_pages_rendered_total",
			Help: "Markdown pages rendered, by entity kind.",
		}, []string{"kind"}),
		skipped: prom.NewCounterVec(prom.CounterOpts{
			Name: "apimark_entities_skipped_total",
			Help: "Entities skipped during rendering, by reason.",
		}, []string{"reason"}),
		unresolved: prom.NewCounter(prom.CounterOpts{
			Name: "apimark_unresolved_references_total",
			Help: "Symbolic references that fell back to a code-quoted literal.",
		}),
		duration: prom.NewGauge(prom.GaugeOpts{
			Name: "apimark_run_duration_seconds",
			Help: "Wall-clock duration of the last build.",
		}),
	}
	reg.MustRegister(r.pages, r.skipped, r.unresolved, r.duration)
	return r
}

func (r *PrometheusRecorder) PageRendered(kind string)    { r.pages.WithLabelValues(kind).Inc() }
func (r *PrometheusRecorder) EntitySkipped(reason string) { r.skipped.WithLabelValues(reason).Inc() }
func (r *PrometheusRecorder) UnresolvedReference()        { r.unresolved.Inc() }
func (r *PrometheusRecorder) RunDuration(seconds float64) { r.duration.Set(seconds) }

// WriteTextfile gathers the registry and writes it in text exposition format.
func (r *PrometheusRecorder) WriteTextfile(path string) error {
	families, err := r.registry.Gather()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	enc := expfmt.NewEncoder(f, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return err
		}
	}
	return nil
}
