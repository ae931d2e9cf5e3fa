// Package metrics provides run metrics for apimark builds.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so metrics stay zero-overhead unless explicitly enabled.
package metrics

// Recorder defines the metrics operations the generator emits.
type Recorder interface {
	// PageRendered counts one emitted page, labeled by entity kind
	// ("index" for the synthetic index page).
	PageRendered(kind string)
	// EntitySkipped counts a skipped malformed entity.
	EntitySkipped(reason string)
	// UnresolvedReference counts a reference that fell back to a
	// code-quoted literal.
	UnresolvedReference()
	// RunDuration records the total wall-clock duration of a build.
	RunDuration(seconds float64)
}

// NoopRecorder is the default Recorder; every method is a no-op.
type NoopRecorder struct{}

func (NoopRecorder) PageRendered(string)  {}
func (NoopRecorder) EntitySkipped(string) {}
func (NoopRecorder) UnresolvedReference() {}
func (NoopRecorder) RunDuration(float64)  {}
