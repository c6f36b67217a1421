// Package metrics records import counters and step timings against a
// pluggable backend. The zero Recorder and Nop() are safe to use when no
// backend is configured.
package metrics

import "time"

// Metric names understood by every backend.
const (
	StepTotal           = "import_step_total"
	StepDurationSeconds = "import_step_duration_seconds"
	RecordsTotal        = "import_records_total"
)

// Labels are string key/value pairs attached to a metric.
type Labels map[string]string

// Backend is the minimal interface for metrics backends.
type Backend interface {
	// IncCounter increments a counter by delta.
	IncCounter(name string, delta float64, labels Labels)
	// ObserveHistogram records a value in a duration style metric.
	ObserveHistogram(name string, value float64, labels Labels)
	// Flush pushes buffered metrics, if the backend needs it.
	Flush() error
}

type nopBackend struct{}

func (nopBackend) IncCounter(string, float64, Labels)       {}
func (nopBackend) ObserveHistogram(string, float64, Labels) {}
func (nopBackend) Flush() error                             { return nil }

// Recorder binds a backend to one job name.
type Recorder struct {
	backend Backend
	job     string
}

// New returns a recorder for job. A nil backend records nothing.
func New(b Backend, job string) *Recorder {
	if b == nil {
		b = nopBackend{}
	}
	return &Recorder{backend: b, job: job}
}

func Nop() *Recorder {
	return New(nil, "")
}

func (r *Recorder) get() Backend {
	if r == nil || r.backend == nil {
		return nopBackend{}
	}
	return r.backend
}

// RecordStep counts one execution of step and observes its duration,
// labelled success or failure by err.
func (r *Recorder) RecordStep(step string, err error, d time.Duration) {
	status := "success"
	if err != nil {
		status = "failure"
	}

	lbls := Labels{
		"job":    r.jobName(),
		"step":   step,
		"status": status,
	}

	b := r.get()
	b.IncCounter(StepTotal, 1, lbls)
	b.ObserveHistogram(StepDurationSeconds, d.Seconds(), lbls)
}

// RecordRows adds delta to the record counter for kind, e.g. "processed",
// "rejected", "products_inserted". Non-positive deltas are ignored.
func (r *Recorder) RecordRows(kind string, delta int) {
	if delta <= 0 {
		return
	}
	r.get().IncCounter(RecordsTotal, float64(delta), Labels{
		"job":  r.jobName(),
		"kind": kind,
	})
}

func (r *Recorder) Flush() error {
	return r.get().Flush()
}

func (r *Recorder) jobName() string {
	if r == nil {
		return ""
	}
	return r.job
}
