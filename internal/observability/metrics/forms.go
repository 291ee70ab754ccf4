package metrics

import (
	"time"

	obserrors "github.com/abctechblog/blogfront/internal/observability/errors"
	"github.com/abctechblog/blogfront/internal/observability/statsd"
)

// Outcome constants for metric tagging.
const (
	OutcomeSuccess  = "success"
	OutcomeError    = "error"
	OutcomeRejected = "rejected"
)

// Form names used as the "form" tag.
const (
	FormSignIn   = "signin"
	FormSignUp   = "signup"
	FormIdentity = "identity"
	FormUpload   = "upload"
	FormPublish  = "publish"
	FormContact  = "contact"
)

// FormRecorder emits form submission metrics. A nil FormRecorder or one
// with a nil sink is a no-op, so controllers can call it unconditionally.
type FormRecorder struct {
	sink statsd.Sink
}

// NewFormRecorder wraps sink.
func NewFormRecorder(sink statsd.Sink) *FormRecorder {
	return &FormRecorder{sink: sink}
}

// FormMetric captures one submission outcome.
type FormMetric struct {
	Form     string
	Duration time.Duration
	Err      error
}

// Record emits a form.submit counter and, when a duration is known, a form.latency timing.
// Validation failures are tagged "rejected" with their class so they can be told apart
// from backend failures.
func (r *FormRecorder) Record(in FormMetric) {
	if r == nil || r.sink == nil {
		return
	}

	outcome := OutcomeSuccess
	tags := map[string]string{"form": in.Form}
	if in.Err != nil {
		class := obserrors.Classify(in.Err)
		outcome = OutcomeError
		if class == "validation" || class == "busy" {
			outcome = OutcomeRejected
		}
		tags["error_class"] = class
	}
	tags["outcome"] = outcome

	r.sink.Count("form.submit", 1, tags)

	if in.Duration > 0 {
		r.sink.Timing("form.latency", in.Duration, CloneTags(tags))
	}
}

// Since is a helper for deferred recording:
//
//	defer rec.Since(metrics.FormSignIn, time.Now(), &err)
func (r *FormRecorder) Since(form string, start time.Time, errp *error) {
	var err error
	if errp != nil {
		err = *errp
	}
	r.Record(FormMetric{Form: form, Duration: time.Since(start), Err: err})
}

// CloneTags creates a shallow copy of a tag map.
func CloneTags(src map[string]string) map[string]string {
	if len(src) == 0 {
		return nil
	}
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
