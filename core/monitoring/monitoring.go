package monitoring

import "time"

// Reporter forwards unexpected failures to an error tracker.
type Reporter interface {
	CaptureException(err error, tags map[string]string)
	Flush(timeout time.Duration)
}

// NopReporter drops every report.
type NopReporter struct{}

func (NopReporter) CaptureException(error, map[string]string) {}
func (NopReporter) Flush(time.Duration)                       {}
