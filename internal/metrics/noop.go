package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

func (n *NoopRecorder) ObserveHTTPRequest(string, string, int, time.Duration) {}
func (n *NoopRecorder) IncRateLimited(string) {}
func (n *NoopRecorder) IncRegistration() {}
func (n *NoopRecorder) IncLogin(string) {}
func (n *NoopRecorder) IncPasswordReset(string) {}
func (n *NoopRecorder) IncEntryCreated(string) {}
func (n *NoopRecorder) IncEntryUpdated(string) {}
func (n *NoopRecorder) IncEntryDeleted(string) {}
