// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Entry kinds used as metric labels.
const (
	KindFood    = "food"
	KindWorkout = "workout"
)

// Outcome labels for authentication events.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Recorder captures metric events for the application.
type Recorder interface {
	// HTTP metrics
	ObserveHTTPRequest(method, route string, status int, duration time.Duration)
	IncRateLimited(scope string)

	// Account metrics
	IncRegistration()
	IncLogin(outcome string)
	IncPasswordReset(outcome string)

	// Log entry metrics
	IncEntryCreated(kind string)
	IncEntryUpdated(kind string)
	IncEntryDeleted(kind string)
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
