// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Contact management metrics
	IncContactCreated()
	IncContactUpdated()
	IncContactDeleted()
	ObserveSearchDuration(duration time.Duration)
	ObserveBirthdayLookupDuration(duration time.Duration)

	// Account metrics
	IncUserRegistered()
	IncLoginSuccess()
	IncLoginFailure()
	IncAvatarUploaded()
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
