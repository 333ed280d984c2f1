package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncContactCreated is a no-op.
func (n *NoopRecorder) IncContactCreated() {}

// IncContactUpdated is a no-op.
func (n *NoopRecorder) IncContactUpdated() {}

// IncContactDeleted is a no-op.
func (n *NoopRecorder) IncContactDeleted() {}

// ObserveSearchDuration is a no-op.
func (n *NoopRecorder) ObserveSearchDuration(duration time.Duration) {}

// ObserveBirthdayLookupDuration is a no-op.
func (n *NoopRecorder) ObserveBirthdayLookupDuration(duration time.Duration) {}

// IncUserRegistered is a no-op.
func (n *NoopRecorder) IncUserRegistered() {}

// IncLoginSuccess is a no-op.
func (n *NoopRecorder) IncLoginSuccess() {}

// IncLoginFailure is a no-op.
func (n *NoopRecorder) IncLoginFailure() {}

// IncAvatarUploaded is a no-op.
func (n *NoopRecorder) IncAvatarUploaded() {}
