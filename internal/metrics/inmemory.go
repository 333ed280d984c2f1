package metrics

import (
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	ContactsCreated               uint64
	ContactsUpdated               uint64
	ContactsDeleted               uint64
	SearchDurationCount           uint64
	SearchDurationTotalNs         int64
	BirthdayLookupDurationCount   uint64
	BirthdayLookupDurationTotalNs int64
	UsersRegistered               uint64
	LoginSuccesses                uint64
	LoginFailures                 uint64
	AvatarsUploaded               uint64
}

// InMemoryRecorder stores metrics in memory.
type InMemoryRecorder struct {
	contactsCreated               uint64
	contactsUpdated               uint64
	contactsDeleted               uint64
	searchDurationCount           uint64
	searchDurationTotalNs         int64
	birthdayLookupDurationCount   uint64
	birthdayLookupDurationTotalNs int64
	usersRegistered               uint64
	loginSuccesses                uint64
	loginFailures                 uint64
	avatarsUploaded               uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		ContactsCreated:               atomic.LoadUint64(&m.contactsCreated),
		ContactsUpdated:               atomic.LoadUint64(&m.contactsUpdated),
		ContactsDeleted:               atomic.LoadUint64(&m.contactsDeleted),
		SearchDurationCount:           atomic.LoadUint64(&m.searchDurationCount),
		SearchDurationTotalNs:         atomic.LoadInt64(&m.searchDurationTotalNs),
		BirthdayLookupDurationCount:   atomic.LoadUint64(&m.birthdayLookupDurationCount),
		BirthdayLookupDurationTotalNs: atomic.LoadInt64(&m.birthdayLookupDurationTotalNs),
		UsersRegistered:               atomic.LoadUint64(&m.usersRegistered),
		LoginSuccesses:                atomic.LoadUint64(&m.loginSuccesses),
		LoginFailures:                 atomic.LoadUint64(&m.loginFailures),
		AvatarsUploaded:               atomic.LoadUint64(&m.avatarsUploaded),
	}
}

// IncContactCreated increments the contact created counter.
func (m *InMemoryRecorder) IncContactCreated() {
	atomic.AddUint64(&m.contactsCreated, 1)
}

// IncContactUpdated increments the contact updated counter.
func (m *InMemoryRecorder) IncContactUpdated() {
	atomic.AddUint64(&m.contactsUpdated, 1)
}

// IncContactDeleted increments the contact deleted counter.
func (m *InMemoryRecorder) IncContactDeleted() {
	atomic.AddUint64(&m.contactsDeleted, 1)
}

// ObserveSearchDuration records a contact search duration.
func (m *InMemoryRecorder) ObserveSearchDuration(duration time.Duration) {
	atomic.AddUint64(&m.searchDurationCount, 1)
	atomic.AddInt64(&m.searchDurationTotalNs, duration.Nanoseconds())
}

// ObserveBirthdayLookupDuration records an upcoming-birthdays lookup duration.
func (m *InMemoryRecorder) ObserveBirthdayLookupDuration(duration time.Duration) {
	atomic.AddUint64(&m.birthdayLookupDurationCount, 1)
	atomic.AddInt64(&m.birthdayLookupDurationTotalNs, duration.Nanoseconds())
}

// IncUserRegistered increments the registration counter.
func (m *InMemoryRecorder) IncUserRegistered() {
	atomic.AddUint64(&m.usersRegistered, 1)
}

// IncLoginSuccess increments the successful login counter.
func (m *InMemoryRecorder) IncLoginSuccess() {
	atomic.AddUint64(&m.loginSuccesses, 1)
}

// IncLoginFailure increments the failed login counter.
func (m *InMemoryRecorder) IncLoginFailure() {
	atomic.AddUint64(&m.loginFailures, 1)
}

// IncAvatarUploaded increments the avatar upload counter.
func (m *InMemoryRecorder) IncAvatarUploaded() {
	atomic.AddUint64(&m.avatarsUploaded, 1)
}
