package metrics

import (
	"sync"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	HTTPRequests      uint64
	RateLimited       map[string]uint64
	Registrations     uint64
	Logins            map[string]uint64
	PasswordResets    map[string]uint64
	EntriesCreated    map[string]uint64
	EntriesUpdated    map[string]uint64
	EntriesDeleted    map[string]uint64
	LastRequestStatus int
}

// InMemoryRecorder stores metrics in memory for tests.
type InMemoryRecorder struct {
	mu   sync.Mutex
	snap Snapshot
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{snap: emptySnapshot()}
}

func emptySnapshot() Snapshot {
	return Snapshot{
		RateLimited:    make(map[string]uint64),
		Logins:         make(map[string]uint64),
		PasswordResets: make(map[string]uint64),
		EntriesCreated: make(map[string]uint64),
		EntriesUpdated: make(map[string]uint64),
		EntriesDeleted: make(map[string]uint64),
	}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := m.snap
	out.RateLimited = copyCounts(m.snap.RateLimited)
	out.Logins = copyCounts(m.snap.Logins)
	out.PasswordResets = copyCounts(m.snap.PasswordResets)
	out.EntriesCreated = copyCounts(m.snap.EntriesCreated)
	out.EntriesUpdated = copyCounts(m.snap.EntriesUpdated)
	out.EntriesDeleted = copyCounts(m.snap.EntriesDeleted)
	return out
}

func copyCounts(in map[string]uint64) map[string]uint64 {
	out := make(map[string]uint64, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// ObserveHTTPRequest counts a served request.
func (m *InMemoryRecorder) ObserveHTTPRequest(_, _ string, status int, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snap.HTTPRequests++
	m.snap.LastRequestStatus = status
}

// IncRateLimited counts a rejected request for scope.
func (m *InMemoryRecorder) IncRateLimited(scope string) { m.inc(m.snap.RateLimited, scope) }

// IncRegistration counts a new account.
func (m *InMemoryRecorder) IncRegistration() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snap.Registrations++
}

// IncLogin counts a login attempt by outcome.
func (m *InMemoryRecorder) IncLogin(outcome string) { m.inc(m.snap.Logins, outcome) }

// IncPasswordReset counts a reset attempt by outcome.
func (m *InMemoryRecorder) IncPasswordReset(outcome string) { m.inc(m.snap.PasswordResets, outcome) }

// IncEntryCreated counts a created entry of kind.
func (m *InMemoryRecorder) IncEntryCreated(kind string) { m.inc(m.snap.EntriesCreated, kind) }

// IncEntryUpdated counts an updated entry of kind.
func (m *InMemoryRecorder) IncEntryUpdated(kind string) { m.inc(m.snap.EntriesUpdated, kind) }

// IncEntryDeleted counts a deleted entry of kind.
func (m *InMemoryRecorder) IncEntryDeleted(kind string) { m.inc(m.snap.EntriesDeleted, kind) }

func (m *InMemoryRecorder) inc(counts map[string]uint64, label string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts[label]++
}
