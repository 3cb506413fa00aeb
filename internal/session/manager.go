package session

import (
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tindapay/dashboard/internal/models"
)

// DefaultMaxSessions limits stored batch results to prevent memory exhaustion
const DefaultMaxSessions = 50

// DefaultMaxAge is how long an idle batch result is kept
const DefaultMaxAge = 30 * time.Minute

// Manager keeps recent batch results in memory so charts and outlet rows can
// be fetched by batch ID after the upload request has returned. Results are
// lost on restart.
type Manager struct {
	sessions    map[string]*SessionState
	mu          sync.RWMutex
	maxSessions int
	maxAge      time.Duration
	now         func() time.Time
	log         zerolog.Logger
}

// SessionState holds one batch result and its access time.
type SessionState struct {
	Result       *models.BatchResult
	CreatedAt    time.Time
	LastAccessed time.Time // Last time the batch was read (for keep-alive)
}

// Option configures a Manager.
type Option func(*Manager)

// WithMaxSessions caps the number of stored results.
func WithMaxSessions(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.maxSessions = n
		}
	}
}

// WithMaxAge sets how long an idle result survives cleanup.
func WithMaxAge(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.maxAge = d
		}
	}
}

// WithLogger sets the logger for evictions.
func WithLogger(l zerolog.Logger) Option {
	return func(m *Manager) { m.log = l }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// NewManager creates a new result store.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		sessions:    make(map[string]*SessionState),
		maxSessions: DefaultMaxSessions,
		maxAge:      DefaultMaxAge,
		now:         time.Now,
		log:         zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// MaxAge returns the idle lifetime of a stored result.
func (m *Manager) MaxAge() time.Duration {
	return m.maxAge
}

// Put stores a batch result under its ID, evicting the least recently used
// results when the store is full.
func (m *Manager) Put(result *models.BatchResult) {
	if result == nil || result.ID == "" {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.sessions[result.ID] = &SessionState{
		Result:       result,
		CreatedAt:    now,
		LastAccessed: now,
	}
	m.evictOverflowLocked(result.ID)
}

// evictOverflowLocked removes the oldest results beyond maxSessions, never
// the one just stored.
func (m *Manager) evictOverflowLocked(keep string) {
	if len(m.sessions) <= m.maxSessions {
		return
	}

	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		if id != keep {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool {
		return m.sessions[ids[i]].LastAccessed.Before(m.sessions[ids[j]].LastAccessed)
	})

	toFree := len(m.sessions) - m.maxSessions
	for _, id := range ids[:toFree] {
		delete(m.sessions, id)
		m.log.Debug().Str("batch", id).Msg("evicted batch result to stay under capacity")
	}
}

// Get returns a batch result by ID and marks it as used.
func (m *Manager) Get(id string) (*models.BatchResult, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	state, ok := m.sessions[id]
	if !ok {
		return nil, false
	}
	state.LastAccessed = m.now()
	return state.Result, true
}

// Delete removes a batch result.
func (m *Manager) Delete(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[id]; !ok {
		return false
	}
	delete(m.sessions, id)
	return true
}

// Len returns the number of stored results.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// CleanupOldSessions removes results not accessed within maxAge and returns
// how many were removed.
func (m *Manager) CleanupOldSessions(maxAge time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := m.now().Add(-maxAge)
	removed := 0
	for id, state := range m.sessions {
		if state.LastAccessed.Before(cutoff) {
			delete(m.sessions, id)
			removed++
			m.log.Debug().
				Str("batch", id).
				Dur("idle", m.now().Sub(state.LastAccessed).Round(time.Second)).
				Msg("cleaned up aged batch result")
		}
	}
	return removed
}

// StartCleanup runs CleanupOldSessions every interval until stop is closed.
func (m *Manager) StartCleanup(interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if n := m.CleanupOldSessions(m.maxAge); n > 0 {
					m.log.Info().Int("removed", n).Msg("batch result cleanup")
				}
			case <-stop:
				return
			}
		}
	}()
}
