package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultTTL is how long an untouched session is kept.
const DefaultTTL = 24 * time.Hour

// Store keeps sessions in memory, keyed by ID. Sessions are never shared between
// users. Actions on one session are serialized through Do.
type Store struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	entries map[uuid.UUID]*entry
}

type entry struct {
	mu       sync.Mutex
	session  *Session
	lastSeen time.Time
}

// NewStore creates a store that expires sessions idle for longer than ttl.
func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{ttl: ttl, now: time.Now, entries: make(map[uuid.UUID]*entry)}
}

// Create starts a new Idle session.
func (st *Store) Create() *Session {
	s := New()

	st.mu.Lock()
	defer st.mu.Unlock()
	st.expireLocked()
	st.entries[s.ID] = &entry{session: s, lastSeen: st.now()}
	return s.Clone()
}

// Get returns a copy of the session, or false if it does not exist or has expired.
func (st *Store) Get(id uuid.UUID) (*Session, bool) {
	e := st.lookup(id)
	if e == nil {
		return nil, false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session.Clone(), true
}

// Save replaces the stored session with a copy of s.
func (st *Store) Save(s *Session) {
	saved := s.Clone()

	st.mu.Lock()
	e, ok := st.entries[s.ID]
	if !ok {
		st.entries[s.ID] = &entry{session: saved, lastSeen: st.now()}
		st.mu.Unlock()
		return
	}
	e.lastSeen = st.now()
	st.mu.Unlock()

	e.mu.Lock()
	e.session = saved
	e.mu.Unlock()
}

// Do runs fn on the stored session while holding that session's lock and returns
// a copy of the result. It reports false if the session does not exist.
func (st *Store) Do(id uuid.UUID, fn func(*Session)) (*Session, bool) {
	e := st.lookup(id)
	if e == nil {
		return nil, false
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	fn(e.session)
	e.session.UpdatedAt = st.now()
	return e.session.Clone(), true
}

// Delete removes a session.
func (st *Store) Delete(id uuid.UUID) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.entries, id)
}

// Len returns the number of live sessions.
func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.expireLocked()
	return len(st.entries)
}

func (st *Store) lookup(id uuid.UUID) *entry {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.expireLocked()

	e, ok := st.entries[id]
	if !ok {
		return nil
	}
	e.lastSeen = st.now()
	return e
}

func (st *Store) expireLocked() {
	cutoff := st.now().Add(-st.ttl)
	for id, e := range st.entries {
		if e.lastSeen.Before(cutoff) {
			delete(st.entries, id)
		}
	}
}
