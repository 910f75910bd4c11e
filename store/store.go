// Package store is an in-memory, keyed cache of remote collections. Entries
// carry an explicit state tag so readers can tell a trustworthy payload from
// one awaiting refetch or caught mid-mutation. The canonical data lives on the
// server; everything here is a disposable projection.
package store

import (
	"errors"
	"strings"
	"sync"
)

// Key identifies one cached collection, e.g. a task query signature or a
// conversation id.
type Key string

// State of a cache entry.
type State int

const (
	// Fresh payloads are trustworthy as-is.
	Fresh State = iota
	// Stale payloads are renderable but must be refetched before the next
	// authoritative use.
	Stale
	// Pending entries are mid-mutation; a second mutation on the same key
	// must not start until the first settles.
	Pending
)

func (s State) String() string {
	switch s {
	case Fresh:
		return "fresh"
	case Stale:
		return "stale"
	case Pending:
		return "pending"
	}
	return "unknown"
}

// ErrPending is returned by Begin when the entry is already mid-mutation.
var ErrPending = errors.New("entry pending")

type entry struct {
	payload any
	state   State
}

// Snapshot captures an entry's exact pre-mutation state so Rollback can
// restore it, including "did not exist".
type Snapshot struct {
	key     Key
	payload any
	state   State
	existed bool
}

// Payload returns the captured payload (nil when the entry did not exist).
func (sn *Snapshot) Payload() any { return sn.payload }

// Store holds cache entries and notifies subscribers after every visible
// change. All methods are safe for concurrent use; per-key mutation ordering
// is the sync engine's job, enforced through the Pending state.
type Store struct {
	mu      sync.Mutex
	entries map[Key]*entry
	subs    map[int]func(Key)
	nextSub int
}

// New constructs an empty Store.
func New() *Store {
	return &Store{
		entries: make(map[Key]*entry),
		subs:    make(map[int]func(Key)),
	}
}

// Get returns the payload and state for key. ok is false when nothing is
// cached under key.
func (s *Store) Get(key Key) (payload any, state State, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok {
		cacheMissTotal.Inc()
		return nil, Fresh, false
	}
	cacheHitTotal.WithLabelValues(e.state.String()).Inc()
	return e.payload, e.state, true
}

// Put stores a fresh payload under key, replacing whatever was there. A
// Pending entry is never replaced: the in-flight mutation owns it.
func (s *Store) Put(key Key, payload any) {
	s.mu.Lock()
	if e, ok := s.entries[key]; ok && e.state == Pending {
		s.mu.Unlock()
		return
	}
	s.entries[key] = &entry{payload: payload, state: Fresh}
	s.mu.Unlock()
	s.notify(key)
}

// Invalidate marks the entry under key stale. Invalidating a stale or missing
// entry is a no-op; a Pending entry is left for the in-flight mutation to
// settle.
func (s *Store) Invalidate(key Key) {
	s.mu.Lock()
	e, ok := s.entries[key]
	if !ok || e.state != Fresh {
		s.mu.Unlock()
		return
	}
	e.state = Stale
	invalidationsTotal.Inc()
	s.mu.Unlock()
	s.notify(key)
}

// InvalidatePrefix invalidates every entry whose key starts with prefix.
// Mutations that can move an item across derived views use this to flush all
// sibling query signatures at once.
func (s *Store) InvalidatePrefix(prefix string) {
	s.mu.Lock()
	var touched []Key
	for k, e := range s.entries {
		if strings.HasPrefix(string(k), prefix) && e.state == Fresh {
			e.state = Stale
			invalidationsTotal.Inc()
			touched = append(touched, k)
		}
	}
	s.mu.Unlock()
	for _, k := range touched {
		s.notify(k)
	}
}

// Discard drops the entry under key entirely.
func (s *Store) Discard(key Key) {
	s.mu.Lock()
	_, ok := s.entries[key]
	delete(s.entries, key)
	s.mu.Unlock()
	if ok {
		s.notify(key)
	}
}

// DiscardPrefix drops every entry whose key starts with prefix. Used on
// logout and "new conversation".
func (s *Store) DiscardPrefix(prefix string) {
	s.mu.Lock()
	var touched []Key
	for k := range s.entries {
		if strings.HasPrefix(string(k), prefix) {
			delete(s.entries, k)
			touched = append(touched, k)
		}
	}
	s.mu.Unlock()
	for _, k := range touched {
		s.notify(k)
	}
}

// Patch replaces the payload of an existing entry in place, preserving its
// state. Used to fold server-created objects (e.g. a recurrence's next
// occurrence) into a projection without claiming freshness. Pending entries
// are owned by the in-flight mutation and left alone.
func (s *Store) Patch(key Key, fn func(any) any) {
	s.mu.Lock()
	e, ok := s.entries[key]
	if !ok || e.state == Pending {
		s.mu.Unlock()
		return
	}
	e.payload = fn(e.payload)
	s.mu.Unlock()
	s.notify(key)
}

// Subscribe registers fn to run after every visible change to any entry. The
// returned cancel func removes the subscription. A rendering layer uses this
// to re-pull derived views instead of polling.
func (s *Store) Subscribe(fn func(Key)) (cancel func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Store) notify(key Key) {
	s.mu.Lock()
	fns := make([]func(Key), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()
	for _, fn := range fns {
		fn(key)
	}
}

// --------------------------------------------------------------------
// Mutation protocol surface — used by the sync engine
// --------------------------------------------------------------------

// Begin marks the entry under key Pending and returns a snapshot of its prior
// state. It fails with ErrPending when a mutation is already in flight for
// key; the caller must surface that as a busy condition, never queue a second
// speculative write behind the first.
func (s *Store) Begin(key Key) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if ok && e.state == Pending {
		return nil, ErrPending
	}
	snap := &Snapshot{key: key, existed: ok}
	if ok {
		snap.payload = e.payload
		snap.state = e.state
		e.state = Pending
	} else {
		s.entries[key] = &entry{state: Pending}
	}
	return snap, nil
}

// Apply replaces the payload of a Pending entry with the speculative result,
// making it visible to readers before the remote call settles. Readers see
// either the snapshot state or the fully-applied speculative payload, never a
// partial write.
func (s *Store) Apply(key Key, payload any) {
	s.mu.Lock()
	e, ok := s.entries[key]
	if !ok || e.state != Pending {
		s.mu.Unlock()
		return
	}
	e.payload = payload
	s.mu.Unlock()
	s.notify(key)
}

// Commit settles a successful mutation: the entry leaves Pending and becomes
// Stale, so the next authoritative read refetches instead of trusting the
// speculative guess.
func (s *Store) Commit(key Key) {
	s.mu.Lock()
	e, ok := s.entries[key]
	if !ok || e.state != Pending {
		s.mu.Unlock()
		return
	}
	e.state = Stale
	s.mu.Unlock()
	s.notify(key)
}

// Rollback settles a failed mutation by restoring the snapshot exactly: the
// prior payload and state, or absence if nothing was cached before Begin.
func (s *Store) Rollback(snap *Snapshot) {
	s.mu.Lock()
	if !snap.existed {
		delete(s.entries, snap.key)
	} else {
		s.entries[snap.key] = &entry{payload: snap.payload, state: snap.state}
	}
	s.mu.Unlock()
	s.notify(snap.key)
}
