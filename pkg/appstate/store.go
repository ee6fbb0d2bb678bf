// Package appstate holds mutable application state behind an explicit
// store with change notification.
//
// Components receive a *Store instead of reaching for package-level
// state. Readers call [Store.Settings]; writers go through [Store.Update],
// which normalizes the new value and notifies subscribers.
package appstate

import (
	"sync"

	"github.com/matzehuels/stackorder/pkg/settings"
)

// subscriberBuffer is the channel capacity of each subscription.
const subscriberBuffer = 8

// Change describes one settings update.
type Change struct {
	Old      settings.Settings
	New      settings.Settings
	Revision uint64
}

// Store holds the current settings. The zero value is not usable; use
// [New]. A Store is safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	current  settings.Settings
	revision uint64
	subs     map[uint64]chan Change
	nextSub  uint64
}

// New returns a store holding initial.
func New(initial settings.Settings) *Store {
	return &Store{current: initial, subs: make(map[uint64]chan Change)}
}

// Settings returns the current settings.
func (s *Store) Settings() settings.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Revision returns the number of successful updates so far.
func (s *Store) Revision() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision
}

// Update applies fn to the raw form of the current settings, normalizes
// the result and stores it. If fn or normalization fails, nothing changes.
//
// Subscribers are notified without blocking: a subscriber whose buffer is
// full misses the change but can always read the latest value from
// [Store.Settings].
func (s *Store) Update(fn func(*settings.RawSettings) error) (settings.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw := s.current.Raw()
	if err := fn(&raw); err != nil {
		return s.current, err
	}
	next, err := settings.Normalize(raw)
	if err != nil {
		return s.current, err
	}

	change := Change{Old: s.current, New: next, Revision: s.revision + 1}
	s.current = next
	s.revision++
	for _, ch := range s.subs {
		select {
		case ch <- change:
		default:
		}
	}
	return next, nil
}

// Replace stores next (normalized) and notifies subscribers.
func (s *Store) Replace(next settings.RawSettings) (settings.Settings, error) {
	return s.Update(func(raw *settings.RawSettings) error {
		*raw = next
		return nil
	})
}

// Subscribe registers for change notifications. The returned function
// unsubscribes and closes the channel; it is safe to call more than once.
func (s *Store) Subscribe() (<-chan Change, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	ch := make(chan Change, subscriberBuffer)
	s.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.subs, id)
			close(ch)
		})
	}
}
