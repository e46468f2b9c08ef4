// Package store owns the guest list and mirrors every change to a storage
// backend.
package store

import (
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"wedding-guests/internal/models"
	"wedding-guests/internal/storage"
)

// Listener receives the guest list after every change. version grows with
// each change; listeners may be called out of order and should ignore a
// version older than one already seen.
type Listener func(version uint64, guests []models.Guest)

type Store struct {
	mu        sync.RWMutex
	guests    []models.Guest
	backend   storage.Backend
	log       zerolog.Logger
	listeners map[int]Listener
	nextID    int
	version   uint64
	newID     func() string
}

// Open creates a store hydrated from backend. A missing or unreadable
// snapshot leaves the store empty.
func Open(backend storage.Backend, log zerolog.Logger) *Store {
	s := &Store{
		guests:    make([]models.Guest, 0),
		backend:   backend,
		log:       log.With().Str("component", "store").Logger(),
		listeners: make(map[int]Listener),
		newID:     uuid.NewString,
	}

	guests, err := backend.Load()
	switch {
	case err == nil:
		s.guests = guests
		s.log.Debug().Int("guests", len(guests)).Msg("Loaded guest list")
	case errors.Is(err, storage.ErrNoSnapshot):
		s.log.Debug().Msg("No stored guest list, starting empty")
	default:
		s.log.Warn().Err(err).Msg("Discarding stored guest list")
	}

	return s
}

// Add appends a new guest built from input and returns it
func (s *Store) Add(input models.NewGuest) models.Guest {
	guest := models.Guest{
		ID:          s.newID(),
		FullName:    input.FullName(),
		Description: input.Description,
		Side:        input.Side,
		Relation:    input.Relation,
	}.ValidUTF8()

	s.mutate(func(guests []models.Guest) ([]models.Guest, bool) {
		return append(guests, guest), true
	})
	return guest
}

// UpdateField replaces one field of the guest with the given id. Unknown ids
// are ignored.
func (s *Store) UpdateField(id string, edit models.FieldEdit) {
	s.mutate(func(guests []models.Guest) ([]models.Guest, bool) {
		for i, g := range guests {
			if g.ID == id {
				next := make([]models.Guest, len(guests))
				copy(next, guests)
				next[i] = g.With(edit).ValidUTF8()
				return next, true
			}
		}
		return guests, false
	})
}

// DeleteMany removes every guest whose id is listed
func (s *Store) DeleteMany(ids ...string) {
	if len(ids) == 0 {
		return
	}
	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}

	s.mutate(func(guests []models.Guest) ([]models.Guest, bool) {
		next := make([]models.Guest, 0, len(guests))
		for _, g := range guests {
			if _, ok := drop[g.ID]; !ok {
				next = append(next, g)
			}
		}
		return next, len(next) != len(guests)
	})
}

// Clear removes all guests
func (s *Store) Clear() {
	s.mutate(func([]models.Guest) ([]models.Guest, bool) {
		return make([]models.Guest, 0), true
	})
}

// Guests returns a copy of the current list
func (s *Store) Guests() []models.Guest {
	s.mu.RLock()
	defer s.mu.RUnlock()

	guests := make([]models.Guest, len(s.guests))
	copy(guests, s.guests)
	return guests
}

// Snapshot returns a copy of the current list with its version
func (s *Store) Snapshot() (uint64, []models.Guest) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	guests := make([]models.Guest, len(s.guests))
	copy(guests, s.guests)
	return s.version, guests
}

// Len returns the number of guests
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.guests)
}

// Subscribe registers l for change notifications and returns a function that
// removes it.
func (s *Store) Subscribe(l Listener) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// mutate applies fn under the lock, persists the result and notifies
// listeners outside the lock. fn reports whether anything changed; it must not
// modify the slice it is given.
func (s *Store) mutate(fn func([]models.Guest) ([]models.Guest, bool)) {
	s.mu.Lock()
	next, changed := fn(s.guests)
	if !changed {
		s.mu.Unlock()
		return
	}
	s.guests = next
	s.version++
	version := s.version

	if err := s.backend.Save(next); err != nil {
		s.log.Error().Err(err).Msg("Failed to save guest list")
	}

	snapshot := make([]models.Guest, len(next))
	copy(snapshot, next)
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()

	for _, l := range listeners {
		l(version, snapshot)
	}
}
