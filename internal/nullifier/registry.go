// Package nullifier records which one-time check-in rights of an event have been spent.
package nullifier

import (
	"errors"
	"sync"

	"fairpass/internal/identity"
)

var ErrAlreadyUsed = errors.New("nullifier already used")

// Registry is an insert-only set. Entries are never removed.
type Registry struct {
	eventID string

	mu   sync.Mutex
	used map[identity.Nullifier]struct{}
}

func NewRegistry(eventID string, used ...identity.Nullifier) *Registry {
	r := &Registry{
		eventID: eventID,
		used:    make(map[identity.Nullifier]struct{}, len(used)),
	}
	for _, n := range used {
		r.used[n] = struct{}{}
	}
	return r
}

func (r *Registry) EventID() string {
	return r.eventID
}

// TryConsume is the single atomic test-and-set that gates check-in.
func (r *Registry) TryConsume(n identity.Nullifier) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.used[n]; ok {
		return ErrAlreadyUsed
	}
	r.used[n] = struct{}{}
	return nil
}

func (r *Registry) IsUsed(n identity.Nullifier) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.used[n]
	return ok
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.used)
}
