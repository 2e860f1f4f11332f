package admission

import (
	"context"
	"fmt"
	"sync"

	"fairpass/internal/group"
	"fairpass/internal/identity"
)

// MemoryStore keeps state in process. It is used for tests and for running without a database.
type MemoryStore struct {
	mu     sync.Mutex
	events map[string]*memoryEvent
}

type memoryEvent struct {
	members    []identity.Commitment
	commitSet  map[identity.Commitment]struct{}
	nullifiers []identity.Nullifier
	nullSet    map[identity.Nullifier]struct{}
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{events: make(map[string]*memoryEvent)}
}

func (s *MemoryStore) event(eventID string) *memoryEvent {
	e, ok := s.events[eventID]
	if !ok {
		e = &memoryEvent{
			commitSet: make(map[identity.Commitment]struct{}),
			nullSet:   make(map[identity.Nullifier]struct{}),
		}
		s.events[eventID] = e
	}
	return e
}

func (s *MemoryStore) LoadEvent(_ context.Context, eventID string) (EventState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.events[eventID]
	if !ok {
		return EventState{}, nil
	}
	return EventState{
		Members:    append([]identity.Commitment(nil), e.members...),
		Nullifiers: append([]identity.Nullifier(nil), e.nullifiers...),
	}, nil
}

func (s *MemoryStore) AppendMember(_ context.Context, eventID string, leafIndex int, commitment identity.Commitment, _ group.Root) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.event(eventID)
	if _, ok := e.commitSet[commitment]; ok {
		return fmt.Errorf("%w: commitment %s", ErrConflict, commitment)
	}
	if leafIndex != len(e.members) {
		return fmt.Errorf("%w: leaf %d taken", ErrConflict, leafIndex)
	}
	e.members = append(e.members, commitment)
	e.commitSet[commitment] = struct{}{}
	return nil
}

func (s *MemoryStore) ConsumeNullifier(_ context.Context, eventID string, nullifier identity.Nullifier, _ group.Root) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.event(eventID)
	if _, ok := e.nullSet[nullifier]; ok {
		return fmt.Errorf("%w: nullifier %s", ErrConflict, nullifier)
	}
	e.nullifiers = append(e.nullifiers, nullifier)
	e.nullSet[nullifier] = struct{}{}
	return nil
}

func (s *MemoryStore) DeleteEvent(_ context.Context, eventID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.events, eventID)
	return nil
}
