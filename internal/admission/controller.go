// Package admission orchestrates approvals and check-ins for events. It owns one
// membership group and one nullifier registry per event and keeps them in step with a Store.
package admission

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"fairpass/internal/group"
	"fairpass/internal/identity"
	"fairpass/internal/nullifier"
)

const (
	DefaultDepth = 16

	maxEventIDLength = 128
	maxApproveTries  = 2
)

// CheckInAttempt is what an attendee submits at the door.
type CheckInAttempt struct {
	Proof     group.MembershipProof
	Nullifier identity.Nullifier
}

// GroupView is a consistent snapshot of one event's group.
type GroupView struct {
	EventID string
	Depth   int
	Root    group.Root
	Members []identity.Commitment
}

// State is the admission state of one identity for one event.
type State int

const (
	StateUnknown State = iota
	StateApproved
	StateCheckedIn
)

func (s State) String() string {
	switch s {
	case StateApproved:
		return "approved"
	case StateCheckedIn:
		return "checked_in"
	default:
		return "unknown"
	}
}

type event struct {
	id string

	// mu guards group and deleted. Approvals hold it exclusively, verification shares it.
	mu      sync.RWMutex
	group   *group.Group
	deleted bool

	// consumeMu serialises the persist-then-record step of check-in.
	consumeMu  sync.Mutex
	nullifiers *nullifier.Registry
}

type Controller struct {
	store       Store
	verifier    group.ProofVerifier
	depth       int
	rootHistory int

	mu     sync.Mutex
	events map[string]*event
}

type Option func(*Controller)

func WithDepth(depth int) Option {
	return func(c *Controller) {
		if depth > 0 {
			c.depth = depth
		}
	}
}

func WithRootHistory(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.rootHistory = n
		}
	}
}

func NewController(store Store, verifier group.ProofVerifier, opts ...Option) (*Controller, error) {
	if store == nil {
		return nil, errors.New("admission store is required")
	}
	if verifier == nil {
		return nil, errors.New("proof verifier is required")
	}

	c := &Controller{
		store:       store,
		verifier:    verifier,
		depth:       DefaultDepth,
		rootHistory: group.DefaultRootHistory,
		events:      make(map[string]*event),
	}
	for _, opt := range opts {
		opt(c)
	}

	// fail fast on a depth the verifier cannot serve
	if _, err := group.New("", c.depth, c.verifier); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Controller) Depth() int {
	return c.depth
}

func ValidateEventID(eventID string) error {
	if strings.TrimSpace(eventID) == "" {
		return fmt.Errorf("%w: empty", ErrInvalidEvent)
	}
	if len(eventID) > maxEventIDLength {
		return fmt.Errorf("%w: longer than %d bytes", ErrInvalidEvent, maxEventIDLength)
	}
	return nil
}

// Approve adds commitment to the event's group. The event is created on first approval.
func (c *Controller) Approve(ctx context.Context, eventID string, commitment identity.Commitment) error {
	if err := ValidateEventID(eventID); err != nil {
		return err
	}
	if commitment.IsZero() {
		return identity.ErrInvalidCommitment
	}

	return c.withEvent(ctx, eventID, true, func(e *event) error {
		for attempt := 0; ; attempt++ {
			if err := e.group.CanAdd(commitment); err != nil {
				return err
			}

			leaf := e.group.Size()
			next := e.group.NextRoot(commitment)
			appendErr := c.store.AppendMember(ctx, eventID, leaf, commitment, next)
			if appendErr == nil {
				return e.group.Add(commitment)
			}
			if !errors.Is(appendErr, ErrConflict) {
				return storageError(appendErr)
			}

			// another writer advanced the event; catch up and re-check
			if err := c.load(ctx, e); err != nil {
				return err
			}
			if attempt+1 >= maxApproveTries {
				if err := e.group.CanAdd(commitment); err != nil {
					return err
				}
				return storageError(appendErr)
			}
		}
	})
}

// CheckIn admits the holder of a valid membership proof exactly once per event.
// The proof is verified before the nullifier is consumed, so a rejected attempt spends nothing.
func (c *Controller) CheckIn(ctx context.Context, eventID string, attempt CheckInAttempt) error {
	if err := ValidateEventID(eventID); err != nil {
		return err
	}

	return c.withEvent(ctx, eventID, false, func(e *event) error {
		// a spent nullifier is final whatever proof comes with it
		if e.nullifiers.IsUsed(attempt.Nullifier) {
			return fmt.Errorf("%w: %w", ErrAlreadyCheckedIn, nullifier.ErrAlreadyUsed)
		}
		if attempt.Nullifier != attempt.Proof.Nullifier {
			return fmt.Errorf("%w: nullifier does not match proof", ErrNotApproved)
		}
		if !e.group.VerifyMembershipProof(attempt.Proof) {
			return ErrNotApproved
		}

		e.consumeMu.Lock()
		defer e.consumeMu.Unlock()

		n := attempt.Nullifier
		if e.nullifiers.IsUsed(n) {
			return fmt.Errorf("%w: %w", ErrAlreadyCheckedIn, nullifier.ErrAlreadyUsed)
		}

		if err := c.store.ConsumeNullifier(ctx, eventID, n, attempt.Proof.Root); err != nil {
			if errors.Is(err, ErrConflict) {
				// spent through another process; remember it locally too
				_ = e.nullifiers.TryConsume(n)
				return fmt.Errorf("%w: %w", ErrAlreadyCheckedIn, nullifier.ErrAlreadyUsed)
			}
			return storageError(err)
		}

		if err := e.nullifiers.TryConsume(n); err != nil {
			return fmt.Errorf("%w: %w", ErrAlreadyCheckedIn, err)
		}
		return nil
	})
}

// Members returns the event's group. An event nobody was approved for is empty.
func (c *Controller) Members(ctx context.Context, eventID string) (GroupView, error) {
	if err := ValidateEventID(eventID); err != nil {
		return GroupView{}, err
	}

	var view GroupView
	err := c.withEvent(ctx, eventID, false, func(e *event) error {
		view = GroupView{
			EventID: eventID,
			Depth:   e.group.Depth(),
			Root:    e.group.Root(),
			Members: e.group.Members(),
		}
		return nil
	})
	return view, err
}

func (c *Controller) IsCheckedIn(ctx context.Context, eventID string, n identity.Nullifier) (bool, error) {
	if err := ValidateEventID(eventID); err != nil {
		return false, err
	}

	var used bool
	err := c.withEvent(ctx, eventID, false, func(e *event) error {
		used = e.nullifiers.IsUsed(n)
		return nil
	})
	return used, err
}

// Status reports where an identity stands for an event. Only the holder of the
// identity knows both values, so this is never exposed to organizers.
func (c *Controller) Status(ctx context.Context, eventID string, commitment identity.Commitment, n identity.Nullifier) (State, error) {
	if err := ValidateEventID(eventID); err != nil {
		return StateUnknown, err
	}

	state := StateUnknown
	err := c.withEvent(ctx, eventID, false, func(e *event) error {
		if !e.group.Contains(commitment) {
			return nil
		}
		state = StateApproved
		if e.nullifiers.IsUsed(n) {
			state = StateCheckedIn
		}
		return nil
	})
	return state, err
}

// DeleteEvent drops the event's group and spent nullifiers.
func (c *Controller) DeleteEvent(ctx context.Context, eventID string) error {
	if err := ValidateEventID(eventID); err != nil {
		return err
	}

	return c.withEvent(ctx, eventID, true, func(e *event) error {
		e.consumeMu.Lock()
		defer e.consumeMu.Unlock()

		if err := c.store.DeleteEvent(ctx, eventID); err != nil {
			return storageError(err)
		}

		e.deleted = true
		e.group = nil
		e.nullifiers = nil

		c.mu.Lock()
		if c.events[eventID] == e {
			delete(c.events, eventID)
		}
		c.mu.Unlock()
		return nil
	})
}

// withEvent runs fn with the event loaded and locked, exclusively when write is set.
func (c *Controller) withEvent(ctx context.Context, eventID string, write bool, fn func(*event) error) error {
	for {
		e := c.entry(eventID)

		e.mu.Lock()
		if e.deleted {
			e.mu.Unlock()
			continue
		}
		if e.group == nil {
			if err := c.load(ctx, e); err != nil {
				e.mu.Unlock()
				return err
			}
		}
		if write {
			defer e.mu.Unlock()
			return fn(e)
		}
		e.mu.Unlock()

		e.mu.RLock()
		if e.deleted {
			e.mu.RUnlock()
			continue
		}
		err := fn(e)
		e.mu.RUnlock()
		return err
	}
}

func (c *Controller) entry(eventID string) *event {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.events[eventID]
	if !ok {
		e = &event{id: eventID}
		c.events[eventID] = e
	}
	return e
}

// load replaces the event's in-memory state with what the store holds. Callers hold e.mu.
func (c *Controller) load(ctx context.Context, e *event) error {
	state, err := c.store.LoadEvent(ctx, e.id)
	if err != nil {
		return storageError(err)
	}

	g, err := group.Rebuild(e.id, c.depth, c.verifier, state.Members, group.WithRootHistory(c.rootHistory))
	if err != nil {
		return fmt.Errorf("rebuild event %q: %w", e.id, err)
	}

	e.group = g
	e.nullifiers = nullifier.NewRegistry(e.id, state.Nullifiers...)
	return nil
}

func storageError(err error) error {
	if errors.Is(err, ErrStorage) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrStorage, err)
}
