package admission

import (
	"context"
	"errors"

	"fairpass/internal/group"
	"fairpass/internal/identity"
)

// ErrConflict is returned by a Store when a unique key is already taken, which means
// another writer got there first.
var ErrConflict = errors.New("admission store conflict")

// EventState is everything persisted for one event. Members are in leaf order.
type EventState struct {
	Members    []identity.Commitment
	Nullifiers []identity.Nullifier
}

// Store persists approvals and spent nullifiers. Every write must be atomic and
// enforce uniqueness of (event, commitment), (event, leaf index) and (event, nullifier).
type Store interface {
	LoadEvent(ctx context.Context, eventID string) (EventState, error)
	AppendMember(ctx context.Context, eventID string, leafIndex int, commitment identity.Commitment, root group.Root) error
	ConsumeNullifier(ctx context.Context, eventID string, nullifier identity.Nullifier, root group.Root) error
	DeleteEvent(ctx context.Context, eventID string) error
}
