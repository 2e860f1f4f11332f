package identity

import (
	"errors"
	"fmt"

	"fairpass/pkg/zkp"
)

var ErrInvalidCommitment = errors.New("invalid commitment")

// Commitment is the public, one-way image of an identity secret.
type Commitment struct {
	zkp.FieldBytes
}

// Nullifier is the one-time value an identity reveals when it checks in to an event.
type Nullifier struct {
	zkp.FieldBytes
}

// ParseCommitment rejects non-canonical and zero encodings; zero is the empty-leaf value.
func ParseCommitment(s string) (Commitment, error) {
	fb, err := zkp.ParseFieldBytes(s)
	if err != nil {
		return Commitment{}, fmt.Errorf("%w: %v", ErrInvalidCommitment, err)
	}
	if fb.IsZero() {
		return Commitment{}, fmt.Errorf("%w: zero value", ErrInvalidCommitment)
	}
	return Commitment{fb}, nil
}

func ParseNullifier(s string) (Nullifier, error) {
	fb, err := zkp.ParseFieldBytes(s)
	if err != nil {
		return Nullifier{}, fmt.Errorf("invalid nullifier: %w", err)
	}
	return Nullifier{fb}, nil
}
