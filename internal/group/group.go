// Package group implements the per-event membership group: an append-only, ordered
// list of approved commitments summarised by the root of a fixed-depth Merkle tree.
package group

import (
	"errors"
	"fmt"

	"fairpass/internal/identity"
	"fairpass/pkg/zkp"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

var (
	ErrDuplicateCommitment = errors.New("duplicate commitment")
	ErrGroupFull           = errors.New("group is full")
	ErrInvalidIndex        = errors.New("invalid leaf index")
	ErrDepthMismatch       = errors.New("verifier depth does not match group depth")
)

const DefaultRootHistory = 32

// Root summarises the members of a group at one point in time.
type Root struct {
	zkp.FieldBytes
}

func ParseRoot(s string) (Root, error) {
	fb, err := zkp.ParseFieldBytes(s)
	if err != nil {
		return Root{}, fmt.Errorf("invalid root: %w", err)
	}
	return Root{fb}, nil
}

// ProofVerifier checks a zero-knowledge membership proof for a public statement.
type ProofVerifier interface {
	Verify(statement zkp.Statement, proof []byte) error
}

// MembershipProof is what an attendee presents at check-in. It names a group root
// and a nullifier but not the leaf it was produced from.
type MembershipProof struct {
	Root      Root
	Nullifier identity.Nullifier
	Proof     []byte
}

// Path is the authentication path of one leaf.
type Path struct {
	Index    int
	Siblings []fr.Element
	Bits     []bool
	Root     Root
}

// Verify reports whether commitment sits at the end of this path.
func (p Path) Verify(commitment identity.Commitment) bool {
	computed := rootFromPath(commitment.Element(), p.Siblings, p.Bits)
	return zkp.FieldBytesOf(computed) == p.Root.FieldBytes
}

// Group is not safe for concurrent use; callers serialise access per event.
type Group struct {
	eventID  string
	verifier ProofVerifier

	tree    *tree
	members []identity.Commitment
	index   map[identity.Commitment]int

	history     []Root
	historySize int
}

type Option func(*Group)

// WithRootHistory sets how many recent roots a proof may be bound to.
func WithRootHistory(n int) Option {
	return func(g *Group) {
		if n > 0 {
			g.historySize = n
		}
	}
}

func New(eventID string, depth int, verifier ProofVerifier, opts ...Option) (*Group, error) {
	if depth <= 0 || depth > zkp.MaxDepth {
		return nil, fmt.Errorf("tree depth must be in [1, %d], got %d", zkp.MaxDepth, depth)
	}
	if sized, ok := verifier.(interface{ Depth() int }); ok && sized.Depth() != depth {
		return nil, fmt.Errorf("%w: verifier %d, group %d", ErrDepthMismatch, sized.Depth(), depth)
	}

	g := &Group{
		eventID:     eventID,
		verifier:    verifier,
		tree:        newTree(depth),
		index:       make(map[identity.Commitment]int),
		historySize: DefaultRootHistory,
	}
	for _, opt := range opts {
		opt(g)
	}
	g.recordRoot()
	return g, nil
}

// Rebuild replays a stored member list. The resulting root depends on nothing else.
func Rebuild(eventID string, depth int, verifier ProofVerifier, members []identity.Commitment, opts ...Option) (*Group, error) {
	g, err := New(eventID, depth, verifier, opts...)
	if err != nil {
		return nil, err
	}
	for i, c := range members {
		if err := g.Add(c); err != nil {
			return nil, fmt.Errorf("replay member %d: %w", i, err)
		}
	}
	return g, nil
}

func (g *Group) EventID() string {
	return g.eventID
}

func (g *Group) Depth() int {
	return g.tree.depth
}

// Add appends commitment; duplicate detection compares the exact value.
func (g *Group) Add(commitment identity.Commitment) error {
	if _, ok := g.index[commitment]; ok {
		return ErrDuplicateCommitment
	}
	if g.tree.size() >= g.tree.capacity() {
		return ErrGroupFull
	}

	g.index[commitment] = len(g.members)
	g.members = append(g.members, commitment)
	g.tree.append(commitment.Element())
	g.recordRoot()
	return nil
}

// CanAdd runs the same checks as Add without mutating the group.
func (g *Group) CanAdd(commitment identity.Commitment) error {
	if _, ok := g.index[commitment]; ok {
		return ErrDuplicateCommitment
	}
	if g.tree.size() >= g.tree.capacity() {
		return ErrGroupFull
	}
	return nil
}

func (g *Group) Contains(commitment identity.Commitment) bool {
	_, ok := g.index[commitment]
	return ok
}

func (g *Group) IndexOf(commitment identity.Commitment) (int, bool) {
	i, ok := g.index[commitment]
	return i, ok
}

func (g *Group) Size() int {
	return len(g.members)
}

// Members returns a copy in insertion (leaf) order.
func (g *Group) Members() []identity.Commitment {
	out := make([]identity.Commitment, len(g.members))
	copy(out, g.members)
	return out
}

func (g *Group) Root() Root {
	return Root{zkp.FieldBytesOf(g.tree.root())}
}

// NextRoot is the root the group would have after adding commitment.
func (g *Group) NextRoot(commitment identity.Commitment) Root {
	return Root{zkp.FieldBytesOf(g.tree.rootWith(commitment.Element()))}
}

func (g *Group) IsKnownRoot(root Root) bool {
	for i := len(g.history) - 1; i >= 0; i-- {
		if g.history[i] == root {
			return true
		}
	}
	return false
}

func (g *Group) MerkleProof(index int) (Path, error) {
	if index < 0 || index >= len(g.members) {
		return Path{}, ErrInvalidIndex
	}
	siblings, bits := g.tree.path(index)
	return Path{Index: index, Siblings: siblings, Bits: bits, Root: g.Root()}, nil
}

// VerifyMembershipProof accepts a proof bound to a recent root of this group whose
// statement verifies for this event's external nullifier. The leaf stays hidden.
func (g *Group) VerifyMembershipProof(proof MembershipProof) bool {
	if g.verifier == nil || len(proof.Proof) == 0 {
		return false
	}
	if !g.IsKnownRoot(proof.Root) {
		return false
	}

	statement := zkp.Statement{
		Root:              proof.Root.Element(),
		Nullifier:         proof.Nullifier.Element(),
		ExternalNullifier: identity.ExternalNullifier(g.eventID),
	}
	return g.verifier.Verify(statement, proof.Proof) == nil
}

func (g *Group) recordRoot() {
	g.history = append(g.history, g.Root())
	if len(g.history) > g.historySize {
		g.history = g.history[len(g.history)-g.historySize:]
	}
}
