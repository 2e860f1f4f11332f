package group

import (
	"errors"

	"fairpass/internal/identity"
	"fairpass/pkg/zkp"
)

var ErrNotMember = errors.New("identity is not a member of the group")

// ProveMembership builds a check-in proof for id against the group's current root.
// It runs on the attendee side, over a group rebuilt from the public member list.
func (g *Group) ProveMembership(keys *zkp.Keys, id identity.Identity) (MembershipProof, error) {
	commitment := id.Commitment()
	index, ok := g.IndexOf(commitment)
	if !ok {
		return MembershipProof{}, ErrNotMember
	}

	path, err := g.MerkleProof(index)
	if err != nil {
		return MembershipProof{}, err
	}

	n := id.Nullifier(g.eventID)
	proof, err := zkp.Prove(keys, zkp.Assignment{
		Statement: zkp.Statement{
			Root:              path.Root.Element(),
			Nullifier:         n.Element(),
			ExternalNullifier: identity.ExternalNullifier(g.eventID),
		},
		Secret:   id.Secret(),
		Path:     path.Siblings,
		PathBits: path.Bits,
	})
	if err != nil {
		return MembershipProof{}, err
	}

	return MembershipProof{Root: path.Root, Nullifier: n, Proof: proof}, nil
}
