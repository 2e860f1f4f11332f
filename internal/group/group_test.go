package group

import (
	"errors"
	"sync"
	"testing"

	"fairpass/internal/identity"
	"fairpass/pkg/zkp"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDepth = 3

type recordingVerifier struct {
	depth  int
	accept bool
	seen   []zkp.Statement
}

func (v *recordingVerifier) Verify(s zkp.Statement, _ []byte) error {
	v.seen = append(v.seen, s)
	if !v.accept {
		return zkp.ErrProofInvalid
	}
	return nil
}

func (v *recordingVerifier) Depth() int {
	return v.depth
}

func newIdentities(t *testing.T, n int) []identity.Identity {
	t.Helper()
	out := make([]identity.Identity, n)
	for i := range out {
		id, err := identity.Generate()
		require.NoError(t, err)
		out[i] = id
	}
	return out
}

func TestAddAndMembers(t *testing.T) {
	g, err := New("event-1", testDepth, nil)
	require.NoError(t, err)

	ids := newIdentities(t, 3)
	emptyRoot := g.Root()
	for i, id := range ids {
		require.NoError(t, g.Add(id.Commitment()))
		index, ok := g.IndexOf(id.Commitment())
		assert.True(t, ok)
		assert.Equal(t, i, index)
	}

	assert.Equal(t, 3, g.Size())
	assert.NotEqual(t, emptyRoot, g.Root())
	members := g.Members()
	require.Len(t, members, 3)
	assert.Equal(t, ids[1].Commitment(), members[1])

	members[0] = identity.Commitment{}
	assert.Equal(t, ids[0].Commitment(), g.Members()[0])
}

func TestAddRejectsDuplicate(t *testing.T) {
	g, err := New("event-1", testDepth, nil)
	require.NoError(t, err)

	id := newIdentities(t, 1)[0]
	require.NoError(t, g.Add(id.Commitment()))
	root := g.Root()

	assert.ErrorIs(t, g.Add(id.Commitment()), ErrDuplicateCommitment)
	assert.ErrorIs(t, g.CanAdd(id.Commitment()), ErrDuplicateCommitment)
	assert.Equal(t, root, g.Root())
	assert.Equal(t, 1, g.Size())
}

func TestAddRejectsWhenFull(t *testing.T) {
	g, err := New("event-1", 2, nil)
	require.NoError(t, err)

	for _, id := range newIdentities(t, 4) {
		require.NoError(t, g.Add(id.Commitment()))
	}
	extra := newIdentities(t, 1)[0]
	assert.ErrorIs(t, g.Add(extra.Commitment()), ErrGroupFull)
	assert.ErrorIs(t, g.CanAdd(extra.Commitment()), ErrGroupFull)
}

func TestNextRootMatchesAdd(t *testing.T) {
	g, err := New("event-1", testDepth, nil)
	require.NoError(t, err)

	for _, id := range newIdentities(t, 5) {
		next := g.NextRoot(id.Commitment())
		require.NoError(t, g.Add(id.Commitment()))
		assert.Equal(t, next, g.Root())
	}
}

func TestRebuildIsDeterministic(t *testing.T) {
	ids := newIdentities(t, 5)
	members := make([]identity.Commitment, len(ids))
	for i, id := range ids {
		members[i] = id.Commitment()
	}

	a, err := Rebuild("event-1", testDepth, nil, members)
	require.NoError(t, err)
	b, err := Rebuild("event-1", testDepth, nil, members)
	require.NoError(t, err)
	assert.Equal(t, a.Root(), b.Root())

	members[0], members[1] = members[1], members[0]
	swapped, err := Rebuild("event-1", testDepth, nil, members)
	require.NoError(t, err)
	assert.NotEqual(t, a.Root(), swapped.Root())

	_, err = Rebuild("event-1", testDepth, nil, append(members, members[0]))
	assert.ErrorIs(t, err, ErrDuplicateCommitment)
}

func TestMerkleProofVerifies(t *testing.T) {
	g, err := New("event-1", testDepth, nil)
	require.NoError(t, err)

	ids := newIdentities(t, 6)
	for _, id := range ids {
		require.NoError(t, g.Add(id.Commitment()))
	}

	for i, id := range ids {
		path, err := g.MerkleProof(i)
		require.NoError(t, err)
		assert.True(t, path.Verify(id.Commitment()), "leaf %d", i)
		assert.Equal(t, g.Root(), path.Root)
	}

	path, err := g.MerkleProof(0)
	require.NoError(t, err)
	assert.False(t, path.Verify(ids[1].Commitment()))

	_, err = g.MerkleProof(6)
	assert.ErrorIs(t, err, ErrInvalidIndex)
	_, err = g.MerkleProof(-1)
	assert.ErrorIs(t, err, ErrInvalidIndex)
}

func TestRootHistoryWindow(t *testing.T) {
	g, err := New("event-1", testDepth, nil, WithRootHistory(2))
	require.NoError(t, err)

	ids := newIdentities(t, 3)
	require.NoError(t, g.Add(ids[0].Commitment()))
	old := g.Root()
	require.NoError(t, g.Add(ids[1].Commitment()))
	assert.True(t, g.IsKnownRoot(old))

	require.NoError(t, g.Add(ids[2].Commitment()))
	assert.False(t, g.IsKnownRoot(old))
	assert.True(t, g.IsKnownRoot(g.Root()))
}

func TestNewRejectsDepthMismatch(t *testing.T) {
	_, err := New("event-1", testDepth, &recordingVerifier{depth: testDepth + 1})
	assert.ErrorIs(t, err, ErrDepthMismatch)

	_, err = New("event-1", 0, nil)
	assert.Error(t, err)
}

func TestVerifyMembershipProofBuildsStatement(t *testing.T) {
	verifier := &recordingVerifier{depth: testDepth, accept: true}
	g, err := New("event-1", testDepth, verifier)
	require.NoError(t, err)

	id := newIdentities(t, 1)[0]
	require.NoError(t, g.Add(id.Commitment()))

	proof := MembershipProof{Root: g.Root(), Nullifier: id.Nullifier("event-1"), Proof: []byte{1}}
	assert.True(t, g.VerifyMembershipProof(proof))
	require.Len(t, verifier.seen, 1)
	assert.Equal(t, identity.ExternalNullifier("event-1"), verifier.seen[0].ExternalNullifier)
	assert.Equal(t, g.Root().Element(), verifier.seen[0].Root)

	cases := []struct {
		name  string
		proof MembershipProof
	}{
		{"unknown root", MembershipProof{Root: Root{zkp.FieldBytes{1}}, Nullifier: proof.Nullifier, Proof: []byte{1}}},
		{"empty proof", MembershipProof{Root: g.Root(), Nullifier: proof.Nullifier}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.False(t, g.VerifyMembershipProof(tc.proof))
		})
	}
	assert.Len(t, verifier.seen, 1)

	verifier.accept = false
	assert.False(t, g.VerifyMembershipProof(proof))
}

var (
	keysOnce sync.Once
	testKeys *zkp.Keys
	keysErr  error
)

func setupKeys(t *testing.T) *zkp.Keys {
	t.Helper()
	keysOnce.Do(func() {
		testKeys, keysErr = zkp.Setup(testDepth)
	})
	require.NoError(t, keysErr)
	return testKeys
}

func TestProveMembershipEndToEnd(t *testing.T) {
	keys := setupKeys(t)
	verifier := zkp.NewVerifier(keys)

	server, err := New("event-1", testDepth, verifier)
	require.NoError(t, err)
	ids := newIdentities(t, 3)
	for _, id := range ids {
		require.NoError(t, server.Add(id.Commitment()))
	}

	// the attendee rebuilds the tree from the public member list
	local, err := Rebuild("event-1", testDepth, nil, server.Members())
	require.NoError(t, err)

	proof, err := local.ProveMembership(keys, ids[1])
	require.NoError(t, err)
	assert.True(t, server.VerifyMembershipProof(proof))

	other, err := New("event-2", testDepth, verifier)
	require.NoError(t, err)
	for _, c := range server.Members() {
		require.NoError(t, other.Add(c))
	}
	assert.False(t, other.VerifyMembershipProof(proof))

	forged := proof
	forged.Nullifier = ids[0].Nullifier("event-1")
	assert.False(t, server.VerifyMembershipProof(forged))

	outsider := newIdentities(t, 1)[0]
	_, err = local.ProveMembership(keys, outsider)
	assert.True(t, errors.Is(err, ErrNotMember))
}
