package zkp

import (
	"sync"
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDepth = 3

var (
	keysOnce sync.Once
	testKeys *Keys
	keysErr  error
)

func setupKeys(t *testing.T) *Keys {
	t.Helper()
	keysOnce.Do(func() {
		testKeys, keysErr = Setup(testDepth)
	})
	require.NoError(t, keysErr)
	return testKeys
}

// singleLeafAssignment places Hash(secret) at leaf 0 of an otherwise empty tree.
func singleLeafAssignment(secret, external fr.Element) Assignment {
	path := make([]fr.Element, testDepth)
	bits := make([]bool, testDepth)

	var zero fr.Element
	node := Hash(secret)
	for i := 0; i < testDepth; i++ {
		path[i] = zero
		node = Hash(node, zero)
		zero = Hash(zero, zero)
	}

	return Assignment{
		Statement: Statement{
			Root:              node,
			Nullifier:         Hash(secret, external),
			ExternalNullifier: external,
		},
		Secret:   secret,
		Path:     path,
		PathBits: bits,
	}
}

func TestMembershipCircuitIsSolved(t *testing.T) {
	secret := fr.NewElement(42)
	external := HashBytesToField("test", []byte("event-1"))

	cases := []struct {
		name   string
		mutate func(a *Assignment)
		solved bool
	}{
		{"valid witness", func(a *Assignment) {}, true},
		{"wrong secret", func(a *Assignment) { a.Secret = fr.NewElement(43) }, false},
		{"wrong root", func(a *Assignment) { a.Root = fr.NewElement(1) }, false},
		{"wrong nullifier", func(a *Assignment) { a.Nullifier = fr.NewElement(7) }, false},
		{"other event", func(a *Assignment) { a.ExternalNullifier = fr.NewElement(9) }, false},
		{"flipped path bit", func(a *Assignment) { a.PathBits[1] = true }, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a := singleLeafAssignment(secret, external)
			tc.mutate(&a)

			witness, err := a.circuit()
			require.NoError(t, err)
			circuit, err := NewMembershipCircuit(testDepth)
			require.NoError(t, err)

			err = test.IsSolved(circuit, witness, ElipticalCurveID.ScalarField())
			if tc.solved {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestProveAndVerify(t *testing.T) {
	keys := setupKeys(t)
	verifier := NewVerifier(keys)

	a := singleLeafAssignment(fr.NewElement(1234), HashBytesToField("test", []byte("event-1")))
	proof, err := Prove(keys, a)
	require.NoError(t, err)
	require.NotEmpty(t, proof)

	assert.NoError(t, verifier.Verify(a.Statement, proof))

	tampered := a.Statement
	tampered.Nullifier = fr.NewElement(5)
	assert.ErrorIs(t, verifier.Verify(tampered, proof), ErrProofInvalid)

	assert.ErrorIs(t, verifier.Verify(a.Statement, nil), ErrProofInvalid)
	assert.ErrorIs(t, verifier.Verify(a.Statement, []byte{1, 2, 3}), ErrProofInvalid)
}

func TestProveRejectsWrongDepth(t *testing.T) {
	keys := setupKeys(t)

	a := singleLeafAssignment(fr.NewElement(1), fr.NewElement(2))
	a.Path = a.Path[:1]
	a.PathBits = a.PathBits[:1]

	_, err := Prove(keys, a)
	assert.Error(t, err)
}

func TestLoadOrSetupPersistsKeys(t *testing.T) {
	dir := t.TempDir()

	first, created, err := LoadOrSetup(dir, 2)
	require.NoError(t, err)
	assert.True(t, created)

	second, created, err := LoadOrSetup(dir, 2)
	require.NoError(t, err)
	assert.False(t, created)

	a, err := first.VerifyingKeyBytes()
	require.NoError(t, err)
	b, err := second.VerifyingKeyBytes()
	require.NoError(t, err)
	assert.Equal(t, Digest(a), Digest(b))

	pk, err := first.ProvingKeyBytes()
	require.NoError(t, err)
	_, err = ReadProvingKey(pk)
	assert.NoError(t, err)
}

func TestNewMembershipCircuitDepthBounds(t *testing.T) {
	_, err := NewMembershipCircuit(0)
	assert.Error(t, err)
	_, err = NewMembershipCircuit(MaxDepth + 1)
	assert.Error(t, err)
	_, err = NewMembershipCircuit(MaxDepth)
	assert.NoError(t, err)
}
