package zkp

import (
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/hash/mimc"
)

// MembershipCircuit proves knowledge of a secret whose commitment is a leaf of the
// tree rooted at Root, and that Nullifier was derived from that secret and ExternalNullifier.
type MembershipCircuit struct {
	Root              frontend.Variable `gnark:",public"`
	Nullifier         frontend.Variable `gnark:",public"`
	ExternalNullifier frontend.Variable `gnark:",public"`

	Secret   frontend.Variable   `gnark:",secret"`
	Path     []frontend.Variable `gnark:",secret"`
	PathBits []frontend.Variable `gnark:",secret"`
}

func NewMembershipCircuit(depth int) (*MembershipCircuit, error) {
	if depth <= 0 || depth > MaxDepth {
		return nil, fmt.Errorf("tree depth must be in [1, %d], got %d", MaxDepth, depth)
	}
	return &MembershipCircuit{
		Path:     make([]frontend.Variable, depth),
		PathBits: make([]frontend.Variable, depth),
	}, nil
}

// MaxDepth bounds the tree so leaf indices fit comfortably in an int.
const MaxDepth = 32

// Define implements the frontend.Circuit interface
func (c *MembershipCircuit) Define(api frontend.API) error {
	if len(c.Path) != len(c.PathBits) {
		return fmt.Errorf("path has %d siblings but %d direction bits", len(c.Path), len(c.PathBits))
	}

	h, err := mimc.NewMiMC(api)
	if err != nil {
		return err
	}

	node := hashVariables(&h, c.Secret)
	for i := range c.Path {
		api.AssertIsBoolean(c.PathBits[i])
		left := api.Select(c.PathBits[i], c.Path[i], node)
		right := api.Select(c.PathBits[i], node, c.Path[i])
		node = hashVariables(&h, left, right)
	}
	api.AssertIsEqual(node, c.Root)

	nullifier := hashVariables(&h, c.Secret, c.ExternalNullifier)
	api.AssertIsEqual(nullifier, c.Nullifier)

	return nil
}

func hashVariables(h *mimc.MiMC, vars ...frontend.Variable) frontend.Variable {
	h.Reset()
	h.Write(vars...)
	return h.Sum()
}

// Statement is the public part of a membership proof.
type Statement struct {
	Root              fr.Element
	Nullifier         fr.Element
	ExternalNullifier fr.Element
}

// Assignment is everything a prover needs to fill the circuit.
type Assignment struct {
	Statement
	Secret   fr.Element
	Path     []fr.Element
	PathBits []bool
}

func (a Assignment) circuit() (*MembershipCircuit, error) {
	if len(a.Path) != len(a.PathBits) {
		return nil, fmt.Errorf("path has %d siblings but %d direction bits", len(a.Path), len(a.PathBits))
	}
	c, err := NewMembershipCircuit(len(a.Path))
	if err != nil {
		return nil, err
	}

	c.Root = toBigInt(a.Root)
	c.Nullifier = toBigInt(a.Nullifier)
	c.ExternalNullifier = toBigInt(a.ExternalNullifier)
	c.Secret = toBigInt(a.Secret)
	for i := range a.Path {
		c.Path[i] = toBigInt(a.Path[i])
		if a.PathBits[i] {
			c.PathBits[i] = 1
		} else {
			c.PathBits[i] = 0
		}
	}
	return c, nil
}

func (s Statement) publicCircuit(depth int) (*MembershipCircuit, error) {
	c, err := NewMembershipCircuit(depth)
	if err != nil {
		return nil, err
	}

	c.Root = toBigInt(s.Root)
	c.Nullifier = toBigInt(s.Nullifier)
	c.ExternalNullifier = toBigInt(s.ExternalNullifier)
	c.Secret = 0
	for i := 0; i < depth; i++ {
		c.Path[i] = 0
		c.PathBits[i] = 0
	}
	return c, nil
}
