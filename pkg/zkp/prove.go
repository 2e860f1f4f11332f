package zkp

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/frontend"
)

var ErrProofInvalid = errors.New("membership proof invalid")

// Prove produces a serialized Groth16 proof for the assignment.
func Prove(keys *Keys, a Assignment) ([]byte, error) {
	if len(a.Path) != keys.Depth {
		return nil, fmt.Errorf("path length %d does not match circuit depth %d", len(a.Path), keys.Depth)
	}
	assignment, err := a.circuit()
	if err != nil {
		return nil, err
	}

	fullWitness, err := frontend.NewWitness(assignment, ElipticalCurveID.ScalarField())
	if err != nil {
		return nil, fmt.Errorf("build witness: %w", err)
	}

	proof, err := groth16.Prove(keys.CCS, keys.ProvingKey, fullWitness)
	if err != nil {
		return nil, fmt.Errorf("prove membership: %w", err)
	}

	var buf bytes.Buffer
	if _, err := proof.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("encode proof: %w", err)
	}
	return buf.Bytes(), nil
}

// Verifier checks membership proofs against a server-held verifying key.
type Verifier struct {
	depth int
	vk    groth16.VerifyingKey
}

func NewVerifier(keys *Keys) *Verifier {
	return &Verifier{depth: keys.Depth, vk: keys.VerifyingKey}
}

// Verify never trusts a client-supplied key; the statement is rebuilt by the caller.
func (v *Verifier) Verify(statement Statement, proofBytes []byte) error {
	if len(proofBytes) == 0 {
		return fmt.Errorf("%w: empty proof", ErrProofInvalid)
	}

	proof := groth16.NewProof(ElipticalCurveID)
	if _, err := proof.ReadFrom(bytes.NewReader(proofBytes)); err != nil {
		return fmt.Errorf("%w: decode: %v", ErrProofInvalid, err)
	}

	assignment, err := statement.publicCircuit(v.depth)
	if err != nil {
		return err
	}
	publicWitness, err := frontend.NewWitness(assignment, ElipticalCurveID.ScalarField(), frontend.PublicOnly())
	if err != nil {
		return fmt.Errorf("build public witness: %w", err)
	}

	if err := groth16.Verify(proof, v.vk, publicWitness); err != nil {
		return fmt.Errorf("%w: %v", ErrProofInvalid, err)
	}
	return nil
}

func (v *Verifier) Depth() int {
	return v.depth
}

// ReadProvingKey decodes a proving key downloaded from the artifacts endpoint.
func ReadProvingKey(raw []byte) (groth16.ProvingKey, error) {
	pk := groth16.NewProvingKey(ElipticalCurveID)
	if _, err := pk.ReadFrom(bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("decode proving key: %w", err)
	}
	return pk, nil
}
