package zkp

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"
)

const (
	constraintSystemFile = "membership.ccs"
	provingKeyFile       = "membership.pk"
	verifyingKeyFile     = "membership.vk"
)

// Keys bundles the compiled membership circuit with its Groth16 keys.
type Keys struct {
	Depth        int
	CCS          constraint.ConstraintSystem
	ProvingKey   groth16.ProvingKey
	VerifyingKey groth16.VerifyingKey
}

// Compile builds the R1CS of the membership circuit for the given tree depth.
func Compile(depth int) (constraint.ConstraintSystem, error) {
	circuit, err := NewMembershipCircuit(depth)
	if err != nil {
		return nil, err
	}

	ccs, err := frontend.Compile(
		ElipticalCurveID.ScalarField(),
		r1cs.NewBuilder,
		circuit,
	)
	if err != nil {
		return nil, fmt.Errorf("compile membership circuit: %w", err)
	}
	return ccs, nil
}

// Setup compiles the circuit and runs a fresh Groth16 setup.
func Setup(depth int) (*Keys, error) {
	ccs, err := Compile(depth)
	if err != nil {
		return nil, err
	}

	pk, vk, err := groth16.Setup(ccs)
	if err != nil {
		return nil, fmt.Errorf("groth16 setup: %w", err)
	}

	return &Keys{Depth: depth, CCS: ccs, ProvingKey: pk, VerifyingKey: vk}, nil
}

// LoadOrSetup reads keys for depth from dir, running and persisting a setup when none exist.
func LoadOrSetup(dir string, depth int) (*Keys, bool, error) {
	keys, err := LoadKeys(dir, depth)
	if err == nil {
		return keys, false, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, false, err
	}

	keys, err = Setup(depth)
	if err != nil {
		return nil, false, err
	}
	if err := SaveKeys(dir, keys); err != nil {
		return nil, false, err
	}
	return keys, true, nil
}

func keysDir(dir string, depth int) string {
	return filepath.Join(dir, "depth-"+strconv.Itoa(depth))
}

func SaveKeys(dir string, keys *Keys) error {
	target := keysDir(dir, keys.Depth)
	if err := os.MkdirAll(target, 0o755); err != nil {
		return fmt.Errorf("create keys dir: %w", err)
	}

	files := []struct {
		name string
		obj  io.WriterTo
	}{
		{constraintSystemFile, keys.CCS},
		{provingKeyFile, keys.ProvingKey},
		{verifyingKeyFile, keys.VerifyingKey},
	}
	for _, f := range files {
		var buf bytes.Buffer
		if _, err := f.obj.WriteTo(&buf); err != nil {
			return fmt.Errorf("encode %s: %w", f.name, err)
		}
		if err := os.WriteFile(filepath.Join(target, f.name), buf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", f.name, err)
		}
	}
	return nil
}

func LoadKeys(dir string, depth int) (*Keys, error) {
	source := keysDir(dir, depth)

	ccs := groth16.NewCS(ElipticalCurveID)
	pk := groth16.NewProvingKey(ElipticalCurveID)
	vk := groth16.NewVerifyingKey(ElipticalCurveID)

	files := []struct {
		name string
		obj  io.ReaderFrom
	}{
		{constraintSystemFile, ccs},
		{provingKeyFile, pk},
		{verifyingKeyFile, vk},
	}
	for _, f := range files {
		raw, err := os.ReadFile(filepath.Join(source, f.name))
		if err != nil {
			return nil, err
		}
		if _, err := f.obj.ReadFrom(bytes.NewReader(raw)); err != nil {
			return nil, fmt.Errorf("decode %s: %w", f.name, err)
		}
	}

	return &Keys{Depth: depth, CCS: ccs, ProvingKey: pk, VerifyingKey: vk}, nil
}

func (k *Keys) VerifyingKeyBytes() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := k.VerifyingKey.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (k *Keys) ProvingKeyBytes() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := k.ProvingKey.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Digest formats the sha256 of an artifact the way artifacts are addressed over HTTP.
func Digest(b []byte) string {
	sum := sha256.Sum256(b)
	return fmt.Sprintf("sha256:%x", sum[:])
}
