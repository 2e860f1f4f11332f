package zkp

import (
	"crypto/sha256"
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr/mimc"
)

const (
	ElipticalCurveID = ecc.BN254

	// ElementSize is the length of the canonical big-endian encoding of a field element.
	ElementSize = fr.Bytes
)

// Hash folds the given elements with MiMC, matching the in-circuit hasher.
func Hash(elems ...fr.Element) fr.Element {
	h := mimc.NewMiMC()
	for i := range elems {
		b := elems[i].Bytes()
		// canonical encodings are always accepted by the hasher
		_, _ = h.Write(b[:])
	}

	var out fr.Element
	out.SetBytes(h.Sum(nil))
	return out
}

// HashBytesToField maps arbitrary bytes to a field element under a domain tag.
func HashBytesToField(tag string, data []byte) fr.Element {
	h := sha256.New()
	h.Write([]byte(tag))
	h.Write(data)

	var out fr.Element
	out.SetBytes(h.Sum(nil))
	return out
}

// ElementFromCanonical decodes a 32-byte big-endian encoding, rejecting values outside the field.
func ElementFromCanonical(b []byte) (fr.Element, error) {
	var out fr.Element
	if len(b) != ElementSize {
		return out, fmt.Errorf("field element must be %d bytes, got %d", ElementSize, len(b))
	}
	if new(big.Int).SetBytes(b).Cmp(fr.Modulus()) >= 0 {
		return out, fmt.Errorf("field element is not canonical")
	}
	out.SetBytes(b)
	return out, nil
}

func toBigInt(e fr.Element) *big.Int {
	return e.BigInt(new(big.Int))
}
