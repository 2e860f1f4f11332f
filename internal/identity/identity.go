// Package identity holds an attendee's private secret and the public values derived from it.
// It knows nothing about groups or events beyond the scope strings it is handed.
package identity

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"fairpass/pkg/zkp"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

var (
	ErrEntropy       = errors.New("identity entropy unavailable")
	ErrInvalidSecret = errors.New("invalid identity secret")
)

const (
	// secretSampleSize oversamples the field so the reduction is close to uniform.
	secretSampleSize = 64

	eventScopeTag  = "fairpass/event/v1"
	deriveScopeTag = "fairpass/derive/v1"
)

// Identity is owned by the attendee and never leaves their device.
type Identity struct {
	secret fr.Element
}

func Generate() (Identity, error) {
	return GenerateFrom(rand.Reader)
}

// GenerateFrom samples a secret from r. A short read or an all-zero sample is an ErrEntropy.
func GenerateFrom(r io.Reader) (Identity, error) {
	sample := make([]byte, secretSampleSize)
	if _, err := io.ReadFull(r, sample); err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrEntropy, err)
	}

	var secret fr.Element
	secret.SetBytes(sample)
	if secret.IsZero() {
		return Identity{}, fmt.Errorf("%w: sampled zero secret", ErrEntropy)
	}
	return Identity{secret: secret}, nil
}

func FromSecret(secret zkp.FieldBytes) (Identity, error) {
	if secret.IsZero() {
		return Identity{}, ErrInvalidSecret
	}
	return Identity{secret: secret.Element()}, nil
}

func (id Identity) Secret() fr.Element {
	return id.secret
}

func (id Identity) Commitment() Commitment {
	c := zkp.Hash(id.secret)
	return Commitment{zkp.FieldBytesOf(c)}
}

func CommitmentOf(id Identity) Commitment {
	return id.Commitment()
}

// Nullifier is stable for one (identity, event) pair and unlinkable to the commitment.
func (id Identity) Nullifier(eventID string) Nullifier {
	n := zkp.Hash(id.secret, ExternalNullifier(eventID))
	return Nullifier{zkp.FieldBytesOf(n)}
}

func ExternalNullifier(eventID string) fr.Element {
	return zkp.HashBytesToField(eventScopeTag, []byte(eventID))
}

// Derive returns a child identity bound to scope, so one master secret can present
// unlinkable commitments to different events.
func Derive(master Identity, scope string) Identity {
	tag := zkp.HashBytesToField(deriveScopeTag, nil)
	scopeElem := zkp.HashBytesToField(deriveScopeTag, []byte(scope))
	return Identity{secret: zkp.Hash(tag, master.secret, scopeElem)}
}

type identityFile struct {
	Secret zkp.FieldBytes `json:"secret"`
}

func (id Identity) MarshalJSON() ([]byte, error) {
	return json.Marshal(identityFile{Secret: zkp.FieldBytesOf(id.secret)})
}

func (id *Identity) UnmarshalJSON(data []byte) error {
	var f identityFile
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	parsed, err := FromSecret(f.Secret)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
