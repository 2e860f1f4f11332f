// Package snapshot encodes an event's group as deterministic CBOR and addresses it
// by CID, so a published member list can be pinned and compared byte for byte.
package snapshot

import (
	"fmt"

	"fairpass/internal/admission"
	"fairpass/internal/group"
	"fairpass/internal/identity"
	"fairpass/pkg/zkp"

	"github.com/fxamacker/cbor/v2"
	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
)

const ContentType = "application/cbor"

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error

	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("snapshot: CBOR encoder initialization failed: " + err.Error())
	}
	decMode, err = cbor.DecOptions{
		DupMapKey: cbor.DupMapKeyEnforcedAPF,
	}.DecMode()
	if err != nil {
		panic("snapshot: CBOR decoder initialization failed: " + err.Error())
	}
}

// Snapshot is the wire form. Field elements are raw 32-byte strings.
type Snapshot struct {
	Version int      `cbor:"v"`
	EventID string   `cbor:"event_id"`
	Depth   int      `cbor:"depth"`
	Root    []byte   `cbor:"root"`
	Members [][]byte `cbor:"members"`
}

const version = 1

func FromView(view admission.GroupView) Snapshot {
	members := make([][]byte, len(view.Members))
	for i, m := range view.Members {
		members[i] = append([]byte(nil), m.FieldBytes[:]...)
	}
	return Snapshot{
		Version: version,
		EventID: view.EventID,
		Depth:   view.Depth,
		Root:    append([]byte(nil), view.Root.FieldBytes[:]...),
		Members: members,
	}
}

// Encode returns the deterministic CBOR bytes and their CIDv1 (raw, sha2-256).
func Encode(view admission.GroupView) ([]byte, cid.Cid, error) {
	raw, err := encMode.Marshal(FromView(view))
	if err != nil {
		return nil, cid.Undef, fmt.Errorf("encode snapshot: %w", err)
	}
	id, err := CIDv1RawSHA256(raw)
	if err != nil {
		return nil, cid.Undef, err
	}
	return raw, id, nil
}

// Decode parses a snapshot and checks that its root matches its members.
func Decode(raw []byte) (admission.GroupView, error) {
	var s Snapshot
	if err := decMode.Unmarshal(raw, &s); err != nil {
		return admission.GroupView{}, fmt.Errorf("decode snapshot: %w", err)
	}
	if s.Version != version {
		return admission.GroupView{}, fmt.Errorf("unsupported snapshot version %d", s.Version)
	}

	view := admission.GroupView{
		EventID: s.EventID,
		Depth:   s.Depth,
		Members: make([]identity.Commitment, len(s.Members)),
	}
	for i, m := range s.Members {
		fb, err := fieldBytes(m)
		if err != nil {
			return admission.GroupView{}, fmt.Errorf("member %d: %w", i, err)
		}
		view.Members[i] = identity.Commitment{FieldBytes: fb}
	}
	root, err := fieldBytes(s.Root)
	if err != nil {
		return admission.GroupView{}, fmt.Errorf("root: %w", err)
	}
	view.Root = group.Root{FieldBytes: root}

	rebuilt, err := group.Rebuild(view.EventID, view.Depth, nil, view.Members)
	if err != nil {
		return admission.GroupView{}, err
	}
	if rebuilt.Root() != view.Root {
		return admission.GroupView{}, fmt.Errorf("snapshot root %s does not match members", view.Root)
	}
	return view, nil
}

func CIDv1RawSHA256(data []byte) (cid.Cid, error) {
	sum, err := multihash.Sum(data, multihash.SHA2_256, -1)
	if err != nil {
		return cid.Undef, err
	}
	return cid.NewCidV1(cid.Raw, sum), nil
}

// Verify reports whether data hashes to the given CID string.
func Verify(data []byte, expected string) error {
	want, err := cid.Decode(expected)
	if err != nil {
		return fmt.Errorf("parse cid: %w", err)
	}
	got, err := CIDv1RawSHA256(data)
	if err != nil {
		return err
	}
	if !got.Equals(want) {
		return fmt.Errorf("snapshot cid mismatch: got %s, want %s", got, want)
	}
	return nil
}

func fieldBytes(b []byte) (zkp.FieldBytes, error) {
	var fb zkp.FieldBytes
	if _, err := zkp.ElementFromCanonical(b); err != nil {
		return fb, err
	}
	copy(fb[:], b)
	return fb, nil
}
