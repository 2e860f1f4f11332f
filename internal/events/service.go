package events

import (
	"context"
	"errors"
	"fmt"

	"fairpass/internal/admission"
	"fairpass/internal/group"
	"fairpass/internal/identity"
	"fairpass/internal/snapshot"
	dtocommon "fairpass/pkg/dto_common"
	"fairpass/pkg/utilities"
)

var ErrInvalidRequest = errors.New("invalid request")

// Service translates wire DTOs into controller calls.
type Service struct {
	controller *admission.Controller
}

func NewService(controller *admission.Controller) *Service {
	return &Service{controller: controller}
}

func (s *Service) Approve(ctx context.Context, eventId string, req dtocommon.ApproveRequestDto) error {
	commitment, err := identity.ParseCommitment(req.Commitment)
	if err != nil {
		return err
	}
	return s.controller.Approve(ctx, eventId, commitment)
}

func (s *Service) CheckIn(ctx context.Context, eventId string, req dtocommon.CheckInRequestDto) error {
	attempt, err := ParseCheckInRequest(req)
	if err != nil {
		return err
	}
	return s.controller.CheckIn(ctx, eventId, attempt)
}

func (s *Service) Members(ctx context.Context, eventId string) (dtocommon.GroupMembersDto, error) {
	view, err := s.controller.Members(ctx, eventId)
	if err != nil {
		return dtocommon.GroupMembersDto{}, err
	}
	_, id, err := snapshot.Encode(view)
	if err != nil {
		return dtocommon.GroupMembersDto{}, err
	}

	return dtocommon.GroupMembersDto{
		EventId:     view.EventID,
		Depth:       view.Depth,
		Root:        view.Root.Hex(),
		Size:        len(view.Members),
		Members:     utilities.Map(view.Members, func(c identity.Commitment) string { return c.Hex() }),
		SnapshotCid: id.String(),
	}, nil
}

// Snapshot returns the CBOR encoded group and its CID.
func (s *Service) Snapshot(ctx context.Context, eventId string) ([]byte, string, error) {
	view, err := s.controller.Members(ctx, eventId)
	if err != nil {
		return nil, "", err
	}
	raw, id, err := snapshot.Encode(view)
	if err != nil {
		return nil, "", err
	}
	return raw, id.String(), nil
}

func (s *Service) NullifierStatus(ctx context.Context, eventId, nullifierHex string) (dtocommon.NullifierStatusDto, error) {
	n, err := identity.ParseNullifier(nullifierHex)
	if err != nil {
		return dtocommon.NullifierStatusDto{}, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	used, err := s.controller.IsCheckedIn(ctx, eventId, n)
	if err != nil {
		return dtocommon.NullifierStatusDto{}, err
	}
	return dtocommon.NullifierStatusDto{Nullifier: n.Hex(), Used: used}, nil
}

func (s *Service) DeleteEvent(ctx context.Context, eventId string) error {
	return s.controller.DeleteEvent(ctx, eventId)
}

// ParseCheckInRequest decodes the hex and base64 fields of a check-in body.
func ParseCheckInRequest(req dtocommon.CheckInRequestDto) (admission.CheckInAttempt, error) {
	root, err := group.ParseRoot(req.MembershipProof.Root)
	if err != nil {
		return admission.CheckInAttempt{}, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	proofNullifier, err := identity.ParseNullifier(req.MembershipProof.Nullifier)
	if err != nil {
		return admission.CheckInAttempt{}, fmt.Errorf("%w: membership proof %w", ErrInvalidRequest, err)
	}
	n, err := identity.ParseNullifier(req.Nullifier)
	if err != nil {
		return admission.CheckInAttempt{}, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	if len(req.MembershipProof.Proof) == 0 {
		return admission.CheckInAttempt{}, fmt.Errorf("%w: empty proof", ErrInvalidRequest)
	}

	return admission.CheckInAttempt{
		Proof: group.MembershipProof{
			Root:      root,
			Nullifier: proofNullifier,
			Proof:     req.MembershipProof.Proof,
		},
		Nullifier: n,
	}, nil
}

// NewCheckInRequest is the inverse of ParseCheckInRequest.
func NewCheckInRequest(proof group.MembershipProof) dtocommon.CheckInRequestDto {
	return dtocommon.CheckInRequestDto{
		MembershipProof: dtocommon.MembershipProofDto{
			Root:      proof.Root.Hex(),
			Nullifier: proof.Nullifier.Hex(),
			Proof:     proof.Proof,
		},
		Nullifier: proof.Nullifier.Hex(),
	}
}
