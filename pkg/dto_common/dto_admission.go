package dtocommon

import (
	"encoding/json"

	"fairpass/pkg/utilities"
	"fairpass/pkg/utilities/timeutil"
)

const (
	TypeMemberApproved    = "member.approved"
	TypeAttendeeCheckedIn = "attendee.checked_in"
	TypeEventDeleted      = "event.deleted"
)

// AdmissionEventDto is the envelope relayed from the outbox to the broker.
type AdmissionEventDto struct {
	Id         string           `json:"id"`
	Type       string           `json:"type"`
	EventId    string           `json:"event_id"`
	Payload    json.RawMessage  `json:"payload"`
	OccurredAt timeutil.TimeUTC `json:"occurred_at"`
}

func (aed AdmissionEventDto) Serialize() ([]byte, error) {
	return utilities.Serialize(aed)
}

type MemberApprovedDto struct {
	Commitment string `json:"commitment"`
	LeafIndex  int    `json:"leaf_index"`
	Root       string `json:"root"`
}

func (mad MemberApprovedDto) Serialize() ([]byte, error) {
	return utilities.Serialize(mad)
}

type AttendeeCheckedInDto struct {
	Nullifier string `json:"nullifier"`
	Root      string `json:"root"`
}

func (acd AttendeeCheckedInDto) Serialize() ([]byte, error) {
	return utilities.Serialize(acd)
}

type EventDeletedDto struct {
	Members    int `json:"members"`
	Nullifiers int `json:"nullifiers"`
}

func (edd EventDeletedDto) Serialize() ([]byte, error) {
	return utilities.Serialize(edd)
}
