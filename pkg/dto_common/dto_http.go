package dtocommon

type ApproveRequestDto struct {
	Commitment string `json:"commitment" binding:"required"`
}

// MembershipProofDto carries hex field elements and the Groth16 proof bytes,
// which JSON encodes as base64.
type MembershipProofDto struct {
	Root      string `json:"root" binding:"required"`
	Nullifier string `json:"nullifier" binding:"required"`
	Proof     []byte `json:"proof" binding:"required"`
}

type CheckInRequestDto struct {
	MembershipProof MembershipProofDto `json:"membership_proof" binding:"required"`
	Nullifier       string             `json:"nullifier" binding:"required"`
}

type GroupMembersDto struct {
	EventId     string   `json:"event_id"`
	Depth       int      `json:"depth"`
	Root        string   `json:"root"`
	Size        int      `json:"size"`
	Members     []string `json:"members"`
	SnapshotCid string   `json:"snapshot_cid"`
}

type NullifierStatusDto struct {
	Nullifier string `json:"nullifier"`
	Used      bool   `json:"used"`
}

type ArtifactsDto struct {
	Depth              int    `json:"depth"`
	Curve              string `json:"curve"`
	ProvingKeyDigest   string `json:"proving_key_digest"`
	VerifyingKeyDigest string `json:"verifying_key_digest"`
}

type ErrorDto struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
