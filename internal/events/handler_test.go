package events

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"fairpass/internal/admission"
	"fairpass/internal/auth"
	"fairpass/internal/database"
	"fairpass/internal/group"
	"fairpass/internal/identity"
	"fairpass/internal/middleware"
	"fairpass/internal/snapshot"
	dtocommon "fairpass/pkg/dto_common"
	"fairpass/pkg/logger"
	"fairpass/pkg/rest"
	"fairpass/pkg/zkp"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDepth = 3

var (
	keysOnce sync.Once
	testKeys *zkp.Keys
	keysErr  error

	organizerSecret = []byte("0123456789abcdef0123456789abcdef")
)

type nopVerifier struct{}

func (nopVerifier) Verify(zkp.Statement, []byte) error { return nil }

func setupKeys(t *testing.T) *zkp.Keys {
	t.Helper()
	keysOnce.Do(func() {
		testKeys, keysErr = zkp.Setup(testDepth)
	})
	require.NoError(t, keysErr)
	return testKeys
}

type testServer struct {
	t      *testing.T
	engine *gin.Engine
	token  string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := logger.Nop()
	h, err := Build(database.NewTestDB(t), zkp.NewVerifier(setupKeys(t)), log, admission.WithDepth(testDepth))
	require.NoError(t, err)

	organizer := middleware.OrganizerAuth(auth.AuthConfig{OrganizerSecret: organizerSecret}, log)
	engine := gin.New()
	require.NoError(t, rest.Register(engine, nil, []rest.Route{
		rest.NewRoute(rest.POST, "v1", "events/:eventId/approve", h.Approve, organizer),
		rest.NewRoute(rest.POST, "v1", "events/:eventId/checkin", h.CheckIn),
		rest.NewRoute(rest.GET, "v1", "events/:eventId/members", h.Members),
		rest.NewRoute(rest.GET, "v1", "events/:eventId/snapshot", h.Snapshot),
		rest.NewRoute(rest.GET, "v1", "events/:eventId/nullifiers/:nullifier", h.NullifierStatus),
		rest.NewRoute(rest.DELETE, "v1", "events/:eventId", h.DeleteEvent, organizer),
	}))

	token, err := auth.IssueOrganizerToken(organizerSecret, "box-office", []string{"concert"}, time.Hour)
	require.NoError(t, err)
	return &testServer{t: t, engine: engine, token: token}
}

func (s *testServer) do(method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	s.t.Helper()
	var payload []byte
	switch b := body.(type) {
	case nil:
	case string:
		payload = []byte(b)
	default:
		var err error
		payload, err = json.Marshal(b)
		require.NoError(s.t, err)
	}

	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) approve(id identity.Identity) *httptest.ResponseRecorder {
	return s.do(http.MethodPost, "/v1/events/concert/approve", dtocommon.ApproveRequestDto{Commitment: id.Commitment().Hex()}, s.token)
}

func (s *testServer) members() dtocommon.GroupMembersDto {
	rec := s.do(http.MethodGet, "/v1/events/concert/members", nil, "")
	require.Equal(s.t, http.StatusOK, rec.Code)
	var out dtocommon.GroupMembersDto
	require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

// prove plays the attendee: rebuild the group from the public list and prove locally.
func (s *testServer) prove(id identity.Identity) dtocommon.CheckInRequestDto {
	s.t.Helper()
	dto := s.members()
	members := make([]identity.Commitment, len(dto.Members))
	for i, m := range dto.Members {
		c, err := identity.ParseCommitment(m)
		require.NoError(s.t, err)
		members[i] = c
	}

	local, err := group.Rebuild(dto.EventId, dto.Depth, nil, members)
	require.NoError(s.t, err)
	require.Equal(s.t, dto.Root, local.Root().Hex())

	proof, err := local.ProveMembership(setupKeys(s.t), id)
	require.NoError(s.t, err)
	return NewCheckInRequest(proof)
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body dtocommon.ErrorDto
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error
}

func TestCheckInFlow(t *testing.T) {
	s := newTestServer(t)
	alice, err := identity.Generate()
	require.NoError(t, err)
	bob, err := identity.Generate()
	require.NoError(t, err)

	require.Equal(t, http.StatusOK, s.approve(alice).Code)
	require.Equal(t, http.StatusOK, s.approve(bob).Code)

	dup := s.approve(alice)
	assert.Equal(t, http.StatusConflict, dup.Code)
	assert.Equal(t, "DuplicateCommitment", errorCode(t, dup))

	members := s.members()
	assert.Equal(t, 2, members.Size)
	assert.Equal(t, testDepth, members.Depth)
	assert.Equal(t, []string{alice.Commitment().Hex(), bob.Commitment().Hex()}, members.Members)
	assert.NotEmpty(t, members.SnapshotCid)

	attempt := s.prove(alice)
	rec := s.do(http.MethodPost, "/v1/events/concert/checkin", attempt, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	again := s.do(http.MethodPost, "/v1/events/concert/checkin", attempt, "")
	assert.Equal(t, http.StatusConflict, again.Code)
	assert.Equal(t, "AlreadyCheckedIn", errorCode(t, again))

	status := s.do(http.MethodGet, "/v1/events/concert/nullifiers/"+attempt.Nullifier, nil, "")
	require.Equal(t, http.StatusOK, status.Code)
	assert.JSONEq(t, `{"nullifier":"`+attempt.Nullifier+`","used":true}`, status.Body.String())

	bobStatus := s.do(http.MethodGet, "/v1/events/concert/nullifiers/"+bob.Nullifier("concert").Hex(), nil, "")
	assert.JSONEq(t, `{"nullifier":"`+bob.Nullifier("concert").Hex()+`","used":false}`, bobStatus.Body.String())
}

func TestCheckInRejections(t *testing.T) {
	s := newTestServer(t)
	alice, err := identity.Generate()
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, s.approve(alice).Code)
	attempt := s.prove(alice)

	swapped := attempt
	swapped.Nullifier = attempt.MembershipProof.Root

	forged := attempt
	forged.MembershipProof.Nullifier = attempt.MembershipProof.Root
	forged.Nullifier = attempt.MembershipProof.Root

	tests := []struct {
		name   string
		body   interface{}
		status int
		code   string
	}{
		{"bad json", `{"membership_proof":`, http.StatusBadRequest, "UnmarshalError"},
		{"bad base64", `{"membership_proof":{"root":"0x01","nullifier":"0x01","proof":"%%%"},"nullifier":"0x01"}`, http.StatusBadRequest, "UnmarshalError"},
		{"bad hex", dtocommon.CheckInRequestDto{
			MembershipProof: dtocommon.MembershipProofDto{Root: "zz", Nullifier: "0x01", Proof: []byte{1}},
			Nullifier:       "0x01",
		}, http.StatusBadRequest, "InvalidRequest"},
		{"nullifier mismatch", swapped, http.StatusForbidden, "NotApproved"},
		{"forged statement", forged, http.StatusForbidden, "NotApproved"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(http.MethodPost, "/v1/events/concert/checkin", tt.body, "")
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.code, errorCode(t, rec))
		})
	}

	// none of the rejected attempts spent the nullifier
	rec := s.do(http.MethodPost, "/v1/events/concert/checkin", attempt, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	corrupted := attempt
	corrupted.MembershipProof.Proof = append([]byte(nil), attempt.MembershipProof.Proof...)
	corrupted.MembershipProof.Proof[len(corrupted.MembershipProof.Proof)-1] ^= 0xff
	replay := s.do(http.MethodPost, "/v1/events/concert/checkin", corrupted, "")
	assert.Equal(t, http.StatusConflict, replay.Code)
	assert.Equal(t, "AlreadyCheckedIn", errorCode(t, replay))
}

func TestOrganizerRoutesRequireToken(t *testing.T) {
	s := newTestServer(t)
	alice, err := identity.Generate()
	require.NoError(t, err)
	body := dtocommon.ApproveRequestDto{Commitment: alice.Commitment().Hex()}

	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodPost, "/v1/events/concert/approve", body, "").Code)
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodPost, "/v1/events/festival/approve", body, s.token).Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodDelete, "/v1/events/concert", nil, "").Code)

	invalid := s.do(http.MethodPost, "/v1/events/concert/approve", dtocommon.ApproveRequestDto{Commitment: "0x00"}, s.token)
	assert.Equal(t, http.StatusBadRequest, invalid.Code)
	assert.Equal(t, "InvalidRequest", errorCode(t, invalid))
}

func TestSnapshotMatchesMembers(t *testing.T) {
	s := newTestServer(t)
	alice, err := identity.Generate()
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, s.approve(alice).Code)
	members := s.members()

	rec := s.do(http.MethodGet, "/v1/events/concert/snapshot", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, snapshot.ContentType, rec.Header().Get("Content-Type"))

	cid := rec.Header().Get(SnapshotCidHeader)
	assert.Equal(t, members.SnapshotCid, cid)
	require.NoError(t, snapshot.Verify(rec.Body.Bytes(), cid))

	view, err := snapshot.Decode(rec.Body.Bytes())
	require.NoError(t, err)
	assert.Equal(t, members.Root, view.Root.Hex())
	assert.Equal(t, []identity.Commitment{alice.Commitment()}, view.Members)
}

func TestDeleteEventEmptiesGroup(t *testing.T) {
	s := newTestServer(t)
	alice, err := identity.Generate()
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, s.approve(alice).Code)
	attempt := s.prove(alice)

	require.Equal(t, http.StatusOK, s.do(http.MethodDelete, "/v1/events/concert", nil, s.token).Code)
	assert.Equal(t, 0, s.members().Size)

	// the old root is gone with the group
	rec := s.do(http.MethodPost, "/v1/events/concert/checkin", attempt, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
