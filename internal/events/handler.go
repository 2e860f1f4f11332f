package events

import (
	"errors"
	"net/http"

	"fairpass/internal/middleware"
	"fairpass/internal/snapshot"
	dtocommon "fairpass/pkg/dto_common"
	"fairpass/pkg/logger"
	reasoncodes "fairpass/pkg/reason_codes"

	"github.com/gin-gonic/gin"
)

const SnapshotCidHeader = "X-Snapshot-CID"

type Handler struct {
	Service *Service
	log     *logger.Logger
}

func NewHandler(service *Service, log *logger.Logger) *Handler {
	return &Handler{Service: service, log: log}
}

// Approve godoc
// @Summary      Approve an attendee
// @Description  Adds an identity commitment to the event's membership group
// @Tags         Events
// @Accept       json
// @Produce      json
// @Security     OrganizerToken
// @Param        eventId  path  string                        true  "Event ID"
// @Param        body     body  dtocommon.ApproveRequestDto   true  "Identity commitment"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  dtocommon.ErrorDto
// @Failure      401  {object}  dtocommon.ErrorDto
// @Failure      409  {object}  dtocommon.ErrorDto
// @Failure      503  {object}  dtocommon.ErrorDto
// @Router       /v1/events/{eventId}/approve [post]
func (h *Handler) Approve(c *gin.Context) {
	var req dtocommon.ApproveRequestDto
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.Abort(c, http.StatusBadRequest, reasoncodes.ErrUnmarshal, "Invalid JSON")
		return
	}

	if err := h.Service.Approve(c.Request.Context(), c.Param("eventId"), req); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}

// CheckIn godoc
// @Summary      Check in with a membership proof
// @Description  Verifies a zero-knowledge membership proof and spends its nullifier. Each identity is admitted once per event.
// @Tags         Events
// @Accept       json
// @Produce      json
// @Param        eventId  path  string                        true  "Event ID"
// @Param        body     body  dtocommon.CheckInRequestDto   true  "Check-in attempt"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  dtocommon.ErrorDto
// @Failure      403  {object}  dtocommon.ErrorDto
// @Failure      409  {object}  dtocommon.ErrorDto
// @Failure      429  {object}  dtocommon.ErrorDto
// @Failure      503  {object}  dtocommon.ErrorDto
// @Router       /v1/events/{eventId}/checkin [post]
func (h *Handler) CheckIn(c *gin.Context) {
	var req dtocommon.CheckInRequestDto
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.Abort(c, http.StatusBadRequest, reasoncodes.ErrUnmarshal, "Invalid JSON")
		return
	}

	if err := h.Service.CheckIn(c.Request.Context(), c.Param("eventId"), req); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}

// Members godoc
// @Summary      List group members
// @Description  Returns the ordered commitments, depth and current root of the event's group
// @Tags         Events
// @Produce      json
// @Param        eventId  path  string  true  "Event ID"
// @Success      200  {object}  dtocommon.GroupMembersDto
// @Failure      400  {object}  dtocommon.ErrorDto
// @Failure      503  {object}  dtocommon.ErrorDto
// @Router       /v1/events/{eventId}/members [get]
func (h *Handler) Members(c *gin.Context) {
	members, err := h.Service.Members(c.Request.Context(), c.Param("eventId"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Header(SnapshotCidHeader, members.SnapshotCid)
	c.JSON(http.StatusOK, members)
}

// Snapshot godoc
// @Summary      Download group snapshot
// @Description  Deterministic CBOR encoding of the event's group, addressed by the CID in X-Snapshot-CID
// @Tags         Events
// @Produce      application/cbor
// @Param        eventId  path  string  true  "Event ID"
// @Success      200  {file}    binary
// @Failure      400  {object}  dtocommon.ErrorDto
// @Failure      503  {object}  dtocommon.ErrorDto
// @Router       /v1/events/{eventId}/snapshot [get]
func (h *Handler) Snapshot(c *gin.Context) {
	raw, id, err := h.Service.Snapshot(c.Request.Context(), c.Param("eventId"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Header(SnapshotCidHeader, id)
	c.Data(http.StatusOK, snapshot.ContentType, raw)
}

// NullifierStatus godoc
// @Summary      Nullifier status
// @Description  Reports whether a nullifier has been spent for the event
// @Tags         Events
// @Produce      json
// @Param        eventId    path  string  true  "Event ID"
// @Param        nullifier  path  string  true  "Nullifier (0x hex)"
// @Success      200  {object}  dtocommon.NullifierStatusDto
// @Failure      400  {object}  dtocommon.ErrorDto
// @Failure      503  {object}  dtocommon.ErrorDto
// @Router       /v1/events/{eventId}/nullifiers/{nullifier} [get]
func (h *Handler) NullifierStatus(c *gin.Context) {
	status, err := h.Service.NullifierStatus(c.Request.Context(), c.Param("eventId"), c.Param("nullifier"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

// DeleteEvent godoc
// @Summary      Delete an event
// @Description  Drops the event's membership group and spent nullifiers
// @Tags         Events
// @Produce      json
// @Security     OrganizerToken
// @Param        eventId  path  string  true  "Event ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  dtocommon.ErrorDto
// @Failure      401  {object}  dtocommon.ErrorDto
// @Failure      503  {object}  dtocommon.ErrorDto
// @Router       /v1/events/{eventId} [delete]
func (h *Handler) DeleteEvent(c *gin.Context) {
	if err := h.Service.DeleteEvent(c.Request.Context(), c.Param("eventId")); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}

func (h *Handler) fail(c *gin.Context, err error) {
	if errors.Is(err, ErrInvalidRequest) {
		middleware.Abort(c, http.StatusBadRequest, reasoncodes.ErrInvalidRequest, err.Error())
		return
	}

	_, status := reasoncodes.FromError(err)
	if status >= http.StatusInternalServerError {
		h.log.Errorf(err, "%s %s failed", c.Request.Method, c.FullPath())
	}
	middleware.AbortWithError(c, err)
}
