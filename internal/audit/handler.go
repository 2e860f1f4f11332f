package audit

import (
	"net/http"
	"strconv"

	reasoncodes "fairpass/pkg/reason_codes"

	"github.com/gin-gonic/gin"
)

const maxLimit = 1000

type AuditHandler struct {
	service AuditService
}

func NewAuditHandler(service AuditService) *AuditHandler {
	return &AuditHandler{service: service}
}

// GetEntries godoc
// @Summary      List admission audit entries
// @Description  Returns relayed approval and check-in events for an event, newest first
// @Tags         Audit
// @Produce      json
// @Security     OrganizerToken
// @Param        eventId  path   string  true   "Event ID"
// @Param        limit    query  int     false  "Page size (max 1000)"  default(50)
// @Param        offset   query  int     false  "Offset"                default(0)
// @Success      200  {array}   model.AuditEntry
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /v1/events/{eventId}/audit [get]
func (h *AuditHandler) GetEntries(c *gin.Context) {
	limit, errLimit := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, errOffset := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if errLimit != nil || errOffset != nil || limit < 0 || offset < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": reasoncodes.ErrInvalidRequest, "message": "limit and offset must be non-negative integers"})
		return
	}
	if limit > maxLimit {
		c.JSON(http.StatusBadRequest, gin.H{"error": reasoncodes.ErrInvalidRequest, "message": "limit cannot exceed 1000"})
		return
	}

	entries, err := h.service.GetEntries(c.Request.Context(), c.Param("eventId"), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": reasoncodes.ErrInternal, "message": "Failed to retrieve audit entries"})
		return
	}

	c.JSON(http.StatusOK, entries)
}
