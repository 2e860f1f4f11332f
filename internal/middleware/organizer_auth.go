package middleware

import (
	"errors"
	"net/http"
	"strings"

	"fairpass/internal/auth"
	"fairpass/pkg/logger"
	reasoncodes "fairpass/pkg/reason_codes"

	"github.com/gin-gonic/gin"
)

const OrganizerKey = "organizer"

// OrganizerAuth requires a bearer token whose event scope covers the :eventId
// path parameter. With no secret configured every request passes.
func OrganizerAuth(cfg auth.AuthConfig, log *logger.Logger) gin.HandlerFunc {
	if !cfg.Enabled() {
		log.Warn("organizer secret not set, organizer endpoints are unauthenticated")
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || raw == "" {
			c.Header("WWW-Authenticate", `Bearer realm="fairpass"`)
			Abort(c, http.StatusUnauthorized, reasoncodes.ErrUnauthorized, "bearer token required")
			return
		}

		organizer, err := auth.VerifyOrganizerToken(cfg.OrganizerSecret, raw)
		if err != nil {
			c.Header("WWW-Authenticate", `Bearer realm="fairpass", error="invalid_token"`)
			Abort(c, http.StatusUnauthorized, reasoncodes.ErrUnauthorized, auth.ErrUnauthorized.Error())
			return
		}

		if eventId := c.Param("eventId"); eventId != "" && !organizer.CanManage(eventId) {
			Abort(c, http.StatusForbidden, reasoncodes.ErrForbidden, auth.ErrForbidden.Error())
			return
		}

		c.Set(OrganizerKey, organizer)
		c.Next()
	}
}

// OrganizerFrom returns the organizer stored by OrganizerAuth.
func OrganizerFrom(c *gin.Context) (auth.Organizer, error) {
	v, ok := c.Get(OrganizerKey)
	if !ok {
		return auth.Organizer{}, errors.New("no organizer in context")
	}
	organizer, ok := v.(auth.Organizer)
	if !ok {
		return auth.Organizer{}, errors.New("unexpected organizer type in context")
	}
	return organizer, nil
}
