package middleware

import (
	reasoncodes "fairpass/pkg/reason_codes"

	"github.com/gin-gonic/gin"
)

// ReasonCodeKey holds the reason code of a failed request in the gin context.
const ReasonCodeKey = "reason_code"

// Abort writes the standard error body and stops the handler chain.
func Abort(c *gin.Context, status int, code reasoncodes.ReasonCode, message string) {
	c.Set(ReasonCodeKey, code)
	c.AbortWithStatusJSON(status, gin.H{"error": code, "message": message})
}

// AbortWithError maps err to its reason code and status.
func AbortWithError(c *gin.Context, err error) {
	code, status := reasoncodes.FromError(err)
	message := err.Error()
	if status >= 500 {
		message = "request could not be completed"
	}
	Abort(c, status, code, message)
}
