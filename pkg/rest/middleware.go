package rest

import "github.com/gin-gonic/gin"

// GlobalGroup attaches a middleware to the engine instead of a single route group.
const GlobalGroup = "*"

type Middleware struct {
	Handler gin.HandlerFunc
	Group   string
}

func NewMiddleware(group string, handler gin.HandlerFunc) Middleware {
	return Middleware{
		Group:   group,
		Handler: handler,
	}
}
