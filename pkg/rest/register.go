package rest

import (
	"fmt"

	"github.com/gin-gonic/gin"
)

// Register mounts middlewares and routes on engine. Group-scoped middleware is
// attached to the group before any of its routes.
func Register(engine *gin.Engine, middlewares []Middleware, routes []Route) error {
	groups := map[string]*gin.RouterGroup{}
	group := func(name string) *gin.RouterGroup {
		g, ok := groups[name]
		if !ok {
			g = engine.Group("/" + name)
			groups[name] = g
		}
		return g
	}

	// groups copy the engine chain when created, so global middleware goes first
	for _, m := range middlewares {
		if m.Group == GlobalGroup {
			engine.Use(m.Handler)
		}
	}
	for _, m := range middlewares {
		if m.Group != GlobalGroup {
			group(m.Group).Use(m.Handler)
		}
	}

	for _, r := range routes {
		g := group(r.Group)
		switch r.Method {
		case GET:
			g.GET(r.Path, r.Handlers()...)
		case POST:
			g.POST(r.Path, r.Handlers()...)
		case PUT:
			g.PUT(r.Path, r.Handlers()...)
		case PATCH:
			g.PATCH(r.Path, r.Handlers()...)
		case DELETE:
			g.DELETE(r.Path, r.Handlers()...)
		default:
			return fmt.Errorf("unrecognized HTTP method %s for %s/%s", r.Method, r.Group, r.Path)
		}
	}
	return nil
}
