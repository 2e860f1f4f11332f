package rest

import "github.com/gin-gonic/gin"

type HttpMethod int

const (
	GET HttpMethod = iota
	POST
	PUT
	PATCH
	DELETE
)

func (m HttpMethod) String() string {
	switch m {
	case GET:
		return "GET"
	case POST:
		return "POST"
	case PUT:
		return "PUT"
	case PATCH:
		return "PATCH"
	case DELETE:
		return "DELETE"
	default:
		return "UNKNOWN"
	}
}

// Route binds a handler to Group/Path. Handlers run after any route-specific
// middleware listed in Middlewares.
type Route struct {
	Method      HttpMethod
	Path        string
	HandlerFunc gin.HandlerFunc
	Group       string
	Middlewares []gin.HandlerFunc
}

func NewRoute(method HttpMethod, group, path string, handler gin.HandlerFunc, middlewares ...gin.HandlerFunc) Route {
	return Route{
		Method:      method,
		Path:        path,
		Group:       group,
		HandlerFunc: handler,
		Middlewares: middlewares,
	}
}

func (r Route) Handlers() []gin.HandlerFunc {
	handlers := make([]gin.HandlerFunc, 0, len(r.Middlewares)+1)
	handlers = append(handlers, r.Middlewares...)
	return append(handlers, r.HandlerFunc)
}
