package rest

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterRoutesAndMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()

	var trace []string
	tag := func(name string) gin.HandlerFunc {
		return func(c *gin.Context) {
			trace = append(trace, name)
			c.Next()
		}
	}

	err := Register(engine,
		[]Middleware{
			NewMiddleware(GlobalGroup, tag("global")),
			NewMiddleware("v1", tag("group")),
		},
		[]Route{
			NewRoute(GET, "v1", "ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") }, tag("route")),
			NewRoute(DELETE, "v1", "things/:id", func(c *gin.Context) { c.String(http.StatusOK, c.Param("id")) }),
		},
	)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/ping", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pong", rec.Body.String())
	assert.Equal(t, []string{"global", "group", "route"}, trace)

	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/v1/things/42", nil))
	assert.Equal(t, "42", rec.Body.String())
}

func TestRegisterRejectsUnknownMethod(t *testing.T) {
	gin.SetMode(gin.TestMode)
	err := Register(gin.New(), nil, []Route{{Method: HttpMethod(99), Group: "v1", Path: "x"}})
	assert.Error(t, err)
}
