package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"carefoundation/internal/metrics"
	"carefoundation/internal/utils"
	"carefoundation/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const secret = "middleware-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func tokens(t *testing.T, role string) *utils.TokenPair {
	t.Helper()
	pair, err := utils.GenerateTokenPair(primitive.NewObjectID(), role, "someone@example.org", secret, time.Hour, time.Hour)
	require.NoError(t, err)
	return pair
}

func serve(r *gin.Engine, method, path string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func whoami(c *gin.Context) {
	id, ok := UserID(c)
	if !ok {
		c.String(http.StatusOK, "anonymous")
		return
	}
	c.String(http.StatusOK, UserRole(c)+":"+id.Hex())
}

func TestAuthRequired(t *testing.T) {
	r := gin.New()
	r.GET("/me", AuthRequired(secret), whoami)
	pair := tokens(t, "partner")

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{name: "missing header", header: "", want: http.StatusUnauthorized},
		{name: "not bearer", header: pair.AccessToken, want: http.StatusUnauthorized},
		{name: "refresh token", header: "Bearer " + pair.RefreshToken, want: http.StatusUnauthorized},
		{name: "garbage", header: "Bearer abc.def.ghi", want: http.StatusUnauthorized},
		{name: "access token", header: "Bearer " + pair.AccessToken, want: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(r, http.MethodGet, "/me", map[string]string{"Authorization": tt.header})
			assert.Equal(t, tt.want, w.Code)
		})
	}

	w := serve(r, http.MethodGet, "/me", map[string]string{"Authorization": "Bearer " + pair.AccessToken})
	assert.Contains(t, w.Body.String(), "partner:")
}

func TestOptionalAuth(t *testing.T) {
	r := gin.New()
	r.GET("/me", OptionalAuth(secret), whoami)

	w := serve(r, http.MethodGet, "/me", nil)
	assert.Equal(t, "anonymous", w.Body.String())

	w = serve(r, http.MethodGet, "/me", map[string]string{"Authorization": "Bearer not-a-token"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "anonymous", w.Body.String())

	w = serve(r, http.MethodGet, "/me", map[string]string{"Authorization": "Bearer " + tokens(t, "donor").AccessToken})
	assert.Contains(t, w.Body.String(), "donor:")
}

func TestRoleRequired(t *testing.T) {
	r := gin.New()
	r.GET("/admin", AuthRequired(secret), AdminRequired(), whoami)
	r.GET("/unguarded", RoleRequired("admin"), whoami)

	w := serve(r, http.MethodGet, "/admin", map[string]string{"Authorization": "Bearer " + tokens(t, "partner").AccessToken})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = serve(r, http.MethodGet, "/admin", map[string]string{"Authorization": "Bearer " + tokens(t, "admin").AccessToken})
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(r, http.MethodGet, "/unguarded", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequestIDMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(ContextRequestID)) })
	r.GET("/ctx", func(c *gin.Context) {
		id, _ := c.Request.Context().Value(logger.RequestIDKey).(string)
		c.String(http.StatusOK, id)
	})

	w := serve(r, http.MethodGet, "/", map[string]string{HeaderRequestID: "req-42"})
	assert.Equal(t, "req-42", w.Body.String())
	assert.Equal(t, "req-42", w.Header().Get(HeaderRequestID))

	w = serve(r, http.MethodGet, "/ctx", map[string]string{HeaderRequestID: "req-43"})
	assert.Equal(t, "req-43", w.Body.String())

	w = serve(r, http.MethodGet, "/", nil)
	assert.NotEmpty(t, w.Body.String())
	assert.Equal(t, w.Body.String(), w.Header().Get(HeaderRequestID))
}

func TestCORSMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware([]string{"https://app.example.org/"}))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(r, http.MethodOptions, "/", map[string]string{"Origin": "https://app.example.org"})
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://app.example.org", w.Header().Get("Access-Control-Allow-Origin"))

	w = serve(r, http.MethodGet, "/", map[string]string{"Origin": "https://evil.example"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

	open := gin.New()
	open.Use(CORSMiddleware([]string{"*"}))
	open.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
	w = serve(open, http.MethodGet, "/", map[string]string{"Origin": "https://any.example"})
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestMetricsMiddleware(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	r := gin.New()
	r.Use(MetricsMiddleware(m))
	r.GET("/partners/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	serve(r, http.MethodGet, "/partners/1", nil)
	serve(r, http.MethodGet, "/partners/2", nil)
	serve(r, http.MethodGet, "/nowhere", nil)

	assert.Equal(t, 2, testutil.CollectAndCount(m.HTTPRequestDuration))
}
