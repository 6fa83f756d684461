package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/manyap062/L2L-Independent-Study-Demo-sub000/internal/models"
	"github.com/manyap062/L2L-Independent-Study-Demo-sub000/internal/service"
	appErrors "github.com/manyap062/L2L-Independent-Study-Demo-sub000/pkg/errors"
)

type stubValidator map[string]*models.JWTClaims

func (s stubValidator) ValidateToken(token string) (*models.JWTClaims, error) {
	if claims, ok := s[token]; ok {
		return claims, nil
	}
	return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token")
}

var tokens = stubValidator{
	"student": {UserID: "student-demo", Role: models.RoleStudent},
	"mentor":  {UserID: "mentor-demo", Role: models.RoleMentor},
	"admin":   {UserID: "admin-demo", Role: models.RoleAdmin},
}

func init() {
	gin.SetMode(gin.TestMode)
}

func newEngine(handlers ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	handlers = append(handlers, func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	r.GET("/items/:id", handlers...)
	return r
}

func do(r http.Handler, target, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWT(t *testing.T) {
	r := newEngine(JWT(tokens))

	assert.Equal(t, http.StatusUnauthorized, do(r, "/items/1", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, "/items/1", "Basic abc").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, "/items/1", "Bearer nope").Code)
	assert.Equal(t, http.StatusOK, do(r, "/items/1", "Bearer student").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, "/items/1?access_token=student", "").Code)
}

func TestJWTWithQueryToken(t *testing.T) {
	r := newEngine(JWTWithQueryToken(tokens))
	assert.Equal(t, http.StatusOK, do(r, "/items/1?access_token=mentor", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, "/items/1?access_token=bad", "").Code)
}

func TestOptionalJWT(t *testing.T) {
	var seen *models.JWTClaims
	r := gin.New()
	r.GET("/", OptionalJWT(tokens), func(c *gin.Context) {
		if v, ok := c.Get(ContextUserKey); ok {
			seen = v.(*models.JWTClaims)
		}
		c.Status(http.StatusOK)
	})

	assert.Equal(t, http.StatusOK, do(r, "/", "").Code)
	assert.Nil(t, seen)
	assert.Equal(t, http.StatusOK, do(r, "/", "Bearer admin").Code)
	require.NotNil(t, seen)
	assert.Equal(t, "admin-demo", seen.UserID)
}

func TestRequireRoles(t *testing.T) {
	r := newEngine(JWT(tokens), RequireRoles(models.RoleMentor))

	assert.Equal(t, http.StatusForbidden, do(r, "/items/1", "Bearer student").Code)
	assert.Equal(t, http.StatusOK, do(r, "/items/1", "Bearer mentor").Code)
	assert.Equal(t, http.StatusOK, do(r, "/items/1", "Bearer admin").Code)

	bare := newEngine(RequireRoles(models.RoleMentor))
	assert.Equal(t, http.StatusUnauthorized, do(bare, "/items/1", "").Code)
}

func TestResponseMetaRecordsCacheHit(t *testing.T) {
	r := gin.New()
	r.GET("/", WithResponseMeta(), func(c *gin.Context) {
		SetCacheHit(c, true)
		SetMeta(c, "source", "catalog")
		c.JSON(http.StatusOK, ResponseMeta(c))
	})

	w := do(r, "/", "")
	var meta map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &meta))
	assert.Equal(t, true, meta["cache_hit"])
	assert.Equal(t, "catalog", meta["source"])
	assert.Contains(t, meta, "processing_time_ms")
	assert.NotContains(t, meta, "request_id")
}

func TestResponseMetaWithoutMiddleware(t *testing.T) {
	r := gin.New()
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, ResponseMeta(c))
	})

	var meta map[string]interface{}
	require.NoError(t, json.Unmarshal(do(r, "/", "").Body.Bytes(), &meta))
	assert.NotContains(t, meta, "cache_hit")
	assert.Contains(t, meta, "processing_time_ms")
}

func TestAuditLogsSuccessOnly(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	r := gin.New()
	r.GET("/ok/:id", JWT(tokens), Audit(zap.New(core), "milestone.review", "milestone"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	r.GET("/fail/:id", Audit(zap.New(core), "milestone.review", "milestone"), func(c *gin.Context) {
		_ = c.Error(errors.New("boom"))
		c.Status(http.StatusBadRequest)
	})

	do(r, "/ok/3", "Bearer mentor")
	do(r, "/fail/3", "")

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "milestone.review", fields["action"])
	assert.Equal(t, "3", fields["resource_id"])
	assert.Equal(t, "mentor-demo", fields["user_id"])
}

func TestMetricsSkipsProbes(t *testing.T) {
	metrics := service.NewMetricsService()
	r := gin.New()
	r.Use(Metrics(metrics))
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/mentors/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	do(r, "/health", "")
	do(r, "/mentors/3", "")
	do(r, "/nowhere", "")

	assert.Equal(t, uint64(2), metrics.Snapshot().RequestsTotal)
}
