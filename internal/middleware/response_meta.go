package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/manyap062/L2L-Independent-Study-Demo-sub000/pkg/middleware/requestid"
)

const responseMetaKey = "response_meta"

type responseMeta struct {
	start    time.Time
	cacheHit *bool
	fields   map[string]interface{}
}

// WithResponseMeta starts the metadata handlers fold into the response envelope.
func WithResponseMeta() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(responseMetaKey, &responseMeta{start: time.Now()})
		c.Next()
	}
}

// SetCacheHit records whether the payload came from cache.
func SetCacheHit(c *gin.Context, hit bool) {
	metaFor(c).cacheHit = &hit
}

// SetMeta attaches an extra key to the response metadata.
func SetMeta(c *gin.Context, key string, value interface{}) {
	m := metaFor(c)
	if m.fields == nil {
		m.fields = make(map[string]interface{})
	}
	m.fields[key] = value
}

// ResponseMeta renders the metadata collected so far. Without WithResponseMeta the clock
// starts at the first metadata write.
func ResponseMeta(c *gin.Context) map[string]interface{} {
	m := metaFor(c)
	out := make(map[string]interface{}, len(m.fields)+3)
	for k, v := range m.fields {
		out[k] = v
	}
	if m.cacheHit != nil {
		out["cache_hit"] = *m.cacheHit
	}
	out["processing_time_ms"] = time.Since(m.start).Milliseconds()
	if id := requestid.Value(c); id != "" {
		out["request_id"] = id
	}
	return out
}

func metaFor(c *gin.Context) *responseMeta {
	if v, ok := c.Get(responseMetaKey); ok {
		if m, ok := v.(*responseMeta); ok {
			return m
		}
	}
	m := &responseMeta{start: time.Now()}
	c.Set(responseMetaKey, m)
	return m
}
