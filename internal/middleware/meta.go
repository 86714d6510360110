package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/homework-tracker-api/pkg/middleware/requestid"
)

const (
	metaKey      = "response_meta"
	metaStartKey = "response_meta_start"
	cacheHitKey  = "cache_hit"
)

// WithResponseMeta prepares the per-request metadata map returned in list envelopes.
func WithResponseMeta() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(metaStartKey, time.Now())
		c.Set(metaKey, map[string]interface{}{})
		c.Next()
	}
}

// SetCacheHit records whether the payload came from the homework cache.
func SetCacheHit(c *gin.Context, hit bool) {
	SetMeta(c, cacheHitKey, hit)
}

// SetMeta stores one metadata entry for the current response.
func SetMeta(c *gin.Context, key string, value interface{}) {
	if c == nil {
		return
	}
	meta, ok := c.Get(metaKey)
	typed, valid := meta.(map[string]interface{})
	if !ok || !valid {
		typed = map[string]interface{}{}
		c.Set(metaKey, typed)
	}
	typed[key] = value
}

// ExtractMeta returns a copy of the metadata with the elapsed time and request id filled in.
func ExtractMeta(c *gin.Context) map[string]interface{} {
	if c == nil {
		return nil
	}
	out := map[string]interface{}{}
	if meta, ok := c.Get(metaKey); ok {
		if typed, valid := meta.(map[string]interface{}); valid {
			for k, v := range typed {
				out[k] = v
			}
		}
	}
	if start, ok := c.Get(metaStartKey); ok {
		if t, valid := start.(time.Time); valid {
			out["processing_time_ms"] = time.Since(t).Milliseconds()
		}
	}
	if id := requestid.Value(c); id != "" {
		out["request_id"] = id
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
