package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/korepetycje-admin/internal/service"
)

const (
	responseMetaKey = "response_meta"
	requestStartKey = "response_meta_start"
	cacheHitKey     = "cache_hit"
)

// WithResponseMeta prepares the meta block of API responses. Cache lookups
// made while serving the request land in it, so roster and dashboard
// responses report whether they were served from Redis.
func WithResponseMeta() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(responseMetaKey, map[string]interface{}{})
		c.Set(requestStartKey, time.Now())
		ctx := service.WithCacheTrace(c.Request.Context(), func(hit bool) {
			SetCacheHit(c, hit)
		})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// SetCacheHit records whether the response came from cache. One miss marks
// the whole response as a miss.
func SetCacheHit(c *gin.Context, hit bool) {
	meta := ensureMeta(c)
	if prev, ok := meta[cacheHitKey].(bool); ok && !prev {
		return
	}
	meta[cacheHitKey] = hit
}

// ResponseMeta returns the meta block for the current response with the
// processing time filled in. It is nil outside the API group.
func ResponseMeta(c *gin.Context) map[string]interface{} {
	meta := ExtractMeta(c)
	if meta == nil {
		return nil
	}
	if start, ok := c.Get(requestStartKey); ok {
		if t, ok := start.(time.Time); ok {
			meta["processing_time_ms"] = time.Since(t).Milliseconds()
		}
	}
	return meta
}

// ExtractMeta returns the metadata map stored on the context.
func ExtractMeta(c *gin.Context) map[string]interface{} {
	if c == nil {
		return nil
	}
	if meta, exists := c.Get(responseMetaKey); exists {
		if typed, ok := meta.(map[string]interface{}); ok {
			return typed
		}
	}
	return nil
}

func ensureMeta(c *gin.Context) map[string]interface{} {
	if meta := ExtractMeta(c); meta != nil {
		return meta
	}
	meta := make(map[string]interface{})
	if c != nil {
		c.Set(responseMetaKey, meta)
	}
	return meta
}
