package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	flashCookie     = "flash"
	flashContextKey = "flash"
	flashMaxAge     = 60
)

// Flash kinds rendered as toasts.
const (
	FlashSuccess = "success"
	FlashError   = "error"
)

// Flash is a one-shot message carried across a redirect.
type Flash struct {
	Kind    string
	Message string
}

// SetFlash queues a message for the next rendered page.
func SetFlash(c *gin.Context, kind, message string) {
	c.SetCookie(flashCookie, kind+"|"+message, flashMaxAge, "/", "", false, true)
}

// Flashes moves a pending flash cookie onto the request context and expires it.
func Flashes() gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw, err := c.Cookie(flashCookie); err == nil && raw != "" {
			kind, message, found := strings.Cut(raw, "|")
			if !found {
				kind, message = FlashSuccess, raw
			}
			c.Set(flashContextKey, &Flash{Kind: kind, Message: message})
			c.SetCookie(flashCookie, "", -1, "/", "", false, true)
		}
		c.Next()
	}
}

// FlashFrom returns the flash read by Flashes, if any.
func FlashFrom(c *gin.Context) *Flash {
	value, ok := c.Get(flashContextKey)
	if !ok {
		return nil
	}
	flash, _ := value.(*Flash)
	return flash
}
