package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// Lang puts the request language into the gin context for error
// translation. English is the default.
func Lang() gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := c.GetHeader("Accept-Language")
		if lang == "" {
			lang = "en"
		} else {
			lang = strings.Split(lang, ",")[0]
		}
		c.Set("lang", lang)
		c.Next()
	}
}
