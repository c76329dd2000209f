package route

import (
	"github.com/gin-contrib/static"
	"github.com/gin-gonic/gin"
)

// SetRouter wires the API and the static upload page. The dashboard itself
// is a separate frontend deploy; we only host the lightweight visitor page
// under ./public.
func SetRouter(route *gin.Engine) {
	SetApiRouter(route)
	setWebRouter(route)
}

func setWebRouter(route *gin.Engine) {
	route.Use(static.Serve("/", static.LocalFile("./public", false)))
}
