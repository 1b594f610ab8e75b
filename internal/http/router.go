// README: HTTP router registration.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"daytrip/internal/http/handlers"
	"daytrip/internal/http/middleware"
)

func NewRouter(p planner) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Recovery(), middleware.Logging(), middleware.ClientIdentity())
	r.SetHTMLTemplate(handlers.Templates())

	planHandler := handlers.NewPlanHandler(p)
	r.GET("/", planHandler.Form)
	r.POST("/", planHandler.Submit)
	r.POST("/api/plans", planHandler.Create)

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	return r
}
