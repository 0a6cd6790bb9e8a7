package api

import (
	"github.com/gin-gonic/gin"

	"github.com/nazmulhs/campushub/internal/handlers"
	"github.com/nazmulhs/campushub/internal/middleware"
	"github.com/nazmulhs/campushub/internal/permissions"
)

func registerRegistrationRoutes(api *gin.RouterGroup, handler *handlers.RegistrationHandler, checker *permissions.Checker) {
	own := middleware.RequireCapability(checker, permissions.CapRegistrationOwn)

	group := api.Group("/registrations")
	{
		group.POST("", own, handler.Create)
		group.GET("", own, handler.List)
		group.GET("/:id", own, handler.Get)
		group.PUT("/:id", own, handler.UpdateSection)
		group.DELETE("/:id", own, handler.Delete)
	}
}
