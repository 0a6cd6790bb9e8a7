package api

import (
	"github.com/gin-gonic/gin"

	"github.com/nazmulhs/campushub/internal/handlers"
	"github.com/nazmulhs/campushub/internal/middleware"
	"github.com/nazmulhs/campushub/internal/permissions"
)

func registerUserRoutes(public, api *gin.RouterGroup, handler *handlers.UserHandler, checker *permissions.Checker) {
	public.GET("/stats", handler.Stats)

	group := api.Group("/users")
	{
		group.GET("/inactive", middleware.RequireCapability(checker, permissions.CapUserActivate), handler.ListInactive)
		group.POST("/:id/activate", middleware.RequireCapability(checker, permissions.CapUserActivate), handler.Activate)
	}
}
