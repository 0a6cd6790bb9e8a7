package api

import (
	"github.com/gin-gonic/gin"

	"github.com/nazmulhs/campushub/internal/handlers"
	"github.com/nazmulhs/campushub/internal/middleware"
	"github.com/nazmulhs/campushub/internal/permissions"
)

func registerRoutineRoutes(api *gin.RouterGroup, handler *handlers.RoutineHandler, checker *permissions.Checker) {
	group := api.Group("/routines")
	{
		view := middleware.RequireCapability(checker, permissions.CapRoutineView)
		group.GET("", view, handler.List)
		group.GET("/:id", view, handler.Get)

		manage := middleware.RequireCapability(checker, permissions.CapRoutineManage)
		group.POST("", manage, handler.Create)
		group.PUT("/:id", manage, handler.Update)
		group.DELETE("/:id", manage, handler.Delete)
	}
}
