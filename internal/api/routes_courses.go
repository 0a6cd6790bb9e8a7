package api

import (
	"github.com/gin-gonic/gin"

	"github.com/nazmulhs/campushub/internal/handlers"
	"github.com/nazmulhs/campushub/internal/middleware"
	"github.com/nazmulhs/campushub/internal/permissions"
)

func registerCourseRoutes(api *gin.RouterGroup, handler *handlers.CourseHandler, checker *permissions.Checker) {
	group := api.Group("/courses")
	{
		group.GET("", handler.List)
		group.GET("/:id", handler.Get)
		group.GET("/:id/resources", middleware.RequireCapability(checker, permissions.CapResourceView), handler.Resources)

		manage := middleware.RequireCapability(checker, permissions.CapCourseManage)
		group.POST("", manage, handler.Create)
		group.PUT("/:id", manage, handler.Update)
		group.DELETE("/:id", manage, handler.Delete)
		group.POST("/:id/resources", manage, handler.AddResource)
		group.PUT("/:id/resources", manage, handler.UpdateResource)
		group.DELETE("/:id/resources", manage, handler.DeleteResource)
	}
}
