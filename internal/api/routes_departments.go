package api

import (
	"github.com/gin-gonic/gin"

	"github.com/nazmulhs/campushub/internal/handlers"
	"github.com/nazmulhs/campushub/internal/middleware"
	"github.com/nazmulhs/campushub/internal/permissions"
)

func registerDepartmentRoutes(public, api *gin.RouterGroup, handler *handlers.DepartmentHandler, checker *permissions.Checker) {
	// The catalog is public so the registration form can offer choices.
	public.GET("/departments", handler.List)
	public.GET("/departments/:id", handler.Get)

	api.POST("/departments", middleware.RequireCapability(checker, permissions.CapDepartmentManage), handler.Create)
}
