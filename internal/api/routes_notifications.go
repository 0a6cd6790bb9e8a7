package api

import (
	"github.com/gin-gonic/gin"

	"github.com/nazmulhs/campushub/internal/handlers"
	"github.com/nazmulhs/campushub/internal/middleware"
	"github.com/nazmulhs/campushub/internal/permissions"
)

func registerNotificationRoutes(api *gin.RouterGroup, handler *handlers.NotificationHandler, checker *permissions.Checker) {
	view := middleware.RequireCapability(checker, permissions.CapNotificationView)

	group := api.Group("/notifications")
	{
		group.GET("", view, handler.List)
		group.POST("/read-all", view, handler.MarkAllRead)
		group.POST("/:id/read", view, handler.MarkRead)
		group.DELETE("/:id", view, handler.Delete)
	}
}
