package api

import (
	"github.com/gin-gonic/gin"

	"github.com/nazmulhs/campushub/internal/handlers"
	"github.com/nazmulhs/campushub/internal/middleware"
	"github.com/nazmulhs/campushub/internal/permissions"
)

func registerEventRoutes(api *gin.RouterGroup, handler *handlers.EventHandler, guests *handlers.GuestHandler, checker *permissions.Checker) {
	group := api.Group("/events")
	{
		group.POST("", middleware.RequireCapability(checker, permissions.CapEventCreate), handler.Create)
		group.GET("", handler.List)
		group.GET("/:id", handler.Get)

		// Management checks (creator, manager, or admin) happen in the service.
		group.PUT("/:id", handler.Update)
		group.POST("/:id/end", handler.End)
		group.GET("/:id/registrations", handler.ListRegistrations)
		group.POST("/:id/guests", guests.Invite)

		group.POST("/:id/register", handler.Register)
		group.POST("/payments", handler.SubmitPayment)
		group.POST("/payments/:id/verify", handler.VerifyPayment)
	}
}
