package api

import (
	"github.com/gin-gonic/gin"

	"github.com/nazmulhs/campushub/internal/handlers"
	"github.com/nazmulhs/campushub/internal/middleware"
	"github.com/nazmulhs/campushub/internal/permissions"
)

func registerPaymentRoutes(api *gin.RouterGroup, handler *handlers.PaymentHandler, checker *permissions.Checker) {
	group := api.Group("/payments")
	{
		group.POST("", middleware.RequireCapability(checker, permissions.CapRegistrationOwn), handler.Create)

		// List and Get scope results by the caller's role inside the service.
		group.GET("", handler.List)
		group.GET("/:id", handler.Get)

		manage := middleware.RequireCapability(checker, permissions.CapPaymentManage)
		group.PUT("/:id", manage, handler.Update)
		group.DELETE("/:id", manage, handler.Delete)
	}
}
