package api

import (
	"github.com/gin-gonic/gin"

	"github.com/nazmulhs/campushub/internal/handlers"
)

func registerGuestRoutes(public, guest *gin.RouterGroup, handler *handlers.GuestHandler) {
	public.POST("/events/guests/login", handler.Login)

	group := guest.Group("/events")
	{
		group.GET("", handler.ListEvents)
		group.GET("/:id", handler.GetEvent)
	}
}
