package api

import (
	"github.com/gin-gonic/gin"

	"github.com/nazmulhs/campushub/internal/handlers"
)

func registerAuthRoutes(public, api *gin.RouterGroup, auth *handlers.AuthHandler, users *handlers.UserHandler) {
	group := public.Group("/auth")
	{
		group.POST("/register", auth.Register)
		group.POST("/login", auth.Login)
		group.POST("/verify-otp", auth.VerifyOTP)
		group.POST("/resend-otp", auth.ResendOTP)
	}

	me := api.Group("/auth/me")
	{
		me.GET("", auth.Me)
		me.PUT("", auth.UpdateMe)
		me.PUT("/picture", users.UpdateProfilePicture)
	}
}
