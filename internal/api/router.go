package api

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/nazmulhs/campushub/internal/app"
	iauth "github.com/nazmulhs/campushub/internal/auth"
	"github.com/nazmulhs/campushub/internal/handlers"
	"github.com/nazmulhs/campushub/internal/media"
	"github.com/nazmulhs/campushub/internal/middleware"
	"github.com/nazmulhs/campushub/internal/permissions"
	"github.com/nazmulhs/campushub/internal/realtime"
	"github.com/nazmulhs/campushub/internal/services"
	"github.com/nazmulhs/campushub/pkg/mail"
)

// Dependencies bundles the shared collaborators the router wires into handlers.
// Mailer, Uploader, and RateStore are optional; nil disables the feature.
type Dependencies struct {
	DB        *gorm.DB
	JWT       *iauth.JWTService
	Config    *app.Config
	Hub       *realtime.Hub
	Mailer    mail.Mailer
	Uploader  media.Uploader
	RateStore middleware.RateStore
}

// NewRouter builds the Gin engine, wires middleware and registers all routes.
func NewRouter(deps Dependencies) (*gin.Engine, error) {
	if deps.DB == nil {
		return nil, fmt.Errorf("database handle must be provided")
	}
	if deps.JWT == nil {
		return nil, fmt.Errorf("jwt service must be provided")
	}
	if deps.Config == nil {
		return nil, fmt.Errorf("config must be provided")
	}

	notificationService, err := services.NewNotificationService(deps.DB, deps.Hub)
	if err != nil {
		return nil, err
	}
	otpService, err := services.NewOTPService(deps.DB, deps.Mailer, notificationService, deps.Hub)
	if err != nil {
		return nil, err
	}
	userService, err := services.NewUserService(deps.DB, deps.JWT, otpService, deps.Uploader, deps.Hub, deps.Config.University.Domain)
	if err != nil {
		return nil, err
	}
	departmentService, err := services.NewDepartmentService(deps.DB)
	if err != nil {
		return nil, err
	}
	courseService, err := services.NewCourseService(deps.DB, deps.Uploader, notificationService)
	if err != nil {
		return nil, err
	}
	registrationService, err := services.NewRegistrationService(deps.DB)
	if err != nil {
		return nil, err
	}
	paymentService, err := services.NewPaymentService(deps.DB, notificationService)
	if err != nil {
		return nil, err
	}
	eventService, err := services.NewEventService(deps.DB, deps.Mailer, notificationService)
	if err != nil {
		return nil, err
	}
	guestService, err := services.NewGuestService(deps.DB, deps.JWT, deps.Mailer, eventService)
	if err != nil {
		return nil, err
	}
	routineService, err := services.NewRoutineService(deps.DB, notificationService)
	if err != nil {
		return nil, err
	}

	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.Metrics())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS())
	rl := deps.Config.Server.RateLimit
	r.Use(middleware.RateLimit(deps.RateStore, rl.Requests, rl.Window))

	r.GET("/health", handlers.Health())
	if deps.Config.Monitoring.Prometheus.Enabled {
		endpoint := deps.Config.Monitoring.Prometheus.Endpoint
		if endpoint == "" {
			endpoint = "/metrics"
		}
		r.GET(endpoint, gin.WrapH(promhttp.Handler()))
	}

	checker := permissions.NewChecker()
	requireAuth := middleware.Auth(deps.JWT, deps.DB)
	requireGuest := middleware.GuestAuth(deps.JWT)

	public := r.Group("/api")
	api := r.Group("/api")
	api.Use(requireAuth)
	guest := r.Group("/api/guest")
	guest.Use(requireGuest)

	authHandler := handlers.NewAuthHandler(userService, otpService)
	userHandler := handlers.NewUserHandler(userService)
	departmentHandler := handlers.NewDepartmentHandler(departmentService)
	courseHandler := handlers.NewCourseHandler(courseService)
	registrationHandler := handlers.NewRegistrationHandler(registrationService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	eventHandler := handlers.NewEventHandler(eventService)
	guestHandler := handlers.NewGuestHandler(guestService)
	routineHandler := handlers.NewRoutineHandler(routineService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	realtimeHandler := handlers.NewRealtimeHandler(deps.Hub, deps.JWT)

	registerAuthRoutes(public, api, authHandler, userHandler)
	registerUserRoutes(public, api, userHandler, checker)
	registerDepartmentRoutes(public, api, departmentHandler, checker)
	registerCourseRoutes(api, courseHandler, checker)
	registerRegistrationRoutes(api, registrationHandler, checker)
	registerPaymentRoutes(api, paymentHandler, checker)
	registerEventRoutes(api, eventHandler, guestHandler, checker)
	registerGuestRoutes(public, guest, guestHandler)
	registerRoutineRoutes(api, routineHandler, checker)
	registerNotificationRoutes(api, notificationHandler, checker)

	// The websocket handler authenticates from the token query parameter
	// because browsers cannot set headers on websocket dials.
	public.GET("/ws", realtimeHandler.Stream)

	r.NoRoute(middleware.NotFoundHandler)

	return r, nil
}
