package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/secondbrain-ai/deal-intel/internal/infrastructure/http/middleware"
	"github.com/secondbrain-ai/deal-intel/pkg/config"
	"github.com/secondbrain-ai/deal-intel/pkg/jwt"
)

// Router holds all handlers
type Router struct {
	cfg            *config.Config
	tokens         *jwt.Manager
	authHandler    *Auth
	meetingHandler *Meeting
}

// NewRouter creates a new router with all handlers
func NewRouter(cfg *config.Config, tokens *jwt.Manager, authHandler *Auth, meetingHandler *Meeting) *Router {
	return &Router{
		cfg:            cfg,
		tokens:         tokens,
		authHandler:    authHandler,
		meetingHandler: meetingHandler,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", rt.healthCheck)

	// Swagger UI
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	rt.setupAuthRoutes(api)
	rt.setupMeetingRoutes(api)
}

// setupAuthRoutes configures authentication routes
func (rt *Router) setupAuthRoutes(g *echo.Group) {
	authGroup := g.Group("/auth")

	authGroup.POST("/register", rt.authHandler.Register)
	authGroup.POST("/login", rt.authHandler.Login)

	protected := authGroup.Group("", middleware.EchoAuth(rt.tokens))
	protected.GET("/me", rt.authHandler.Me)
	protected.POST("/request-otp", rt.authHandler.RequestOTP)
	protected.POST("/verify-email", rt.authHandler.VerifyEmail)
	protected.POST("/verify-phone", rt.authHandler.VerifyPhone)
}

// setupMeetingRoutes configures deal-intelligence record routes
func (rt *Router) setupMeetingRoutes(g *echo.Group) {
	meetingGroup := g.Group("/meetings", middleware.EchoAuth(rt.tokens))

	meetingGroup.POST("", rt.meetingHandler.Create)
	meetingGroup.GET("", rt.meetingHandler.List)
	meetingGroup.GET("/stats", rt.meetingHandler.Stats)
	meetingGroup.GET("/get/:id", rt.meetingHandler.Get)
}

// healthCheck returns health status
func (rt *Router) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"environment": rt.cfg.Server.Environment,
	})
}
