package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tanwk/gondotrack/internal/config"
	"github.com/tanwk/gondotrack/internal/db/repository"
)

// Server represents the HTTP server
type Server struct {
	router *gin.Engine
	config *config.Config
}

// Handlers groups the route handlers wired into the server
type Handlers struct {
	Auth          AuthRoutes
	Alerts        AlertRoutes
	Projects      ProjectRoutes
	Gondolas      GondolaRoutes
	Documents     DocumentRoutes
	Repairs       RepairRoutes
	Orders        OrderRoutes
	Inspections   InspectionRoutes
	Subscriptions SubscriptionRoutes
	Users         *repository.UserRepository
}

// Route interfaces keep the router free of handler construction detail;
// the concrete types live in the handlers package.
type (
	AuthRoutes interface {
		Signup(*gin.Context)
		Login(*gin.Context)
		ForgotPassword(*gin.Context)
		ResendOTP(*gin.Context)
		VerifyOTP(*gin.Context)
		ResetPassword(*gin.Context)
		Logout(*gin.Context)
		TOTPEnroll(*gin.Context)
		TOTPConfirm(*gin.Context)
	}
	AlertRoutes interface {
		SendAlert(*gin.Context)
		ListAlertLog(*gin.Context)
	}
	ProjectRoutes interface {
		Create(*gin.Context)
		List(*gin.Context)
		Get(*gin.Context)
		Update(*gin.Context)
		Delete(*gin.Context)
	}
	GondolaRoutes interface {
		Create(*gin.Context)
		List(*gin.Context)
		Get(*gin.Context)
		Update(*gin.Context)
		Delete(*gin.Context)
		Move(*gin.Context)
		ListShifts(*gin.Context)
	}
	DocumentRoutes interface {
		Upload(*gin.Context)
		List(*gin.Context)
		Download(*gin.Context)
		Delete(*gin.Context)
	}
	RepairRoutes interface {
		Create(*gin.Context)
		List(*gin.Context)
		Resolve(*gin.Context)
	}
	OrderRoutes interface {
		Create(*gin.Context)
		Get(*gin.Context)
		ListByProject(*gin.Context)
		UpdateStatus(*gin.Context)
	}
	InspectionRoutes interface {
		Create(*gin.Context)
		List(*gin.Context)
	}
	SubscriptionRoutes interface {
		Upsert(*gin.Context)
		List(*gin.Context)
		Delete(*gin.Context)
	}
)

// NewServer creates a new API server. The session, admin and request-log
// middleware are injected so the router has no auth wiring of its own.
func NewServer(cfg *config.Config, logger *slog.Logger, h Handlers, session, admin, reqLogger gin.HandlerFunc) *Server {
	// Set Gin mode
	if cfg.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	if reqLogger != nil {
		router.Use(reqLogger)
	}

	apiGroup := router.Group("/api")
	{
		// Public auth endpoints
		authGroup := apiGroup.Group("/auth")
		{
			authGroup.POST("/signup", h.Auth.Signup)
			authGroup.POST("/login", h.Auth.Login)
			authGroup.POST("/forgot-password", h.Auth.ForgotPassword)
			authGroup.POST("/resend-otp", h.Auth.ResendOTP)
			authGroup.POST("/verify-otp", h.Auth.VerifyOTP)
			authGroup.POST("/reset-password", h.Auth.ResetPassword)
			authGroup.POST("/logout", h.Auth.Logout)

			// Second-factor enrollment requires a session
			totp := authGroup.Group("/totp")
			totp.Use(session)
			{
				totp.POST("/enroll", h.Auth.TOTPEnroll)
				totp.POST("/confirm", h.Auth.TOTPConfirm)
			}
		}

		// Everything below requires a session
		protected := apiGroup.Group("")
		protected.Use(session)
		{
			protected.POST("/send-cert-alert", h.Alerts.SendAlert)

			projects := protected.Group("/projects")
			{
				projects.POST("", h.Projects.Create)
				projects.GET("", h.Projects.List)
				projects.GET("/:id", h.Projects.Get)
				projects.PUT("/:id", h.Projects.Update)
				projects.DELETE("/:id", h.Projects.Delete)
			}

			gondolas := protected.Group("/gondolas")
			{
				gondolas.POST("", h.Gondolas.Create)
				gondolas.GET("", h.Gondolas.List)
				gondolas.GET("/:id", h.Gondolas.Get)
				gondolas.PUT("/:id", h.Gondolas.Update)
				gondolas.DELETE("/:id", h.Gondolas.Delete)
				gondolas.POST("/:id/move", h.Gondolas.Move)
				gondolas.GET("/:id/shifts", h.Gondolas.ListShifts)
				gondolas.POST("/:id/documents", h.Documents.Upload)
				gondolas.GET("/:id/documents", h.Documents.List)
				gondolas.POST("/:id/repairs", h.Repairs.Create)
				gondolas.GET("/:id/repairs", h.Repairs.List)
				gondolas.POST("/:id/inspections", h.Inspections.Create)
				gondolas.GET("/:id/inspections", h.Inspections.List)
			}

			documents := protected.Group("/documents")
			{
				documents.GET("/:id/file", h.Documents.Download)
				documents.DELETE("/:id", h.Documents.Delete)
			}

			protected.POST("/repairs/:id/resolve", h.Repairs.Resolve)

			orders := protected.Group("/delivery-orders")
			{
				orders.POST("", h.Orders.Create)
				orders.GET("", h.Orders.ListByProject)
				orders.GET("/:id", h.Orders.Get)
				orders.POST("/:id/status", h.Orders.UpdateStatus)
			}

			subscriptions := protected.Group("/subscriptions")
			{
				subscriptions.POST("", h.Subscriptions.Upsert)
				subscriptions.GET("", h.Subscriptions.List)
				subscriptions.DELETE("/:id", h.Subscriptions.Delete)
			}
		}

		// Admin endpoints (require admin token)
		adminGroup := apiGroup.Group("/admin")
		adminGroup.Use(admin)
		{
			adminGroup.GET("/users", func(c *gin.Context) {
				users, err := h.Users.List()
				if err != nil {
					logger.Error("failed to list users", "error", err)
					RespondError(c, http.StatusInternalServerError, CodeDependency, "Failed to list users")
					return
				}
				RespondSuccess(c, users)
			})
			adminGroup.GET("/alert-log", h.Alerts.ListAlertLog)
		}
	}

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	return &Server{
		router: router,
		config: cfg,
	}
}

// Run starts the HTTP server
func (s *Server) Run() error {
	return s.router.Run(s.config.Server.ListenAddr)
}

// Router returns the underlying Gin router
func (s *Server) Router() *gin.Engine {
	return s.router
}
