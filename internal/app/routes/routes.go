package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/tilab/tilab/internal/app/controllers"
	"github.com/tilab/tilab/internal/middleware"
	"github.com/tilab/tilab/internal/pkg/websocket"
)

// SetupCORS lets the browser console call the API from its dev server
func SetupCORS(router *gin.Engine, origins []string) {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		cfg.AllowCredentials = false
	} else {
		cfg.AllowOrigins = origins
	}
	router.Use(cors.New(cfg))
}

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	ctrl *controllers.Controllers,
	wsHandler *websocket.Handler,
	authMiddleware *middleware.AuthMiddleware,
) {
	router.GET("/health", ctrl.HealthController.Health)
	router.GET("/ping", ctrl.HealthController.Ping)

	// API version group
	v1 := router.Group("/api/v1")
	v1.GET("/health", ctrl.HealthController.Health)

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/login", ctrl.AuthController.Login)
	}

	// --- Change events ---
	// browser clients pass the token as ?token=
	v1.GET("/events/ws", authMiddleware.JWTAuth(), wsHandler.HandleConnection)

	// Reads are public; writes need a staff token and deletes an administrator
	records := v1.Group("")
	records.Use(authMiddleware.Authorize())

	components := records.Group("/components")
	{
		components.GET("", ctrl.ComponentController.ListComponents)
		components.GET("/:id", ctrl.ComponentController.GetComponent)
		components.POST("", ctrl.ComponentController.CreateComponent)
		components.PUT("/:id", ctrl.ComponentController.UpdateComponent)
		components.DELETE("/:id", ctrl.ComponentController.DeleteComponent)
	}

	courses := records.Group("/courses")
	{
		courses.GET("", ctrl.CourseController.ListCourses)
		courses.GET("/:id", ctrl.CourseController.GetCourse)
		courses.POST("", ctrl.CourseController.CreateCourse)
		courses.PUT("/:id", ctrl.CourseController.UpdateCourse)
		courses.DELETE("/:id", ctrl.CourseController.DeleteCourse)

		// Sections live inside their course
		courses.GET("/:id/sections", ctrl.CourseController.ListSections)
		courses.POST("/:id/sections", ctrl.CourseController.CreateSection)
		courses.PUT("/:id/sections/:sectionId", ctrl.CourseController.UpdateSection)
		courses.DELETE("/:id/sections/:sectionId", ctrl.CourseController.DeleteSection)
	}

	kits := records.Group("/kits")
	{
		kits.GET("", ctrl.KitController.ListKits)
		kits.GET("/:id", ctrl.KitController.GetKit)
		kits.POST("", ctrl.KitController.CreateKit)
		kits.PUT("/:id", ctrl.KitController.UpdateKit)
		kits.DELETE("/:id", ctrl.KitController.DeleteKit)
	}

	loans := records.Group("/loans")
	{
		loans.GET("", ctrl.LoanController.ListLoans)
		loans.GET("/active", ctrl.LoanController.ListActiveLoans)
		loans.GET("/:id", ctrl.LoanController.GetLoan)
		loans.POST("", ctrl.LoanController.CreateLoan)
		loans.PUT("/:id", ctrl.LoanController.UpdateLoan)
		loans.PUT("/:id/return", ctrl.LoanController.ReturnLoan)
	}
}
