package routes

import (
	"net/http"
	"time"

	"homely/handlers"
	"homely/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterCatalogRoutes registers the catalog read endpoints.
func RegisterCatalogRoutes(r *gin.Engine) {
	api := r.Group("/api/services")
	{
		api.GET("", handlers.ListOfferings)
		api.GET("/:serviceID", handlers.GetOffering)
	}
}

// RegisterCustomerRoutes registers saved-address and payment-method reads.
func RegisterCustomerRoutes(r *gin.Engine) {
	api := r.Group("/api/customer")
	{
		api.Use(middleware.CustomerAuthMiddleware())
		api.GET("/addresses", handlers.ListAddresses)
		api.GET("/payment-methods", handlers.ListPaymentMethods)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Hi, I'm Homely"})
	})
}

// RegisterDraftRoutes sets up the endpoints for the booking wizard.
func RegisterDraftRoutes(r *gin.Engine) {
	draftGroup := r.Group("/api/drafts")
	{
		draftGroup.Use(middleware.CustomerAuthMiddleware())
		draftGroup.POST("", handlers.StartDraft)
		draftGroup.GET("/:draftID", handlers.GetDraft)
		draftGroup.PUT("/:draftID/service", handlers.SetService)
		draftGroup.PUT("/:draftID/location", handlers.SetLocation)
		draftGroup.PUT("/:draftID/schedule", handlers.SetSchedule)
		draftGroup.PUT("/:draftID/fulfillment", handlers.SetFulfillment)
		draftGroup.PUT("/:draftID/extras", handlers.SetExtras)
		draftGroup.PUT("/:draftID/step", handlers.GoToStep)
		draftGroup.POST("/:draftID/preview/retry", handlers.RetryPreview)
		draftGroup.POST("/:draftID/submit", handlers.SubmitDraft)
		draftGroup.DELETE("/:draftID", handlers.AbandonDraft)
	}
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r)
	RegisterCatalogRoutes(r)
	RegisterCustomerRoutes(r)
	RegisterDraftRoutes(r)
}
