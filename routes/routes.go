package routes

import (
	"domik/handlers"
	"domik/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterAdminRoutes wires the management API under /api/admin.
func RegisterAdminRoutes(r *gin.Engine, h *handlers.AdminHandler) {
	api := r.Group("/api/admin")
	api.Use(middleware.RateLimitMiddleware())

	api.POST("/login", h.Login)

	authorized := api.Group("/")
	authorized.Use(middleware.JWTAuthAdminMiddleware())
	{
		authorized.GET("/resources", h.ListResources)
		authorized.POST("/resources", h.CreateResource)
		authorized.PUT("/resources/:id", h.UpdateResource)
		authorized.DELETE("/resources/:id", h.DeleteResource)

		authorized.GET("/resources/:id/images", h.ListImages)
		authorized.POST("/resources/:id/images", h.UploadImages)
		authorized.DELETE("/images/:id", h.DeleteImage)

		authorized.GET("/bookings", h.ListBookings)
		authorized.DELETE("/bookings/:id", h.DeleteBooking)
	}
}
