package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/opskrifter/internal/middleware"
	"github.com/pageza/opskrifter/internal/service"
)

// Deps are the collaborators of the API routes. ImageService, Limiter and
// Ping may be nil.
type Deps struct {
	RecipeService service.IRecipeService
	ImageService  service.IImageService
	Limiter       *middleware.RateLimiter
	Ping          func(ctx context.Context) error
}

// HealthCheck returns the health status of the API
func HealthCheck(ping func(ctx context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if ping != nil {
			if err := ping(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"status":  "unhealthy",
					"message": "database unavailable",
				})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "Opskrifter API is running",
			"version": "v1.0.0",
		})
	}
}

// NewRouter builds the gin engine with the common middleware stack
func NewRouter(corsOrigins []string) *gin.Engine {
	router := gin.New()
	router.Use(middleware.RequestID(), middleware.Recovery(), middleware.CORS(corsOrigins))
	return router
}

// RegisterRoutes registers all API routes at the root and under /api/v1
func RegisterRoutes(router *gin.Engine, deps Deps) {
	router.GET("/health", HealthCheck(deps.Ping))
	router.NoRoute(func(c *gin.Context) {
		middleware.AbortWithError(c, http.StatusNotFound, "not_found", "Siden findes ikke")
	})

	recipeHandler := NewRecipeHandler(deps.RecipeService, deps.Limiter)
	var imageHandler *ImageHandler
	if deps.ImageService != nil {
		imageHandler = NewImageHandler(deps.RecipeService, deps.ImageService)
	}

	for _, group := range []gin.IRouter{router, router.Group("/api/v1")} {
		recipeHandler.RegisterRoutes(group)
		if imageHandler != nil {
			imageHandler.RegisterRoutes(group)
		}
	}
}
