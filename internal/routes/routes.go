package routes

import (
	"github.com/gin-gonic/gin"

	"tasktracker/internal/handlers"
	"tasktracker/internal/middleware"
)

func SetupRoutes(
	r *gin.Engine,
	jwtKey []byte,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	taskHandler *handlers.TaskHandler,
) *gin.Engine {

	// ---- public
	auth := r.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.RefreshToken)
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ---- protected
	r.Use(middleware.AuthMiddleware(jwtKey))

	users := r.Group("/users")
	{
		users.GET("/", userHandler.GetMe)
		users.DELETE("/", userHandler.DeleteMe)
	}

	tasks := r.Group("/tasks")
	{
		tasks.GET("/", taskHandler.List)
		tasks.POST("/", taskHandler.Create)
		tasks.GET("/statistics", taskHandler.Statistics)
		tasks.GET("/export", taskHandler.Export)
		tasks.GET("/:id", taskHandler.GetByID)
		tasks.PUT("/:id", taskHandler.Update)
		tasks.DELETE("/:id", taskHandler.Delete)
	}

	return r
}
