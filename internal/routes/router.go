package routes

import (
	"github.com/gin-gonic/gin"

	"taskflow/internal/controller"
	"taskflow/internal/middleware"
)

// Router mounts the record API. Every /api route requires a JWT whose subject owns the records.
func Router(records *controller.Records, jwtSecret string, checks ...controller.Check) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestID())

	// Health for load balancers and K8s probes
	router.GET("/health", controller.Health)
	router.GET("/ready", controller.Ready(checks...))

	api := router.Group("/api/records")
	api.Use(middleware.Auth(jwtSecret))
	{
		api.POST("/:table/query", records.Query)
		api.GET("/:table/:id", records.Get)
		api.POST("/:table", records.Create)
		api.PUT("/:table", records.Update)
		api.DELETE("/:table", records.Delete)
	}

	return router
}
