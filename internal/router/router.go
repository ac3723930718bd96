package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "vtuportal/docs" // registers the OpenAPI document
	"vtuportal/internal/handler"
	"vtuportal/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	logger *zap.Logger,
	corsOrigins []string,
	resultH *handler.ResultHandler,
	semesterH *handler.SemesterHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(corsOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")

	v1.GET("/semesters", semesterH.List)
	v1.POST("/results/evaluate", resultH.Evaluate)

	records := v1.Group("/records")
	records.GET("", resultH.List)
	records.GET("/export", resultH.Export)
	records.GET("/:usn", resultH.Lookup)
	records.GET("/:usn/history", resultH.History)

	return r
}
