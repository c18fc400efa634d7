package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mawucano-design/diagnostico-forrajero/internal/server/handlers"
)

// New wires the Gin engine with required routes and middlewares.
func New(handler *handlers.AnalysisHandler, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")
	{
		v1.GET("/pastures", handler.ListPastures)
		v1.POST("/analyses", handler.RunAnalysis)
		v1.GET("/analyses", handler.ListAnalyses)
		v1.GET("/analyses/:id", handler.GetAnalysis)
		v1.GET("/analyses/:id/export.csv", handler.ExportCSV)
		v1.GET("/analyses/:id/export.geojson", handler.ExportGeoJSON)
		v1.POST("/paddocks", handler.CreatePaddock)
		v1.GET("/paddocks", handler.ListPaddocks)
	}

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
