// internal/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"fiscal-print-service/internal/config"
	"fiscal-print-service/internal/handler"
	"fiscal-print-service/internal/middleware"
	"fiscal-print-service/internal/service"
	"fiscal-print-service/internal/utils"
)

// Router holds all dependencies for routing
type Router struct {
	config       *config.Config
	logger       *zap.Logger
	printService *service.PrintService
}

// NewRouter creates a new router instance
func NewRouter(config *config.Config, logger *zap.Logger, printService *service.PrintService) *Router {
	return &Router{
		config:       config,
		logger:       logger,
		printService: printService,
	}
}

// SetupRouter creates and configures the Gin router
func (r *Router) SetupRouter() *gin.Engine {
	if r.config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()

	r.addMiddleware(router)
	r.addRoutes(router)

	return router
}

// addMiddleware adds middleware to the router
func (r *Router) addMiddleware(router *gin.Engine) {
	router.Use(middleware.RecoveryMiddleware(r.logger))
	router.Use(middleware.RequestIDMiddleware())

	serviceLogger := utils.NewServiceLogger(r.logger, "http-server")
	router.Use(middleware.LoggingMiddleware(serviceLogger))

	router.Use(middleware.CORSMiddleware(&r.config.Server))
}

// addRoutes sets up all application routes
func (r *Router) addRoutes(router *gin.Engine) {
	printHandler := handler.NewPrintHandler(r.printService, r.logger)
	wsHandler := handler.NewWebSocketHandler(r.printService, r.logger)

	router.GET("/", printHandler.Liveness)
	router.GET("/printers", printHandler.ListPrinters)
	router.POST("/print", printHandler.Print)
	router.POST("/print/test", printHandler.PrintTest)

	router.GET("/ws", wsHandler.HandleConnection)

	r.logger.Info("All routes configured successfully")
}
