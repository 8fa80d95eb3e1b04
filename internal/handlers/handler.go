package handlers

import (
	"blog_backend/internal/logger"
	"blog_backend/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
	cfg      Config
}

// Config carries the request-surface settings resolved at startup.
type Config struct {
	AllowedOrigin string // single frontend origin allowed by CORS
	UploadsDir    string // directory served at /uploads; empty disables the mount
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger, cfg Config) *Handler {
	return &Handler{services: services, log: log, cfg: cfg}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	if h.cfg.AllowedOrigin != "" {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     []string{h.cfg.AllowedOrigin},
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Authorization", "Content-Type"},
			AllowCredentials: true,
		}))
	}

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health endpoint
	router.GET("/health", h.health)

	// Uploaded images are served by the same process
	if h.cfg.UploadsDir != "" {
		router.Static("/uploads", h.cfg.UploadsDir)
	}

	h.registerAPIRoutes(router)

	// Live post feed over WebSocket — same port
	router.GET("/ws", h.wsFeed)

	return router
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api")
	{
		api.POST("/register", h.register)
		api.POST("/login", h.login)

		posts := api.Group("/posts", h.identityMiddleware)
		{
			posts.POST("", h.createPost)
			posts.GET("", h.listPosts)
			posts.GET("/user/:userId", h.listPostsByUser)
			posts.GET("/:id", h.getPost)
			posts.PUT("/:id", h.updatePost)
			posts.DELETE("/:id", h.deletePost)
		}
	}
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(200, gin.H{"status": "ok"})
}
