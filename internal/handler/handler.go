package handler

import (
	"context"
	"net/http"
	"time"

	_ "github.com/BloggingApp/social-service/docs" // swagger docs
	"github.com/BloggingApp/social-service/internal/metrics"
	"github.com/BloggingApp/social-service/internal/service"
	"github.com/BloggingApp/social-service/pkg/utils"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

const PING_TIMEOUT = 2 * time.Second

type Handler struct {
	services     *service.Service
	tokens       *utils.TokenManager
	metrics      *metrics.Collector
	logger       *zap.Logger
	clientOrigin string
}

func New(services *service.Service, tokens *utils.TokenManager, collector *metrics.Collector, logger *zap.Logger, clientOrigin string) *Handler {
	if clientOrigin == "" {
		clientOrigin = "*"
	}

	return &Handler{
		services:     services,
		tokens:       tokens,
		metrics:      collector,
		logger:       logger,
		clientOrigin: clientOrigin,
	}
}

func (h *Handler) InitRoutes() *gin.Engine {
	registerJSONTagNames()

	r := gin.New()

	r.Use(h.loggerMiddleware, h.recoveryMiddleware)

	corsConfig := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if h.clientOrigin == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = []string{h.clientOrigin}
		corsConfig.AllowCredentials = true
	}
	r.Use(cors.New(corsConfig))

	r.GET("/health", h.health)
	r.GET("/metrics", gin.WrapH(h.metrics.Handler()))

	api := r.Group("/api")
	{
		api.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

		auth := api.Group("/auth")
		{
			auth.POST("/signup", h.authSignup)
			auth.POST("/signin", h.authSignin)
			auth.GET("/me", h.authMiddleware, h.authMe)
		}

		posts := api.Group("/post")
		{
			posts.GET("", h.postsList)
			posts.POST("", h.authMiddleware, h.postsCreate)

			post := posts.Group("/:id")
			{
				post.GET("", h.postsGetByID)
				post.PUT("", h.authMiddleware, h.postsUpdate)
				post.DELETE("", h.authMiddleware, h.postsDelete)
				post.POST("/like", h.authMiddleware, h.likesToggle)
				post.GET("/comments", h.commentsThread)
				post.POST("/comment", h.authMiddleware, h.commentsCreate)
				post.DELETE("/comment/:commentId", h.authMiddleware, h.commentsDelete)
			}
		}
	}

	return r
}

func (h *Handler) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), PING_TIMEOUT)
	defer cancel()

	if err := h.services.Ping(ctx); err != nil {
		h.logger.Sugar().Errorf("failed to ping store: %s", err.Error())
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
