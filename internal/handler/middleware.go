package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/BloggingApp/social-service/internal/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (h *Handler) loggerMiddleware(c *gin.Context) {
	start := time.Now()

	c.Next()

	route := c.FullPath()
	if route == "" {
		route = "unmatched"
	}
	status := c.Writer.Status()
	h.metrics.HTTPRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).Inc()
	h.metrics.HTTPDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())

	h.logger.Info("HTTP Request",
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Int("status", status),
		zap.Int("bytes", c.Writer.Size()),
		zap.Duration("duration", time.Since(start)),
		zap.String("clientIP", c.ClientIP()),
	)
}

func (h *Handler) recoveryMiddleware(c *gin.Context) {
	defer func() {
		if rec := recover(); rec != nil {
			h.logger.Error("panic while serving request",
				zap.Any("panic", rec),
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
				zap.Stack("stack"),
			)
			c.AbortWithStatusJSON(http.StatusInternalServerError, dto.NewMessageResponse(errInternal.Error()))
		}
	}()

	c.Next()
}
