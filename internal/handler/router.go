package handler

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/AyanAlikhan11/connext-Alumni/internal/middleware"
	"github.com/AyanAlikhan11/connext-Alumni/pkg/log"
)

const maxBodyBytes = 1 << 20 // 1MB

// NewRouter assembles the gin engine with the full middleware chain and both
// handler surfaces.
func NewRouter(logger zerolog.Logger, frontendOrigin string, limiter *middleware.RateLimiter, httpHandler *Handler, wsHandler *WSHandler) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.MaxBodySize(maxBodyBytes))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{frontendOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		AllowCredentials: true,
	}))
	r.Use(log.GinMiddleware(logger))
	r.Use(limiter.Middleware())

	httpHandler.RegisterRoutes(r)
	wsHandler.RegisterRoutes(r)

	return r
}
