package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/socialmedia-server/internal/config"
	"github.com/vovakirdan/socialmedia-server/internal/metrics"
	"github.com/vovakirdan/socialmedia-server/internal/service/accounts"
	"github.com/vovakirdan/socialmedia-server/internal/service/messages"
)

// NewServer builds an HTTP server serving the account and message API.
func NewServer(accountSvc *accounts.Service, messageSvc *messages.Service, cfg *config.Config, logger *zerolog.Logger) *stdhttp.Server {
	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           NewRouter(accountSvc, messageSvc, cfg.MetricsEnabled, logger),
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

// NewRouter registers every route on a fresh gin engine.
func NewRouter(accountSvc *accounts.Service, messageSvc *messages.Service, metricsEnabled bool, logger *zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestIDMiddleware(), LoggerMiddleware(logger))
	if metricsEnabled {
		r.Use(metrics.Middleware())
		r.GET("/metrics", gin.WrapH(metrics.Handler()))
	}

	r.GET("/health", healthHandler)

	accountHandlers := NewAccountHandlers(accountSvc, logger)
	r.POST("/register", accountHandlers.Register)
	r.POST("/login", accountHandlers.Login)

	messageHandlers := NewMessageHandlers(messageSvc, logger)
	r.POST("/messages", messageHandlers.Post)
	r.GET("/messages", messageHandlers.List)
	r.GET("/messages/:messageId", messageHandlers.Get)
	r.DELETE("/messages/:messageId", messageHandlers.Delete)
	r.PATCH("/messages/:messageId", messageHandlers.Update)
	r.GET("/accounts/:accountId/messages", messageHandlers.ListByAccount)

	return r
}

func healthHandler(c *gin.Context) {
	c.String(stdhttp.StatusOK, "ok")
}
