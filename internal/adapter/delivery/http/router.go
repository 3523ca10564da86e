package http

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	handler "archive-registry/internal/adapter/handler/http"
)

// RegisterRoutes sets up the registry routes and the health check.
func RegisterRoutes(r *router.Router, h *handler.RegistryHandler, logger *zap.Logger) {
	logger.Info("Setting up application-specific routes...")

	r.GET("/archives", h.ListArchives)
	r.GET("/networks/{network}/providers", h.GetProviders)
	r.GET("/networks/{network}/endpoint", h.GetEndpoint)
	r.GET("/networks/{network}/info", h.GetNetworkInfo)
	r.POST("/registry/reload", h.Reload)

	logger.Info("Setting up health check route...")
	r.GET("/health", func(ctx *fasthttp.RequestCtx) {
		ctx.SetStatusCode(fasthttp.StatusOK)
		ctx.SetBodyString("OK")
	})

	logger.Info("All routes registered.")
}

// LoggingMiddleware logs every request before passing it on.
func LoggingMiddleware(next fasthttp.RequestHandler, logger *zap.Logger) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		logger.Info("Request received",
			zap.ByteString("method", ctx.Method()),
			zap.ByteString("uri", ctx.RequestURI()))
		next(ctx)
	}
}
