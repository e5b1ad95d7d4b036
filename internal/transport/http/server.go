// Package http provides the HTTP server implementation for the dispute
// caller.
package http

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/billdispute/disputecall/internal/service"
	v1 "github.com/billdispute/disputecall/internal/transport/http/v1"
)

// NewServer creates and configures the HTTP server. One server carries both
// the public dispute API and the telephony webhook surface.
func NewServer(svc *service.Service) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	// Handlers
	handler := v1.NewHandler(svc)
	handler.RegisterRoutes(e)

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	return e
}
