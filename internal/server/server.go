package server

import (
	"net/http"

	"app/internal/config"
	"app/internal/handler"
	"app/internal/metrics"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// New はルーティング済みのechoを組み立てる。
func New(
	cfg config.Config,
	orderH *handler.OrderHandler,
	cartH *handler.CartHandler,
	productH *handler.ProductHandler,
	addressH *handler.AddressHandler,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())

	e.GET("/healthz", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))

	productH.RegisterRoutes(e)
	orderH.RegisterRoutes(e, cfg)
	cartH.RegisterRoutes(e, cfg)
	addressH.RegisterRoutes(e, cfg)

	return e
}
