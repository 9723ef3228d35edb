package rest

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// NewServer assembles the echo instance: middleware, error handler, and
// the query + feed routes. CORS is enabled for browser map clients; an
// empty origin list allows any origin.
func NewServer(h *Handler, feed *FeedHub, corsOrigins []string) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = ErrorHandler

	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))

	corsCfg := middleware.DefaultCORSConfig
	if len(corsOrigins) > 0 {
		corsCfg.AllowOrigins = corsOrigins
	}
	e.Use(middleware.CORSWithConfig(corsCfg))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]any{
			"status":       "ok",
			"feed_clients": feed.ClientCount(),
		})
	})

	api := e.Group("/api")
	api.POST("/get_location_history", h.HandleGetLocationHistory)
	api.POST("/get_closest_entry_by_timestamp", h.HandleGetClosestEntryByTimestamp)
	api.GET("/live", feed.Handle)

	return e
}
