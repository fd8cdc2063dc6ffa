// Package router initializes the HTTP router (using Echo).
//
// It registers the middlewares and the HTML renderer, and maps the
// album pages, the JSON API and the system routes to their handlers.
package router

import (
	"fmt"
	"net/http"

	"github.com/deppfellow/media-library/internal/handler"
	"github.com/deppfellow/media-library/internal/middleware"
	"github.com/deppfellow/media-library/internal/server"
	"github.com/deppfellow/media-library/internal/web"
	"github.com/labstack/echo/v4"
)

// NewRouter builds the Echo instance with the full middleware stack.
//
// Middleware order matters: the request id must exist before the context
// logger is built, and the New Relic transaction must exist before it is
// enhanced or read by the context logger.
func NewRouter(s *server.Server, h *handler.Handlers) (*echo.Echo, error) {
	middlewares := middleware.NewMiddlewares(s)

	renderer, err := web.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}
	for _, page := range web.Pages {
		if !renderer.Has(page) {
			return nil, fmt.Errorf("missing page template %q", page)
		}
	}

	router := echo.New()
	router.HideBanner = true
	router.HidePort = true
	router.Renderer = renderer
	router.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler

	router.Use(
		middleware.RequestID(),
		middlewares.Tracing.NewRelicMiddleware(),
		middlewares.Tracing.EnhanceTracing(),
		middlewares.ContextEnhancer.EnhanceContext(),
		middlewares.Global.RequestLogger(),
		middlewares.Global.Recover(),
		middlewares.Global.Secure(),
		middlewares.Global.CORS(),
	)

	registerSystemRoutes(router, h)
	registerAlbumRoutes(router, h, middlewares)
	registerAPIRoutes(router.Group("/api"), h, middlewares)

	return router, nil
}

func registerAlbumRoutes(r *echo.Echo, h *handler.Handlers, m *middleware.Middlewares) {
	r.GET("/", h.Index.Index())

	// The listing lives at /albums/; the bare path redirects to it.
	r.GET("/albums", func(c echo.Context) error {
		return c.Redirect(http.StatusMovedPermanently, "/albums/")
	})

	albums := r.Group("/albums")
	albums.GET("/", h.Album.ListAlbums())
	albums.GET("/new", h.Album.NewAlbum())
	albums.POST("/new", h.Album.CreateAlbum(), m.RateLimit.FormLimiter())
	albums.GET("/:id", h.Album.ViewAlbum())
}

func registerAPIRoutes(api *echo.Group, h *handler.Handlers, m *middleware.Middlewares) {
	api.GET("/albums", h.Album.ListAlbumsAPI())
	api.POST("/albums", h.Album.CreateAlbumAPI(), m.RateLimit.FormLimiter())
	api.GET("/albums/:id", h.Album.GetAlbumAPI())
	api.GET("/genres", h.Genre.ListGenresAPI())
}
