package handler

import (
	"net/http"

	"github.com/deppfellow/media-library/internal/model"
	"github.com/deppfellow/media-library/internal/server"
	"github.com/deppfellow/media-library/internal/service"
	"github.com/deppfellow/media-library/internal/validation"
	"github.com/labstack/echo/v4"
)

// GenreHandler serves the read-only genre API.
type GenreHandler struct {
	Handler
	genres *service.GenreService
}

func NewGenreHandler(s *server.Server, genres *service.GenreService) *GenreHandler {
	return &GenreHandler{Handler: NewHandler(s), genres: genres}
}

func (h *GenreHandler) listGenres(c echo.Context, _ *validation.NoParams) ([]model.Genre, error) {
	return h.genres.List(c.Request().Context())
}

// ListGenresAPI handles GET /api/genres.
func (h *GenreHandler) ListGenresAPI() echo.HandlerFunc {
	return Handle(h.Handler, h.listGenres, http.StatusOK, newNoParams)
}
