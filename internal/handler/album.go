package handler

import (
	"net/http"

	"github.com/deppfellow/media-library/internal/errs"
	"github.com/deppfellow/media-library/internal/middleware"
	"github.com/deppfellow/media-library/internal/model"
	"github.com/deppfellow/media-library/internal/server"
	"github.com/deppfellow/media-library/internal/service"
	"github.com/deppfellow/media-library/internal/validation"
	"github.com/deppfellow/media-library/internal/web"
	"github.com/labstack/echo/v4"
)

// AlbumHandler serves the album pages and the album JSON API.
type AlbumHandler struct {
	Handler
	albums *service.AlbumService
	genres *service.GenreService
}

func NewAlbumHandler(s *server.Server, albums *service.AlbumService, genres *service.GenreService) *AlbumHandler {
	return &AlbumHandler{
		Handler: NewHandler(s),
		albums:  albums,
		genres:  genres,
	}
}

// AlbumListPage is the data of the album listing.
type AlbumListPage struct {
	Albums []model.Album
}

// AlbumPage is the data of the album detail page.
type AlbumPage struct {
	Album *model.Album
}

// AlbumFormPage is the data of the creation form.
type AlbumFormPage struct {
	Form   *validation.AlbumForm
	Genres []model.Genre
	Errors map[string][]string
}

func (h *AlbumHandler) newForm() *validation.AlbumForm {
	return validation.NewAlbumForm(h.now)
}

func newNoParams() *validation.NoParams {
	return &validation.NoParams{}
}

func newAlbumIDParam() *validation.AlbumIDParam {
	return &validation.AlbumIDParam{}
}

// ---------------- HTML -------------------------------------------------------

func (h *AlbumHandler) listAlbums(c echo.Context, _ *validation.NoParams) (*AlbumListPage, error) {
	albums, err := h.albums.List(c.Request().Context())
	if err != nil {
		return nil, err
	}
	return &AlbumListPage{Albums: albums}, nil
}

func (h *AlbumHandler) viewAlbum(c echo.Context, req *validation.AlbumIDParam) (*AlbumPage, error) {
	album, err := h.albums.Get(c.Request().Context(), req.AlbumID())
	if err != nil {
		return nil, err
	}
	return &AlbumPage{Album: album}, nil
}

func (h *AlbumHandler) formPage(c echo.Context, form *validation.AlbumForm, fieldErrors map[string][]string) (*AlbumFormPage, error) {
	genres, err := h.genres.List(c.Request().Context())
	if err != nil {
		return nil, err
	}
	return &AlbumFormPage{Form: form, Genres: genres, Errors: fieldErrors}, nil
}

func (h *AlbumHandler) newAlbum(c echo.Context, _ *validation.NoParams) (*AlbumFormPage, error) {
	return h.formPage(c, h.newForm(), nil)
}

func (h *AlbumHandler) createAlbum(c echo.Context, form *validation.AlbumForm) (*model.Album, error) {
	return h.albums.Create(c.Request().Context(), form)
}

// renderInvalidForm shows the submitted form again with its field errors.
func (h *AlbumHandler) renderInvalidForm(c echo.Context, form *validation.AlbumForm, err *errs.HTTPError) error {
	middleware.GetLogger(c).Info().
		Interface("errors", err.Errors).
		Msg("album form rejected")

	page, pageErr := h.formPage(c, form, err.FieldMessages())
	if pageErr != nil {
		return pageErr
	}
	return c.Render(http.StatusBadRequest, web.PageNewAlbum, page)
}

// ListAlbums handles GET /albums/.
func (h *AlbumHandler) ListAlbums() echo.HandlerFunc {
	return HandlePage(h.Handler, h.listAlbums, web.PageListAlbums, newNoParams)
}

// ViewAlbum handles GET /albums/:id. Unknown or non-numeric ids are 404.
func (h *AlbumHandler) ViewAlbum() echo.HandlerFunc {
	return HandlePage(h.Handler, h.viewAlbum, web.PageViewAlbum, newAlbumIDParam)
}

// NewAlbum handles GET /albums/new with an empty form.
func (h *AlbumHandler) NewAlbum() echo.HandlerFunc {
	return HandlePage(h.Handler, h.newAlbum, web.PageNewAlbum, newNoParams)
}

// CreateAlbum handles POST /albums/new.
func (h *AlbumHandler) CreateAlbum() echo.HandlerFunc {
	return HandleForm(h.Handler, h.createAlbum, "/albums/", h.newForm, h.renderInvalidForm)
}

// ---------------- JSON API ---------------------------------------------------

func (h *AlbumHandler) listAlbumsAPI(c echo.Context, _ *validation.NoParams) ([]model.Album, error) {
	return h.albums.List(c.Request().Context())
}

func (h *AlbumHandler) getAlbumAPI(c echo.Context, req *validation.AlbumIDParam) (*model.Album, error) {
	return h.albums.Get(c.Request().Context(), req.AlbumID())
}

// ListAlbumsAPI handles GET /api/albums.
func (h *AlbumHandler) ListAlbumsAPI() echo.HandlerFunc {
	return Handle(h.Handler, h.listAlbumsAPI, http.StatusOK, newNoParams)
}

// GetAlbumAPI handles GET /api/albums/:id.
func (h *AlbumHandler) GetAlbumAPI() echo.HandlerFunc {
	return Handle(h.Handler, h.getAlbumAPI, http.StatusOK, newAlbumIDParam)
}

// CreateAlbumAPI handles POST /api/albums and answers 201 with the album.
func (h *AlbumHandler) CreateAlbumAPI() echo.HandlerFunc {
	return Handle(h.Handler, h.createAlbum, http.StatusCreated, h.newForm)
}
