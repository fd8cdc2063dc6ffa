package handler

import (
	"github.com/deppfellow/media-library/internal/server"
	"github.com/deppfellow/media-library/internal/validation"
	"github.com/deppfellow/media-library/internal/web"
	"github.com/labstack/echo/v4"
)

// indexTimeLayout prints the server time with microseconds.
const indexTimeLayout = "2006-01-02 15:04:05.000000"

// IndexPage is the data of the landing page.
type IndexPage struct {
	Message string
}

// IndexHandler serves the landing page.
type IndexHandler struct {
	Handler
}

func NewIndexHandler(s *server.Server) *IndexHandler {
	return &IndexHandler{Handler: NewHandler(s)}
}

func (h *IndexHandler) index(c echo.Context, _ *validation.NoParams) (*IndexPage, error) {
	return &IndexPage{Message: "Helloworld displayed at " + h.now().Format(indexTimeLayout)}, nil
}

// Index handles GET /.
func (h *IndexHandler) Index() echo.HandlerFunc {
	return HandlePage(h.Handler, h.index, web.PageIndex, newNoParams)
}
