// Package handler is the first layer. The first entry point
// for business logic after the router.
//
// It parses requests, handles input validation using the
// validation package, and calls the appropriate service layer.
// It acts as the interface between the HTTP request and the core
// business logic.
package handler

import (
	"github.com/deppfellow/media-library/internal/server"
	"github.com/deppfellow/media-library/internal/service"
)

// Handlers is a container that groups all HTTP handlers, so router setup
// receives one object instead of many.
type Handlers struct {
	Index  *IndexHandler
	Album  *AlbumHandler
	Genre  *GenreHandler
	Health *HealthHandler
}

// NewHandlers constructs the handler container.
func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Index:  NewIndexHandler(s),
		Album:  NewAlbumHandler(s, services.Album, services.Genre),
		Genre:  NewGenreHandler(s, services.Genre),
		Health: NewHealthHandler(s),
	}
}
