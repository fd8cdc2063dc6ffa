package service

import (
	"context"

	"github.com/deppfellow/media-library/internal/model"
	"github.com/deppfellow/media-library/internal/repository"
)

// GenreService exposes the genre choices.
type GenreService struct {
	genres repository.GenreRepository
}

func NewGenreService(genres repository.GenreRepository) *GenreService {
	return &GenreService{genres: genres}
}

// List returns all genres ordered by name.
func (s *GenreService) List(ctx context.Context) ([]model.Genre, error) {
	return s.genres.ListAll(ctx)
}
