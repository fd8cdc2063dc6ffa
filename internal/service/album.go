package service

import (
	"context"
	"fmt"

	"github.com/deppfellow/media-library/internal/errs"
	"github.com/deppfellow/media-library/internal/lib/job"
	"github.com/deppfellow/media-library/internal/model"
	"github.com/deppfellow/media-library/internal/repository"
	"github.com/deppfellow/media-library/internal/sqlerr"
	"github.com/deppfellow/media-library/internal/validation"
	"github.com/rs/zerolog"
)

// AlbumService holds the album catalogue use-cases.
type AlbumService struct {
	albums repository.AlbumRepository
	genres repository.GenreRepository

	// jobs is nil when background jobs are disabled.
	jobs job.Enqueuer
}

func NewAlbumService(albums repository.AlbumRepository, genres repository.GenreRepository, jobs job.Enqueuer) *AlbumService {
	return &AlbumService{albums: albums, genres: genres, jobs: jobs}
}

// List returns every album ordered by id.
func (s *AlbumService) List(ctx context.Context) ([]model.Album, error) {
	return s.albums.ListAll(ctx)
}

// Get returns the album with the given id.
func (s *AlbumService) Get(ctx context.Context, id int64) (*model.Album, error) {
	return s.albums.GetByID(ctx, id)
}

func invalidGenre() error {
	return errs.ValidationError([]errs.FieldError{
		{Field: "genre", Error: validation.InvalidGenreChoice},
	})
}

// Create stores the album described by a validated form.
//
// An unknown genre is reported as a field error on "genre", including when
// the genre disappears between the lookup and the insert. On success the
// album-acquired notification is queued; a queueing failure is only logged.
func (s *AlbumService) Create(ctx context.Context, form *validation.AlbumForm) (*model.Album, error) {
	album, err := form.Album()
	if err != nil {
		return nil, fmt.Errorf("converting album form: %w", err)
	}

	genre, err := s.genres.GetByID(ctx, album.GenreID)
	if sqlerr.IsNotFound(err) {
		return nil, invalidGenre()
	}
	if err != nil {
		return nil, err
	}

	if err := s.albums.Insert(ctx, album); err != nil {
		if sqlerr.ErrCode(err) == sqlerr.ForeignKeyViolation {
			return nil, invalidGenre()
		}
		return nil, err
	}
	album.Genre = genre

	logger := zerolog.Ctx(ctx)
	logger.Info().
		Int64("album_id", album.ID).
		Str("album", album.String()).
		Msg("album created")

	s.notifyAcquired(ctx, logger, album)

	return album, nil
}

func (s *AlbumService) notifyAcquired(ctx context.Context, logger *zerolog.Logger, album *model.Album) {
	if s.jobs == nil {
		return
	}

	task, err := job.NewAlbumAcquiredTask(album)
	if err != nil {
		logger.Error().Err(err).Msg("failed to build album acquired task")
		return
	}

	info, err := s.jobs.EnqueueContext(ctx, task)
	if err != nil {
		logger.Warn().Err(err).Int64("album_id", album.ID).Msg("failed to enqueue album acquired task")
		return
	}

	logger.Debug().Str("task_id", info.ID).Str("queue", info.Queue).Msg("album acquired task enqueued")
}
