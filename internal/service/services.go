// Package service contains the business logic.
//
// It sits between the handler and repository layers.
// It receives validated data from the handler, performs
// business operations, and calls repository methods to interact
// with the data
package service

import (
	"github.com/deppfellow/media-library/internal/lib/job"
	"github.com/deppfellow/media-library/internal/repository"
	"github.com/deppfellow/media-library/internal/server"
)

type Services struct {
	Album *AlbumService
	Genre *GenreService
	Job   *job.JobService
}

func NewServices(s *server.Server, repos *repository.Repositories) *Services {
	// Keep jobs a nil interface when the job service is absent.
	var jobs job.Enqueuer
	if s.Job != nil {
		jobs = s.Job.Client
	}

	return &Services{
		Album: NewAlbumService(repos.Album, repos.Genre, jobs),
		Genre: NewGenreService(repos.Genre),
		Job:   s.Job,
	}
}
