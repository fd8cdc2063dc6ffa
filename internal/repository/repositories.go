package repository

import (
	"github.com/deppfellow/media-library/internal/database"
	"github.com/deppfellow/media-library/internal/server"
)

// Repositories is a container for all repository instances.
type Repositories struct {
	Album AlbumRepository
	Genre GenreRepository
}

// NewRepositories constructs the repositories for the server's database.
func NewRepositories(s *server.Server) *Repositories {
	return ForDatabase(s.DB)
}

// ForDatabase picks the implementation matching the database driver.
func ForDatabase(db *database.Database) *Repositories {
	if db.Pool != nil {
		return &Repositories{
			Album: NewPgAlbumRepository(db.Pool),
			Genre: NewPgGenreRepository(db.Pool),
		}
	}
	return &Repositories{
		Album: NewSQLiteAlbumRepository(db.SQL),
		Genre: NewSQLiteGenreRepository(db.SQL),
	}
}
