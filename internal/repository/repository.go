// Package repository handles all interactions with the database.
//
// It contains the SQL for albums and genres behind two small interfaces,
// with one implementation per supported driver (PostgreSQL via pgx, SQLite
// via database/sql). Missing rows are returned as errors tagged through
// sqlerr.WrapNotFound so the error handler can answer 404.
package repository

import (
	"context"

	"github.com/deppfellow/media-library/internal/model"
)

const (
	albumTable = "album"
	genreTable = "genre"
)

// AlbumRepository persists albums. Reads populate Album.Genre.
type AlbumRepository interface {
	ListAll(ctx context.Context) ([]model.Album, error)
	GetByID(ctx context.Context, id int64) (*model.Album, error)
	Insert(ctx context.Context, album *model.Album) error
}

// GenreRepository persists genres.
type GenreRepository interface {
	ListAll(ctx context.Context) ([]model.Genre, error)
	GetByID(ctx context.Context, id int64) (*model.Genre, error)
	Insert(ctx context.Context, genre *model.Genre) error

	// CascadeDeleteByGenre deletes the genre and, through the foreign key,
	// every album referencing it. It returns the number of albums removed.
	CascadeDeleteByGenre(ctx context.Context, id int64) (int64, error)
}
