package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/deppfellow/media-library/internal/model"
	"github.com/deppfellow/media-library/internal/sqlerr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const pgSelectAlbum = `
SELECT a.id, a.title, a.artist, a.date_acquired, a.genre_id, g.name
FROM album a
JOIN genre g ON g.id = a.genre_id`

// PgAlbumRepository stores albums in PostgreSQL.
type PgAlbumRepository struct {
	pool *pgxpool.Pool
}

func NewPgAlbumRepository(pool *pgxpool.Pool) *PgAlbumRepository {
	return &PgAlbumRepository{pool: pool}
}

func scanPgAlbum(row pgx.Row) (*model.Album, error) {
	var (
		album     model.Album
		genreName string
	)
	if err := row.Scan(&album.ID, &album.Title, &album.Artist, &album.DateAcquired, &album.GenreID, &genreName); err != nil {
		return nil, err
	}
	album.Genre = &model.Genre{ID: album.GenreID, Name: genreName}
	return &album, nil
}

func (r *PgAlbumRepository) ListAll(ctx context.Context) ([]model.Album, error) {
	rows, err := r.pool.Query(ctx, pgSelectAlbum+" ORDER BY a.id")
	if err != nil {
		return nil, fmt.Errorf("listing albums: %w", err)
	}
	defer rows.Close()

	albums := []model.Album{}
	for rows.Next() {
		album, err := scanPgAlbum(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning album: %w", err)
		}
		albums = append(albums, *album)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing albums: %w", err)
	}
	return albums, nil
}

func (r *PgAlbumRepository) GetByID(ctx context.Context, id int64) (*model.Album, error) {
	album, err := scanPgAlbum(r.pool.QueryRow(ctx, pgSelectAlbum+" WHERE a.id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, sqlerr.WrapNotFound(albumTable, err)
	}
	if err != nil {
		return nil, fmt.Errorf("getting album %d: %w", id, err)
	}
	return album, nil
}

func (r *PgAlbumRepository) Insert(ctx context.Context, album *model.Album) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO album (title, artist, date_acquired, genre_id)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		album.Title, album.Artist, album.DateAcquired, album.GenreID,
	).Scan(&album.ID)
	if err != nil {
		return fmt.Errorf("inserting album: %w", err)
	}
	return nil
}

// PgGenreRepository stores genres in PostgreSQL.
type PgGenreRepository struct {
	pool *pgxpool.Pool
}

func NewPgGenreRepository(pool *pgxpool.Pool) *PgGenreRepository {
	return &PgGenreRepository{pool: pool}
}

func (r *PgGenreRepository) ListAll(ctx context.Context) ([]model.Genre, error) {
	rows, err := r.pool.Query(ctx, "SELECT id, name FROM genre ORDER BY name, id")
	if err != nil {
		return nil, fmt.Errorf("listing genres: %w", err)
	}

	genres, err := pgx.CollectRows(rows, pgx.RowToStructByPos[model.Genre])
	if err != nil {
		return nil, fmt.Errorf("listing genres: %w", err)
	}
	return genres, nil
}

func (r *PgGenreRepository) GetByID(ctx context.Context, id int64) (*model.Genre, error) {
	var genre model.Genre
	err := r.pool.QueryRow(ctx, "SELECT id, name FROM genre WHERE id = $1", id).Scan(&genre.ID, &genre.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, sqlerr.WrapNotFound(genreTable, err)
	}
	if err != nil {
		return nil, fmt.Errorf("getting genre %d: %w", id, err)
	}
	return &genre, nil
}

func (r *PgGenreRepository) Insert(ctx context.Context, genre *model.Genre) error {
	err := r.pool.QueryRow(ctx, "INSERT INTO genre (name) VALUES ($1) RETURNING id", genre.Name).Scan(&genre.ID)
	if err != nil {
		return fmt.Errorf("inserting genre: %w", err)
	}
	return nil
}

// CascadeDeleteByGenre locks the genre row before removing its albums, so
// an album inserted concurrently either waits and then fails its foreign key
// or is already visible and counted.
func (r *PgGenreRepository) CascadeDeleteByGenre(ctx context.Context, id int64) (int64, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("beginning genre delete: %w", err)
	}
	defer tx.Rollback(ctx)

	var locked int64
	err = tx.QueryRow(ctx, "SELECT id FROM genre WHERE id = $1 FOR UPDATE", id).Scan(&locked)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, sqlerr.WrapNotFound(genreTable, err)
	}
	if err != nil {
		return 0, fmt.Errorf("locking genre %d: %w", id, err)
	}

	tag, err := tx.Exec(ctx, "DELETE FROM album WHERE genre_id = $1", id)
	if err != nil {
		return 0, fmt.Errorf("deleting albums for genre %d: %w", id, err)
	}
	albums := tag.RowsAffected()

	if _, err := tx.Exec(ctx, "DELETE FROM genre WHERE id = $1", id); err != nil {
		return 0, fmt.Errorf("deleting genre %d: %w", id, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("committing genre delete: %w", err)
	}
	return albums, nil
}
