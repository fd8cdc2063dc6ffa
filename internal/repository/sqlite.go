package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/deppfellow/media-library/internal/model"
	"github.com/deppfellow/media-library/internal/sqlerr"
)

const sqliteSelectAlbum = `
SELECT a.id, a.title, a.artist, a.date_acquired, a.genre_id, g.name
FROM album a
JOIN genre g ON g.id = a.genre_id`

type scanner interface {
	Scan(dest ...any) error
}

// SQLiteAlbumRepository stores albums in SQLite. Dates are stored as
// YYYY-MM-DD text.
type SQLiteAlbumRepository struct {
	db *sql.DB
}

func NewSQLiteAlbumRepository(db *sql.DB) *SQLiteAlbumRepository {
	return &SQLiteAlbumRepository{db: db}
}

func scanSQLiteAlbum(row scanner) (*model.Album, error) {
	var (
		album     model.Album
		acquired  string
		genreName string
	)
	if err := row.Scan(&album.ID, &album.Title, &album.Artist, &acquired, &album.GenreID, &genreName); err != nil {
		return nil, err
	}

	date, err := time.Parse(model.DateLayout, acquired)
	if err != nil {
		return nil, fmt.Errorf("parsing date_acquired %q: %w", acquired, err)
	}
	album.DateAcquired = date
	album.Genre = &model.Genre{ID: album.GenreID, Name: genreName}
	return &album, nil
}

func (r *SQLiteAlbumRepository) ListAll(ctx context.Context) ([]model.Album, error) {
	rows, err := r.db.QueryContext(ctx, sqliteSelectAlbum+" ORDER BY a.id")
	if err != nil {
		return nil, fmt.Errorf("listing albums: %w", err)
	}
	defer rows.Close()

	albums := []model.Album{}
	for rows.Next() {
		album, err := scanSQLiteAlbum(rows)
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

func (r *SQLiteAlbumRepository) GetByID(ctx context.Context, id int64) (*model.Album, error) {
	album, err := scanSQLiteAlbum(r.db.QueryRowContext(ctx, sqliteSelectAlbum+" WHERE a.id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sqlerr.WrapNotFound(albumTable, err)
	}
	if err != nil {
		return nil, fmt.Errorf("getting album %d: %w", id, err)
	}
	return album, nil
}

func (r *SQLiteAlbumRepository) Insert(ctx context.Context, album *model.Album) error {
	result, err := r.db.ExecContext(ctx,
		"INSERT INTO album (title, artist, date_acquired, genre_id) VALUES (?, ?, ?, ?)",
		album.Title, album.Artist, album.DateAcquiredString(), album.GenreID,
	)
	if err != nil {
		return fmt.Errorf("inserting album: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading album id: %w", err)
	}
	album.ID = id
	return nil
}

// SQLiteGenreRepository stores genres in SQLite.
type SQLiteGenreRepository struct {
	db *sql.DB
}

func NewSQLiteGenreRepository(db *sql.DB) *SQLiteGenreRepository {
	return &SQLiteGenreRepository{db: db}
}

func (r *SQLiteGenreRepository) ListAll(ctx context.Context) ([]model.Genre, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, name FROM genre ORDER BY name, id")
	if err != nil {
		return nil, fmt.Errorf("listing genres: %w", err)
	}
	defer rows.Close()

	genres := []model.Genre{}
	for rows.Next() {
		var genre model.Genre
		if err := rows.Scan(&genre.ID, &genre.Name); err != nil {
			return nil, fmt.Errorf("scanning genre: %w", err)
		}
		genres = append(genres, genre)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing genres: %w", err)
	}
	return genres, nil
}

func (r *SQLiteGenreRepository) GetByID(ctx context.Context, id int64) (*model.Genre, error) {
	var genre model.Genre
	err := r.db.QueryRowContext(ctx, "SELECT id, name FROM genre WHERE id = ?", id).Scan(&genre.ID, &genre.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sqlerr.WrapNotFound(genreTable, err)
	}
	if err != nil {
		return nil, fmt.Errorf("getting genre %d: %w", id, err)
	}
	return &genre, nil
}

func (r *SQLiteGenreRepository) Insert(ctx context.Context, genre *model.Genre) error {
	result, err := r.db.ExecContext(ctx, "INSERT INTO genre (name) VALUES (?)", genre.Name)
	if err != nil {
		return fmt.Errorf("inserting genre: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading genre id: %w", err)
	}
	genre.ID = id
	return nil
}

func (r *SQLiteGenreRepository) CascadeDeleteByGenre(ctx context.Context, id int64) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning genre delete: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, "DELETE FROM album WHERE genre_id = ?", id)
	if err != nil {
		return 0, fmt.Errorf("deleting albums for genre %d: %w", id, err)
	}
	albums, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("deleting albums for genre %d: %w", id, err)
	}

	result, err = tx.ExecContext(ctx, "DELETE FROM genre WHERE id = ?", id)
	if err != nil {
		return 0, fmt.Errorf("deleting genre %d: %w", id, err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("deleting genre %d: %w", id, err)
	}
	if deleted == 0 {
		return 0, sqlerr.WrapNotFound(genreTable, sql.ErrNoRows)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing genre delete: %w", err)
	}
	return albums, nil
}
