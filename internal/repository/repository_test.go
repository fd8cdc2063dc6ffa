package repository

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/deppfellow/media-library/internal/database"
	"github.com/deppfellow/media-library/internal/errs"
	"github.com/deppfellow/media-library/internal/model"
	"github.com/deppfellow/media-library/internal/sqlerr"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// postgresDSNEnv points the suite at a disposable PostgreSQL database.
const postgresDSNEnv = "MEDIA_LIBRARY_TEST_POSTGRES_DSN"

func newSQLiteRepositories(t *testing.T) *Repositories {
	t.Helper()
	logger := zerolog.Nop()

	db, err := database.NewSQLite(":memory:", &logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, db.Migrate(context.Background(), nil))
	return ForDatabase(db)
}

func newPostgresRepositories(t *testing.T) *Repositories {
	t.Helper()
	dsn := os.Getenv(postgresDSNEnv)
	if dsn == "" {
		t.Skipf("%s not set", postgresDSNEnv)
	}
	logger := zerolog.Nop()
	ctx := context.Background()

	require.NoError(t, database.MigratePostgres(ctx, &logger, dsn))

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(ctx, "TRUNCATE album, genre RESTART IDENTITY CASCADE")
	require.NoError(t, err)

	return ForDatabase(&database.Database{Pool: pool})
}

func TestSQLiteRepositories(t *testing.T) {
	runRepositorySuite(t, newSQLiteRepositories)
}

func TestPostgresRepositories(t *testing.T) {
	runRepositorySuite(t, newPostgresRepositories)
}

func requireStatus(t *testing.T, err error, status int) {
	t.Helper()
	var httpErr *errs.HTTPError
	require.True(t, errors.As(sqlerr.HandleError(err), &httpErr))
	assert.Equal(t, status, httpErr.Status)
}

func newGenre(t *testing.T, repos *Repositories, name string) *model.Genre {
	t.Helper()
	genre := &model.Genre{Name: name}
	require.NoError(t, repos.Genre.Insert(context.Background(), genre))
	require.NotZero(t, genre.ID)
	return genre
}

func newAlbum(t *testing.T, repos *Repositories, title, artist string, genreID int64) *model.Album {
	t.Helper()
	album := &model.Album{
		Title:        title,
		Artist:       artist,
		DateAcquired: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		GenreID:      genreID,
	}
	require.NoError(t, repos.Album.Insert(context.Background(), album))
	require.NotZero(t, album.ID)
	return album
}

func runRepositorySuite(t *testing.T, setup func(t *testing.T) *Repositories) {
	ctx := context.Background()

	t.Run("InsertAndGet", func(t *testing.T) {
		repos := setup(t)
		genre := newGenre(t, repos, "Britpop")
		album := newAlbum(t, repos, "Abbey Road", "The Beatles", genre.ID)

		got, err := repos.Album.GetByID(ctx, album.ID)
		require.NoError(t, err)
		assert.Equal(t, "Abbey Road", got.Title)
		assert.Equal(t, "The Beatles", got.Artist)
		assert.Equal(t, "2024-01-01", got.DateAcquiredString())
		require.NotNil(t, got.Genre)
		assert.Equal(t, "Britpop", got.Genre.Name)
	})

	t.Run("ListAllOrderedByID", func(t *testing.T) {
		repos := setup(t)
		genre := newGenre(t, repos, "Jazz Fusion")
		first := newAlbum(t, repos, "Bitches Brew", "Miles Davis", genre.ID)
		second := newAlbum(t, repos, "Head Hunters", "Herbie Hancock", genre.ID)

		albums, err := repos.Album.ListAll(ctx)
		require.NoError(t, err)
		require.Len(t, albums, 2)
		assert.Equal(t, first.ID, albums[0].ID)
		assert.Equal(t, second.ID, albums[1].ID)
	})

	t.Run("ListAllEmpty", func(t *testing.T) {
		repos := setup(t)
		albums, err := repos.Album.ListAll(ctx)
		require.NoError(t, err)
		assert.NotNil(t, albums)
		assert.Empty(t, albums)
	})

	t.Run("GetMissingAlbum", func(t *testing.T) {
		repos := setup(t)
		_, err := repos.Album.GetByID(ctx, 424242)
		require.Error(t, err)
		requireStatus(t, err, http.StatusNotFound)
	})

	t.Run("InsertWithUnknownGenre", func(t *testing.T) {
		repos := setup(t)
		album := &model.Album{
			Title:        "Orphan",
			Artist:       "Nobody",
			DateAcquired: time.Now(),
			GenreID:      987654,
		}
		err := repos.Album.Insert(ctx, album)
		require.Error(t, err)
		requireStatus(t, err, http.StatusBadRequest)
	})

	t.Run("GenresListedByName", func(t *testing.T) {
		repos := setup(t)
		newGenre(t, repos, "Zydeco")

		genres, err := repos.Genre.ListAll(ctx)
		require.NoError(t, err)
		require.NotEmpty(t, genres)
		for i := 1; i < len(genres); i++ {
			assert.LessOrEqual(t, genres[i-1].Name, genres[i].Name)
		}
	})

	t.Run("CascadeDeleteByGenre", func(t *testing.T) {
		repos := setup(t)
		doomed := newGenre(t, repos, "Doomed")
		kept := newGenre(t, repos, "Kept")
		a1 := newAlbum(t, repos, "One", "Artist", doomed.ID)
		a2 := newAlbum(t, repos, "Two", "Artist", doomed.ID)
		survivor := newAlbum(t, repos, "Three", "Artist", kept.ID)

		removed, err := repos.Genre.CascadeDeleteByGenre(ctx, doomed.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(2), removed)

		for _, id := range []int64{a1.ID, a2.ID} {
			_, err := repos.Album.GetByID(ctx, id)
			requireStatus(t, err, http.StatusNotFound)
		}

		_, err = repos.Genre.GetByID(ctx, doomed.ID)
		requireStatus(t, err, http.StatusNotFound)

		got, err := repos.Album.GetByID(ctx, survivor.ID)
		require.NoError(t, err)
		assert.Equal(t, kept.ID, got.GenreID)

		// Every remaining album still resolves to an existing genre.
		albums, err := repos.Album.ListAll(ctx)
		require.NoError(t, err)
		for _, album := range albums {
			_, err := repos.Genre.GetByID(ctx, album.GenreID)
			assert.NoError(t, err)
		}
	})

	t.Run("CascadeDeleteCountsConcurrentInserts", func(t *testing.T) {
		repos := setup(t)
		contested := newGenre(t, repos, "Contested")
		newAlbum(t, repos, "Seed", "Artist", contested.ID)

		var inserted atomic.Int64
		inserted.Add(1)

		start := make(chan struct{})
		var wg sync.WaitGroup
		for i := range 8 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				<-start
				album := &model.Album{
					Title:        fmt.Sprintf("Take %d", i),
					Artist:       "Artist",
					DateAcquired: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
					GenreID:      contested.ID,
				}
				if repos.Album.Insert(ctx, album) == nil {
					inserted.Add(1)
				}
			}()
		}

		close(start)
		removed, err := repos.Genre.CascadeDeleteByGenre(ctx, contested.ID)
		require.NoError(t, err)
		wg.Wait()

		// Inserts that won the race were removed and counted; the rest
		// failed on the missing genre.
		assert.Equal(t, inserted.Load(), removed)

		albums, err := repos.Album.ListAll(ctx)
		require.NoError(t, err)
		for _, album := range albums {
			assert.NotEqual(t, contested.ID, album.GenreID)
		}
	})

	t.Run("CascadeDeleteMissingGenre", func(t *testing.T) {
		repos := setup(t)
		_, err := repos.Genre.CascadeDeleteByGenre(ctx, 999999)
		requireStatus(t, err, http.StatusNotFound)
	})
}
