package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/deppfellow/media-library/internal/config"
	"github.com/deppfellow/media-library/internal/database"
	"github.com/deppfellow/media-library/internal/errs"
	"github.com/deppfellow/media-library/internal/handler"
	"github.com/deppfellow/media-library/internal/model"
	"github.com/deppfellow/media-library/internal/repository"
	"github.com/deppfellow/media-library/internal/server"
	"github.com/deppfellow/media-library/internal/service"
	"github.com/deppfellow/media-library/internal/validation"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, mutate func(cfg *config.Config)) (*echo.Echo, *repository.Repositories) {
	t.Helper()
	logger := zerolog.Nop()

	cfg := &config.Config{
		Primary:       config.Primary{Env: "test"},
		Server:        config.ServerConfig{Port: "0"},
		Database:      config.DatabaseConfig{Driver: config.DriverSQLite, Path: ":memory:"},
		Observability: config.DefaultObservabilityConfig(),
	}
	if mutate != nil {
		mutate(cfg)
	}

	db, err := database.NewSQLite(cfg.Database.Path, &logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.Migrate(context.Background(), cfg))

	s := &server.Server{Config: cfg, Logger: &logger, DB: db}
	repos := repository.NewRepositories(s)
	services := service.NewServices(s, repos)

	e, err := NewRouter(s, handler.NewHandlers(s, services))
	require.NoError(t, err)
	return e, repos
}

func do(e *echo.Echo, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func get(e *echo.Echo, target string) *httptest.ResponseRecorder {
	return do(e, httptest.NewRequest(http.MethodGet, target, nil))
}

func postForm(e *echo.Echo, target string, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	return do(e, req)
}

func postJSON(e *echo.Echo, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return do(e, req)
}

func day(offset int) string {
	return time.Now().AddDate(0, 0, offset).Format(model.DateLayout)
}

func abbeyRoad(date string) url.Values {
	return url.Values{
		"title":         {"Abbey Road"},
		"artist":        {"The Beatles"},
		"date_acquired": {"2024-01-01"},
		"genre":         {"1"},
		"date":          {date},
	}
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errs.HTTPError {
	t.Helper()
	var body errs.HTTPError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestIndex(t *testing.T) {
	e, _ := newTestServer(t, nil)

	rec := get(e, "/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Helloworld displayed at "+time.Now().Format("2006-01-02"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestAlbumsRedirectToListing(t *testing.T) {
	e, _ := newTestServer(t, nil)

	rec := get(e, "/albums")
	assert.Equal(t, http.StatusMovedPermanently, rec.Code)
	assert.Equal(t, "/albums/", rec.Header().Get(echo.HeaderLocation))
}

func TestCreateAlbum_PastDateRejected(t *testing.T) {
	e, repos := newTestServer(t, nil)

	rec := postForm(e, "/albums/new", abbeyRoad(day(-1)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, validation.DatePurchasedInPast)
	assert.Contains(t, body, `value="Abbey Road"`)
	assert.Contains(t, body, `<option value="1" selected>Rock</option>`)

	albums, err := repos.Album.ListAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, albums)
}

func TestCreateAlbum_TodayAccepted(t *testing.T) {
	e, _ := newTestServer(t, nil)

	rec := postForm(e, "/albums/new", abbeyRoad(day(0)))
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/albums/", rec.Header().Get(echo.HeaderLocation))

	rec = get(e, "/albums/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `<a href="/albums/1">Abbey Road</a> by The Beatles`)

	rec = get(e, "/albums/1")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<h1>Abbey Road</h1>")
	assert.Contains(t, rec.Body.String(), "<dd>Rock</dd>")
}

func TestCreateAlbum_UnknownGenre(t *testing.T) {
	e, _ := newTestServer(t, nil)

	values := abbeyRoad("")
	values.Set("genre", "42")

	rec := postForm(e, "/albums/new", values)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Select a valid choice.")
}

func TestCreateAlbum_GenreOutOfRange(t *testing.T) {
	e, _ := newTestServer(t, nil)
	const huge = "99999999999999999999"

	values := abbeyRoad("")
	values.Set("genre", huge)

	rec := postForm(e, "/albums/new", values)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Select a valid choice.")
	assert.Contains(t, rec.Body.String(), `value="Abbey Road"`)

	rec = postJSON(e, "/api/albums",
		`{"title":"Kind of Blue","artist":"Miles Davis","date_acquired":"2024-02-02","genre":"`+huge+`"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, "VALIDATION_FAILED", body.Code)
	assert.Equal(t, []errs.FieldError{{Field: "genre", Error: validation.InvalidGenreChoice}}, body.Errors)
}

func TestCreateAlbum_MissingFields(t *testing.T) {
	e, _ := newTestServer(t, nil)

	rec := postForm(e, "/albums/new", url.Values{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 4, strings.Count(rec.Body.String(), "This field is required."))
}

func TestNewAlbumForm(t *testing.T) {
	e, _ := newTestServer(t, nil)

	rec := get(e, "/albums/new")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `<option value="3">Jazz</option>`)
	assert.NotContains(t, rec.Body.String(), "errorlist")
}

func TestViewAlbum_NotFound(t *testing.T) {
	e, _ := newTestServer(t, nil)
	require.Equal(t, http.StatusSeeOther, postForm(e, "/albums/new", abbeyRoad("")).Code)
	require.Equal(t, http.StatusOK, get(e, "/albums/1").Code)

	for _, target := range []string{"/albums/999", "/albums/abc", "/albums/+1", "/albums/-1"} {
		rec := get(e, target)
		assert.Equal(t, http.StatusNotFound, rec.Code, target)
		assert.Contains(t, rec.Body.String(), "Album not found", target)
		assert.Contains(t, rec.Header().Get(echo.HeaderContentType), echo.MIMETextHTML, target)
	}
}

func TestUnknownRoute(t *testing.T) {
	e, _ := newTestServer(t, nil)

	rec := get(e, "/api/nothing")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Route not found", decodeError(t, rec).Message)
}

func TestCascadeDeleteRemovesAlbumsFromListing(t *testing.T) {
	e, repos := newTestServer(t, nil)

	require.Equal(t, http.StatusSeeOther, postForm(e, "/albums/new", abbeyRoad("")).Code)

	removed, err := repos.Genre.CascadeDeleteByGenre(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	assert.Equal(t, http.StatusNotFound, get(e, "/albums/1").Code)
	assert.Contains(t, get(e, "/albums/").Body.String(), "No albums yet.")
}

func TestAPI_Albums(t *testing.T) {
	e, _ := newTestServer(t, nil)

	rec := postJSON(e, "/api/albums",
		`{"title":"Kind of Blue","artist":"Miles Davis","date_acquired":"2024-02-02","genre":"3"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created model.Album
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "Kind of Blue", created.Title)
	require.NotNil(t, created.Genre)
	assert.Equal(t, "Jazz", created.Genre.Name)

	rec = get(e, "/api/albums")
	assert.Equal(t, http.StatusOK, rec.Code)
	var albums []model.Album
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &albums))
	require.Len(t, albums, 1)
	assert.Equal(t, created.ID, albums[0].ID)

	rec = get(e, "/api/albums/1")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = get(e, "/api/albums/999")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, "ALBUM_NOT_FOUND", body.Code)
	assert.Equal(t, "Album not found", body.Message)
}

func TestAPI_CreateValidationErrors(t *testing.T) {
	e, _ := newTestServer(t, nil)

	rec := postJSON(e, "/api/albums",
		`{"title":"Kind of Blue","artist":"Miles Davis","date_acquired":"2024-02-02","genre":"3","date":"`+day(-1)+`"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	body := decodeError(t, rec)
	assert.Equal(t, "VALIDATION_FAILED", body.Code)
	assert.Equal(t, []errs.FieldError{{Field: "date", Error: validation.DatePurchasedInPast}}, body.Errors)
}

func TestAPI_Genres(t *testing.T) {
	e, _ := newTestServer(t, nil)

	rec := get(e, "/api/genres")
	assert.Equal(t, http.StatusOK, rec.Code)

	var genres []model.Genre
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &genres))
	assert.Len(t, genres, 8)
}

func TestStatus(t *testing.T) {
	e, _ := newTestServer(t, nil)

	rec := get(e, "/status")
	assert.Equal(t, http.StatusOK, rec.Code)

	var body handler.HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, "test", body.Environment)
	assert.Equal(t, "healthy", body.Checks["database"].Status)
	assert.NotContains(t, body.Checks, "redis")
}

func TestFormRateLimit(t *testing.T) {
	e, _ := newTestServer(t, func(cfg *config.Config) {
		cfg.Server.FormRateLimit = 1
	})

	assert.Equal(t, http.StatusSeeOther, postForm(e, "/albums/new", abbeyRoad("")).Code)
	assert.Equal(t, http.StatusTooManyRequests, postForm(e, "/albums/new", abbeyRoad("")).Code)

	// Page reads are not limited.
	assert.Equal(t, http.StatusOK, get(e, "/albums/").Code)
}
