package validation

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/deppfellow/media-library/internal/errs"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, time.March, 15, 18, 30, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func abbeyRoad(date string) *AlbumForm {
	f := NewAlbumForm(clock)
	f.Title = "Abbey Road"
	f.Artist = "The Beatles"
	f.DateAcquired = "2024-01-01"
	f.Genre = "1"
	f.Date = date
	return f
}

func fieldErrors(t *testing.T, err error) map[string][]string {
	t.Helper()
	var httpErr *errs.HTTPError
	require.True(t, errors.As(Validate(formError{err}), &httpErr))
	return httpErr.FieldMessages()
}

// formError replays an already computed Validate result.
type formError struct{ err error }

func (f formError) Validate() error { return f.err }

func TestAlbumForm_DatePurchasedBoundary(t *testing.T) {
	tests := []struct {
		name    string
		date    string
		wantErr bool
	}{
		{"yesterday rejected", "2025-03-14", true},
		{"long ago rejected", "1969-09-26", true},
		{"today accepted", "2025-03-15", false},
		{"tomorrow accepted", "2025-03-16", false},
		{"omitted accepted", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := abbeyRoad(tt.date).Validate()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, []string{DatePurchasedInPast}, fieldErrors(t, err)["date"])
		})
	}
}

func TestAlbumForm_TodayAtMidnight(t *testing.T) {
	f := abbeyRoad("2025-03-15")
	f.now = func() time.Time { return time.Date(2025, time.March, 15, 23, 59, 59, 0, time.UTC) }
	assert.NoError(t, f.Validate())

	f.now = func() time.Time { return time.Date(2025, time.March, 16, 0, 0, 0, 0, time.UTC) }
	assert.Error(t, f.Validate())
}

func TestAlbumForm_DateAcquiredNotChecked(t *testing.T) {
	f := abbeyRoad("")
	f.DateAcquired = "1970-01-01"
	assert.NoError(t, f.Validate())
}

func TestAlbumForm_RequiredFields(t *testing.T) {
	f := NewAlbumForm(clock)
	err := f.Validate()
	require.Error(t, err)

	messages := fieldErrors(t, err)
	for _, field := range []string{"title", "artist", "date_acquired", "genre"} {
		assert.Equal(t, []string{"This field is required."}, messages[field], field)
	}
	assert.NotContains(t, messages, "date")
}

func TestAlbumForm_Lengths(t *testing.T) {
	f := abbeyRoad("")
	f.Title = strings.Repeat("a", 250)
	f.Artist = strings.Repeat("é", 250)
	assert.NoError(t, f.Validate())

	f.Title = strings.Repeat("a", 251)
	err := f.Validate()
	require.Error(t, err)
	assert.Equal(t,
		[]string{"Ensure this value has at most 250 characters (it has 251)."},
		fieldErrors(t, err)["title"])
}

func TestAlbumForm_Formats(t *testing.T) {
	f := abbeyRoad("15/03/2025")
	f.DateAcquired = "yesterday"
	f.Genre = "rock"

	messages := fieldErrors(t, f.Validate())
	assert.Equal(t, []string{"Enter a valid date."}, messages["date_acquired"])
	assert.Equal(t, []string{"Enter a valid date."}, messages["date"])
	assert.Equal(t, []string{"Enter a whole number."}, messages["genre"])
}

func TestAlbumForm_GenreOutOfRange(t *testing.T) {
	f := abbeyRoad("")
	f.Genre = "99999999999999999999"

	err := f.Validate()
	require.Error(t, err)
	assert.Equal(t, map[string][]string{"genre": {InvalidGenreChoice}}, fieldErrors(t, err))

	_, err = f.GenreID()
	assert.Error(t, err)
	_, err = f.Album()
	assert.Error(t, err)
}

func TestAlbumForm_Album(t *testing.T) {
	f := abbeyRoad("2025-03-15")
	f.Title = "  Abbey Road "
	require.NoError(t, f.Validate())

	album, err := f.Album()
	require.NoError(t, err)
	assert.Equal(t, "Abbey Road", album.Title)
	assert.Equal(t, "The Beatles", album.Artist)
	assert.Equal(t, "2024-01-01", album.DateAcquiredString())
	assert.Equal(t, int64(1), album.GenreID)
	genreID, err := f.GenreID()
	require.NoError(t, err)
	assert.Equal(t, int64(1), genreID)
	assert.Equal(t, "Abbey Road by The Beatles", album.String())
}

func TestBindAndValidate_Form(t *testing.T) {
	e := echo.New()
	body := url.Values{
		"title":         {"Abbey Road"},
		"artist":        {"The Beatles"},
		"date_acquired": {"2024-01-01"},
		"genre":         {"1"},
		"date":          {"2025-03-14"},
	}
	req := httptest.NewRequest(http.MethodPost, "/albums/new", strings.NewReader(body.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	c := e.NewContext(req, httptest.NewRecorder())

	f := NewAlbumForm(clock)
	err := BindAndValidate(c, f)

	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "VALIDATION_FAILED", httpErr.Code)
	assert.Equal(t, "Abbey Road", f.Title)
	assert.Equal(t, map[string][]string{"date": {DatePurchasedInPast}}, httpErr.FieldMessages())
}

func TestBindAndValidate_MalformedJSON(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/albums", strings.NewReader(`{"title":`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c := e.NewContext(req, httptest.NewRecorder())

	err := BindAndValidate(c, NewAlbumForm(clock))

	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Empty(t, httpErr.Errors)
}

func TestAlbumIDParam(t *testing.T) {
	p := &AlbumIDParam{ID: "12"}
	require.NoError(t, p.Validate())
	assert.Equal(t, int64(12), p.AlbumID())

	for _, raw := range []string{"abc", "", "-1", "+1", " 1", "0", "1.5", "99999999999999999999"} {
		err := (&AlbumIDParam{ID: raw}).Validate()

		var httpErr *errs.HTTPError
		require.True(t, errors.As(err, &httpErr), raw)
		assert.Equal(t, http.StatusNotFound, httpErr.Status)
		assert.Equal(t, "ALBUM_NOT_FOUND", httpErr.Code)
	}
}
