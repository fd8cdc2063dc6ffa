package web

import (
	"bytes"
	"testing"
	"time"

	"github.com/deppfellow/media-library/internal/model"
	"github.com/deppfellow/media-library/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, name string, data any) string {
	t.Helper()
	r, err := NewRenderer()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, name, data, nil))
	return buf.String()
}

func TestNewRenderer_Pages(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	for _, page := range Pages {
		assert.True(t, r.Has(page), page)
	}
	assert.False(t, r.Has("layout"))
}

func TestRender_UnknownPage(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	var buf bytes.Buffer
	assert.Error(t, r.Render(&buf, "missing", nil, nil))
}

func TestRender_ListAlbums(t *testing.T) {
	out := render(t, PageListAlbums, map[string]any{
		"Albums": []model.Album{
			{ID: 4, Title: "Blue Train", Artist: "John Coltrane"},
		},
	})

	assert.Contains(t, out, "<title>Albums</title>")
	assert.Contains(t, out, `<a href="/albums/4">Blue Train</a> by John Coltrane`)
}

func TestRender_ListAlbumsEmpty(t *testing.T) {
	out := render(t, PageListAlbums, map[string]any{"Albums": []model.Album{}})
	assert.Contains(t, out, "No albums yet.")
}

func TestRender_ViewAlbum(t *testing.T) {
	out := render(t, PageViewAlbum, map[string]any{
		"Album": &model.Album{
			ID:           1,
			Title:        "Abbey Road",
			Artist:       "The Beatles",
			DateAcquired: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
			Genre:        &model.Genre{ID: 1, Name: "Rock"},
		},
	})

	assert.Contains(t, out, "<h1>Abbey Road</h1>")
	assert.Contains(t, out, "2024-01-01")
	assert.Contains(t, out, "<dd>Rock</dd>")
}

func TestRender_NewAlbumWithErrors(t *testing.T) {
	form := validation.NewAlbumForm(nil)
	form.Title = `Rock & "Roll"`
	form.Genre = "2"

	out := render(t, PageNewAlbum, map[string]any{
		"Form":   form,
		"Genres": []model.Genre{{ID: 1, Name: "Rock"}, {ID: 2, Name: "Pop"}},
		"Errors": map[string][]string{"date": {validation.DatePurchasedInPast}},
	})

	assert.Contains(t, out, `value="Rock &amp; &#34;Roll&#34;"`)
	assert.Contains(t, out, `<option value="2" selected>Pop</option>`)
	assert.Contains(t, out, `<option value="1">Rock</option>`)
	assert.Contains(t, out, `<ul class="errorlist"><li>Date purchased cannot be in the past</li></ul>`)
}

func TestRender_Error(t *testing.T) {
	out := render(t, PageError, map[string]any{
		"Status":  404,
		"Title":   "Not Found",
		"Message": "Album not found",
	})

	assert.Contains(t, out, "<title>404 Not Found</title>")
	assert.Contains(t, out, "<p>Album not found</p>")
}
