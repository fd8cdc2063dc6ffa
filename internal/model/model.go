// Package model holds the catalogue's record types.
package model

import (
	"fmt"
	"time"
)

const (
	GenreNameMaxLength   = 50
	AlbumTitleMaxLength  = 250
	AlbumArtistMaxLength = 250

	// DateLayout is the calendar-date format used in forms, JSON and storage.
	DateLayout = "2006-01-02"
)

// Genre is a categorical tag referenced by one or more albums.
type Genre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func (g Genre) String() string {
	return g.Name
}

// Album is a catalogued music release.
//
// GenreID always references an existing genre; deleting the genre removes
// the album. Genre is populated by reads that join the genre table.
type Album struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Artist       string    `json:"artist"`
	DateAcquired time.Time `json:"date_acquired"`
	GenreID      int64     `json:"genre_id"`
	Genre        *Genre    `json:"genre,omitempty"`
}

func (a Album) String() string {
	return fmt.Sprintf("%s by %s", a.Title, a.Artist)
}

// DateAcquiredString formats DateAcquired as YYYY-MM-DD.
func (a Album) DateAcquiredString() string {
	return a.DateAcquired.Format(DateLayout)
}
