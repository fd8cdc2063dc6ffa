package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAlbumString(t *testing.T) {
	album := Album{
		Title:        "Abbey Road",
		Artist:       "The Beatles",
		DateAcquired: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
	}

	assert.Equal(t, "Abbey Road by The Beatles", album.String())
	assert.Equal(t, "2024-01-01", album.DateAcquiredString())
}

func TestGenreString(t *testing.T) {
	assert.Equal(t, "Rock", Genre{ID: 1, Name: "Rock"}.String())
}
