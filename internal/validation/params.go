package validation

import (
	"strconv"

	"github.com/deppfellow/media-library/internal/errs"
)

// NoParams is the payload of routes that take no input.
type NoParams struct{}

func (NoParams) Validate() error { return nil }

// AlbumIDParam binds the :id path segment of album routes.
//
// Only positive integers can name an album, so anything else is reported
// as a missing album rather than a bad request.
type AlbumIDParam struct {
	ID string `param:"id"`

	id int64
}

func (p *AlbumIDParam) Validate() error {
	id, err := strconv.ParseInt(p.ID, 10, 64)
	if err != nil || id <= 0 || !digitsOnly(p.ID) {
		code := "ALBUM_NOT_FOUND"
		return errs.NewNotFoundError("Album not found", true, &code)
	}
	p.id = id
	return nil
}

// AlbumID returns the parsed id. Call after Validate succeeds.
func (p *AlbumIDParam) AlbumID() int64 {
	return p.id
}

// digitsOnly rejects the sign prefixes strconv.ParseInt accepts.
func digitsOnly(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
