package validation

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/deppfellow/media-library/internal/model"
	"github.com/go-playground/validator/v10"
)

const (
	// DatePurchasedInPast is reported on the "date" field.
	DatePurchasedInPast = "Date purchased cannot be in the past"

	// InvalidGenreChoice is reported on the "genre" field when the id does
	// not reference a stored genre.
	InvalidGenreChoice = "Select a valid choice. That choice is not one of the available choices."
)

// AlbumForm is the submitted album creation form. Every field is kept as
// submitted so a failed form can be re-rendered with the user's input.
//
// Date is the optional "date purchased". It is checked but never stored;
// date_acquired is stored but only checked for format.
type AlbumForm struct {
	Title        string `form:"title" json:"title" validate:"required,max=250"`
	Artist       string `form:"artist" json:"artist" validate:"required,max=250"`
	DateAcquired string `form:"date_acquired" json:"date_acquired" validate:"required,datetime=2006-01-02"`
	Genre        string `form:"genre" json:"genre" validate:"required,number"`
	Date         string `form:"date" json:"date" validate:"omitempty,datetime=2006-01-02"`

	now func() time.Time
}

// errGenreNotParsed is returned by GenreID when the form has not passed
// Validate.
var errGenreNotParsed = errors.New("genre is not a valid id")

// NewAlbumForm returns an empty form that reads the current time from now.
// A nil now uses time.Now.
func NewAlbumForm(now func() time.Time) *AlbumForm {
	return &AlbumForm{now: now}
}

func (f *AlbumForm) normalize() {
	f.Title = strings.TrimSpace(f.Title)
	f.Artist = strings.TrimSpace(f.Artist)
	f.DateAcquired = strings.TrimSpace(f.DateAcquired)
	f.Genre = strings.TrimSpace(f.Genre)
	f.Date = strings.TrimSpace(f.Date)
}

func (f *AlbumForm) today() time.Time {
	now := time.Now()
	if f.now != nil {
		now = f.now()
	}
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
}

// Validate applies the tag rules and the date purchased rule. All failing
// fields are reported together.
func (f *AlbumForm) Validate() error {
	f.normalize()

	var problems CustomValidationErrors

	if err := Struct(f); err != nil {
		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			return err
		}
		for _, fe := range validationErrors {
			problems = append(problems, CustomValidationError{
				Field:   fe.Field(),
				Message: fieldMessage(fe),
			})
		}
	}

	// The number tag accepts digit strings of any length.
	if !problems.has("genre") {
		if _, err := strconv.ParseInt(f.Genre, 10, 64); err != nil {
			problems = append(problems, CustomValidationError{
				Field:   "genre",
				Message: InvalidGenreChoice,
			})
		}
	}

	if f.Date != "" {
		today := f.today()
		purchased, err := time.ParseInLocation(model.DateLayout, f.Date, today.Location())
		if err == nil && purchased.Before(today) {
			problems = append(problems, CustomValidationError{
				Field:   "date",
				Message: DatePurchasedInPast,
			})
		}
	}

	if len(problems) > 0 {
		return problems
	}
	return nil
}

// GenreID returns the submitted genre id. Call after Validate succeeds.
func (f *AlbumForm) GenreID() (int64, error) {
	id, err := strconv.ParseInt(f.Genre, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", errGenreNotParsed, f.Genre)
	}
	return id, nil
}

// Album converts a validated form into an unsaved album.
func (f *AlbumForm) Album() (*model.Album, error) {
	acquired, err := time.Parse(model.DateLayout, f.DateAcquired)
	if err != nil {
		return nil, err
	}
	genreID, err := f.GenreID()
	if err != nil {
		return nil, err
	}

	return &model.Album{
		Title:        f.Title,
		Artist:       f.Artist,
		DateAcquired: acquired,
		GenreID:      genreID,
	}, nil
}
