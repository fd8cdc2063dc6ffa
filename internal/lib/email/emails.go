package email

import "fmt"

// AlbumAcquired describes a newly catalogued album for the curator email.
type AlbumAcquired struct {
	ID           int64
	Title        string
	Artist       string
	Genre        string
	DateAcquired string
}

// SendAlbumAcquiredEmail tells the curator a new album was catalogued.
func (c *Client) SendAlbumAcquiredEmail(to string, album AlbumAcquired) error {
	// Data keys must match what the HTML template expects.
	data := map[string]string{
		"AlbumTitle":   album.Title,
		"Artist":       album.Artist,
		"Genre":        album.Genre,
		"DateAcquired": album.DateAcquired,
		"AlbumURL":     fmt.Sprintf("/albums/%d", album.ID),
	}

	return c.SendEmail(
		to,
		fmt.Sprintf("New album: %s by %s", album.Title, album.Artist),
		TemplateAlbumAcquired,
		data,
	)
}
