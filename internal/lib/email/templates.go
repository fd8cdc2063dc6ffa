package email

// Template is a string-based enum naming email templates.
type Template string

const (
	// TemplateAlbumAcquired corresponds to templates/emails/album_acquired.html
	TemplateAlbumAcquired Template = "album_acquired"
)
