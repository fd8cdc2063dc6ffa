package email

// PreviewData contains sample template data for local preview/testing.
//
// It maps:
//
//	templateName -> (templateVariableName -> exampleValue)
//
// Example:
//
//	PreviewData["album_acquired"]["AlbumTitle"] == "Abbey Road"
var PreviewData = map[string]map[string]string{
	string(TemplateAlbumAcquired): {
		"AlbumTitle":   "Abbey Road",
		"Artist":       "The Beatles",
		"Genre":        "Rock",
		"DateAcquired": "2024-01-01",
		"AlbumURL":     "/albums/1",
	},
}
