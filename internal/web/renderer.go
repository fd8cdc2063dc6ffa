// Package web renders the HTML pages.
//
// Pages are html/template files embedded in the binary. Each page is parsed
// together with layout.html and exposes sprig's helper functions.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"

	"github.com/Masterminds/sprig/v3"
	"github.com/labstack/echo/v4"
)

//go:embed templates/*.html
var files embed.FS

const layoutFile = "templates/layout.html"

// Page names accepted by Renderer.Render.
const (
	PageIndex      = "index"
	PageListAlbums = "list_albums"
	PageViewAlbum  = "view_album"
	PageNewAlbum   = "new_album"
	PageError      = "error"
)

// Pages lists every page the handlers render.
var Pages = []string{PageIndex, PageListAlbums, PageViewAlbum, PageNewAlbum, PageError}

// Renderer implements echo.Renderer over the embedded templates.
type Renderer struct {
	pages map[string]*template.Template
}

// NewRenderer parses every page in templates/ against the shared layout.
func NewRenderer() (*Renderer, error) {
	layout, err := template.New("layout.html").
		Funcs(sprig.HtmlFuncMap()).
		ParseFS(files, layoutFile)
	if err != nil {
		return nil, fmt.Errorf("parsing layout: %w", err)
	}

	entries, err := fs.Glob(files, "templates/*.html")
	if err != nil {
		return nil, err
	}

	r := &Renderer{pages: make(map[string]*template.Template, len(entries))}
	for _, entry := range entries {
		if entry == layoutFile {
			continue
		}

		page, err := layout.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := page.ParseFS(files, entry); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", entry, err)
		}

		r.pages[strings.TrimSuffix(path.Base(entry), ".html")] = page
	}

	return r, nil
}

// Render executes the layout with the named page's blocks.
func (r *Renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	page, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("template %q not found", name)
	}
	return page.ExecuteTemplate(w, "layout.html", data)
}

// Has reports whether a page with the given name exists.
func (r *Renderer) Has(name string) bool {
	_, ok := r.pages[name]
	return ok
}
