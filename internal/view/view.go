// Package view renders snapshots as HTML: a metadata panel followed by one
// card per item.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/bilgisen/haxsite/internal/models"
)

// DisabledHref is rendered for links the payload did not provide.
const DisabledHref = "#"

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// Card holds the primitive fields a card renders. It has no behaviour of
// its own.
type Card struct {
	Title       string
	Image       string
	Description string
	LastUpdated string
	OpenContent string
	OpenSource  string
}

// Page is the data behind one rendered page.
type Page struct {
	// Input pre-fills the URL field.
	Input string
	// Interactive shows the analyze form; static exports leave it off.
	Interactive bool
	// Site is nil until a snapshot with a site name exists.
	Site  *models.SiteDescriptor
	Cards []Card
}

// NewPage builds the page for snap. Panel and cards are only filled when the
// snapshot carries a site name.
func NewPage(snap *models.Snapshot, interactive bool) Page {
	p := Page{Interactive: interactive}
	if !snap.Renderable() {
		return p
	}
	site := snap.Site
	p.Site = &site
	p.Cards = Cards(snap.Items)
	p.Input = snap.SourceURL
	return p
}

// Cards projects items onto cards, keeping their order.
func Cards(items []models.ItemDescriptor) []Card {
	cards := make([]Card, 0, len(items))
	for _, it := range items {
		img, _ := it.Image.Href()
		cards = append(cards, Card{
			Title:       it.Title,
			Image:       img,
			Description: it.Description,
			LastUpdated: it.LastUpdated,
			OpenContent: href(it.PrimaryLink),
			OpenSource:  href(it.SourceLink),
		})
	}
	return cards
}

func href(l models.Link) string {
	if u, ok := l.Href(); ok {
		return u
	}
	return DisabledHref
}

// Render writes the page as HTML.
func Render(w io.Writer, p Page) error {
	if err := pageTemplate.ExecuteTemplate(w, "page", p); err != nil {
		return fmt.Errorf("render page: %w", err)
	}
	return nil
}

// RenderBytes renders into memory so a failed render never emits a partial page.
func RenderBytes(p Page) ([]byte, error) {
	var buf bytes.Buffer
	if err := Render(&buf, p); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
