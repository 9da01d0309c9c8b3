package models

import (
	"encoding/json"
	"time"
)

// NotAvailable stands in for dates and timestamps missing from a payload.
const NotAvailable = "N/A"

// SiteDescriptor is the site metadata shown in the panel.
type SiteDescriptor struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	LogoURL     string `json:"logo_url"`
	ThemeName   string `json:"theme_name"`
	CreatedDate string `json:"created_date"`
	UpdatedDate string `json:"updated_date"`
}

// ItemDescriptor is one content item rendered as a card.
type ItemDescriptor struct {
	Title       string `json:"title"`
	Image       Link   `json:"image"`
	Description string `json:"description"`
	LastUpdated string `json:"last_updated"`
	PrimaryLink Link   `json:"primary_link"`
	SourceLink  Link   `json:"source_link"`
}

// Link is an absolute URL that may be absent.
type Link struct {
	href string
}

// LinkTo returns a present link. An empty href yields an absent link.
func LinkTo(href string) Link {
	return Link{href: href}
}

// NoLink is the absent link.
var NoLink = Link{}

// Href returns the URL and whether the link is present.
func (l Link) Href() (string, bool) {
	return l.href, l.href != ""
}

// Present reports whether the link has a target.
func (l Link) Present() bool {
	return l.href != ""
}

// MarshalJSON encodes an absent link as null.
func (l Link) MarshalJSON() ([]byte, error) {
	if l.href == "" {
		return []byte("null"), nil
	}
	return json.Marshal(l.href)
}

// UnmarshalJSON accepts a string or null.
func (l *Link) UnmarshalJSON(data []byte) error {
	var href *string
	if err := json.Unmarshal(data, &href); err != nil {
		return err
	}
	l.href = ""
	if href != nil {
		l.href = *href
	}
	return nil
}

// Snapshot is the complete view-model produced by one successful analyze
// action. Stores hand snapshots out by pointer; holders must not modify them.
type Snapshot struct {
	Site      SiteDescriptor   `json:"site"`
	Items     []ItemDescriptor `json:"items"`
	SourceURL string           `json:"source_url"`
	Trigger   uint64           `json:"trigger"`
	FetchedAt time.Time        `json:"fetched_at"`
}

// Renderable reports whether the snapshot carries a site worth showing.
func (s *Snapshot) Renderable() bool {
	return s != nil && s.Site.Name != ""
}
