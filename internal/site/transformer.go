package site

import (
	"math"
	"net/url"
	"strings"
	"time"

	"github.com/bilgisen/haxsite/internal/models"
)

// Defaults for site fields missing from a payload.
const (
	DefaultSiteName    = "Unknown Site"
	DefaultDescription = "No description available."
	DefaultThemeName   = "Unknown Theme"
	DefaultDateLayout  = "1/2/2006"
	DefaultBaseDomain  = "https://haxtheweb.org"
)

// Transformer projects a validated payload onto descriptors.
type Transformer struct {
	// BaseDomain resolves relative asset paths (site logo, item images).
	BaseDomain string
	// PublicHost resolves item slugs and locations into links.
	PublicHost string
	DateLayout string
	Location   *time.Location
}

// NewTransformer fills empty settings with their defaults.
func NewTransformer(baseDomain, publicHost, dateLayout string) *Transformer {
	if baseDomain == "" {
		baseDomain = DefaultBaseDomain
	}
	if publicHost == "" {
		publicHost = DefaultBaseDomain
	}
	if dateLayout == "" {
		dateLayout = DefaultDateLayout
	}
	return &Transformer{
		BaseDomain: baseDomain,
		PublicHost: publicHost,
		DateLayout: dateLayout,
		Location:   time.Local,
	}
}

// Transform maps a payload that passed validation. Every field falls back to
// its default on its own, so the mapping never fails.
func (t *Transformer) Transform(p models.RawSitePayload) (models.SiteDescriptor, []models.ItemDescriptor) {
	return t.site(p), t.items(p)
}

func (t *Transformer) site(p models.RawSitePayload) models.SiteDescriptor {
	site := p.Metadata().Get("site")
	logo, _ := site.Get("logo").Text()

	return models.SiteDescriptor{
		Name:        textOr(site.Get("name"), DefaultSiteName),
		Description: textOr(p.Description(), DefaultDescription),
		LogoURL:     joinURL(t.BaseDomain, logo),
		ThemeName:   textOr(p.Metadata().Get("theme").Get("name"), DefaultThemeName),
		CreatedDate: t.date(site.Get("created")),
		UpdatedDate: t.date(site.Get("updated")),
	}
}

func (t *Transformer) items(p models.RawSitePayload) []models.ItemDescriptor {
	nodes, _ := p.Items().Array()
	items := make([]models.ItemDescriptor, 0, len(nodes))
	for _, n := range nodes {
		items = append(items, t.item(n))
	}
	return items
}

func (t *Transformer) item(n models.Node) models.ItemDescriptor {
	meta := n.Get("metadata")
	title, _ := n.Get("title").Text()
	description, _ := n.Get("description").Text()

	return models.ItemDescriptor{
		Title:       title,
		Image:       t.link(t.BaseDomain, meta.Get("images").Index(0)),
		Description: description,
		LastUpdated: textOr(meta.Get("updated"), models.NotAvailable),
		PrimaryLink: t.link(t.PublicHost, n.Get("slug")),
		SourceLink:  t.link(t.PublicHost, n.Get("location")),
	}
}

func (t *Transformer) link(base string, n models.Node) models.Link {
	ref, ok := n.Text()
	if !ok || ref == "" {
		return models.NoLink
	}
	return models.LinkTo(joinURL(base, ref))
}

// date formats Unix seconds as a calendar date. Zero, missing and
// non-numeric values are reported as not available.
func (t *Transformer) date(n models.Node) string {
	secs, ok := n.Float()
	if !ok || secs == 0 {
		return models.NotAvailable
	}
	ms := int64(math.Round(secs * 1000))
	loc := t.Location
	if loc == nil {
		loc = time.Local
	}
	return time.UnixMilli(ms).In(loc).Format(t.DateLayout)
}

func textOr(n models.Node, fallback string) string {
	if s, ok := n.Text(); ok && s != "" {
		return s
	}
	return fallback
}

// joinURL resolves ref against base. Absolute http(s) references are kept
// as they are; an empty ref yields the base followed by a slash.
func joinURL(base, ref string) string {
	if u, err := url.Parse(ref); err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != "" {
		return ref
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(ref, "/")
}
