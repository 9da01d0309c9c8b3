package site

import "strings"

const (
	// DefaultResourceFile is the document every site publishes its metadata in.
	DefaultResourceFile = "site.json"
	// DefaultSecureScheme is prepended to inputs that lack it.
	DefaultSecureScheme = "https://"
)

// Normalizer turns what a user typed into the URL of a site document.
type Normalizer struct {
	ResourceFile string
	SecureScheme string
}

// NewNormalizer returns a Normalizer with the default file name and scheme
// filled in for empty arguments.
func NewNormalizer(resourceFile, secureScheme string) Normalizer {
	if resourceFile == "" {
		resourceFile = DefaultResourceFile
	}
	if secureScheme == "" {
		secureScheme = DefaultSecureScheme
	}
	return Normalizer{ResourceFile: resourceFile, SecureScheme: secureScheme}
}

// Normalize appends "/<resource file>" unless the input already ends with it,
// then prepends the secure scheme unless the result already starts with it.
// Empty input is not rejected; the transport reports it.
func (n Normalizer) Normalize(raw string) string {
	u := raw
	if !strings.HasSuffix(u, n.ResourceFile) {
		u += "/" + n.ResourceFile
	}
	if !strings.HasPrefix(u, n.SecureScheme) {
		u = n.SecureScheme + u
	}
	return u
}

// NormalizeURL normalizes with the default resource file and scheme.
func NormalizeURL(raw string) string {
	return NewNormalizer("", "").Normalize(raw)
}
