// Package content resolves page content blocks by composite keys and
// owns the default block templates used for seeding.
package content

import (
	"strings"

	"github.com/mreeves/fosterhub/internal/hierarchy"
	"github.com/mreeves/fosterhub/internal/model"
)

// Static page keys addressable without a location
const (
	PageHome    = "home"
	PageAbout   = "about"
	PageContact = "contact"
	PagePrivacy = "privacy"
	PageTerms   = "terms"
)

// StaticPages lists every fixed page key in seed order
var StaticPages = []string{PageHome, PageAbout, PageContact, PagePrivacy, PageTerms}

// locationKeyPrefix is the canonical prefix for location page keys.
// legacyKeyPrefix is the old single-level form kept readable for rows
// written before key derivation was unified.
const (
	locationKeyPrefix = "loc_"
	legacyKeyPrefix   = "location_"
)

// PageKeyForChain derives the canonical page key for a location from its
// full ancestry chain: loc_<root-slug>/.../<leaf-slug>. Every read and
// write path for location content goes through this one function.
func PageKeyForChain(chain []model.Location) string {
	return locationKeyPrefix + strings.Join(hierarchy.PathSlugs(chain), "/")
}

// LegacyPageKey is the retired single-level key form, location_<slug>.
// Only the read fallback and the key migration use it.
func LegacyPageKey(loc *model.Location) string {
	return legacyKeyPrefix + loc.Slug
}

// IsStaticPage reports whether key is one of the fixed page keys
func IsStaticPage(key string) bool {
	for _, p := range StaticPages {
		if key == p {
			return true
		}
	}
	return false
}

// IsLocationKey reports whether key addresses a location page under
// either the canonical or the legacy scheme.
func IsLocationKey(key string) bool {
	return strings.HasPrefix(key, locationKeyPrefix) || strings.HasPrefix(key, legacyKeyPrefix)
}

// IsCanonicalLocationKey reports whether key is a canonical location
// page key. Legacy-form keys stay readable but are never a write target.
func IsCanonicalLocationKey(key string) bool {
	return strings.HasPrefix(key, locationKeyPrefix)
}
