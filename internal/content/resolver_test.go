package content

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mreeves/fosterhub/internal/model"
)

func nullStr(s string) sql.NullString {
	return sql.NullString{String: s, Valid: true}
}

func TestResolveMatch(t *testing.T) {
	blocks := []model.ContentBlock{
		{PageKey: "about", BlockKey: "hero", Title: "X", Content: nullStr("welcome"), IsActive: true},
	}

	r := Resolve(blocks, "hero", Fallback{Title: "fallback", Content: "fallback body"})
	assert.True(t, r.Found)
	assert.Equal(t, "X", r.Title)
	assert.Equal(t, "welcome", r.Content)
}

func TestResolveAbsent(t *testing.T) {
	blocks := []model.ContentBlock{
		{PageKey: "about", BlockKey: "hero", Title: "X", IsActive: true},
	}

	r := Resolve(blocks, "mission", Fallback{Title: "Our mission", Content: "default copy"})
	assert.False(t, r.Found)
	assert.Equal(t, "Our mission", r.Title)
	assert.Equal(t, "default copy", r.Content)
}

func TestResolveSkipsInactive(t *testing.T) {
	blocks := []model.ContentBlock{
		{BlockKey: "hero", Title: "hidden", IsActive: false},
	}

	r := Resolve(blocks, "hero", Fallback{Title: "shown"})
	assert.False(t, r.Found)
	assert.Equal(t, "shown", r.Title)
}

func TestResolveSeededEmptyUsesFallbackContent(t *testing.T) {
	// A seeded block has a title but empty content; the fallback fills
	// only the missing part.
	blocks := []model.ContentBlock{
		{BlockKey: "hero", Title: "Seeded title", IsActive: true},
	}

	r := Resolve(blocks, "hero", Fallback{Title: "fb title", Content: "fb body"})
	assert.True(t, r.Found)
	assert.Equal(t, "Seeded title", r.Title)
	assert.Equal(t, "fb body", r.Content)
}

func TestResolveFirstMatchWins(t *testing.T) {
	blocks := []model.ContentBlock{
		{BlockKey: "hero", Title: "first", IsActive: true},
		{BlockKey: "hero", Title: "second", IsActive: true},
	}

	r := Resolve(blocks, "hero", Fallback{})
	assert.Equal(t, "first", r.Title)
}

func TestMissingBlocks(t *testing.T) {
	existing := []model.ContentBlock{
		{BlockKey: "hero"},
		{BlockKey: "cta"},
	}

	missing := MissingBlocks(existing, StaticPageTemplate)
	require.Len(t, missing, 2)
	assert.Equal(t, "intro", missing[0].BlockKey)
	assert.Equal(t, "body", missing[1].BlockKey)

	// a fully seeded page has nothing missing
	var all []model.ContentBlock
	for _, tb := range StaticPageTemplate {
		all = append(all, model.ContentBlock{BlockKey: tb.BlockKey})
	}
	assert.Empty(t, MissingBlocks(all, StaticPageTemplate))
}

func TestPageKeyForChain(t *testing.T) {
	chain := []model.Location{
		{Slug: "england"},
		{Slug: "south-east"},
		{Slug: "surrey"},
	}
	assert.Equal(t, "loc_england/south-east/surrey", PageKeyForChain(chain))
}

func TestLegacyPageKey(t *testing.T) {
	loc := model.Location{Slug: "surrey"}
	assert.Equal(t, "location_surrey", LegacyPageKey(&loc))
}

func TestKeyPredicates(t *testing.T) {
	assert.True(t, IsStaticPage("about"))
	assert.False(t, IsStaticPage("loc_england"))
	assert.True(t, IsLocationKey("loc_england/surrey"))
	assert.True(t, IsLocationKey("location_surrey"))
	assert.False(t, IsLocationKey("about"))
	assert.True(t, IsCanonicalLocationKey("loc_england/surrey"))
	assert.False(t, IsCanonicalLocationKey("location_surrey"))
	assert.False(t, IsCanonicalLocationKey("about"))
}

func TestTemplateForPage(t *testing.T) {
	assert.Equal(t, StaticPageTemplate, TemplateForPage("about"))
	assert.Equal(t, LocationPageTemplate, TemplateForPage("loc_england/surrey"))
	assert.Equal(t, LocationPageTemplate, TemplateForPage("location_surrey"))
}
