package handlers

import (
	"database/sql"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mreeves/fosterhub/internal/cache"
	"github.com/mreeves/fosterhub/internal/model"
	"github.com/mreeves/fosterhub/internal/service"
	"github.com/mreeves/fosterhub/internal/store"
)

var locationRowColumns = []string{
	"id", "name", "slug", "type", "parent_id", "description", "seo_title",
	"seo_description", "population", "latitude", "longitude", "is_active",
	"agency_count", "created_at", "updated_at",
}

func TestAgencyJSONHidesInternals(t *testing.T) {
	a := model.Agency{
		ID:       1,
		Name:     "Sunrise Fostering",
		Slug:     "sunrise-fostering",
		URN:      sql.NullString{String: "SC123456", Valid: true},
		Rating:   sql.NullString{String: "Good", Valid: true},
		Checksum: "d41d8cd98f00b204e9800998ecf8427e",
		IsActive: true,
	}

	body, err := json.Marshal(agencyToJSON(&a))
	require.NoError(t, err)

	assert.Contains(t, string(body), `"urn":"SC123456"`)
	assert.Contains(t, string(body), `"rating":"Good"`)
	assert.Contains(t, string(body), `"is_active":true`)
	assert.NotContains(t, string(body), "Valid")
	assert.NotContains(t, string(body), "checksum")
	assert.NotContains(t, string(body), "Checksum")
}

func TestFAQJSONFlattensNullables(t *testing.T) {
	f := model.FAQ{
		ID:       2,
		PageKey:  sql.NullString{String: "about", Valid: true},
		Question: "How long does approval take?",
		Answer:   "Usually four to six months.",
		IsActive: true,
	}

	body, err := json.Marshal(faqToJSON(&f))
	require.NoError(t, err)

	assert.Contains(t, string(body), `"page_key":"about"`)
	assert.NotContains(t, string(body), `"location_id"`)
	assert.NotContains(t, string(body), "Valid")
}

func TestBlockJSONFlattensContent(t *testing.T) {
	b := model.ContentBlock{
		ID:        3,
		PageKey:   "about",
		BlockKey:  "hero",
		BlockType: model.BlockHero,
		Title:     "Welcome",
		Content:   sql.NullString{String: "Body copy", Valid: true},
		IsActive:  true,
	}

	body, err := json.Marshal(blockToJSON(&b))
	require.NoError(t, err)

	assert.Contains(t, string(body), `"block_key":"hero"`)
	assert.Contains(t, string(body), `"content":"Body copy"`)
	assert.NotContains(t, string(body), "Valid")
}

func TestSeedPageRejectsUnknownKeys(t *testing.T) {
	app := fiber.New()
	app.Post("/seed", AdminSeedPageHandler(service.NewSeeder(nil, nil), cache.New()))

	for _, key := range []string{"foo", "location_surrey", "loc"} {
		req := httptest.NewRequest("POST", "/seed?page_key="+key, nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, "page_key %q", key)
	}

	req := httptest.NewRequest("POST", "/seed", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestSitemapRefreshesAfterLocationFlush(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	locationRow := func(slug, name string) *sqlmock.Rows {
		return sqlmock.NewRows(locationRowColumns).
			AddRow(int64(1), name, slug, "country", nil, nil, nil, nil,
				nil, nil, nil, true, 0, now, now)
	}

	mock.ExpectQuery(`(?s)SELECT (.+) FROM locations ORDER BY name`).
		WillReturnRows(locationRow("england", "England"))
	mock.ExpectQuery(`(?s)SELECT (.+) FROM locations ORDER BY name`).
		WillReturnRows(locationRow("albion", "Albion"))

	c2 := cache.New()
	app := fiber.New()
	app.Get("/sitemap.xml", SitemapHandler(store.NewLocationStore(db), "https://example.org", c2))

	resp, err := app.Test(httptest.NewRequest("GET", "/sitemap.xml", nil))
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "https://example.org/locations/england")

	// A location mutation flushes the locations cache; the next fetch
	// must rebuild the sitemap instead of serving the stale copy.
	c2.InvalidateLocations()

	resp, err = app.Test(httptest.NewRequest("GET", "/sitemap.xml", nil))
	require.NoError(t, err)
	body, err = io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "https://example.org/locations/albion")
	assert.NotContains(t, string(body), "https://example.org/locations/england")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLocationRequestClearsOptionalFields(t *testing.T) {
	loc := model.Location{
		Name:           "Guildford",
		Slug:           "guildford",
		Type:           model.TypeCity,
		Description:    sql.NullString{String: "old", Valid: true},
		SEOTitle:       sql.NullString{String: "old", Valid: true},
		SEODescription: sql.NullString{String: "old", Valid: true},
		Population:     sql.NullInt64{Int64: 80000, Valid: true},
		Latitude:       sql.NullFloat64{Float64: 51.24, Valid: true},
		Longitude:      sql.NullFloat64{Float64: -0.57, Valid: true},
	}

	req := locationRequest{Name: "Guildford", Type: model.TypeCity}
	req.apply(&loc)

	assert.False(t, loc.Description.Valid)
	assert.False(t, loc.SEOTitle.Valid)
	assert.False(t, loc.SEODescription.Valid)
	assert.False(t, loc.Population.Valid)
	assert.False(t, loc.Latitude.Valid)
	assert.False(t, loc.Longitude.Valid)
	assert.Equal(t, "guildford", loc.Slug)
}
