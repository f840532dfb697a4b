package handlers

import (
	"context"
	"database/sql"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gosimple/slug"

	"github.com/mreeves/fosterhub/internal/cache"
	"github.com/mreeves/fosterhub/internal/content"
	"github.com/mreeves/fosterhub/internal/hierarchy"
	"github.com/mreeves/fosterhub/internal/model"
	"github.com/mreeves/fosterhub/internal/store"
)

// locationJSON is the public shape of a location
type locationJSON struct {
	ID             int64              `json:"id"`
	Name           string             `json:"name"`
	Slug           string             `json:"slug"`
	Type           model.LocationType `json:"type"`
	Path           string             `json:"path,omitempty"`
	Description    string             `json:"description,omitempty"`
	SEOTitle       string             `json:"seo_title,omitempty"`
	SEODescription string             `json:"seo_description,omitempty"`
	Population     int64              `json:"population,omitempty"`
	AgencyCount    int                `json:"agency_count"`
}

func locationToJSON(l *model.Location) locationJSON {
	return locationJSON{
		ID:             l.ID,
		Name:           l.Name,
		Slug:           l.Slug,
		Type:           l.Type,
		Description:    l.Description.String,
		SEOTitle:       l.SEOTitle.String,
		SEODescription: l.SEODescription.String,
		Population:     l.Population.Int64,
		AgencyCount:    l.AgencyCount,
	}
}

func locationsToJSON(locs []model.Location) []locationJSON {
	out := make([]locationJSON, len(locs))
	for i := range locs {
		out[i] = locationToJSON(&locs[i])
	}
	return out
}

// LocationRootsHandler lists the top-level locations
func LocationRootsHandler(locationStore *store.LocationStore, c2 *cache.Cache) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := context.Background()

		key := cache.Key("location", "roots")
		if cached, ok := c2.GetLocation(key); ok {
			return c.JSON(cached)
		}

		roots, err := locationStore.GetRoots(ctx)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error loading locations"})
		}

		payload := fiber.Map{"locations": locationsToJSON(roots)}
		c2.SetLocation(key, payload)
		return c.JSON(payload)
	}
}

// LocationDetailHandler resolves a full location path and returns the
// location, its ancestry, children, content, FAQs and agencies. Any
// missing path segment is a terminal not-found for the request.
func LocationDetailHandler(locationStore *store.LocationStore, contentStore *store.ContentStore, faqStore *store.FAQStore, agencyStore *store.AgencyStore, c2 *cache.Cache) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := context.Background()

		path := strings.Trim(c.Params("*"), "/")
		if path == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing location path"})
		}
		slugs := strings.Split(path, "/")

		key := cache.Key("location", "detail", path)
		if cached, ok := c2.GetLocation(key); ok {
			return c.JSON(cached)
		}

		loc, err := locationStore.GetByPath(ctx, slugs)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error loading location"})
		}
		if loc == nil || !loc.IsActive {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Location not found"})
		}

		chain, err := hierarchy.BuildAncestryChain(ctx, loc, locationStore.GetByID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error resolving location hierarchy"})
		}

		children, err := locationStore.GetChildren(ctx, loc.ID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error loading child locations"})
		}

		blocks, err := contentStore.GetBlocksForLocation(ctx, chain)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error loading content"})
		}

		hero := content.Resolve(blocks, "hero", content.Fallback{
			Title:   "Fostering in " + loc.Name,
			Content: "Find foster-care agencies serving " + loc.Name + " and the surrounding areas.",
		})
		intro := content.Resolve(blocks, "intro", content.Fallback{
			Title:   "About fostering in " + loc.Name,
			Content: "Every year, children in " + loc.Name + " need safe and caring foster homes.",
		})

		faqs, err := faqStore.GetForLocation(ctx, loc.ID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error loading FAQs"})
		}

		agencies, err := agencyStore.GetForLocation(ctx, loc.ID, true)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error loading agencies"})
		}

		detail := locationToJSON(loc)
		detail.Path = hierarchy.BuildLocationPath(chain)

		payload := fiber.Map{
			"location":         detail,
			"breadcrumbs":      hierarchy.Breadcrumbs(chain),
			"children":         locationsToJSON(children),
			"child_type_label": hierarchy.ChildTypeLabel(loc.Type),
			"page_key":         content.PageKeyForChain(chain),
			"hero":             hero,
			"intro":            intro,
			"blocks":           blocksToJSON(activeBlocks(blocks)),
			"faqs":             faqsToJSON(faqs),
			"agencies":         agenciesToJSON(agencies),
		}

		c2.SetLocation(key, payload)
		return c.JSON(payload)
	}
}

func activeBlocks(blocks []model.ContentBlock) []model.ContentBlock {
	out := make([]model.ContentBlock, 0, len(blocks))
	for _, b := range blocks {
		if b.IsActive {
			out = append(out, b)
		}
	}
	return out
}

// LocationSearchHandler finds locations by name fragment
func LocationSearchHandler(locationStore *store.LocationStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := context.Background()

		term := strings.TrimSpace(c.Query("q"))
		if term == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing search query"})
		}

		results, err := locationStore.Search(ctx, term, 10)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error searching locations"})
		}
		return c.JSON(fiber.Map{"results": locationsToJSON(results)})
	}
}

// locationRequest is the admin payload for creating/updating a location
type locationRequest struct {
	Name           string             `json:"name"`
	Slug           string             `json:"slug"`
	Type           model.LocationType `json:"type"`
	ParentID       *int64             `json:"parent_id"`
	Description    string             `json:"description"`
	SEOTitle       string             `json:"seo_title"`
	SEODescription string             `json:"seo_description"`
	Population     *int64             `json:"population"`
	Latitude       *float64           `json:"latitude"`
	Longitude      *float64           `json:"longitude"`
	IsActive       *bool              `json:"is_active"`
}

func (r *locationRequest) apply(l *model.Location) {
	l.Name = r.Name
	l.Type = r.Type
	if r.Slug != "" {
		l.Slug = r.Slug
	} else if l.Slug == "" {
		l.Slug = slug.Make(r.Name)
	}
	if r.ParentID != nil {
		l.ParentID = sql.NullInt64{Int64: *r.ParentID, Valid: true}
	} else {
		l.ParentID = sql.NullInt64{}
	}

	// Optional fields always track the request, so an update with an
	// empty or absent value clears the stored one back to NULL.
	l.Description = sql.NullString{}
	if r.Description != "" {
		l.Description = sql.NullString{String: r.Description, Valid: true}
	}
	l.SEOTitle = sql.NullString{}
	if r.SEOTitle != "" {
		l.SEOTitle = sql.NullString{String: r.SEOTitle, Valid: true}
	}
	l.SEODescription = sql.NullString{}
	if r.SEODescription != "" {
		l.SEODescription = sql.NullString{String: r.SEODescription, Valid: true}
	}
	l.Population = sql.NullInt64{}
	if r.Population != nil {
		l.Population = sql.NullInt64{Int64: *r.Population, Valid: true}
	}
	l.Latitude = sql.NullFloat64{}
	if r.Latitude != nil {
		l.Latitude = sql.NullFloat64{Float64: *r.Latitude, Valid: true}
	}
	l.Longitude = sql.NullFloat64{}
	if r.Longitude != nil {
		l.Longitude = sql.NullFloat64{Float64: *r.Longitude, Valid: true}
	}
	l.IsActive = true
	if r.IsActive != nil {
		l.IsActive = *r.IsActive
	}
}

// validateParent checks the permitted-parent invariant against the store
func validateParent(ctx context.Context, locationStore *store.LocationStore, req *locationRequest) error {
	var parentType model.LocationType
	if req.ParentID != nil {
		parent, err := locationStore.GetByID(ctx, *req.ParentID)
		if err != nil {
			return err
		}
		if parent == nil {
			return fiber.NewError(fiber.StatusBadRequest, "Parent location not found")
		}
		parentType = parent.Type
	}

	if err := hierarchy.ValidateParent(req.Type, parentType); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return nil
}

// CreateLocationHandler creates a location (admin)
func CreateLocationHandler(locationStore *store.LocationStore, c2 *cache.Cache) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := context.Background()

		var req locationRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}
		if req.Name == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Name is required"})
		}

		if err := validateParent(ctx, locationStore, &req); err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error validating parent"})
		}

		var loc model.Location
		req.apply(&loc)

		if err := locationStore.Create(ctx, &loc); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error creating location"})
		}

		c2.InvalidateLocations()
		c2.InvalidateStats()
		return c.Status(fiber.StatusCreated).JSON(locationToJSON(&loc))
	}
}

// UpdateLocationHandler updates a location (admin)
func UpdateLocationHandler(locationStore *store.LocationStore, c2 *cache.Cache) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := context.Background()

		id, err := c.ParamsInt("id")
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid location id"})
		}

		loc, err := locationStore.GetByID(ctx, int64(id))
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error loading location"})
		}
		if loc == nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Location not found"})
		}

		var req locationRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}
		if req.Name == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Name is required"})
		}

		if err := validateParent(ctx, locationStore, &req); err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error validating parent"})
		}

		req.apply(loc)

		if err := locationStore.Update(ctx, loc); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error updating location"})
		}

		c2.InvalidateLocations()
		return c.JSON(locationToJSON(loc))
	}
}

// DeleteLocationHandler deletes a childless location (admin). The child
// check happens before any delete reaches the store.
func DeleteLocationHandler(locationStore *store.LocationStore, c2 *cache.Cache) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := context.Background()

		id, err := c.ParamsInt("id")
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid location id"})
		}

		children, err := locationStore.CountChildren(ctx, int64(id))
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error checking children"})
		}
		if children > 0 {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Location still has child locations"})
		}

		if err := locationStore.Delete(ctx, int64(id)); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error deleting location"})
		}

		c2.InvalidateLocations()
		c2.InvalidateStats()
		return c.SendStatus(fiber.StatusNoContent)
	}
}
