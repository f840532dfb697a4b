package handlers

import (
	"context"
	"database/sql"

	"github.com/gofiber/fiber/v2"
	"github.com/gosimple/slug"

	"github.com/mreeves/fosterhub/internal/cache"
	"github.com/mreeves/fosterhub/internal/model"
	"github.com/mreeves/fosterhub/internal/store"
)

// agencyJSON is the public shape of an agency. The import checksum is
// internal bookkeeping and never leaves the API.
type agencyJSON struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	URN         string `json:"urn,omitempty"`
	Description string `json:"description,omitempty"`
	Website     string `json:"website,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Email       string `json:"email,omitempty"`
	Rating      string `json:"rating,omitempty"`
	IsActive    bool   `json:"is_active"`
}

func agencyToJSON(a *model.Agency) agencyJSON {
	return agencyJSON{
		ID:          a.ID,
		Name:        a.Name,
		Slug:        a.Slug,
		URN:         a.URN.String,
		Description: a.Description.String,
		Website:     a.Website.String,
		Phone:       a.Phone.String,
		Email:       a.Email.String,
		Rating:      a.Rating.String,
		IsActive:    a.IsActive,
	}
}

func agenciesToJSON(agencies []model.Agency) []agencyJSON {
	out := make([]agencyJSON, len(agencies))
	for i := range agencies {
		out[i] = agencyToJSON(&agencies[i])
	}
	return out
}

// AgenciesHandler lists all active agencies
func AgenciesHandler(agencyStore *store.AgencyStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := context.Background()

		agencies, err := agencyStore.GetAll(ctx)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error loading agencies"})
		}
		return c.JSON(fiber.Map{"agencies": agenciesToJSON(agencies)})
	}
}

// AgencyDetailHandler retrieves one agency by slug
func AgencyDetailHandler(agencyStore *store.AgencyStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := context.Background()

		agency, err := agencyStore.GetBySlug(ctx, c.Params("slug"))
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error loading agency"})
		}
		if agency == nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Agency not found"})
		}
		return c.JSON(agencyToJSON(agency))
	}
}

// agencyRequest is the admin payload for creating/updating an agency
type agencyRequest struct {
	Name        string  `json:"name"`
	Slug        string  `json:"slug"`
	URN         string  `json:"urn"`
	Description string  `json:"description"`
	Website     string  `json:"website"`
	Phone       string  `json:"phone"`
	Email       string  `json:"email"`
	Rating      string  `json:"rating"`
	IsActive    *bool   `json:"is_active"`
	LocationIDs []int64 `json:"location_ids"`
}

// AdminUpsertAgencyHandler creates or updates an agency and relinks its
// served locations when location_ids is supplied.
func AdminUpsertAgencyHandler(agencyStore *store.AgencyStore, locationStore *store.LocationStore, c2 *cache.Cache) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := context.Background()

		var req agencyRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}
		if req.Name == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Name is required"})
		}
		if req.Slug == "" {
			req.Slug = slug.Make(req.Name)
		}

		agency := model.Agency{
			Name:     req.Name,
			Slug:     req.Slug,
			IsActive: true,
		}
		if req.URN != "" {
			agency.URN = sql.NullString{String: req.URN, Valid: true}
		}
		if req.Description != "" {
			agency.Description = sql.NullString{String: req.Description, Valid: true}
		}
		if req.Website != "" {
			agency.Website = sql.NullString{String: req.Website, Valid: true}
		}
		if req.Phone != "" {
			agency.Phone = sql.NullString{String: req.Phone, Valid: true}
		}
		if req.Email != "" {
			agency.Email = sql.NullString{String: req.Email, Valid: true}
		}
		if req.Rating != "" {
			agency.Rating = sql.NullString{String: req.Rating, Valid: true}
		}
		if req.IsActive != nil {
			agency.IsActive = *req.IsActive
		}

		if _, err := agencyStore.Upsert(ctx, &agency); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error saving agency"})
		}

		if req.LocationIDs != nil {
			if err := agencyStore.UnlinkLocations(ctx, agency.ID); err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error relinking locations"})
			}
			for _, locID := range req.LocationIDs {
				if err := agencyStore.LinkLocation(ctx, agency.ID, locID); err != nil {
					return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error relinking locations"})
				}
			}
			if err := locationStore.RefreshAgencyCounts(ctx); err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error refreshing agency counts"})
			}
		}

		c2.InvalidateLocations()
		c2.InvalidateStats()
		return c.JSON(agencyToJSON(&agency))
	}
}

// AdminDeleteAgencyHandler removes an agency and its location links
func AdminDeleteAgencyHandler(agencyStore *store.AgencyStore, locationStore *store.LocationStore, c2 *cache.Cache) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := context.Background()

		id, err := c.ParamsInt("id")
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid agency id"})
		}

		if err := agencyStore.Delete(ctx, int64(id)); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error deleting agency"})
		}
		if err := locationStore.RefreshAgencyCounts(ctx); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error refreshing agency counts"})
		}

		c2.InvalidateLocations()
		c2.InvalidateStats()
		return c.SendStatus(fiber.StatusNoContent)
	}
}
