package handlers

import (
	"context"
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"github.com/mreeves/fosterhub/internal/cache"
	"github.com/mreeves/fosterhub/internal/model"
	"github.com/mreeves/fosterhub/internal/store"
)

// faqJSON is the public shape of an FAQ
type faqJSON struct {
	ID           int64  `json:"id"`
	PageKey      string `json:"page_key,omitempty"`
	LocationID   int64  `json:"location_id,omitempty"`
	Question     string `json:"question"`
	Answer       string `json:"answer"`
	DisplayOrder int    `json:"display_order"`
	IsActive     bool   `json:"is_active"`
}

func faqToJSON(f *model.FAQ) faqJSON {
	return faqJSON{
		ID:           f.ID,
		PageKey:      f.PageKey.String,
		LocationID:   f.LocationID.Int64,
		Question:     f.Question,
		Answer:       f.Answer,
		DisplayOrder: f.DisplayOrder,
		IsActive:     f.IsActive,
	}
}

func faqsToJSON(faqs []model.FAQ) []faqJSON {
	out := make([]faqJSON, len(faqs))
	for i := range faqs {
		out[i] = faqToJSON(&faqs[i])
	}
	return out
}

// faqRequest is the admin payload for creating/updating an FAQ. Exactly
// one of page_key and location_id should be set.
type faqRequest struct {
	PageKey      string `json:"page_key"`
	LocationID   *int64 `json:"location_id"`
	Question     string `json:"question"`
	Answer       string `json:"answer"`
	DisplayOrder int    `json:"display_order"`
	IsActive     *bool  `json:"is_active"`
}

func (r *faqRequest) apply(f *model.FAQ) {
	if r.PageKey != "" {
		f.PageKey = sql.NullString{String: r.PageKey, Valid: true}
	} else {
		f.PageKey = sql.NullString{}
	}
	if r.LocationID != nil {
		f.LocationID = sql.NullInt64{Int64: *r.LocationID, Valid: true}
	} else {
		f.LocationID = sql.NullInt64{}
	}
	f.Question = r.Question
	f.Answer = r.Answer
	f.DisplayOrder = r.DisplayOrder
	f.IsActive = true
	if r.IsActive != nil {
		f.IsActive = *r.IsActive
	}
}

func (r *faqRequest) validate() string {
	if r.Question == "" || r.Answer == "" {
		return "question and answer are required"
	}
	if r.PageKey == "" && r.LocationID == nil {
		return "one of page_key or location_id is required"
	}
	return ""
}

func invalidateFAQ(c2 *cache.Cache, f *model.FAQ) {
	if f.PageKey.Valid {
		c2.InvalidateContent(cache.Key("content", f.PageKey.String))
	}
	c2.InvalidateLocations()
}

// AdminCreateFAQHandler creates an FAQ
func AdminCreateFAQHandler(faqStore *store.FAQStore, c2 *cache.Cache) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := context.Background()

		var req faqRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}
		if msg := req.validate(); msg != "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
		}

		var faq model.FAQ
		req.apply(&faq)

		if err := faqStore.Create(ctx, &faq); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error creating FAQ"})
		}

		invalidateFAQ(c2, &faq)
		return c.Status(fiber.StatusCreated).JSON(faqToJSON(&faq))
	}
}

// AdminUpdateFAQHandler updates an FAQ
func AdminUpdateFAQHandler(faqStore *store.FAQStore, c2 *cache.Cache) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := context.Background()

		id, err := c.ParamsInt("id")
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid FAQ id"})
		}

		faq, err := faqStore.GetByID(ctx, int64(id))
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error loading FAQ"})
		}
		if faq == nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "FAQ not found"})
		}

		var req faqRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}
		if msg := req.validate(); msg != "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
		}

		req.apply(faq)

		if err := faqStore.Update(ctx, faq); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error updating FAQ"})
		}

		invalidateFAQ(c2, faq)
		return c.JSON(faqToJSON(faq))
	}
}

// AdminDeleteFAQHandler removes an FAQ
func AdminDeleteFAQHandler(faqStore *store.FAQStore, c2 *cache.Cache) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := context.Background()

		id, err := c.ParamsInt("id")
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid FAQ id"})
		}

		faq, err := faqStore.GetByID(ctx, int64(id))
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error loading FAQ"})
		}
		if faq == nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "FAQ not found"})
		}

		if err := faqStore.Delete(ctx, int64(id)); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error deleting FAQ"})
		}

		invalidateFAQ(c2, faq)
		return c.SendStatus(fiber.StatusNoContent)
	}
}
