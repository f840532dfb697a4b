package handlers

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/gofiber/fiber/v2"

	"github.com/mreeves/fosterhub/internal/cache"
	"github.com/mreeves/fosterhub/internal/content"
	"github.com/mreeves/fosterhub/internal/model"
	"github.com/mreeves/fosterhub/internal/service"
	"github.com/mreeves/fosterhub/internal/store"
)

// blockJSON is the public shape of a content block
type blockJSON struct {
	ID           int64           `json:"id"`
	PageKey      string          `json:"page_key"`
	BlockKey     string          `json:"block_key"`
	BlockType    model.BlockType `json:"block_type"`
	Title        string          `json:"title"`
	Content      string          `json:"content"`
	Metadata     json.RawMessage `json:"metadata,omitempty"`
	DisplayOrder int             `json:"display_order"`
	IsActive     bool            `json:"is_active"`
}

func blockToJSON(b *model.ContentBlock) blockJSON {
	return blockJSON{
		ID:           b.ID,
		PageKey:      b.PageKey,
		BlockKey:     b.BlockKey,
		BlockType:    b.BlockType,
		Title:        b.Title,
		Content:      b.Content.String,
		Metadata:     b.Metadata,
		DisplayOrder: b.DisplayOrder,
		IsActive:     b.IsActive,
	}
}

func blocksToJSON(blocks []model.ContentBlock) []blockJSON {
	out := make([]blockJSON, len(blocks))
	for i := range blocks {
		out[i] = blockToJSON(&blocks[i])
	}
	return out
}

// PageContentHandler serves a static page's active blocks and FAQs
func PageContentHandler(contentStore *store.ContentStore, faqStore *store.FAQStore, c2 *cache.Cache) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := context.Background()

		pageKey := c.Params("key")
		if !content.IsStaticPage(pageKey) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Page not found"})
		}

		cacheKey := cache.Key("content", pageKey)
		if cached, ok := c2.GetContent(cacheKey); ok {
			return c.JSON(cached)
		}

		blocks, err := contentStore.GetBlocksForPage(ctx, pageKey)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error loading content"})
		}

		faqs, err := faqStore.GetForPage(ctx, pageKey)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error loading FAQs"})
		}

		payload := fiber.Map{
			"page_key": pageKey,
			"blocks":   blocksToJSON(activeBlocks(blocks)),
			"faqs":     faqsToJSON(faqs),
		}
		c2.SetContent(cacheKey, payload)
		return c.JSON(payload)
	}
}

// AdminListBlocksHandler lists every block for a page key, inactive ones
// included. The key arrives as a query parameter because canonical
// location keys contain slashes.
func AdminListBlocksHandler(contentStore *store.ContentStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := context.Background()

		pageKey := c.Query("page_key")
		if pageKey == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing page_key"})
		}

		blocks, err := contentStore.GetBlocksForPage(ctx, pageKey)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error loading blocks"})
		}
		return c.JSON(fiber.Map{"page_key": pageKey, "blocks": blocksToJSON(blocks)})
	}
}

// blockRequest is the admin payload for creating/updating a block
type blockRequest struct {
	PageKey      string          `json:"page_key"`
	BlockKey     string          `json:"block_key"`
	BlockType    model.BlockType `json:"block_type"`
	Title        string          `json:"title"`
	Content      string          `json:"content"`
	Metadata     json.RawMessage `json:"metadata"`
	DisplayOrder int             `json:"display_order"`
	IsActive     *bool           `json:"is_active"`
}

// AdminUpsertBlockHandler creates or updates a block addressed by
// (page_key, block_key) and invalidates the page's cached content.
func AdminUpsertBlockHandler(contentStore *store.ContentStore, c2 *cache.Cache) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := context.Background()

		var req blockRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}
		if req.PageKey == "" || req.BlockKey == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "page_key and block_key are required"})
		}
		if req.BlockType == "" {
			req.BlockType = model.BlockText
		}

		block := model.ContentBlock{
			PageKey:      req.PageKey,
			BlockKey:     req.BlockKey,
			BlockType:    req.BlockType,
			Title:        req.Title,
			Metadata:     req.Metadata,
			DisplayOrder: req.DisplayOrder,
			IsActive:     true,
		}
		if req.Content != "" {
			block.Content = sql.NullString{String: req.Content, Valid: true}
		}
		if req.IsActive != nil {
			block.IsActive = *req.IsActive
		}

		if err := contentStore.UpsertBlock(ctx, &block); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error saving block"})
		}

		c2.InvalidateContent(cache.Key("content", block.PageKey))
		c2.InvalidateLocations()
		c2.InvalidateStats()
		return c.JSON(blockToJSON(&block))
	}
}

// AdminSetBlockActiveHandler toggles a block's active flag
func AdminSetBlockActiveHandler(contentStore *store.ContentStore, c2 *cache.Cache) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := context.Background()

		id, err := c.ParamsInt("id")
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid block id"})
		}

		var req struct {
			IsActive bool `json:"is_active"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}

		block, err := contentStore.GetBlock(ctx, int64(id))
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error loading block"})
		}
		if block == nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Block not found"})
		}

		if err := contentStore.SetBlockActive(ctx, int64(id), req.IsActive); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error updating block"})
		}

		c2.InvalidateContent(cache.Key("content", block.PageKey))
		c2.InvalidateLocations()
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// AdminDeleteBlockHandler removes a block
func AdminDeleteBlockHandler(contentStore *store.ContentStore, c2 *cache.Cache) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := context.Background()

		id, err := c.ParamsInt("id")
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid block id"})
		}

		block, err := contentStore.GetBlock(ctx, int64(id))
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error loading block"})
		}
		if block == nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Block not found"})
		}

		if err := contentStore.DeleteBlock(ctx, int64(id)); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error deleting block"})
		}

		c2.InvalidateContent(cache.Key("content", block.PageKey))
		c2.InvalidateLocations()
		c2.InvalidateStats()
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// AdminSeedPageHandler seeds the default blocks for one page. Returns
// how many blocks were inserted; zero means the page was already seeded.
func AdminSeedPageHandler(seeder *service.Seeder, c2 *cache.Cache) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := context.Background()

		pageKey := c.Query("page_key")
		if pageKey == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing page_key"})
		}
		// Only static pages and canonical location keys are seedable;
		// the legacy key form is read-only.
		if !content.IsStaticPage(pageKey) && !content.IsCanonicalLocationKey(pageKey) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Unknown page key"})
		}

		inserted, err := seeder.SeedPage(ctx, pageKey)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error seeding page"})
		}

		c2.InvalidateContent(cache.Key("content", pageKey))
		c2.InvalidateLocations()
		c2.InvalidateStats()
		return c.JSON(fiber.Map{"page_key": pageKey, "inserted": inserted})
	}
}
