package handlers

import (
	"context"
	"encoding/xml"

	"github.com/gofiber/fiber/v2"

	"github.com/mreeves/fosterhub/internal/cache"
	"github.com/mreeves/fosterhub/internal/hierarchy"
	"github.com/mreeves/fosterhub/internal/store"
)

const xmlHeader = `<?xml version="1.0" encoding="UTF-8"?>`

type sitemapURL struct {
	XMLName    xml.Name `xml:"url"`
	Loc        string   `xml:"loc"`
	ChangeFreq string   `xml:"changefreq,omitempty"`
	Priority   float64  `xml:"priority,omitempty"`
}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

// SitemapHandler generates the sitemap from every active location's
// canonical path plus the static pages. The result lives in the
// locations cache so any location mutation drops it along with the
// listings it was built from.
func SitemapHandler(locationStore *store.LocationStore, baseURL string, c2 *cache.Cache) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := context.Background()

		key := cache.Key("location", "sitemap")
		if cached, ok := c2.GetLocation(key); ok {
			c.Set(fiber.HeaderContentType, "application/xml")
			return c.SendString(cached.(string))
		}

		locations, err := locationStore.GetAll(ctx)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error loading locations"})
		}

		chains, err := hierarchy.BuildChainIndex(locations)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error resolving location hierarchy"})
		}

		set := urlSet{XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9"}
		set.URLs = append(set.URLs,
			sitemapURL{Loc: baseURL + "/", ChangeFreq: "weekly", Priority: 1.0},
			sitemapURL{Loc: baseURL + "/about", ChangeFreq: "monthly", Priority: 0.5},
			sitemapURL{Loc: baseURL + "/contact", ChangeFreq: "monthly", Priority: 0.5},
		)

		for _, loc := range locations {
			if !loc.IsActive {
				continue
			}
			set.URLs = append(set.URLs, sitemapURL{
				Loc:        baseURL + hierarchy.BuildLocationPath(chains[loc.ID]),
				ChangeFreq: "weekly",
				Priority:   0.8,
			})
		}

		body, err := xml.MarshalIndent(set, "", "  ")
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error generating sitemap"})
		}

		out := xmlHeader + "\n" + string(body)
		c2.SetLocation(key, out)

		c.Set(fiber.HeaderContentType, "application/xml")
		return c.SendString(out)
	}
}
