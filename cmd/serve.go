package cmd

import (
	"context"
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/cobra"

	"github.com/mreeves/fosterhub/internal/cache"
	"github.com/mreeves/fosterhub/internal/handlers"
	"github.com/mreeves/fosterhub/internal/service"
	"github.com/mreeves/fosterhub/internal/store"
)

var port string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the FosterHub API server",
	Long:  `Start the JSON API behind the directory website and its admin panel.`,
	Run: func(cmd *cobra.Command, args []string) {
		// Use PORT env var if set, otherwise use flag value
		if envPort := os.Getenv("PORT"); envPort != "" && port == "8080" {
			port = envPort
		}

		db, err := store.NewDB(databaseURL())
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()

		if err := store.Migrate(context.Background(), db); err != nil {
			log.Fatalf("Failed to migrate database: %v", err)
		}

		// Initialize stores
		locationStore := store.NewLocationStore(db)
		contentStore := store.NewContentStore(db)
		faqStore := store.NewFAQStore(db)
		agencyStore := store.NewAgencyStore(db)
		seeder := service.NewSeeder(locationStore, contentStore)
		metrics := service.NewMetricsService(db)
		readCache := cache.New()

		baseURL := os.Getenv("SITE_BASE_URL")
		if baseURL == "" {
			baseURL = "https://www.fosterhub.co.uk"
		}

		app := fiber.New(fiber.Config{
			AppName: "FosterHub",
		})

		app.Use(recover.New())
		app.Use(logger.New())
		app.Use(cors.New())

		app.Get("/sitemap.xml", handlers.SitemapHandler(locationStore, baseURL, readCache))

		api := app.Group("/api/v1")

		api.Get("/health", func(c *fiber.Ctx) error {
			if err := db.PingContext(context.Background()); err != nil {
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "down"})
			}
			return c.JSON(fiber.Map{"status": "ok"})
		})

		// Public routes
		api.Get("/locations", handlers.LocationRootsHandler(locationStore, readCache))
		api.Get("/search/locations", handlers.LocationSearchHandler(locationStore))
		api.Get("/pages/:key", handlers.PageContentHandler(contentStore, faqStore, readCache))
		api.Get("/agencies", handlers.AgenciesHandler(agencyStore))
		api.Get("/agencies/:slug", handlers.AgencyDetailHandler(agencyStore))
		api.Get("/stats", handlers.StatsHandler(metrics, readCache))
		api.Get("/stats/history", handlers.StatsHistoryHandler(metrics))
		api.Get("/locations/*", handlers.LocationDetailHandler(locationStore, contentStore, faqStore, agencyStore, readCache))

		// Admin routes
		admin := api.Group("/admin")
		admin.Post("/locations", handlers.CreateLocationHandler(locationStore, readCache))
		admin.Put("/locations/:id", handlers.UpdateLocationHandler(locationStore, readCache))
		admin.Delete("/locations/:id", handlers.DeleteLocationHandler(locationStore, readCache))
		admin.Get("/content", handlers.AdminListBlocksHandler(contentStore))
		admin.Put("/content", handlers.AdminUpsertBlockHandler(contentStore, readCache))
		admin.Patch("/content/:id/active", handlers.AdminSetBlockActiveHandler(contentStore, readCache))
		admin.Delete("/content/:id", handlers.AdminDeleteBlockHandler(contentStore, readCache))
		admin.Post("/content/seed", handlers.AdminSeedPageHandler(seeder, readCache))
		admin.Post("/faqs", handlers.AdminCreateFAQHandler(faqStore, readCache))
		admin.Put("/faqs/:id", handlers.AdminUpdateFAQHandler(faqStore, readCache))
		admin.Delete("/faqs/:id", handlers.AdminDeleteFAQHandler(faqStore, readCache))
		admin.Put("/agencies", handlers.AdminUpsertAgencyHandler(agencyStore, locationStore, readCache))
		admin.Delete("/agencies/:id", handlers.AdminDeleteAgencyHandler(agencyStore, locationStore, readCache))

		log.Printf("Starting server on :%s", port)
		if err := app.Listen(":" + port); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVarP(&port, "port", "p", "8080", "Port to run the server on")
}
