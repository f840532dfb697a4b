package cmd

import (
	"context"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/mreeves/fosterhub/internal/service"
	"github.com/mreeves/fosterhub/internal/store"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed default content blocks for every page",
	Long: `Seed inserts the default content block set for each static page and
each active location page. Seeding is idempotent: pages that already
have their blocks are left untouched and rerunning never duplicates.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		db, err := store.NewDB(databaseURL())
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()

		if err := store.Migrate(ctx, db); err != nil {
			log.Fatalf("Failed to migrate database: %v", err)
		}

		locationStore := store.NewLocationStore(db)
		contentStore := store.NewContentStore(db)
		seeder := service.NewSeeder(locationStore, contentStore)

		log.Println("Seeding default content blocks...")
		stats, err := seeder.SeedAll(ctx)
		if err != nil {
			log.Fatalf("Seeding failed: %v", err)
		}
		seeder.PrintSummary(stats)

		if stats.Failed > 0 {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
