package cmd

import (
	"context"
	"log"

	"github.com/spf13/cobra"

	"github.com/mreeves/fosterhub/internal/hierarchy"
	"github.com/mreeves/fosterhub/internal/store"
)

var migrateKeysCmd = &cobra.Command{
	Use:   "migrate-keys",
	Short: "Rewrite legacy content page keys to canonical path keys",
	Long: `Rewrite content blocks stored under the old slug-only page keys to the
canonical path-based keys. Where a canonical block already exists the
legacy copy is dropped. Safe to rerun; already-migrated pages are a
no-op.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		db, err := store.NewDB(databaseURL())
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()

		locationStore := store.NewLocationStore(db)
		contentStore := store.NewContentStore(db)

		locations, err := locationStore.GetAll(ctx)
		if err != nil {
			log.Fatalf("Failed to load locations: %v", err)
		}

		chains, err := hierarchy.BuildChainIndex(locations)
		if err != nil {
			log.Fatalf("Failed to resolve location hierarchy: %v", err)
		}

		migrated := 0
		moved := 0
		for _, loc := range locations {
			chain, ok := chains[loc.ID]
			if !ok {
				continue
			}
			n, err := contentStore.MigrateLegacyKey(ctx, chain)
			if err != nil {
				log.Fatalf("Failed to migrate keys for %s: %v", loc.Slug, err)
			}
			if n > 0 {
				migrated++
				moved += n
			}
		}

		log.Printf("Migrated %d pages (%d blocks moved)", migrated, moved)
	},
}

func init() {
	rootCmd.AddCommand(migrateKeysCmd)
}
