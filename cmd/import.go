package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mreeves/fosterhub/internal/service"
	"github.com/mreeves/fosterhub/internal/store"
)

var importFeedURL string

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import fostering providers from the Ofsted feed",
	Long: `Import downloads the Ofsted fostering providers feed, upserts agencies
by URN checksum and links them to matching locations by place name.

Examples:
  # Import from the default feed
  ./fosterhub import

  # Import from a mirror or a local test feed
  ./fosterhub import --feed-url https://example.com/providers.csv`,
	Run: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.Flags().StringVar(&importFeedURL, "feed-url", "", "Override the Ofsted feed URL")
}

func runImport(cmd *cobra.Command, args []string) {
	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Println("\nReceived interrupt signal, shutting down...")
		cancel()
	}()

	// Connect to database
	log.Println("Connecting to database...")
	db, err := store.NewDB(databaseURL())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := store.Migrate(ctx, db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// Create dependencies
	client := service.NewOfstedClient()
	if importFeedURL != "" {
		client = service.NewOfstedClientWithURL(importFeedURL)
	}
	parser := service.NewParser()
	agencyStore := store.NewAgencyStore(db)
	locationStore := store.NewLocationStore(db)
	importer := service.NewImporter(client, parser, agencyStore, locationStore)

	log.Println("Starting provider import...")
	stats, err := importer.Import(ctx)
	if err != nil {
		if ctx.Err() != nil {
			log.Println("Import cancelled")
			os.Exit(1)
		}
		log.Fatalf("Import failed: %v", err)
	}
	importer.PrintSummary(stats)

	// Refresh the directory metrics snapshot after each import
	log.Println("\nCalculating directory metrics...")
	metricsService := service.NewMetricsService(db)
	metrics, err := metricsService.CalculateAndStore(ctx)
	if err != nil {
		log.Printf("Warning: Failed to calculate metrics: %v", err)
	} else {
		log.Println("")
		log.Println("=== Directory Metrics ===")
		log.Printf("Total locations:  %d", metrics.TotalLocations)
		log.Printf("Total agencies:   %d", metrics.TotalAgencies)
		log.Printf("Seeded pages:     %d", metrics.SeededPages)
		log.Printf("Populated blocks: %d", metrics.PopulatedBlocks)
	}

	// Exit with error code if there were failures
	if stats.Failed > 0 {
		os.Exit(1)
	}
}
