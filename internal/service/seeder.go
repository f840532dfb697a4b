package service

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/mreeves/fosterhub/internal/content"
	"github.com/mreeves/fosterhub/internal/hierarchy"
	"github.com/mreeves/fosterhub/internal/store"
)

// SeedStats tracks how much the seeder inserted
type SeedStats struct {
	Pages    int
	Inserted int
	Failed   int
}

// Seeder creates the default content blocks for every page that is
// missing them. Safe to re-run: already-seeded pages insert nothing.
type Seeder struct {
	locationStore *store.LocationStore
	contentStore  *store.ContentStore
	logger        *log.Logger
}

// NewSeeder creates a new Seeder
func NewSeeder(locationStore *store.LocationStore, contentStore *store.ContentStore) *Seeder {
	return &Seeder{
		locationStore: locationStore,
		contentStore:  contentStore,
		logger:        log.New(os.Stdout, "", log.LstdFlags),
	}
}

// SeedAll seeds the static pages and every active location page
func (s *Seeder) SeedAll(ctx context.Context) (*SeedStats, error) {
	stats := &SeedStats{}

	for _, pageKey := range content.StaticPages {
		if err := s.seedPage(ctx, pageKey, content.StaticPageTemplate, stats); err != nil {
			return stats, err
		}
	}

	locations, err := s.locationStore.GetAll(ctx)
	if err != nil {
		return stats, err
	}

	chains, err := hierarchy.BuildChainIndex(locations)
	if err != nil {
		return stats, fmt.Errorf("failed to build location chains: %w", err)
	}

	for _, loc := range locations {
		if !loc.IsActive {
			continue
		}

		select {
		case <-ctx.Done():
			return stats, ctx.Err()
		default:
		}

		pageKey := content.PageKeyForChain(chains[loc.ID])
		if err := s.seedPage(ctx, pageKey, content.LocationPageTemplate, stats); err != nil {
			s.logger.Printf("Failed to seed %s: %v", pageKey, err)
			stats.Failed++
		}
	}

	return stats, nil
}

// SeedPage seeds a single page with the template matching its category
func (s *Seeder) SeedPage(ctx context.Context, pageKey string) (int, error) {
	return s.contentStore.SeedDefaults(ctx, pageKey, content.TemplateForPage(pageKey))
}

func (s *Seeder) seedPage(ctx context.Context, pageKey string, tmpl []content.TemplateBlock, stats *SeedStats) error {
	inserted, err := s.contentStore.SeedDefaults(ctx, pageKey, tmpl)
	if err != nil {
		return err
	}

	stats.Pages++
	stats.Inserted += inserted
	if inserted > 0 {
		s.logger.Printf("Seeded %s: %d blocks", pageKey, inserted)
	}
	return nil
}

// PrintSummary logs the seed results
func (s *Seeder) PrintSummary(stats *SeedStats) {
	s.logger.Println("")
	s.logger.Println("=== Seed Summary ===")
	s.logger.Printf("Pages visited:    %d", stats.Pages)
	s.logger.Printf("Blocks inserted:  %d", stats.Inserted)
	s.logger.Printf("Failed:           %d", stats.Failed)
}
